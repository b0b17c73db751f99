package purge

import (
	"context"
	"testing"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/casehistory/internal/testutil"
)

func TestMetrics_InitIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		initPrometheusMetrics()
		initPrometheusMetrics()
	})
	require.NotNil(t, purgeDuration)
	require.NotNil(t, purgedCaseInstance)
	require.NotNil(t, purgeErrors)
}

func TestMetrics_CountPurgesAndErrors(t *testing.T) {
	initPrometheusMetrics()
	purgedBulk := purgedCaseInstance.WithLabelValues(string(ModeBulk))
	notFound := purgeErrors.WithLabelValues(string(ModeSingle), string(ErrCodeNotFound))
	beforePurged := promtestutil.ToFloat64(purgedBulk)
	beforeErrors := promtestutil.ToFloat64(notFound)

	f := newFakeBackend(testutil.CaseTree(testutil.Chain("C1", "C2"), "C1", "C2"))
	p := newTestPurger(f, Config{})

	require.NoError(t, p.PurgeCaseInstancesBulk(context.Background(), []string{"C1"}))
	require.Error(t, p.PurgeCaseInstance(context.Background(), "missing"))

	assert.Equal(t, beforePurged+2, promtestutil.ToFloat64(purgedBulk))
	assert.Equal(t, beforeErrors+1, promtestutil.ToFloat64(notFound))
}
