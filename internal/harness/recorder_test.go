package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/casehistory/internal/history"
	"github.com/roach88/casehistory/internal/store"
	"github.com/roach88/casehistory/internal/testutil"
)

func TestRecorder_RecordsAndDelegates(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Import(ctx, testutil.CaseTree(nil, "C1")))

	rec := NewRecorder(st)
	ms, err := rec.FindMilestones(ctx, "C1")
	require.NoError(t, err)
	require.Len(t, ms, 1)
	require.NoError(t, rec.BulkDeleteIdentityLinks(ctx, []string{"C1", "C2"}, history.ScopeCase))
	_, err = rec.GetCaseInstance(ctx, "missing")
	require.Error(t, err)

	calls := rec.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "FindMilestones(C1)", calls[0].String())
	assert.Equal(t, "BulkDeleteIdentityLinks([C1 C2], cmmn)", calls[1].String())
	assert.Equal(t, "GetCaseInstance(missing)", calls[2].String(), "failing calls are recorded")
	assert.Equal(t, 3, calls[2].Seq)

	counts, err := st.CountsForCase(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, 1, counts.IdentityLinks, "only the case-scoped link is deleted")

	rec.Reset()
	assert.Empty(t, rec.Calls())
}
