package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/casehistory/internal/purge"
	"github.com/roach88/casehistory/internal/store"
	"github.com/roach88/casehistory/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Assign deterministic ids and import the archive
// 3. Purge through a Recorder wrapping the store
// 4. Check the outcome against expect_error
// 5. Evaluate assertions and snapshot the remaining records
//
// The returned error reports harness failures; scenario failures are reported
// through Result.Pass and Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	archive := scenario.Archive
	if err := archive.Prepare(testutil.NewSequentialIDGenerator("gen")); err != nil {
		return nil, fmt.Errorf("invalid archive: %w", err)
	}
	if err := st.Import(ctx, &archive); err != nil {
		return nil, fmt.Errorf("failed to import archive: %w", err)
	}

	rec := NewRecorder(st)
	p := purge.New(purge.StoresFrom(rec),
		purge.Config{EntityLinksEnabled: scenario.EntityLinksEnabled},
		purge.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
	)

	var purgeErr error
	switch scenario.Purge.Mode {
	case ModeSingle:
		purgeErr = p.PurgeCaseInstance(ctx, scenario.Purge.IDs[0])
	case ModeBulk:
		purgeErr = p.PurgeCaseInstancesBulk(ctx, scenario.Purge.IDs)
	default:
		return nil, fmt.Errorf("unknown purge mode %q", scenario.Purge.Mode)
	}

	result := NewResult()
	result.Trace = rec.Calls()
	result.Outcome = outcome(purgeErr)

	switch {
	case scenario.ExpectError == "" && purgeErr != nil:
		result.AddError(fmt.Sprintf("purge failed: %v", purgeErr))
	case scenario.ExpectError != "" && result.Outcome != scenario.ExpectError:
		result.AddError(fmt.Sprintf("expected outcome %s, got %s", scenario.ExpectError, result.Outcome))
	}

	actx := &AssertionContext{Store: st, Ctx: ctx}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	snap, err := st.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot store: %w", err)
	}
	result.Remaining = snap

	return result, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case purge.IsNotFound(err):
		return OutcomeNotFound
	default:
		return OutcomeStorageFailure
	}
}
