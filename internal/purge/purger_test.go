package purge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/casehistory/internal/history"
	"github.com/roach88/casehistory/internal/testutil"
)

// Compile-time check that the fake satisfies every collaborator.
var _ Backend = (*fakeBackend)(nil)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPurger(f *fakeBackend, cfg Config, opts ...Option) *Purger {
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return New(StoresFrom(f), cfg, opts...)
}

// singleCase returns an archive with case C1 holding two milestones, one plan
// item, one case variable and one task.
func singleCase() *history.Archive {
	return &history.Archive{
		CaseInstances: []history.CaseInstance{{ID: "C1"}},
		Milestones: []history.Milestone{
			{ID: "m1", CaseInstanceID: "C1"},
			{ID: "m2", CaseInstanceID: "C1"},
		},
		PlanItems: []history.PlanItem{{ID: "p1", CaseInstanceID: "C1"}},
		Variables: []history.Variable{{ID: "v1", ScopeID: "C1", ScopeType: history.ScopeCase, Name: "x"}},
		Tasks:     []history.Task{{ID: "t1", ScopeID: "C1", ScopeType: history.ScopeCase}},
	}
}

func TestPurgeCaseInstance_CallOrder(t *testing.T) {
	f := newFakeBackend(singleCase())
	p := newTestPurger(f, Config{EntityLinksEnabled: true})

	require.NoError(t, p.PurgeCaseInstance(context.Background(), "C1"))

	assert.Equal(t, []string{
		"GetCaseInstance(C1)",
		"FindMilestones(C1)",
		"DeleteMilestone(m1)",
		"DeleteMilestone(m2)",
		"FindPlanItems(C1)",
		"DeletePlanItem(p1)",
		"DeleteIdentityLinks(C1, cmmn)",
		"DeleteIdentityLinks(C1, planItem)",
		"DeleteEntityLinks(C1, cmmn)",
		"FindVariables(C1, cmmn)",
		"DeleteVariable(v1)",
		"PurgeTasksForCase(C1)",
		"DeleteCaseInstance(C1)",
		"FindChildCaseIDs(C1)",
	}, f.calls)
	assert.Empty(t, f.cases)
	assert.Empty(t, f.milestones)
	assert.Empty(t, f.planItems)
	assert.Empty(t, f.variables)
	assert.Empty(t, f.tasks)
}

func TestPurgeCaseInstance_RecursesIntoSubCases(t *testing.T) {
	f := newFakeBackend(testutil.CaseTree(testutil.Chain("C1", "C2", "C3"), "C1", "C2", "C3"))
	p := newTestPurger(f, Config{EntityLinksEnabled: true})

	require.NoError(t, p.PurgeCaseInstance(context.Background(), "C1"))

	assert.Equal(t, []string{
		"DeleteCaseInstance(C1)",
		"DeleteCaseInstance(C2)",
		"DeleteCaseInstance(C3)",
	}, f.callsWithPrefix("DeleteCaseInstance"))
	assert.Equal(t, []string{
		"FindChildCaseIDs(C1)",
		"FindChildCaseIDs(C2)",
		"FindChildCaseIDs(C3)",
	}, f.callsWithPrefix("FindChildCaseIDs"))
	assert.Equal(t, []string{
		"GetCaseInstance(C1)",
		"GetCaseInstance(C2)",
		"GetCaseInstance(C3)",
	}, f.callsWithPrefix("GetCaseInstance"))

	assert.Empty(t, f.cases)
	assert.Empty(t, f.milestones)
	assert.Empty(t, f.planItems)
	assert.Empty(t, f.entityLinks)
	assert.Empty(t, f.tasks)
	// Task-scoped records belong to the task purger, which the fake models
	// only at task granularity.
	for _, l := range f.identityLinks {
		assert.Equal(t, history.ScopeTask, l.ScopeType)
	}
}

func TestPurgeCaseInstance_SiblingsDepthFirst(t *testing.T) {
	parents := map[string]string{"A": "R", "B": "R", "A1": "A"}
	f := newFakeBackend(testutil.CaseTree(parents, "R", "A", "B", "A1"))
	p := newTestPurger(f, Config{})

	require.NoError(t, p.PurgeCaseInstance(context.Background(), "R"))

	assert.Equal(t, []string{
		"DeleteCaseInstance(R)",
		"DeleteCaseInstance(A)",
		"DeleteCaseInstance(A1)",
		"DeleteCaseInstance(B)",
	}, f.callsWithPrefix("DeleteCaseInstance"))
}

func TestPurgeCaseInstance_NotFound(t *testing.T) {
	f := newFakeBackend(singleCase())
	p := newTestPurger(f, Config{EntityLinksEnabled: true})

	err := p.PurgeCaseInstance(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsStorageFailure(err))
	assert.True(t, errors.Is(err, history.ErrNotFound))

	var pe *PurgeError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, []string{"missing"}, pe.CaseInstanceIDs)

	assert.Equal(t, []string{"GetCaseInstance(missing)"}, f.calls, "no mutation may follow a failed resolve")
	assert.Len(t, f.cases, 1)
	assert.Len(t, f.milestones, 2)
}

func TestPurgeCaseInstance_UsesIDVerbatim(t *testing.T) {
	f := newFakeBackend(singleCase())
	p := newTestPurger(f, Config{})

	err := p.PurgeCaseInstance(context.Background(), " C1")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, []string{"GetCaseInstance( C1)"}, f.calls)
	assert.Len(t, f.cases, 1)
}

func TestPurgeCaseInstance_ResolveFailureIsStorageFailure(t *testing.T) {
	boom := errors.New("disk I/O error")
	f := newFakeBackend(singleCase())
	f.failOn = func(call string) error {
		if call == "GetCaseInstance(C1)" {
			return boom
		}
		return nil
	}
	p := newTestPurger(f, Config{})

	err := p.PurgeCaseInstance(context.Background(), "C1")
	require.Error(t, err)
	assert.True(t, IsStorageFailure(err))
	assert.True(t, errors.Is(err, boom))

	var pe *PurgeError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, StepResolve, pe.Step)
}

func TestPurgeCaseInstance_StopsAtFailingStep(t *testing.T) {
	boom := errors.New("constraint failed")
	f := newFakeBackend(singleCase())
	f.failOn = func(call string) error {
		if call == "DeletePlanItem(p1)" {
			return boom
		}
		return nil
	}
	p := newTestPurger(f, Config{EntityLinksEnabled: true})

	err := p.PurgeCaseInstance(context.Background(), "C1")
	require.Error(t, err)
	assert.True(t, IsStorageFailure(err))
	assert.True(t, errors.Is(err, boom))

	var pe *PurgeError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, StepPlanItems, pe.Step)
	assert.Equal(t, []string{"C1"}, pe.CaseInstanceIDs)

	assert.Equal(t, "DeletePlanItem(p1)", f.calls[len(f.calls)-1], "no call may follow the failure")
	assert.Empty(t, f.milestones, "earlier steps stay applied")
	assert.Len(t, f.cases, 1)
}

func TestPurgeCaseInstance_ChildFailurePropagates(t *testing.T) {
	boom := errors.New("locked")
	f := newFakeBackend(testutil.CaseTree(testutil.Chain("C1", "C2", "C3"), "C1", "C2", "C3"))
	f.failOn = func(call string) error {
		if call == "DeleteCaseInstance(C2)" {
			return boom
		}
		return nil
	}
	h := &recordingHooks{}
	p := newTestPurger(f, Config{}, WithHooks(h))

	err := p.PurgeCaseInstance(context.Background(), "C1")
	require.Error(t, err)

	var pe *PurgeError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, StepCaseInstance, pe.Step)
	assert.Equal(t, []string{"C2"}, pe.CaseInstanceIDs)
	assert.Empty(t, f.callsWithPrefix("GetCaseInstance(C3)"))

	assert.Equal(t, []string{
		"failed [C2] step=case_instance",
		"failed [C1] step=child_case_instances",
	}, failedEvents(h.events))
}

func failedEvents(events []string) []string {
	var out []string
	for _, e := range events {
		if strings.HasPrefix(e, "failed") {
			out = append(out, e)
		}
	}
	return out
}

func TestPurgeCaseInstance_EntityLinksDisabled(t *testing.T) {
	f := newFakeBackend(testutil.CaseTree(testutil.Chain("C1", "C2"), "C1", "C2"))
	p := newTestPurger(f, Config{EntityLinksEnabled: false})

	require.NoError(t, p.PurgeCaseInstance(context.Background(), "C1"))

	assert.Empty(t, f.callsWithPrefix("DeleteEntityLinks"))
	assert.Len(t, f.entityLinks, 2, "entity links are left alone when the capability is off")
	assert.Empty(t, f.cases)
}

func TestPurgeCaseInstancesBulk_EmptySetMakesNoCalls(t *testing.T) {
	for _, ids := range [][]string{nil, {}, {"", "  "}} {
		f := newFakeBackend(singleCase())
		h := &recordingHooks{}
		p := newTestPurger(f, Config{EntityLinksEnabled: true}, WithHooks(h))

		require.NoError(t, p.PurgeCaseInstancesBulk(context.Background(), ids))
		assert.Empty(t, f.calls)
		assert.Empty(t, h.events)
	}
}

func TestPurgeCaseInstancesBulk_CallOrder(t *testing.T) {
	parents := map[string]string{"C2": "C1", "C3": "C4"}
	a := testutil.CaseTree(parents, "C1", "C2", "C3", "C4", "C9")
	f := newFakeBackend(a)
	p := newTestPurger(f, Config{EntityLinksEnabled: true})

	require.NoError(t, p.PurgeCaseInstancesBulk(context.Background(), []string{"C1", "C4"}))

	assert.Equal(t, []string{
		"BulkDeleteMilestones([C1 C4])",
		"BulkDeletePlanItems([C1 C4])",
		"BulkDeleteIdentityLinks([C1 C4], cmmn)",
		"BulkDeleteIdentityLinks([C1 C4], planItem)",
		"BulkDeleteEntityLinks(cmmn, [C1 C4])",
		"BulkDeleteVariables([C1 C4], cmmn)",
		"BulkPurgeTasksForCases([C1 C4])",
		"BulkDeleteCaseInstances([C1 C4])",
		"FindChildCaseIDsIn([C1 C4])",
		"BulkDeleteMilestones([C2 C3])",
		"BulkDeletePlanItems([C2 C3])",
		"BulkDeleteIdentityLinks([C2 C3], cmmn)",
		"BulkDeleteIdentityLinks([C2 C3], planItem)",
		"BulkDeleteEntityLinks(cmmn, [C2 C3])",
		"BulkDeleteVariables([C2 C3], cmmn)",
		"BulkPurgeTasksForCases([C2 C3])",
		"BulkDeleteCaseInstances([C2 C3])",
		"FindChildCaseIDsIn([C2 C3])",
	}, f.calls)

	require.Len(t, f.cases, 1)
	assert.Contains(t, f.cases, "C9")
	require.Len(t, f.planItems, 1)
	assert.Equal(t, "C9-p1", f.planItems[0].ID, "unrelated plan items survive")
}

func TestPurgeCaseInstancesBulk_DeduplicatesInput(t *testing.T) {
	f := newFakeBackend(singleCase())
	p := newTestPurger(f, Config{})

	require.NoError(t, p.PurgeCaseInstancesBulk(context.Background(), []string{"C1", "", "C1"}))
	assert.Equal(t, "BulkDeleteMilestones([C1])", f.calls[0])
}

func TestPurgeCaseInstancesBulk_UnknownIDsAreNoOps(t *testing.T) {
	f := newFakeBackend(singleCase())
	p := newTestPurger(f, Config{})

	require.NoError(t, p.PurgeCaseInstancesBulk(context.Background(), []string{"nope"}))
	assert.Len(t, f.cases, 1)
	assert.Len(t, f.milestones, 2)
}

func TestPurgeCaseInstancesBulk_EntityLinksDisabled(t *testing.T) {
	f := newFakeBackend(testutil.CaseTree(testutil.Chain("C1", "C2"), "C1", "C2"))
	p := New(Stores{
		CaseInstances: f,
		Milestones:    f,
		PlanItems:     f,
		IdentityLinks: f,
		Variables:     f,
		Tasks:         f,
	}, Config{}, WithLogger(quietLogger()))

	require.NoError(t, p.PurgeCaseInstancesBulk(context.Background(), []string{"C1"}))
	assert.Empty(t, f.callsWithPrefix("BulkDeleteEntityLinks"))
	assert.Empty(t, f.cases)
}

func TestPurgeCaseInstancesBulk_FailureStopsPurge(t *testing.T) {
	boom := errors.New("disk full")
	f := newFakeBackend(testutil.CaseTree(testutil.Chain("C1", "C2"), "C1", "C2"))
	f.failOn = func(call string) error {
		if call == "FindChildCaseIDsIn([C1])" {
			return boom
		}
		return nil
	}
	p := newTestPurger(f, Config{})

	err := p.PurgeCaseInstancesBulk(context.Background(), []string{"C1"})
	require.Error(t, err)
	assert.True(t, IsStorageFailure(err))

	var pe *PurgeError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, StepChildren, pe.Step)
	assert.Equal(t, []string{"C1"}, pe.CaseInstanceIDs)
	assert.Contains(t, f.cases, "C2")
}

func TestHooks_LevelLifecycle(t *testing.T) {
	f := newFakeBackend(testutil.CaseTree(testutil.Chain("C1", "C2"), "C1", "C2"))
	h := &recordingHooks{}
	p := newTestPurger(f, Config{EntityLinksEnabled: false}, WithHooks(h))

	require.NoError(t, p.PurgeCaseInstancesBulk(context.Background(), []string{"C1"}))

	assert.Equal(t, []string{
		"start bulk [C1] depth=0",
		"step milestones [C1]",
		"step plan_items [C1]",
		"step case_identity_links [C1]",
		"step plan_item_identity_links [C1]",
		"step entity_links [C1] skipped",
		"step variables [C1]",
		"step tasks [C1]",
		"step case_instance [C1]",
		"start bulk [C2] depth=1",
		"step milestones [C2]",
		"step plan_items [C2]",
		"step case_identity_links [C2]",
		"step plan_item_identity_links [C2]",
		"step entity_links [C2] skipped",
		"step variables [C2]",
		"step tasks [C2]",
		"step case_instance [C2]",
		"complete [C2] children=[]",
		"complete [C1] children=[C2]",
	}, h.events)
}

func TestNew_PanicsOnMissingCollaborator(t *testing.T) {
	f := newFakeBackend(&history.Archive{})

	assert.Panics(t, func() {
		New(Stores{CaseInstances: f}, Config{})
	})
	assert.Panics(t, func() {
		s := StoresFrom(f)
		s.EntityLinks = nil
		New(s, Config{EntityLinksEnabled: true})
	})
	assert.NotPanics(t, func() {
		s := StoresFrom(f)
		s.EntityLinks = nil
		New(s, Config{})
	})
}

func TestPurger_Config(t *testing.T) {
	p := newTestPurger(newFakeBackend(&history.Archive{}), Config{EntityLinksEnabled: true})
	assert.True(t, p.Config().EntityLinksEnabled)
}
