package purge

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/casehistory/internal/history"
)

// fakeBackend is an in-memory Backend that records every call in order.
type fakeBackend struct {
	cases         map[string]history.CaseInstance
	milestones    []history.Milestone
	planItems     []history.PlanItem
	identityLinks []history.IdentityLink
	entityLinks   []history.EntityLink
	variables     []history.Variable
	tasks         []history.Task

	calls []string

	// failOn returns an error for a formatted call, or nil to let it through.
	failOn func(call string) error
}

func newFakeBackend(a *history.Archive) *fakeBackend {
	f := &fakeBackend{cases: make(map[string]history.CaseInstance)}
	for _, c := range a.CaseInstances {
		f.cases[c.ID] = c
	}
	f.milestones = append(f.milestones, a.Milestones...)
	f.planItems = append(f.planItems, a.PlanItems...)
	f.identityLinks = append(f.identityLinks, a.IdentityLinks...)
	f.entityLinks = append(f.entityLinks, a.EntityLinks...)
	f.variables = append(f.variables, a.Variables...)
	f.tasks = append(f.tasks, a.Tasks...)
	return f
}

func (f *fakeBackend) record(method string, args ...any) error {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	call := method + "(" + strings.Join(parts, ", ") + ")"
	f.calls = append(f.calls, call)
	if f.failOn != nil {
		return f.failOn(call)
	}
	return nil
}

// callsWithPrefix returns the recorded calls starting with prefix.
func (f *fakeBackend) callsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// removeWhere deletes the elements of s for which drop is true.
func removeWhere[T any](s []T, drop func(T) bool) []T {
	out := s[:0]
	for _, v := range s {
		if !drop(v) {
			out = append(out, v)
		}
	}
	return out
}

func (f *fakeBackend) GetCaseInstance(_ context.Context, id string) (history.CaseInstance, error) {
	if err := f.record("GetCaseInstance", id); err != nil {
		return history.CaseInstance{}, err
	}
	c, ok := f.cases[id]
	if !ok {
		return history.CaseInstance{}, fmt.Errorf("case instance %q: %w", id, history.ErrNotFound)
	}
	return c, nil
}

func (f *fakeBackend) DeleteCaseInstance(_ context.Context, id string) error {
	if err := f.record("DeleteCaseInstance", id); err != nil {
		return err
	}
	delete(f.cases, id)
	return nil
}

func (f *fakeBackend) BulkDeleteCaseInstances(_ context.Context, ids []string) error {
	if err := f.record("BulkDeleteCaseInstances", ids); err != nil {
		return err
	}
	for _, id := range ids {
		delete(f.cases, id)
	}
	return nil
}

func (f *fakeBackend) FindChildCaseIDs(_ context.Context, parentID string) ([]string, error) {
	if err := f.record("FindChildCaseIDs", parentID); err != nil {
		return nil, err
	}
	return f.children([]string{parentID}), nil
}

func (f *fakeBackend) FindChildCaseIDsIn(_ context.Context, parentIDs []string) ([]string, error) {
	if err := f.record("FindChildCaseIDsIn", parentIDs); err != nil {
		return nil, err
	}
	return f.children(parentIDs), nil
}

func (f *fakeBackend) children(parents []string) []string {
	ids := []string{}
	for id, c := range f.cases {
		if c.ParentID != "" && contains(parents, c.ParentID) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (f *fakeBackend) FindMilestones(_ context.Context, caseInstanceID string) ([]history.Milestone, error) {
	if err := f.record("FindMilestones", caseInstanceID); err != nil {
		return nil, err
	}
	var out []history.Milestone
	for _, m := range f.milestones {
		if m.CaseInstanceID == caseInstanceID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeBackend) DeleteMilestone(_ context.Context, id string) error {
	if err := f.record("DeleteMilestone", id); err != nil {
		return err
	}
	f.milestones = removeWhere(f.milestones, func(m history.Milestone) bool { return m.ID == id })
	return nil
}

func (f *fakeBackend) BulkDeleteMilestones(_ context.Context, caseInstanceIDs []string) error {
	if err := f.record("BulkDeleteMilestones", caseInstanceIDs); err != nil {
		return err
	}
	f.milestones = removeWhere(f.milestones, func(m history.Milestone) bool { return contains(caseInstanceIDs, m.CaseInstanceID) })
	return nil
}

func (f *fakeBackend) FindPlanItems(_ context.Context, caseInstanceID string) ([]history.PlanItem, error) {
	if err := f.record("FindPlanItems", caseInstanceID); err != nil {
		return nil, err
	}
	var out []history.PlanItem
	for _, p := range f.planItems {
		if p.CaseInstanceID == caseInstanceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeBackend) DeletePlanItem(_ context.Context, id string) error {
	if err := f.record("DeletePlanItem", id); err != nil {
		return err
	}
	f.planItems = removeWhere(f.planItems, func(p history.PlanItem) bool { return p.ID == id })
	return nil
}

func (f *fakeBackend) BulkDeletePlanItems(_ context.Context, caseInstanceIDs []string) error {
	if err := f.record("BulkDeletePlanItems", caseInstanceIDs); err != nil {
		return err
	}
	f.planItems = removeWhere(f.planItems, func(p history.PlanItem) bool { return contains(caseInstanceIDs, p.CaseInstanceID) })
	return nil
}

func (f *fakeBackend) DeleteIdentityLinks(_ context.Context, scopeID string, scopeType history.ScopeType) error {
	if err := f.record("DeleteIdentityLinks", scopeID, scopeType); err != nil {
		return err
	}
	f.identityLinks = removeWhere(f.identityLinks, func(l history.IdentityLink) bool {
		return l.ScopeID == scopeID && l.ScopeType == scopeType
	})
	return nil
}

func (f *fakeBackend) BulkDeleteIdentityLinks(_ context.Context, scopeIDs []string, scopeType history.ScopeType) error {
	if err := f.record("BulkDeleteIdentityLinks", scopeIDs, scopeType); err != nil {
		return err
	}
	f.identityLinks = removeWhere(f.identityLinks, func(l history.IdentityLink) bool {
		return contains(scopeIDs, l.ScopeID) && l.ScopeType == scopeType
	})
	return nil
}

func (f *fakeBackend) DeleteEntityLinks(_ context.Context, scopeID string, scopeType history.ScopeType) error {
	if err := f.record("DeleteEntityLinks", scopeID, scopeType); err != nil {
		return err
	}
	f.entityLinks = removeWhere(f.entityLinks, func(l history.EntityLink) bool {
		return l.ScopeID == scopeID && l.ScopeType == scopeType
	})
	return nil
}

func (f *fakeBackend) BulkDeleteEntityLinks(_ context.Context, scopeType history.ScopeType, scopeIDs []string) error {
	if err := f.record("BulkDeleteEntityLinks", scopeType, scopeIDs); err != nil {
		return err
	}
	f.entityLinks = removeWhere(f.entityLinks, func(l history.EntityLink) bool {
		return contains(scopeIDs, l.ScopeID) && l.ScopeType == scopeType
	})
	return nil
}

func (f *fakeBackend) FindVariables(_ context.Context, scopeID string, scopeType history.ScopeType) ([]history.Variable, error) {
	if err := f.record("FindVariables", scopeID, scopeType); err != nil {
		return nil, err
	}
	var out []history.Variable
	for _, v := range f.variables {
		if v.ScopeID == scopeID && v.ScopeType == scopeType {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeBackend) DeleteVariable(_ context.Context, id string) error {
	if err := f.record("DeleteVariable", id); err != nil {
		return err
	}
	f.variables = removeWhere(f.variables, func(v history.Variable) bool { return v.ID == id })
	return nil
}

func (f *fakeBackend) BulkDeleteVariables(_ context.Context, scopeIDs []string, scopeType history.ScopeType) error {
	if err := f.record("BulkDeleteVariables", scopeIDs, scopeType); err != nil {
		return err
	}
	f.variables = removeWhere(f.variables, func(v history.Variable) bool {
		return contains(scopeIDs, v.ScopeID) && v.ScopeType == scopeType
	})
	return nil
}

func (f *fakeBackend) PurgeTasksForCase(_ context.Context, caseInstanceID string) error {
	if err := f.record("PurgeTasksForCase", caseInstanceID); err != nil {
		return err
	}
	f.tasks = removeWhere(f.tasks, func(t history.Task) bool { return t.ScopeID == caseInstanceID })
	return nil
}

func (f *fakeBackend) BulkPurgeTasksForCases(_ context.Context, caseInstanceIDs []string) error {
	if err := f.record("BulkPurgeTasksForCases", caseInstanceIDs); err != nil {
		return err
	}
	f.tasks = removeWhere(f.tasks, func(t history.Task) bool { return contains(caseInstanceIDs, t.ScopeID) })
	return nil
}

// recordingHooks captures hook callbacks as strings.
type recordingHooks struct {
	NoOpHooks
	events []string
}

func (h *recordingHooks) OnPurgeStart(ctx context.Context, info PurgeStartInfo) context.Context {
	h.events = append(h.events, fmt.Sprintf("start %s %v depth=%d", info.Mode, info.CaseInstanceIDs, info.Depth))
	return ctx
}

func (h *recordingHooks) OnStepComplete(_ context.Context, info StepCompleteInfo) {
	event := fmt.Sprintf("step %s %v", info.Step, info.CaseInstanceIDs)
	if info.Skipped {
		event += " skipped"
	}
	h.events = append(h.events, event)
}

func (h *recordingHooks) OnPurgeComplete(_ context.Context, info PurgeCompleteInfo) {
	h.events = append(h.events, fmt.Sprintf("complete %v children=%v", info.CaseInstanceIDs, info.ChildCaseInstanceIDs))
}

func (h *recordingHooks) OnPurgeFailed(_ context.Context, info PurgeFailedInfo) {
	h.events = append(h.events, fmt.Sprintf("failed %v step=%s", info.CaseInstanceIDs, info.Step))
}
