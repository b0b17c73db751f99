package harness

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/casehistory/internal/history"
	"github.com/roach88/casehistory/internal/purge"
)

// Recorder wraps a purge.Backend and records every call made through it.
// Calls are recorded before they are delegated, so a failing call still
// appears in the trace.
type Recorder struct {
	next purge.Backend

	mu    sync.Mutex
	calls []Call
}

// NewRecorder creates a Recorder delegating to next.
func NewRecorder(next purge.Backend) *Recorder {
	return &Recorder{next: next}
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call{}, r.calls...)
}

// Reset discards the recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *Recorder) record(method string, args ...any) {
	strs := make([]string, len(args))
	for i, a := range args {
		strs[i] = fmt.Sprint(a)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Seq: len(r.calls) + 1, Method: method, Args: strs})
}

func (r *Recorder) GetCaseInstance(ctx context.Context, id string) (history.CaseInstance, error) {
	r.record("GetCaseInstance", id)
	return r.next.GetCaseInstance(ctx, id)
}

func (r *Recorder) DeleteCaseInstance(ctx context.Context, id string) error {
	r.record("DeleteCaseInstance", id)
	return r.next.DeleteCaseInstance(ctx, id)
}

func (r *Recorder) BulkDeleteCaseInstances(ctx context.Context, ids []string) error {
	r.record("BulkDeleteCaseInstances", ids)
	return r.next.BulkDeleteCaseInstances(ctx, ids)
}

func (r *Recorder) FindChildCaseIDs(ctx context.Context, parentID string) ([]string, error) {
	r.record("FindChildCaseIDs", parentID)
	return r.next.FindChildCaseIDs(ctx, parentID)
}

func (r *Recorder) FindChildCaseIDsIn(ctx context.Context, parentIDs []string) ([]string, error) {
	r.record("FindChildCaseIDsIn", parentIDs)
	return r.next.FindChildCaseIDsIn(ctx, parentIDs)
}

func (r *Recorder) FindMilestones(ctx context.Context, caseInstanceID string) ([]history.Milestone, error) {
	r.record("FindMilestones", caseInstanceID)
	return r.next.FindMilestones(ctx, caseInstanceID)
}

func (r *Recorder) DeleteMilestone(ctx context.Context, id string) error {
	r.record("DeleteMilestone", id)
	return r.next.DeleteMilestone(ctx, id)
}

func (r *Recorder) BulkDeleteMilestones(ctx context.Context, caseInstanceIDs []string) error {
	r.record("BulkDeleteMilestones", caseInstanceIDs)
	return r.next.BulkDeleteMilestones(ctx, caseInstanceIDs)
}

func (r *Recorder) FindPlanItems(ctx context.Context, caseInstanceID string) ([]history.PlanItem, error) {
	r.record("FindPlanItems", caseInstanceID)
	return r.next.FindPlanItems(ctx, caseInstanceID)
}

func (r *Recorder) DeletePlanItem(ctx context.Context, id string) error {
	r.record("DeletePlanItem", id)
	return r.next.DeletePlanItem(ctx, id)
}

func (r *Recorder) BulkDeletePlanItems(ctx context.Context, caseInstanceIDs []string) error {
	r.record("BulkDeletePlanItems", caseInstanceIDs)
	return r.next.BulkDeletePlanItems(ctx, caseInstanceIDs)
}

func (r *Recorder) DeleteIdentityLinks(ctx context.Context, scopeID string, scopeType history.ScopeType) error {
	r.record("DeleteIdentityLinks", scopeID, scopeType)
	return r.next.DeleteIdentityLinks(ctx, scopeID, scopeType)
}

func (r *Recorder) BulkDeleteIdentityLinks(ctx context.Context, scopeIDs []string, scopeType history.ScopeType) error {
	r.record("BulkDeleteIdentityLinks", scopeIDs, scopeType)
	return r.next.BulkDeleteIdentityLinks(ctx, scopeIDs, scopeType)
}

func (r *Recorder) DeleteEntityLinks(ctx context.Context, scopeID string, scopeType history.ScopeType) error {
	r.record("DeleteEntityLinks", scopeID, scopeType)
	return r.next.DeleteEntityLinks(ctx, scopeID, scopeType)
}

func (r *Recorder) BulkDeleteEntityLinks(ctx context.Context, scopeType history.ScopeType, scopeIDs []string) error {
	r.record("BulkDeleteEntityLinks", scopeType, scopeIDs)
	return r.next.BulkDeleteEntityLinks(ctx, scopeType, scopeIDs)
}

func (r *Recorder) FindVariables(ctx context.Context, scopeID string, scopeType history.ScopeType) ([]history.Variable, error) {
	r.record("FindVariables", scopeID, scopeType)
	return r.next.FindVariables(ctx, scopeID, scopeType)
}

func (r *Recorder) DeleteVariable(ctx context.Context, id string) error {
	r.record("DeleteVariable", id)
	return r.next.DeleteVariable(ctx, id)
}

func (r *Recorder) BulkDeleteVariables(ctx context.Context, scopeIDs []string, scopeType history.ScopeType) error {
	r.record("BulkDeleteVariables", scopeIDs, scopeType)
	return r.next.BulkDeleteVariables(ctx, scopeIDs, scopeType)
}

func (r *Recorder) PurgeTasksForCase(ctx context.Context, caseInstanceID string) error {
	r.record("PurgeTasksForCase", caseInstanceID)
	return r.next.PurgeTasksForCase(ctx, caseInstanceID)
}

func (r *Recorder) BulkPurgeTasksForCases(ctx context.Context, caseInstanceIDs []string) error {
	r.record("BulkPurgeTasksForCases", caseInstanceIDs)
	return r.next.BulkPurgeTasksForCases(ctx, caseInstanceIDs)
}

var _ purge.Backend = (*Recorder)(nil)
