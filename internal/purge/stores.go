package purge

import (
	"context"
	"errors"

	"github.com/roach88/casehistory/internal/history"
)

// CaseInstanceStore resolves, deletes and navigates historic case instances.
// GetCaseInstance returns an error matching history.ErrNotFound when the id
// does not resolve.
type CaseInstanceStore interface {
	GetCaseInstance(ctx context.Context, id string) (history.CaseInstance, error)
	DeleteCaseInstance(ctx context.Context, id string) error
	BulkDeleteCaseInstances(ctx context.Context, ids []string) error
	FindChildCaseIDs(ctx context.Context, parentID string) ([]string, error)
	FindChildCaseIDsIn(ctx context.Context, parentIDs []string) ([]string, error)
}

// MilestoneStore manages historic milestone instances.
type MilestoneStore interface {
	FindMilestones(ctx context.Context, caseInstanceID string) ([]history.Milestone, error)
	DeleteMilestone(ctx context.Context, id string) error
	BulkDeleteMilestones(ctx context.Context, caseInstanceIDs []string) error
}

// PlanItemStore manages historic plan item instances.
type PlanItemStore interface {
	FindPlanItems(ctx context.Context, caseInstanceID string) ([]history.PlanItem, error)
	DeletePlanItem(ctx context.Context, id string) error
	BulkDeletePlanItems(ctx context.Context, caseInstanceIDs []string) error
}

// IdentityLinkStore deletes historic identity links by scope.
type IdentityLinkStore interface {
	DeleteIdentityLinks(ctx context.Context, scopeID string, scopeType history.ScopeType) error
	BulkDeleteIdentityLinks(ctx context.Context, scopeIDs []string, scopeType history.ScopeType) error
}

// EntityLinkStore deletes historic entity links by scope.
type EntityLinkStore interface {
	DeleteEntityLinks(ctx context.Context, scopeID string, scopeType history.ScopeType) error
	BulkDeleteEntityLinks(ctx context.Context, scopeType history.ScopeType, scopeIDs []string) error
}

// VariableStore manages historic variable instances.
type VariableStore interface {
	FindVariables(ctx context.Context, scopeID string, scopeType history.ScopeType) ([]history.Variable, error)
	DeleteVariable(ctx context.Context, id string) error
	BulkDeleteVariables(ctx context.Context, scopeIDs []string, scopeType history.ScopeType) error
}

// TaskPurger removes the historic tasks of case instances. It is responsible
// for the task-level records (task identity links, task variables, task log
// entries) of the tasks it removes.
type TaskPurger interface {
	PurgeTasksForCase(ctx context.Context, caseInstanceID string) error
	BulkPurgeTasksForCases(ctx context.Context, caseInstanceIDs []string) error
}

// Backend is a single value implementing every collaborator, such as
// *store.Store.
type Backend interface {
	CaseInstanceStore
	MilestoneStore
	PlanItemStore
	IdentityLinkStore
	EntityLinkStore
	VariableStore
	TaskPurger
}

// Stores bundles the collaborators a Purger delegates to.
// EntityLinks may be nil when entity linking is disabled.
type Stores struct {
	CaseInstances CaseInstanceStore
	Milestones    MilestoneStore
	PlanItems     PlanItemStore
	IdentityLinks IdentityLinkStore
	EntityLinks   EntityLinkStore
	Variables     VariableStore
	Tasks         TaskPurger
}

// StoresFrom wires every collaborator to b.
func StoresFrom(b Backend) Stores {
	return Stores{
		CaseInstances: b,
		Milestones:    b,
		PlanItems:     b,
		IdentityLinks: b,
		EntityLinks:   b,
		Variables:     b,
		Tasks:         b,
	}
}

// Validate reports the first missing collaborator.
func (s Stores) Validate(cfg Config) error {
	switch {
	case s.CaseInstances == nil:
		return errors.New("purge: case instance store is required")
	case s.Milestones == nil:
		return errors.New("purge: milestone store is required")
	case s.PlanItems == nil:
		return errors.New("purge: plan item store is required")
	case s.IdentityLinks == nil:
		return errors.New("purge: identity link store is required")
	case cfg.EntityLinksEnabled && s.EntityLinks == nil:
		return errors.New("purge: entity link store is required when entity links are enabled")
	case s.Variables == nil:
		return errors.New("purge: variable store is required")
	case s.Tasks == nil:
		return errors.New("purge: task purger is required")
	}
	return nil
}
