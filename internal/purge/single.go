package purge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/casehistory/internal/history"
)

// PurgeCaseInstance deletes the historic case instance caseInstanceID, every
// record that depends on it and, recursively, all of its sub-cases.
//
// Records are located and deleted one primary key at a time. If the id does
// not resolve, a NOT_FOUND PurgeError is returned and nothing is mutated.
// Any collaborator error stops the purge with a STORAGE_FAILURE PurgeError.
//
// The id is used verbatim, like every id the store returns.
func (p *Purger) PurgeCaseInstance(ctx context.Context, id string) error {
	started := time.Now()

	purged, err := p.purgeSingle(ctx, id, 0)
	p.finish(ModeSingle, []string{id}, started, purged, err)
	return err
}

// purgeSingle purges one case instance and its subtree, returning the number
// of case instances deleted.
func (p *Purger) purgeSingle(ctx context.Context, id string, depth int) (int, error) {
	lvl := level{mode: ModeSingle, ids: []string{id}, depth: depth, started: time.Now()}
	ctx = p.hooks.OnPurgeStart(ctx, PurgeStartInfo{Mode: ModeSingle, CaseInstanceIDs: lvl.ids, Depth: depth})

	if _, err := p.stores.CaseInstances.GetCaseInstance(ctx, id); err != nil {
		if errors.Is(err, history.ErrNotFound) {
			return 0, p.fail(ctx, lvl, StepResolve, newNotFoundError(id, err))
		}
		return 0, p.fail(ctx, lvl, StepResolve, newStorageError(StepResolve, lvl.ids, err))
	}

	if step, err := p.runSteps(ctx, lvl, func(ctx context.Context, step Step) error {
		return p.singleStep(ctx, step, id)
	}); err != nil {
		return 0, p.fail(ctx, lvl, step, err)
	}
	purged := 1

	children, err := p.stores.CaseInstances.FindChildCaseIDs(ctx, id)
	if err != nil {
		return purged, p.fail(ctx, lvl, StepChildren, newStorageError(StepChildren, lvl.ids, err))
	}
	for _, child := range children {
		n, err := p.purgeSingle(ctx, child, depth+1)
		purged += n
		if err != nil {
			return purged, p.fail(ctx, lvl, StepChildren, err)
		}
	}

	p.complete(ctx, lvl, children)
	return purged, nil
}

// singleStep performs step for one case instance.
func (p *Purger) singleStep(ctx context.Context, step Step, id string) error {
	s := p.stores
	switch step {
	case StepMilestones:
		milestones, err := s.Milestones.FindMilestones(ctx, id)
		if err != nil {
			return err
		}
		for _, m := range milestones {
			if err := s.Milestones.DeleteMilestone(ctx, m.ID); err != nil {
				return err
			}
		}
		return nil

	case StepPlanItems:
		items, err := s.PlanItems.FindPlanItems(ctx, id)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := s.PlanItems.DeletePlanItem(ctx, item.ID); err != nil {
				return err
			}
		}
		return nil

	case StepCaseIdentityLinks:
		return s.IdentityLinks.DeleteIdentityLinks(ctx, id, history.ScopeCase)

	case StepPlanItemIdentityLinks:
		return s.IdentityLinks.DeleteIdentityLinks(ctx, id, history.ScopePlanItem)

	case StepEntityLinks:
		return s.EntityLinks.DeleteEntityLinks(ctx, id, history.ScopeCase)

	case StepVariables:
		vars, err := s.Variables.FindVariables(ctx, id, history.ScopeCase)
		if err != nil {
			return err
		}
		for _, v := range vars {
			if err := s.Variables.DeleteVariable(ctx, v.ID); err != nil {
				return err
			}
		}
		return nil

	case StepTasks:
		return s.Tasks.PurgeTasksForCase(ctx, id)

	case StepCaseInstance:
		return s.CaseInstances.DeleteCaseInstance(ctx, id)
	}
	return fmt.Errorf("unknown purge step %q", step)
}
