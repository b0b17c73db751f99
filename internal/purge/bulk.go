package purge

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/casehistory/internal/history"
)

// PurgeCaseInstancesBulk deletes the historic case instances in ids, their
// dependent records and, level by level, all of their sub-cases.
//
// Each step is one set-oriented operation over the whole level. Ids are
// de-duplicated byte for byte and otherwise used verbatim; an empty set makes no collaborator calls and
// ids that do not exist are ignored. Any collaborator error stops the purge
// with a STORAGE_FAILURE PurgeError.
func (p *Purger) PurgeCaseInstancesBulk(ctx context.Context, ids []string) error {
	set := history.NewIDSet(ids...)
	if set.IsEmpty() {
		p.logger.Debug("bulk purge skipped: no case instance ids")
		return nil
	}
	started := time.Now()

	purged, err := p.purgeBulk(ctx, set.Slice(), 0)
	p.finish(ModeBulk, set.Slice(), started, purged, err)
	return err
}

// purgeBulk purges one hierarchy level and then the level below it, returning
// the number of case instance ids submitted for deletion.
func (p *Purger) purgeBulk(ctx context.Context, ids []string, depth int) (int, error) {
	lvl := level{mode: ModeBulk, ids: ids, depth: depth, started: time.Now()}
	ctx = p.hooks.OnPurgeStart(ctx, PurgeStartInfo{Mode: ModeBulk, CaseInstanceIDs: ids, Depth: depth})

	if step, err := p.runSteps(ctx, lvl, func(ctx context.Context, step Step) error {
		return p.bulkStep(ctx, step, ids)
	}); err != nil {
		return 0, p.fail(ctx, lvl, step, err)
	}
	purged := len(ids)

	found, err := p.stores.CaseInstances.FindChildCaseIDsIn(ctx, ids)
	if err != nil {
		return purged, p.fail(ctx, lvl, StepChildren, newStorageError(StepChildren, ids, err))
	}
	children := history.NewIDSet(found...)
	if !children.IsEmpty() {
		n, err := p.purgeBulk(ctx, children.Slice(), depth+1)
		purged += n
		if err != nil {
			return purged, p.fail(ctx, lvl, StepChildren, err)
		}
	}

	p.complete(ctx, lvl, children.Slice())
	return purged, nil
}

// bulkStep performs step for a set of case instances.
func (p *Purger) bulkStep(ctx context.Context, step Step, ids []string) error {
	s := p.stores
	switch step {
	case StepMilestones:
		return s.Milestones.BulkDeleteMilestones(ctx, ids)
	case StepPlanItems:
		return s.PlanItems.BulkDeletePlanItems(ctx, ids)
	case StepCaseIdentityLinks:
		return s.IdentityLinks.BulkDeleteIdentityLinks(ctx, ids, history.ScopeCase)
	case StepPlanItemIdentityLinks:
		return s.IdentityLinks.BulkDeleteIdentityLinks(ctx, ids, history.ScopePlanItem)
	case StepEntityLinks:
		return s.EntityLinks.BulkDeleteEntityLinks(ctx, history.ScopeCase, ids)
	case StepVariables:
		return s.Variables.BulkDeleteVariables(ctx, ids, history.ScopeCase)
	case StepTasks:
		return s.Tasks.BulkPurgeTasksForCases(ctx, ids)
	case StepCaseInstance:
		return s.CaseInstances.BulkDeleteCaseInstances(ctx, ids)
	}
	return fmt.Errorf("unknown purge step %q", step)
}
