package purge

// Step names one stage of purging a hierarchy level.
type Step string

const (
	StepResolve               Step = "resolve_case_instance"
	StepMilestones            Step = "milestones"
	StepPlanItems             Step = "plan_items"
	StepCaseIdentityLinks     Step = "case_identity_links"
	StepPlanItemIdentityLinks Step = "plan_item_identity_links"
	StepEntityLinks           Step = "entity_links"
	StepVariables             Step = "variables"
	StepTasks                 Step = "tasks"
	StepCaseInstance          Step = "case_instance"
	StepChildren              Step = "child_case_instances"
)

// Steps lists the deletion steps applied to every level, in order.
// Child discovery and recursion follow the last one.
var Steps = []Step{
	StepMilestones,
	StepPlanItems,
	StepCaseIdentityLinks,
	StepPlanItemIdentityLinks,
	StepEntityLinks,
	StepVariables,
	StepTasks,
	StepCaseInstance,
}

// Mode distinguishes the single-instance and bulk paths.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeBulk   Mode = "bulk"
)

// skipped reports whether step is disabled by cfg.
func (s Step) skipped(cfg Config) bool {
	return s == StepEntityLinks && !cfg.EntityLinksEnabled
}
