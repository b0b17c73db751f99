package purge

import (
	"context"
	"time"
)

// Hooks receives purge lifecycle callbacks, one level of the hierarchy at a
// time. Implement it to add tracing or auditing.
//
// OnPurgeStart returns the context used for the rest of the level, including
// the recursion into sub-cases, so implementations can nest levels.
type Hooks interface {
	OnPurgeStart(ctx context.Context, info PurgeStartInfo) context.Context
	OnStepComplete(ctx context.Context, info StepCompleteInfo)
	OnPurgeComplete(ctx context.Context, info PurgeCompleteInfo)
	OnPurgeFailed(ctx context.Context, info PurgeFailedInfo)
}

// PurgeStartInfo describes a level about to be purged.
type PurgeStartInfo struct {
	Mode            Mode
	CaseInstanceIDs []string
	Depth           int
}

// StepCompleteInfo describes a finished step. Skipped is set for steps
// disabled by configuration, which made no collaborator calls.
type StepCompleteInfo struct {
	Mode            Mode
	CaseInstanceIDs []string
	Depth           int
	Step            Step
	Skipped         bool
	Duration        time.Duration
}

// PurgeCompleteInfo describes a level whose records, and whose sub-cases'
// records, are all gone.
type PurgeCompleteInfo struct {
	Mode                 Mode
	CaseInstanceIDs      []string
	Depth                int
	ChildCaseInstanceIDs []string
	Duration             time.Duration
}

// PurgeFailedInfo describes a level that stopped at Step.
type PurgeFailedInfo struct {
	Mode            Mode
	CaseInstanceIDs []string
	Depth           int
	Step            Step
	Error           error
	Duration        time.Duration
}

// NoOpHooks implements Hooks with no side effects.
// Embed it to implement a subset of the callbacks.
type NoOpHooks struct{}

func (NoOpHooks) OnPurgeStart(ctx context.Context, _ PurgeStartInfo) context.Context { return ctx }
func (NoOpHooks) OnStepComplete(context.Context, StepCompleteInfo)                   {}
func (NoOpHooks) OnPurgeComplete(context.Context, PurgeCompleteInfo)                 {}
func (NoOpHooks) OnPurgeFailed(context.Context, PurgeFailedInfo)                     {}
