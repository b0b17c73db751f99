package purge

import (
	"context"
	"log/slog"
	"time"
)

// Config holds the capability flags of a Purger.
type Config struct {
	// EntityLinksEnabled turns on the entity-link step on both paths.
	EntityLinksEnabled bool
}

// Purger deletes historic case instances and their dependent records.
//
// A Purger holds no state between calls and is safe to reuse. Callers must
// not purge overlapping hierarchies concurrently.
type Purger struct {
	stores Stores
	cfg    Config
	logger *slog.Logger
	hooks  Hooks
}

// Option configures a Purger.
type Option func(*Purger)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Purger) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithHooks sets the lifecycle hooks. Default: NoOpHooks.
func WithHooks(h Hooks) Option {
	return func(p *Purger) {
		if h != nil {
			p.hooks = h
		}
	}
}

// New creates a Purger delegating to stores.
//
// It panics if a collaborator required by cfg is missing; see Stores.Validate.
func New(stores Stores, cfg Config, opts ...Option) *Purger {
	if err := stores.Validate(cfg); err != nil {
		panic(err)
	}
	initPrometheusMetrics()

	p := &Purger{
		stores: stores,
		cfg:    cfg,
		logger: slog.Default(),
		hooks:  NoOpHooks{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns the configuration the Purger was built with.
func (p *Purger) Config() Config {
	return p.cfg
}

// level is one hierarchy level being purged: one case instance on the single
// path, one set of siblings and cousins on the bulk path.
type level struct {
	mode    Mode
	ids     []string
	depth   int
	started time.Time
}

// runSteps applies action to every step of lvl in order, reporting each to
// the logger and hooks. Disabled steps are reported as skipped and never
// reach action.
func (p *Purger) runSteps(ctx context.Context, lvl level, action func(ctx context.Context, step Step) error) (Step, error) {
	for _, step := range Steps {
		started := time.Now()
		skipped := step.skipped(p.cfg)
		if !skipped {
			if err := action(ctx, step); err != nil {
				return step, newStorageError(step, lvl.ids, err)
			}
		}

		p.logger.Debug("purge step complete",
			"mode", lvl.mode,
			"step", step,
			"skipped", skipped,
			"case_instance_ids", lvl.ids,
			"depth", lvl.depth,
		)
		p.hooks.OnStepComplete(ctx, StepCompleteInfo{
			Mode:            lvl.mode,
			CaseInstanceIDs: lvl.ids,
			Depth:           lvl.depth,
			Step:            step,
			Skipped:         skipped,
			Duration:        time.Since(started),
		})
	}
	return "", nil
}

// fail reports a failed level and returns err.
func (p *Purger) fail(ctx context.Context, lvl level, step Step, err error) error {
	p.logger.Debug("purge level failed",
		"mode", lvl.mode,
		"step", step,
		"case_instance_ids", lvl.ids,
		"depth", lvl.depth,
		"error", err,
	)
	p.hooks.OnPurgeFailed(ctx, PurgeFailedInfo{
		Mode:            lvl.mode,
		CaseInstanceIDs: lvl.ids,
		Depth:           lvl.depth,
		Step:            step,
		Error:           err,
		Duration:        time.Since(lvl.started),
	})
	return err
}

// complete reports a finished level.
func (p *Purger) complete(ctx context.Context, lvl level, children []string) {
	p.hooks.OnPurgeComplete(ctx, PurgeCompleteInfo{
		Mode:                 lvl.mode,
		CaseInstanceIDs:      lvl.ids,
		Depth:                lvl.depth,
		ChildCaseInstanceIDs: children,
		Duration:             time.Since(lvl.started),
	})
}

// finish logs and records metrics for a top-level call.
func (p *Purger) finish(mode Mode, ids []string, started time.Time, purged int, err error) {
	observe(mode, started, purged, err)
	if IsNotFound(err) {
		p.logger.Warn("purge target not found",
			"mode", mode,
			"case_instance_ids", ids,
		)
		return
	}
	if err != nil {
		p.logger.Error("purge failed",
			"mode", mode,
			"case_instance_ids", ids,
			"error", err,
		)
		return
	}
	p.logger.Info("purge complete",
		"mode", mode,
		"case_instance_ids", ids,
		"purged", purged,
		"duration", time.Since(started),
	)
}
