package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/casehistory/internal/harness"
	"github.com/roach88/casehistory/internal/purge"
	purgeotel "github.com/roach88/casehistory/internal/purge/otel"
	"github.com/roach88/casehistory/internal/store"
)

// PurgeOptions holds flags for the purge command.
type PurgeOptions struct {
	*RootOptions
	Database    string
	Bulk        bool
	EntityLinks bool
	Trace       bool // print every collaborator call
}

// PurgeResult is the payload of a purge.
type PurgeResult struct {
	Mode            purge.Mode `json:"mode"`
	CaseInstanceIDs []string   `json:"case_instance_ids"`
	Calls           []string   `json:"calls,omitempty"`
}

// NewPurgeCommand creates the purge command.
func NewPurgeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PurgeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "purge <case-instance-id>...",
		Short: "Purge case instances and their descendants",
		Long: `Delete historic case instances with all dependent records and all
descendant case instances, inside one transaction.

Without --bulk exactly one case instance id is purged level by level. With
--bulk any number of ids is purged with set-oriented deletes; no ids is a no-op.

Exit codes:
  0 - Purge committed
  1 - Purge failed and was rolled back (case not found, storage failure)
  2 - Command error (missing database, invalid config)

Examples:
  casehist purge --db ./history.db 0d6c6d6e-7a3b-7c21-9f1e-2b2c1f0e4a11
  casehist purge --db ./history.db --bulk C1 C4 --entity-links
  casehist purge --db ./history.db C1 --trace --format json`,
		Args: func(cmd *cobra.Command, args []string) error {
			if !opts.Bulk && len(args) != 1 {
				return fmt.Errorf("purge takes exactly one case instance id without --bulk, got %d", len(args))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurge(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().BoolVar(&opts.Bulk, "bulk", false, "purge a set of case instances with set-oriented deletes")
	cmd.Flags().BoolVar(&opts.EntityLinks, "entity-links", false, "also delete entity links")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "print every storage call")

	return cmd
}

func runPurge(cmd *cobra.Command, opts *PurgeOptions, ids []string) error {
	out := newFormatter(cmd, opts.RootOptions)
	ctx := commandContext(cmd)

	cfg, err := loadSettings(cmd, opts.RootOptions, opts.Database, &opts.EntityLinks)
	if err != nil {
		return out.Fail(ExitCommandError, codeConfig, "failed to load config", err, nil)
	}
	logger := newLogger(cmd.ErrOrStderr(), opts.RootOptions, cfg)

	st, err := openStore(cfg, true)
	if err != nil {
		return out.Fail(ExitCommandError, codeDatabase, "failed to open database", err, nil)
	}
	defer closeStore(st, logger)

	result := PurgeResult{Mode: purge.ModeSingle, CaseInstanceIDs: ids}
	if opts.Bulk {
		result.Mode = purge.ModeBulk
	}

	var rec *harness.Recorder
	err = st.WithinTx(ctx, func(tx *store.Store) error {
		var backend purge.Backend = tx
		if opts.Trace {
			rec = harness.NewRecorder(tx)
			backend = rec
		}
		p := purge.New(purge.StoresFrom(backend), cfg.PurgeConfig(),
			purge.WithLogger(logger),
			purge.WithHooks(purgeotel.NewHooks(nil)),
		)
		if opts.Bulk {
			return p.PurgeCaseInstancesBulk(ctx, ids)
		}
		return p.PurgeCaseInstance(ctx, ids[0])
	})
	if rec != nil {
		for _, c := range rec.Calls() {
			result.Calls = append(result.Calls, c.String())
		}
		if !out.JSON() {
			printCalls(out, rec.Calls())
		}
	}

	if err != nil {
		code := string(purge.ErrCodeStorageFailure)
		var pe *purge.PurgeError
		if errors.As(err, &pe) {
			code = string(pe.Code)
		}
		return out.Fail(ExitFailure, code, "purge failed", err, result)
	}

	text := fmt.Sprintf("Purged case instance %s", ids[0])
	if opts.Bulk {
		text = fmt.Sprintf("Purged %d case instance(s)", len(ids))
	}
	return out.Success(result, text)
}

func printCalls(out *OutputFormatter, calls []harness.Call) {
	fmt.Fprintln(out.Writer, "Calls:")
	for _, c := range calls {
		fmt.Fprintf(out.Writer, "  [%d] %s\n", c.Seq, c)
	}
}
