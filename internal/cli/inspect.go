package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Database string
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <case-instance-id>",
		Short: "Show the records still referencing a case instance",
		Long: `Count the records that still reference a case instance: milestones, plan
items, identity links, entity links, variables, tasks and child case instances.

After a successful purge every count is zero and the case no longer exists.

Example:
  casehist inspect --db ./history.db C1`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")

	return cmd
}

func runInspect(cmd *cobra.Command, opts *InspectOptions, id string) error {
	out := newFormatter(cmd, opts.RootOptions)

	cfg, err := loadSettings(cmd, opts.RootOptions, opts.Database, nil)
	if err != nil {
		return out.Fail(ExitCommandError, codeConfig, "failed to load config", err, nil)
	}
	logger := newLogger(cmd.ErrOrStderr(), opts.RootOptions, cfg)

	st, err := openStore(cfg, true)
	if err != nil {
		return out.Fail(ExitCommandError, codeDatabase, "failed to open database", err, nil)
	}
	defer closeStore(st, logger)

	counts, err := st.CountsForCase(commandContext(cmd), id)
	if err != nil {
		return out.Fail(ExitFailure, codeInspect, "inspect failed", err, nil)
	}

	var b strings.Builder
	state := "absent"
	if counts.Exists {
		state = "present"
	}
	fmt.Fprintf(&b, "case instance %s: %s\n", counts.CaseInstanceID, state)
	for _, row := range []struct {
		name string
		n    int
	}{
		{"milestones", counts.Milestones},
		{"plan items", counts.PlanItems},
		{"identity links", counts.IdentityLinks},
		{"entity links", counts.EntityLinks},
		{"variables", counts.Variables},
		{"tasks", counts.Tasks},
		{"child cases", counts.ChildCases},
	} {
		fmt.Fprintf(&b, "  %-15s %d\n", row.name+":", row.n)
	}
	fmt.Fprintf(&b, "  %-15s %d", "total:", counts.Total())

	return out.Success(counts, b.String())
}
