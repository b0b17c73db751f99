package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/casehistory/internal/history"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database string
}

// ImportResult is the payload of an import.
type ImportResult struct {
	Archive  string `json:"archive"`
	Database string `json:"database"`
	Records  int    `json:"records"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <archive.yaml>",
		Short: "Load a YAML archive of historic records",
		Long: `Write the records of a YAML archive into the database in one transaction.

Records without an id get a UUIDv7. The database is created if it does not
exist. Importing the same archive twice is a no-op.

Example:
  casehist import --db ./history.db ./archive.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")

	return cmd
}

func runImport(cmd *cobra.Command, opts *ImportOptions, path string) error {
	out := newFormatter(cmd, opts.RootOptions)

	cfg, err := loadSettings(cmd, opts.RootOptions, opts.Database, nil)
	if err != nil {
		return out.Fail(ExitCommandError, codeConfig, "failed to load config", err, nil)
	}
	logger := newLogger(cmd.ErrOrStderr(), opts.RootOptions, cfg)

	archive, err := history.LoadArchive(path)
	if err != nil {
		return out.Fail(ExitCommandError, codeArchive, "failed to load archive", err, nil)
	}
	if err := archive.Prepare(history.UUIDv7Generator{}); err != nil {
		return out.Fail(ExitCommandError, codeArchive, "invalid archive", err, nil)
	}

	st, err := openStore(cfg, false)
	if err != nil {
		return out.Fail(ExitCommandError, codeDatabase, "failed to open database", err, nil)
	}
	defer closeStore(st, logger)

	if err := st.Import(commandContext(cmd), archive); err != nil {
		return out.Fail(ExitFailure, codeImport, "import failed", err, nil)
	}
	logger.Debug("archive imported", "path", path, "records", archive.RecordCount())

	result := ImportResult{Archive: path, Database: cfg.Database, Records: archive.RecordCount()}
	return out.Success(result, fmt.Sprintf("Imported %d records into %s", result.Records, result.Database))
}
