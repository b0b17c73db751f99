package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/casehistory/internal/config"
	"github.com/roach88/casehistory/internal/store"
)

// Error codes for command failures that are not purge errors.
const (
	codeConfig   = "E_CONFIG"
	codeDatabase = "E_DATABASE"
	codeArchive  = "E_ARCHIVE"
	codeImport   = "E_IMPORT"
	codeInspect  = "E_INSPECT"
)

// loadSettings loads the --config settings and applies flag overrides.
// Flags only override the file when set explicitly.
func loadSettings(cmd *cobra.Command, root *RootOptions, database string, entityLinks *bool) (config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("db") {
		cfg.Database = database
	}
	if entityLinks != nil && cmd.Flags().Changed("entity-links") {
		cfg.EntityLinksEnabled = *entityLinks
	}
	return cfg, nil
}

// newLogger builds the command logger. --verbose forces Debug, otherwise the
// configured level applies.
func newLogger(w io.Writer, root *RootOptions, cfg config.Config) *slog.Logger {
	level := cfg.SlogLevel()
	if root.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newFormatter(cmd *cobra.Command, root *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    root.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   root.Verbose,
	}
}

// openStore opens the configured database. With mustExist a missing file is
// an error instead of a fresh database.
func openStore(cfg config.Config, mustExist bool) (*store.Store, error) {
	if cfg.Database == "" {
		return nil, fmt.Errorf("database path required (--db or database in config)")
	}
	if mustExist {
		if _, err := os.Stat(cfg.Database); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found: %s", cfg.Database)
		}
	}
	return store.Open(cfg.Database, store.WithBatchSize(cfg.BulkBatchSize))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func closeStore(st *store.Store, logger *slog.Logger) {
	if err := st.Close(); err != nil {
		logger.Error("error closing database", "error", err)
	}
}
