package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/casehistory/internal/store"
	"github.com/roach88/casehistory/internal/testutil"
)

// execute runs the root command with args and captures both streams.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// seedDatabase creates a database holding the chain C1 -> C2 and the
// unrelated root K, each with one record of every dependent kind.
func seedDatabase(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "history.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Import(context.Background(),
		testutil.CaseTree(testutil.Chain("C1", "C2"), "C1", "C2", "K")))
	return path
}

func openDatabase(t *testing.T, path string) *store.Store {
	t.Helper()

	st, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
