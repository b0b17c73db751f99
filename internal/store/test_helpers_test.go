package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/casehistory/internal/history"
	"github.com/roach88/casehistory/internal/testutil"
)

// createTestStore creates a new on-disk store for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// importArchive writes a fully populated archive into s.
func importArchive(t *testing.T, s *Store, a *history.Archive) {
	t.Helper()
	if err := a.Validate(); err != nil {
		t.Fatalf("invalid test archive: %v", err)
	}
	if err := s.Import(context.Background(), a); err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
}

// caseArchive builds an archive with one record of every kind for each case id.
// parents maps child id to parent id.
func caseArchive(parents map[string]string, ids ...string) *history.Archive {
	return testutil.CaseTree(parents, ids...)
}
