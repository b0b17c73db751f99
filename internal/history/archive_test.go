package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterGen struct{ n int }

func (g *counterGen) Generate() string {
	g.n++
	return fmt.Sprintf("gen-%d", g.n)
}

const sampleArchive = `
case_instances:
  - id: C1
    name: Claim
    state: completed
    start_time: 2024-03-01T10:00:00Z
  - id: C2
    parent_id: C1
milestones:
  - case_instance_id: C1
    name: Approved
plan_items:
  - id: P1
    case_instance_id: C2
identity_links:
  - scope_id: C1
    scope_type: cmmn
    type: participant
    user_id: kermit
  - scope_id: C1
    scope_type: planItem
    type: candidate
    group_id: managers
variables:
  - scope_id: C2
    scope_type: cmmn
    name: amount
    type: integer
    text: "100"
tasks:
  - id: T1
    scope_id: C2
    name: Review
task_log_entries:
  - task_id: T1
    type: USER_TASK_CREATED
`

func TestDecodeArchive(t *testing.T) {
	a, err := DecodeArchive(strings.NewReader(sampleArchive))
	require.NoError(t, err)

	require.Len(t, a.CaseInstances, 2)
	assert.Equal(t, "C1", a.CaseInstances[1].ParentID)
	assert.True(t, a.CaseInstances[0].IsRoot())
	assert.Equal(t, 2024, a.CaseInstances[0].StartTime.Year())
	assert.Len(t, a.IdentityLinks, 2)
	assert.Equal(t, ScopePlanItem, a.IdentityLinks[1].ScopeType)
	assert.Equal(t, 9, a.RecordCount())
}

func TestDecodeArchive_RejectsUnknownFields(t *testing.T) {
	_, err := DecodeArchive(strings.NewReader("case_instance:\n  - id: C1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestDecodeArchive_Empty(t *testing.T) {
	a, err := DecodeArchive(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, a.RecordCount())
}

func TestArchivePrepare_FillsIDsAndDefaults(t *testing.T) {
	a, err := DecodeArchive(strings.NewReader(sampleArchive))
	require.NoError(t, err)

	require.NoError(t, a.Prepare(&counterGen{}))

	assert.Equal(t, "gen-1", a.Milestones[0].ID)
	assert.Equal(t, "gen-2", a.IdentityLinks[0].ID)
	assert.Equal(t, "gen-3", a.IdentityLinks[1].ID)
	assert.Equal(t, "gen-4", a.Variables[0].ID)
	assert.Equal(t, ScopeCase, a.Tasks[0].ScopeType)
	assert.Equal(t, "gen-5", a.TaskLogEntries[0].ID)
}

func TestArchiveValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		archive Archive
		wantErr string
	}{
		{
			name:    "milestone without owner",
			archive: Archive{Milestones: []Milestone{{ID: "m1"}}},
			wantErr: "milestones[0]: case_instance_id is required",
		},
		{
			name:    "plan item without owner",
			archive: Archive{PlanItems: []PlanItem{{ID: "p1"}}},
			wantErr: "plan_items[0]: case_instance_id is required",
		},
		{
			name:    "identity link with bad scope type",
			archive: Archive{IdentityLinks: []IdentityLink{{ID: "l1", ScopeID: "C1", ScopeType: "bpmn"}}},
			wantErr: `identity_links[0]: invalid scope_type "bpmn"`,
		},
		{
			name:    "entity link without scope id",
			archive: Archive{EntityLinks: []EntityLink{{ID: "e1", ScopeType: ScopeCase}}},
			wantErr: "entity_links[0]: scope_id is required",
		},
		{
			name:    "variable without name",
			archive: Archive{Variables: []Variable{{ID: "v1", ScopeID: "C1", ScopeType: ScopeCase}}},
			wantErr: "variables[0]: name is required",
		},
		{
			name:    "task log entry without task",
			archive: Archive{TaskLogEntries: []TaskLogEntry{{ID: "t1"}}},
			wantErr: "task_log_entries[0]: task_id is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.archive.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadArchive_MissingFile(t *testing.T) {
	_, err := LoadArchive(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read archive file")
}

func TestLoadArchive_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleArchive), 0644))

	a, err := LoadArchive(path)
	require.NoError(t, err)
	assert.Len(t, a.CaseInstances, 2)
}
