package history

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Archive is a bundle of historic records as produced by the runtime engine's
// archival step. Archives are the only way records enter the store.
type Archive struct {
	CaseInstances  []CaseInstance `yaml:"case_instances"`
	Milestones     []Milestone    `yaml:"milestones,omitempty"`
	PlanItems      []PlanItem     `yaml:"plan_items,omitempty"`
	IdentityLinks  []IdentityLink `yaml:"identity_links,omitempty"`
	EntityLinks    []EntityLink   `yaml:"entity_links,omitempty"`
	Variables      []Variable     `yaml:"variables,omitempty"`
	Tasks          []Task         `yaml:"tasks,omitempty"`
	TaskLogEntries []TaskLogEntry `yaml:"task_log_entries,omitempty"`
}

// LoadArchive reads and parses an archive YAML file.
// Unknown fields are rejected so typos fail loudly.
func LoadArchive(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive file: %w", err)
	}
	return DecodeArchive(bytes.NewReader(data))
}

// DecodeArchive parses an archive from r with strict field validation.
func DecodeArchive(r io.Reader) (*Archive, error) {
	var a Archive
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&a); err != nil {
		if err == io.EOF {
			return &a, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &a, nil
}

// Prepare normalises every id in the archive and fills missing record ids
// from gen. It then validates the archive.
func (a *Archive) Prepare(gen IDGenerator) error {
	fill := func(id string) string {
		if id = NormalizeID(id); id == "" {
			id = gen.Generate()
		}
		return id
	}

	for i := range a.CaseInstances {
		c := &a.CaseInstances[i]
		c.ID = fill(c.ID)
		c.ParentID = NormalizeID(c.ParentID)
	}
	for i := range a.Milestones {
		m := &a.Milestones[i]
		m.ID = fill(m.ID)
		m.CaseInstanceID = NormalizeID(m.CaseInstanceID)
	}
	for i := range a.PlanItems {
		p := &a.PlanItems[i]
		p.ID = fill(p.ID)
		p.CaseInstanceID = NormalizeID(p.CaseInstanceID)
	}
	for i := range a.IdentityLinks {
		l := &a.IdentityLinks[i]
		l.ID = fill(l.ID)
		l.ScopeID = NormalizeID(l.ScopeID)
		l.TaskID = NormalizeID(l.TaskID)
	}
	for i := range a.EntityLinks {
		l := &a.EntityLinks[i]
		l.ID = fill(l.ID)
		l.ScopeID = NormalizeID(l.ScopeID)
		l.ReferenceScopeID = NormalizeID(l.ReferenceScopeID)
	}
	for i := range a.Variables {
		v := &a.Variables[i]
		v.ID = fill(v.ID)
		v.ScopeID = NormalizeID(v.ScopeID)
		v.SubScopeID = NormalizeID(v.SubScopeID)
	}
	for i := range a.Tasks {
		t := &a.Tasks[i]
		t.ID = fill(t.ID)
		t.ScopeID = NormalizeID(t.ScopeID)
		if t.ScopeType == "" {
			t.ScopeType = ScopeCase
		}
	}
	for i := range a.TaskLogEntries {
		e := &a.TaskLogEntries[i]
		e.ID = fill(e.ID)
		e.TaskID = NormalizeID(e.TaskID)
		e.ScopeID = NormalizeID(e.ScopeID)
	}

	return a.Validate()
}

// Validate checks owner references and scope types.
func (a *Archive) Validate() error {
	for i, m := range a.Milestones {
		if m.CaseInstanceID == "" {
			return fmt.Errorf("milestones[%d]: case_instance_id is required", i)
		}
	}
	for i, p := range a.PlanItems {
		if p.CaseInstanceID == "" {
			return fmt.Errorf("plan_items[%d]: case_instance_id is required", i)
		}
	}
	for i, l := range a.IdentityLinks {
		if err := validateScope(l.ScopeID, l.ScopeType); err != nil {
			return fmt.Errorf("identity_links[%d]: %w", i, err)
		}
	}
	for i, l := range a.EntityLinks {
		if err := validateScope(l.ScopeID, l.ScopeType); err != nil {
			return fmt.Errorf("entity_links[%d]: %w", i, err)
		}
	}
	for i, v := range a.Variables {
		if err := validateScope(v.ScopeID, v.ScopeType); err != nil {
			return fmt.Errorf("variables[%d]: %w", i, err)
		}
		if v.Name == "" {
			return fmt.Errorf("variables[%d]: name is required", i)
		}
	}
	for i, t := range a.Tasks {
		if err := validateScope(t.ScopeID, t.ScopeType); err != nil {
			return fmt.Errorf("tasks[%d]: %w", i, err)
		}
	}
	for i, e := range a.TaskLogEntries {
		if e.TaskID == "" {
			return fmt.Errorf("task_log_entries[%d]: task_id is required", i)
		}
	}
	return nil
}

func validateScope(scopeID string, scopeType ScopeType) error {
	if scopeID == "" {
		return fmt.Errorf("scope_id is required")
	}
	if !ValidScopeTypes[scopeType] {
		return fmt.Errorf("invalid scope_type %q", scopeType)
	}
	return nil
}

// RecordCount returns the total number of records in the archive.
func (a *Archive) RecordCount() int {
	return len(a.CaseInstances) + len(a.Milestones) + len(a.PlanItems) +
		len(a.IdentityLinks) + len(a.EntityLinks) + len(a.Variables) +
		len(a.Tasks) + len(a.TaskLogEntries)
}
