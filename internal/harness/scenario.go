package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/casehistory/internal/history"
	"github.com/roach88/casehistory/internal/store"
)

// Scenario defines a purge scenario: an archive to load, one purge call to
// make against it, and assertions over the resulting calls and records.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// EntityLinksEnabled turns on the entity-link step.
	EntityLinksEnabled bool `yaml:"entity_links_enabled,omitempty"`

	// Archive is loaded into the store before the purge.
	Archive history.Archive `yaml:"archive"`

	// Purge is the call under test.
	Purge PurgeStep `yaml:"purge"`

	// ExpectError is the expected failure outcome, e.g. "not_found".
	// Empty means the purge must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Assertions validate the trace and the remaining records.
	Assertions []Assertion `yaml:"assertions"`
}

// Purge modes.
const (
	ModeSingle = "single"
	ModeBulk   = "bulk"
)

// PurgeStep selects the purge path and its input.
type PurgeStep struct {
	// Mode is "single" or "bulk".
	Mode string `yaml:"mode"`

	// IDs holds exactly one id for single mode; any number for bulk mode.
	IDs []string `yaml:"ids"`
}

// Assertion validates the trace or the remaining records.
type Assertion struct {
	// Type is one of remaining, absent, call_order, call_count, no_calls.
	Type string `yaml:"type"`

	// Table and Owner select the records counted by remaining.
	Table string `yaml:"table,omitempty"`
	Owner string `yaml:"owner,omitempty"`

	// Count is the expected count (remaining, call_count).
	Count int `yaml:"count,omitempty"`

	// IDs are the case instances that must be gone (absent).
	IDs []string `yaml:"ids,omitempty"`

	// Calls is the expected relative order of calls (call_order).
	Calls []string `yaml:"calls,omitempty"`

	// Call is a full call such as "DeletePlanItem(p1)" or a bare method name
	// matching every call of that method (call_count).
	Call string `yaml:"call,omitempty"`

	// Prefix rejects calls starting with it (no_calls).
	Prefix string `yaml:"prefix,omitempty"`
}

// Assertion type constants.
const (
	AssertRemaining = "remaining"
	AssertAbsent    = "absent"
	AssertCallOrder = "call_order"
	AssertCallCount = "call_count"
	AssertNoCalls   = "no_calls"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch s.Purge.Mode {
	case ModeSingle:
		if len(s.Purge.IDs) != 1 {
			return fmt.Errorf("purge: single mode takes exactly one id, got %d", len(s.Purge.IDs))
		}
	case ModeBulk:
	case "":
		return fmt.Errorf("purge: mode is required")
	default:
		return fmt.Errorf("purge: unknown mode %q", s.Purge.Mode)
	}

	switch s.ExpectError {
	case "", OutcomeNotFound, OutcomeStorageFailure:
	default:
		return fmt.Errorf("expect_error: unknown outcome %q", s.ExpectError)
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertRemaining:
		if !store.ValidTable(store.Table(a.Table)) {
			return fmt.Errorf("assertions[%d]: unknown table %q for remaining", index, a.Table)
		}
		if a.Owner == "" {
			return fmt.Errorf("assertions[%d]: owner is required for remaining", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for remaining", index)
		}
	case AssertAbsent:
		if len(a.IDs) == 0 {
			return fmt.Errorf("assertions[%d]: ids list is required for absent", index)
		}
	case AssertCallOrder:
		if len(a.Calls) == 0 {
			return fmt.Errorf("assertions[%d]: calls list is required for call_order", index)
		}
	case AssertCallCount:
		if a.Call == "" {
			return fmt.Errorf("assertions[%d]: call is required for call_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for call_count", index)
		}
	case AssertNoCalls:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
