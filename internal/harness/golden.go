package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/casehistory/internal/store"
)

// RenderTrace renders a scenario result as the stable text stored in golden
// files: a header, every collaborator call in order, then the remaining record
// ids per table.
func RenderTrace(scenario *Scenario, result *Result) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", scenario.Name)
	fmt.Fprintf(&b, "purge: %s %v\n", scenario.Purge.Mode, scenario.Purge.IDs)
	fmt.Fprintf(&b, "entity_links_enabled: %t\n", scenario.EntityLinksEnabled)
	fmt.Fprintf(&b, "outcome: %s\n", result.Outcome)

	if len(result.Trace) == 0 {
		b.WriteString("calls: none\n")
	} else {
		b.WriteString("calls:\n")
		b.WriteString(formatCalls(result.Trace))
	}

	b.WriteString("remaining:\n")
	for _, table := range snapshotTables(result.Remaining) {
		ids := "-"
		if len(table.ids) > 0 {
			ids = strings.Join(table.ids, ", ")
		}
		fmt.Fprintf(&b, "  %s: %s\n", table.name, ids)
	}
	return []byte(b.String())
}

type snapshotTable struct {
	name store.Table
	ids  []string
}

func snapshotTables(s store.Snapshot) []snapshotTable {
	return []snapshotTable{
		{store.TableCaseInstances, s.CaseInstances},
		{store.TableMilestones, s.Milestones},
		{store.TablePlanItems, s.PlanItems},
		{store.TableIdentityLinks, s.IdentityLinks},
		{store.TableEntityLinks, s.EntityLinks},
		{store.TableVariables, s.Variables},
		{store.TableTasks, s.Tasks},
		{store.TableTaskLogEntries, s.TaskLogEntries},
	}
}

// RunWithGolden executes a scenario and compares its trace against a golden
// file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can check Pass, or an error if the scenario
// could not be executed.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario, result)
	return result, nil
}

// AssertGolden compares an existing result against the scenario's golden file.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, RenderTrace(scenario, result))
}
