package store

import (
	"context"
	"fmt"
)

// Table names a historic table that can be inspected.
type Table string

const (
	TableCaseInstances  Table = "case_instances"
	TableMilestones     Table = "milestones"
	TablePlanItems      Table = "plan_items"
	TableIdentityLinks  Table = "identity_links"
	TableEntityLinks    Table = "entity_links"
	TableVariables      Table = "variables"
	TableTasks          Table = "tasks"
	TableTaskLogEntries Table = "task_log_entries"
)

// tableInfo maps an inspectable table to its SQL name and owner column.
// Only names from this whitelist are ever interpolated into SQL.
var tableInfo = map[Table]struct {
	sqlName  string
	ownerCol string
}{
	TableCaseInstances:  {"historic_case_instances", "parent_id"},
	TableMilestones:     {"historic_milestones", "case_instance_id"},
	TablePlanItems:      {"historic_plan_items", "case_instance_id"},
	TableIdentityLinks:  {"historic_identity_links", "scope_id"},
	TableEntityLinks:    {"historic_entity_links", "scope_id"},
	TableVariables:      {"historic_variables", "scope_id"},
	TableTasks:          {"historic_tasks", "scope_id"},
	TableTaskLogEntries: {"historic_task_log_entries", "task_id"},
}

// Tables lists the inspectable tables in purge order.
var Tables = []Table{
	TableMilestones,
	TablePlanItems,
	TableIdentityLinks,
	TableEntityLinks,
	TableVariables,
	TableTasks,
	TableTaskLogEntries,
	TableCaseInstances,
}

// ValidTable reports whether t names an inspectable table.
func ValidTable(t Table) bool {
	_, ok := tableInfo[t]
	return ok
}

// CountOwned counts the rows of table whose owner column equals ownerID.
// The owner column is parent_id for case instances, case_instance_id for
// milestones and plan items, task_id for task log entries and scope_id for
// everything else.
func (s *Store) CountOwned(ctx context.Context, table Table, ownerID string) (int, error) {
	info, ok := tableInfo[table]
	if !ok {
		return 0, fmt.Errorf("unknown table %q", table)
	}

	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", info.sqlName, info.ownerCol)
	if err := s.q.QueryRowContext(ctx, query, ownerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// CaseCounts reports the records still referencing one case instance.
type CaseCounts struct {
	CaseInstanceID string `json:"case_instance_id"`
	Exists         bool   `json:"exists"`
	Milestones     int    `json:"milestones"`
	PlanItems      int    `json:"plan_items"`
	IdentityLinks  int    `json:"identity_links"`
	EntityLinks    int    `json:"entity_links"`
	Variables      int    `json:"variables"`
	Tasks          int    `json:"tasks"`
	ChildCases     int    `json:"child_cases"`
}

// Total returns the number of dependent records, excluding the case itself.
func (c CaseCounts) Total() int {
	return c.Milestones + c.PlanItems + c.IdentityLinks + c.EntityLinks +
		c.Variables + c.Tasks + c.ChildCases
}

// CountsForCase reports the records still referencing caseInstanceID.
func (s *Store) CountsForCase(ctx context.Context, caseInstanceID string) (CaseCounts, error) {
	counts := CaseCounts{CaseInstanceID: caseInstanceID}

	var exists int
	if err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM historic_case_instances WHERE id = ?`, caseInstanceID,
	).Scan(&exists); err != nil {
		return counts, fmt.Errorf("count case instance: %w", err)
	}
	counts.Exists = exists > 0

	targets := []struct {
		table Table
		dst   *int
	}{
		{TableMilestones, &counts.Milestones},
		{TablePlanItems, &counts.PlanItems},
		{TableIdentityLinks, &counts.IdentityLinks},
		{TableEntityLinks, &counts.EntityLinks},
		{TableVariables, &counts.Variables},
		{TableTasks, &counts.Tasks},
		{TableCaseInstances, &counts.ChildCases},
	}
	for _, target := range targets {
		n, err := s.CountOwned(ctx, target.table, caseInstanceID)
		if err != nil {
			return counts, err
		}
		*target.dst = n
	}
	return counts, nil
}

// Snapshot lists every remaining record id per table, sorted by id.
// Two stores with equal snapshots hold the same set of records.
type Snapshot struct {
	CaseInstances  []string `json:"case_instances"`
	Milestones     []string `json:"milestones"`
	PlanItems      []string `json:"plan_items"`
	IdentityLinks  []string `json:"identity_links"`
	EntityLinks    []string `json:"entity_links"`
	Variables      []string `json:"variables"`
	Tasks          []string `json:"tasks"`
	TaskLogEntries []string `json:"task_log_entries"`
}

// Empty reports whether the snapshot holds no records at all.
func (s Snapshot) Empty() bool {
	return len(s.CaseInstances)+len(s.Milestones)+len(s.PlanItems)+
		len(s.IdentityLinks)+len(s.EntityLinks)+len(s.Variables)+
		len(s.Tasks)+len(s.TaskLogEntries) == 0
}

// Snapshot reads the ids of every record in the store.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	targets := []struct {
		table Table
		dst   *[]string
	}{
		{TableCaseInstances, &snap.CaseInstances},
		{TableMilestones, &snap.Milestones},
		{TablePlanItems, &snap.PlanItems},
		{TableIdentityLinks, &snap.IdentityLinks},
		{TableEntityLinks, &snap.EntityLinks},
		{TableVariables, &snap.Variables},
		{TableTasks, &snap.Tasks},
		{TableTaskLogEntries, &snap.TaskLogEntries},
	}
	for _, target := range targets {
		query := fmt.Sprintf("SELECT id FROM %s ORDER BY id COLLATE BINARY ASC", tableInfo[target.table].sqlName)
		ids, err := s.queryIDs(ctx, query)
		if err != nil {
			return Snapshot{}, fmt.Errorf("snapshot %s: %w", target.table, err)
		}
		*target.dst = ids
	}
	return snap, nil
}
