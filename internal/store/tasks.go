package store

import (
	"context"
	"fmt"

	"github.com/roach88/casehistory/internal/history"
)

// Task-history cascade.
//
// The purge engine hands task cleanup to a task purger and does not look at
// task-level records itself. The store's purger removes, in order:
//  1. task log entries of the case's tasks
//  2. identity links attached to those tasks (task_id or task scope)
//  3. variables scoped to those tasks
//  4. the task rows themselves
//
// Log entries go first because they reference historic_tasks by foreign key.

const caseTasksByScope = `SELECT id FROM historic_tasks WHERE scope_type = 'cmmn' AND scope_id = ?`

// PurgeTasksForCase removes every historic task of a case instance together
// with its task-level records.
func (s *Store) PurgeTasksForCase(ctx context.Context, caseInstanceID string) error {
	stmts := []struct {
		what  string
		query string
	}{
		{"task log entries", `DELETE FROM historic_task_log_entries WHERE task_id IN (` + caseTasksByScope + `)`},
		{"task identity links", `DELETE FROM historic_identity_links
			WHERE task_id IN (` + caseTasksByScope + `)
			OR (scope_type = 'task' AND scope_id IN (` + caseTasksByScope + `))`},
		{"task variables", `DELETE FROM historic_variables
			WHERE scope_type = 'task' AND scope_id IN (` + caseTasksByScope + `)`},
		{"tasks", `DELETE FROM historic_tasks WHERE scope_type = 'cmmn' AND scope_id = ?`},
	}

	for _, st := range stmts {
		args := make([]any, countParams(st.query))
		for i := range args {
			args[i] = caseInstanceID
		}
		if _, err := s.q.ExecContext(ctx, st.query, args...); err != nil {
			return fmt.Errorf("purge %s for case %q: %w", st.what, caseInstanceID, err)
		}
	}
	return nil
}

// BulkPurgeTasksForCases removes every historic task of the case instances in
// caseInstanceIDs together with their task-level records.
func (s *Store) BulkPurgeTasksForCases(ctx context.Context, caseInstanceIDs []string) error {
	for _, chunk := range history.Chunk(caseInstanceIDs, s.batchSize) {
		in := placeholders(len(chunk))
		tasksIn := `SELECT id FROM historic_tasks WHERE scope_type = 'cmmn' AND scope_id IN (` + in + `)`
		stmts := []struct {
			what   string
			query  string
			copies int
		}{
			{"task log entries", `DELETE FROM historic_task_log_entries WHERE task_id IN (` + tasksIn + `)`, 1},
			{"task identity links", `DELETE FROM historic_identity_links
				WHERE task_id IN (` + tasksIn + `)
				OR (scope_type = 'task' AND scope_id IN (` + tasksIn + `))`, 2},
			{"task variables", `DELETE FROM historic_variables
				WHERE scope_type = 'task' AND scope_id IN (` + tasksIn + `)`, 1},
			{"tasks", `DELETE FROM historic_tasks WHERE scope_type = 'cmmn' AND scope_id IN (` + in + `)`, 1},
		}

		for _, st := range stmts {
			args := make([]any, 0, st.copies*len(chunk))
			for i := 0; i < st.copies; i++ {
				args = append(args, stringArgs(chunk)...)
			}
			if _, err := s.q.ExecContext(ctx, st.query, args...); err != nil {
				return fmt.Errorf("bulk purge %s: %w", st.what, err)
			}
		}
	}
	return nil
}

// countParams counts the ? markers in a query.
func countParams(query string) int {
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
		}
	}
	return n
}
