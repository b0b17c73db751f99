// Package store provides SQLite-backed storage for historic case records.
//
// The store holds the archived output of the case engine:
//   - Case instances (a forest linked through parent_id)
//   - Milestones and plan items (owned by case_instance_id)
//   - Identity links, entity links and variables (owned by scope_id/scope_type)
//   - Tasks and task log entries
//
// *Store implements every collaborator interface consumed by the purge
// package, including the task-history cascade.
//
// # Deletion Styles
//
// Per-record deletes (DeleteMilestone, DeleteVariable, ...) remove one row by
// primary key. Set-oriented deletes (BulkDelete*) remove all rows whose owner
// id is in a set, issuing one statement per chunk of BatchSize ids so the
// number of bound parameters stays under SQLite's limit. Both styles treat
// missing rows as a no-op.
//
// # Units of Work
//
// The store never opens a transaction on behalf of a purge. Callers that need
// the whole cascade to be atomic run it inside WithinTx, which hands them a
// transaction-bound *Store.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Task log entries reference their task
//
// All list queries use ORDER BY id so results are deterministic.
package store
