// Package history defines the historic case records that the purge engine
// removes.
//
// This package contains type definitions and small value helpers only. The
// store, purge, harness and cli packages import history; history imports
// nothing internal.
//
// Ownership model:
//   - Milestones and plan items belong to exactly one case instance
//     (CaseInstanceID).
//   - Identity links, entity links and variables belong to a generic
//     (ScopeID, ScopeType) owner. A case instance owns identity links at two
//     granularities: ScopeCase and ScopePlanItem, both keyed by the case id.
//   - Tasks belong to a case instance through ScopeID; task-level records
//     (task log entries, task identity links, task variables) hang off the
//     task.
//   - Case instances form a forest through ParentID. Root cases have an empty
//     ParentID.
package history
