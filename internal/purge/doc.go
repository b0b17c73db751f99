// Package purge removes historic case instances together with every record
// that depends on them.
//
// A Purger walks a case hierarchy top-down. For each case instance it deletes,
// in a fixed order, the milestones, plan item instances, case and plan item
// identity links, entity links (when enabled), case variables and historic
// tasks, then the case instance record itself, and finally recurses into the
// sub-cases that named it as parent.
//
// Two paths are provided:
//
//   - PurgeCaseInstance resolves one case instance and deletes its records one
//     primary key at a time, recursing depth-first into each sub-case.
//   - PurgeCaseInstancesBulk deletes the records of a set of case instances
//     with set-oriented operations, recursing breadth-first with the union of
//     their sub-cases.
//
// The Purger never opens transactions. Callers that need all-or-nothing
// semantics run it against stores bound to their own unit of work.
package purge
