// Package harness runs purge scenarios against an isolated history store.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	entity_links_enabled: true
//	archive:
//	  case_instances:
//	    - { id: C1 }
//	    - { id: C2, parent_id: C1 }
//	  plan_items:
//	    - { id: p1, case_instance_id: C1 }
//	purge:
//	  mode: single        # or bulk
//	  ids: [C1]
//	expect_error: not_found  # optional
//	assertions:
//	  - type: absent
//	    ids: [C1, C2]
//	  - type: remaining
//	    table: plan_items
//	    owner: C1
//	    count: 0
//	  - type: call_order
//	    calls: ["DeleteCaseInstance(C1)", "DeleteCaseInstance(C2)"]
//
// # Assertion Types
//
//   - remaining: the records of table owned by owner number exactly count
//   - absent: none of ids exists as a case instance
//   - call_order: calls were made in this relative order
//   - call_count: a call (or every call of a method) was made exactly count times
//   - no_calls: no call starts with prefix; an empty prefix forbids any call
//
// # Deterministic Testing
//
// Every scenario runs in a fresh in-memory SQLite database. Records without
// an id receive "gen-1", "gen-2", ... in archive order, and the store is
// wrapped in a Recorder so the exact collaborator calls form the trace that
// golden files snapshot.
package harness
