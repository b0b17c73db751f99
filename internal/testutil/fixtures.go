package testutil

import "github.com/roach88/casehistory/internal/history"

// CaseTree builds an archive holding the case instances ids with one record of
// every dependent kind each. parents maps a child id to its parent id.
//
// For a case "C1" the archive contains milestone "C1-m1", plan item "C1-p1",
// identity links "C1-il-case" (cmmn), "C1-il-plan" (planItem) and "C1-il-task"
// (on task "C1-t1"), entity link "C1-el1", variables "C1-v1" (cmmn) and
// "C1-v-task" (task), task "C1-t1" and task log entry "C1-tl1".
func CaseTree(parents map[string]string, ids ...string) *history.Archive {
	a := &history.Archive{}
	for _, id := range ids {
		AddCase(a, id, parents[id])
	}
	return a
}

// AddCase appends one fully populated case instance to a.
func AddCase(a *history.Archive, id, parentID string) {
	taskID := id + "-t1"
	a.CaseInstances = append(a.CaseInstances, history.CaseInstance{ID: id, ParentID: parentID, State: "completed"})
	a.Milestones = append(a.Milestones, history.Milestone{ID: id + "-m1", CaseInstanceID: id, Name: "reached"})
	a.PlanItems = append(a.PlanItems, history.PlanItem{ID: id + "-p1", CaseInstanceID: id, PlanItemDefinitionType: "humantask"})
	a.IdentityLinks = append(a.IdentityLinks,
		history.IdentityLink{ID: id + "-il-case", ScopeID: id, ScopeType: history.ScopeCase, Type: "participant", UserID: "kermit"},
		history.IdentityLink{ID: id + "-il-plan", ScopeID: id, ScopeType: history.ScopePlanItem, Type: "candidate", GroupID: "sales"},
		history.IdentityLink{ID: id + "-il-task", ScopeID: taskID, ScopeType: history.ScopeTask, Type: "assignee", UserID: "gonzo", TaskID: taskID},
	)
	a.EntityLinks = append(a.EntityLinks, history.EntityLink{
		ID: id + "-el1", ScopeID: id, ScopeType: history.ScopeCase,
		ReferenceScopeID: taskID, ReferenceScopeType: history.ScopeTask, LinkType: "child",
	})
	a.Variables = append(a.Variables,
		history.Variable{ID: id + "-v1", ScopeID: id, ScopeType: history.ScopeCase, Name: "amount", Type: "integer", Text: "10"},
		history.Variable{ID: id + "-v-task", ScopeID: taskID, ScopeType: history.ScopeTask, Name: "outcome", Type: "string", Text: "ok"},
	)
	a.Tasks = append(a.Tasks, history.Task{ID: taskID, ScopeID: id, ScopeType: history.ScopeCase, Name: "Review"})
	a.TaskLogEntries = append(a.TaskLogEntries, history.TaskLogEntry{ID: id + "-tl1", TaskID: taskID, ScopeID: id, Type: "USER_TASK_CREATED"})
}

// Chain returns the parent map of a linear hierarchy ids[0] -> ids[1] -> ...
func Chain(ids ...string) map[string]string {
	parents := make(map[string]string, len(ids))
	for i := 1; i < len(ids); i++ {
		parents[ids[i]] = ids[i-1]
	}
	return parents
}
