package history

import "time"

// ScopeType names the kind of owner referenced by a scope id.
type ScopeType string

const (
	// ScopeCase scopes a record to a case instance.
	ScopeCase ScopeType = "cmmn"

	// ScopePlanItem scopes a record to the plan items of a case instance.
	// Plan-item identity links still carry the case instance id as scope id.
	ScopePlanItem ScopeType = "planItem"

	// ScopeTask scopes a record to a single task.
	ScopeTask ScopeType = "task"
)

// ValidScopeTypes defines allowed scope types.
var ValidScopeTypes = map[ScopeType]bool{
	ScopeCase:     true,
	ScopePlanItem: true,
	ScopeTask:     true,
}

// CaseInstance is a historic case instance.
type CaseInstance struct {
	ID               string     `json:"id" yaml:"id"`
	ParentID         string     `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Name             string     `json:"name,omitempty" yaml:"name,omitempty"`
	BusinessKey      string     `json:"business_key,omitempty" yaml:"business_key,omitempty"`
	CaseDefinitionID string     `json:"case_definition_id,omitempty" yaml:"case_definition_id,omitempty"`
	State            string     `json:"state,omitempty" yaml:"state,omitempty"`
	TenantID         string     `json:"tenant_id,omitempty" yaml:"tenant_id,omitempty"`
	StartTime        time.Time  `json:"start_time" yaml:"start_time,omitempty"`
	EndTime          *time.Time `json:"end_time,omitempty" yaml:"end_time,omitempty"`
}

// IsRoot reports whether the case instance has no parent.
func (c CaseInstance) IsRoot() bool {
	return c.ParentID == ""
}

// Milestone is a historic milestone instance reached by a case instance.
type Milestone struct {
	ID             string `json:"id" yaml:"id"`
	CaseInstanceID string `json:"case_instance_id" yaml:"case_instance_id"`
	Name           string `json:"name,omitempty" yaml:"name,omitempty"`
	ElementID      string `json:"element_id,omitempty" yaml:"element_id,omitempty"`

	// TimeStamp is when the milestone was reached; nil if unknown.
	TimeStamp *time.Time `json:"time_stamp,omitempty" yaml:"time_stamp,omitempty"`
}

// PlanItem is a historic plan item instance of a case instance.
type PlanItem struct {
	ID                     string `json:"id" yaml:"id"`
	CaseInstanceID         string `json:"case_instance_id" yaml:"case_instance_id"`
	Name                   string `json:"name,omitempty" yaml:"name,omitempty"`
	PlanItemDefinitionType string `json:"plan_item_definition_type,omitempty" yaml:"plan_item_definition_type,omitempty"`
	State                  string `json:"state,omitempty" yaml:"state,omitempty"`
}

// IdentityLink associates a user or group with a scope.
type IdentityLink struct {
	ID        string    `json:"id" yaml:"id"`
	ScopeID   string    `json:"scope_id" yaml:"scope_id"`
	ScopeType ScopeType `json:"scope_type" yaml:"scope_type"`
	Type      string    `json:"type,omitempty" yaml:"type,omitempty"` // "participant", "candidate", ...
	UserID    string    `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	GroupID   string    `json:"group_id,omitempty" yaml:"group_id,omitempty"`
	TaskID    string    `json:"task_id,omitempty" yaml:"task_id,omitempty"`
}

// EntityLink records a reference from one scope to another.
type EntityLink struct {
	ID                 string    `json:"id" yaml:"id"`
	ScopeID            string    `json:"scope_id" yaml:"scope_id"`
	ScopeType          ScopeType `json:"scope_type" yaml:"scope_type"`
	ReferenceScopeID   string    `json:"reference_scope_id" yaml:"reference_scope_id"`
	ReferenceScopeType ScopeType `json:"reference_scope_type" yaml:"reference_scope_type"`
	LinkType           string    `json:"link_type,omitempty" yaml:"link_type,omitempty"`
	HierarchyType      string    `json:"hierarchy_type,omitempty" yaml:"hierarchy_type,omitempty"`
}

// Variable is a historic variable instance.
type Variable struct {
	ID         string    `json:"id" yaml:"id"`
	ScopeID    string    `json:"scope_id" yaml:"scope_id"`
	ScopeType  ScopeType `json:"scope_type" yaml:"scope_type"`
	SubScopeID string    `json:"sub_scope_id,omitempty" yaml:"sub_scope_id,omitempty"`
	Name       string    `json:"name" yaml:"name"`
	Type       string    `json:"type,omitempty" yaml:"type,omitempty"`
	Text       string    `json:"text,omitempty" yaml:"text,omitempty"`
}

// Task is a historic task instance created by a case instance.
type Task struct {
	ID        string    `json:"id" yaml:"id"`
	ScopeID   string    `json:"scope_id" yaml:"scope_id"`
	ScopeType ScopeType `json:"scope_type" yaml:"scope_type"`
	Name      string    `json:"name,omitempty" yaml:"name,omitempty"`
	Assignee  string    `json:"assignee,omitempty" yaml:"assignee,omitempty"`
}

// TaskLogEntry is an audit entry recorded against a task.
type TaskLogEntry struct {
	ID      string `json:"id" yaml:"id"`
	TaskID  string `json:"task_id" yaml:"task_id"`
	ScopeID string `json:"scope_id,omitempty" yaml:"scope_id,omitempty"`
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	Data    string `json:"data,omitempty" yaml:"data,omitempty"`
}
