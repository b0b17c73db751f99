package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/casehistory/internal/store"
)

// Call is one recorded collaborator call.
type Call struct {
	Seq    int      `json:"seq"`
	Method string   `json:"method"`
	Args   []string `json:"args"`
}

// String renders the call as Method(arg, arg).
func (c Call) String() string {
	return c.Method + "(" + strings.Join(c.Args, ", ") + ")"
}

// Outcome values for Result.Outcome.
const (
	OutcomeOK             = "ok"
	OutcomeNotFound       = "not_found"
	OutcomeStorageFailure = "storage_failure"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Outcome is ok, not_found or storage_failure.
	Outcome string `json:"outcome"`

	// Trace contains every collaborator call in order.
	Trace []Call `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Remaining lists the record ids left in the store after the purge.
	Remaining store.Snapshot `json:"remaining"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Outcome: OutcomeOK,
		Trace:   []Call{},
		Errors:  []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Calls returns the trace rendered as strings.
func (r *Result) Calls() []string {
	out := make([]string, len(r.Trace))
	for i, c := range r.Trace {
		out[i] = c.String()
	}
	return out
}

func formatCalls(trace []Call) string {
	var b strings.Builder
	for _, c := range trace {
		fmt.Fprintf(&b, "  [%d] %s\n", c.Seq, c)
	}
	return b.String()
}
