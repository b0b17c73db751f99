package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/casehistory/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Trace    []Call // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		buf.WriteString(formatCalls(e.Trace))
	}
	return buf.String()
}

// AssertionContext carries what store-backed assertions need.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result.Trace, a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

func evaluateAssertion(trace []Call, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertRemaining:
		return assertRemaining(actx, a)
	case AssertAbsent:
		return assertAbsent(actx, a)
	case AssertCallOrder:
		return assertCallOrder(trace, a)
	case AssertCallCount:
		return assertCallCount(trace, a)
	case AssertNoCalls:
		return assertNoCalls(trace, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

// assertRemaining checks how many records of a table its owner still has.
func assertRemaining(actx *AssertionContext, a Assertion) error {
	if actx == nil || actx.Store == nil {
		return fmt.Errorf("remaining assertion requires a store")
	}
	n, err := actx.Store.CountOwned(actx.Ctx, store.Table(a.Table), a.Owner)
	if err != nil {
		return err
	}
	if n != a.Count {
		return &AssertionError{
			Type:     AssertRemaining,
			Expected: fmt.Sprintf("%d %s owned by %s", a.Count, a.Table, a.Owner),
			Actual:   fmt.Sprintf("%d remaining", n),
		}
	}
	return nil
}

// assertAbsent checks that none of the case instances exists.
func assertAbsent(actx *AssertionContext, a Assertion) error {
	if actx == nil || actx.Store == nil {
		return fmt.Errorf("absent assertion requires a store")
	}
	var present []string
	for _, id := range a.IDs {
		counts, err := actx.Store.CountsForCase(actx.Ctx, id)
		if err != nil {
			return err
		}
		if counts.Exists {
			present = append(present, id)
		}
	}
	if len(present) > 0 {
		return &AssertionError{
			Type:     AssertAbsent,
			Expected: fmt.Sprintf("case instances %v absent", a.IDs),
			Actual:   fmt.Sprintf("still present: %v", present),
		}
	}
	return nil
}

// assertCallOrder checks that calls appear in the specified order.
// Calls don't need to be consecutive (intervening calls are allowed).
func assertCallOrder(trace []Call, a Assertion) error {
	next := 0
	for _, call := range trace {
		if next < len(a.Calls) && call.String() == a.Calls[next] {
			next++
		}
	}
	if next == len(a.Calls) {
		return nil
	}
	return &AssertionError{
		Type:     AssertCallOrder,
		Expected: fmt.Sprintf("calls in order: %v", a.Calls),
		Actual:   fmt.Sprintf("%q not found after %d matched calls", a.Calls[next], next),
		Trace:    trace,
	}
}

// assertCallCount checks that a call occurs exactly Count times.
func assertCallCount(trace []Call, a Assertion) error {
	count := 0
	for _, call := range trace {
		if matchesCall(call, a.Call) {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertCallCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Call),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// matchesCall compares a full call when want has an argument list and the
// method name otherwise.
func matchesCall(call Call, want string) bool {
	if strings.Contains(want, "(") {
		return call.String() == want
	}
	return call.Method == want
}

// assertNoCalls checks that no call starts with Prefix.
func assertNoCalls(trace []Call, a Assertion) error {
	var hits []string
	for _, call := range trace {
		if s := call.String(); strings.HasPrefix(s, a.Prefix) {
			hits = append(hits, s)
		}
	}
	if len(hits) > 0 {
		expected := "no calls"
		if a.Prefix != "" {
			expected = fmt.Sprintf("no calls starting with %q", a.Prefix)
		}
		return &AssertionError{
			Type:     AssertNoCalls,
			Expected: expected,
			Actual:   fmt.Sprintf("%d matching calls, first %s", len(hits), hits[0]),
			Trace:    trace,
		}
	}
	return nil
}
