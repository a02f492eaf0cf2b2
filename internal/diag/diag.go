// Package diag provides the structured, multi-entry issue report used by
// every validation layer of the engine.
//
// Validation never stops at the first problem: each layer appends issues to
// a List and callers decide whether the accumulated result blocks further
// work. An Issue always names the offending id (stage, transform, or
// parameter) so reports are actionable without re-running.
package diag

import (
	"fmt"
	"strings"
)

// Category classifies an issue by the layer that produced it.
type Category string

const (
	// Declaration covers unresolvable type references, duplicate ids,
	// candidate lists naming unknown transforms, and invalid modes.
	Declaration Category = "declaration"
	// Selection covers cardinality violations and selections referencing
	// unknown stages or non-candidate transforms.
	Selection Category = "selection"
	// Parameter covers unknown override keys, type mismatches, missing
	// required values, and domain-rule violations.
	Parameter Category = "parameter"
	// Execution covers cycles, unresolvable implementations, and failed
	// invocations.
	Execution Category = "execution"
	// Integrity covers spec-vs-implementation mismatches.
	Integrity Category = "integrity"
)

// Issue is a single validation finding.
type Issue struct {
	Category Category
	// ID names the offending declaration: a stage id, transform id, or
	// "transform/parameter" pair.
	ID      string
	Message string
}

// String returns the display form of the issue.
func (i Issue) String() string {
	return i.Message
}

// List accumulates issues across a validation pass.
type List []Issue

// Add appends a formatted issue to the list.
func (l *List) Add(cat Category, id string, format string, args ...any) {
	*l = append(*l, Issue{Category: cat, ID: id, Message: fmt.Sprintf(format, args...)})
}

// Extend appends all issues from another list.
func (l *List) Extend(other List) {
	*l = append(*l, other...)
}

// HasErrors reports whether the list contains any issue.
func (l List) HasErrors() bool {
	return len(l) > 0
}

// Messages returns the display form of every issue, in order.
func (l List) Messages() []string {
	out := make([]string, len(l))
	for i, issue := range l {
		out[i] = issue.Message
	}
	return out
}

// Err converts the list into a single error, or nil when the list is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return &Error{Issues: l}
}

// Error is the error form of a non-empty List. Callers that need the
// individual entries can errors.As it back out.
type Error struct {
	Issues List
}

// Error implements the error interface by joining every issue message.
func (e *Error) Error() string {
	return fmt.Sprintf("validation failed:\n- %s", strings.Join(e.Issues.Messages(), "\n- "))
}
