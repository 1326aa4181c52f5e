package planner

import "github.com/pkg/errors"

// Kind classifies a planner error.
type Kind int

const (
	// UnreachableGoal: C4 returned no path. Non-fatal; reported as a
	// diagnostic, the agent's trajectory stays empty.
	UnreachableGoal Kind = iota
	// DeadlineElapsed: C6 yielded early. Not reported as an error to
	// the caller, only as a diagnostic/metric.
	DeadlineElapsed
	// InvalidInput: fatal at initialization (e.g. agent start is an
	// obstacle, num_agents == 0).
	InvalidInput
	// InternalInvariantBroken: an assertion failed (e.g. flow
	// underflow, negative distance); indicates a bug, not bad input.
	InternalInvariantBroken
)

func (k Kind) String() string {
	switch k {
	case UnreachableGoal:
		return "UnreachableGoal"
	case DeadlineElapsed:
		return "DeadlineElapsed"
	case InvalidInput:
		return "InvalidInput"
	case InternalInvariantBroken:
		return "InternalInvariantBroken"
	default:
		return "Unknown"
	}
}

// Error wraps a Kind with a message and, for the fatal kinds, a stack
// trace via pkg/errors.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// newFatal builds an Error for a fatal Kind, attaching a stack trace.
func newFatal(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message, cause: errors.New(message)}
}

// IsKind reports whether err is a planner *Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	pe, ok := err.(*Error)
	return ok && pe.Kind == kind
}
