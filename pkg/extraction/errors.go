package extraction

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-modelgraph/pkg/opset"
)

// Sentinel errors for the extraction taxonomy. None are retried
// internally: extraction is all-or-nothing per top-level call, and
// callers discard partial results on failure.
var (
	// ErrUnknownOperator propagates unchanged from schema resolution.
	ErrUnknownOperator = opset.ErrUnknownOperator

	// ErrCyclicGraph reports that producer/consumer edges formed a cycle
	// at some graph level.
	ErrCyclicGraph = errors.New("graph is not a DAG")

	// ErrMalformedAttribute reports an attribute whose declared kind is
	// inconsistent with its encoded payload.
	ErrMalformedAttribute = errors.New("malformed attribute")

	// ErrRecursiveFunction reports a function definition re-entered
	// before its first resolution completed.
	ErrRecursiveFunction = errors.New("recursive function definition")

	// ErrNoGraph reports a model without a main graph.
	ErrNoGraph = errors.New("model has no graph")
)

// Error provides structured context for extraction failures.
type Error struct {
	Op    string // operation that failed ("assemble", "normalize", "materialize")
	Graph string // graph level name, if known
	Node  string // vertex id within the level, if applicable
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Graph != "" && e.Node != "":
		return fmt.Sprintf("%s graph %q node %s: %v", e.Op, e.Graph, e.Node, e.Cause)
	case e.Graph != "":
		return fmt.Sprintf("%s graph %q: %v", e.Op, e.Graph, e.Cause)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Cause)
	}
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's cause.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

func newError(op, graph, node string, cause error) *Error {
	return &Error{Op: op, Graph: graph, Node: node, Cause: cause}
}

// IsCyclic reports whether the error indicates a cyclic graph level.
func IsCyclic(err error) bool {
	return errors.Is(err, ErrCyclicGraph)
}

// IsUnknownOperator reports whether the error indicates an operator
// outside the supported operator-set tables.
func IsUnknownOperator(err error) bool {
	return errors.Is(err, ErrUnknownOperator)
}
