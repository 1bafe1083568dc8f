package extraction

import (
	"github.com/dd0wney/cluso-modelgraph/pkg/network"
	"github.com/dd0wney/cluso-modelgraph/pkg/onnx"
)

// FunctionKey identifies a function definition: name plus domain.
type FunctionKey struct {
	Name   string
	Domain string
}

// functionEntry is a tagged variant: exactly one of raw and resolved is
// set. Entries move from raw to resolved at most once per extraction
// call (resolve-then-freeze); every read after the first resolution
// observes the resolved network.
type functionEntry struct {
	raw      *onnx.FunctionProto
	resolved *network.Network
}

// FunctionRegistry memoizes function-body extraction within one
// top-level extraction call. It is never shared across calls.
type FunctionRegistry struct {
	entries    map[FunctionKey]*functionEntry
	inProgress map[FunctionKey]bool
}

// NewFunctionRegistry returns an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		entries:    make(map[FunctionKey]*functionEntry),
		inProgress: make(map[FunctionKey]bool),
	}
}

// Seed registers every function definition in the model, unresolved.
// Later definitions with the same (name, domain) replace earlier ones.
func (r *FunctionRegistry) Seed(model *onnx.ModelProto) {
	for i := range model.Functions {
		fn := &model.Functions[i]
		r.entries[FunctionKey{Name: fn.Name, Domain: fn.Domain}] = &functionEntry{raw: fn}
	}
}

// Resolved returns the resolved network for a key, if any.
func (r *FunctionRegistry) Resolved(key FunctionKey) (*network.Network, bool) {
	entry, ok := r.entries[key]
	if !ok || entry.resolved == nil {
		return nil, false
	}
	return entry.resolved, true
}

// Len returns the number of registered functions.
func (r *FunctionRegistry) Len() int {
	return len(r.entries)
}
