package opset

import (
	"errors"
	"fmt"
	"sync"
)

// Built-in ONNX operator domains. Nodes in any other domain are treated
// as calls to user/function-defined operators.
const (
	DomainDefault         = ""
	DomainDefaultAlias    = "ai.onnx"
	DomainML              = "ai.onnx.ml"
	DomainPreviewTraining = "ai.onnx.preview.training"
)

// ErrUnknownOperator reports a (type, domain) pair absent from the
// operator-set tables.
var ErrUnknownOperator = errors.New("unknown operator")

// Arity marks whether a slot accepts exactly one positional value or an
// unbounded trailing run of them.
type Arity uint8

const (
	Single Arity = iota
	Variadic
)

// Slot is one named input or output position of an operator schema.
type Slot struct {
	Name  string
	Arity Arity
}

// Schema is the formal signature of a built-in operator: ordered input
// and output slots. Immutable after registration.
type Schema struct {
	OpType  string
	Domain  string
	Inputs  []Slot
	Outputs []Slot
}

// IsBuiltinDomain reports whether nodes in the given domain resolve
// against the built-in operator-set tables.
func IsBuiltinDomain(domain string) bool {
	switch domain {
	case DomainDefault, DomainDefaultAlias, DomainML, DomainPreviewTraining:
		return true
	}
	return false
}

type schemaKey struct {
	opType string
	domain string
}

var (
	tableMu sync.RWMutex
	table   = map[schemaKey]*Schema{}
)

// Resolve looks up the schema for a (type, domain) pair. The default
// domain and its "ai.onnx" alias share one table.
func Resolve(opType, domain string) (*Schema, error) {
	if domain == DomainDefaultAlias {
		domain = DomainDefault
	}
	tableMu.RLock()
	s, ok := table[schemaKey{opType: opType, domain: domain}]
	tableMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s (domain %q)", ErrUnknownOperator, opType, domain)
	}
	return s, nil
}

// Register adds or replaces a schema. Callers extending the operator
// set should register before any extraction begins.
func Register(s *Schema) {
	domain := s.Domain
	if domain == DomainDefaultAlias {
		domain = DomainDefault
	}
	tableMu.Lock()
	table[schemaKey{opType: s.OpType, domain: domain}] = s
	tableMu.Unlock()
}

// slots builds a slot list where every name is Single arity.
func slots(names ...string) []Slot {
	out := make([]Slot, len(names))
	for i, name := range names {
		out[i] = Slot{Name: name}
	}
	return out
}

// trailing builds a slot list whose last name is Variadic.
func trailing(names ...string) []Slot {
	out := slots(names...)
	out[len(out)-1].Arity = Variadic
	return out
}

// def registers a default-domain schema.
func def(opType string, inputs, outputs []Slot) {
	Register(&Schema{OpType: opType, Domain: DomainDefault, Inputs: inputs, Outputs: outputs})
}

// defML registers an ai.onnx.ml schema.
func defML(opType string, inputs, outputs []Slot) {
	Register(&Schema{OpType: opType, Domain: DomainML, Inputs: inputs, Outputs: outputs})
}

// defTraining registers an ai.onnx.preview.training schema.
func defTraining(opType string, inputs, outputs []Slot) {
	Register(&Schema{OpType: opType, Domain: DomainPreviewTraining, Inputs: inputs, Outputs: outputs})
}
