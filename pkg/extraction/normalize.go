package extraction

import (
	"fmt"

	"github.com/dd0wney/cluso-modelgraph/pkg/network"
	"github.com/dd0wney/cluso-modelgraph/pkg/onnx"
	"github.com/dd0wney/cluso-modelgraph/pkg/opset"
)

// endpoint records one occurrence of a value name at a node boundary:
// the vertex, the resolved slot name, and the clamped positional index.
type endpoint struct {
	vertex string
	slot   string
	index  int
}

// valueUse pairs a value name with the endpoint that consumes or
// produces it, in declaration order.
type valueUse struct {
	value string
	at    endpoint
}

// normalized is the output of normalizing one raw node.
type normalized struct {
	node       *network.Node
	consumed   []valueUse
	produced   []valueUse
	discovered []*network.Network
}

// level carries the per-graph-level lookups the normalizer threads
// through: initializer bindings and visible type annotations. Function
// bodies carry no annotations, so every value name is visible there.
type level struct {
	name       string
	parameters map[string]network.Parameter
	types      map[string]*network.TypeInfo
	allVisible bool
}

func (l *level) visible(value string) bool {
	if l.allVisible {
		return true
	}
	_, ok := l.types[value]
	return ok
}

// normalizeNode builds the canonical record for one raw node. Built-in
// operators resolve positional operands/results to named slots via the
// schema; calls to function-defined operators keep the raw value names
// and reference the resolved function body instead.
func (x *extractor) normalizeNode(raw *onnx.NodeProto, nid string, lvl *level) (*normalized, error) {
	if opset.IsBuiltinDomain(raw.Domain) {
		return x.normalizeBuiltin(raw, nid, lvl)
	}
	return x.normalizeFunctionCall(raw, nid, lvl)
}

func (x *extractor) normalizeBuiltin(raw *onnx.NodeProto, nid string, lvl *level) (*normalized, error) {
	schema, err := opset.Resolve(raw.OpType, raw.Domain)
	if err != nil {
		return nil, newError("normalize", lvl.name, nid, err)
	}

	out := &normalized{node: &network.Node{
		OperatorType:   raw.OpType,
		OperatorDomain: raw.Domain,
		Attributes:     make(map[string]network.Attribute),
		Parameters:     make(map[string]network.Parameter),
		Operands:       make(map[string]network.Operand),
		Results:        make(map[string]network.Operand),
	}}

	for i := range raw.Attributes {
		attr := &raw.Attributes[i]
		value, discovered, err := x.materializeAttribute(attr)
		if err != nil {
			return nil, newError("normalize", lvl.name, nid, err)
		}
		out.node.Attributes[attr.Name] = value
		out.discovered = append(out.discovered, discovered...)
	}

	// Initializer-bound inputs become parameters. The variadic counter
	// tracks overflow occurrences within this filtered pass only.
	variadicIdx := 0
	for index, input := range raw.Inputs {
		param, ok := lvl.parameters[input]
		if !ok {
			continue
		}
		name, _ := slotName(schema.Inputs, index, &variadicIdx)
		if name == "" {
			name = input
		}
		out.node.Parameters[name] = param
	}

	// Inputs with a visible type annotation become operands; each
	// occurrence is recorded as a consumption for edge building.
	variadicIdx = 0
	for index, input := range raw.Inputs {
		if _, isParam := lvl.parameters[input]; isParam {
			continue
		}
		if !lvl.visible(input) {
			continue
		}
		name, clamped := slotName(schema.Inputs, index, &variadicIdx)
		if name == "" {
			name = input
		}
		out.node.Operands[name] = network.Operand{Value: input, Type: lvl.types[input]}
		out.consumed = append(out.consumed, valueUse{value: input, at: endpoint{vertex: nid, slot: name, index: clamped}})
	}

	// Outputs resolve with their own, independent variadic counter.
	variadicIdx = 0
	for index, output := range raw.Outputs {
		if !lvl.visible(output) {
			continue
		}
		name, clamped := slotName(schema.Outputs, index, &variadicIdx)
		if name == "" {
			name = output
		}
		out.node.Results[name] = network.Operand{Value: output, Type: lvl.types[output]}
		out.produced = append(out.produced, valueUse{value: output, at: endpoint{vertex: nid, slot: name, index: clamped}})
	}

	return out, nil
}

func (x *extractor) normalizeFunctionCall(raw *onnx.NodeProto, nid string, lvl *level) (*normalized, error) {
	out := &normalized{node: &network.Node{
		OperatorType:   raw.OpType,
		OperatorDomain: raw.Domain,
		Attributes:     make(map[string]network.Attribute),
		Parameters:     make(map[string]network.Parameter),
		Operands:       make(map[string]network.Operand),
		Results:        make(map[string]network.Operand),
	}}

	key := FunctionKey{Name: raw.OpType, Domain: raw.Domain}
	fn, discovered, err := x.resolveFunction(key)
	if err != nil {
		return nil, newError("normalize", lvl.name, nid, err)
	}
	if fn != nil {
		out.node.Attributes["function"] = network.Attribute{Kind: network.KindFunction, Ref: fn.ID}
		out.discovered = append(out.discovered, discovered...)
	}

	// User-defined operators carry no fixed signature: slot names default
	// to the raw value names, positions stay unclamped.
	for index, input := range raw.Inputs {
		if !lvl.visible(input) {
			continue
		}
		out.node.Operands[input] = network.Operand{Value: input, Type: lvl.types[input]}
		out.consumed = append(out.consumed, valueUse{value: input, at: endpoint{vertex: nid, slot: input, index: index}})
	}
	for index, output := range raw.Outputs {
		if !lvl.visible(output) {
			continue
		}
		out.node.Results[output] = network.Operand{Value: output, Type: lvl.types[output]}
		out.produced = append(out.produced, valueUse{value: output, at: endpoint{vertex: nid, slot: output, index: index}})
	}

	return out, nil
}

// slotName maps a positional index to a named slot. Once the index
// reaches the declared slot count, it is clamped to the last slot; when
// that slot is variadic the counter increments and the 2nd and later
// repetitions get a numeric suffix (slot, slot_1, slot_2, ...). The
// clamp applies even for non-variadic last slots: malformed or
// forward-incompatible graphs map extra positions to the last slot on a
// best-effort basis instead of failing.
func slotName(slots []opset.Slot, index int, variadicIdx *int) (string, int) {
	if len(slots) == 0 {
		return "", index
	}
	if index >= len(slots) {
		if slots[len(slots)-1].Arity == opset.Variadic {
			*variadicIdx++
		}
		index = len(slots) - 1
	}
	name := slots[index].Name
	if *variadicIdx > 0 {
		name = fmt.Sprintf("%s_%d", name, *variadicIdx)
	}
	return name, index
}
