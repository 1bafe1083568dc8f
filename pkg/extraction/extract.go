package extraction

import (
	"github.com/dd0wney/cluso-modelgraph/pkg/network"
	"github.com/dd0wney/cluso-modelgraph/pkg/onnx"
)

// extractor runs one top-level extraction call. The registry lives for
// the duration of the call and is never shared across calls; recursion
// within a call is sequential because later function resolutions depend
// on earlier ones being materialized.
type extractor struct {
	registry *FunctionRegistry
	recurse  bool
}

// ExtractShallow extracts only the main graph's topology. Graph-valued
// attributes are noted but not descended into, and function bodies are
// not expanded: function-call nodes carry an empty attribute map.
func ExtractShallow(model *onnx.ModelProto) (*network.Network, error) {
	if model.Graph == nil {
		return nil, newError("extract", "", "", ErrNoGraph)
	}
	x := &extractor{registry: NewFunctionRegistry()}
	net, _, err := x.assemble(graphView(model.Graph), false)
	return net, err
}

// ExtractDeep extracts the main graph and every graph level beneath it.
// All function definitions are resolved eagerly in declaration order
// through a shared per-call registry, so each (name, domain) pair is
// extracted exactly once and every call site references the identical
// network. When recurse is true, control-flow attribute sub-graphs are
// extracted too. Returns the main network and the flat list of every
// nested network discovered.
func ExtractDeep(model *onnx.ModelProto, recurse bool) (*network.Network, []*network.Network, error) {
	if model.Graph == nil {
		return nil, nil, newError("extract", "", "", ErrNoGraph)
	}
	x := &extractor{registry: NewFunctionRegistry(), recurse: recurse}
	x.registry.Seed(model)

	var all []*network.Network
	collected := make(map[FunctionKey]bool, len(model.Functions))
	for i := range model.Functions {
		fn := &model.Functions[i]
		key := FunctionKey{Name: fn.Name, Domain: fn.Domain}
		if collected[key] {
			continue
		}
		collected[key] = true

		if resolved, ok := x.registry.Resolved(key); ok {
			// Already materialized while resolving an earlier function;
			// its descendants were collected at that point.
			all = append(all, resolved)
			continue
		}
		net, discovered, err := x.resolveFunction(key)
		if err != nil {
			return nil, nil, err
		}
		all = append(all, net)
		all = append(all, discovered...)
	}

	main, discovered, err := x.assemble(graphView(model.Graph), false)
	if err != nil {
		return nil, nil, err
	}
	all = append(all, discovered...)

	return main, all, nil
}

// resolveFunction returns the network for a function key, extracting the
// body on first reference and freezing the result in the registry.
// Returns nil when the key names no registered function: the caller
// records the node without a function reference. A key re-entered
// before its first resolution completes means the definitions reference
// each other cyclically, which cannot terminate.
func (x *extractor) resolveFunction(key FunctionKey) (*network.Network, []*network.Network, error) {
	entry, ok := x.registry.entries[key]
	if !ok {
		return nil, nil, nil
	}
	if entry.resolved != nil {
		return entry.resolved, nil, nil
	}
	if x.registry.inProgress[key] {
		return nil, nil, newError("resolve", key.Name, "", ErrRecursiveFunction)
	}
	x.registry.inProgress[key] = true
	defer delete(x.registry.inProgress, key)

	net, discovered, err := x.assemble(functionView(entry.raw), false)
	if err != nil {
		return nil, nil, err
	}
	entry.resolved = net
	entry.raw = nil
	return net, discovered, nil
}
