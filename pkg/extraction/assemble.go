package extraction

import (
	"strconv"

	"github.com/dd0wney/cluso-modelgraph/pkg/network"
	"github.com/dd0wney/cluso-modelgraph/pkg/onnx"
)

// rawGraph is the assembler's view of one graph level. Ordinary graphs
// carry initializers and type annotations; function bodies carry
// neither, so every value name is treated as visible.
type rawGraph struct {
	name         string
	nodes        []onnx.NodeProto
	initializers []onnx.TensorProto
	valueInfos   []onnx.ValueInfoProto
	functionBody bool
}

func graphView(g *onnx.GraphProto) rawGraph {
	infos := make([]onnx.ValueInfoProto, 0, len(g.Inputs)+len(g.ValueInfo)+len(g.Outputs))
	infos = append(infos, g.Inputs...)
	infos = append(infos, g.ValueInfo...)
	infos = append(infos, g.Outputs...)
	return rawGraph{
		name:         g.Name,
		nodes:        g.Nodes,
		initializers: g.Initializers,
		valueInfos:   infos,
	}
}

func functionView(f *onnx.FunctionProto) rawGraph {
	return rawGraph{
		name:         f.Name,
		nodes:        f.Nodes,
		functionBody: true,
	}
}

// assemble builds the network for one graph level: normalizes every node
// in declaration order under a stable stringified-index vertex id, wires
// producer->consumer edges by value-name matching, validates acyclicity,
// and tags provenance. Returns the level's network plus every network
// discovered beneath it (attribute sub-graphs and freshly resolved
// function bodies' descendants).
func (x *extractor) assemble(raw rawGraph, isSubgraph bool) (*network.Network, []*network.Network, error) {
	lvl := &level{
		name:       raw.name,
		parameters: make(map[string]network.Parameter, len(raw.initializers)),
		types:      make(map[string]*network.TypeInfo, len(raw.valueInfos)),
		allVisible: raw.functionBody,
	}
	for i := range raw.initializers {
		init := &raw.initializers[i]
		dims := make([]int64, len(init.Dims))
		copy(dims, init.Dims)
		lvl.parameters[init.Name] = network.Parameter{
			Value:    init.Name,
			DataType: onnx.ElementTypeName(init.DataType),
			Dims:     dims,
		}
	}
	for i := range raw.valueInfos {
		vi := &raw.valueInfos[i]
		lvl.types[vi.Name] = typeInfo(vi.Type)
	}

	net := &network.Network{
		Nodes:          make(map[string]*network.Node, len(raw.nodes)),
		Edges:          []network.Edge{},
		IsSubgraph:     isSubgraph,
		IsFunctionBody: raw.functionBody,
	}

	var discovered []*network.Network
	producers := make(map[string]endpoint)
	var consumptions []valueUse

	for i := range raw.nodes {
		nid := strconv.Itoa(i)
		norm, err := x.normalizeNode(&raw.nodes[i], nid, lvl)
		if err != nil {
			return nil, nil, err
		}
		net.Nodes[nid] = norm.node
		net.Size++
		discovered = append(discovered, norm.discovered...)

		for _, use := range norm.produced {
			producers[use.value] = use.at
		}
		consumptions = append(consumptions, norm.consumed...)
	}

	// One edge per consuming occurrence whose value some node produced.
	// Boundary-only names (pure graph inputs/outputs) have no producer or
	// no consumer and never become edges; fan-out yields one edge per
	// consumer.
	for _, use := range consumptions {
		producer, ok := producers[use.value]
		if !ok {
			continue
		}
		net.Edges = append(net.Edges, network.Edge{
			From:      producer.vertex,
			To:        use.at.vertex,
			FromSlot:  producer.slot,
			ToSlot:    use.at.slot,
			FromIndex: producer.index,
			ToIndex:   use.at.index,
		})
	}

	if net.HasCycle() {
		return nil, nil, newError("assemble", raw.name, "", ErrCyclicGraph)
	}

	net.Seal()
	return net, discovered, nil
}

// typeInfo converts a declared type annotation. Non-tensor types keep a
// nil descriptor: the value stays visible but unannotated.
func typeInfo(t *onnx.TypeProto) *network.TypeInfo {
	if t == nil || t.TensorType == nil {
		return nil
	}
	info := &network.TypeInfo{ElemType: onnx.ElementTypeName(t.TensorType.ElemType)}
	if t.TensorType.Shape != nil {
		for _, d := range t.TensorType.Shape.Dims {
			info.Dims = append(info.Dims, network.Dim{Value: d.DimValue, Param: d.DimParam})
		}
	}
	return info
}
