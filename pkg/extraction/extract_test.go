package extraction

import (
	"errors"
	"testing"

	"github.com/dd0wney/cluso-modelgraph/pkg/network"
	"github.com/dd0wney/cluso-modelgraph/pkg/onnx"
)

// floatInfo declares a value name with a float tensor type so the
// normalizer treats it as visible.
func floatInfo(name string) onnx.ValueInfoProto {
	return onnx.ValueInfoProto{
		Name: name,
		Type: &onnx.TypeProto{TensorType: &onnx.TensorTypeProto{ElemType: onnx.TensorFloat}},
	}
}

func floatInfos(names ...string) []onnx.ValueInfoProto {
	infos := make([]onnx.ValueInfoProto, 0, len(names))
	for _, n := range names {
		infos = append(infos, floatInfo(n))
	}
	return infos
}

func modelWith(g *onnx.GraphProto, fns ...onnx.FunctionProto) *onnx.ModelProto {
	return &onnx.ModelProto{IRVersion: 8, Graph: g, Functions: fns}
}

// TestExtractShallow_Chain extracts a three-node linear chain and
// expects exactly the two internal edges. The boundary values x and w
// are graph-level input/output and must not produce edges.
func TestExtractShallow_Chain(t *testing.T) {
	g := &onnx.GraphProto{
		Name: "chain",
		Nodes: []onnx.NodeProto{
			{OpType: "Relu", Inputs: []string{"x"}, Outputs: []string{"y"}},
			{OpType: "Sigmoid", Inputs: []string{"y"}, Outputs: []string{"z"}},
			{OpType: "Tanh", Inputs: []string{"z"}, Outputs: []string{"w"}},
		},
		Inputs:    floatInfos("x"),
		Outputs:   floatInfos("w"),
		ValueInfo: floatInfos("y", "z"),
	}

	net, err := ExtractShallow(modelWith(g))
	if err != nil {
		t.Fatalf("ExtractShallow failed: %v", err)
	}
	if net.VertexCount() != 3 {
		t.Errorf("Expected 3 vertices, got %d", net.VertexCount())
	}
	if net.EdgeCount() != 2 {
		t.Fatalf("Expected 2 edges, got %d", net.EdgeCount())
	}
	if net.IsSubgraph || net.IsFunctionBody {
		t.Error("Main graph must not be flagged as subgraph or function body")
	}

	for i, e := range net.Edges {
		if e.FromSlot != "Y" || e.ToSlot != "X" {
			t.Errorf("Expected slots Y->X on edge %d, got %s->%s", i, e.FromSlot, e.ToSlot)
		}
	}
	if net.Edges[0].From != "0" || net.Edges[0].To != "1" {
		t.Errorf("Expected edge 0->1, got %+v", net.Edges[0])
	}
	if net.Edges[1].From != "1" || net.Edges[1].To != "2" {
		t.Errorf("Expected edge 1->2, got %+v", net.Edges[1])
	}
}

// TestExtractShallow_NoGraph expects a dedicated error for models
// without a main graph.
func TestExtractShallow_NoGraph(t *testing.T) {
	_, err := ExtractShallow(&onnx.ModelProto{})
	if !errors.Is(err, ErrNoGraph) {
		t.Fatalf("Expected ErrNoGraph, got %v", err)
	}
}

// TestExtract_UnknownOperator expects resolution to fail for an
// operator absent from every built-in domain table.
func TestExtract_UnknownOperator(t *testing.T) {
	g := &onnx.GraphProto{
		Name: "bad",
		Nodes: []onnx.NodeProto{
			{OpType: "NotARealOp", Inputs: []string{"x"}, Outputs: []string{"y"}},
		},
		Inputs:  floatInfos("x"),
		Outputs: floatInfos("y"),
	}

	_, err := ExtractShallow(modelWith(g))
	if !IsUnknownOperator(err) {
		t.Fatalf("Expected unknown operator error, got %v", err)
	}

	var xerr *Error
	if !errors.As(err, &xerr) {
		t.Fatal("Expected structured extraction error")
	}
	if xerr.Graph != "bad" || xerr.Node != "0" {
		t.Errorf("Expected error located at bad/0, got %s/%s", xerr.Graph, xerr.Node)
	}
}

// TestExtract_VariadicNaming feeds four inputs to Max, whose schema
// declares a single variadic slot, and expects numbered occurrences.
func TestExtract_VariadicNaming(t *testing.T) {
	g := &onnx.GraphProto{
		Name: "variadic",
		Nodes: []onnx.NodeProto{
			{OpType: "Max", Inputs: []string{"a", "b", "c", "d"}, Outputs: []string{"m"}},
		},
		Inputs:  floatInfos("a", "b", "c", "d"),
		Outputs: floatInfos("m"),
	}

	net, err := ExtractShallow(modelWith(g))
	if err != nil {
		t.Fatalf("ExtractShallow failed: %v", err)
	}

	node := net.Node("0")
	if node == nil {
		t.Fatal("Missing vertex 0")
	}
	for _, want := range []string{"data_0", "data_0_1", "data_0_2", "data_0_3"} {
		if _, ok := node.Operands[want]; !ok {
			t.Errorf("Expected operand slot %q, operands: %v", want, operandNames(node))
		}
	}
}

// TestExtract_VariadicCountersIndependent checks that output slot
// numbering does not inherit the input overflow counter.
func TestExtract_VariadicCountersIndependent(t *testing.T) {
	// Split: inputs (input, split), outputs variadic.
	g := &onnx.GraphProto{
		Name: "split",
		Nodes: []onnx.NodeProto{
			{OpType: "Split", Inputs: []string{"x"}, Outputs: []string{"p", "q", "r"}},
		},
		Inputs:    floatInfos("x"),
		Outputs:   floatInfos("p", "q", "r"),
		ValueInfo: nil,
	}

	net, err := ExtractShallow(modelWith(g))
	if err != nil {
		t.Fatalf("ExtractShallow failed: %v", err)
	}

	node := net.Node("0")
	for _, want := range []string{"outputs", "outputs_1", "outputs_2"} {
		if _, ok := node.Results[want]; !ok {
			t.Errorf("Expected result slot %q, results: %v", want, resultNames(node))
		}
	}
	if _, ok := node.Operands["input"]; !ok {
		t.Errorf("Expected operand slot input, operands: %v", operandNames(node))
	}
}

// TestExtract_IndexClamping hands a fixed-arity operator more inputs
// than its schema declares and expects the extras mapped onto the last
// slot without numbering.
func TestExtract_IndexClamping(t *testing.T) {
	g := &onnx.GraphProto{
		Name: "clamp",
		Nodes: []onnx.NodeProto{
			{OpType: "Add", Inputs: []string{"a", "b", "c"}, Outputs: []string{"s"}},
		},
		Inputs:  floatInfos("a", "b", "c"),
		Outputs: floatInfos("s"),
	}

	net, err := ExtractShallow(modelWith(g))
	if err != nil {
		t.Fatalf("ExtractShallow failed: %v", err)
	}

	node := net.Node("0")
	if _, ok := node.Operands["A"]; !ok {
		t.Errorf("Expected operand slot A, operands: %v", operandNames(node))
	}
	// b and c both clamp to B; the map keeps the later occurrence and
	// no _N suffix appears for a non-variadic slot.
	if _, ok := node.Operands["B"]; !ok {
		t.Errorf("Expected operand slot B, operands: %v", operandNames(node))
	}
	for name := range node.Operands {
		if name != "A" && name != "B" {
			t.Errorf("Unexpected operand slot %q", name)
		}
	}
}

// TestExtract_InitializerBecomesParameter binds one input to an
// initializer and expects it recorded as a parameter, not an operand.
func TestExtract_InitializerBecomesParameter(t *testing.T) {
	g := &onnx.GraphProto{
		Name: "params",
		Nodes: []onnx.NodeProto{
			{OpType: "Conv", Inputs: []string{"x", "w"}, Outputs: []string{"y"}},
		},
		Initializers: []onnx.TensorProto{
			{Name: "w", DataType: onnx.TensorFloat, Dims: []int64{8, 3, 3, 3}},
		},
		Inputs:  floatInfos("x"),
		Outputs: floatInfos("y"),
	}

	net, err := ExtractShallow(modelWith(g))
	if err != nil {
		t.Fatalf("ExtractShallow failed: %v", err)
	}

	node := net.Node("0")
	param, ok := node.Parameters["W"]
	if !ok {
		t.Fatalf("Expected parameter slot W, parameters: %v", node.Parameters)
	}
	if param.DataType != "FLOAT" {
		t.Errorf("Expected FLOAT parameter, got %s", param.DataType)
	}
	if len(param.Dims) != 4 || param.Dims[0] != 8 {
		t.Errorf("Unexpected parameter dims: %v", param.Dims)
	}
	if _, ok := node.Operands["W"]; ok {
		t.Error("Initializer-bound input must not also appear as operand")
	}
}

// TestExtract_FanOut checks that one produced value consumed by two
// nodes yields two edges.
func TestExtract_FanOut(t *testing.T) {
	g := &onnx.GraphProto{
		Name: "fanout",
		Nodes: []onnx.NodeProto{
			{OpType: "Relu", Inputs: []string{"x"}, Outputs: []string{"y"}},
			{OpType: "Sigmoid", Inputs: []string{"y"}, Outputs: []string{"a"}},
			{OpType: "Tanh", Inputs: []string{"y"}, Outputs: []string{"b"}},
		},
		Inputs:    floatInfos("x"),
		Outputs:   floatInfos("a", "b"),
		ValueInfo: floatInfos("y"),
	}

	net, err := ExtractShallow(modelWith(g))
	if err != nil {
		t.Fatalf("ExtractShallow failed: %v", err)
	}
	if net.EdgeCount() != 2 {
		t.Fatalf("Expected 2 edges for fan-out, got %d", net.EdgeCount())
	}
	targets := map[string]bool{}
	for _, e := range net.Edges {
		if e.From != "0" {
			t.Errorf("Expected all edges from vertex 0, got %s", e.From)
		}
		targets[e.To] = true
	}
	if !targets["1"] || !targets["2"] {
		t.Errorf("Expected edges to vertices 1 and 2, got %v", targets)
	}
}

// TestExtract_CyclicGraph wires two nodes into a feedback loop and
// expects ErrCyclicGraph.
func TestExtract_CyclicGraph(t *testing.T) {
	g := &onnx.GraphProto{
		Name: "loop",
		Nodes: []onnx.NodeProto{
			{OpType: "Relu", Inputs: []string{"b"}, Outputs: []string{"a"}},
			{OpType: "Sigmoid", Inputs: []string{"a"}, Outputs: []string{"b"}},
		},
		ValueInfo: floatInfos("a", "b"),
	}

	_, err := ExtractShallow(modelWith(g))
	if !IsCyclic(err) {
		t.Fatalf("Expected cyclic graph error, got %v", err)
	}
}

// TestExtract_InvisibleValuesSkipped leaves an intermediate without a
// type annotation; no operand, result, or edge should reference it.
func TestExtract_InvisibleValuesSkipped(t *testing.T) {
	g := &onnx.GraphProto{
		Name: "hidden",
		Nodes: []onnx.NodeProto{
			{OpType: "Relu", Inputs: []string{"x"}, Outputs: []string{"y"}},
			{OpType: "Sigmoid", Inputs: []string{"y"}, Outputs: []string{"z"}},
		},
		Inputs:  floatInfos("x"),
		Outputs: floatInfos("z"),
		// y intentionally undeclared
	}

	net, err := ExtractShallow(modelWith(g))
	if err != nil {
		t.Fatalf("ExtractShallow failed: %v", err)
	}
	if net.EdgeCount() != 0 {
		t.Errorf("Expected no edges through undeclared value, got %d", net.EdgeCount())
	}
	if len(net.Node("0").Results) != 0 {
		t.Errorf("Expected no results on producer, got %v", resultNames(net.Node("0")))
	}
}

func ifModel() *onnx.ModelProto {
	branch := func(name, op string) onnx.GraphProto {
		return onnx.GraphProto{
			Name: name,
			Nodes: []onnx.NodeProto{
				{OpType: op, Inputs: []string{"t"}, Outputs: []string{"u"}},
			},
			ValueInfo: floatInfos("t", "u"),
			Outputs:   floatInfos("u"),
		}
	}
	thenG := branch("then", "Relu")
	elseG := branch("else", "Tanh")

	g := &onnx.GraphProto{
		Name: "cond",
		Nodes: []onnx.NodeProto{
			{
				OpType:  "If",
				Inputs:  []string{"c"},
				Outputs: []string{"out"},
				Attributes: []onnx.AttributeProto{
					{Name: "then_branch", Type: onnx.AttributeGraph, G: &thenG},
					{Name: "else_branch", Type: onnx.AttributeGraph, G: &elseG},
				},
			},
		},
		Inputs:  floatInfos("c"),
		Outputs: floatInfos("out"),
	}
	return modelWith(g)
}

// TestExtractDeep_IfBranches extracts both branches of an If node as
// separate subgraph networks referenced from the attribute.
func TestExtractDeep_IfBranches(t *testing.T) {
	root, discovered, err := ExtractDeep(ifModel(), true)
	if err != nil {
		t.Fatalf("ExtractDeep failed: %v", err)
	}
	if len(discovered) != 2 {
		t.Fatalf("Expected 2 discovered networks, got %d", len(discovered))
	}
	for _, sub := range discovered {
		if !sub.IsSubgraph {
			t.Error("Branch network must be flagged as subgraph")
		}
		if sub.IsFunctionBody {
			t.Error("Branch network must not be flagged as function body")
		}
		if sub.VertexCount() != 1 {
			t.Errorf("Expected 1 vertex in branch, got %d", sub.VertexCount())
		}
	}

	attrs := root.Node("0").Attributes
	for _, name := range []string{"then_branch", "else_branch"} {
		attr, ok := attrs[name]
		if !ok {
			t.Fatalf("Missing attribute %s", name)
		}
		if attr.Kind != network.KindGraph {
			t.Errorf("Expected GRAPH attribute, got %s", attr.Kind)
		}
		if len(attr.Graphs) != 1 {
			t.Fatalf("Expected 1 referenced network, got %d", len(attr.Graphs))
		}
		if !containsNetwork(discovered, attr.Graphs[0]) {
			t.Errorf("Attribute %s references unknown network %s", name, attr.Graphs[0])
		}
	}
}

// TestExtractDeep_NoRecurse keeps graph attributes but descends into
// neither branch.
func TestExtractDeep_NoRecurse(t *testing.T) {
	root, discovered, err := ExtractDeep(ifModel(), false)
	if err != nil {
		t.Fatalf("ExtractDeep failed: %v", err)
	}
	if len(discovered) != 0 {
		t.Fatalf("Expected no discovered networks, got %d", len(discovered))
	}
	attr := root.Node("0").Attributes["then_branch"]
	if attr.Kind != network.KindGraph {
		t.Errorf("Expected GRAPH attribute, got %s", attr.Kind)
	}
	if attr.Graphs == nil || len(attr.Graphs) != 0 {
		t.Errorf("Expected empty (non-nil) reference list, got %v", attr.Graphs)
	}
}

func functionModel() *onnx.ModelProto {
	g := &onnx.GraphProto{
		Name: "uses_f",
		Nodes: []onnx.NodeProto{
			{OpType: "Swish", Domain: "custom", Inputs: []string{"x"}, Outputs: []string{"y"}},
			{OpType: "Swish", Domain: "custom", Inputs: []string{"y"}, Outputs: []string{"z"}},
		},
		Inputs:    floatInfos("x"),
		Outputs:   floatInfos("z"),
		ValueInfo: floatInfos("y"),
	}
	fn := onnx.FunctionProto{
		Name:    "Swish",
		Domain:  "custom",
		Inputs:  []string{"in"},
		Outputs: []string{"out"},
		Nodes: []onnx.NodeProto{
			{OpType: "Sigmoid", Inputs: []string{"in"}, Outputs: []string{"s"}},
			{OpType: "Mul", Inputs: []string{"in", "s"}, Outputs: []string{"out"}},
		},
	}
	return modelWith(g, fn)
}

// TestExtractDeep_FunctionMemoized expects a twice-called function to
// materialize exactly one body network, referenced from both call
// sites.
func TestExtractDeep_FunctionMemoized(t *testing.T) {
	root, discovered, err := ExtractDeep(functionModel(), true)
	if err != nil {
		t.Fatalf("ExtractDeep failed: %v", err)
	}
	if len(discovered) != 1 {
		t.Fatalf("Expected exactly 1 function body network, got %d", len(discovered))
	}

	body := discovered[0]
	if !body.IsFunctionBody {
		t.Error("Function body must be flagged as function body")
	}
	if body.IsSubgraph {
		t.Error("Function body must not be flagged as subgraph")
	}
	// One internal edge: Sigmoid -> Mul through s. The shared input "in"
	// has no producer inside the body and yields no edge.
	if body.VertexCount() != 2 || body.EdgeCount() != 1 {
		t.Errorf("Expected 2 vertices and 1 edge in body, got %d/%d",
			body.VertexCount(), body.EdgeCount())
	}

	for _, nid := range []string{"0", "1"} {
		attr, ok := root.Node(nid).Attributes["function"]
		if !ok {
			t.Fatalf("Call site %s missing function reference", nid)
		}
		if attr.Kind != network.KindFunction {
			t.Errorf("Expected FUNCTION attribute, got %s", attr.Kind)
		}
		if attr.Ref != body.ID {
			t.Errorf("Call site %s references %s, want %s", nid, attr.Ref, body.ID)
		}
	}
}

// TestExtractDeep_FunctionBodyAllVisible checks that function bodies,
// which carry no type annotations, still wire internal edges.
func TestExtractDeep_FunctionBodyAllVisible(t *testing.T) {
	_, discovered, err := ExtractDeep(functionModel(), true)
	if err != nil {
		t.Fatalf("ExtractDeep failed: %v", err)
	}
	body := discovered[0]
	// Sigmoid -> Mul through s, plus nothing else internal.
	order, err := body.TopologicalOrder()
	if err != nil {
		t.Fatalf("Function body is not a DAG: %v", err)
	}
	if len(order) != 2 || order[0] != "0" {
		t.Errorf("Unexpected topological order: %v", order)
	}
}

// TestExtractDeep_RecursiveFunctions expects mutual recursion between
// definitions to be rejected rather than looping.
func TestExtractDeep_RecursiveFunctions(t *testing.T) {
	fa := onnx.FunctionProto{
		Name: "A", Domain: "custom",
		Inputs: []string{"x"}, Outputs: []string{"y"},
		Nodes: []onnx.NodeProto{
			{OpType: "B", Domain: "custom", Inputs: []string{"x"}, Outputs: []string{"y"}},
		},
	}
	fb := onnx.FunctionProto{
		Name: "B", Domain: "custom",
		Inputs: []string{"x"}, Outputs: []string{"y"},
		Nodes: []onnx.NodeProto{
			{OpType: "A", Domain: "custom", Inputs: []string{"x"}, Outputs: []string{"y"}},
		},
	}
	g := &onnx.GraphProto{
		Name: "main",
		Nodes: []onnx.NodeProto{
			{OpType: "A", Domain: "custom", Inputs: []string{"x"}, Outputs: []string{"y"}},
		},
		Inputs:  floatInfos("x"),
		Outputs: floatInfos("y"),
	}

	_, _, err := ExtractDeep(modelWith(g, fa, fb), true)
	if !errors.Is(err, ErrRecursiveFunction) {
		t.Fatalf("Expected ErrRecursiveFunction, got %v", err)
	}
}

// TestExtractDeep_UnregisteredCustomOp allows custom-domain nodes with
// no matching function definition; they pass through without a
// function reference.
func TestExtractDeep_UnregisteredCustomOp(t *testing.T) {
	g := &onnx.GraphProto{
		Name: "opaque",
		Nodes: []onnx.NodeProto{
			{OpType: "Mystery", Domain: "vendor", Inputs: []string{"x"}, Outputs: []string{"y"}},
		},
		Inputs:  floatInfos("x"),
		Outputs: floatInfos("y"),
	}

	root, discovered, err := ExtractDeep(modelWith(g), true)
	if err != nil {
		t.Fatalf("ExtractDeep failed: %v", err)
	}
	if len(discovered) != 0 {
		t.Errorf("Expected no discovered networks, got %d", len(discovered))
	}
	if _, ok := root.Node("0").Attributes["function"]; ok {
		t.Error("Unregistered call must not carry a function reference")
	}
	if _, ok := root.Node("0").Operands["x"]; !ok {
		t.Errorf("Expected raw value name as operand slot, got %v", operandNames(root.Node("0")))
	}
}

// TestExtractDeep_Deterministic runs the same extraction twice and
// expects identical fingerprints throughout.
func TestExtractDeep_Deterministic(t *testing.T) {
	r1, d1, err := ExtractDeep(functionModel(), true)
	if err != nil {
		t.Fatalf("First extraction failed: %v", err)
	}
	r2, d2, err := ExtractDeep(functionModel(), true)
	if err != nil {
		t.Fatalf("Second extraction failed: %v", err)
	}

	if r1.ID != r2.ID {
		t.Errorf("Main network ids differ: %s vs %s", r1.ID, r2.ID)
	}
	if len(d1) != len(d2) {
		t.Fatalf("Discovery counts differ: %d vs %d", len(d1), len(d2))
	}
	for i := range d1 {
		if d1[i].ID != d2[i].ID {
			t.Errorf("Discovered network %d ids differ: %s vs %s", i, d1[i].ID, d2[i].ID)
		}
	}
}

// TestExtract_MalformedAttribute expects a tensor attribute with no
// payload to be rejected.
func TestExtract_MalformedAttribute(t *testing.T) {
	g := &onnx.GraphProto{
		Name: "badattr",
		Nodes: []onnx.NodeProto{
			{
				OpType:  "Constant",
				Outputs: []string{"c"},
				Attributes: []onnx.AttributeProto{
					{Name: "value", Type: onnx.AttributeTensor, T: nil},
				},
			},
		},
		Outputs: floatInfos("c"),
	}

	_, err := ExtractShallow(modelWith(g))
	if !errors.Is(err, ErrMalformedAttribute) {
		t.Fatalf("Expected ErrMalformedAttribute, got %v", err)
	}
}

func operandNames(n *network.Node) []string {
	names := make([]string, 0, len(n.Operands))
	for name := range n.Operands {
		names = append(names, name)
	}
	return names
}

func resultNames(n *network.Node) []string {
	names := make([]string, 0, len(n.Results))
	for name := range n.Results {
		names = append(names, name)
	}
	return names
}

func containsNetwork(networks []*network.Network, id string) bool {
	for _, n := range networks {
		if n.ID == id {
			return true
		}
	}
	return false
}
