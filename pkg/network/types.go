package network

// Network is one extracted graph level: the main model graph, a function
// body, or a control-flow attribute sub-graph. Vertices live in an arena
// keyed by stable stringified declaration indices; edges are a separate
// list. Networks are immutable once returned by the extraction engine.
type Network struct {
	ID             string           `json:"id"`
	Nodes          map[string]*Node `json:"nodes"`
	Edges          []Edge           `json:"edges"`
	Size           int              `json:"size"`
	IsSubgraph     bool             `json:"is_subgraph"`
	IsFunctionBody bool             `json:"is_function_body"`
}

// Edge is one producer->consumer connection, labeled with the producing
// result slot and the consuming operand slot on both ends.
type Edge struct {
	From      string `json:"from"`
	To        string `json:"to"`
	FromSlot  string `json:"from_slot"`
	ToSlot    string `json:"to_slot"`
	FromIndex int    `json:"from_index"`
	ToIndex   int    `json:"to_index"`
}

// Node is one canonical operator invocation record.
type Node struct {
	OperatorType   string               `json:"operator_type"`
	OperatorDomain string               `json:"operator_domain"`
	Attributes     map[string]Attribute `json:"attributes"`
	Parameters     map[string]Parameter `json:"parameters"`
	Operands       map[string]Operand   `json:"operands"`
	Results        map[string]Operand   `json:"results"`
}

// Attribute kind tags.
const (
	KindFloat    = "FLOAT"
	KindInt      = "INT"
	KindString   = "STRING"
	KindTensor   = "TENSOR"
	KindGraph    = "GRAPH"
	KindFloats   = "FLOATS"
	KindInts     = "INTS"
	KindStrings  = "STRINGS"
	KindTensors  = "TENSORS"
	KindGraphs   = "GRAPHS"
	KindFunction = "FUNCTION"
)

// Attribute is a materialized node attribute: a plain value, or for
// graph-valued kinds the identifiers of the extracted sub-Networks, or
// for function calls the identifier of the resolved function body.
type Attribute struct {
	Kind    string       `json:"kind"`
	Float   float64      `json:"float,omitempty"`
	Int     int64        `json:"int,omitempty"`
	Str     string       `json:"str,omitempty"`
	Floats  []float64    `json:"floats,omitempty"`
	Ints    []int64      `json:"ints,omitempty"`
	Strs    []string     `json:"strs,omitempty"`
	Tensor  *TensorInfo  `json:"tensor,omitempty"`
	Tensors []TensorInfo `json:"tensors,omitempty"`
	Graphs  []string     `json:"graphs"`
	Ref     string       `json:"ref,omitempty"`
}

// TensorInfo summarizes a tensor payload: identity, element type, shape.
type TensorInfo struct {
	Name     string  `json:"name,omitempty"`
	DataType string  `json:"data_type"`
	Dims     []int64 `json:"dims,omitempty"`
}

// Parameter describes an operand bound to an initializer constant.
type Parameter struct {
	Value    string  `json:"value"`
	DataType string  `json:"data_type"`
	Dims     []int64 `json:"dims,omitempty"`
}

// Operand describes a runtime-bound input or a produced result: the
// value name plus its declared type/shape when one is visible.
type Operand struct {
	Value string    `json:"value"`
	Type  *TypeInfo `json:"type,omitempty"`
}

// TypeInfo is a declared tensor type annotation.
type TypeInfo struct {
	ElemType string `json:"elem_type"`
	Dims     []Dim  `json:"dims,omitempty"`
}

// Dim is one dimension: a static value or a symbolic parameter name.
type Dim struct {
	Value int64  `json:"value,omitempty"`
	Param string `json:"param,omitempty"`
}

// VertexCount returns the number of vertices.
func (n *Network) VertexCount() int {
	return len(n.Nodes)
}

// EdgeCount returns the number of edges.
func (n *Network) EdgeCount() int {
	return len(n.Edges)
}

// Node returns the node record for a vertex id, or nil.
func (n *Network) Node(id string) *Node {
	return n.Nodes[id]
}

// Features returns the per-node record consumed by downstream statistics
// and dataset-packaging code.
func (nd *Node) Features() map[string]any {
	return map[string]any{
		"operator_type":   nd.OperatorType,
		"operator_domain": nd.OperatorDomain,
		"attributes":      nd.Attributes,
		"parameters":      nd.Parameters,
		"operands":        nd.Operands,
		"results":         nd.Results,
	}
}
