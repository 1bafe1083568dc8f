package stats

import (
	"testing"

	"github.com/dd0wney/cluso-modelgraph/pkg/network"
)

func singleOpNet(op string, attrs map[string]network.Attribute, flags ...string) *network.Network {
	if attrs == nil {
		attrs = map[string]network.Attribute{}
	}
	net := &network.Network{
		Nodes: map[string]*network.Node{
			"0": {
				OperatorType: op,
				Attributes:   attrs,
				Parameters:   map[string]network.Parameter{},
				Operands:     map[string]network.Operand{},
				Results:      map[string]network.Operand{},
			},
		},
		Edges: []network.Edge{},
		Size:  1,
	}
	for _, f := range flags {
		switch f {
		case "subgraph":
			net.IsSubgraph = true
		case "function":
			net.IsFunctionBody = true
		}
	}
	net.Seal()
	return net
}

func TestAggregate_SingleNetwork(t *testing.T) {
	main := singleOpNet("Relu", nil)

	sum := Aggregate(main, nil)
	if sum.Networks != 1 || sum.Vertices != 1 || sum.Edges != 0 {
		t.Errorf("Unexpected summary: %+v", sum)
	}
	if sum.Operators["Relu"] != 1 {
		t.Errorf("Expected 1 Relu, got %v", sum.Operators)
	}
}

func TestAggregate_DescendsReferences(t *testing.T) {
	branch := singleOpNet("Tanh", nil, "subgraph")
	body := singleOpNet("Sigmoid", nil, "function")

	main := singleOpNet("If", map[string]network.Attribute{
		"then_branch": {Kind: network.KindGraph, Graphs: []string{branch.ID}},
		"call":        {Kind: network.KindFunction, Ref: body.ID},
	})

	sum := Aggregate(main, []*network.Network{branch, body})
	if sum.Networks != 3 {
		t.Fatalf("Expected 3 networks, got %d", sum.Networks)
	}
	if sum.Subgraphs != 1 || sum.FunctionBodies != 1 {
		t.Errorf("Unexpected provenance counts: %+v", sum)
	}
	if sum.Vertices != 3 {
		t.Errorf("Expected 3 vertices, got %d", sum.Vertices)
	}
	for _, op := range []string{"If", "Tanh", "Sigmoid"} {
		if sum.Operators[op] != 1 {
			t.Errorf("Expected 1 %s, got %v", op, sum.Operators)
		}
	}
}

func TestAggregate_SharedReferenceCountedOnce(t *testing.T) {
	body := singleOpNet("Sigmoid", nil, "function")

	main := &network.Network{
		Nodes: map[string]*network.Node{
			"0": {
				OperatorType: "F",
				Attributes:   map[string]network.Attribute{"function": {Kind: network.KindFunction, Ref: body.ID}},
				Parameters:   map[string]network.Parameter{},
				Operands:     map[string]network.Operand{},
				Results:      map[string]network.Operand{},
			},
			"1": {
				OperatorType: "F",
				Attributes:   map[string]network.Attribute{"function": {Kind: network.KindFunction, Ref: body.ID}},
				Parameters:   map[string]network.Parameter{},
				Operands:     map[string]network.Operand{},
				Results:      map[string]network.Operand{},
			},
		},
		Edges: []network.Edge{},
		Size:  2,
	}
	main.Seal()

	sum := Aggregate(main, []*network.Network{body})
	if sum.Networks != 2 {
		t.Errorf("Shared body must be counted once, got %d networks", sum.Networks)
	}
	if sum.Operators["Sigmoid"] != 1 {
		t.Errorf("Shared body operators must be counted once, got %v", sum.Operators)
	}
}

func TestAggregate_DanglingReference(t *testing.T) {
	main := singleOpNet("If", map[string]network.Attribute{
		"then_branch": {Kind: network.KindGraph, Graphs: []string{"missing-id"}},
	})

	sum := Aggregate(main, nil)
	if sum.Networks != 1 {
		t.Errorf("Dangling reference must be ignored, got %d networks", sum.Networks)
	}
}

func TestTopOperators(t *testing.T) {
	sum := Summary{Operators: map[string]int{
		"Relu":   5,
		"Conv":   9,
		"MatMul": 5,
		"Add":    1,
	}}

	top := sum.TopOperators(3)
	if len(top) != 3 {
		t.Fatalf("Expected 3 operators, got %d", len(top))
	}
	if top[0] != "Conv" {
		t.Errorf("Expected Conv first, got %s", top[0])
	}
	// Ties break alphabetically.
	if top[1] != "MatMul" || top[2] != "Relu" {
		t.Errorf("Unexpected tie order: %v", top)
	}

	all := sum.TopOperators(100)
	if len(all) != 4 {
		t.Errorf("Expected all 4 operators, got %d", len(all))
	}
}
