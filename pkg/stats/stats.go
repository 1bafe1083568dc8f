// Package stats aggregates statistics across a network and every
// sub-network it references through control-flow attributes and
// function-call edges.
package stats

import (
	"sort"

	"github.com/dd0wney/cluso-modelgraph/pkg/network"
)

// Summary aggregates counts over a main network and all networks
// reachable from it.
type Summary struct {
	Vertices       int            `json:"vertices"`
	Edges          int            `json:"edges"`
	Networks       int            `json:"networks"`
	Subgraphs      int            `json:"subgraphs"`
	FunctionBodies int            `json:"function_bodies"`
	Operators      map[string]int `json:"operators"`
}

// Aggregate walks main and every network reachable from it via GRAPH,
// GRAPHS, and FUNCTION attribute references, resolving references
// through the supplied pool. Each reachable network is counted once.
func Aggregate(main *network.Network, pool []*network.Network) Summary {
	index := make(map[string]*network.Network, len(pool)+1)
	index[main.ID] = main
	for _, n := range pool {
		index[n.ID] = n
	}

	sum := Summary{Operators: make(map[string]int)}
	seen := make(map[string]bool)

	var visit func(n *network.Network)
	visit = func(n *network.Network) {
		if n == nil || seen[n.ID] {
			return
		}
		seen[n.ID] = true

		st := n.Statistics()
		sum.Vertices += st.VertexCount
		sum.Edges += st.EdgeCount
		sum.Networks++
		if n.IsSubgraph {
			sum.Subgraphs++
		}
		if n.IsFunctionBody {
			sum.FunctionBodies++
		}
		for op, c := range st.OperatorCounts {
			sum.Operators[op] += c
		}

		for _, id := range referencedIDs(n) {
			visit(index[id])
		}
	}
	visit(main)
	return sum
}

// referencedIDs returns the ids of networks referenced from node
// attributes, in deterministic order.
func referencedIDs(n *network.Network) []string {
	var ids []string
	nodeIDs := make([]string, 0, len(n.Nodes))
	for id := range n.Nodes {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Strings(nodeIDs)

	for _, nid := range nodeIDs {
		node := n.Nodes[nid]
		attrNames := make([]string, 0, len(node.Attributes))
		for name := range node.Attributes {
			attrNames = append(attrNames, name)
		}
		sort.Strings(attrNames)

		for _, name := range attrNames {
			attr := node.Attributes[name]
			switch attr.Kind {
			case network.KindGraph, network.KindGraphs:
				ids = append(ids, attr.Graphs...)
			case network.KindFunction:
				if attr.Ref != "" {
					ids = append(ids, attr.Ref)
				}
			}
		}
	}
	return ids
}

// TopOperators returns the k most frequent operator keys in descending
// count order, ties broken alphabetically.
func (s Summary) TopOperators(k int) []string {
	type pair struct {
		op    string
		count int
	}
	pairs := make([]pair, 0, len(s.Operators))
	for op, c := range s.Operators {
		pairs = append(pairs, pair{op, c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].op < pairs[j].op
	})
	if k > len(pairs) {
		k = len(pairs)
	}
	out := make([]string, 0, k)
	for _, p := range pairs[:k] {
		out = append(out, p.op)
	}
	return out
}
