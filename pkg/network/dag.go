package network

import (
	"fmt"
	"strconv"
)

// vertexIDs returns the vertex ids in declaration order. Ids are
// stringified declaration indices, so ordering is by integer value.
func (n *Network) vertexIDs() []string {
	ids := make([]string, 0, len(n.Nodes))
	for i := 0; i < n.Size; i++ {
		id := strconv.Itoa(i)
		if _, ok := n.Nodes[id]; ok {
			ids = append(ids, id)
		}
	}
	// Vertices with non-index keys (none produced by the engine, but the
	// structure does not forbid them) go last.
	if len(ids) != len(n.Nodes) {
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			seen[id] = true
		}
		for id := range n.Nodes {
			if !seen[id] {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// adjacency builds the outgoing-neighbor lists from the edge list.
func (n *Network) adjacency() map[string][]string {
	adj := make(map[string][]string, len(n.Nodes))
	for _, e := range n.Edges {
		adj[e.From] = append(adj[e.From], e.To)
	}
	return adj
}

// OutgoingEdges returns the edges leaving a vertex.
func (n *Network) OutgoingEdges(id string) []Edge {
	var out []Edge
	for _, e := range n.Edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	return out
}

// IncomingEdges returns the edges entering a vertex.
func (n *Network) IncomingEdges(id string) []Edge {
	var in []Edge
	for _, e := range n.Edges {
		if e.To == id {
			in = append(in, e)
		}
	}
	return in
}

// HasCycle reports whether the edge list forms a cycle, using DFS with
// three-color marking: WHITE unvisited, GRAY in the recursion stack,
// BLACK finished. A GRAY neighbor means a back edge, hence a cycle.
func (n *Network) HasCycle() bool {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int, len(n.Nodes))
	adj := n.adjacency()

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		for _, next := range adj[id] {
			if next == id {
				return true
			}
			switch color[next] {
			case white:
				if visit(next) {
					return true
				}
			case gray:
				return true
			}
		}
		color[id] = black
		return false
	}

	for _, id := range n.vertexIDs() {
		if color[id] == white {
			if visit(id) {
				return true
			}
		}
	}
	return false
}

// TopologicalOrder returns the vertex ids in a topological order using
// Kahn's algorithm. For every edge u->v, u comes before v. Fails if the
// network contains a cycle.
func (n *Network) TopologicalOrder() ([]string, error) {
	ids := n.vertexIDs()
	inDegree := make(map[string]int, len(ids))
	for _, id := range ids {
		inDegree[id] = 0
	}
	for _, e := range n.Edges {
		inDegree[e.To]++
	}

	adj := n.adjacency()

	queue := make([]string, 0, len(ids))
	for _, id := range ids {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	sorted := make([]string, 0, len(ids))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, current)

		for _, next := range adj[current] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(sorted) != len(ids) {
		return nil, fmt.Errorf("network %s contains a cycle, no topological order exists", n.ID)
	}
	return sorted, nil
}
