package network

// Statistics summarizes one network level.
type Statistics struct {
	VertexCount    int
	EdgeCount      int
	OperatorCounts map[string]int
}

// Statistics computes vertex/edge counts and the per-operator histogram
// for this level only. Nested sub-networks referenced from attributes are
// aggregated separately (see pkg/stats).
func (n *Network) Statistics() Statistics {
	counts := make(map[string]int)
	for _, id := range n.vertexIDs() {
		node := n.Nodes[id]
		counts[node.OperatorKey()]++
	}
	return Statistics{
		VertexCount:    len(n.Nodes),
		EdgeCount:      len(n.Edges),
		OperatorCounts: counts,
	}
}

// OperatorKey returns the histogram key for a node: the operator type,
// domain-qualified outside the default domain.
func (nd *Node) OperatorKey() string {
	if nd.OperatorDomain == "" {
		return nd.OperatorType
	}
	return nd.OperatorDomain + "::" + nd.OperatorType
}
