package network

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Fingerprint computes the content-derived identifier of a network:
// a SHA-256 digest over the canonical serialization of its vertices in
// declaration order, its edge list, and its provenance flags. Equal
// content yields equal identifiers across runs; nested sub-network
// references chain through the identifiers stored in attributes.
func (n *Network) Fingerprint() string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, id := range n.vertexIDs() {
		enc.Encode(id)
		enc.Encode(n.Nodes[id])
	}
	enc.Encode(n.Edges)
	enc.Encode([2]bool{n.IsSubgraph, n.IsFunctionBody})
	return hex.EncodeToString(h.Sum(nil))
}

// Seal assigns the content-derived identifier. Called once by the
// extraction engine after assembly; the network is immutable afterwards.
func (n *Network) Seal() {
	n.ID = n.Fingerprint()
}
