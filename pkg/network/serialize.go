package network

import (
	"encoding/json"
	"fmt"

	"github.com/golang/snappy"
)

// Marshal serializes a network to JSON. The arena-plus-edge-list layout
// keeps the structure free of reference cycles, so plain encoding works.
func Marshal(n *Network) ([]byte, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("marshal network %s: %w", n.ID, err)
	}
	return data, nil
}

// Unmarshal deserializes a network from JSON.
func Unmarshal(data []byte) (*Network, error) {
	n := &Network{}
	if err := json.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("unmarshal network: %w", err)
	}
	return n, nil
}

// Pack serializes and snappy-compresses a network for storage.
func Pack(n *Network) ([]byte, error) {
	data, err := Marshal(n)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, data), nil
}

// Unpack decompresses and deserializes a packed network blob.
func Unpack(blob []byte) (*Network, error) {
	data, err := snappy.Decode(nil, blob)
	if err != nil {
		return nil, fmt.Errorf("decompress network blob: %w", err)
	}
	return Unmarshal(data)
}
