package meridian

import "sync/atomic"

// nodeIDCounter is a package-level counter for auto-incrementing node IDs
var nodeIDCounter uint32

// VectorNode is a single indexed vector together with its row identifier.
// The ID is what search results report and what document filters match
// against.
type VectorNode struct {
	id     uint32
	vector []float32
}

// NewVectorNode creates a new VectorNode with an auto-incremented ID.
// The initializer is thread-safe and can be used concurrently.
func NewVectorNode(vector []float32) *VectorNode {
	id := atomic.AddUint32(&nodeIDCounter, 1)
	return &VectorNode{
		id:     id,
		vector: vector,
	}
}

// NewVectorNodeWithID creates a VectorNode with a caller-assigned ID.
// Used when loading an index whose IDs are owned by an external row store.
func NewVectorNodeWithID(id uint32, vector []float32) *VectorNode {
	return &VectorNode{
		id:     id,
		vector: vector,
	}
}

// ID returns the ID of the node
func (n *VectorNode) ID() uint32 {
	return n.id
}

// Vector returns the vector of the node
func (n *VectorNode) Vector() []float32 {
	return n.vector
}

// ComparableToVector returns true if the node has the same dimension as vector.
func (n *VectorNode) ComparableToVector(vector []float32) bool {
	return len(n.vector) == len(vector)
}

// Copy returns a copy of the node
func (n *VectorNode) Copy() *VectorNode {
	return &VectorNode{
		id:     n.id,
		vector: append([]float32{}, n.vector...),
	}
}
