package meridian

import "testing"

// TestNewVectorNode tests auto-incremented ID assignment.
func TestNewVectorNode(t *testing.T) {
	a := NewVectorNode([]float32{1, 2})
	b := NewVectorNode([]float32{3, 4})

	if a.ID() == b.ID() {
		t.Errorf("consecutive nodes share ID %d", a.ID())
	}
	if got := a.Vector(); got[0] != 1 || got[1] != 2 {
		t.Errorf("Vector() = %v, want [1 2]", got)
	}
}

// TestNewVectorNodeWithID tests caller-assigned IDs.
func TestNewVectorNodeWithID(t *testing.T) {
	n := NewVectorNodeWithID(42, []float32{1})
	if n.ID() != 42 {
		t.Errorf("ID() = %d, want 42", n.ID())
	}
}

// TestVectorNodeCopy tests that copies are independent of the original.
func TestVectorNodeCopy(t *testing.T) {
	orig := NewVectorNode([]float32{1, 2})
	dup := orig.Copy()

	if dup.ID() != orig.ID() {
		t.Errorf("copy ID = %d, want %d", dup.ID(), orig.ID())
	}

	dup.Vector()[0] = 99
	if orig.Vector()[0] != 1 {
		t.Error("mutating the copy changed the original")
	}
}

// TestComparableToVector tests dimension comparison.
func TestComparableToVector(t *testing.T) {
	n := NewVectorNode([]float32{1, 2, 3})
	if !n.ComparableToVector([]float32{4, 5, 6}) {
		t.Error("same-dimension vectors should be comparable")
	}
	if n.ComparableToVector([]float32{1}) {
		t.Error("different-dimension vectors should not be comparable")
	}
}
