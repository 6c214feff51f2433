package meridian

import "testing"

// TestKMeansBasic tests clustering of clearly separable groups.
func TestKMeansBasic(t *testing.T) {
	dist, err := NewDistance(L2Squared)
	if err != nil {
		t.Fatalf("NewDistance() error: %v", err)
	}

	// Two tight groups far apart.
	vectors := [][]float32{
		{0, 0}, {0, 1}, {1, 0}, {1, 1},
		{100, 100}, {100, 101}, {101, 100}, {101, 101},
	}

	centroids, assignments := KMeans(vectors, 2, dist, 0)
	if len(centroids) != 2 {
		t.Fatalf("got %d centroids, want 2", len(centroids))
	}
	if len(assignments) != len(vectors) {
		t.Fatalf("got %d assignments, want %d", len(assignments), len(vectors))
	}

	// Every vector must be assigned to a valid cluster.
	for i, a := range assignments {
		if a < 0 || a >= 2 {
			t.Errorf("assignment[%d] = %d, outside [0, 2)", i, a)
		}
	}

	// The two groups must not share a cluster.
	low := assignments[0]
	for i := 1; i < 4; i++ {
		if assignments[i] != low {
			t.Errorf("low group split across clusters: %v", assignments[:4])
		}
	}
	high := assignments[4]
	if high == low {
		t.Error("both groups assigned to the same cluster")
	}
	for i := 5; i < 8; i++ {
		if assignments[i] != high {
			t.Errorf("high group split across clusters: %v", assignments[4:])
		}
	}
}

// TestKMeansDegenerateInput tests empty and undersized inputs.
func TestKMeansDegenerateInput(t *testing.T) {
	dist, _ := NewDistance(L2Squared)

	t.Run("empty input", func(t *testing.T) {
		centroids, assignments := KMeans(nil, 2, dist, 10)
		if centroids != nil || assignments != nil {
			t.Error("expected nil results for empty input")
		}
	})

	t.Run("non-positive k", func(t *testing.T) {
		centroids, _ := KMeans([][]float32{{1, 2}}, 0, dist, 10)
		if centroids != nil {
			t.Error("expected nil centroids for k = 0")
		}
	})

	t.Run("k larger than input", func(t *testing.T) {
		vectors := [][]float32{{0, 0}, {10, 10}}
		centroids, assignments := KMeans(vectors, 5, dist, 10)
		if len(centroids) != 2 {
			t.Errorf("got %d centroids, want k reduced to 2", len(centroids))
		}
		for i, a := range assignments {
			if a < 0 || a >= len(centroids) {
				t.Errorf("assignment[%d] = %d out of range", i, a)
			}
		}
	})
}

// TestKMeansParallelAssignmentStable tests that repeated runs over the same
// input produce the same clustering despite the parallel assignment step.
func TestKMeansParallelAssignmentStable(t *testing.T) {
	dist, _ := NewDistance(L2Squared)

	vectors := make([][]float32, 200)
	for i := range vectors {
		vectors[i] = []float32{float32(i % 17), float32(i % 29)}
	}

	_, first := KMeans(vectors, 8, dist, 15)
	for run := 0; run < 3; run++ {
		_, again := KMeans(vectors, 8, dist, 15)
		for i := range first {
			if first[i] != again[i] {
				t.Fatalf("run %d: assignment[%d] = %d, want %d", run, i, again[i], first[i])
			}
		}
	}
}

// TestFindNearestCentroidIndex tests nearest-centroid selection.
func TestFindNearestCentroidIndex(t *testing.T) {
	dist, _ := NewDistance(L2Squared)
	centroids := [][]float32{
		{0, 0},
		{10, 0},
		{0, 10},
	}

	tests := []struct {
		name   string
		vector []float32
		want   int
	}{
		{"origin", []float32{0, 0}, 0},
		{"near second", []float32{9, 1}, 1},
		{"near third", []float32{1, 9}, 2},
		{"tie goes to first seen", []float32{5, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindNearestCentroidIndex(tt.vector, centroids, dist); got != tt.want {
				t.Errorf("FindNearestCentroidIndex() = %d, want %d", got, tt.want)
			}
		})
	}
}
