package meridian

import (
	"math"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

const (
	// UnassignedCluster indicates a vector hasn't been assigned to any list yet
	UnassignedCluster = -1
)

// DefaultMaxIter is the default maximum number of iterations for k-means
// clustering. Most datasets converge well before this.
var DefaultMaxIter = 20

// KMeans learns k list centroids from the given vectors.
//
// Standard Lloyd's iteration: initialize centroids by uniform sampling,
// assign every vector to its nearest centroid, recompute each centroid as
// the mean of its assigned vectors, and repeat until assignments stop
// changing or maxIter is reached. The assignment step — the dominant cost,
// O(k × n × dim) per iteration — is fanned out across GOMAXPROCS
// goroutines.
//
// Returns the k centroids and, for each input vector, the index of the
// centroid it was assigned to. Returns nil for empty input or k <= 0.
// k is reduced to len(vectors) when there are fewer vectors than clusters,
// and maxIter <= 0 selects DefaultMaxIter.
func KMeans(vectors [][]float32, k int, distance Distance, maxIter int) (centroids [][]float32, assignments []int) {
	if len(vectors) == 0 || k <= 0 {
		return nil, nil
	}
	if k > len(vectors) {
		k = len(vectors)
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}

	dimensions := len(vectors[0])

	// Uniform spacing: every (n/k)-th vector seeds a centroid.
	centroids = make([][]float32, k)
	samplingStep := len(vectors) / k
	if samplingStep == 0 {
		samplingStep = 1
	}
	for clusterIdx := 0; clusterIdx < k; clusterIdx++ {
		vectorIdx := clusterIdx * samplingStep
		if vectorIdx >= len(vectors) {
			vectorIdx = len(vectors) - 1
		}
		centroids[clusterIdx] = make([]float32, dimensions)
		copy(centroids[clusterIdx], vectors[vectorIdx])
	}

	assignments = make([]int, len(vectors))
	for i := range assignments {
		assignments[i] = UnassignedCluster
	}

	for iteration := 0; iteration < maxIter; iteration++ {
		if !assignVectors(vectors, centroids, distance, assignments) {
			break // converged
		}

		// Update step: recompute centroids as the mean of their members in a
		// single pass over the vectors.
		clusterSums := make([][]float32, k)
		clusterSizes := make([]int, k)
		for i := range clusterSums {
			clusterSums[i] = make([]float32, dimensions)
		}
		for vectorIdx, assigned := range assignments {
			if assigned == UnassignedCluster {
				continue
			}
			for dimIdx := range vectors[vectorIdx] {
				clusterSums[assigned][dimIdx] += vectors[vectorIdx][dimIdx]
			}
			clusterSizes[assigned]++
		}
		for clusterIdx := range centroids {
			if clusterSizes[clusterIdx] == 0 {
				// Empty cluster: keep the old centroid position. It may
				// attract vectors in a later iteration.
				continue
			}
			for dimIdx := range centroids[clusterIdx] {
				centroids[clusterIdx][dimIdx] = clusterSums[clusterIdx][dimIdx] / float32(clusterSizes[clusterIdx])
			}
		}
	}

	return centroids, assignments
}

// assignVectors assigns every vector to its nearest centroid, writing into
// assignments, and reports whether any assignment changed. The work is split
// into contiguous chunks, one goroutine per chunk; chunks write disjoint
// ranges of assignments, so the only shared state is the changed flag.
func assignVectors(vectors [][]float32, centroids [][]float32, distance Distance, assignments []int) bool {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(vectors) {
		workers = len(vectors)
	}

	chunk := (len(vectors) + workers - 1) / workers

	var changed atomic.Bool
	var g errgroup.Group

	for start := 0; start < len(vectors); start += chunk {
		start := start
		end := start + chunk
		if end > len(vectors) {
			end = len(vectors)
		}
		g.Go(func() error {
			for vectorIdx := start; vectorIdx < end; vectorIdx++ {
				nearest := FindNearestCentroidIndex(vectors[vectorIdx], centroids, distance)
				if assignments[vectorIdx] != nearest {
					assignments[vectorIdx] = nearest
					changed.Store(true)
				}
			}
			return nil
		})
	}

	// Workers never return an error; Wait is only a join point.
	_ = g.Wait()

	return changed.Load()
}

// FindNearestCentroidIndex returns the index of the centroid nearest to the
// given vector under the given distance metric.
func FindNearestCentroidIndex(vector []float32, centroids [][]float32, distance Distance) int {
	nearestDistance := float32(math.Inf(1))
	nearest := 0
	for clusterIdx, centroid := range centroids {
		if dist := distance.Calculate(vector, centroid); dist < nearestDistance {
			nearestDistance = dist
			nearest = clusterIdx
		}
	}
	return nearest
}
