package meridian

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// IVFIndex is an inverted-file index for approximate nearest neighbor
// search.
//
// The vector space is partitioned into a fixed number of lists (Voronoi
// cells) whose centroids are learned by k-means. Each vector lives in the
// inverted list of its nearest centroid; a query probes only the lists
// nearest the query vector. Recall depends on how many lists are probed
// relative to how many exist — that tradeoff is what ProbeController and
// CostEstimator model.
//
// Thread-safety: guarded by a read-write mutex. Searches and metadata reads
// take the shared lock and may run concurrently; build, insert and delete
// are exclusive.
type IVFIndex struct {
	// dim is the dimensionality of vectors stored in this index
	dim int

	// distanceKind selects the distance function; distance is the calculator
	distanceKind DistanceKind
	distance     Distance

	// nlist is the configured number of inverted lists, immutable after
	// construction
	nlist int

	// centroids are the learned list centers, length nlist once trained
	centroids [][]float32

	// invlists[i] holds the vectors assigned to centroids[i]
	invlists [][]VectorNode

	// tuples counts the vectors currently in the index
	tuples uint64

	mu sync.RWMutex

	// trained indicates whether centroids have been learned
	trained bool

	logger   *slog.Logger
	maxIter  int
	progress func(BuildPhase)
}

// IndexOption configures optional IVFIndex behavior.
type IndexOption func(*IVFIndex)

// WithLogger sets the structured logger used by build operations.
// By default build logs are discarded.
func WithLogger(logger *slog.Logger) IndexOption {
	return func(idx *IVFIndex) {
		if logger != nil {
			idx.logger = logger
		}
	}
}

// WithMaxIterations caps the number of k-means iterations during training.
func WithMaxIterations(n int) IndexOption {
	return func(idx *IVFIndex) {
		idx.maxIter = n
	}
}

// WithBuildProgress registers a callback invoked as the build moves through
// its phases. Pair it with BuildPhaseName for display.
func WithBuildProgress(fn func(BuildPhase)) IndexOption {
	return func(idx *IVFIndex) {
		idx.progress = fn
	}
}

// NewIVFIndex creates a new IVF index with the given dimensionality, list
// count and distance metric. The index must be trained (or built) before it
// can accept vectors or serve searches.
//
// lists must be in [MinLists, MaxLists]; it is immutable after construction.
// Rule of thumb: lists ≈ sqrt(expected dataset size).
func NewIVFIndex(dim int, lists int, distanceKind DistanceKind, opts ...IndexOption) (*IVFIndex, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dim)
	}
	if err := ValidateLists(lists); err != nil {
		return nil, err
	}

	distance, err := NewDistance(distanceKind)
	if err != nil {
		return nil, err
	}

	idx := &IVFIndex{
		dim:          dim,
		distanceKind: distanceKind,
		distance:     distance,
		nlist:        lists,
		invlists:     make([][]VectorNode, lists),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxIter:      DefaultMaxIter,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx, nil
}

// reportPhase invokes the build-progress callback, if any.
func (idx *IVFIndex) reportPhase(phase BuildPhase) {
	if idx.progress != nil {
		idx.progress(phase)
	}
}

// Train learns the list centroids from a representative sample via k-means.
// Training requires at least as many vectors as lists; more is better, and a
// random sample of the full dataset works well.
//
// Train only learns the partitioning — it does not load the sample into the
// index. Use Build to train and load in one pass, or Add after training.
func (idx *IVFIndex) Train(vectors []VectorNode) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.trainLocked(vectors)
}

func (idx *IVFIndex) trainLocked(vectors []VectorNode) error {
	idx.reportPhase(BuildPhaseInitializing)

	if len(vectors) < idx.nlist {
		return fmt.Errorf("need at least %d training vectors for %d lists (got %d)",
			idx.nlist, idx.nlist, len(vectors))
	}

	raw := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v.Vector()) != idx.dim {
			return fmt.Errorf("training vector %d has dimension %d, expected %d", i, len(v.Vector()), idx.dim)
		}
		raw[i] = v.Vector()
	}

	idx.reportPhase(BuildPhaseKMeans)
	idx.logger.Info("training ivf index", "lists", idx.nlist, "dims", idx.dim, "sample", len(vectors))

	centroids, _ := KMeans(raw, idx.nlist, idx.distance, idx.maxIter)
	if centroids == nil {
		return fmt.Errorf("k-means clustering failed")
	}

	idx.centroids = centroids
	idx.trained = true
	return nil
}

// Build trains the index on the given vectors and loads all of them,
// mirroring a from-scratch index build: initialize, learn centroids, assign
// every tuple to its nearest list, load. Any previously loaded vectors are
// discarded.
//
// The assignment phase runs across GOMAXPROCS goroutines.
func (idx *IVFIndex) Build(vectors []VectorNode) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	// Normalize up front so centroids and loaded vectors agree for metrics
	// with preprocessing (cosine).
	for i, v := range vectors {
		if err := idx.distance.PreprocessInPlace(v.Vector()); err != nil {
			return fmt.Errorf("preprocess vector %d: %w", i, err)
		}
	}

	if err := idx.trainLocked(vectors); err != nil {
		return err
	}

	idx.reportPhase(BuildPhaseAssign)

	raw := make([][]float32, len(vectors))
	for i, v := range vectors {
		raw[i] = v.Vector()
	}
	assignments := make([]int, len(vectors))
	for i := range assignments {
		assignments[i] = UnassignedCluster
	}
	assignVectors(raw, idx.centroids, idx.distance, assignments)

	idx.reportPhase(BuildPhaseLoad)

	idx.invlists = make([][]VectorNode, idx.nlist)
	for i, v := range vectors {
		list := assignments[i]
		idx.invlists[list] = append(idx.invlists[list], v)
	}
	idx.tuples = uint64(len(vectors))

	idx.logger.Info("ivf index built", "lists", idx.nlist, "tuples", idx.tuples)
	return nil
}

// Add inserts a vector into the inverted list of its nearest centroid.
// The index must be trained first.
func (idx *IVFIndex) Add(vector VectorNode) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if !idx.trained {
		return fmt.Errorf("index must be trained before adding vectors")
	}
	if len(vector.Vector()) != idx.dim {
		return fmt.Errorf("vector dimension mismatch: expected %d, got %d",
			idx.dim, len(vector.Vector()))
	}

	// Cosine vectors are normalized in place; the other metrics are no-ops.
	if err := idx.distance.PreprocessInPlace(vector.Vector()); err != nil {
		return err
	}

	nearest := FindNearestCentroidIndex(vector.Vector(), idx.centroids, idx.distance)
	idx.invlists[nearest] = append(idx.invlists[nearest], vector)
	idx.tuples++

	return nil
}

// Remove deletes the vector with the matching ID. Linear over the inverted
// lists in the worst case.
func (idx *IVFIndex) Remove(vector VectorNode) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for listIdx := range idx.invlists {
		for i, v := range idx.invlists[listIdx] {
			if v.ID() == vector.ID() {
				idx.invlists[listIdx] = append(
					idx.invlists[listIdx][:i],
					idx.invlists[listIdx][i+1:]...)
				idx.tuples--
				return nil
			}
		}
	}

	return fmt.Errorf("vector with ID %d not found", vector.ID())
}

// BulkDelete removes every vector whose ID appears in ids, returning how
// many were found and removed. This is the vacuum bulk-delete entry point;
// IDs not present in the index are ignored.
func (idx *IVFIndex) BulkDelete(ids []uint32) int {
	if len(ids) == 0 {
		return 0
	}

	victims := NewDocumentFilter(ids)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	removed := 0
	for listIdx := range idx.invlists {
		list := idx.invlists[listIdx][:0]
		for _, v := range idx.invlists[listIdx] {
			if victims.IsEligible(v.ID()) {
				removed++
				continue
			}
			list = append(list, v)
		}
		idx.invlists[listIdx] = list
	}
	idx.tuples -= uint64(removed)

	return removed
}

// Metadata returns the index's build-time metadata. Safe to call
// concurrently with searches and other metadata reads.
func (idx *IVFIndex) Metadata() Metadata {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return Metadata{
		Lists:      idx.nlist,
		Dimensions: idx.dim,
		Tuples:     idx.tuples,
	}
}

// EncodedMetadata serializes the index metadata and centroids into the
// compact block format read by DecodeMetadata. The index must be trained.
func (idx *IVFIndex) EncodedMetadata() ([]byte, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if !idx.trained {
		return nil, fmt.Errorf("index must be trained before encoding metadata")
	}
	return EncodeMetadata(Metadata{
		Lists:      idx.nlist,
		Dimensions: idx.dim,
		Tuples:     idx.tuples,
	}, idx.centroids)
}

// Lists returns the configured number of inverted lists.
func (idx *IVFIndex) Lists() int {
	return idx.nlist
}

// Dimensions returns the dimensionality of vectors stored in this index.
func (idx *IVFIndex) Dimensions() int {
	return idx.dim
}

// DistanceKind returns the distance metric used by this index.
func (idx *IVFIndex) DistanceKind() DistanceKind {
	return idx.distanceKind
}

// Trained returns true if the index has been trained
func (idx *IVFIndex) Trained() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.trained
}

// Tuples returns the number of vectors currently in the index.
func (idx *IVFIndex) Tuples() uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.tuples
}
