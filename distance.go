package meridian

import (
	"errors"
	"math"
)

// ErrUnknownDistanceKind is returned when an unknown distance kind is provided to NewDistance.
var ErrUnknownDistanceKind = errors.New("unknown distance kind")

// ErrZeroVector is returned when a zero vector is provided for a metric that doesn't support it.
var ErrZeroVector = errors.New("zero vector not allowed for this metric")

// DistanceKind represents the type of distance metric to use for vector comparisons.
// Different distance metrics are suitable for different use cases:
// - Euclidean (L2): Measures absolute spatial distance between points
// - L2Squared: Squared Euclidean distance (faster, preserves ordering)
// - Cosine: Measures angular similarity, independent of magnitude
// - InnerProduct: Negative dot product, for maximum-inner-product search
type DistanceKind string

const (
	// Euclidean (L2) distance measures the straight-line distance between two points.
	// Use this when the magnitude of vectors matters.
	// Formula: sqrt(sum((a[i] - b[i])^2))
	Euclidean DistanceKind = "l2"

	// L2Squared (squared Euclidean) distance measures the squared distance between two points.
	// This is faster than L2 as it avoids the sqrt operation.
	// Use this when you only need to compare distances (ordering is preserved).
	// Formula: sum((a[i] - b[i])^2)
	L2Squared DistanceKind = "l2_squared"

	// Cosine distance measures the angular difference between vectors (1 - cosine similarity).
	// Use this when you care about direction but not magnitude (e.g., text embeddings).
	// Formula: 1 - (dot(a,b) / (||a|| * ||b||))
	// Range: [0, 2] where 0 = identical direction, 1 = orthogonal, 2 = opposite
	Cosine DistanceKind = "cosine"

	// InnerProduct distance is the negated dot product of two vectors.
	// Use this for maximum-inner-product search (e.g., recommendation scores).
	// Smaller distance = larger inner product, so ordering by distance ascending
	// returns the highest-scoring vectors first.
	// Formula: -dot(a, b)
	InnerProduct DistanceKind = "ip"
)

// Singleton instances of distance strategies.
// These are stateless and can be safely reused across goroutines.
var (
	euclideanDistanceImpl    = euclidean{}
	l2SquaredDistanceImpl    = l2Squared{}
	cosineDistanceImpl       = cosine{}
	innerProductDistanceImpl = innerProduct{}
)

// Distance is the interface for computing distances between vectors.
// Implementations provide different distance metrics for vector similarity search.
type Distance interface {
	// Calculate computes the distance between two vectors a and b.
	// The vectors must have the same dimensionality.
	// Returns a float32 representing the distance (lower values = more similar).
	Calculate(a, b []float32) float32

	// PreprocessInPlace preprocesses the target vector in-place for the distance metric.
	// For cosine this normalizes the vector to unit length; for the other metrics
	// it is a no-op.
	PreprocessInPlace(target []float32) error

	// Preprocess preprocesses the target vector for the distance metric, returning a
	// new vector and leaving the input untouched.
	Preprocess(target []float32) ([]float32, error)
}

// NewDistance returns the distance implementation for the given kind.
// Returns ErrUnknownDistanceKind if the kind is not recognized.
func NewDistance(t DistanceKind) (Distance, error) {
	switch t {
	case Euclidean:
		return euclideanDistanceImpl, nil
	case L2Squared:
		return l2SquaredDistanceImpl, nil
	case Cosine:
		return cosineDistanceImpl, nil
	case InnerProduct:
		return innerProductDistanceImpl, nil
	default:
		return nil, ErrUnknownDistanceKind
	}
}

// euclidean implements the Distance interface using Euclidean (L2) distance.
type euclidean struct{}

// Calculate computes the Euclidean (L2) distance between two vectors.
// Formula: sqrt(sum((a[i] - b[i])^2))
func (e euclidean) Calculate(a, b []float32) float32 {
	var sum float32
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return float32(math.Sqrt(float64(sum)))
}

// PreprocessInPlace is a no-op for euclidean distance.
func (e euclidean) PreprocessInPlace(target []float32) error {
	return nil
}

// Preprocess is a no-op for euclidean distance, returning the vector unchanged.
func (e euclidean) Preprocess(target []float32) ([]float32, error) {
	return target, nil
}

// l2Squared implements the Distance interface using squared Euclidean (L2²) distance.
// Faster than euclidean distance as it avoids the sqrt operation; ordering is
// preserved, so it is suitable for k-NN search.
type l2Squared struct{}

// Calculate computes the squared Euclidean (L2²) distance between two vectors.
// Formula: sum((a[i] - b[i])^2)
func (l l2Squared) Calculate(a, b []float32) float32 {
	var sum float32
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

// PreprocessInPlace is a no-op for L2 squared distance.
func (l l2Squared) PreprocessInPlace(target []float32) error {
	return nil
}

// Preprocess is a no-op for L2 squared distance, returning the vector unchanged.
func (l l2Squared) Preprocess(target []float32) ([]float32, error) {
	return target, nil
}

// cosine implements the Distance interface using cosine distance.
// Vectors are normalized to unit length during preprocessing, after which
// cosine distance reduces to 1 - dot(a, b).
type cosine struct{}

// Calculate computes the cosine distance between two preprocessed (unit) vectors.
// Formula: 1 - dot(a, b)
func (c cosine) Calculate(a, b []float32) float32 {
	var dot float32
	for i := range a {
		dot += a[i] * b[i]
	}
	return 1 - dot
}

// PreprocessInPlace normalizes the vector in-place to unit length.
// Returns ErrZeroVector if the vector has zero magnitude.
func (c cosine) PreprocessInPlace(target []float32) error {
	var norm float32
	for _, v := range target {
		norm += v * v
	}
	if norm == 0 {
		return ErrZeroVector
	}

	inv := float32(1 / math.Sqrt(float64(norm)))
	for i := range target {
		target[i] *= inv
	}
	return nil
}

// Preprocess returns a normalized copy of the vector.
// Returns ErrZeroVector if the vector has zero magnitude.
func (c cosine) Preprocess(target []float32) ([]float32, error) {
	out := make([]float32, len(target))
	copy(out, target)
	if err := c.PreprocessInPlace(out); err != nil {
		return nil, err
	}
	return out, nil
}

// innerProduct implements the Distance interface using negative inner product.
// Negating the dot product turns "largest inner product" into "smallest
// distance", so the same ascending sort used by the other metrics applies.
type innerProduct struct{}

// Calculate computes the negative inner product of two vectors.
// Formula: -dot(a, b)
func (p innerProduct) Calculate(a, b []float32) float32 {
	var dot float32
	for i := range a {
		dot += a[i] * b[i]
	}
	return -dot
}

// PreprocessInPlace is a no-op for inner product distance.
func (p innerProduct) PreprocessInPlace(target []float32) error {
	return nil
}

// Preprocess is a no-op for inner product distance, returning the vector unchanged.
func (p innerProduct) Preprocess(target []float32) ([]float32, error) {
	return target, nil
}
