package meridian

// BuildPhase identifies one phase of an index build for progress reporting.
// The codes are part of the progress-reporting contract; the names are what
// operators see.
type BuildPhase int64

const (
	// BuildPhaseInitializing covers option parsing and sampling setup.
	BuildPhaseInitializing BuildPhase = iota + 1

	// BuildPhaseKMeans covers learning the list centroids.
	BuildPhaseKMeans

	// BuildPhaseAssign covers assigning each tuple to its nearest list.
	BuildPhaseAssign

	// BuildPhaseLoad covers writing tuples into their inverted lists.
	BuildPhaseLoad
)

// BuildPhaseName returns the human-readable name for a build phase code.
// Unrecognized codes yield the empty string: no label is available, which
// the progress subsystem treats as a valid silent outcome, not an error.
func BuildPhaseName(phase BuildPhase) string {
	switch phase {
	case BuildPhaseInitializing:
		return "initializing"
	case BuildPhaseKMeans:
		return "performing k-means"
	case BuildPhaseAssign:
		return "assigning tuples"
	case BuildPhaseLoad:
		return "loading tuples"
	default:
		return ""
	}
}

// VacuumOptions declares which vacuum strategies the index supports.
type VacuumOptions uint8

const (
	// VacuumParallelBulkDelete allows the bulk-delete phase of vacuum to run
	// in parallel workers.
	VacuumParallelBulkDelete VacuumOptions = 1 << iota
)

// Entry-point signatures bound into the capability descriptor. The planner
// and maintenance subsystems call through these rather than depending on the
// index implementation directly.
type (
	// BuildFunc builds the named index from scratch over the given vectors.
	BuildFunc func(index *IVFIndex, vectors []VectorNode) error

	// InsertFunc inserts one vector into the index.
	InsertFunc func(index *IVFIndex, node VectorNode) error

	// BulkDeleteFunc removes the given row IDs, returning how many were found.
	BulkDeleteFunc func(index *IVFIndex, ids []uint32) int

	// VacuumCleanupFunc finishes a vacuum pass, returning the tuples left.
	VacuumCleanupFunc func(index *IVFIndex) uint64

	// CostEstimateFunc is the planner's cost-estimate entry point.
	CostEstimateFunc func(index string, loopCount float64, q QueryContext) (CostEstimate, error)

	// OptionsFunc validates build-time options for the index type.
	OptionsFunc func(lists int) error

	// ValidateFunc checks catalog entries for an operator class.
	ValidateFunc func(operatorClass string) bool

	// BuildPhaseNameFunc maps a build phase code to its display name.
	BuildPhaseNameFunc func(phase BuildPhase) string
)

// Capabilities declares, once per index type, what the index can do and
// which procedures implement it. The registration subsystem consumes the
// descriptor once; it is never re-queried per call, so the flags are plain
// fields rather than methods.
type Capabilities struct {
	// Strategies is the number of native comparison strategies. IVF has no
	// native equality or inequality strategies.
	Strategies int

	// SupportProcs is the number of support procedures the index type
	// requires (distance function, norm support and friends).
	SupportProcs int

	// CanOrderByColumn reports whether the index returns rows in column
	// order. IVF orders only by distance operator.
	CanOrderByColumn bool

	// CanOrderByOperator reports whether the index can satisfy ORDER BY
	// clauses written against an operator (distance).
	CanOrderByOperator bool

	// CanBackwardScan reports whether a scan may change direction mid-flight.
	CanBackwardScan bool

	// CanUnique reports whether the index can enforce uniqueness.
	CanUnique bool

	// CanMultiColumn reports whether multi-column keys are supported.
	CanMultiColumn bool

	// OptionalScanKeys reports whether a scan may run without any key.
	OptionalScanKeys bool

	// CanSearchArrays reports whether array scan keys are supported natively.
	CanSearchArrays bool

	// CanSearchNulls reports whether IS NULL scan keys are supported.
	CanSearchNulls bool

	// StoresExtraData reports whether the index stores data beyond the key.
	StoresExtraData bool

	// Clusterable reports whether the relation can be clustered on the index.
	Clusterable bool

	// PredicateLocks reports whether the index supports predicate locking.
	PredicateLocks bool

	// CanParallelScan reports whether scans can run in parallel workers.
	CanParallelScan bool

	// CanParallelBuild reports whether the build may use parallel workers.
	CanParallelBuild bool

	// CanBitmapScan reports whether the index can produce bitmaps.
	CanBitmapScan bool

	// CanReturnWithoutFetch reports whether the index can return tuples
	// without a heap fetch. IVF tuples are not usable for index-only scans.
	CanReturnWithoutFetch bool

	// VacuumOptions declares the supported vacuum strategies.
	VacuumOptions VacuumOptions

	// Bound procedures.
	Build          BuildFunc
	Insert         InsertFunc
	BulkDelete     BulkDeleteFunc
	VacuumCleanup  VacuumCleanupFunc
	CostEstimate   CostEstimateFunc
	Options        OptionsFunc
	Validate       ValidateFunc
	BuildPhaseName BuildPhaseNameFunc
}

// IVFCapabilities returns the capability descriptor for the IVF index type,
// with the planner entry points bound to the given estimator.
func IVFCapabilities(estimator *CostEstimator) Capabilities {
	return Capabilities{
		Strategies:            0,
		SupportProcs:          5,
		CanOrderByColumn:      false,
		CanOrderByOperator:    true,
		CanBackwardScan:       false,
		CanUnique:             false,
		CanMultiColumn:        false,
		OptionalScanKeys:      true,
		CanSearchArrays:       false,
		CanSearchNulls:        false,
		StoresExtraData:       false,
		Clusterable:           false,
		PredicateLocks:        false,
		CanParallelScan:       false,
		CanParallelBuild:      true,
		CanBitmapScan:         false,
		CanReturnWithoutFetch: false,
		VacuumOptions:         VacuumParallelBulkDelete,

		Build: func(index *IVFIndex, vectors []VectorNode) error {
			return index.Build(vectors)
		},
		Insert: func(index *IVFIndex, node VectorNode) error {
			return index.Add(node)
		},
		BulkDelete: func(index *IVFIndex, ids []uint32) int {
			return index.BulkDelete(ids)
		},
		VacuumCleanup: func(index *IVFIndex) uint64 {
			return index.Tuples()
		},
		CostEstimate:   estimator.Estimate,
		Options:        ValidateLists,
		Validate:       func(operatorClass string) bool { return true },
		BuildPhaseName: BuildPhaseName,
	}
}
