package meridian

import "math"

// Default page access costs, matching the usual planner defaults: a random
// page fetch is assumed four times as expensive as a sequential one.
const (
	DefaultRandomPageCost = 4.0
	DefaultSeqPageCost    = 1.0

	// defaultCPUCostPerTuple is the per-tuple processing cost charged by the
	// generic model on top of page I/O.
	defaultCPUCostPerTuple = 0.01
)

// PageCosts carries the tablespace-specific page access costs the planner
// resolved for the relation under consideration.
type PageCosts struct {
	// Random is the cost of fetching one page in random order.
	Random float64

	// Seq is the cost of fetching one page sequentially.
	Seq float64
}

// DefaultPageCosts returns the standard page cost mix.
func DefaultPageCosts() PageCosts {
	return PageCosts{Random: DefaultRandomPageCost, Seq: DefaultSeqPageCost}
}

// RowLimit is the query's optional row limit (LIMIT plus OFFSET). The zero
// value means no limit is known.
type RowLimit struct {
	tuples float64
	known  bool
}

// LimitOf returns a known row limit. A negative value means the planner
// could not determine a limit and is treated as NoLimit.
func LimitOf(tuples float64) RowLimit {
	if tuples < 0 {
		return NoLimit()
	}
	return RowLimit{tuples: tuples, known: true}
}

// NoLimit returns the absent row limit.
func NoLimit() RowLimit {
	return RowLimit{}
}

// Tuples returns the limit and whether one is known.
func (l RowLimit) Tuples() (float64, bool) {
	return l.tuples, l.known
}

// QueryContext is the planner's view of one candidate query, assembled once
// per planning call and read-only to the cost model.
type QueryContext struct {
	// Ordered reports whether the scan has an ORDER BY distance-operator
	// clause. Without one the index is useless: an IVF scan produces rows
	// in distance order or not at all.
	Ordered bool

	// Limit is the query's row limit, when the planner knows one.
	Limit RowLimit

	// Clauses are the non-index filter conditions attached to the scan.
	Clauses []RestrictionClause

	// IndexTuples is the estimated number of rows in the index.
	IndexTuples float64

	// IndexPages is the estimated number of pages in the index.
	IndexPages float64

	// RelTuples is the estimated row count of the underlying relation.
	RelTuples float64

	// RelPages is the page count of the underlying relation.
	RelPages float64

	// PageCosts are the tablespace-specific page access costs.
	PageCosts PageCosts
}

// CostEstimate is the five-field answer the planner expects for a candidate
// index path.
type CostEstimate struct {
	// StartupCost is the cost incurred before the first row is returned.
	StartupCost float64

	// TotalCost is the cost of running the scan to completion.
	TotalCost float64

	// Selectivity is the estimated fraction of the relation's rows the scan
	// returns, in [0, 1].
	Selectivity float64

	// Correlation measures how physically ordered the matching rows are on
	// disk, in [-1, 1].
	Correlation float64

	// Pages is the estimated number of index pages visited.
	Pages float64
}

// neverUsableEstimate is returned for query shapes this index cannot serve:
// infinitely expensive, so the planner never picks the path.
func neverUsableEstimate() CostEstimate {
	return CostEstimate{
		StartupCost: math.Inf(1),
		TotalCost:   math.Inf(1),
	}
}

// GenericCostResult is the baseline estimate produced by a generic
// index-access cost model, assuming uniformly random page access.
type GenericCostResult struct {
	// TotalCost is the baseline cost of visiting the estimated tuples.
	TotalCost float64

	// Pages is the baseline number of index pages fetched.
	Pages float64

	// Selectivity is the baseline fraction of relation rows returned.
	Selectivity float64

	// Correlation is the baseline physical-order correlation.
	Correlation float64
}

// GenericCostModel converts an estimated index tuple count into page-access
// cost and selectivity. Implementations must be stateless: a single model is
// shared across concurrent planning calls.
type GenericCostModel interface {
	// Estimate prices a scan that visits indexTuples rows of the index
	// described by q, repeated loopCount times.
	Estimate(q QueryContext, loopCount float64, indexTuples float64) GenericCostResult
}

// genericCostModel is the default GenericCostModel. It charges one random
// page fetch per index page touched plus a small CPU cost per tuple, and
// assumes repeated loops find most pages cached.
type genericCostModel struct {
	cpuCostPerTuple float64
}

// NewGenericCostModel returns the default generic cost model.
func NewGenericCostModel() GenericCostModel {
	return genericCostModel{cpuCostPerTuple: defaultCPUCostPerTuple}
}

// Estimate prices indexTuples visits under the uniform-random-access
// assumption: pages fetched scale with the fraction of the index visited.
func (m genericCostModel) Estimate(q QueryContext, loopCount float64, indexTuples float64) GenericCostResult {
	var pages float64
	if q.IndexTuples > 0 && q.IndexPages > 0 {
		pages = math.Ceil(indexTuples / q.IndexTuples * q.IndexPages)
	}
	if pages < 1 {
		pages = 1
	}

	pageCost := pages * q.PageCosts.Random

	// Across repeated loops the buffer cache absorbs most refetches; damp
	// the per-loop page cost rather than charging full random I/O each time.
	if loopCount > 1 {
		pageCost /= math.Sqrt(loopCount)
	}

	totalCost := pageCost + indexTuples*m.cpuCostPerTuple

	var selectivity float64
	if q.RelTuples > 0 {
		selectivity = indexTuples / q.RelTuples
		if selectivity > 1 {
			selectivity = 1
		}
	}

	// Uniformly random access implies no physical ordering.
	return GenericCostResult{
		TotalCost:   totalCost,
		Pages:       pages,
		Selectivity: selectivity,
		Correlation: 0,
	}
}

// CostEstimator produces planner cost estimates for IVF index scans.
//
// An estimator holds an immutable Config snapshot, a metadata reader for
// list counts and a generic cost model; all three are read-only during
// estimation, so concurrent planning calls may share one estimator.
type CostEstimator struct {
	meta    MetadataReader
	probes  ProbeController
	generic GenericCostModel
}

// NewCostEstimator returns an estimator reading list counts through meta and
// pricing page access through generic. A nil generic selects the default
// model.
func NewCostEstimator(meta MetadataReader, cfg Config, generic GenericCostModel) *CostEstimator {
	if generic == nil {
		generic = NewGenericCostModel()
	}
	return &CostEstimator{
		meta:    meta,
		probes:  NewProbeController(cfg),
		generic: generic,
	}
}

// Estimate computes the cost of scanning the named index for the query
// described by q, repeated loopCount times.
//
// A query without a distance-ordering clause gets the never-usable estimate.
// A metadata read failure is fatal: without the list count no estimate is
// possible. Estimation itself is pure arithmetic; identical inputs always
// produce identical estimates.
func (e *CostEstimator) Estimate(index string, loopCount float64, q QueryContext) (CostEstimate, error) {
	// Never use the index without a distance ordering.
	if !q.Ordered {
		return neverUsableEstimate(), nil
	}

	meta, err := e.meta.ReadMetadata(index)
	if err != nil {
		return CostEstimate{}, err
	}
	lists := meta.Lists

	probes := e.probes.Decide(q, lists)

	// The fraction of lists a scan visits bounds the fraction of index rows
	// it can touch.
	ratio := float64(probes) / float64(lists)
	if ratio > 1.0 {
		ratio = 1.0
	}

	indexTuples := q.IndexTuples * ratio

	baseline := e.generic.Estimate(q, loopCount, indexTuples)

	totalCost := baseline.TotalCost

	// Vector rows often spill into oversized-row (TOAST) storage that a pure
	// sequential scan's cost never sees, so the random-page baseline
	// overcharges concentrated scans.
	if baseline.Pages > q.RelPages && ratio < 0.5 {
		// Re-price every page from random to sequential.
		totalCost -= baseline.Pages * (q.PageCosts.Random - q.PageCosts.Seq)

		// And stop charging for pages beyond the relation's own extent.
		totalCost -= (baseline.Pages - q.RelPages) * q.PageCosts.Seq
	} else {
		// Re-price half the pages from random to sequential.
		totalCost -= 0.5 * baseline.Pages * (q.PageCosts.Random - q.PageCosts.Seq)
	}

	selectivity := baseline.Selectivity
	// The list-probe fraction is a tighter bound on rows returned than the
	// generic per-tuple model can know.
	if ratio < selectivity {
		selectivity = ratio
	}

	// Most of the work (probing, candidate collection) happens before the
	// first row comes back, so startup cost equals total cost.
	return CostEstimate{
		StartupCost: totalCost,
		TotalCost:   totalCost,
		Selectivity: selectivity,
		Correlation: baseline.Correlation,
		Pages:       baseline.Pages,
	}, nil
}
