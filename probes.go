package meridian

import "math"

// ProbeController decides how many inverted lists a scan should probe.
//
// In fixed mode the answer is the configured probe count, clamped to the
// index's list count. In streaming mode the controller additionally estimates
// how many lists a limited query must visit to produce its LIMIT worth of
// rows, and widens the probe count up to the configured ceiling.
//
// The controller holds only an immutable Config snapshot, so a single
// controller is safe to share across concurrent planning calls.
type ProbeController struct {
	cfg Config
}

// NewProbeController returns a controller for the given configuration
// snapshot.
func NewProbeController(cfg Config) ProbeController {
	return ProbeController{cfg: cfg}
}

// Decide returns the number of lists to probe for the given query against an
// index with the given list count. The result is always in [1, lists].
func (pc ProbeController) Decide(q QueryContext, lists int) int {
	probes := pc.cfg.Probes

	// The configured probe count is validated against the global range, but
	// this index may have fewer lists than the global maximum.
	if probes > lists {
		probes = lists
	}
	if probes < 1 {
		probes = 1
	}

	if pc.cfg.Streaming {
		if estimated := pc.estimateProbes(q, lists); estimated > probes {
			probes = estimated
		}
		if limit, bounded := pc.cfg.MaxProbes.Limit(); bounded && probes > limit {
			probes = limit
		}

		// The adaptive estimate is uncapped; the scan still cannot probe
		// more lists than exist.
		if probes > lists {
			probes = lists
		}
	}

	return probes
}

// estimateProbes estimates the probe count for a streaming scan: the number
// of lists that must be visited to expect the query's limit worth of rows,
// given how many rows per list survive the non-index filters.
//
// Returns 0 when the query has no usable limit, which leaves the fixed floor
// in charge. Returns lists when the per-list yield collapses to zero, since
// an unpredictable yield means the scan may have to visit everything.
func (pc ProbeController) estimateProbes(q QueryContext, lists int) int {
	limit, known := q.Limit.Tuples()
	if !known {
		return 0
	}

	selectivity := CombinedSelectivity(q.Clauses)

	tuplesPerList := q.IndexTuples * selectivity / float64(lists)
	if tuplesPerList == 0 {
		return lists
	}

	// Round up so a fractional per-list yield still visits enough lists.
	// No cap here; Decide applies the ceiling after taking the max with the
	// configured floor.
	return int(math.Ceil(limit / tuplesPerList))
}
