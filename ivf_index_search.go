package meridian

import (
	"fmt"
	"sort"
)

// VectorResult is one search hit: the matching node and its distance to the
// query (lower is closer).
type VectorResult struct {
	Node  VectorNode
	Score float32
}

// IVFSearch is a builder for one search against an IVF index.
//
// Probe behavior: an explicit WithProbes value wins. Otherwise the probe
// count comes from a ProbeController over the search's Config — fixed probes
// by default, adaptive when Config.Streaming is set. A streaming search
// additionally widens the probed list set at execution time, one list at a
// time, until k results are collected or the ceiling (MaxProbes, then the
// list count) is reached.
type IVFSearch struct {
	index  *IVFIndex
	query  []float32
	k      int
	probes int
	cfg    Config
	filter *DocumentFilter
}

// NewSearch creates a search builder with defaults: k=10, the default
// configuration, probes decided by the controller.
func (idx *IVFIndex) NewSearch() *IVFSearch {
	return &IVFSearch{
		index: idx,
		k:     10,
		cfg:   DefaultConfig(),
	}
}

// WithQuery sets the query vector.
func (s *IVFSearch) WithQuery(query []float32) *IVFSearch {
	s.query = query
	return s
}

// WithK sets the number of results to return.
func (s *IVFSearch) WithK(k int) *IVFSearch {
	s.k = k
	return s
}

// WithProbes fixes the number of lists to probe, bypassing the probe
// controller. Values outside [1, lists] fall back to controller-decided
// probes.
func (s *IVFSearch) WithProbes(probes int) *IVFSearch {
	s.probes = probes
	return s
}

// WithConfig sets the probe configuration snapshot for this search.
func (s *IVFSearch) WithConfig(cfg Config) *IVFSearch {
	s.cfg = cfg
	return s
}

// WithFilter restricts results to rows admitted by the filter.
func (s *IVFSearch) WithFilter(filter *DocumentFilter) *IVFSearch {
	s.filter = filter
	return s
}

// Execute runs the search and returns up to k results sorted by distance.
func (s *IVFSearch) Execute() ([]VectorResult, error) {
	if s.query == nil {
		return nil, fmt.Errorf("must specify a query vector")
	}

	idx := s.index
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if !idx.trained {
		return nil, fmt.Errorf("index must be trained before searching")
	}
	if len(s.query) != idx.dim {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d",
			idx.dim, len(s.query))
	}

	query, err := idx.distance.Preprocess(s.query)
	if err != nil {
		return nil, err
	}

	// Rank every list by centroid distance once; probing then just walks
	// this order, which is what lets a streaming search widen cheaply.
	order := s.rankLists(query)

	probes := s.initialProbes()
	maxProbes := s.probeBound()

	// Collect candidates from the first probes lists, widening one list at a
	// time in streaming mode until k candidates exist or the bound is hit.
	results := make([]VectorResult, 0)
	visited := 0
	for visited < probes {
		results = s.scanList(query, order[visited], results)
		visited++

		if visited == probes && s.cfg.Streaming && len(results) < s.k && probes < maxProbes {
			probes++
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score < results[j].Score
	})

	if s.k > 0 && len(results) > s.k {
		results = results[:s.k]
	}
	return results, nil
}

// rankLists returns the list indexes sorted by centroid distance to the
// query, nearest first.
func (s *IVFSearch) rankLists(query []float32) []int {
	idx := s.index

	type centroidDist struct {
		list     int
		distance float32
	}
	distances := make([]centroidDist, len(idx.centroids))
	for i, centroid := range idx.centroids {
		distances[i] = centroidDist{list: i, distance: idx.distance.Calculate(query, centroid)}
	}
	sort.Slice(distances, func(i, j int) bool {
		return distances[i].distance < distances[j].distance
	})

	order := make([]int, len(distances))
	for i, d := range distances {
		order[i] = d.list
	}
	return order
}

// initialProbes resolves the starting probe count: the explicit override if
// valid, otherwise the controller's decision for a k-limited query.
func (s *IVFSearch) initialProbes() int {
	idx := s.index

	if s.probes > 0 && s.probes <= idx.nlist {
		return s.probes
	}

	q := QueryContext{
		Ordered:     true,
		Limit:       LimitOf(float64(s.k)),
		Clauses:     []RestrictionClause{FilterClause(s.filter, idx.tuples)},
		IndexTuples: float64(idx.tuples),
	}
	return NewProbeController(s.cfg).Decide(q, idx.nlist)
}

// probeBound is how far a streaming search may widen: MaxProbes when
// bounded, otherwise every list.
func (s *IVFSearch) probeBound() int {
	bound := s.index.nlist
	if limit, bounded := s.cfg.MaxProbes.Limit(); bounded && limit < bound {
		bound = limit
	}
	return bound
}

// scanList appends the eligible vectors of one inverted list to results.
func (s *IVFSearch) scanList(query []float32, list int, results []VectorResult) []VectorResult {
	idx := s.index
	for _, v := range idx.invlists[list] {
		if s.filter.ShouldSkip(v.ID()) {
			continue
		}
		results = append(results, VectorResult{
			Node:  v,
			Score: idx.distance.Calculate(query, v.Vector()),
		})
	}
	return results
}
