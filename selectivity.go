package meridian

// DefaultInequalitySelectivity is the planner's generic guess for an
// inequality predicate it has no statistics for. A restriction clause whose
// selectivity equals this value exactly is most likely a distance filter
// (e.g. "embedding <-> $1 < 5") that the planner could not see through, not
// a genuine column filter, so the combination rule skips it rather than let
// it corrupt the probe estimate.
const DefaultInequalitySelectivity = 0.3333333333333333

// RestrictionClause is one non-index filter condition attached to a scan,
// carrying the planner's selectivity estimate for it when one exists.
// Clauses without a genuine estimate contribute nothing to the combined
// selectivity.
type RestrictionClause struct {
	selectivity float64
	known       bool
}

// KnownSelectivity returns a clause with the given selectivity estimate.
func KnownSelectivity(s float64) RestrictionClause {
	return RestrictionClause{selectivity: s, known: true}
}

// UnknownSelectivity returns a clause with no usable selectivity estimate.
func UnknownSelectivity() RestrictionClause {
	return RestrictionClause{}
}

// FilterClause derives a clause from a document filter: the exact fraction
// of the relation's rows the filter admits. A nil filter admits everything
// and yields an unknown clause; totalRows of zero likewise, since no
// meaningful fraction exists.
func FilterClause(f *DocumentFilter, totalRows uint64) RestrictionClause {
	if f == nil || totalRows == 0 {
		return UnknownSelectivity()
	}
	return KnownSelectivity(float64(f.Count()) / float64(totalRows))
}

// Selectivity returns the clause's selectivity and whether one is known.
func (rc RestrictionClause) Selectivity() (float64, bool) {
	return rc.selectivity, rc.known
}

// CombinedSelectivity multiplies the selectivities of all clauses carrying a
// genuine estimate, starting from 1.0.
//
// A clause contributes to the product only if its selectivity lies in [0, 1]
// and is not exactly DefaultInequalitySelectivity; clauses matching that
// placeholder are skipped because they are heuristically likely to be a
// distance-ordering filter rather than a true column filter. Clauses with no
// informative selectivity contribute a factor of 1.
func CombinedSelectivity(clauses []RestrictionClause) float64 {
	selectivity := 1.0
	for _, rc := range clauses {
		s, known := rc.Selectivity()
		if !known {
			continue
		}
		if s < 0 || s > 1 || s == DefaultInequalitySelectivity {
			continue
		}
		selectivity *= s
	}
	return selectivity
}
