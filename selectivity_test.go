package meridian

import (
	"math"
	"testing"
)

// TestCombinedSelectivity tests the multiplicative combination rule.
func TestCombinedSelectivity(t *testing.T) {
	tests := []struct {
		name    string
		clauses []RestrictionClause
		want    float64
	}{
		{
			name:    "no clauses",
			clauses: nil,
			want:    1.0,
		},
		{
			name: "single clause",
			clauses: []RestrictionClause{
				KnownSelectivity(0.25),
			},
			want: 0.25,
		},
		{
			name: "two clauses multiply",
			clauses: []RestrictionClause{
				KnownSelectivity(0.5),
				KnownSelectivity(0.2),
			},
			want: 0.1,
		},
		{
			name: "unknown clause contributes factor of one",
			clauses: []RestrictionClause{
				KnownSelectivity(0.5),
				UnknownSelectivity(),
			},
			want: 0.5,
		},
		{
			name: "default inequality placeholder excluded",
			clauses: []RestrictionClause{
				KnownSelectivity(0.5),
				KnownSelectivity(DefaultInequalitySelectivity),
			},
			want: 0.5,
		},
		{
			name: "placeholder alone yields one",
			clauses: []RestrictionClause{
				KnownSelectivity(DefaultInequalitySelectivity),
			},
			want: 1.0,
		},
		{
			name: "near-placeholder value still counts",
			clauses: []RestrictionClause{
				KnownSelectivity(0.3333),
			},
			want: 0.3333,
		},
		{
			name: "negative selectivity excluded",
			clauses: []RestrictionClause{
				KnownSelectivity(-0.5),
				KnownSelectivity(0.4),
			},
			want: 0.4,
		},
		{
			name: "selectivity above one excluded",
			clauses: []RestrictionClause{
				KnownSelectivity(1.5),
				KnownSelectivity(0.4),
			},
			want: 0.4,
		},
		{
			name: "zero selectivity collapses the product",
			clauses: []RestrictionClause{
				KnownSelectivity(0),
				KnownSelectivity(0.4),
			},
			want: 0,
		},
		{
			name: "boundary values included",
			clauses: []RestrictionClause{
				KnownSelectivity(1.0),
				KnownSelectivity(0.7),
			},
			want: 0.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CombinedSelectivity(tt.clauses)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("CombinedSelectivity() = %f, want %f", got, tt.want)
			}
		})
	}
}

// TestRestrictionClause tests the clause accessors.
func TestRestrictionClause(t *testing.T) {
	if s, known := KnownSelectivity(0.3).Selectivity(); !known || s != 0.3 {
		t.Errorf("KnownSelectivity(0.3).Selectivity() = %f, %v; want 0.3, true", s, known)
	}
	if _, known := UnknownSelectivity().Selectivity(); known {
		t.Error("UnknownSelectivity().Selectivity() reported a known value")
	}

	// Zero value behaves like an unknown clause.
	var zero RestrictionClause
	if _, known := zero.Selectivity(); known {
		t.Error("zero RestrictionClause reported a known value")
	}
}

// TestFilterClause tests deriving a clause from a document filter.
func TestFilterClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    *DocumentFilter
		totalRows uint64
		want      float64
		wantKnown bool
	}{
		{
			name:      "nil filter yields unknown",
			filter:    nil,
			totalRows: 100,
			wantKnown: false,
		},
		{
			name:      "zero total rows yields unknown",
			filter:    NewDocumentFilter([]uint32{1, 2}),
			totalRows: 0,
			wantKnown: false,
		},
		{
			name:      "exact fraction from filter cardinality",
			filter:    NewDocumentFilter([]uint32{1, 2, 3, 4, 5}),
			totalRows: 100,
			want:      0.05,
			wantKnown: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := FilterClause(tt.filter, tt.totalRows)
			s, known := rc.Selectivity()
			if known != tt.wantKnown {
				t.Fatalf("Selectivity() known = %v, want %v", known, tt.wantKnown)
			}
			if known && math.Abs(s-tt.want) > 1e-12 {
				t.Errorf("Selectivity() = %f, want %f", s, tt.want)
			}
		})
	}
}
