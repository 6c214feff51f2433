package meridian

import (
	"math"
	"testing"
)

// TestBuildPhaseName tests the phase code to display name mapping.
func TestBuildPhaseName(t *testing.T) {
	tests := []struct {
		name  string
		phase BuildPhase
		want  string
	}{
		{"initializing", BuildPhaseInitializing, "initializing"},
		{"k-means", BuildPhaseKMeans, "performing k-means"},
		{"assign", BuildPhaseAssign, "assigning tuples"},
		{"load", BuildPhaseLoad, "loading tuples"},
		{"zero code", BuildPhase(0), ""},
		{"unknown code", BuildPhase(99), ""},
		{"negative code", BuildPhase(-1), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildPhaseName(tt.phase); got != tt.want {
				t.Errorf("BuildPhaseName(%d) = %q, want %q", tt.phase, got, tt.want)
			}
		})
	}
}

// TestIVFCapabilities tests the static capability descriptor.
func TestIVFCapabilities(t *testing.T) {
	est := estimatorForLists(100, DefaultConfig())
	caps := IVFCapabilities(est)

	if caps.Strategies != 0 {
		t.Errorf("Strategies = %d, want 0", caps.Strategies)
	}
	if caps.SupportProcs != 5 {
		t.Errorf("SupportProcs = %d, want 5", caps.SupportProcs)
	}
	if caps.CanOrderByColumn {
		t.Error("IVF must not claim column ordering")
	}
	if !caps.CanOrderByOperator {
		t.Error("IVF must order by operator")
	}
	if caps.CanBackwardScan || caps.CanUnique || caps.CanMultiColumn {
		t.Error("backward scan, uniqueness and multi-column must be off")
	}
	if !caps.OptionalScanKeys {
		t.Error("scan keys must be optional")
	}
	if caps.CanSearchArrays || caps.CanSearchNulls || caps.StoresExtraData {
		t.Error("array/null search and extra storage must be off")
	}
	if caps.Clusterable || caps.PredicateLocks || caps.CanParallelScan || caps.CanBitmapScan {
		t.Error("clustering, predicate locks, parallel scan and bitmap scan must be off")
	}
	if !caps.CanParallelBuild {
		t.Error("parallel build must be allowed")
	}
	if caps.CanReturnWithoutFetch {
		t.Error("IVF tuples require a heap fetch")
	}
	if caps.VacuumOptions&VacuumParallelBulkDelete == 0 {
		t.Error("parallel bulk-delete vacuum must be supported")
	}

	// The five planner-facing procedures must all be bound.
	if caps.Build == nil || caps.CostEstimate == nil || caps.Options == nil ||
		caps.Validate == nil || caps.BuildPhaseName == nil {
		t.Fatal("descriptor left a planner entry point unbound")
	}
	if caps.Insert == nil || caps.BulkDelete == nil || caps.VacuumCleanup == nil {
		t.Fatal("descriptor left a maintenance entry point unbound")
	}
}

// TestCapabilitiesBoundProcedures tests that calls through the descriptor
// reach the real implementations.
func TestCapabilitiesBoundProcedures(t *testing.T) {
	est := estimatorForLists(100, DefaultConfig())
	caps := IVFCapabilities(est)

	t.Run("options validates lists range", func(t *testing.T) {
		if err := caps.Options(DefaultLists); err != nil {
			t.Errorf("Options(%d) error: %v", DefaultLists, err)
		}
		if err := caps.Options(0); err == nil {
			t.Error("Options(0) expected error")
		}
	})

	t.Run("validate accepts operator class", func(t *testing.T) {
		if !caps.Validate("vector_l2_ops") {
			t.Error("Validate() = false, want true")
		}
	})

	t.Run("cost estimate rejects unordered query", func(t *testing.T) {
		got, err := caps.CostEstimate("idx", 1, QueryContext{Ordered: false})
		if err != nil {
			t.Fatalf("CostEstimate() error: %v", err)
		}
		if !math.IsInf(got.TotalCost, 1) {
			t.Errorf("TotalCost = %f, want +Inf", got.TotalCost)
		}
	})

	t.Run("build phase name matches package function", func(t *testing.T) {
		if got := caps.BuildPhaseName(BuildPhaseKMeans); got != "performing k-means" {
			t.Errorf("BuildPhaseName = %q, want %q", got, "performing k-means")
		}
	})

	t.Run("build, insert and bulk delete drive the index", func(t *testing.T) {
		idx, err := NewIVFIndex(2, 2, L2Squared)
		if err != nil {
			t.Fatalf("NewIVFIndex() error: %v", err)
		}
		vectors := []VectorNode{
			*NewVectorNode([]float32{0, 0}),
			*NewVectorNode([]float32{0, 1}),
			*NewVectorNode([]float32{10, 10}),
			*NewVectorNode([]float32{10, 11}),
		}
		if err := caps.Build(idx, vectors); err != nil {
			t.Fatalf("Build() error: %v", err)
		}
		if idx.Tuples() != 4 {
			t.Errorf("Tuples() = %d, want 4", idx.Tuples())
		}

		extra := NewVectorNode([]float32{5, 5})
		if err := caps.Insert(idx, *extra); err != nil {
			t.Fatalf("Insert() error: %v", err)
		}
		if idx.Tuples() != 5 {
			t.Errorf("Tuples() = %d, want 5", idx.Tuples())
		}

		if removed := caps.BulkDelete(idx, []uint32{extra.ID(), 9999999}); removed != 1 {
			t.Errorf("BulkDelete() = %d, want 1", removed)
		}
		if idx.Tuples() != 4 {
			t.Errorf("Tuples() = %d, want 4", idx.Tuples())
		}
		if left := caps.VacuumCleanup(idx); left != 4 {
			t.Errorf("VacuumCleanup() = %d, want 4", left)
		}
	})
}
