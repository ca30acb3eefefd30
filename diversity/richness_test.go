package diversity

import (
	"context"
	"errors"
	"testing"

	"github.com/mikkohei13/biotools/grid"
)

func TestSpeciesCount(t *testing.T) {
	a := NewAnalyzer(nil)
	records := grid.AreaRecords{
		"67:34": {"A", "A", "B"},
		"67:35": {"A", "C"},
		"68:35": {},
	}
	got := a.SpeciesCount(records)
	want := ScoreMap{"67:34": 2, "67:35": 2, "68:35": 0}
	for cell, w := range want {
		if got[cell] != w {
			t.Errorf("cell %s = %v, want %v", cell, got[cell], w)
		}
	}
}

func TestSpeciesCountOrderAndMultiplicityIndependent(t *testing.T) {
	a := NewAnalyzer(nil)
	variants := [][]string{
		{"A", "B", "C"},
		{"C", "B", "A"},
		{"A", "A", "B", "B", "B", "C"},
	}
	for _, v := range variants {
		got := a.SpeciesCount(grid.AreaRecords{"67:34": v})
		if got["67:34"] != 3 {
			t.Errorf("list %v: richness = %v, want 3", v, got["67:34"])
		}
	}
}

func TestSpeciesCountEmptyGrid(t *testing.T) {
	a := NewAnalyzer(nil)
	got := a.SpeciesCount(grid.AreaRecords{})
	if len(got) != 0 {
		t.Errorf("expected empty score map, got %v", got)
	}
}

func TestEstimateDispatch(t *testing.T) {
	a := NewAnalyzer(nil)
	records := grid.AreaRecords{"67:34": {"A", "B"}}
	for _, method := range a.Methods() {
		if _, err := a.Estimate(context.Background(), method, records); err != nil {
			t.Errorf("Estimate(%q) error: %v", method, err)
		}
	}
	if _, err := a.Estimate(context.Background(), "shannon", records); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("error = %v, want ErrUnknownMethod", err)
	}
}
