package diversity

import (
	"math"
	"strconv"
	"testing"

	"github.com/mikkohei13/biotools/grid"
)

// repeat builds a species list with the given per-species counts,
// e.g. repeat(1, 1, 2) = [s0, s1, s2, s2].
func repeat(counts ...int) []string {
	list := []string{}
	for i, n := range counts {
		name := "s" + strconv.Itoa(i)
		for j := 0; j < n; j++ {
			list = append(list, name)
		}
	}
	return list
}

func TestChao1Estimate(t *testing.T) {
	cases := []struct {
		name   string
		counts []int
		want   float64
	}{
		// S_obs + F1*(F1-1)/(2*(F2+1))
		{"no singletons equals observed", []int{3, 4, 5}, 3},
		{"one singleton adds nothing", []int{1, 3}, 2},
		{"two singletons no doubletons", []int{1, 1, 3}, 3 + 2.0/2.0},
		{"singletons and doubletons", []int{1, 1, 1, 2, 2, 5}, 6 + 6.0/6.0},
		{"all singletons", []int{1, 1, 1, 1}, 4 + 12.0/2.0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Chao1Estimate(CountSpecies(repeat(c.counts...)))
			if math.Abs(got-c.want) > 1e-12 {
				t.Errorf("Chao1Estimate(%v) = %v, want %v", c.counts, got, c.want)
			}
		})
	}
	if got := Chao1Estimate(SpeciesCounts{}); got != 0 {
		t.Errorf("empty counts = %v, want 0", got)
	}
}

func TestChao1EstimateNeverBelowObserved(t *testing.T) {
	distributions := [][]int{
		{1}, {2}, {1, 1}, {1, 2}, {2, 2}, {1, 1, 1, 2, 3, 10}, {5, 5, 5},
	}
	for _, d := range distributions {
		counts := CountSpecies(repeat(d...))
		sObs := float64(len(counts))
		sEst := Chao1Estimate(counts)
		if sEst < sObs {
			t.Errorf("distribution %v: S_est %v < S_obs %v", d, sEst, sObs)
		}
	}
}

func TestCompletenessIncompletenessComplement(t *testing.T) {
	a := NewAnalyzer(nil)
	lists := [][]string{
		repeat(3, 4, 5),
		repeat(1, 1, 2, 3),
		repeat(1, 1, 1, 1),
		repeat(2),
	}
	for _, list := range lists {
		c := a.CellCompleteness(list)
		i := a.CellIncompleteness(list)
		if c <= 1.0 {
			if math.Abs(c+i-1.0) > 1e-12 {
				t.Errorf("list %v: completeness %v + incompleteness %v != 1", list, c, i)
			}
		} else {
			// Incompleteness is floor-clamped at zero when the capped
			// completeness exceeds 1.
			if i != 0 {
				t.Errorf("list %v: completeness %v > 1 but incompleteness %v != 0", list, c, i)
			}
		}
	}
}

func TestCompletenessCap(t *testing.T) {
	a := NewAnalyzer(nil)
	for _, list := range [][]string{repeat(3, 3), repeat(5), repeat(2, 2, 2)} {
		if c := a.CellCompleteness(list); c > a.Config.CompletenessCap {
			t.Errorf("completeness %v exceeds cap %v", c, a.Config.CompletenessCap)
		}
	}
}

func TestChao1EdgeValues(t *testing.T) {
	a := NewAnalyzer(nil)
	if got := a.CellIncompleteness(nil); got != 1.0 {
		t.Errorf("empty list incompleteness = %v, want 1.0", got)
	}
	if got := a.CellCompleteness(nil); got != 0.0 {
		t.Errorf("empty list completeness = %v, want 0.0", got)
	}
}

func TestIncompletenessMap(t *testing.T) {
	a := NewAnalyzer(nil)
	records := grid.AreaRecords{
		"67:34": repeat(3, 4),    // no singletons: complete
		"67:35": repeat(1, 1, 1), // all singletons: incomplete
		"68:35": {},
	}
	got := a.Incompleteness(records)
	if got["67:34"] != 0 {
		t.Errorf("cell without singletons: incompleteness = %v, want 0", got["67:34"])
	}
	if got["67:35"] <= 0 {
		t.Errorf("all-singleton cell: incompleteness = %v, want > 0", got["67:35"])
	}
	if got["68:35"] != 1 {
		t.Errorf("empty cell: incompleteness = %v, want 1", got["68:35"])
	}
}
