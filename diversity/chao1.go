package diversity

import (
	"github.com/mikkohei13/biotools/common"
	"github.com/mikkohei13/biotools/grid"
)

// Chao1Estimate is the bias-corrected Chao1 richness estimate
// (Colwell & Coddington, 1994):
//
//	S_est = S_obs + F1*(F1-1) / (2*(F2+1))
//
// where F1 and F2 are the singleton and doubleton counts. Unlike the
// naive F1²/(2*F2) form it is defined for F2 == 0, so no fallback
// branch is needed. S_est >= S_obs always.
func Chao1Estimate(counts SpeciesCounts) float64 {
	if len(counts) == 0 {
		return 0
	}
	sObs := len(counts)
	f1, f2 := 0, 0
	for _, n := range counts {
		switch n {
		case 1:
			f1++
		case 2:
			f2++
		}
	}
	return float64(sObs) + float64(f1*(f1-1))/(2.0*float64(f2+1))
}

// CellCompleteness is S_obs/S_est for one cell's species list, capped
// at the configured maximum. An empty list is maximally unsampled: 0.
func (a *Analyzer) CellCompleteness(speciesList []string) float64 {
	if len(speciesList) == 0 {
		return 0.0
	}
	counts := CountSpecies(speciesList)
	sEst := Chao1Estimate(counts)
	if sEst == 0 {
		return 0.0
	}
	completeness := float64(len(counts)) / sEst
	// Allow slight overestimation; the estimator is noisy.
	return common.Clamp(completeness, 0, a.Config.CompletenessCap)
}

// CellIncompleteness is the floor-clamped complement of completeness:
// the fraction of estimated richness not yet observed. Empty list = 1.
func (a *Analyzer) CellIncompleteness(speciesList []string) float64 {
	if len(speciesList) == 0 {
		return 1.0
	}
	return common.Clamp(1.0-a.CellCompleteness(speciesList), 0, 1)
}

// Incompleteness scores every cell by Chao1 incompleteness
// (higher = more species likely remain undiscovered).
func (a *Analyzer) Incompleteness(records grid.AreaRecords) ScoreMap {
	result := make(ScoreMap, len(records))
	for cell, speciesList := range records {
		result[cell] = a.CellIncompleteness(speciesList)
	}
	return result
}

// Completeness scores every cell by Chao1 completeness
// (higher = better sampled). Downstream color ramps read the two
// directions differently, so both are exposed as distinct methods.
func (a *Analyzer) Completeness(records grid.AreaRecords) ScoreMap {
	result := make(ScoreMap, len(records))
	for cell, speciesList := range records {
		result[cell] = a.CellCompleteness(speciesList)
	}
	return result
}
