package diversity

import (
	"context"

	"github.com/mikkohei13/biotools/grid"
)

// RarePotential scores every cell's potential to host undiscovered
// populations of rare species. It works over the whole grid at once:
//
// A species is rare when its dataset-wide occurrence total is at or
// below the configured threshold. For each rare species, its indicator
// species are the common species sharing at least one cell with it,
// weighted by the number of shared cells. A cell then scores high when
// it lacks a rare species but carries that species' indicators, and is
// itself poorly sampled (1 + Chao1 incompleteness factor).
// Scores are normalized by the maximum into [0, 1].
//
// A grid with no rare species, or no rare/common co-occurrence at all,
// scores zero everywhere.
func (a *Analyzer) RarePotential(ctx context.Context, records grid.AreaRecords) (ScoreMap, error) {
	result := make(ScoreMap, len(records))
	for cell := range records {
		result[cell] = 0.0
	}

	totals := map[string]int{}
	for _, speciesList := range records {
		for _, name := range speciesList {
			totals[name]++
		}
	}
	threshold := a.Config.RareThreshold
	rare := map[string]bool{}
	for name, total := range totals {
		if total <= threshold {
			rare[name] = true
		}
	}
	if len(rare) == 0 {
		return result, nil
	}

	// Presence sets per cell, split rare/common.
	presence := make(map[grid.CellKey]map[string]bool, len(records))
	for cell, speciesList := range records {
		set := make(map[string]bool, len(speciesList))
		for _, name := range speciesList {
			set[name] = true
		}
		presence[cell] = set
	}

	// indicators[rare][common] = co-occurrence cell count.
	indicators := make(map[string]map[string]int, len(rare))
	for _, set := range presence {
		for name := range set {
			if !rare[name] {
				continue
			}
			for other := range set {
				if rare[other] {
					continue
				}
				m := indicators[name]
				if m == nil {
					m = map[string]int{}
					indicators[name] = m
				}
				m[other]++
			}
		}
	}
	if len(indicators) == 0 {
		return result, nil
	}

	maxScore := 0.0
	for cell, set := range presence {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		acc := 0.0
		considered := 0
		for rareName, weights := range indicators {
			if set[rareName] {
				continue
			}
			considered++
			for indicator, weight := range weights {
				if set[indicator] {
					acc += float64(weight)
				}
			}
		}
		if considered == 0 {
			continue
		}
		score := acc / float64(considered)
		score *= 1 + a.CellIncompleteness(records[cell])
		result[cell] = score
		if score > maxScore {
			maxScore = score
		}
	}

	if maxScore > 0 {
		for cell := range result {
			result[cell] /= maxScore
		}
	}
	return result, nil
}
