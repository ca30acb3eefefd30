package diversity

import "github.com/mikkohei13/biotools/grid"

// SpeciesCounts tallies occurrences per species within one cell.
type SpeciesCounts map[string]int

func CountSpecies(speciesList []string) SpeciesCounts {
	counts := make(SpeciesCounts, len(speciesList))
	for _, name := range speciesList {
		counts[name]++
	}
	return counts
}

// Richness is the number of distinct species in the list.
func Richness(speciesList []string) int {
	return len(CountSpecies(speciesList))
}

// SpeciesCount scores every cell by its observed richness.
// Ordering and duplicate multiplicity do not affect the result.
func (a *Analyzer) SpeciesCount(records grid.AreaRecords) ScoreMap {
	result := make(ScoreMap, len(records))
	for cell, speciesList := range records {
		result[cell] = float64(Richness(speciesList))
	}
	return result
}
