/*
Package diversity turns per-cell species observations into comparable
numeric scores.

Four estimators are implemented:

  - speciescount: observed richness (distinct names per cell)
  - chao1: Chao1 inventory incompleteness (higher = worse sampled),
    with a completeness twin (higher = better sampled)
  - accumulation_curve: rarefaction-curve tail slope, the rate of
    new-species discovery per additional observation
  - rarepotential: rare-species discovery potential, scored from
    indicator-species co-occurrence across the whole grid

Every estimator is a total function: empty cells and empty grids yield
defined edge values, never errors.
*/
package diversity

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mikkohei13/biotools/grid"
	"github.com/mikkohei13/biotools/params"
)

// ScoreMap is one estimator's output: a real-valued score per cell.
type ScoreMap map[grid.CellKey]float64

var ErrUnknownMethod = errors.New("unknown method")

const (
	MethodSpeciesCount      = "speciescount"
	MethodChao1             = "chao1"
	MethodCompleteness      = "completeness"
	MethodAccumulationCurve = "accumulation_curve"
	MethodRarePotential     = "rarepotential"
)

// An Analyzer runs named estimators with one shared configuration.
type Analyzer struct {
	Config *params.DiversityConfig
}

func NewAnalyzer(config *params.DiversityConfig) *Analyzer {
	if config == nil {
		config = params.DefaultDiversityConfig()
	}
	return &Analyzer{Config: config}
}

// Methods lists the registered estimator names, sorted.
func (a *Analyzer) Methods() []string {
	names := []string{
		MethodSpeciesCount,
		MethodChao1,
		MethodCompleteness,
		MethodAccumulationCurve,
		MethodRarePotential,
	}
	sort.Strings(names)
	return names
}

// ValidMethod reports whether name names a registered estimator.
func (a *Analyzer) ValidMethod(name string) bool {
	for _, m := range a.Methods() {
		if m == name {
			return true
		}
	}
	return false
}

// Estimate dispatches to the named estimator.
// Unknown names fail fast, before any per-cell work.
func (a *Analyzer) Estimate(ctx context.Context, method string, records grid.AreaRecords) (ScoreMap, error) {
	switch method {
	case MethodSpeciesCount:
		return a.SpeciesCount(records), nil
	case MethodChao1:
		return a.Incompleteness(records), nil
	case MethodCompleteness:
		return a.Completeness(records), nil
	case MethodAccumulationCurve:
		return a.AccumulationSlope(ctx, records)
	case MethodRarePotential:
		return a.RarePotential(ctx, records)
	}
	return nil, fmt.Errorf("%w: %q (available: %s)",
		ErrUnknownMethod, method, strings.Join(a.Methods(), ", "))
}
