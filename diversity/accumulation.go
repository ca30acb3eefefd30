package diversity

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/mikkohei13/biotools/grid"
)

// BuildAccumulationCurve builds a rarefaction curve for one cell:
// the species list is shuffled uniformly at random, the running count
// of distinct species is recorded at each position, and the per-trial
// curves are averaged pointwise across Iterations trials.
//
// Trials are independent and are shared across Workers goroutines, each
// owning its own rand source. The context cancels remaining trials;
// a canceled build averages only the trials completed so far.
func (a *Analyzer) BuildAccumulationCurve(ctx context.Context, speciesList []string) []float64 {
	if len(speciesList) == 0 {
		return nil
	}
	conf := a.Config.AccumulationConfig
	iterations := conf.Iterations
	if iterations < 1 {
		iterations = 1
	}
	workers := conf.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > iterations {
		workers = iterations
	}
	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	n := len(speciesList)
	sums := make([][]int64, workers)
	completed := make([]int64, workers)

	wg := sync.WaitGroup{}
	for w := 0; w < workers; w++ {
		trials := iterations / workers
		if w < iterations%workers {
			trials++
		}
		wg.Add(1)
		go func(w, trials int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed + int64(w)))
			shuffled := make([]string, n)
			copy(shuffled, speciesList)
			sum := make([]int64, n)
			seen := make(map[string]struct{}, n)
			done := int64(0)
			for t := 0; t < trials; t++ {
				select {
				case <-ctx.Done():
					sums[w], completed[w] = sum, done
					return
				default:
				}
				rng.Shuffle(n, func(i, j int) {
					shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
				})
				clear(seen)
				distinct := int64(0)
				for i, species := range shuffled {
					if _, ok := seen[species]; !ok {
						seen[species] = struct{}{}
						distinct++
					}
					sum[i] += distinct
				}
				done++
			}
			sums[w], completed[w] = sum, done
		}(w, trials)
	}
	wg.Wait()

	total := int64(0)
	for _, c := range completed {
		total += c
	}
	if total == 0 {
		return nil
	}
	curve := make([]float64, n)
	for i := range curve {
		acc := int64(0)
		for _, sum := range sums {
			if sum != nil {
				acc += sum[i]
			}
		}
		curve[i] = float64(acc) / float64(total)
	}
	return curve
}

// CurveSlope measures the discovery rate at the curve tail: the rise
// over the last TailWindow observations. Curves shorter than
// TailWindow+1 points fall back to the slope over the whole curve, and
// a single point has no slope. A flat tail marks a well-sampled cell.
func (a *Analyzer) CurveSlope(curve []float64) float64 {
	n := len(curve)
	if n < 2 {
		return 0.0
	}
	window := a.Config.TailWindow
	if window < 1 {
		window = 1
	}
	last := curve[n-1]
	if n < window+1 {
		return (last - curve[0]) / float64(n-1)
	}
	return (last - curve[n-1-window]) / float64(window)
}

// AccumulationSlope scores every cell by its rarefaction-curve tail
// slope. The estimator is stochastic unless the configured Seed is
// fixed; results converge with iteration count.
func (a *Analyzer) AccumulationSlope(ctx context.Context, records grid.AreaRecords) (ScoreMap, error) {
	result := make(ScoreMap, len(records))
	for cell, speciesList := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		curve := a.BuildAccumulationCurve(ctx, speciesList)
		result[cell] = a.CurveSlope(curve)
	}
	return result, nil
}
