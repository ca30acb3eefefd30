package params

import "runtime"

type DiversityConfig struct {
	ChaoConfig
	AccumulationConfig
	RareSpeciesConfig
}

func DefaultDiversityConfig() *DiversityConfig {
	return &DiversityConfig{
		ChaoConfig:         DefaultChaoConfig,
		AccumulationConfig: DefaultAccumulationConfig(),
		RareSpeciesConfig:  DefaultRareSpeciesConfig,
	}
}

type ChaoConfig struct {
	// CompletenessCap tolerates estimator noise; the Chao1 estimate can
	// undershoot observed richness on odd count distributions.
	CompletenessCap float64
}

var DefaultChaoConfig = ChaoConfig{
	CompletenessCap: 1.5,
}

type AccumulationConfig struct {
	// Iterations is the number of random permutations averaged into the
	// rarefaction curve.
	Iterations int
	// TailWindow is the number of trailing observations the discovery-rate
	// slope is measured over. Curves shorter than TailWindow+1 points use
	// the whole curve.
	TailWindow int
	// Workers is the number of goroutines sharing the permutation trials.
	Workers int
	// Seed fixes the random source when nonzero. Zero means a
	// time-derived seed per run.
	Seed int64
}

func DefaultAccumulationConfig() AccumulationConfig {
	return AccumulationConfig{
		Iterations: 1000,
		TailWindow: 10,
		Workers:    runtime.NumCPU(),
	}
}

type RareSpeciesConfig struct {
	// RareThreshold is the maximum dataset-wide occurrence total for a
	// species to count as rare.
	RareThreshold int
}

var DefaultRareSpeciesConfig = RareSpeciesConfig{
	RareThreshold: 50,
}
