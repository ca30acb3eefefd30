package diversity

import (
	"github.com/montanaflynn/stats"
)

// Summary describes a score distribution for logging and metrics
// export. Sampling-status bands follow the completeness convention:
// well-sampled >= 0.9, moderate 0.5..0.9, poor < 0.5.
type Summary struct {
	Cells int     `json:"cells"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`

	WellSampled       int `json:"well_sampled"`
	ModeratelySampled int `json:"moderately_sampled"`
	PoorlySampled     int `json:"poorly_sampled"`
}

func Summarize(scores ScoreMap) Summary {
	s := Summary{Cells: len(scores)}
	if len(scores) == 0 {
		return s
	}
	values := make(stats.Float64Data, 0, len(scores))
	for _, v := range scores {
		values = append(values, v)
		switch {
		case v >= 0.9:
			s.WellSampled++
		case v >= 0.5:
			s.ModeratelySampled++
		default:
			s.PoorlySampled++
		}
	}
	s.Mean, _ = stats.Mean(values)
	s.Min, _ = stats.Min(values)
	s.Max, _ = stats.Max(values)
	return s
}
