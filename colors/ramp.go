// Package colors maps score distributions onto a perceptual
// blue→cyan→yellow→red hex ramp for choropleth rendering.
package colors

import (
	"fmt"

	"github.com/mikkohei13/biotools/diversity"
	"github.com/mikkohei13/biotools/grid"
)

// DefaultColor is used when the value range is degenerate (min == max).
const DefaultColor = "#0000ff"

// CellValue pairs a cell's color with its original score; the score is
// kept for legend labeling downstream.
type CellValue struct {
	Color string  `json:"color"`
	Value float64 `json:"value"`
}

// ColoredScoreMap is the final artifact handed to renderers and
// persistence; it serializes losslessly to a JSON object keyed by cell.
type ColoredScoreMap map[grid.CellKey]CellValue

// HexRamp normalizes value into [minVal, maxVal] and returns a
// "#rrggbb" color on a three-segment linear ramp:
// [0, 0.33) blue→cyan, [0.33, 0.67) cyan→yellow, [0.67, 1] yellow→red.
func HexRamp(value, minVal, maxVal float64) string {
	if maxVal == minVal {
		return DefaultColor
	}
	normalized := (value - minVal) / (maxVal - minVal)

	var r, g, b int
	switch {
	case normalized < 0.33:
		r = 0
		g = int(255 * (normalized / 0.33))
		b = 255
	case normalized < 0.67:
		r = int(255 * ((normalized - 0.33) / 0.34))
		g = 255
		b = int(255 * (1 - (normalized-0.33)/0.34))
	default:
		r = 255
		g = int(255 * (1 - (normalized-0.67)/0.33))
		b = 0
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Colorize maps every score onto the ramp scaled by the map's own
// min/max. A single-valued map renders entirely blue.
func Colorize(scores diversity.ScoreMap) ColoredScoreMap {
	if len(scores) == 0 {
		return ColoredScoreMap{}
	}
	minVal, maxVal := 0.0, 0.0
	first := true
	for _, v := range scores {
		if first {
			minVal, maxVal = v, v
			first = false
			continue
		}
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	result := make(ColoredScoreMap, len(scores))
	for cell, v := range scores {
		result[cell] = CellValue{
			Color: HexRamp(v, minVal, maxVal),
			Value: v,
		}
	}
	return result
}
