package ykj

import "github.com/golang/geo/s2"

// CellIDWithLevel returns the cellID truncated to the given level.
// https://docs.s2cell.aliddell.com/en/stable/s2_concepts.html#truncation
func CellIDWithLevel(cellID s2.CellID, level int) s2.CellID {
	var lsb uint64 = 1 << (2 * (30 - uint64(level)))
	truncatedCellID := (uint64(cellID) & -lsb) | lsb
	return s2.CellID(truncatedCellID)
}

// S2Token returns the S2 cell token at the given level for a WGS84
// point. Tokens give web-map clients a stable spatial join key.
func S2Token(lat, lon float64, level int) string {
	leaf := s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lon))
	return CellIDWithLevel(leaf, level).ToToken()
}

// TokenLevelForResolutionKm picks an S2 level whose cells roughly match
// a grid tier's footprint. S2 level 13 is about a kilometer across,
// every three levels shrink edges eightfold.
func TokenLevelForResolutionKm(km int) int {
	switch {
	case km >= 100:
		return 7
	case km >= 50:
		return 8
	case km >= 10:
		return 10
	default:
		return 13
	}
}
