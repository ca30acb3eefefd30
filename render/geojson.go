// Package render turns colored score maps into GeoJSON for external
// choropleth renderers. Each cell becomes a square polygon placed from
// its southwest corner, with its tier footprint (100/50/10/1 km edges).
package render

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/mikkohei13/biotools/colors"
	"github.com/mikkohei13/biotools/grid"
	"github.com/mikkohei13/biotools/ykj"
)

// CellPolygon builds the WGS84 square for one cell at the given tier.
func CellPolygon(cell grid.CellKey, res grid.Resolution) (orb.Polygon, error) {
	northing, easting, err := grid.OriginMeters(cell, res)
	if err != nil {
		return nil, err
	}
	n := float64(northing)
	e := float64(easting)
	size := float64(res.SizeMeters())

	corners := [][2]float64{
		{n, e},               // SW
		{n, e + size},        // SE
		{n + size, e + size}, // NE
		{n + size, e},        // NW
	}
	ring := make(orb.Ring, 0, len(corners)+1)
	for _, c := range corners {
		lat, lon := ykj.ToWGS84(c[0], c[1])
		ring = append(ring, orb.Point{lon, lat})
	}
	// Close the ring.
	ring = append(ring, ring[0])
	return orb.Polygon{ring}, nil
}

// FeatureCollection renders the whole colored map. Cells whose key does
// not parse are skipped; the aggregator already dropped malformed input,
// so this only guards against hand-built maps.
func FeatureCollection(colored colors.ColoredScoreMap, res grid.Resolution) (*geojson.FeatureCollection, error) {
	if err := res.Validate(); err != nil {
		return nil, err
	}
	s2Level := ykj.TokenLevelForResolutionKm(int(res))

	fc := geojson.NewFeatureCollection()
	for cell, cv := range colored {
		poly, err := CellPolygon(cell, res)
		if err != nil {
			continue
		}
		f := geojson.NewFeature(poly)
		f.Properties["cell"] = cell.String()
		f.Properties["color"] = cv.Color
		f.Properties["value"] = cv.Value

		northing, easting, _ := grid.OriginMeters(cell, res)
		half := float64(res.SizeMeters()) / 2
		lat, lon := ykj.ToWGS84(float64(northing)+half, float64(easting)+half)
		f.Properties["s2_token"] = ykj.S2Token(lat, lon, s2Level)

		fc.Append(f)
	}
	return fc, nil
}
