package render

import (
	"encoding/json"
	"testing"

	"github.com/mikkohei13/biotools/colors"
	"github.com/mikkohei13/biotools/grid"
)

func TestCellPolygon(t *testing.T) {
	poly, err := CellPolygon("668:338", grid.Res10Km)
	if err != nil {
		t.Fatal(err)
	}
	if len(poly) != 1 {
		t.Fatalf("expected 1 ring, got %d", len(poly))
	}
	ring := poly[0]
	if len(ring) != 5 {
		t.Fatalf("expected closed 5-point ring, got %d points", len(ring))
	}
	if ring[0] != ring[len(ring)-1] {
		t.Error("ring not closed")
	}
	for i, pt := range ring {
		lon, lat := pt[0], pt[1]
		if lat < 59 || lat > 71 || lon < 18 || lon > 33 {
			t.Errorf("vertex %d (%v, %v) outside Finland", i, lat, lon)
		}
	}
	// NE corner is north and east of SW corner.
	sw, ne := ring[0], ring[2]
	if ne[1] <= sw[1] || ne[0] <= sw[0] {
		t.Errorf("NE %v not northeast of SW %v", ne, sw)
	}
}

func TestFeatureCollection(t *testing.T) {
	colored := colors.ColoredScoreMap{
		"67:34": {Color: "#0000ff", Value: 2},
		"67:35": {Color: "#ff0000", Value: 9},
		"bogus": {Color: "#000000", Value: 0},
	}
	fc, err := FeatureCollection(colored, grid.Res100Km)
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("expected 2 features (bogus key skipped), got %d", len(fc.Features))
	}
	for _, f := range fc.Features {
		if f.Properties["color"] == "" || f.Properties["cell"] == "" {
			t.Errorf("feature missing properties: %+v", f.Properties)
		}
		if f.Properties["s2_token"] == "" {
			t.Error("feature missing s2_token")
		}
	}
	if _, err := json.Marshal(fc); err != nil {
		t.Fatalf("FeatureCollection not serializable: %v", err)
	}
}

func TestFeatureCollectionInvalidResolution(t *testing.T) {
	if _, err := FeatureCollection(colors.ColoredScoreMap{}, grid.Resolution(3)); err == nil {
		t.Error("expected error for invalid resolution")
	}
}
