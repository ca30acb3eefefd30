package api

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mikkohei13/biotools/colors"
	"github.com/mikkohei13/biotools/common"
	"github.com/mikkohei13/biotools/diversity"
	"github.com/mikkohei13/biotools/grid"
	"github.com/mikkohei13/biotools/stream"
	"github.com/mikkohei13/biotools/testing/testdata"
	"github.com/mikkohei13/biotools/types/occurrence"
)

func TestRequestValidate(t *testing.T) {
	ok := Request{Dataset: "x", Method: diversity.MethodSpeciesCount, Resolution: grid.Res10Km}
	if err := ok.Validate(); err != nil {
		t.Fatal(err)
	}
	if err := (Request{Method: "bogus", Resolution: grid.Res10Km}).Validate(); err == nil {
		t.Error("want error for unknown method")
	}
	if err := (Request{Method: diversity.MethodChao1, Resolution: 42}).Validate(); err == nil {
		t.Error("want error for invalid resolution")
	}
}

func TestAnalyzeFile(t *testing.T) {
	defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()
	d := NewTestDataset(t, "pentatomidae")
	defer d.closeAndDestroy()

	req := Request{Dataset: d.ID, Method: diversity.MethodSpeciesCount, Resolution: grid.Res10Km}
	result, err := d.AnalyzeFile(context.Background(), testdata.Path(testdata.Source_Pentatomidae), req)
	if err != nil {
		t.Fatal(err)
	}
	if result.Cached {
		t.Error("first run must not be cached")
	}
	// 24 data rows, minus one with no name, minus one with a bad cell.
	if result.Records != 22 {
		t.Errorf("records: got %d, want 22", result.Records)
	}
	want := diversity.ScoreMap{
		"668:338": 5,
		"672:334": 3,
		"682:324": 3,
		"709:351": 3,
	}
	if len(result.Scores) != len(want) {
		t.Fatalf("cells: got %d, want %d (%v)", len(result.Scores), len(want), result.Scores)
	}
	for cell, score := range want {
		if got := result.Scores[cell]; got != score {
			t.Errorf("cell %s: got %v, want %v", cell, got, score)
		}
	}
	if result.Summary.Cells != 4 || result.Summary.Max != 5 {
		t.Errorf("summary: got %+v", result.Summary)
	}

	// Richest cell is red, the flat minimum cells blue.
	if got := result.Colored["668:338"].Color; got != "#ff0000" {
		t.Errorf("max cell color: got %s", got)
	}
	if got := result.Colored["672:334"].Color; got != "#0000ff" {
		t.Errorf("min cell color: got %s", got)
	}
}

func TestAnalyzeCacheHit(t *testing.T) {
	defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()
	d := NewTestDataset(t, "pentatomidae-cache")
	defer d.closeAndDestroy()

	ctx := context.Background()
	req := Request{Dataset: d.ID, Method: diversity.MethodChao1, Resolution: grid.Res10Km}

	first, err := d.AnalyzeFile(ctx, testdata.Path(testdata.Source_Pentatomidae), req)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Fatal("first run must not be cached")
	}

	second, err := d.AnalyzeFile(ctx, testdata.Path(testdata.Source_Pentatomidae), req)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Fatal("second run must hit the score cache")
	}
	if second.Records != first.Records {
		t.Errorf("cached records: got %d, want %d", second.Records, first.Records)
	}
	if len(second.Scores) != len(first.Scores) {
		t.Fatalf("cached cells: got %d, want %d", len(second.Scores), len(first.Scores))
	}
	for cell, score := range first.Scores {
		if second.Scores[cell] != score {
			t.Errorf("cell %s: cached %v, want %v", cell, second.Scores[cell], score)
		}
	}

	// A different tier misses the cache.
	req.Resolution = grid.Res100Km
	third, err := d.AnalyzeFile(ctx, testdata.Path(testdata.Source_Pentatomidae), req)
	if err != nil {
		t.Fatal(err)
	}
	if third.Cached {
		t.Error("different resolution must not share the cache entry")
	}
}

func TestNormalize(t *testing.T) {
	ctx := context.Background()
	in := stream.Slice(ctx, []occurrence.Occurrence{
		{CellKey: "6683:3385", ScientificName: "Aelia  acuminata"},
		{CellKey: "6683:3385", ScientificName: "Aelia acuminata"},
	})
	got := stream.Collect(ctx, Normalize(ctx, in))
	if len(got) != 2 {
		t.Fatalf("records: got %d, want 2", len(got))
	}
	for i, o := range got {
		if o.ScientificName != "Aelia acuminata" {
			t.Errorf("record %d name: got %q", i, o.ScientificName)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	defer common.SlogResetLevel(slog.Level(slog.LevelWarn + 1))()
	d := NewTestDataset(t, "pentatomidae-artifacts")
	defer d.closeAndDestroy()

	req := Request{Dataset: d.ID, Method: diversity.MethodSpeciesCount, Resolution: grid.Res10Km}
	result, err := d.AnalyzeFile(context.Background(), testdata.Path(testdata.Source_Pentatomidae), req)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.WriteArtifacts(result); err != nil {
		t.Fatal(err)
	}
	if len(result.Artifacts) != 2 {
		t.Fatalf("artifacts: got %v", result.Artifacts)
	}

	var colored colors.ColoredScoreMap
	readArtifactJSON(t, filepath.Join(d.Flat().Path(), result.Artifacts[0]), &colored)
	if len(colored) != len(result.Scores) {
		t.Errorf("colored cells: got %d, want %d", len(colored), len(result.Scores))
	}
	for cell, cv := range colored {
		if cv.Color == "" {
			t.Errorf("cell %s has no color", cell)
		}
	}

	var fc struct {
		Features []json.RawMessage `json:"features"`
	}
	readArtifactJSON(t, filepath.Join(d.Flat().Path(), result.Artifacts[1]), &fc)
	if len(fc.Features) != len(result.Scores) {
		t.Errorf("geojson features: got %d, want %d", len(fc.Features), len(result.Scores))
	}
}

func readArtifactJSON(t *testing.T, path string, v any) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gzr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	defer gzr.Close()
	if err := json.NewDecoder(gzr).Decode(v); err != nil {
		t.Fatal(err)
	}
}
