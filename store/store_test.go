package store

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mikkohei13/biotools/diversity"
	"github.com/mikkohei13/biotools/grid"
)

func TestStoreRoundTrip(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	type request struct {
		Dataset    string
		Method     string
		Resolution int
	}
	key, err := RequestKey(request{"pentatomidae", "chao1", 100})
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := s.GetScores(key); ok {
		t.Fatal("unexpected cache hit on empty store")
	}

	scores := diversity.ScoreMap{"67:34": 0.15, "68:35": 0.08}
	if err := s.PutScores(key, CachedScores{Scores: scores, Records: 22}); err != nil {
		t.Fatal(err)
	}

	got, ok := s.GetScores(key)
	if !ok {
		t.Fatal("expected hit after put")
	}
	if got.Scores["67:34"] != 0.15 || got.Scores["68:35"] != 0.08 {
		t.Errorf("got %v, want %v", got.Scores, scores)
	}
	if got.Records != 22 {
		t.Errorf("records: got %d, want 22", got.Records)
	}

	// Same request hashes to the same key; a different one does not.
	again, _ := RequestKey(request{"pentatomidae", "chao1", 100})
	if again != key {
		t.Errorf("key not stable: %s vs %s", again, key)
	}
	other, _ := RequestKey(request{"pentatomidae", "chao1", 10})
	if other == key {
		t.Error("distinct requests share a key")
	}
}

func TestStoreDiskPersistence(t *testing.T) {
	dir := t.TempDir()
	key := "fixed-key"
	scores := diversity.ScoreMap{"67:34": 2}

	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.PutScores(key, CachedScores{Scores: scores, Records: 3}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: the LRU is cold, the value must come off disk.
	s2, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	got, ok := s2.GetScores(key)
	if !ok || got.Scores["67:34"] != 2 || got.Records != 3 {
		t.Errorf("disk read = %v, %v; want scores, true", got, ok)
	}
}

func TestFlatArtifacts(t *testing.T) {
	root := t.TempDir()
	flat := NewFlatWithRoot(root).ForDataset("HBF.113917-pentatomidae-suomi")

	name := ArtifactName("HBF.113917-pentatomidae-suomi", "speciescount", grid.Res100Km, ".json")
	if name != "HBF.113917-pentatomidae-suomi_speciescount_100km.json" {
		t.Errorf("ArtifactName = %s", name)
	}

	w, err := flat.NamedGZWriter(name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(`{"67:34":{"color":"#0000ff","value":2}}`)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	if !flat.Exists() {
		t.Error("flat dir should exist after write")
	}
	if !strings.HasSuffix(w.Path(), filepath.Join("results", "HBF.113917-pentatomidae-suomi", name+".gz")) {
		t.Errorf("unexpected artifact path %s", w.Path())
	}

	f, err := os.Open(w.Path())
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), `"#0000ff"`) {
		t.Errorf("artifact body = %s", body)
	}
}
