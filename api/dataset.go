package api

import (
	"log/slog"
	"sync"

	"github.com/mikkohei13/biotools/conceptual"
	"github.com/mikkohei13/biotools/diversity"
	"github.com/mikkohei13/biotools/params"
	"github.com/mikkohei13/biotools/store"
)

// Dataset is the API representation of one occurrence dataset.
// It does not hold the dataset's records; it names them. Record data
// comes from some context, like a CLI flag, an upload, or a batch
// config entry, and is streamed through the analysis on demand.
type Dataset struct {
	ID      conceptual.DatasetID
	DataDir string
	Config  *params.DiversityConfig

	logger   *slog.Logger
	analyzer *diversity.Analyzer

	backendOnce sync.Once
	backend     *store.Store
	backendErr  error
}

func NewDataset(id conceptual.DatasetID, dataDir string, config *params.DiversityConfig) *Dataset {
	if dataDir == "" {
		dataDir = params.DefaultDatadirRoot
	}
	return &Dataset{
		ID:       id,
		DataDir:  dataDir,
		Config:   config,
		logger:   slog.With("dataset", id),
		analyzer: diversity.NewAnalyzer(config),
	}
}

// getOrInitStore opens the score database lazily, once.
// Cache-miss analyses and cache lookups share the same handle.
func (d *Dataset) getOrInitStore() (*store.Store, error) {
	d.backendOnce.Do(func() {
		d.backend, d.backendErr = store.Open(d.DataDir)
	})
	return d.backend, d.backendErr
}

// Flat returns the flat artifact directory for this dataset,
// results/<dataset> under the data dir.
func (d *Dataset) Flat() *store.Flat {
	return store.NewFlatWithRoot(d.DataDir).ForDataset(d.ID)
}

func (d *Dataset) Close() error {
	if d.backend == nil {
		return nil
	}
	return d.backend.Close()
}
