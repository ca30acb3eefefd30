package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mikkohei13/biotools/colors"
	"github.com/mikkohei13/biotools/common"
	"github.com/mikkohei13/biotools/conceptual"
	"github.com/mikkohei13/biotools/diversity"
	"github.com/mikkohei13/biotools/grid"
	"github.com/mikkohei13/biotools/loader"
	"github.com/mikkohei13/biotools/metrics/influxdb"
	"github.com/mikkohei13/biotools/params"
	"github.com/mikkohei13/biotools/render"
	"github.com/mikkohei13/biotools/store"
	"github.com/mikkohei13/biotools/stream"
	"github.com/mikkohei13/biotools/types/occurrence"
)

// Request names one analysis: which dataset, which estimator, at which
// grid tier. Its hash is the score-cache key, so two requests with the
// same fields resolve to the same cached scores.
type Request struct {
	Dataset    conceptual.DatasetID `json:"dataset"`
	Method     string               `json:"method"`
	Resolution grid.Resolution      `json:"resolution"`
}

func (r Request) Validate() error {
	if err := r.Resolution.Validate(); err != nil {
		return err
	}
	a := diversity.NewAnalyzer(nil)
	if !a.ValidMethod(r.Method) {
		return diversity.ErrUnknownMethod
	}
	return nil
}

// Result is one finished analysis.
type Result struct {
	Request Request                `json:"request"`
	Records int                    `json:"records"`
	Scores  diversity.ScoreMap     `json:"-"`
	Colored colors.ColoredScoreMap `json:"scores"`
	Summary diversity.Summary      `json:"summary"`
	Elapsed time.Duration          `json:"elapsed"`
	Cached  bool                   `json:"cached"`

	// Artifacts are paths of files written under results/<dataset>.
	Artifacts []string `json:"artifacts,omitempty"`
}

// Analyze scores a stream of occurrence records. Scientific names are
// whitespace-normalized before aggregation. The score cache is keyed
// on the request alone, so the stream is only consumed on a cache
// miss; pass Dedupe to collapse repeated records first (for
// presence-only methods).
func (d *Dataset) Analyze(ctx context.Context, req Request, in <-chan occurrence.Occurrence) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	started := time.Now()
	result := &Result{Request: req}

	backend, err := d.getOrInitStore()
	if err != nil {
		return nil, err
	}
	key, err := store.RequestKey(req)
	if err != nil {
		return nil, err
	}

	if cached, ok := backend.GetScores(key); ok {
		d.logger.Info("Scores cached", "method", req.Method,
			"resolution", req.Resolution, "cells", len(cached.Scores))
		result.Cached = true
		result.Scores = cached.Scores
		result.Records = cached.Records
		go stream.Drain(ctx, in)
	} else {
		records, err := grid.Aggregate(ctx, req.Resolution, Normalize(ctx, in))
		if err != nil {
			return nil, err
		}
		result.Records = records.Records()
		d.logger.Info("Aggregated occurrence records",
			"records", humanize.Comma(int64(result.Records)),
			"cells", len(records), "resolution", req.Resolution)

		scores, err := d.analyzer.Estimate(ctx, req.Method, records)
		if err != nil {
			return nil, err
		}
		result.Scores = scores
		if err := backend.PutScores(key, store.CachedScores{Scores: scores, Records: result.Records}); err != nil {
			d.logger.Error("Failed to cache scores", "error", err)
		}
	}

	result.Summary = diversity.Summarize(result.Scores)
	result.Colored = colors.Colorize(result.Scores)
	result.Elapsed = time.Since(started)

	d.logger.Info("Analysis done", "method", req.Method,
		"resolution", req.Resolution, "cells", result.Summary.Cells,
		"mean", common.DecimalToFixed(result.Summary.Mean, 4),
		"max", common.DecimalToFixed(result.Summary.Max, 4),
		"cached", result.Cached,
		"elapsed", result.Elapsed.Round(time.Millisecond))

	if influxdb.Enabled() {
		go func() {
			err := influxdb.ExportAnalysis(influxdb.AnalysisPoint{
				Dataset:    req.Dataset.String(),
				Method:     req.Method,
				Resolution: int(req.Resolution),
				Records:    result.Records,
				Elapsed:    result.Elapsed,
				Summary:    result.Summary,
			})
			if err != nil {
				d.logger.Error("Failed to export analysis metrics", "error", err)
			}
		}()
	}

	return result, nil
}

// AnalyzeFile runs Analyze over a TSV occurrence file on disk.
// Reader errors surface after the stream drains; a file that yields
// no valid records is not an error, only an empty score map.
func (d *Dataset) AnalyzeFile(ctx context.Context, path string, req Request) (*Result, error) {
	records, errs := loader.ReadOccurrencesFile(ctx, path)
	result, err := d.Analyze(ctx, req, records)
	if err != nil {
		return nil, err
	}
	if err := <-errs; err != nil {
		return nil, err
	}
	return result, nil
}

// Dedupe filters a record stream through a sliding-window LRU,
// admitting each distinct record once.
func Dedupe(ctx context.Context, in <-chan occurrence.Occurrence) <-chan occurrence.Occurrence {
	return stream.Filter(ctx, loader.NewDedupeLRUFunc(), in)
}

// Normalize rewrites each record with a whitespace-normalized
// scientific name.
func Normalize(ctx context.Context, in <-chan occurrence.Occurrence) <-chan occurrence.Occurrence {
	return stream.Transform(ctx, occurrence.Normalized, in)
}

// WriteArtifacts persists the colored score map and its GeoJSON
// rendering as gzipped files under results/<dataset>, and uploads them
// to S3 when a bucket is configured. Paths of written files are
// recorded on the result.
func (d *Dataset) WriteArtifacts(result *Result) error {
	flat := d.Flat()
	name := store.ArtifactName(d.ID, result.Request.Method, result.Request.Resolution, ".json")

	if err := d.writeArtifact(flat, name, result.Colored); err != nil {
		return err
	}
	result.Artifacts = append(result.Artifacts, name+".gz")

	fc, err := render.FeatureCollection(result.Colored, result.Request.Resolution)
	if err != nil {
		return err
	}
	geoName := store.ArtifactName(d.ID, result.Request.Method, result.Request.Resolution, ".geojson")
	if err := d.writeArtifact(flat, geoName, fc); err != nil {
		return err
	}
	result.Artifacts = append(result.Artifacts, geoName+".gz")

	if params.AWS_BUCKETNAME == "" {
		d.logger.Debug("AWS_BUCKETNAME not set, skipping S3 publish")
		return nil
	}
	for _, artifact := range result.Artifacts {
		if err := d.publishArtifact(flat, artifact); err != nil {
			d.logger.Error("Failed to publish artifact", "artifact", artifact, "error", err)
			return err
		}
	}
	return nil
}

func (d *Dataset) writeArtifact(flat *store.Flat, name string, v any) error {
	wr, err := flat.NamedGZWriter(name)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(wr)
	if err := enc.Encode(v); err != nil {
		wr.Close()
		return err
	}
	if err := wr.Close(); err != nil {
		return err
	}
	d.logger.Info("Wrote artifact", "path", wr.Path())
	return nil
}
