package influxdb

import (
	"strconv"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"github.com/mikkohei13/biotools/diversity"
	"github.com/mikkohei13/biotools/params"
)

// Enabled reports whether the InfluxDB environment is configured.
func Enabled() bool {
	return params.INFLUXDB_URL != ""
}

// AnalysisPoint is one finished analysis run, flattened for export.
type AnalysisPoint struct {
	Dataset    string
	Method     string
	Resolution int

	Records int
	Elapsed time.Duration
	Summary diversity.Summary
}

// ExportAnalysis posts one analysis measurement to an InfluxDB Write
// API. The last error encountered is returned.
func ExportAnalysis(p AnalysisPoint) error {
	opts := influxdb2.DefaultOptions()
	opts.SetPrecision(time.Second)
	client := influxdb2.NewClientWithOptions(params.INFLUXDB_URL, params.INFLUXDB_TOKEN, opts)
	writeAPI := client.WriteAPI(params.INFLUXDB_ORG, params.INFLUXDB_BUCKET)

	// Errors returns a channel for reading errors which occurs during async writes.
	// Must be called before performing any writes for errors to be collected.
	// The chan is unbuffered and must be drained or the writer will block.
	// https://github.com/influxdata/influxdb-client-go?tab=readme-ov-file#reading-async-errors
	errorsCh := writeAPI.Errors()
	var err error
	wait := sync.WaitGroup{}
	wait.Add(1)
	go func() {
		defer wait.Done()
		for e := range errorsCh {
			if e != nil {
				err = e
			}
		}
	}()

	point := influxdb2.NewPointWithMeasurement("analysis").
		SetTime(time.Now()).
		AddTag("dataset", p.Dataset).
		AddTag("method", p.Method).
		AddTag("resolution_km", strconv.Itoa(p.Resolution)).
		AddField("records", p.Records).
		AddField("cells", p.Summary.Cells).
		AddField("elapsed_ms", p.Elapsed.Milliseconds()).
		AddField("score_mean", p.Summary.Mean).
		AddField("score_min", p.Summary.Min).
		AddField("score_max", p.Summary.Max).
		AddField("well_sampled", p.Summary.WellSampled).
		AddField("moderately_sampled", p.Summary.ModeratelySampled).
		AddField("poorly_sampled", p.Summary.PoorlySampled)
	writeAPI.WritePoint(point)

	writeAPI.Flush()
	client.Close()
	wait.Wait()
	return err
}
