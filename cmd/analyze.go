/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mikkohei13/biotools/api"
	"github.com/mikkohei13/biotools/conceptual"
	"github.com/mikkohei13/biotools/diversity"
	"github.com/mikkohei13/biotools/grid"
	"github.com/mikkohei13/biotools/loader"
	"github.com/mikkohei13/biotools/params"
)

var optInput string
var optDataset string
var optMethod string
var optResolution int
var optSeed int64
var optDedupe bool

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score one occurrence file with one estimator",
	Long: `Analyze reads a Darwin Core TSV export, aggregates occurrences
into YKJ grid cells at the requested resolution, scores each cell with
the requested estimator, and writes colored JSON and GeoJSON artifacts
under <datadir>/results/<dataset>/.

Scores are cached per (dataset, method, resolution); re-running the
same analysis serves from the cache. The summary is printed to stdout.

Methods:

  speciescount        observed richness (distinct species per cell)
  chao1               Chao1 inventory incompleteness (higher = worse sampled)
  completeness        Chao1 inventory completeness (higher = better sampled)
  accumulation_curve  rarefaction-curve tail slope
  rarepotential       rare-species discovery potential

Examples:

  biotools analyze --input data/pentatomidae/occurrences.tsv --method chao1 --resolution 10
  biotools analyze --input occ.tsv --method accumulation_curve --resolution 50 --seed 42
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		dataset := conceptual.DatasetID(optDataset)
		if dataset.Empty() {
			dataset = defaultDatasetID(optInput)
		}

		config := params.DefaultDiversityConfig()
		config.Seed = optSeed

		d := api.NewDataset(dataset, optDatadir, config)
		defer d.Close()

		req := api.Request{
			Dataset:    dataset,
			Method:     optMethod,
			Resolution: grid.Resolution(optResolution),
		}

		ctx := context.Background()
		var result *api.Result
		var err error
		if optDedupe {
			records, errs := loader.ReadOccurrencesFile(ctx, optInput)
			result, err = d.Analyze(ctx, req, api.Dedupe(ctx, records))
			if err == nil {
				err = <-errs
			}
		} else {
			result, err = d.AnalyzeFile(ctx, optInput, req)
		}
		if err != nil {
			log.Fatalln(err)
		}

		if err := d.WriteArtifacts(result); err != nil {
			log.Fatalln(err)
		}
		slog.Info("Wrote artifacts", "dir", d.Flat().Path())

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Summary); err != nil {
			log.Fatalln(err)
		}
	},
}

// defaultDatasetID derives a dataset name from the input path. Exports
// conventionally live in a directory per dataset
// (data/<dataset>/occurrences.tsv), so the parent directory names the
// dataset; a bare file falls back to its own basename.
func defaultDatasetID(input string) conceptual.DatasetID {
	parent := filepath.Base(filepath.Dir(input))
	if parent != "." && parent != string(filepath.Separator) && parent != "data" {
		return conceptual.DatasetID(parent)
	}
	base := filepath.Base(input)
	return conceptual.DatasetID(strings.TrimSuffix(base, filepath.Ext(base)))
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	flags := analyzeCmd.Flags()
	flags.StringVar(&optInput, "input", "", "occurrence TSV file to analyze")
	flags.StringVar(&optDataset, "dataset", "", "dataset name (default: input file basename)")
	flags.StringVar(&optMethod, "method", diversity.MethodSpeciesCount, "estimator method")
	flags.IntVar(&optResolution, "resolution", 10, "grid resolution in km: 1, 10, 50, or 100")
	flags.Int64Var(&optSeed, "seed", 0, "random seed for accumulation-curve shuffles (0 = time-derived)")
	flags.BoolVar(&optDedupe, "dedupe", false, "drop duplicate records (presence-only methods)")
	_ = analyzeCmd.MarkFlagRequired("input")
}
