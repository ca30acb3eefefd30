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
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mikkohei13/biotools/api"
	"github.com/mikkohei13/biotools/conceptual"
	"github.com/mikkohei13/biotools/grid"
	"github.com/mikkohei13/biotools/params"
)

var optBatchFile string
var optBatchAll bool
var optBatchList bool

// batchEntry is one named analysis in the batch config file.
type batchEntry struct {
	Name       string `mapstructure:"name"`
	InputFile  string `mapstructure:"input_file"`
	Method     string `mapstructure:"method"`
	Resolution int    `mapstructure:"resolution_km"`
}

func (e batchEntry) request() api.Request {
	return api.Request{
		Dataset:    conceptual.DatasetID(e.Name),
		Method:     e.Method,
		Resolution: grid.Resolution(e.Resolution),
	}
}

func (e batchEntry) validate() error {
	if e.Name == "" {
		return fmt.Errorf("entry missing name")
	}
	if _, err := os.Stat(e.InputFile); err != nil {
		return fmt.Errorf("input file not found: %s", e.InputFile)
	}
	return e.request().Validate()
}

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [names...]",
	Short: "Run analyses from a YAML config file",
	Long: `Batch runs named analyses from a YAML config file.

The config file holds an 'analyses' list; each entry names an input
file, an estimator method, and a grid resolution:

  analyses:
    - name: pentatomidae-10km-chao1
      input_file: data/pentatomidae/occurrences.tsv
      method: chao1
      resolution_km: 10

Run specific entries by name, or everything with --all. Use --list to
see what the config file offers without running anything.
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		entries, err := loadBatchEntries(optBatchFile)
		if err != nil {
			log.Fatalln(err)
		}

		if optBatchList {
			fmt.Printf("Available configurations (%d):\n", len(entries))
			for _, e := range entries {
				status := "ok"
				if err := e.validate(); err != nil {
					status = err.Error()
				}
				fmt.Printf("  %s\t%s\t%s\t%dkm\t[%s]\n", e.Name, e.InputFile, e.Method, e.Resolution, status)
			}
			return
		}

		selected := entries
		if !optBatchAll {
			if len(args) == 0 {
				log.Fatalln("name at least one configuration, or pass --all")
			}
			selected, err = selectBatchEntries(entries, args)
			if err != nil {
				log.Fatalf("%v in %s", err, optBatchFile)
			}
		}

		ctx := context.Background()
		failed := 0
		for _, e := range selected {
			if err := e.validate(); err != nil {
				slog.Error("Skipping invalid configuration", "name", e.Name, "error", err)
				failed++
				continue
			}
			started := time.Now()
			d := api.NewDataset(conceptual.DatasetID(e.Name), optDatadir, params.DefaultDiversityConfig())
			result, err := d.AnalyzeFile(ctx, e.InputFile, e.request())
			if err == nil {
				err = d.WriteArtifacts(result)
			}
			d.Close()
			if err != nil {
				slog.Error("Batch entry failed", "name", e.Name, "error", err)
				failed++
				continue
			}
			slog.Info("Batch entry done", "name", e.Name, "cells", result.Summary.Cells,
				"elapsed", time.Since(started).Round(time.Millisecond))
		}
		if failed > 0 {
			log.Fatalf("%d of %d configurations failed", failed, len(selected))
		}
	},
}

// loadBatchEntries reads the 'analyses' list from a YAML config file,
// rejecting duplicate names.
func loadBatchEntries(path string) ([]batchEntry, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var entries []batchEntry
	if err := v.UnmarshalKey("analyses", &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("config file %s has no analyses", path)
	}
	seen := map[string]struct{}{}
	for _, e := range entries {
		if _, ok := seen[e.Name]; ok {
			return nil, fmt.Errorf("duplicate configuration name: %s", e.Name)
		}
		seen[e.Name] = struct{}{}
	}
	return entries, nil
}

// selectBatchEntries resolves names against the loaded entries,
// preserving the order the names were given in.
func selectBatchEntries(entries []batchEntry, names []string) ([]batchEntry, error) {
	selected := make([]batchEntry, 0, len(names))
	for _, name := range names {
		found := false
		for _, e := range entries {
			if e.Name == name {
				selected = append(selected, e)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("no configuration named %q", name)
		}
	}
	return selected, nil
}

func init() {
	rootCmd.AddCommand(batchCmd)

	flags := batchCmd.Flags()
	flags.StringVar(&optBatchFile, "file", "config/analyses.yaml", "batch config file")
	flags.BoolVar(&optBatchAll, "all", false, "run every configuration in the file")
	flags.BoolVar(&optBatchList, "list", false, "list configurations and exit")
}
