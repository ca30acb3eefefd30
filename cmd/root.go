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
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mikkohei13/biotools/params"
)

var cfgFile string
var optDatadir string
var optVerbosity int

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "biotools",
	Short: "Species diversity estimation over YKJ gridded occurrence data",
	Long: `Biotools scores gridded biodiversity occurrence records.

It reads Darwin Core TSV exports, aggregates occurrences into YKJ
(Finnish uniform grid) cells at 1, 10, 50, or 100 km, and estimates
per-cell species diversity: observed richness, Chao1 inventory
(in)completeness, accumulation-curve slope, and rare-species
discovery potential. Scores come back colored for choropleth maps.
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pFlags := rootCmd.PersistentFlags()
	pFlags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.biotools.yaml)")
	pFlags.StringVar(&optDatadir, "datadir", params.DefaultDatadirRoot, "data directory for the score cache and result artifacts")
	pFlags.IntVarP(&optVerbosity, "verbosity", "v", 0, "log level, slog values: -4=debug 0=info 4=warn 8=error")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".biotools" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".biotools")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("Using config file", "path", viper.ConfigFileUsed())
	}
}

// setDefaultSlog installs the default logger per the verbosity flag.
// Debug level gets source locations.
func setDefaultSlog(cmd *cobra.Command, args []string) {
	level := slog.Level(optVerbosity)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: level < slog.LevelInfo,
	})))
}
