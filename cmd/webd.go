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
	"log"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mikkohei13/biotools/common"
	"github.com/mikkohei13/biotools/daemon/webd"
	"github.com/mikkohei13/biotools/params"
)

var optHTTPAddr string

// webdCmd represents the serve command
var webdCmd = &cobra.Command{
	Use:   "webd",
	Short: "Start the webserver",
	Long: `Serves diversity analyses over HTTP.

Upload occurrence TSVs to POST /upload?dataset=<name>, run estimators
with POST /analyze, and subscribe to /sobio for websocket broadcasts
of finished analyses. Set BIOTOKEN to require an API token.
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		slog.Info("webd.Run")
		config := params.DefaultWebDaemonConfig()
		config.DataDir = optDatadir
		config.Address = optHTTPAddr

		server := webd.NewWebDaemon(config)
		go func() {
			if err := server.Run(); err != nil {
				log.Fatalln(err)
			}
		}()

		sig := <-common.Interrupted()
		slog.Info("webd interrupted", "signal", sig)
	},
}

func init() {
	rootCmd.AddCommand(webdCmd)

	defaults := params.DefaultWebDaemonConfig()

	pFlags := webdCmd.PersistentFlags()
	pFlags.AddFlagSet(&pflag.FlagSet{})
	pFlags.StringVar(&optHTTPAddr, "address", defaults.Address, "HTTP address to listen on")
}
