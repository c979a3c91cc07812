package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var logLevel string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "streamgen",
	Short: "Replay travel recommendation samples into the raw queue",
	Long: `streamgen reads a (gzipped) '^'-delimited recommendation sample and publishes it
to the raw input queue of the enrichment service, either line by line or as
searches already grouped into JSON.

Example Usage:
  streamgen replay --file travel_data_sample.csv.gz
  streamgen replay --file travel_data_sample.csv.gz --aggregate --realistic --loop`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and runs it
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}
