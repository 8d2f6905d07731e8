package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootLog zerolog.Logger

var rootCmd = &cobra.Command{
	Use:   "cohortsel",
	Short: "Clinical trial cohort selection over longitudinal patient records",
	Long: "Cohortsel evaluates the thirteen eligibility criteria of the cohort " +
		"selection task over a directory of patient record XML documents and " +
		"writes the labelled documents back in submission format.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI with the given logger.
func Execute(log zerolog.Logger) error {
	rootLog = log
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(versionCmd)
}
