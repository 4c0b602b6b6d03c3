package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "gridinfo",
	Short: "Build computational grids from YAML and inspect them",
	Long: `gridinfo constructs a grid from a YAML parameter file and reports
its element counts, boundary condition summary, and geometry totals.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

// Execute runs the root command and exits nonzero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}
