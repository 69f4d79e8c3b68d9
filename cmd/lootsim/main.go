// Package main is the entry point for the loot simulation and dataset
// validation CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lootsim",
	Short: "Loot dataset validation and batch roll simulation",
	Long: `lootsim validates authored loot datasets and runs batch roll
simulations against them for drop-rate balance review.`,
}

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/lootsim.yaml", "path to configuration file")
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runCmd)
}
