package main

import (
	"fmt"
	"os"

	"go-contract-harvester/internal/config"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "harvester",
	Short:         "Contract job harvester",
	Long:          "Scrapes contract postings from LinkedIn, Monster and Dice, classifies them by vertical, state and duration, and writes a report.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Path to config.yaml")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
