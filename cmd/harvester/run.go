package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go-contract-harvester/internal/config"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one harvesting pass now",
	Long:  "Scrapes the selected boards once, writes the report and notifies the configured sinks.",
	RunE:  runHarvest,
}

var (
	runPlatform string
	runWindow   time.Duration
	runKind     string
	runTimeout  time.Duration
)

func init() {
	runCmd.Flags().StringVarP(&runPlatform, "platform", "p", platformAll, "Board to scrape: all, linkedin, monster or dice")
	runCmd.Flags().DurationVar(&runWindow, "window", 24*time.Hour, "How far back LinkedIn searches")
	runCmd.Flags().StringVar(&runKind, "kind", "manual", "Run label used in report names")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 2*time.Hour, "Stop starting new terms after this long")

	rootCmd.AddCommand(runCmd)
}

func runHarvest(_ *cobra.Command, _ []string) error {
	platforms, err := selectPlatforms(runPlatform)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	closer, err := setupLogging(cfg.OutputDir)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	sinks, cleanup := buildSinks(ctx, cfg)
	defer cleanup()

	log.Printf("▶️ Manual scraping for platform: %s", runPlatform)
	scrapers := buildScrapers(cfg, platforms, runWindow)
	harvest(ctx, cfg, runPlan{Kind: runKind, Window: runWindow}, scrapers, sinks)
	return nil
}
