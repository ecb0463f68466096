package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go-contract-harvester/internal/config"
	"go-contract-harvester/internal/models"
	"go-contract-harvester/internal/scheduler"

	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run on the weekly calendar until interrupted",
	Long:  "Runs every board Monday 09:00 with a 72-hour window and Tuesday to Friday 09:00 with a 24-hour window.",
	RunE:  runSchedule,
}

var scheduleTZ string

func init() {
	scheduleCmd.Flags().StringVar(&scheduleTZ, "tz", "", "IANA time zone for the calendar (default: local)")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	closer, err := setupLogging(cfg.OutputDir)
	if err != nil {
		return err
	}
	defer closer.Close()

	var loc *time.Location
	if scheduleTZ != "" {
		if loc, err = time.LoadLocation(scheduleTZ); err != nil {
			return fmt.Errorf("invalid --tz: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sinks, cleanup := buildSinks(ctx, cfg)
	defer cleanup()

	jobs := scheduler.Jobs()
	s := scheduler.New(func(ctx context.Context, kind string, window time.Duration) {
		scrapers := buildScrapers(cfg, models.Platforms(), window)
		harvest(ctx, cfg, runPlan{Kind: kind, Window: window}, scrapers, sinks)
		log.Println(nextRunMessage(jobs, time.Now(), loc))
	}, jobs, loc)
	if err := s.Start(ctx); err != nil {
		return err
	}
	log.Println("⏳ Scheduled scraping started. Waiting for scheduled times...")
	log.Println(nextRunMessage(jobs, time.Now(), loc))

	<-ctx.Done()
	<-s.Stop().Done()
	log.Println("👋 Scheduler stopped.")
	return nil
}

// nextRunMessage names the next scheduled run in the calendar's time zone.
func nextRunMessage(jobs []scheduler.Job, from time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	job, at, err := scheduler.NextRun(jobs, from.In(loc))
	if err != nil {
		return fmt.Sprintf("⚠️ Could not compute next run: %v", err)
	}
	return fmt.Sprintf("📅 Next run: %s at %s (%d-hour window)", job.Name, at.Format("Mon 2006-01-02 15:04 MST"), int(job.Window.Hours()))
}
