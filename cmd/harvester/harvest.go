package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"go-contract-harvester/internal/aggregator"
	"go-contract-harvester/internal/config"
	"go-contract-harvester/internal/database"
	"go-contract-harvester/internal/fetch"
	"go-contract-harvester/internal/models"
	"go-contract-harvester/internal/pipeline"
	"go-contract-harvester/internal/report"
	"go-contract-harvester/internal/reporter"
	"go-contract-harvester/internal/scraper"
	"go-contract-harvester/internal/scraper/dice"
	"go-contract-harvester/internal/scraper/linkedin"
	"go-contract-harvester/internal/scraper/monster"
	"go-contract-harvester/utils"
)

const platformAll = "all"

// monsterRate caps plain-HTTP requests to one every two seconds per host.
const monsterRate = 0.5

// selectPlatforms resolves a --platform value to boards in registration order.
func selectPlatforms(name string) ([]models.Platform, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == platformAll {
		return models.Platforms(), nil
	}
	for _, p := range models.Platforms() {
		if strings.ToLower(string(p)) == name {
			return []models.Platform{p}, nil
		}
	}
	return nil, fmt.Errorf("unknown platform %q (want all, linkedin, monster or dice)", name)
}

// buildScrapers creates one adapter per selected board.
func buildScrapers(cfg *config.Config, platforms []models.Platform, window time.Duration) []scraper.Scraper {
	shots := utils.NewScreenShotDebugger(filepath.Join(cfg.OutputDir, "screenshots"))
	var out []scraper.Scraper
	for _, p := range platforms {
		switch p {
		case models.PlatformLinkedIn:
			out = append(out, linkedin.NewLinkedInScraper(cfg.LinkedIn, linkedin.WithWindow(window), linkedin.WithScreenshots(shots)))
		case models.PlatformMonster:
			out = append(out, monster.NewMonsterScraper(cfg.Monster, monster.WithLimiter(fetch.NewHostLimiter(monsterRate, 1))))
		case models.PlatformDice:
			out = append(out, dice.NewDiceScraper(cfg.Dice, dice.WithScreenshots(shots)))
		}
	}
	return out
}

// buildSinks returns the enabled report sinks and a cleanup for them. Optional
// sinks that cannot start are logged and left out.
func buildSinks(ctx context.Context, cfg *config.Config) ([]report.Sink, func()) {
	sinks := []report.Sink{report.NewFileSink(cfg.OutputDir)}
	cleanup := func() {}

	if cfg.TelegramEnabled() {
		tr, err := reporter.NewTelegramReporter(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Telegram disabled: %v", err)
		} else {
			log.Println("🤖 Telegram Bot initialized.")
			sinks = append(sinks, tr)
		}
	}

	if cfg.DatabaseURL != "" {
		repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("⚠️ Postgres disabled: %v", err)
		} else if err := repo.EnsureSchema(ctx); err != nil {
			log.Printf("⚠️ Postgres disabled: %v", err)
			repo.Close()
		} else {
			log.Println("🗄️ Postgres persistence enabled.")
			sinks = append(sinks, repo)
			cleanup = repo.Close
		}
	}
	return sinks, cleanup
}

// runPlan describes one harvesting pass.
type runPlan struct {
	Kind   string
	Window time.Duration
}

// harvest runs the adapters, normalizes the result and hands the report to
// every sink. It never fails; sink errors are logged.
func harvest(ctx context.Context, cfg *config.Config, plan runPlan, scrapers []scraper.Scraper, sinks []report.Sink) *report.Report {
	started := time.Now()
	terms := cfg.Verticals.SearchTerms()
	log.Printf("🚀 Starting %s run: %d search terms, %d boards, location %q", plan.Kind, len(terms), len(scrapers), cfg.Location)

	res := aggregator.New(cfg.Location, scrapers...).Run(ctx, terms)
	records := pipeline.New(cfg.Verticals, config.USStates()).Normalize(res.Listings)

	statuses := make([]report.AdapterStatus, 0, len(res.Outcomes))
	for _, o := range res.Outcomes {
		st := report.AdapterStatus{Platform: o.Platform, Count: o.Count}
		if o.Err != nil {
			st.Error = o.Err.Error()
		}
		statuses = append(statuses, st)
	}

	rep := report.New(plan.Kind, plan.Window, len(res.Listings), statuses, records)
	rep.StartedAt = started
	log.Printf("🧮 Normalized %d raw listings into %d records.", len(res.Listings), len(records))

	for _, sink := range sinks {
		if err := sink.Publish(ctx, rep); err != nil {
			log.Printf("⚠️ Failed to publish to %s: %v", sink.Name(), err)
		}
	}

	if failed := res.Failed(); len(failed) > 0 && len(failed) == len(res.Outcomes) {
		names := make([]string, len(failed))
		for i, o := range failed {
			names[i] = string(o.Platform)
		}
		alert(sinks, fmt.Errorf("%s run: every board failed (%s)", plan.Kind, strings.Join(names, ", ")))
	}

	log.Printf("🏁 %s run finished in %s.", plan.Kind, time.Since(started).Round(time.Second))
	return rep
}

// alerter is a sink that can also deliver an out-of-band error.
type alerter interface {
	SendError(err error) error
}

func alert(sinks []report.Sink, err error) {
	log.Printf("❌ %v", err)
	for _, sink := range sinks {
		a, ok := sink.(alerter)
		if !ok {
			continue
		}
		if sendErr := a.SendError(err); sendErr != nil {
			log.Printf("⚠️ Failed to send alert via %s: %v", sink.Name(), sendErr)
		}
	}
}
