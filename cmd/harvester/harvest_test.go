package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go-contract-harvester/internal/config"
	"go-contract-harvester/internal/models"
	"go-contract-harvester/internal/report"
	"go-contract-harvester/internal/scheduler"
	"go-contract-harvester/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScraper struct {
	platform models.Platform
	listings []models.Listing
	err      error
}

func (s stubScraper) Platform() models.Platform { return s.platform }

func (s stubScraper) Fetch(context.Context, []string, string) ([]models.Listing, error) {
	return s.listings, s.err
}

type recordingSink struct {
	name   string
	err    error
	got    []*report.Report
	alerts []error
}

func (r *recordingSink) SendError(err error) error {
	r.alerts = append(r.alerts, err)
	return nil
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Publish(_ context.Context, rep *report.Report) error {
	r.got = append(r.got, rep)
	return r.err
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Location:  config.DefaultLocation,
		OutputDir: t.TempDir(),
		Verticals: config.NewTaxonomy(
			config.Vertical{Name: "Software Engineering", Keywords: []string{"golang"}},
			config.Vertical{Name: "Data", Keywords: []string{"sql"}},
		),
	}
}

func TestSelectPlatforms(t *testing.T) {
	all, err := selectPlatforms("all")
	require.NoError(t, err)
	assert.Equal(t, models.Platforms(), all)

	empty, err := selectPlatforms("")
	require.NoError(t, err)
	assert.Equal(t, models.Platforms(), empty)

	one, err := selectPlatforms(" Dice ")
	require.NoError(t, err)
	assert.Equal(t, []models.Platform{models.PlatformDice}, one)

	_, err = selectPlatforms("indeed")
	assert.ErrorContains(t, err, "unknown platform")
}

func TestBuildScrapers_FollowsSelection(t *testing.T) {
	cfg := testConfig(t)
	scrapers := buildScrapers(cfg, []models.Platform{models.PlatformMonster, models.PlatformLinkedIn}, 72*time.Hour)

	require.Len(t, scrapers, 2)
	assert.Equal(t, models.PlatformMonster, scrapers[0].Platform())
	assert.Equal(t, models.PlatformLinkedIn, scrapers[1].Platform())
}

func TestBuildSinks_FilesOnlyWithoutCredentials(t *testing.T) {
	cfg := testConfig(t)
	sinks, cleanup := buildSinks(context.Background(), cfg)
	defer cleanup()

	require.Len(t, sinks, 1)
	assert.Equal(t, "files", sinks[0].Name())
}

func TestHarvest_PublishesNormalizedReport(t *testing.T) {
	cfg := testConfig(t)
	scrapers := []scraper.Scraper{
		stubScraper{platform: models.PlatformLinkedIn, listings: []models.Listing{
			{Title: "Golang Developer", Company: "Acme", Location: "Austin, TX", Description: "6 month contract", Platform: models.PlatformLinkedIn, JobType: "Contract"},
			{Title: "Golang Developer", Company: "Acme", Location: "Austin, TX", Platform: models.PlatformLinkedIn, JobType: "Contract"},
		}},
		stubScraper{platform: models.PlatformDice, err: errors.New("browser unavailable")},
	}
	broken := &recordingSink{name: "broken", err: errors.New("down")}
	files := report.NewFileSink(cfg.OutputDir)
	rec := &recordingSink{name: "recorder"}

	rep := harvest(context.Background(), cfg, runPlan{Kind: "daily", Window: 24 * time.Hour}, scrapers, []report.Sink{broken, files, rec})

	require.Len(t, rep.Records, 1)
	got := rep.Records[0]
	assert.Equal(t, "Software Engineering", got.Vertical)
	assert.Equal(t, "Texas", got.State)
	assert.Equal(t, "6 month contract", got.ContractDuration)
	assert.Equal(t, 2, rep.RawCount)
	assert.Equal(t, 24, rep.WindowHours)
	assert.Equal(t, []string{"Dice"}, rep.FailedBoards())

	// a failing sink does not stop the others
	require.Len(t, broken.got, 1)
	require.Len(t, rec.got, 1)
	assert.Same(t, rep, rec.got[0])
	assert.Empty(t, rec.alerts, "one board still worked")

	latest, path, err := report.Latest(report.NewFileSink(cfg.OutputDir).Dir())
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "job_scraping_daily_")
	assert.Len(t, latest.Records, 1)
}

func TestHarvest_EmptyRunWritesNoFiles(t *testing.T) {
	cfg := testConfig(t)
	scrapers := []scraper.Scraper{stubScraper{platform: models.PlatformMonster}}

	rep := harvest(context.Background(), cfg, runPlan{Kind: "manual", Window: 24 * time.Hour}, scrapers, []report.Sink{report.NewFileSink(cfg.OutputDir)})

	assert.True(t, rep.Empty())
	_, _, err := report.Latest(report.NewFileSink(cfg.OutputDir).Dir())
	assert.ErrorIs(t, err, report.ErrNoReports)
}

func TestHarvest_AlertsWhenEveryBoardFails(t *testing.T) {
	cfg := testConfig(t)
	scrapers := []scraper.Scraper{
		stubScraper{platform: models.PlatformLinkedIn, err: errors.New("login wall")},
		stubScraper{platform: models.PlatformDice, err: errors.New("browser unavailable")},
	}
	rec := &recordingSink{name: "recorder"}

	rep := harvest(context.Background(), cfg, runPlan{Kind: "monday", Window: 72 * time.Hour}, scrapers, []report.Sink{rec})

	assert.True(t, rep.Empty())
	require.Len(t, rec.got, 1)
	require.Len(t, rec.alerts, 1)
	assert.Contains(t, rec.alerts[0].Error(), "LinkedIn, Dice")
}

func TestNextRunMessage(t *testing.T) {
	// Saturday noon: the Monday catch-up is next
	sat := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	msg := nextRunMessage(scheduler.Jobs(), sat, time.UTC)
	assert.Contains(t, msg, "monday at Mon 2024-03-11 09:00 UTC")
	assert.Contains(t, msg, "72-hour window")

	// Monday after 09:00: Tuesday's daily run
	mon := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	assert.Contains(t, nextRunMessage(scheduler.Jobs(), mon, time.UTC), "daily at Tue 2024-03-12 09:00 UTC")

	bad := []scheduler.Job{{Name: "broken", Spec: "not a cron line"}}
	assert.Contains(t, nextRunMessage(bad, mon, time.UTC), "Could not compute next run")
}
