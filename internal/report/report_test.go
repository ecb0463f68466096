package report

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go-contract-harvester/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRecords() []models.CanonicalRecord {
	return []models.CanonicalRecord{
		{Title: "Java Contractor", Vertical: "Backend", State: "Texas", Platform: models.PlatformDice, Company: "Acme", Location: "Austin, TX"},
		{Title: "Go Contractor", Vertical: "Backend", State: "New York", Platform: models.PlatformLinkedIn, Company: "Globex"},
		{Title: "SQL Temp", Vertical: "Data", State: "Texas", Platform: models.PlatformDice, Company: "Initech"},
		{Title: "golang Contractor", Vertical: "Backend", State: "Texas", Platform: models.PlatformMonster, Company: "Various Companies", Synthetic: true},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleRecords())

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Synthetic)

	assert.Equal(t, VerticalSummary{JobCount: 3, StatesCount: 2, Platforms: []string{"Dice", "LinkedIn", "Monster"}}, s.Verticals["Backend"])
	assert.Equal(t, VerticalSummary{JobCount: 1, StatesCount: 1, Platforms: []string{"Dice"}}, s.Verticals["Data"])

	assert.Equal(t, StateSummary{JobCount: 3, Verticals: []string{"Backend", "Data"}, Platforms: []string{"Dice", "Monster"}}, s.States["Texas"])
	assert.Equal(t, 1, s.States["New York"].JobCount)

	assert.Equal(t, PlatformSummary{JobCount: 2, VerticalsCount: 2, StatesCount: 1}, s.Platforms["Dice"])
	assert.Equal(t, PlatformSummary{JobCount: 1, VerticalsCount: 1, StatesCount: 1}, s.Platforms["LinkedIn"])
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Total)
	assert.Empty(t, s.Verticals)
	assert.NotNil(t, s.States)
}

func TestFileSinkWritesJSONAndWorkbook(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir)

	r := New("daily", 24*time.Hour, 6, []AdapterStatus{{Platform: models.PlatformDice, Count: 2}}, sampleRecords())
	require.NoError(t, sink.Publish(context.Background(), r))

	jsonFiles, err := filepath.Glob(filepath.Join(dir, "reports", "job_scraping_daily_*.json"))
	require.NoError(t, err)
	require.Len(t, jsonFiles, 1)

	data, err := os.ReadFile(jsonFiles[0])
	require.NoError(t, err)
	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "daily", got.Kind)
	assert.Equal(t, 24, got.WindowHours)
	assert.Equal(t, 6, got.RawCount)
	assert.Len(t, got.Records, 4)
	assert.True(t, got.Records[3].Synthetic)
	assert.Equal(t, 3, got.Summary.Verticals["Backend"].JobCount)

	book, err := excelize.OpenFile(strings.TrimSuffix(jsonFiles[0], ".json") + ".xlsx")
	require.NoError(t, err)
	defer book.Close()
	assert.Equal(t, []string{SheetJobs, SheetVertical, SheetState, SheetPlatforms}, book.GetSheetList())

	rows, err := book.GetRows(SheetJobs)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, models.Columns, rows[0])
	// trailing empty cells are not returned
	require.GreaterOrEqual(t, len(rows[1]), 8)
	assert.Equal(t, []string{"Java Contractor", "Backend", "Texas", "Dice", "", "", "Acme", "Austin, TX"}, rows[1][:8])
	assert.Equal(t, "golang Contractor", rows[4][0])

	vertical, err := book.GetRows(SheetVertical)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"vertical", "job_count", "states_count", "platforms"},
		{"Backend", "3", "2", "Dice, LinkedIn, Monster"},
		{"Data", "1", "1", "Dice"},
	}, vertical)

	state, err := book.GetRows(SheetState)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"state", "job_count", "verticals", "platforms"},
		{"New York", "1", "Backend", "LinkedIn"},
		{"Texas", "3", "Backend, Data", "Dice, Monster"},
	}, state)

	platforms, err := book.GetRows(SheetPlatforms)
	require.NoError(t, err)
	require.Len(t, platforms, 4)
	assert.Equal(t, []string{"Dice", "2", "2", "1"}, platforms[1])
}

func TestFileSinkNeverOverwritesSameInstant(t *testing.T) {
	sink := NewFileSink(t.TempDir())
	at := time.Date(2024, 3, 12, 9, 0, 0, 250*int(time.Millisecond), time.UTC)

	first := New("manual", 24*time.Hour, 1, nil, sampleRecords()[:1])
	first.GeneratedAt = at
	second := New("manual", 24*time.Hour, 1, nil, sampleRecords()[1:2])
	second.GeneratedAt = at

	p1, x1, err := sink.Write(first)
	require.NoError(t, err)
	p2, x2, err := sink.Write(second)
	require.NoError(t, err)

	assert.Equal(t, "job_scraping_manual_20240312_090000_250.json", filepath.Base(p1))
	assert.Equal(t, "job_scraping_manual_20240312_090000_251.json", filepath.Base(p2))
	assert.NotEqual(t, x1, x2)

	got, path, err := Latest(sink.Dir())
	require.NoError(t, err)
	assert.Equal(t, p2, path)
	assert.Equal(t, "Go Contractor", got.Records[0].Title)
}

func TestFileSinkSkipsEmptyRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewFileSink(dir).Publish(context.Background(), New("daily", 24*time.Hour, 0, nil, nil)))

	_, err := os.Stat(filepath.Join(dir, "reports"))
	assert.True(t, os.IsNotExist(err))
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir)

	_, _, err := Latest(sink.Dir())
	assert.ErrorIs(t, err, ErrNoReports)

	older := New("monday", 72*time.Hour, 0, nil, nil)
	older.GeneratedAt = time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	newer := New("daily", 24*time.Hour, 1, nil, sampleRecords()[:1])
	newer.GeneratedAt = time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)

	_, _, err = sink.Write(newer)
	require.NoError(t, err)
	_, _, err = sink.Write(older)
	require.NoError(t, err)

	got, path, err := Latest(sink.Dir())
	require.NoError(t, err)
	assert.Equal(t, "daily", got.Kind)
	assert.Equal(t, "job_scraping_daily_20240312_090000_000.json", filepath.Base(path))
	assert.Len(t, got.Records, 1)
	assert.NotNil(t, older.Records)
}
