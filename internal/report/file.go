package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const filePrefix = "job_scraping_"

// ErrNoReports is returned by Latest when nothing has been written yet.
var ErrNoReports = errors.New("no reports found")

// FileSink writes each report as JSON plus an .xlsx workbook.
type FileSink struct {
	dir string
}

// NewFileSink writes under <outputDir>/reports.
func NewFileSink(outputDir string) *FileSink {
	return &FileSink{dir: filepath.Join(outputDir, "reports")}
}

func (f *FileSink) Name() string { return "files" }

func (f *FileSink) Dir() string { return f.dir }

// Publish writes nothing for an empty run.
func (f *FileSink) Publish(_ context.Context, r *Report) error {
	if r.Empty() {
		log.Println("📭 No records, skipping report files.")
		return nil
	}
	jsonPath, xlsxPath, err := f.Write(r)
	if err != nil {
		return err
	}
	log.Printf("💾 Results saved to: %s", jsonPath)
	log.Printf("💾 Spreadsheet saved to: %s", xlsxPath)
	return nil
}

// Write stores job_scraping_<kind>_<date>_<time>_<millis>.json and .xlsx. A
// name already on disk moves forward a millisecond so runs never overwrite
// each other.
func (f *FileSink) Write(r *Report) (jsonPath, xlsxPath string, err error) {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return "", "", fmt.Errorf("create report dir: %w", err)
	}
	base := f.freeName(r.Kind, r.GeneratedAt)
	jsonPath = filepath.Join(f.dir, base+".json")
	xlsxPath = filepath.Join(f.dir, base+".xlsx")

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return "", "", fmt.Errorf("write report: %w", err)
	}
	if err := writeWorkbook(xlsxPath, r); err != nil {
		return "", "", err
	}
	return jsonPath, xlsxPath, nil
}

func (f *FileSink) freeName(kind string, at time.Time) string {
	for {
		base := fmt.Sprintf("%s%s_%s_%03d", filePrefix, kind, at.Format("20060102_150405"), at.Nanosecond()/int(time.Millisecond))
		if _, err := os.Stat(filepath.Join(f.dir, base+".json")); errors.Is(err, os.ErrNotExist) {
			return base
		}
		at = at.Add(time.Millisecond)
	}
}

// Latest loads the most recently generated JSON report in dir.
func Latest(dir string) (*Report, string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, filePrefix+"*.json"))
	if err != nil {
		return nil, "", err
	}
	if len(paths) == 0 {
		return nil, "", ErrNoReports
	}

	// names differ only by kind before the timestamp, so compare the suffix
	sort.Slice(paths, func(i, j int) bool {
		return stamp(paths[i]) > stamp(paths[j])
	})

	data, err := os.ReadFile(paths[0])
	if err != nil {
		return nil, "", err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", paths[0], err)
	}
	return &r, paths[0], nil
}

// stamp is the date, time and millisecond suffix of a report file name.
func stamp(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), ".json")
	parts := strings.Split(name, "_")
	if len(parts) < 3 {
		return name
	}
	return strings.Join(parts[len(parts)-3:], "")
}
