package report

import (
	"fmt"
	"sort"
	"strings"

	"go-contract-harvester/internal/models"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetJobs      = "Job_Data"
	SheetVertical  = "Vertical_Analysis"
	SheetState     = "State_Analysis"
	SheetPlatforms = "Platform_Analysis"
)

// writeWorkbook saves the records in canonical column order plus one sheet
// per summary view, rows sorted by key.
func writeWorkbook(path string, r *Report) error {
	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName("Sheet1", SheetJobs); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	rows := make([][]any, 0, len(r.Records)+1)
	rows = append(rows, row(models.Columns...))
	for _, rec := range r.Records {
		rows = append(rows, row(rec.Values()...))
	}
	if err := writeSheet(book, SheetJobs, rows); err != nil {
		return err
	}

	sum := r.Summary
	vertical := [][]any{{"vertical", "job_count", "states_count", "platforms"}}
	for _, k := range sortedKeys(sum.Verticals) {
		v := sum.Verticals[k]
		vertical = append(vertical, []any{k, v.JobCount, v.StatesCount, strings.Join(v.Platforms, ", ")})
	}
	state := [][]any{{"state", "job_count", "verticals", "platforms"}}
	for _, k := range sortedKeys(sum.States) {
		s := sum.States[k]
		state = append(state, []any{k, s.JobCount, strings.Join(s.Verticals, ", "), strings.Join(s.Platforms, ", ")})
	}
	platform := [][]any{{"platform", "job_count", "verticals_count", "states_count"}}
	for _, k := range sortedKeys(sum.Platforms) {
		p := sum.Platforms[k]
		platform = append(platform, []any{k, p.JobCount, p.VerticalsCount, p.StatesCount})
	}

	for _, sheet := range []struct {
		name string
		rows [][]any
	}{
		{SheetVertical, vertical},
		{SheetState, state},
		{SheetPlatforms, platform},
	} {
		if _, err := book.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		if err := writeSheet(book, sheet.name, sheet.rows); err != nil {
			return err
		}
	}

	if err := book.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

func writeSheet(book *excelize.File, sheet string, rows [][]any) error {
	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		if err := book.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("xlsx %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func row(values ...string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
