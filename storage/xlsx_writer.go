package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"catalog-dashboard/models"
	"catalog-dashboard/utils"
)

// Sheet names used in the exported workbook
const (
	SummarySheet      = "Summary"
	TypeCountsSheet   = "Types"
	ByYearSheet       = "By Year"
	TopCountriesSheet = "Top Countries"
	TopGenresSheet    = "Top Genres"
)

// XLSXWriter writes a catalog's aggregate tables to an Excel workbook
type XLSXWriter struct {
	path   string
	logger *utils.Logger
}

// NewXLSXWriter creates a new XLSXWriter
func NewXLSXWriter(path string, logger *utils.Logger) *XLSXWriter {
	return &XLSXWriter{path: path, logger: logger}
}

// WriteAggregates builds the workbook and saves it to the configured path
func (w *XLSXWriter) WriteAggregates(cat *models.Catalog) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the summary.
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}
	summary := [][]interface{}{
		{"source", cat.Path},
		{"sha256", cat.Digest},
		{"titles", len(cat.Titles)},
		{"unparsed_dates", cat.UnparsedDates},
	}
	if err := writeRows(f, SummarySheet, summary); err != nil {
		return err
	}

	agg := cat.Aggregates
	tables := []struct {
		sheet  string
		header []interface{}
		rows   [][]interface{}
	}{
		{TypeCountsSheet, []interface{}{"type", "count"}, labelCells(agg.TypeCounts)},
		{ByYearSheet, []interface{}{"year_added", "count"}, yearCells(agg.ByYear)},
		{TopCountriesSheet, []interface{}{"country", "count"}, labelCells(agg.TopCountries)},
		{TopGenresSheet, []interface{}{"genre", "count"}, labelCells(agg.TopGenres)},
	}
	for _, tbl := range tables {
		if _, err := f.NewSheet(tbl.sheet); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", tbl.sheet, err)
		}
		if err := writeRows(f, tbl.sheet, append([][]interface{}{tbl.header}, tbl.rows...)); err != nil {
			return err
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	w.logger.Info("Workbook written to: %s", w.path)
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func labelCells(counts []models.LabelCount) [][]interface{} {
	rows := make([][]interface{}, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []interface{}{c.Label, c.Count})
	}
	return rows
}

func yearCells(counts []models.YearCount) [][]interface{} {
	rows := make([][]interface{}, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []interface{}{c.Year, c.Count})
	}
	return rows
}
