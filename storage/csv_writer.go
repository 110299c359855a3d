package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"catalog-dashboard/models"
	"catalog-dashboard/utils"
)

// Aggregate table file names written by CSVWriter
const (
	TypeCountsFile   = "type_counts.csv"
	ByYearFile       = "by_year.csv"
	TopCountriesFile = "top_countries.csv"
	TopGenresFile    = "top_genres.csv"
)

// CSVWriter writes the aggregate tables of a catalog as CSV files
type CSVWriter struct {
	dir    string
	logger *utils.Logger
}

// NewCSVWriter creates a new CSVWriter rooted at dir
func NewCSVWriter(dir string, logger *utils.Logger) *CSVWriter {
	return &CSVWriter{dir: dir, logger: logger}
}

// WriteAggregates writes one file per aggregate table
func (w *CSVWriter) WriteAggregates(cat *models.Catalog) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	agg := cat.Aggregates
	if err := w.writeTable(TypeCountsFile, []string{"type", "count"}, labelRows(agg.TypeCounts)); err != nil {
		return err
	}
	if err := w.writeTable(ByYearFile, []string{"year_added", "count"}, yearRows(agg.ByYear)); err != nil {
		return err
	}
	if err := w.writeTable(TopCountriesFile, []string{"country", "count"}, labelRows(agg.TopCountries)); err != nil {
		return err
	}
	if err := w.writeTable(TopGenresFile, []string{"genre", "count"}, labelRows(agg.TopGenres)); err != nil {
		return err
	}

	w.logger.Info("Aggregate tables written to: %s", w.dir)
	return nil
}

func (w *CSVWriter) writeTable(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.dir, name)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func labelRows(counts []models.LabelCount) [][]string {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Label, strconv.Itoa(c.Count)})
	}
	return rows
}

func yearRows(counts []models.YearCount) [][]string {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{strconv.Itoa(c.Year), strconv.Itoa(c.Count)})
	}
	return rows
}
