package services

import (
	"catalog-dashboard/models"
	"catalog-dashboard/storage"
	"catalog-dashboard/utils"
)

// Source column names, matched exactly
const (
	ColShowID      = "show_id"
	ColType        = "type"
	ColTitle       = "title"
	ColDirector    = "director"
	ColCast        = "cast"
	ColCountry     = "country"
	ColDateAdded   = "date_added"
	ColReleaseYear = "release_year"
	ColRating      = "rating"
	ColDuration    = "duration"
	ColListedIn    = "listed_in"
	ColDescription = "description"
)

// RequiredColumns must be present for the aggregates to mean anything
var RequiredColumns = []string{ColType, ColDateAdded, ColCountry, ColListedIn}

// naMarkers are raw cell values read as missing, in addition to "".
// These are the default NA strings of common CSV tools.
var naMarkers = map[string]bool{
	"NA": true, "N/A": true, "n/a": true, "NaN": true, "nan": true, "-NaN": true, "-nan": true,
	"null": true, "NULL": true, "None": true, "<NA>": true, "#N/A": true, "#NA": true,
}

func isMissing(cell string) bool {
	return cell == "" || naMarkers[cell]
}

// MissingColumns lists the required columns absent from a table header
func MissingColumns(table *storage.Table) []string {
	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := table.Column(name); !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// DataCleaner normalizes parsed CSV rows into Title records
type DataCleaner struct {
	logger *utils.Logger
}

// NewDataCleaner creates a new DataCleaner
func NewDataCleaner(logger *utils.Logger) *DataCleaner {
	return &DataCleaner{logger: logger}
}

// Clean converts every table row to a Title. It never drops rows.
func (c *DataCleaner) Clean(table *storage.Table) ([]models.Title, DateColumn) {
	get := func(row []string, name string) string {
		i, ok := table.Column(name)
		if !ok || isMissing(row[i]) {
			return ""
		}
		return row[i]
	}
	orUnknown := func(row []string, name string) string {
		if v := get(row, name); v != "" {
			return v
		}
		return models.UnknownSentinel
	}

	rawDates := make([]string, len(table.Rows))
	for i, row := range table.Rows {
		rawDates[i] = get(row, ColDateAdded)
	}
	dates := ParseDateColumn(rawDates)
	if dates.Fallback {
		c.logger.Debug("Strict date layout failed on some rows, re-parsed all %d dates as mixed formats", len(rawDates))
	}

	titles := make([]models.Title, 0, len(table.Rows))
	for i, row := range table.Rows {
		titles = append(titles, models.Title{
			ShowID:       get(row, ColShowID),
			Type:         get(row, ColType),
			Title:        get(row, ColTitle),
			Director:     orUnknown(row, ColDirector),
			Cast:         orUnknown(row, ColCast),
			Country:      orUnknown(row, ColCountry),
			DateAdded:    dates.Dates[i],
			RawDateAdded: dates.Trimmed[i],
			ReleaseYear:  get(row, ColReleaseYear),
			Rating:       get(row, ColRating),
			Duration:     get(row, ColDuration),
			ListedIn:     orUnknown(row, ColListedIn),
			Description:  get(row, ColDescription),
		})
	}

	c.logger.Info("Cleaned %d titles (%d unparsed dates)", len(titles), dates.Unparsed)
	return titles, dates
}
