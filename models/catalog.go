package models

import "time"

// LabelCount is one row of a (label, count) aggregate table
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// YearCount is one row of the additions-by-year table
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// Aggregates holds the derived tables of a row set
type Aggregates struct {
	TypeCounts   []LabelCount `json:"type_counts"`
	ByYear       []YearCount  `json:"by_year"`
	TopCountries []LabelCount `json:"top_countries"`
	TopGenres    []LabelCount `json:"top_genres"`
}

// Catalog is the immutable result of loading one CSV file
type Catalog struct {
	Path          string
	Digest        string // hex sha256 of the file contents
	LoadedAt      time.Time
	Titles        []Title
	Aggregates    Aggregates
	UnparsedDates int
}

// YearBounds returns the smallest and largest year added, or false when no
// title has a parsed date
func (c *Catalog) YearBounds() (YearRange, bool) {
	var bounds YearRange
	found := false
	for _, t := range c.Titles {
		year, ok := t.YearAdded()
		if !ok {
			continue
		}
		if !found || year < bounds.From {
			bounds.From = year
		}
		if !found || year > bounds.To {
			bounds.To = year
		}
		found = true
	}
	return bounds, found
}

// DashboardView is what the presentation layer renders for one year range.
// Type counts and the unparsed-date count always describe the full catalog;
// the other tables are recomputed over the filtered rows.
type DashboardView struct {
	Source        string       `json:"source"`
	Range         *YearRange   `json:"range,omitempty"`
	Bounds        *YearRange   `json:"bounds,omitempty"`
	TotalTitles   int          `json:"total_titles"`
	FilteredCount int          `json:"filtered_titles"`
	UnparsedDates int          `json:"unparsed_dates"`
	TypeCounts    []LabelCount `json:"type_counts"`
	ByYear        []YearCount  `json:"by_year"`
	TopCountries  []LabelCount `json:"top_countries"`
	TopGenres     []LabelCount `json:"top_genres"`
}
