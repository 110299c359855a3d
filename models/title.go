package models

import "time"

// UnknownSentinel replaces missing categorical text during normalization.
// It never appears in the top-N tables.
const UnknownSentinel = "Unknown"

// Title is one normalized catalog row
type Title struct {
	ShowID       string     `json:"show_id"`
	Type         string     `json:"type"`
	Title        string     `json:"title"`
	Director     string     `json:"director"`
	Cast         string     `json:"cast"`
	Country      string     `json:"country"` // comma-separated, "Unknown" when missing
	DateAdded    *time.Time `json:"date_added,omitempty"`
	RawDateAdded string     `json:"date_added_raw"` // trimmed source text
	ReleaseYear  string     `json:"release_year"`
	Rating       string     `json:"rating"`
	Duration     string     `json:"duration"`
	ListedIn     string     `json:"listed_in"` // comma-separated genres, "Unknown" when missing
	Description  string     `json:"description"`
}

// YearAdded returns the year of DateAdded, or false when the date is absent
func (t Title) YearAdded() (int, bool) {
	if t.DateAdded == nil {
		return 0, false
	}
	return t.DateAdded.Year(), true
}

// YearRange is an inclusive [From, To] filter on the year a title was added
type YearRange struct {
	From int `json:"from" validate:"gte=1900,lte=2200"`
	To   int `json:"to" validate:"gte=1900,lte=2200,gtefield=From"`
}

// Contains reports whether year falls inside the range
func (r YearRange) Contains(year int) bool {
	return year >= r.From && year <= r.To
}
