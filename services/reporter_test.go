package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"catalog-dashboard/models"
)

func TestPrintInsightReport(t *testing.T) {
	cat := &models.Catalog{
		Path:          "netflix_titles.csv",
		Titles:        []models.Title{{DateAdded: dated(2008)}, {DateAdded: dated(2021)}},
		UnparsedDates: 10,
		Aggregates: models.Aggregates{
			TypeCounts:   []models.LabelCount{{Label: "Movie", Count: 6131}, {Label: "TV Show", Count: 2676}},
			ByYear:       []models.YearCount{{Year: 2008, Count: 2}, {Year: 2021, Count: 1498}},
			TopCountries: []models.LabelCount{{Label: "United States", Count: 3689}},
			TopGenres:    []models.LabelCount{{Label: "International Movies", Count: 2752}},
		},
	}

	var buf bytes.Buffer
	PrintInsightReport(&buf, cat)
	out := buf.String()

	assert.Contains(t, out, "CATALOG ANALYTICS")
	assert.Contains(t, out, "netflix_titles.csv")
	assert.Contains(t, out, "6,131")
	assert.Contains(t, out, "2008 to 2021")
	assert.Contains(t, out, "1,498")
	assert.Contains(t, out, "  2021 ")
	assert.NotContains(t, out, "2,021")
	assert.Contains(t, out, " 1. United States")
	assert.Contains(t, out, "International Movies")
	// Peak year gets the full bar.
	assert.Contains(t, out, strings.Repeat("▓", maxBarWidth))
}

func TestPrintInsightReport_EmptyCatalog(t *testing.T) {
	var buf bytes.Buffer
	PrintInsightReport(&buf, &models.Catalog{Path: "empty.csv"})
	out := buf.String()

	assert.Contains(t, out, "Total Titles")
	assert.NotContains(t, out, "TOP COUNTRIES")
	assert.NotContains(t, out, "Years Added")
}

func TestBarAndTruncate(t *testing.T) {
	assert.Equal(t, "", bar(0, 10))
	assert.Equal(t, "▓", bar(1, 1000))
	assert.Equal(t, strings.Repeat("▓", maxBarWidth), bar(7, 7))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "short", truncate("short", 10))
}
