package services

import (
	"sort"
	"strings"

	"catalog-dashboard/models"
	"catalog-dashboard/utils"
)

// TopN is how many entries the country and genre tables keep
const TopN = 10

// InsightService computes aggregate tables from a row set
type InsightService struct {
	logger *utils.Logger
}

// NewInsightService creates a new InsightService
func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Summarize computes all four aggregate tables
func (s *InsightService) Summarize(titles []models.Title) models.Aggregates {
	if len(titles) == 0 {
		s.logger.Warn("No titles to generate insights from")
	}
	return models.Aggregates{
		TypeCounts:   CountTypes(titles),
		ByYear:       CountByYear(titles),
		TopCountries: TopTokens(titles, countryField, TopN),
		TopGenres:    TopTokens(titles, genreField, TopN),
	}
}

// View builds the dashboard payload for a year range. Type counts and the
// unparsed-date count come from the full catalog; the rest is recomputed
// from the filtered rows.
func (s *InsightService) View(cat *models.Catalog, r *models.YearRange) *models.DashboardView {
	filtered := FilterByYear(cat.Titles, r)
	view := &models.DashboardView{
		Source:        cat.Path,
		Range:         r,
		TotalTitles:   len(cat.Titles),
		FilteredCount: len(filtered),
		UnparsedDates: cat.UnparsedDates,
		TypeCounts:    cat.Aggregates.TypeCounts,
		ByYear:        CountByYear(filtered),
		TopCountries:  TopTokens(filtered, countryField, TopN),
		TopGenres:     TopTokens(filtered, genreField, TopN),
	}
	if bounds, ok := cat.YearBounds(); ok {
		view.Bounds = &bounds
	}
	return view
}

func countryField(t models.Title) string { return t.Country }
func genreField(t models.Title) string   { return t.ListedIn }

// CountTypes counts titles per type label. Titles without a type are skipped.
func CountTypes(titles []models.Title) []models.LabelCount {
	counts := newOrderedCounter()
	for _, t := range titles {
		if t.Type == "" {
			continue
		}
		counts.add(t.Type)
	}
	return counts.sorted()
}

// CountByYear counts titles per year added, ascending. Titles without a
// parsed date are skipped, so no year has a zero count.
func CountByYear(titles []models.Title) []models.YearCount {
	byYear := make(map[int]int)
	for _, t := range titles {
		if year, ok := t.YearAdded(); ok {
			byYear[year]++
		}
	}

	result := make([]models.YearCount, 0, len(byYear))
	for year, count := range byYear {
		result = append(result, models.YearCount{Year: year, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Year < result[j].Year
	})
	return result
}

// CountTokens explodes a comma-separated field and counts each trimmed
// token, sorted by count descending. Empty and "Unknown" tokens are dropped
// and a row counts each distinct token once. Ties keep first-encounter order.
func CountTokens(titles []models.Title, field func(models.Title) string) []models.LabelCount {
	counts := newOrderedCounter()
	rowTokens := utils.NewTokenSet()

	for _, t := range titles {
		rowTokens.Reset()
		for _, token := range strings.Split(field(t), ",") {
			token = strings.TrimSpace(token)
			if token == "" || token == models.UnknownSentinel {
				continue
			}
			if rowTokens.Add(token) {
				counts.add(token)
			}
		}
	}
	return counts.sorted()
}

// TopTokens is CountTokens truncated to the first n entries
func TopTokens(titles []models.Title, field func(models.Title) string, n int) []models.LabelCount {
	all := CountTokens(titles, field)
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// orderedCounter counts labels and remembers first-encounter order
type orderedCounter struct {
	index  map[string]int
	counts []models.LabelCount
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{index: make(map[string]int)}
}

func (c *orderedCounter) add(label string) {
	if i, ok := c.index[label]; ok {
		c.counts[i].Count++
		return
	}
	c.index[label] = len(c.counts)
	c.counts = append(c.counts, models.LabelCount{Label: label, Count: 1})
}

func (c *orderedCounter) sorted() []models.LabelCount {
	out := make([]models.LabelCount, len(c.counts))
	copy(out, c.counts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
