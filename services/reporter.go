package services

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"catalog-dashboard/models"
)

const (
	reportWidth = 55
	maxBarWidth = 30
)

// PrintInsightReport formats and prints the catalog report to w
func PrintInsightReport(w io.Writer, cat *models.Catalog) {
	p := message.NewPrinter(language.English)
	border := strings.Repeat("═", reportWidth)
	thin := strings.Repeat("─", reportWidth)

	p.Fprintf(w, "\n╔%s╗\n", border)
	p.Fprintf(w, "║%s║\n", center("CATALOG ANALYTICS", reportWidth))
	p.Fprintf(w, "╚%s╝\n", border)

	p.Fprintf(w, "\n OVERVIEW\n%s\n", thin)
	p.Fprintf(w, "  Source                  : %s\n", cat.Path)
	p.Fprintf(w, "  Total Titles            : %d\n", len(cat.Titles))
	p.Fprintf(w, "  Unparsed/blank dates    : %d\n", cat.UnparsedDates)
	if bounds, ok := cat.YearBounds(); ok {
		p.Fprintf(w, "  Years Added             : %s to %s\n", strconv.Itoa(bounds.From), strconv.Itoa(bounds.To))
	}

	agg := cat.Aggregates
	if len(agg.TypeCounts) > 0 {
		p.Fprintf(w, "\n TITLES BY TYPE\n%s\n", thin)
		for _, tc := range agg.TypeCounts {
			p.Fprintf(w, "  %-25s %8d\n", truncate(tc.Label, 24)+":", tc.Count)
		}
	}

	if len(agg.ByYear) > 0 {
		p.Fprintf(w, "\n CONTENT ADDED PER YEAR\n%s\n", thin)
		peak := 0
		for _, yc := range agg.ByYear {
			peak = max(peak, yc.Count)
		}
		for _, yc := range agg.ByYear {
			// Years are printed as plain text so they skip digit grouping.
			p.Fprintf(w, "  %s %8d  %s\n", strconv.Itoa(yc.Year), yc.Count, bar(yc.Count, peak))
		}
	}

	printTop(p, w, "TOP COUNTRIES", thin, agg.TopCountries)
	printTop(p, w, "TOP GENRES", thin, agg.TopGenres)

	p.Fprintf(w, "\n%s\n\n", border)
}

func printTop(p *message.Printer, w io.Writer, heading, thin string, counts []models.LabelCount) {
	if len(counts) == 0 {
		return
	}
	p.Fprintf(w, "\n %s\n%s\n", heading, thin)
	for i, c := range counts {
		p.Fprintf(w, "  %2d. %-35s %8d\n", i+1, truncate(c.Label, 35), c.Count)
	}
}

// bar scales count against peak to at most maxBarWidth blocks
func bar(count, peak int) string {
	if peak <= 0 || count <= 0 {
		return ""
	}
	n := count * maxBarWidth / peak
	if n == 0 {
		n = 1
	}
	return strings.Repeat("▓", n)
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
