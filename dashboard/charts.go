package dashboard

import (
	"fmt"
	"html"
	"io"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"

	"catalog-dashboard/models"
)

// Chart names served under /charts/{name}.svg
const (
	ChartTypes     = "types"
	ChartYears     = "years"
	ChartCountries = "countries"
	ChartGenres    = "genres"
)

const (
	chartWidth  = 720
	chartHeight = 400
)

// renderChart writes the named chart for view as SVG
func renderChart(w io.Writer, name string, view *models.DashboardView) error {
	switch name {
	case ChartTypes:
		return renderBars(w, "Movies vs TV Shows", view.TypeCounts)
	case ChartYears:
		return renderYears(w, view.ByYear)
	case ChartCountries:
		return renderBars(w, "Top Countries", view.TopCountries)
	case ChartGenres:
		return renderBars(w, "Top Genres", view.TopGenres)
	default:
		return fmt.Errorf("unknown chart %q", name)
	}
}

func renderBars(w io.Writer, title string, counts []models.LabelCount) error {
	if len(counts) == 0 {
		return renderEmpty(w, title)
	}
	bars := make([]chart.Value, 0, len(counts))
	peak := 0
	for _, c := range counts {
		peak = max(peak, c.Count)
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%d)", c.Label, c.Count),
			Value: float64(c.Count),
		})
	}
	bc := chart.BarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   max(8, (chartWidth-80)/len(bars)-12),
		YAxis:      countAxis(peak),
		Bars:       bars,
	}
	return bc.Render(chart.SVG, w)
}

func renderYears(w io.Writer, byYear []models.YearCount) error {
	const title = "Content Added Over Time"
	switch len(byYear) {
	case 0:
		return renderEmpty(w, title)
	case 1:
		// A line needs two points; show the single year as a bar.
		return renderBars(w, title, []models.LabelCount{
			{Label: strconv.Itoa(byYear[0].Year), Count: byYear[0].Count},
		})
	}

	xs := make([]float64, len(byYear))
	ys := make([]float64, len(byYear))
	peak := 0
	for i, yc := range byYear {
		xs[i] = float64(yc.Year)
		ys[i] = float64(yc.Count)
		peak = max(peak, yc.Count)
	}
	yAxis := countAxis(peak)
	yAxis.Name = "count"
	ch := chart.Chart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      chartWidth,
		Height:     chartHeight,
		XAxis: chart.XAxis{
			Name: "year_added",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return strconv.Itoa(int(f))
				}
				return ""
			},
		},
		YAxis:  yAxis,
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Titles added",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
					DotColor:    chart.ColorBlue,
					DotWidth:    4,
				},
			},
		},
	}
	return ch.Render(chart.SVG, w)
}

// countAxis starts at zero so equal counts still give a non-empty range
func countAxis(peak int) chart.YAxis {
	return chart.YAxis{
		Range: &chart.ContinuousRange{Min: 0, Max: float64(peak)},
		ValueFormatter: func(v interface{}) string {
			if f, ok := v.(float64); ok {
				return strconv.Itoa(int(f))
			}
			return ""
		},
	}
}

// renderEmpty writes a placeholder for tables with no rows
func renderEmpty(w io.Writer, title string) error {
	_, err := fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+
		`<text x="50%%" y="40" text-anchor="middle" font-family="sans-serif" font-size="16">%s</text>`+
		`<text x="50%%" y="50%%" text-anchor="middle" font-family="sans-serif" fill="#888">No data for this range</text>`+
		`</svg>`, chartWidth, chartHeight, html.EscapeString(title))
	return err
}
