package dashboard

import (
	"html/template"
	"net/url"
	"strconv"

	"catalog-dashboard/models"
)

// pageData feeds the dashboard template
type pageData struct {
	View   *models.DashboardView
	From   string
	To     string
	Charts []chartTab
}

type chartTab struct {
	Name  string
	Title string
	Src   template.URL
}

var tabs = []chartTab{
	{Name: ChartTypes, Title: "Type Distribution"},
	{Name: ChartYears, Title: "Content Over Time"},
	{Name: ChartCountries, Title: "Top Countries"},
	{Name: ChartGenres, Title: "Top Genres"},
}

func newPageData(view *models.DashboardView) pageData {
	data := pageData{View: view}
	r := view.Range
	if r == nil {
		r = view.Bounds
	}
	if r != nil {
		data.From = strconv.Itoa(r.From)
		data.To = strconv.Itoa(r.To)
	}
	query := ""
	if view.Range != nil {
		q := url.Values{}
		q.Set("from", data.From)
		q.Set("to", data.To)
		query = "?" + q.Encode()
	}
	for _, tab := range tabs {
		tab.Src = template.URL("/charts/" + tab.Name + ".svg" + query)
		data.Charts = append(data.Charts, tab)
	}
	return data
}

var pageTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Netflix Content Dashboard</title>
<style>
body { font-family: sans-serif; margin: 0; background: #fafafa; color: #222; }
main { max-width: 960px; margin: 0 auto; padding: 24px; }
.tabs input { display: none; }
.tabs label { display: inline-block; padding: 8px 14px; cursor: pointer; border-bottom: 2px solid transparent; }
.tabs input:checked + label { border-color: #e50914; font-weight: bold; }
.panel { display: none; padding: 16px 0; }
{{range $i, $c := .Charts}}#tab-{{$c.Name}}:checked ~ #panel-{{$c.Name}} { display: block; }
{{end}}
.caption { color: #666; font-size: 0.9em; }
footer { margin-top: 32px; color: #888; font-size: 0.85em; }
</style>
</head>
<body>
<main id="dashboard">
<h1>Netflix Content Dashboard</h1>
<p>{{.View.FilteredCount}} of {{.View.TotalTitles}} titles shown.</p>
{{if .View.Bounds}}
<form method="get" action="/">
<label>Year added from
<input type="number" name="from" min="{{.View.Bounds.From}}" max="{{.View.Bounds.To}}" value="{{.From}}"></label>
<label>to
<input type="number" name="to" min="{{.View.Bounds.From}}" max="{{.View.Bounds.To}}" value="{{.To}}"></label>
<button type="submit">Apply</button>
</form>
{{else}}
<p class="caption">No parsed dates; the year filter is unavailable.</p>
{{end}}
<div class="tabs">
{{range $i, $c := .Charts}}<input type="radio" name="tab" id="tab-{{$c.Name}}"{{if eq $i 0}} checked{{end}}><label for="tab-{{$c.Name}}">{{$c.Title}}</label>
{{end}}
{{range .Charts}}<section class="panel" id="panel-{{.Name}}">
<img src="{{.Src}}" alt="{{.Title}}">
</section>
{{end}}
</div>
{{if .View.UnparsedDates}}<p class="caption">{{.View.UnparsedDates}} titles have a date_added value that could not be parsed.</p>{{end}}
<footer>Data source: {{.View.Source}}</footer>
</main>
</body>
</html>
`))
