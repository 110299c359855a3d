package services

import "catalog-dashboard/models"

// FilterByYear returns the titles whose year added lies in r, inclusive.
// A nil range returns every title; otherwise titles without a parsed date
// are excluded. The input slice is not modified.
func FilterByYear(titles []models.Title, r *models.YearRange) []models.Title {
	if r == nil {
		return titles
	}
	out := make([]models.Title, 0, len(titles))
	for _, t := range titles {
		if year, ok := t.YearAdded(); ok && r.Contains(year) {
			out = append(out, t)
		}
	}
	return out
}

// ClampRange narrows r to bounds. A nil r selects the full bounds.
func ClampRange(r *models.YearRange, bounds models.YearRange) models.YearRange {
	if r == nil {
		return bounds
	}
	out := *r
	if out.From < bounds.From {
		out.From = bounds.From
	}
	if out.To > bounds.To {
		out.To = bounds.To
	}
	return out
}
