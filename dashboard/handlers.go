package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"catalog-dashboard/models"
	"catalog-dashboard/services"
)

var validate = validator.New()

// errorResponse is the JSON body of every API error
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	body := errorResponse{Error: err.Error()}
	var le *services.LoadError
	if errors.As(err, &le) {
		body.Kind = string(le.Kind)
	}
	render.Status(r, status)
	render.JSON(w, r, body)
}

// parseRange reads the optional from/to query parameters. Only the bounds
// the caller supplied are validated; a missing bound defaults to the
// catalog's own bound.
func parseRange(r *http.Request, bounds models.YearRange) (*models.YearRange, error) {
	q := r.URL.Query()
	fromRaw, toRaw := q.Get("from"), q.Get("to")
	if fromRaw == "" && toRaw == "" {
		return nil, nil
	}

	var from, to int
	var err error
	if fromRaw != "" {
		if from, err = strconv.Atoi(fromRaw); err != nil {
			return nil, fmt.Errorf("invalid from year %q", fromRaw)
		}
	}
	if toRaw != "" {
		if to, err = strconv.Atoi(toRaw); err != nil {
			return nil, fmt.Errorf("invalid to year %q", toRaw)
		}
	}

	// a one-sided request is checked against itself
	requested := models.YearRange{From: from, To: to}
	if fromRaw == "" {
		requested.From = to
	}
	if toRaw == "" {
		requested.To = from
	}
	if err := validate.Struct(requested); err != nil {
		return nil, fmt.Errorf("invalid year range %d-%d: %w", requested.From, requested.To, err)
	}

	yr := bounds
	if fromRaw != "" {
		yr.From = from
	}
	if toRaw != "" {
		yr.To = to
	}
	clamped := services.ClampRange(&yr, bounds)
	return &clamped, nil
}

// loadView loads the catalog and builds the view for the request's range.
// It writes the error response itself and returns nil on failure.
func (s *Server) loadView(w http.ResponseWriter, r *http.Request) (*models.Catalog, *models.DashboardView) {
	cat, err := s.cache.Get(s.opts.CSVPath)
	if err != nil {
		s.metrics.loadErrors.Inc()
		s.logger.Error("Failed to load %s: %v", s.opts.CSVPath, err)
		s.writeError(w, r, http.StatusInternalServerError, err)
		return nil, nil
	}

	var yr *models.YearRange
	if bounds, ok := cat.YearBounds(); ok {
		yr, err = parseRange(r, bounds)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return nil, nil
		}
	}
	return cat, s.insights.View(cat, yr)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	_, view := s.loadView(w, r)
	if view == nil {
		return
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, newPageData(view)); err != nil {
		s.logger.Error("Failed to render dashboard page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	_, view := s.loadView(w, r)
	if view == nil {
		return
	}
	render.JSON(w, r, view)
}

// titlesResponse lists the rows inside the requested range
type titlesResponse struct {
	Count  int            `json:"count"`
	Titles []models.Title `json:"titles"`
}

func (s *Server) handleTitles(w http.ResponseWriter, r *http.Request) {
	cat, view := s.loadView(w, r)
	if view == nil {
		return
	}
	titles := services.FilterByYear(cat.Titles, view.Range)

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		if limit < len(titles) {
			titles = titles[:limit]
		}
	}
	render.JSON(w, r, titlesResponse{Count: len(titles), Titles: titles})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	switch name {
	case ChartTypes, ChartYears, ChartCountries, ChartGenres:
	default:
		http.NotFound(w, r)
		return
	}

	_, view := s.loadView(w, r)
	if view == nil {
		return
	}
	var buf bytes.Buffer
	if err := renderChart(&buf, name, view); err != nil {
		s.logger.Error("Failed to render %s chart: %v", name, err)
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	base := s.baseURL()
	if s.opts.Renderer == nil || base == "" {
		s.writeError(w, r, http.StatusServiceUnavailable, errors.New("screenshots are not enabled"))
		return
	}

	_, view := s.loadView(w, r)
	if view == nil {
		return
	}
	target := base + "/"
	if view.Range != nil {
		q := url.Values{}
		q.Set("from", strconv.Itoa(view.Range.From))
		q.Set("to", strconv.Itoa(view.Range.To))
		target += "?" + q.Encode()
	}

	start := time.Now()
	img, err := s.opts.Renderer.Capture(r.Context(), target)
	s.metrics.renderTime.Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Error("Screenshot failed: %v", err)
		s.writeError(w, r, http.StatusBadGateway, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(img)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":          "ok",
		"source":          s.opts.CSVPath,
		"cached_catalogs": s.cache.Len(),
	})
}
