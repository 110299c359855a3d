package dashboard

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"catalog-dashboard/services"
	"catalog-dashboard/utils"
)

// Renderer captures a rendered dashboard page as an image
type Renderer interface {
	Capture(ctx context.Context, url string) ([]byte, error)
}

// Options configures a Server
type Options struct {
	CSVPath      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Renderer     Renderer // nil disables /snapshot.png
	// BaseURL is where the renderer reaches this server. Empty means the
	// address Serve listens on.
	BaseURL      string
}

// Server serves the interactive dashboard for one CSV file
type Server struct {
	opts     Options
	cache    *services.CatalogCache
	insights *services.InsightService
	metrics  *Metrics
	registry *prometheus.Registry
	router   *chi.Mux
	logger   *utils.Logger

	listenURL atomic.Pointer[string]
}

// NewServer creates a dashboard server with all routes configured
func NewServer(opts Options, cache *services.CatalogCache, logger *utils.Logger) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		opts:     opts,
		cache:    cache,
		insights: services.NewInsightService(logger),
		metrics:  NewMetrics(reg, cache),
		registry: reg,
		router:   chi.NewRouter(),
		logger:   logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/api/view", s.handleView)
	s.router.Get("/api/titles", s.handleTitles)
	s.router.Get("/charts/{name}.svg", s.handleChart)
	s.router.Get("/snapshot.png", s.handleSnapshot)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
}

// requestLogger logs each request and counts it by route pattern
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		s.logger.Debug("%s %s -> %d (%d bytes, %v) [%s]",
			r.Method, r.URL.Path, status, ww.BytesWritten(),
			time.Since(start).Round(time.Microsecond), middleware.GetReqID(r.Context()))
	})
}

// baseURL returns the origin screenshots are taken from. It never comes
// from the request.
func (s *Server) baseURL() string {
	if s.opts.BaseURL != "" {
		return strings.TrimRight(s.opts.BaseURL, "/")
	}
	if u := s.listenURL.Load(); u != nil {
		return *u
	}
	return ""
}

// localURL turns a listener address into a URL reachable from this host
func localURL(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "http://" + addr.String()
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	u := localURL(ln.Addr())
	s.listenURL.Store(&u)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Dashboard listening on http://%s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down dashboard...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
