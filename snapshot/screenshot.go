package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"catalog-dashboard/utils"
)

// ErrNoBrowser is returned when no Chrome/Chromium binary can be found
var ErrNoBrowser = errors.New("no Chrome or Chromium binary found")

// browserNames are the executables chromedp's allocator looks for
var browserNames = []string{
	"headless_shell", "headless-shell", "chromium", "chromium-browser",
	"google-chrome", "google-chrome-stable", "chrome",
}

// Options controls the headless browser
type Options struct {
	Width   int
	Height  int
	Timeout time.Duration
	Quality int // PNG when 100, otherwise JPEG quality
}

// Screenshotter renders dashboard pages to images with headless Chrome
type Screenshotter struct {
	opts        Options
	logger      *utils.Logger
	rateLimiter *utils.RateLimiter
}

// NewScreenshotter creates a Screenshotter. delayMs spaces out renders.
func NewScreenshotter(opts Options, delayMs int, logger *utils.Logger) *Screenshotter {
	if opts.Width == 0 {
		opts.Width = 1280
	}
	if opts.Height == 0 {
		opts.Height = 900
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Minute
	}
	if opts.Quality == 0 {
		opts.Quality = 100
	}
	return &Screenshotter{
		opts:        opts,
		logger:      logger,
		rateLimiter: utils.NewRateLimiter(delayMs),
	}
}

// BrowserAvailable reports whether a Chrome binary is on PATH
func BrowserAvailable() bool {
	for _, name := range browserNames {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

// newContext creates a fresh chromedp context (one browser, one tab)
func (s *Screenshotter) newContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("log-level", "3"), // suppress Chrome logs
		chromedp.WindowSize(s.opts.Width, s.opts.Height),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	cancel := func() {
		cancelCtx()
		cancelAlloc()
	}
	return ctx, cancel
}

// Capture loads url and returns a full-page screenshot
func (s *Screenshotter) Capture(ctx context.Context, url string) ([]byte, error) {
	if !BrowserAvailable() {
		return nil, ErrNoBrowser
	}
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("Rendering %s in headless Chrome...", url)
	start := time.Now()

	ctx, cancelTimeout := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancelTimeout()

	ctx, cancel := s.newContext(ctx)
	defer cancel()

	var buf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(`#dashboard`, chromedp.ByQuery),
		chromedp.FullScreenshot(&buf, s.opts.Quality),
	)
	if err != nil {
		return nil, fmt.Errorf("screenshot of %s failed: %w", url, err)
	}

	s.logger.Info("Captured %d bytes in %v", len(buf), time.Since(start).Round(time.Millisecond))
	return buf, nil
}

// CaptureToFile renders url and writes the image to path
func (s *Screenshotter) CaptureToFile(ctx context.Context, url, path string) error {
	img, err := s.Capture(ctx, url)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, img, 0644); err != nil {
		return fmt.Errorf("failed to write screenshot: %w", err)
	}
	s.logger.Info("Dashboard screenshot written to: %s", path)
	return nil
}
