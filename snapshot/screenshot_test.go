package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-dashboard/utils"
)

func TestNewScreenshotter_Defaults(t *testing.T) {
	s := NewScreenshotter(Options{}, 0, utils.NewNopLogger())

	assert.Equal(t, 1280, s.opts.Width)
	assert.Equal(t, 900, s.opts.Height)
	assert.Equal(t, time.Minute, s.opts.Timeout)
	assert.Equal(t, 100, s.opts.Quality)
}

func TestCapture_NoBrowser(t *testing.T) {
	if BrowserAvailable() {
		t.Skip("a Chrome binary is installed")
	}
	s := NewScreenshotter(Options{}, 0, utils.NewNopLogger())

	_, err := s.Capture(context.Background(), "http://127.0.0.1:1/")
	assert.ErrorIs(t, err, ErrNoBrowser)
}

func TestCaptureToFile(t *testing.T) {
	if !BrowserAvailable() {
		t.Skip("no Chrome binary installed")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><main id="dashboard"><h1>Catalog</h1></main></body></html>`)
	}))
	defer srv.Close()

	s := NewScreenshotter(Options{Width: 640, Height: 480, Timeout: 30 * time.Second}, 0, utils.NewNopLogger())
	path := filepath.Join(t.TempDir(), "shot.png")

	require.NoError(t, s.CaptureToFile(context.Background(), srv.URL, path))

	img, err := s.Capture(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, []byte("\x89PNG")))
}
