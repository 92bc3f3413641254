// Package imageload resolves a floor-plan image resource and captures its
// pixel dimensions. Only the image header is decoded; the viewer never
// needs the pixel data itself, the rendering engine fetches that.
package imageload

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/planviz/floorview/pkg/core"

	// Registered decoders: standard raster formats plus the extended set
	// floor-plan exports commonly arrive in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Loader fetches image metadata over HTTP or from the local filesystem.
type Loader struct {
	httpClient *http.Client
}

// New creates a Loader with a default HTTP timeout. The timeout bounds
// the transport only; callers wanting tighter deadlines pass a context.
func New() *Loader {
	return &Loader{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Metrics loads the image at the given URL (http, https, or a bare file
// path) and returns its dimensions. It suspends until the resource loads
// or fails; failure is terminal for the caller's initialization, so no
// retry happens here.
func (l *Loader) Metrics(ctx context.Context, imageURL string) (core.ImageMetrics, error) {
	if strings.TrimSpace(imageURL) == "" {
		return core.ImageMetrics{}, fmt.Errorf("no floor plan URL provided")
	}

	u, err := url.Parse(imageURL)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return l.fetchRemote(ctx, imageURL)
	}
	return l.readLocal(imageURL)
}

func (l *Loader) fetchRemote(ctx context.Context, imageURL string) (core.ImageMetrics, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return core.ImageMetrics{}, fmt.Errorf("building image request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return core.ImageMetrics{}, fmt.Errorf("fetching floor plan image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.ImageMetrics{}, fmt.Errorf("fetching floor plan image: status %d", resp.StatusCode)
	}

	cfg, _, err := image.DecodeConfig(resp.Body)
	if err != nil {
		return core.ImageMetrics{}, fmt.Errorf("decoding floor plan image: %w", err)
	}
	return metricsFromConfig(cfg)
}

func (l *Loader) readLocal(path string) (core.ImageMetrics, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.ImageMetrics{}, fmt.Errorf("opening floor plan image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return core.ImageMetrics{}, fmt.Errorf("decoding floor plan image: %w", err)
	}
	return metricsFromConfig(cfg)
}

func metricsFromConfig(cfg image.Config) (core.ImageMetrics, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return core.ImageMetrics{}, fmt.Errorf("floor plan image has invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return core.ImageMetrics{Width: float64(cfg.Width), Height: float64(cfg.Height)}, nil
}
