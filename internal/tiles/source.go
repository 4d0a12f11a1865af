// Package tiles fetches raster XYZ tiles, keeps a disk cache of them and
// samples them as cell background colors.
package tiles

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb/maptile"
	_ "golang.org/x/image/webp"
)

const (
	DefaultURL         = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultAttribution = "© OpenStreetMap contributors"
	userAgent          = "Mozilla/5.0 (compatible; mapwidget/1.0)"
)

// Source is an XYZ tile server with a disk cache in front of it.
type Source struct {
	URL       string
	UserAgent string
	CacheDir  string
	Client    *http.Client
}

// NewSource creates a source for the URL template. If cacheDir is empty,
// uses ~/.mapwidget/tiles.
func NewSource(url, cacheDir string) (*Source, error) {
	if url == "" {
		url = DefaultURL
	}
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cacheDir = filepath.Join(home, ".mapwidget", "tiles")
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create tile cache: %w", err)
	}
	return &Source{
		URL:       url,
		UserAgent: userAgent,
		CacheDir:  cacheDir,
		Client:    &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// TileURL expands {z}, {x} and {y} in the template.
func (s *Source) TileURL(t maptile.Tile) string {
	r := strings.NewReplacer(
		"{z}", strconv.Itoa(int(t.Z)),
		"{x}", strconv.Itoa(int(t.X)),
		"{y}", strconv.Itoa(int(t.Y)),
	)
	return r.Replace(s.URL)
}

func (s *Source) cachePath(t maptile.Tile) string {
	return filepath.Join(s.CacheDir, strconv.Itoa(int(t.Z)), strconv.Itoa(int(t.X)), strconv.Itoa(int(t.Y))+".png")
}

// Fetch returns the decoded tile, reading the cache first.
func (s *Source) Fetch(ctx context.Context, t maptile.Tile) (image.Image, error) {
	path := s.cachePath(t)
	if data, err := os.ReadFile(path); err == nil {
		if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
			return img, nil
		}
		// corrupt cache entry, fetch again
	}

	data, err := s.download(ctx, t)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode tile %v: %w", t, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return img, fmt.Errorf("failed to create tile directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return img, fmt.Errorf("failed to cache tile: %w", err)
	}
	return img, nil
}

func (s *Source) download(ctx context.Context, t maptile.Tile) ([]byte, error) {
	url := s.TileURL(t)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download tile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tile download failed with status: %s (URL: %s)", resp.Status, url)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tile: %w", err)
	}
	return data, nil
}
