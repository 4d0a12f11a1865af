// Package config resolves the widget settings from defaults, a .env file,
// MAPWIDGET_* environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"mapwidget/internal/geom"
	"mapwidget/internal/panorama"
	"mapwidget/internal/style"
	"mapwidget/internal/tiles"
	"mapwidget/internal/view"
)

const envPrefix = "MAPWIDGET_"

// maxLat is the web mercator latitude limit.
const maxLat = 85.05

type Config struct {
	CenterLon   float64
	CenterLat   float64
	Zoom        float64
	StrokeWidth float64
	Dataset     string

	Tiles     bool
	TileURL   string
	TileCache string // empty means ~/.mapwidget/tiles

	Panorama   string
	AutoRotate float64

	LogFile string
	// Files are extra data layers given as positional arguments.
	Files []string
}

func Default() Config {
	return Config{
		CenterLon:   39.0312,
		CenterLat:   45.0355,
		Zoom:        14,
		StrokeWidth: style.ThickWidth,
		Dataset:     geom.DatasetDefault,
		Tiles:       true,
		TileURL:     tiles.DefaultURL,
		Panorama:    panorama.DefaultImage,
		AutoRotate:  panorama.DefaultAutoRotate,
	}
}

// Load builds the configuration for a run. A missing env file is not an error.
func Load(envFile string, args []string) (Config, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}
	c := Default()
	if err := c.FromEnv(); err != nil {
		return c, err
	}
	if err := c.Parse(args); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// FromEnv overrides fields from MAPWIDGET_* variables.
func (c *Config) FromEnv() error {
	var errs []error
	num := func(key string, dst *float64) {
		v, ok := os.LookupEnv(envPrefix + key)
		if !ok || v == "" {
			return
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
			return
		}
		*dst = f
	}
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	num("CENTER_LON", &c.CenterLon)
	num("CENTER_LAT", &c.CenterLat)
	num("ZOOM", &c.Zoom)
	num("STROKE_WIDTH", &c.StrokeWidth)
	num("AUTO_ROTATE", &c.AutoRotate)
	str("DATASET", &c.Dataset)
	str("TILE_URL", &c.TileURL)
	str("TILE_CACHE", &c.TileCache)
	str("PANORAMA", &c.Panorama)
	str("LOG", &c.LogFile)
	if v, ok := os.LookupEnv(envPrefix + "TILES"); ok && v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%sTILES: %w", envPrefix, err))
		} else {
			c.Tiles = b
		}
	}
	return errors.Join(errs...)
}

func (c *Config) flagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("mapwidget", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Float64Var(&c.CenterLon, "lon", c.CenterLon, "initial center longitude")
	fs.Float64Var(&c.CenterLat, "lat", c.CenterLat, "initial center latitude")
	fs.Float64Var(&c.Zoom, "zoom", c.Zoom, "initial zoom level")
	fs.Float64Var(&c.StrokeWidth, "stroke", c.StrokeWidth, "stroke width, 1 or 3")
	fs.StringVar(&c.Dataset, "dataset", c.Dataset, "bundled dataset: default or countries")
	fs.BoolVar(&c.Tiles, "tiles", c.Tiles, "draw the raster tile base layer")
	fs.StringVar(&c.TileURL, "tile-url", c.TileURL, "XYZ tile URL template")
	fs.StringVar(&c.TileCache, "tile-cache", c.TileCache, "tile cache directory (default: ~/.mapwidget/tiles)")
	fs.StringVar(&c.Panorama, "panorama", c.Panorama, "panorama image for the modal")
	fs.Float64Var(&c.AutoRotate, "auto-rotate", c.AutoRotate, "panorama idle rotation in degrees per second")
	fs.StringVar(&c.LogFile, "log", c.LogFile, "write debug log to this file")
	return fs
}

// Parse applies command-line flags on top of the current values. Remaining
// arguments are data files. -h returns flag.ErrHelp.
func (c *Config) Parse(args []string) error {
	fs := c.flagSet()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("parse flags: %w", err)
	}
	c.Files = append(c.Files, fs.Args()...)
	return nil
}

// Usage prints the command line help with the current values as defaults.
func (c Config) Usage(w io.Writer) {
	fs := c.flagSet()
	fs.SetOutput(w)
	fmt.Fprintf(w, "Usage: mapwidget [flags] [data files...]\n\nData files: %s\n\nFlags:\n", strings.Join(geom.SupportedExt, " "))
	fs.PrintDefaults()
}

func (c Config) Validate() error {
	var errs []error
	if c.CenterLon < -180 || c.CenterLon > 180 {
		errs = append(errs, fmt.Errorf("longitude %v out of range", c.CenterLon))
	}
	if c.CenterLat < -maxLat || c.CenterLat > maxLat {
		errs = append(errs, fmt.Errorf("latitude %v outside ±%v", c.CenterLat, maxLat))
	}
	if c.Zoom < view.MinZoom || c.Zoom > view.MaxZoom {
		errs = append(errs, fmt.Errorf("zoom %v outside [%v, %v]", c.Zoom, view.MinZoom, view.MaxZoom))
	}
	if c.StrokeWidth != style.ThinWidth && c.StrokeWidth != style.ThickWidth {
		errs = append(errs, fmt.Errorf("stroke width must be %v or %v, got %v", style.ThinWidth, style.ThickWidth, c.StrokeWidth))
	}
	known := false
	for _, d := range geom.Datasets {
		if d == c.Dataset {
			known = true
		}
	}
	if !known {
		errs = append(errs, fmt.Errorf("unknown dataset %q", c.Dataset))
	}
	if c.Tiles && c.TileURL == "" {
		errs = append(errs, errors.New("tile URL is empty"))
	}
	return errors.Join(errs...)
}
