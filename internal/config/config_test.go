package config

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.CenterLon != 39.0312 || c.CenterLat != 45.0355 || c.Zoom != 14 {
		t.Errorf("unexpected initial view %v %v %v", c.CenterLon, c.CenterLat, c.Zoom)
	}
}

func TestLoadPrecedence(t *testing.T) {
	env := filepath.Join(t.TempDir(), ".env")
	data := "MAPWIDGET_DATASET=countries\nMAPWIDGET_ZOOM=10\nMAPWIDGET_TILES=false\n"
	if err := os.WriteFile(env, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("MAPWIDGET_DATASET")
		os.Unsetenv("MAPWIDGET_TILES")
	})
	// the environment wins over the .env file, flags win over both
	t.Setenv("MAPWIDGET_ZOOM", "12")
	t.Setenv("MAPWIDGET_STROKE_WIDTH", "1")

	c, err := Load(env, []string{"-zoom", "15", "-log", "debug.log", "extra.geojson", "roads.kml"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Dataset != "countries" || c.Tiles {
		t.Errorf(".env values not applied: %+v", c)
	}
	if c.StrokeWidth != 1 {
		t.Errorf("expected stroke width 1 from the environment, got %v", c.StrokeWidth)
	}
	if c.Zoom != 15 {
		t.Errorf("expected zoom 15 from flags, got %v", c.Zoom)
	}
	if c.LogFile != "debug.log" {
		t.Errorf("unexpected log file %q", c.LogFile)
	}
	if !reflect.DeepEqual(c.Files, []string{"extra.geojson", "roads.kml"}) {
		t.Errorf("unexpected files %v", c.Files)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env"), nil); err != nil {
		t.Errorf("missing .env should be ignored: %v", err)
	}
}

func TestFromEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv("MAPWIDGET_ZOOM", "close")
	c := Default()
	if err := c.FromEnv(); err == nil {
		t.Error("expected error for a non-numeric zoom")
	}
}

func TestParseRejectsUnknownFlag(t *testing.T) {
	c := Default()
	if err := c.Parse([]string{"-bogus"}); err == nil {
		t.Error("expected error for an unknown flag")
	}
}

func TestParseHelp(t *testing.T) {
	c := Default()
	if err := c.Parse([]string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("expected flag.ErrHelp, got %v", err)
	}
	var buf bytes.Buffer
	c.Usage(&buf)
	for _, want := range []string{"-zoom", "-tile-url", ".geojson"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("usage missing %q", want)
		}
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		edit func(*Config)
	}{
		{"latitude", func(c *Config) { c.CenterLat = 86 }},
		{"longitude", func(c *Config) { c.CenterLon = -181 }},
		{"zoom", func(c *Config) { c.Zoom = 25 }},
		{"stroke", func(c *Config) { c.StrokeWidth = 2 }},
		{"dataset", func(c *Config) { c.Dataset = "rivers" }},
		{"tile url", func(c *Config) { c.TileURL = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.edit(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	c := Default()
	c.Tiles = false
	c.TileURL = ""
	if err := c.Validate(); err != nil {
		t.Errorf("tile URL is not needed without tiles: %v", err)
	}
}
