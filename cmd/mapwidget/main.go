package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"mapwidget/internal/config"
	"mapwidget/internal/debug"
	"mapwidget/internal/geom"
	"mapwidget/internal/panorama"
	"mapwidget/internal/tiles"
	"mapwidget/internal/tui"
)

func main() {
	cfg, err := config.Load(".env", os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		cfg.Usage(os.Stdout)
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.LogFile != "" {
		logFile, err := tea.LogToFile(cfg.LogFile, "mapwidget")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to create debug log: %v\n", err)
		} else {
			defer logFile.Close()
			debug.SetOutput(logFile)
			debug.Log("mapwidget debug log started")
		}
	}

	store, err := geom.Bundled(cfg.Dataset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load bundled data: %v\n", err)
		os.Exit(1)
	}
	for _, p := range cfg.Files {
		layer, err := geom.Load(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		debug.Log("loaded %s: %d features", p, len(layer.Features))
		store = store.WithLayer(layer)
	}

	var src *tiles.Source
	if cfg.Tiles {
		src, err = tiles.NewSource(cfg.TileURL, cfg.TileCache)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: tiles disabled: %v\n", err)
			src = nil
		}
	}

	pano := panorama.DefaultConfig()
	pano.ImageSource = cfg.Panorama
	pano.AutoRotate = cfg.AutoRotate

	m := tui.New(tui.Options{
		Store:       store,
		Dataset:     cfg.Dataset,
		Center:      orb.Point{cfg.CenterLon, cfg.CenterLat},
		Zoom:        cfg.Zoom,
		StrokeWidth: cfg.StrokeWidth,
		Tiles:       src,
		Panorama:    pano,
	})

	// Run with panic recovery to ensure terminal is always restored
	code := 0
	func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "\nPanic: %v\n", r)
				code = 1
			}
		}()
		if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			code = 1
		}
	}()
	if code != 0 {
		os.Exit(code)
	}
}
