package tiles

import (
	"fmt"
	"image"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/project"
)

const (
	// Size is the pixel width and height of a tile.
	Size = 256
	// MaxCover bounds how many tiles one view may request.
	MaxCover = 64

	maxLat = 85.05
)

// Layer holds the tiles of the current zoom level. It is not safe for
// concurrent use; fetch results are handed to Put from the UI loop.
type Layer struct {
	Zoom maptile.Zoom
	// Dim scales tile colors so features stay readable on top.
	Dim float64

	tiles   map[maptile.Tile]image.Image
	pending map[maptile.Tile]bool
	failed  map[maptile.Tile]bool
}

func NewLayer() *Layer {
	return &Layer{
		Dim:     0.35,
		tiles:   make(map[maptile.Tile]image.Image),
		pending: make(map[maptile.Tile]bool),
		failed:  make(map[maptile.Tile]bool),
	}
}

// ZoomFor is the tile zoom used for a fractional view zoom.
func ZoomFor(z float64) maptile.Zoom {
	return maptile.Zoom(math.Max(0, math.Round(z)))
}

// Cover lists the tiles at zoom z under a mercator bound, capped at MaxCover.
func Cover(b orb.Bound, z maptile.Zoom) []maptile.Tile {
	lo := project.Point(b.Min, project.Mercator.ToWGS84)
	hi := project.Point(b.Max, project.Mercator.ToWGS84)
	clampLat := func(lat float64) float64 { return math.Max(-maxLat, math.Min(maxLat, lat)) }
	clampLon := func(lon float64) float64 { return math.Max(-180, math.Min(179.9999, lon)) }

	topLeft := maptile.At(orb.Point{clampLon(lo[0]), clampLat(hi[1])}, z)
	bottomRight := maptile.At(orb.Point{clampLon(hi[0]), clampLat(lo[1])}, z)

	var out []maptile.Tile
	for y := topLeft.Y; y <= bottomRight.Y; y++ {
		for x := topLeft.X; x <= bottomRight.X; x++ {
			if len(out) == MaxCover {
				return out
			}
			out = append(out, maptile.New(x, y, z))
		}
	}
	return out
}

// Missing returns the tiles of ts that are neither loaded, in flight nor
// failed, and marks them in flight.
func (l *Layer) Missing(ts []maptile.Tile) []maptile.Tile {
	var out []maptile.Tile
	for _, t := range ts {
		if l.tiles[t] != nil || l.pending[t] || l.failed[t] {
			continue
		}
		l.pending[t] = true
		out = append(out, t)
	}
	return out
}

// Put records a fetch result. A failed tile is not requested again.
func (l *Layer) Put(t maptile.Tile, img image.Image, err error) {
	delete(l.pending, t)
	if err != nil || img == nil {
		l.failed[t] = true
		return
	}
	l.tiles[t] = img
}

// Retain drops loaded tiles of other zoom levels.
func (l *Layer) Retain(z maptile.Zoom) {
	for t := range l.tiles {
		if t.Z != z {
			delete(l.tiles, t)
		}
	}
}

func (l *Layer) Loaded() int { return len(l.tiles) }

// ColorAt samples the loaded tile under a mercator point.
func (l *Layer) ColorAt(p orb.Point) (lipgloss.Color, bool) {
	ll := project.Point(p, project.Mercator.ToWGS84)
	if ll[1] > maxLat || ll[1] < -maxLat {
		return "", false
	}
	t := maptile.At(ll, l.Zoom)
	img := l.tiles[t]
	if img == nil {
		return "", false
	}
	f := maptile.Fraction(ll, l.Zoom)
	b := img.Bounds()
	px := b.Min.X + int((f[0]-float64(t.X))*float64(b.Dx()))
	py := b.Min.Y + int((f[1]-float64(t.Y))*float64(b.Dy()))
	px = min(max(px, b.Min.X), b.Max.X-1)
	py = min(max(py, b.Min.Y), b.Max.Y-1)

	r, g, bl, _ := img.At(px, py).RGBA()
	dim := func(v uint32) uint8 { return uint8(float64(v>>8) * l.Dim) }
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", dim(r), dim(g), dim(bl))), true
}
