// Package view projects features onto the terminal, draws them and answers
// which feature is rendered at a cell.
package view

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

const (
	// CellW and CellH are the pixel size of one terminal cell.
	CellW = 8
	CellH = 16
	// SubW and SubH are the pixel size of one braille dot.
	SubW = CellW / 2
	SubH = CellH / 4

	MinZoom = 2.0
	MaxZoom = 19.0

	// meters per pixel at zoom 0 for 256px tiles
	earthResolution = 156543.03392804097
)

// Viewport is a web mercator view of W×H cells.
type Viewport struct {
	Center orb.Point // EPSG:3857 meters
	Zoom   float64
	W, H   int
}

func NewViewport(lon, lat, zoom float64) Viewport {
	return Viewport{
		Center: project.Point(orb.Point{lon, lat}, project.WGS84.ToMercator),
		Zoom:   clampZoom(zoom),
	}
}

func clampZoom(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// Resolution is meters per pixel.
func (v Viewport) Resolution() float64 {
	return earthResolution / math.Exp2(v.Zoom)
}

// ToPixel maps a mercator point to pixels from the top-left corner.
func (v Viewport) ToPixel(p orb.Point) orb.Point {
	res := v.Resolution()
	return orb.Point{
		(p[0]-v.Center[0])/res + float64(v.W*CellW)/2,
		(v.Center[1]-p[1])/res + float64(v.H*CellH)/2,
	}
}

// FromPixel is the inverse of ToPixel.
func (v Viewport) FromPixel(px orb.Point) orb.Point {
	res := v.Resolution()
	return orb.Point{
		v.Center[0] + (px[0]-float64(v.W*CellW)/2)*res,
		v.Center[1] - (px[1]-float64(v.H*CellH)/2)*res,
	}
}

// CellCenter is the pixel at the middle of cell (cx, cy).
func CellCenter(cx, cy int) orb.Point {
	return orb.Point{float64(cx*CellW) + CellW/2, float64(cy*CellH) + CellH/2}
}

// LonLat is the geographic position of a cell's center.
func (v Viewport) LonLat(cx, cy int) orb.Point {
	return project.Point(v.FromPixel(CellCenter(cx, cy)), project.Mercator.ToWGS84)
}

// Bound is the mercator extent currently on screen.
func (v Viewport) Bound() orb.Bound {
	a := v.FromPixel(orb.Point{0, 0})
	b := v.FromPixel(orb.Point{float64(v.W * CellW), float64(v.H * CellH)})
	return orb.Bound{Min: orb.Point{a[0], b[1]}, Max: orb.Point{b[0], a[1]}}
}

// Pan moves the view by whole cells; positive dx shows what lies east.
func (v *Viewport) Pan(dx, dy int) {
	res := v.Resolution()
	v.Center[0] += float64(dx*CellW) * res
	v.Center[1] -= float64(dy*CellH) * res
}

func (v *Viewport) ZoomBy(delta float64) {
	v.Zoom = clampZoom(v.Zoom + delta)
}

// ZoomAt zooms keeping the point under cell (cx, cy) fixed on screen.
func (v *Viewport) ZoomAt(delta float64, cx, cy int) {
	px := CellCenter(cx, cy)
	anchor := v.FromPixel(px)
	v.ZoomBy(delta)
	res := v.Resolution()
	v.Center = orb.Point{
		anchor[0] - (px[0]-float64(v.W*CellW)/2)*res,
		anchor[1] + (px[1]-float64(v.H*CellH)/2)*res,
	}
}

// Fit centers on a lon/lat bound and picks the closest zoom showing all of it.
func (v *Viewport) Fit(b orb.Bound) {
	lo := project.Point(b.Min, project.WGS84.ToMercator)
	hi := project.Point(b.Max, project.WGS84.ToMercator)
	v.Center = orb.Point{(lo[0] + hi[0]) / 2, (lo[1] + hi[1]) / 2}
	w, h := hi[0]-lo[0], hi[1]-lo[1]
	if w <= 0 && h <= 0 || v.W == 0 || v.H == 0 {
		return
	}
	res := math.Max(w/float64(v.W*CellW), h/float64(v.H*CellH))
	v.Zoom = clampZoom(math.Floor(math.Log2(earthResolution / res)))
}
