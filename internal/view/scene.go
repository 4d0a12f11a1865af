package view

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"mapwidget/internal/geom"
	"mapwidget/internal/interact"
	"mapwidget/internal/style"
)

// Background supplies the base layer color under a mercator point.
type Background interface {
	ColorAt(p orb.Point) (lipgloss.Color, bool)
}

// Tooltip colors
var (
	TooltipFg = lipgloss.Color("#E6E6E6")
	TooltipBg = lipgloss.Color("#243141")
)

const pointGlyph = '●'

// Scene is everything needed to draw one frame. The same scene answers hit
// tests, so hidden layers are neither drawn nor hit.
type Scene struct {
	Viewport    Viewport
	Store       *geom.Store
	Hidden      map[string]bool
	Book        *style.Book
	Styles      *style.Resolver
	Background  Background
	Tooltip     interact.Tooltip
	Attribution string
}

func (s Scene) styleOf(f *geom.Feature) *style.Style {
	if st := s.Book.Of(f); st != nil {
		return st
	}
	return s.Styles.For(f.Kind, style.Default)
}

// Render draws the base layer, the features in layer order, the highlighted
// feature again on top, the controls and the tooltip.
func (s Scene) Render() *Canvas {
	v := s.Viewport
	c := NewCanvas(v.W, v.H)
	if s.Background != nil {
		for y := 0; y < v.H; y++ {
			for x := 0; x < v.W; x++ {
				if col, ok := s.Background.ColorAt(v.FromPixel(CellCenter(x, y))); ok {
					c.SetBg(x, y, col)
				}
			}
		}
	}
	var top []*geom.Feature
	if s.Store != nil {
		for _, l := range s.Store.Layers() {
			if s.Hidden[l.Name] {
				continue
			}
			for _, f := range l.Features {
				st := s.styleOf(f)
				if s.Styles.IsHighlight(st) {
					top = append(top, f)
					continue
				}
				s.draw(c, f, st)
			}
		}
	}
	for _, f := range top {
		s.draw(c, f, s.styleOf(f))
	}
	for _, ctl := range Controls(v.W, v.H, s.Attribution) {
		c.Text(ctl.X, ctl.Y, ctl.Label, TooltipFg, TooltipBg)
	}
	if s.Tooltip.Visible {
		s.drawTooltip(c)
	}
	return c
}

func (s Scene) draw(c *Canvas, f *geom.Feature, st *style.Style) {
	v := s.Viewport
	if !f.Bound.Intersects(padBound(v.Bound(), v.Resolution()*CellW)) {
		return
	}
	thick := st.Width >= style.ThickWidth
	switch g := f.Projected.(type) {
	case orb.Point:
		s.drawPoint(c, g, st)
	case orb.MultiPoint:
		for _, p := range g {
			s.drawPoint(c, p, st)
		}
	case orb.LineString:
		s.drawPath(c, g, false, st.Stroke, thick)
	case orb.MultiLineString:
		for _, ls := range g {
			s.drawPath(c, ls, false, st.Stroke, thick)
		}
	case orb.Ring:
		s.drawPath(c, g, true, st.Stroke, thick)
	case orb.Polygon:
		for _, r := range g {
			s.drawPath(c, r, true, st.Stroke, thick)
		}
	case orb.MultiPolygon:
		for _, poly := range g {
			for _, r := range poly {
				s.drawPath(c, r, true, st.Stroke, thick)
			}
		}
	}
}

func (s Scene) drawPoint(c *Canvas, p orb.Point, st *style.Style) {
	px := s.Viewport.ToPixel(p)
	x, y := int(math.Floor(px[0]/CellW)), int(math.Floor(px[1]/CellH))
	c.Put(x, y, pointGlyph, st.Fill, st.Width >= style.ThickWidth)
}

func (s Scene) drawPath(c *Canvas, pts []orb.Point, closed bool, col lipgloss.Color, thick bool) {
	n := len(pts)
	if n < 2 {
		return
	}
	maxX, maxY := float64(s.Viewport.W*2-1), float64(s.Viewport.H*4-1)
	segs := n - 1
	if closed {
		segs = n
	}
	for i := 0; i < segs; i++ {
		a := s.Viewport.ToPixel(pts[i])
		b := s.Viewport.ToPixel(pts[(i+1)%n])
		a = orb.Point{a[0] / SubW, a[1] / SubH}
		b = orb.Point{b[0] / SubW, b[1] / SubH}
		a, b, ok := clipSegment(a, b, maxX, maxY)
		if !ok {
			continue
		}
		c.Line(int(a[0]), int(a[1]), int(b[0]), int(b[1]), col, thick)
	}
}

// clipSegment clips a-b to [0,maxX]×[0,maxY] (Liang–Barsky).
func clipSegment(a, b orb.Point, maxX, maxY float64) (orb.Point, orb.Point, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := b[0]-a[0], b[1]-a[1]
	edges := [4][2]float64{
		{-dx, a[0]},
		{dx, maxX - a[0]},
		{-dy, a[1]},
		{dy, maxY - a[1]},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return a, b, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return a, b, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return orb.Point{a[0] + t0*dx, a[1] + t0*dy}, orb.Point{a[0] + t1*dx, a[1] + t1*dy}, true
}

// drawTooltip places the text right of the pointer, kept inside the canvas.
func (s Scene) drawTooltip(c *Canvas) {
	lines := splitLines(s.Tooltip.Text)
	w := 0
	for _, l := range lines {
		w = max(w, len([]rune(l)))
	}
	w += 2
	h := len(lines)
	x, y := s.Tooltip.Pixel.X+2, s.Tooltip.Pixel.Y
	if x+w > s.Viewport.W {
		x = s.Viewport.W - w
	}
	if y+h > s.Viewport.H {
		y = s.Viewport.H - h
	}
	x, y = max(0, x), max(0, y)
	for i, l := range lines {
		pad := []rune(" " + l)
		for len(pad) < w {
			pad = append(pad, ' ')
		}
		c.Text(x, y+i, string(pad), TooltipFg, TooltipBg)
	}
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

func padBound(b orb.Bound, d float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.Min[0] - d, b.Min[1] - d},
		Max: orb.Point{b.Max[0] + d, b.Max[1] + d},
	}
}

// hitSlop is how far from a shape, in cells, the pointer still hits it.
const hitSlop = 0.5

// FeaturesAtPixel implements interact.HitTester: topmost layer first, and
// within a layer the last drawn feature first.
func (s Scene) FeaturesAtPixel(px interact.Pixel) []*geom.Feature {
	if s.Store == nil {
		return nil
	}
	v := s.Viewport
	// hit testing runs in cell units so a cell is a unit square
	target := CellCenter(px.X, px.Y)
	target = orb.Point{target[0] / CellW, target[1] / CellH}
	pad := v.Resolution() * CellH * 2
	at := v.FromPixel(CellCenter(px.X, px.Y))
	probe := orb.Bound{Min: at, Max: at}

	layers := s.Store.Layers()
	var out []*geom.Feature
	for i := len(layers) - 1; i >= 0; i-- {
		if s.Hidden[layers[i].Name] {
			continue
		}
		fs := layers[i].Features
		for j := len(fs) - 1; j >= 0; j-- {
			f := fs[j]
			if !padBound(f.Bound, pad).Intersects(probe) {
				continue
			}
			if s.hits(f, target) {
				out = append(out, f)
			}
		}
	}
	return out
}

func (s Scene) hits(f *geom.Feature, target orb.Point) bool {
	st := s.styleOf(f)
	tol := hitSlop + st.Width/2/CellW
	toCells := func(p orb.Point) orb.Point {
		px := s.Viewport.ToPixel(p)
		return orb.Point{px[0] / CellW, px[1] / CellH}
	}
	nearPath := func(pts []orb.Point, closed bool) bool {
		n := len(pts)
		if n == 1 {
			return planar.Distance(toCells(pts[0]), target) <= tol
		}
		segs := n - 1
		if closed {
			segs = n
		}
		for i := 0; i < segs; i++ {
			if planar.DistanceFromSegment(toCells(pts[i]), toCells(pts[(i+1)%n]), target) <= tol {
				return true
			}
		}
		return false
	}
	inPolygon := func(poly orb.Polygon) bool {
		cp := make(orb.Polygon, 0, len(poly))
		for _, r := range poly {
			cr := make(orb.Ring, len(r))
			for i, p := range r {
				cr[i] = toCells(p)
			}
			if nearPath(cr, true) {
				return true
			}
			cp = append(cp, cr)
		}
		return planar.PolygonContains(cp, target)
	}
	pointTol := tol + st.Radius/CellW

	switch g := f.Projected.(type) {
	case orb.Point:
		return planar.Distance(toCells(g), target) <= pointTol
	case orb.MultiPoint:
		for _, p := range g {
			if planar.Distance(toCells(p), target) <= pointTol {
				return true
			}
		}
	case orb.LineString:
		return nearPath(g, false)
	case orb.MultiLineString:
		for _, ls := range g {
			if nearPath(ls, false) {
				return true
			}
		}
	case orb.Ring:
		return inPolygon(orb.Polygon{g})
	case orb.Polygon:
		return inPolygon(g)
	case orb.MultiPolygon:
		for _, poly := range g {
			if inPolygon(poly) {
				return true
			}
		}
	}
	return false
}
