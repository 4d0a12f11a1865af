package view

import (
	"math"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"mapwidget/internal/geom"
	"mapwidget/internal/interact"
	"mapwidget/internal/style"
)

func near(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestViewportRoundTrip(t *testing.T) {
	v := NewViewport(39.0312, 45.0355, 14)
	v.W, v.H = 100, 30
	ll := v.LonLat(50, 15)
	// cell (50,15) is half a cell off the center
	if !near(ll[0], 39.0312, 0.001) || !near(ll[1], 45.0355, 0.001) {
		t.Errorf("unexpected center lon/lat %v", ll)
	}
	p := orb.Point{4345000, 5626000}
	back := v.FromPixel(v.ToPixel(p))
	if !near(back[0], p[0], 1e-6) || !near(back[1], p[1], 1e-6) {
		t.Errorf("round trip %v -> %v", p, back)
	}
}

func TestViewportZoomClamp(t *testing.T) {
	v := NewViewport(0, 0, 40)
	if v.Zoom != MaxZoom {
		t.Errorf("zoom should clamp to %v, got %v", MaxZoom, v.Zoom)
	}
	v.ZoomBy(-100)
	if v.Zoom != MinZoom {
		t.Errorf("zoom should clamp to %v, got %v", MinZoom, v.Zoom)
	}
}

func TestViewportPanAndZoomAt(t *testing.T) {
	v := NewViewport(0, 0, 10)
	v.W, v.H = 80, 24
	v.Pan(1, 0)
	if !near(v.Center[0], CellW*v.Resolution(), 1e-6) {
		t.Errorf("pan east moved center to %v", v.Center)
	}
	v.Pan(0, -1)
	if !near(v.Center[1], CellH*v.Resolution(), 1e-6) {
		t.Errorf("pan north moved center to %v", v.Center)
	}

	before := v.FromPixel(CellCenter(10, 5))
	v.ZoomAt(1, 10, 5)
	after := v.FromPixel(CellCenter(10, 5))
	if !near(before[0], after[0], 1e-6) || !near(before[1], after[1], 1e-6) {
		t.Errorf("anchor moved from %v to %v", before, after)
	}
}

func TestViewportFit(t *testing.T) {
	v := NewViewport(0, 0, 3)
	v.W, v.H = 80, 24
	b := orb.Bound{Min: orb.Point{39.0, 45.0}, Max: orb.Point{39.1, 45.1}}
	v.Fit(b)
	ll := v.LonLat(40, 12)
	if !near(ll[0], 39.05, 0.01) || !near(ll[1], 45.05, 0.01) {
		t.Errorf("fit center %v", ll)
	}
	vb := v.Bound()
	if vb.Max[0]-vb.Min[0] < 11131 {
		t.Errorf("fit view is narrower than the data: %v", vb)
	}
}

func TestClipSegment(t *testing.T) {
	a, b, ok := clipSegment(orb.Point{-10, 5}, orb.Point{20, 5}, 9, 9)
	if !ok || a[0] != 0 || b[0] != 9 {
		t.Errorf("unexpected clip %v %v %v", a, b, ok)
	}
	if _, _, ok := clipSegment(orb.Point{-10, -5}, orb.Point{-1, -1}, 9, 9); ok {
		t.Error("segment outside should be dropped")
	}
}

type sceneFixture struct {
	scene Scene
	point *geom.Feature
	line  *geom.Feature
	poly  *geom.Feature
}

func newScene(t *testing.T) sceneFixture {
	t.Helper()
	mk := func(layer string, g orb.Geometry, name string) *geom.Feature {
		f, err := geom.NewFeature(layer, g, map[string]any{"name": name})
		if err != nil {
			t.Fatal(err)
		}
		return f
	}
	point := mk("points", orb.Point{0, 0}, "P")
	line := mk("lines", orb.LineString{{-1, 0}, {1, 0}}, "L")
	poly := mk("polys", orb.Polygon{{{-0.1, -0.1}, {0.1, -0.1}, {0.1, 0.1}, {-0.1, 0.1}, {-0.1, -0.1}}}, "A")
	store := geom.NewStore(
		geom.Layer{Name: "points", Features: []*geom.Feature{point}},
		geom.Layer{Name: "lines", Features: []*geom.Feature{line}},
		geom.Layer{Name: "polys", Features: []*geom.Feature{poly}},
	)
	r := style.NewResolver(style.ThickWidth)
	book := style.NewBook()
	book.Reset(store.Features(), r)
	v := NewViewport(0, 0, 10)
	v.W, v.H = 80, 24
	return sceneFixture{
		scene: Scene{Viewport: v, Store: store, Hidden: map[string]bool{}, Book: book, Styles: r},
		point: point, line: line, poly: poly,
	}
}

func TestFeaturesAtPixelOrder(t *testing.T) {
	fx := newScene(t)
	got := fx.scene.FeaturesAtPixel(interact.Pixel{X: 40, Y: 12})
	want := []*geom.Feature{fx.poly, fx.line, fx.point}
	if len(got) != len(want) {
		t.Fatalf("expected %d hits, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("hit %d: got %q want %q", i, got[i].Name, want[i].Name)
		}
	}

	fx.scene.Hidden["polys"] = true
	got = fx.scene.FeaturesAtPixel(interact.Pixel{X: 40, Y: 12})
	if len(got) == 0 || got[0] != fx.line {
		t.Error("hidden layer should not be hit")
	}
}

func TestFeaturesAtPixelShapes(t *testing.T) {
	fx := newScene(t)
	cases := []struct {
		px   interact.Pixel
		want *geom.Feature
	}{
		// on the line, far from the polygon
		{interact.Pixel{X: 10, Y: 12}, fx.line},
		// polygon interior away from the line
		{interact.Pixel{X: 44, Y: 10}, fx.poly},
		// empty map
		{interact.Pixel{X: 10, Y: 3}, nil},
	}
	for _, c := range cases {
		got := fx.scene.FeaturesAtPixel(c.px)
		if c.want == nil {
			if len(got) != 0 {
				t.Errorf("%v: expected no hit, got %q", c.px, got[0].Name)
			}
			continue
		}
		if len(got) == 0 || got[0] != c.want {
			t.Errorf("%v: expected %q first, got %v", c.px, c.want.Name, got)
		}
	}
}

func TestRenderStylesAndTooltip(t *testing.T) {
	fx := newScene(t)
	fx.scene.Hidden["polys"] = true
	c := fx.scene.Render()
	cell := c.At(40, 12)
	if cell.Rune != pointGlyph || cell.Fg != style.DefaultFill {
		t.Errorf("expected default point glyph, got %q %s", cell.Rune, cell.Fg)
	}
	fx.scene.Book.Set(fx.point, fx.scene.Styles.For(geom.KindPoint, style.Highlight))
	fx.scene.Tooltip = interact.Tooltip{Pixel: interact.Pixel{X: 10, Y: 5}, Visible: true, Text: "Road B"}
	c = fx.scene.Render()
	if cell := c.At(40, 12); cell.Fg != style.HighlightFill {
		t.Errorf("expected highlight fill, got %s", cell.Fg)
	}
	if r := c.At(13, 5).Rune; r != 'R' {
		t.Errorf("tooltip text missing, got %q", r)
	}
	if cell := c.At(12, 5); cell.Bg != TooltipBg {
		t.Error("tooltip background missing")
	}
	if !strings.Contains(c.Plain(), "[+]") {
		t.Error("zoom control missing")
	}
	// the line is drawn with braille dots in the stroke color
	if cell := c.At(10, 12); cell.Rune < 0x2800 || cell.Rune > 0x28FF || cell.Fg != style.DefaultStroke {
		t.Errorf("expected braille line cell, got %q %s", cell.Rune, cell.Fg)
	}
}

func TestTooltipStaysInside(t *testing.T) {
	fx := newScene(t)
	fx.scene.Tooltip = interact.Tooltip{Pixel: interact.Pixel{X: 79, Y: 23}, Visible: true, Text: "A\nLongitude: 10\nLatitude: 20"}
	c := fx.scene.Render()
	lines := strings.Split(c.Plain(), "\n")
	if !strings.Contains(lines[23], "Latitude: 20") {
		t.Errorf("last tooltip line should be on the bottom row: %q", lines[23])
	}
}

func TestControlAt(t *testing.T) {
	if c, ok := ControlAt(80, 24, "© OSM", 1, 0); !ok || c.Name != ControlZoomIn {
		t.Error("expected zoom-in control")
	}
	if c, ok := ControlAt(80, 24, "© OSM", 2, 1); !ok || c.Name != ControlZoomOut {
		t.Error("expected zoom-out control")
	}
	if c, ok := ControlAt(80, 24, "© OSM", 79, 23); !ok || c.Name != ControlAttribution {
		t.Error("expected attribution control")
	}
	if _, ok := ControlAt(80, 24, "", 79, 23); ok {
		t.Error("no attribution without text")
	}
	if _, ok := ControlAt(80, 24, "", 40, 12); ok {
		t.Error("map center is not a control")
	}
}
