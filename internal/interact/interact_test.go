package interact

import (
	"testing"
	"time"

	"github.com/paulmach/orb"

	"mapwidget/internal/geom"
	"mapwidget/internal/style"
)

// stubHits returns fixed features per pixel and counts lookups.
type stubHits struct {
	at    map[Pixel][]*geom.Feature
	calls int
}

func (s *stubHits) FeaturesAtPixel(px Pixel) []*geom.Feature {
	s.calls++
	return s.at[px]
}

func mustFeature(t *testing.T, g orb.Geometry, props map[string]any) *geom.Feature {
	t.Helper()
	f, err := geom.NewFeature("test", g, props)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

type fixture struct {
	hits     *stubHits
	m        *Map
	w        *Widget
	r        *style.Resolver
	book     *style.Book
	point    *geom.Feature
	road     *geom.Feature
	area     *geom.Feature
	features []*geom.Feature
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	point := mustFeature(t, orb.Point{10, 20}, map[string]any{"name": "A", "coordinates": []any{10.0, 20.0}})
	road := mustFeature(t, orb.LineString{{0, 0}, {1, 1}}, map[string]any{"name": "Lenina"})
	area := mustFeature(t, orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}, map[string]any{"name": "Central", "country": "X"})
	hits := &stubHits{at: map[Pixel][]*geom.Feature{
		{1, 1}: {point},
		{2, 2}: {road},
		{3, 3}: {area},
		// overlapping: area drawn above the road
		{4, 4}: {area, road},
	}}
	r := style.NewResolver(style.ThickWidth)
	book := style.NewBook()
	features := []*geom.Feature{point, road, area}
	book.Reset(features, r)
	m := NewMap(hits)
	w := NewWidget(r, book)
	w.Mount(m)
	return &fixture{hits: hits, m: m, w: w, r: r, book: book, point: point, road: road, area: area, features: features}
}

func (fx *fixture) move(x, y int) {
	fx.m.Dispatch(&Event{Type: PointerMove, Pixel: Pixel{x, y}})
}

// assertStyles checks that at most the wanted feature is highlighted.
func (fx *fixture) assertStyles(t *testing.T, hovered *geom.Feature) {
	t.Helper()
	for _, f := range fx.features {
		want := fx.r.For(f.Kind, style.Default)
		if f == hovered {
			want = fx.r.For(f.Kind, style.Highlight)
		}
		if got := fx.book.Of(f); got != want {
			t.Errorf("feature %q: wrong style %+v", f.Name, got)
		}
	}
	if n := len(fx.book.Highlighted(fx.r)); (hovered == nil && n != 0) || (hovered != nil && n != 1) {
		t.Errorf("expected at most one highlighted feature, got %d", n)
	}
}

func TestHoverHighlightsOneFeature(t *testing.T) {
	fx := newFixture(t)
	steps := []struct {
		px   Pixel
		want *geom.Feature
	}{
		{Pixel{1, 1}, fx.point},
		{Pixel{2, 2}, fx.road},
		{Pixel{9, 9}, nil},
		{Pixel{3, 3}, fx.area},
		{Pixel{4, 4}, fx.area},
		{Pixel{1, 1}, fx.point},
		{Pixel{0, 0}, nil},
	}
	for _, s := range steps {
		fx.move(s.px.X, s.px.Y)
		if fx.w.Hovered() != s.want {
			t.Fatalf("at %v: hovered %v, want %v", s.px, fx.w.Hovered(), s.want)
		}
		fx.assertStyles(t, s.want)
		if tip := fx.w.Tooltip(); tip.Visible != (s.want != nil) {
			t.Errorf("at %v: tooltip visible=%v", s.px, tip.Visible)
		}
	}
}

func TestHoverSameFeatureIsNoop(t *testing.T) {
	fx := newFixture(t)
	fx.move(1, 1)
	before := fx.book.Mutations()
	tip := fx.w.Tooltip()
	fx.m.Dispatch(&Event{Type: PointerMove, Pixel: Pixel{1, 1}})
	if fx.book.Mutations() != before {
		t.Errorf("re-hover mutated styles: %d -> %d", before, fx.book.Mutations())
	}
	if fx.w.Tooltip() != tip {
		t.Error("re-hover changed the tooltip")
	}
}

func TestHoverDraggingHidesTooltip(t *testing.T) {
	fx := newFixture(t)
	fx.move(1, 1)
	calls := fx.hits.calls
	mutations := fx.book.Mutations()
	fx.m.Dispatch(&Event{Type: PointerMove, Pixel: Pixel{2, 2}, Dragging: true})
	if fx.hits.calls != calls {
		t.Error("dragging should not hit-test")
	}
	if fx.w.Tooltip().Visible {
		t.Error("dragging should hide the tooltip")
	}
	if fx.book.Mutations() != mutations || fx.w.Hovered() != fx.point {
		t.Error("dragging should not change hover state")
	}
}

func TestHoverOverControl(t *testing.T) {
	fx := newFixture(t)
	fx.m.Dispatch(&Event{Type: PointerMove, Pixel: Pixel{1, 1}, Target: TargetControl})
	if fx.w.Hovered() != nil {
		t.Error("control region must not highlight the feature below")
	}
	fx.move(1, 1)
	fx.m.Dispatch(&Event{Type: PointerMove, Pixel: Pixel{1, 1}, Target: TargetControl})
	if fx.w.Hovered() != nil || fx.w.Tooltip().Visible {
		t.Error("moving onto a control should clear the highlight")
	}
	fx.assertStyles(t, nil)
}

func TestTooltipText(t *testing.T) {
	fx := newFixture(t)
	cases := []struct {
		f    *geom.Feature
		want string
	}{
		{fx.point, "A\nLongitude: 10\nLatitude: 20"},
		{mustFeature(t, orb.LineString{{0, 0}, {1, 1}}, map[string]any{"name": "B"}), "Road B"},
		{mustFeature(t, orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}, map[string]any{"name": "C"}), "Area C"},
		{mustFeature(t, orb.LineString{{0, 0}, {1, 1}}, nil), "Road "},
	}
	for _, c := range cases {
		if got := TooltipText(c.f); got != c.want {
			t.Errorf("TooltipText = %q, want %q", got, c.want)
		}
	}
	fx.move(1, 1)
	tip := fx.w.Tooltip()
	if tip.Pixel != (Pixel{1, 1}) || tip.Text != "A\nLongitude: 10\nLatitude: 20" {
		t.Errorf("unexpected tooltip %+v", tip)
	}
}

func TestSingleClickOpensDrawer(t *testing.T) {
	fx := newFixture(t)
	fx.m.Dispatch(&Event{Type: SingleClick, Pixel: Pixel{3, 3}})
	cur := fx.w.Current()
	if cur == nil || cur.Name != "Central" || cur.Country != "X" {
		t.Fatalf("unexpected current object %+v", cur)
	}
	if !fx.w.DrawerVisible() {
		t.Error("drawer should be open")
	}
	if fx.w.Overlays().ModalOpen {
		t.Error("modal flag should be unchanged")
	}
}

func TestSingleClickOnEmptyMap(t *testing.T) {
	fx := newFixture(t)
	fx.m.Dispatch(&Event{Type: SingleClick, Pixel: Pixel{9, 9}})
	if fx.w.Current() != nil || fx.w.Overlays().DrawerOpen {
		t.Error("empty click should not change state")
	}
}

func TestDoubleClickOpensModal(t *testing.T) {
	for _, drawerOpen := range []bool{false, true} {
		fx := newFixture(t)
		if drawerOpen {
			fx.m.Dispatch(&Event{Type: SingleClick, Pixel: Pixel{3, 3}})
		}
		zoomed := false
		fx.m.SetDefault(DoubleClick, func(*Event) { zoomed = true })
		fx.m.Dispatch(&Event{Type: DoubleClick, Pixel: Pixel{2, 2}})
		if !fx.w.ModalVisible() || fx.w.Current().Name != "Lenina" {
			t.Errorf("modal should show Lenina, got %+v", fx.w.Current())
		}
		if fx.w.Overlays().DrawerOpen != drawerOpen {
			t.Errorf("drawer flag changed from %v", drawerOpen)
		}
		if zoomed {
			t.Error("double click on a feature should stop the default zoom")
		}
	}
}

func TestDoubleClickEmptyRunsDefault(t *testing.T) {
	fx := newFixture(t)
	zoomed := false
	fx.m.SetDefault(DoubleClick, func(*Event) { zoomed = true })
	fx.m.Dispatch(&Event{Type: DoubleClick, Pixel: Pixel{9, 9}})
	if !zoomed {
		t.Error("double click on empty map should run the default action")
	}
	if fx.w.ModalVisible() {
		t.Error("modal should stay closed")
	}
}

func TestOverlapPicksTopmost(t *testing.T) {
	fx := newFixture(t)
	fx.m.Dispatch(&Event{Type: SingleClick, Pixel: Pixel{4, 4}})
	if fx.w.Current().Name != "Central" {
		t.Errorf("expected topmost feature, got %s", fx.w.Current().Name)
	}
}

func TestCloseKeepsCurrentObject(t *testing.T) {
	fx := newFixture(t)
	fx.m.Dispatch(&Event{Type: SingleClick, Pixel: Pixel{3, 3}})
	fx.w.CloseDrawer()
	if fx.w.DrawerVisible() {
		t.Error("drawer should be closed")
	}
	if fx.w.Current() == nil {
		t.Error("current object should persist until the next selection")
	}
}

func TestEscapeClosesMostRecent(t *testing.T) {
	fx := newFixture(t)
	fx.m.Dispatch(&Event{Type: SingleClick, Pixel: Pixel{3, 3}})
	fx.m.Dispatch(&Event{Type: DoubleClick, Pixel: Pixel{2, 2}})
	if !fx.w.Escape() || fx.w.ModalVisible() || !fx.w.DrawerVisible() {
		t.Fatal("first escape should close the modal only")
	}
	if !fx.w.Escape() || fx.w.DrawerVisible() {
		t.Fatal("second escape should close the drawer")
	}
	if fx.w.Escape() {
		t.Error("nothing left to close")
	}
}

func TestPointerDownOutside(t *testing.T) {
	fx := newFixture(t)
	fx.m.Dispatch(&Event{Type: SingleClick, Pixel: Pixel{3, 3}})
	fx.m.Dispatch(&Event{Type: DoubleClick, Pixel: Pixel{2, 2}})
	fx.w.PointerDownOutside(false, true)
	if fx.w.DrawerVisible() || !fx.w.ModalVisible() {
		t.Error("press inside the modal should close only the drawer")
	}
}

func TestUnmountDetachesListeners(t *testing.T) {
	fx := newFixture(t)
	if fx.m.ListenerCount() != 3 {
		t.Fatalf("expected 3 listeners, got %d", fx.m.ListenerCount())
	}
	fx.move(1, 1)
	fx.m.Dispatch(&Event{Type: SingleClick, Pixel: Pixel{3, 3}})
	fx.w.Unmount()
	if fx.m.ListenerCount() != 0 {
		t.Errorf("listeners left after unmount: %d", fx.m.ListenerCount())
	}
	if fx.w.Current() != nil || fx.w.Hovered() != nil || fx.w.Tooltip().Visible {
		t.Error("unmount should clear state")
	}
	fx.assertStyles(t, nil)

	mutations := fx.book.Mutations()
	fx.move(2, 2)
	fx.m.Dispatch(&Event{Type: SingleClick, Pixel: Pixel{3, 3}})
	fx.m.Dispatch(&Event{Type: DoubleClick, Pixel: Pixel{2, 2}})
	if fx.book.Mutations() != mutations || fx.w.Current() != nil || fx.w.Hovered() != nil {
		t.Error("late events mutated state after unmount")
	}
	fx.w.Select(fx.point)
	if fx.w.Current() != nil {
		t.Error("select after unmount should be ignored")
	}
	fx.w.Unmount()
}

func TestMapUnUnknownKey(t *testing.T) {
	m := NewMap(nil)
	k := m.On(PointerMove, func(*Event) {})
	m.Un(ListenerKey{t: SingleClick, id: 42})
	if m.ListenerCount() != 1 {
		t.Error("unknown key removed a listener")
	}
	m.Un(k)
	m.Un(k)
	if m.ListenerCount() != 0 {
		t.Error("listener not removed")
	}
	if m.FeatureAtPixel(Pixel{}) != nil {
		t.Error("map without hit tester should find nothing")
	}
}

func TestClickDetector(t *testing.T) {
	d := NewClickDetector()
	t0 := time.Unix(0, 0)

	c := d.Release(Pixel{5, 5}, t0)
	if c.Double || c.Flushed {
		t.Fatal("first release cannot be a double click")
	}
	seq := c.Seq
	if c = d.Release(Pixel{6, 5}, t0.Add(100*time.Millisecond)); !c.Double {
		t.Fatal("second nearby release within the delay should be a double click")
	}
	if _, ok := d.Expire(seq); ok {
		t.Error("double click should swallow the pending single click")
	}

	seq = d.Release(Pixel{5, 5}, t0.Add(time.Second)).Seq
	if px, ok := d.Expire(seq); !ok || px != (Pixel{5, 5}) {
		t.Error("lone release should become a single click")
	}
	if _, ok := d.Expire(seq); ok {
		t.Error("single click fired twice")
	}

	first := d.Release(Pixel{5, 5}, t0.Add(2*time.Second)).Seq
	c = d.Release(Pixel{20, 5}, t0.Add(2*time.Second+50*time.Millisecond))
	if c.Double {
		t.Error("far release should not pair up")
	}
	if !c.Flushed || c.Superseded != (Pixel{5, 5}) {
		t.Errorf("far release should flush the first click, got %+v", c)
	}
	if _, ok := d.Expire(first); ok {
		t.Error("flushed click should not fire again on expiry")
	}
	if px, ok := d.Expire(c.Seq); !ok || px != (Pixel{20, 5}) {
		t.Error("latest release should fire")
	}

	// a pending click whose expiry is still in flight is flushed, not lost
	late := d.Release(Pixel{5, 5}, t0.Add(4*time.Second)).Seq
	if c = d.Release(Pixel{5, 5}, t0.Add(5*time.Second)); c.Double || !c.Flushed {
		t.Errorf("release after the delay should flush the pending click, got %+v", c)
	}
	if _, ok := d.Expire(late); ok {
		t.Error("flushed click should not fire again on expiry")
	}

	seq = d.Release(Pixel{1, 1}, t0.Add(6*time.Second)).Seq
	d.Cancel()
	if _, ok := d.Expire(seq); ok {
		t.Error("cancelled click should not fire")
	}
}
