package style

import (
	"testing"

	"github.com/paulmach/orb"

	"mapwidget/internal/geom"
)

func TestResolverPalette(t *testing.T) {
	r := NewResolver(ThickWidth)
	pt := r.For(geom.KindPoint, Default)
	if pt.Fill != "#88b1cb" || pt.Stroke != "#8477e9" || pt.Width != 3 || pt.Radius != 5 {
		t.Errorf("unexpected default point style %+v", *pt)
	}
	hl := r.For(geom.KindPoint, Highlight)
	if hl.Fill != "#74e485" || hl.Stroke != "#2be634" || hl.Width != 3 || hl.Radius != 5 {
		t.Errorf("unexpected highlight point style %+v", *hl)
	}
	line := r.For(geom.KindLineString, Default)
	if line.Fill != "" || line.Stroke != "#8477e9" {
		t.Errorf("line style should carry only a stroke: %+v", *line)
	}
	if NewResolver(ThinWidth).For(geom.KindPolygon, Highlight).Width != 1 {
		t.Error("thin variant should use width 1")
	}
}

func TestResolverSharesValues(t *testing.T) {
	r := NewResolver(ThickWidth)
	if r.For(geom.KindPoint, Default) != r.For(geom.KindPoint, Default) {
		t.Error("styles should be shared, not rebuilt")
	}
	if !r.IsHighlight(r.For(geom.KindPolygon, Highlight)) {
		t.Error("polygon highlight not recognised")
	}
	if r.IsHighlight(r.For(geom.KindLineString, Default)) {
		t.Error("default style reported as highlight")
	}
}

func TestBook(t *testing.T) {
	r := NewResolver(ThickWidth)
	a, _ := geom.NewFeature("l", orb.Point{0, 0}, nil)
	b, _ := geom.NewFeature("l", orb.LineString{{0, 0}, {1, 1}}, nil)
	book := NewBook()
	if book.Of(a) != nil {
		t.Error("unassigned feature should have no style")
	}
	book.Reset([]*geom.Feature{a, b}, r)
	if book.Of(b) != r.For(geom.KindLineString, Default) {
		t.Error("reset should assign defaults")
	}
	if book.Mutations() != 0 {
		t.Errorf("reset should clear mutations, got %d", book.Mutations())
	}
	book.Set(a, r.For(geom.KindPoint, Highlight))
	if book.Mutations() != 1 {
		t.Errorf("expected 1 mutation, got %d", book.Mutations())
	}
	hl := book.Highlighted(r)
	if len(hl) != 1 || hl[0] != a {
		t.Errorf("expected only a highlighted, got %v", hl)
	}
}
