package interact

import (
	"mapwidget/internal/geom"
	"mapwidget/internal/style"
)

// Tooltip is the floating label describing the hovered feature.
type Tooltip struct {
	Pixel   Pixel
	Visible bool
	Text    string
}

// HoverTracker keeps exactly the feature under the pointer highlighted.
type HoverTracker struct {
	m       *Map
	styles  *style.Resolver
	book    *style.Book
	current *geom.Feature
	tooltip Tooltip
}

func NewHoverTracker(m *Map, r *style.Resolver, b *style.Book) *HoverTracker {
	return &HoverTracker{m: m, styles: r, book: b}
}

// OnPointerMove is the pointermove handler.
func (h *HoverTracker) OnPointerMove(ev *Event) {
	// a drag pans the map
	if ev.Dragging {
		h.tooltip.Visible = false
		return
	}
	var f *geom.Feature
	if ev.Target == TargetMap {
		f = h.m.FeatureAtPixel(ev.Pixel)
	}
	if f == h.current {
		return
	}
	if h.current != nil {
		h.book.Set(h.current, h.styles.For(h.current.Kind, style.Default))
	}
	if f != nil {
		h.tooltip = Tooltip{Pixel: ev.Pixel, Visible: true, Text: TooltipText(f)}
		h.book.Set(f, h.styles.For(f.Kind, style.Highlight))
	} else {
		h.tooltip.Visible = false
	}
	h.current = f
}

func (h *HoverTracker) Hovered() *geom.Feature { return h.current }

func (h *HoverTracker) Tooltip() Tooltip { return h.tooltip }

// Reset un-highlights the hovered feature and hides the tooltip.
func (h *HoverTracker) Reset() {
	if h.current != nil {
		h.book.Set(h.current, h.styles.For(h.current.Kind, style.Default))
	}
	h.current = nil
	h.tooltip = Tooltip{}
}

// TooltipText describes f by its geometry kind. Missing values print empty.
func TooltipText(f *geom.Feature) string {
	switch f.Kind {
	case geom.KindPoint:
		var lon, lat string
		if c, ok := f.Coordinates(); ok {
			lon, lat = geom.FormatValue(c[0]), geom.FormatValue(c[1])
		}
		return f.Name + "\nLongitude: " + lon + "\nLatitude: " + lat
	case geom.KindLineString:
		return "Road " + f.Name
	case geom.KindPolygon:
		return "Area " + f.Name
	}
	return f.Name
}
