package interact

import (
	"mapwidget/internal/geom"
	"mapwidget/internal/style"
)

// Widget owns the interaction state of one map view between Mount and Unmount.
type Widget struct {
	styles *style.Resolver
	book   *style.Book

	m        *Map
	hover    *HoverTracker
	dispatch *Dispatcher
	overlays Overlays
	keys     []ListenerKey
}

func NewWidget(r *style.Resolver, b *style.Book) *Widget {
	return &Widget{styles: r, book: b}
}

// Mount attaches the pointermove, singleclick and dblclick listeners to m.
func (w *Widget) Mount(m *Map) {
	if w.m != nil {
		return
	}
	w.m = m
	w.hover = NewHoverTracker(m, w.styles, w.book)
	w.dispatch = NewDispatcher(m, &w.overlays)
	w.keys = []ListenerKey{
		m.On(PointerMove, w.hover.OnPointerMove),
		m.On(SingleClick, w.dispatch.OnSingleClick),
		m.On(DoubleClick, w.dispatch.OnDoubleClick),
	}
}

// Unmount detaches every listener and clears hover and selection state.
func (w *Widget) Unmount() {
	if w.m == nil {
		return
	}
	for _, k := range w.keys {
		w.m.Un(k)
	}
	w.keys = nil
	w.hover.Reset()
	w.overlays = Overlays{}
	w.m = nil
}

func (w *Widget) Mounted() bool { return w.m != nil }

func (w *Widget) Hovered() *geom.Feature {
	if w.hover == nil {
		return nil
	}
	return w.hover.Hovered()
}

func (w *Widget) Tooltip() Tooltip {
	if w.hover == nil {
		return Tooltip{}
	}
	return w.hover.Tooltip()
}

func (w *Widget) Current() *CurrentObject { return w.overlays.Current }

// DrawerVisible and ModalVisible combine the open flag with a selected object.
func (w *Widget) DrawerVisible() bool { return w.overlays.Visible(Drawer) }
func (w *Widget) ModalVisible() bool  { return w.overlays.Visible(Modal) }

// Overlays exposes the raw flags.
func (w *Widget) Overlays() Overlays { return w.overlays }

// Select picks f as if it had been clicked.
func (w *Widget) Select(f *geom.Feature) {
	if w.m == nil || f == nil {
		return
	}
	w.overlays.Current = objectOf(f)
	w.overlays.open(Drawer)
}

func (w *Widget) CloseDrawer() { w.overlays.close(Drawer) }
func (w *Widget) CloseModal()  { w.overlays.close(Modal) }

// Escape closes the most recently opened visible overlay.
func (w *Widget) Escape() bool {
	top, ok := w.overlays.Top()
	if !ok {
		return false
	}
	w.overlays.close(top)
	return true
}

// PointerDownOutside closes each visible overlay the press landed outside of.
func (w *Widget) PointerDownOutside(inDrawer, inModal bool) {
	if w.DrawerVisible() && !inDrawer {
		w.CloseDrawer()
	}
	if w.ModalVisible() && !inModal {
		w.CloseModal()
	}
}
