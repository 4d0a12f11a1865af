package interact

import "mapwidget/internal/geom"

// CurrentObject is the feature most recently picked by a click.
type CurrentObject struct {
	Country    string
	Name       string
	Properties map[string]any
}

func objectOf(f *geom.Feature) *CurrentObject {
	props := make(map[string]any, len(f.Properties))
	for k, v := range f.Properties {
		props[k] = v
	}
	return &CurrentObject{Country: f.Country(), Name: f.Name, Properties: props}
}

// Overlay names one of the two dialogs.
type Overlay int

const (
	Drawer Overlay = iota
	Modal
)

// Overlays is the selection state shared with the dialogs.
type Overlays struct {
	Current    *CurrentObject
	DrawerOpen bool
	ModalOpen  bool

	// open order, most recent last
	stack []Overlay
}

func (o *Overlays) open(which Overlay) {
	o.set(which, true)
	o.remove(which)
	o.stack = append(o.stack, which)
}

func (o *Overlays) close(which Overlay) {
	o.set(which, false)
	o.remove(which)
}

func (o *Overlays) set(which Overlay, v bool) {
	if which == Drawer {
		o.DrawerOpen = v
	} else {
		o.ModalOpen = v
	}
}

func (o *Overlays) remove(which Overlay) {
	for i, s := range o.stack {
		if s == which {
			o.stack = append(o.stack[:i:i], o.stack[i+1:]...)
			return
		}
	}
}

// Visible reports whether an overlay is shown: it needs an object and its flag.
func (o *Overlays) Visible(which Overlay) bool {
	if o.Current == nil {
		return false
	}
	if which == Drawer {
		return o.DrawerOpen
	}
	return o.ModalOpen
}

// Top is the most recently opened visible overlay.
func (o *Overlays) Top() (Overlay, bool) {
	for i := len(o.stack) - 1; i >= 0; i-- {
		if o.Visible(o.stack[i]) {
			return o.stack[i], true
		}
	}
	return 0, false
}

// Dispatcher opens the dialogs for clicked features.
type Dispatcher struct {
	m     *Map
	state *Overlays
}

func NewDispatcher(m *Map, state *Overlays) *Dispatcher {
	return &Dispatcher{m: m, state: state}
}

// OnSingleClick selects the feature and opens the drawer.
func (d *Dispatcher) OnSingleClick(ev *Event) {
	f := d.hit(ev)
	if f == nil {
		return
	}
	d.state.Current = objectOf(f)
	d.state.open(Drawer)
}

// OnDoubleClick selects the feature and opens the panorama modal. Clicking a
// feature keeps the map from zooming in.
func (d *Dispatcher) OnDoubleClick(ev *Event) {
	f := d.hit(ev)
	if f == nil {
		return
	}
	ev.StopPropagation()
	d.state.Current = objectOf(f)
	d.state.open(Modal)
}

func (d *Dispatcher) hit(ev *Event) *geom.Feature {
	if ev.Target != TargetMap {
		return nil
	}
	return d.m.FeatureAtPixel(ev.Pixel)
}
