// Package interact holds the pointer interaction logic of the map widget:
// event dispatch, hover highlighting, click selection and overlay state.
// Nothing here touches the terminal; the tui package feeds it events.
package interact

import "mapwidget/internal/geom"

// Pixel is a cell of the map area, origin top-left.
type Pixel struct {
	X, Y int
}

// Target is what the pointer is over besides the map canvas.
type Target int

const (
	TargetMap Target = iota
	// TargetControl is map chrome drawn over the canvas (zoom buttons, attribution).
	TargetControl
	TargetOutside
)

type EventType int

const (
	PointerMove EventType = iota
	SingleClick
	DoubleClick
)

func (t EventType) String() string {
	switch t {
	case PointerMove:
		return "pointermove"
	case SingleClick:
		return "singleclick"
	case DoubleClick:
		return "dblclick"
	default:
		return "unknown"
	}
}

// Event is a map browser event.
type Event struct {
	Type     EventType
	Pixel    Pixel
	Target   Target
	Dragging bool

	stopped bool
}

// StopPropagation keeps the map's default action for this event from running.
func (e *Event) StopPropagation() { e.stopped = true }

func (e *Event) Stopped() bool { return e.stopped }

// HitTester resolves the features rendered at a pixel, topmost first.
type HitTester interface {
	FeaturesAtPixel(px Pixel) []*geom.Feature
}

// ListenerKey identifies a registration made with Map.On.
type ListenerKey struct {
	t  EventType
	id int
}

type listener struct {
	id int
	fn func(*Event)
}

// Map dispatches browser events to listeners, then to default actions.
type Map struct {
	hit       HitTester
	listeners map[EventType][]listener
	defaults  map[EventType]func(*Event)
	nextID    int
}

func NewMap(hit HitTester) *Map {
	return &Map{
		hit:       hit,
		listeners: map[EventType][]listener{},
		defaults:  map[EventType]func(*Event){},
	}
}

func (m *Map) SetHitTester(hit HitTester) { m.hit = hit }

// On registers fn for events of type t.
func (m *Map) On(t EventType, fn func(*Event)) ListenerKey {
	m.nextID++
	m.listeners[t] = append(m.listeners[t], listener{id: m.nextID, fn: fn})
	return ListenerKey{t: t, id: m.nextID}
}

// Un removes a listener. Unknown keys are ignored.
func (m *Map) Un(key ListenerKey) {
	ls := m.listeners[key.t]
	for i, l := range ls {
		if l.id == key.id {
			m.listeners[key.t] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

// SetDefault installs the action run after listeners unless one stops propagation.
func (m *Map) SetDefault(t EventType, fn func(*Event)) { m.defaults[t] = fn }

func (m *Map) ListenerCount() int {
	n := 0
	for _, ls := range m.listeners {
		n += len(ls)
	}
	return n
}

// Dispatch delivers ev to every listener in registration order.
func (m *Map) Dispatch(ev *Event) {
	for _, l := range append([]listener(nil), m.listeners[ev.Type]...) {
		l.fn(ev)
	}
	if !ev.stopped {
		if fn := m.defaults[ev.Type]; fn != nil {
			fn(ev)
		}
	}
}

// FeaturesAtPixel lists the features at px, topmost first.
func (m *Map) FeaturesAtPixel(px Pixel) []*geom.Feature {
	if m.hit == nil {
		return nil
	}
	return m.hit.FeaturesAtPixel(px)
}

// FeatureAtPixel is the topmost feature at px, nil when there is none.
func (m *Map) FeatureAtPixel(px Pixel) *geom.Feature {
	fs := m.FeaturesAtPixel(px)
	if len(fs) == 0 {
		return nil
	}
	return fs[0]
}
