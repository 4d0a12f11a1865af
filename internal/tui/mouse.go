package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mapwidget/internal/interact"
	"mapwidget/internal/view"
)

const wheelStep = 0.5

func (m *Model) dispatch(t interact.EventType, px interact.Pixel, target interact.Target, dragging bool) {
	m.events.Dispatch(&interact.Event{Type: t, Pixel: px, Target: target, Dragging: dragging})
}

// handleMouse turns terminal mouse reports into map browser events: a press
// may close overlays and starts a drag, motion pans or hovers, and a release
// that did not drag feeds the click detector.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.pasteMode {
		return m, nil
	}
	l := m.layout()
	m.syncViewport(l)
	px, target := m.classify(l, msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
			if target == interact.TargetMap {
				step := wheelStep
				if msg.Button == tea.MouseButtonWheelDown {
					step = -wheelStep
				}
				m.mp.vp.ZoomAt(step, px.X, px.Y)
				m.refreshHover()
			}
		case tea.MouseButtonLeft:
			local := func(r rect) bool { return r.contains(px.X, px.Y) && l.mapArea.contains(msg.X, msg.Y) }
			m.widget.PointerDownOutside(local(l.drawer), local(l.modal))
			switch target {
			case interact.TargetControl:
				m.pressControl(l, px)
				m.refreshHover()
			case interact.TargetMap:
				m.drag = dragState{active: true, x: msg.X, y: msg.Y}
			}
		}
	case tea.MouseActionMotion:
		m.pointer = pointerState{x: msg.X, y: msg.Y, seen: true}
		if m.drag.active {
			dx, dy := msg.X-m.drag.x, msg.Y-m.drag.y
			if dx != 0 || dy != 0 {
				m.drag.moved = true
				m.drag.x, m.drag.y = msg.X, msg.Y
				m.mp.vp.Pan(-dx, -dy)
				m.clicks.Cancel()
			}
			m.dispatch(interact.PointerMove, px, target, m.drag.moved)
			return m, nil
		}
		m.hover(l)
	case tea.MouseActionRelease:
		d := m.drag
		m.drag = dragState{}
		if !d.active || d.moved || target != interact.TargetMap {
			return m, nil
		}
		c := m.clicks.Release(px, m.now())
		if c.Flushed {
			m.fireSingleClick(l, c.Superseded)
		}
		if c.Double {
			m.dispatch(interact.DoubleClick, px, target, false)
			return m, nil
		}
		return m, tea.Tick(m.clicks.Delay, func(time.Time) tea.Msg { return singleClickMsg{seq: c.Seq} })
	}
	return m, nil
}

func (m *Model) pressControl(l layout, px interact.Pixel) {
	ctl, ok := view.ControlAt(l.mapArea.w, l.mapArea.h, m.attribution, px.X, px.Y)
	if !ok {
		return
	}
	switch ctl.Name {
	case view.ControlZoomIn:
		m.mp.vp.ZoomBy(1)
	case view.ControlZoomOut:
		m.mp.vp.ZoomBy(-1)
	case view.ControlAttribution:
		m.setStatus("map data " + m.attribution)
	}
}

// fireSingleClick dispatches the single click for the map-local cell px,
// classified against the current layout.
func (m *Model) fireSingleClick(l layout, px interact.Pixel) {
	_, target := m.classify(l, px.X+l.mapArea.x, px.Y+l.mapArea.y)
	m.dispatch(interact.SingleClick, px, target, false)
}

// hover runs the hover tracker at the last known pointer cell.
func (m *Model) hover(l layout) {
	px, target := m.classify(l, m.pointer.x, m.pointer.y)
	m.dispatch(interact.PointerMove, px, target, false)
	m.hoverOK = target == interact.TargetMap
	if m.hoverOK {
		m.hoverLL = m.mp.vp.LonLat(px.X, px.Y)
	}
}

// refreshHover re-resolves the hovered feature after the map under a still
// pointer changed: pan, zoom, layer visibility or new layers.
func (m *Model) refreshHover() {
	if !m.pointer.seen || m.drag.active {
		return
	}
	l := m.layout()
	m.syncViewport(l)
	m.hover(l)
}
