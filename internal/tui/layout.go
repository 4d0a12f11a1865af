package tui

import (
	"mapwidget/internal/interact"
	"mapwidget/internal/view"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerLines  = 2
	// fullHelpHeight fits the status line and the longest FullHelp column
	fullHelpHeight = 5
	drawerWidth    = 44
	// modalShare is the percentage of the map height the panorama takes.
	modalShare = 60
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return r.w > 0 && r.h > 0 && x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// layout is the screen split for the current size and overlay state. The
// drawer and modal are in map-local cells and are drawn over the map.
type layout struct {
	contentW, contentH int

	sidebar rect
	mapArea rect
	drawer  rect
	modal   rect
}

func (m Model) layout() layout {
	var l layout
	l.contentH = max(4, m.height-headerHeight-m.footerHeight())
	l.contentW = max(10, m.width)

	x := 0
	if m.showSidebar {
		l.sidebar = rect{0, headerHeight, sidebarWidth, l.contentH}
		x = sidebarWidth + 1
	}
	l.mapArea = rect{x, headerHeight, max(10, l.contentW-x), l.contentH}

	right := l.mapArea.w
	if m.widget.DrawerVisible() {
		dw := min(drawerWidth, l.mapArea.w/2)
		l.drawer = rect{l.mapArea.w - dw, 0, dw, l.mapArea.h}
		right = l.drawer.x
	}
	if m.widget.ModalVisible() {
		mh := min(l.mapArea.h, max(8, l.mapArea.h*modalShare/100))
		l.modal = rect{0, l.mapArea.h - mh, right, mh}
	}
	return l
}

func (m Model) footerHeight() int {
	if m.help.ShowAll {
		return fullHelpHeight
	}
	return footerLines
}

// syncViewport sizes the viewport to the map area.
func (m *Model) syncViewport(l layout) {
	m.mp.vp.W, m.mp.vp.H = l.mapArea.w, l.mapArea.h
}

// classify resolves a screen cell to a map pixel and what lies there.
func (m Model) classify(l layout, x, y int) (interact.Pixel, interact.Target) {
	px := interact.Pixel{X: x - l.mapArea.x, Y: y - l.mapArea.y}
	if !l.mapArea.contains(x, y) || l.drawer.contains(px.X, px.Y) || l.modal.contains(px.X, px.Y) {
		return px, interact.TargetOutside
	}
	if _, ok := view.ControlAt(l.mapArea.w, l.mapArea.h, m.attribution, px.X, px.Y); ok {
		return px, interact.TargetControl
	}
	return px, interact.TargetMap
}
