package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	l := m.layout()
	contentWidth := l.contentW

	// Header
	title := " mapwidget ─ " + m.dataset + " "
	header := titleStyle.Render(title)
	header = lipgloss.NewStyle().Width(contentWidth).Padding(0).Render(header)

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Height(l.contentH).MaxHeight(l.contentH).Render(m.l.View())
	}

	// Map column
	var mapView string
	if m.pasteMode {
		ta := m.ta
		ta.SetWidth(l.mapArea.w)
		ta.SetHeight(min(l.mapArea.h, 12))
		mapView = lipgloss.NewStyle().Width(l.mapArea.w).Height(l.mapArea.h).Render(ta.View())
	} else {
		mapView = m.renderMap(l)
	}

	// Body row
	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	// Footer: status with pointer coordinates, then help
	st := dimStyle
	if m.statusErr {
		st = errStyle
	}
	coords := ""
	if m.hoverOK {
		coords = dimStyle.Render(fmt.Sprintf("  lon=%.5f lat=%.5f zoom=%.1f  ", m.hoverLL[0], m.hoverLL[1], m.mp.vp.Zoom))
	}
	status := st.MaxWidth(max(0, contentWidth-lipgloss.Width(coords))).Render(" " + m.status + " ")
	spacerW := max(0, contentWidth-lipgloss.Width(status))
	statusLine := lipgloss.JoinHorizontal(lipgloss.Top, status, lipgloss.PlaceHorizontal(spacerW, lipgloss.Right, coords))
	hp := m.help
	hp.Width = max(0, contentWidth-2)
	helpView := lipgloss.NewStyle().PaddingLeft(2).Render(hp.View(m.keys))
	footer := lipgloss.NewStyle().Width(contentWidth).MaxHeight(m.footerHeight()).Render(lipgloss.JoinVertical(lipgloss.Left, statusLine, helpView))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).MaxHeight(m.height).Render(ui)
}

// renderMap draws the canvas with the drawer and modal laid over it.
func (m Model) renderMap(l layout) string {
	sc := m.mp.scene(m.widget.Tooltip(), m.attribution)
	sc.Viewport.W, sc.Viewport.H = l.mapArea.w, l.mapArea.h
	canvas := sc.Render()

	var drawer, modal []string
	mapRight := l.mapArea.w
	if m.widget.DrawerVisible() {
		drawer = m.renderDrawer(l.drawer)
		mapRight = l.drawer.x
	}
	if m.widget.ModalVisible() {
		modal = m.renderModal(l.modal)
	}

	rows := make([]string, l.mapArea.h)
	for y := range rows {
		var b strings.Builder
		if modal != nil && y >= l.modal.y {
			b.WriteString(modal[y-l.modal.y])
		} else {
			b.WriteString(canvas.RenderRow(y, 0, mapRight))
		}
		if drawer != nil {
			b.WriteString(drawer[y])
		}
		rows[y] = b.String()
	}
	return strings.Join(rows, "\n")
}
