package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// fitBlock renders s into exactly h lines of exactly w cells.
func fitBlock(s string, w, h int) []string {
	lines := strings.Split(s, "\n")
	out := make([]string, h)
	pad := lipgloss.NewStyle().Width(w).MaxWidth(w).MaxHeight(1)
	for i := range out {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		out[i] = pad.Render(line)
	}
	return out
}

// panel draws a bordered overlay box of w×h cells.
func panel(content string, w, h int) []string {
	box := panelStyle.Width(max(1, w-2)).Height(max(1, h-2)).MaxHeight(h).Render(content)
	return fitBlock(box, w, h)
}

// renderDrawer is the "Selected object" panel.
func (m Model) renderDrawer(r rect) []string {
	cur := m.widget.Current()
	inner := max(1, r.w-4)
	var b strings.Builder
	b.WriteString(titleStyle.Render("Selected object") + "\n\n")
	field := func(label, v string) {
		b.WriteString(labelStyle.Render(label) + lipgloss.NewStyle().MaxWidth(inner-9).Render(v) + "\n")
	}
	field("Country:", cur.Country)
	field("Name:", cur.Name)
	b.WriteString("\n")

	rows := len(m.tbl.Rows())
	if rows > 0 {
		t := m.tbl
		t.SetColumns(tableColumns(r.w))
		t.SetWidth(inner)
		t.SetHeight(min(rows+1, max(2, r.h-10)))
		b.WriteString(t.View() + "\n")
	} else {
		b.WriteString(dimStyle.Render("no properties") + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("esc close · y copy"))
	return panel(b.String(), r.w, r.h)
}

// renderModal is the panorama panel for the Current Object.
func (m Model) renderModal(r rect) []string {
	cur := m.widget.Current()
	inner := max(1, r.w-4)
	ph := max(1, r.h-2-3)
	cfg := m.pano.Config()
	yaw, pitch, hfov := m.pano.Orientation()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Panorama of object "+cur.Name) + "\n")
	b.WriteString(m.pano.Render(inner, ph) + "\n")
	info := fmt.Sprintf("%s · %s · yaw %.0f° pitch %.0f° fov %.0f°", cfg.Title, cfg.Description, yaw, pitch, hfov)
	b.WriteString(dimStyle.MaxWidth(inner).Render(info) + "\n")
	b.WriteString(dimStyle.MaxWidth(inner).Render("shift+arrows look · [ ] fov · r reset · esc close"))
	return panel(b.String(), r.w, r.h)
}
