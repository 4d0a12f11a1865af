package tui

import (
	"sort"
	"strings"

	table "github.com/charmbracelet/bubbles/table"

	"mapwidget/internal/geom"
	"mapwidget/internal/interact"
)

// hiddenProps are shown in the drawer header rather than the table.
var hiddenProps = map[string]bool{"name": true, "country": true}

// propertyRows is the Current Object's properties sorted by key.
func propertyRows(cur *interact.CurrentObject) []table.Row {
	if cur == nil {
		return nil
	}
	keys := make([]string, 0, len(cur.Properties))
	for k := range cur.Properties {
		if !hiddenProps[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	rows := make([]table.Row, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, table.Row{k, geom.FormatValue(cur.Properties[k])})
	}
	return rows
}

// refreshTable rebuilds the drawer table for the Current Object.
func (m *Model) refreshTable(l layout) {
	// rows first: the table renders on SetColumns and must never see rows
	// wider than its columns
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tableColumns(l.drawer.w))
	m.tbl.SetRows(propertyRows(m.widget.Current()))
	m.tbl.GotoTop()
}

func tableColumns(drawerW int) []table.Column {
	inner := max(12, drawerW-6)
	kw := min(14, inner/3)
	return []table.Column{
		{Title: "Property", Width: kw},
		{Title: "Value", Width: max(4, inner-kw-2)},
	}
}

// summary is the clipboard text for the Current Object.
func summary(cur *interact.CurrentObject) string {
	var b strings.Builder
	b.WriteString("Country: " + cur.Country + "\n")
	b.WriteString("Name: " + cur.Name)
	for _, r := range propertyRows(cur) {
		b.WriteString("\n" + r[0] + ": " + r[1])
	}
	return b.String()
}
