package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"mapwidget/internal/geom"
)

type featureItem struct {
	f *geom.Feature
}

func (i featureItem) Title() string {
	if i.f.Name == "" {
		return "(unnamed)"
	}
	return i.f.Name
}
func (i featureItem) Description() string { return i.f.Layer + " · " + i.f.Kind.String() }
func (i featureItem) FilterValue() string { return i.f.Name }

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) toggleSidebar(mode sidebarMode) {
	if m.showSidebar && m.sidebar == mode {
		m.showSidebar = false
		return
	}
	m.showSidebar = true
	m.sidebar = mode
	m.l.ResetFilter()
	if mode == sidebarFeatures {
		m.refreshFeatures()
	} else {
		m.refreshDir()
	}
}

// refreshFeatures lists every feature, top layer first.
func (m *Model) refreshFeatures() {
	m.l.Title = "Features"
	layers := m.mp.store.Layers()
	var items []list.Item
	for i := len(layers) - 1; i >= 0; i-- {
		for _, f := range layers[i].Features {
			items = append(items, featureItem{f: f})
		}
	}
	m.l.SetItems(items)
}

// refreshDir lists the loadable data files of the working directory.
func (m *Model) refreshDir() {
	m.l.Title = "Files"
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.setError("read dir error: " + err.Error())
		return
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if slices.Contains(geom.SupportedExt, ext) {
			items = append(items, fileItem{title: name, desc: ext, path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.l.SetItems(items)
	if len(items) == 0 {
		m.setStatus("no supported files in current directory")
	}
}

func (m *Model) selectListItem() {
	switch it := m.l.SelectedItem().(type) {
	case featureItem:
		m.widget.Select(it.f)
		m.mp.vp.Center = it.f.Bound.Center()
		m.setStatus("selected " + it.Title())
	case fileItem:
		m.loadPath(it.path)
	}
}

// loadPath adds a data file as a new layer.
func (m *Model) loadPath(p string) {
	layer, err := geom.Load(p)
	if err != nil {
		m.setError("load error: " + err.Error())
		return
	}
	m.addLayer(layer)
	if len(layer.Features) > 0 {
		m.setStatus(fmt.Sprintf("loaded: %s  features: %d", filepath.Base(p), len(layer.Features)))
	}
}
