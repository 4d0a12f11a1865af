package tui

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb/maptile"

	"mapwidget/internal/debug"
	"mapwidget/internal/geom"
	"mapwidget/internal/panorama"
	"mapwidget/internal/tiles"
)

const (
	tileTimeout = 20 * time.Second
	panoFrame   = 100 * time.Millisecond
	lookStep    = 10.0
	fovStep     = 10.0
)

type singleClickMsg struct{ seq int }

type tileMsg struct {
	tile maptile.Tile
	img  image.Image
	err  error
}

type panoramaMsg struct {
	img image.Image
	err error
}

type panoTickMsg time.Time

func fetchTile(src *tiles.Source, t maptile.Tile) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), tileTimeout)
		defer cancel()
		img, err := src.Fetch(ctx, t)
		return tileMsg{tile: t, img: img, err: err}
	}
}

func loadPanorama(path string) tea.Cmd {
	return func() tea.Msg {
		img, err := panorama.Load(path)
		return panoramaMsg{img: img, err: err}
	}
}

func panoTick() tea.Cmd {
	return tea.Tick(panoFrame, func(t time.Time) tea.Msg { return panoTickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		m, cmd = m.handleKey(msg)
	case tea.MouseMsg:
		m, cmd = m.handleMouse(msg)
	case singleClickMsg:
		if px, ok := m.clicks.Expire(msg.seq); ok {
			l := m.layout()
			m.syncViewport(l)
			m.fireSingleClick(l, px)
		}
	case tileMsg:
		if msg.err != nil {
			debug.Log("tile %d/%d/%d: %v", msg.tile.Z, msg.tile.X, msg.tile.Y, msg.err)
		}
		if m.mp.base != nil {
			// a fetched tile that failed to cache is still usable
			if msg.img != nil {
				msg.err = nil
			}
			m.mp.base.Put(msg.tile, msg.img, msg.err)
		}
	case panoramaMsg:
		m.panoLoading = false
		m.pano.SetImage(msg.img, msg.err)
		if msg.err != nil {
			debug.Log("panorama: %v", msg.err)
			m.setError("panorama unavailable: " + msg.err.Error())
		}
	case panoTickMsg:
		if !m.widget.ModalVisible() {
			m.panoTicking = false
			return m, nil
		}
		m.pano.Tick(m.now(), panoFrame)
		cmd = panoTick()
	}
	return m.afterUpdate(cmd)
}

// afterUpdate reconciles everything that follows from the new state: the
// viewport size, panorama lifecycle, drawer table and tile requests.
func (m Model) afterUpdate(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{cmd}
	l := m.layout()
	m.syncViewport(l)
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, l.contentH-2)
	}

	visible := m.widget.ModalVisible()
	if visible && !m.modalShowing {
		m.pano.Reset(m.now())
		if !m.pano.Loaded() && !m.panoLoading && m.pano.Err() == nil {
			m.panoLoading = true
			cmds = append(cmds, loadPanorama(m.pano.Config().ImageSource))
		}
		if !m.panoTicking {
			m.panoTicking = true
			cmds = append(cmds, panoTick())
		}
	}
	m.modalShowing = visible

	if cur := m.widget.Current(); cur != m.tblFor {
		m.tblFor = cur
		m.refreshTable(l)
	}
	cmds = append(cmds, m.requestTiles())
	return m, tea.Batch(cmds...)
}

func (m Model) requestTiles() tea.Cmd {
	base := m.mp.base
	if m.src == nil || base == nil || m.mp.vp.W == 0 {
		return nil
	}
	z := tiles.ZoomFor(m.mp.vp.Zoom)
	if z != base.Zoom {
		base.Zoom = z
		base.Retain(z)
	}
	var cmds []tea.Cmd
	for _, t := range base.Missing(tiles.Cover(m.mp.vp.Bound(), z)) {
		cmds = append(cmds, fetchTile(m.src, t))
	}
	return tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// If list is visible and filtering, send keys to list and ignore global commands
	if m.showSidebar && m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	if m.pasteMode {
		switch msg.String() {
		case "esc":
			m.pasteMode = false
			m.ta.Blur()
			m.setStatus("view mode")
			return m, nil
		case "enter":
			m.applyPaste()
			return m, nil
		}
		var cmd tea.Cmd
		m.ta, cmd = m.ta.Update(msg)
		return m, cmd
	}

	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.widget.Unmount()
		return m, tea.Quit
	case key.Matches(msg, k.Close):
		switch {
		case m.widget.Escape():
		case m.showSidebar:
			m.showSidebar = false
		case m.help.ShowAll:
			m.help.ShowAll = false
		}
		m.refreshHover()
		return m, nil
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.widget.ModalVisible() {
		now := m.now()
		switch {
		case key.Matches(msg, k.LookLeft):
			m.pano.Look(-lookStep, 0, now)
			return m, nil
		case key.Matches(msg, k.LookRight):
			m.pano.Look(lookStep, 0, now)
			return m, nil
		case key.Matches(msg, k.LookUp):
			m.pano.Look(0, lookStep, now)
			return m, nil
		case key.Matches(msg, k.LookDown):
			m.pano.Look(0, -lookStep, now)
			return m, nil
		case key.Matches(msg, k.FovIn):
			m.pano.Zoom(-fovStep, now)
			return m, nil
		case key.Matches(msg, k.FovOut):
			m.pano.Zoom(fovStep, now)
			return m, nil
		case key.Matches(msg, k.Reset):
			m.pano.Reset(now)
			return m, nil
		}
	}

	if m.showSidebar {
		switch {
		case key.Matches(msg, k.Select):
			m.selectListItem()
			m.refreshHover()
			return m, nil
		case key.Matches(msg, k.Up), key.Matches(msg, k.Down), msg.String() == "/":
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, k.Up):
		m.mp.vp.Pan(0, -1)
	case key.Matches(msg, k.Down):
		m.mp.vp.Pan(0, 1)
	case key.Matches(msg, k.Left):
		m.mp.vp.Pan(-2, 0)
	case key.Matches(msg, k.Right):
		m.mp.vp.Pan(2, 0)
	case key.Matches(msg, k.ZoomIn):
		m.mp.vp.ZoomBy(1)
		m.setStatus(fmt.Sprintf("zoom: %.0f", m.mp.vp.Zoom))
	case key.Matches(msg, k.ZoomOut):
		m.mp.vp.ZoomBy(-1)
		m.setStatus(fmt.Sprintf("zoom: %.0f", m.mp.vp.Zoom))
	case key.Matches(msg, k.Features):
		m.toggleSidebar(sidebarFeatures)
	case key.Matches(msg, k.Files):
		m.toggleSidebar(sidebarFiles)
	case key.Matches(msg, k.Paste):
		m.pasteMode = true
		m.ta.SetValue("")
		m.ta.Focus()
		m.setStatus("paste mode")
	case key.Matches(msg, k.Points):
		m.toggleLayer(0)
	case key.Matches(msg, k.Lines):
		m.toggleLayer(1)
	case key.Matches(msg, k.Polys):
		m.toggleLayer(2)
	case key.Matches(msg, k.Layers):
		m.toggleAllLayers()
	case key.Matches(msg, k.Copy):
		m.copyCurrent()
		return m, nil
	}
	m.refreshHover()
	return m, nil
}

func (m *Model) toggleLayer(i int) {
	layers := m.mp.store.Layers()
	if i >= len(layers) {
		m.setStatus(fmt.Sprintf("no layer %d", i+1))
		return
	}
	name := layers[i].Name
	m.mp.hidden[name] = !m.mp.hidden[name]
	m.setStatus(fmt.Sprintf("%s: %v", name, !m.mp.hidden[name]))
}

func (m *Model) toggleAllLayers() {
	layers := m.mp.store.Layers()
	all := true
	for _, l := range layers {
		all = all && !m.mp.hidden[l.Name]
	}
	for _, l := range layers {
		m.mp.hidden[l.Name] = all
	}
	m.setStatus(fmt.Sprintf("layers: %v", !all))
}

// applyPaste adds the pasted WKT as a feature of the "pasted" layer.
func (m *Model) applyPaste() {
	w := strings.TrimSpace(m.ta.Value())
	if w == "" {
		m.setStatus("paste: empty")
		return
	}
	m.pasted++
	layer, err := geom.ParseWKT(w, "pasted", fmt.Sprintf("WKT %d", m.pasted))
	if err != nil {
		m.setError("wkt error: " + err.Error())
		return
	}
	m.addLayer(layer)
	m.pasteMode = false
	m.ta.Blur()
}

// addLayer puts l on top of the map and fits the view to it.
func (m *Model) addLayer(l geom.Layer) {
	if len(l.Features) == 0 {
		m.setStatus("no features in " + l.Name)
		return
	}
	m.mp.store = m.mp.store.WithLayer(l)
	delete(m.mp.hidden, l.Name)
	b := l.Features[0].Geometry.Bound()
	for _, f := range l.Features[1:] {
		b = b.Union(f.Geometry.Bound())
	}
	m.mp.vp.Fit(b)
	m.refreshHover()
	m.setStatus(fmt.Sprintf("added %s: %d features", l.Name, len(l.Features)))
	if m.showSidebar && m.sidebar == sidebarFeatures {
		m.refreshFeatures()
	}
}

func (m *Model) copyCurrent() {
	cur := m.widget.Current()
	if cur == nil {
		m.setStatus("nothing selected")
		return
	}
	if err := m.copy(summary(cur)); err != nil {
		debug.Log("clipboard: %v", err)
		m.setError("copy failed: " + err.Error())
		return
	}
	m.setStatus("copied " + cur.Name)
}
