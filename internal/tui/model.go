package tui

import (
	"os"
	"time"

	"github.com/atotto/clipboard"
	help "github.com/charmbracelet/bubbles/help"
	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"mapwidget/internal/geom"
	"mapwidget/internal/interact"
	"mapwidget/internal/panorama"
	"mapwidget/internal/style"
	"mapwidget/internal/tiles"
	"mapwidget/internal/view"
)

// Options configure a new Model.
type Options struct {
	Store   *geom.Store
	Dataset string
	// Center is lon/lat.
	Center      orb.Point
	Zoom        float64
	StrokeWidth float64
	// Tiles is the base layer source, nil for a plain background.
	Tiles    *tiles.Source
	Panorama panorama.Config

	// Now and Copy default to time.Now and the system clipboard.
	Now  func() time.Time
	Copy func(string) error
}

// mapState is shared by every copy of the Model so the map's default
// actions and hit tests see the current view.
type mapState struct {
	vp     view.Viewport
	store  *geom.Store
	hidden map[string]bool
	book   *style.Book
	styles *style.Resolver
	base   *tiles.Layer
}

func (s *mapState) scene(tt interact.Tooltip, attribution string) view.Scene {
	sc := view.Scene{
		Viewport:    s.vp,
		Store:       s.store,
		Hidden:      s.hidden,
		Book:        s.book,
		Styles:      s.styles,
		Tooltip:     tt,
		Attribution: attribution,
	}
	if s.base != nil {
		sc.Background = s.base
	}
	return sc
}

// FeaturesAtPixel implements interact.HitTester.
func (s *mapState) FeaturesAtPixel(px interact.Pixel) []*geom.Feature {
	return s.scene(interact.Tooltip{}, "").FeaturesAtPixel(px)
}

type sidebarMode int

const (
	sidebarFeatures sidebarMode = iota
	sidebarFiles
)

type dragState struct {
	active bool
	moved  bool
	x, y   int
}

// pointerState is the last screen cell the mouse moved over.
type pointerState struct {
	x, y int
	seen bool
}

type Model struct {
	width  int
	height int

	showSidebar bool
	sidebar     sidebarMode
	keys        keyMap
	help        help.Model

	status    string
	statusErr bool
	dataset   string

	// sidebar list: features or files of cwd
	cwd string
	l   list.Model

	// paste mode
	pasteMode bool
	ta        textarea.Model
	pasted    int

	// drawer properties table
	tbl    table.Model
	tblFor *interact.CurrentObject

	mp     *mapState
	events *interact.Map
	widget *interact.Widget
	clicks *interact.ClickDetector
	drag   dragState

	// last pointer cell on screen and its position for the footer
	pointer pointerState
	hoverLL orb.Point
	hoverOK bool

	src         *tiles.Source
	attribution string

	pano         *panorama.Viewer
	panoLoading  bool
	panoTicking  bool
	modalShowing bool

	now  func() time.Time
	copy func(string) error
}

func New(opts Options) Model {
	if opts.Store == nil {
		opts.Store = geom.NewStore()
	}
	if opts.StrokeWidth == 0 {
		opts.StrokeWidth = style.ThickWidth
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	if opts.Panorama.SceneID == "" {
		opts.Panorama = panorama.DefaultConfig()
	}

	styles := style.NewResolver(opts.StrokeWidth)
	book := style.NewBook()
	book.Reset(opts.Store.Features(), styles)
	mp := &mapState{
		vp:     view.NewViewport(opts.Center[0], opts.Center[1], opts.Zoom),
		store:  opts.Store,
		hidden: map[string]bool{},
		book:   book,
		styles: styles,
	}

	m := Model{
		keys:    defaultKeys(),
		help:    help.New(),
		status:  "mapwidget ready",
		dataset: opts.Dataset,
		mp:      mp,
		events:  interact.NewMap(mp),
		widget:  interact.NewWidget(styles, book),
		clicks:  interact.NewClickDetector(),
		src:     opts.Tiles,
		pano:    panorama.New(opts.Panorama, opts.Now()),
		now:     opts.Now,
		copy:    opts.Copy,
	}
	if opts.Tiles != nil {
		mp.base = tiles.NewLayer()
		m.attribution = tiles.DefaultAttribution
	}
	// double click on empty map zooms in, like any slippy map
	w := m.widget
	m.events.SetDefault(interact.DoubleClick, func(ev *interact.Event) {
		if w.Mounted() {
			mp.vp.ZoomAt(1, ev.Pixel.X, ev.Pixel.Y)
		}
	})
	m.widget.Mount(m.events)

	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	m.l = list.New(nil, d, 0, 0)
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here (POINT, LINESTRING, POLYGON and their MULTI forms). Press Enter to add it; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// drawer table
	m.tbl = table.New(table.WithFocused(false))
	return m
}

func (m Model) Init() tea.Cmd { return tea.SetWindowTitle("mapwidget") }

// Widget exposes the interaction state, mostly for tests.
func (m Model) Widget() *interact.Widget { return m.widget }

// Viewport is the current map view.
func (m Model) Viewport() view.Viewport { return m.mp.vp }

func (m Model) Status() string { return m.status }

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(s string) {
	m.status, m.statusErr = s, true
}
