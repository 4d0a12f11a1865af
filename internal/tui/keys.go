package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down, Left, Right key.Binding
	ZoomIn, ZoomOut       key.Binding
	Features, Files       key.Binding
	Select                key.Binding
	Paste                 key.Binding
	Points, Lines, Polys  key.Binding
	Layers                key.Binding
	Copy                  key.Binding
	Close                 key.Binding
	Help                  key.Binding
	Quit                  key.Binding

	// panorama
	LookLeft, LookRight, LookUp, LookDown key.Binding
	FovIn, FovOut                         key.Binding
	Reset                                 key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑↓←→", "pan")),
		Down:     key.NewBinding(key.WithKeys("down")),
		Left:     key.NewBinding(key.WithKeys("left")),
		Right:    key.NewBinding(key.WithKeys("right")),
		ZoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "zoom")),
		ZoomOut:  key.NewBinding(key.WithKeys("-", "_")),
		Features: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "features")),
		Files:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open file")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Paste:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "paste WKT")),
		Points:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1/2/3", "layer")),
		Lines:    key.NewBinding(key.WithKeys("2")),
		Polys:    key.NewBinding(key.WithKeys("3")),
		Layers:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "all layers")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		LookLeft:  key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+←→↑↓", "look")),
		LookRight: key.NewBinding(key.WithKeys("shift+right")),
		LookUp:    key.NewBinding(key.WithKeys("shift+up")),
		LookDown:  key.NewBinding(key.WithKeys("shift+down")),
		FovIn:     key.NewBinding(key.WithKeys("]"), key.WithHelp("[ ]", "fov")),
		FovOut:    key.NewBinding(key.WithKeys("[")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset view")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.ZoomIn, k.Features, k.Close, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.ZoomIn, k.Layers, k.Points},
		{k.Features, k.Files, k.Select, k.Paste},
		{k.Copy, k.Close, k.Help, k.Quit},
		{k.LookLeft, k.FovIn, k.Reset},
	}
}
