// Package style resolves the default and highlight look of map features and
// records which look each feature currently has.
package style

import (
	"github.com/charmbracelet/lipgloss"

	"mapwidget/internal/geom"
)

type Variant int

const (
	Default Variant = iota
	Highlight
)

// Palette
const (
	DefaultFill     = lipgloss.Color("#88b1cb")
	DefaultStroke   = lipgloss.Color("#8477e9")
	HighlightFill   = lipgloss.Color("#74e485")
	HighlightStroke = lipgloss.Color("#2be634")

	PointRadius = 5.0
	// ThinWidth is the stroke width of the simpler variant.
	ThinWidth  = 1.0
	ThickWidth = 3.0
)

// Style is an immutable visual style. Fill and Radius only apply to points.
type Style struct {
	Fill   lipgloss.Color
	Stroke lipgloss.Color
	Width  float64
	Radius float64
}

type Pair struct {
	Default   *Style
	Highlight *Style
}

// Resolver hands out the shared style values built once per stroke width.
type Resolver struct {
	pairs map[geom.Kind]Pair
}

func NewResolver(width float64) *Resolver {
	defaultStroke := Style{Stroke: DefaultStroke, Width: width}
	highlightStroke := Style{Stroke: HighlightStroke, Width: width}
	return &Resolver{pairs: map[geom.Kind]Pair{
		geom.KindPoint: {
			Default:   &Style{Fill: DefaultFill, Stroke: DefaultStroke, Width: width, Radius: PointRadius},
			Highlight: &Style{Fill: HighlightFill, Stroke: HighlightStroke, Width: width, Radius: PointRadius},
		},
		geom.KindLineString: {Default: &defaultStroke, Highlight: &highlightStroke},
		geom.KindPolygon:    {Default: &defaultStroke, Highlight: &highlightStroke},
	}}
}

func (r *Resolver) Pair(k geom.Kind) Pair { return r.pairs[k] }

// For returns the style of kind k in variant v.
func (r *Resolver) For(k geom.Kind, v Variant) *Style {
	p := r.pairs[k]
	if v == Highlight {
		return p.Highlight
	}
	return p.Default
}

// IsHighlight reports whether s is one of the highlight styles.
func (r *Resolver) IsHighlight(s *Style) bool {
	for _, p := range r.pairs {
		if p.Highlight == s {
			return true
		}
	}
	return false
}
