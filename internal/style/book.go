package style

import "mapwidget/internal/geom"

// Book is the per-feature style assignment the renderer draws with.
type Book struct {
	styles    map[*geom.Feature]*Style
	mutations int
}

func NewBook() *Book {
	return &Book{styles: map[*geom.Feature]*Style{}}
}

// Reset assigns every feature its kind's default style and clears the counter.
func (b *Book) Reset(features []*geom.Feature, r *Resolver) {
	b.styles = make(map[*geom.Feature]*Style, len(features))
	for _, f := range features {
		b.styles[f] = r.For(f.Kind, Default)
	}
	b.mutations = 0
}

func (b *Book) Set(f *geom.Feature, s *Style) {
	b.styles[f] = s
	b.mutations++
}

// Of returns the assigned style, nil if f was never assigned one.
func (b *Book) Of(f *geom.Feature) *Style { return b.styles[f] }

// Mutations counts Set calls since the last Reset.
func (b *Book) Mutations() int { return b.mutations }

// Highlighted lists features currently carrying a highlight style.
func (b *Book) Highlighted(r *Resolver) []*geom.Feature {
	var out []*geom.Feature
	for f, s := range b.styles {
		if r.IsHighlight(s) {
			out = append(out, f)
		}
	}
	return out
}
