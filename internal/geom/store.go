package geom

import "github.com/paulmach/orb"

// Layer is a named group of features in render order.
type Layer struct {
	Name     string
	Features []*Feature
}

// Store holds every layer of the map, bottom layer first. It is read-only;
// WithLayer returns a new store sharing the existing features.
type Store struct {
	layers []Layer
}

func NewStore(layers ...Layer) *Store {
	return &Store{layers: append([]Layer(nil), layers...)}
}

func (s *Store) Layers() []Layer {
	return append([]Layer(nil), s.layers...)
}

func (s *Store) Layer(name string) (Layer, bool) {
	for _, l := range s.layers {
		if l.Name == name {
			return l, true
		}
	}
	return Layer{}, false
}

// Features lists all features in render order (bottom first).
func (s *Store) Features() []*Feature {
	var out []*Feature
	for _, l := range s.layers {
		out = append(out, l.Features...)
	}
	return out
}

func (s *Store) Len() int {
	n := 0
	for _, l := range s.layers {
		n += len(l.Features)
	}
	return n
}

// WithLayer returns a store with l on top. A layer of the same name is
// extended instead.
func (s *Store) WithLayer(l Layer) *Store {
	layers := s.Layers()
	for i := range layers {
		if layers[i].Name == l.Name {
			merged := append(append([]*Feature(nil), layers[i].Features...), l.Features...)
			layers[i] = Layer{Name: l.Name, Features: merged}
			return &Store{layers: layers}
		}
	}
	return &Store{layers: append(layers, l)}
}

// Bound is the lon/lat extent of every feature.
func (s *Store) Bound() (orb.Bound, bool) {
	var b orb.Bound
	found := false
	for _, f := range s.Features() {
		fb := f.Geometry.Bound()
		if !found {
			b, found = fb, true
			continue
		}
		b = b.Union(fb)
	}
	return b, found
}
