package geom

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
)

// ParseWKT turns one WKT geometry into a single-feature layer named name.
func ParseWKT(s, layer, name string) (Layer, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Layer{}, errors.New("empty wkt")
	}
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return Layer{}, fmt.Errorf("wkt: %w", err)
	}
	f, err := NewFeature(layer, g, map[string]any{"name": name})
	if err != nil {
		return Layer{}, err
	}
	return Layer{Name: layer, Features: []*Feature{f}}, nil
}

// LoadWKT reads a file holding one WKT geometry per non-empty line.
func LoadWKT(path, layer string) (Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layer{}, err
	}
	l := Layer{Name: layer}
	for i, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		one, err := ParseWKT(line, layer, fmt.Sprintf("%s #%d", layer, i+1))
		if err != nil {
			return Layer{}, fmt.Errorf("%s line %d: %w", path, i+1, err)
		}
		l.Features = append(l.Features, one.Features...)
	}
	if len(l.Features) == 0 {
		return Layer{}, errors.New("wkt: no geometries")
	}
	return l, nil
}
