package geom

import (
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LoadGeoJSON reads a GeoJSON file into a layer.
func LoadGeoJSON(path, layer string) (Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layer{}, fmt.Errorf("failed to read geojson %s: %w", path, err)
	}
	l, err := ReadGeoJSON(data, layer)
	if err != nil {
		return Layer{}, fmt.Errorf("failed to parse geojson %s: %w", path, err)
	}
	return l, nil
}

// ReadGeoJSON accepts a FeatureCollection, a single Feature or a bare geometry.
// Geometry collections and null geometries are skipped.
func ReadGeoJSON(data []byte, layer string) (Layer, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil || fc.Type != "FeatureCollection" {
		fc = geojson.NewFeatureCollection()
		if f, ferr := geojson.UnmarshalFeature(data); ferr == nil && f.Type == "Feature" {
			fc.Append(f)
		} else if g, gerr := geojson.UnmarshalGeometry(data); gerr == nil && g.Geometry() != nil {
			fc.Append(geojson.NewFeature(g.Geometry()))
		} else if err != nil {
			return Layer{}, err
		} else {
			return Layer{}, errors.New("geojson: no features")
		}
	}

	l := Layer{Name: layer}
	for _, gf := range fc.Features {
		if gf.Geometry == nil {
			continue
		}
		if _, ok := gf.Geometry.(orb.Collection); ok {
			continue
		}
		f, err := NewFeature(layer, gf.Geometry, map[string]any(gf.Properties))
		if err != nil {
			continue
		}
		l.Features = append(l.Features, f)
	}
	return l, nil
}
