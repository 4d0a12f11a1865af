package geom

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Kind is the geometry kind a feature is styled and described by.
type Kind int

const (
	KindPoint Kind = iota
	KindLineString
	KindPolygon
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "Point"
	case KindLineString:
		return "LineString"
	case KindPolygon:
		return "Polygon"
	default:
		return "Unknown"
	}
}

// KindOf maps an orb geometry to its kind. Multi geometries fold into their base kind.
func KindOf(g orb.Geometry) (Kind, bool) {
	switch g.(type) {
	case orb.Point, orb.MultiPoint:
		return KindPoint, true
	case orb.LineString, orb.MultiLineString:
		return KindLineString, true
	case orb.Polygon, orb.MultiPolygon, orb.Ring:
		return KindPolygon, true
	}
	return 0, false
}

// Feature is a single geographic entity. It is not modified after load.
type Feature struct {
	Layer      string
	Kind       Kind
	Name       string
	Properties map[string]any

	// Geometry is lon/lat (EPSG:4326), Projected the same shape in EPSG:3857 meters.
	Geometry  orb.Geometry
	Projected orb.Geometry
	// Bound is the extent of Projected.
	Bound orb.Bound
}

// NewFeature builds a feature and projects its geometry to web mercator.
func NewFeature(layer string, g orb.Geometry, props map[string]any) (*Feature, error) {
	if g == nil {
		return nil, fmt.Errorf("feature in %s: missing geometry", layer)
	}
	kind, ok := KindOf(g)
	if !ok {
		return nil, fmt.Errorf("feature in %s: unsupported geometry %s", layer, g.GeoJSONType())
	}
	if props == nil {
		props = map[string]any{}
	}
	projected := project.Geometry(orb.Clone(g), project.WGS84.ToMercator)
	return &Feature{
		Layer:      layer,
		Kind:       kind,
		Name:       FormatValue(props["name"]),
		Properties: props,
		Geometry:   g,
		Projected:  projected,
		Bound:      projected.Bound(),
	}, nil
}

// Prop returns a property as display text, "" when absent.
func (f *Feature) Prop(key string) string {
	return FormatValue(f.Properties[key])
}

func (f *Feature) Country() string { return f.Prop("country") }

// Coordinates returns the "coordinates" property pair. Point features without
// the property fall back to their geometry.
func (f *Feature) Coordinates() (orb.Point, bool) {
	switch v := f.Properties["coordinates"].(type) {
	case []any:
		if len(v) >= 2 {
			x, xok := v[0].(float64)
			y, yok := v[1].(float64)
			if xok && yok {
				return orb.Point{x, y}, true
			}
		}
	case []float64:
		if len(v) >= 2 {
			return orb.Point{v[0], v[1]}, true
		}
	}
	if p, ok := f.Geometry.(orb.Point); ok {
		return p, true
	}
	return orb.Point{}, false
}

// FormatValue renders a property value the way it is shown to the user.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		bs, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(bs)
	}
}
