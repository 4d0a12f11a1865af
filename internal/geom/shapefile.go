package geom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

// LoadShapefile converts an ESRI shapefile into a layer. Every DBF attribute
// becomes a property; NAME/NAMEASCII/NAME_EN fields also set the feature name.
func LoadShapefile(path, layer string) (Layer, error) {
	shape, err := shp.Open(path)
	if err != nil {
		return Layer{}, fmt.Errorf("shapefile %s: %w", path, err)
	}
	defer shape.Close()

	fields := shape.Fields()
	names := make([]string, len(fields))
	for i, field := range fields {
		// field names are fixed-size byte arrays padded with NULs
		names[i] = strings.TrimRight(string(field.Name[:]), "\x00 ")
	}

	l := Layer{Name: layer}
	for shape.Next() {
		n, p := shape.Shape()
		g := shapeGeometry(p)
		if g == nil {
			continue
		}
		props := map[string]any{}
		for i, name := range names {
			v := strings.TrimSpace(shape.ReadAttribute(n, i))
			switch strings.ToUpper(name) {
			case "NAME", "NAMEASCII", "NAME_EN":
				if _, ok := props["name"]; !ok && v != "" {
					props["name"] = v
				}
			case "COUNTRY", "ADMIN", "SOV0NAME":
				if _, ok := props["country"]; !ok && v != "" {
					props["country"] = v
				}
			}
			props[strings.ToLower(name)] = v
		}
		f, err := NewFeature(layer, g, props)
		if err != nil {
			continue
		}
		l.Features = append(l.Features, f)
	}
	if len(l.Features) == 0 {
		return Layer{}, errors.New("shapefile: no supported shapes")
	}
	return l, nil
}

func shapeGeometry(p shp.Shape) orb.Geometry {
	switch s := p.(type) {
	case *shp.Point:
		return orb.Point{s.X, s.Y}
	case *shp.PolyLine:
		parts := splitParts(s.Parts, s.Points)
		if len(parts) == 1 {
			return orb.LineString(parts[0])
		}
		var mls orb.MultiLineString
		for _, part := range parts {
			mls = append(mls, orb.LineString(part))
		}
		return mls
	case *shp.Polygon:
		// rings of one record; shapefiles do not group them into polygons
		var poly orb.Polygon
		for _, part := range splitParts(s.Parts, s.Points) {
			if len(part) >= 3 {
				poly = append(poly, orb.Ring(part))
			}
		}
		if len(poly) == 0 {
			return nil
		}
		return poly
	}
	return nil
}

func splitParts(parts []int32, points []shp.Point) [][]orb.Point {
	var out [][]orb.Point
	for i := range parts {
		start := int(parts[i])
		end := len(points)
		if i+1 < len(parts) {
			end = int(parts[i+1])
		}
		if start < 0 || start >= end || end > len(points) {
			continue
		}
		seg := make([]orb.Point, 0, end-start)
		for _, pt := range points[start:end] {
			seg = append(seg, orb.Point{pt.X, pt.Y})
		}
		out = append(out, seg)
	}
	return out
}
