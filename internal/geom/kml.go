package geom

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

type kmlCoords struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPolygon struct {
	Outer kmlCoords   `xml:"outerBoundaryIs>LinearRing"`
	Inner []kmlCoords `xml:"innerBoundaryIs>LinearRing"`
}

type kmlPlacemark struct {
	Name       string      `xml:"name"`
	Point      *kmlCoords  `xml:"Point"`
	LineString *kmlCoords  `xml:"LineString"`
	Polygon    *kmlPolygon `xml:"Polygon"`
}

// LoadKML extracts placemarks (Point, LineString, Polygon) from a KML file.
// Placemarks nested in Document/Folder elements are found too.
func LoadKML(path, layer string) (Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layer{}, err
	}
	var doc struct {
		Placemarks []kmlPlacemark `xml:"Placemark"`
		Document   struct {
			Placemarks []kmlPlacemark `xml:"Placemark"`
			Folders    []struct {
				Placemarks []kmlPlacemark `xml:"Placemark"`
			} `xml:"Folder"`
		} `xml:"Document"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Layer{}, fmt.Errorf("kml %s: %w", path, err)
	}
	pms := append([]kmlPlacemark(nil), doc.Placemarks...)
	pms = append(pms, doc.Document.Placemarks...)
	for _, f := range doc.Document.Folders {
		pms = append(pms, f.Placemarks...)
	}

	l := Layer{Name: layer}
	for _, pm := range pms {
		g := pm.geometry()
		if g == nil {
			continue
		}
		props := map[string]any{"name": strings.TrimSpace(pm.Name)}
		ft, err := NewFeature(layer, g, props)
		if err != nil {
			continue
		}
		l.Features = append(l.Features, ft)
	}
	if len(l.Features) == 0 {
		return Layer{}, errors.New("kml: no placemarks found")
	}
	return l, nil
}

func (pm kmlPlacemark) geometry() orb.Geometry {
	switch {
	case pm.Point != nil:
		pts := parseKMLCoords(pm.Point.Coordinates)
		if len(pts) == 0 {
			return nil
		}
		return pts[0]
	case pm.LineString != nil:
		pts := parseKMLCoords(pm.LineString.Coordinates)
		if len(pts) < 2 {
			return nil
		}
		return orb.LineString(pts)
	case pm.Polygon != nil:
		outer := parseKMLCoords(pm.Polygon.Outer.Coordinates)
		if len(outer) < 3 {
			return nil
		}
		poly := orb.Polygon{orb.Ring(outer)}
		for _, in := range pm.Polygon.Inner {
			if pts := parseKMLCoords(in.Coordinates); len(pts) >= 3 {
				poly = append(poly, orb.Ring(pts))
			}
		}
		return poly
	}
	return nil
}

// parseKMLCoords reads whitespace separated "lon,lat[,alt]" tuples; altitude is ignored.
func parseKMLCoords(s string) []orb.Point {
	var out []orb.Point
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, orb.Point{lon, lat})
	}
	return out
}
