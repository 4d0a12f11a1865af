package geom

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// LoadCSV reads a CSV with latitude/longitude columns into a point layer.
// Column detection: lat|latitude|y and lon|lng|long|longitude|x (case-insensitive).
// Every other column becomes a string property.
func LoadCSV(path, layer string) (Layer, error) {
	f, err := os.Open(path)
	if err != nil {
		return Layer{}, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	recs, err := r.ReadAll()
	if err != nil {
		return Layer{}, fmt.Errorf("csv %s: %w", path, err)
	}
	if len(recs) == 0 {
		return Layer{}, errors.New("empty csv")
	}
	header := recs[0]
	idxLat, idxLon := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
			}
		}
	}
	if idxLat == -1 || idxLon == -1 {
		return Layer{}, errors.New("csv: latitude/longitude columns not found")
	}
	l := Layer{Name: layer}
	for _, row := range recs[1:] {
		if idxLon >= len(row) || idxLat >= len(row) {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxLon]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxLat]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		props := map[string]any{"coordinates": []any{lon, lat}}
		for i, h := range header {
			if i == idxLat || i == idxLon || i >= len(row) {
				continue
			}
			props[strings.ToLower(strings.TrimSpace(h))] = row[i]
		}
		ft, err := NewFeature(layer, orb.Point{lon, lat}, props)
		if err != nil {
			continue
		}
		l.Features = append(l.Features, ft)
	}
	if len(l.Features) == 0 {
		return Layer{}, errors.New("csv: no rows with coordinates")
	}
	return l, nil
}
