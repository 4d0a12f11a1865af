package geom

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SupportedExt lists the file extensions Load understands.
var SupportedExt = []string{".geojson", ".json", ".csv", ".kml", ".wkt", ".shp"}

// Load reads a data file into a layer named after the file.
func Load(path string) (Layer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	layer := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	switch ext {
	case ".geojson", ".json":
		return LoadGeoJSON(path, layer)
	case ".csv":
		return LoadCSV(path, layer)
	case ".kml":
		return LoadKML(path, layer)
	case ".wkt":
		return LoadWKT(path, layer)
	case ".shp":
		return LoadShapefile(path, layer)
	default:
		return Layer{}, fmt.Errorf("unsupported file: %s", ext)
	}
}
