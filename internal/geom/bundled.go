package geom

import (
	"embed"
	"fmt"
)

//go:embed data/*.geojson
var bundled embed.FS

const (
	DatasetDefault   = "default"
	DatasetCountries = "countries"
)

// Datasets lists the names accepted by Bundled.
var Datasets = []string{DatasetDefault, DatasetCountries}

// bundledLayers is the render order of each dataset, bottom first.
var bundledLayers = map[string][]string{
	DatasetDefault:   {"semaphores", "line", "road_cross"},
	DatasetCountries: {"countries"},
}

// Bundled builds the store for one of the datasets shipped in the binary.
func Bundled(dataset string) (*Store, error) {
	names, ok := bundledLayers[dataset]
	if !ok {
		return nil, fmt.Errorf("unknown dataset %q", dataset)
	}
	var layers []Layer
	for _, name := range names {
		data, err := bundled.ReadFile("data/" + name + ".geojson")
		if err != nil {
			return nil, fmt.Errorf("bundled layer %s: %w", name, err)
		}
		l, err := ReadGeoJSON(data, name)
		if err != nil {
			return nil, fmt.Errorf("bundled layer %s: %w", name, err)
		}
		layers = append(layers, l)
	}
	return NewStore(layers...), nil
}
