package geojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	lo "github.com/samber/lo"
)

// Boundaries is the department boundary file. The raw document is served
// untouched; only the join property of every feature is read.
type Boundaries struct {
	Raw   []byte
	Key   string
	names []string
}

type featureCollection struct {
	Type     string `json:"type"`
	Features []struct {
		Properties map[string]any `json:"properties"`
	} `json:"features"`
}

var ErrNotFeatureCollection = errors.New("not a GeoJSON FeatureCollection")

// Load reads a boundary file whose features are joined on properties.<key>.
func Load(path, key string) (*Boundaries, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	bd, err := Parse(b, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Info("geojson.loaded", "path", path, "features", len(bd.names))
	return bd, nil
}

func Parse(b []byte, key string) (*Boundaries, error) {
	var fc featureCollection
	if err := json.Unmarshal(b, &fc); err != nil {
		return nil, err
	}
	if fc.Type != "FeatureCollection" {
		return nil, ErrNotFeatureCollection
	}
	var names []string
	for i, f := range fc.Features {
		v, ok := f.Properties[key].(string)
		if !ok || v == "" {
			slog.Warn("geojson.feature.unkeyed", "index", i, "key", key)
			continue
		}
		names = append(names, v)
	}
	names = lo.Uniq(names)
	slices.Sort(names)
	return &Boundaries{Raw: b, Key: key, names: names}, nil
}

// Names returns the sorted join values of the features.
func (b *Boundaries) Names() []string {
	if b == nil {
		return nil
	}
	return slices.Clone(b.names)
}

// Missing returns the keys that have no polygon.
func (b *Boundaries) Missing(keys []string) []string {
	return lo.Filter(keys, func(k string, _ int) bool {
		if b == nil {
			return true
		}
		_, found := slices.BinarySearch(b.names, k)
		return !found
	})
}

// FeatureIDKey is the Plotly style reference to the join property.
func (b *Boundaries) FeatureIDKey() string {
	return "properties." + b.Key
}
