// Package gridspec builds grids from loosely-typed parameter maps, the
// shape produced by YAML or JSON configuration. It exists for setup
// tooling; programmatic callers use the grid package constructors
// directly.
package gridspec

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"

	"github.com/surfacemodel/gridmesh/grid"
	"github.com/surfacemodel/gridmesh/mesh"
)

// Params are the recognized construction parameters across all variants.
// Each variant reads its own subset; unknown keys in the input map are
// rejected so typos fail loudly.
type Params struct {
	Variant     string    `mapstructure:"variant"`
	Rows        int       `mapstructure:"rows"`
	Cols        int       `mapstructure:"cols"`
	Spacing     float64   `mapstructure:"spacing"`
	Orientation string    `mapstructure:"orientation"`
	Rings       int       `mapstructure:"rings"`
	X           []float64     `mapstructure:"x"`
	Y           []float64     `mapstructure:"y"`
	Links       []interface{} `mapstructure:"links"`
	Seed        int64         `mapstructure:"seed"`
	Jitter      float64       `mapstructure:"jitter"`
}

func defaults() Params {
	return Params{
		Spacing:     1.0,
		Orientation: string(grid.OrientationHorizontal),
		Jitter:      0.25,
	}
}

// Decode turns a parameter map into Params, coercing numeric types the
// way configuration files deliver them (ints for floats, strings for
// numbers).
func Decode(config map[string]interface{}) (Params, error) {
	p := defaults()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return p, err
	}
	if err := dec.Decode(config); err != nil {
		return p, fmt.Errorf("invalid grid parameters: %w", err)
	}
	return p, nil
}

// Build decodes config and constructs the requested grid variant.
func Build(config map[string]interface{}) (*mesh.Mesh, error) {
	p, err := Decode(config)
	if err != nil {
		return nil, err
	}
	return p.Build()
}

// Build constructs the grid described by p.
func (p Params) Build() (*mesh.Mesh, error) {
	switch mesh.Variant(p.Variant) {
	case mesh.VariantRaster:
		r, err := grid.NewRaster(p.Rows, p.Cols, p.Spacing)
		if err != nil {
			return nil, err
		}
		return r.Mesh, nil

	case mesh.VariantHex:
		return grid.NewHex(p.Rows, p.Cols, p.Spacing, grid.Orientation(p.Orientation))

	case mesh.VariantRadial:
		return grid.NewRadial(p.Rings, p.Spacing)

	case mesh.VariantVoronoi:
		return grid.NewVoronoi(p.X, p.Y)

	case mesh.VariantFramedVoronoi:
		return grid.NewFramedVoronoi(p.Rows, p.Cols, p.Spacing, p.Seed, p.Jitter)

	case mesh.VariantNetwork:
		// YAML hands link pairs back as untyped slices.
		links := make([][2]int, len(p.Links))
		for i, l := range p.Links {
			pair, err := cast.ToIntSliceE(l)
			if err != nil || len(pair) != 2 {
				return nil, fmt.Errorf("network link %d must be a node pair, got %v", i, l)
			}
			links[i] = [2]int{pair[0], pair[1]}
		}
		return grid.NewNetwork(p.X, p.Y, links)
	}
	return nil, fmt.Errorf("unknown grid variant %q", p.Variant)
}
