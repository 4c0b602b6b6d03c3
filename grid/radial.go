package grid

import (
	"math"

	"github.com/surfacemodel/gridmesh/mesh"
	"github.com/surfacemodel/gridmesh/triangulate"
)

// NewRadial builds concentric rings of nodes around an origin node: ring r
// (1-based) carries 6r nodes at radius r*spacing, so node density stays
// roughly uniform. Connectivity within and across rings is computed by
// geometric adjacency (Delaunay of the generated points), which is
// deterministic because the point order is.
func NewRadial(rings int, spacing float64) (*mesh.Mesh, error) {
	if rings < 1 {
		return nil, constructionErrorf(mesh.VariantRadial, "need at least 1 ring, got %d", rings)
	}
	if spacing <= 0 {
		return nil, constructionErrorf(mesh.VariantRadial, "spacing must be positive, got %v", spacing)
	}

	pts := []triangulate.Point{{X: 0, Y: 0}}
	for ring := 1; ring <= rings; ring++ {
		n := 6 * ring
		radius := float64(ring) * spacing
		for i := 0; i < n; i++ {
			theta := 2 * math.Pi * float64(i) / float64(n)
			pts = append(pts, triangulate.Point{
				X: radius * math.Cos(theta),
				Y: radius * math.Sin(theta),
			})
		}
	}

	m, err := meshFromTriangulation(mesh.VariantRadial, pts)
	if err != nil {
		return nil, err
	}
	return m, nil
}
