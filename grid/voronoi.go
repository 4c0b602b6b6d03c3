package grid

import (
	"math/rand"

	"github.com/surfacemodel/gridmesh/mesh"
	"github.com/surfacemodel/gridmesh/triangulate"
)

// NewVoronoi builds a mesh from an arbitrary point set: patches are the
// Delaunay triangles, links the triangulation edges, and cells the Voronoi
// polygons dual to interior (non-hull) nodes. The triangulation, and so
// the mesh, is deterministic for a fixed point order.
func NewVoronoi(x, y []float64) (*mesh.Mesh, error) {
	if len(x) != len(y) {
		return nil, constructionErrorf(mesh.VariantVoronoi,
			"coordinate arrays differ in length: %d vs %d", len(x), len(y))
	}
	pts := make([]triangulate.Point, len(x))
	for i := range x {
		pts[i] = triangulate.Point{X: x[i], Y: y[i]}
	}
	return meshFromTriangulation(mesh.VariantVoronoi, pts)
}

// NewFramedVoronoi builds a Voronoi mesh over a rows × cols lattice whose
// interior nodes are jittered pseudo-randomly while the perimeter frame
// stays exactly rectangular, guaranteeing a convex boundary. jitter is the
// maximum displacement as a fraction of spacing, in [0, 0.5); the same
// seed always produces the same mesh.
func NewFramedVoronoi(rows, cols int, spacing float64, seed int64, jitter float64) (*mesh.Mesh, error) {
	if rows < 3 || cols < 3 {
		return nil, constructionErrorf(mesh.VariantFramedVoronoi,
			"need at least 3 rows and 3 columns for an interior, got %d x %d", rows, cols)
	}
	if spacing <= 0 {
		return nil, constructionErrorf(mesh.VariantFramedVoronoi, "spacing must be positive, got %v", spacing)
	}
	if jitter < 0 || jitter >= 0.5 {
		return nil, constructionErrorf(mesh.VariantFramedVoronoi,
			"jitter must be in [0, 0.5), got %v", jitter)
	}

	rng := rand.New(rand.NewSource(seed))
	pts := make([]triangulate.Point, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			p := triangulate.Point{X: float64(col) * spacing, Y: float64(row) * spacing}
			if row > 0 && row < rows-1 && col > 0 && col < cols-1 {
				p.X += (2*rng.Float64() - 1) * jitter * spacing
				p.Y += (2*rng.Float64() - 1) * jitter * spacing
			}
			pts = append(pts, p)
		}
	}
	m, err := meshFromTriangulation(mesh.VariantFramedVoronoi, pts)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// meshFromTriangulation converts a Delaunay triangulation into a mesh
// topology: edges become links (tail is the smaller node id), triangles
// become patches bounded by their edge cycles.
func meshFromTriangulation(variant mesh.Variant, pts []triangulate.Point) (*mesh.Mesh, error) {
	tri, err := triangulate.Delaunay(pts)
	if err != nil {
		return nil, wrapConstructionError(variant, err, "triangulation failed")
	}

	top := mesh.Topology{
		NodeX: make([]float64, len(pts)),
		NodeY: make([]float64, len(pts)),
	}
	for i, p := range pts {
		top.NodeX[i], top.NodeY[i] = p.X, p.Y
	}
	for _, e := range tri.Edges {
		top.LinkTail = append(top.LinkTail, e[0])
		top.LinkHead = append(top.LinkHead, e[1])
	}
	for ti := range tri.Triangles {
		edges := tri.EdgesOfTriangle(ti)
		top.LinksAtPatch = append(top.LinksAtPatch, []int{edges[0], edges[1], edges[2]})
	}

	m, err := mesh.NewMesh(variant, top)
	if err != nil {
		return nil, wrapConstructionError(variant, err, "derived topology rejected")
	}
	return m, nil
}
