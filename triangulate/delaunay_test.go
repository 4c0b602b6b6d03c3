package triangulate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitSquarePlusCenter is the fixed 5-point configuration used throughout:
// the four unit-square corners with the center point added.
func unitSquarePlusCenter() []Point {
	return []Point{
		{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0.5, 0.5},
	}
}

func TestDelaunay_FivePointSquare(t *testing.T) {
	tri, err := Delaunay(unitSquarePlusCenter())
	require.NoError(t, err)

	// The center splits the square into exactly four triangles meeting
	// there, with eight edges: four sides and four spokes.
	assert.Equal(t, 4, len(tri.Triangles))
	assert.Equal(t, 8, len(tri.Edges))

	// Euler: nodes - links + patches = 1 for the triangulated disk
	// (2 counting the outer face).
	assert.Equal(t, 1, len(tri.Points)-len(tri.Edges)+len(tri.Triangles))

	// Every triangle is incident to the center point; every triangle is
	// counter-clockwise.
	for _, tr := range tri.Triangles {
		assert.Contains(t, []int{tr[0], tr[1], tr[2]}, 4)
		a, b, c := tri.Points[tr[0]], tri.Points[tr[1]], tri.Points[tr[2]]
		assert.Greater(t, cross(a, b, c), 0.0)
	}

	// Hull is the four corners.
	assert.Equal(t, []int{0, 1, 2, 3}, tri.HullNodes)
	assert.False(t, tri.IsHullNode(4))
}

func TestDelaunay_Deterministic(t *testing.T) {
	first, err := Delaunay(unitSquarePlusCenter())
	require.NoError(t, err)
	second, err := Delaunay(unitSquarePlusCenter())
	require.NoError(t, err)

	assert.Equal(t, first.Triangles, second.Triangles)
	assert.Equal(t, first.Edges, second.Edges)
	assert.Equal(t, first.HullNodes, second.HullNodes)
}

func TestDelaunay_EmptyCircumcircles(t *testing.T) {
	pts := []Point{
		{0.1, 0.2}, {2.3, 0.4}, {1.7, 1.9}, {0.6, 2.4},
		{3.1, 1.2}, {2.2, 2.8}, {1.1, 1.1}, {0.4, 1.6},
	}
	tri, err := Delaunay(pts)
	require.NoError(t, err)

	// The Delaunay property: no input point lies strictly inside any
	// triangle's circumcircle.
	for ti, tr := range tri.Triangles {
		cc := tri.Circumcenters[ti]
		r := math.Hypot(pts[tr[0]].X-cc.X, pts[tr[0]].Y-cc.Y)
		for v, p := range pts {
			if v == tr[0] || v == tr[1] || v == tr[2] {
				continue
			}
			d := math.Hypot(p.X-cc.X, p.Y-cc.Y)
			assert.GreaterOrEqual(t, d, r-1e-9,
				"point %d inside circumcircle of triangle %d", v, ti)
		}
	}
}

func TestDelaunay_DegenerateInput(t *testing.T) {
	t.Run("TooFew", func(t *testing.T) {
		_, err := Delaunay([]Point{{0, 0}, {1, 1}})
		assert.ErrorIs(t, err, ErrTooFewPoints)
	})

	t.Run("Collinear", func(t *testing.T) {
		_, err := Delaunay([]Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}})
		assert.ErrorIs(t, err, ErrCollinear)
	})

	t.Run("Duplicate", func(t *testing.T) {
		_, err := Delaunay([]Point{{0, 0}, {1, 0}, {0, 1}, {1, 0}})
		assert.Error(t, err)
	})
}

func TestDelaunay_EdgeTriangleAdjacency(t *testing.T) {
	tri, err := Delaunay(unitSquarePlusCenter())
	require.NoError(t, err)

	hullEdges, innerEdges := 0, 0
	for ei := range tri.Edges {
		adj := tri.TrianglesAtEdge(ei)
		switch len(adj) {
		case 1:
			hullEdges++
		case 2:
			innerEdges++
		default:
			t.Fatalf("edge %d has %d adjacent triangles", ei, len(adj))
		}
	}
	assert.Equal(t, 4, hullEdges, "square sides")
	assert.Equal(t, 4, innerEdges, "spokes to the center")

	// Each triangle's edge ids recover the triangle from the other side.
	for ti := range tri.Triangles {
		for _, ei := range tri.EdgesOfTriangle(ti) {
			assert.Contains(t, tri.TrianglesAtEdge(ei), ti)
		}
	}
}

func TestVoronoiCell_CenterOfSquare(t *testing.T) {
	tri, err := Delaunay(unitSquarePlusCenter())
	require.NoError(t, err)

	poly, ok := tri.VoronoiCell(4)
	require.True(t, ok, "center node must have a bounded Voronoi cell")
	assert.InDelta(t, 0.5, poly.Area(), 1e-12,
		"dual of the center is the square of the four side-triangle circumcenters")

	for _, hullNode := range tri.HullNodes {
		_, ok := tri.VoronoiCell(hullNode)
		assert.False(t, ok, "hull node %d has an unbounded region", hullNode)
	}

	areas := tri.VoronoiAreas()
	assert.InDelta(t, 0.5, areas[4], 1e-12)
	assert.True(t, math.IsNaN(areas[0]))
}
