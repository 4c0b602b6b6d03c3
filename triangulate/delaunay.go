// Package triangulate computes Delaunay triangulations of 2-D point sets
// and their Voronoi duals. It is the connectivity engine behind the grid
// variants whose topology is not analytically predictable: the result is
// deterministic for a fixed input point order, so meshes built from the
// same points are always identical.
package triangulate

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Point is a 2-D position.
type Point struct {
	X, Y float64
}

var (
	ErrTooFewPoints = errors.New("triangulation needs at least 3 points")
	ErrCollinear    = errors.New("input points are collinear")
)

// Triangulation is the Delaunay triangulation of a point set.
//
// Triangles hold vertex indices in counter-clockwise order, each rotated
// to start at its smallest vertex, and are sorted lexicographically.
// Edges are unique (small, large) pairs sorted lexicographically.
type Triangulation struct {
	Points        []Point
	Triangles     [][3]int
	Edges         [][2]int
	Circumcenters []Point
	HullNodes     []int

	trianglesAtEdge map[[2]int][]int
	trianglesAtNode [][]int
	hull            map[int]bool
}

// Delaunay triangulates pts with the Bowyer-Watson incremental algorithm.
// Points are inserted in input order inside a super-triangle; cocircular
// ties resolve toward the earlier-formed triangle, which keeps the result
// deterministic. Duplicate points and degenerate (collinear) sets are
// errors.
func Delaunay(pts []Point) (*Triangulation, error) {
	n := len(pts)
	if n < 3 {
		return nil, ErrTooFewPoints
	}
	seen := make(map[Point]int, n)
	for i, p := range pts {
		if j, dup := seen[p]; dup {
			return nil, fmt.Errorf("points %d and %d coincide at (%v, %v)", j, i, p.X, p.Y)
		}
		seen[p] = i
	}

	work := make([]Point, n, n+3)
	copy(work, pts)
	work = append(work, superTriangle(pts)...)

	tris := [][3]int{ccw(work, n, n+1, n+2)}

	for i := 0; i < n; i++ {
		// Carve the cavity of triangles whose circumcircle contains the
		// new point.
		var keep, bad [][3]int
		for _, tr := range tris {
			if inCircumcircle(work, tr, work[i]) {
				bad = append(bad, tr)
			} else {
				keep = append(keep, tr)
			}
		}

		// The cavity boundary is every edge belonging to exactly one bad
		// triangle.
		edgeCount := make(map[[2]int]int)
		var edgeOrder [][2]int
		for _, tr := range bad {
			for e := 0; e < 3; e++ {
				key := orderedPair(tr[e], tr[(e+1)%3])
				if edgeCount[key] == 0 {
					edgeOrder = append(edgeOrder, key)
				}
				edgeCount[key]++
			}
		}

		tris = keep
		for _, e := range edgeOrder {
			if edgeCount[e] == 1 {
				tris = append(tris, ccw(work, e[0], e[1], i))
			}
		}
	}

	// Drop every triangle touching the super-triangle.
	var final [][3]int
	for _, tr := range tris {
		if tr[0] < n && tr[1] < n && tr[2] < n {
			final = append(final, tr)
		}
	}
	if len(final) == 0 {
		return nil, ErrCollinear
	}

	t := &Triangulation{Points: pts, Triangles: canonicalize(final)}
	t.buildDerived()
	return t, nil
}

// EdgesOfTriangle returns the three edge ids bounding triangle ti.
func (t *Triangulation) EdgesOfTriangle(ti int) [3]int {
	tr := t.Triangles[ti]
	var ids [3]int
	for e := 0; e < 3; e++ {
		key := orderedPair(tr[e], tr[(e+1)%3])
		ids[e] = t.edgeIndex(key)
	}
	return ids
}

// TrianglesAtEdge returns the one or two triangles flanking edge ei.
func (t *Triangulation) TrianglesAtEdge(ei int) []int {
	return t.trianglesAtEdge[t.Edges[ei]]
}

// TrianglesAtNode returns the triangles incident to node v.
func (t *Triangulation) TrianglesAtNode(v int) []int {
	return t.trianglesAtNode[v]
}

// IsHullNode reports whether v lies on the convex hull.
func (t *Triangulation) IsHullNode(v int) bool { return t.hull[v] }

func (t *Triangulation) edgeIndex(key [2]int) int {
	// Edges is sorted, so binary search recovers the id.
	return sort.Search(len(t.Edges), func(i int) bool {
		e := t.Edges[i]
		return e[0] > key[0] || (e[0] == key[0] && e[1] >= key[1])
	})
}

func (t *Triangulation) buildDerived() {
	t.trianglesAtEdge = make(map[[2]int][]int)
	t.trianglesAtNode = make([][]int, len(t.Points))
	for ti, tr := range t.Triangles {
		for e := 0; e < 3; e++ {
			key := orderedPair(tr[e], tr[(e+1)%3])
			t.trianglesAtEdge[key] = append(t.trianglesAtEdge[key], ti)
		}
		for _, v := range tr {
			t.trianglesAtNode[v] = append(t.trianglesAtNode[v], ti)
		}
	}

	t.Edges = make([][2]int, 0, len(t.trianglesAtEdge))
	for key := range t.trianglesAtEdge {
		t.Edges = append(t.Edges, key)
	}
	sort.Slice(t.Edges, func(i, j int) bool {
		if t.Edges[i][0] != t.Edges[j][0] {
			return t.Edges[i][0] < t.Edges[j][0]
		}
		return t.Edges[i][1] < t.Edges[j][1]
	})

	t.hull = make(map[int]bool)
	for key, tris := range t.trianglesAtEdge {
		if len(tris) == 1 {
			t.hull[key[0]] = true
			t.hull[key[1]] = true
		}
	}
	for v := range t.hull {
		t.HullNodes = append(t.HullNodes, v)
	}
	sort.Ints(t.HullNodes)

	t.Circumcenters = make([]Point, len(t.Triangles))
	for ti, tr := range t.Triangles {
		a, b, c := t.Points[tr[0]], t.Points[tr[1]], t.Points[tr[2]]
		t.Circumcenters[ti] = circumcenter(a, b, c)
	}
}

// superTriangle returns three vertices enclosing every input point by a
// wide margin.
func superTriangle(pts []Point) []Point {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	d := math.Max(maxX-minX, maxY-minY)
	if d == 0 {
		d = 1
	}
	d *= 20
	midX, midY := (minX+maxX)/2, (minY+maxY)/2
	return []Point{
		{midX - d, midY - d},
		{midX + d, midY - d},
		{midX, midY + d},
	}
}

// ccw returns (a, b, c) ordered counter-clockwise.
func ccw(pts []Point, a, b, c int) [3]int {
	if cross(pts[a], pts[b], pts[c]) < 0 {
		return [3]int{a, c, b}
	}
	return [3]int{a, b, c}
}

func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// inCircumcircle reports whether p lies strictly inside the circumcircle
// of the counter-clockwise triangle tr, via the sign of the standard
// lifted-coordinate incircle determinant. Points on the circle count as
// outside, which is what makes cocircular input deterministic.
func inCircumcircle(pts []Point, tr [3]int, p Point) bool {
	a, b, c := pts[tr[0]], pts[tr[1]], pts[tr[2]]
	d := mat.NewDense(3, 3, []float64{
		a.X - p.X, a.Y - p.Y, (a.X-p.X)*(a.X-p.X) + (a.Y-p.Y)*(a.Y-p.Y),
		b.X - p.X, b.Y - p.Y, (b.X-p.X)*(b.X-p.X) + (b.Y-p.Y)*(b.Y-p.Y),
		c.X - p.X, c.Y - p.Y, (c.X-p.X)*(c.X-p.X) + (c.Y-p.Y)*(c.Y-p.Y),
	})
	return mat.Det(d) > 1e-12
}

func circumcenter(a, b, c Point) Point {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	a2 := a.X*a.X + a.Y*a.Y
	b2 := b.X*b.X + b.Y*b.Y
	c2 := c.X*c.X + c.Y*c.Y
	return Point{
		X: (a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d,
		Y: (a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d,
	}
}

func orderedPair(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// canonicalize rotates each triangle to start at its smallest vertex
// (preserving counter-clockwise orientation) and sorts the list, so equal
// triangulations compare equal element by element.
func canonicalize(tris [][3]int) [][3]int {
	out := make([][3]int, len(tris))
	for i, tr := range tris {
		k := 0
		if tr[1] < tr[k] {
			k = 1
		}
		if tr[2] < tr[k] {
			k = 2
		}
		out[i] = [3]int{tr[k], tr[(k+1)%3], tr[(k+2)%3]}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		if a[1] != b[1] {
			return a[1] < b[1]
		}
		return a[2] < b[2]
	})
	return out
}
