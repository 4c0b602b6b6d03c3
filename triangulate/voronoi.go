package triangulate

import (
	"math"
	"sort"

	"github.com/ctessum/geom"
)

// VoronoiCell returns the Voronoi polygon dual to node v: the
// circumcenters of the triangles incident to v, ordered counter-clockwise
// around the node. Hull nodes have unbounded Voronoi regions, so ok is
// false for them (and for nodes with no incident triangle).
func (t *Triangulation) VoronoiCell(v int) (poly geom.Polygon, ok bool) {
	if t.hull[v] {
		return nil, false
	}
	tris := t.trianglesAtNode[v]
	if len(tris) < 3 {
		return nil, false
	}

	center := t.Points[v]
	order := append([]int(nil), tris...)
	sort.SliceStable(order, func(i, j int) bool {
		return t.circumAngle(center, order[i]) < t.circumAngle(center, order[j])
	})

	path := make([]geom.Point, len(order))
	for i, ti := range order {
		cc := t.Circumcenters[ti]
		path[i] = geom.Point{X: cc.X, Y: cc.Y}
	}
	return geom.Polygon{path}, true
}

// VoronoiAreas returns the area of every bounded Voronoi cell, indexed by
// node; hull nodes get NaN.
func (t *Triangulation) VoronoiAreas() []float64 {
	areas := make([]float64, len(t.Points))
	for v := range t.Points {
		poly, ok := t.VoronoiCell(v)
		if !ok {
			areas[v] = math.NaN()
			continue
		}
		areas[v] = poly.Area()
	}
	return areas
}

func (t *Triangulation) circumAngle(from Point, ti int) float64 {
	cc := t.Circumcenters[ti]
	a := math.Atan2(cc.Y-from.Y, cc.X-from.X)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
