package mesh

import (
	"math"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/floats"
)

// geometryCache holds derived geometric quantities, computed lazily and
// stamped with the coordinate version they were built from. Coordinates
// are immutable after construction in the common case, but the stamps keep
// the caches correct if a future mutation path bumps the version. Boundary
// status re-tagging never touches geometry.
type geometryCache struct {
	version uint64

	linkLength    []float64
	linkLengthVer uint64

	patchArea    []float64
	patchAreaVer uint64

	cellArea    []float64
	cellAreaVer uint64

	faceWidth    []float64
	faceWidthVer uint64
}

func (g *geometryCache) init() {
	// Version 0 is reserved as the "not built" stamp.
	g.version = 1
}

// LengthOfLink returns the straight-line length of link l.
func (m *Mesh) LengthOfLink(l int) float64 {
	if m.geom.linkLengthVer != m.geom.version {
		m.geom.linkLength = m.computeLinkLengths()
		m.geom.linkLengthVer = m.geom.version
	}
	return m.geom.linkLength[l]
}

// MidpointOfLink returns the midpoint of link l.
func (m *Mesh) MidpointOfLink(l int) (x, y float64) {
	t, h := m.linkTail[l], m.linkHead[l]
	return (m.x[t] + m.x[h]) / 2, (m.y[t] + m.y[h]) / 2
}

// AreaOfPatch returns the polygon area of patch p.
func (m *Mesh) AreaOfPatch(p int) float64 {
	if m.geom.patchAreaVer != m.geom.version {
		m.geom.patchArea = m.computePatchAreas()
		m.geom.patchAreaVer = m.geom.version
	}
	return m.geom.patchArea[p]
}

// AreaOfCell returns the area of the dual polygon around cell c's node:
// the corners of the node's incident patches, taken counter-clockwise.
func (m *Mesh) AreaOfCell(c int) float64 {
	if m.geom.cellAreaVer != m.geom.version {
		m.geom.cellArea = m.computeCellAreas()
		m.geom.cellAreaVer = m.geom.version
	}
	return m.geom.cellArea[c]
}

// WidthOfFace returns the length of face f: the distance between the
// corners of the two patches flanking the crossed link.
func (m *Mesh) WidthOfFace(f int) float64 {
	if m.geom.faceWidthVer != m.geom.version {
		m.geom.faceWidth = m.computeFaceWidths()
		m.geom.faceWidthVer = m.geom.version
	}
	return m.geom.faceWidth[f]
}

// TotalCellArea returns the summed area of all cells.
func (m *Mesh) TotalCellArea() float64 {
	if len(m.nodeAtCell) == 0 {
		return 0
	}
	m.AreaOfCell(0) // populate the cache
	return floats.Sum(m.geom.cellArea)
}

func (m *Mesh) computeLinkLengths() []float64 {
	lengths := make([]float64, len(m.linkTail))
	for l := range lengths {
		t, h := m.linkTail[l], m.linkHead[l]
		lengths[l] = math.Hypot(m.x[h]-m.x[t], m.y[h]-m.y[t])
	}
	return lengths
}

func (m *Mesh) computePatchAreas() []float64 {
	areas := make([]float64, len(m.nodesAtPatch))
	for p, nodes := range m.nodesAtPatch {
		path := make([]geom.Point, len(nodes))
		for i, n := range nodes {
			path[i] = geom.Point{X: m.x[n], Y: m.y[n]}
		}
		areas[p] = geom.Polygon{path}.Area()
	}
	return areas
}

func (m *Mesh) computeCellAreas() []float64 {
	areas := make([]float64, len(m.nodeAtCell))
	for c, n := range m.nodeAtCell {
		patches := m.patchesAtNode[n] // already CCW about the node
		path := make([]geom.Point, len(patches))
		for i, p := range patches {
			path[i] = geom.Point{X: m.cornerX[p], Y: m.cornerY[p]}
		}
		areas[c] = geom.Polygon{path}.Area()
	}
	return areas
}

func (m *Mesh) computeFaceWidths() []float64 {
	widths := make([]float64, len(m.linkAtFace))
	for f, l := range m.linkAtFace {
		left, right := m.patchesAtLink[l][0], m.patchesAtLink[l][1]
		widths[f] = math.Hypot(m.cornerX[left]-m.cornerX[right],
			m.cornerY[left]-m.cornerY[right])
	}
	return widths
}
