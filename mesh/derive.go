package mesh

import (
	"fmt"
	"math"
	"sort"
)

// buildPatches validates the link cycle of each patch, normalizes cycles to
// counter-clockwise order, and derives nodesAtPatch, patchesAtLink, and
// patchesAtNode.
func (m *Mesh) buildPatches(linksAtPatch [][]int) error {
	nLinks := len(m.linkTail)
	m.linksAtPatch = make([][]int, len(linksAtPatch))
	m.nodesAtPatch = make([][]int, len(linksAtPatch))

	m.patchesAtLink = make([][2]int, nLinks)
	for l := range m.patchesAtLink {
		m.patchesAtLink[l] = [2]int{-1, -1}
	}

	for p, cycle := range linksAtPatch {
		if len(cycle) < 3 {
			return fmt.Errorf("patch %d has %d links; a patch needs at least 3", p, len(cycle))
		}
		for _, l := range cycle {
			if l < 0 || l >= nLinks {
				return fmt.Errorf("patch %d references link %d out of range", p, l)
			}
		}

		nodes, err := m.walkPatchCycle(p, cycle)
		if err != nil {
			return err
		}

		links := append([]int(nil), cycle...)
		if m.signedArea(nodes) < 0 {
			reverseInts(links)
			reverseInts(nodes)
			// Reversal leaves nodes[i] one step ahead of links[i];
			// rotate right so nodes[i] again starts links[i].
			last := nodes[len(nodes)-1]
			copy(nodes[1:], nodes[:len(nodes)-1])
			nodes[0] = last
		}
		m.linksAtPatch[p] = links
		m.nodesAtPatch[p] = nodes

		// The cycle is CCW, so a link traversed tail→head has this
		// patch on its left.
		for i, l := range links {
			from := nodes[i]
			if m.linkTail[l] == from {
				if m.patchesAtLink[l][0] != -1 {
					return fmt.Errorf("link %d has two patches on its left (%d and %d)",
						l, m.patchesAtLink[l][0], p)
				}
				m.patchesAtLink[l][0] = p
			} else {
				if m.patchesAtLink[l][1] != -1 {
					return fmt.Errorf("link %d has two patches on its right (%d and %d)",
						l, m.patchesAtLink[l][1], p)
				}
				m.patchesAtLink[l][1] = p
			}
		}
	}

	m.buildPatchesAtNode()
	return nil
}

// walkPatchCycle orders the nodes visited by a patch's link cycle.
// nodes[i] is the node the cycle enters cycle[i] from. Fails unless
// consecutive links share exactly one node and the cycle closes.
func (m *Mesh) walkPatchCycle(p int, cycle []int) ([]int, error) {
	k := len(cycle)
	nodes := make([]int, k)
	for i := 0; i < k; i++ {
		cur, next := cycle[i], cycle[(i+1)%k]
		shared, ok := m.sharedNode(cur, next)
		if !ok {
			return nil, fmt.Errorf("patch %d: links %d and %d do not share a node", p, cur, next)
		}
		// shared is the node the cycle arrives at after cur, which is
		// where it enters next from.
		nodes[(i+1)%k] = shared
	}
	// Closure: each link must connect its entry node to the next entry
	// node.
	for i := 0; i < k; i++ {
		l := cycle[i]
		a, b := nodes[i], nodes[(i+1)%k]
		if !((m.linkTail[l] == a && m.linkHead[l] == b) || (m.linkTail[l] == b && m.linkHead[l] == a)) {
			return nil, fmt.Errorf("patch %d: link cycle does not close at link %d", p, l)
		}
	}
	return nodes, nil
}

func (m *Mesh) sharedNode(l1, l2 int) (int, bool) {
	t1, h1 := m.linkTail[l1], m.linkHead[l1]
	t2, h2 := m.linkTail[l2], m.linkHead[l2]
	switch {
	case t1 == t2 || t1 == h2:
		return t1, true
	case h1 == t2 || h1 == h2:
		return h1, true
	}
	return -1, false
}

// signedArea is the shoelace sum over a node cycle; positive means
// counter-clockwise.
func (m *Mesh) signedArea(nodes []int) float64 {
	var sum float64
	for i, n := range nodes {
		next := nodes[(i+1)%len(nodes)]
		sum += m.x[n]*m.y[next] - m.x[next]*m.y[n]
	}
	return sum / 2
}

func (m *Mesh) buildPatchesAtNode() {
	incident := make([][]int, len(m.x))
	for p, nodes := range m.nodesAtPatch {
		for _, n := range nodes {
			incident[n] = append(incident[n], p)
		}
	}
	m.patchesAtNode = incident
}

// buildCells assigns a cell to every interior node: a node all of whose
// incident links are flanked by two patches, so the patch corners close a
// ring around it. Cell assignment is fixed at construction; status
// re-tagging never changes it.
func (m *Mesh) buildCells() {
	m.cellAtNode = make([]int, len(m.x))
	for n := range m.cellAtNode {
		m.cellAtNode[n] = -1
	}
	for n, links := range m.linksAtNode {
		if len(links) == 0 {
			continue
		}
		interior := true
		for _, l := range links {
			if m.patchesAtLink[l][0] == -1 || m.patchesAtLink[l][1] == -1 {
				interior = false
				break
			}
		}
		if interior {
			m.cellAtNode[n] = len(m.nodeAtCell)
			m.nodeAtCell = append(m.nodeAtCell, n)
		}
	}
}

// buildCorners places one corner per patch: the circumcenter for triangles
// (the true Voronoi dual point) and the centroid for larger polygons.
func (m *Mesh) buildCorners() {
	nPatches := len(m.linksAtPatch)
	m.cornerX = make([]float64, nPatches)
	m.cornerY = make([]float64, nPatches)
	for p, nodes := range m.nodesAtPatch {
		if len(nodes) == 3 {
			cx, cy, ok := circumcenter(
				m.x[nodes[0]], m.y[nodes[0]],
				m.x[nodes[1]], m.y[nodes[1]],
				m.x[nodes[2]], m.y[nodes[2]])
			if ok {
				m.cornerX[p], m.cornerY[p] = cx, cy
				continue
			}
		}
		m.cornerX[p], m.cornerY[p] = m.polygonCentroid(nodes)
	}

	// Order each node's patches counter-clockwise by corner direction, so
	// cell polygons assemble without sorting at query time.
	for n, patches := range m.patchesAtNode {
		sort.SliceStable(patches, func(i, j int) bool {
			return m.cornerAngleFrom(n, patches[i]) < m.cornerAngleFrom(n, patches[j])
		})
	}
}

func (m *Mesh) cornerAngleFrom(node, patch int) float64 {
	a := math.Atan2(m.cornerY[patch]-m.y[node], m.cornerX[patch]-m.x[node])
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

func (m *Mesh) polygonCentroid(nodes []int) (cx, cy float64) {
	var area float64
	for i, n := range nodes {
		next := nodes[(i+1)%len(nodes)]
		cross := m.x[n]*m.y[next] - m.x[next]*m.y[n]
		area += cross
		cx += (m.x[n] + m.x[next]) * cross
		cy += (m.y[n] + m.y[next]) * cross
	}
	area /= 2
	if area == 0 {
		// Degenerate ring; fall back to the vertex mean.
		for _, n := range nodes {
			cx += m.x[n]
			cy += m.y[n]
		}
		return cx / float64(len(nodes)), cy / float64(len(nodes))
	}
	return cx / (6 * area), cy / (6 * area)
}

// circumcenter returns the center of the circle through three points, or
// ok=false when they are collinear.
func circumcenter(ax, ay, bx, by, cx, cy float64) (x, y float64, ok bool) {
	d := 2 * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
	if math.Abs(d) < 1e-12 {
		return 0, 0, false
	}
	a2 := ax*ax + ay*ay
	b2 := bx*bx + by*by
	c2 := cx*cx + cy*cy
	x = (a2*(by-cy) + b2*(cy-ay) + c2*(ay-by)) / d
	y = (a2*(cx-bx) + b2*(ax-cx) + c2*(bx-ax)) / d
	return x, y, true
}

// buildFaces assigns a face to every link that borders a cell. Such links
// always carry two patches, so the face spans the two flanking corners.
func (m *Mesh) buildFaces() {
	m.faceAtLink = make([]int, len(m.linkTail))
	for l := range m.faceAtLink {
		m.faceAtLink[l] = -1
	}
	for l := range m.linkTail {
		t, h := m.linkTail[l], m.linkHead[l]
		if m.cellAtNode[t] == -1 && m.cellAtNode[h] == -1 {
			continue
		}
		m.faceAtLink[l] = len(m.linkAtFace)
		m.linkAtFace = append(m.linkAtFace, l)
	}
}

// buildPerimeter collects nodes touching an unflanked link (one with fewer
// than two patches). Variants with no patches at all, like networks, get
// every connected node; they seed explicit statuses instead.
func (m *Mesh) buildPerimeter() {
	onBoundary := make([]bool, len(m.x))
	for l := range m.linkTail {
		if m.patchesAtLink[l][0] == -1 || m.patchesAtLink[l][1] == -1 {
			onBoundary[m.linkTail[l]] = true
			onBoundary[m.linkHead[l]] = true
		}
	}
	for n, b := range onBoundary {
		if b {
			m.perimeter = append(m.perimeter, n)
		}
	}
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
