package mesh

import "fmt"

// NeighborsOf returns the elements adjacent to (group, index) in that
// group's canonical adjacent group, in deterministic counter-clockwise
// order starting from the positive x direction:
//
//	node   → incident links
//	link   → flanking patches (left then right of tail→head)
//	patch  → bounding links (the CCW cycle)
//	cell   → faces around the cell
//	corner → bounding links of the corner's patch
//	face   → endpoint nodes of the crossed link (tail then head)
//
// Unknown groups fail with *InvalidGroupError; out-of-range indices fail
// with a plain error. The returned slice is freshly allocated.
func (m *Mesh) NeighborsOf(group string, index int) ([]int, error) {
	n, err := m.ElementCount(group)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= n {
		return nil, fmt.Errorf("%s index %d out of range [0, %d)", group, index, n)
	}

	switch group {
	case GroupNode:
		return append([]int(nil), m.linksAtNode[index]...), nil

	case GroupLink:
		var patches []int
		for _, p := range m.patchesAtLink[index] {
			if p != -1 {
				patches = append(patches, p)
			}
		}
		return patches, nil

	case GroupPatch:
		return append([]int(nil), m.linksAtPatch[index]...), nil

	case GroupCell:
		node := m.nodeAtCell[index]
		faces := make([]int, 0, len(m.linksAtNode[node]))
		for _, l := range m.linksAtNode[node] {
			if f := m.faceAtLink[l]; f != -1 {
				faces = append(faces, f)
			}
		}
		return faces, nil

	case GroupCorner:
		return append([]int(nil), m.linksAtPatch[index]...), nil

	case GroupFace:
		l := m.linkAtFace[index]
		return []int{m.linkTail[l], m.linkHead[l]}, nil
	}
	return nil, &InvalidGroupError{Group: group}
}
