package grid

import (
	"math"

	"github.com/surfacemodel/gridmesh/mesh"
)

// Orientation selects which axis hex lattice rows run along.
type Orientation string

const (
	// OrientationHorizontal lays node rows along x, odd rows shifted by
	// half a spacing.
	OrientationHorizontal Orientation = "horizontal"
	// OrientationVertical is the transpose: node rows along y.
	OrientationVertical Orientation = "vertical"
)

// NewHex builds a rows × cols triangular/hexagonal lattice in a
// rectangular layout. Connectivity follows a fixed neighbor-offset pattern
// per row parity: every row is joined horizontally, and each node is
// joined to the two nearest nodes of the next row (one for lattice-edge
// nodes). Patches are the triangles between rows; interior cells are the
// familiar hexagons.
func NewHex(rows, cols int, spacing float64, orientation Orientation) (*mesh.Mesh, error) {
	if rows < 2 || cols < 2 {
		return nil, constructionErrorf(mesh.VariantHex,
			"need at least 2 rows and 2 columns, got %d x %d", rows, cols)
	}
	if spacing <= 0 {
		return nil, constructionErrorf(mesh.VariantHex, "spacing must be positive, got %v", spacing)
	}
	if orientation != OrientationHorizontal && orientation != OrientationVertical {
		return nil, constructionErrorf(mesh.VariantHex, "unknown orientation %q", orientation)
	}

	nodeAt := func(row, col int) int { return row*cols + col }
	rowSpacing := spacing * math.Sqrt(3) / 2

	top := mesh.Topology{
		NodeX: make([]float64, rows*cols),
		NodeY: make([]float64, rows*cols),
	}
	for row := 0; row < rows; row++ {
		offset := 0.0
		if row%2 == 1 {
			offset = spacing / 2
		}
		for col := 0; col < cols; col++ {
			along := float64(col)*spacing + offset
			across := float64(row) * rowSpacing
			n := nodeAt(row, col)
			if orientation == OrientationHorizontal {
				top.NodeX[n], top.NodeY[n] = along, across
			} else {
				top.NodeX[n], top.NodeY[n] = across, along
			}
		}
	}

	// Links keyed by node pair so triangle cycles can be assembled by
	// lookup below.
	linkID := make(map[[2]int]int)
	addLink := func(a, b int) {
		key := [2]int{a, b}
		if a > b {
			key = [2]int{b, a}
		}
		if _, ok := linkID[key]; ok {
			return
		}
		linkID[key] = len(top.LinkTail)
		top.LinkTail = append(top.LinkTail, a)
		top.LinkHead = append(top.LinkHead, b)
	}
	link := func(a, b int) int {
		key := [2]int{a, b}
		if a > b {
			key = [2]int{b, a}
		}
		return linkID[key]
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols-1; col++ {
			addLink(nodeAt(row, col), nodeAt(row, col+1))
		}
		if row == rows-1 {
			break
		}
		for col := 0; col < cols; col++ {
			n := nodeAt(row, col)
			if row%2 == 0 {
				// Even row sits half a spacing left of the row above:
				// neighbors above are cols col-1 and col.
				if col > 0 {
					addLink(n, nodeAt(row+1, col-1))
				}
				addLink(n, nodeAt(row+1, col))
			} else {
				// Odd row sits half a spacing right: neighbors above
				// are cols col and col+1.
				addLink(n, nodeAt(row+1, col))
				if col < cols-1 {
					addLink(n, nodeAt(row+1, col+1))
				}
			}
		}
	}

	// Triangles between each row pair: an up and a down triangle per
	// column interval, 2*(cols-1) per pair.
	addTriangle := func(a, b, c int) {
		top.LinksAtPatch = append(top.LinksAtPatch, []int{link(a, b), link(b, c), link(c, a)})
	}
	for row := 0; row < rows-1; row++ {
		for col := 0; col < cols-1; col++ {
			b0, b1 := nodeAt(row, col), nodeAt(row, col+1)
			u0, u1 := nodeAt(row+1, col), nodeAt(row+1, col+1)
			if row%2 == 0 {
				// Upper row is offset right: u0 sits between b0 and b1.
				addTriangle(b0, b1, u0)
				addTriangle(b1, u1, u0)
			} else {
				// Lower row is offset right: u1 sits between b0 and b1.
				addTriangle(b0, b1, u1)
				addTriangle(b0, u1, u0)
			}
		}
	}

	m, err := mesh.NewMesh(mesh.VariantHex, top)
	if err != nil {
		return nil, wrapConstructionError(mesh.VariantHex, err, "derived topology rejected")
	}
	return m, nil
}
