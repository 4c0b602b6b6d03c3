package grid

import (
	"github.com/surfacemodel/gridmesh/mesh"
)

// Raster is a regular rectangular lattice. Nodes are numbered row-major
// from the lower-left corner; links are ordered row by row, the horizontal
// run of each row before its vertical run; patches are the quads between
// lattice rows and columns.
type Raster struct {
	*mesh.Mesh

	rows, cols int
	spacing    float64
}

// NewRaster builds a rows × cols lattice with the given node spacing.
// Perimeter nodes start as fixed-value boundaries, interior nodes as core.
func NewRaster(rows, cols int, spacing float64) (*Raster, error) {
	if rows < 2 || cols < 2 {
		return nil, constructionErrorf(mesh.VariantRaster,
			"need at least 2 rows and 2 columns, got %d x %d", rows, cols)
	}
	if spacing <= 0 {
		return nil, constructionErrorf(mesh.VariantRaster, "spacing must be positive, got %v", spacing)
	}

	r := &Raster{rows: rows, cols: cols, spacing: spacing}

	nNodes := rows * cols
	top := mesh.Topology{
		NodeX: make([]float64, nNodes),
		NodeY: make([]float64, nNodes),
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			n := r.NodeAt(row, col)
			top.NodeX[n] = float64(col) * spacing
			top.NodeY[n] = float64(row) * spacing
		}
	}

	// Row by row: horizontals then verticals, O(1) index arithmetic per
	// element.
	for row := 0; row < rows; row++ {
		for col := 0; col < cols-1; col++ {
			n := r.NodeAt(row, col)
			top.LinkTail = append(top.LinkTail, n)
			top.LinkHead = append(top.LinkHead, n+1)
		}
		if row == rows-1 {
			break
		}
		for col := 0; col < cols; col++ {
			n := r.NodeAt(row, col)
			top.LinkTail = append(top.LinkTail, n)
			top.LinkHead = append(top.LinkHead, n+cols)
		}
	}

	// Quads in the same row-major order, counter-clockwise from the
	// bottom link.
	for row := 0; row < rows-1; row++ {
		for col := 0; col < cols-1; col++ {
			top.LinksAtPatch = append(top.LinksAtPatch, []int{
				r.horizontalLink(row, col),
				r.verticalLink(row, col+1),
				r.horizontalLink(row+1, col),
				r.verticalLink(row, col),
			})
		}
	}

	m, err := mesh.NewMesh(mesh.VariantRaster, top)
	if err != nil {
		return nil, wrapConstructionError(mesh.VariantRaster, err, "derived topology rejected")
	}
	r.Mesh = m
	return r, nil
}

// Rows returns the lattice row count.
func (r *Raster) Rows() int { return r.rows }

// Cols returns the lattice column count.
func (r *Raster) Cols() int { return r.cols }

// Spacing returns the node spacing.
func (r *Raster) Spacing() float64 { return r.spacing }

// NodeAt returns the node id at lattice position (row, col).
func (r *Raster) NodeAt(row, col int) int { return row*r.cols + col }

// linksPerRow is the stride between the link blocks of successive rows:
// cols-1 horizontals followed by cols verticals.
func (r *Raster) linksPerRow() int { return 2*r.cols - 1 }

func (r *Raster) horizontalLink(row, col int) int {
	return row*r.linksPerRow() + col
}

func (r *Raster) verticalLink(row, col int) int {
	return row*r.linksPerRow() + (r.cols - 1) + col
}

// SetLoopedEdges re-tags the perimeter for wrap-around boundary
// conditions: when eastWest is set the left and right columns become
// looped, when northSouth the bottom and top rows. Looped pairing itself
// is the caller's concern; the status model treats looped endpoints as
// inactive for link-status purposes.
func (r *Raster) SetLoopedEdges(eastWest, northSouth bool) error {
	if eastWest {
		for row := 0; row < r.rows; row++ {
			if err := r.SetNodeStatus(r.NodeAt(row, 0), mesh.LoopedBoundary); err != nil {
				return err
			}
			if err := r.SetNodeStatus(r.NodeAt(row, r.cols-1), mesh.LoopedBoundary); err != nil {
				return err
			}
		}
	}
	if northSouth {
		for col := 0; col < r.cols; col++ {
			if err := r.SetNodeStatus(r.NodeAt(0, col), mesh.LoopedBoundary); err != nil {
				return err
			}
			if err := r.SetNodeStatus(r.NodeAt(r.rows-1, col), mesh.LoopedBoundary); err != nil {
				return err
			}
		}
	}
	return nil
}
