// Package mesh holds the topology core shared by every grid variant: the
// element counts and connectivity arrays of one 2-D computational mesh, the
// per-node boundary status model with derived link statuses, lazily cached
// geometry, and the field store bound to the mesh's element groups.
//
// Element groups and their duals:
//
//	node   — point with an (x, y) position
//	link   — directed connection between two nodes (tail → head)
//	patch  — polygon bounded by a closed cycle of links
//	cell   — dual polygon around an interior node, for finite-volume budgets
//	corner — dual point of a patch (circumcenter or centroid)
//	face   — dual edge crossing a link that borders at least one cell
//
// All adjacency orderings are counter-clockwise starting from the positive
// x direction, for every variant, so orientation-dependent algorithms are
// reproducible across topologies.
package mesh

import (
	"fmt"
	"math"
	"sort"

	"github.com/surfacemodel/gridmesh/field"
)

// Variant names the topology class a mesh was built by. Components declare
// the variants they support; everything else in this package is
// variant-agnostic.
type Variant string

const (
	VariantRaster        Variant = "raster"
	VariantHex           Variant = "hex"
	VariantRadial        Variant = "radial"
	VariantVoronoi       Variant = "voronoi"
	VariantFramedVoronoi Variant = "framed_voronoi"
	VariantNetwork       Variant = "network"
)

// Element group names, shared with the field store's string keys.
const (
	GroupNode   = "node"
	GroupLink   = "link"
	GroupPatch  = "patch"
	GroupCell   = "cell"
	GroupCorner = "corner"
	GroupFace   = "face"
)

// InvalidGroupError reports an unrecognized element group name.
type InvalidGroupError struct {
	Group string
}

func (e *InvalidGroupError) Error() string {
	return fmt.Sprintf("invalid element group %q", e.Group)
}

// Topology is the construction input a grid variant hands to NewMesh:
// node coordinates, link endpoints, and patch link cycles. Everything else
// (dual elements, adjacency orderings, statuses) is derived.
type Topology struct {
	NodeX, NodeY []float64
	LinkTail     []int
	LinkHead     []int
	LinksAtPatch [][]int

	// NodeStatus seeds per-node statuses. When nil, perimeter nodes
	// default to FixedValueBoundary and interior nodes to CoreNode.
	NodeStatus []NodeStatus
}

// Mesh owns the connectivity and geometry of one mesh instance together
// with its field store. Meshes are immutable after construction except for
// node statuses (and their derived link statuses) and field contents.
type Mesh struct {
	variant Variant

	x, y     []float64
	linkTail []int
	linkHead []int

	linksAtPatch  [][]int // CCW cycle per patch
	nodesAtPatch  [][]int // CCW, nodesAtPatch[p][i] starts linksAtPatch[p][i]
	linksAtNode   [][]int // CCW from +x
	adjacentNodes [][]int // other endpoint of linksAtNode, same order
	patchesAtLink [][2]int
	patchesAtNode [][]int // CCW by corner angle about the node

	cellAtNode []int // -1 for nodes without a cell
	nodeAtCell []int

	cornerX, cornerY []float64 // one corner per patch

	faceAtLink []int // -1 for links without a face
	linkAtFace []int

	perimeter []int

	status     []NodeStatus
	linkStatus []LinkStatus

	geom   geometryCache
	fields *field.Store
}

// Option adjusts mesh construction.
type Option func(*options)

type options struct {
	fieldConfig field.Config
}

// WithFieldConfig applies cfg to the mesh's field store.
func WithFieldConfig(cfg field.Config) Option {
	return func(o *options) { o.fieldConfig = cfg }
}

// NewMesh validates top, derives all secondary connectivity, and returns a
// ready mesh. Every link must reference two distinct in-range nodes and
// every patch must be a closed cycle of links; violations are reported as
// errors, not repaired.
func NewMesh(variant Variant, top Topology, opts ...Option) (*Mesh, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if len(top.NodeX) != len(top.NodeY) {
		return nil, fmt.Errorf("node coordinate arrays differ in length: %d vs %d",
			len(top.NodeX), len(top.NodeY))
	}
	if len(top.LinkTail) != len(top.LinkHead) {
		return nil, fmt.Errorf("link endpoint arrays differ in length: %d vs %d",
			len(top.LinkTail), len(top.LinkHead))
	}

	m := &Mesh{
		variant:  variant,
		x:        append([]float64(nil), top.NodeX...),
		y:        append([]float64(nil), top.NodeY...),
		linkTail: append([]int(nil), top.LinkTail...),
		linkHead: append([]int(nil), top.LinkHead...),
	}

	nNodes := len(m.x)
	for l := range m.linkTail {
		t, h := m.linkTail[l], m.linkHead[l]
		if t < 0 || t >= nNodes || h < 0 || h >= nNodes {
			return nil, fmt.Errorf("link %d references node out of range: (%d, %d)", l, t, h)
		}
		if t == h {
			return nil, fmt.Errorf("link %d is degenerate: both endpoints are node %d", l, t)
		}
	}

	m.buildLinksAtNode()
	if err := m.buildPatches(top.LinksAtPatch); err != nil {
		return nil, err
	}
	m.buildCells()
	m.buildCorners()
	m.buildFaces()
	m.buildPerimeter()

	if top.NodeStatus != nil {
		if len(top.NodeStatus) != nNodes {
			return nil, fmt.Errorf("node status array length %d does not match %d nodes",
				len(top.NodeStatus), nNodes)
		}
		for i, s := range top.NodeStatus {
			if !s.valid() {
				return nil, fmt.Errorf("node %d has invalid status %d", i, s)
			}
		}
		m.status = append([]NodeStatus(nil), top.NodeStatus...)
	} else {
		m.status = make([]NodeStatus, nNodes)
		for _, n := range m.perimeter {
			m.status[n] = FixedValueBoundary
		}
	}

	m.linkStatus = make([]LinkStatus, len(m.linkTail))
	m.recomputeAllLinkStatuses()

	m.geom.init()
	m.fields = field.NewStore(m, o.fieldConfig)
	return m, nil
}

// Variant returns the topology class this mesh was built by.
func (m *Mesh) Variant() Variant { return m.variant }

var _ field.Counter = (*Mesh)(nil)

// Fields returns the mesh's field store. The store is owned by the mesh
// and shared by reference among all components bound to it.
func (m *Mesh) Fields() *field.Store { return m.fields }

// ElementCount returns the number of elements in group, or an
// *InvalidGroupError for an unrecognized group name.
func (m *Mesh) ElementCount(group string) (int, error) {
	switch group {
	case GroupNode:
		return len(m.x), nil
	case GroupLink:
		return len(m.linkTail), nil
	case GroupPatch:
		return len(m.linksAtPatch), nil
	case GroupCell:
		return len(m.nodeAtCell), nil
	case GroupCorner:
		return len(m.cornerX), nil
	case GroupFace:
		return len(m.linkAtFace), nil
	}
	return 0, &InvalidGroupError{Group: group}
}

// NumberOfNodes is a convenience for ElementCount(GroupNode).
func (m *Mesh) NumberOfNodes() int { return len(m.x) }

// NumberOfLinks is a convenience for ElementCount(GroupLink).
func (m *Mesh) NumberOfLinks() int { return len(m.linkTail) }

// NumberOfPatches is a convenience for ElementCount(GroupPatch).
func (m *Mesh) NumberOfPatches() int { return len(m.linksAtPatch) }

// NumberOfCells is a convenience for ElementCount(GroupCell).
func (m *Mesh) NumberOfCells() int { return len(m.nodeAtCell) }

// NodeX returns the x coordinate of node n.
func (m *Mesh) NodeX(n int) float64 { return m.x[n] }

// NodeY returns the y coordinate of node n.
func (m *Mesh) NodeY(n int) float64 { return m.y[n] }

// NodesAtLink returns the (tail, head) node pair of link l.
func (m *Mesh) NodesAtLink(l int) (tail, head int) {
	return m.linkTail[l], m.linkHead[l]
}

// LinksAtNode returns the links incident to node n, counter-clockwise
// starting from the positive x direction. The returned slice is owned by
// the mesh and must not be modified.
func (m *Mesh) LinksAtNode(n int) []int { return m.linksAtNode[n] }

// AdjacentNodesAtNode returns the nodes joined to n by a link, in the same
// order as LinksAtNode.
func (m *Mesh) AdjacentNodesAtNode(n int) []int { return m.adjacentNodes[n] }

// LinksAtPatch returns the closed, counter-clockwise link cycle bounding
// patch p.
func (m *Mesh) LinksAtPatch(p int) []int { return m.linksAtPatch[p] }

// NodesAtPatch returns patch p's nodes in counter-clockwise order;
// NodesAtPatch(p)[i] is the node the cycle enters link LinksAtPatch(p)[i]
// from.
func (m *Mesh) NodesAtPatch(p int) []int { return m.nodesAtPatch[p] }

// PatchesAtLink returns the patches on the (left, right) of link l's
// tail→head direction; -1 marks an absent side.
func (m *Mesh) PatchesAtLink(l int) (left, right int) {
	return m.patchesAtLink[l][0], m.patchesAtLink[l][1]
}

// PatchesAtNode returns the patches incident to node n, counter-clockwise
// by the angle of their corner points about the node.
func (m *Mesh) PatchesAtNode(n int) []int { return m.patchesAtNode[n] }

// CellAtNode returns the cell owned by node n, or -1 when n has none.
func (m *Mesh) CellAtNode(n int) int { return m.cellAtNode[n] }

// NodeAtCell returns the node that owns cell c.
func (m *Mesh) NodeAtCell(c int) int { return m.nodeAtCell[c] }

// CornerAtPatch returns the corner id of patch p. Corners and patches are
// in one-to-one correspondence, so this is the identity; it exists so
// dual-mesh code reads symmetrically.
func (m *Mesh) CornerAtPatch(p int) int { return p }

// CornerXY returns the coordinates of corner c.
func (m *Mesh) CornerXY(c int) (x, y float64) { return m.cornerX[c], m.cornerY[c] }

// FaceAtLink returns the face crossing link l, or -1 when l has none.
func (m *Mesh) FaceAtLink(l int) int { return m.faceAtLink[l] }

// LinkAtFace returns the link crossed by face f.
func (m *Mesh) LinkAtFace(f int) int { return m.linkAtFace[f] }

// Perimeter returns the ids of nodes on the mesh boundary, ascending. The
// returned slice is owned by the mesh.
func (m *Mesh) Perimeter() []int { return m.perimeter }

// StatusAtNode returns node n's current status.
func (m *Mesh) StatusAtNode(n int) NodeStatus { return m.status[n] }

// StatusAtLink returns link l's derived status. It is always consistent
// with the current endpoint node statuses.
func (m *Mesh) StatusAtLink(l int) LinkStatus { return m.linkStatus[l] }

// SetNodeStatus re-tags node n and synchronously recomputes the status of
// the links incident to n — O(degree of n), not O(total links). Link
// statuses are never deferred: a read after SetNodeStatus returns sees the
// updated derivation.
func (m *Mesh) SetNodeStatus(n int, s NodeStatus) error {
	if n < 0 || n >= len(m.status) {
		return fmt.Errorf("node index %d out of range [0, %d)", n, len(m.status))
	}
	if !s.valid() {
		return fmt.Errorf("invalid node status %d", s)
	}
	m.status[n] = s
	for _, l := range m.linksAtNode[n] {
		m.linkStatus[l] = DeriveLinkStatus(m.status[m.linkTail[l]], m.status[m.linkHead[l]])
	}
	return nil
}

// SetPerimeterStatus re-tags every perimeter node to s.
func (m *Mesh) SetPerimeterStatus(s NodeStatus) error {
	for _, n := range m.perimeter {
		if err := m.SetNodeStatus(n, s); err != nil {
			return err
		}
	}
	return nil
}

// SetClosedBoundaries closes the perimeter, excluding it from computation.
func (m *Mesh) SetClosedBoundaries() { m.SetPerimeterStatus(ClosedBoundary) }

// SetFixedValueBoundaries tags the perimeter with fixed-value conditions,
// the default for most variants.
func (m *Mesh) SetFixedValueBoundaries() { m.SetPerimeterStatus(FixedValueBoundary) }

// CoreNodes returns the ids of nodes currently tagged core, ascending.
// Recomputed on demand so it is never stale.
func (m *Mesh) CoreNodes() []int {
	var ids []int
	for n, s := range m.status {
		if s == CoreNode {
			ids = append(ids, n)
		}
	}
	return ids
}

// ActiveLinks returns the ids of links currently active, ascending.
func (m *Mesh) ActiveLinks() []int {
	var ids []int
	for l, s := range m.linkStatus {
		if s == ActiveLink {
			ids = append(ids, l)
		}
	}
	return ids
}

// FixedLinks returns the ids of links currently fixed, ascending.
func (m *Mesh) FixedLinks() []int {
	var ids []int
	for l, s := range m.linkStatus {
		if s == FixedLink {
			ids = append(ids, l)
		}
	}
	return ids
}

func (m *Mesh) recomputeAllLinkStatuses() {
	for l := range m.linkStatus {
		m.linkStatus[l] = DeriveLinkStatus(m.status[m.linkTail[l]], m.status[m.linkHead[l]])
	}
}

// buildLinksAtNode gathers incident links per node and orders them
// counter-clockwise starting from +x, by the direction of the link as seen
// from the node.
func (m *Mesh) buildLinksAtNode() {
	n := len(m.x)
	m.linksAtNode = make([][]int, n)
	m.adjacentNodes = make([][]int, n)

	for l := range m.linkTail {
		m.linksAtNode[m.linkTail[l]] = append(m.linksAtNode[m.linkTail[l]], l)
		m.linksAtNode[m.linkHead[l]] = append(m.linksAtNode[m.linkHead[l]], l)
	}

	for node, links := range m.linksAtNode {
		sort.SliceStable(links, func(i, j int) bool {
			return m.linkAngleFrom(node, links[i]) < m.linkAngleFrom(node, links[j])
		})
		adj := make([]int, len(links))
		for i, l := range links {
			adj[i] = m.otherNode(l, node)
		}
		m.adjacentNodes[node] = adj
	}
}

// linkAngleFrom returns the direction of link l as seen from node, in
// [0, 2π) measured counter-clockwise from +x.
func (m *Mesh) linkAngleFrom(node, l int) float64 {
	other := m.otherNode(l, node)
	a := math.Atan2(m.y[other]-m.y[node], m.x[other]-m.x[node])
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

func (m *Mesh) otherNode(l, node int) int {
	if m.linkTail[l] == node {
		return m.linkHead[l]
	}
	return m.linkTail[l]
}
