package grid

import (
	"github.com/surfacemodel/gridmesh/mesh"
)

// NewNetwork builds a mesh from an explicit node-link list, e.g. a river
// network. No connectivity is derived beyond the given links: the mesh has
// no patches, cells, corners, or faces. All nodes start core; callers tag
// outlets and other boundaries through the status API.
func NewNetwork(x, y []float64, links [][2]int) (*mesh.Mesh, error) {
	if len(x) != len(y) {
		return nil, constructionErrorf(mesh.VariantNetwork,
			"coordinate arrays differ in length: %d vs %d", len(x), len(y))
	}
	if len(x) == 0 {
		return nil, constructionErrorf(mesh.VariantNetwork, "need at least one node")
	}

	seen := make(map[[2]int]int, len(links))
	top := mesh.Topology{
		NodeX:      x,
		NodeY:      y,
		NodeStatus: make([]mesh.NodeStatus, len(x)),
	}
	for i, l := range links {
		if l[0] < 0 || l[0] >= len(x) || l[1] < 0 || l[1] >= len(x) {
			return nil, constructionErrorf(mesh.VariantNetwork,
				"link %d references node out of range: (%d, %d)", i, l[0], l[1])
		}
		if l[0] == l[1] {
			return nil, constructionErrorf(mesh.VariantNetwork,
				"link %d connects node %d to itself", i, l[0])
		}
		key := [2]int{min(l[0], l[1]), max(l[0], l[1])}
		if j, dup := seen[key]; dup {
			return nil, constructionErrorf(mesh.VariantNetwork,
				"links %d and %d duplicate node pair (%d, %d)", j, i, key[0], key[1])
		}
		seen[key] = i
		top.LinkTail = append(top.LinkTail, l[0])
		top.LinkHead = append(top.LinkHead, l[1])
	}

	m, err := mesh.NewMesh(mesh.VariantNetwork, top)
	if err != nil {
		return nil, wrapConstructionError(mesh.VariantNetwork, err, "topology rejected")
	}
	return m, nil
}
