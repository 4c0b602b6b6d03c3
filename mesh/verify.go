package mesh

import "fmt"

// Verify checks the mesh's structural invariants. Construction already
// enforces them; Verify exists so grid variants and tests can assert that
// derived connectivity stayed consistent.
func (m *Mesh) Verify() error {
	nNodes := len(m.x)
	nLinks := len(m.linkTail)

	// Every link references two distinct valid nodes, and appears in the
	// incidence lists of exactly its two endpoints.
	seen := make(map[[2]int]int, nLinks)
	for l := 0; l < nLinks; l++ {
		t, h := m.linkTail[l], m.linkHead[l]
		if t < 0 || t >= nNodes || h < 0 || h >= nNodes {
			return fmt.Errorf("link %d endpoint out of range: (%d, %d)", l, t, h)
		}
		if t == h {
			return fmt.Errorf("link %d is degenerate at node %d", l, t)
		}
		key := [2]int{min(t, h), max(t, h)}
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("links %d and %d duplicate node pair (%d, %d)", prev, l, key[0], key[1])
		}
		seen[key] = l
	}

	incidences := 0
	for n, links := range m.linksAtNode {
		for _, l := range links {
			if m.linkTail[l] != n && m.linkHead[l] != n {
				return fmt.Errorf("node %d lists link %d which does not touch it", n, l)
			}
			incidences++
		}
	}
	if incidences != 2*nLinks {
		return fmt.Errorf("link incidence count %d != 2 * %d links", incidences, nLinks)
	}

	// Every patch is a closed CCW cycle.
	for p, cycle := range m.linksAtPatch {
		if _, err := m.walkPatchCycle(p, cycle); err != nil {
			return err
		}
		if m.signedArea(m.nodesAtPatch[p]) <= 0 {
			return fmt.Errorf("patch %d node cycle is not counter-clockwise", p)
		}
	}

	// Cell mapping is a bijection onto a subset of nodes.
	if len(m.nodeAtCell) > nNodes {
		return fmt.Errorf("cell count %d exceeds node count %d", len(m.nodeAtCell), nNodes)
	}
	for c, n := range m.nodeAtCell {
		if m.cellAtNode[n] != c {
			return fmt.Errorf("cell %d maps to node %d which maps back to cell %d", c, n, m.cellAtNode[n])
		}
	}
	for n, c := range m.cellAtNode {
		if c != -1 && m.nodeAtCell[c] != n {
			return fmt.Errorf("node %d maps to cell %d which maps back to node %d", n, c, m.nodeAtCell[c])
		}
	}

	// Link statuses are a pure function of node statuses: rederiving
	// changes nothing.
	for l := 0; l < nLinks; l++ {
		want := DeriveLinkStatus(m.status[m.linkTail[l]], m.status[m.linkHead[l]])
		if m.linkStatus[l] != want {
			return fmt.Errorf("link %d status %v is stale; derivation gives %v", l, m.linkStatus[l], want)
		}
	}

	// Faces and corners stay in range of their primal elements.
	for f, l := range m.linkAtFace {
		if l < 0 || l >= nLinks {
			return fmt.Errorf("face %d crosses link %d out of range", f, l)
		}
		if m.faceAtLink[l] != f {
			return fmt.Errorf("face %d and link %d disagree on their pairing", f, l)
		}
	}
	if len(m.cornerX) != len(m.linksAtPatch) {
		return fmt.Errorf("corner count %d != patch count %d", len(m.cornerX), len(m.linksAtPatch))
	}

	return nil
}
