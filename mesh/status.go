package mesh

import "fmt"

// NodeStatus tags a node's role in computation. The numeric values match
// the status codes process models conventionally store in fields.
type NodeStatus uint8

const (
	// CoreNode is an interior node participating fully in computation.
	CoreNode NodeStatus = 0
	// FixedValueBoundary holds a prescribed value (Dirichlet).
	FixedValueBoundary NodeStatus = 1
	// FixedGradientBoundary holds a prescribed gradient (Neumann).
	FixedGradientBoundary NodeStatus = 2
	// LoopedBoundary wraps to an opposite-edge partner node.
	LoopedBoundary NodeStatus = 3
	// ClosedBoundary takes no part in computation.
	ClosedBoundary NodeStatus = 4
)

func (s NodeStatus) String() string {
	switch s {
	case CoreNode:
		return "core"
	case FixedValueBoundary:
		return "fixed_value"
	case FixedGradientBoundary:
		return "fixed_gradient"
	case LoopedBoundary:
		return "looped"
	case ClosedBoundary:
		return "closed"
	}
	return fmt.Sprintf("NodeStatus(%d)", uint8(s))
}

func (s NodeStatus) valid() bool { return s <= ClosedBoundary }

// LinkStatus is derived from the statuses of a link's two endpoint nodes.
// It is never stored independently of them.
type LinkStatus uint8

const (
	// ActiveLink carries fluxes between participating nodes.
	ActiveLink LinkStatus = 0
	// FixedLink connects a core node to a fixed-gradient boundary.
	FixedLink LinkStatus = 2
	// InactiveLink carries nothing.
	InactiveLink LinkStatus = 4
)

func (s LinkStatus) String() string {
	switch s {
	case ActiveLink:
		return "active"
	case FixedLink:
		return "fixed"
	case InactiveLink:
		return "inactive"
	}
	return fmt.Sprintf("LinkStatus(%d)", uint8(s))
}

// DeriveLinkStatus computes a link's status from its endpoint node
// statuses. Active requires a core node joined to another core or a
// fixed-value boundary; fixed requires a core node joined to a
// fixed-gradient boundary; every other pairing (any closed or looped
// endpoint, boundary-to-boundary) is inactive.
func DeriveLinkStatus(tail, head NodeStatus) LinkStatus {
	if tail == CoreNode {
		tail, head = head, tail
	}
	if head != CoreNode {
		return InactiveLink
	}
	switch tail {
	case CoreNode, FixedValueBoundary:
		return ActiveLink
	case FixedGradientBoundary:
		return FixedLink
	}
	return InactiveLink
}
