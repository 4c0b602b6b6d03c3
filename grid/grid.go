// Package grid builds meshes. Each variant is a construction-time factory
// that derives connectivity from its parameters and hands a populated
// Topology to the mesh core, so everything downstream of construction is
// topology-agnostic.
package grid

import (
	"fmt"

	"github.com/surfacemodel/gridmesh/mesh"
)

// ConstructionError reports invalid grid construction parameters.
type ConstructionError struct {
	Variant mesh.Variant
	Reason  string
	Err     error
}

func (e *ConstructionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot construct %s grid: %s: %v", e.Variant, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot construct %s grid: %s", e.Variant, e.Reason)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

func constructionErrorf(v mesh.Variant, format string, args ...interface{}) *ConstructionError {
	return &ConstructionError{Variant: v, Reason: fmt.Sprintf(format, args...)}
}

func wrapConstructionError(v mesh.Variant, err error, reason string) *ConstructionError {
	return &ConstructionError{Variant: v, Reason: reason, Err: err}
}
