// Package component enforces the declarative contract between a process
// algorithm and a mesh's field store: a component declares the fields it
// reads, the fields it writes, and the grid variants it supports, and the
// whole declaration is validated once at binding time so a run that would
// fail does so before any step executes.
//
// The execution model is cooperative: components share the mesh and its
// field store by reference and mutate fields in place, in the sequential
// order the caller chooses. Nothing stops one component from overwriting
// another's input; that trust model is the composition mechanism, not a
// hazard to lock away.
package component

import (
	"fmt"

	"github.com/surfacemodel/gridmesh/mesh"
)

// Role says how a component uses a declared field.
type Role int

const (
	// RequiredInput must exist before the component binds.
	RequiredInput Role = iota
	// ProvidedOutput is created zero-initialized at binding when absent.
	ProvidedOutput
	// Optional is used when present and ignored otherwise.
	Optional
)

func (r Role) String() string {
	switch r {
	case RequiredInput:
		return "required-input"
	case ProvidedOutput:
		return "provided-output"
	case Optional:
		return "optional"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// FieldSpec declares one field a component touches.
type FieldSpec struct {
	Name  string
	Group string
	Role  Role
	Units string
	Doc   string
}

// Definition is a component's full contract: its field declarations and
// the grid variants it can run on. An empty Grids list means any variant.
type Definition struct {
	Name   string
	Fields []FieldSpec
	Grids  []mesh.Variant
}

// MissingFieldError reports a required-input field absent from the mesh at
// binding time.
type MissingFieldError struct {
	Component string
	Name      string
	Group     string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("component %s: required field %q at %q is missing",
		e.Component, e.Name, e.Group)
}

// IncompatibleGridError reports a mesh whose variant is outside the
// component's declared supported set.
type IncompatibleGridError struct {
	Component string
	Variant   mesh.Variant
	Supported []mesh.Variant
}

func (e *IncompatibleGridError) Error() string {
	return fmt.Sprintf("component %s: grid variant %q not supported (supported: %v)",
		e.Component, e.Variant, e.Supported)
}

// Component is a process algorithm bound to a mesh. Step mutates the
// shared field store in place; it returns nothing because its observable
// effect is that mutation.
type Component interface {
	Definition() Definition
	Step(dt float64)
}

// Binding is a validated attachment of a Definition to a mesh. It is the
// base a concrete component embeds or wraps; it holds a non-owning
// reference to the mesh and never resizes it.
type Binding struct {
	def  Definition
	grid *mesh.Mesh
}

// Bind validates def against m: the variant must be supported, every
// required-input field must already exist in its declared group, and every
// absent provided-output field is created zero-initialized. Violations are
// binding-time failures so no simulation step runs doomed.
func Bind(m *mesh.Mesh, def Definition) (*Binding, error) {
	if len(def.Grids) > 0 {
		supported := false
		for _, v := range def.Grids {
			if v == m.Variant() {
				supported = true
				break
			}
		}
		if !supported {
			return nil, &IncompatibleGridError{
				Component: def.Name,
				Variant:   m.Variant(),
				Supported: def.Grids,
			}
		}
	}

	store := m.Fields()
	for _, fs := range def.Fields {
		// Group names are validated even for fields we end up creating.
		if _, err := m.ElementCount(fs.Group); err != nil {
			return nil, fmt.Errorf("component %s: field %q: %w", def.Name, fs.Name, err)
		}
		switch fs.Role {
		case RequiredInput:
			if !store.HasField(fs.Group, fs.Name) {
				return nil, &MissingFieldError{Component: def.Name, Name: fs.Name, Group: fs.Group}
			}
		case ProvidedOutput:
			if _, err := store.CreateIfAbsent(fs.Group, fs.Name); err != nil {
				return nil, fmt.Errorf("component %s: creating output %q at %q: %w",
					def.Name, fs.Name, fs.Group, err)
			}
		}
	}

	return &Binding{def: def, grid: m}, nil
}

// Grid returns the bound mesh.
func (b *Binding) Grid() *mesh.Mesh { return b.grid }

// Definition returns the validated contract.
func (b *Binding) Definition() Definition { return b.def }

// Input returns the live array of a declared required-input or optional
// field. Fields not in the declaration are an error regardless of
// presence: components only touch what they declared.
func (b *Binding) Input(name string) ([]float64, error) {
	fs, err := b.declared(name, RequiredInput, Optional)
	if err != nil {
		return nil, err
	}
	return b.grid.Fields().GetField(fs.Group, fs.Name)
}

// Output returns the live array of a declared provided-output field.
func (b *Binding) Output(name string) ([]float64, error) {
	fs, err := b.declared(name, ProvidedOutput)
	if err != nil {
		return nil, err
	}
	return b.grid.Fields().GetField(fs.Group, fs.Name)
}

func (b *Binding) declared(name string, roles ...Role) (*FieldSpec, error) {
	for i := range b.def.Fields {
		fs := &b.def.Fields[i]
		if fs.Name != name {
			continue
		}
		for _, r := range roles {
			if fs.Role == r {
				return fs, nil
			}
		}
		return nil, fmt.Errorf("component %s: field %q declared as %v, not %v",
			b.def.Name, name, fs.Role, roles)
	}
	return nil, fmt.Errorf("component %s: field %q not declared", b.def.Name, name)
}

// Run executes components sequentially for the given number of steps.
// Order is the caller's choice and is preserved exactly; there is no
// concurrency and therefore no locking.
func Run(steps int, dt float64, comps ...Component) {
	for s := 0; s < steps; s++ {
		for _, c := range comps {
			c.Step(dt)
		}
	}
}
