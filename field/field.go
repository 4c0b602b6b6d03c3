// Package field stores named numerical arrays bound to the element groups
// of a mesh. Each field is a dense []float64 (optionally a fixed-width
// vector per element) whose length always matches the element count of the
// group it is attached to. Components share state by reading and writing
// the same backing slices: GetField returns the live array, never a copy.
package field

import (
	"errors"
	"fmt"
	"sort"
)

// Counter reports the element count for a named group. A mesh satisfies
// this interface; the store uses it to enforce field sizes without
// depending on any particular mesh implementation.
type Counter interface {
	ElementCount(group string) (int, error)
}

// Observer receives a callback for every mutating or reading store
// operation. Used by provenance recorders; nil means no observation.
type Observer interface {
	FieldOp(op, group, name string)
}

// Config carries store behavior options.
type Config struct {
	// StrictDelete makes DeleteField return ErrFieldNotFound for absent
	// fields instead of silently doing nothing.
	StrictDelete bool
}

var (
	ErrFieldExists   = errors.New("field already exists")
	ErrFieldNotFound = errors.New("field not found")
)

// SizeMismatchError reports an attempt to attach values whose length does
// not match the element count of the target group.
type SizeMismatchError struct {
	Group string
	Name  string
	Want  int
	Got   int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("field %q at %q: expected %d values, got %d",
		e.Name, e.Group, e.Want, e.Got)
}

type entry struct {
	values []float64
	width  int // values per element, >= 1
}

// Store is a per-group, per-name container of field arrays. It is not
// safe for concurrent use; the execution model is single-threaded and
// components mutate fields sequentially in caller-determined order.
type Store struct {
	counter  Counter
	cfg      Config
	observer Observer
	groups   map[string]map[string]*entry
}

// NewStore creates an empty store sized by counter.
func NewStore(counter Counter, cfg Config) *Store {
	return &Store{
		counter: counter,
		cfg:     cfg,
		groups:  make(map[string]map[string]*entry),
	}
}

// SetObserver installs op observation. Passing nil removes it.
func (s *Store) SetObserver(obs Observer) { s.observer = obs }

func (s *Store) record(op, group, name string) {
	if s.observer != nil {
		s.observer.FieldOp(op, group, name)
	}
}

// AddField attaches values to (group, name). The slice is adopted, not
// copied, so the caller's reference still aliases the stored field. Fails
// with *SizeMismatchError when len(values) differs from the group's element
// count and with ErrFieldExists when the field is already present.
func (s *Store) AddField(group, name string, values []float64) error {
	return s.add(group, name, 1, values, false)
}

// SetField is AddField with overwrite permitted.
func (s *Store) SetField(group, name string, values []float64) error {
	return s.add(group, name, 1, values, true)
}

// AddVectorField attaches a fixed-width vector field: width values per
// element, stored flat, so len(values) must equal width*elementCount.
func (s *Store) AddVectorField(group, name string, width int, values []float64) error {
	if width < 1 {
		return fmt.Errorf("field %q at %q: invalid vector width %d", name, group, width)
	}
	return s.add(group, name, width, values, false)
}

func (s *Store) add(group, name string, width int, values []float64, overwrite bool) error {
	n, err := s.counter.ElementCount(group)
	if err != nil {
		return err
	}
	if len(values) != n*width {
		return &SizeMismatchError{Group: group, Name: name, Want: n * width, Got: len(values)}
	}
	fields := s.groups[group]
	if fields == nil {
		fields = make(map[string]*entry)
		s.groups[group] = fields
	}
	if _, ok := fields[name]; ok && !overwrite {
		return fmt.Errorf("%q at %q: %w", name, group, ErrFieldExists)
	}
	fields[name] = &entry{values: values, width: width}
	s.record("add", group, name)
	return nil
}

// GetField returns the live backing slice for (group, name). Mutations
// through the returned slice are visible to every holder of the field;
// this aliasing is the mechanism components compose through.
func (s *Store) GetField(group, name string) ([]float64, error) {
	e, err := s.lookup(group, name)
	if err != nil {
		return nil, err
	}
	s.record("get", group, name)
	return e.values, nil
}

// Width returns the number of values per element for (group, name).
func (s *Store) Width(group, name string) (int, error) {
	e, err := s.lookup(group, name)
	if err != nil {
		return 0, err
	}
	return e.width, nil
}

// ValuesAt returns the vector of values for one element of a field.
// For scalar fields this is a one-element slice aliasing the field.
func (s *Store) ValuesAt(group, name string, index int) ([]float64, error) {
	e, err := s.lookup(group, name)
	if err != nil {
		return nil, err
	}
	lo := index * e.width
	hi := lo + e.width
	if lo < 0 || hi > len(e.values) {
		return nil, fmt.Errorf("field %q at %q: element index %d out of range", name, group, index)
	}
	return e.values[lo:hi:hi], nil
}

// HasField reports presence without side effects.
func (s *Store) HasField(group, name string) bool {
	fields := s.groups[group]
	if fields == nil {
		return false
	}
	_, ok := fields[name]
	return ok
}

// DeleteField removes (group, name). Absent fields are a no-op unless the
// store was configured with StrictDelete, in which case ErrFieldNotFound.
func (s *Store) DeleteField(group, name string) error {
	fields := s.groups[group]
	if fields != nil {
		if _, ok := fields[name]; ok {
			delete(fields, name)
			s.record("delete", group, name)
			return nil
		}
	}
	if s.cfg.StrictDelete {
		return fmt.Errorf("%q at %q: %w", name, group, ErrFieldNotFound)
	}
	return nil
}

// CreateIfAbsent returns the field, creating it zero-initialized when
// missing. This is the lazy-creation path component bindings use for
// provided-output fields.
func (s *Store) CreateIfAbsent(group, name string) ([]float64, error) {
	if s.HasField(group, name) {
		return s.GetField(group, name)
	}
	n, err := s.counter.ElementCount(group)
	if err != nil {
		return nil, err
	}
	values := make([]float64, n)
	if err := s.add(group, name, 1, values, false); err != nil {
		return nil, err
	}
	return values, nil
}

// Names returns the sorted field names attached to group.
func (s *Store) Names(group string) []string {
	fields := s.groups[group]
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) lookup(group, name string) (*entry, error) {
	if _, err := s.counter.ElementCount(group); err != nil {
		return nil, err
	}
	fields := s.groups[group]
	if fields != nil {
		if e, ok := fields[name]; ok {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%q at %q: %w", name, group, ErrFieldNotFound)
}
