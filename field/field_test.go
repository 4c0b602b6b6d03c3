package field

import (
	"errors"
	"fmt"
	"testing"
)

// fixedCounter is a Counter with hard-coded group sizes, standing in for a
// mesh in store-only tests.
type fixedCounter map[string]int

func (f fixedCounter) ElementCount(group string) (int, error) {
	n, ok := f[group]
	if !ok {
		return 0, fmt.Errorf("unknown element group %q", group)
	}
	return n, nil
}

func newTestStore(strict bool) *Store {
	return NewStore(fixedCounter{"node": 9, "link": 12, "cell": 1}, Config{StrictDelete: strict})
}

func TestStore_AddAndGet(t *testing.T) {
	s := newTestStore(false)

	values := make([]float64, 9)
	if err := s.AddField("node", "topographic__elevation", values); err != nil {
		t.Fatalf("AddField failed: %v", err)
	}

	got, err := s.GetField("node", "topographic__elevation")
	if err != nil {
		t.Fatalf("GetField failed: %v", err)
	}
	if len(got) != 9 {
		t.Errorf("Expected 9 values, got %d", len(got))
	}

	// GetField must return the live array: writes through one reference
	// are visible through another.
	got[4] = 42.0
	again, _ := s.GetField("node", "topographic__elevation")
	if again[4] != 42.0 {
		t.Errorf("Expected aliased field value 42.0, got %v", again[4])
	}
	if values[4] != 42.0 {
		t.Errorf("Expected caller slice to alias stored field, got %v", values[4])
	}
}

func TestStore_SizeMismatch(t *testing.T) {
	s := newTestStore(false)

	err := s.AddField("node", "elevation", make([]float64, 8))
	if err == nil {
		t.Fatal("Expected size mismatch error")
	}
	var sm *SizeMismatchError
	if !errors.As(err, &sm) {
		t.Fatalf("Expected *SizeMismatchError, got %T: %v", err, err)
	}
	if sm.Want != 9 || sm.Got != 8 {
		t.Errorf("Expected want=9 got=8, have want=%d got=%d", sm.Want, sm.Got)
	}
}

func TestStore_ExistsAndOverwrite(t *testing.T) {
	s := newTestStore(false)

	if err := s.AddField("cell", "drainage_area", []float64{1}); err != nil {
		t.Fatalf("AddField failed: %v", err)
	}
	err := s.AddField("cell", "drainage_area", []float64{2})
	if !errors.Is(err, ErrFieldExists) {
		t.Errorf("Expected ErrFieldExists, got %v", err)
	}

	// SetField overwrites.
	if err := s.SetField("cell", "drainage_area", []float64{2}); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}
	got, _ := s.GetField("cell", "drainage_area")
	if got[0] != 2 {
		t.Errorf("Expected overwritten value 2, got %v", got[0])
	}
}

func TestStore_UnknownGroup(t *testing.T) {
	s := newTestStore(false)

	if err := s.AddField("corner", "x", nil); err == nil {
		t.Error("Expected error for unknown group on AddField")
	}
	if _, err := s.GetField("corner", "x"); err == nil {
		t.Error("Expected error for unknown group on GetField")
	}
}

func TestStore_Delete(t *testing.T) {
	t.Run("LenientNoOp", func(t *testing.T) {
		s := newTestStore(false)
		if err := s.DeleteField("node", "absent"); err != nil {
			t.Errorf("Expected silent no-op, got %v", err)
		}
	})

	t.Run("StrictMissing", func(t *testing.T) {
		s := newTestStore(true)
		err := s.DeleteField("node", "absent")
		if !errors.Is(err, ErrFieldNotFound) {
			t.Errorf("Expected ErrFieldNotFound, got %v", err)
		}
	})

	t.Run("RemovesField", func(t *testing.T) {
		s := newTestStore(true)
		if err := s.AddField("node", "tmp", make([]float64, 9)); err != nil {
			t.Fatalf("AddField failed: %v", err)
		}
		if err := s.DeleteField("node", "tmp"); err != nil {
			t.Fatalf("DeleteField failed: %v", err)
		}
		if s.HasField("node", "tmp") {
			t.Error("Field still present after delete")
		}
	})
}

func TestStore_VectorField(t *testing.T) {
	s := newTestStore(false)

	if err := s.AddVectorField("cell", "velocity", 2, []float64{1, 2}); err != nil {
		t.Fatalf("AddVectorField failed: %v", err)
	}
	w, err := s.Width("cell", "velocity")
	if err != nil || w != 2 {
		t.Fatalf("Expected width 2, got %d (err %v)", w, err)
	}
	v, err := s.ValuesAt("cell", "velocity", 0)
	if err != nil {
		t.Fatalf("ValuesAt failed: %v", err)
	}
	if v[0] != 1 || v[1] != 2 {
		t.Errorf("Expected [1 2], got %v", v)
	}

	// Wrong total length for the declared width.
	if err := s.AddVectorField("cell", "bad", 3, []float64{1, 2}); err == nil {
		t.Error("Expected size mismatch for vector field")
	}
}

func TestStore_CreateIfAbsent(t *testing.T) {
	s := newTestStore(false)

	v, err := s.CreateIfAbsent("link", "water__discharge")
	if err != nil {
		t.Fatalf("CreateIfAbsent failed: %v", err)
	}
	if len(v) != 12 {
		t.Fatalf("Expected 12 zero values, got %d", len(v))
	}
	for i, x := range v {
		if x != 0 {
			t.Fatalf("Expected zero-initialized field, got %v at %d", x, i)
		}
	}

	// Second call returns the same live array, not a fresh one.
	v[3] = 7
	again, err := s.CreateIfAbsent("link", "water__discharge")
	if err != nil {
		t.Fatalf("CreateIfAbsent failed on existing field: %v", err)
	}
	if again[3] != 7 {
		t.Errorf("Expected existing field to be returned, got %v", again[3])
	}
}

func TestStore_CaseSensitiveNames(t *testing.T) {
	s := newTestStore(false)

	if err := s.AddField("node", "Elevation", make([]float64, 9)); err != nil {
		t.Fatalf("AddField failed: %v", err)
	}
	if s.HasField("node", "elevation") {
		t.Error("Field names must be case-sensitive")
	}
}

func TestStore_Names(t *testing.T) {
	s := newTestStore(false)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.AddField("node", name, make([]float64, 9)); err != nil {
			t.Fatalf("AddField(%s) failed: %v", name, err)
		}
	}
	names := s.Names("node")
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("Expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Expected sorted names %v, got %v", want, names)
		}
	}
}

type opRecord struct{ op, group, name string }

type recordingObserver struct{ ops []opRecord }

func (r *recordingObserver) FieldOp(op, group, name string) {
	r.ops = append(r.ops, opRecord{op, group, name})
}

func TestStore_Observer(t *testing.T) {
	s := newTestStore(false)
	obs := &recordingObserver{}
	s.SetObserver(obs)

	_ = s.AddField("node", "z", make([]float64, 9))
	_, _ = s.GetField("node", "z")
	_ = s.DeleteField("node", "z")

	want := []opRecord{
		{"add", "node", "z"},
		{"get", "node", "z"},
		{"delete", "node", "z"},
	}
	if len(obs.ops) != len(want) {
		t.Fatalf("Expected %d ops, got %d: %v", len(want), len(obs.ops), obs.ops)
	}
	for i := range want {
		if obs.ops[i] != want[i] {
			t.Errorf("op %d: expected %v, got %v", i, want[i], obs.ops[i])
		}
	}
}
