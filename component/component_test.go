package component

import (
	"errors"
	"math"
	"testing"

	"github.com/surfacemodel/gridmesh/grid"
	"github.com/surfacemodel/gridmesh/mesh"
)

// diffuser is a minimal linear diffusion component used to exercise the
// contract end to end: it reads node elevation, writes link sediment flux,
// and relaxes core-node elevations toward their neighbors.
type diffuser struct {
	*Binding
	diffusivity float64
}

func diffuserDefinition() Definition {
	return Definition{
		Name: "LinearDiffuser",
		Fields: []FieldSpec{
			{Name: "topographic__elevation", Group: mesh.GroupNode, Role: RequiredInput,
				Units: "m", Doc: "land surface elevation"},
			{Name: "sediment__flux", Group: mesh.GroupLink, Role: ProvidedOutput,
				Units: "m2/s", Doc: "flux along links, positive tail to head"},
		},
		Grids: []mesh.Variant{mesh.VariantRaster, mesh.VariantHex, mesh.VariantVoronoi},
	}
}

func newDiffuser(m *mesh.Mesh, d float64) (*diffuser, error) {
	b, err := Bind(m, diffuserDefinition())
	if err != nil {
		return nil, err
	}
	return &diffuser{Binding: b, diffusivity: d}, nil
}

func (d *diffuser) Step(dt float64) {
	g := d.Grid()
	z, _ := d.Input("topographic__elevation")
	flux, _ := d.Output("sediment__flux")

	for l := range flux {
		flux[l] = 0
		if g.StatusAtLink(l) != mesh.ActiveLink {
			continue
		}
		tail, head := g.NodesAtLink(l)
		flux[l] = -d.diffusivity * (z[head] - z[tail]) / g.LengthOfLink(l)
	}

	for _, n := range g.CoreNodes() {
		cell := g.CellAtNode(n)
		if cell == -1 {
			continue
		}
		var net float64
		for _, l := range g.LinksAtNode(n) {
			tail, _ := g.NodesAtLink(l)
			if tail == n {
				net -= flux[l]
			} else {
				net += flux[l]
			}
		}
		z[n] += dt * net / g.AreaOfCell(cell)
	}
}

func raster3x3(t *testing.T) *grid.Raster {
	t.Helper()
	r, err := grid.NewRaster(3, 3, 1.0)
	if err != nil {
		t.Fatalf("NewRaster failed: %v", err)
	}
	return r
}

func TestBind_MissingRequiredField(t *testing.T) {
	r := raster3x3(t)

	_, err := Bind(r.Mesh, diffuserDefinition())
	var mf *MissingFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("Expected *MissingFieldError, got %T: %v", err, err)
	}
	if mf.Name != "topographic__elevation" || mf.Group != mesh.GroupNode {
		t.Errorf("Expected elevation at node in error, got %q at %q", mf.Name, mf.Group)
	}

	// After supplying the field, binding succeeds.
	if err := r.Fields().AddField(mesh.GroupNode, "topographic__elevation", make([]float64, 9)); err != nil {
		t.Fatalf("AddField failed: %v", err)
	}
	if _, err := Bind(r.Mesh, diffuserDefinition()); err != nil {
		t.Errorf("Expected binding to succeed once the field exists, got %v", err)
	}
}

func TestBind_IncompatibleGrid(t *testing.T) {
	m, err := grid.NewNetwork([]float64{0, 1}, []float64{0, 0}, [][2]int{{0, 1}})
	if err != nil {
		t.Fatalf("NewNetwork failed: %v", err)
	}
	_ = m.Fields().AddField(mesh.GroupNode, "topographic__elevation", make([]float64, 2))

	_, err = Bind(m, diffuserDefinition())
	var ig *IncompatibleGridError
	if !errors.As(err, &ig) {
		t.Fatalf("Expected *IncompatibleGridError, got %T: %v", err, err)
	}
	if ig.Variant != mesh.VariantNetwork {
		t.Errorf("Expected network variant in error, got %v", ig.Variant)
	}
}

func TestBind_AnyGridWhenUndeclared(t *testing.T) {
	m, err := grid.NewNetwork([]float64{0, 1}, []float64{0, 0}, [][2]int{{0, 1}})
	if err != nil {
		t.Fatalf("NewNetwork failed: %v", err)
	}
	def := Definition{Name: "Anywhere"}
	if _, err := Bind(m, def); err != nil {
		t.Errorf("Expected empty Grids to accept any variant, got %v", err)
	}
}

func TestBind_CreatesProvidedOutputs(t *testing.T) {
	r := raster3x3(t)
	_ = r.Fields().AddField(mesh.GroupNode, "topographic__elevation", make([]float64, 9))

	b, err := Bind(r.Mesh, diffuserDefinition())
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if !r.Fields().HasField(mesh.GroupLink, "sediment__flux") {
		t.Fatal("Expected provided-output field to be created at binding")
	}
	flux, err := b.Output("sediment__flux")
	if err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	if len(flux) != 12 {
		t.Errorf("Expected flux sized to 12 links, got %d", len(flux))
	}
	for i, v := range flux {
		if v != 0 {
			t.Fatalf("Expected zero-initialized output, got %v at %d", v, i)
		}
	}

	// Binding again must not clobber the existing output.
	flux[0] = 3.5
	if _, err := Bind(r.Mesh, diffuserDefinition()); err != nil {
		t.Fatalf("Rebind failed: %v", err)
	}
	if flux[0] != 3.5 {
		t.Error("Rebinding zeroed an existing provided-output field")
	}
}

func TestBinding_DeclarationEnforced(t *testing.T) {
	r := raster3x3(t)
	_ = r.Fields().AddField(mesh.GroupNode, "topographic__elevation", make([]float64, 9))
	_ = r.Fields().AddField(mesh.GroupNode, "soil__depth", make([]float64, 9))

	b, err := Bind(r.Mesh, diffuserDefinition())
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	// Undeclared fields are invisible through the binding even though
	// they exist in the store.
	if _, err := b.Input("soil__depth"); err == nil {
		t.Error("Expected error for undeclared field access")
	}
	// Role mismatch: reading an output as input.
	if _, err := b.Input("sediment__flux"); err == nil {
		t.Error("Expected error reading a provided-output as input")
	}
	if _, err := b.Output("topographic__elevation"); err == nil {
		t.Error("Expected error writing a required-input as output")
	}
}

func TestDiffuser_RelaxesCenterNode(t *testing.T) {
	r := raster3x3(t)
	z := make([]float64, 9)
	z[r.NodeAt(1, 1)] = -1.0
	if err := r.Fields().AddField(mesh.GroupNode, "topographic__elevation", z); err != nil {
		t.Fatalf("AddField failed: %v", err)
	}

	d, err := newDiffuser(r.Mesh, 0.25)
	if err != nil {
		t.Fatalf("newDiffuser failed: %v", err)
	}
	d.Step(0.1)

	// Four unit-length active links each carry flux D toward the center;
	// the center cell has unit area, so dz = 4 * D * dt = 0.1.
	center := r.NodeAt(1, 1)
	if got := z[center]; math.Abs(got-(-0.9)) > 1e-12 {
		t.Errorf("Expected center elevation -0.9 after one step, got %v", got)
	}
	for n := 0; n < 9; n++ {
		if n != center && z[n] != 0 {
			t.Errorf("Boundary node %d moved to %v; boundaries must hold", n, z[n])
		}
	}

	// Mutation happened through the shared store: a fresh read sees it.
	live, _ := r.Fields().GetField(mesh.GroupNode, "topographic__elevation")
	if live[center] != z[center] {
		t.Error("Field store read does not alias the mutated array")
	}
}

func TestRun_SequentialSteps(t *testing.T) {
	r := raster3x3(t)
	z := make([]float64, 9)
	center := r.NodeAt(1, 1)
	z[center] = -1.0
	_ = r.Fields().AddField(mesh.GroupNode, "topographic__elevation", z)

	d, err := newDiffuser(r.Mesh, 0.25)
	if err != nil {
		t.Fatalf("newDiffuser failed: %v", err)
	}

	prev := z[center]
	Run(5, 0.1, d)
	if !(z[center] > prev && z[center] < 0) {
		t.Errorf("Expected monotonic relaxation toward 0, got %v", z[center])
	}
}
