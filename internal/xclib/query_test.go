package xclib

import (
	"testing"

	"golang.org/x/exp/slices"
)

func TestQueries(t *testing.T) {
	t.Parallel()

	pbeh := mustInit(t, HybGGAXCPBEH, Unpolarized)
	if !pbeh.IsGGA() || pbeh.IsLDA() || pbeh.IsMetaGGA() {
		t.Fatalf("pbeh family queries wrong: %s", pbeh.XCType())
	}
	if !pbeh.IsHybrid() || pbeh.IsCAMRSH() {
		t.Fatalf("pbeh should be a global hybrid")
	}
	if got := pbeh.HybridCoeff(); got != 0.25 {
		t.Fatalf("pbeh exact exchange: got %g", got)
	}
	if omega, alpha, beta := pbeh.RSHCoeff(); omega != 0 || alpha != 0.25 || beta != 0 {
		t.Fatalf("pbeh rsh: got (%g, %g, %g)", omega, alpha, beta)
	}

	cam := mustInit(t, HybLDAXCCAMLDA, Unpolarized)
	if !cam.IsCAMRSH() || cam.IsHybrid() || cam.HybridCoeff() != 0 {
		t.Fatalf("cam_lda0 hybrid classification wrong")
	}
	if omega, alpha, beta := cam.RSHCoeff(); omega != 1.0/3 || alpha != 0.5 || beta != -0.25 {
		t.Fatalf("cam_lda0 rsh: got (%g, %g, %g)", omega, alpha, beta)
	}
	if cam.XCType() != FamilyHybLDA || !cam.IsLDA() {
		t.Fatalf("cam_lda0 type: got %s", cam.XCType())
	}

	erf := mustInit(t, LDAXErf, Unpolarized)
	if omega, _, _ := erf.RSHCoeff(); omega != 0 {
		t.Fatalf("a pure functional reports no range separation, got ω=%g", omega)
	}

	ms0 := mustInit(t, MGGAXMS0, Unpolarized)
	if !ms0.IsMetaGGA() || ms0.NeedsLaplacian() || !ms0.NeedsTau() {
		t.Fatalf("ms0 input flags wrong")
	}
	if got := ms0.MaxDerivOrder(); got != 2 {
		t.Fatalf("ms0 max order: got %d", got)
	}
	gea2 := mustInit(t, MGGAKGEA2, Unpolarized)
	if !gea2.NeedsLaplacian() || gea2.NeedsTau() {
		t.Fatalf("gea2 input flags wrong")
	}
	if got := mustInit(t, LDAX, Unpolarized).MaxDerivOrder(); got != 3 {
		t.Fatalf("lda_x max order: got %d", got)
	}
	if got := mustInit(t, LCAOMC, Unpolarized).MaxDerivOrder(); got != 1 {
		t.Fatalf("lca_omc max order: got %d", got)
	}
	if b, c := pbeh.NLCCoeff(); b != 0 || c != 0 {
		t.Fatalf("nlc: got (%g, %g)", b, c)
	}
	if refs := pbeh.References(); len(refs) != 1 || refs[0] != refPBE0.Text {
		t.Fatalf("references: got %v", refs)
	}
}

func TestRegistryListing(t *testing.T) {
	t.Parallel()
	nums := Builtin.Numbers()
	if len(nums) != Builtin.Count() {
		t.Fatalf("Numbers length %d != Count %d", len(nums), Builtin.Count())
	}
	if !slices.IsSorted(nums) {
		t.Fatalf("numbers not sorted: %v", nums)
	}
	for _, id := range nums {
		name := Builtin.Name(id)
		if name == "" {
			t.Fatalf("functional %d has no name", id)
		}
		got, ok := Builtin.Lookup(name)
		if !ok || got != id {
			t.Fatalf("Lookup(%q) = %d, %v", name, got, ok)
		}
	}
	if id, ok := Builtin.Lookup(" LDA_X "); !ok || id != LDAX {
		t.Fatalf("case-insensitive lookup failed: %d %v", id, ok)
	}
	if Builtin.Name(-1) != "" {
		t.Fatalf("unknown id should have empty name")
	}
	if Version() == "" || LibraryReference() == "" || LibraryReferenceDOI() == "" {
		t.Fatalf("library metadata must not be empty")
	}
}

func TestAuxFamiliesAreCompatible(t *testing.T) {
	t.Parallel()
	for _, id := range Builtin.Numbers() {
		root := mustInit(t, id, Polarized)
		base := root.Info.Family.Base()
		root.Walk(func(n *Func) {
			if n == root {
				return
			}
			if n.Info.Family.Base() > base {
				t.Fatalf("%s has component %s of a higher family", root, n)
			}
		})
	}
}

func TestParseSpin(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want Spin
		ok   bool
	}{
		{"", Unpolarized, true},
		{"Polarized", Polarized, true},
		{"2", Polarized, true},
		{"restricted", Unpolarized, true},
		{"3", 0, false},
	}
	for _, tc := range tests {
		got, err := ParseSpin(tc.in)
		if (err == nil) != tc.ok || got != tc.want {
			t.Errorf("ParseSpin(%q) = %v, %v", tc.in, got, err)
		}
	}
}
