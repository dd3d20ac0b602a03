package xclib

import (
	"reflect"
	"testing"
)

func blockSizes(bs []Block) []int {
	out := make([]int, len(bs))
	for i, b := range bs {
		out[i] = b.Size()
	}
	return out
}

func TestBlockSizes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		fam   Family
		spin  Spin
		order int
		want  []int
	}{
		{FamilyLDA, Polarized, 1, []int{2}},
		{FamilyLDA, Polarized, 2, []int{3}},
		{FamilyLDA, Polarized, 3, []int{4}},
		{FamilyGGA, Polarized, 1, []int{2, 3}},
		{FamilyGGA, Polarized, 2, []int{3, 6, 6}},
		{FamilyGGA, Polarized, 3, []int{4, 9, 12, 10}},
		{FamilyMGGA, Polarized, 1, []int{2, 3, 2, 2}},
		{FamilyMGGA, Polarized, 2, []int{3, 6, 6, 3, 3, 4, 4, 4, 6, 6}},
		{FamilyGGA, Unpolarized, 3, []int{1, 1, 1, 1}},
		{FamilyMGGA, Unpolarized, 2, []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
		{FamilyHybGGA, Polarized, 1, []int{2, 3}},
	}
	for _, tc := range tests {
		got := blockSizes(Blocks(tc.fam, tc.spin, tc.order))
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s/%s order %d: got %v want %v", tc.fam, tc.spin, tc.order, got, tc.want)
		}
	}
}

func TestBlocksUnavailable(t *testing.T) {
	t.Parallel()
	if b := Blocks(FamilyMGGA, Polarized, 3); b != nil {
		t.Fatalf("meta-GGA third order: expected nil, got %d blocks", len(b))
	}
	if b := Blocks(FamilyLCA, Polarized, 1); b != nil {
		t.Fatalf("LCA: expected nil blocks")
	}
	if b := Blocks(FamilyLDA, Spin(3), 1); b != nil {
		t.Fatalf("invalid spin: expected nil blocks")
	}
}

func TestBlockNamesAndOrdering(t *testing.T) {
	t.Parallel()
	names := func(bs []Block) []string {
		out := make([]string, len(bs))
		for i, b := range bs {
			out[i] = b.Name
		}
		return out
	}
	if got, want := names(Blocks(FamilyGGA, Polarized, 3)), []string{"v3rho3", "v3rho2sigma", "v3rhosigma2", "v3sigma3"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("GGA kxc names: got %v want %v", got, want)
	}
	mgga := names(Blocks(FamilyMGGA, Polarized, 2))
	want := []string{
		"v2rho2", "v2rhosigma", "v2sigma2", "v2lapl2", "v2tau2",
		"v2rholapl", "v2rhotau", "v2lapltau", "v2sigmalapl", "v2sigmatau",
	}
	if !reflect.DeepEqual(mgga, want) {
		t.Fatalf("MGGA fxc names: got %v want %v", mgga, want)
	}

	// v2rhosigma = (u_uu, u_ud, u_dd, d_uu, d_ud, d_dd)
	rs := Blocks(FamilyGGA, Polarized, 2)[1]
	wantComp := [][]int{{0, 2}, {0, 3}, {0, 4}, {1, 2}, {1, 3}, {1, 4}}
	if !reflect.DeepEqual(rs.Comp, wantComp) {
		t.Fatalf("v2rhosigma components: got %v want %v", rs.Comp, wantComp)
	}

	// v3rhosigma2 starts (u_uu_uu, u_uu_ud, u_uu_dd, u_ud_ud, ...)
	rss := Blocks(FamilyGGA, Polarized, 3)[2]
	if !reflect.DeepEqual(rss.Comp[:4], [][]int{{0, 2, 2}, {0, 2, 3}, {0, 2, 4}, {0, 3, 3}}) {
		t.Fatalf("v3rhosigma2 head: got %v", rss.Comp[:4])
	}
	if !reflect.DeepEqual(rss.Comp[11], []int{1, 4, 4}) {
		t.Fatalf("v3rhosigma2 tail: got %v", rss.Comp[11])
	}
}

func TestNVar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		fam  Family
		spin Spin
		want int
	}{
		{FamilyLDA, Unpolarized, 1},
		{FamilyGGA, Unpolarized, 2},
		{FamilyMGGA, Unpolarized, 4},
		{FamilyLDA, Polarized, 2},
		{FamilyHybGGA, Polarized, 5},
		{FamilyMGGA, Polarized, 9},
		{FamilyLCA, Polarized, 0},
	}
	for _, tc := range tests {
		if got := NVar(tc.fam, tc.spin); got != tc.want {
			t.Fatalf("NVar(%s, %s) = %d, want %d", tc.fam, tc.spin, got, tc.want)
		}
	}
}
