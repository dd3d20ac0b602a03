package xclib

import "fmt"

const (
	versionMajor = 7
	versionMinor = 0
	versionMicro = 0
)

// Version returns the library version string.
func Version() string {
	return fmt.Sprintf("%d.%d.%d", versionMajor, versionMinor, versionMicro)
}

// LibraryReference is the citation for the functional conventions and
// output layouts the library follows.
func LibraryReference() string {
	return "S. Lehtola, C. Steigemann, M. J. T. Oliveira, and M. A. L. Marques, SoftwareX 7, 1 (2018)"
}

// LibraryReferenceDOI is the DOI of LibraryReference.
func LibraryReferenceDOI() string {
	return "10.1016/j.softx.2017.11.002"
}

func (f *Func) family() Family { return f.Info.Family }

// IsLDA reports whether f evaluates as an LDA.
func (f *Func) IsLDA() bool { return f.family().Base() == FamilyLDA }

// IsGGA reports whether f evaluates as a GGA.
func (f *Func) IsGGA() bool { return f.family().Base() == FamilyGGA }

// IsMetaGGA reports whether f evaluates as a meta-GGA.
func (f *Func) IsMetaGGA() bool { return f.family().Base() == FamilyMGGA }

// NeedsLaplacian reports whether any component of f reads the density
// Laplacian.
func (f *Func) NeedsLaplacian() bool {
	needs := false
	f.Walk(func(n *Func) {
		if n.Info.Flags.Has(NeedsLaplacian) {
			needs = true
		}
	})
	return needs
}

// NeedsTau reports whether any component of f reads the kinetic energy
// density.
func (f *Func) NeedsTau() bool { return f.usesTau() }

// IsHybrid reports whether f is a global hybrid.
func (f *Func) IsHybrid() bool { return f.Hyb == HybHybrid }

// IsCAMRSH reports whether f is a range-separated (CAM) hybrid.
func (f *Func) IsCAMRSH() bool { return f.Hyb == HybCAM }

// HybridCoeff is the fraction of exact exchange of a global hybrid, zero
// otherwise.
func (f *Func) HybridCoeff() float64 {
	if f.Hyb != HybHybrid {
		return 0
	}
	return f.ExxCoef
}

// RSHCoeff returns the range-separation parameter and the full-range and
// short-range exact-exchange fractions. All are zero for pure functionals.
func (f *Func) RSHCoeff() (omega, alpha, beta float64) {
	switch f.Hyb {
	case HybHybrid, HybCAM:
		return f.Omega, f.Alpha, f.Beta
	}
	return 0, 0, 0
}

// NLCCoeff returns the VV10 non-local correlation parameters b and C.
func (f *Func) NLCCoeff() (b, c float64) {
	return f.NLCb, f.NLCC
}

// MaxDerivOrder is the highest derivative order f provides, or -1 if it
// provides nothing.
func (f *Func) MaxDerivOrder() int {
	fl := f.Info.Flags
	switch {
	case fl.Has(HaveKxc):
		return 3
	case fl.Has(HaveFxc):
		return 2
	case fl.Has(HaveVxc):
		return 1
	case fl.Has(HaveExc):
		return 0
	}
	return -1
}

// XCType returns the family code of f.
func (f *Func) XCType() Family { return f.Info.Family }

// References returns the citation strings of f.
func (f *Func) References() []string {
	out := make([]string, 0, len(f.Info.Refs))
	for _, r := range f.Info.Refs {
		out = append(out, r.Text)
	}
	return out
}
