package xclib

import (
	"fmt"
	"strconv"
	"strings"
)

// Family is the functional class. Values match the libxc family codes so
// they can be exchanged with callers that speak those numbers.
type Family int

const (
	FamilyLDA     Family = 1
	FamilyGGA     Family = 2
	FamilyMGGA    Family = 4
	FamilyLCA     Family = 8
	FamilyOEP     Family = 16
	FamilyHybGGA  Family = 32
	FamilyHybMGGA Family = 64
	FamilyHybLDA  Family = 128
)

// Base maps hybrid families onto the semi-local family they evaluate as.
// Families without a semi-local form are returned unchanged.
func (f Family) Base() Family {
	switch f {
	case FamilyHybLDA:
		return FamilyLDA
	case FamilyHybGGA:
		return FamilyGGA
	case FamilyHybMGGA:
		return FamilyMGGA
	}
	return f
}

// Semilocal reports whether the family has an LDA, GGA or meta-GGA kernel.
func (f Family) Semilocal() bool {
	switch f.Base() {
	case FamilyLDA, FamilyGGA, FamilyMGGA:
		return true
	}
	return false
}

func (f Family) String() string {
	switch f {
	case FamilyLDA:
		return "lda"
	case FamilyGGA:
		return "gga"
	case FamilyMGGA:
		return "mgga"
	case FamilyLCA:
		return "lca"
	case FamilyOEP:
		return "oep"
	case FamilyHybGGA:
		return "hyb_gga"
	case FamilyHybMGGA:
		return "hyb_mgga"
	case FamilyHybLDA:
		return "hyb_lda"
	}
	return "family(" + strconv.Itoa(int(f)) + ")"
}

// Flags describe what a functional provides and consumes.
type Flags uint32

const (
	HaveExc Flags = 1 << iota
	HaveVxc
	HaveFxc
	HaveKxc
	NeedsLaplacian
	NeedsTau
)

// HaveAll is the set of flags for a functional with energies and all
// derivatives up to third order.
const HaveAll = HaveExc | HaveVxc | HaveFxc | HaveKxc

func (f Flags) Has(mask Flags) bool { return f&mask == mask }

// Spin selects spin-restricted or spin-resolved evaluation.
type Spin int

const (
	Unpolarized Spin = 1
	Polarized   Spin = 2
)

func (s Spin) Valid() bool { return s == Unpolarized || s == Polarized }

func (s Spin) String() string {
	switch s {
	case Unpolarized:
		return "unpolarized"
	case Polarized:
		return "polarized"
	}
	return "spin(" + strconv.Itoa(int(s)) + ")"
}

// ParseSpin accepts "unpolarized", "polarized" or the numeric codes 1 and 2.
// The empty string means unpolarized.
func ParseSpin(s string) (Spin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "1", "unpolarized", "restricted":
		return Unpolarized, nil
	case "2", "polarized", "unrestricted":
		return Polarized, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSpin, s)
}

// Kind classifies what part of the energy a functional models.
type Kind int

const (
	Exchange Kind = iota
	Correlation
	ExchangeCorrelation
	Kinetic
)

func (k Kind) String() string {
	switch k {
	case Exchange:
		return "exchange"
	case Correlation:
		return "correlation"
	case ExchangeCorrelation:
		return "exchange-correlation"
	case Kinetic:
		return "kinetic"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// HybType distinguishes pure, global hybrid and range-separated functionals.
type HybType int

const (
	HybNone HybType = iota
	HybHybrid
	HybCAM
)
