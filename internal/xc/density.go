package xc

import (
	"fmt"

	"github.com/samcharles93/xckit/internal/xclib"
)

// Component rows of a density record.
const (
	CompRho = iota
	CompGradX
	CompGradY
	CompGradZ
	CompLapl
	CompTau

	MaxComp
)

// Density is a component-major density record. Each channel holds NComp rows
// of NP values: rho, the three gradient components, the Laplacian and tau.
// Down is only read in polarized mode.
type Density struct {
	NP    int
	NComp int
	Up    []float64
	Down  []float64
}

func (d Density) row(ch []float64, k int) []float64 {
	return ch[k*d.NP : (k+1)*d.NP]
}

// requiredComp is the number of rows f reads from each channel.
func requiredComp(fam xclib.Family, f *xclib.Func) int {
	switch fam.Base() {
	case xclib.FamilyLDA:
		return CompRho + 1
	case xclib.FamilyGGA:
		return CompGradZ + 1
	}
	switch {
	case f.NeedsTau():
		return CompTau + 1
	case f.NeedsLaplacian():
		return CompLapl + 1
	}
	return CompGradZ + 1
}

// check validates that the record carries the rows f reads.
func (d Density) check(spin xclib.Spin, need int) error {
	if d.NP < 0 {
		return fmt.Errorf("%w: negative point count %d", ErrShortDensity, d.NP)
	}
	if d.NComp < need || d.NComp > MaxComp {
		return fmt.Errorf("%w: %d components, need %d", ErrShortDensity, d.NComp, need)
	}
	if len(d.Up) < need*d.NP {
		return fmt.Errorf("%w: up channel has %d values, need %d", ErrShortDensity, len(d.Up), need*d.NP)
	}
	if spin == xclib.Polarized && len(d.Down) < need*d.NP {
		return fmt.Errorf("%w: down channel has %d values, need %d", ErrShortDensity, len(d.Down), need*d.NP)
	}
	return nil
}
