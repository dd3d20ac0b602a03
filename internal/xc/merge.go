package xc

import (
	"fmt"

	"github.com/samcharles93/xckit/internal/xclib"
)

// mergeLayout checks that fam can contribute every order up to deriv to an
// output of nvar variables.
func mergeLayout(fam xclib.Family, spin xclib.Spin, nvar, deriv int) error {
	if NVar(fam, spin) > nvar {
		return fmt.Errorf("%w: %s needs %d variables, output has %d", ErrUnsupportedFamily, fam, NVar(fam, spin), nvar)
	}
	for k := 1; k <= deriv; k++ {
		if blockSizes(fam, spin, k) == nil {
			return fmt.Errorf("%w: %s has no order %d derivatives", ErrUnsupportedDeriv, fam, k)
		}
	}
	return nil
}

// merge accumulates weight times the scratch contents of one functional into
// the unified output. Each order's blocks are transposed from point-major to
// component-major and land at the head of their order segment, so a family
// with fewer variables fills the leading components only.
func merge(dst []float64, s *scratch, weight float64, fam xclib.Family, spin xclib.Spin, nvar, deriv int) error {
	if err := mergeLayout(fam, spin, nvar, deriv); err != nil {
		return err
	}
	np := s.np
	if want := np * OutputLength(nvar, deriv); len(dst) < want {
		return fmt.Errorf("%w: output holds %d values, need %d", ErrOutputShape, len(dst), want)
	}
	if err := axpy(weight, s.buf[0], View{Len: np, Stride: 1}, dst, View{Len: np, Stride: 1}); err != nil {
		return err
	}

	for k := 1; k <= deriv; k++ {
		off := np * SegmentOffset(nvar, k)
		src := 0
		for _, n := range blockSizes(fam, spin, k) {
			for c := range n {
				err := axpy(weight,
					s.buf[k], View{Off: src + c, Len: np, Stride: n},
					dst, View{Off: off + c*np, Len: np, Stride: 1})
				if err != nil {
					return err
				}
			}
			off += n * np
			src += n * np
		}
	}
	return nil
}
