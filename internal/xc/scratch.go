package xc

import "github.com/samcharles93/xckit/internal/xclib"

// scratchWidth[k] is the per-point width of the order-k scratch buffer, the
// widest layout any supported family needs at that order.
var scratchWidth = [MaxDeriv + 1]int{1, 9, 48, 35}

// scratch holds one functional's raw outputs. Order buffers are the
// concatenation of the family's blocks, each point-major.
type scratch struct {
	np  int
	buf [MaxDeriv + 1][]float64
}

func newScratch(np, deriv int) *scratch {
	s := &scratch{np: np}
	for k := 0; k <= deriv; k++ {
		s.buf[k] = make([]float64, np*scratchWidth[k])
	}
	return s
}

// outputs carves the order buffers into the blocks of fam.
func (s *scratch) outputs(fam xclib.Family, spin xclib.Spin, deriv int) xclib.Outputs {
	out := xclib.Outputs{Zk: s.buf[0]}
	for k := 1; k <= deriv; k++ {
		sizes := blockSizes(fam, spin, k)
		if sizes == nil {
			break
		}
		blocks := make([][]float64, len(sizes))
		off := 0
		for b, n := range sizes {
			blocks[b] = s.buf[k][off : off+n*s.np]
			off += n * s.np
		}
		switch k {
		case 1:
			out.V = blocks
		case 2:
			out.F = blocks
		case 3:
			out.K = blocks
		}
	}
	return out
}
