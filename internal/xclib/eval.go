package xclib

import (
	ad "github.com/samcharles93/xckit/internal/autodiff"
)

// Inputs are the per-point variables in interleaved layout: Rho holds 1 or 2
// values per point, Sigma 1 or 3, Lapl and Tau 1 or 2.
type Inputs struct {
	Rho   []float64
	Sigma []float64
	Lapl  []float64
	Tau   []float64
}

// Outputs receive the energy per particle and the derivative blocks of the
// energy density. V, F and K hold one slice per block of Blocks(fam, spin,
// order), each laid out point-major with Block.Size values per point. A nil
// field means the quantity is not requested.
type Outputs struct {
	Zk []float64
	V  [][]float64
	F  [][]float64
	K  [][]float64
}

func (o Outputs) order() int {
	switch {
	case o.K != nil:
		return 3
	case o.F != nil:
		return 2
	case o.V != nil:
		return 1
	}
	return 0
}

func (o Outputs) byOrder(k int) [][]float64 {
	switch k {
	case 1:
		return o.V
	case 2:
		return o.F
	case 3:
		return o.K
	}
	return nil
}

// EvalLDA evaluates an LDA (or hybrid LDA) functional on np points.
func (r *Registry) EvalLDA(f *Func, np int, in Inputs, out Outputs) {
	evaluate(f, FamilyLDA, np, in, out)
}

// EvalGGA evaluates a GGA (or hybrid GGA) functional on np points.
func (r *Registry) EvalGGA(f *Func, np int, in Inputs, out Outputs) {
	evaluate(f, FamilyGGA, np, in, out)
}

// EvalMGGA evaluates a meta-GGA (or hybrid meta-GGA) functional on np points.
// Third derivatives are not available for meta-GGAs; out.K is ignored.
func (r *Registry) EvalMGGA(f *Func, np int, in Inputs, out Outputs) {
	out.K = nil
	evaluate(f, FamilyMGGA, np, in, out)
}

func evaluate(f *Func, fam Family, np int, in Inputs, out Outputs) {
	if np <= 0 {
		return
	}
	order := out.order()
	space := ad.Space{N: NVar(fam, f.Spin), Order: order}
	var blocks [4][]Block
	for k := 1; k <= order; k++ {
		blocks[k] = Blocks(fam, f.Spin, k)
	}

	for p := 0; p < np; p++ {
		v, ok := load(space, f, fam, in, p)
		if !ok {
			clearPoint(out, blocks, order, p)
			continue
		}
		e := f.evalEnergy(v)
		if out.Zk != nil {
			out.Zk[p] = e.V / v.dens
		}
		for k := 1; k <= order; k++ {
			bufs := out.byOrder(k)
			for b, blk := range blocks[k] {
				n := blk.Size()
				dst := bufs[b][p*n : (p+1)*n]
				for c, idx := range blk.Comp {
					dst[c] = derivative(e, idx)
				}
			}
		}
	}
}

func derivative(e *ad.Jet, idx []int) float64 {
	switch len(idx) {
	case 1:
		return e.D1(idx[0])
	case 2:
		return e.D2(idx[0], idx[1])
	case 3:
		return e.D3(idx[0], idx[1], idx[2])
	}
	return 0
}

func clearPoint(out Outputs, blocks [4][]Block, order, p int) {
	if out.Zk != nil {
		out.Zk[p] = 0
	}
	for k := 1; k <= order; k++ {
		bufs := out.byOrder(k)
		for b, blk := range blocks[k] {
			n := blk.Size()
			clear(bufs[b][p*n : (p+1)*n])
		}
	}
}

// evalEnergy returns the energy density of f, summing weighted components
// for mixtures.
func (f *Func) evalEnergy(v *vars) *ad.Jet {
	if f.energy != nil {
		return f.energy(f, v)
	}
	terms := make([]*ad.Jet, 0, len(f.Aux))
	for i, a := range f.Aux {
		terms = append(terms, ad.Scale(a.evalEnergy(v), f.Mix[i]))
	}
	if len(terms) == 0 {
		return ad.Scale(v.ra, 0)
	}
	return ad.Sum(terms...)
}
