package xclib

import (
	"math"

	ad "github.com/samcharles93/xckit/internal/autodiff"
)

const tauThreshold = 1e-20

// vars holds the spin-resolved inputs of one point as jets over the seeded
// variables. Unpolarized points seed the spin-free quantities and derive both
// channels from them, so derivatives come out with respect to the spin-free
// variables.
type vars struct {
	unpolarized bool

	dens float64

	ra, rb        *ad.Jet
	saa, sab, sbb *ad.Jet
	la, lb        *ad.Jet
	ta, tb        *ad.Jet
}

func (v *vars) rho() *ad.Jet { return ad.Add(v.ra, v.rb) }

func (v *vars) sigma() *ad.Jet {
	return ad.Add(ad.Add(v.saa, v.sbb), ad.Scale(v.sab, 2))
}

// zeta returns the spin polarisation (ρa-ρb)/ρ.
func (v *vars) zeta() *ad.Jet {
	return ad.Div(ad.Sub(v.ra, v.rb), v.rho())
}

// channel holds spin-scaled quantities of one spin channel: twice the
// density, four times the gradient invariant, twice the Laplacian and twice
// the kinetic energy density.
type channel struct {
	rho, sigma, lapl, tau *ad.Jet
}

// spinScaled evaluates e as a spin-unpolarized energy of each channel and
// combines them as (E[2ρa] + E[2ρb]) / 2.
func (v *vars) spinScaled(e func(ch channel) *ad.Jet) *ad.Jet {
	a := channel{rho: ad.Scale(v.ra, 2)}
	if v.saa != nil {
		a.sigma = ad.Scale(v.saa, 4)
	}
	if v.la != nil {
		a.lapl = ad.Scale(v.la, 2)
		a.tau = ad.Scale(v.ta, 2)
	}
	ea := e(a)
	if v.unpolarized {
		return ea
	}
	b := channel{rho: ad.Scale(v.rb, 2)}
	if v.sbb != nil {
		b.sigma = ad.Scale(v.sbb, 4)
	}
	if v.lb != nil {
		b.lapl = ad.Scale(v.lb, 2)
		b.tau = ad.Scale(v.tb, 2)
	}
	return ad.Scale(ad.Add(ea, e(b)), 0.5)
}

// load reads point p from in, applies density thresholds and seeds the
// variables of family fam. It reports false when the point is below the
// density threshold and must be skipped.
func load(s ad.Space, f *Func, fam Family, in Inputs, p int) (*vars, bool) {
	thr := f.Info.DensThreshold
	sigThr := math.Pow(thr, 4.0/3)
	sigThr *= sigThr
	usesTau := fam == FamilyMGGA && f.usesTau()
	v := &vars{unpolarized: f.Spin == Unpolarized}

	if v.unpolarized {
		rho := in.Rho[p]
		if rho < thr {
			return nil, false
		}
		v.dens = rho
		r := s.Var(0, rho)
		v.ra = ad.Scale(r, 0.5)
		v.rb = v.ra
		if fam == FamilyLDA {
			return v, true
		}
		sigma := math.Max(in.Sigma[p], sigThr)
		var lapl, tau float64
		if fam == FamilyMGGA {
			lapl = in.Lapl[p]
			tau = math.Max(in.Tau[p], tauThreshold)
			if usesTau {
				sigma = math.Min(sigma, 8*rho*tau)
			}
		}
		sg := ad.Scale(s.Var(1, sigma), 0.25)
		v.saa, v.sab, v.sbb = sg, sg, sg
		if fam == FamilyMGGA {
			v.la = ad.Scale(s.Var(2, lapl), 0.5)
			v.lb = v.la
			v.ta = ad.Scale(s.Var(3, tau), 0.5)
			v.tb = v.ta
		}
		return v, true
	}

	ra, rb := in.Rho[2*p], in.Rho[2*p+1]
	if ra+rb < thr {
		return nil, false
	}
	ra = math.Max(ra, thr)
	rb = math.Max(rb, thr)
	v.dens = ra + rb
	v.ra = s.Var(0, ra)
	v.rb = s.Var(1, rb)
	if fam == FamilyLDA {
		return v, true
	}

	saa := math.Max(in.Sigma[3*p], sigThr)
	sbb := math.Max(in.Sigma[3*p+2], sigThr)
	var la, lb, ta, tb float64
	if fam == FamilyMGGA {
		la, lb = in.Lapl[2*p], in.Lapl[2*p+1]
		ta = math.Max(in.Tau[2*p], tauThreshold)
		tb = math.Max(in.Tau[2*p+1], tauThreshold)
		if usesTau {
			saa = math.Min(saa, 8*ra*ta)
			sbb = math.Min(sbb, 8*rb*tb)
		}
	}
	avg := 0.5 * (saa + sbb)
	sab := math.Max(-avg, math.Min(in.Sigma[3*p+1], avg))
	v.saa = s.Var(2, saa)
	v.sab = s.Var(3, sab)
	v.sbb = s.Var(4, sbb)
	if fam == FamilyMGGA {
		v.la = s.Var(5, la)
		v.lb = s.Var(6, lb)
		v.ta = s.Var(7, ta)
		v.tb = s.Var(8, tb)
	}
	return v, true
}

func (f *Func) usesTau() bool {
	uses := false
	f.Walk(func(n *Func) {
		if n.Info.Flags.Has(NeedsTau) {
			uses = true
		}
	})
	return uses
}
