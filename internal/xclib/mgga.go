package xclib

import (
	"math"

	ad "github.com/samcharles93/xckit/internal/autodiff"
)

// ckTF is the Thomas-Fermi kinetic constant (3/10)(3π²)^(2/3).
var ckTF = 0.3 * math.Pow(threePi2, 2.0/3)

type ms0Params struct {
	kappa, c, b, mu float64
}

var ms0 = ms0Params{kappa: 0.29, c: 0.28771, b: 1.0, mu: 10.0 / 81}

// alphaMGGA is (τ - τ_W) / τ_unif for a spin-scaled channel.
func alphaMGGA(ch channel) *ad.Jet {
	tw := ad.Div(ch.sigma, ad.Scale(ch.rho, 8))
	tunif := ad.Scale(ad.Pow(ch.rho, 5.0/3), ckTF)
	return ad.Div(ad.Sub(ch.tau, tw), tunif)
}

// energyMS0 is the made-simple meta-GGA exchange of Sun, Xiao and Ruzsinszky.
func energyMS0(_ *Func, v *vars) *ad.Jet {
	p := ms0
	return v.spinScaled(func(ch channel) *ad.Jet {
		s2 := reducedGradient2(ch)
		alpha := alphaMGGA(ch)

		f1 := enhancementPBE(s2, p.kappa, p.mu)
		// F0 uses μs² + c in place of μs².
		den0 := ad.AddConst(ad.Scale(s2, p.mu/p.kappa), 1+p.c/p.kappa)
		f0 := ad.AddConst(ad.Scale(ad.Recip(den0), -p.kappa), 1+p.kappa)

		a2 := ad.Mul(alpha, alpha)
		a3 := ad.Mul(a2, alpha)
		oneMinus := ad.AddConst(ad.Neg(a2), 1)
		num := ad.Mul(ad.Mul(oneMinus, oneMinus), oneMinus)
		den := ad.AddConst(ad.Add(a3, ad.Scale(ad.Mul(a3, a3), p.b)), 1)
		fa := ad.Div(num, den)

		fx := ad.Add(f1, ad.Mul(fa, ad.Sub(f0, f1)))
		return ad.Mul(ldaX(ch), fx)
	})
}

// energyGEA2 is the second-order gradient expansion of the kinetic energy,
// τ_TF (1 + 5p/27 + 20q/9).
func energyGEA2(_ *Func, v *vars) *ad.Jet {
	return v.spinScaled(func(ch channel) *ad.Jet {
		r53 := ad.Pow(ch.rho, 5.0/3)
		p := reducedGradient2(ch)
		q := ad.Scale(ad.Div(ch.lapl, r53), s2Factor)
		fs := ad.AddConst(ad.Add(ad.Scale(p, 5.0/27), ad.Scale(q, 20.0/9)), 1)
		return ad.Mul(ad.Scale(r53, ckTF), fs)
	})
}
