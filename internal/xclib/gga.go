package xclib

import (
	"math"

	ad "github.com/samcharles93/xckit/internal/autodiff"
)

// s2Factor converts σ/ρ^(8/3) to the squared reduced gradient s².
var s2Factor = 1 / (4 * math.Pow(threePi2, 2.0/3))

// reducedGradient2 returns s² = σ / (4 (3π²)^(2/3) ρ^(8/3)) for a channel.
func reducedGradient2(ch channel) *ad.Jet {
	return ad.Scale(ad.Mul(ch.sigma, ad.Pow(ch.rho, -8.0/3)), s2Factor)
}

const (
	pbeKappa = 0.804
	pbeMu    = 0.2195149727645171
)

// enhancementPBE is 1 + κ - κ/(1 + μ s²/κ).
func enhancementPBE(s2 *ad.Jet, kappa, mu float64) *ad.Jet {
	den := ad.AddConst(ad.Scale(s2, mu/kappa), 1)
	return ad.AddConst(ad.Scale(ad.Recip(den), -kappa), 1+kappa)
}

func energyPBEX(_ *Func, v *vars) *ad.Jet {
	return v.spinScaled(func(ch channel) *ad.Jet {
		return ad.Mul(ldaX(ch), enhancementPBE(reducedGradient2(ch), pbeKappa, pbeMu))
	})
}

const b88Beta = 0.0042

// xAsinhX returns √y asinh(√y), switching to its Taylor series near zero
// where the square root is not differentiable.
func xAsinhX(y *ad.Jet) *ad.Jet {
	if y.V < 1e-2 {
		return ad.Poly(y, 0, 1, -1.0/6, 3.0/40, -5.0/112, 35.0/1152, -63.0/2816)
	}
	x := ad.Sqrt(y)
	return ad.Mul(x, ad.Asinh(x))
}

// energyB88 is Becke 88 exchange written per spin channel:
// e_σ = e_σ^LDA - β ρ_σ^(4/3) x_σ² / (1 + 6β x_σ asinh x_σ).
func energyB88(_ *Func, v *vars) *ad.Jet {
	return v.spinScaled(func(ch channel) *ad.Jet {
		rs := ad.Scale(ch.rho, 0.5)
		ss := ad.Scale(ch.sigma, 0.25)
		r43 := ad.Pow(rs, 4.0/3)
		x2 := ad.Mul(ss, ad.Pow(rs, -8.0/3))
		lda := ad.Scale(r43, -cx*math.Cbrt(2))
		den := ad.AddConst(ad.Scale(xAsinhX(x2), 6*b88Beta), 1)
		grad := ad.Scale(ad.Div(ad.Mul(r43, x2), den), -b88Beta)
		return ad.Scale(ad.Add(lda, grad), 2)
	})
}

var (
	pbeCBeta  = 0.06672455060314922
	pbeCGamma = (1 - math.Ln2) / (math.Pi * math.Pi)
)

// phiZeta is the spin scaling factor ((1+ζ)^(2/3) + (1-ζ)^(2/3)) / 2.
func phiZeta(z *ad.Jet) *ad.Jet {
	return ad.Scale(ad.Add(ad.Pow(ad.AddConst(z, 1), 2.0/3), ad.Pow(ad.AddConst(ad.Neg(z), 1), 2.0/3)), 0.5)
}

// energyPBEC is PBE correlation on top of modified Perdew-Wang LDA.
func energyPBEC(_ *Func, v *vars) *ad.Jet {
	rho := v.rho()
	ec := pwCorrelation(&pwModified, v)

	var phi *ad.Jet
	if v.unpolarized {
		phi = ad.AddConst(ad.Scale(rho, 0), 1)
	} else {
		phi = phiZeta(v.zeta())
	}
	phi2 := ad.Mul(phi, phi)
	phi3 := ad.Mul(phi2, phi)

	// t² = σ / (4 φ² ks² ρ²) with ks² = 4 kF / π.
	kf := ad.Cbrt(ad.Scale(rho, threePi2))
	ks2 := ad.Scale(kf, 4/math.Pi)
	t2 := ad.Div(v.sigma(), ad.Scale(ad.Mul(ad.Mul(phi2, ks2), ad.Mul(rho, rho)), 4))

	bg := pbeCBeta / pbeCGamma
	expo := ad.Exp(ad.Neg(ad.Div(ec, ad.Scale(phi3, pbeCGamma))))
	a := ad.Scale(ad.Recip(ad.AddConst(expo, -1)), bg)
	at2 := ad.Mul(a, t2)
	num := ad.AddConst(at2, 1)
	den := ad.AddConst(ad.Add(at2, ad.Mul(at2, at2)), 1)
	h := ad.Mul(ad.Scale(phi3, pbeCGamma), ad.Log1p(ad.Mul(ad.Scale(t2, bg), ad.Div(num, den))))

	return ad.Mul(rho, ad.Add(ec, h))
}
