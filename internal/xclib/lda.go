package xclib

import (
	"math"

	ad "github.com/samcharles93/xckit/internal/autodiff"
)

var (
	// cx is the Slater exchange prefactor (3/4)(3/π)^(1/3).
	cx = 0.75 * math.Cbrt(3/math.Pi)
	// threePi2 is 3π², so that kF = (3π² ρ)^(1/3).
	threePi2 = 3 * math.Pi * math.Pi
	// rsFactor converts ρ^(-1/3) to the Wigner-Seitz radius.
	rsFactor = math.Cbrt(3 / (4 * math.Pi))
)

// ldaX is Slater exchange of a spin-scaled channel.
func ldaX(ch channel) *ad.Jet {
	return ad.Scale(ad.Pow(ch.rho, 4.0/3), -cx)
}

func energyLDAX(_ *Func, v *vars) *ad.Jet {
	return v.spinScaled(ldaX)
}

// energyLDAXErf is short-range Slater exchange screened by erf(ωr)/r.
func energyLDAXErf(f *Func, v *vars) *ad.Jet {
	if f.Omega == 0 {
		return v.spinScaled(ldaX)
	}
	omega := f.Omega
	return v.spinScaled(func(ch channel) *ad.Jet {
		kf := ad.Cbrt(ad.Scale(ch.rho, threePi2))
		a := ad.Scale(ad.Recip(kf), omega/2)
		return ad.Mul(ldaX(ch), attenuationErf(a))
	})
}

// attenuationErf is the fraction of exchange retained by the erf-screened
// interaction at reduced range parameter a = ω/(2 kF).
func attenuationErf(a *ad.Jet) *ad.Jet {
	if a.V >= 5 {
		ia2 := ad.Recip(ad.Mul(a, a))
		return ad.Poly(ia2, 0, 1.0/36, -1.0/960, 1.0/26880, -1.0/829440)
	}
	inv2a := ad.Recip(ad.Scale(a, 2))
	a3 := ad.Mul(ad.Mul(a, a), a)
	erfTerm := ad.Scale(ad.Erf(inv2a), math.SqrtPi)
	expTerm := ad.Mul(
		ad.Sub(ad.Scale(a, 2), ad.Scale(a3, 4)),
		ad.Exp(ad.Neg(ad.Mul(inv2a, inv2a))),
	)
	bracket := ad.Add(ad.Add(erfTerm, expTerm), ad.Sub(ad.Scale(a3, 4), ad.Scale(a, 3)))
	return ad.AddConst(ad.Scale(ad.Mul(a, bracket), -8.0/3), 1)
}

// pwParams parameterise the Perdew-Wang interpolation. Index 0 is the
// paramagnetic fit, 1 the ferromagnetic fit and 2 the spin stiffness.
type pwParams struct {
	a, alpha1           [3]float64
	beta1, beta2, beta3 [3]float64
	beta4               [3]float64
	fz20                float64
}

var pwOriginal = pwParams{
	a:      [3]float64{0.031091, 0.015545, 0.016887},
	alpha1: [3]float64{0.21370, 0.20548, 0.11125},
	beta1:  [3]float64{7.5957, 14.1189, 10.357},
	beta2:  [3]float64{3.5876, 6.1977, 3.6231},
	beta3:  [3]float64{1.6382, 3.3662, 0.88026},
	beta4:  [3]float64{0.49294, 0.62517, 0.49671},
	fz20:   1.709921,
}

var pwModified = func() pwParams {
	p := pwOriginal
	p.a = [3]float64{0.0310907, 0.01554535, 0.0168869}
	p.fz20 = 1.709920934161365617563962776245
	return p
}()

func pwG(p *pwParams, k int, rs, sqrtRs *ad.Jet) *ad.Jet {
	aux := ad.Sum(
		ad.Scale(sqrtRs, p.beta1[k]),
		ad.Scale(rs, p.beta2[k]),
		ad.Scale(ad.Mul(rs, sqrtRs), p.beta3[k]),
		ad.Scale(ad.Mul(rs, rs), p.beta4[k]),
	)
	logTerm := ad.Log1p(ad.Recip(ad.Scale(aux, 2*p.a[k])))
	return ad.Scale(ad.Mul(ad.AddConst(ad.Scale(rs, p.alpha1[k]), 1), logTerm), -2*p.a[k])
}

// fZeta is the spin interpolation function f(ζ).
func fZeta(z *ad.Jet) *ad.Jet {
	num := ad.AddConst(ad.Add(ad.Pow(ad.AddConst(z, 1), 4.0/3), ad.Pow(ad.AddConst(ad.Neg(z), 1), 4.0/3)), -2)
	return ad.Scale(num, 1/(math.Pow(2, 4.0/3)-2))
}

// pwCorrelation returns the correlation energy per particle.
func pwCorrelation(p *pwParams, v *vars) *ad.Jet {
	rho := v.rho()
	rs := ad.Scale(ad.Pow(rho, -1.0/3), rsFactor)
	sqrtRs := ad.Sqrt(rs)
	g0 := pwG(p, 0, rs, sqrtRs)
	if v.unpolarized {
		return g0
	}
	g1 := pwG(p, 1, rs, sqrtRs)
	g2 := pwG(p, 2, rs, sqrtRs)
	z := v.zeta()
	fz := fZeta(z)
	z2 := ad.Mul(z, z)
	z4 := ad.Mul(z2, z2)
	spin := ad.Add(ad.Sub(g1, g0), ad.Scale(g2, 1/p.fz20))
	return ad.Sub(
		ad.Add(g0, ad.Mul(ad.Mul(z4, fz), spin)),
		ad.Scale(ad.Mul(fz, g2), 1/p.fz20),
	)
}

func energyPW(_ *Func, v *vars) *ad.Jet {
	return ad.Mul(v.rho(), pwCorrelation(&pwOriginal, v))
}

func energyPWMod(_ *Func, v *vars) *ad.Jet {
	return ad.Mul(v.rho(), pwCorrelation(&pwModified, v))
}
