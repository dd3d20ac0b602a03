package xc

import (
	"github.com/samcharles93/xckit/internal/xclib"
)

// buildInputs converts a density record into the interleaved variables of
// one functional. In unpolarized mode rho, lapl and tau alias the record.
// Rows f does not read are replaced by zeros and never touched.
func buildInputs(d Density, spin xclib.Spin, fam xclib.Family, f *xclib.Func) (xclib.Inputs, error) {
	need := requiredComp(fam, f)
	if err := d.check(spin, need); err != nil {
		return xclib.Inputs{}, err
	}
	np := d.NP
	base := fam.Base()
	var in xclib.Inputs

	if spin == xclib.Unpolarized {
		in.Rho = d.row(d.Up, CompRho)
		if base == xclib.FamilyLDA {
			return in, nil
		}
		in.Sigma = make([]float64, np)
		gx, gy, gz := d.row(d.Up, CompGradX), d.row(d.Up, CompGradY), d.row(d.Up, CompGradZ)
		for i := range np {
			in.Sigma[i] = gx[i]*gx[i] + gy[i]*gy[i] + gz[i]*gz[i]
		}
		if base != xclib.FamilyMGGA {
			return in, nil
		}
		in.Lapl = make([]float64, np)
		in.Tau = make([]float64, np)
		if f.NeedsLaplacian() {
			in.Lapl = d.row(d.Up, CompLapl)
		}
		if f.NeedsTau() {
			in.Tau = d.row(d.Up, CompTau)
		}
		return in, nil
	}

	ra, rb := d.row(d.Up, CompRho), d.row(d.Down, CompRho)
	in.Rho = make([]float64, 2*np)
	for i := range np {
		in.Rho[2*i] = ra[i]
		in.Rho[2*i+1] = rb[i]
	}
	if base == xclib.FamilyLDA {
		return in, nil
	}

	ax, ay, az := d.row(d.Up, CompGradX), d.row(d.Up, CompGradY), d.row(d.Up, CompGradZ)
	bx, by, bz := d.row(d.Down, CompGradX), d.row(d.Down, CompGradY), d.row(d.Down, CompGradZ)
	in.Sigma = make([]float64, 3*np)
	for i := range np {
		in.Sigma[3*i] = ax[i]*ax[i] + ay[i]*ay[i] + az[i]*az[i]
		in.Sigma[3*i+1] = ax[i]*bx[i] + ay[i]*by[i] + az[i]*bz[i]
		in.Sigma[3*i+2] = bx[i]*bx[i] + by[i]*by[i] + bz[i]*bz[i]
	}
	if base != xclib.FamilyMGGA {
		return in, nil
	}

	in.Lapl = make([]float64, 2*np)
	in.Tau = make([]float64, 2*np)
	if f.NeedsLaplacian() {
		interleave(in.Lapl, d.row(d.Up, CompLapl), d.row(d.Down, CompLapl))
	}
	if f.NeedsTau() {
		interleave(in.Tau, d.row(d.Up, CompTau), d.row(d.Down, CompTau))
	}
	return in, nil
}

func interleave(dst, a, b []float64) {
	for i := range a {
		dst[2*i] = a[i]
		dst[2*i+1] = b[i]
	}
}
