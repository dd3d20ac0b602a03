package xc

import (
	"context"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/samcharles93/xckit/internal/logger"
	"github.com/samcharles93/xckit/internal/xclib"
)

// randomDensity builds a physically sensible record: positive densities,
// moderate gradients and tau above the von Weizsäcker bound.
func randomDensity(np, ncomp int, spin xclib.Spin, seed uint64) Density {
	r := rand.New(rand.NewPCG(seed, 17))
	channel := func() []float64 {
		ch := make([]float64, ncomp*np)
		for i := range np {
			rho := 0.05 + 1.5*r.Float64()
			ch[CompRho*np+i] = rho
			if ncomp <= CompGradZ {
				continue
			}
			var sigma float64
			for k := CompGradX; k <= CompGradZ; k++ {
				g := 0.6 * (r.Float64() - 0.5)
				ch[k*np+i] = g
				sigma += g * g
			}
			if ncomp > CompLapl {
				ch[CompLapl*np+i] = 2 * (r.Float64() - 0.5)
			}
			if ncomp > CompTau {
				ch[CompTau*np+i] = sigma/(8*rho) + 0.2*r.Float64() + 0.01
			}
		}
		return ch
	}
	d := Density{NP: np, NComp: ncomp, Up: channel()}
	if spin == xclib.Polarized {
		d.Down = channel()
	}
	return d
}

func testEngine(workers int) *Engine {
	return &Engine{Lib: xclib.Builtin, Workers: workers, Log: logger.Discard()}
}

func mustCompute(t *testing.T, e *Engine, req Request) []float64 {
	t.Helper()
	out, err := e.Compute(context.Background(), req)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	return out
}

func assertClose(t *testing.T, got, want []float64, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length %d, want %d", len(got), len(want))
	}
	if floats.EqualApprox(got, want, tol) {
		return
	}
	for i := range got {
		if !scalar.EqualWithinAbsOrRel(got[i], want[i], tol, tol) {
			t.Fatalf("value %d: got %.17g want %.17g", i, got[i], want[i])
		}
	}
}

func assertEqual(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length %d, want %d", len(got), len(want))
	}
	if floats.Same(got, want) {
		return
	}
	for i := range got {
		if !scalar.Same(got[i], want[i]) {
			t.Fatalf("value %d: got %.17g want %.17g", i, got[i], want[i])
		}
	}
}
