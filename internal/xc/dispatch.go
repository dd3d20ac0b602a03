package xc

import (
	"fmt"

	"github.com/samcharles93/xckit/internal/xclib"
)

// Library initialises functionals and evaluates their semi-local kernels.
// *xclib.Registry implements it.
type Library interface {
	Init(id int, spin xclib.Spin) (*xclib.Func, error)
	EvalLDA(f *xclib.Func, np int, in xclib.Inputs, out xclib.Outputs)
	EvalGGA(f *xclib.Func, np int, in xclib.Inputs, out xclib.Outputs)
	EvalMGGA(f *xclib.Func, np int, in xclib.Inputs, out xclib.Outputs)
}

var _ Library = (*xclib.Registry)(nil)

// kernelFor selects the family kernel of f. Hybrids dispatch to the kernel
// of their base family.
func kernelFor(lib Library, f *xclib.Func) (kernelFunc, error) {
	bind := func(eval func(*xclib.Func, int, xclib.Inputs, xclib.Outputs)) kernelFunc {
		return func(np int, in xclib.Inputs, out xclib.Outputs) { eval(f, np, in, out) }
	}
	switch f.Info.Family.Base() {
	case xclib.FamilyLDA:
		return bind(lib.EvalLDA), nil
	case xclib.FamilyGGA:
		return bind(lib.EvalGGA), nil
	case xclib.FamilyMGGA:
		return bind(lib.EvalMGGA), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFamily, f.Info.Family)
}
