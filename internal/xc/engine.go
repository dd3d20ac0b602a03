// Package xc evaluates weighted combinations of exchange-correlation
// functionals on a density grid and accumulates their derivatives into one
// unified, component-major output.
package xc

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/samcharles93/xckit/internal/logger"
	"github.com/samcharles93/xckit/internal/xclib"
)

// Term is one functional of a combination. A non-zero Omega overrides the
// range-separation parameter of the functional's range-separated parts.
type Term struct {
	ID     int
	Weight float64
	Omega  float64
}

// Request describes one evaluation.
type Request struct {
	Terms   []Term
	Spin    xclib.Spin
	Deriv   int
	Density Density
}

// Engine evaluates requests against a functional library.
type Engine struct {
	Lib Library
	// Workers is the number of point blocks evaluated concurrently.
	// Zero means GOMAXPROCS.
	Workers int
	Log     logger.Logger
}

// New returns an Engine over the built-in functional library.
func New(workers int, log logger.Logger) *Engine {
	return &Engine{Lib: xclib.Builtin, Workers: workers, Log: log}
}

func (e *Engine) workers() int {
	if e.Workers > 0 {
		return e.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (e *Engine) logger(ctx context.Context) logger.Logger {
	if e.Log != nil {
		return e.Log
	}
	return logger.FromContext(ctx)
}

// resolved is one initialised term.
type resolved struct {
	term   Term
	f      *xclib.Func
	fam    xclib.Family
	kernel kernelFunc
}

func (e *Engine) resolve(terms []Term, spin xclib.Spin, deriv int) ([]resolved, int, error) {
	if !spin.Valid() {
		return nil, 0, fmt.Errorf("%w: %d", ErrInvalidSpin, int(spin))
	}
	if deriv < 0 || deriv > MaxDeriv {
		return nil, 0, fmt.Errorf("%w: %d", ErrDerivOrder, deriv)
	}
	out := make([]resolved, 0, len(terms))
	nvar := 0
	for _, t := range terms {
		f, err := e.Lib.Init(t.ID, spin)
		if err != nil {
			return nil, 0, &EvalError{ID: t.ID, Err: fmt.Errorf("%w: %v", ErrUnknownFunctional, err)}
		}
		fail := func(err error) error {
			return &EvalError{ID: t.ID, Name: f.Info.Name, Err: err}
		}
		kernel, err := kernelFor(e.Lib, f)
		if err != nil {
			return nil, 0, fail(err)
		}
		if deriv > f.MaxDerivOrder() {
			return nil, 0, fail(fmt.Errorf("%w: order %d, functional provides up to %d", ErrUnsupportedDeriv, deriv, f.MaxDerivOrder()))
		}
		fam := f.Info.Family.Base()
		if err := mergeLayout(fam, spin, NVar(fam, spin), deriv); err != nil {
			return nil, 0, fail(err)
		}
		nvar = max(nvar, NVar(fam, spin))
		out = append(out, resolved{term: t, f: f, fam: fam, kernel: kernel})
	}
	return out, nvar, nil
}

// InputLength returns the number of independent variables of the
// combination: the maximum over its functionals, or 0 when terms is empty.
func (e *Engine) InputLength(terms []Term, spin xclib.Spin) (int, error) {
	_, nvar, err := e.resolve(terms, spin, 0)
	return nvar, err
}

// OutputLength returns the length of the unified output buffer for req.
func (e *Engine) OutputLength(req Request) (int, error) {
	_, nvar, err := e.prepare(req)
	if err != nil || nvar == 0 {
		return 0, err
	}
	return req.Density.NP * OutputLength(nvar, req.Deriv), nil
}

// prepare resolves every term of req and checks the grid size.
func (e *Engine) prepare(req Request) ([]resolved, int, error) {
	terms, nvar, err := e.resolve(req.Terms, req.Spin, req.Deriv)
	if err != nil {
		return nil, 0, err
	}
	if req.Density.NP < 0 {
		return nil, 0, fmt.Errorf("%w: negative point count %d", ErrShortDensity, req.Density.NP)
	}
	return terms, nvar, nil
}

// Evaluate adds the weighted contributions of every term to out, which must
// hold Density.NP times OutputLength(nvar, Deriv) values laid out component
// major: the energy density, then each derivative order in canonical
// component order. Request errors are reported before out is touched.
// Cancellation is checked between terms.
func (e *Engine) Evaluate(ctx context.Context, req Request, out []float64) error {
	terms, nvar, err := e.prepare(req)
	if err != nil {
		return err
	}
	return e.accumulate(ctx, req, terms, nvar, out)
}

func (e *Engine) accumulate(ctx context.Context, req Request, terms []resolved, nvar int, out []float64) error {
	if nvar == 0 {
		return nil
	}
	np := req.Density.NP
	if want := np * OutputLength(nvar, req.Deriv); len(out) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrOutputShape, len(out), want)
	}

	inputs := make([]xclib.Inputs, len(terms))
	for i, r := range terms {
		in, err := buildInputs(req.Density, req.Spin, r.fam, r.f)
		if err != nil {
			return &EvalError{ID: r.term.ID, Name: r.f.Info.Name, Err: err}
		}
		inputs[i] = in
	}
	if np == 0 {
		return nil
	}

	log := e.logger(ctx)
	s := newScratch(np, req.Deriv)
	for i, r := range terms {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.term.Weight == 0 {
			continue
		}
		if r.term.Omega != 0 && applyOmega(r.f, r.term.Omega) == 0 {
			log.Warn("omega override ignored, functional is not range separated",
				"functional", r.f.Info.Name, "omega", r.term.Omega)
		}

		start := time.Now()
		runChunked(e.workers(), np, r.fam, req.Spin, r.kernel, inputs[i], s.outputs(r.fam, req.Spin, req.Deriv))
		if err := merge(out, s, r.term.Weight, r.fam, req.Spin, nvar, req.Deriv); err != nil {
			return &EvalError{ID: r.term.ID, Name: r.f.Info.Name, Err: err}
		}
		log.Debug("functional evaluated",
			"functional", r.f.Info.Name,
			"weight", r.term.Weight,
			"points", np,
			"deriv", req.Deriv,
			"elapsed", time.Since(start))
	}
	return nil
}

// Result is a freshly computed output together with its variable count.
type Result struct {
	Output []float64
	NVar   int
}

// Run evaluates req into a new zeroed buffer, resolving each functional once.
func (e *Engine) Run(ctx context.Context, req Request) (Result, error) {
	terms, nvar, err := e.prepare(req)
	if err != nil {
		return Result{}, err
	}
	n := 0
	if nvar > 0 {
		n = req.Density.NP * OutputLength(nvar, req.Deriv)
	}
	out := make([]float64, n)
	if err := e.accumulate(ctx, req, terms, nvar, out); err != nil {
		return Result{}, err
	}
	return Result{Output: out, NVar: nvar}, nil
}

// Compute evaluates req into a freshly zeroed output buffer.
func (e *Engine) Compute(ctx context.Context, req Request) ([]float64, error) {
	r, err := e.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return r.Output, nil
}
