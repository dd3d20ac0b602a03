package xclib

import (
	"fmt"
	"strings"

	"github.com/samcharles93/xckit/internal/autodiff"
	"golang.org/x/exp/slices"
)

// Reference is a literature citation attached to a functional.
type Reference struct {
	Text string
	DOI  string
}

// Info is the immutable description shared by every instance of a functional.
type Info struct {
	Number      int
	Name        string
	Description string
	Kind        Kind
	Family      Family
	Flags       Flags
	Refs        []Reference

	// DensThreshold is the total density below which a point is skipped.
	DensThreshold float64
}

// Func is one initialised functional. Hybrids and mixtures carry their
// components in Aux, weighted by Mix. Range-separation parameters live on the
// node that uses them so an override can reach nested components.
type Func struct {
	Info *Info
	Spin Spin

	Hyb     HybType
	Omega   float64
	Alpha   float64
	Beta    float64
	ExxCoef float64

	NLCb float64
	NLCC float64

	Aux []*Func
	Mix []float64

	energy energyFunc
}

// energyFunc returns the energy density per unit volume at one point.
type energyFunc func(f *Func, v *vars) *autodiff.Jet

// Walk visits f and every nested component depth first.
func (f *Func) Walk(fn func(*Func)) {
	fn(f)
	for _, a := range f.Aux {
		a.Walk(fn)
	}
}

func (f *Func) String() string {
	return fmt.Sprintf("%s (%d)", f.Info.Name, f.Info.Number)
}

type auxRef struct {
	id    int
	coef  float64
	omega float64
}

type definition struct {
	info Info

	hyb                HybType
	omega, alpha, beta float64
	exx                float64
	nlcB, nlcC         float64

	aux    []auxRef
	energy energyFunc
}

// Registry holds functional definitions keyed by number.
type Registry struct {
	defs   map[int]*definition
	byName map[string]int
}

func newRegistry(defs ...*definition) *Registry {
	r := &Registry{
		defs:   make(map[int]*definition, len(defs)),
		byName: make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		if _, dup := r.defs[d.info.Number]; dup {
			panic(fmt.Sprintf("xclib: duplicate functional number %d", d.info.Number))
		}
		if d.info.DensThreshold == 0 {
			d.info.DensThreshold = defaultDensThreshold
		}
		r.defs[d.info.Number] = d
		r.byName[d.info.Name] = d.info.Number
	}
	return r
}

const defaultDensThreshold = 1e-15

// Init returns a fresh descriptor tree for functional id in the given spin
// mode. Each call returns independent nodes that may be modified freely.
func (r *Registry) Init(id int, spin Spin) (*Func, error) {
	if !spin.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSpin, int(spin))
	}
	d, ok := r.defs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	f := &Func{
		Info:    &d.info,
		Spin:    spin,
		Hyb:     d.hyb,
		Omega:   d.omega,
		Alpha:   d.alpha,
		Beta:    d.beta,
		ExxCoef: d.exx,
		NLCb:    d.nlcB,
		NLCC:    d.nlcC,
		energy:  d.energy,
	}
	for _, a := range d.aux {
		child, err := r.Init(a.id, spin)
		if err != nil {
			return nil, fmt.Errorf("init %s component: %w", d.info.Name, err)
		}
		if a.omega != 0 {
			child.Omega = a.omega
		}
		f.Aux = append(f.Aux, child)
		f.Mix = append(f.Mix, a.coef)
	}
	return f, nil
}

// Describe initialises id in unpolarized mode for metadata queries.
func (r *Registry) Describe(id int) (*Func, error) {
	return r.Init(id, Unpolarized)
}

// Lookup resolves a functional name (case insensitive) to its number.
func (r *Registry) Lookup(name string) (int, bool) {
	id, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// Count returns the number of registered functionals.
func (r *Registry) Count() int { return len(r.defs) }

// Numbers returns the registered functional numbers in ascending order.
func (r *Registry) Numbers() []int {
	out := make([]int, 0, len(r.defs))
	for id := range r.defs {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Name returns the name of functional id, or "" if unknown.
func (r *Registry) Name(id int) string {
	if d, ok := r.defs[id]; ok {
		return d.info.Name
	}
	return ""
}
