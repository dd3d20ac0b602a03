// Package autodiff implements forward-mode derivative jets truncated at third
// order. A Jet carries the value of a scalar expression together with its
// gradient, Hessian and third-derivative tensor with respect to a small set of
// seeded variables.
package autodiff

import (
	"fmt"
	"math"
)

// MaxVars is the largest number of seeded variables a Space accepts.
const MaxVars = 9

// MaxOrder is the highest derivative order tracked.
const MaxOrder = 3

// Space fixes the number of seeded variables and the derivative order shared
// by every Jet created from it. Jets from different spaces must not be mixed.
type Space struct {
	N     int
	Order int
}

// NewSpace validates n and order and returns a Space.
func NewSpace(n, order int) (Space, error) {
	if n < 1 || n > MaxVars {
		return Space{}, fmt.Errorf("autodiff: variable count %d out of range [1,%d]", n, MaxVars)
	}
	if order < 0 || order > MaxOrder {
		return Space{}, fmt.Errorf("autodiff: order %d out of range [0,%d]", order, MaxOrder)
	}
	return Space{N: n, Order: order}, nil
}

// Jet is a truncated Taylor expansion. G, H and T are dense row-major
// tensors of rank 1, 2 and 3; they are nil when Order is below their rank.
type Jet struct {
	n     int
	order int

	V float64
	G []float64
	H []float64
	T []float64
}

func (s Space) alloc() *Jet {
	j := &Jet{n: s.N, order: s.Order}
	n := s.N
	if s.Order >= 1 {
		j.G = make([]float64, n)
	}
	if s.Order >= 2 {
		j.H = make([]float64, n*n)
	}
	if s.Order >= 3 {
		j.T = make([]float64, n*n*n)
	}
	return j
}

// Const returns a Jet with value v and vanishing derivatives.
func (s Space) Const(v float64) *Jet {
	j := s.alloc()
	j.V = v
	return j
}

// Var returns the seeded variable i with value v.
func (s Space) Var(i int, v float64) *Jet {
	if i < 0 || i >= s.N {
		panic(fmt.Sprintf("autodiff: variable index %d out of range", i))
	}
	j := s.alloc()
	j.V = v
	if j.G != nil {
		j.G[i] = 1
	}
	return j
}

func (a *Jet) like() *Jet {
	return Space{N: a.n, Order: a.order}.alloc()
}

func mustMatch(a, b *Jet) {
	if a.n != b.n || a.order != b.order {
		panic("autodiff: jet shape mismatch")
	}
}

// N reports the number of seeded variables.
func (a *Jet) N() int { return a.n }

// Order reports the highest derivative order carried.
func (a *Jet) Order() int { return a.order }

// Value returns the value of the expression.
func (a *Jet) Value() float64 { return a.V }

// D1 returns ∂/∂x_i.
func (a *Jet) D1(i int) float64 {
	if a.G == nil {
		return 0
	}
	return a.G[i]
}

// D2 returns ∂²/∂x_i∂x_j.
func (a *Jet) D2(i, j int) float64 {
	if a.H == nil {
		return 0
	}
	return a.H[i*a.n+j]
}

// D3 returns ∂³/∂x_i∂x_j∂x_k.
func (a *Jet) D3(i, j, k int) float64 {
	if a.T == nil {
		return 0
	}
	return a.T[(i*a.n+j)*a.n+k]
}

// Add returns a+b.
func Add(a, b *Jet) *Jet {
	mustMatch(a, b)
	r := a.like()
	r.V = a.V + b.V
	addInto(r.G, a.G, b.G, 1)
	addInto(r.H, a.H, b.H, 1)
	addInto(r.T, a.T, b.T, 1)
	return r
}

// Sub returns a-b.
func Sub(a, b *Jet) *Jet {
	mustMatch(a, b)
	r := a.like()
	r.V = a.V - b.V
	addInto(r.G, a.G, b.G, -1)
	addInto(r.H, a.H, b.H, -1)
	addInto(r.T, a.T, b.T, -1)
	return r
}

func addInto(dst, a, b []float64, sb float64) {
	for i := range dst {
		dst[i] = a[i] + sb*b[i]
	}
}

// Sum adds any number of jets. It panics on an empty list.
func Sum(js ...*Jet) *Jet {
	if len(js) == 0 {
		panic("autodiff: empty sum")
	}
	r := Scale(js[0], 1)
	for _, b := range js[1:] {
		mustMatch(r, b)
		r.V += b.V
		for i := range r.G {
			r.G[i] += b.G[i]
		}
		for i := range r.H {
			r.H[i] += b.H[i]
		}
		for i := range r.T {
			r.T[i] += b.T[i]
		}
	}
	return r
}

// Scale returns c*a.
func Scale(a *Jet, c float64) *Jet {
	r := a.like()
	r.V = c * a.V
	for i := range r.G {
		r.G[i] = c * a.G[i]
	}
	for i := range r.H {
		r.H[i] = c * a.H[i]
	}
	for i := range r.T {
		r.T[i] = c * a.T[i]
	}
	return r
}

// Neg returns -a.
func Neg(a *Jet) *Jet { return Scale(a, -1) }

// AddConst returns a+c.
func AddConst(a *Jet, c float64) *Jet {
	r := Scale(a, 1)
	r.V += c
	return r
}

// Mul returns a*b using the Leibniz rule up to third order.
func Mul(a, b *Jet) *Jet {
	mustMatch(a, b)
	r := a.like()
	n := a.n
	r.V = a.V * b.V
	if a.order >= 1 {
		for i := 0; i < n; i++ {
			r.G[i] = a.G[i]*b.V + a.V*b.G[i]
		}
	}
	if a.order >= 2 {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				ij := i*n + j
				r.H[ij] = a.H[ij]*b.V + a.G[i]*b.G[j] + a.G[j]*b.G[i] + a.V*b.H[ij]
			}
		}
	}
	if a.order >= 3 {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				ij := i*n + j
				for k := 0; k < n; k++ {
					ik := i*n + k
					jk := j*n + k
					ijk := ij*n + k
					r.T[ijk] = a.T[ijk]*b.V +
						a.H[ij]*b.G[k] + a.H[ik]*b.G[j] + a.H[jk]*b.G[i] +
						a.G[i]*b.H[jk] + a.G[j]*b.H[ik] + a.G[k]*b.H[ij] +
						a.V*b.T[ijk]
				}
			}
		}
	}
	return r
}

// Div returns a/b.
func Div(a, b *Jet) *Jet {
	return Mul(a, Recip(b))
}

// Compose applies a univariate function φ to u given φ and its first three
// derivatives evaluated at u.V (Faà di Bruno to third order).
func Compose(u *Jet, d0, d1, d2, d3 float64) *Jet {
	r := u.like()
	n := u.n
	r.V = d0
	if u.order >= 1 {
		for i := 0; i < n; i++ {
			r.G[i] = d1 * u.G[i]
		}
	}
	if u.order >= 2 {
		for i := 0; i < n; i++ {
			gi := u.G[i]
			for j := 0; j < n; j++ {
				ij := i*n + j
				r.H[ij] = d2*gi*u.G[j] + d1*u.H[ij]
			}
		}
	}
	if u.order >= 3 {
		for i := 0; i < n; i++ {
			gi := u.G[i]
			for j := 0; j < n; j++ {
				gj := u.G[j]
				ij := i*n + j
				hij := u.H[ij]
				for k := 0; k < n; k++ {
					gk := u.G[k]
					ijk := ij*n + k
					r.T[ijk] = d3*gi*gj*gk +
						d2*(hij*gk+u.H[i*n+k]*gj+u.H[j*n+k]*gi) +
						d1*u.T[ijk]
				}
			}
		}
	}
	return r
}

// Recip returns 1/a.
func Recip(a *Jet) *Jet {
	x := a.V
	r := 1 / x
	return Compose(a, r, -r*r, 2*r*r*r, -6*r*r*r*r)
}

// Pow returns a**p for real p. a.V must be positive unless p is a
// non-negative integer.
func Pow(a *Jet, p float64) *Jet {
	x := a.V
	switch p {
	case 0:
		r := a.like()
		r.V = 1
		return r
	case 1:
		return Scale(a, 1)
	case 2:
		return Mul(a, a)
	}
	return Compose(a,
		math.Pow(x, p),
		p*math.Pow(x, p-1),
		p*(p-1)*math.Pow(x, p-2),
		p*(p-1)*(p-2)*math.Pow(x, p-3),
	)
}

// Sqrt returns √a.
func Sqrt(a *Jet) *Jet {
	s := math.Sqrt(a.V)
	return Compose(a, s, 0.5/s, -0.25/(s*a.V), 0.375/(s*a.V*a.V))
}

// Cbrt returns a**(1/3).
func Cbrt(a *Jet) *Jet {
	c := math.Cbrt(a.V)
	x := a.V
	return Compose(a, c, c/(3*x), -2*c/(9*x*x), 10*c/(27*x*x*x))
}

// Exp returns e**a.
func Exp(a *Jet) *Jet {
	e := math.Exp(a.V)
	return Compose(a, e, e, e, e)
}

// Log returns ln a.
func Log(a *Jet) *Jet {
	x := a.V
	r := 1 / x
	return Compose(a, math.Log(x), r, -r*r, 2*r*r*r)
}

// Log1p returns ln(1+a).
func Log1p(a *Jet) *Jet {
	r := 1 / (1 + a.V)
	return Compose(a, math.Log1p(a.V), r, -r*r, 2*r*r*r)
}

// Erf returns the error function of a.
func Erf(a *Jet) *Jet {
	x := a.V
	g := 2 / math.SqrtPi * math.Exp(-x*x)
	return Compose(a, math.Erf(x), g, -2*x*g, (4*x*x-2)*g)
}

// Asinh returns the inverse hyperbolic sine of a.
func Asinh(a *Jet) *Jet {
	x := a.V
	q := 1 + x*x
	s := math.Sqrt(q)
	return Compose(a, math.Asinh(x), 1/s, -x/(q*s), (2*x*x-1)/(q*q*s))
}

// Poly evaluates c[0] + c[1] a + c[2] a² + ... by Horner's rule.
func Poly(a *Jet, c ...float64) *Jet {
	if len(c) == 0 {
		return a.like()
	}
	x := a.V
	var p0, p1, p2, p3 float64
	for k := len(c) - 1; k >= 0; k-- {
		p3 = p3*x + p2
		p2 = p2*x + p1
		p1 = p1*x + p0
		p0 = p0*x + c[k]
	}
	return Compose(a, p0, p1, 2*p2, 6*p3)
}
