package xc

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
)

// View addresses Len elements of a flat buffer, starting at Off and Stride
// elements apart.
type View struct {
	Off    int
	Len    int
	Stride int
}

// span is the number of buffer elements from Off to the last addressed one.
func (v View) span() int {
	if v.Len == 0 {
		return 0
	}
	return (v.Len-1)*v.Stride + 1
}

// check reports whether v fits inside a buffer of n elements.
func (v View) check(n int) error {
	if v.Off < 0 || v.Len < 0 || v.Stride < 1 {
		return fmt.Errorf("%w: invalid view %+v", ErrOutputShape, v)
	}
	if v.Off+v.span() > n {
		return fmt.Errorf("%w: view %+v exceeds buffer of %d", ErrOutputShape, v, n)
	}
	return nil
}

// vector maps v onto buf for the BLAS routines.
func (v View) vector(buf []float64) blas64.Vector {
	return blas64.Vector{N: v.Len, Inc: v.Stride, Data: buf[v.Off : v.Off+v.span()]}
}

// axpy computes dst[dv] += a * src[sv] after checking both views against
// their buffers.
func axpy(a float64, src []float64, sv View, dst []float64, dv View) error {
	if sv.Len != dv.Len {
		return fmt.Errorf("%w: axpy over %d and %d elements", ErrOutputShape, sv.Len, dv.Len)
	}
	if err := sv.check(len(src)); err != nil {
		return err
	}
	if err := dv.check(len(dst)); err != nil {
		return err
	}
	if dv.Len == 0 {
		return nil
	}
	blas64.Axpy(a, sv.vector(src), dv.vector(dst))
	return nil
}
