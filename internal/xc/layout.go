package xc

import (
	"fmt"

	"github.com/samcharles93/xckit/internal/xclib"
)

const (
	// MaxNVar is the largest number of independent variables (polarized meta-GGA).
	MaxNVar = 9
	// MaxDeriv is the highest derivative order of the unified output.
	MaxDeriv = 3
)

// SegmentLength is the number of distinct derivatives of order k in nvar
// variables, C(nvar+k-1, k).
func SegmentLength(nvar, k int) int {
	if nvar < 0 || k < 0 {
		return 0
	}
	n := 1
	for i := 1; i <= k; i++ {
		n = n * (nvar + i - 1) / i
	}
	return n
}

// OutputLength is the per-point length of the unified output holding orders
// 0 through deriv, C(nvar+deriv, deriv).
func OutputLength(nvar, deriv int) int {
	if nvar < 0 || deriv < 0 {
		return 0
	}
	n := 1
	for i := 1; i <= nvar; i++ {
		n *= deriv + i
		n /= i
	}
	return n
}

// SegmentOffset is the per-point offset of the order-k segment.
func SegmentOffset(nvar, k int) int {
	if k <= 0 {
		return 0
	}
	return OutputLength(nvar, k-1)
}

// nvarTable[spin-1] maps a base family to its variable count.
var nvarTable = [2]map[xclib.Family]int{
	{xclib.FamilyLDA: 1, xclib.FamilyGGA: 2, xclib.FamilyMGGA: 4},
	{xclib.FamilyLDA: 2, xclib.FamilyGGA: 5, xclib.FamilyMGGA: 9},
}

// NVar is the number of independent variables of a family, or 0 for
// families without a semi-local kernel.
func NVar(fam xclib.Family, spin xclib.Spin) int {
	if !spin.Valid() {
		return 0
	}
	return nvarTable[spin-1][fam.Base()]
}

// inputStrides[spin-1] are the per-point widths of rho, sigma, lapl and tau.
var inputStrides = [2][4]int{
	{1, 1, 1, 1},
	{2, 3, 2, 2},
}

var (
	ones4  = []int{1, 1, 1, 1}
	ones10 = []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
)

// subBlocks[spin-1][family][order] are the widths of the derivative blocks
// each family produces, in canonical order. A lower family's blocks are a
// prefix of a higher family's. Meta-GGAs have no third-order layout.
var subBlocks = [2]map[xclib.Family][4][]int{
	{
		xclib.FamilyLDA:  {1: ones4[:1], 2: ones4[:1], 3: ones4[:1]},
		xclib.FamilyGGA:  {1: ones4[:2], 2: ones4[:3], 3: ones4[:4]},
		xclib.FamilyMGGA: {1: ones4, 2: ones10},
	},
	{
		xclib.FamilyLDA:  {1: {2}, 2: {3}, 3: {4}},
		xclib.FamilyGGA:  {1: {2, 3}, 2: {3, 6, 6}, 3: {4, 9, 12, 10}},
		xclib.FamilyMGGA: {1: {2, 3, 2, 2}, 2: {3, 6, 6, 3, 3, 4, 4, 4, 6, 6}},
	},
}

// blockSizes returns the block widths of a family at order k, or nil when
// the family has no layout for k.
func blockSizes(fam xclib.Family, spin xclib.Spin, k int) []int {
	if !spin.Valid() || k < 1 || k > MaxDeriv {
		return nil
	}
	return subBlocks[spin-1][fam.Base()][k]
}

func sum(xs []int) int {
	s := 0
	for _, x := range xs {
		s += x
	}
	return s
}

func init() {
	if err := checkLayout(); err != nil {
		panic(err)
	}
}

// checkLayout verifies that every declared family layout fills its order
// segment exactly and fits the scratch buffers.
func checkLayout() error {
	for s := xclib.Unpolarized; s <= xclib.Polarized; s++ {
		for fam, orders := range subBlocks[s-1] {
			nvar := NVar(fam, s)
			for k := 1; k <= MaxDeriv; k++ {
				sizes := orders[k]
				if sizes == nil {
					continue
				}
				if got, want := sum(sizes), SegmentLength(nvar, k); got != want {
					return fmt.Errorf("xc: %s %s order %d blocks cover %d of %d derivatives", fam, s, k, got, want)
				}
				if sum(sizes) > scratchWidth[k] {
					return fmt.Errorf("xc: %s %s order %d exceeds scratch width %d", fam, s, k, scratchWidth[k])
				}
			}
		}
	}
	return nil
}
