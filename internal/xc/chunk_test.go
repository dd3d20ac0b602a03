package xc

import (
	"reflect"
	"testing"

	"github.com/samcharles93/xckit/internal/xclib"
)

func TestPartition(t *testing.T) {
	t.Parallel()
	tests := []struct {
		np, workers int
		want        []chunk
	}{
		{10, 3, []chunk{{0, 3}, {3, 3}, {6, 3}, {9, 1}}},
		{8, 4, []chunk{{0, 2}, {2, 2}, {4, 2}, {6, 2}}},
		{2, 4, []chunk{{0, 2}}},
		{5, 1, []chunk{{0, 5}}},
		{5, 0, []chunk{{0, 5}}},
		{0, 4, nil},
	}
	for _, tc := range tests {
		if got := partition(tc.np, tc.workers); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("partition(%d, %d) = %v, want %v", tc.np, tc.workers, got, tc.want)
		}
	}
}

func TestPartitionCoversEveryPoint(t *testing.T) {
	t.Parallel()
	for np := 1; np <= 40; np++ {
		for w := 1; w <= 12; w++ {
			next := 0
			for _, c := range partition(np, w) {
				if c.start != next || c.n <= 0 {
					t.Fatalf("np=%d w=%d: gap or empty chunk at %+v", np, w, c)
				}
				next += c.n
			}
			if next != np {
				t.Fatalf("np=%d w=%d: covered %d points", np, w, next)
			}
		}
	}
}

func TestSliceWindows(t *testing.T) {
	t.Parallel()
	in := xclib.Inputs{
		Rho:   []float64{0, 1, 2, 3, 4, 5},
		Sigma: []float64{0, 1, 2, 3, 4, 5, 6, 7, 8},
	}
	got := sliceInputs(in, xclib.Polarized, chunk{start: 1, n: 2})
	if !reflect.DeepEqual(got.Rho, []float64{2, 3, 4, 5}) || !reflect.DeepEqual(got.Sigma, []float64{3, 4, 5, 6, 7, 8}) {
		t.Fatalf("polarized windows wrong: %+v", got)
	}
	if got.Lapl != nil || got.Tau != nil {
		t.Fatal("absent inputs must stay nil")
	}

	s := newScratch(4, 1)
	out := sliceOutputs(s.outputs(xclib.FamilyGGA, xclib.Polarized, 1), xclib.FamilyGGA, xclib.Polarized, chunk{start: 3, n: 1})
	if len(out.Zk) != 1 || len(out.V) != 2 || len(out.V[0]) != 2 || len(out.V[1]) != 3 || out.F != nil {
		t.Fatalf("output windows wrong: zk=%d v=%d", len(out.Zk), len(out.V))
	}
}

func TestRunChunkedManyWorkers(t *testing.T) {
	t.Parallel()
	// More blocks than pool goroutines and task slots must still complete.
	const np = 1000
	in := xclib.Inputs{Rho: make([]float64, np)}
	s := newScratch(np, 0)
	out := s.outputs(xclib.FamilyLDA, xclib.Unpolarized, 0)
	runChunked(np, np, xclib.FamilyLDA, xclib.Unpolarized, func(n int, in xclib.Inputs, out xclib.Outputs) {
		for i := range n {
			out.Zk[i] = in.Rho[i] + 1
		}
	}, in, out)
	for i, x := range s.buf[0] {
		if x != 1 {
			t.Fatalf("point %d not evaluated", i)
		}
	}
}
