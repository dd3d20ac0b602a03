package xc

import (
	"runtime"
	"sync"

	"github.com/samcharles93/xckit/internal/xclib"
)

// kernelFunc evaluates one functional on np points.
type kernelFunc func(np int, in xclib.Inputs, out xclib.Outputs)

type chunkTask struct {
	kernel kernelFunc
	np     int
	in     xclib.Inputs
	out    xclib.Outputs
	done   chan struct{}
}

type chunkPool struct {
	size  int
	tasks chan chunkTask
}

var (
	chunkWorkPool *chunkPool
	chunkPoolOnce sync.Once
)

func getChunkPool() *chunkPool {
	chunkPoolOnce.Do(func() {
		chunkWorkPool = newChunkPool(runtime.GOMAXPROCS(0))
	})
	return chunkWorkPool
}

func newChunkPool(size int) *chunkPool {
	if size < 1 {
		size = 1
	}
	p := &chunkPool{
		size:  size,
		tasks: make(chan chunkTask, size*2),
	}
	for range size {
		go func() {
			for task := range p.tasks {
				task.kernel(task.np, task.in, task.out)
				task.done <- struct{}{}
			}
		}()
	}
	return p
}

// chunk is a contiguous run of points.
type chunk struct {
	start, n int
}

// partition splits np points into workers equal blocks plus a remainder
// block. Fewer points than workers yields a single block.
func partition(np, workers int) []chunk {
	if np <= 0 {
		return nil
	}
	nblk := max(workers, 1)
	if np < nblk {
		nblk = 1
	}
	blk := np / nblk
	chunks := make([]chunk, 0, nblk+1)
	for i := range nblk {
		chunks = append(chunks, chunk{start: i * blk, n: blk})
	}
	if rem := np - nblk*blk; rem > 0 {
		chunks = append(chunks, chunk{start: nblk * blk, n: rem})
	}
	return chunks
}

// runChunked evaluates kernel over all points, split across workers. Each
// chunk reads and writes disjoint slices of in and out.
func runChunked(workers int, np int, fam xclib.Family, spin xclib.Spin, kernel kernelFunc, in xclib.Inputs, out xclib.Outputs) {
	chunks := partition(np, workers)
	if len(chunks) == 0 {
		return
	}
	if len(chunks) == 1 {
		kernel(np, in, out)
		return
	}

	pool := getChunkPool()
	// Buffered for every chunk so workers never wait on the caller.
	done := make(chan struct{}, len(chunks))
	for _, c := range chunks {
		pool.tasks <- chunkTask{
			kernel: kernel,
			np:     c.n,
			in:     sliceInputs(in, spin, c),
			out:    sliceOutputs(out, fam, spin, c),
			done:   done,
		}
	}
	for range chunks {
		<-done
	}
}

func sliceInputs(in xclib.Inputs, spin xclib.Spin, c chunk) xclib.Inputs {
	st := inputStrides[spin-1]
	return xclib.Inputs{
		Rho:   window(in.Rho, c, st[0]),
		Sigma: window(in.Sigma, c, st[1]),
		Lapl:  window(in.Lapl, c, st[2]),
		Tau:   window(in.Tau, c, st[3]),
	}
}

func sliceOutputs(out xclib.Outputs, fam xclib.Family, spin xclib.Spin, c chunk) xclib.Outputs {
	blocks := func(k int, bufs [][]float64) [][]float64 {
		if bufs == nil {
			return nil
		}
		sizes := blockSizes(fam, spin, k)
		sub := make([][]float64, len(bufs))
		for b := range bufs {
			sub[b] = window(bufs[b], c, sizes[b])
		}
		return sub
	}
	return xclib.Outputs{
		Zk: window(out.Zk, c, 1),
		V:  blocks(1, out.V),
		F:  blocks(2, out.F),
		K:  blocks(3, out.K),
	}
}

func window(buf []float64, c chunk, width int) []float64 {
	if buf == nil {
		return nil
	}
	return buf[c.start*width : (c.start+c.n)*width]
}
