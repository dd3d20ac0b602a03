package main

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sys/cpu"
	"gonum.org/v1/gonum/stat"

	"github.com/samcharles93/xckit/internal/logger"
	"github.com/samcharles93/xckit/internal/xc"
	"github.com/samcharles93/xckit/internal/xclib"
)

func benchCmd() *cli.Command {
	var (
		specs  []string
		np     int64
		deriv  int64
		spin   string
		runs   int64
		warmup int64
		seed   uint64
	)

	flags := append([]cli.Flag{}, engineFlags()...)
	flags = append(flags,
		&cli.StringSliceFlag{
			Name:        "xc",
			Aliases:     []string{"f"},
			Usage:       "functional NAME[:WEIGHT[:OMEGA]] (repeatable)",
			Value:       []string{"gga_x_pbe", "gga_c_pbe"},
			Destination: &specs,
		},
		&cli.Int64Flag{
			Name:        "points",
			Aliases:     []string{"n"},
			Usage:       "grid points per evaluation",
			Value:       100_000,
			Destination: &np,
		},
		&cli.Int64Flag{
			Name:        "deriv",
			Aliases:     []string{"d"},
			Usage:       "highest derivative order",
			Value:       1,
			Destination: &deriv,
		},
		&cli.StringFlag{
			Name:        "spin",
			Value:       "unpolarized",
			Destination: &spin,
		},
		&cli.Int64Flag{
			Name:        "runs",
			Usage:       "number of timed runs",
			Value:       5,
			Destination: &runs,
		},
		&cli.Int64Flag{
			Name:        "warmup",
			Usage:       "number of warmup runs",
			Value:       1,
			Destination: &warmup,
		},
		&cli.Uint64Flag{
			Name:        "seed",
			Value:       1,
			Destination: &seed,
		},
	)

	return &cli.Command{
		Name:    "bench",
		Aliases: []string{"benchmark"},
		Usage:   "Time evaluations on a random grid",
		Flags:   flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyEngineConfig(cmd, cfg, &deriv, &spin)

			s, err := xclib.ParseSpin(spin)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			terms, _, err := parseTerms(specs, xclib.Builtin)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if np < 1 || runs < 1 {
				return cli.Exit("error: points and runs must be positive", 1)
			}

			g := newGridSampler(seed)
			d := xc.Density{NP: int(np), NComp: xc.MaxComp, Up: g.channel(int(np), xc.MaxComp)}
			if s == xclib.Polarized {
				d.Down = g.channel(int(np), xc.MaxComp)
			}
			req := xc.Request{Terms: terms, Spin: s, Deriv: int(deriv), Density: d}
			engine := xc.New(int(workers), logger.Discard())
			n, err := engine.OutputLength(req)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			out := make([]float64, n)

			log.Info("benchmarking", "points", np, "deriv", deriv, "spin", s, "functionals", len(terms))
			for range warmup {
				clear(out)
				if err := engine.Evaluate(ctx, req, out); err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
			}
			times := make([]float64, 0, runs)
			for range runs {
				clear(out)
				start := time.Now()
				if err := engine.Evaluate(ctx, req, out); err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				times = append(times, time.Since(start).Seconds())
			}

			mean, std := stat.MeanStdDev(times, nil)
			fmt.Println("=== Benchmark ===")
			fmt.Printf("CPU:         %s (%d threads, features: %s)\n", runtime.GOARCH, runtime.GOMAXPROCS(0), cpuFeatures())
			fmt.Printf("Workers:     %d\n", workers)
			fmt.Printf("Grid:        %d points, %s, order %d\n", np, s, deriv)
			fmt.Printf("Output:      %d values\n", n)
			fmt.Printf("Time:        %.3f ms ± %.3f ms over %d runs\n", mean*1e3, std*1e3, runs)
			fmt.Printf("Throughput:  %.2f Mpoints/s\n", float64(np)/mean/1e6)
			return nil
		},
	}
}

// cpuFeatures lists the vector extensions relevant to the BLAS kernels.
func cpuFeatures() string {
	var f []string
	switch runtime.GOARCH {
	case "amd64":
		if cpu.X86.HasAVX2 {
			f = append(f, "avx2")
		}
		if cpu.X86.HasFMA {
			f = append(f, "fma")
		}
		if cpu.X86.HasAVX512F {
			f = append(f, "avx512f")
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			f = append(f, "asimd")
		}
		if cpu.ARM64.HasSVE {
			f = append(f, "sve")
		}
	}
	if len(f) == 0 {
		return "none"
	}
	return strings.Join(f, ",")
}
