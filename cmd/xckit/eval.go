package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/samcharles93/xckit/internal/logger"
	"github.com/samcharles93/xckit/internal/xc"
	"github.com/samcharles93/xckit/internal/xclib"
	"github.com/samcharles93/xckit/pkg/xgf"
)

func evalCmd() *cli.Command {
	var (
		specs  []string
		deriv  int64
		outDir string
		jobs   int64
		quiet  bool
	)

	flags := append([]cli.Flag{}, engineFlags()...)
	flags = append(flags,
		&cli.StringSliceFlag{
			Name:        "xc",
			Aliases:     []string{"f"},
			Usage:       "functional NAME[:WEIGHT[:OMEGA]] (repeatable; defaults to the terms stored in the grid)",
			Destination: &specs,
		},
		&cli.Int64Flag{
			Name:        "deriv",
			Aliases:     []string{"d"},
			Usage:       "highest derivative order (0-3)",
			Value:       1,
			Destination: &deriv,
		},
		&cli.StringFlag{
			Name:        "out-dir",
			Aliases:     []string{"o"},
			Usage:       "directory for result files (default: next to each input)",
			Destination: &outDir,
		},
		&cli.Int64Flag{
			Name:        "jobs",
			Usage:       "grid files evaluated at once",
			Value:       1,
			Destination: &jobs,
		},
		&cli.BoolFlag{
			Name:        "quiet",
			Aliases:     []string{"q"},
			Usage:       "do not print per-order summaries",
			Destination: &quiet,
		},
	)

	return &cli.Command{
		Name:      "eval",
		Usage:     "Evaluate functionals on XGF density grids",
		ArgsUsage: "GRID.xgf [GRID.xgf...]",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyEngineConfig(cmd, cfg, &deriv, nil)

			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return cli.Exit("error: at least one grid file is required", 1)
			}
			var terms []xc.Term
			var meta []xgf.Term
			if len(specs) > 0 {
				var err error
				if terms, meta, err = parseTerms(specs, xclib.Builtin); err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
			}
			if outDir != "" {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
			}

			engine := xc.New(int(workers), log)
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(int(max(jobs, 1)))
			results := make([]evalResult, len(paths))
			for i, path := range paths {
				g.Go(func() error {
					job := evalJob{
						in:     path,
						out:    resultPath(path, outDir),
						terms:  terms,
						meta:   meta,
						deriv:  int(deriv),
						engine: engine,
					}
					r, err := job.run(gctx)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					results[i] = r
					log.Info("grid evaluated", "input", path, "output", job.out, "points", r.np, "elapsed", r.elapsed)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if !quiet {
				for _, r := range results {
					r.print(os.Stdout)
				}
			}
			return nil
		},
	}
}

// resultPath names the output container for in: "<stem>.out.xgf" beside the
// input or inside dir.
func resultPath(in, dir string) string {
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + ".out.xgf"
	if dir == "" {
		dir = filepath.Dir(in)
	}
	return filepath.Join(dir, base)
}

type evalJob struct {
	in, out string
	terms   []xc.Term
	meta    []xgf.Term
	deriv   int
	engine  *xc.Engine
}

type evalResult struct {
	path    string
	np      int
	nvar    int
	deriv   int
	output  []float64
	elapsed time.Duration
}

func (j evalJob) run(ctx context.Context) (evalResult, error) {
	f, err := xgf.Open(j.in)
	if err != nil {
		return evalResult{}, err
	}
	defer func() { _ = f.Close() }()

	m, err := f.Meta()
	if err != nil {
		return evalResult{}, err
	}
	up, err := f.Floats(xgf.SectionDensityUp)
	if err != nil {
		return evalResult{}, err
	}
	var down []float64
	if m.Spin == int(xclib.Polarized) {
		if down, err = f.Floats(xgf.SectionDensityDown); err != nil {
			return evalResult{}, err
		}
	}

	terms, meta := j.terms, j.meta
	if terms == nil {
		if len(m.Terms) == 0 {
			return evalResult{}, fmt.Errorf("no functionals given and none stored in the grid")
		}
		terms, meta = termsFromMeta(m.Terms), m.Terms
	}

	req := xc.Request{
		Terms: terms,
		Spin:  xclib.Spin(m.Spin),
		Deriv: j.deriv,
		Density: xc.Density{
			NP:    m.NP,
			NComp: m.NComp,
			Up:    up,
			Down:  down,
		},
	}
	start := time.Now()
	res, err := j.engine.Run(ctx, req)
	if err != nil {
		return evalResult{}, err
	}
	elapsed := time.Since(start)
	out, nvar := res.Output, res.NVar

	m.Terms, m.Deriv, m.NVar = meta, j.deriv, nvar
	m.ID, m.Created = "", time.Time{}
	if _, err := xgf.Create(j.out, m, up, down, out); err != nil {
		return evalResult{}, err
	}
	return evalResult{path: j.out, np: m.NP, nvar: nvar, deriv: j.deriv, output: out, elapsed: elapsed}, nil
}

func (r evalResult) print(w *os.File) {
	_, _ = fmt.Fprintf(w, "%s: %d points, %d variables, %s\n", r.path, r.np, r.nvar, r.elapsed.Round(time.Microsecond))
	if r.np == 0 || r.nvar == 0 {
		return
	}
	for k := 0; k <= r.deriv; k++ {
		off := r.np * xc.SegmentOffset(r.nvar, k)
		seg := r.output[off : off+r.np*xc.SegmentLength(r.nvar, k)]
		_, _ = fmt.Fprintf(w, "  order %d: %4d values  min %+.6e  max %+.6e  sum %+.6e\n",
			k, len(seg), floats.Min(seg), floats.Max(seg), floats.Sum(seg))
	}
}
