package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/xckit/internal/xc"
	"github.com/samcharles93/xckit/internal/xclib"
	"github.com/samcharles93/xckit/pkg/xgf"
)

func infoCmd() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Describe a functional or an XGF file",
		ArgsUsage: "NAME|ID|FILE.xgf",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			arg := strings.TrimSpace(cmd.Args().First())
			if arg == "" {
				return cli.Exit("error: a functional or .xgf path is required", 1)
			}
			if strings.HasSuffix(strings.ToLower(arg), ".xgf") {
				return printGridInfo(arg)
			}
			return printFunctionalInfo(arg)
		},
	}
}

func printFunctionalInfo(arg string) error {
	id, err := strconv.Atoi(arg)
	if err != nil {
		var ok bool
		if id, ok = xclib.Builtin.Lookup(arg); !ok {
			return cli.Exit(fmt.Sprintf("error: unknown functional %q", arg), 1)
		}
	}
	f, err := xclib.Builtin.Describe(id)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}

	fam := f.Info.Family
	fmt.Printf("Functional %d: %s\n", f.Info.Number, f.Info.Name)
	fmt.Printf("  description:   %s\n", f.Info.Description)
	fmt.Printf("  kind:          %s\n", f.Info.Kind)
	fmt.Printf("  family:        %s\n", fam)
	fmt.Printf("  max deriv:     %d\n", f.MaxDerivOrder())
	if fam.Semilocal() {
		for _, s := range []xclib.Spin{xclib.Unpolarized, xclib.Polarized} {
			fmt.Printf("  variables:     %d (%s)\n", xc.NVar(fam, s), s)
		}
	}
	fmt.Printf("  laplacian:     %t\n", f.NeedsLaplacian())
	fmt.Printf("  tau:           %t\n", f.NeedsTau())
	switch {
	case f.IsCAMRSH():
		omega, alpha, beta := f.RSHCoeff()
		fmt.Printf("  range sep.:    omega=%g alpha=%g beta=%g\n", omega, alpha, beta)
	case f.IsHybrid():
		fmt.Printf("  exact exch.:   %g\n", f.HybridCoeff())
	}
	for _, ref := range f.References() {
		fmt.Printf("  ref:           %s\n", ref)
	}
	return nil
}

func printGridInfo(path string) error {
	f, err := xgf.Open(path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	defer func() { _ = f.Close() }()
	m, err := f.Meta()
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}

	fmt.Printf("XGF v%d.%d: %s\n", f.Header.Major, f.Header.Minor, path)
	fmt.Printf("  id:       %s\n", m.ID)
	fmt.Printf("  created:  %s\n", m.Created.Format("2006-01-02 15:04:05 MST"))
	if m.Comment != "" {
		fmt.Printf("  comment:  %s\n", m.Comment)
	}
	fmt.Printf("  grid:     %d points, %d components, %s\n", m.NP, m.NComp, xclib.Spin(m.Spin))
	for _, t := range m.Terms {
		fmt.Printf("  term:     %s (%d) weight=%g", t.Name, t.ID, t.Weight)
		if t.Omega != 0 {
			fmt.Printf(" omega=%g", t.Omega)
		}
		fmt.Println()
	}
	if m.NVar > 0 {
		fmt.Printf("  output:   %d variables, order %d, %d values\n", m.NVar, m.Deriv, m.NP*xc.OutputLength(m.NVar, m.Deriv))
	}
	for _, s := range f.Sections {
		fmt.Printf("  section:  %-12s offset=%d size=%d count=%d\n", s.Type, s.Offset, s.Size, s.Count)
	}
	return nil
}
