package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/xckit/internal/xclib"
)

func listCmd() *cli.Command {
	var family string

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List the built-in functionals",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "family",
				Usage:       "only list this family (lda, gga, mgga, hyb_gga, ...)",
				Destination: &family,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			family = strings.ToLower(strings.TrimSpace(family))
			fmt.Printf("%-5s  %-22s  %-8s  %-5s  %s\n", "ID", "NAME", "FAMILY", "DERIV", "DESCRIPTION")
			for _, id := range xclib.Builtin.Numbers() {
				f, err := xclib.Builtin.Describe(id)
				if err != nil {
					continue
				}
				fam := f.Info.Family
				if family != "" && fam.String() != family && fam.Base().String() != family {
					continue
				}
				deriv := "-"
				if d := f.MaxDerivOrder(); d >= 0 {
					deriv = fmt.Sprint(d)
				}
				fmt.Printf("%-5d  %-22s  %-8s  %-5s  %s\n", id, f.Info.Name, fam, deriv, f.Info.Description)
			}
			return nil
		},
	}
}
