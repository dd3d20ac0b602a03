package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samcharles93/xckit/internal/xc"
	"github.com/samcharles93/xckit/internal/xclib"
	"github.com/samcharles93/xckit/pkg/xgf"
)

// parseTerms reads functional specs of the form NAME[:WEIGHT[:OMEGA]], where
// NAME is a functional name or number. Comma-separated specs are split.
func parseTerms(specs []string, lib *xclib.Registry) ([]xc.Term, []xgf.Term, error) {
	var (
		terms []xc.Term
		meta  []xgf.Term
	)
	for _, raw := range specs {
		for s := range strings.SplitSeq(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			t, err := parseTerm(s, lib)
			if err != nil {
				return nil, nil, err
			}
			terms = append(terms, t)
			meta = append(meta, xgf.Term{ID: t.ID, Name: lib.Name(t.ID), Weight: t.Weight, Omega: t.Omega})
		}
	}
	if len(terms) == 0 {
		return nil, nil, fmt.Errorf("no functionals given (use --xc NAME[:WEIGHT[:OMEGA]])")
	}
	return terms, meta, nil
}

func parseTerm(s string, lib *xclib.Registry) (xc.Term, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return xc.Term{}, fmt.Errorf("functional %q: too many fields", s)
	}
	t := xc.Term{Weight: 1}
	if id, err := strconv.Atoi(parts[0]); err == nil {
		t.ID = id
	} else if id, ok := lib.Lookup(parts[0]); ok {
		t.ID = id
	} else {
		return xc.Term{}, fmt.Errorf("unknown functional %q", parts[0])
	}

	var err error
	if len(parts) > 1 && parts[1] != "" {
		if t.Weight, err = strconv.ParseFloat(parts[1], 64); err != nil {
			return xc.Term{}, fmt.Errorf("functional %q: weight: %w", s, err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if t.Omega, err = strconv.ParseFloat(parts[2], 64); err != nil {
			return xc.Term{}, fmt.Errorf("functional %q: omega: %w", s, err)
		}
	}
	return t, nil
}

// termsFromMeta converts stored terms back to engine terms.
func termsFromMeta(ts []xgf.Term) []xc.Term {
	out := make([]xc.Term, len(ts))
	for i, t := range ts {
		out[i] = xc.Term{ID: t.ID, Weight: t.Weight, Omega: t.Omega}
	}
	return out
}
