package xc

import "github.com/samcharles93/xckit/internal/xclib"

// applyOmega overrides the range-separation parameter of f and of every
// nested component that is already range separated. A zero omega leaves the
// tree untouched. It returns the number of nodes changed.
func applyOmega(f *xclib.Func, omega float64) int {
	if omega == 0 {
		return 0
	}
	changed := 0
	f.Walk(func(n *xclib.Func) {
		if n.Omega != 0 {
			n.Omega = omega
			changed++
		}
	})
	return changed
}
