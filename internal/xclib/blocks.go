package xclib

type group int

const (
	gRho group = iota
	gSigma
	gLapl
	gTau
)

var groupNames = [...]string{"rho", "sigma", "lapl", "tau"}

// seeds[spin-1][group] lists the variable indices of each input group.
var seeds = [2][4][]int{
	{{0}, {1}, {2}, {3}},
	{{0, 1}, {2, 3, 4}, {5, 6}, {7, 8}},
}

// Block is one named output array, such as v2rhosigma. Comp lists, for every
// stored component, the variable indices it differentiates by.
type Block struct {
	Name string
	Comp [][]int
}

// Size is the number of components stored per point.
func (b Block) Size() int { return len(b.Comp) }

type blockSpec []group

// Output blocks in canonical order per base family and derivative order.
var blockSpecs = map[Family][4][]blockSpec{
	FamilyLDA: {
		1: {{gRho}},
		2: {{gRho, gRho}},
		3: {{gRho, gRho, gRho}},
	},
	FamilyGGA: {
		1: {{gRho}, {gSigma}},
		2: {{gRho, gRho}, {gRho, gSigma}, {gSigma, gSigma}},
		3: {{gRho, gRho, gRho}, {gRho, gRho, gSigma}, {gRho, gSigma, gSigma}, {gSigma, gSigma, gSigma}},
	},
	FamilyMGGA: {
		1: {{gRho}, {gSigma}, {gLapl}, {gTau}},
		2: {
			{gRho, gRho}, {gRho, gSigma}, {gSigma, gSigma}, {gLapl, gLapl}, {gTau, gTau},
			{gRho, gLapl}, {gRho, gTau}, {gLapl, gTau}, {gSigma, gLapl}, {gSigma, gTau},
		},
	},
}

var blockCache = func() map[Family][2][4][]Block {
	out := make(map[Family][2][4][]Block, len(blockSpecs))
	for fam, orders := range blockSpecs {
		var bySpin [2][4][]Block
		for s := 0; s < 2; s++ {
			for ord, specs := range orders {
				for _, spec := range specs {
					bySpin[s][ord] = append(bySpin[s][ord], buildBlock(spec, seeds[s]))
				}
			}
		}
		out[fam] = bySpin
	}
	return out
}()

func buildBlock(spec blockSpec, seed [4][]int) Block {
	name := "v"
	if len(spec) > 1 {
		name += string(rune('0' + len(spec)))
	}
	for i := 0; i < len(spec); {
		j := i
		for j < len(spec) && spec[j] == spec[i] {
			j++
		}
		name += groupNames[spec[i]]
		if j-i > 1 {
			name += string(rune('0' + j - i))
		}
		i = j
	}

	var comps [][]int
	cur := make([]int, len(spec))
	var rec func(pos, from int)
	rec = func(pos, from int) {
		if pos == len(spec) {
			comps = append(comps, append([]int(nil), cur...))
			return
		}
		idx := seed[spec[pos]]
		start := 0
		if pos > 0 && spec[pos] == spec[pos-1] {
			start = from
		}
		for k := start; k < len(idx); k++ {
			cur[pos] = idx[k]
			rec(pos+1, k)
		}
	}
	rec(0, 0)
	return Block{Name: name, Comp: comps}
}

// Blocks returns the output blocks of derivative order 1..3 for a family in
// the given spin mode, in canonical order. It returns nil for orders the
// family does not provide.
func Blocks(fam Family, spin Spin, order int) []Block {
	bySpin, ok := blockCache[fam.Base()]
	if !ok || !spin.Valid() || order < 1 || order > 3 {
		return nil
	}
	return bySpin[spin-1][order]
}

// NVar is the number of independent input variables of a family.
func NVar(fam Family, spin Spin) int {
	if !spin.Valid() {
		return 0
	}
	groups := 0
	switch fam.Base() {
	case FamilyLDA:
		groups = 1
	case FamilyGGA:
		groups = 2
	case FamilyMGGA:
		groups = 4
	default:
		return 0
	}
	n := 0
	for g := 0; g < groups; g++ {
		n += len(seeds[spin-1][g])
	}
	return n
}
