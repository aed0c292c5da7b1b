package engine

// MaxPermutationDimension bounds the component-order permutations predict
// will generate for a single rule, per spec section 9's note that the
// permutation count is exponential in dimension. Grammars observed in
// practice stay at dimension 3 or below; a rule whose result vector exceeds
// this ceiling is predicted only in its declared (identity) component order
// instead of every permutation, trading completeness over reorderings for
// termination.
const MaxPermutationDimension = 6

// permutations returns every permutation of [0, d), or the single identity
// permutation if d exceeds MaxPermutationDimension.
func permutations(d int) [][]int {
	if d <= 0 {
		return [][]int{{}}
	}
	if d > MaxPermutationDimension {
		identity := make([]int, d)
		for i := range identity {
			identity[i] = i
		}
		return [][]int{identity}
	}

	base := make([]int, d)
	for i := range base {
		base[i] = i
	}

	var out [][]int
	var permute func(prefix, rest []int)
	permute = func(prefix, rest []int) {
		if len(rest) == 0 {
			p := make([]int, len(prefix))
			copy(p, prefix)
			out = append(out, p)
			return
		}
		for i := range rest {
			nextRest := make([]int, 0, len(rest)-1)
			nextRest = append(nextRest, rest[:i]...)
			nextRest = append(nextRest, rest[i+1:]...)

			nextPrefix := make([]int, len(prefix), len(prefix)+1)
			copy(nextPrefix, prefix)
			nextPrefix = append(nextPrefix, rest[i])

			permute(nextPrefix, nextRest)
		}
	}
	permute(nil, base)
	return out
}
