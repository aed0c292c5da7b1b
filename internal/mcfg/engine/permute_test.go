package engine

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Permutations_Dimension0(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([][]int{{}}, permutations(0))
}

func Test_Permutations_Dimension1(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([][]int{{0}}, permutations(1))
}

func Test_Permutations_Dimension3_AllUnique(t *testing.T) {
	assert := assert.New(t)

	perms := permutations(3)
	assert.Len(perms, 6)

	seen := map[string]bool{}
	for _, p := range perms {
		assert.Len(p, 3)
		sorted := append([]int{}, p...)
		sort.Ints(sorted)
		assert.Equal([]int{0, 1, 2}, sorted)

		key := ""
		for _, v := range p {
			key += string(rune('0' + v))
		}
		assert.False(seen[key], "duplicate permutation %v", p)
		seen[key] = true
	}
}

func Test_Permutations_AboveCeiling_ReturnsIdentityOnly(t *testing.T) {
	assert := assert.New(t)

	d := MaxPermutationDimension + 1
	perms := permutations(d)
	assert.Len(perms, 1)

	identity := make([]int, d)
	for i := range identity {
		identity[i] = i
	}
	assert.Equal(identity, perms[0])
}

func Test_Permutations_IndependentBackingArrays(t *testing.T) {
	assert := assert.New(t)

	perms := permutations(3)
	perms[0][0] = 99
	for i := 1; i < len(perms); i++ {
		assert.NotEqual(99, perms[i][0], "mutating one permutation must not affect another")
	}
}
