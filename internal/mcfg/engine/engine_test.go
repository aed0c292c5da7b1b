package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mgershovitz/MCFGParser/internal/mcfg/grammar"
)

// anbn builds the classic a^n b^n grammar as a two-component MCFG rule set,
// the smallest case that needs component combination at all.
func anbn(t *testing.T) grammar.Grammar {
	t.Helper()

	base := grammar.Function{
		Name:   "base",
		Result: []grammar.Component{{grammar.Term("a")}, {grammar.Term("b")}},
	}
	wrap := grammar.Function{
		Name:       "wrap",
		FormalArgs: []string{"T"},
		Result: []grammar.Component{
			{grammar.Term("a"), grammar.Ref("T", 0)},
			{grammar.Ref("T", 1), grammar.Term("b")},
		},
	}

	rules := []grammar.Rule{
		grammar.NewFunctional("S", "base", nil),
		grammar.NewFunctional("S", "wrap", []string{"S"}),
	}

	g, err := grammar.BuildGrammar([]string{"a", "b"}, []grammar.Function{base, wrap}, rules, "S")
	assert.NoError(t, err)
	return g
}

func Test_Run_AcceptsBalancedInput(t *testing.T) {
	assert := assert.New(t)

	g := anbn(t)
	result := Run(&g, []string{"a", "a", "b", "b"}, false)

	assert.True(result.Found)
	goal, ok := result.Chart.Get(result.GoalID)
	assert.True(ok)
	assert.Equal("S", goal.Symbol)
}

func Test_Run_RejectsUnbalancedInput(t *testing.T) {
	assert := assert.New(t)

	g := anbn(t)
	result := Run(&g, []string{"a", "a", "b"}, false)

	assert.False(result.Found)
}

func Test_Run_RejectsWrongOrder(t *testing.T) {
	assert := assert.New(t)

	g := anbn(t)
	result := Run(&g, []string{"b", "a"}, false)

	assert.False(result.Found)
}

func Test_Run_SingleRuleBaseCase(t *testing.T) {
	assert := assert.New(t)

	g := anbn(t)
	result := Run(&g, []string{"a", "b"}, false)

	assert.True(result.Found)
}
