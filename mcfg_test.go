package mcfg_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	mcfg "github.com/mgershovitz/MCFGParser"
	"github.com/mgershovitz/MCFGParser/internal/mcfg/grammar"
)

func comp(atoms ...grammar.Atom) grammar.Component {
	return grammar.Component(atoms)
}

func term(s string) grammar.Atom {
	return grammar.Term(s)
}

func ref(name string, i int) grammar.Atom {
	return grammar.Ref(name, i)
}

// copyLanguageGrammar builds { www | w in {a,b}+ } from spec section 8's
// first end-to-end scenario.
func copyLanguageGrammar(t *testing.T) mcfg.Grammar {
	t.Helper()

	functions := []mcfg.Function{
		mcfg.NewFunction("f1", []string{"A"}, []grammar.Component{
			comp(ref("A", 0), ref("A", 1), ref("A", 2)),
		}),
		mcfg.NewFunction("f2", []string{"A"}, []grammar.Component{
			comp(term("a"), ref("A", 0)),
			comp(term("a"), ref("A", 1)),
			comp(term("a"), ref("A", 2)),
		}),
		mcfg.NewFunction("f3", []string{"A"}, []grammar.Component{
			comp(term("b"), ref("A", 0)),
			comp(term("b"), ref("A", 1)),
			comp(term("b"), ref("A", 2)),
		}),
		mcfg.NewFunction("f4", []string{""}, []grammar.Component{
			comp(term("a")), comp(term("a")), comp(term("a")),
		}),
		mcfg.NewFunction("f5", []string{""}, []grammar.Component{
			comp(term("b")), comp(term("b")), comp(term("b")),
		}),
	}

	rules := []mcfg.Rule{
		mcfg.NewFunctionalRule("S", "f1", []string{"A"}),
		mcfg.NewFunctionalRule("A", "f2", []string{"A"}),
		mcfg.NewFunctionalRule("A", "f3", []string{"A"}),
		mcfg.NewFunctionalRule("A", "f4", []string{""}),
		mcfg.NewFunctionalRule("A", "f5", []string{""}),
	}

	g, err := mcfg.BuildGrammar([]string{"a", "b"}, functions, rules, "S")
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return g
}

// crossSerialGrammar builds the S -> f1(C,A) cross-serial dependency
// grammar from spec section 8's second scenario.
func crossSerialGrammar(t *testing.T) mcfg.Grammar {
	t.Helper()

	functions := []mcfg.Function{
		mcfg.NewFunction("f1", []string{"C", "A"}, []grammar.Component{
			comp(ref("C", 0), ref("A", 0), ref("C", 1)),
		}),
		mcfg.NewFunction("f2", []string{"A"}, []grammar.Component{
			comp(term("a"), ref("A", 1)),
		}),
		mcfg.NewFunction("f3", []string{}, []grammar.Component{
			comp(term("a")),
		}),
		mcfg.NewFunction("f4", []string{"C"}, []grammar.Component{
			comp(term("b"), ref("C", 0)),
			comp(term("b"), ref("C", 1)),
		}),
		mcfg.NewFunction("f5", []string{"C"}, []grammar.Component{
			comp(term("c"), ref("C", 0)),
			comp(term("c"), ref("C", 1)),
		}),
		mcfg.NewFunction("f6", []string{}, []grammar.Component{
			comp(term("c")), comp(term("c")),
		}),
	}

	rules := []mcfg.Rule{
		mcfg.NewFunctionalRule("S", "f1", []string{"C", "A"}),
		mcfg.NewFunctionalRule("A", "f2", []string{"A"}),
		mcfg.NewFunctionalRule("A", "f3", nil),
		mcfg.NewFunctionalRule("C", "f4", []string{"C"}),
		mcfg.NewFunctionalRule("C", "f5", []string{"C"}),
		mcfg.NewFunctionalRule("C", "f6", nil),
	}

	g, err := mcfg.BuildGrammar([]string{"a", "b", "c"}, functions, rules, "S")
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return g
}

// twoComponentBGrammar builds the B-with-C-fallback grammar from spec
// section 8's third scenario.
func twoComponentBGrammar(t *testing.T) mcfg.Grammar {
	t.Helper()

	functions := []mcfg.Function{
		mcfg.NewFunction("f1", []string{"B"}, []grammar.Component{
			comp(ref("B", 0), ref("B", 1)),
		}),
		mcfg.NewFunction("f2", []string{}, []grammar.Component{
			comp(term("a")), comp(term("b")),
		}),
		mcfg.NewFunction("f3", []string{"B"}, []grammar.Component{
			comp(ref("B", 0)),
		}),
		mcfg.NewFunction("f4", []string{"C"}, []grammar.Component{
			comp(ref("C", 0)),
		}),
	}

	rules := []mcfg.Rule{
		mcfg.NewFunctionalRule("S", "f1", []string{"B"}),
		mcfg.NewFunctionalRule("B", "f2", nil),
		mcfg.NewFunctionalRule("B", "f3", []string{"B"}),
		mcfg.NewFunctionalRule("B", "f4", []string{"C"}),
		mcfg.NewTerminatingRule("C", "a"),
	}

	g, err := mcfg.BuildGrammar([]string{"a", "b"}, functions, rules, "S")
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return g
}

// coordinationGrammar builds the natural-language grammar with conjunction
// coordination from spec section 8's fourth scenario.
func coordinationGrammar(t *testing.T) mcfg.Grammar {
	t.Helper()

	functions := []mcfg.Function{
		mcfg.NewFunction("f0", []string{"IP", "I"}, []grammar.Component{
			comp(ref("IP", 0), ref("I", 0), ref("IP", 1)),
		}),
		mcfg.NewFunction("f1", []string{"NP", "VP"}, []grammar.Component{
			comp(ref("NP", 0)), comp(ref("VP", 0)),
		}),
		mcfg.NewFunction("f2", []string{"Det", "N"}, []grammar.Component{
			comp(ref("Det", 0), ref("N", 0)),
		}),
		mcfg.NewFunction("f3", []string{"X"}, []grammar.Component{
			comp(ref("X", 0)),
		}),
		mcfg.NewFunction("f4", []string{"V", "NP"}, []grammar.Component{
			comp(ref("V", 0), ref("NP", 0)),
		}),
		mcfg.NewFunction("f5", []string{"A", "NP"}, []grammar.Component{
			comp(ref("A", 0), ref("NP", 0)),
		}),
		mcfg.NewFunction("f6", []string{"NP1", "NP2"}, []grammar.Component{
			comp(ref("NP1", 0), term("and"), ref("NP2", 0)),
		}),
		mcfg.NewFunction("f7", []string{"X"}, []grammar.Component{
			comp(ref("X", 0), ref("X", 1)),
		}),
	}

	rules := []mcfg.Rule{
		mcfg.NewFunctionalRule("S", "f0", []string{"IP", "I"}),
		mcfg.NewFunctionalRule("S", "f7", []string{"IP"}),
		mcfg.NewFunctionalRule("IP", "f1", []string{"NP", "VP"}),
		mcfg.NewFunctionalRule("VP", "f4", []string{"V", "NP"}),

		mcfg.NewFunctionalRule("NP", "f2", []string{"Det", "NP"}),
		mcfg.NewFunctionalRule("NP", "f6", []string{"NP", "NP"}),
		mcfg.NewFunctionalRule("NP", "f3", []string{"N"}),
		mcfg.NewFunctionalRule("NP", "f5", []string{"A", "NP"}),

		mcfg.NewTerminatingRule("Det", "the"),
		mcfg.NewTerminatingRule("N", "dog"),
		mcfg.NewTerminatingRule("N", "Miki"),
		mcfg.NewTerminatingRule("N", "cat"),
		mcfg.NewTerminatingRule("N", "cow"),
		mcfg.NewTerminatingRule("V", "see"),
		mcfg.NewTerminatingRule("A", "red"),
		mcfg.NewTerminatingRule("A", "beautiful"),
		mcfg.NewTerminatingRule("I", "will"),
	}

	terminals := []string{"Miki", "cat", "dog", "the", "see", "and", "cow", "red", "beautiful", "will"}
	g, err := mcfg.BuildGrammar(terminals, functions, rules, "S")
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return g
}

// simpleNPVPGrammar is the plain NP/VP grammar used for the simple NP/VP
// acceptance scenario and the empty-input test.
func simpleNPVPGrammar(t *testing.T) mcfg.Grammar {
	t.Helper()

	functions := []mcfg.Function{
		mcfg.NewFunction("f0", []string{"IP"}, []grammar.Component{
			comp(ref("IP", 0), ref("IP", 1), ref("IP", 2)),
		}),
		mcfg.NewFunction("f1", []string{"NP", "VP"}, []grammar.Component{
			comp(ref("NP", 0)), comp(ref("VP", 0)), comp(ref("VP", 1)),
		}),
		mcfg.NewFunction("f2", []string{"Det", "NP"}, []grammar.Component{
			comp(ref("Det", 0), ref("NP", 0)),
		}),
		mcfg.NewFunction("f3", []string{"V", "NP"}, []grammar.Component{
			comp(ref("V", 0)), comp(ref("NP", 0)),
		}),
		mcfg.NewFunction("f4", []string{"N"}, []grammar.Component{
			comp(ref("N", 0)),
		}),
	}

	rules := []mcfg.Rule{
		mcfg.NewFunctionalRule("S", "f0", []string{"IP"}),
		mcfg.NewFunctionalRule("IP", "f1", []string{"NP", "VP"}),
		mcfg.NewFunctionalRule("NP", "f2", []string{"Det", "NP"}),
		mcfg.NewFunctionalRule("VP", "f3", []string{"V", "NP"}),
		mcfg.NewFunctionalRule("NP", "f4", []string{"N"}),

		mcfg.NewTerminatingRule("Det", "the"),
		mcfg.NewTerminatingRule("N", "book"),
		mcfg.NewTerminatingRule("N", "I"),
		mcfg.NewTerminatingRule("V", "is"),
		mcfg.NewTerminatingRule("V", "read"),
	}

	terminals := []string{"I", "the", "is", "book", "read"}
	g, err := mcfg.BuildGrammar(terminals, functions, rules, "S")
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return g
}

// movementGrammar builds the crossing-dependency / movement grammar from
// spec section 8's fifth scenario.
func movementGrammar(t *testing.T) mcfg.Grammar {
	t.Helper()

	functions := []mcfg.Function{
		mcfg.NewFunction("f0", []string{"IP"}, []grammar.Component{
			comp(ref("IP", 2), term("that"), ref("IP", 0), ref("IP", 1)),
		}),
		mcfg.NewFunction("f5", []string{"IP"}, []grammar.Component{
			comp(ref("IP", 0), ref("IP", 1), ref("IP", 2)),
		}),
		mcfg.NewFunction("f1", []string{"NP", "VP"}, []grammar.Component{
			comp(ref("NP", 0)), comp(ref("VP", 0)), comp(ref("VP", 1)),
		}),
		mcfg.NewFunction("f2", []string{"Det", "NP"}, []grammar.Component{
			comp(ref("Det", 0), ref("NP", 0)),
		}),
		mcfg.NewFunction("f3", []string{"V", "NP"}, []grammar.Component{
			comp(ref("V", 0)), comp(ref("NP", 0)),
		}),
		mcfg.NewFunction("f4", []string{"N"}, []grammar.Component{
			comp(ref("N", 0)),
		}),
	}

	rules := []mcfg.Rule{
		mcfg.NewFunctionalRule("S", "f0", []string{"IP"}),
		mcfg.NewFunctionalRule("S", "f5", []string{"IP"}),

		mcfg.NewFunctionalRule("IP", "f1", []string{"NP", "VP"}),
		mcfg.NewFunctionalRule("NP", "f2", []string{"Det", "NP"}),
		mcfg.NewFunctionalRule("VP", "f3", []string{"V", "NP"}),
		mcfg.NewFunctionalRule("NP", "f4", []string{"N"}),

		mcfg.NewTerminatingRule("Det", "the"),
		mcfg.NewTerminatingRule("N", "book"),
		mcfg.NewTerminatingRule("N", "I"),
		mcfg.NewTerminatingRule("V", "is"),
		mcfg.NewTerminatingRule("V", "read"),
	}

	terminals := []string{"I", "the", "is", "book", "read", "that"}
	g, err := mcfg.BuildGrammar(terminals, functions, rules, "S")
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return g
}

func Test_Parse_AcceptsEndToEndScenarios(t *testing.T) {
	testCases := []struct {
		name    string
		grammar func(t *testing.T) mcfg.Grammar
		input   string
	}{
		{"copy language www", copyLanguageGrammar, "a b a b a b"},
		{"cross-serial dependency", crossSerialGrammar, "b b c a b b c"},
		{"two-component B with C fallback", twoComponentBGrammar, "a b"},
		{"coordination via conjunction", coordinationGrammar, "Miki and the dog and the cat will see the red beautiful cow"},
		{"simple NP/VP", simpleNPVPGrammar, "I read the book"},
		{"movement / crossing dependency", movementGrammar, "the book that I read"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := tc.grammar(t)
			tr, ok, err := mcfg.ParseString(g, tc.input)
			if !assert.NoError(err) {
				return
			}
			if !assert.True(ok, "expected %q to be accepted", tc.input) {
				return
			}
			if !assert.NotEmpty(tr) {
				return
			}

			goal := tr[len(tr)-1]
			assert.Equal(tc.input, strings.Join(goal.FoundSequence, " "))

			seen := map[int]bool{}
			for _, e := range tr {
				seen[e.ID] = true
			}
			for _, e := range tr {
				for _, a := range e.Antecedents {
					assert.True(seen[a], "antecedent %d of item %d missing from trace", a, e.ID)
				}
			}
		})
	}
}

func Test_Parse_RejectsOutsideLanguage(t *testing.T) {
	assert := assert.New(t)

	// Spec section 8's negative scenario: the cross-serial grammar (named
	// "Simple Example" in its original source) rejects this permutation of
	// its own terminal vocabulary.
	g := crossSerialGrammar(t)
	_, ok, err := mcfg.ParseString(g, "b c a b c")
	assert.NoError(err)
	assert.False(ok)
}

func Test_Parse_EmptyInputFails(t *testing.T) {
	assert := assert.New(t)

	g := simpleNPVPGrammar(t)
	_, ok, err := mcfg.ParseString(g, "")
	assert.Error(err)
	assert.False(ok)
}

func Test_BuildGrammar_RejectsUnknownFunction(t *testing.T) {
	assert := assert.New(t)

	rules := []mcfg.Rule{
		mcfg.NewFunctionalRule("S", "nope", []string{"A"}),
	}
	_, err := mcfg.BuildGrammar([]string{"a"}, nil, rules, "S")
	assert.Error(err)
}
