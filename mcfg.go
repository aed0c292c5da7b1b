// Package mcfg parses token sequences against Multiple Context-Free
// Grammars using an active-item deductive chart, returning the derivation
// trace that witnesses membership.
package mcfg

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mgershovitz/MCFGParser/internal/mcfg/engine"
	"github.com/mgershovitz/MCFGParser/internal/mcfg/grammar"
	"github.com/mgershovitz/MCFGParser/internal/mcfg/trace"
	"github.com/mgershovitz/MCFGParser/internal/mcfgerrors"
)

// Grammar is an immutable, simplified Multiple Context-Free Grammar, safe
// to reuse across any number of Parse calls.
type Grammar = grammar.Grammar

// Function is a named result-vector template a rule instantiates.
type Function = grammar.Function

// Rule is a single grammar production.
type Rule = grammar.Rule

// Trace is the ordered derivation returned by a successful Parse.
type Trace = trace.Trace

// NewTerminatingRule returns a rule rewriting symbol to the literal
// terminal.
func NewTerminatingRule(symbol, terminal string) Rule {
	return grammar.NewTerminating(symbol, terminal)
}

// NewFunctionalRule returns a rule rewriting symbol via the named function
// applied to the given actual nonterminal variables.
func NewFunctionalRule(symbol, funcName string, variables []string) Rule {
	return grammar.NewFunctional(symbol, funcName, variables)
}

// NewFunction builds a function with the given formal arguments and result
// vector.
func NewFunction(name string, formalArgs []string, result []grammar.Component) Function {
	return grammar.Function{Name: name, FormalArgs: formalArgs, Result: result}
}

// BuildGrammar constructs a simplified Grammar from the given terminals,
// functions, and rules, per spec section 6. It fails with a
// mcfgerrors.KindMalformedGrammar error if a rule references an unknown
// function, a placeholder's argument name is not a formal, or a rule passes
// the wrong number of actual variables for its function. Placeholder
// component indices are not checked against the dimension of the
// nonterminal bound to them. An empty start symbol defaults to "S".
func BuildGrammar(terminals []string, functions []Function, rules []Rule, start string) (Grammar, error) {
	return grammar.BuildGrammar(terminals, functions, rules, start)
}

// Tokenize normalizes input to Unicode Normalization Form C and splits it on
// single ASCII spaces, per spec section 6's tokenization rule. Normalizing
// first means two inputs that differ only in how a character is composed
// (an accented letter as one code point vs. base letter plus combining
// mark) tokenize identically. It fails with mcfgerrors.KindInvalidInput if
// input is empty.
func Tokenize(input string) ([]string, error) {
	if input == "" {
		return nil, mcfgerrors.New(mcfgerrors.KindInvalidInput, "empty input")
	}
	normalized := norm.NFC.String(input)
	return strings.Split(normalized, " "), nil
}

// Parse runs the deductive engine over tokens against g and returns the
// derivation trace if the token sequence is in the language g describes,
// or an empty result (ok == false) otherwise. A grammar with no rules
// always fails to parse, never panics.
//
// The three-argument form here is a deliberate deviation from the plain
// Parse(grammar, tokens) signature: stopAtFirstGoal exposes the
// implementation-defined short-circuit spec section 4.6 permits, skipping
// remaining fixed-point work once a goal is confirmed at the final token.
// ParseString always passes true, which is the right choice for every
// caller that only cares about membership; Parse itself takes the flag
// explicitly so a caller that needs every complete item in the chart
// (diagnostics, ambiguity inspection) can pass false instead.
func Parse(g Grammar, tokens []string, stopAtFirstGoal bool) (Trace, bool) {
	if len(tokens) == 0 {
		return nil, false
	}

	result := engine.Run(&g, tokens, stopAtFirstGoal)
	if !result.Found {
		return nil, false
	}

	t, ok := trace.Extract(result.Chart, result.GoalID)
	if !ok {
		return nil, false
	}
	return t, true
}

// ParseString tokenizes input and parses it against g, per spec section 6.
func ParseString(g Grammar, input string) (Trace, bool, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, false, err
	}
	t, ok := Parse(g, tokens, true)
	return t, ok, nil
}
