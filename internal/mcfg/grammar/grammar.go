// Package grammar models Multiple Context-Free Grammars: terminals,
// functions with range-vector result components, rules over them, and the
// productive/reachable simplification that keeps prediction finite.
package grammar

import (
	"fmt"
	"sort"

	"github.com/mgershovitz/MCFGParser/internal/mcfgerrors"
	"github.com/mgershovitz/MCFGParser/internal/util"
)

// DefaultStart is the conventional start symbol used when none is given.
const DefaultStart = "S"

// Grammar is an immutable (terminals, rules, start symbol) triple plus a
// function table and an index from nonterminal to the rules it heads. It is
// built once by BuildGrammar, which also discards useless and unreachable
// rules, and is safe to reuse across any number of Parse calls: nothing
// about a Grammar value changes once it is returned.
type Grammar struct {
	Terminals map[string]bool
	Functions map[string]Function
	Rules     []Rule
	Start     string

	byNonTerminal map[string][]int
}

// BuildGrammar constructs a simplified Grammar from the given terminals,
// functions, and rules. It fails with a mcfgerrors.KindMalformedGrammar
// error if a rule references an unknown function, a placeholder's argument
// name is not a formal of the function it appears in, or a rule passes the
// wrong number of actual variables for its function's formal arguments.
//
// It deliberately does not range-check a placeholder's component index
// against the dimension of the nonterminal bound to it, nor does it require
// every rule for a given nonterminal to agree on a single component-vector
// dimension: a grammar may contain a rule that references a component a
// sibling rule never populates (harmless rules like this show up in
// practice, typically recursive cases that are simply never taken by a
// successful derivation), and such a rule is inert rather than malformed.
//
// If, after simplification, no productive rules remain, BuildGrammar
// returns an empty Grammar and a nil error: every subsequent parse against
// it will simply fail, which is the behavior spec'd for an empty grammar
// rather than a construction-time error.
func BuildGrammar(terminals []string, functions []Function, rules []Rule, start string) (Grammar, error) {
	if start == "" {
		start = DefaultStart
	}

	termSet := make(map[string]bool, len(terminals))
	for _, t := range terminals {
		termSet[t] = true
	}

	funcIndex := make(map[string]Function, len(functions))
	for _, f := range functions {
		if err := f.Validate(); err != nil {
			return Grammar{}, err
		}
		funcIndex[f.Name] = f
	}

	for _, r := range rules {
		if r.Kind != Functional {
			continue
		}
		f, ok := funcIndex[r.FuncName]
		if !ok {
			return Grammar{}, mcfgerrors.New(mcfgerrors.KindMalformedGrammar,
				"rule %q references unknown function %q", r.Symbol, r.FuncName)
		}
		if len(r.Variables) != len(f.FormalArgs) {
			return Grammar{}, mcfgerrors.New(mcfgerrors.KindMalformedGrammar,
				"rule %q: expected %d variables for function %q, got %d", r.Symbol, len(f.FormalArgs), r.FuncName, len(r.Variables))
		}
	}

	simplified, err := simplify(rules, funcIndex, start)
	if err != nil {
		return Grammar{}, err
	}

	g := Grammar{
		Terminals: termSet,
		Functions: funcIndex,
		Rules:     simplified,
		Start:     start,
	}
	g.index()
	return g, nil
}

func (g *Grammar) index() {
	g.byNonTerminal = make(map[string][]int, len(g.Rules))
	for i, r := range g.Rules {
		g.byNonTerminal[r.Symbol] = append(g.byNonTerminal[r.Symbol], i)
	}
}

// StartSymbol returns the grammar's designated start symbol.
func (g Grammar) StartSymbol() string {
	if g.Start == "" {
		return DefaultStart
	}
	return g.Start
}

// IsTerminal reports whether s is one of the grammar's declared terminals.
func (g Grammar) IsTerminal(s string) bool {
	return g.Terminals[s]
}

// RulesFor returns the rules, in their original order, whose left-hand side
// is the given nonterminal.
func (g Grammar) RulesFor(symbol string) []Rule {
	idxs := g.byNonTerminal[symbol]
	if len(idxs) == 0 {
		return nil
	}
	out := make([]Rule, len(idxs))
	for i, idx := range idxs {
		out[i] = g.Rules[idx]
	}
	return out
}

// RuleIndicesFor returns the indices into Rules of the rules whose left-hand
// side is the given nonterminal, in their original order. Callers use these
// indices as the stable per-parse key for rule.used tracking (spec section
// 9: the flag belongs to the parse, not to the rule value itself).
func (g Grammar) RuleIndicesFor(symbol string) []int {
	return g.byNonTerminal[symbol]
}

// NonTerminals returns the set of nonterminals with at least one rule,
// sorted for deterministic iteration.
func (g Grammar) NonTerminals() []string {
	nts := make([]string, 0, len(g.byNonTerminal))
	for nt := range g.byNonTerminal {
		nts = append(nts, nt)
	}
	sort.Strings(nts)
	return nts
}

// Instantiate builds the initial binding for a rule instance: for a
// terminating rule, the single-component vector containing its terminal;
// for a functional rule, its function's result vector with every
// placeholder Name(i) rewritten to reference the actual nonterminal
// variable bound to Name in this rule instance, per spec section 4.3.
func (g Grammar) Instantiate(r Rule) ([]Component, error) {
	if r.Kind == Terminating {
		return []Component{{Term(r.Terminal)}}, nil
	}

	f, ok := g.Functions[r.FuncName]
	if !ok {
		return nil, mcfgerrors.New(mcfgerrors.KindMalformedGrammar, "rule %q: unknown function %q", r.Symbol, r.FuncName)
	}

	pos := make(map[string]int, len(f.FormalArgs))
	for i, name := range f.FormalArgs {
		pos[name] = i
	}

	result := make([]Component, len(f.Result))
	for ci, comp := range f.Result {
		newComp := make(Component, len(comp))
		for ai, atom := range comp {
			if !atom.Placeholder {
				newComp[ai] = atom
				continue
			}
			actual := ""
			if idx, ok := pos[atom.ArgName]; ok && idx < len(r.Variables) {
				actual = r.Variables[idx]
			}
			newComp[ai] = Ref(actual, atom.Component)
		}
		result[ci] = newComp
	}
	return result, nil
}

// rhsNonTerminals returns the set of actual nonterminal variables a rule's
// right-hand side refers to, per spec section 4.1: walking the function's
// result vector and replacing each placeholder Name(i) with
// variables[position_of(Name)]. A terminating rule has no such variables.
func rhsNonTerminals(r Rule, functions map[string]Function) ([]string, error) {
	if r.Kind == Terminating {
		return nil, nil
	}
	f, ok := functions[r.FuncName]
	if !ok {
		return nil, mcfgerrors.New(mcfgerrors.KindMalformedGrammar, "rule %q references unknown function %q", r.Symbol, r.FuncName)
	}
	return f.rhsVariables(r.Variables), nil
}

// String renders a one-line summary of the grammar for debugging: its start
// symbol, its sorted terminals, and the number of rules.
func (g Grammar) String() string {
	return fmt.Sprintf("Grammar{start=%s, terminals=%s, rules=%d}", g.StartSymbol(), util.OrderedKeys(g.Terminals), len(g.Rules))
}
