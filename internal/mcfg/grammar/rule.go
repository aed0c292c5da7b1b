package grammar

import "fmt"

// Kind distinguishes a terminating rule (rewrites its symbol to a single
// literal terminal) from a functional one (rewrites its symbol via a
// function applied to a list of actual nonterminal variables).
type Kind int

const (
	// Terminating marks a rule whose right-hand side is a single terminal.
	Terminating Kind = iota
	// Functional marks a rule whose right-hand side is a function
	// reference applied to actual variables.
	Functional
)

func (k Kind) String() string {
	if k == Terminating {
		return "terminating"
	}
	return "functional"
}

// Rule is a single grammar production: symbol -> terminal, or
// symbol -> function(variables...).
type Rule struct {
	Symbol string
	Kind   Kind

	// Terminal holds the literal terminal text for a Terminating rule.
	Terminal string

	// FuncName names the Function this rule instantiates, for a
	// Functional rule.
	FuncName string

	// Variables are the actual nonterminals bound positionally to the
	// named function's formal arguments, for a Functional rule. An empty
	// string entry marks an unbound slot.
	Variables []string
}

// NewTerminating returns a terminating rule rewriting symbol to terminal.
func NewTerminating(symbol, terminal string) Rule {
	return Rule{Symbol: symbol, Kind: Terminating, Terminal: terminal}
}

// NewFunctional returns a functional rule rewriting symbol via the named
// function applied to the given actual variables.
func NewFunctional(symbol, funcName string, variables []string) Rule {
	return Rule{Symbol: symbol, Kind: Functional, FuncName: funcName, Variables: variables}
}

// String renders the rule in a display form suitable for trace output.
func (r Rule) String() string {
	if r.Kind == Terminating {
		return fmt.Sprintf("%s -> %q", r.Symbol, r.Terminal)
	}
	return fmt.Sprintf("%s -> %s(%v)", r.Symbol, r.FuncName, r.Variables)
}
