package grammar

import (
	"fmt"
	"strings"

	"github.com/mgershovitz/MCFGParser/internal/mcfgerrors"
)

// Function is a named MCFG function: an ordered list of formal argument
// names and a result vector, an ordered sequence of Components whose atoms
// are either literal terminals or placeholder references into one of the
// formal arguments.
type Function struct {
	Name       string
	FormalArgs []string
	Result     []Component
}

// Dimension is the number of components in the function's result vector,
// i.e. its arity in components.
func (f Function) Dimension() int {
	return len(f.Result)
}

// Validate checks the structural invariants of a function in isolation: every
// placeholder's argument name is a declared formal, and no Name(i) reference
// appears more than once across the whole result vector. It does not (and
// cannot, without the rule that uses it) check that a placeholder's component
// index is in range for the nonterminal eventually bound to that argument;
// BuildGrammar deliberately leaves that unchecked for rules never taken by a
// successful derivation (see DESIGN.md's "Placeholder component-index range
// checking" entry).
func (f Function) Validate() error {
	formals := map[string]bool{}
	for _, a := range f.FormalArgs {
		formals[a] = true
	}

	seen := map[string]bool{}
	for _, comp := range f.Result {
		for _, atom := range comp {
			if !atom.Placeholder {
				continue
			}
			if !formals[atom.ArgName] {
				return mcfgerrors.New(mcfgerrors.KindMalformedGrammar,
					"function %q: placeholder %q refers to unknown formal argument %q", f.Name, atom.String(), atom.ArgName)
			}
			key := fmt.Sprintf("%s(%d)", atom.ArgName, atom.Component)
			if seen[key] {
				return mcfgerrors.New(mcfgerrors.KindMalformedGrammar,
					"function %q: placeholder %s appears more than once in the result vector", f.Name, key)
			}
			seen[key] = true
		}
	}
	return nil
}

// String renders the function in the form used by the external grammar
// input shape: name[args] := <comp1,comp2,...>.
func (f Function) String() string {
	parts := make([]string, len(f.Result))
	for i, c := range f.Result {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%s[%s] := <%s>", f.Name, strings.Join(f.FormalArgs, ","), strings.Join(parts, ","))
}

// rhsVariables returns, for the given actual variables bound positionally to
// f's formal arguments, the set of actual nonterminal variables referenced by
// f's result vector. Empty-string variables (unbound/epsilon slots) are
// excluded, matching spec section 4.1's "walking the result vector,
// replacing each placeholder Name(i) with variables[position_of(Name)]".
func (f Function) rhsVariables(actuals []string) []string {
	pos := make(map[string]int, len(f.FormalArgs))
	for i, name := range f.FormalArgs {
		pos[name] = i
	}

	seen := map[string]bool{}
	var out []string
	for _, comp := range f.Result {
		for _, atom := range comp {
			if !atom.Placeholder {
				continue
			}
			idx, ok := pos[atom.ArgName]
			if !ok || idx >= len(actuals) {
				continue
			}
			v := actuals[idx]
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
