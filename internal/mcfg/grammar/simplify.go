package grammar

import "github.com/mgershovitz/MCFGParser/internal/util"

// simplify returns the subset of rules that are simultaneously productive
// (can derive a string of terminals) and reachable (derivable from start),
// per spec section 4.1. If no productive rules exist, it returns an empty
// rule set rather than an error: every parse against the resulting grammar
// then simply fails.
func simplify(rules []Rule, functions map[string]Function, start string) ([]Rule, error) {
	productive, err := productiveRules(rules, functions)
	if err != nil {
		return nil, err
	}
	reachable, err := reachableRules(rules, functions, start)
	if err != nil {
		return nil, err
	}

	var out []Rule
	for i, r := range rules {
		if productive[i] && reachable[i] {
			out = append(out, r)
		}
	}
	return out, nil
}

// productiveRules computes the fixed point of spec section 4.1's first
// algorithm: start from every terminating rule, and repeatedly add any rule
// all of whose right-hand-side nonterminals already derive a terminal
// string.
func productiveRules(rules []Rule, functions map[string]Function) (map[int]bool, error) {
	derivesTerminals := util.NewStringSet()
	included := map[int]bool{}

	changed := true
	for changed {
		changed = false
		for i, r := range rules {
			if included[i] {
				continue
			}
			rhs, err := rhsNonTerminals(r, functions)
			if err != nil {
				return nil, err
			}
			if allIn(rhs, derivesTerminals) {
				included[i] = true
				derivesTerminals.Add(r.Symbol)
				changed = true
			}
		}
	}
	return included, nil
}

// reachableRules computes the fixed point of spec section 4.1's second
// algorithm: start from every rule headed by the start symbol, and
// repeatedly add every rule headed by a nonterminal already known to be
// reachable.
func reachableRules(rules []Rule, functions map[string]Function, start string) (map[int]bool, error) {
	reachableSymbols := util.NewStringSet()
	reachableSymbols.Add(start)
	included := map[int]bool{}

	changed := true
	for changed {
		changed = false
		for i, r := range rules {
			if included[i] {
				continue
			}
			if !reachableSymbols.Has(r.Symbol) {
				continue
			}
			included[i] = true
			changed = true

			rhs, err := rhsNonTerminals(r, functions)
			if err != nil {
				return nil, err
			}
			for _, nt := range rhs {
				if !reachableSymbols.Has(nt) {
					reachableSymbols.Add(nt)
					changed = true
				}
			}
		}
	}
	return included, nil
}

func allIn(symbols []string, set util.StringSet) bool {
	for _, s := range symbols {
		if !set.Has(s) {
			return false
		}
	}
	return true
}
