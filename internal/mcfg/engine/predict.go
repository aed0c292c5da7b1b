package engine

import (
	"github.com/mgershovitz/MCFGParser/internal/mcfg/chart"
	"github.com/mgershovitz/MCFGParser/internal/mcfg/grammar"
	"github.com/mgershovitz/MCFGParser/internal/mcfg/item"
)

// predict runs one predict step over the frontier snapshot, per spec
// section 4.3: for every nonterminal in the frontier, fire every one of its
// rules that has not already fired this parse and whose first atom does not
// rule out the current token, instantiate it in every permitted component
// order, and insert the resulting items as active. It returns whether any
// item was accepted.
func predict(g *grammar.Grammar, c *chart.Chart, frontier []string, tokenIndex int, token string) bool {
	accepted := false

	for _, symbol := range frontier {
		for _, idx := range g.RuleIndicesFor(symbol) {
			if c.RuleUsed(idx) {
				continue
			}
			r := g.Rules[idx]

			binding, err := g.Instantiate(r)
			if err != nil {
				panic("mcfg: predict: instantiate a validated rule: " + err.Error())
			}
			if len(binding) == 0 || len(binding[0]) == 0 {
				panic("mcfg: predict: rule " + r.String() + " has an empty result vector")
			}

			first := binding[0][0]
			if !first.Placeholder && first.Terminal != token {
				continue
			}

			c.MarkRuleUsed(idx)
			c.ExtendPredictionFrontier(actualNonterminals(r))

			d := len(binding)
			items := make([]*item.Item, 0, len(permutations(d)))
			for _, perm := range permutations(d) {
				items = append(items, &item.Item{
					Symbol:     symbol,
					Rule:       r,
					RangeOrder: perm,
					Dot:        item.AtOrigin,
					Binding:    binding,
					FoundStart: tokenIndex,
					FoundEnd:   tokenIndex,
					TokenIndex: tokenIndex,
					Action:     item.Predict,
				})
			}

			if c.InsertActive(items) {
				accepted = true
			}
		}
	}

	return accepted
}

// actualNonterminals returns a rule's actual variables, excluding unbound
// (empty string) slots. A terminating rule has none.
func actualNonterminals(r grammar.Rule) []string {
	if r.Kind != grammar.Functional {
		return nil
	}
	out := make([]string, 0, len(r.Variables))
	for _, v := range r.Variables {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
