package engine

import (
	"fmt"

	"github.com/mgershovitz/MCFGParser/internal/mcfg/chart"
	"github.com/mgershovitz/MCFGParser/internal/mcfg/grammar"
	"github.com/mgershovitz/MCFGParser/internal/mcfg/item"
)

// combineOne runs combine for a single donor item against a snapshot of the
// active set, per spec section 4.5. It returns whether any new item was
// accepted.
func combineOne(c *chart.Chart, donor *item.Item, tokenIndex int, activeSnapshot []*item.Item) bool {
	completed := donor.CompletedComponents()
	if len(completed) == 0 {
		return false
	}

	accepted := false

	for key, realized := range completed {
		for _, cand := range activeSnapshot {
			if cand.Ignored {
				continue
			}
			atom, ok := cand.NextAtom()
			if !ok || !atom.Placeholder {
				continue
			}
			if fmt.Sprintf("%s(%d)", atom.ArgName, atom.Component) != key {
				continue
			}
			if cand.TokenIndex > tokenIndex {
				// Dead per spec section 9, same as scan's guard.
				continue
			}
			if c.PairSeen(cand.ID, donor.ID) {
				continue
			}
			c.MemoizePair(cand.ID, donor.ID)

			if !consistent(cand.CompletedComponents(), completed) {
				continue
			}

			j, k, ok := cand.DotTarget()
			if !ok {
				continue
			}

			next, completedComponent := cand.Advance()
			combined := cand.Derive(item.Combine, []int{cand.ID, donor.ID})
			combined.Binding[j][k] = grammar.Term(realized)
			combined.Dot = next
			combined.FoundEnd = cand.FoundEnd + 1
			combined.TokenIndex = tokenIndex
			combined.FoundSequence = append(combined.FoundSequence, realized)
			combined.FoundComponents = append(combined.FoundComponents, key)

			if c.InsertActive([]*item.Item{combined}) {
				accepted = true
			}

			if completedComponent {
				jumped := combined.Derive(item.Complete, []int{combined.ID})
				jumped.Dot = item.ForceAdvance(combined.Dot)
				if c.InsertCompleted([]*item.Item{jumped}) {
					accepted = true
				}
			}
		}
	}

	return accepted
}

// consistent implements spec section 4.5's multi-component consistency
// check: when the candidate has at least one completed component and the
// donor has more than one, any completed-component key both sides name must
// agree on its realized text; otherwise the pairing is always accepted. A
// mismatch rejects the candidate pairing
// rather than silently proceeding, resolving the open question in spec
// section 9 about the source's fall-through bug.
func consistent(candCompleted, donorCompleted map[string]string) bool {
	if len(candCompleted) == 0 || len(donorCompleted) <= 1 {
		return true
	}
	for k, v := range donorCompleted {
		if existing, ok := candCompleted[k]; ok && existing != v {
			return false
		}
	}
	return true
}
