package engine

import (
	"github.com/mgershovitz/MCFGParser/internal/mcfg/chart"
	"github.com/mgershovitz/MCFGParser/internal/mcfg/item"
)

// scanOne attempts to scan the current token against a single active item,
// per spec section 4.4. It returns whether any new item was accepted.
func scanOne(c *chart.Chart, it *item.Item, token string, tokenIndex int) bool {
	if it.Scanned || it.Ignored {
		return false
	}
	if it.TokenIndex > tokenIndex {
		// Dead per spec section 9: items always inherit the current index
		// on creation, so this can never fire. Preserved as a defensive
		// guard anyway.
		return false
	}

	atom, ok := it.NextAtom()
	if !ok || atom.Placeholder || atom.Terminal != token {
		return false
	}

	it.Scanned = true

	next, completedComponent := it.Advance()
	scanned := it.Derive(item.Scan, []int{it.ID})
	scanned.Dot = next
	scanned.FoundEnd = it.FoundEnd + 1
	scanned.TokenIndex = tokenIndex
	scanned.FoundSequence = append(scanned.FoundSequence, token)

	accepted := c.InsertActive([]*item.Item{scanned})

	if completedComponent {
		jumped := scanned.Derive(item.Complete, []int{scanned.ID})
		jumped.Dot = item.ForceAdvance(scanned.Dot)
		if c.InsertCompleted([]*item.Item{jumped}) {
			accepted = true
		}
	}

	return accepted
}
