// Package chart implements the chart store described in spec section 4.2:
// the indexed collections of active items the deductive engine reads from
// and writes to, plus the auxiliary sets (prediction frontier, combine
// memo, dedup index) that keep the fixed point terminating.
package chart

import (
	"strings"

	"github.com/mgershovitz/MCFGParser/internal/mcfg/item"
	"github.com/mgershovitz/MCFGParser/internal/util"
)

type pairKey struct {
	a, b int
}

func canonicalPair(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Chart is the store of items for one parse, partitioned by role, plus the
// auxiliary state needed by predict, scan, and combine.
type Chart struct {
	tokens       []string
	originalText string

	active   []*item.Item
	partial  []*item.Item
	complete []*item.Item
	all      map[int]*item.Item

	dedup map[any]int

	frontier   util.StringSet
	usedRules  map[int]bool
	pairMemo   map[pairKey]bool
	nextItemID int
}

// New creates an empty chart for the given token stream.
func New(tokens []string) *Chart {
	return &Chart{
		tokens:       tokens,
		originalText: strings.Join(tokens, " "),
		all:          map[int]*item.Item{},
		dedup:        map[any]int{},
		frontier:     util.NewStringSet(),
		usedRules:    map[int]bool{},
		pairMemo:     map[pairKey]bool{},
		nextItemID:   1,
	}
}

// Tokens returns the token stream this chart was built for.
func (c *Chart) Tokens() []string {
	return c.tokens
}

// passesCompatibilityFilter reports whether it's realized substring could
// possibly occur in the input: its space-joined found sequence must be an
// infix of the space-joined token stream. Spec section 4.2 exempts items
// with an unresolved placeholder from this check, but FoundSequence is only
// ever populated with already-realized terminal text (scan appends a
// literal token, combine appends an already-fully-resolved component
// string), so an empty sequence is the only case that needs the explicit
// pass-through, and it trivially satisfies the infix check anyway.
func (c *Chart) passesCompatibilityFilter(it *item.Item) bool {
	if len(it.FoundSequence) == 0 {
		return true
	}
	joined := strings.Join(it.FoundSequence, " ")
	return strings.Contains(c.originalText, joined)
}

// insertOne runs the compatibility filter and duplicate detection on a
// single item, assigns it an id, and invokes place to record it into the
// appropriate role slice(s). It returns whether the item was accepted (not
// filtered out and not a duplicate).
func (c *Chart) insertOne(it *item.Item, place func(*item.Item)) bool {
	if !c.passesCompatibilityFilter(it) {
		return false
	}

	it.ID = c.nextItemID
	c.nextItemID++

	k := it.Key()
	accepted := true
	if _, dup := c.dedup[k]; dup {
		it.Ignored = true
		accepted = false
	} else {
		c.dedup[k] = it.ID
	}

	c.all[it.ID] = it
	place(it)
	return accepted
}

// InsertActive filters and inserts items produced by predict or a
// non-boundary-crossing scan/combine step. It returns whether any were
// accepted (not filtered, not duplicates).
func (c *Chart) InsertActive(items []*item.Item) bool {
	accepted := false
	for _, it := range items {
		if c.insertOne(it, func(it *item.Item) {
			c.active = append(c.active, it)
		}) {
			accepted = true
		}
	}
	return accepted
}

// InsertCompleted filters and inserts items whose dot has just crossed a
// component boundary (dot == (c, 0) for some c > 0). Every accepted item is
// added to the partially-complete role; an item whose dot has advanced past
// the last component is additionally moved into the complete role instead
// of the active role, since it has nothing left to scan or combine against.
func (c *Chart) InsertCompleted(items []*item.Item) bool {
	accepted := false
	for _, it := range items {
		if c.insertOne(it, func(it *item.Item) {
			c.partial = append(c.partial, it)
			if it.IsComplete() {
				c.complete = append(c.complete, it)
			} else {
				c.active = append(c.active, it)
			}
		}) {
			accepted = true
		}
	}
	return accepted
}

func filterIgnored(items []*item.Item) []*item.Item {
	out := make([]*item.Item, 0, len(items))
	for _, it := range items {
		if !it.Ignored {
			out = append(out, it)
		}
	}
	return out
}

// IterActive returns a snapshot of the non-ignored active items.
func (c *Chart) IterActive() []*item.Item {
	return filterIgnored(c.active)
}

// IterPartial returns a snapshot of the non-ignored partially-complete
// items: valid combine donors alongside IterComplete.
func (c *Chart) IterPartial() []*item.Item {
	return filterIgnored(c.partial)
}

// IterComplete returns a snapshot of the non-ignored complete items.
func (c *Chart) IterComplete() []*item.Item {
	return filterIgnored(c.complete)
}

// Get resolves an item by id, for antecedent lookup during trace
// extraction. Ignored items are still resolvable by id.
func (c *Chart) Get(id int) (*item.Item, bool) {
	it, ok := c.all[id]
	return it, ok
}

// ExtendPredictionFrontier adds the given symbols to the prediction
// frontier, ignoring terminals and empty placeholders (callers are
// expected to have already excluded terminals; an empty string is always
// ignored here as a defensive measure).
func (c *Chart) ExtendPredictionFrontier(symbols []string) {
	for _, s := range symbols {
		if s == "" {
			continue
		}
		c.frontier.Add(s)
	}
}

// SnapshotPredictionFrontier returns the nonterminals currently in the
// prediction frontier, sorted for deterministic iteration.
func (c *Chart) SnapshotPredictionFrontier() []string {
	return util.OrderedKeys[bool](c.frontier)
}

// RuleUsed reports whether the rule at the given index into the grammar's
// rule slice has already fired a prediction during this parse.
func (c *Chart) RuleUsed(ruleIndex int) bool {
	return c.usedRules[ruleIndex]
}

// MarkRuleUsed marks the rule at the given index as having fired a
// prediction. This flag is sticky for the lifetime of the chart (and so of
// the parse), per spec section 4.3.
func (c *Chart) MarkRuleUsed(ruleIndex int) {
	c.usedRules[ruleIndex] = true
}

// PairSeen reports whether the unordered pair (a, b) of item ids has
// already been attempted by combine.
func (c *Chart) PairSeen(a, b int) bool {
	return c.pairMemo[canonicalPair(a, b)]
}

// MemoizePair records that the unordered pair (a, b) of item ids has been
// attempted by combine, so it is never attempted again.
func (c *Chart) MemoizePair(a, b int) {
	c.pairMemo[canonicalPair(a, b)] = true
}
