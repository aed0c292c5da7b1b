// Package item implements the active item: the central piece of parsing
// state produced and consumed by the predict, scan, and combine inference
// rules described in spec section 4.
package item

import (
	"fmt"
	"strings"

	"github.com/mgershovitz/MCFGParser/internal/mcfg/grammar"
)

// ActionType records which inference rule produced an item.
type ActionType int

const (
	Predict ActionType = iota
	Scan
	Combine
	Complete
)

func (a ActionType) String() string {
	switch a {
	case Predict:
		return "predict"
	case Scan:
		return "scan"
	case Combine:
		return "combine"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// DotPosition is the pair (component, offset) described in spec section 3:
// which scheduled component (by position in RangeOrder) the dot is in, and
// how far into that component's atom list it has advanced.
type DotPosition struct {
	Component int
	Offset    int
}

// AtOrigin is the initial dot position (0,0): nothing matched yet.
var AtOrigin = DotPosition{}

// Item is a single active item instance: a rule application in progress
// against a specific token range, with a dot marking how much of its
// scheduled components have been realized.
//
// Items are never mutated after creation except for the two monotonic
// flags Scanned and Ignored, per spec section 5's resource model: once
// inserted into a chart, an Item's id is a stable handle other items may
// reference as an antecedent.
type Item struct {
	ID int

	Symbol string
	Rule   grammar.Rule

	// RangeOrder is a permutation of [0, Dimension) declaring the
	// scheduled order in which components are expected to be realized.
	RangeOrder []int

	Dot DotPosition

	// Binding mirrors the rule's result vector; atoms are rewritten to
	// literal Terminal atoms as they are realized by scan or combine.
	Binding []grammar.Component

	FoundStart int
	FoundEnd   int
	TokenIndex int

	// FoundSequence is the realized substrings in scheduled order, a flat
	// record used by the compatibility filter and for display.
	FoundSequence []string

	// FoundComponents records the completed-component keys ("Symbol(j)")
	// a combine step substituted into this item's ancestry, for display.
	FoundComponents []string

	Antecedents []int
	Action      ActionType

	Scanned bool
	Ignored bool
}

// Dimension is the number of components in the item's result vector.
func (it *Item) Dimension() int {
	return len(it.RangeOrder)
}

// IsComplete reports whether the dot has advanced past the last scheduled
// component: the item is a final witness for its symbol.
func (it *Item) IsComplete() bool {
	return it.Dot.Component >= it.Dimension()
}

// AtComponentBoundary reports whether the dot sits exactly at the start of
// some non-initial scheduled component: it.Dot == (c, 0) with 0 < c. Such
// items are candidates to feed combine as donors, per spec section 4.2's
// "partially-complete" role, in addition to complete items.
func (it *Item) AtComponentBoundary() bool {
	return it.Dot.Offset == 0 && it.Dot.Component > 0
}

// currentComponentIndex returns the index into Binding of the component the
// dot currently sits in, i.e. RangeOrder[Dot.Component].
func (it *Item) currentComponentIndex() (int, bool) {
	if it.Dot.Component >= len(it.RangeOrder) {
		return 0, false
	}
	return it.RangeOrder[it.Dot.Component], true
}

// NextAtom returns the atom the dot is currently positioned before, i.e.
// the next atom scan or combine must match, and whether one exists (false
// if the item is already complete).
func (it *Item) NextAtom() (grammar.Atom, bool) {
	j, ok := it.currentComponentIndex()
	if !ok {
		return grammar.Atom{}, false
	}
	comp := it.Binding[j]
	if it.Dot.Offset >= len(comp) {
		return grammar.Atom{}, false
	}
	return comp[it.Dot.Offset], true
}

// DotTarget returns the index into Binding of the component the dot
// currently sits in, and the offset within it, i.e. (j, k) such that
// it.Binding[j][k] is the next atom to match. ok is false once the item is
// complete.
func (it *Item) DotTarget() (j, k int, ok bool) {
	j, ok = it.currentComponentIndex()
	if !ok {
		return 0, 0, false
	}
	return j, it.Dot.Offset, true
}

// completedComponentKey renders the combine lookup key for component j of
// this item's symbol: "Symbol(j)".
func (it *Item) completedComponentKey(j int) string {
	return fmt.Sprintf("%s(%d)", it.Symbol, j)
}

// CompletedComponents returns the mapping from "Symbol(j)" to the realized
// (fully terminal) text of component j, for every scheduled slot c before
// the dot's current component, per spec section 4.5.
func (it *Item) CompletedComponents() map[string]string {
	out := map[string]string{}
	for c := 0; c < it.Dot.Component && c < len(it.RangeOrder); c++ {
		j := it.RangeOrder[c]
		out[it.completedComponentKey(j)] = it.Binding[j].String()
	}
	return out
}

// Advance computes the dot position reached by consuming one more atom of
// the current component, and whether doing so finishes that component.
// When it finishes a component, the returned position still names the
// same component index (spec section 4.4's (c, k') with k' == len of the
// component); ForceAdvance must be applied afterwards to jump to the next
// component's origin.
func (it *Item) Advance() (next DotPosition, completedComponent bool) {
	j, ok := it.currentComponentIndex()
	if !ok {
		panic("mcfg: Advance called on an already-complete item")
	}
	k2 := it.Dot.Offset + 1
	if k2 < len(it.Binding[j]) {
		return DotPosition{Component: it.Dot.Component, Offset: k2}, false
	}
	return DotPosition{Component: it.Dot.Component, Offset: k2}, true
}

// ForceAdvance jumps the dot to the origin of the next scheduled
// component, used once a component has been finished (spec section 4.4's
// "jumping the dot to the next component's origin").
func ForceAdvance(dot DotPosition) DotPosition {
	return DotPosition{Component: dot.Component + 1, Offset: 0}
}

// CopyBinding returns a deep-enough copy of the binding for a derived item:
// each component slice is copied so later mutation of one item's binding
// never affects another's, while atom values themselves are immutable.
func (it *Item) CopyBinding() []grammar.Component {
	b := make([]grammar.Component, len(it.Binding))
	for i, c := range it.Binding {
		b[i] = c.Copy()
	}
	return b
}

// Derive builds a new item that inherits this item's symbol, rule,
// range_order, binding, and found-so-far fields, ready for its dot position
// and found fields to be set by the caller (scan or combine). It does not
// assign an id: the chart assigns one on insertion.
func (it *Item) Derive(action ActionType, antecedents []int) *Item {
	foundSeq := make([]string, len(it.FoundSequence))
	copy(foundSeq, it.FoundSequence)
	foundComponents := make([]string, len(it.FoundComponents))
	copy(foundComponents, it.FoundComponents)

	return &Item{
		Symbol:          it.Symbol,
		Rule:            it.Rule,
		RangeOrder:      it.RangeOrder,
		Dot:             it.Dot,
		Binding:         it.CopyBinding(),
		FoundStart:      it.FoundStart,
		FoundEnd:        it.FoundEnd,
		TokenIndex:      it.TokenIndex,
		FoundSequence:   foundSeq,
		FoundComponents: foundComponents,
		Antecedents:     antecedents,
		Action:          action,
	}
}

// key is the structural-equality tuple used for duplicate detection: two
// items with an equal key are the same parsing fact, regardless of id or
// antecedents (spec section 3's "no two items with identical (symbol,
// rule, range_order, dot_position, binding, found_start, found_end)
// coexist active").
type key struct {
	symbol     string
	rule       string
	rangeOrder string
	dot        DotPosition
	binding    string
	foundStart int
	foundEnd   int
}

// Key returns the duplicate-detection key for this item.
func (it *Item) Key() any {
	ro := make([]string, len(it.RangeOrder))
	for i, v := range it.RangeOrder {
		ro[i] = fmt.Sprintf("%d", v)
	}
	bind := make([]string, len(it.Binding))
	for i, c := range it.Binding {
		bind[i] = c.String()
	}
	return key{
		symbol:     it.Symbol,
		rule:       it.Rule.String(),
		rangeOrder: strings.Join(ro, ","),
		dot:        it.Dot,
		binding:    strings.Join(bind, "|"),
		foundStart: it.FoundStart,
		foundEnd:   it.FoundEnd,
	}
}

// String renders the item in a compact trace form.
func (it *Item) String() string {
	return fmt.Sprintf("%d: %s -> %s (%v) = %q", it.ID, it.Symbol, it.Action, it.Antecedents, strings.Join(it.FoundSequence, " "))
}
