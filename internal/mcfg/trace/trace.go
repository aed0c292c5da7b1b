// Package trace extracts and renders the ordered derivation ("parsing
// table") from a goal item's antecedent graph, per spec section 4.7.
package trace

import (
	"fmt"
	"strings"

	"github.com/mgershovitz/MCFGParser/internal/mcfg/chart"
	"github.com/mgershovitz/MCFGParser/internal/mcfg/item"
)

// Entry is one row of a trace: a display snapshot of a chart item, decoupled
// from the chart so callers get a read-only view per spec section 5's
// resource policy.
type Entry struct {
	ID            int
	Symbol        string
	Rule          string
	RangeOrder    []int
	DotComponent  int
	DotOffset     int
	Binding       []string
	FoundSequence []string
	FoundStart    int
	FoundEnd      int
	TokenIndex    int
	Action        string
	Antecedents   []int
}

func entryOf(it *item.Item) Entry {
	binding := make([]string, len(it.Binding))
	for i, comp := range it.Binding {
		binding[i] = comp.String()
	}
	rangeOrder := make([]int, len(it.RangeOrder))
	copy(rangeOrder, it.RangeOrder)
	antecedents := make([]int, len(it.Antecedents))
	copy(antecedents, it.Antecedents)
	foundSeq := make([]string, len(it.FoundSequence))
	copy(foundSeq, it.FoundSequence)

	return Entry{
		ID:            it.ID,
		Symbol:        it.Symbol,
		Rule:          it.Rule.String(),
		RangeOrder:    rangeOrder,
		DotComponent:  it.Dot.Component,
		DotOffset:     it.Dot.Offset,
		Binding:       binding,
		FoundSequence: foundSeq,
		FoundStart:    it.FoundStart,
		FoundEnd:      it.FoundEnd,
		TokenIndex:    it.TokenIndex,
		Action:        it.Action.String(),
		Antecedents:   antecedents,
	}
}

// String renders an entry in the compact display form named by spec
// section 6: "id: symbol -> action (antecedents) = \"found sequence\"".
func (e Entry) String() string {
	return fmt.Sprintf("%d: %s -> %s (%v) = %q", e.ID, e.Symbol, e.Action, e.Antecedents, strings.Join(e.FoundSequence, " "))
}

// MarshalBinary encodes an Entry field by field, in declaration order, using
// the same length-prefixed primitives as binary.go.
func (e Entry) MarshalBinary() ([]byte, error) {
	var data []byte
	data = append(data, encBinaryInt(e.ID)...)
	data = append(data, encBinaryString(e.Symbol)...)
	data = append(data, encBinaryString(e.Rule)...)
	data = append(data, encBinaryIntSlice(e.RangeOrder)...)
	data = append(data, encBinaryInt(e.DotComponent)...)
	data = append(data, encBinaryInt(e.DotOffset)...)
	data = append(data, encBinaryStringSlice(e.Binding)...)
	data = append(data, encBinaryStringSlice(e.FoundSequence)...)
	data = append(data, encBinaryInt(e.FoundStart)...)
	data = append(data, encBinaryInt(e.FoundEnd)...)
	data = append(data, encBinaryInt(e.TokenIndex)...)
	data = append(data, encBinaryString(e.Action)...)
	data = append(data, encBinaryIntSlice(e.Antecedents)...)
	return data, nil
}

// UnmarshalBinary mirrors MarshalBinary, consuming fields in the same order.
func (e *Entry) UnmarshalBinary(data []byte) error {
	id, n, err := decBinaryInt(data)
	if err != nil {
		return fmt.Errorf("decoding entry ID: %w", err)
	}
	data = data[n:]

	symbol, n, err := decBinaryString(data)
	if err != nil {
		return fmt.Errorf("decoding entry Symbol: %w", err)
	}
	data = data[n:]

	rule, n, err := decBinaryString(data)
	if err != nil {
		return fmt.Errorf("decoding entry Rule: %w", err)
	}
	data = data[n:]

	rangeOrder, n, err := decBinaryIntSlice(data)
	if err != nil {
		return fmt.Errorf("decoding entry RangeOrder: %w", err)
	}
	data = data[n:]

	dotComponent, n, err := decBinaryInt(data)
	if err != nil {
		return fmt.Errorf("decoding entry DotComponent: %w", err)
	}
	data = data[n:]

	dotOffset, n, err := decBinaryInt(data)
	if err != nil {
		return fmt.Errorf("decoding entry DotOffset: %w", err)
	}
	data = data[n:]

	binding, n, err := decBinaryStringSlice(data)
	if err != nil {
		return fmt.Errorf("decoding entry Binding: %w", err)
	}
	data = data[n:]

	foundSequence, n, err := decBinaryStringSlice(data)
	if err != nil {
		return fmt.Errorf("decoding entry FoundSequence: %w", err)
	}
	data = data[n:]

	foundStart, n, err := decBinaryInt(data)
	if err != nil {
		return fmt.Errorf("decoding entry FoundStart: %w", err)
	}
	data = data[n:]

	foundEnd, n, err := decBinaryInt(data)
	if err != nil {
		return fmt.Errorf("decoding entry FoundEnd: %w", err)
	}
	data = data[n:]

	tokenIndex, n, err := decBinaryInt(data)
	if err != nil {
		return fmt.Errorf("decoding entry TokenIndex: %w", err)
	}
	data = data[n:]

	action, n, err := decBinaryString(data)
	if err != nil {
		return fmt.Errorf("decoding entry Action: %w", err)
	}
	data = data[n:]

	antecedents, _, err := decBinaryIntSlice(data)
	if err != nil {
		return fmt.Errorf("decoding entry Antecedents: %w", err)
	}

	e.ID = id
	e.Symbol = symbol
	e.Rule = rule
	e.RangeOrder = rangeOrder
	e.DotComponent = dotComponent
	e.DotOffset = dotOffset
	e.Binding = binding
	e.FoundSequence = foundSequence
	e.FoundStart = foundStart
	e.FoundEnd = foundEnd
	e.TokenIndex = tokenIndex
	e.Action = action
	e.Antecedents = antecedents
	return nil
}

// Trace is the ordered derivation from seed predictions to the goal item,
// the "parsing table" of spec section 4.7.
type Trace []Entry

// String renders every entry on its own line.
func (t Trace) String() string {
	lines := make([]string, len(t))
	for i, e := range t {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}

// MarshalBinary encodes a Trace as an entry count followed by each Entry,
// itself length-prefixed so UnmarshalBinary can read one entry at a time
// without knowing any entry's encoded size in advance.
func (t Trace) MarshalBinary() ([]byte, error) {
	data := encBinaryInt(len(t))
	for _, e := range t {
		data = append(data, encBinary(e)...)
	}
	return data, nil
}

// UnmarshalBinary mirrors MarshalBinary.
func (t *Trace) UnmarshalBinary(data []byte) error {
	count, n, err := decBinaryInt(data)
	if err != nil {
		return fmt.Errorf("decoding trace entry count: %w", err)
	}
	data = data[n:]

	var entries Trace
	if count > 0 {
		entries = make(Trace, count)
	}
	for i := 0; i < count; i++ {
		var e Entry
		n, err := decBinary(data, &e)
		if err != nil {
			return fmt.Errorf("decoding trace entry %d: %w", i, err)
		}
		entries[i] = e
		data = data[n:]
	}

	*t = entries
	return nil
}

// Extract performs the reverse BFS described in spec section 4.7: starting
// from the goal item, walk the antecedents relation outward, prepending
// each not-yet-seen item to the list and enqueuing its own antecedents. The
// result is a topologically reversed list running from seed predictions to
// the goal.
func Extract(c *chart.Chart, goalID int) (Trace, bool) {
	goal, ok := c.Get(goalID)
	if !ok {
		return nil, false
	}

	seen := map[int]bool{goalID: true}
	queue := []*item.Item{goal}
	var ordered []*item.Item

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		ordered = append([]*item.Item{cur}, ordered...)

		for _, anteID := range cur.Antecedents {
			if seen[anteID] {
				continue
			}
			ante, ok := c.Get(anteID)
			if !ok {
				panic(fmt.Sprintf("mcfg: trace: antecedent %d of item %d not found in chart", anteID, cur.ID))
			}
			seen[anteID] = true
			queue = append(queue, ante)
		}
	}

	out := make(Trace, len(ordered))
	for i, it := range ordered {
		out[i] = entryOf(it)
	}
	return out, true
}
