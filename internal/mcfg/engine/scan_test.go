package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mgershovitz/MCFGParser/internal/mcfg/chart"
	"github.com/mgershovitz/MCFGParser/internal/mcfg/grammar"
	"github.com/mgershovitz/MCFGParser/internal/mcfg/item"
)

func scanTestItem(binding []grammar.Component) *item.Item {
	return &item.Item{
		Symbol:     "S",
		Rule:       grammar.NewTerminating("S", "a"),
		RangeOrder: []int{0},
		Dot:        item.AtOrigin,
		Binding:    binding,
		TokenIndex: 0,
	}
}

func Test_ScanOne_RejectsTokenMismatch(t *testing.T) {
	assert := assert.New(t)

	c := chart.New([]string{"a"})
	it := scanTestItem([]grammar.Component{{grammar.Term("a")}})

	accepted := scanOne(c, it, "b", 0)
	assert.False(accepted)
	assert.False(it.Scanned)
}

func Test_ScanOne_AdvancesAndMarksScanned(t *testing.T) {
	assert := assert.New(t)

	c := chart.New([]string{"a"})
	it := scanTestItem([]grammar.Component{{grammar.Term("a")}})

	accepted := scanOne(c, it, "a", 0)
	assert.True(accepted)
	assert.True(it.Scanned)
}

func Test_ScanOne_AlreadyScannedIsNoOp(t *testing.T) {
	assert := assert.New(t)

	c := chart.New([]string{"a"})
	it := scanTestItem([]grammar.Component{{grammar.Term("a")}})
	it.Scanned = true

	accepted := scanOne(c, it, "a", 0)
	assert.False(accepted)
}

func Test_ScanOne_IgnoredItemIsNoOp(t *testing.T) {
	assert := assert.New(t)

	c := chart.New([]string{"a"})
	it := scanTestItem([]grammar.Component{{grammar.Term("a")}})
	it.Ignored = true

	accepted := scanOne(c, it, "a", 0)
	assert.False(accepted)
}

func Test_ScanOne_CompletingComponentQueuesForceAdvancedCopy(t *testing.T) {
	assert := assert.New(t)

	c := chart.New([]string{"a", "b"})
	it := &item.Item{
		Symbol:     "B",
		Rule:       grammar.NewTerminating("B", "a"),
		RangeOrder: []int{0, 1},
		Dot:        item.AtOrigin,
		Binding: []grammar.Component{
			{grammar.Term("a")},
			{grammar.Term("b")},
		},
		TokenIndex: 0,
	}

	accepted := scanOne(c, it, "a", 0)
	assert.True(accepted)

	partials := c.IterPartial()
	assert.NotEmpty(partials)

	found := false
	for _, p := range partials {
		if p.Dot == (item.DotPosition{Component: 1, Offset: 0}) {
			found = true
		}
	}
	assert.True(found, "expected a force-advanced item sitting at the next component's origin")
}

func Test_ScanOne_AppendsScannedTokenToFoundSequence(t *testing.T) {
	assert := assert.New(t)

	c := chart.New([]string{"a"})
	it := scanTestItem([]grammar.Component{{grammar.Term("a")}})
	it.FoundSequence = []string{}

	scanOne(c, it, "a", 0)

	for _, active := range c.IterActive() {
		if active.ID != it.ID {
			assert.Equal([]string{"a"}, active.FoundSequence)
		}
	}
}
