// Package engine drives the per-token fixed-point loop described in spec
// section 4.6: predict, combine, and scan repeated over chart snapshots
// until a sweep adds nothing new, for every position in the token stream.
package engine

import (
	"strings"

	"github.com/mgershovitz/MCFGParser/internal/mcfg/chart"
	"github.com/mgershovitz/MCFGParser/internal/mcfg/grammar"
)

// Result is the outcome of running the engine over a token stream: the
// chart it built and the id of the goal item, if one was found.
type Result struct {
	Chart  *chart.Chart
	GoalID int
	Found  bool
}

// Run executes the fixed-point loop over tokens against g, and returns the
// resulting chart plus the goal item, if any. stopAtFirstGoal implements
// spec section 4.6's permitted short-circuit: when true, the fixed-point
// loop at the final token position stops after the first sweep that leaves
// a goal in the chart, instead of sweeping until nothing new is added.
// Earlier token positions are always processed in full.
func Run(g *grammar.Grammar, tokens []string, stopAtFirstGoal bool) Result {
	c := chart.New(tokens)
	want := strings.Join(tokens, " ")

	var goalID int
	found := false

	for i := range tokens {
		token := tokens[i]

		if i == 0 {
			c.ExtendPredictionFrontier([]string{g.StartSymbol()})
		}

		for {
			changed := false

			if predict(g, c, c.SnapshotPredictionFrontier(), i, token) {
				changed = true
			}

			// IterPartial already includes every complete item (InsertCompleted
			// always records into the partially-complete role too), so this
			// single pass covers both donor kinds spec section 4.5 allows.
			activeForCombine := c.IterActive()
			for _, donor := range c.IterPartial() {
				if combineOne(c, donor, i, activeForCombine) {
					changed = true
				}
			}

			for _, active := range c.IterActive() {
				if scanOne(c, active, token, i) {
					changed = true
				}
			}

			if !changed {
				break
			}
			if stopAtFirstGoal && i == len(tokens)-1 {
				if _, ok := findGoal(c, g.StartSymbol(), want); ok {
					break
				}
			}
		}

		if id, ok := findGoal(c, g.StartSymbol(), want); ok {
			goalID = id
			found = true
			if stopAtFirstGoal && i == len(tokens)-1 {
				break
			}
		}
	}

	return Result{Chart: c, GoalID: goalID, Found: found}
}

// findGoal looks for a complete item on the start symbol whose found
// sequence, space-joined, equals the full input, per spec section 4.6's
// acceptance check.
func findGoal(c *chart.Chart, start, want string) (int, bool) {
	for _, it := range c.IterComplete() {
		if it.Symbol != start {
			continue
		}
		if strings.Join(it.FoundSequence, " ") == want {
			return it.ID, true
		}
	}
	return 0, false
}
