// Package reach implements the goal-reach fixed-point propagator: a
// repeat-until-no-change pass computing the transitive closure of the
// proximity graph restricted to edges of length <= rho*R, rooted at the set
// of directly-reaching agents.
package reach

import (
	"math"

	"github.com/pthm-cable/swarmsim/entities"
)

// AgentView is the minimal read/write view the propagator needs per agent.
type AgentView struct {
	Pos         entities.Vec
	GoalReached bool
}

// Propagate runs the fixed-point pass in place over agents and returns the
// number of agents with GoalReached set to true at the end. sense is
// rho*R; goal is the rectangular goal region.
func Propagate(agents []AgentView, goal entities.Goal, predicate entities.ReachPredicate, sense float64) int {
	for {
		changed := false
		for i := range agents {
			if agents[i].GoalReached {
				continue
			}
			if satisfies(agents, i, goal, predicate, sense) {
				agents[i].GoalReached = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	reached := 0
	for _, a := range agents {
		if a.GoalReached {
			reached++
		}
	}
	return reached
}

func satisfies(agents []AgentView, i int, goal entities.Goal, predicate entities.ReachPredicate, sense float64) bool {
	switch predicate {
	case entities.PredicateTouch:
		return goal.Contains(agents[i].Pos)

	case entities.PredicateRadius:
		return withinRadius(agents[i].Pos, goal.Pos, sense)

	default: // PredicateChain
		if withinChainRadius(agents[i].Pos, goal.Pos, sense) {
			return true
		}
		for j := range agents {
			if j == i || !agents[j].GoalReached {
				continue
			}
			if withinChainRadius(agents[i].Pos, agents[j].Pos, sense) {
				return true
			}
		}
		return false
	}
}

// withinRadius is the strict goal-radius test: ||A.p - B.p|| < sense.
func withinRadius(a, b entities.Vec, sense float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) < sense
}

// withinChainRadius is the inclusive chain-neighbour test: ||A.p - B.p|| <= sense.
func withinChainRadius(a, b entities.Vec, sense float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= sense
}
