package reach

import (
	"testing"

	"github.com/pthm-cable/swarmsim/entities"
)

func TestPropagateTouchPredicate(t *testing.T) {
	goal := entities.Goal{Pos: entities.Vec{X: 0, Y: 0}, Width: 10}
	agents := []AgentView{
		{Pos: entities.Vec{X: 0, Y: 0}},   // inside goal square
		{Pos: entities.Vec{X: 1000, Y: 0}}, // far away
	}
	reached := Propagate(agents, goal, entities.PredicateTouch, 100)
	if reached != 1 {
		t.Fatalf("expected 1 reached agent, got %d", reached)
	}
	if !agents[0].GoalReached || agents[1].GoalReached {
		t.Fatalf("unexpected reach flags: %+v", agents)
	}
}

func TestPropagateRadiusPredicateDoesNotChain(t *testing.T) {
	goal := entities.Goal{Pos: entities.Vec{X: 0, Y: 0}, Width: 10}
	agents := []AgentView{
		{Pos: entities.Vec{X: 10, Y: 0}},  // within radius of goal
		{Pos: entities.Vec{X: 20, Y: 0}},  // within radius of agent 0 but not of goal
	}
	sense := 15.0
	reached := Propagate(agents, goal, entities.PredicateRadius, sense)
	if reached != 1 {
		t.Fatalf("radius predicate should not chain through other agents, got %d reached", reached)
	}
}

func TestPropagateChainPredicateChainsThroughAgents(t *testing.T) {
	goal := entities.Goal{Pos: entities.Vec{X: 0, Y: 0}, Width: 10}
	// Agents spaced 10 apart in a line, sense=15: each is in range of its
	// neighbour, so chain propagation should reach all of them.
	agents := []AgentView{
		{Pos: entities.Vec{X: 10, Y: 0}},
		{Pos: entities.Vec{X: 20, Y: 0}},
		{Pos: entities.Vec{X: 30, Y: 0}},
	}
	sense := 15.0
	reached := Propagate(agents, goal, entities.PredicateChain, sense)
	if reached != 3 {
		t.Fatalf("expected chain propagation to reach all 3 agents, got %d", reached)
	}
}

func TestPropagateChainRootAtExactSenseDistanceFromGoalReaches(t *testing.T) {
	goal := entities.Goal{Pos: entities.Vec{X: 0, Y: 0}, Width: 10}
	sense := 100.0
	// Mirrors the shipped chain-reach preset: five agents spaced exactly
	// sense apart, starting exactly sense from the goal. Under the chain
	// predicate this whole line must reach, including the root agent whose
	// distance to the goal is exactly sense, not strictly less than it.
	agents := []AgentView{
		{Pos: entities.Vec{X: 100, Y: 0}},
		{Pos: entities.Vec{X: 200, Y: 0}},
		{Pos: entities.Vec{X: 300, Y: 0}},
		{Pos: entities.Vec{X: 400, Y: 0}},
		{Pos: entities.Vec{X: 500, Y: 0}},
	}
	reached := Propagate(agents, goal, entities.PredicateChain, sense)
	if reached != len(agents) {
		t.Fatalf("expected all %d agents to chain-reach, got %d: %+v", len(agents), reached, agents)
	}
}

func TestPropagateChainNeighbourAtExactSenseDistanceChains(t *testing.T) {
	goal := entities.Goal{Pos: entities.Vec{X: 0, Y: 0}, Width: 10}
	sense := 15.0
	// Agent 0 reaches the goal directly (distance 10 < sense). Agents 1 and
	// 2 are each spaced exactly sense apart from their neighbour: the
	// chain-neighbour test is inclusive (<=), so both must still chain.
	agents := []AgentView{
		{Pos: entities.Vec{X: 10, Y: 0}},
		{Pos: entities.Vec{X: 25, Y: 0}},
		{Pos: entities.Vec{X: 40, Y: 0}},
	}
	reached := Propagate(agents, goal, entities.PredicateChain, sense)
	if reached != 3 {
		t.Fatalf("expected chain to link neighbours exactly sense apart, got %d reached: %+v", reached, agents)
	}
}

func TestPropagateRadiusPredicateExcludesExactSenseDistance(t *testing.T) {
	goal := entities.Goal{Pos: entities.Vec{X: 0, Y: 0}, Width: 10}
	sense := 15.0
	agents := []AgentView{
		{Pos: entities.Vec{X: sense, Y: 0}}, // exactly at sense, strict test excludes it
	}
	reached := Propagate(agents, goal, entities.PredicateRadius, sense)
	if reached != 0 {
		t.Fatalf("expected the strict radius test to exclude a point exactly at sense, got %d reached", reached)
	}
}

func TestPropagateChainStopsWhenGapTooLarge(t *testing.T) {
	goal := entities.Goal{Pos: entities.Vec{X: 0, Y: 0}, Width: 10}
	agents := []AgentView{
		{Pos: entities.Vec{X: 10, Y: 0}},
		{Pos: entities.Vec{X: 1000, Y: 0}}, // far beyond sense from agent 0
	}
	sense := 15.0
	reached := Propagate(agents, goal, entities.PredicateChain, sense)
	if reached != 1 {
		t.Fatalf("expected chain to stop at the gap, got %d reached", reached)
	}
}
