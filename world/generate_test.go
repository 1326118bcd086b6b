package world

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/swarmsim/entities"
)

func TestPlaceGoalStaysWithinWorldBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := GenerationParams{WidthPx: 800, HeightPx: 600, GoalWidth: 40, GoalMass: 50}

	goal := PlaceGoal(rng, g)

	if goal.Pos.X < 0 || goal.Pos.X > g.WidthPx || goal.Pos.Y < 0 || goal.Pos.Y > g.HeightPx {
		t.Fatalf("goal placed outside world bounds: %+v", goal.Pos)
	}
}

func TestPlaceObstaclesRespectClearance(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	g := GenerationParams{
		WidthPx: 800, HeightPx: 600,
		ObstacleCount: 10, ObstacleRadius: 15, ObstacleMass: 20, Clearance: 10,
	}
	goal := entities.Goal{Pos: entities.Vec{X: 400, Y: 300}, Width: 40, Mass: 50}

	obstacles, err := PlaceObstacles(rng, g, goal)
	if err != nil {
		t.Fatalf("unexpected placement error: %v", err)
	}
	if len(obstacles) != g.ObstacleCount {
		t.Fatalf("expected %d obstacles, got %d", g.ObstacleCount, len(obstacles))
	}
	for i, a := range obstacles {
		for j, b := range obstacles {
			if i == j {
				continue
			}
			if !clearanceOK(a, entities.Goal{Pos: entities.Vec{X: -1e9, Y: -1e9}}, []entities.Obstacle{b}, g.Clearance) {
				t.Errorf("obstacles %d and %d violate clearance", i, j)
			}
		}
	}
}

func TestDeployAgentsAvoidsObstacleOverlap(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	params := Parameters{WidthPx: 800, HeightPx: 600}
	obstacles := []entities.Obstacle{{Pos: entities.Vec{X: 400, Y: 300}, Radius: 100}}
	goal := entities.Goal{Pos: entities.Vec{X: 10, Y: 10}, Width: 20}
	w := New(params, obstacles, goal)

	DeployAgents(rng, w, GenerationParams{WidthPx: 800, HeightPx: 600, AgentCount: 20, AgentMass: 1, AgentRadius: 5})

	if w.N() != 20 {
		t.Fatalf("expected 20 agents spawned, got %d", w.N())
	}
	w.ForEachAgent(func(id int, pos entities.Vec, _ *entities.Flags) {
		if insideAnyObstacle(pos.X, pos.Y, 5, obstacles) {
			t.Errorf("agent %d deployed overlapping an obstacle at %+v", id, pos)
		}
	})
}
