package world

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/swarmsim/entities"
)

// GenerationParams configures random scenario generation: quadrant-based
// goal placement and clearance-constrained obstacle placement.
type GenerationParams struct {
	WidthPx, HeightPx float64

	GoalWidth float64
	GoalMass  float64

	AgentCount  int
	AgentMass   float64
	AgentRadius float64

	ObstacleCount  int
	ObstacleRadius float64
	ObstacleMass   float64

	// Clearance is the minimum surface-to-surface gap enforced between any
	// two obstacles, and between an obstacle and the goal.
	Clearance float64

	maxPlacementAttempts int
}

func (g GenerationParams) attempts() int {
	if g.maxPlacementAttempts > 0 {
		return g.maxPlacementAttempts
	}
	return 1000
}

// PlaceGoal places the goal's centre in a uniformly-chosen screen quadrant:
// the world is split into four quadrants and one is picked at random, then
// the goal is placed with uniform jitter inside it.
func PlaceGoal(rng *rand.Rand, g GenerationParams) entities.Goal {
	halfW, halfH := g.WidthPx/2, g.HeightPx/2
	quadrant := rng.Intn(4)

	var baseX, baseY float64
	switch quadrant {
	case 0: // top-left
		baseX, baseY = 0, 0
	case 1: // top-right
		baseX, baseY = halfW, 0
	case 2: // bottom-left
		baseX, baseY = 0, halfH
	default: // bottom-right
		baseX, baseY = halfW, halfH
	}

	margin := g.GoalWidth
	x := baseX + margin + rng.Float64()*(halfW-2*margin)
	y := baseY + margin + rng.Float64()*(halfH-2*margin)

	return entities.Goal{
		ID:    0,
		Pos:   entities.Vec{X: x, Y: y},
		Width: g.GoalWidth,
		Mass:  g.GoalMass,
	}
}

// placementError reports a generation failure: no clearance-respecting
// position was found for an object within the attempt limit.
type placementError struct {
	kind  string
	index int
}

func (e *placementError) Error() string {
	return fmt.Sprintf("could not place %s %d without violating clearance", e.kind, e.index)
}

// PlaceObstacles places M obstacles uniformly at random, rejecting any
// placement that would overlap the goal or a previously-placed obstacle
// within Clearance. This is the invariant the collision detector and reach
// propagator both assume: obstacles never engulf the goal, and a collision
// count reflects genuine agent/obstacle contact, not goal/obstacle overlap.
func PlaceObstacles(rng *rand.Rand, g GenerationParams, goal entities.Goal) ([]entities.Obstacle, error) {
	obstacles := make([]entities.Obstacle, 0, g.ObstacleCount)

	for i := 0; i < g.ObstacleCount; i++ {
		placed := false
		for attempt := 0; attempt < g.attempts(); attempt++ {
			x := rng.Float64() * g.WidthPx
			y := rng.Float64() * g.HeightPx
			cand := entities.Obstacle{ID: i, Pos: entities.Vec{X: x, Y: y}, Radius: g.ObstacleRadius, Mass: g.ObstacleMass}

			if clearanceOK(cand, goal, obstacles, g.Clearance) {
				obstacles = append(obstacles, cand)
				placed = true
				break
			}
		}
		if !placed {
			return obstacles, &placementError{kind: "obstacle", index: i}
		}
	}
	return obstacles, nil
}

func clearanceOK(cand entities.Obstacle, goal entities.Goal, existing []entities.Obstacle, clearance float64) bool {
	// Goal clearance: approximate the square goal region by its bounding
	// circumradius for the obstacle-placement check, erring conservative.
	goalHalf := goal.Width / 2
	dx, dy := cand.Pos.X-goal.Pos.X, cand.Pos.Y-goal.Pos.Y
	distToGoal := hypot(dx, dy)
	if distToGoal < cand.Radius+goalHalf*1.41421356+clearance {
		return false
	}
	for _, o := range existing {
		dx, dy := cand.Pos.X-o.Pos.X, cand.Pos.Y-o.Pos.Y
		d := hypot(dx, dy)
		if d < cand.Radius+o.Radius+clearance {
			return false
		}
	}
	return true
}

func hypot(x, y float64) float64 {
	return math.Hypot(x, y)
}

// DeployAgents places N agents uniformly at random across the world,
// re-rolling a placement that would start an agent inside an obstacle (a
// cheap sanity check; the simulation tolerates agents starting near
// obstacles but not already overlapping one, matching the original's
// deployment routine).
func DeployAgents(rng *rand.Rand, w *World, g GenerationParams) {
	for id := 0; id < g.AgentCount; id++ {
		var x, y float64
		for attempt := 0; attempt < g.attempts(); attempt++ {
			x = rng.Float64() * g.WidthPx
			y = rng.Float64() * g.HeightPx
			if !insideAnyObstacle(x, y, g.AgentRadius, w.Obstacles) {
				break
			}
		}
		w.SpawnAgent(id, entities.Vec{X: x, Y: y}, g.AgentMass, g.AgentRadius)
	}
}

func insideAnyObstacle(x, y, radius float64, obstacles []entities.Obstacle) bool {
	for _, o := range obstacles {
		dx, dy := x-o.Pos.X, y-o.Pos.Y
		if hypot(dx, dy) < radius+o.Radius {
			return true
		}
	}
	return false
}
