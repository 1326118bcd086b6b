package integrator

import (
	"math"
	"testing"

	"github.com/pthm-cable/swarmsim/entities"
)

func baseProfile() entities.ForceProfile {
	return entities.ForceProfile{
		Law:              entities.Newtonian,
		AgentGoal:        entities.InteractionParams{G: 1000, Exp: 2, Cap: 50},
		AgentObstacle:    entities.InteractionParams{G: 400, Exp: 2, Cap: 80},
		AgentAgent:       entities.InteractionParams{G: 100, Exp: 2, Cap: 50},
		DesiredDistance:  40,
		RangeCoefficient: 2.5,
	}
}

func TestStepMovesTowardGoal(t *testing.T) {
	self := AgentState{Pos: entities.Vec{X: 0, Y: 0}, Vel: entities.Vec{}, Mass: 1, Radius: 5}
	in := Inputs{
		Goal:            entities.Goal{Pos: entities.Vec{X: 100, Y: 0}, Width: 10, Mass: 50},
		Profile:         baseProfile(),
		Friction:        0.1,
		MaxSpeed:        10,
		EnableAgentGoal: true,
	}

	next := Step(self, in)

	if next.Pos.X <= self.Pos.X {
		t.Fatalf("expected agent to move toward the goal on +X, got pos %+v", next.Pos)
	}
}

func TestStepRespectsVelocityCap(t *testing.T) {
	self := AgentState{Pos: entities.Vec{X: 0, Y: 0}, Vel: entities.Vec{}, Mass: 1, Radius: 5}
	in := Inputs{
		Goal:            entities.Goal{Pos: entities.Vec{X: 1, Y: 0}, Width: 10, Mass: 50},
		Profile:         baseProfile(),
		Friction:        0,
		MaxSpeed:        0.5,
		EnableAgentGoal: true,
	}

	next := Step(self, in)
	speed := math.Hypot(next.Vel.X, next.Vel.Y)
	if speed > in.MaxSpeed+1e-9 {
		t.Fatalf("expected speed <= %v, got %v", in.MaxSpeed, speed)
	}
}

func TestStepWithNoEnabledInteractionsCoastsUnderFriction(t *testing.T) {
	self := AgentState{Pos: entities.Vec{X: 0, Y: 0}, Vel: entities.Vec{X: 2, Y: 0}, Mass: 1, Radius: 5}
	in := Inputs{
		Profile:  baseProfile(),
		Friction: 0.5,
		MaxSpeed: 10,
	}

	next := Step(self, in)
	if next.Vel.X != 1 {
		t.Errorf("expected friction-only velocity 1, got %v", next.Vel.X)
	}
	if next.Pos.X != 1 {
		t.Errorf("expected position to advance by the new velocity, got %v", next.Pos.X)
	}
}

func TestCheckCollisionIsMonotonic(t *testing.T) {
	obstacles := []entities.Obstacle{{Pos: entities.Vec{X: 0, Y: 0}, Radius: 10}}

	if !CheckCollision(entities.Vec{X: 5, Y: 0}, false, obstacles) {
		t.Fatal("expected collision when inside obstacle radius")
	}
	if CheckCollision(entities.Vec{X: 5, Y: 0}, true, obstacles) {
		t.Fatal("expected CheckCollision to report no new transition once already collided")
	}
}

func TestCheckCollisionFalseWhenClear(t *testing.T) {
	obstacles := []entities.Obstacle{{Pos: entities.Vec{X: 0, Y: 0}, Radius: 10}}
	if CheckCollision(entities.Vec{X: 1000, Y: 0}, false, obstacles) {
		t.Fatal("expected no collision far from any obstacle")
	}
}

// The collision test is surface distance <= radius, not just <= 0, together
// with both axis separations <= radius. An agent sitting just outside the
// obstacle's own boundary, but still within one radius of its surface and
// within one radius of its centre on each axis, must register as collided.
func TestCheckCollisionSurfaceDistanceWithinOneRadiusCounts(t *testing.T) {
	obstacles := []entities.Obstacle{{Pos: entities.Vec{X: 0, Y: 0}, Radius: 10}}
	// Surface distance = hypot(8,8) - 10 ~= 1.31, within the obstacle's radius
	// (10), and both axis separations (8) are within the radius too.
	if !CheckCollision(entities.Vec{X: 8, Y: 8}, false, obstacles) {
		t.Fatal("expected collision when surface distance is within one radius")
	}
	// Surface distance = hypot(25,0) - 10 = 15, beyond the obstacle's radius.
	if CheckCollision(entities.Vec{X: 25, Y: 0}, false, obstacles) {
		t.Fatal("expected no collision when surface distance exceeds one radius")
	}
}

func TestStatsRatiosTrackPopulationSize(t *testing.T) {
	s := NewStats(4)
	s.RecordCollision()
	s.RecordCollision()
	snap := s.Snapshot()
	if snap.CollisionRatio != 0.5 {
		t.Errorf("expected collision_ratio 0.5, got %v", snap.CollisionRatio)
	}

	s.SetReached(3)
	snap = s.Snapshot()
	if snap.ReachRatio != 0.75 {
		t.Errorf("expected reach_ratio 0.75, got %v", snap.ReachRatio)
	}
}
