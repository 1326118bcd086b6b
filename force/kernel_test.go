package force

import (
	"math"
	"testing"

	"github.com/pthm-cable/swarmsim/entities"
)

func TestClampDistanceFloor(t *testing.T) {
	if got := clampDistance(0.001); got != minDistance {
		t.Errorf("clampDistance(0.001) = %v, want %v", got, minDistance)
	}
	if got := clampDistance(-0.001); got != minDistance {
		t.Errorf("clampDistance(-0.001) = %v, want %v (abs then clamp)", got, minDistance)
	}
	if got := clampDistance(5); got != 5 {
		t.Errorf("clampDistance(5) = %v, want 5", got)
	}
}

func TestSaturateClampsSymmetrically(t *testing.T) {
	if got := saturate(100, 10); got != 10 {
		t.Errorf("saturate(100, 10) = %v, want 10", got)
	}
	if got := saturate(-100, 10); got != -10 {
		t.Errorf("saturate(-100, 10) = %v, want -10", got)
	}
	if got := saturate(5, 10); got != 5 {
		t.Errorf("saturate(5, 10) = %v, want 5", got)
	}
}

func TestClampFiniteMapsInfAndNaN(t *testing.T) {
	if got := clampFinite(math.Inf(1)); got != math.MaxFloat64 {
		t.Errorf("clampFinite(+Inf) = %v, want MaxFloat64", got)
	}
	if got := clampFinite(math.Inf(-1)); got != -math.MaxFloat64 {
		t.Errorf("clampFinite(-Inf) = %v, want -MaxFloat64", got)
	}
	if got := clampFinite(math.NaN()); got != 0 {
		t.Errorf("clampFinite(NaN) = %v, want 0", got)
	}
}

func TestNewtonianAgentGoalIsAttractiveOnly(t *testing.T) {
	profile := entities.ForceProfile{
		Law:              entities.Newtonian,
		AgentGoal:        entities.InteractionParams{G: 1000, Exp: 2, Cap: 50},
		DesiredDistance:  40,
		RangeCoefficient: 2.5,
	}
	a := AgentView{Pos: entities.Vec{X: 0, Y: 0}, Mass: 1}
	target := Target{Kind: entities.KindGoal, Pos: entities.Vec{X: 100, Y: 0}, Mass: 50}

	f, ok := Magnitude(a, target, profile)
	if !ok {
		t.Fatal("expected agent-goal interaction to be enabled")
	}
	if f <= 0 {
		t.Errorf("expected positive (attractive) magnitude, got %v", f)
	}
	if f > profile.AgentGoal.Cap {
		t.Errorf("magnitude %v exceeds cap %v", f, profile.AgentGoal.Cap)
	}
}

func TestNewtonianAgentObstacleIsRepulsiveOnly(t *testing.T) {
	profile := entities.ForceProfile{
		Law:              entities.Newtonian,
		AgentObstacle:    entities.InteractionParams{G: 400, Exp: 2, Cap: 80},
		DesiredDistance:  40,
		RangeCoefficient: 2.5,
	}
	a := AgentView{Pos: entities.Vec{X: 0, Y: 0}, Mass: 1}
	target := Target{Kind: entities.KindObstacle, Pos: entities.Vec{X: 20, Y: 0}, Mass: 20, Radius: 10}

	f, ok := Magnitude(a, target, profile)
	if !ok {
		t.Fatal("expected agent-obstacle interaction within sense radius")
	}
	if f >= 0 {
		t.Errorf("expected negative (repulsive) magnitude, got %v", f)
	}
}

func TestNewtonianAgentAgentOutOfRangeIsDisabled(t *testing.T) {
	profile := entities.ForceProfile{
		Law:              entities.Newtonian,
		AgentAgent:       entities.InteractionParams{G: 100, Exp: 2, Cap: 50},
		DesiredDistance:  40,
		RangeCoefficient: 1, // sense radius = 40
	}
	a := AgentView{Pos: entities.Vec{X: 0, Y: 0}, Mass: 1}
	target := Target{Kind: entities.KindAgent, Pos: entities.Vec{X: 1000, Y: 0}, Mass: 1}

	if _, ok := Magnitude(a, target, profile); ok {
		t.Fatal("expected out-of-sense-radius agent-agent interaction to be disabled")
	}
}

func TestLennardJonesAgentObstacleRepelsWithinGate(t *testing.T) {
	profile := entities.ForceProfile{
		Law:              entities.LennardJones,
		AgentObstacle:    entities.InteractionParams{Epsilon: 50, D: 2, LJCap: 200},
		DesiredDistance:  40,
		RangeCoefficient: 2.5,
		ObstacleGateDist: 60,
	}
	a := AgentView{Pos: entities.Vec{X: 0, Y: 0}, Mass: 1}
	target := Target{Kind: entities.KindObstacle, Pos: entities.Vec{X: 20, Y: 0}, Radius: 10}

	f, ok := Magnitude(a, target, profile)
	if !ok {
		t.Fatal("expected agent-obstacle interaction within gate distance")
	}
	if f >= 0 {
		t.Errorf("expected negative (repulsive) LJ magnitude close to an obstacle, got %v", f)
	}
}
