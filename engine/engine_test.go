package engine

import (
	"testing"

	"github.com/pthm-cable/swarmsim/entities"
	"github.com/pthm-cable/swarmsim/world"
)

func newTestWorld(t *testing.T, workers int) *world.World {
	t.Helper()
	params := world.Parameters{
		WidthPx: 800, HeightPx: 800,
		Law:             entities.Newtonian,
		AgentGoal:       entities.InteractionParams{G: 1000, Exp: 2, Cap: 50},
		DesiredDistance: 40, RangeCoefficient: 2.5,
		Friction: 0.1, MaxSpeed: 2,
		EnableAgentGoal: true,
		TimeLimit:       400,
		ReachPredicate:  entities.PredicateRadius,
		Workers:         workers,
	}
	goal := entities.Goal{Pos: entities.Vec{X: 500, Y: 500}, Width: 40, Mass: 50}
	w := world.New(params, nil, goal)
	w.SpawnAgent(0, entities.Vec{X: 350, Y: 500}, 1, 5)
	return w
}

func TestSimulatorRunsToTimeLimitAndReachesGoal(t *testing.T) {
	w := newTestWorld(t, 2)
	sim := New(w, Options{Workers: 2, TimeLimit: 400})

	sim.Start()
	sim.Wait()

	snap := sim.StatsSnapshot()
	if snap.TimeStep != 400 {
		t.Fatalf("expected time_step=400, got %d", snap.TimeStep)
	}
	agents := sim.Snapshot()
	if len(agents) != 1 || !agents[0].GoalReached {
		t.Fatalf("expected the single agent to reach the goal, got %+v", agents)
	}
}

func TestDeterminismAcrossWorkerCounts(t *testing.T) {
	var finals []entities.Vec
	for _, workers := range []int{1, 4, 8} {
		w := newTestWorld(t, workers)
		sim := New(w, Options{Workers: workers, TimeLimit: 400})
		sim.Start()
		sim.Wait()
		snap := sim.Snapshot()
		finals = append(finals, snap[0].Pos)
	}

	for i := 1; i < len(finals); i++ {
		if finals[i] != finals[0] {
			t.Fatalf("positions diverged across worker counts: %+v vs %+v", finals[0], finals[i])
		}
	}
}

func TestRestartReturnsAgentsToInitialState(t *testing.T) {
	w := newTestWorld(t, 1)
	sim := New(w, Options{Workers: 1, TimeLimit: 50})

	sim.Start()
	sim.Wait()

	if err := sim.Restart(); err != nil {
		t.Fatalf("unexpected Restart error: %v", err)
	}

	agents := sim.Snapshot()
	if agents[0].Pos != (entities.Vec{X: 350, Y: 500}) {
		t.Errorf("expected agent repositioned to (350,500), got %+v", agents[0].Pos)
	}
	if agents[0].Vel != (entities.Vec{}) {
		t.Errorf("expected zero velocity after restart, got %+v", agents[0].Vel)
	}
	if agents[0].Collided || agents[0].GoalReached {
		t.Errorf("expected flags cleared after restart, got %+v", agents[0])
	}

	snap := sim.StatsSnapshot()
	if snap.TimeStep != 0 {
		t.Errorf("expected time_step reset to 0, got %d", snap.TimeStep)
	}
}

func TestCollisionIsMonotonicAcrossSteps(t *testing.T) {
	params := world.Parameters{
		WidthPx: 400, HeightPx: 400,
		Law:                 entities.Newtonian,
		AgentObstacle:       entities.InteractionParams{G: 1, Exp: 2, Cap: 10},
		DesiredDistance:     40,
		RangeCoefficient:    2.5,
		Friction:            0.1,
		MaxSpeed:            5,
		EnableAgentObstacle: true,
		TimeLimit:           20,
		ReachPredicate:      entities.PredicateRadius,
		Workers:             2,
	}
	w := world.New(params, []entities.Obstacle{{Pos: entities.Vec{X: 150, Y: 150}, Radius: 20, Mass: 20}}, entities.Goal{})
	w.SpawnAgent(0, entities.Vec{X: 150, Y: 150}, 1, 5)

	sim := New(w, Options{Workers: 2, TimeLimit: 20})
	sim.Start()
	sim.Wait()

	snap := sim.StatsSnapshot()
	if snap.Collisions < 1 {
		t.Fatalf("expected at least one recorded collision, got %d", snap.Collisions)
	}
	agents := sim.Snapshot()
	if !agents[0].Collided {
		t.Fatalf("expected agent to be flagged collided")
	}
}
