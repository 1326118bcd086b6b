package engine

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/swarmsim/entities"
	"github.com/pthm-cable/swarmsim/integrator"
	"github.com/pthm-cable/swarmsim/scenario"
	"github.com/pthm-cable/swarmsim/world"
)

// ChangeAgentNumber resizes the population to n, redeploying agents
// uniformly at random with the given radius/mass via rng. The simulator
// must be stopped; this is a mutating control alongside start/stop/restart.
func (s *Simulator) ChangeAgentNumber(n int, mass, radius float64, rng *rand.Rand) error {
	if s.isRunning() {
		return fmt.Errorf("engine: cannot change agent number while running")
	}
	w := s.World
	g := world.GenerationParams{
		WidthPx: w.Params.WidthPx, HeightPx: w.Params.HeightPx,
		AgentCount: n, AgentMass: mass, AgentRadius: radius,
	}
	fresh := world.New(w.Params, w.Obstacles, w.Goal)
	world.DeployAgents(rng, fresh, g)
	s.World = fresh
	s.Stats = integrator.NewStats(fresh.N())
	s.taskPool.Clear()
	s.log.Info("change_agent_number", "n", n)
	return nil
}

// ChangeObstacleNumber regenerates the obstacle field with m obstacles,
// respecting clearance from the existing goal, and keeps the current
// agents in place.
func (s *Simulator) ChangeObstacleNumber(m int, radius, mass, clearance float64, rng *rand.Rand) error {
	if s.isRunning() {
		return fmt.Errorf("engine: cannot change obstacle number while running")
	}
	w := s.World
	g := world.GenerationParams{
		WidthPx: w.Params.WidthPx, HeightPx: w.Params.HeightPx,
		ObstacleCount: m, ObstacleRadius: radius, ObstacleMass: mass, Clearance: clearance,
	}
	obstacles, err := world.PlaceObstacles(rng, g, w.Goal)
	if err != nil {
		return err
	}
	w.Obstacles = obstacles
	s.log.Info("change_obstacle_number", "m", m)
	return nil
}

// LoadScenario replaces the current world's agents/obstacles/goal/stats
// with those decoded from a scenario file.
func (s *Simulator) LoadScenario(sc scenario.Scenario) error {
	if s.isRunning() {
		return fmt.Errorf("engine: cannot load scenario while running")
	}
	w := world.New(s.World.Params, sc.Obstacles, sc.Goal)
	for _, a := range sc.Agents {
		w.SpawnAgent(a.ID, entities.Vec{X: a.X, Y: a.Y}, a.Mass, a.Radius)
		e := w.Entity(a.ID)
		maps := w.Maps()
		maps.Vel.Get(e).V = entities.Vec{X: a.VX, Y: a.VY}
		maps.Flags.Get(e).Collided = false
		maps.Flags.Get(e).GoalReached = a.Reached
	}
	s.World = w
	s.Stats = integrator.NewStats(w.N())
	s.Stats.TimeStep = sc.Stats.TimeStep
	s.Stats.ReachedGoal = sc.Stats.ReachedGoal
	s.Stats.Collisions = sc.Stats.Collisions
	s.taskPool.Clear()
	s.log.Info("load_scenario", "agents", len(sc.Agents), "obstacles", len(sc.Obstacles))
	return nil
}

// SaveScenario produces a Scenario snapshot of the current world/stats
// suitable for scenario.Save.
func (s *Simulator) SaveScenario() scenario.Scenario {
	w := s.World
	snap := s.Stats.Snapshot()

	sc := scenario.Scenario{
		Stats: scenario.StatsRecord{
			TimeStep:    snap.TimeStep,
			ReachedGoal: snap.ReachedGoal,
			Collisions:  snap.Collisions,
		},
		Goal:      w.Goal,
		Obstacles: w.Obstacles,
	}
	maps := w.Maps()
	w.ForEachAgent(func(id int, pos entities.Vec, flags *entities.Flags) {
		e := w.Entity(id)
		vel := maps.Vel.Get(e)
		phys := maps.Phys.Get(e)
		init := w.InitialPosition(id)
		sc.Agents = append(sc.Agents, scenario.AgentRecord{
			ID: id, Mass: phys.Mass, Radius: phys.Radius, Reached: flags.GoalReached,
			IX: init.X, IY: init.Y,
			X: pos.X, Y: pos.Y, VX: vel.V.X, VY: vel.V.Y,
		})
	})
	return sc
}
