package engine

import (
	"github.com/pthm-cable/swarmsim/entities"
	"github.com/pthm-cable/swarmsim/integrator"
)

// AgentSnapshot is a read-only copy of one agent's observable state
// (position, velocity and flags) for the rendering/CLI layer. It carries no
// colour; a viewer derives one from the flags.
type AgentSnapshot struct {
	ID          int
	Pos         entities.Vec
	Vel         entities.Vec
	Collided    bool
	GoalReached bool
}

// Snapshot returns a point-in-time copy of every agent's observable state.
// It is safe to call concurrently with a running simulation (it only reads
// committed current-state, never staged next-state), though the result may
// interleave with an in-flight step since it does not itself synchronize
// with the barriers.
func (s *Simulator) Snapshot() []AgentSnapshot {
	w := s.World
	out := make([]AgentSnapshot, 0, w.N())
	maps := w.Maps()
	w.ForEachAgent(func(id int, pos entities.Vec, flags *entities.Flags) {
		e := w.Entity(id)
		vel := maps.Vel.Get(e)
		out = append(out, AgentSnapshot{
			ID:          id,
			Pos:         pos,
			Vel:         vel.V,
			Collided:    flags.Collided,
			GoalReached: flags.GoalReached,
		})
	})
	return out
}

// StatsSnapshot returns a copy of the current run statistics.
func (s *Simulator) StatsSnapshot() integrator.Stats {
	return s.Stats.Snapshot()
}
