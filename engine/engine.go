// Package engine implements the fixed worker pool, the two-phase lock-step
// barrier, and the simulation driver: a long-lived struct owning
// concurrency primitives and the World. It keeps T goroutines alive for
// the run's duration and rendezvous-synchronizes them at two barriers per
// step, rather than spawning a fresh goroutine per tick.
package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/pthm-cable/swarmsim/barrier"
	"github.com/pthm-cable/swarmsim/entities"
	"github.com/pthm-cable/swarmsim/integrator"
	"github.com/pthm-cable/swarmsim/pool"
	"github.com/pthm-cable/swarmsim/reach"
	"github.com/pthm-cable/swarmsim/world"
)

// Simulator drives a World through its lock-step physics loop using a fixed
// pool of T worker goroutines.
type Simulator struct {
	World *world.World
	Stats *integrator.Stats

	taskPool *pool.Pool
	barrier1 *barrier.Barrier
	barrier2 *barrier.Barrier

	workers int

	mu       sync.Mutex
	cond     *sync.Cond // cond_start
	finished *sync.Cond // cond_finished
	running  bool
	started  bool // worker goroutines have been launched at least once

	timeLimit int

	// OnCollision is an external observation hook invoked right after a
	// collision is recorded, once the stats mutex has been released. It runs
	// synchronously on the worker goroutine, so it must be cheap. Nil by
	// default.
	OnCollision func(agentID int)

	log *slog.Logger
}

// Options configures a new Simulator.
type Options struct {
	Workers   int
	TimeLimit int
	Log       *slog.Logger
}

// New builds a Simulator for w with the given options. It does not launch
// worker goroutines yet; call Start for that.
func New(w *world.World, opts Options) *Simulator {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	s := &Simulator{
		World:     w,
		Stats:     integrator.NewStats(w.N()),
		taskPool:  pool.New(),
		barrier1:  barrier.New(workers),
		barrier2:  barrier.New(workers),
		workers:   workers,
		timeLimit: opts.TimeLimit,
		log:       log,
	}
	s.cond = sync.NewCond(&s.mu)
	s.finished = sync.NewCond(&s.mu)
	return s
}

// Start begins (or resumes) the simulation. On the very first call it
// launches the T worker goroutines; on subsequent calls (after Stop) it
// simply wakes the parked workers. Statistics are only cleared at the
// beginning of a run — Start does not reset them, that is Restart's job.
func (s *Simulator) Start() {
	s.mu.Lock()
	if !s.started {
		s.started = true
		for i := 0; i < s.workers; i++ {
			go s.workerLoop(i)
		}
	}
	s.running = true
	s.taskPool.Fill(s.World.N())
	s.mu.Unlock()

	s.log.Info("simulator_start", "workers", s.workers, "agents", s.World.N())
	s.mu.Lock()
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Stop requests termination at the next step boundary. Workers finish the
// step in flight and then park; Stop does not block for that to happen.
func (s *Simulator) Stop() {
	s.mu.Lock()
	s.running = false
	s.finished.Broadcast()
	s.mu.Unlock()
	s.log.Info("simulator_stop")
}

// Wait blocks until the simulator is no longer running: either the epoch
// closer has reached the time limit and run the reach propagator, or Stop
// has been called. It does not wait for the workers to park; after Stop the
// step in flight may still be completing when Wait returns.
func (s *Simulator) Wait() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.running {
		s.finished.Wait()
	}
}

func (s *Simulator) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// workerLoop implements the per-worker state machine:
// Idle -> Draining -> Barrier-1 -> Committing -> Barrier-2-prep -> Barrier-2
// -> (Idle or next step's Draining).
func (s *Simulator) workerLoop(id int) {
	var owned []int

	for {
		s.mu.Lock()
		for !s.running {
			s.cond.Wait()
		}
		s.mu.Unlock()

		owned = owned[:0]

		// Draining: pop and process until the pool is empty.
		for {
			task, ok := s.taskPool.Pop()
			if !ok {
				break
			}
			s.processAgent(task.AgentID)
			owned = append(owned, task.AgentID)
		}

		// Barrier-1: every agent's next-state is computed before any commit.
		s.barrier1.Wait()

		// Committing: publish this worker's owned agents' staged next-state.
		maps := s.World.Maps()
		for _, id := range owned {
			e := s.World.Entity(id)
			next := maps.NextPos.Get(e)
			nextV := maps.NextVel.Get(e)
			maps.Pos.Get(e).V = next.V
			maps.Vel.Get(e).V = nextV.V
		}

		// Barrier-2-prep / Barrier-2: the last arriver is the epoch closer.
		s.barrier2.WaitFunc(func() {
			s.closeEpoch()
		})

		if !s.isRunning() {
			// park until the next Start()
			continue
		}
	}
}

// processAgent runs the integrator for one agent and stages its next-state,
// then performs the collision scan, which is the one piece of per-agent
// work that touches shared mutable state (Stats) and is therefore
// serialized through Stats' own mutex.
func (s *Simulator) processAgent(id int) {
	w := s.World
	maps := w.Maps()
	e := w.Entity(id)

	pos := maps.Pos.Get(e)
	vel := maps.Vel.Get(e)
	phys := maps.Phys.Get(e)
	flags := maps.Flags.Get(e)

	self := integrator.AgentState{
		Pos:      pos.V,
		Vel:      vel.V,
		Mass:     phys.Mass,
		Radius:   phys.Radius,
		Collided: flags.Collided,
	}

	// The acting agent is left out of its own agent-agent loop: after the
	// 0.1 distance clamp a self-pair yields a large force along +/-x.
	others := make([]integrator.OtherAgent, 0, w.N())
	w.ForEachAgent(func(otherID int, otherPos entities.Vec, _ *entities.Flags) {
		if otherID == id {
			return
		}
		otherE := w.Entity(otherID)
		others = append(others, integrator.OtherAgent{
			ID:   otherID,
			Pos:  otherPos,
			Mass: maps.Phys.Get(otherE).Mass,
		})
	})

	params := w.Params
	in := integrator.Inputs{
		Obstacles:           w.Obstacles,
		Goal:                w.Goal,
		Others:              others,
		Profile:             w.ForceProfile(),
		Friction:            params.Friction,
		MaxSpeed:            params.MaxSpeed,
		EnableAgentAgent:    params.EnableAgentAgent,
		EnableAgentObstacle: params.EnableAgentObstacle,
		EnableAgentGoal:     params.EnableAgentGoal,
	}

	next := integrator.Step(self, in)

	maps.NextPos.Get(e).V = next.Pos
	maps.NextVel.Get(e).V = next.Vel

	if integrator.CheckCollision(self.Pos, flags.Collided, w.Obstacles) {
		flags.Collided = true
		s.Stats.RecordCollision()
		if s.OnCollision != nil {
			s.OnCollision(id)
		}
	}
}

// closeEpoch runs exactly once per step, on whichever worker happens to be
// the last into barrier-2. It advances time_step and either refills the
// task pool for the next step or runs the reach propagator and signals
// termination.
func (s *Simulator) closeEpoch() {
	s.Stats.AdvanceStep()
	snap := s.Stats.Snapshot()

	if snap.TimeStep >= s.timeLimit {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()

		reached := s.runReachPropagator()
		s.Stats.SetReached(reached)

		s.log.Info("simulator_finished",
			"time_step", snap.TimeStep,
			"reached_goal", reached,
			"collisions", snap.Collisions,
		)

		s.mu.Lock()
		s.finished.Broadcast()
		s.mu.Unlock()
		return
	}

	s.taskPool.Fill(s.World.N())
}

// runReachPropagator runs once at termination over a snapshot of agent
// positions/flags, then writes the resulting GoalReached flags back.
func (s *Simulator) runReachPropagator() int {
	w := s.World
	n := w.N()
	views := make([]reach.AgentView, n)
	w.ForEachAgent(func(id int, pos entities.Vec, flags *entities.Flags) {
		views[id] = reach.AgentView{Pos: pos, GoalReached: flags.GoalReached}
	})

	sense := w.ForceProfile().SenseRadius()
	reached := reach.Propagate(views, w.Goal, w.Params.ReachPredicate, sense)

	maps := w.Maps()
	for id := 0; id < n; id++ {
		e := w.Entity(id)
		maps.Flags.Get(e).GoalReached = views[id].GoalReached
	}
	return reached
}

// Restart resets all agents to initial positions, zero velocities, clears
// collided/reached flags, clears and refills the task pool, and clears
// statistics. The simulator must be stopped first.
func (s *Simulator) Restart() error {
	if s.isRunning() {
		return fmt.Errorf("engine: cannot restart while running")
	}
	w := s.World
	maps := w.Maps()
	for id := 0; id < w.N(); id++ {
		e := w.Entity(id)
		pos := maps.Pos.Get(e)
		vel := maps.Vel.Get(e)
		flags := maps.Flags.Get(e)

		pos.V = w.InitialPosition(id)
		vel.V = entities.Vec{}
		flags.Collided = false
		flags.GoalReached = false
	}
	s.taskPool.Clear()
	s.taskPool.Fill(w.N())
	s.Stats.Reset(w.N())
	s.log.Info("simulator_restart", "agents", w.N())
	return nil
}
