// Package integrator implements the per-agent semi-implicit time
// integration step: friction, pairwise force accumulation, velocity cap,
// staged position update, and the collision scan. It is called by exactly
// one worker per agent per step, reading shared committed state and writing
// only that agent's own staged next-state.
package integrator

import (
	"math"
	"sync"

	"github.com/pthm-cable/swarmsim/entities"
	"github.com/pthm-cable/swarmsim/force"
)

// Stats is the shared, mutex-protected statistics record the integrator
// updates on collision.
type Stats struct {
	mu sync.Mutex

	TimeStep     int
	ReachedGoal  int
	Collisions   int
	ReachRatio   float64
	CollisionRatio float64

	n int // population size, needed to keep ratios current
}

// NewStats returns a Stats record sized for n agents.
func NewStats(n int) *Stats {
	return &Stats{n: n}
}

// Reset zeroes all counters, as required at run start and on restart.
func (s *Stats) Reset(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TimeStep = 0
	s.ReachedGoal = 0
	s.Collisions = 0
	s.ReachRatio = 0
	s.CollisionRatio = 0
	s.n = n
}

// RecordCollision atomically increments the collision counter and updates
// collision_ratio. Called at most once per agent per run, since the
// collided flag is monotonic and the caller only invokes this on the
// false->true transition.
func (s *Stats) RecordCollision() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Collisions++
	if s.n > 0 {
		s.CollisionRatio = float64(s.Collisions) / float64(s.n)
	}
}

// AdvanceStep increments time_step. Called by the epoch closer only.
func (s *Stats) AdvanceStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TimeStep++
}

// SetReached publishes the reach count/ratio computed by the propagator at
// termination.
func (s *Stats) SetReached(reached int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ReachedGoal = reached
	if s.n > 0 {
		s.ReachRatio = float64(reached) / float64(s.n)
	}
}

// Snapshot returns a copy of the current counters, safe to read
// concurrently with ongoing updates.
func (s *Stats) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		TimeStep:       s.TimeStep,
		ReachedGoal:    s.ReachedGoal,
		Collisions:     s.Collisions,
		ReachRatio:     s.ReachRatio,
		CollisionRatio: s.CollisionRatio,
		n:              s.n,
	}
}

// AgentState is the read/write view the integrator operates on for one
// agent. The engine is responsible for sourcing Current from the committed
// ark components and writing Next back into the staged components; this
// package has no ECS dependency of its own so it stays independently
// testable.
type AgentState struct {
	Pos      entities.Vec
	Vel      entities.Vec
	Mass     float64
	Radius   float64
	Collided bool
}

// NextState is the staged output of one integration step.
type NextState struct {
	Pos entities.Vec
	Vel entities.Vec
}

// OtherAgent is a read-only view of another agent for the force
// accumulation loop.
type OtherAgent struct {
	ID     int
	Pos    entities.Vec
	Mass   float64
}

// Inputs bundles everything Step needs beyond the acting agent itself.
type Inputs struct {
	Obstacles []entities.Obstacle
	Goal      entities.Goal
	Others    []OtherAgent // every agent except the acting one
	Profile   entities.ForceProfile
	Friction  float64
	MaxSpeed  float64

	EnableAgentAgent    bool
	EnableAgentObstacle bool
	EnableAgentGoal     bool
}

// Step runs the friction, force-accumulation, velocity-cap, and position
// update stages for one agent and returns its staged next-state. It does
// not mutate anything shared; the caller writes the result into the agent's
// staged components and commits those to current state after the first
// barrier.
func Step(self AgentState, in Inputs) NextState {
	v := entities.Vec{X: self.Vel.X * in.Friction, Y: self.Vel.Y * in.Friction} // step 1: friction

	var fx, fy float64

	// step 2: obstacles first, then the other agents, then goal.
	if in.EnableAgentObstacle {
		for _, o := range in.Obstacles {
			t := force.Target{Kind: entities.KindObstacle, Pos: o.Pos, Mass: o.Mass, Radius: o.Radius}
			accumulate(self, t, in.Profile, in.Obstacles, &fx, &fy)
		}
	}
	if in.EnableAgentAgent {
		for _, other := range in.Others {
			t := force.Target{Kind: entities.KindAgent, Pos: other.Pos, Mass: other.Mass}
			accumulateAgentAgent(self, t, in.Profile, in.Obstacles, &fx, &fy)
		}
	}
	if in.EnableAgentGoal {
		t := force.Target{Kind: entities.KindGoal, Pos: in.Goal.Pos, Mass: in.Goal.Mass}
		accumulate(self, t, in.Profile, in.Obstacles, &fx, &fy)
	}

	// step 3: stage next velocity.
	nvx := v.X + fx/self.Mass
	nvy := v.Y + fy/self.Mass

	// step 4: velocity cap.
	speed := math.Hypot(nvx, nvy)
	if speed > in.MaxSpeed && speed > 0 {
		scale := in.MaxSpeed / speed
		nvx *= scale
		nvy *= scale
	}

	// step 5: stage next position.
	npx := self.Pos.X + nvx
	npy := self.Pos.Y + nvy

	return NextState{
		Pos: entities.Vec{X: npx, Y: npy},
		Vel: entities.Vec{X: nvx, Y: nvy},
	}
}

func accumulate(self AgentState, t force.Target, profile entities.ForceProfile, obstacles []entities.Obstacle, fx, fy *float64) {
	a := force.AgentView{Pos: self.Pos, Mass: self.Mass, Radius: self.Radius}
	f, ok := force.Magnitude(a, t, profile)
	if !ok {
		return
	}
	theta := math.Atan2(t.Pos.Y-self.Pos.Y, t.Pos.X-self.Pos.X)
	*fx += f * math.Cos(theta)
	*fy += f * math.Sin(theta)
}

// accumulateAgentAgent additionally gates Lennard-Jones agent-agent
// interactions on line-of-sight.
func accumulateAgentAgent(self AgentState, t force.Target, profile entities.ForceProfile, obstacles []entities.Obstacle, fx, fy *float64) {
	if profile.Law == entities.LennardJones {
		sense := profile.SenseRadius()
		if force.LineOfSight(self.Pos, t.Pos, obstacles, sense) {
			return
		}
	}
	accumulate(self, t, profile, obstacles, fx, fy)
}

// CheckCollision reports whether an agent that is not yet collided, and
// whose surface distance to an obstacle is within radius on both axes and
// overall, transitions to collided. Returns true exactly on the
// false->true transition, at most once per agent per run since the flag is
// monotonic.
func CheckCollision(pos entities.Vec, alreadyCollided bool, obstacles []entities.Obstacle) bool {
	if alreadyCollided {
		return false
	}
	for _, o := range obstacles {
		dx := math.Abs(pos.X - o.Pos.X)
		dy := math.Abs(pos.Y - o.Pos.Y)
		dist := math.Hypot(pos.X-o.Pos.X, pos.Y-o.Pos.Y) - o.Radius
		if dist <= o.Radius && dx <= o.Radius && dy <= o.Radius {
			return true
		}
	}
	return false
}
