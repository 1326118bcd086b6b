// Package entities defines the ECS components and plain data types that
// make up the world model: agents (stored as ark entities so the engine can
// snapshot/compute/commit them in parallel), and obstacles/goal (stored as
// plain immutable-after-setup slices, since there are few of them and they
// never move).
package entities

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a 2D vector, an alias of gonum's r2.Vec. The force kernel,
// perception check and integrator read its X/Y fields directly and do their
// own arithmetic; they do not call r2's helpers.
type Vec = r2.Vec

// Kind discriminates interaction targets for the force kernel.
type Kind int

const (
	KindAgent Kind = iota
	KindObstacle
	KindGoal
)

func (k Kind) String() string {
	switch k {
	case KindAgent:
		return "agent"
	case KindObstacle:
		return "obstacle"
	case KindGoal:
		return "goal"
	default:
		return "unknown"
	}
}

// ForceLaw selects the pairwise force model.
type ForceLaw int

const (
	Newtonian ForceLaw = iota
	LennardJones
)

// InteractionParams holds one interaction kind's coefficients, shared by
// both force laws even though each law only reads the fields it needs.
type InteractionParams struct {
	// Newtonian
	G    float64 // gravitational-like constant
	Exp  float64 // distance exponent p
	Cap  float64 // force magnitude cap
	// Lennard-Jones
	Epsilon float64 // well depth
	C       float64 // attractive coefficient
	D       float64 // repulsive coefficient
	LJCap   float64 // force magnitude cap for the LJ variant
	Enabled bool
}

// ForceProfile is the force-law parameter block. A world holds a single
// profile shared by all of its agents; it is not stored per agent, so
// agents cannot have differing profiles.
type ForceProfile struct {
	Law              ForceLaw
	AgentAgent       InteractionParams
	AgentObstacle    InteractionParams
	AgentGoal        InteractionParams
	DesiredDistance  float64 // R
	RangeCoefficient float64 // rho
	ObstacleGateDist float64 // hard-coded-in-spec LJ agent-obstacle gate, default 10
}

// SenseRadius returns rho*R, the sensing radius used for cutoffs and reach.
func (p ForceProfile) SenseRadius() float64 {
	return p.RangeCoefficient * p.DesiredDistance
}

// Physical holds an agent's immutable-after-spawn mass/radius.
type Physical struct {
	Mass   float64
	Radius float64
}

// Position is the agent's current, committed position.
type Position struct{ V Vec }

// Velocity is the agent's current, committed velocity.
type Velocity struct{ V Vec }

// NextPosition is the staged position, written by exactly one worker
// before barrier-1 and committed to Position after it.
type NextPosition struct{ V Vec }

// NextVelocity is the staged velocity counterpart to NextPosition.
type NextVelocity struct{ V Vec }

// InitialPosition remembers p0 for restart.
type InitialPosition struct{ V Vec }

// Flags holds the two monotonic per-agent flags.
type Flags struct {
	Collided    bool
	GoalReached bool
}

// AgentID is a stable identity in [0, N), independent of the ark entity
// handle, used by the task pool and for scenario round-tripping.
type AgentID struct{ ID int }

// Obstacle is a static circular disc. Immutable after initialization.
type Obstacle struct {
	ID     int
	Pos    Vec
	Radius float64
	Mass   float64
}

// Goal is the single rectangular (square) goal region. Immutable after
// initialization.
type Goal struct {
	ID     int
	Pos    Vec // centre
	Width  float64
	Mass   float64
}

// Contains reports whether p lies inside the goal's axis-aligned square.
func (g Goal) Contains(p Vec) bool {
	half := g.Width / 2
	return p.X >= g.Pos.X-half && p.X <= g.Pos.X+half &&
		p.Y >= g.Pos.Y-half && p.Y <= g.Pos.Y+half
}

// ReachPredicate selects how goal-reach is determined by the propagator.
type ReachPredicate int

const (
	PredicateTouch ReachPredicate = iota
	PredicateRadius
	PredicateChain
)
