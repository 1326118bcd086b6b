// Package world owns the immutable-after-setup entities (agents, obstacles,
// goal) and the global physics parameters for one scenario run: a single
// struct wiring an ark ECS world plus typed component maps, scoped to
// exactly the three entity kinds the simulation needs.
package world

import (
	"fmt"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/swarmsim/entities"
)

// Parameters holds the global, scenario-wide physics configuration. It is
// immutable once a World is constructed.
type Parameters struct {
	WidthPx, HeightPx float64

	Law entities.ForceLaw

	AgentAgent    entities.InteractionParams
	AgentObstacle entities.InteractionParams
	AgentGoal     entities.InteractionParams

	DesiredDistance  float64 // R
	RangeCoefficient float64 // rho
	ObstacleGateDist float64 // LJ agent-obstacle proximity gate, default 10

	Friction float64 // mu in [0,1]
	MaxSpeed float64 // max_V

	EnableAgentAgent    bool
	EnableAgentObstacle bool
	EnableAgentGoal     bool

	TimeLimit int
	RunLimit  int // forward-compat field; unused by single-run execution

	ReachPredicate entities.ReachPredicate

	Workers int // T

	Seeds Seeds
}

// Seeds holds the four process-scoped RNG seeds, one per object category
// (goal, agents, obstacles, general). A seed of 0 means deterministic
// default; -1 means seed from wall time (resolved by the caller before
// constructing Seeds, since this package must stay reproducible and cannot
// call time.Now()).
type Seeds struct {
	Goal      int64
	Agents    int64
	Obstacles int64
	General   int64
}

// ForceProfile builds the force profile implied by these global parameters.
// A World keeps one such profile and every agent uses it; agents do not
// carry a profile of their own, so the population is always homogeneous.
func (p Parameters) ForceProfile() entities.ForceProfile {
	return entities.ForceProfile{
		Law:              p.Law,
		AgentAgent:       p.AgentAgent,
		AgentObstacle:    p.AgentObstacle,
		AgentGoal:        p.AgentGoal,
		DesiredDistance:  p.DesiredDistance,
		RangeCoefficient: p.RangeCoefficient,
		ObstacleGateDist: p.ObstacleGateDist,
	}
}

// World owns agents (as ark entities), obstacles, and the goal for the
// lifetime of a scenario.
type World struct {
	Params    Parameters
	Obstacles []entities.Obstacle
	Goal      entities.Goal

	ecsWorld *ecs.World

	mapper *ecs.Map8[
		entities.Position,
		entities.Velocity,
		entities.NextPosition,
		entities.NextVelocity,
		entities.InitialPosition,
		entities.Physical,
		entities.Flags,
		entities.AgentID,
	]
	filter *ecs.Filter8[
		entities.Position,
		entities.Velocity,
		entities.NextPosition,
		entities.NextVelocity,
		entities.InitialPosition,
		entities.Physical,
		entities.Flags,
		entities.AgentID,
	]

	posMap     *ecs.Map1[entities.Position]
	velMap     *ecs.Map1[entities.Velocity]
	nextPosMap *ecs.Map1[entities.NextPosition]
	nextVelMap *ecs.Map1[entities.NextVelocity]
	initPosMap *ecs.Map1[entities.InitialPosition]
	physMap    *ecs.Map1[entities.Physical]
	flagsMap   *ecs.Map1[entities.Flags]
	idMap      *ecs.Map1[entities.AgentID]

	// byID maps a stable AgentID.ID to its current ark entity handle. It is
	// rebuilt whenever the population changes and read-only during a step.
	byID []ecs.Entity

	forceProfile entities.ForceProfile
}

// ResourceError is returned when the world cannot allocate its entity
// storage.
type ResourceError struct {
	Op  string
	Err error
}

func (e *ResourceError) Error() string { return fmt.Sprintf("resource error during %s: %v", e.Op, e.Err) }
func (e *ResourceError) Unwrap() error { return e.Err }

// New constructs an empty World (no agents yet) for the given parameters,
// obstacles and goal.
func New(params Parameters, obstacles []entities.Obstacle, goal entities.Goal) *World {
	ecsWorld := ecs.NewWorld()

	w := &World{
		Params:    params,
		Obstacles: obstacles,
		Goal:      goal,
		ecsWorld:  &ecsWorld,

		mapper: ecs.NewMap8[
			entities.Position,
			entities.Velocity,
			entities.NextPosition,
			entities.NextVelocity,
			entities.InitialPosition,
			entities.Physical,
			entities.Flags,
			entities.AgentID,
		](&ecsWorld),
		filter: ecs.NewFilter8[
			entities.Position,
			entities.Velocity,
			entities.NextPosition,
			entities.NextVelocity,
			entities.InitialPosition,
			entities.Physical,
			entities.Flags,
			entities.AgentID,
		](&ecsWorld),

		posMap:     ecs.NewMap1[entities.Position](&ecsWorld),
		velMap:     ecs.NewMap1[entities.Velocity](&ecsWorld),
		nextPosMap: ecs.NewMap1[entities.NextPosition](&ecsWorld),
		nextVelMap: ecs.NewMap1[entities.NextVelocity](&ecsWorld),
		initPosMap: ecs.NewMap1[entities.InitialPosition](&ecsWorld),
		physMap:    ecs.NewMap1[entities.Physical](&ecsWorld),
		flagsMap:   ecs.NewMap1[entities.Flags](&ecsWorld),
		idMap:      ecs.NewMap1[entities.AgentID](&ecsWorld),

		forceProfile: params.ForceProfile(),
	}
	return w
}

// SpawnAgent creates agent id at position p with mass/radius, zero velocity.
// id must be the next sequential index; SpawnAgent is not safe to call
// concurrently (it is only used during setup/restart, outside a step).
func (w *World) SpawnAgent(id int, p entities.Vec, mass, radius float64) {
	pos := entities.Position{V: p}
	vel := entities.Velocity{V: entities.Vec{}}
	nextPos := entities.NextPosition{V: p}
	nextVel := entities.NextVelocity{V: entities.Vec{}}
	initPos := entities.InitialPosition{V: p}
	phys := entities.Physical{Mass: mass, Radius: radius}
	flags := entities.Flags{}
	aid := entities.AgentID{ID: id}

	e := w.mapper.NewEntity(&pos, &vel, &nextPos, &nextVel, &initPos, &phys, &flags, &aid)
	if id >= len(w.byID) {
		grown := make([]ecs.Entity, id+1)
		copy(grown, w.byID)
		w.byID = grown
	}
	w.byID[id] = e
}

// N returns the current agent count.
func (w *World) N() int { return len(w.byID) }

// ForceProfile returns the (currently homogeneous) force profile shared by
// all agents spawned by this world.
func (w *World) ForceProfile() entities.ForceProfile { return w.forceProfile }

// Entity returns the ark entity handle for a stable agent id.
func (w *World) Entity(id int) ecs.Entity { return w.byID[id] }

// InitialPosition returns the p0 an agent was spawned at, used on restart.
func (w *World) InitialPosition(id int) entities.Vec {
	return w.initPosMap.Get(w.byID[id]).V
}

// Maps exposes the typed component accessors the integrator and engine need.
// Grouped into a struct rather than individual getters to keep call sites
// short when passing posMap/velMap/... around as a bundle.
type Maps struct {
	Pos     *ecs.Map1[entities.Position]
	Vel     *ecs.Map1[entities.Velocity]
	NextPos *ecs.Map1[entities.NextPosition]
	NextVel *ecs.Map1[entities.NextVelocity]
	Phys    *ecs.Map1[entities.Physical]
	Flags   *ecs.Map1[entities.Flags]
}

func (w *World) Maps() Maps {
	return Maps{
		Pos:     w.posMap,
		Vel:     w.velMap,
		NextPos: w.nextPosMap,
		NextVel: w.nextVelMap,
		Phys:    w.physMap,
		Flags:   w.flagsMap,
	}
}

// ForEachAgent iterates every agent's current-state snapshot in id order.
// It is used by the reach propagator, by read-only observability snapshots,
// and by workers mid-step to read every agent's committed position.
func (w *World) ForEachAgent(fn func(id int, pos entities.Vec, flags *entities.Flags)) {
	for id := 0; id < len(w.byID); id++ {
		e := w.byID[id]
		pos := w.posMap.Get(e)
		flags := w.flagsMap.Get(e)
		fn(id, pos.V, flags)
	}
}

// RNGSet bundles the four per-category RNGs.
type RNGSet struct {
	Goal      *rand.Rand
	Agents    *rand.Rand
	Obstacles *rand.Rand
	General   *rand.Rand
}

// NewRNGSet builds the four independent RNG streams from a Seeds value.
// A seed of 0 is passed through as a deterministic default; resolving -1
// to a wall-time seed is the caller's responsibility (config/world setup),
// not this package's, to keep World construction itself deterministic and
// testable.
func NewRNGSet(s Seeds) RNGSet {
	return RNGSet{
		Goal:      rand.New(rand.NewSource(s.Goal)),
		Agents:    rand.New(rand.NewSource(s.Agents)),
		Obstacles: rand.New(rand.NewSource(s.Obstacles)),
		General:   rand.New(rand.NewSource(s.General)),
	}
}
