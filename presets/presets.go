// Package presets embeds a handful of concrete end-to-end scenarios as
// named YAML documents, distinct from the runtime config format (config
// package): these are structured test fixtures, data rather than live
// config.
package presets

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/swarmsim/entities"
	"github.com/pthm-cable/swarmsim/world"
)

//go:embed data/*.yaml
var data embed.FS

// AgentSpec places one agent explicitly, for fixtures that need exact
// starting positions (the equilibrium-pair and chain-reach scenarios).
type AgentSpec struct {
	ID     int     `yaml:"id"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Mass   float64 `yaml:"mass"`
	Radius float64 `yaml:"radius"`
}

// ObstacleSpec places one obstacle explicitly.
type ObstacleSpec struct {
	ID     int     `yaml:"id"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Mass   float64 `yaml:"mass"`
	Radius float64 `yaml:"radius"`
}

// GoalSpec places the goal explicitly.
type GoalSpec struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Width float64 `yaml:"width"`
	Mass  float64 `yaml:"mass"`
}

// Preset is the raw YAML shape of a fixture, decoded directly — ForceLaw
// and ReachPredicate stay as their string spellings here and are resolved
// to the typed enums by Law() and Predicate().
type Preset struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	WidthPx  float64 `yaml:"width_px"`
	HeightPx float64 `yaml:"height_px"`

	ForceLaw string `yaml:"force_law"`

	AgentAgent    entities.InteractionParams `yaml:"agent_agent"`
	AgentObstacle entities.InteractionParams `yaml:"agent_obstacle"`
	AgentGoal     entities.InteractionParams `yaml:"agent_goal"`

	EnableAgentAgent    bool `yaml:"enable_agent_agent"`
	EnableAgentObstacle bool `yaml:"enable_agent_obstacle"`
	EnableAgentGoal     bool `yaml:"enable_agent_goal"`

	DesiredDistance  float64 `yaml:"desired_distance"`
	RangeCoefficient float64 `yaml:"range_coefficient"`
	Friction         float64 `yaml:"friction"`
	MaxSpeed         float64 `yaml:"max_speed"`
	ObstacleGateDist float64 `yaml:"obstacle_gate_dist"`

	TimeLimit int `yaml:"time_limit"`

	ReachPredicate string `yaml:"reach_predicate"`

	Goal      GoalSpec       `yaml:"goal"`
	Agents    []AgentSpec    `yaml:"agents"`
	Obstacles []ObstacleSpec `yaml:"obstacles"`
}

// Law returns the decoded force-law enum, defaulting to Newtonian.
func (p Preset) Law() entities.ForceLaw {
	switch p.ForceLaw {
	case "lj", "lennard-jones":
		return entities.LennardJones
	default:
		return entities.Newtonian
	}
}

// Predicate returns the decoded reach-predicate enum, defaulting to Chain.
func (p Preset) Predicate() entities.ReachPredicate {
	switch p.ReachPredicate {
	case "touch":
		return entities.PredicateTouch
	case "radius":
		return entities.PredicateRadius
	default:
		return entities.PredicateChain
	}
}

// Load decodes the named preset (without the .yaml extension) from the
// embedded data directory.
func Load(name string) (Preset, error) {
	raw, err := data.ReadFile("data/" + name + ".yaml")
	if err != nil {
		return Preset{}, fmt.Errorf("presets: %s: %w", name, err)
	}
	var p Preset
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Preset{}, fmt.Errorf("presets: %s: %w", name, err)
	}
	return p, nil
}

// Build constructs a ready-to-run world.World from the preset: obstacles,
// goal, and agents spawned at their declared positions with zero velocity.
func (p Preset) Build() *world.World {
	obstacles := make([]entities.Obstacle, len(p.Obstacles))
	for i, o := range p.Obstacles {
		obstacles[i] = entities.Obstacle{ID: o.ID, Pos: entities.Vec{X: o.X, Y: o.Y}, Radius: o.Radius, Mass: o.Mass}
	}
	goal := entities.Goal{Pos: entities.Vec{X: p.Goal.X, Y: p.Goal.Y}, Width: p.Goal.Width, Mass: p.Goal.Mass}

	params := world.Parameters{
		WidthPx: p.WidthPx, HeightPx: p.HeightPx,
		Law:                 p.Law(),
		AgentAgent:          p.AgentAgent,
		AgentObstacle:       p.AgentObstacle,
		AgentGoal:           p.AgentGoal,
		DesiredDistance:     p.DesiredDistance,
		RangeCoefficient:    p.RangeCoefficient,
		ObstacleGateDist:    p.ObstacleGateDist,
		Friction:            p.Friction,
		MaxSpeed:            p.MaxSpeed,
		EnableAgentAgent:    p.EnableAgentAgent,
		EnableAgentObstacle: p.EnableAgentObstacle,
		EnableAgentGoal:     p.EnableAgentGoal,
		TimeLimit:           p.TimeLimit,
		RunLimit:            1,
		ReachPredicate:      p.Predicate(),
		Workers:             1,
	}

	w := world.New(params, obstacles, goal)
	for _, a := range p.Agents {
		w.SpawnAgent(a.ID, entities.Vec{X: a.X, Y: a.Y}, a.Mass, a.Radius)
	}
	return w
}

// Names lists every embedded preset name.
func Names() []string {
	return []string{
		"single-agent-attraction",
		"equilibrium-pair",
		"collision-counting",
		"chain-reach",
		"lj-obstacle-avoidance",
		"determinism-under-t",
	}
}
