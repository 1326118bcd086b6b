// Package config loads the simulation's text configuration file: flat,
// whitespace-separated `key value #comment` lines. It exposes a global
// singleton (Init/MustInit/Cfg) on top of the flat format.
package config

import (
	"bufio"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pthm-cable/swarmsim/entities"
	"github.com/pthm-cable/swarmsim/world"
)

//go:embed defaults.conf
var defaultsText []byte

// ConfigError is a fatal configuration failure: missing file, unparseable
// value, or an invalid array length declaration.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("config: %s: %v", e.Op, e.Err) }
func (e *ConfigError) Unwrap() error { return e.Err }

// Parameters holds every value the configuration file can set, plus the
// auxiliary batch arrays the format declares but which single-run execution
// does not consume at runtime.
type Parameters struct {
	WidthPx, HeightPx float64

	SeedGoal, SeedAgents, SeedObstacles, SeedGeneral int64

	GoalWidth, GoalMass float64

	AgentCount             int
	AgentMass, AgentRadius float64

	ObstacleCount                       int
	ObstacleRadius, ObstacleMass        float64
	ObstacleClearance                   float64

	EnableAgentAgent, EnableAgentObstacle, EnableAgentGoal bool

	DesiredDistance  float64
	Friction         float64
	RangeCoefficient float64
	MaxSpeed         float64
	ForceLaw         entities.ForceLaw

	NewtonAA, NewtonAO, NewtonAG entities.InteractionParams
	LJAA, LJAO, LJAG             entities.InteractionParams
	ObstacleGateDist             float64

	TimeLimit int
	RunLimit  int

	ReachPredicate entities.ReachPredicate

	Workers int

	NArray     []float64
	KArray     []float64
	AlphaArray []float64
	BetaArray  []float64
}

// ToWorldParameters projects the flat configuration into world.Parameters,
// the shape the physics core actually consumes. Which coefficient block
// (Newtonian or Lennard-Jones) lands in each slot depends on ForceLaw,
// since the config file carries both but the kernel only reads one per run.
// A seed of -1 is resolved here to a wall-time seed.
func (p *Parameters) ToWorldParameters() world.Parameters {
	aa, ao, ag := p.NewtonAA, p.NewtonAO, p.NewtonAG
	if p.ForceLaw == entities.LennardJones {
		aa, ao, ag = p.LJAA, p.LJAO, p.LJAG
	}
	seeds := world.Seeds{
		Goal: p.SeedGoal, Agents: p.SeedAgents, Obstacles: p.SeedObstacles, General: p.SeedGeneral,
	}
	for _, s := range []*int64{&seeds.Goal, &seeds.Agents, &seeds.Obstacles, &seeds.General} {
		if *s == -1 {
			*s = time.Now().UnixNano()
		}
	}
	return world.Parameters{
		WidthPx: p.WidthPx, HeightPx: p.HeightPx,
		Law:                 p.ForceLaw,
		AgentAgent:          aa,
		AgentObstacle:       ao,
		AgentGoal:           ag,
		DesiredDistance:     p.DesiredDistance,
		RangeCoefficient:    p.RangeCoefficient,
		ObstacleGateDist:    p.ObstacleGateDist,
		Friction:            p.Friction,
		MaxSpeed:            p.MaxSpeed,
		EnableAgentAgent:    p.EnableAgentAgent,
		EnableAgentObstacle: p.EnableAgentObstacle,
		EnableAgentGoal:     p.EnableAgentGoal,
		TimeLimit:           p.TimeLimit,
		RunLimit:            p.RunLimit,
		ReachPredicate:      p.ReachPredicate,
		Workers:             p.Workers,
		Seeds:               seeds,
	}
}

var global *Parameters

// Init loads configuration from path (overlaying embedded defaults) and
// installs it as the package-global singleton. Must be called before Cfg.
func Init(path string) error {
	p, err := Load(path)
	if err != nil {
		return err
	}
	global = p
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Parameters {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load parses the embedded defaults, then overlays path (if non-empty).
// Unknown keys produce a slog.Warn and are ignored.
func Load(path string) (*Parameters, error) {
	p := defaultParameters()

	if err := parseInto(p, string(defaultsText)); err != nil {
		return nil, &ConfigError{Op: "parsing embedded defaults", Err: err}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &ConfigError{Op: "reading config file", Err: err}
		}
		if err := parseInto(p, string(data)); err != nil {
			return nil, &ConfigError{Op: "parsing config file " + path, Err: err}
		}
	}

	return p, nil
}

func defaultParameters() *Parameters {
	return &Parameters{
		WidthPx: 800, HeightPx: 600,
		GoalWidth: 40, GoalMass: 50,
		AgentCount: 20, AgentMass: 1, AgentRadius: 5,
		ObstacleCount: 5, ObstacleRadius: 15, ObstacleMass: 20, ObstacleClearance: 10,
		EnableAgentAgent: true, EnableAgentObstacle: true, EnableAgentGoal: true,
		DesiredDistance: 40, Friction: 0.1, RangeCoefficient: 2.5, MaxSpeed: 5,
		ForceLaw:         entities.Newtonian,
		ObstacleGateDist: 10,
		TimeLimit:        1000, RunLimit: 1,
		ReachPredicate: entities.PredicateChain,
		Workers:        4,
	}
}

// parseInto mutates p in place, applying every recognised "key value
// #comment" line in text and warning on unknown keys.
func parseInto(p *Parameters, text string) error {
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := sc.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		key := fields[0]
		rest := fields[1:]
		if err := applyKey(p, key, rest); err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
	}
	return sc.Err()
}

func applyKey(p *Parameters, key string, rest []string) error {
	if len(rest) == 0 && !isArrayKey(key) {
		return fmt.Errorf("missing value")
	}

	switch key {
	case "width_px":
		return setFloat(&p.WidthPx, rest)
	case "height_px":
		return setFloat(&p.HeightPx, rest)
	case "seed_goal":
		return setInt64(&p.SeedGoal, rest)
	case "seed_agents":
		return setInt64(&p.SeedAgents, rest)
	case "seed_obstacles":
		return setInt64(&p.SeedObstacles, rest)
	case "seed_general":
		return setInt64(&p.SeedGeneral, rest)
	case "goal_width":
		return setFloat(&p.GoalWidth, rest)
	case "goal_mass":
		return setFloat(&p.GoalMass, rest)
	case "agent_count", "n_number":
		return setInt(&p.AgentCount, rest)
	case "agent_mass":
		return setFloat(&p.AgentMass, rest)
	case "agent_radius":
		return setFloat(&p.AgentRadius, rest)
	case "obstacle_count", "k_number":
		return setInt(&p.ObstacleCount, rest)
	case "obstacle_radius":
		return setFloat(&p.ObstacleRadius, rest)
	case "obstacle_mass":
		return setFloat(&p.ObstacleMass, rest)
	case "obstacle_clearance":
		return setFloat(&p.ObstacleClearance, rest)
	case "enable_agent_agent":
		return setBool(&p.EnableAgentAgent, rest)
	case "enable_agent_obstacle":
		return setBool(&p.EnableAgentObstacle, rest)
	case "enable_agent_goal":
		return setBool(&p.EnableAgentGoal, rest)
	case "desired_distance":
		return setFloat(&p.DesiredDistance, rest)
	case "friction":
		return setFloat(&p.Friction, rest)
	case "range_coefficient":
		return setFloat(&p.RangeCoefficient, rest)
	case "max_v":
		return setFloat(&p.MaxSpeed, rest)
	case "obstacle_gate_dist":
		return setFloat(&p.ObstacleGateDist, rest)
	case "force_law":
		return setForceLaw(&p.ForceLaw, rest)
	case "reach_predicate":
		return setReachPredicate(&p.ReachPredicate, rest)
	case "time_limit":
		return setInt(&p.TimeLimit, rest)
	case "run_limit":
		return setInt(&p.RunLimit, rest)
	case "workers":
		return setInt(&p.Workers, rest)

	case "newton_aa_g":
		return setFloat(&p.NewtonAA.G, rest)
	case "newton_aa_exp":
		return setFloat(&p.NewtonAA.Exp, rest)
	case "newton_aa_cap":
		return setFloat(&p.NewtonAA.Cap, rest)
	case "newton_ao_g":
		return setFloat(&p.NewtonAO.G, rest)
	case "newton_ao_exp":
		return setFloat(&p.NewtonAO.Exp, rest)
	case "newton_ao_cap":
		return setFloat(&p.NewtonAO.Cap, rest)
	case "newton_ag_g":
		return setFloat(&p.NewtonAG.G, rest)
	case "newton_ag_exp":
		return setFloat(&p.NewtonAG.Exp, rest)
	case "newton_ag_cap":
		return setFloat(&p.NewtonAG.Cap, rest)

	case "lj_aa_epsilon":
		return setFloat(&p.LJAA.Epsilon, rest)
	case "lj_aa_c":
		return setFloat(&p.LJAA.C, rest)
	case "lj_aa_d":
		return setFloat(&p.LJAA.D, rest)
	case "lj_aa_cap":
		return setFloat(&p.LJAA.LJCap, rest)
	case "lj_ao_epsilon":
		return setFloat(&p.LJAO.Epsilon, rest)
	case "lj_ao_c":
		return setFloat(&p.LJAO.C, rest)
	case "lj_ao_d":
		return setFloat(&p.LJAO.D, rest)
	case "lj_ao_cap":
		return setFloat(&p.LJAO.LJCap, rest)
	case "lj_ag_epsilon":
		return setFloat(&p.LJAG.Epsilon, rest)
	case "lj_ag_c":
		return setFloat(&p.LJAG.C, rest)
	case "lj_ag_d":
		return setFloat(&p.LJAG.D, rest)
	case "lj_ag_cap":
		return setFloat(&p.LJAG.LJCap, rest)

	case "n_array":
		return setFloatArray(&p.NArray, rest, p.AgentCount)
	case "k_array":
		return setFloatArray(&p.KArray, rest, p.ObstacleCount)
	case "alpha_array":
		return setFloatArray(&p.AlphaArray, rest, 0)
	case "beta_array":
		return setFloatArray(&p.BetaArray, rest, 0)
	case "a_b_number":
		var n int
		if err := setInt(&n, rest); err != nil {
			return err
		}
		return nil

	default:
		slog.Warn("config: unknown key ignored", "key", key)
		return nil
	}
}

func isArrayKey(key string) bool {
	switch key {
	case "n_array", "k_array", "alpha_array", "beta_array":
		return true
	}
	return false
}

func setFloat(dst *float64, rest []string) error {
	v, err := strconv.ParseFloat(rest[0], 64)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setInt(dst *int, rest []string) error {
	v, err := strconv.Atoi(rest[0])
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setInt64(dst *int64, rest []string) error {
	v, err := strconv.ParseInt(rest[0], 10, 64)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setBool(dst *bool, rest []string) error {
	v, err := strconv.ParseBool(rest[0])
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setForceLaw(dst *entities.ForceLaw, rest []string) error {
	switch strings.ToLower(rest[0]) {
	case "newtonian", "newton":
		*dst = entities.Newtonian
	case "lj", "lennard-jones", "lennardjones":
		*dst = entities.LennardJones
	default:
		return fmt.Errorf("unrecognised force_law %q", rest[0])
	}
	return nil
}

func setReachPredicate(dst *entities.ReachPredicate, rest []string) error {
	switch strings.ToLower(rest[0]) {
	case "touch":
		*dst = entities.PredicateTouch
	case "radius":
		*dst = entities.PredicateRadius
	case "chain":
		*dst = entities.PredicateChain
	default:
		return fmt.Errorf("unrecognised reach_predicate %q", rest[0])
	}
	return nil
}

// setFloatArray parses a comma-separated list. wantLen of 0 means no
// length check (alpha/beta arrays declare their own count via a_b_number,
// which this parser does not cross-validate against since the array line
// can precede or follow the count line in an arbitrary config file).
func setFloatArray(dst *[]float64, rest []string, wantLen int) error {
	if len(rest) == 0 {
		return fmt.Errorf("missing value")
	}
	parts := strings.Split(rest[0], ",")
	out := make([]float64, 0, len(parts))
	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid array element %q: %w", s, err)
		}
		out = append(out, v)
	}
	if wantLen > 0 && len(out) != wantLen {
		return fmt.Errorf("expected %d elements, got %d", wantLen, len(out))
	}
	*dst = out
	return nil
}
