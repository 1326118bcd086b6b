// Command swarmsim runs the swarm physics stepper headlessly: load
// configuration, optionally load a scenario file or a named preset, run to
// time_limit, and write results.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/pthm-cable/swarmsim/config"
	"github.com/pthm-cable/swarmsim/engine"
	"github.com/pthm-cable/swarmsim/entities"
	"github.com/pthm-cable/swarmsim/presets"
	"github.com/pthm-cable/swarmsim/scenario"
	"github.com/pthm-cable/swarmsim/telemetry"
	"github.com/pthm-cable/swarmsim/world"
)

var (
	configPath   = flag.String("config", "", "Path to a configuration file (defaults embedded if omitted)")
	presetName   = flag.String("preset", "", "Run a named built-in preset instead of generating a world from config")
	scenarioIn   = flag.String("scenario-in", "", "Load a scenario file instead of generating/deploying agents")
	scenarioOut  = flag.String("scenario-out", "", "Save the final scenario to this path")
	outputDir    = flag.String("output", "", "Directory to write steps.csv/run_summary.csv (disabled if empty)")
	workersFlag  = flag.Int("workers", 0, "Override the worker pool size T (0 = use config)")
	timeLimit    = flag.Int("time-limit", 0, "Override the run's time limit (0 = use config)")
)

func main() {
	flag.Parse()
	log := slog.Default()

	sim, err := buildSimulator(log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "swarmsim:", err)
		os.Exit(1)
	}

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "swarmsim:", err)
		os.Exit(1)
	}
	defer out.Close()

	sim.Start()
	sim.Wait()

	snap := sim.StatsSnapshot()
	if err := out.WriteStep(telemetry.StepRecord{
		TimeStep: snap.TimeStep, ReachedGoal: snap.ReachedGoal, Collisions: snap.Collisions,
		ReachRatio: snap.ReachRatio, CollisionRatio: snap.CollisionRatio,
	}); err != nil {
		log.Warn("writing step record", "err", err)
	}
	if err := out.WriteSummary(sim); err != nil {
		log.Warn("writing summary", "err", err)
	}

	log.Info("run_complete",
		"time_step", snap.TimeStep,
		"reached_goal", snap.ReachedGoal,
		"collisions", snap.Collisions,
		"reach_ratio", snap.ReachRatio,
		"collision_ratio", snap.CollisionRatio,
	)

	if *scenarioOut != "" {
		f, err := os.Create(*scenarioOut)
		if err != nil {
			fmt.Fprintln(os.Stderr, "swarmsim: saving scenario:", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := scenario.Save(f, sim.SaveScenario()); err != nil {
			fmt.Fprintln(os.Stderr, "swarmsim: saving scenario:", err)
			os.Exit(1)
		}
	}
}

func buildSimulator(log *slog.Logger) (*engine.Simulator, error) {
	if *presetName != "" {
		p, err := presets.Load(*presetName)
		if err != nil {
			return nil, err
		}
		w := p.Build()
		if *workersFlag > 0 {
			w.Params.Workers = *workersFlag
		}
		if *timeLimit > 0 {
			w.Params.TimeLimit = *timeLimit
		}
		return engine.New(w, engine.Options{Workers: w.Params.Workers, TimeLimit: w.Params.TimeLimit, Log: log}), nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	wp := cfg.ToWorldParameters()
	if *workersFlag > 0 {
		wp.Workers = *workersFlag
	}
	if *timeLimit > 0 {
		wp.TimeLimit = *timeLimit
	}

	rngs := world.NewRNGSet(wp.Seeds)

	if *scenarioIn != "" {
		f, err := os.Open(*scenarioIn)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sc, err := scenario.Load(f, cfg.AgentCount, cfg.ObstacleCount)
		if err != nil {
			return nil, err
		}
		w := world.New(wp, sc.Obstacles, sc.Goal)
		for _, a := range sc.Agents {
			w.SpawnAgent(a.ID, entities.Vec{X: a.X, Y: a.Y}, a.Mass, a.Radius)
		}
		return engine.New(w, engine.Options{Workers: wp.Workers, TimeLimit: wp.TimeLimit, Log: log}), nil
	}

	goal := world.PlaceGoal(rngs.Goal, world.GenerationParams{WidthPx: wp.WidthPx, HeightPx: wp.HeightPx, GoalWidth: cfg.GoalWidth, GoalMass: cfg.GoalMass})
	obstacles, err := world.PlaceObstacles(rngs.Obstacles, world.GenerationParams{
		WidthPx: wp.WidthPx, HeightPx: wp.HeightPx,
		ObstacleCount: cfg.ObstacleCount, ObstacleRadius: cfg.ObstacleRadius, ObstacleMass: cfg.ObstacleMass,
		Clearance: cfg.ObstacleClearance,
	}, goal)
	if err != nil {
		return nil, err
	}

	w := world.New(wp, obstacles, goal)
	world.DeployAgents(rngs.Agents, w, world.GenerationParams{
		WidthPx: wp.WidthPx, HeightPx: wp.HeightPx,
		AgentCount: cfg.AgentCount, AgentMass: cfg.AgentMass, AgentRadius: cfg.AgentRadius,
	})

	return engine.New(w, engine.Options{Workers: wp.Workers, TimeLimit: wp.TimeLimit, Log: log}), nil
}
