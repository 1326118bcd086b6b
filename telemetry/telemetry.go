// Package telemetry writes run results to disk: a per-step CSV and a
// one-line run summary, plus optional descriptive statistics over the agent
// population's distance-to-goal. The output directory and steps.csv are
// created by NewOutputManager; steps.csv gets its header on the first write
// only.
package telemetry

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/swarmsim/engine"
	"github.com/pthm-cable/swarmsim/entities"
)

// StepRecord is one row of steps.csv.
type StepRecord struct {
	TimeStep       int     `csv:"time_step"`
	ReachedGoal    int     `csv:"reached_goal"`
	Collisions     int     `csv:"collisions"`
	ReachRatio     float64 `csv:"reach_ratio"`
	CollisionRatio float64 `csv:"collision_ratio"`
}

// SummaryRecord is run_summary.csv's single row, written once at the end
// of a run.
type SummaryRecord struct {
	TimeStep           int     `csv:"time_step"`
	ReachedGoal        int     `csv:"reached_goal"`
	Collisions         int     `csv:"collisions"`
	ReachRatio         float64 `csv:"reach_ratio"`
	CollisionRatio     float64 `csv:"collision_ratio"`
	MeanGoalDistance   float64 `csv:"mean_goal_distance"`
	StdDevGoalDistance float64 `csv:"stddev_goal_distance"`
}

// OutputManager handles per-run CSV output. A nil-valued *OutputManager
// (returned when dir is "") makes every method a no-op, matching the
// teacher's "output disabled" convention.
type OutputManager struct {
	dir        string
	stepFile   *os.File
	headerDone bool
}

// NewOutputManager creates dir (if needed) and opens steps.csv for writing.
// Returns (nil, nil) if dir is empty, signalling output is disabled.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("telemetry: creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "steps.csv"))
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating steps.csv: %w", err)
	}
	return &OutputManager{dir: dir, stepFile: f}, nil
}

// WriteStep appends one row to steps.csv.
func (om *OutputManager) WriteStep(snap StepRecord) error {
	if om == nil {
		return nil
	}
	records := []StepRecord{snap}
	if !om.headerDone {
		om.headerDone = true
		return gocsv.Marshal(records, om.stepFile)
	}
	return gocsv.MarshalWithoutHeaders(records, om.stepFile)
}

// WriteSummary writes run_summary.csv's single row. sim is read once via
// Snapshot to compute goal-distance statistics with gonum/stat.
func (om *OutputManager) WriteSummary(sim *engine.Simulator) error {
	if om == nil {
		return nil
	}
	snap := sim.StatsSnapshot()
	mean, stddev := goalDistanceStats(sim)

	f, err := os.Create(filepath.Join(om.dir, "run_summary.csv"))
	if err != nil {
		return fmt.Errorf("telemetry: creating run_summary.csv: %w", err)
	}
	defer f.Close()

	records := []SummaryRecord{{
		TimeStep:           snap.TimeStep,
		ReachedGoal:        snap.ReachedGoal,
		Collisions:         snap.Collisions,
		ReachRatio:         snap.ReachRatio,
		CollisionRatio:     snap.CollisionRatio,
		MeanGoalDistance:   mean,
		StdDevGoalDistance: stddev,
	}}
	return gocsv.Marshal(records, f)
}

// goalDistanceStats computes the mean and sample (n-1) stddev of each
// agent's Euclidean distance to the goal centre, via gonum/stat instead of
// a hand-rolled accumulator.
func goalDistanceStats(sim *engine.Simulator) (mean, stddev float64) {
	agents := sim.Snapshot()
	if len(agents) == 0 {
		return 0, 0
	}
	goal := sim.World.Goal
	dists := make([]float64, len(agents))
	for i, a := range agents {
		dists[i] = distance(a.Pos, goal.Pos)
	}
	mean = stat.Mean(dists, nil)
	stddev = stat.StdDev(dists, nil)
	return mean, stddev
}

func distance(a, b entities.Vec) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return math.Hypot(dx, dy)
}

// Dir returns the output directory, or "" if output is disabled.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes steps.csv.
func (om *OutputManager) Close() error {
	if om == nil || om.stepFile == nil {
		return nil
	}
	return om.stepFile.Close()
}
