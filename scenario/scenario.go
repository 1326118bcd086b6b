// Package scenario implements the optional scenario file format:
// whitespace-separated fields, one line of statistics, one line for the
// goal, N lines for agents, M lines for obstacles. Used for deterministic
// replay and for the save_scenario/load_scenario observability hooks.
package scenario

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pthm-cable/swarmsim/entities"
)

// ScenarioError wraps a scenario file I/O or parse failure.
type ScenarioError struct {
	Op  string
	Err error
}

func (e *ScenarioError) Error() string { return fmt.Sprintf("scenario: %s: %v", e.Op, e.Err) }
func (e *ScenarioError) Unwrap() error { return e.Err }

// StatsRecord is the statistics line: time_step reached_goal collisions.
type StatsRecord struct {
	TimeStep    int
	ReachedGoal int
	Collisions  int
}

// AgentRecord is one agent line: id mass radius reached ix iy x y vx vy.
type AgentRecord struct {
	ID           int
	Mass, Radius float64
	Reached      bool
	IX, IY       float64
	X, Y         float64
	VX, VY       float64
}

// ObstacleRecord is one obstacle line: id mass radius x y.
type ObstacleRecord struct {
	ID           int
	Mass, Radius float64
	X, Y         float64
}

// Scenario is a full, decoded scenario file.
type Scenario struct {
	Stats     StatsRecord
	Goal      entities.Goal
	Agents    []AgentRecord
	Obstacles []entities.Obstacle
}

// Save writes sc to w in the scenario file's flat text format.
func Save(w io.Writer, sc Scenario) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%d %d %d\n", sc.Stats.TimeStep, sc.Stats.ReachedGoal, sc.Stats.Collisions)
	fmt.Fprintf(bw, "%d %s %s %s %s\n",
		sc.Goal.ID, fmtf(sc.Goal.Mass), fmtf(sc.Goal.Width), fmtf(sc.Goal.Pos.X), fmtf(sc.Goal.Pos.Y))

	for _, a := range sc.Agents {
		reached := 0
		if a.Reached {
			reached = 1
		}
		fmt.Fprintf(bw, "%d %s %s %d %s %s %s %s %s %s\n",
			a.ID, fmtf(a.Mass), fmtf(a.Radius), reached,
			fmtf(a.IX), fmtf(a.IY), fmtf(a.X), fmtf(a.Y), fmtf(a.VX), fmtf(a.VY))
	}

	for _, o := range sc.Obstacles {
		fmt.Fprintf(bw, "%d %s %s %s %s\n", o.ID, fmtf(o.Mass), fmtf(o.Radius), fmtf(o.Pos.X), fmtf(o.Pos.Y))
	}

	if err := bw.Flush(); err != nil {
		return &ScenarioError{Op: "save", Err: err}
	}
	return nil
}

func fmtf(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// Load decodes a scenario with exactly n agents and m obstacles from r.
// The scenario format doesn't self-describe its line counts (N/M are left
// implicit, driven by the currently-configured population), so the caller
// must supply them, sizing the read against the already-parsed config.
func Load(r io.Reader, n, m int) (Scenario, error) {
	sc := Scenario{}
	sca := bufio.NewScanner(r)
	sca.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line, err := nextLine(sca)
	if err != nil {
		return sc, &ScenarioError{Op: "load stats line", Err: err}
	}
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return sc, &ScenarioError{Op: "load stats line", Err: fmt.Errorf("expected 3 fields, got %d", len(fields))}
	}
	sc.Stats.TimeStep, _ = strconv.Atoi(fields[0])
	sc.Stats.ReachedGoal, _ = strconv.Atoi(fields[1])
	sc.Stats.Collisions, _ = strconv.Atoi(fields[2])

	line, err = nextLine(sca)
	if err != nil {
		return sc, &ScenarioError{Op: "load goal line", Err: err}
	}
	fields = strings.Fields(line)
	if len(fields) < 5 {
		return sc, &ScenarioError{Op: "load goal line", Err: fmt.Errorf("expected 5 fields, got %d", len(fields))}
	}
	gid, _ := strconv.Atoi(fields[0])
	gmass, _ := strconv.ParseFloat(fields[1], 64)
	gwidth, _ := strconv.ParseFloat(fields[2], 64)
	gx, _ := strconv.ParseFloat(fields[3], 64)
	gy, _ := strconv.ParseFloat(fields[4], 64)
	sc.Goal = entities.Goal{ID: gid, Mass: gmass, Width: gwidth, Pos: entities.Vec{X: gx, Y: gy}}

	for i := 0; i < n; i++ {
		line, err = nextLine(sca)
		if err != nil {
			return sc, &ScenarioError{Op: fmt.Sprintf("load agent line %d", i), Err: err}
		}
		fields = strings.Fields(line)
		if len(fields) < 10 {
			return sc, &ScenarioError{Op: fmt.Sprintf("load agent line %d", i), Err: fmt.Errorf("expected 10 fields, got %d", len(fields))}
		}
		var a AgentRecord
		a.ID, _ = strconv.Atoi(fields[0])
		a.Mass, _ = strconv.ParseFloat(fields[1], 64)
		a.Radius, _ = strconv.ParseFloat(fields[2], 64)
		reached, _ := strconv.Atoi(fields[3])
		a.Reached = reached != 0
		a.IX, _ = strconv.ParseFloat(fields[4], 64)
		a.IY, _ = strconv.ParseFloat(fields[5], 64)
		a.X, _ = strconv.ParseFloat(fields[6], 64)
		a.Y, _ = strconv.ParseFloat(fields[7], 64)
		a.VX, _ = strconv.ParseFloat(fields[8], 64)
		a.VY, _ = strconv.ParseFloat(fields[9], 64)
		sc.Agents = append(sc.Agents, a)
	}

	for i := 0; i < m; i++ {
		line, err = nextLine(sca)
		if err != nil {
			return sc, &ScenarioError{Op: fmt.Sprintf("load obstacle line %d", i), Err: err}
		}
		fields = strings.Fields(line)
		if len(fields) < 5 {
			return sc, &ScenarioError{Op: fmt.Sprintf("load obstacle line %d", i), Err: fmt.Errorf("expected 5 fields, got %d", len(fields))}
		}
		var o entities.Obstacle
		o.ID, _ = strconv.Atoi(fields[0])
		o.Mass, _ = strconv.ParseFloat(fields[1], 64)
		o.Radius, _ = strconv.ParseFloat(fields[2], 64)
		ox, _ := strconv.ParseFloat(fields[3], 64)
		oy, _ := strconv.ParseFloat(fields[4], 64)
		o.Pos = entities.Vec{X: ox, Y: oy}
		sc.Obstacles = append(sc.Obstacles, o)
	}

	return sc, nil
}

func nextLine(sca *bufio.Scanner) (string, error) {
	for sca.Scan() {
		line := strings.TrimSpace(sca.Text())
		if line == "" {
			continue
		}
		return line, nil
	}
	if err := sca.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
