// Command visualize is a thin, optional raylib viewer for a running
// swarmsim simulation. It contains no simulation logic of its own — it
// only polls engine.Simulator.Snapshot/StatsSnapshot every frame and draws
// agents, obstacles, and the goal.
package main

import (
	"flag"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/swarmsim/engine"
	"github.com/pthm-cable/swarmsim/presets"
)

var presetName = flag.String("preset", "single-agent-attraction", "Built-in preset to visualize")

func main() {
	flag.Parse()

	p, err := presets.Load(*presetName)
	if err != nil {
		fmt.Println("visualize:", err)
		return
	}
	w := p.Build()
	sim := engine.New(w, engine.Options{Workers: w.Params.Workers, TimeLimit: w.Params.TimeLimit})
	sim.Start()

	screenW, screenH := int32(w.Params.WidthPx), int32(w.Params.HeightPx)
	rl.InitWindow(screenW, screenH, "swarmsim visualize")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	paused := false

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeySpace) {
			paused = !paused
			if paused {
				sim.Stop()
			} else {
				sim.Start()
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		drawWorld(sim)

		stats := sim.StatsSnapshot()
		raygui.Label(rl.NewRectangle(10, 10, 300, 20),
			fmt.Sprintf("step %d  reached %d  collisions %d", stats.TimeStep, stats.ReachedGoal, stats.Collisions))

		rl.EndDrawing()
	}
}

func drawWorld(sim *engine.Simulator) {
	goal := sim.World.Goal
	half := float32(goal.Width / 2)
	rl.DrawRectangle(int32(goal.Pos.X-float64(half)), int32(goal.Pos.Y-float64(half)),
		int32(goal.Width), int32(goal.Width), rl.Green)

	for _, o := range sim.World.Obstacles {
		rl.DrawCircle(int32(o.Pos.X), int32(o.Pos.Y), float32(o.Radius), rl.DarkGray)
	}

	for _, a := range sim.Snapshot() {
		color := rl.Blue
		if a.Collided {
			color = rl.Red
		} else if a.GoalReached {
			color = rl.Gold
		}
		rl.DrawCircle(int32(a.Pos.X), int32(a.Pos.Y), 5, color)
	}
}
