package force

import (
	"math"

	"github.com/pthm-cable/swarmsim/entities"
)

// LineOfSight reports whether the straight segment from a to target passes
// within any obstacle's radius, considering only obstacles within sense of
// a. Used only for Lennard-Jones agent-agent interactions.
func LineOfSight(a, target entities.Vec, obstacles []entities.Obstacle, sense float64) bool {
	for _, o := range obstacles {
		if math.Hypot(o.Pos.X-a.X, o.Pos.Y-a.Y) > sense {
			continue
		}
		if segmentHitsCircle(a, target, o) {
			return true
		}
	}
	return false
}

// segmentHitsCircle implements the standard point-to-segment projection:
// q = ((O-A) . (target-A)) / |target-A|^2, clamped to [0,1].
func segmentHitsCircle(a, target entities.Vec, o entities.Obstacle) bool {
	dx, dy := target.X-a.X, target.Y-a.Y
	d2 := dx*dx + dy*dy
	if d2 == 0 {
		return math.Hypot(o.Pos.X-a.X, o.Pos.Y-a.Y) <= o.Radius
	}

	ox, oy := o.Pos.X-a.X, o.Pos.Y-a.Y
	q := (ox*dx + oy*dy) / d2
	if q < 0 {
		q = 0
	} else if q > 1 {
		q = 1
	}

	closestX, closestY := a.X+q*dx, a.Y+q*dy
	return math.Hypot(o.Pos.X-closestX, o.Pos.Y-closestY) <= o.Radius
}
