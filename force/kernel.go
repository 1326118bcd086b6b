package force

import (
	"math"

	"github.com/pthm-cable/swarmsim/entities"
)

const minDistance = 0.1

func norm(v entities.Vec) float64 {
	return math.Hypot(v.X, v.Y)
}

// clampDistance applies the distance clamp d <- max(|d|, 0.1), taken
// *after* any obstacle-radius surface-distance subtraction. This is
// intentional-but-notable: for an agent already inside an obstacle the
// surface distance is negative, and its absolute value is clamped rather
// than the raw value, so the magnitude returned here never distinguishes
// "just inside" from "just outside" once both fall under 0.1.
func clampDistance(d float64) float64 {
	d = math.Abs(d)
	if d < minDistance {
		return minDistance
	}
	return d
}

func saturate(f, cap float64) float64 {
	if cap <= 0 {
		return f
	}
	if f > cap {
		return cap
	}
	if f < -cap {
		return -cap
	}
	return f
}

// clampFinite maps an infinite Lennard-Jones result to the representable
// extremes and a NaN result to 0, instead of propagating NaN/Inf.
func clampFinite(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	if math.IsInf(f, 1) {
		return math.MaxFloat64
	}
	if math.IsInf(f, -1) {
		return -math.MaxFloat64
	}
	return f
}

// surfaceDistance returns the raw (possibly negative) distance between A
// and target, subtracting the obstacle radius for obstacle targets.
func surfaceDistance(a AgentView, t Target) float64 {
	d := norm(entities.Vec{X: a.Pos.X - t.Pos.X, Y: a.Pos.Y - t.Pos.Y})
	if t.Kind == entities.KindObstacle {
		d -= t.Radius
	}
	return d
}

// Magnitude computes the signed scalar force magnitude f along the line
// from A to target: positive is attractive toward target, negative is
// repulsive away from it. Returns (f, ok) where ok is false if the pair is
// out of cutoff range (or the target kind is unknown), in which case the
// caller should contribute nothing. The enable flags are not checked here;
// the integrator skips disabled interaction kinds.
func Magnitude(a AgentView, t Target, profile entities.ForceProfile) (f float64, ok bool) {
	switch profile.Law {
	case entities.LennardJones:
		return lennardJones(a, t, profile)
	default:
		return newtonian(a, t, profile)
	}
}

func newtonian(a AgentView, t Target, profile entities.ForceProfile) (float64, bool) {
	raw := surfaceDistance(a, t)
	d := clampDistance(raw)
	sense := profile.SenseRadius()

	switch t.Kind {
	case entities.KindAgent:
		if raw > sense {
			return 0, false
		}
		p := profile.AgentAgent
		f := p.G * a.Mass * t.Mass / math.Pow(d, p.Exp)
		if d < profile.DesiredDistance {
			f = -f
		}
		return saturate(f, p.Cap), true

	case entities.KindGoal:
		p := profile.AgentGoal
		f := p.G * a.Mass * t.Mass / math.Pow(d, p.Exp)
		if f < 0 {
			f = 0
		}
		return saturate(f, p.Cap), true

	case entities.KindObstacle:
		if raw > sense {
			return 0, false
		}
		p := profile.AgentObstacle
		f := -(p.G * a.Mass * t.Mass / math.Pow(d, p.Exp))
		return saturate(f, p.Cap), true

	default:
		return 0, false
	}
}

// lennardJones evaluates L(eps,c,d,sigma,r) = 24*eps*(c*sigma^6/r^7 -
// 2*d*sigma^12/r^13).
func lennardJones(a AgentView, t Target, profile entities.ForceProfile) (float64, bool) {
	raw := surfaceDistance(a, t)
	r := clampDistance(raw)

	switch t.Kind {
	case entities.KindAgent:
		sense := profile.SenseRadius()
		if raw > sense {
			return 0, false
		}
		p := profile.AgentAgent
		sigma := profile.DesiredDistance
		f := ljTerm(p.Epsilon, p.C, p.D, sigma, r)
		return saturate(clampFinite(f), p.LJCap), true

	case entities.KindObstacle:
		gate := profile.ObstacleGateDist
		if gate <= 0 {
			gate = 10
		}
		if raw > gate {
			return 0, false
		}
		p := profile.AgentObstacle
		sigma := t.Radius + 1
		f := ljTerm(p.Epsilon, 0, p.D, sigma, r) // c=0: repulsive term only
		return saturate(clampFinite(f), p.LJCap), true

	case entities.KindGoal:
		p := profile.AgentGoal
		sigma := 5 * profile.DesiredDistance * profile.DesiredDistance
		f := ljTerm(p.Epsilon, p.C, 0, sigma, r) // d=0: attractive term only
		if f < 0 {
			f = 0
		}
		return saturate(clampFinite(f), p.LJCap), true

	default:
		return 0, false
	}
}

func ljTerm(eps, c, d, sigma, r float64) float64 {
	sigma6 := math.Pow(sigma, 6)
	sigma12 := sigma6 * sigma6
	return 24 * eps * (c*sigma6/math.Pow(r, 7) - 2*d*sigma12/math.Pow(r, 13))
}
