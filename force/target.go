// Package force implements the pairwise force kernel and the line-of-sight
// perception check. The kernel returns a signed scalar magnitude only; the
// caller (the integrator) supplies the direction, keeping magnitude and
// geometry decoupled.
package force

import "github.com/pthm-cable/swarmsim/entities"

// Target is the tagged variant dispatched by the kernel: Kind says whether
// it is an Agent, Obstacle, or Goal, and Pos/Mass/Radius carry that
// target's data.
type Target struct {
	Kind     entities.Kind
	Pos      entities.Vec
	Mass     float64
	Radius   float64 // only meaningful for Kind == KindObstacle
}

// AgentView is the minimal read-only view of the source agent the kernel
// needs; it never mutates the agent.
type AgentView struct {
	Pos    entities.Vec
	Mass   float64
	Radius float64
}
