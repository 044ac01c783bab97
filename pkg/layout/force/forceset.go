package force

import (
	"github.com/matzehuels/topolayout/pkg/layout/route"
	"github.com/matzehuels/topolayout/pkg/topology"
)

// Force names in application order.
const (
	NameLink       = "link"
	NameCenter     = "center"
	NameCollision  = "collision"
	NameRepulsion  = "repulsion"
	NameAttraction = "attraction"
)

// Collision iterations per step.
const CollisionIterations = 100

// Env carries the topology-specific inputs of the standard force sets.
type Env struct {
	Links         []*topology.Link
	ViewBoxWidth  float64
	ViewBoxHeight float64
}

// ApplyFullForceSet installs the gravity-on configuration: springs, centering,
// collision, repulsion and short-range attraction. Per-node parameters read
// the current link set on every reinitialisation.
func (s *Simulation) ApplyFullForceSet(env Env) {
	s.links = env.Links
	s.forces = s.forces[:0]

	s.SetForce(NameLink, NewLink(env.Links, s.linkDistance, unitStrength))
	s.SetForce(NameCenter, NewCenter(env.ViewBoxWidth/2, env.ViewBoxHeight/2))
	s.SetForce(NameCollision, NewCollide(s.collisionRadius, 1, CollisionIterations))
	s.SetForce(NameRepulsion, NewManyBody(s.repulsion))
	s.SetForce(NameAttraction, NewManyBody(Constant(1)).WithDistance(10, 100))
}

// ApplyGravityOffForceSet keeps only a zero-strength link force so links stay
// bound while nothing moves, then cools the simulation. Velocities are
// cleared so nodes hold the positions they had when the set was installed.
func (s *Simulation) ApplyGravityOffForceSet(env Env) {
	s.links = env.Links
	s.forces = s.forces[:0]

	s.SetForce(NameLink, NewLink(env.Links, s.linkDistance, zeroStrength))
	for _, n := range s.nodes {
		n.VX, n.VY = 0, 0
	}
	s.Restart(0)
}

func unitStrength(*topology.Link) float64 { return 1 }
func zeroStrength(*topology.Link) float64 { return 0 }

func (s *Simulation) linkDistance(l *topology.Link) float64 {
	return route.LinkDistance(l, s.links)
}

func (s *Simulation) collisionRadius(n *topology.Node) float64 {
	return route.CollisionRadius(route.ConnectionCount(n.ID, s.links))
}

func (s *Simulation) repulsion(n *topology.Node) float64 {
	if route.ConnectionCount(n.ID, s.links) > 0 {
		return -1
	}
	return 1
}
