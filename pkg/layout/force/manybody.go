package force

import (
	"math"

	"github.com/matzehuels/topolayout/pkg/topology"
)

// ManyBody applies pairwise charge between every pair of nodes within
// DistanceMax. Negative strength repels, positive strength attracts.
//
// Each node is moved by the charge of the other: a node with no charge is
// still pushed by its charged neighbours. Interactions are computed exactly;
// topology graphs are small enough that a Barnes-Hut approximation does not
// pay for its error.
type ManyBody struct {
	strength     func(*topology.Node) float64
	distanceMin2 float64
	distanceMax2 float64

	nodes     []*topology.Node
	strengths []float64
	random    func() float64
}

// NewManyBody returns a charge force with no distance bounds beyond a
// minimum of 1. A nil accessor means strength -30 for every node.
func NewManyBody(strength func(*topology.Node) float64) *ManyBody {
	if strength == nil {
		strength = func(*topology.Node) float64 { return -30 }
	}
	return &ManyBody{strength: strength, distanceMin2: 1, distanceMax2: math.Inf(1)}
}

// Constant returns an accessor yielding v for every node.
func Constant(v float64) func(*topology.Node) float64 {
	return func(*topology.Node) float64 { return v }
}

// WithDistance bounds the interaction range and returns f.
func (f *ManyBody) WithDistance(min, max float64) *ManyBody {
	f.distanceMin2 = min * min
	f.distanceMax2 = max * max
	return f
}

// Initialize evaluates every node's charge.
func (f *ManyBody) Initialize(nodes []*topology.Node, random func() float64) {
	f.nodes = nodes
	f.random = random
	f.strengths = make([]float64, len(nodes))
	for i, n := range nodes {
		f.strengths[i] = f.strength(n)
	}
}

// Apply accumulates charge contributions into node velocities.
func (f *ManyBody) Apply(alpha float64) {
	for i, a := range f.nodes {
		for j, b := range f.nodes {
			if i == j {
				continue
			}
			x := b.X - a.X
			y := b.Y - a.Y
			l := x*x + y*y
			if l >= f.distanceMax2 {
				continue
			}
			if x == 0 {
				x = jiggle(f.random)
				l += x * x
			}
			if y == 0 {
				y = jiggle(f.random)
				l += y * y
			}
			if l < f.distanceMin2 {
				l = math.Sqrt(f.distanceMin2 * l)
			}
			w := f.strengths[j] * alpha / l
			a.VX += x * w
			a.VY += y * w
		}
	}
}
