package force

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/topolayout/pkg/topology"
)

// Center translates all nodes so that their mean position coincides with
// a target point. It changes positions directly, never velocities.
type Center struct {
	Point    r2.Vec
	Strength float64

	nodes []*topology.Node
}

// NewCenter returns a centering force toward (x, y) with strength 1.
func NewCenter(x, y float64) *Center {
	return &Center{Point: r2.Vec{X: x, Y: y}, Strength: 1}
}

// Initialize binds the node set.
func (f *Center) Initialize(nodes []*topology.Node, _ func() float64) {
	f.nodes = nodes
}

// Apply shifts every node by the offset between the mean and the target.
func (f *Center) Apply(float64) {
	if len(f.nodes) == 0 {
		return
	}
	var mean r2.Vec
	for _, n := range f.nodes {
		mean = r2.Add(mean, r2.Vec{X: n.X, Y: n.Y})
	}
	mean = r2.Scale(1/float64(len(f.nodes)), mean)
	shift := r2.Scale(f.Strength, r2.Sub(mean, f.Point))
	for _, n := range f.nodes {
		n.X -= shift.X
		n.Y -= shift.Y
	}
}
