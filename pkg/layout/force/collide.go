package force

import (
	"math"

	"github.com/matzehuels/topolayout/pkg/topology"
)

// Collide treats nodes as circles and pushes overlapping pairs apart.
//
// Overlap is tested on predicted positions (position plus velocity). The
// correction is split between the two nodes by squared radius so the larger
// circle moves less.
type Collide struct {
	radius     func(*topology.Node) float64
	strength   float64
	iterations int

	nodes  []*topology.Node
	radii  []float64
	random func() float64
}

// NewCollide returns a collision force. A nil radius accessor means every
// node has radius 1.
func NewCollide(radius func(*topology.Node) float64, strength float64, iterations int) *Collide {
	if radius == nil {
		radius = func(*topology.Node) float64 { return 1 }
	}
	if iterations < 1 {
		iterations = 1
	}
	return &Collide{radius: radius, strength: strength, iterations: iterations}
}

// Initialize evaluates every node's radius.
func (f *Collide) Initialize(nodes []*topology.Node, random func() float64) {
	f.nodes = nodes
	f.random = random
	f.radii = make([]float64, len(nodes))
	for i, n := range nodes {
		f.radii[i] = f.radius(n)
	}
}

// Apply resolves overlaps for the configured number of iterations.
func (f *Collide) Apply(float64) {
	n := len(f.nodes)
	for range f.iterations {
		for i := 0; i < n; i++ {
			a := f.nodes[i]
			ri := f.radii[i]
			ri2 := ri * ri
			xi, yi := a.X+a.VX, a.Y+a.VY

			for j := i + 1; j < n; j++ {
				b := f.nodes[j]
				rj := f.radii[j]
				r := ri + rj
				x := xi - b.X - b.VX
				y := yi - b.Y - b.VY
				l := x*x + y*y
				if l >= r*r {
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
				d := math.Sqrt(l)
				k := (r - d) / d * f.strength
				x *= k
				y *= k

				rj2 := rj * rj
				w := rj2 / (ri2 + rj2)
				a.VX += x * w
				a.VY += y * w
				b.VX -= x * (1 - w)
				b.VY -= y * (1 - w)
			}
		}
	}
}
