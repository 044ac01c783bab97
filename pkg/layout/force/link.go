package force

import (
	"math"

	"github.com/matzehuels/topolayout/pkg/topology"
)

// Link is a spring force between the endpoints of each link.
//
// Per-link distance and strength are evaluated on Initialize. Each spring
// moves its endpoints in proportion to their degree, so a leaf moves more
// than the hub it hangs from.
type Link struct {
	links    []*topology.Link
	distance func(*topology.Link) float64
	strength func(*topology.Link) float64

	bound     []*topology.Link
	distances []float64
	strengths []float64
	bias      []float64
	random    func() float64
}

// NewLink returns a spring force over links. Nil accessors default to a
// distance of 30 and a strength of 1.
func NewLink(links []*topology.Link, distance, strength func(*topology.Link) float64) *Link {
	if distance == nil {
		distance = func(*topology.Link) float64 { return 30 }
	}
	if strength == nil {
		strength = func(*topology.Link) float64 { return 1 }
	}
	return &Link{links: links, distance: distance, strength: strength}
}

// Initialize binds each link to its endpoint nodes by ID and recomputes
// per-link parameters. Links whose endpoints are not both present are
// skipped.
func (f *Link) Initialize(nodes []*topology.Node, random func() float64) {
	f.random = random
	byID := make(map[string]*topology.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	lookup := func(id string) *topology.Node { return byID[id] }

	f.bound = f.bound[:0]
	count := make([]int, len(nodes))
	for _, l := range f.links {
		if l == nil || !l.Bind(lookup) {
			continue
		}
		f.bound = append(f.bound, l)
		count[l.Source.Index]++
		count[l.Target.Index]++
	}

	f.distances = make([]float64, len(f.bound))
	f.strengths = make([]float64, len(f.bound))
	f.bias = make([]float64, len(f.bound))
	for i, l := range f.bound {
		cs, ct := count[l.Source.Index], count[l.Target.Index]
		f.bias[i] = float64(cs) / float64(cs+ct)
		f.distances[i] = f.distance(l)
		f.strengths[i] = f.strength(l)
	}
}

// Apply pulls or pushes each pair toward its rest distance.
func (f *Link) Apply(alpha float64) {
	for i, l := range f.bound {
		s, t := l.Source, l.Target
		x := t.X + t.VX - s.X - s.VX
		if x == 0 {
			x = jiggle(f.random)
		}
		y := t.Y + t.VY - s.Y - s.VY
		if y == 0 {
			y = jiggle(f.random)
		}
		d := math.Sqrt(x*x + y*y)
		k := (d - f.distances[i]) / d * alpha * f.strengths[i]
		x *= k
		y *= k

		b := f.bias[i]
		t.VX -= x * b
		t.VY -= y * b
		s.VX += x * (1 - b)
		s.VY += y * (1 - b)
	}
}

// Bound returns the links the force acts on after the last Initialize.
func (f *Link) Bound() []*topology.Link { return f.bound }
