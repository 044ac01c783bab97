package force

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/topolayout/pkg/topology"
)

// Simulation defaults.
const (
	DefaultAlphaMin      = 0.001
	DefaultVelocityDecay = 0.4
	DefaultSeed          = 42

	initialRadius = 10
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Force adjusts node velocities once per step.
type Force interface {
	// Initialize binds the force to the node set. random returns values in [0, 1).
	Initialize(nodes []*topology.Node, random func() float64)
	// Apply runs the force at the given temperature.
	Apply(alpha float64)
}

type namedForce struct {
	name  string
	force Force
}

// Simulation is a force-directed particle simulation over a node set.
// It is not safe for concurrent use.
type Simulation struct {
	nodes  []*topology.Node
	links  []*topology.Link
	forces []namedForce

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64

	running bool
	steps   int
	rng     *rand.Rand
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithSeed makes jitter and initial placement deterministic for a seed.
func WithSeed(seed uint64) Option {
	return func(s *Simulation) { s.rng = rand.New(rand.NewPCG(seed, seed^0xdeadbeef)) }
}

// WithAlphaMin overrides the stopping threshold.
func WithAlphaMin(min float64) Option {
	return func(s *Simulation) { s.alphaMin = min }
}

// New creates a running simulation bound to nodes. The slice is shared,
// not copied: the simulation moves the graph's own node objects.
func New(nodes []*topology.Node, opts ...Option) *Simulation {
	s := &Simulation{
		alpha:         1,
		alphaMin:      DefaultAlphaMin,
		velocityDecay: 1 - DefaultVelocityDecay,
		running:       true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		WithSeed(DefaultSeed)(s)
	}
	s.alphaDecay = 1 - math.Pow(s.alphaMin, 1.0/300)
	s.SetNodes(nodes)
	return s
}

// Nodes returns the bound node slice.
func (s *Simulation) Nodes() []*topology.Node { return s.nodes }

// Links returns the link set last passed to SetLinks.
func (s *Simulation) Links() []*topology.Link { return s.links }

// SetNodes rebinds the simulation to nodes, assigns indices, places any
// unplaced node on a phyllotaxis spiral and reinitialises every force.
func (s *Simulation) SetNodes(nodes []*topology.Node) {
	s.nodes = nodes
	for i, n := range nodes {
		n.Index = i
		if n.Fixed {
			n.X, n.Y = n.FX, n.FY
		}
		if !n.Placed() {
			radius := initialRadius * math.Sqrt(0.5+float64(i))
			angle := float64(i) * initialAngle
			n.X = radius * math.Cos(angle)
			n.Y = radius * math.Sin(angle)
		}
		if math.IsNaN(n.VX) || math.IsNaN(n.VY) {
			n.VX, n.VY = 0, 0
		}
	}
	s.initializeForces()
}

// SetLinks rebinds the link set. It must be called after any structural
// change and before the next step; every force is reinitialised because
// per-node parameters depend on connectivity.
func (s *Simulation) SetLinks(links []*topology.Link) {
	s.links = links
	if lf, ok := s.Force(NameLink).(*Link); ok {
		lf.links = links
	}
	s.initializeForces()
}

func (s *Simulation) initializeForces() {
	for _, f := range s.forces {
		f.force.Initialize(s.nodes, s.rng.Float64)
	}
}

// Force returns the installed force with the given name, or nil.
func (s *Simulation) Force(name string) Force {
	for _, f := range s.forces {
		if f.name == name {
			return f.force
		}
	}
	return nil
}

// SetForce installs f under name. Replacing a force keeps its position in
// the application order; new forces are applied last.
func (s *Simulation) SetForce(name string, f Force) {
	f.Initialize(s.nodes, s.rng.Float64)
	for i := range s.forces {
		if s.forces[i].name == name {
			s.forces[i].force = f
			return
		}
	}
	s.forces = append(s.forces, namedForce{name: name, force: f})
}

// RemoveForce uninstalls the named force, if present.
func (s *Simulation) RemoveForce(name string) {
	s.forces = slices.DeleteFunc(s.forces, func(f namedForce) bool { return f.name == name })
}

// Forces returns the installed force names in application order.
func (s *Simulation) Forces() []string {
	names := make([]string, len(s.forces))
	for i, f := range s.forces {
		names[i] = f.name
	}
	return names
}

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// SetAlpha sets the current temperature.
func (s *Simulation) SetAlpha(alpha float64) { s.alpha = alpha }

// AlphaTarget returns the temperature the simulation cools toward.
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// SetAlphaTarget sets the temperature the simulation cools toward.
func (s *Simulation) SetAlphaTarget(target float64) { s.alphaTarget = target }

// AlphaMin returns the stopping threshold.
func (s *Simulation) AlphaMin() float64 { return s.alphaMin }

// Restart sets the target temperature and resumes stepping.
func (s *Simulation) Restart(alphaTarget float64) {
	s.alphaTarget = alphaTarget
	s.running = true
}

// Reheat resets alpha to 1 and resumes stepping.
func (s *Simulation) Reheat() {
	s.alpha = 1
	s.running = true
}

// Stop halts stepping without changing alpha.
func (s *Simulation) Stop() { s.running = false }

// Active reports whether Step will advance the simulation.
func (s *Simulation) Active() bool { return s.running && len(s.nodes) > 0 }

// Steps returns the number of steps taken since creation.
func (s *Simulation) Steps() int { return s.steps }

// Step advances the simulation by one tick if it is active and stops it
// once alpha falls below alphaMin. It reports whether a tick ran.
func (s *Simulation) Step() bool {
	if !s.Active() {
		s.running = false
		return false
	}
	s.Tick()
	if s.alpha < s.alphaMin {
		s.running = false
	}
	return true
}

// Tick advances the simulation once regardless of whether it is active.
func (s *Simulation) Tick() {
	s.steps++
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	for _, f := range s.forces {
		f.force.Apply(s.alpha)
	}

	for _, n := range s.nodes {
		if n.Fixed {
			n.X, n.VX = n.FX, 0
			n.Y, n.VY = n.FY, 0
			continue
		}
		n.VX *= s.velocityDecay
		n.VY *= s.velocityDecay
		n.X += n.VX
		n.Y += n.VY
	}
}

// jiggle returns a tiny random displacement used to separate coincident points.
func jiggle(random func() float64) float64 {
	return (random() - 0.5) * 1e-6
}
