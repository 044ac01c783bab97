package layout

import (
	"context"
	"io"
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topolayout/pkg/kv"
	"github.com/matzehuels/topolayout/pkg/layout/drag"
	"github.com/matzehuels/topolayout/pkg/layout/force"
	"github.com/matzehuels/topolayout/pkg/layout/route"
	"github.com/matzehuels/topolayout/pkg/layout/store"
	"github.com/matzehuels/topolayout/pkg/layout/tick"
	"github.com/matzehuels/topolayout/pkg/layout/viewport"
	"github.com/matzehuels/topolayout/pkg/observability"
	"github.com/matzehuels/topolayout/pkg/topology"
)

// Options carries the collaborators of a Graph. Every field is optional.
type Options struct {
	// Store persists layouts. Defaults to an in-memory store.
	Store kv.Store

	// Observer receives click, gravity and structure events.
	Observer Observer

	// Tooltip is hidden whenever a drag starts or moves.
	Tooltip drag.Tooltip

	// Logger defaults to a discarding logger.
	Logger *log.Logger
}

// Graph is one topology view. See the package documentation.
type Graph struct {
	cfg Config
	vp  viewport.Viewport

	nodes []*topology.Node
	byID  map[string]*topology.Node
	links []*topology.Link

	sim    *force.Simulation
	ticker tick.Coordinator
	drag   *drag.Controller
	store  *store.Store
	saved  *store.SavedTopology

	gravityOn   bool
	highlighted map[string]bool
	selected    map[string]bool
	hotLinks    map[string]bool

	backend  kv.Store
	observer Observer
	tooltip  drag.Tooltip
	logger   *log.Logger
	rng      *rand.Rand
}

// New builds a view over nodes and links. Nodes are deduplicated by ID and
// links whose endpoints are missing are dropped. Saved positions and the
// saved gravity flag for cfg.TopologyID are applied; storage failures are
// logged and the view starts from fresh positions.
func New(ctx context.Context, cfg Config, nodes []*topology.Node, links []*topology.Link, opts Options) (*Graph, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Store == nil {
		opts.Store = kv.NewMemory()
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	g := &Graph{
		cfg:         cfg,
		vp:          cfg.Viewport(),
		highlighted: make(map[string]bool),
		selected:    make(map[string]bool),
		hotLinks:    make(map[string]bool),
		backend:     opts.Store,
		observer:    opts.Observer,
		tooltip:     opts.Tooltip,
		logger:      opts.Logger.With("topology", cfg.TopologyID),
		rng:         rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
	g.build(ctx, nodes, links)
	return g, nil
}

// build loads saved state and wires the components over a fresh data set.
func (g *Graph) build(ctx context.Context, nodes []*topology.Node, links []*topology.Link) {
	g.setData(nodes, links)

	g.store = store.New(g.backend, store.WithLogger(g.logger), store.WithRandom(g.rng.Float64))
	saved, err := g.store.Load(ctx, g.cfg.TopologyID)
	if err != nil {
		g.logger.Warn("saved layout unavailable, using fresh positions", "error", err)
	}
	g.saved = saved
	g.gravityOn = saved.Gravity
	if err := g.store.ApplyToLiveNodes(ctx, g.nodes, saved, g.vp); err != nil {
		g.logger.Warn("could not save initial positions", "error", err)
	}

	g.sim = force.New(g.nodes, force.WithSeed(g.cfg.Seed))
	g.applyForces()

	dragOpts := []drag.Option{drag.WithLogger(g.logger)}
	if g.tooltip != nil {
		dragOpts = append(dragOpts, drag.WithTooltip(g.tooltip))
	}
	g.drag = drag.New(g.sim, g.store, dragOpts...)

	g.logger.Debug("built view",
		"nodes", len(g.nodes),
		"links", len(g.links),
		"gravity", g.gravityOn)
}

// setData replaces the collections, dropping duplicate nodes, links with
// missing endpoints and links with a duplicate ID.
func (g *Graph) setData(nodes []*topology.Node, links []*topology.Link) {
	g.nodes = make([]*topology.Node, 0, len(nodes))
	g.byID = make(map[string]*topology.Node, len(nodes))
	for _, n := range nodes {
		if n == nil || n.ID == "" || g.byID[n.ID] != nil {
			continue
		}
		g.byID[n.ID] = n
		g.nodes = append(g.nodes, n)
	}

	g.links = make([]*topology.Link, 0, len(links))
	seen := make(map[string]bool, len(links))
	for _, l := range links {
		if l == nil || seen[l.ID] || g.byID[l.SourceID] == nil || g.byID[l.TargetID] == nil {
			if l != nil {
				g.logger.Debug("dropping link", "link", l.ID, "source", l.SourceID, "target", l.TargetID)
			}
			continue
		}
		seen[l.ID] = true
		g.links = append(g.links, l)
	}
	route.Classify(g.links)

	for id := range g.highlighted {
		if g.byID[id] == nil {
			delete(g.highlighted, id)
		}
	}
	for id := range g.selected {
		if g.byID[id] == nil {
			delete(g.selected, id)
		}
	}
	clear(g.hotLinks)
}

func (g *Graph) env() force.Env {
	return force.Env{Links: g.links, ViewBoxWidth: g.vp.Width, ViewBoxHeight: g.vp.Height}
}

// applyForces installs the force set matching the gravity flag and binds
// the current link set.
func (g *Graph) applyForces() {
	if g.gravityOn {
		g.sim.ApplyFullForceSet(g.env())
		g.sim.SetLinks(g.links)
		g.sim.Restart(0)
		return
	}
	g.sim.ApplyGravityOffForceSet(g.env())
	g.sim.SetLinks(g.links)
}

// rebind must follow every structural change.
func (g *Graph) rebind() {
	route.Classify(g.links)
	g.sim.SetLinks(g.links)
	g.sim.SetNodes(g.nodes)
}

// =============================================================================
// Accessors
// =============================================================================

// Config returns the normalized configuration.
func (g *Graph) Config() Config { return g.cfg }

// Viewport returns the coordinate space snapshot.
func (g *Graph) Viewport() viewport.Viewport { return g.vp }

// Nodes returns the live nodes. Callers must not add or remove entries.
func (g *Graph) Nodes() []*topology.Node { return g.nodes }

// Links returns the live links. Callers must not add or remove entries.
func (g *Graph) Links() []*topology.Link { return g.links }

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *topology.Node { return g.byID[id] }

// Link returns the link with the given id, or nil.
func (g *Graph) Link(id string) *topology.Link {
	for _, l := range g.links {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// GravityOn reports whether the full force set is installed.
func (g *Graph) GravityOn() bool { return g.gravityOn }

// Simulation exposes the force engine for inspection.
func (g *Graph) Simulation() *force.Simulation { return g.sim }

// Saved returns the persisted record of this topology.
func (g *Graph) Saved() *store.SavedTopology { return g.saved }

// Active reports whether the simulation will move nodes on the next tick.
func (g *Graph) Active() bool { return g.sim.Active() }

// =============================================================================
// Frames
// =============================================================================

// Tick advances the simulation by one step if it is active, then clamps and
// routes. It always returns a frame; the bool reports whether nodes moved.
func (g *Graph) Tick() (tick.Frame, bool) {
	stepped := g.sim.Step()
	return g.Frame(), stepped
}

// Frame clamps and routes the current positions without stepping.
func (g *Graph) Frame() tick.Frame {
	f := g.ticker.Apply(g.nodes, g.links, g.vp)
	f.Alpha = g.sim.Alpha()
	return f
}

// Settle ticks until the simulation cools, maxTicks is reached (0 means the
// configured limit) or ctx is done. It returns the number of steps taken.
func (g *Graph) Settle(ctx context.Context, maxTicks int) (int, error) {
	if maxTicks <= 0 {
		maxTicks = g.cfg.MaxTicks
	}
	start := time.Now()
	observability.Simulation().OnSettleStart(ctx, g.cfg.TopologyID, len(g.nodes), len(g.links))

	ticks := 0
	var err error
	for ticks < maxTicks {
		if ticks%32 == 0 {
			if err = ctx.Err(); err != nil {
				break
			}
		}
		if _, stepped := g.Tick(); !stepped {
			break
		}
		ticks++
	}

	observability.Simulation().OnSettleComplete(ctx, g.cfg.TopologyID, ticks, time.Since(start), err)
	g.logger.Debug("settled", "ticks", ticks, "alpha", g.sim.Alpha(), "duration", time.Since(start))
	return ticks, err
}

// =============================================================================
// Gestures
// =============================================================================

// DragStart begins a gesture on the node. It reports false for unknown ids.
func (g *Graph) DragStart(id string) bool {
	n := g.byID[id]
	if n == nil {
		return false
	}
	g.drag.Start(n)
	return true
}

// DragMove moves the dragged node toward (x, y), clamped into the viewport,
// and returns where it was placed.
func (g *Graph) DragMove(id string, x, y float64) (float64, float64, bool) {
	n := g.byID[id]
	if n == nil || math.IsNaN(x) || math.IsNaN(y) {
		return 0, 0, false
	}
	x, y = g.drag.Move(n, x, y, g.vp)
	return x, y, true
}

// DragEnd releases the node, recording its position when gravity is off.
func (g *Graph) DragEnd(ctx context.Context, id string) bool {
	n := g.byID[id]
	if n == nil || !g.drag.Dragging(id) {
		return false
	}
	g.drag.End(ctx, n, g.gravityOn)
	return true
}

// Dragging reports whether a gesture is in progress on the node.
func (g *Graph) Dragging(id string) bool { return g.drag.Dragging(id) }
