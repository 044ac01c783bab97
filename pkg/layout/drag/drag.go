// Package drag turns pointer-drag gestures on nodes into simulation
// constraints.
//
// A gesture moves a node through Idle → Dragging → Idle. While any gesture is
// active the simulation is held warm (alpha target 0.3) so the rest of the
// graph reacts to the dragged node. The dragged node is pinned at the
// pointer, clamped into the viewport. On release the node is unpinned; with
// gravity off its final position is recorded first so the manual placement
// survives reloads.
package drag

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topolayout/pkg/layout/viewport"
	"github.com/matzehuels/topolayout/pkg/topology"
)

// AlphaTarget is the temperature held while a gesture is active.
const AlphaTarget = 0.3

// Simulation is the part of the force engine a drag perturbs.
type Simulation interface {
	SetAlphaTarget(target float64)
	Restart(alphaTarget float64)
}

// Recorder persists a node's final position.
type Recorder interface {
	RecordDrag(ctx context.Context, nodeID string, x, y float64) error
}

// Tooltip is hidden as soon as a gesture starts or moves.
type Tooltip interface {
	Hide()
}

// Controller tracks active gestures. It is not safe for concurrent use.
type Controller struct {
	sim      Simulation
	recorder Recorder
	tooltip  Tooltip
	logger   *log.Logger

	active   int
	dragging map[string]bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithTooltip sets the tooltip hidden on drag.
func WithTooltip(t Tooltip) Option { return func(c *Controller) { c.tooltip = t } }

// WithLogger sets the logger for persistence failures.
func WithLogger(l *log.Logger) Option { return func(c *Controller) { c.logger = l } }

// New returns a controller driving sim and persisting through rec.
func New(sim Simulation, rec Recorder, opts ...Option) *Controller {
	c := &Controller{sim: sim, recorder: rec, dragging: make(map[string]bool)}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// Active returns the number of gestures in progress.
func (c *Controller) Active() int { return c.active }

// Dragging reports whether a gesture is in progress on id.
func (c *Controller) Dragging(id string) bool { return c.dragging[id] }

// Start pins n at its current position. The first concurrent gesture warms
// the simulation. Starting twice on the same node is a no-op.
func (c *Controller) Start(n *topology.Node) {
	if c.dragging[n.ID] {
		return
	}
	if c.active == 0 {
		c.sim.Restart(AlphaTarget)
	}
	c.active++
	c.dragging[n.ID] = true
	n.Pin(n.X, n.Y)
	c.hideTooltip()
}

// Move pins n at the pointer position clamped into vp and returns the
// clamped position. Moving a node that is not being dragged starts a gesture.
func (c *Controller) Move(n *topology.Node, x, y float64, vp viewport.Viewport) (float64, float64) {
	if !c.dragging[n.ID] {
		c.Start(n)
	}
	x, y = vp.Clamp(x, y)
	n.X, n.Y = x, y
	n.Pin(x, y)
	c.hideTooltip()
	return x, y
}

// End releases n. When the last gesture ends the simulation cools. With
// gravity off the final position is recorded before unpinning; a recording
// failure is logged and the node is still released.
func (c *Controller) End(ctx context.Context, n *topology.Node, gravityOn bool) {
	if !c.dragging[n.ID] {
		return
	}
	delete(c.dragging, n.ID)
	c.active--
	if c.active == 0 {
		c.sim.SetAlphaTarget(0)
	}
	if !gravityOn && c.recorder != nil {
		x, y := n.X, n.Y
		if n.Fixed {
			x, y = n.FX, n.FY
		}
		if err := c.recorder.RecordDrag(ctx, n.ID, x, y); err != nil {
			c.logger.Warn("failed to save node position", "node", n.ID, "error", err)
		}
	}
	n.Unpin()
}

// Cancel abandons every gesture without recording.
func (c *Controller) Cancel(nodes []*topology.Node) {
	for _, n := range nodes {
		if c.dragging[n.ID] {
			n.Unpin()
		}
	}
	clear(c.dragging)
	if c.active > 0 {
		c.active = 0
		c.sim.SetAlphaTarget(0)
	}
}

func (c *Controller) hideTooltip() {
	if c.tooltip != nil {
		c.tooltip.Hide()
	}
}
