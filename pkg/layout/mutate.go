package layout

import (
	"context"
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/topolayout/pkg/observability"
	"github.com/matzehuels/topolayout/pkg/topology"
)

// Endpoint selects which end of a link a device is attached to.
type Endpoint uint8

const (
	EndpointFrom Endpoint = iota
	EndpointTo
)

// LinkOp selects how a device link is applied.
type LinkOp uint8

const (
	LinkCreate LinkOp = iota
	LinkUpdate
)

// =============================================================================
// Structural Mutations
// =============================================================================

// AddNode inserts n at a random position inside the viewport and restarts
// the simulation. It reports false if a node with the same id exists.
func (g *Graph) AddNode(ctx context.Context, n *topology.Node) bool {
	if n == nil || n.ID == "" || g.byID[n.ID] != nil {
		return false
	}
	if !n.Placed() {
		n.X = math.Round(g.rng.Float64() * g.vp.Width)
		n.Y = math.Round(g.rng.Float64() * g.vp.Height)
	}
	n.Resolve()
	g.nodes = append(g.nodes, n)
	g.byID[n.ID] = n
	g.rebind()
	g.sim.Reheat()
	g.structureChanged(ctx, "add_node", n.ID, "")
	return true
}

// CreateLink appends l if both endpoints exist and no link runs in the same
// direction between them. A missing id is generated.
func (g *Graph) CreateLink(ctx context.Context, l *topology.Link) bool {
	if l == nil || g.byID[l.SourceID] == nil || g.byID[l.TargetID] == nil {
		return false
	}
	if g.sameDirection(l.SourceID, l.TargetID) != nil {
		return false
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	} else if g.Link(l.ID) != nil {
		return false
	}
	g.links = append(g.links, l)
	g.rebind()
	g.sim.Reheat()
	g.structureChanged(ctx, "create_link", "", l.ID)
	return true
}

// UpdateLink sets the status of the link running from l.SourceID to
// l.TargetID, or creates l if there is none. It reports whether anything
// changed.
func (g *Graph) UpdateLink(ctx context.Context, l *topology.Link) bool {
	if l == nil {
		return false
	}
	if existing := g.sameDirection(l.SourceID, l.TargetID); existing != nil {
		if existing.Status == l.Status {
			return false
		}
		existing.Status = l.Status
		return true
	}
	return g.CreateLink(ctx, l)
}

// SetNetworkDeviceLink rewrites one endpoint of l to the device and then
// creates or updates it.
func (g *Graph) SetNetworkDeviceLink(ctx context.Context, l *topology.Link, end Endpoint, deviceID string, op LinkOp) bool {
	if l == nil {
		return false
	}
	if end == EndpointFrom {
		l.SourceID = deviceID
	} else {
		l.TargetID = deviceID
	}
	if op == LinkCreate {
		return g.CreateLink(ctx, l)
	}
	return g.UpdateLink(ctx, l)
}

// RemoveLink deletes the link with the given id.
func (g *Graph) RemoveLink(ctx context.Context, id string) bool {
	i := slices.IndexFunc(g.links, func(l *topology.Link) bool { return l.ID == id })
	if i < 0 {
		return false
	}
	g.links = slices.Delete(g.links, i, i+1)
	delete(g.hotLinks, id)
	g.rebind()
	g.structureChanged(ctx, "remove_link", "", id)
	return true
}

func (g *Graph) sameDirection(source, target string) *topology.Link {
	for _, l := range g.links {
		if l.SourceID == source && l.TargetID == target {
			return l
		}
	}
	return nil
}

func (g *Graph) structureChanged(ctx context.Context, op, nodeID, linkID string) {
	observability.Simulation().OnMutation(ctx, g.cfg.TopologyID, op)
	g.logger.Debug("topology changed", "op", op, "nodes", len(g.nodes), "links", len(g.links))
	g.observer.OnEvent(Event{Kind: EventStructure, Op: op, NodeID: nodeID, LinkID: linkID})
}

// =============================================================================
// Host and Device Updates
// =============================================================================

// AddNetworkDevice attaches iface to the device and recomputes its status.
// It reports false if the device is unknown or already has the interface.
func (g *Graph) AddNetworkDevice(deviceID string, iface *topology.Node) bool {
	d := g.byID[deviceID]
	if d == nil || !d.IsNetworkDevice {
		return false
	}
	return d.AddInterface(iface)
}

// UpdateNetworkDevice replaces the host record of the device interface whose
// id matches host.HostIP and recomputes the device status.
func (g *Graph) UpdateNetworkDevice(deviceID string, host *topology.Host) bool {
	d := g.byID[deviceID]
	if d == nil || host == nil {
		return false
	}
	iface := d.Interface(host.HostIP)
	if iface == nil {
		return false
	}
	iface.Host = host
	iface.Resolve()
	d.Resolve()
	return true
}

// UpdateHost replaces the host record of the node whose id matches
// host.HostIP and re-resolves its kind and status.
func (g *Graph) UpdateHost(host *topology.Host) bool {
	if host == nil {
		return false
	}
	n := g.byID[host.HostIP]
	if n == nil {
		return false
	}
	n.Host = host
	n.Resolve()
	return true
}

// =============================================================================
// Gravity and Reload
// =============================================================================

// SetGravity installs the force set for on and records it. Turning gravity
// off again re-snapshots positions even though forces do not change.
// Turning it on reheats the simulation.
func (g *Graph) SetGravity(ctx context.Context, on bool) {
	g.gravityOn = on
	g.applyForces()
	if on {
		g.sim.Reheat()
	}
	if err := g.store.RecordGravityToggle(ctx, g.nodes, on); err != nil {
		g.logger.Warn("could not save gravity", "gravity", on, "error", err)
	}
	observability.Simulation().OnMutation(ctx, g.cfg.TopologyID, "gravity")
	g.logger.Debug("gravity changed", "gravity", on)
	g.observer.OnEvent(Event{Kind: EventGravity, Gravity: on})
}

// ToggleGravity flips gravity and returns the new state.
func (g *Graph) ToggleGravity(ctx context.Context) bool {
	g.SetGravity(ctx, !g.gravityOn)
	return g.gravityOn
}

// Reload replaces the whole data set and rebuilds the view, reapplying saved
// positions. Gestures in progress are abandoned.
func (g *Graph) Reload(ctx context.Context, nodes []*topology.Node, links []*topology.Link) {
	g.drag.Cancel(g.nodes)
	g.build(ctx, nodes, links)
	observability.Simulation().OnMutation(ctx, g.cfg.TopologyID, "reload")
	g.observer.OnEvent(Event{Kind: EventReload})
}

// =============================================================================
// Highlight and Selection
// =============================================================================

// HighlightNode sets or clears the highlight of a node.
func (g *Graph) HighlightNode(id string, on bool) bool {
	return toggle(g.highlighted, id, on, g.byID[id] != nil)
}

// HighlightLink sets or clears the highlight of the link running from
// source to target.
func (g *Graph) HighlightLink(source, target string, on bool) bool {
	l := g.sameDirection(source, target)
	if l == nil {
		return false
	}
	return toggle(g.hotLinks, l.ID, on, true)
}

// SelectNode marks a node as selected.
func (g *Graph) SelectNode(id string) bool {
	return toggle(g.selected, id, true, g.byID[id] != nil)
}

// DeselectNode clears the selection of a node.
func (g *Graph) DeselectNode(id string) bool {
	return toggle(g.selected, id, false, g.byID[id] != nil)
}

// ClearSelection deselects every node.
func (g *Graph) ClearSelection() { clear(g.selected) }

// Selected returns the selected node ids in node order.
func (g *Graph) Selected() []string {
	var ids []string
	for _, n := range g.nodes {
		if g.selected[n.ID] {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// NodeHighlighted reports whether the node is highlighted.
func (g *Graph) NodeHighlighted(id string) bool { return g.highlighted[id] }

// NodeSelected reports whether the node is selected.
func (g *Graph) NodeSelected(id string) bool { return g.selected[id] }

// LinkHighlighted reports whether the link is highlighted.
func (g *Graph) LinkHighlighted(id string) bool { return g.hotLinks[id] }

func toggle(set map[string]bool, id string, on, exists bool) bool {
	if !exists {
		return false
	}
	if on {
		set[id] = true
	} else {
		delete(set, id)
	}
	return true
}

// =============================================================================
// Pointer Notifications
// =============================================================================

// ClickNode forwards a click on a node to the observer.
func (g *Graph) ClickNode(id string) { g.notifyNode(EventNodeClick, id) }

// DoubleClickNode forwards a double click on a node to the observer.
func (g *Graph) DoubleClickNode(id string) { g.notifyNode(EventNodeDoubleClick, id) }

// ClickLink forwards a click on a link to the observer.
func (g *Graph) ClickLink(id string) { g.notifyLink(EventLinkClick, id) }

// DoubleClickLink forwards a double click on a link to the observer.
func (g *Graph) DoubleClickLink(id string) { g.notifyLink(EventLinkDoubleClick, id) }

func (g *Graph) notifyNode(kind EventKind, id string) {
	if g.byID[id] != nil {
		g.observer.OnEvent(Event{Kind: kind, NodeID: id})
	}
}

func (g *Graph) notifyLink(kind EventKind, id string) {
	if g.Link(id) != nil {
		g.observer.OnEvent(Event{Kind: kind, LinkID: id})
	}
}
