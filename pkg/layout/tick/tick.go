// Package tick implements the per-frame callback that turns simulation state
// into drawable geometry.
//
// [Coordinator.Apply] clamps every node into the viewport, writing the clamped
// position back so the simulation continues from it, then routes every link
// from its clamped endpoints. It allocates only the returned [Frame] and never
// blocks.
package tick

import (
	"github.com/matzehuels/topolayout/pkg/layout/route"
	"github.com/matzehuels/topolayout/pkg/layout/viewport"
	"github.com/matzehuels/topolayout/pkg/topology"
)

// NodeFrame is the translation of one node.
type NodeFrame struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Pinned bool    `json:"pinned,omitempty"`
}

// LinkFrame is the routed geometry of one link.
type LinkFrame struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Position string `json:"position"`
	Path     string `json:"path"`
}

// Frame is everything a renderer needs to draw one tick.
type Frame struct {
	Seq   int         `json:"seq"`
	Alpha float64     `json:"alpha"`
	Nodes []NodeFrame `json:"nodes"`
	Links []LinkFrame `json:"links"`
}

// Coordinator produces frames. The zero value is ready to use.
type Coordinator struct {
	seq int
}

// Apply clamps nodes, routes links and returns the resulting frame.
// Links whose endpoints have not been bound are left out of the frame.
func (c *Coordinator) Apply(nodes []*topology.Node, links []*topology.Link, vp viewport.Viewport) Frame {
	c.seq++
	f := Frame{
		Seq:   c.seq,
		Nodes: make([]NodeFrame, len(nodes)),
		Links: make([]LinkFrame, 0, len(links)),
	}

	for i, n := range nodes {
		n.X, n.Y = vp.Clamp(n.X, n.Y)
		f.Nodes[i] = NodeFrame{ID: n.ID, X: n.X, Y: n.Y, Pinned: n.Fixed}
	}

	for _, l := range links {
		p, ok := route.Route(l)
		if !ok {
			continue
		}
		l.Path = p.String()
		f.Links = append(f.Links, LinkFrame{
			ID:       l.ID,
			Source:   l.SourceID,
			Target:   l.TargetID,
			Position: l.Position.String(),
			Path:     l.Path,
		})
	}
	return f
}

// Seq returns the number of frames produced so far.
func (c *Coordinator) Seq() int { return c.seq }
