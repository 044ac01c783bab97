package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/topolayout/pkg/errors"
	"github.com/matzehuels/topolayout/pkg/layout/route"
)

// NodeState is the drawable state of one node.
type NodeState struct {
	ID              string   `json:"id"`
	Label           string   `json:"label,omitempty"`
	X               float64  `json:"x"`
	Y               float64  `json:"y"`
	Kind            string   `json:"kind"`
	Status          string   `json:"status"`
	IsNetworkDevice bool     `json:"is_network_device,omitempty"`
	Interfaces      []string `json:"interfaces,omitempty"`
	Pinned          bool     `json:"pinned,omitempty"`
	Highlighted     bool     `json:"highlighted,omitempty"`
	Selected        bool     `json:"selected,omitempty"`
}

// LinkState is the drawable state of one link.
type LinkState struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Target      string `json:"target"`
	Status      string `json:"status"`
	StatusName  string `json:"status_name,omitempty"`
	Position    string `json:"position"`
	Lane        int    `json:"lane"`
	Path        string `json:"path"`
	Highlighted bool   `json:"highlighted,omitempty"`
}

// Snapshot is a self-contained, serializable picture of a view. Renderers
// consume snapshots rather than live graphs.
type Snapshot struct {
	TopologyID    string      `json:"topology_id"`
	Gravity       bool        `json:"gravity"`
	ViewBoxWidth  float64     `json:"view_box_width"`
	ViewBoxHeight float64     `json:"view_box_height"`
	NodeDiameter  float64     `json:"node_diameter"`
	Alpha         float64     `json:"alpha"`
	Ticks         int         `json:"ticks"`
	Nodes         []NodeState `json:"nodes"`
	Links         []LinkState `json:"links"`
}

// Snapshot captures the current state. Link paths are recomputed from the
// current node positions.
func (g *Graph) Snapshot() Snapshot {
	s := Snapshot{
		TopologyID:    g.cfg.TopologyID,
		Gravity:       g.gravityOn,
		ViewBoxWidth:  g.vp.Width,
		ViewBoxHeight: g.vp.Height,
		NodeDiameter:  g.vp.NodeDiameter,
		Alpha:         g.sim.Alpha(),
		Ticks:         g.sim.Steps(),
		Nodes:         make([]NodeState, len(g.nodes)),
		Links:         make([]LinkState, 0, len(g.links)),
	}
	for i, n := range g.nodes {
		ns := NodeState{
			ID:              n.ID,
			X:               n.X,
			Y:               n.Y,
			Kind:            n.Kind.Icon(),
			Status:          n.Status.String(),
			IsNetworkDevice: n.IsNetworkDevice,
			Pinned:          n.Fixed,
			Highlighted:     g.highlighted[n.ID],
			Selected:        g.selected[n.ID],
		}
		if n.Host != nil {
			ns.Label = n.Host.Name
		}
		for _, iface := range n.Interfaces {
			ns.Interfaces = append(ns.Interfaces, iface.ID)
		}
		s.Nodes[i] = ns
	}
	for _, l := range g.links {
		p, ok := route.Route(l)
		if !ok {
			continue
		}
		s.Links = append(s.Links, LinkState{
			ID:          l.ID,
			Source:      l.SourceID,
			Target:      l.TargetID,
			Status:      l.Status.Code.String(),
			StatusName:  l.Status.Name,
			Position:    l.Position.String(),
			Lane:        l.Lane,
			Path:        p.String(),
			Highlighted: g.hotLinks[l.ID],
		})
	}
	return s
}

// WriteSnapshot encodes s as indented JSON.
func WriteSnapshot(w io.Writer, s Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout")
	}
	return s, nil
}

// ReadSnapshotFile reads a snapshot from path.
func ReadSnapshotFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout %s", path)
		}
		return Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}
