package tick

import (
	"testing"

	"github.com/matzehuels/topolayout/pkg/layout/route"
	"github.com/matzehuels/topolayout/pkg/layout/viewport"
	"github.com/matzehuels/topolayout/pkg/topology"
)

var vp = viewport.Viewport{Width: 2000, Height: 750, NodeDiameter: 48}

func TestApplyClamps(t *testing.T) {
	tests := []struct {
		name         string
		x, y         float64
		wantX, wantY float64
	}{
		{"inside", 500, 300, 500, 300},
		{"top left", -100, 10, 24, 24},
		{"bottom right", 5000, 900, 1976, 726},
		{"on bound", 24, 726, 24, 726},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := topology.NewNode("a")
			n.X, n.Y = tt.x, tt.y
			var c Coordinator
			f := c.Apply([]*topology.Node{n}, nil, vp)

			if n.X != tt.wantX || n.Y != tt.wantY {
				t.Errorf("node = (%v,%v), want (%v,%v)", n.X, n.Y, tt.wantX, tt.wantY)
			}
			if f.Nodes[0].X != tt.wantX || f.Nodes[0].Y != tt.wantY {
				t.Errorf("frame = (%v,%v), want (%v,%v)", f.Nodes[0].X, f.Nodes[0].Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestApplyRoutesFromClampedEndpoints(t *testing.T) {
	a, b := topology.NewNode("a"), topology.NewNode("b")
	a.X, a.Y = -50, 100
	b.X, b.Y = 300, 100
	l := &topology.Link{ID: "1", SourceID: "a", TargetID: "b", Source: a, Target: b}
	route.Classify([]*topology.Link{l})

	var c Coordinator
	f := c.Apply([]*topology.Node{a, b}, []*topology.Link{l}, vp)

	want := "M 24,100 L 162,100 L 300,100"
	if l.Path != want {
		t.Errorf("Path = %q, want %q", l.Path, want)
	}
	if len(f.Links) != 1 || f.Links[0].Path != want {
		t.Errorf("frame links = %+v", f.Links)
	}
	if f.Links[0].Position != "single" {
		t.Errorf("Position = %q, want single", f.Links[0].Position)
	}
}

func TestApplySkipsUnboundLinks(t *testing.T) {
	var c Coordinator
	f := c.Apply(nil, []*topology.Link{{ID: "1", SourceID: "a", TargetID: "b"}}, vp)
	if len(f.Links) != 0 {
		t.Errorf("frame links = %d, want 0", len(f.Links))
	}
	if f.Seq != 1 || c.Seq() != 1 {
		t.Errorf("Seq = %d, want 1", f.Seq)
	}
}

func TestApplyInvariantHolds(t *testing.T) {
	var nodes []*topology.Node
	for i, p := range [][2]float64{{-1, -1}, {1e6, 3}, {100, 1e6}, {1000, 375}} {
		n := topology.NewNode(string(rune('a' + i)))
		n.X, n.Y = p[0], p[1]
		nodes = append(nodes, n)
	}
	var c Coordinator
	c.Apply(nodes, nil, vp)
	for _, n := range nodes {
		if !vp.Contains(n.X, n.Y) {
			t.Errorf("node %s at (%v,%v) outside viewport", n.ID, n.X, n.Y)
		}
	}
}
