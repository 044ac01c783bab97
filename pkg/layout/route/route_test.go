package route

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/topolayout/pkg/topology"
)

func link(id, s, t string) *topology.Link {
	return &topology.Link{ID: id, SourceID: s, TargetID: t}
}

func bind(l *topology.Link, nodes map[string]*topology.Node) {
	l.Bind(func(id string) *topology.Node { return nodes[id] })
}

func node(id string, x, y float64) *topology.Node {
	n := topology.NewNode(id)
	n.X, n.Y = x, y
	return n
}

func TestClassifySingle(t *testing.T) {
	links := []*topology.Link{link("1", "a", "b"), link("2", "b", "c"), link("3", "a", "c")}
	Classify(links)
	for _, l := range links {
		if l.Position != topology.PositionSingle {
			t.Errorf("link %s Position = %v, want single", l.ID, l.Position)
		}
		if l.Lane != 0 || l.Lanes != 1 {
			t.Errorf("link %s lane = %d/%d, want 0/1", l.ID, l.Lane, l.Lanes)
		}
	}
}

func TestClassifyPairs(t *testing.T) {
	tests := []struct {
		name      string
		first     *topology.Link
		second    *topology.Link
		wantLanes [2]int
	}{
		{"opposite direction", link("1", "a", "b"), link("2", "b", "a"), [2]int{1, 1}},
		{"same direction", link("1", "a", "b"), link("2", "a", "b"), [2]int{1, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links := []*topology.Link{tt.first, link("x", "a", "c"), tt.second}
			Classify(links)

			if tt.first.Position != topology.PositionPrimary {
				t.Errorf("first Position = %v, want primary", tt.first.Position)
			}
			if tt.second.Position != topology.PositionSecondary {
				t.Errorf("second Position = %v, want secondary", tt.second.Position)
			}
			if tt.first.Position == tt.second.Position {
				t.Error("parallel links must not share a position")
			}
			if got := [2]int{tt.first.Lane, tt.second.Lane}; got != tt.wantLanes {
				t.Errorf("lanes = %v, want %v", got, tt.wantLanes)
			}
			if links[1].Position != topology.PositionSingle {
				t.Errorf("unrelated link Position = %v, want single", links[1].Position)
			}
		})
	}
}

func TestClassifyThreeParallel(t *testing.T) {
	links := []*topology.Link{link("1", "a", "b"), link("2", "a", "b"), link("3", "b", "a")}
	Classify(links)

	wantPos := []topology.Position{topology.PositionPrimary, topology.PositionSecondary, topology.PositionSecondary}
	wantLane := []int{2, 0, 2}
	for i, l := range links {
		if l.Position != wantPos[i] {
			t.Errorf("link %s Position = %v, want %v", l.ID, l.Position, wantPos[i])
		}
		if l.Lane != wantLane[i] {
			t.Errorf("link %s Lane = %d, want %d", l.ID, l.Lane, wantLane[i])
		}
		if l.Lanes != 3 {
			t.Errorf("link %s Lanes = %d, want 3", l.ID, l.Lanes)
		}
	}

	// All three must be drawn apart.
	nodes := map[string]*topology.Node{"a": node("a", 0, 0), "b": node("b", 100, 0)}
	seen := map[float64]bool{}
	for _, l := range links {
		bind(l, nodes)
		p, _ := Route(l)
		y := math.Round(p.Mid.Y)
		if seen[y] {
			t.Errorf("link %s overlaps another at y=%v", l.ID, y)
		}
		seen[y] = true
	}
}

func TestDuplicatePairOffsetsOppositeSign(t *testing.T) {
	nodes := map[string]*topology.Node{
		"A": node("A", 100, 100),
		"B": node("B", 400, 250),
		"C": node("C", 600, 600),
	}
	links := []*topology.Link{link("1", "A", "B"), link("2", "A", "B")}
	Classify(links)

	var offsets []r2.Vec
	for _, l := range links {
		bind(l, nodes)
		p, ok := Route(l)
		if !ok {
			t.Fatalf("Route(%s) not bound", l.ID)
		}
		offsets = append(offsets, r2.Sub(p.Start, r2.Vec{X: l.Source.X, Y: l.Source.Y}))
	}

	if r2.Dot(offsets[0], offsets[1]) >= 0 {
		t.Errorf("offsets %v and %v should have opposite sign", offsets[0], offsets[1])
	}
	for i, o := range offsets {
		if got := r2.Norm(o); math.Abs(got-Offset) > 1e-9 {
			t.Errorf("offset %d length = %v, want %v", i, got, Offset)
		}
	}
}

func TestOppositePairSeparates(t *testing.T) {
	nodes := map[string]*topology.Node{"a": node("a", 0, 0), "b": node("b", 0, 100)}
	links := []*topology.Link{link("1", "a", "b"), link("2", "b", "a")}
	Classify(links)

	var mids []r2.Vec
	for _, l := range links {
		bind(l, nodes)
		p, _ := Route(l)
		mids = append(mids, p.Mid)
	}
	if mids[0] == mids[1] {
		t.Errorf("vertical opposite pair overlaps at %v", mids[0])
	}
	if d := r2.Norm(r2.Sub(mids[0], mids[1])); math.Abs(d-2*Offset) > 1e-9 {
		t.Errorf("lane separation = %v, want %v", d, 2*Offset)
	}
}

func TestPathString(t *testing.T) {
	p := Between(r2.Vec{X: 10, Y: 20}, r2.Vec{X: 30, Y: 40}, 0)
	want := "M 10,20 L 20,30 L 30,40"
	if got := p.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	p = Between(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 100, Y: 0}, 1)
	want = "M 0,10 L 50,10 L 100,10"
	if got := p.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestLaneOffsetMatchesQuadrantRule(t *testing.T) {
	// Off-axis segments: the offset is (-dy, dx)/l·r in every quadrant.
	tests := []struct {
		name     string
		src, dst r2.Vec
	}{
		{"down right", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 30, Y: 40}},
		{"down left", r2.Vec{X: 30, Y: 0}, r2.Vec{X: 0, Y: 40}},
		{"up left", r2.Vec{X: 30, Y: 40}, r2.Vec{X: 0, Y: 0}},
		{"up right", r2.Vec{X: 0, Y: 40}, r2.Vec{X: 30, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := r2.Sub(tt.dst, tt.src)
			want := r2.Vec{X: -d.Y / 50 * Offset, Y: d.X / 50 * Offset}
			got := LaneOffset(tt.src, tt.dst, 1)
			if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
				t.Errorf("LaneOffset() = %v, want %v", got, want)
			}
		})
	}

	if got := LaneOffset(r2.Vec{X: 5, Y: 5}, r2.Vec{X: 5, Y: 5}, 1); got != (r2.Vec{}) {
		t.Errorf("coincident endpoints offset = %v, want zero", got)
	}
}

func TestRouteUnbound(t *testing.T) {
	if _, ok := Route(link("1", "a", "b")); ok {
		t.Error("Route(unbound) ok = true, want false")
	}
}

func TestIsShort(t *testing.T) {
	// a-b is a pendant edge (a has one link); b-c and b-d hang off a hub.
	links := []*topology.Link{
		link("1", "a", "b"),
		link("2", "b", "c"),
		link("3", "b", "d"),
		link("4", "c", "d"),
	}
	tests := []struct {
		link *topology.Link
		want bool
	}{
		{links[0], true},
		{links[1], false},
		{links[2], false},
		{links[3], false},
	}
	for _, tt := range tests {
		if got := IsShort(tt.link, links); got != tt.want {
			t.Errorf("IsShort(%s) = %v, want %v", tt.link.ID, got, tt.want)
		}
	}
}

func TestConnectionCount(t *testing.T) {
	var links []*topology.Link
	for _, peer := range []string{"b", "c", "d", "e", "f", "g", "h"} {
		links = append(links, link(peer, "hub", peer))
	}
	if got := ConnectionCount("hub", links); got != MaxConnections {
		t.Errorf("ConnectionCount(hub) = %d, want %d", got, MaxConnections)
	}
	if got := ConnectionCount("b", links); got != 1 {
		t.Errorf("ConnectionCount(b) = %d, want 1", got)
	}
	if got := ConnectionCount("zzz", links); got != 0 {
		t.Errorf("ConnectionCount(zzz) = %d, want 0", got)
	}
}

func TestGroup(t *testing.T) {
	links := []*topology.Link{link("1", "a", "b"), link("2", "c", "d"), link("3", "b", "a")}
	g := Group(links[0], links)
	if len(g) != 2 || g[0].ID != "1" || g[1].ID != "3" {
		t.Errorf("Group() = %v, want links 1 and 3", g)
	}
}

func TestCollisionRadius(t *testing.T) {
	tests := []struct {
		count int
		want  float64
	}{
		{0, 50}, {1, 50}, {2, 80}, {4, 80}, {5, 120},
	}
	for _, tt := range tests {
		if got := CollisionRadius(tt.count); got != tt.want {
			t.Errorf("CollisionRadius(%d) = %v, want %v", tt.count, got, tt.want)
		}
	}
}
