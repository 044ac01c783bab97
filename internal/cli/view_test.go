package cli

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/topolayout/pkg/config"
	"github.com/matzehuels/topolayout/pkg/kv"
	"github.com/matzehuels/topolayout/pkg/layout"
	"github.com/matzehuels/topolayout/pkg/topology"
	"github.com/matzehuels/topolayout/pkg/watch"
)

func TestCanvasLine(t *testing.T) {
	tests := []struct {
		name           string
		c0, r0, c1, r1 int
		want           string
	}{
		{"diagonal steps", 0, 0, 4, 2, "A    \n ··  \n   ·B"},
		{"horizontal", 0, 1, 4, 1, "     \nA···B\n     "},
		{"reverse", 4, 2, 0, 0, "B·   \n  ·· \n    A"},
		{"adjacent", 1, 1, 2, 1, "     \n AB  \n     "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCanvas(5, 3)
			c.line(tt.c0, tt.r0, tt.c1, tt.r1, '·', lipgloss.NewStyle())
			c.set(tt.c0, tt.r0, 'A', lipgloss.NewStyle())
			c.set(tt.c1, tt.r1, 'B', lipgloss.NewStyle())
			if got := c.String(); got != tt.want {
				t.Errorf("canvas = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCanvasProjectClamps(t *testing.T) {
	c := newCanvas(11, 6)
	tests := []struct {
		x, y             float64
		wantCol, wantRow int
	}{
		{0, 0, 0, 0},
		{100, 50, 10, 5},
		{50, 25, 5, 3},
		{-20, 500, 0, 5},
	}
	for _, tt := range tests {
		col, row := c.project(tt.x, tt.y, 100, 50)
		if col != tt.wantCol || row != tt.wantRow {
			t.Errorf("project(%v, %v) = (%d, %d), want (%d, %d)", tt.x, tt.y, col, row, tt.wantCol, tt.wantRow)
		}
	}
}

func TestNodeGlyph(t *testing.T) {
	device := topology.NewNode("d")
	device.IsNetworkDevice = true
	host := topology.NewNode("h")
	host.Kind = topology.HostKind("printer")

	tests := []struct {
		node *topology.Node
		want rune
	}{
		{device, '◆'},
		{host, '●'},
		{topology.NewNode("u"), '○'},
	}
	for _, tt := range tests {
		if got := nodeGlyph(tt.node); got != tt.want {
			t.Errorf("nodeGlyph(%s) = %q, want %q", tt.node.ID, got, tt.want)
		}
	}
}

func newTestViewModel(t *testing.T) viewModel {
	t.Helper()
	ctx := context.Background()
	p, err := topology.ReadPayload(strings.NewReader(officePayload), topology.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	nodes, links := topology.Ingest(p)
	details := &detailPanel{visible: true}
	events := &eventLog{}
	cfg := config.Default()
	g, err := layout.New(ctx, cfg.Layout("office"), nodes, links, layout.Options{
		Store:    kv.NewMemory(),
		Observer: events,
		Tooltip:  details,
		Logger:   newLogger(io.Discard, LogInfo),
	})
	if err != nil {
		t.Fatal(err)
	}
	return newViewModel(ctx, g, "office.json", 10*time.Millisecond, details, events)
}

func press(t *testing.T, m viewModel, keys ...string) viewModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(viewModel)
	}
	return m
}

func TestViewModelMoveAndDrop(t *testing.T) {
	m := newTestViewModel(t)
	m = press(t, m, "g") // gravity off so the drop is recorded
	n := m.current()
	x0 := n.X

	m = press(t, m, "right")
	if !m.moving || !n.Fixed {
		t.Fatal("arrow key did not start a drag")
	}
	if m.details.visible {
		t.Error("detail panel still visible while moving")
	}
	vp := m.g.Viewport()
	wantX, _ := vp.Clamp(x0+moveStep, n.Y)
	if n.X != wantX {
		t.Errorf("X = %v, want %v", n.X, wantX)
	}

	m = press(t, m, "enter")
	if m.moving || m.g.Dragging(n.ID) {
		t.Error("enter did not end the drag")
	}
	if saved, ok := m.g.Saved().Lookup(n.ID); !ok || saved.X != n.X {
		t.Errorf("saved entry = %+v, %v; want X %v", saved, ok, n.X)
	}
}

func TestViewModelSelectionAndGravity(t *testing.T) {
	m := newTestViewModel(t)
	m = press(t, m, "tab", "enter")
	id := m.g.Nodes()[1].ID
	if !m.g.NodeSelected(id) {
		t.Errorf("node %s not selected after tab, enter", id)
	}
	m = press(t, m, "enter")
	if m.g.NodeSelected(id) {
		t.Errorf("node %s still selected after second enter", id)
	}

	m = press(t, m, "g")
	if m.g.GravityOn() {
		t.Error("gravity still on after g")
	}
	if len(m.events.lines) == 0 || !strings.Contains(m.events.lines[len(m.events.lines)-1], "gravity off") {
		t.Errorf("events = %v, want a gravity line", m.events.lines)
	}
}

func TestViewModelReloadFromWatch(t *testing.T) {
	m := newTestViewModel(t)
	p := &topology.Payload{IPs: []topology.IPRecord{{DiscoveredIP: "10.0.0.9"}}}

	next, _ := m.Update(payloadMsg(watch.Update{Payload: p}))
	m = next.(viewModel)
	if len(m.g.Nodes()) != 1 || m.g.Nodes()[0].ID != "10.0.0.9" {
		t.Errorf("nodes after reload = %d", len(m.g.Nodes()))
	}

	next, _ = m.Update(payloadMsg(watch.Update{Err: io.ErrUnexpectedEOF}))
	m = next.(viewModel)
	if !strings.Contains(m.status, "reload failed") {
		t.Errorf("status = %q, want reload failure", m.status)
	}
}

func TestViewModelRenders(t *testing.T) {
	m := newTestViewModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 90, Height: 24})
	m = next.(viewModel)
	out := m.View()
	for _, want := range []string{"office", "3 nodes", "gravity", "10.0.0.1"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
