package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topolayout/pkg/layout"
	"github.com/matzehuels/topolayout/pkg/topology"
	"github.com/matzehuels/topolayout/pkg/watch"
)

const (
	// moveStep is how far one arrow key moves a node, in view box units.
	moveStep = 20.0

	// sidePanelWidth is the width of the node detail column.
	sidePanelWidth = 34

	maxEventLines = 5
)

// viewCommand opens the interactive terminal view.
func (c *CLI) viewCommand() *cobra.Command {
	var topologyID string
	var watchFile bool

	cmd := &cobra.Command{
		Use:   "view [payload]",
		Short: "Explore a topology layout interactively in the terminal",
		Long: `View runs the force simulation live in the terminal.

Keys:
  tab / shift+tab   select the next / previous node
  arrows, hjkl      move the selected node
  enter             drop a moved node, or toggle selection
  g                 toggle gravity
  r                 reload the payload file
  s                 save a layout snapshot next to the payload
  i                 show or hide node details
  q                 quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0], topologyID, watchFile)
		},
	}

	cmd.Flags().StringVarP(&topologyID, "topology", "t", "", "topology id (default: payload file name)")
	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "reload when the payload file changes")

	return cmd
}

func (c *CLI) runView(ctx context.Context, input, topologyID string, watchFile bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	// Log lines would tear the alternate screen; keep only errors.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(max(level, LogError))
	defer c.Logger.SetLevel(level)

	details := &detailPanel{visible: true}
	events := &eventLog{}
	g, err := c.openGraph(ctx, cfg, store, input, topologyID, layout.Options{Observer: events, Tooltip: details})
	if err != nil {
		return err
	}

	interval := time.Second / time.Duration(cfg.Simulation.FPS)
	m := newViewModel(ctx, g, input, interval, details, events)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if watchFile {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		w := watch.New(input, watch.WithLogger(c.Logger))
		go w.Watch(watchCtx, func(u watch.Update) { p.Send(payloadMsg(u)) })
	}

	final, err := p.Run()
	if err != nil {
		return err
	}
	if vm, ok := final.(viewModel); ok && vm.saved != "" {
		printFile(vm.saved)
	}
	return nil
}

// =============================================================================
// Collaborators
// =============================================================================

// detailPanel is the node detail column. The graph hides it while a node is
// being moved; "i" shows it again.
type detailPanel struct {
	visible bool
}

// Hide implements drag.Tooltip.
func (d *detailPanel) Hide() { d.visible = false }

// eventLog keeps the most recent graph events for the status area.
type eventLog struct {
	lines []string
}

// OnEvent implements layout.Observer.
func (l *eventLog) OnEvent(e layout.Event) {
	var line string
	switch e.Kind {
	case layout.EventGravity:
		line = "gravity " + onOff(e.Gravity)
	case layout.EventStructure:
		line = strings.TrimSpace(e.Op + " " + e.NodeID + e.LinkID)
	default:
		line = strings.TrimSpace(e.Kind.String() + " " + e.NodeID + e.LinkID)
	}
	l.lines = append(l.lines, time.Now().Format("15:04:05")+" "+line)
	if len(l.lines) > maxEventLines {
		l.lines = l.lines[len(l.lines)-maxEventLines:]
	}
}

// =============================================================================
// Model
// =============================================================================

type frameMsg time.Time

type payloadMsg watch.Update

// viewModel is the bubbletea model of the terminal view. The graph is only
// touched from Update, which bubbletea runs on a single goroutine.
type viewModel struct {
	ctx      context.Context
	g        *layout.Graph
	input    string
	interval time.Duration
	details  *detailPanel
	events   *eventLog

	cursor int
	moving bool
	width  int
	height int
	status string
	saved  string
}

func newViewModel(ctx context.Context, g *layout.Graph, input string, interval time.Duration, details *detailPanel, events *eventLog) viewModel {
	return viewModel{
		ctx:      ctx,
		g:        g,
		input:    input,
		interval: interval,
		details:  details,
		events:   events,
		width:    100,
		height:   30,
	}
}

func (m viewModel) Init() tea.Cmd {
	return m.nextFrame()
}

func (m viewModel) nextFrame() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if m.g.Active() {
			m.g.Tick()
		}
		return m, m.nextFrame()

	case payloadMsg:
		if msg.Err != nil {
			m.status = "reload failed: " + msg.Err.Error()
			return m, nil
		}
		m.reload(msg.Payload)
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m viewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	nodes := m.g.Nodes()
	key := msg.String()
	switch key {
	case "q", "ctrl+c", "esc":
		m.drop()
		return m, tea.Quit
	case "tab", "shift+tab":
		if len(nodes) == 0 {
			return m, nil
		}
		m.drop()
		if key == "tab" {
			m.cursor = (m.cursor + 1) % len(nodes)
		} else {
			m.cursor = (m.cursor - 1 + len(nodes)) % len(nodes)
		}
	case "up", "k", "down", "j", "left", "h", "right", "l":
		m.move(key)
	case "enter":
		if m.moving {
			m.drop()
		} else if n := m.current(); n != nil {
			if m.g.NodeSelected(n.ID) {
				m.g.DeselectNode(n.ID)
			} else {
				m.g.SelectNode(n.ID)
			}
		}
	case "g":
		m.g.ToggleGravity(m.ctx)
	case "r":
		p, err := topology.ReadPayloadFile(m.input)
		if err != nil {
			m.status = "reload failed: " + err.Error()
			return m, nil
		}
		m.reload(p)
	case "s":
		path := strings.TrimSuffix(m.input, filepath.Ext(m.input)) + ".layout.json"
		if err := writeSnapshotFile(path, m.g.Snapshot()); err != nil {
			m.status = "save failed: " + err.Error()
		} else {
			m.status = "saved " + path
			m.saved = path
		}
	case "i":
		m.details.visible = !m.details.visible
	}
	return m, nil
}

func (m *viewModel) current() *topology.Node {
	nodes := m.g.Nodes()
	if len(nodes) == 0 {
		return nil
	}
	m.cursor = min(m.cursor, len(nodes)-1)
	return nodes[m.cursor]
}

// move nudges the selected node, starting a drag on the first key.
func (m *viewModel) move(key string) {
	n := m.current()
	if n == nil {
		return
	}
	if !m.moving {
		if !m.g.DragStart(n.ID) {
			return
		}
		m.moving = true
	}
	x, y := n.X, n.Y
	switch key {
	case "up", "k":
		y -= moveStep
	case "down", "j":
		y += moveStep
	case "left", "h":
		x -= moveStep
	case "right", "l":
		x += moveStep
	}
	m.g.DragMove(n.ID, x, y)
}

// drop ends a keyboard drag in progress.
func (m *viewModel) drop() {
	if !m.moving {
		return
	}
	m.moving = false
	if n := m.current(); n != nil {
		m.g.DragEnd(m.ctx, n.ID)
	}
}

func (m *viewModel) reload(p *topology.Payload) {
	m.moving = false
	nodes, links := topology.Ingest(p)
	m.g.Reload(m.ctx, nodes, links)
	m.cursor = 0
	m.status = fmt.Sprintf("reloaded %d nodes, %d links", len(m.g.Nodes()), len(m.g.Links()))
}

// =============================================================================
// View
// =============================================================================

func (m viewModel) View() string {
	header := m.header()
	footer := m.footer()

	canvasWidth := m.width
	side := ""
	if m.details.visible {
		canvasWidth -= sidePanelWidth + 1
		side = m.sidePanel()
	}
	canvasHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)

	board := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorDim).
		Render(m.draw(canvasWidth-2, canvasHeight-2))

	body := board
	if side != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, board, " ", side)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m viewModel) header() string {
	cfg := m.g.Config()
	state := StyleDim.Render("resting")
	if m.g.Active() {
		state = StyleHighlight.Render(fmt.Sprintf("alpha %.3f", m.g.Simulation().Alpha()))
	}
	return fmt.Sprintf("%s  %s  %s  %s",
		StyleTitle.Render(cfg.TopologyID),
		StyleDim.Render(fmt.Sprintf("%d nodes · %d links", len(m.g.Nodes()), len(m.g.Links()))),
		StyleDim.Render("gravity ")+StyleValue.Render(onOff(m.g.GravityOn())),
		state)
}

func (m viewModel) footer() string {
	help := StyleDim.Render("tab select  arrows move  enter drop/select  g gravity  r reload  s save  i details  q quit")
	if m.status == "" {
		return help
	}
	return StyleWarning.Render(m.status) + "\n" + help
}

// draw rasterises links and nodes. The selected node is drawn last.
func (m viewModel) draw(cols, rows int) string {
	c := newCanvas(cols, rows)
	vp := m.g.Viewport()
	nodes := m.g.Nodes()

	for _, l := range m.g.Links() {
		if l.Source == nil || l.Target == nil || !l.Source.Placed() || !l.Target.Placed() {
			continue
		}
		c0, r0 := c.project(l.Source.X, l.Source.Y, vp.Width, vp.Height)
		c1, r1 := c.project(l.Target.X, l.Target.Y, vp.Width, vp.Height)
		style := statusStyle(l.Status.Code.String())
		if m.g.LinkHighlighted(l.ID) {
			style = styleLinkHot
		}
		c.line(c0, r0, c1, r1, '·', style)
	}

	for i, n := range nodes {
		if !n.Placed() || i == m.cursor {
			continue
		}
		col, row := c.project(n.X, n.Y, vp.Width, vp.Height)
		style := statusStyle(n.Status.String())
		if m.g.NodeSelected(n.ID) || m.g.NodeHighlighted(n.ID) {
			style = styleNodeMark
		}
		c.set(col, row, nodeGlyph(n), style)
	}
	if m.cursor < len(nodes) && nodes[m.cursor].Placed() {
		n := nodes[m.cursor]
		col, row := c.project(n.X, n.Y, vp.Width, vp.Height)
		style := styleNodeMark.Underline(true)
		if m.moving {
			style = styleNodeMoved
		}
		c.set(col, row, nodeGlyph(n), style)
	}
	return c.String()
}

func (m viewModel) sidePanel() string {
	var b strings.Builder
	n := m.current()
	if n == nil {
		b.WriteString(StyleDim.Render("no nodes"))
	} else {
		b.WriteString(StyleTitle.Render(n.ID) + "\n")
		row := func(k, v string) {
			b.WriteString(StyleDim.Render(fmt.Sprintf("%-9s", k)) + StyleValue.Render(v) + "\n")
		}
		row("status", statusStyle(n.Status.String()).Render(n.Status.String()))
		row("kind", n.Kind.String())
		row("position", fmt.Sprintf("%.0f, %.0f", n.X, n.Y))
		if n.Fixed {
			row("pinned", fmt.Sprintf("%.0f, %.0f", n.FX, n.FY))
		}
		if n.Host != nil {
			row("name", n.Host.Name)
			if n.Host.OSInfo != "" {
				row("os", n.Host.OSInfo)
			}
			if n.Host.MACAddress != "" {
				row("mac", n.Host.MACAddress)
			}
		}
		if n.IsNetworkDevice {
			row("ifaces", fmt.Sprintf("%d", len(n.Interfaces)))
		}
	}
	if len(m.events.lines) > 0 {
		b.WriteString("\n" + styleHeader.Render("events") + "\n")
		for _, l := range m.events.lines {
			b.WriteString(StyleDim.Render(l) + "\n")
		}
	}
	return lipgloss.NewStyle().Width(sidePanelWidth).Render(strings.TrimRight(b.String(), "\n"))
}
