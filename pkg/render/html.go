package render

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/matzehuels/topolayout/pkg/layout"
)

// DefaultHTMLTitle is the page title used when none is given.
const DefaultHTMLTitle = "topolayout"

// RenderHTML writes a standalone echarts page showing s. Nodes keep their
// computed coordinates; the page only lets the viewer pan and zoom.
func RenderHTML(w io.Writer, s layout.Snapshot, title string) error {
	if title == "" {
		title = DefaultHTMLTitle
		if s.TopologyID != "" {
			title += " · " + s.TopologyID
		}
	}
	return graphChart(s, title).Render(w)
}

func graphChart(s layout.Snapshot, title string) *charts.Graph {
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Height:    "100vh",
			Width:     "100vw",
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	graph.AddSeries(
		"topology",
		graphNodes(s),
		graphLinks(s),
		charts.WithGraphChartOpts(opts.GraphChart{
			Layout:     "none",
			Roam:       opts.Bool(true),
			Draggable:  opts.Bool(false),
			EdgeSymbol: []string{"none", "arrow"},
		}),
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Color:    "black",
			Position: "bottom",
		}),
	)
	return graph
}

func graphNodes(s layout.Snapshot) []opts.GraphNode {
	nodes := make([]opts.GraphNode, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		symbol := "circle"
		if n.IsNetworkDevice {
			symbol = "roundRect"
		}
		nodes = append(nodes, opts.GraphNode{
			Name:       n.ID,
			X:          float32(n.X),
			Y:          float32(n.Y),
			Fixed:      opts.Bool(true),
			Symbol:     symbol,
			SymbolSize: s.NodeDiameter / 2,
			ItemStyle: &opts.ItemStyle{
				Color:       "#ffffff",
				BorderColor: NodeColor(n.Status, n.Highlighted || n.Selected),
				BorderWidth: 2,
			},
		})
	}
	return nodes
}

func graphLinks(s layout.Snapshot) []opts.GraphLink {
	links := make([]opts.GraphLink, 0, len(s.Links))
	for _, l := range s.Links {
		style := &opts.LineStyle{
			Color: LinkColor(l.Status, l.Highlighted),
			Width: float32(linkWidth),
		}
		if l.Highlighted {
			style.Width = float32(highlightLinkWidth)
		}
		if l.Status == "network" {
			style.Type = "dashed"
		}
		if l.Lane != 0 {
			style.Curveness = 0.1 * float32(l.Lane)
		}
		links = append(links, opts.GraphLink{
			Source:    l.Source,
			Target:    l.Target,
			LineStyle: style,
		})
	}
	return links
}
