package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/topolayout/pkg/errors"
	"github.com/matzehuels/topolayout/pkg/layout"
)

// DOTOptions configures [ToDOT].
type DOTOptions struct {
	// Labels shows node labels. When false nodes are drawn as bare circles.
	Labels bool
}

// ToDOT converts a snapshot to Graphviz DOT for the neato engine.
// Every node is pinned at its layout position (y flipped, since Graphviz
// grows upwards), so neato only routes the edges.
func ToDOT(s layout.Snapshot, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=circle, fixedsize=true, width=%.3f, style=filled, fillcolor=white, penwidth=2, fontsize=10];\n",
		s.NodeDiameter/72)
	fmt.Fprintf(&buf, "  edge [penwidth=%.0f, arrowsize=0.6];\n", linkWidth)
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, s.ViewBoxHeight, opts.Labels), ", "))
	}

	buf.WriteString("\n")
	for _, l := range s.Links {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", l.Source, l.Target, strings.Join(linkAttrs(l), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n layout.NodeState, height float64, labels bool) []string {
	label := ""
	if labels {
		label = nodeLabel(n)
	}
	marked := n.Highlighted || n.Selected
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("pos=\"%.1f,%.1f!\"", n.X, height-n.Y),
		fmt.Sprintf("color=%q", NodeColor(n.Status, marked)),
		fmt.Sprintf("tooltip=%q", nodeLabel(n)),
	}
	if n.IsNetworkDevice {
		attrs = append(attrs, "shape=doublecircle", fmt.Sprintf("fillcolor=%q", "#e3f2fd"))
	}
	return attrs
}

func linkAttrs(l layout.LinkState) []string {
	attrs := []string{
		fmt.Sprintf("id=%q", "link-"+l.ID),
		fmt.Sprintf("color=%q", LinkColor(l.Status, l.Highlighted)),
	}
	if l.Status == "network" {
		attrs = append(attrs, "style=dashed")
	}
	if l.Highlighted {
		attrs = append(attrs, fmt.Sprintf("penwidth=%.0f", highlightLinkWidth))
	}
	return attrs
}

// RenderGraphviz renders DOT source with the neato engine. format is
// [FormatSVG] or [FormatPNG].
func RenderGraphviz(ctx context.Context, dot, format string) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "graphviz cannot render %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if format == FormatSVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel-sized one so the output scales like [RenderSVG]'s.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
