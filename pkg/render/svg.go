package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/topolayout/pkg/layout"
)

const linkInteractionCSS = `
    .link { transition: stroke-width 0.2s ease; }
    .link:hover { stroke-width: 6; }
    .node circle.body { transition: stroke-width 0.2s ease; }
    .node:hover circle.body { stroke-width: 4; }
    .label { font: 12px sans-serif; fill: #424242; pointer-events: none; }`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels     bool
	background string
}

// WithLabels draws each node's label (or ID) under it.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithBackground fills the canvas with color.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG draws s in its own view box. Links are drawn below nodes.
func RenderSVG(s layout.Snapshot, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.ViewBoxWidth, s.ViewBoxHeight, s.ViewBoxWidth, s.ViewBoxHeight)
	renderDefs(&buf)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", html.EscapeString(r.background))
	}

	buf.WriteString(`  <g class="links">` + "\n")
	for _, l := range s.Links {
		renderLink(&buf, l)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range s.Nodes {
		renderNode(&buf, n, s.NodeDiameter, r.labels)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	buf.WriteString(`    <marker id="arrow" viewBox="0 -5 10 10" refX="5" refY="0" markerWidth="4" markerHeight="4" orient="auto">` +
		`<path d="M0,-5L10,0L0,5" fill="context-stroke"/></marker>` + "\n")
	buf.WriteString("    <style>" + linkInteractionCSS + "\n    </style>\n")
	buf.WriteString("  </defs>\n")
}

func renderLink(buf *bytes.Buffer, l layout.LinkState) {
	width := linkWidth
	if l.Highlighted {
		width = highlightLinkWidth
	}
	dash := ""
	if l.Status == "network" && !l.Highlighted {
		dash = fmt.Sprintf(` stroke-dasharray="%s"`, networkDash)
	}
	fmt.Fprintf(buf, `    <path id="link-%s" class="link %s" d="%s" fill="none" stroke="%s" stroke-width="%.0f"%s marker-mid="url(#arrow)"><title>%s</title></path>`+"\n",
		html.EscapeString(l.ID), l.Status, l.Path, LinkColor(l.Status, l.Highlighted), width, dash,
		html.EscapeString(linkTitle(l)))
}

func linkTitle(l layout.LinkState) string {
	title := l.Source + " → " + l.Target
	if l.StatusName != "" {
		title += " (" + l.StatusName + ")"
	}
	return title
}

func renderNode(buf *bytes.Buffer, n layout.NodeState, diameter float64, labels bool) {
	fmt.Fprintf(buf, `    <g id="node-%s" class="node %s" transform="translate(%.1f,%.1f)">`+"\n",
		html.EscapeString(n.ID), html.EscapeString(n.Kind), n.X, n.Y)
	if n.IsNetworkDevice {
		fmt.Fprintf(buf, `      <circle class="ring" r="%.1f" fill="none" stroke="%s" stroke-width="2" stroke-dasharray="%s"/>`+"\n",
			diameter/1.5, colorDevice, deviceDash)
	}
	marked := n.Highlighted || n.Selected
	width := 2.0
	if marked {
		width = 4
	}
	fmt.Fprintf(buf, `      <circle class="body" r="%.1f" fill="#ffffff" stroke="%s" stroke-width="%.0f"><title>%s</title></circle>`+"\n",
		diameter/2, NodeColor(n.Status, marked), width, html.EscapeString(nodeLabel(n)))
	if labels {
		fmt.Fprintf(buf, `      <text class="label" y="%.1f" text-anchor="middle">%s</text>`+"\n",
			diameter/2+14, html.EscapeString(nodeLabel(n)))
	}
	buf.WriteString("    </g>\n")
}

func nodeLabel(n layout.NodeState) string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}
