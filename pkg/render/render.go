package render

import (
	"bytes"
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/topolayout/pkg/errors"
	"github.com/matzehuels/topolayout/pkg/layout"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatHTML = "html"
)

// Formats lists every format [Render] accepts.
var Formats = []string{FormatJSON, FormatSVG, FormatDOT, FormatPNG, FormatHTML}

// =============================================================================
// Colours
// =============================================================================

const (
	colorOnline    = "#64dd17"
	colorOffline   = "#d50000"
	colorNetwork   = "#6d4c41"
	colorDefault   = "#bdbdbd"
	colorHighlight = "#ff5722"
	colorSelected  = "#fb8c00"
	colorDevice    = "#2962ff"

	networkDash = "5, 10"
	deviceDash  = "15 10"

	linkWidth          = 3.0
	highlightLinkWidth = 6.0
)

// LinkColor returns the stroke colour for a link status name.
func LinkColor(status string, highlighted bool) string {
	if highlighted {
		return colorHighlight
	}
	switch status {
	case "online":
		return colorOnline
	case "offline":
		return colorOffline
	case "network":
		return colorNetwork
	default:
		return colorDefault
	}
}

// NodeColor returns the outline colour for a node status name.
func NodeColor(status string, marked bool) string {
	if marked {
		return colorSelected
	}
	switch status {
	case "online":
		return colorOnline
	case "offline":
		return colorOffline
	default:
		return colorDefault
	}
}

// =============================================================================
// Dispatch
// =============================================================================

// Options configures [Render].
type Options struct {
	// Labels draws node labels.
	Labels bool
	// Title is used by formats that carry one (HTML).
	Title string
}

// Render draws s in the named format.
func Render(ctx context.Context, s layout.Snapshot, format string, opts Options) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return RenderJSON(s)
	case FormatSVG:
		var svgOpts []SVGOption
		if opts.Labels {
			svgOpts = append(svgOpts, WithLabels())
		}
		return RenderSVG(s, svgOpts...), nil
	case FormatDOT:
		return []byte(ToDOT(s, DOTOptions{Labels: opts.Labels})), nil
	case FormatPNG:
		return RenderGraphviz(ctx, ToDOT(s, DOTOptions{Labels: opts.Labels}), FormatPNG)
	case FormatHTML:
		var buf bytes.Buffer
		if err := RenderHTML(&buf, s, opts.Title); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// ParseFormats splits a comma-separated list and validates each entry.
// An empty list yields svg.
func ParseFormats(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return []string{FormatSVG}, nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if !slices.Contains(Formats, f) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out, nil
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// RenderJSON returns the snapshot as indented JSON.
func RenderJSON(s layout.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := layout.WriteSnapshot(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
