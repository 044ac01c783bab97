// Package render draws layout snapshots.
//
// # Overview
//
// Renderers consume a [layout.Snapshot] rather than a live graph, so a
// layout can be settled once, saved as JSON and drawn later in any format:
//
//   - [RenderSVG]: hand-built SVG with status colours, lane-offset link paths
//     and a dashed ring around network devices
//   - [ToDOT] and [RenderGraphviz]: Graphviz DOT with every node pinned at its
//     computed position, rendered in-process to SVG or PNG
//   - [RenderHTML]: a standalone go-echarts page with fixed coordinates
//   - [RenderJSON]: the snapshot itself
//
// [Render] dispatches on a format name and is what the CLI and the service
// call.
//
// # Colours
//
// Links are coloured by status: online #64dd17, offline #d50000, network
// #6d4c41 (dashed), anything else #bdbdbd. Highlighted links are drawn in
// #ff5722; highlighted or selected nodes are outlined in #fb8c00.
//
// # Dependencies
//
// [github.com/goccy/go-graphviz] for DOT rendering and
// [github.com/go-echarts/go-echarts/v2] for HTML export.
//
// [layout.Snapshot]: github.com/matzehuels/topolayout/pkg/layout.Snapshot
package render
