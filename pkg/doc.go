// Package pkg provides the core libraries for Topolayout network topology views.
//
// # Overview
//
// Topolayout turns a discovered network (IP addresses, hosts, network devices
// and the links between them) into an interactive force-directed layout. Nodes
// settle under a physics simulation, links are routed around each other, and
// positions the user drags into place are remembered per topology. The pkg
// directory is organized into four main areas:
//
//  1. [topology] - Domain model (nodes, links, status codes, payload ingest)
//  2. [layout] - Layout engine (forces, routing, ticks, drag, saved positions)
//  3. [render] - Output formats (JSON snapshot, SVG, DOT, PNG, HTML)
//  4. [server] - HTTP and WebSocket surface for live views
//
// # Architecture
//
// The typical data flow through Topolayout:
//
//	Discovery payload (JSON/YAML)
//	         ↓
//	    [topology] package (ingest records into nodes and links)
//	         ↓
//	    [layout] package (simulate, route, clamp, apply saved positions)
//	         ↓
//	    [render] package (snapshot → SVG/DOT/PNG/HTML)
//
// # Quick Start
//
// Settle a payload and render it:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/topolayout/pkg/config"
//	    "github.com/matzehuels/topolayout/pkg/kv"
//	    "github.com/matzehuels/topolayout/pkg/layout"
//	    "github.com/matzehuels/topolayout/pkg/render"
//	    "github.com/matzehuels/topolayout/pkg/topology"
//	)
//
//	// 1. Read the discovery payload
//	p, _ := topology.ReadPayloadFile("office.json")
//	nodes, links := topology.Ingest(p)
//
//	// 2. Build the view, restoring saved positions
//	cfg := config.Default()
//	g, _ := layout.New(ctx, cfg.Layout("office"), nodes, links, layout.Options{
//	    Store: kv.NewMemory(),
//	})
//
//	// 3. Run the simulation until it cools
//	g.Settle(ctx, 300)
//
//	// 4. Render to SVG
//	svg, _ := render.Render(ctx, g.Snapshot(), render.FormatSVG, render.Options{Labels: true})
//
// # Main Packages
//
// ## Layout Engine
//
// [layout] - The orchestrator. A [layout.Graph] owns one topology and wires
// the components below together.
//
//   - [layout/force]: Force simulation (link, many-body, collide, center)
//   - [layout/route]: Link classification and multi-lane path routing
//   - [layout/tick]: Per-frame clamping and frame production
//   - [layout/drag]: Pointer gestures mapped onto pins
//   - [layout/store]: Saved positions and gravity flag per topology
//   - [layout/viewport]: View box geometry
//
// ## Infrastructure
//
// [kv] - Key-value backends for the layout store: memory, null, file,
// SQLite, Redis and MongoDB, selected by URL.
//
// [config] - TOML configuration for viewport, simulation, store and server.
//
// [watch] - Payload file watching for live reloads.
//
// [observability] - Hooks for view, simulation and store events.
//
// [errors] - Structured error codes shared by the CLI and server.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Specific package
//
// [topology]: https://pkg.go.dev/github.com/matzehuels/topolayout/pkg/topology
// [layout]: https://pkg.go.dev/github.com/matzehuels/topolayout/pkg/layout
// [layout/force]: https://pkg.go.dev/github.com/matzehuels/topolayout/pkg/layout/force
// [layout/route]: https://pkg.go.dev/github.com/matzehuels/topolayout/pkg/layout/route
// [layout/tick]: https://pkg.go.dev/github.com/matzehuels/topolayout/pkg/layout/tick
// [layout/drag]: https://pkg.go.dev/github.com/matzehuels/topolayout/pkg/layout/drag
// [layout/store]: https://pkg.go.dev/github.com/matzehuels/topolayout/pkg/layout/store
// [layout/viewport]: https://pkg.go.dev/github.com/matzehuels/topolayout/pkg/layout/viewport
// [render]: https://pkg.go.dev/github.com/matzehuels/topolayout/pkg/render
// [server]: https://pkg.go.dev/github.com/matzehuels/topolayout/pkg/server
// [kv]: https://pkg.go.dev/github.com/matzehuels/topolayout/pkg/kv
// [config]: https://pkg.go.dev/github.com/matzehuels/topolayout/pkg/config
// [watch]: https://pkg.go.dev/github.com/matzehuels/topolayout/pkg/watch
// [observability]: https://pkg.go.dev/github.com/matzehuels/topolayout/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/topolayout/pkg/errors
package pkg
