// Package layout is the orchestrator of a topology view.
//
// A [Graph] owns the node and link collections of one topology and wires the
// layout components together once per view:
//
//   - [force.Simulation] moves nodes
//   - [route] classifies links and computes their paths
//   - [tick.Coordinator] clamps nodes and produces frames
//   - [drag.Controller] turns gestures into pins
//   - [store.Store] remembers manual positions per topology
//
// # Driving a Graph
//
// A Graph is not safe for concurrent use. A surface drives it from one
// goroutine: call [Graph.Tick] once per frame and forward input events
// ([Graph.DragStart], [Graph.DragMove], [Graph.DragEnd], clicks) between
// frames. Structural mutations rebind the simulation before returning, so
// the next tick never sees a stale link set.
//
// Headless callers use [Graph.Settle] to step until the simulation cools.
//
// # Gravity
//
// With gravity on the full force set is installed. With gravity off only a
// zero-strength link force remains, so nodes stay exactly where they are
// dropped, and every position is saved so the layout survives reloads.
// The gravity flag is stored per topology and restored on load.
package layout
