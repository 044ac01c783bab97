// Package force implements the particle simulation that positions topology
// nodes.
//
// The integrator follows the velocity-Verlet scheme popularised by d3-force:
// every step cools the temperature alpha toward its target, lets each
// installed [Force] adjust node velocities, then moves every free node by its
// decayed velocity. Pinned nodes ([topology.Node.Fixed]) are snapped to their
// pin and have their velocity cleared.
//
// # Temperature
//
// Alpha starts at 1 and decays geometrically toward alphaTarget so that, with
// a zero target, it falls below alphaMin (0.001) after 300 steps. Once it is
// below alphaMin the simulation stops stepping until [Simulation.Restart] or
// [Simulation.Reheat] is called. Raising the target (as a drag does) keeps the
// simulation warm indefinitely.
//
// # Forces
//
// Five forces are provided: [Link] springs, [Collide] for non-overlapping
// circles, [ManyBody] for pairwise charge, and [Center] for translating the
// mass center. [Simulation.ApplyFullForceSet] and
// [Simulation.ApplyGravityOffForceSet] install the topology's standard
// configurations.
//
// Forces evaluate per-node and per-link parameters when they are initialised,
// which happens whenever the node or link set changes.
package force
