// Package route computes orthogonal polylines for the visible edges of a
// card diagram.
//
// # Overview
//
// Every edge leaves its parent at the bottom-center of the parent card and
// enters its child at the top-center. In between it drops to a routing y,
// walks horizontally toward the child and drops (or, for back edges in
// cyclic graphs, rises) into the child. Three rules shape the route:
//
//   - No backtracking: the horizontal part of a route never reverses
//     direction.
//   - Lanes: edges that cross the same gap between two levels (a level-pair
//     bucket) get distinct routing y values spaced between
//     [Config.MinLaneSpacing] and [Config.MaxLaneSpacing] apart.
//   - Collision avoidance: a route is pushed below any card that sits on a
//     level strictly between its endpoints and would be crossed by the
//     horizontal run.
//
// Edges that share a parent form a fan group. When the geometry allows it
// without backtracking, a fan edge first spreads sideways near its parent
// before dropping to its lane, which keeps siblings visually apart.
//
// # Determinism
//
// Lane and fan assignment depend only on card positions and the order of
// the edge slice, never on map iteration, so the same input always yields
// the same routes.
//
// # Limitations
//
// Collision avoidance takes the maximum required push in a single pass. A
// route pushed below one obstacle is not re-checked against a second
// obstacle further down.
package route
