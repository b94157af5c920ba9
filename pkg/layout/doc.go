// Package layout computes deterministic 2-D placement for diagram graphs.
//
// The engine is a strict linear sequence of pure transformations:
//
//  1. Back-edge marking: a depth-first traversal over nodes in declaration
//     order marks every edge that closes a cycle. Back-edges are excluded
//     from layering but still routed.
//  2. Layer assignment: each node gets a layer equal to the longest path
//     (in edge count) from any source node, over the forward edge subset.
//  3. Row placement: within each layer, nodes get contiguous row indices
//     using a single barycenter pass over predecessor rows, then pixel
//     geometry from the Config grid.
//  4. Connector routing: each edge gets a polyline path between the placed
//     endpoints, with best-effort avoidance of intermediate node boxes.
//
// There is no backtracking and no iterative refinement by default, so the
// whole pipeline runs in near-linear time and identical input always yields
// bit-identical geometry. All tie-breaks reduce to declaration order.
//
// Build never fails on a validated graph; an empty graph produces an empty
// Result. Configuration is passed explicitly - the package keeps no global
// state, so concurrent Build calls on separate graphs need no coordination.
package layout
