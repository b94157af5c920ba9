// Package graph defines the in-memory diagram model consumed by the layout
// pipeline: typed nodes, labeled directed edges, and validation.
//
// A Graph preserves two orderings that the rest of the system depends on:
// node insertion order and edge declaration order. Declaration order is the
// single deterministic tie-break used by layer assignment, row placement,
// and routing, so identical input always produces identical output.
//
// All validation happens at construction time via Build (or the incremental
// AddNode/AddEdge): duplicate node IDs, dangling edge endpoints, and
// self-loops are rejected. Downstream stages never re-validate.
//
// The package also implements the JSON and YAML wire formats used by the
// CLI and the HTTP API (see ReadJSON, WriteJSON, ReadFile).
package graph
