// Package graph provides the serialization formats for opgraph.
//
// This package defines the document format for operator graphs and computed
// schedules, used for graph files, API requests and responses, and the
// schedule cache.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Graph], [Schedule]: serialization types (this package)
//   - pkg/dag.Graph: internal graph representation
//   - pkg/viewer.Viewer: computed orders
//
// Use [FromDAG]/[ToDAG] and [FromViewer] to convert between them.
//
// # Graph Documents
//
// Graph documents are accepted as JSON, TOML or YAML. Edges are derived from value
// names (a node consuming "h" depends on the node producing "h") and may be
// supplemented with explicit index-based edges:
//
//	{
//	  "name": "mlp",
//	  "inputs": ["x"],
//	  "outputs": ["y"],
//	  "nodes": [
//	    {"name": "mm", "op_type": "MatMul", "inputs": ["x", "w"], "outputs": ["h"]},
//	    {"name": "act", "op_type": "Relu", "inputs": ["h"], "outputs": ["y"], "priority": 1}
//	  ],
//	  "initializers": [{"name": "w", "data_type": "float32", "dims": [1], "data": [0.5]}]
//	}
//
// The same document in TOML uses arrays of tables ([[nodes]], [[initializers]]);
// YAML uses the same keys as JSON.
//
// # Determinism
//
// [MarshalGraph] output is stable for a given graph, so its hash can key the
// schedule cache.
package graph
