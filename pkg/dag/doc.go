// Package dag provides the operator computation graph that schedules are built from.
//
// # Overview
//
// A [Graph] holds operator nodes identified by a dense, non-negative
// [NodeIndex]. Nodes consume and produce named values ([NodeArg]); an edge
// runs from the node producing a value to every node consuming it. Graph-level
// inputs, outputs, value info and constant initializers ([Tensor]) live next to
// the nodes.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [Graph.AddNode], then either wire
// edges by hand with [Graph.AddEdge] or derive them from value names with
// [Graph.Resolve]:
//
//	g := dag.New("mlp")
//	_, _ = g.AddNode(dag.Node{Name: "mm", OpType: "MatMul", Inputs: []string{"x", "w"}, Outputs: []string{"h"}})
//	_, _ = g.AddNode(dag.Node{Name: "act", OpType: "Relu", Inputs: []string{"h"}, Outputs: []string{"y"}})
//	_ = g.Resolve() // adds mm -> act
//
// # Traversals
//
// Two traversal primitives drive scheduling:
//
//   - [Graph.ReverseDFSFrom] walks producer edges backward from a seed set and
//     reports each node once all of its producers have been reported.
//   - [Graph.KahnsTopologicalSort] runs Kahn's algorithm and picks among ready
//     nodes with a caller-supplied comparator.
//
// Both return [ErrGraphHasCycle] instead of a truncated order when the graph is
// not acyclic.
//
// # Node Removal
//
// [Graph.RemoveNode] frees a node and its edges. Indices are never reused, so
// a stale index simply stops resolving in [Graph.Node].
//
// # Concurrency
//
// Graph instances are not safe for concurrent mutation. Concurrent reads on a
// graph that is no longer being modified are safe.
package dag
