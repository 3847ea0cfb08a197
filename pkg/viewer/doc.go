// Package viewer provides a read-only scheduling view over a [dag.Graph].
//
// # Overview
//
// A [Viewer] is built once from a graph and precomputes two node execution
// orders that execution planners and partitioners consume:
//
//   - [OrderDefault]: a reverse depth-first traversal from the leaf nodes,
//     breaking ties by ascending node index.
//   - [OrderPriorityBased]: Kahn's algorithm where, among ready nodes, cheap
//     shape queries ("Shape", "Size") go first, then lower [dag.Node.Priority]
//     values, then lower indices.
//
// Both orders list every node exactly once and place every producer before
// its consumers. Building a view over a graph with a cycle fails with an
// error coded [errors.ErrCodeGraphIntegrity].
//
//	v, err := viewer.New(g)
//	if err != nil {
//	    return err
//	}
//	order, err := v.NodesInTopologicalOrder(viewer.OrderPriorityBased)
//
// # Lifetime
//
// The view borrows the graph: it holds a pointer, not a copy. Metadata
// accessors read through to the live graph, while the orders and root list
// are snapshots taken at construction. Mutating the graph afterwards makes
// the snapshots stale; build a new view instead. A node removed after
// construction is reported as absent by [Viewer.Node].
//
// # Concurrency
//
// A Viewer is immutable once [New] returns and may be shared by any number
// of goroutines, provided nobody mutates the underlying graph meanwhile.
//
// [errors.ErrCodeGraphIntegrity]: github.com/matzehuels/opgraph/pkg/errors
package viewer
