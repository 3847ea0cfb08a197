// Package transform computes structural properties of operator graphs that
// the schedulers do not need but diagnostics and diagrams do.
//
// [Depths] assigns every node its longest-path distance from a root, which
// the node-link renderer shows as the node's level. [BackEdges] names the
// edges that close cycles, so a graph rejected by the viewer can be reported
// with the offending edges.
//
// Neither function modifies the graph.
package transform
