// Package nodelink renders operator graphs as node-link diagrams.
//
// # Overview
//
// Nodes appear as boxes connected by producer -> consumer arrows. Operators
// that priority ordering always schedules first (Shape, Size) are
// highlighted, and root nodes carry a double outline.
//
// # Usage
//
// Convert a graph and its schedule to DOT, then render:
//
//	dot := nodelink.ToDOT(g, sched, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: When true, labels include priority, positions in both
//     orders, depth from the roots, and node metadata.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
// No external Graphviz installation is needed.
package nodelink
