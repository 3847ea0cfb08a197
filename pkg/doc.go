// Package pkg provides the libraries behind opgraph.
//
// # Overview
//
// opgraph loads operator graphs, the kind an inference runtime executes, and
// computes the orders in which their nodes can run. The pkg directory is
// organized into these areas:
//
//  1. [dag] - the operator graph: nodes, edges, values and initializers
//  2. [viewer] - a read-only view that precomputes execution orders
//  3. [graph] - JSON, TOML and YAML documents for graphs and schedules
//  4. [pipeline] - schedule construction with caching
//  5. [cache], [observability], [errors] - infrastructure
//  6. [api], [render/nodelink] - HTTP and diagram front ends
//
// # Architecture
//
// The typical data flow:
//
//	graph document (JSON/TOML/YAML)
//	         ↓
//	    [graph] package (decode into a dag.Graph)
//	         ↓
//	    [pipeline] package (hash, cache lookup)
//	         ↓
//	    [viewer] package (default + priority orders)
//	         ↓
//	    schedule JSON, text, DOT/SVG
//
// # Quick Start
//
//	g, err := graph.ReadGraphFile("model.json")
//	if err != nil {
//	    return err
//	}
//	v, err := viewer.New(g)
//	if err != nil {
//	    return err // GRAPH_INTEGRITY when g has a cycle
//	}
//	order, _ := v.NodesInTopologicalOrder(viewer.OrderPriorityBased)
//
// # Orders
//
// The default order is a reverse depth-first traversal from the leaf nodes,
// visiting producers in ascending index order. The priority order is Kahn's
// algorithm with a heap: among ready nodes, Shape and Size run first, then
// lower Priority values, then lower indices.
//
// [dag]: github.com/matzehuels/opgraph/pkg/dag
// [viewer]: github.com/matzehuels/opgraph/pkg/viewer
// [graph]: github.com/matzehuels/opgraph/pkg/graph
// [pipeline]: github.com/matzehuels/opgraph/pkg/pipeline
// [cache]: github.com/matzehuels/opgraph/pkg/cache
// [observability]: github.com/matzehuels/opgraph/pkg/observability
// [errors]: github.com/matzehuels/opgraph/pkg/errors
// [api]: github.com/matzehuels/opgraph/pkg/api
// [render/nodelink]: github.com/matzehuels/opgraph/pkg/render/nodelink
package pkg
