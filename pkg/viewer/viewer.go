package viewer

import (
	"slices"

	"github.com/matzehuels/opgraph/pkg/dag"
	"github.com/matzehuels/opgraph/pkg/errors"
)

// ExecutionOrder selects one of the precomputed node orders.
type ExecutionOrder int

const (
	// OrderDefault is the index-stable reverse-DFS topological order.
	OrderDefault ExecutionOrder = iota
	// OrderPriorityBased is the priority-biased Kahn's order.
	OrderPriorityBased
)

// String returns the order's name as accepted by [ParseExecutionOrder].
func (o ExecutionOrder) String() string {
	switch o {
	case OrderDefault:
		return "default"
	case OrderPriorityBased:
		return "priority"
	}
	return "unknown"
}

// ParseExecutionOrder parses "default" or "priority".
func ParseExecutionOrder(s string) (ExecutionOrder, error) {
	switch s {
	case "default":
		return OrderDefault, nil
	case "priority", "priority_based":
		return OrderPriorityBased, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidArgument, "unknown execution order %q (want default or priority)", s)
}

// Viewer is an immutable scheduling view over a graph. See the package
// documentation for its lifetime rules.
type Viewer struct {
	graph    *dag.Graph
	roots    []dag.NodeIndex
	defOrder []dag.NodeIndex
	priOrder []dag.NodeIndex
}

// New builds a view over g, computing its root nodes and both execution
// orders. It fails with [errors.ErrCodeGraphIntegrity] if g has a cycle; the
// returned error also matches [dag.ErrGraphHasCycle] with errors.Is.
func New(g *dag.Graph) (*Viewer, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "graph must not be nil")
	}

	v := &Viewer{graph: g}
	nodes := g.Nodes()
	v.roots = make([]dag.NodeIndex, 0)
	v.defOrder = make([]dag.NodeIndex, 0, len(nodes))
	v.priOrder = make([]dag.NodeIndex, 0, len(nodes))

	var leaves []*dag.Node
	for _, n := range nodes {
		if g.OutDegree(n.Index) == 0 {
			leaves = append(leaves, n)
		}
		if g.InDegree(n.Index) == 0 {
			v.roots = append(v.roots, n.Index)
		}
	}

	err := g.ReverseDFSFrom(leaves, nil, func(n *dag.Node) {
		v.defOrder = append(v.defOrder, n.Index)
	}, NodeCompare)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGraphIntegrity, err, "graph %q: default order", g.Name())
	}
	// Nodes whose every downstream path ends in a cycle are unreachable from
	// the leaves and would silently drop out of the order.
	if len(v.defOrder) != len(nodes) {
		return nil, errors.Wrap(errors.ErrCodeGraphIntegrity, dag.ErrGraphHasCycle,
			"graph %q: default order reached %d of %d nodes", g.Name(), len(v.defOrder), len(nodes))
	}

	err = g.KahnsTopologicalSort(func(n *dag.Node) {
		v.priOrder = append(v.priOrder, n.Index)
	}, PriorityNodeCompare)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGraphIntegrity, err, "graph %q: priority order", g.Name())
	}

	return v, nil
}

// Graph returns the graph the view was built from.
func (v *Viewer) Graph() *dag.Graph { return v.graph }

// NodesInTopologicalOrder returns a copy of the requested order. An order
// other than [OrderDefault] or [OrderPriorityBased] is an
// [errors.ErrCodeInvalidArgument] error.
func (v *Viewer) NodesInTopologicalOrder(order ExecutionOrder) ([]dag.NodeIndex, error) {
	switch order {
	case OrderDefault:
		return slices.Clone(v.defOrder), nil
	case OrderPriorityBased:
		return slices.Clone(v.priOrder), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidArgument, "invalid execution order %d", int(order))
}

// RootNodes returns a copy of the indices of nodes that had no producers
// when the view was built, in ascending order.
func (v *Viewer) RootNodes() []dag.NodeIndex { return slices.Clone(v.roots) }
