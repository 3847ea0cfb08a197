package viewer

import (
	"maps"

	"github.com/matzehuels/opgraph/pkg/dag"
)

// Name returns the graph name.
func (v *Viewer) Name() string { return v.graph.Name() }

// Description returns the graph description.
func (v *Viewer) Description() string { return v.graph.Description() }

// Initializer returns the initializer with the given name.
func (v *Viewer) Initializer(name string) (*dag.Tensor, bool) {
	return v.graph.Initializer(name)
}

// Initializers returns a copy of the graph's initializer map. The tensors
// themselves are shared with the graph.
func (v *Viewer) Initializers() map[string]*dag.Tensor {
	return maps.Clone(v.graph.Initializers())
}

// CanOverrideInitializer reports whether graph inputs may override
// initializers.
func (v *Viewer) CanOverrideInitializer() bool { return v.graph.CanOverrideInitializer() }

// Inputs returns the graph inputs excluding initializers.
func (v *Viewer) Inputs() []*dag.NodeArg { return v.graph.Inputs() }

// InputsIncludingInitializers returns all graph inputs in declaration order.
func (v *Viewer) InputsIncludingInitializers() []*dag.NodeArg {
	return v.graph.InputsIncludingInitializers()
}

// Outputs returns the graph outputs.
func (v *Viewer) Outputs() []*dag.NodeArg { return v.graph.Outputs() }

// ValueInfo returns the graph's value-info entries.
func (v *Viewer) ValueInfo() []*dag.NodeArg { return v.graph.ValueInfo() }

// Node returns the node at idx. It reports false when the node was removed
// from the graph after the view was built, which is expected for long-lived
// indices rather than an error.
func (v *Viewer) Node(idx dag.NodeIndex) (*dag.Node, bool) { return v.graph.Node(idx) }

// Nodes returns the live nodes of the graph in index order.
func (v *Viewer) Nodes() []*dag.Node { return v.graph.Nodes() }

// NumberOfNodes returns the number of live nodes in the graph.
func (v *Viewer) NumberOfNodes() int { return v.graph.NumberOfNodes() }

// MaxNodeIndex returns one past the highest node index ever assigned.
func (v *Viewer) MaxNodeIndex() int { return v.graph.MaxNodeIndex() }

// NodeArg returns the node arg with the given name, or nil.
func (v *Viewer) NodeArg(name string) *dag.NodeArg { return v.graph.NodeArg(name) }

// IsSubgraph reports whether the graph is nested in another graph.
func (v *Viewer) IsSubgraph() bool { return v.graph.IsSubgraph() }

// IsConstantInitializer reports whether name is an initializer whose value
// cannot be overridden at run time, optionally searching enclosing graphs.
func (v *Viewer) IsConstantInitializer(name string, checkOuterScope bool) bool {
	return v.graph.ConstantInitializer(name, checkOuterScope) != nil
}
