package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeIndex is returned when an index does not refer to a live node.
	ErrInvalidNodeIndex = errors.New("invalid node index")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the producer
	// node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the consumer
	// node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrDuplicateProducer is returned by [Graph.Resolve] when two nodes
	// produce a value with the same name.
	ErrDuplicateProducer = errors.New("value produced by more than one node")

	// ErrGraphHasCycle is returned by the traversals when the graph is not a DAG.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to a node.
type Metadata map[string]any

// NodeIndex identifies a node within its owning graph. Indices are assigned
// densely from zero and are never reused after a node is removed.
type NodeIndex int

// Node is a single operation in the graph.
type Node struct {
	Index    NodeIndex // Assigned by AddNode
	Name     string    // Optional display name
	OpType   string    // Operator type, e.g. "MatMul" or "Shape"
	Domain   string    // Operator domain, empty for the default domain
	Priority int       // Lower values are scheduled earlier by priority ordering
	Inputs   []string  // Names of consumed values
	Outputs  []string  // Names of produced values
	Meta     Metadata  // Never nil after AddNode
}

// DisplayName returns the node's name, or its op type when the name is empty.
func (n *Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.OpType
}

// Edge is a producer -> consumer dependency.
type Edge struct {
	From NodeIndex
	To   NodeIndex
}

// Graph is an operator computation graph.
//
// The zero value is not usable; create graphs with [New] or [NewSubgraph].
type Graph struct {
	name        string
	description string

	nodes    []*Node // indexed by NodeIndex, nil once removed
	numNodes int
	outgoing map[NodeIndex][]NodeIndex // producer -> consumers
	incoming map[NodeIndex][]NodeIndex // consumer -> producers

	args         map[string]*NodeArg
	inputs       []string
	outputs      []string
	valueInfo    []string
	initializers map[string]*Tensor

	parent                 *Graph
	canOverrideInitializer bool
}

// New creates an empty top-level graph.
func New(name string) *Graph {
	return &Graph{
		name:         name,
		outgoing:     make(map[NodeIndex][]NodeIndex),
		incoming:     make(map[NodeIndex][]NodeIndex),
		args:         make(map[string]*NodeArg),
		initializers: make(map[string]*Tensor),
	}
}

// NewSubgraph creates an empty graph nested in parent. Constant initializer
// lookups with outer-scope checking fall back to parent.
func NewSubgraph(parent *Graph, name string) *Graph {
	g := New(name)
	g.parent = parent
	return g
}

// Name returns the graph name.
func (g *Graph) Name() string { return g.name }

// Description returns the graph description.
func (g *Graph) Description() string { return g.description }

// SetDescription sets the graph description.
func (g *Graph) SetDescription(desc string) { g.description = desc }

// IsSubgraph reports whether the graph is nested in a parent graph.
func (g *Graph) IsSubgraph() bool { return g.parent != nil }

// Parent returns the enclosing graph, or nil for a top-level graph.
func (g *Graph) Parent() *Graph { return g.parent }

// CanOverrideInitializer reports whether graph inputs may override
// initializers with the same name.
func (g *Graph) CanOverrideInitializer() bool { return g.canOverrideInitializer }

// SetCanOverrideInitializer controls whether graph inputs may override
// initializers with the same name.
func (g *Graph) SetCanOverrideInitializer(v bool) { g.canOverrideInitializer = v }

// AddNode appends a node and returns its assigned index. Any Index set on n
// is ignored. Value names in n.Inputs and n.Outputs are registered as node
// args; edges are not created until [Graph.AddEdge] or [Graph.Resolve].
func (g *Graph) AddNode(n Node) (NodeIndex, error) {
	n.Index = NodeIndex(len(g.nodes))
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	n.Inputs = slices.Clone(n.Inputs)
	n.Outputs = slices.Clone(n.Outputs)
	for _, name := range n.Inputs {
		g.arg(name)
	}
	for _, name := range n.Outputs {
		g.arg(name)
	}
	node := &n
	g.nodes = append(g.nodes, node)
	g.numNodes++
	return node.Index, nil
}

// AddEdge adds a producer -> consumer edge. Adding an edge that already
// exists is a no-op. AddEdge does not check for cycles.
func (g *Graph) AddEdge(from, to NodeIndex) error {
	if _, ok := g.Node(from); !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.Node(to); !ok {
		return ErrUnknownTargetNode
	}
	if slices.Contains(g.outgoing[from], to) {
		return nil
	}
	g.outgoing[from] = append(g.outgoing[from], to)
	g.incoming[to] = append(g.incoming[to], from)
	return nil
}

// RemoveEdge removes the edge from -> to if present.
func (g *Graph) RemoveEdge(from, to NodeIndex) {
	g.outgoing[from] = slices.DeleteFunc(g.outgoing[from], func(i NodeIndex) bool { return i == to })
	g.incoming[to] = slices.DeleteFunc(g.incoming[to], func(i NodeIndex) bool { return i == from })
}

// RemoveNode frees the node at idx together with all edges touching it.
func (g *Graph) RemoveNode(idx NodeIndex) error {
	if _, ok := g.Node(idx); !ok {
		return ErrInvalidNodeIndex
	}
	for _, c := range slices.Clone(g.outgoing[idx]) {
		g.RemoveEdge(idx, c)
	}
	for _, p := range slices.Clone(g.incoming[idx]) {
		g.RemoveEdge(p, idx)
	}
	delete(g.outgoing, idx)
	delete(g.incoming, idx)
	g.nodes[idx] = nil
	g.numNodes--
	return nil
}

// Resolve derives edges from value names: every node consuming a value gets
// an edge from the node producing it. Values with no producer (graph inputs,
// initializers, outer-scope values) add no edge. Existing edges are kept.
func (g *Graph) Resolve() error {
	producer := make(map[string]NodeIndex)
	for _, n := range g.Nodes() {
		for _, out := range n.Outputs {
			if out == "" {
				continue
			}
			if _, dup := producer[out]; dup {
				return ErrDuplicateProducer
			}
			producer[out] = n.Index
		}
	}
	for _, n := range g.Nodes() {
		for _, in := range n.Inputs {
			if p, ok := producer[in]; ok {
				if err := g.AddEdge(p, n.Index); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Node returns the node at idx and true, or nil and false if the index was
// never assigned or the node has been removed.
func (g *Graph) Node(idx NodeIndex) (*Node, bool) {
	if idx < 0 || int(idx) >= len(g.nodes) {
		return nil, false
	}
	n := g.nodes[idx]
	return n, n != nil
}

// Nodes returns all live nodes in ascending index order. The returned
// pointers refer to the nodes owned by the graph.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, g.numNodes)
	for _, n := range g.nodes {
		if n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// NumberOfNodes returns the number of live nodes.
func (g *Graph) NumberOfNodes() int { return g.numNodes }

// MaxNodeIndex returns one past the highest index ever assigned. Removed
// nodes leave holes, so MaxNodeIndex can exceed NumberOfNodes.
func (g *Graph) MaxNodeIndex() int { return len(g.nodes) }

// Edges returns all edges ordered by producer then insertion order.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, n := range g.Nodes() {
		for _, c := range g.outgoing[n.Index] {
			edges = append(edges, Edge{From: n.Index, To: c})
		}
	}
	return edges
}

// OutputNodes returns the consumers of idx. The slice must not be modified.
func (g *Graph) OutputNodes(idx NodeIndex) []NodeIndex { return g.outgoing[idx] }

// InputNodes returns the producers feeding idx. The slice must not be modified.
func (g *Graph) InputNodes(idx NodeIndex) []NodeIndex { return g.incoming[idx] }

// OutDegree returns the number of consumers of idx.
func (g *Graph) OutDegree(idx NodeIndex) int { return len(g.outgoing[idx]) }

// InDegree returns the number of producers feeding idx.
func (g *Graph) InDegree(idx NodeIndex) int { return len(g.incoming[idx]) }
