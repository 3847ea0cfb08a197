package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/matzehuels/opgraph/pkg/dag"
	"github.com/matzehuels/opgraph/pkg/errors"
	"github.com/matzehuels/opgraph/pkg/viewer"
)

// =============================================================================
// Graph - Operator Graph Serialization
// =============================================================================

// Graph is the document format for operator graphs.
type Graph struct {
	Name                   string        `json:"name,omitempty" toml:"name" yaml:"name,omitempty"`
	Description            string        `json:"description,omitempty" toml:"description" yaml:"description,omitempty"`
	CanOverrideInitializer bool          `json:"can_override_initializer,omitempty" toml:"can_override_initializer" yaml:"can_override_initializer,omitempty"`
	Inputs                 []string      `json:"inputs,omitempty" toml:"inputs" yaml:"inputs,omitempty"`
	Outputs                []string      `json:"outputs,omitempty" toml:"outputs" yaml:"outputs,omitempty"`
	ValueInfo              []Arg         `json:"value_info,omitempty" toml:"value_info" yaml:"value_info,omitempty"`
	Initializers           []Initializer `json:"initializers,omitempty" toml:"initializers" yaml:"initializers,omitempty"`
	Nodes                  []Node        `json:"nodes" toml:"nodes" yaml:"nodes"`
	Edges                  []Edge        `json:"edges,omitempty" toml:"edges" yaml:"edges,omitempty"`
}

// Node is a serialized operator node. Index is optional; when any node sets
// it, every node must, and gaps are preserved as removed nodes.
type Node struct {
	Index    *int           `json:"index,omitempty" toml:"index,omitempty" yaml:"index,omitempty"`
	Name     string         `json:"name,omitempty" toml:"name" yaml:"name,omitempty"`
	OpType   string         `json:"op_type" toml:"op_type" yaml:"op_type"`
	Domain   string         `json:"domain,omitempty" toml:"domain" yaml:"domain,omitempty"`
	Priority int            `json:"priority,omitempty" toml:"priority" yaml:"priority,omitempty"`
	Inputs   []string       `json:"inputs,omitempty" toml:"inputs" yaml:"inputs,omitempty"`
	Outputs  []string       `json:"outputs,omitempty" toml:"outputs" yaml:"outputs,omitempty"`
	Meta     map[string]any `json:"meta,omitempty" toml:"meta" yaml:"meta,omitempty"`
}

// Edge is an explicit producer -> consumer edge by node index.
type Edge struct {
	From int `json:"from" toml:"from" yaml:"from"`
	To   int `json:"to" toml:"to" yaml:"to"`
}

// Arg describes a named value's type and shape.
type Arg struct {
	Name  string  `json:"name" toml:"name" yaml:"name"`
	Type  string  `json:"type,omitempty" toml:"type" yaml:"type,omitempty"`
	Shape []int64 `json:"shape,omitempty" toml:"shape" yaml:"shape,omitempty"`
}

// Initializer is a serialized constant tensor.
type Initializer struct {
	Name     string     `json:"name" toml:"name" yaml:"name"`
	DataType string     `json:"data_type,omitempty" toml:"data_type" yaml:"data_type,omitempty"`
	Dims     []int64    `json:"dims,omitempty" toml:"dims" yaml:"dims,omitempty"`
	Data     TensorData `json:"data,omitempty" toml:"data" yaml:"data,omitempty"`
}

// TensorData holds constant tensor values. In JSON, non-finite values are
// written as the strings "NaN", "Infinity" and "-Infinity".
type TensorData []float32

// MarshalJSON implements json.Marshaler.
func (d TensorData) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	b := make([]byte, 0, 2+8*len(d))
	b = append(b, '[')
	for i, f := range d {
		if i > 0 {
			b = append(b, ',')
		}
		x := float64(f)
		switch {
		case math.IsNaN(x):
			b = append(b, `"NaN"`...)
		case math.IsInf(x, 1):
			b = append(b, `"Infinity"`...)
		case math.IsInf(x, -1):
			b = append(b, `"-Infinity"`...)
		default:
			b = strconv.AppendFloat(b, x, 'g', -1, 32)
		}
	}
	return append(b, ']'), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *TensorData) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*d = nil
		return nil
	}
	out := make(TensorData, len(raw))
	for i, r := range raw {
		if len(r) > 0 && r[0] == '"' {
			var s string
			if err := json.Unmarshal(r, &s); err != nil {
				return err
			}
			switch s {
			case "NaN":
				out[i] = float32(math.NaN())
			case "Infinity":
				out[i] = float32(math.Inf(1))
			case "-Infinity":
				out[i] = float32(math.Inf(-1))
			default:
				return fmt.Errorf("tensor value %q is not a number", s)
			}
			continue
		}
		f, err := strconv.ParseFloat(string(r), 32)
		if err != nil {
			return fmt.Errorf("tensor value %s: %w", r, err)
		}
		out[i] = float32(f)
	}
	*d = out
	return nil
}

// =============================================================================
// DAG ↔ Graph Conversion
// =============================================================================

// FromDAG converts a graph to its document format. Nodes are written in
// index order with explicit indices, and every edge is written explicitly.
func FromDAG(g *dag.Graph) Graph {
	out := Graph{
		Name:                   g.Name(),
		Description:            g.Description(),
		CanOverrideInitializer: g.CanOverrideInitializer(),
		Inputs:                 argNames(g.InputsIncludingInitializers()),
		Outputs:                argNames(g.Outputs()),
		Nodes:                  make([]Node, 0, g.NumberOfNodes()),
	}

	for _, a := range g.ValueInfo() {
		out.ValueInfo = append(out.ValueInfo, Arg{Name: a.Name, Type: a.Type, Shape: a.Shape})
	}

	names := make([]string, 0, len(g.Initializers()))
	for name := range g.Initializers() {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		t := g.Initializers()[name]
		out.Initializers = append(out.Initializers, Initializer{Name: t.Name, DataType: t.DataType, Dims: t.Dims, Data: t.Data})
	}

	for _, n := range g.Nodes() {
		idx := int(n.Index)
		nd := Node{
			Index:    &idx,
			Name:     n.Name,
			OpType:   n.OpType,
			Domain:   n.Domain,
			Priority: n.Priority,
			Inputs:   n.Inputs,
			Outputs:  n.Outputs,
		}
		if len(n.Meta) > 0 {
			nd.Meta = n.Meta
		}
		out.Nodes = append(out.Nodes, nd)
	}

	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, Edge{From: int(e.From), To: int(e.To)})
	}
	return out
}

// ToDAG builds a graph from its document format. Edges are the union of the
// explicit edges and those derived from value names.
func ToDAG(doc Graph) (*dag.Graph, error) {
	g := dag.New(doc.Name)
	g.SetDescription(doc.Description)
	g.SetCanOverrideInitializer(doc.CanOverrideInitializer)

	nodes, err := orderNodes(doc.Nodes)
	if err != nil {
		return nil, err
	}
	var holes []dag.NodeIndex
	for _, nd := range nodes {
		if nd == nil {
			idx, _ := g.AddNode(dag.Node{})
			holes = append(holes, idx)
			continue
		}
		if nd.OpType == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %q: op_type is required", nd.Name)
		}
		if _, err := g.AddNode(dag.Node{
			Name:     nd.Name,
			OpType:   nd.OpType,
			Domain:   nd.Domain,
			Priority: nd.Priority,
			Inputs:   nd.Inputs,
			Outputs:  nd.Outputs,
			Meta:     nd.Meta,
		}); err != nil {
			return nil, fmt.Errorf("node %q: %w", nd.Name, err)
		}
	}
	for _, idx := range holes {
		_ = g.RemoveNode(idx)
	}

	g.SetInputs(doc.Inputs...)
	g.SetOutputs(doc.Outputs...)
	for _, a := range doc.ValueInfo {
		g.AddValueInfo(dag.NodeArg{Name: a.Name, Type: a.Type, Shape: a.Shape})
	}
	for _, init := range doc.Initializers {
		g.AddInitializer(dag.Tensor{Name: init.Name, DataType: init.DataType, Dims: init.Dims, Data: init.Data})
	}

	for _, e := range doc.Edges {
		if err := g.AddEdge(dag.NodeIndex(e.From), dag.NodeIndex(e.To)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "edge %d->%d", e.From, e.To)
		}
	}
	if err := g.Resolve(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve edges")
	}
	return g, nil
}

// orderNodes places document nodes at their index. The result has nil
// entries for indices no node claims.
func orderNodes(nodes []Node) ([]*Node, error) {
	explicit := 0
	for _, n := range nodes {
		if n.Index != nil {
			explicit++
		}
	}
	if explicit == 0 {
		out := make([]*Node, len(nodes))
		for i := range nodes {
			out[i] = &nodes[i]
		}
		return out, nil
	}
	if explicit != len(nodes) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "either every node or no node must set index")
	}

	var out []*Node
	for i := range nodes {
		idx := *nodes[i].Index
		if idx < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %q: negative index %d", nodes[i].Name, idx)
		}
		for len(out) <= idx {
			out = append(out, nil)
		}
		if out[idx] != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate node index %d", idx)
		}
		out[idx] = &nodes[i]
	}
	return out, nil
}

func argNames(args []*dag.NodeArg) []string {
	if len(args) == 0 {
		return nil
	}
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.Name
	}
	return names
}

// =============================================================================
// Schedule - Computed Orders
// =============================================================================

// Schedule is the document format for a computed pair of execution orders.
type Schedule struct {
	Graph     string          `json:"graph"`
	GraphHash string          `json:"graph_hash,omitempty"`
	Roots     []dag.NodeIndex `json:"roots"`
	Default   []dag.NodeIndex `json:"default"`
	Priority  []dag.NodeIndex `json:"priority"`
	Nodes     []ScheduledNode `json:"nodes"`
}

// ScheduledNode carries the node attributes needed to present a schedule
// without the graph at hand.
type ScheduledNode struct {
	Index    dag.NodeIndex `json:"index"`
	Name     string        `json:"name,omitempty"`
	OpType   string        `json:"op_type"`
	Priority int           `json:"priority,omitempty"`
}

// FromViewer captures both orders and the root nodes of v.
func FromViewer(v *viewer.Viewer) Schedule {
	def, _ := v.NodesInTopologicalOrder(viewer.OrderDefault)
	pri, _ := v.NodesInTopologicalOrder(viewer.OrderPriorityBased)

	s := Schedule{
		Graph:    v.Name(),
		Roots:    v.RootNodes(),
		Default:  def,
		Priority: pri,
		Nodes:    make([]ScheduledNode, 0, v.NumberOfNodes()),
	}
	for _, n := range v.Nodes() {
		s.Nodes = append(s.Nodes, ScheduledNode{Index: n.Index, Name: n.Name, OpType: n.OpType, Priority: n.Priority})
	}
	return s
}

// Order returns the requested order.
func (s Schedule) Order(order viewer.ExecutionOrder) ([]dag.NodeIndex, error) {
	switch order {
	case viewer.OrderDefault:
		return s.Default, nil
	case viewer.OrderPriorityBased:
		return s.Priority, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidArgument, "invalid execution order %d", int(order))
}

// Lookup returns the scheduled node with the given index.
func (s Schedule) Lookup(idx dag.NodeIndex) (ScheduledNode, bool) {
	i, ok := slices.BinarySearchFunc(s.Nodes, idx, func(n ScheduledNode, target dag.NodeIndex) int {
		return int(n.Index) - int(target)
	})
	if !ok {
		return ScheduledNode{}, false
	}
	return s.Nodes[i], true
}
