package dag

import "slices"

// NodeArg is a named value flowing between nodes or across the graph boundary.
type NodeArg struct {
	Name  string
	Type  string  // Element type, e.g. "float32"; empty when unknown
	Shape []int64 // nil when unknown; -1 marks a symbolic dimension
}

// Tensor is a constant initializer.
type Tensor struct {
	Name     string
	DataType string
	Dims     []int64
	Data     []float32
}

// arg returns the node arg registered under name, creating it on first use.
func (g *Graph) arg(name string) *NodeArg {
	if a, ok := g.args[name]; ok {
		return a
	}
	a := &NodeArg{Name: name}
	g.args[name] = a
	return a
}

func (g *Graph) argList(names []string) []*NodeArg {
	out := make([]*NodeArg, 0, len(names))
	for _, name := range names {
		out = append(out, g.args[name])
	}
	return out
}

// NodeArg returns the node arg with the given name, or nil.
func (g *Graph) NodeArg(name string) *NodeArg { return g.args[name] }

// DefineArg registers or updates type and shape information for a value.
func (g *Graph) DefineArg(a NodeArg) *NodeArg {
	arg := g.arg(a.Name)
	if a.Type != "" {
		arg.Type = a.Type
	}
	if a.Shape != nil {
		arg.Shape = slices.Clone(a.Shape)
	}
	return arg
}

// SetInputs sets the graph inputs, including any that are also initializers.
func (g *Graph) SetInputs(names ...string) {
	for _, name := range names {
		g.arg(name)
	}
	g.inputs = slices.Clone(names)
}

// SetOutputs sets the graph outputs.
func (g *Graph) SetOutputs(names ...string) {
	for _, name := range names {
		g.arg(name)
	}
	g.outputs = slices.Clone(names)
}

// AddValueInfo records a value-info entry for an intermediate value.
func (g *Graph) AddValueInfo(a NodeArg) {
	g.DefineArg(a)
	if !slices.Contains(g.valueInfo, a.Name) {
		g.valueInfo = append(g.valueInfo, a.Name)
	}
}

// Inputs returns graph inputs that are not initializers.
func (g *Graph) Inputs() []*NodeArg {
	names := slices.DeleteFunc(slices.Clone(g.inputs), func(name string) bool {
		_, isInit := g.initializers[name]
		return isInit
	})
	return g.argList(names)
}

// InputsIncludingInitializers returns all graph inputs in declaration order.
func (g *Graph) InputsIncludingInitializers() []*NodeArg { return g.argList(g.inputs) }

// Outputs returns the graph outputs.
func (g *Graph) Outputs() []*NodeArg { return g.argList(g.outputs) }

// ValueInfo returns the recorded value-info entries.
func (g *Graph) ValueInfo() []*NodeArg { return g.argList(g.valueInfo) }

// AddInitializer stores a constant tensor, replacing any existing initializer
// with the same name.
func (g *Graph) AddInitializer(t Tensor) {
	g.DefineArg(NodeArg{Name: t.Name, Type: t.DataType, Shape: t.Dims})
	tensor := t
	g.initializers[t.Name] = &tensor
}

// Initializer returns the initializer with the given name.
func (g *Graph) Initializer(name string) (*Tensor, bool) {
	t, ok := g.initializers[name]
	return t, ok
}

// Initializers returns the initializer map. It must not be modified.
func (g *Graph) Initializers() map[string]*Tensor { return g.initializers }

// ConstantInitializer returns the initializer for name if its value cannot
// change at run time, or nil. An initializer that graph inputs are allowed to
// override is not constant. With checkOuterScope, a name not initialized in
// a subgraph is looked up in the enclosing graphs.
func (g *Graph) ConstantInitializer(name string, checkOuterScope bool) *Tensor {
	if t, ok := g.initializers[name]; ok {
		if g.canOverrideInitializer && slices.Contains(g.inputs, name) {
			return nil
		}
		return t
	}
	if checkOuterScope && g.parent != nil {
		// A local value with the same name shadows the outer one.
		if g.producesOrInputs(name) {
			return nil
		}
		return g.parent.ConstantInitializer(name, true)
	}
	return nil
}

func (g *Graph) producesOrInputs(name string) bool {
	if slices.Contains(g.inputs, name) {
		return true
	}
	for _, n := range g.nodes {
		if n != nil && slices.Contains(n.Outputs, name) {
			return true
		}
	}
	return false
}
