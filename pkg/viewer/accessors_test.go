package viewer

import (
	"testing"

	"github.com/matzehuels/opgraph/pkg/dag"
)

func TestAccessorsDelegateToGraph(t *testing.T) {
	outer := dag.New("outer")
	outer.AddInitializer(dag.Tensor{Name: "bias", DataType: "float32"})

	g := dag.NewSubgraph(outer, "body")
	g.SetDescription("loop body")
	g.SetInputs("x", "w")
	g.SetOutputs("y")
	g.AddInitializer(dag.Tensor{Name: "w", DataType: "float32", Dims: []int64{1}, Data: []float32{2}})
	g.AddValueInfo(dag.NodeArg{Name: "h", Type: "float32"})
	_, _ = g.AddNode(dag.Node{OpType: "Mul", Inputs: []string{"x", "w"}, Outputs: []string{"h"}})
	_, _ = g.AddNode(dag.Node{OpType: "Add", Inputs: []string{"h", "bias"}, Outputs: []string{"y"}})
	if err := g.Resolve(); err != nil {
		t.Fatal(err)
	}

	v := mustView(t, g)

	if v.Name() != "body" || v.Description() != "loop body" {
		t.Errorf("Name/Description = %q/%q", v.Name(), v.Description())
	}
	if !v.IsSubgraph() {
		t.Error("IsSubgraph() = false, want true")
	}
	if v.Graph() != g {
		t.Error("Graph() should return the borrowed graph")
	}
	if len(v.Inputs()) != 1 || len(v.InputsIncludingInitializers()) != 2 {
		t.Errorf("Inputs() = %d, InputsIncludingInitializers() = %d, want 1, 2",
			len(v.Inputs()), len(v.InputsIncludingInitializers()))
	}
	if len(v.Outputs()) != 1 || len(v.ValueInfo()) != 1 {
		t.Errorf("Outputs() = %d, ValueInfo() = %d, want 1, 1", len(v.Outputs()), len(v.ValueInfo()))
	}
	if tensor, ok := v.Initializer("w"); !ok || tensor.Data[0] != 2 {
		t.Errorf("Initializer(w) = %v, %v", tensor, ok)
	}
	if _, ok := v.Initializer("bias"); ok {
		t.Error("Initializer should not search enclosing graphs")
	}
	if len(v.Initializers()) != 1 {
		t.Errorf("Initializers() has %d entries, want 1", len(v.Initializers()))
	}
	inits := v.Initializers()
	delete(inits, "w")
	inits["extra"] = &dag.Tensor{Name: "extra"}
	if _, ok := v.Initializer("w"); !ok || len(v.Initializers()) != 1 {
		t.Error("modifying the Initializers() result changed the graph")
	}
	if v.CanOverrideInitializer() {
		t.Error("CanOverrideInitializer() = true, want false")
	}
	if v.NodeArg("h") == nil || v.NodeArg("missing") != nil {
		t.Error("NodeArg lookup mismatch")
	}
	if !v.IsConstantInitializer("w", false) {
		t.Error("IsConstantInitializer(w, false) = false")
	}
	if v.IsConstantInitializer("bias", false) || !v.IsConstantInitializer("bias", true) {
		t.Error("IsConstantInitializer(bias) should only succeed with outer scope checking")
	}
	if v.NumberOfNodes() != 2 || v.MaxNodeIndex() != 2 || len(v.Nodes()) != 2 {
		t.Errorf("NumberOfNodes/MaxNodeIndex/Nodes = %d/%d/%d", v.NumberOfNodes(), v.MaxNodeIndex(), len(v.Nodes()))
	}
}

func TestNodeAfterRemoval(t *testing.T) {
	g := build(t, []testNode{{"Add", 0}, {"Relu", 0}}, [][2]int{{0, 1}})
	v := mustView(t, g)

	if n, ok := v.Node(1); !ok || n.OpType != "Relu" {
		t.Fatalf("Node(1) = %v, %v", n, ok)
	}
	if err := g.RemoveNode(1); err != nil {
		t.Fatal(err)
	}
	if n, ok := v.Node(1); ok || n != nil {
		t.Errorf("Node(1) after removal = %v, %v, want nil, false", n, ok)
	}
	if _, ok := v.Node(100); ok {
		t.Error("Node(100) should not resolve")
	}

	// The orders are a snapshot and still list the removed node.
	def, _ := v.NodesInTopologicalOrder(OrderDefault)
	if len(def) != 2 {
		t.Errorf("default order = %v, want the construction-time snapshot", def)
	}
}
