package viewer_test

import (
	"fmt"

	"github.com/matzehuels/opgraph/pkg/dag"
	"github.com/matzehuels/opgraph/pkg/viewer"
)

func ExampleNew() {
	// x -> MatMul -> h -> Reshape -> y, with Shape(h) feeding Reshape
	g := dag.New("reshape")
	_, _ = g.AddNode(dag.Node{Name: "mm", OpType: "MatMul", Priority: 2, Inputs: []string{"x", "w"}, Outputs: []string{"h"}})
	_, _ = g.AddNode(dag.Node{Name: "bias", OpType: "Add", Priority: 1, Inputs: []string{"x", "b"}, Outputs: []string{"xb"}})
	_, _ = g.AddNode(dag.Node{Name: "shape", OpType: "Shape", Inputs: []string{"xb"}, Outputs: []string{"s"}})
	_, _ = g.AddNode(dag.Node{Name: "reshape", OpType: "Reshape", Inputs: []string{"h", "s"}, Outputs: []string{"y"}})
	_ = g.Resolve()

	v, err := viewer.New(g)
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, order := range []viewer.ExecutionOrder{viewer.OrderDefault, viewer.OrderPriorityBased} {
		indices, _ := v.NodesInTopologicalOrder(order)
		fmt.Print(order, ":")
		for _, idx := range indices {
			n, _ := v.Node(idx)
			fmt.Print(" ", n.Name)
		}
		fmt.Println()
	}
	fmt.Println("roots:", v.RootNodes())
	// Output:
	// default: mm bias shape reshape
	// priority: bias shape mm reshape
	// roots: [0 1]
}

func ExampleViewer_NodesInTopologicalOrder() {
	g := dag.New("empty")
	v, _ := viewer.New(g)

	_, err := v.NodesInTopologicalOrder(viewer.ExecutionOrder(7))
	fmt.Println(err)
	// Output:
	// INVALID_ARGUMENT: invalid execution order 7
}
