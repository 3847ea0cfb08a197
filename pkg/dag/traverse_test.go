package dag

import (
	"errors"
	"slices"
	"testing"
)

func byIndex(n1, n2 *Node) bool { return n1.Index < n2.Index }

// diamond builds 0 -> {1, 2} -> 3.
func diamond(t *testing.T) *Graph {
	t.Helper()
	g := New("diamond")
	for _, name := range []string{"a", "b", "c", "d"} {
		mustAdd(t, g, Node{Name: name})
	}
	for _, e := range []Edge{{0, 1}, {0, 2}, {1, 3}, {2, 3}} {
		if err := g.AddEdge(e.From, e.To); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func collect(dst *[]NodeIndex) func(*Node) {
	return func(n *Node) { *dst = append(*dst, n.Index) }
}

func TestReverseDFSFrom(t *testing.T) {
	g := diamond(t)
	leaf, _ := g.Node(3)

	var entered, left []NodeIndex
	if err := g.ReverseDFSFrom([]*Node{leaf}, collect(&entered), collect(&left), byIndex); err != nil {
		t.Fatalf("ReverseDFSFrom() error: %v", err)
	}

	if want := []NodeIndex{3, 1, 0, 2}; !slices.Equal(entered, want) {
		t.Errorf("enter order = %v, want %v", entered, want)
	}
	if want := []NodeIndex{0, 1, 2, 3}; !slices.Equal(left, want) {
		t.Errorf("leave order = %v, want %v", left, want)
	}
}

func TestReverseDFSFromSeedOrder(t *testing.T) {
	g := New("g")
	for i := 0; i < 3; i++ {
		mustAdd(t, g, Node{})
	}
	all := g.Nodes()
	slices.Reverse(all)

	var left []NodeIndex
	if err := g.ReverseDFSFrom(all, nil, collect(&left), byIndex); err != nil {
		t.Fatal(err)
	}
	if want := []NodeIndex{0, 1, 2}; !slices.Equal(left, want) {
		t.Errorf("leave order = %v, want %v", left, want)
	}
}

func TestReverseDFSFromCycle(t *testing.T) {
	// 0 -> 1 -> 2 -> 1, 2 -> 3 (leaf)
	g := New("g")
	for i := 0; i < 4; i++ {
		mustAdd(t, g, Node{})
	}
	_ = g.AddEdge(0, 1)
	_ = g.AddEdge(1, 2)
	_ = g.AddEdge(2, 1)
	_ = g.AddEdge(2, 3)
	leaf, _ := g.Node(3)

	err := g.ReverseDFSFrom([]*Node{leaf}, nil, nil, byIndex)
	if !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("ReverseDFSFrom() error = %v, want ErrGraphHasCycle", err)
	}
}

func TestReverseDFSFromSelfLoop(t *testing.T) {
	g := New("g")
	a := mustAdd(t, g, Node{})
	_ = g.AddEdge(a, a)
	n, _ := g.Node(a)

	if err := g.ReverseDFSFrom([]*Node{n}, nil, nil, nil); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("ReverseDFSFrom() error = %v, want ErrGraphHasCycle", err)
	}
}

func TestKahnsTopologicalSort(t *testing.T) {
	g := diamond(t)

	// Prefer higher indices among ready nodes.
	preferHigh := func(n1, n2 *Node) bool { return n1.Index < n2.Index }

	var order []NodeIndex
	if err := g.KahnsTopologicalSort(collect(&order), preferHigh); err != nil {
		t.Fatalf("KahnsTopologicalSort() error: %v", err)
	}
	if want := []NodeIndex{0, 2, 1, 3}; !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}

	order = nil
	if err := g.KahnsTopologicalSort(collect(&order), nil); err != nil {
		t.Fatal(err)
	}
	if want := []NodeIndex{0, 1, 2, 3}; !slices.Equal(order, want) {
		t.Errorf("nil comparator order = %v, want %v", order, want)
	}
}

func TestKahnsTopologicalSortCycle(t *testing.T) {
	g := New("g")
	a := mustAdd(t, g, Node{})
	b := mustAdd(t, g, Node{})
	c := mustAdd(t, g, Node{})
	_ = g.AddEdge(a, b)
	_ = g.AddEdge(b, a)
	_ = g.AddEdge(c, a)

	var order []NodeIndex
	err := g.KahnsTopologicalSort(collect(&order), nil)
	if !errors.Is(err, ErrGraphHasCycle) {
		t.Fatalf("KahnsTopologicalSort() error = %v, want ErrGraphHasCycle", err)
	}
	if !slices.Equal(order, []NodeIndex{c}) {
		t.Errorf("visited prefix = %v, want [%d]", order, c)
	}
}

func TestKahnsTopologicalSortSkipsRemoved(t *testing.T) {
	g := diamond(t)
	if err := g.RemoveNode(1); err != nil {
		t.Fatal(err)
	}

	var order []NodeIndex
	if err := g.KahnsTopologicalSort(collect(&order), nil); err != nil {
		t.Fatalf("KahnsTopologicalSort() error: %v", err)
	}
	if want := []NodeIndex{0, 2, 3}; !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}
