package dag

import (
	"container/heap"
	"fmt"
	"slices"
)

// LessFunc is a pairwise node comparator. Its meaning depends on the
// traversal it is passed to.
type LessFunc func(n1, n2 *Node) bool

// ReverseDFSFrom runs a depth-first search that walks producer edges
// backward, starting from every node in from.
//
// enter, if non-nil, is called when a node is first reached. leave, if
// non-nil, is called once every producer of the node has been left, so the
// sequence of leave calls lists producers before their consumers.
//
// When less is non-nil the seed nodes and each node's producers are explored
// in ascending less order, which makes the result deterministic. A nil less
// keeps insertion order.
//
// Nodes not reachable backward from from are never visited. Reaching a node
// that is still being explored means the graph has a cycle; the search stops
// and returns an error wrapping [ErrGraphHasCycle].
func (g *Graph) ReverseDFSFrom(from []*Node, enter, leave func(*Node), less LessFunc) error {
	const (
		white = iota
		gray
		black
	)

	type frame struct {
		node  *Node
		leave bool
	}

	color := make(map[NodeIndex]int, g.numNodes)
	stack := make([]frame, 0, len(from))

	// Push in descending order so the smallest element is popped first.
	push := func(nodes []*Node) {
		if less != nil {
			slices.SortStableFunc(nodes, func(a, b *Node) int {
				switch {
				case less(a, b):
					return -1
				case less(b, a):
					return 1
				}
				return 0
			})
		}
		for i := len(nodes) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: nodes[i]})
		}
	}

	push(slices.Clone(from))

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := top.node

		if top.leave {
			color[n.Index] = black
			if leave != nil {
				leave(n)
			}
			continue
		}
		if color[n.Index] != white {
			continue
		}

		color[n.Index] = gray
		if enter != nil {
			enter(n)
		}
		stack = append(stack, frame{node: n, leave: true})

		var producers []*Node
		for _, p := range g.incoming[n.Index] {
			switch color[p] {
			case white:
				if pn, ok := g.Node(p); ok {
					producers = append(producers, pn)
				}
			case gray:
				return fmt.Errorf("%w: node %d feeds back into node %d", ErrGraphHasCycle, n.Index, p)
			}
		}
		push(producers)
	}
	return nil
}

// KahnsTopologicalSort emits every node in a topological order using Kahn's
// algorithm and calls visit for each.
//
// Among the nodes that are ready at a step, the one emitted is the maximum
// under comp: comp(n1, n2) returning true means n2 is emitted before n1.
// If comp is nil, ready nodes are emitted in ascending index order.
//
// When the ready set runs dry while nodes remain, the graph has a cycle and
// an error wrapping [ErrGraphHasCycle] is returned after the acyclic prefix
// has been visited.
func (g *Graph) KahnsTopologicalSort(visit func(*Node), comp LessFunc) error {
	if comp == nil {
		comp = func(n1, n2 *Node) bool { return n1.Index > n2.Index }
	}

	inDegree := make(map[NodeIndex]int, g.numNodes)
	ready := &nodeHeap{comp: comp}
	for _, n := range g.Nodes() {
		d := len(g.incoming[n.Index])
		inDegree[n.Index] = d
		if d == 0 {
			ready.nodes = append(ready.nodes, n)
		}
	}
	heap.Init(ready)

	emitted := 0
	for ready.Len() > 0 {
		n := heap.Pop(ready).(*Node)
		if visit != nil {
			visit(n)
		}
		emitted++

		for _, c := range g.outgoing[n.Index] {
			inDegree[c]--
			if inDegree[c] == 0 {
				if cn, ok := g.Node(c); ok {
					heap.Push(ready, cn)
				}
			}
		}
	}

	if emitted != g.numNodes {
		return fmt.Errorf("%w: %d of %d nodes are not in the topological order", ErrGraphHasCycle, g.numNodes-emitted, g.numNodes)
	}
	return nil
}

// nodeHeap adapts a "should n2 come out first" comparator to container/heap,
// whose Pop returns the minimum under Less.
type nodeHeap struct {
	nodes []*Node
	comp  LessFunc
}

func (h *nodeHeap) Len() int           { return len(h.nodes) }
func (h *nodeHeap) Less(i, j int) bool { return h.comp(h.nodes[j], h.nodes[i]) }
func (h *nodeHeap) Swap(i, j int)      { h.nodes[i], h.nodes[j] = h.nodes[j], h.nodes[i] }
func (h *nodeHeap) Push(x any)         { h.nodes = append(h.nodes, x.(*Node)) }

func (h *nodeHeap) Pop() any {
	old := h.nodes
	n := old[len(old)-1]
	old[len(old)-1] = nil
	h.nodes = old[:len(old)-1]
	return n
}
