package transform

import "github.com/matzehuels/opgraph/pkg/dag"

// BackEdges returns the edges that close cycles, found by a depth-first
// search from the roots and then from any node still unvisited. Removing
// every returned edge leaves the graph acyclic. An acyclic graph yields nil.
func BackEdges(g *dag.Graph) []dag.Edge {
	const (
		white = iota
		gray
		black
	)

	color := make(map[dag.NodeIndex]int, g.NumberOfNodes())
	var back []dag.Edge

	var dfs func(idx dag.NodeIndex)
	dfs = func(idx dag.NodeIndex) {
		color[idx] = gray
		for _, child := range g.OutputNodes(idx) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				back = append(back, dag.Edge{From: idx, To: child})
			}
		}
		color[idx] = black
	}

	for _, n := range g.Nodes() {
		if g.InDegree(n.Index) == 0 && color[n.Index] == white {
			dfs(n.Index)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.Index] == white {
			dfs(n.Index)
		}
	}
	return back
}
