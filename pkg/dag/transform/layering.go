package transform

import "github.com/matzehuels/opgraph/pkg/dag"

// Depths assigns each node one plus the maximum depth of its producers, so
// roots are at depth 0 and every producer sits strictly above its consumers.
//
// Depths uses a longest-path pass over Kahn's algorithm. Nodes on or
// downstream of a cycle never become ready and are absent from the result.
func Depths(g *dag.Graph) map[dag.NodeIndex]int {
	nodes := g.Nodes()
	inDegree := make(map[dag.NodeIndex]int, len(nodes))
	depths := make(map[dag.NodeIndex]int, len(nodes))
	queue := make([]dag.NodeIndex, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.Index)
		inDegree[n.Index] = degree
		if degree == 0 {
			queue = append(queue, n.Index)
			depths[n.Index] = 0
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.OutputNodes(curr) {
			if d := depths[curr] + 1; d > depths[child] {
				depths[child] = d
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	for idx, deg := range inDegree {
		if deg > 0 {
			delete(depths, idx)
		}
	}
	return depths
}

// MaxDepth returns the largest value in depths, or -1 if depths is empty.
func MaxDepth(depths map[dag.NodeIndex]int) int {
	m := -1
	for _, d := range depths {
		m = max(m, d)
	}
	return m
}
