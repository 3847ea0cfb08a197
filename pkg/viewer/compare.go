package viewer

import "github.com/matzehuels/opgraph/pkg/dag"

// highPriorityOps are operators with no real compute cost that should run
// as early as possible.
var highPriorityOps = map[string]struct{}{
	"Shape": {},
	"Size":  {},
}

// IsHighPriority reports whether n's operator type is always scheduled
// ahead of other ready nodes by the priority order.
func IsHighPriority(n *dag.Node) bool {
	_, ok := highPriorityOps[n.OpType]
	return ok
}

// NodeCompare orders nodes by ascending index.
func NodeCompare(n1, n2 *dag.Node) bool {
	return n1.Index < n2.Index
}

// PriorityNodeCompare reports whether n2 should be emitted before n1, the
// convention expected by [dag.Graph.KahnsTopologicalSort]. Decided in order:
//  1. high-priority operators come before everything else
//  2. lower Priority values come first
//  3. lower indices come first
func PriorityNodeCompare(n1, n2 *dag.Node) bool {
	if hp1, hp2 := IsHighPriority(n1), IsHighPriority(n2); hp1 != hp2 {
		return hp2
	}
	if n1.Priority != n2.Priority {
		return n1.Priority > n2.Priority
	}
	return n1.Index > n2.Index
}
