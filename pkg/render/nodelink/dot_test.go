package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/opgraph/pkg/dag"
	"github.com/matzehuels/opgraph/pkg/graph"
)

func sampleGraph(t *testing.T) *dag.Graph {
	t.Helper()
	g := dag.New("model")
	for _, n := range []dag.Node{
		{Name: "mm", OpType: "MatMul", Priority: 1, Outputs: []string{"h"}},
		{OpType: "Shape", Outputs: []string{"s"}},
		{Name: "reshape", OpType: "Reshape", Inputs: []string{"h", "s"}, Meta: dag.Metadata{"fused": true}},
	} {
		if _, err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Resolve(); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestToDOT(t *testing.T) {
	g := sampleGraph(t)
	sched := graph.Schedule{
		Roots:    []dag.NodeIndex{0, 1},
		Default:  []dag.NodeIndex{0, 1, 2},
		Priority: []dag.NodeIndex{1, 0, 2},
	}

	dot := ToDOT(g, sched, Options{})
	for _, want := range []string{
		`digraph "model" {`,
		"rankdir=TB;",
		`n0 [label="mm\nMatMul", peripheries=2];`,
		`n1 [label="Shape", fillcolor=lightgoldenrod1, penwidth=2, peripheries=2];`,
		`n2 [label="reshape\nReshape"];`,
		"n0 -> n2;",
		"n1 -> n2;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "priority order") {
		t.Error("non-detailed output should not include order positions")
	}
}

func TestToDOTDetailed(t *testing.T) {
	g := sampleGraph(t)
	sched := graph.Schedule{
		Default:  []dag.NodeIndex{0, 1, 2},
		Priority: []dag.NodeIndex{1, 0, 2},
	}

	dot := ToDOT(g, sched, Options{Detailed: true})
	for _, want := range []string{
		`index: 0\npriority: 1\ndefault: #0\npriority order: #1`,
		`index: 1\npriority: 0\ndefault: #1\npriority order: #0`,
		`priority order: #2\ndepth: 1\nfused: true`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed ToDOT() missing %q\n%s", want, dot)
		}
	}
}

func TestToDOTWithoutSchedule(t *testing.T) {
	dot := ToDOT(sampleGraph(t), graph.Schedule{}, Options{Detailed: true})
	if strings.Contains(dot, "default: #") || strings.Contains(dot, "peripheries") {
		t.Errorf("empty schedule should add no positions or roots\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`
	if !strings.HasPrefix(out, want) {
		t.Errorf("normalizeViewBox() = %s, want prefix %s", out, want)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("svg without viewBox should be unchanged, got %s", got)
	}
}

func TestToDOTDirection(t *testing.T) {
	g := sampleGraph(t)
	if dot := ToDOT(g, graph.Schedule{}, Options{Direction: LeftToRight}); !strings.Contains(dot, "rankdir=LR;") {
		t.Errorf("LeftToRight not applied:\n%s", dot)
	}
	for d, want := range map[string]bool{"": true, "TB": true, "LR": true, "BT": false, "sideways": false} {
		if got := ValidDirection(d); got != want {
			t.Errorf("ValidDirection(%q) = %v, want %v", d, got, want)
		}
	}
}
