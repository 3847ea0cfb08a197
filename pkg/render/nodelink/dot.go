package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/opgraph/pkg/dag"
	"github.com/matzehuels/opgraph/pkg/dag/transform"
	"github.com/matzehuels/opgraph/pkg/graph"
	"github.com/matzehuels/opgraph/pkg/viewer"
)

// Layout directions for Options.Direction.
const (
	TopToBottom = "TB"
	LeftToRight = "LR"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds index, priority, order positions, depth and metadata to
	// node labels. Otherwise labels carry only the display name and op type.
	Detailed bool

	// Direction is TopToBottom (the default when empty) or LeftToRight.
	Direction string
}

// ValidDirection reports whether d is an accepted Options.Direction.
func ValidDirection(d string) bool {
	return d == "" || d == TopToBottom || d == LeftToRight
}

// graphAttrs are written at the top of every diagram after rankdir.
var graphAttrs = []string{
	`bgcolor="transparent"`,
	`ranksep=0.5`,
	`nodesep=0.3`,
	`node [shape=box, style="rounded,filled", fillcolor=white, fontsize=20, margin="0.2,0.1"]`,
}

// ToDOT converts a graph to Graphviz DOT format. The schedule supplies order
// positions and root nodes; a zero Schedule renders the bare graph.
func ToDOT(g *dag.Graph, sched graph.Schedule, opts Options) string {
	defPos := positions(sched.Default)
	priPos := positions(sched.Priority)
	roots := make(map[dag.NodeIndex]bool, len(sched.Roots))
	for _, r := range sched.Roots {
		roots[r] = true
	}
	dir := TopToBottom
	if opts.Direction == LeftToRight {
		dir = LeftToRight
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", g.Name())
	fmt.Fprintf(&buf, "  rankdir=%s;\n", dir)
	for _, a := range graphAttrs {
		fmt.Fprintf(&buf, "  %s;\n", a)
	}
	buf.WriteString("\n")

	var depths map[dag.NodeIndex]int
	if opts.Detailed {
		depths = transform.Depths(g)
	}

	for _, n := range g.Nodes() {
		label := fmtLabel(n, opts.Detailed, defPos, priPos, depths)
		attrs := fmtAttrs(n, label, roots[n.Index])
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(n.Index), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %s -> %s;\n", nodeID(e.From), nodeID(e.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(idx dag.NodeIndex) string { return "n" + strconv.Itoa(int(idx)) }

func positions(order []dag.NodeIndex) map[dag.NodeIndex]int {
	m := make(map[dag.NodeIndex]int, len(order))
	for i, idx := range order {
		m[idx] = i
	}
	return m
}

func fmtLabel(n *dag.Node, detailed bool, defPos, priPos, depths map[dag.NodeIndex]int) string {
	head := n.DisplayName()
	if n.Name != "" {
		head += "\n" + n.OpType
	}
	if !detailed {
		return head
	}

	parts := []string{fmt.Sprintf("index: %d", n.Index), fmt.Sprintf("priority: %d", n.Priority)}
	if p, ok := defPos[n.Index]; ok {
		parts = append(parts, fmt.Sprintf("default: #%d", p))
	}
	if p, ok := priPos[n.Index]; ok {
		parts = append(parts, fmt.Sprintf("priority order: #%d", p))
	}
	if d, ok := depths[n.Index]; ok {
		parts = append(parts, fmt.Sprintf("depth: %d", d))
	}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}

	return head + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *dag.Node, label string, root bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if viewer.IsHighPriority(n) {
		attrs = append(attrs, "fillcolor=lightgoldenrod1", "penwidth=2")
	}
	if root {
		attrs = append(attrs, "peripheries=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
