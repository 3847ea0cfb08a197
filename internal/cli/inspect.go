package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/opgraph/pkg/dag"
	"github.com/matzehuels/opgraph/pkg/dag/transform"
	"github.com/matzehuels/opgraph/pkg/graph"
	"github.com/matzehuels/opgraph/pkg/viewer"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Summarize a graph's inputs, outputs and initializers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return err
			}
			v, err := viewer.New(g)
			if err != nil {
				return err
			}
			writeInspect(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func writeInspect(w io.Writer, v *viewer.Viewer) {
	fmt.Fprintln(w, StyleTitle.Render(v.Name()))
	if d := v.Description(); d != "" {
		printDetail(w, "%s", d)
	}

	printKeyValue(w, "nodes", fmt.Sprintf("%d (max index %d)", v.NumberOfNodes(), v.MaxNodeIndex()))
	printKeyValue(w, "depth", fmt.Sprintf("%d", transform.MaxDepth(transform.Depths(v.Graph()))+1))
	printKeyValue(w, "subgraph", fmt.Sprintf("%t", v.IsSubgraph()))
	printKeyValue(w, "inputs", argList(v.Inputs()))
	printKeyValue(w, "all inputs", argList(v.InputsIncludingInitializers()))
	printKeyValue(w, "outputs", argList(v.Outputs()))
	printKeyValue(w, "value info", argList(v.ValueInfo()))
	printKeyValue(w, "overridable", fmt.Sprintf("%t", v.CanOverrideInitializer()))

	inits := v.Initializers()
	if len(inits) == 0 {
		return
	}
	fmt.Fprintln(w, StyleTitle.Render("initializers"))
	for _, name := range slices.Sorted(maps.Keys(inits)) {
		t := inits[name]
		kind := "constant"
		if !v.IsConstantInitializer(name, true) {
			kind = StyleWarning.Render("overridable")
		}
		fmt.Fprintf(w, "  %s %s %v %s\n", StyleValue.Render(name), t.DataType, t.Dims, kind)
	}
}

func argList(args []*dag.NodeArg) string {
	if len(args) == 0 {
		return "-"
	}
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}
