package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/opgraph/pkg/api"
	"github.com/matzehuels/opgraph/pkg/dag"
	"github.com/matzehuels/opgraph/pkg/errors"
	"github.com/matzehuels/opgraph/pkg/graph"
	"github.com/matzehuels/opgraph/pkg/pipeline"
	"github.com/matzehuels/opgraph/pkg/viewer"
)

const (
	formatText = "text"
	formatJSON = "json"

	orderAll = "all"
)

type orderOpts struct {
	order   string
	format  string
	output  string
	refresh bool
	cache   cacheFlags
}

// orderCommand creates the order command.
func (c *CLI) orderCommand() *cobra.Command {
	opts := orderOpts{order: orderAll, format: formatText}

	cmd := &cobra.Command{
		Use:   "order FILE",
		Short: "Print the execution orders of a graph",
		Long: `Print the execution orders of an operator graph.

The default order is a depth-first order from the graph's leaves. The
priority order runs Shape and Size first, then lower priority values,
then lower node indices, whenever several nodes are ready.`,
		Example: `  opgraph order model.json
  opgraph order model.toml --order priority --format json
  opgraph order model.json -o schedule.json --no-cache`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOrder(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.order, "order", opts.order, "order to print: default, priority or all")
	cmd.Flags().StringVar(&opts.format, "format", opts.format, "output format: text or json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if the schedule is cached")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runOrder(cmd *cobra.Command, path string, opts orderOpts) error {
	var orders []viewer.ExecutionOrder
	if opts.order == orderAll {
		orders = []viewer.ExecutionOrder{viewer.OrderDefault, viewer.OrderPriorityBased}
	} else {
		o, err := viewer.ParseExecutionOrder(opts.order)
		if err != nil {
			return err
		}
		orders = []viewer.ExecutionOrder{o}
	}
	if opts.format != formatText && opts.format != formatJSON {
		return errors.New(errors.ErrCodeInvalidArgument, "unknown format %q (want text or json)", opts.format)
	}

	res, _, err := c.schedule(cmd, path, opts.cache, opts.refresh)
	if err != nil {
		return err
	}

	return withOutput(cmd, opts.output, func(w io.Writer) error {
		if opts.format == formatJSON {
			return writeOrdersJSON(w, res, orders)
		}
		if res.Stats.NodeCount == 0 {
			printWarning(w, "Graph %q has no nodes", res.Schedule.Graph)
			return nil
		}
		printStats(w, res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheHit)
		for _, o := range orders {
			nodes, _ := res.Schedule.Order(o)
			writeOrderText(w, o.String(), nodes, res.Schedule)
		}
		return nil
	})
}

// schedule loads the graph at path and computes its schedule.
func (c *CLI) schedule(cmd *cobra.Command, path string, f cacheFlags, refresh bool) (*pipeline.Result, *dag.Graph, error) {
	ctx := cmd.Context()
	g, err := graph.ReadGraphFile(path)
	if err != nil {
		return nil, nil, err
	}

	runner, ch, err := c.newRunner(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	defer ch.Close()

	prog := newProgress(c.Logger)
	res, err := runner.Schedule(ctx, g, pipeline.Options{Refresh: refresh})
	if err != nil {
		return nil, nil, err
	}
	prog.done("scheduled", "graph", res.Schedule.Graph, "nodes", res.Stats.NodeCount, "cached", res.CacheHit)
	return res, g, nil
}

func writeOrdersJSON(w io.Writer, res *pipeline.Result, orders []viewer.ExecutionOrder) error {
	if len(orders) > 1 {
		return graph.WriteSchedule(res.Schedule, w)
	}
	nodes, err := res.Schedule.Order(orders[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(api.OrderResponse{
		Graph:     res.Schedule.Graph,
		GraphHash: res.Schedule.GraphHash,
		Order:     orders[0].String(),
		Nodes:     nodes,
		Roots:     res.Schedule.Roots,
		Cached:    res.CacheHit,
	})
}

func writeOrderText(w io.Writer, title string, order []dag.NodeIndex, s graph.Schedule) {
	fmt.Fprintln(w, StyleTitle.Render(title+" order"))
	for i, idx := range order {
		fmt.Fprintf(w, "%4d  %s\n", i, formatScheduled(s, idx))
	}
}

// formatScheduled renders a node as "#idx name (OpType)".
func formatScheduled(s graph.Schedule, idx dag.NodeIndex) string {
	id := StyleNumber.Render(fmt.Sprintf("#%d", idx))
	n, ok := s.Lookup(idx)
	if !ok {
		return id
	}
	op := n.OpType
	if viewer.IsHighPriority(&dag.Node{OpType: n.OpType}) {
		op = StyleHighPriority.Render(op)
	}
	if n.Name == "" {
		return id + " " + op
	}
	return id + " " + StyleValue.Render(n.Name) + " " + StyleDim.Render("(") + op + StyleDim.Render(")")
}

// withOutput runs fn against the output file, or stdout when path is empty.
func withOutput(cmd *cobra.Command, path string, fn func(io.Writer) error) (err error) {
	if path == "" {
		return fn(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := fn(f); err != nil {
		return err
	}
	printSuccess(cmd.OutOrStdout(), "Wrote output")
	printFile(cmd.OutOrStdout(), path)
	return nil
}

// rootsCommand creates the roots command.
func (c *CLI) rootsCommand() *cobra.Command {
	var (
		format = formatText
		flags  cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "roots FILE",
		Short: "Print the nodes of a graph that have no producers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatText && format != formatJSON {
				return errors.New(errors.ErrCodeInvalidArgument, "unknown format %q (want text or json)", format)
			}
			res, _, err := c.schedule(cmd, args[0], flags, false)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if format == formatJSON {
				roots := make([]graph.ScheduledNode, 0, len(res.Schedule.Roots))
				for _, idx := range res.Schedule.Roots {
					if n, ok := res.Schedule.Lookup(idx); ok {
						roots = append(roots, n)
					}
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(roots)
			}

			if len(res.Schedule.Roots) == 0 {
				printInfo(w, "Graph has no root nodes")
				return nil
			}
			for _, idx := range res.Schedule.Roots {
				fmt.Fprintln(w, formatScheduled(res.Schedule, idx))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", format, "output format: text or json")
	flags.register(cmd)

	return cmd
}
