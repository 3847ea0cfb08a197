package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/opgraph/pkg/errors"
	"github.com/matzehuels/opgraph/pkg/render/nodelink"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output    string
		detailed  bool
		direction = nodelink.TopToBottom
		flags     cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a graph as a node-link diagram",
		Long: `Render an operator graph as a node-link diagram.

The output format follows the extension of --output: .svg (default), .png
or .dot. Shape and Size nodes are highlighted and root nodes are drawn with
a double outline.`,
		Example: `  opgraph render model.json
  opgraph render model.json -o model.png --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".svg"
			}
			if !nodelink.ValidDirection(direction) {
				return errors.New(errors.ErrCodeInvalidArgument, "unknown direction %q (want TB or LR)", direction)
			}
			ext := strings.ToLower(filepath.Ext(output))
			if ext != ".svg" && ext != ".png" && ext != ".dot" {
				return errors.New(errors.ErrCodeInvalidArgument, "unsupported output extension %q (want .svg, .png or .dot)", ext)
			}

			res, g, err := c.schedule(cmd, args[0], flags, false)
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			dot := nodelink.ToDOT(g, res.Schedule, nodelink.Options{Detailed: detailed, Direction: direction})
			var data []byte
			switch ext {
			case ".dot":
				data = []byte(dot)
			case ".svg":
				data, err = nodelink.RenderSVG(cmd.Context(), dot)
			case ".png":
				data, err = nodelink.RenderPNG(cmd.Context(), dot)
			}
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			prog.done("rendered", "format", strings.TrimPrefix(ext, "."), "bytes", len(data))

			printSuccess(cmd.OutOrStdout(), "Rendered %s", res.Schedule.Graph)
			printStats(cmd.OutOrStdout(), res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheHit)
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.svg, .png or .dot)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include priority, order positions and metadata in labels")
	cmd.Flags().StringVar(&direction, "direction", direction, "layout direction: TB or LR")
	flags.register(cmd)

	return cmd
}
