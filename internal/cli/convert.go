package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/opgraph/pkg/graph"
)

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Rewrite a graph document as JSON, TOML or YAML",
		Long: `Rewrite a graph document in canonical form.

The output format follows the extension of --output. Nodes are written with
explicit indices and every edge is listed, so the converted document loads
to the same graph.`,
		Example: `  opgraph convert model.toml -o model.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return err
			}
			if err := graph.WriteGraphFile(g, output); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Converted %s", g.Name())
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.json, .toml, .yaml)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
