package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/opgraph/pkg/api"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr  string
		flags cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve schedules over HTTP",
		Long: `Run the HTTP API.

  POST /v1/schedule   graph document in, schedule out (?order=default|priority)
  POST /v1/render     graph document in, SVG diagram out (?detailed=true)
  GET  /health        liveness check

Use --redis to share cached schedules between replicas.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, ch, err := c.newRunner(ctx, flags)
			if err != nil {
				return err
			}
			defer ch.Close()

			srv := api.NewServer(api.Config{Addr: addr, Runner: runner, Logger: c.Logger})
			printInfo(cmd.OutOrStdout(), "Serving on %s", srv.Addr())
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", api.DefaultAddr, "listen address")
	flags.register(cmd)

	return cmd
}
