package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/sentilo/sentilo-samples/pkg/api"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the samples page over HTTP",
		Description: `Starts the HTTP server. Each GET on / or /home ensures the configured sensor
is registered in the platform catalog and publishes the current memory usage
as one observation.

System endpoints: /health, /ready and /metrics.`,
		Flags: []cli.Flag{
			configFlag(),
			hostFlag(),
			&cli.StringFlag{
				Name:  "address",
				Usage: "Listen address, defaults to all interfaces",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port, overrides PORT (default 8080)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := apiOptions(cmd)
			opts.Address = cmd.String("address")
			opts.Port = int(cmd.Int("port"))
			return api.Serve(ctx, opts)
		},
	}
}
