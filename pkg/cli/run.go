package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/sentilo/sentilo-samples/pkg/api"
	"github.com/sentilo/sentilo-samples/pkg/serializer"
)

func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run one sample invocation and print the outcome",
		Flags: []cli.Flag{
			configFlag(),
			hostFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path, defaults to stdout",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   string(serializer.FormatYAML),
				Usage:   "Output format (json, yaml, table)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			runner, _, err := api.NewRunner(apiOptions(cmd))
			if err != nil {
				return fmt.Errorf("error initializing runner: %w", err)
			}

			out := runner.Run(ctx)

			ser, err := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			if err != nil {
				return err
			}
			defer func() {
				if c, ok := ser.(serializer.Closer); ok {
					if cerr := c.Close(); cerr != nil {
						slog.Warn("failed to close output", "error", cerr)
					}
				}
			}()

			if err := ser.Serialize(ctx, out); err != nil {
				return fmt.Errorf("error writing outcome: %w", err)
			}

			if !out.Success {
				return fmt.Errorf("sample invocation failed: %s", out.ErrorMsg)
			}
			return nil
		},
	}
}
