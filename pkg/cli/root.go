package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/sentilo/sentilo-samples/pkg/api"
	"github.com/sentilo/sentilo-samples/pkg/logging"
)

const name = api.Name

var (
	// overridden during build with ldflags
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the samples properties file (.properties, .yaml or .yml)",
		Sources: cli.EnvVars("SENTILO_CONFIG"),
	}
}

func hostFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "host",
		Usage: "Platform REST endpoint, overrides rest.client.host",
	}
}

// Execute runs the root command. It exits the process on error.
func Execute() {
	if err := newRootCmd().Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Sentilo platform client sample: register a sensor and publish memory observations",
		Version:               fmt.Sprintf("%s (commit: %s, date: %s)", version, commit, date),
		EnableShellCompletion: true,
		ShellComplete:         commandLister,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("SENTILO_DEBUG"),
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Emit structured JSON logs",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			debug := cmd.Bool("debug")
			switch {
			case cmd.Bool("log-json") && debug:
				logging.SetDefaultStructuredLoggerWithLevel(name, version, slog.LevelDebug.String())
			case cmd.Bool("log-json"):
				logging.SetDefaultStructuredLogger(name, version)
			case debug:
				logging.SetDefaultCLILogger(slog.LevelDebug)
			default:
				logging.SetDefaultCLILogger(slog.LevelInfo)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			serveCmd(),
			runCmd(),
		},
	}
}

// commandLister prints the visible subcommands, one per line, for shell completion.
func commandLister(_ context.Context, cmd *cli.Command) {
	if cmd == nil {
		return
	}
	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}
	for _, c := range cmd.Commands {
		if c.Hidden {
			continue
		}
		fmt.Fprintln(w, c.Name)
	}
}

func apiOptions(cmd *cli.Command) api.Options {
	return api.Options{
		ConfigPath: cmd.String("config"),
		Host:       cmd.String("host"),
		Debug:      cmd.Bool("debug"),
		LogJSON:    cmd.Bool("log-json"),
		Version:    version,
		Commit:     commit,
		Date:       date,
	}
}
