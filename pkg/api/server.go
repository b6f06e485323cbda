// Package api wires configuration, the platform client, the samples runner and
// the HTTP server into the sentilo-samples service.
package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sentilo/sentilo-samples/pkg/config"
	"github.com/sentilo/sentilo-samples/pkg/logging"
	"github.com/sentilo/sentilo-samples/pkg/platform"
	"github.com/sentilo/sentilo-samples/pkg/samples"
	"github.com/sentilo/sentilo-samples/pkg/server"
)

// Name is the service name used in logs and the platform User-Agent.
const Name = "sentilo-samples"

// Options configures Serve and NewRunner.
type Options struct {
	// ConfigPath is the properties file (.properties, .yaml or .yml). Empty
	// means environment values only.
	ConfigPath string

	// Host overrides rest.client.host when set.
	Host string

	// Address and Port override the server listen address when set.
	Address string
	Port    int

	// Debug forces debug logging.
	Debug bool

	// LogJSON installs the structured JSON logger. When false the logger
	// configured by the caller is kept.
	LogJSON bool

	Version string
	Commit  string
	Date    string
}

// NewRunner loads configuration and builds a samples Runner backed by the
// platform REST client.
func NewRunner(opts Options, runnerOpts ...samples.Option) (*samples.Runner, config.Samples, error) {
	props, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, config.Samples{}, err
	}

	cfg, err := config.NewSamples(props)
	if err != nil {
		return nil, config.Samples{}, err
	}
	if opts.Host != "" {
		cfg.Host = opts.Host
	}

	client, err := platform.NewClient(cfg.Host,
		platform.WithTimeout(cfg.Timeout),
		platform.WithUserAgent(fmt.Sprintf("%s/%s", Name, opts.Version)),
	)
	if err != nil {
		return nil, config.Samples{}, err
	}

	return samples.NewRunner(cfg, client.Catalog(), client.Data(), runnerOpts...), cfg, nil
}

// Serve starts the API server and blocks until shutdown.
// It configures logging, sets up routes, and handles graceful shutdown.
// Returns an error if the server fails to start or encounters a fatal error.
func Serve(ctx context.Context, opts Options) error {
	srvCfg := server.DefaultConfig()
	if opts.Address != "" {
		srvCfg.Address = opts.Address
	}
	if opts.Port > 0 {
		srvCfg.Port = opts.Port
	}
	if opts.Debug {
		srvCfg.LogLevel = "debug"
	}

	if opts.LogJSON {
		logging.SetDefaultStructuredLoggerWithLevel(Name, opts.Version, srvCfg.LogLevel)
	}
	slog.Info("starting",
		"name", Name,
		"version", opts.Version,
		"commit", opts.Commit,
		"date", opts.Date,
	)

	runner, cfg, err := NewRunner(opts)
	if err != nil {
		slog.Error("failed to initialize samples runner", "error", err)
		return err
	}
	slog.Info("platform configured", "host", cfg.Host, "provider", cfg.Provider, "sensor", cfg.Sensor)

	s := server.New(
		server.WithName(Name),
		server.WithVersion(opts.Version),
		server.WithConfig(srvCfg),
		server.WithHandler(runner.Routes()),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}
