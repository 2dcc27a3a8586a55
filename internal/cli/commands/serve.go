package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kutbudev/notion-mcp/internal/api"
	"github.com/kutbudev/notion-mcp/internal/config"
	"github.com/kutbudev/notion-mcp/internal/credentials"
	"github.com/kutbudev/notion-mcp/internal/logging"
	"github.com/kutbudev/notion-mcp/internal/mcp"
	"github.com/kutbudev/notion-mcp/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ServeFlags are shared by the serve command and the root app, which serves
// when no command is given.
func ServeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "transport",
			Aliases: []string{"t"},
			Usage:   "transport to serve (stdio|http)",
			EnvVars: []string{"MCP_TRANSPORT"},
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "port for the http transport",
			EnvVars: []string{"PORT"},
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to a config file (default: ~/.notion-mcp/config.yaml)",
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "dotenv file to load before reading the environment",
			Value: ".env",
		},
	}
}

func NewServeCommand(version string) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Start the MCP server (stdio by default, http with --transport http)",
		Flags:  ServeFlags(),
		Action: ServeAction(version),
	}
}

// ServeAction resolves the token, builds the server and blocks until the
// transport ends or the process is interrupted.
func ServeAction(version string) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}

		logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		cred, err := resolveCredential(credentials.DefaultSources())
		if err != nil {
			return err
		}
		logger.Info("notion token resolved", zap.String("source", cred.Source))

		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, cred, version, logger)
	}
}

func serve(ctx context.Context, cfg *config.Config, cred credentials.Credential, version string, logger *zap.Logger) error {
	client := api.NewClient(cred.Key,
		api.WithBaseURL(cfg.Notion.BaseURL),
		api.WithNotionVersion(cfg.Notion.Version),
		api.WithTimeout(cfg.Notion.Timeout),
	)

	var metrics telemetry.Metrics = telemetry.NewNoopMetrics()
	registry := prometheus.NewRegistry()
	if cfg.Metrics.Addr != "" {
		metrics = telemetry.NewPrometheusMetrics(registry)
	}

	srv := mcp.NewServer(client, mcp.Options{
		Version: version,
		Logger:  logger,
		Metrics: metrics,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return telemetry.StartMetricsServer(gctx, cfg.Metrics.Addr, registry, logger)
	})
	g.Go(func() error {
		// Once the transport is done (stdin closed, listener stopped) the
		// metrics listener goes too.
		defer cancel()
		switch cfg.Transport {
		case config.TransportHTTP:
			return mcp.ServeHTTP(gctx, srv, mcp.HTTPOptions{
				Addr:   cfg.ListenAddr(),
				Path:   cfg.HTTP.Path,
				Logger: logger,
			})
		default:
			return mcp.ServeStdio(gctx, srv)
		}
	})
	return g.Wait()
}

// loadConfig reads configuration and applies command-line overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(config.Options{
		ConfigFile: c.String("config"),
		EnvFile:    c.String("env-file"),
	})
	if err != nil {
		return nil, err
	}
	if c.IsSet("transport") {
		cfg.Transport = config.NormalizeTransport(c.String("transport"))
	}
	if c.IsSet("port") {
		cfg.HTTP.Port = c.Int("port")
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// resolveCredential returns the first token found, or an exit error carrying
// the diagnostic that names every accepted variable.
func resolveCredential(sources []credentials.Source) (credentials.Credential, error) {
	cred, ok := credentials.Resolve(sources)
	if !ok {
		return credentials.Credential{}, cli.Exit(credentials.MissingMessage(), 1)
	}
	return cred, nil
}
