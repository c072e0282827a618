// cmd/mealdb/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"mcp-mealdb/internal/config"
	"mcp-mealdb/internal/logging"
	"mcp-mealdb/internal/mealdb"
	"mcp-mealdb/internal/server"
)

const name = "mealdb"

func main() {
	// .env is optional; a missing file is not an error.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Recipe lookup tools backed by TheMealDB",
		Version: server.Version,
		Flags:   flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			return serve(ctx, cfg)
		},
	}
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "transport",
			Usage:   "MCP transport: http (SSE plus JSON API) or stdio",
			Sources: cli.EnvVars("MEALDB_TRANSPORT"),
			Value:   config.DefaultTransport,
		},
		&cli.StringFlag{
			Name:    "host",
			Usage:   "Host address to listen on",
			Sources: cli.EnvVars("MEALDB_HOST"),
			Value:   config.DefaultHost,
		},
		&cli.IntFlag{
			Name:    "port",
			Usage:   "Port for the HTTP server",
			Sources: cli.EnvVars("MEALDB_PORT"),
			Value:   config.DefaultPort,
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL of the upstream recipe API",
			Sources: cli.EnvVars("MEALDB_BASE_URL"),
			Value:   mealdb.DefaultBaseURL,
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.EnvVars("MEALDB_LOG_LEVEL"),
			Value:   config.DefaultLogLevel,
		},
		&cli.StringFlag{
			Name:    "public-url",
			Usage:   "Externally reachable URL of the HTTP server, advertised to SSE clients",
			Sources: cli.EnvVars("MEALDB_PUBLIC_URL"),
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path to a YAML config file",
			Sources: cli.EnvVars("MEALDB_CONFIG"),
		},
	}
}

// buildConfig layers the config file, then explicitly set flags or env vars,
// over the defaults.
func buildConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("transport") {
		cfg.Transport = cmd.String("transport")
	}
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("base-url") {
		cfg.BaseURL = cmd.String("base-url")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("public-url") {
		cfg.PublicURL = cmd.String("public-url")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	if err := logging.Init(logCfg); err != nil {
		return err
	}

	client := mealdb.NewClient(mealdb.WithBaseURL(cfg.BaseURL))
	srv, err := server.NewMealDBServer(cfg, mealdb.NewService(client))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// stdio returns nil when its input ends; stop the shutdown watcher too.
		defer cancel()
		return srv.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.Info("shutting down", "timeout", cfg.ShutdownTimeout.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		return srv.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logging.Error("server stopped with error", "error", err)
		return err
	}
	logging.Info("server stopped")
	return nil
}
