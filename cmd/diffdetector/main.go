package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dusk-indust/diffdetector/internal/api"
	"github.com/dusk-indust/diffdetector/internal/config"
	"github.com/dusk-indust/diffdetector/internal/logger"
	"github.com/dusk-indust/diffdetector/internal/mcptools"
	"github.com/dusk-indust/diffdetector/internal/service"
	"golang.org/x/sync/errgroup"
)

// CLI flags parsed from command line.
type cliFlags struct {
	ConfigPath string
	ConfigDir  string
	Addr       string
	LogLevel   string
	ServeMCP   bool
	Version    bool
}

// version is set by goreleaser at build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	var flags cliFlags

	fs := flag.NewFlagSet("diffdetector", flag.ContinueOnError)
	fs.StringVar(&flags.ConfigPath, "config", "", "path to a config file (default: $"+config.EnvConfigPath+" or diffdetector.yml in -config-dir)")
	fs.StringVar(&flags.ConfigDir, "config-dir", ".", "directory searched for diffdetector.yml")
	fs.StringVar(&flags.Addr, "addr", "", "listen address, overrides server.addr")
	fs.StringVar(&flags.LogLevel, "log-level", "", "log level, overrides log.level")
	fs.BoolVar(&flags.ServeMCP, "serve-mcp", false, "serve MCP tools on stdio instead of HTTP")
	fs.BoolVar(&flags.Version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if flags.Version {
		fmt.Fprintln(stdout, version)
		return nil
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	svc, err := service.Open(cfg.Store.Backend, service.WithLogger(log))
	if err != nil {
		return err
	}
	defer svc.Close()

	if flags.ServeMCP {
		log.Info().Str("backend", cfg.Store.Backend).Msg("serving MCP on stdio")
		return mcptools.RunStdio(ctx, mcptools.NewDetectorMCPServer(svc))
	}

	opts := []api.ServerOption{
		api.WithLogger(log),
		api.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
		api.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
	}
	if cfg.MCP.Enabled {
		opts = append(opts, api.WithMCPHandler(mcptools.HTTPHandler(mcptools.NewDetectorMCPServer(svc))))
	}
	srv := api.NewServer(svc, opts...)

	if err := srv.Start(ctx, cfg.Server.Addr); err != nil {
		return err
	}
	log.Info().
		Str("version", version).
		Str("backend", cfg.Store.Backend).
		Bool("mcp", cfg.MCP.Enabled).
		Msg("diffdetector started")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case err := <-srv.Err():
			return err
		case <-gctx.Done():
			return nil
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return srv.Stop(shutdownCtx)
	})
	return g.Wait()
}

// loadConfig resolves the config file and applies flag overrides.
func loadConfig(flags cliFlags) (*config.Config, error) {
	cfg, err := config.Resolve(flags.ConfigPath, flags.ConfigDir)
	if err != nil {
		return nil, err
	}
	if flags.Addr != "" {
		cfg.Server.Addr = flags.Addr
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
