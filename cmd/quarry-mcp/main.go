package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/quarrylabs/quarry-mcp/pkg/backend"
	"github.com/quarrylabs/quarry-mcp/pkg/config"
	"github.com/quarrylabs/quarry-mcp/pkg/credentials"
	"github.com/quarrylabs/quarry-mcp/pkg/dispatch"
	"github.com/quarrylabs/quarry-mcp/pkg/mcpserver"
	"github.com/quarrylabs/quarry-mcp/pkg/otel"
	"github.com/quarrylabs/quarry-mcp/pkg/resources"
	"github.com/quarrylabs/quarry-mcp/pkg/tools"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	var showVersion bool
	var backendURL, mode string

	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.StringVar(&backendURL, "backend", "", "backend base URL (overrides "+config.EnvBackendURL+")")
	flag.StringVar(&mode, "mode", "", "credential mode: explicit, environment or legacy (overrides "+config.EnvCredentialMode+")")
	flag.Parse()

	if showVersion {
		fmt.Printf("quarry-mcp %s (commit=%s, date=%s)\n", version, commit, date)
		return
	}

	// Stdout carries the MCP transport; all logging goes to stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	_ = godotenv.Load()
	cfg, err := config.FromEnv()
	if err != nil {
		fatal(err)
	}
	if backendURL != "" {
		cfg.BackendURL = backendURL
	}
	if mode != "" {
		cfg.Mode = mode
	}
	policy, ok := credentials.ParsePolicy(cfg.Mode)
	if !ok {
		fatal(fmt.Errorf("unknown credential mode %q", cfg.Mode))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := otel.Init(ctx, otel.Config{ServiceVersion: version, UseStdout: cfg.TraceStdout})
	if err != nil {
		fatal(err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	client := backend.New(cfg.BackendURL)
	proxy := resources.NewProxy(client)
	reg, err := tools.NewCatalog(tools.Deps{
		Client:   client,
		Resolver: credentials.NewResolver(policy, cfg),
		Proxy:    proxy,
		Dataset:  cfg.Dataset,
	})
	if err != nil {
		fatal(err)
	}

	srv, err := mcpserver.New(ctx, dispatch.New(reg, proxy), version)
	if err != nil {
		fatal(err)
	}

	slog.Info("serving MCP over stdio", "backend", cfg.BackendURL, "mode", cfg.Mode, "tools", len(reg.List()))
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		fatal(err)
	}
}

func fatal(err error) {
	slog.Error("startup failed", "error", err)
	os.Exit(1)
}
