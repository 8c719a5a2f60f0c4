package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/tococyn/internal/config"
	"github.com/lawnchairsociety/tococyn/internal/dice"
	"github.com/lawnchairsociety/tococyn/internal/logger"
	"github.com/lawnchairsociety/tococyn/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr, telnetAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the shared dice table over WebSocket and telnet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			serverCfg := a.cfg.Server
			if cmd.Flags().Changed("addr") {
				serverCfg.Addr = addr
			}
			if cmd.Flags().Changed("telnet") {
				serverCfg.TelnetAddr = telnetAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, serverCfg, sessionSources(a.cfg.Dice.Seed))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "WebSocket listen address (default from config)")
	cmd.Flags().StringVar(&telnetAddr, "telnet", "", "Telnet listen address, empty disables (default from config)")
	return cmd
}

// sessionSources gives every session its own generator. With a fixed seed
// the nth session is seeded with seed+n so runs are reproducible.
func sessionSources(seed int64) server.SourceFactory {
	if seed == 0 {
		return nil
	}
	var n atomic.Int64
	return func() (dice.Source, error) {
		return dice.NewSource(seed + n.Add(1) - 1), nil
	}
}

func serve(ctx context.Context, cfg config.ServerConfig, sources server.SourceFactory) error {
	srv := server.NewServer(cfg, sources)

	switch {
	case len(cfg.AllowedOrigins) == 0:
		logger.Info("WebSocket CORS policy", "mode", "same-origin")
	case len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*":
		logger.Warning("WebSocket CORS allows all origins (not recommended for production)")
	default:
		logger.Info("WebSocket CORS policy", "allowed_origins", cfg.AllowedOrigins)
	}

	errs := make(chan error, 2)
	if cfg.TelnetAddr != "" {
		go func() { errs <- srv.Start(cfg.TelnetAddr) }()
	}
	go func() { errs <- srv.StartWebSocket(cfg.Addr) }()

	logger.Info("Dice table running", "websocket", cfg.Addr, "telnet", cfg.TelnetAddr, "max_dice", cfg.MaxDice)

	var err error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down dice table")
	case err = <-errs:
		logger.Error("Dice table listener failed", "error", err)
	}
	srv.Shutdown()
	logger.Info("Dice table stopped", "uptime", srv.Uptime().String())
	return err
}
