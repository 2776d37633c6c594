package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ReedRawlings/fitnotes-sub003/internal/config"
	"github.com/ReedRawlings/fitnotes-sub003/internal/mcp"
	"github.com/ReedRawlings/fitnotes-sub003/internal/resttimer"
	"github.com/ReedRawlings/fitnotes-sub003/internal/server"
	"github.com/ReedRawlings/fitnotes-sub003/internal/storage"
	"github.com/ReedRawlings/fitnotes-sub003/internal/workout"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("FitNotes server starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Run migrations
	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Connect database
	ctx := context.Background()
	db, err := storage.New(ctx, dsn, cfg.Tracking.Timezone)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	loc, err := cfg.Tracking.Location()
	if err != nil {
		log.Error("invalid tracking timezone", "error", err)
		os.Exit(1)
	}

	// Core services
	svc := workout.NewService(db, loc, cfg.Tracking.DeclineTolerance, log)
	timer := resttimer.New(log)
	timer.OnComplete(func(s resttimer.Snapshot) {
		log.Info("rest timer complete", "exercise_id", s.ExerciseID, "set_number", s.SetNumber)
	})

	// Create server
	srv := server.New(db, svc, timer, server.Options{
		APIKey:      cfg.Auth.APIKey,
		WeightUnit:  cfg.Tracking.WeightUnit,
		DefaultRest: time.Duration(cfg.Tracking.RestSeconds) * time.Second,
	}, log)

	// Mount the MCP endpoint alongside the REST API
	mcpSrv := mcp.New(db, svc, cfg.Tracking.WeightUnit, Version, log)
	srv.Router().Mount("/mcp", mcpserver.NewStreamableHTTPServer(mcpSrv))

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
