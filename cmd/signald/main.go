package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/peerlink/signaling/internal/config"
	"github.com/peerlink/signaling/internal/metrics"
	"github.com/peerlink/signaling/internal/registry"
	"github.com/peerlink/signaling/internal/room"
	"github.com/peerlink/signaling/internal/router"
	"github.com/peerlink/signaling/internal/server"
	"github.com/peerlink/signaling/internal/sweeper"
	"github.com/peerlink/signaling/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional, defaults apply)")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting signald",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	var cfg *config.Config
	if *configPath != "" {
		loaded, err := config.LoadAndValidate(*configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	logger.Info("configuration loaded",
		"listen", net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		"room_capacity", cfg.Rooms.Capacity,
		"sweep_interval", cfg.Liveness.SweepInterval,
		"idle_timeout", cfg.Liveness.IdleTimeout,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Wire up shared state and the router
	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)

	reg := registry.New(logger)
	rooms := room.NewDirectory(cfg.Rooms.Capacity, logger)
	rt := router.New(reg, rooms, m, logger)

	sw := sweeper.New(sweeper.Config{
		Interval: cfg.Liveness.SweepInterval,
		Timeout:  cfg.Liveness.IdleTimeout,
	}, reg, rt, logger)

	handler := server.New(server.Config{
		MaxMessageSize: cfg.Transport.MaxMessageSize,
		SendBuffer:     cfg.Transport.SendBuffer,
		WriteTimeout:   cfg.Transport.WriteTimeout,
		PingInterval:   cfg.Transport.PingInterval,
		PongWait:       cfg.Transport.PongWait,
	}, rt, logger)

	signalingSrv := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler: handler,
	}
	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: createOpsHandler(cfg.Metrics.Path, promReg, reg, rooms),
	}

	if err := sw.Start(ctx); err != nil {
		logger.Error("failed to start sweeper", "error", err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("signaling server listening", "addr", signalingSrv.Addr)
		if err := signalingSrv.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("signaling server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("metrics server listening", "addr", metricsSrv.Addr, "path", cfg.Metrics.Path)
		if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		logger.Info("shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		// Tear down remaining clients through the shared disconnect path
		// so their room peers still hear a hangup.
		for _, id := range reg.IDs() {
			rt.Disconnect(id, router.CauseShutdown)
		}

		sw.Stop(shutdownCtx)
		signalingSrv.Shutdown(shutdownCtx)
		metricsSrv.Shutdown(shutdownCtx)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("signald stopped")
}

// createOpsHandler serves Prometheus metrics and a JSON health view on the
// metrics port, keeping the signaling port down to the single root path.
func createOpsHandler(metricsPath string, promReg *prometheus.Registry, reg *registry.Registry, rooms *room.Directory) http.Handler {
	mux := http.NewServeMux()

	mux.Handle(metricsPath, promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status: "healthy",
			Components: map[string]any{
				"connections": reg.Len(),
				"rooms":       rooms.Len(),
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(health)
	})

	return mux
}
