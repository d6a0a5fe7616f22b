package sweeper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/peerlink/signaling/internal/registry"
	"github.com/peerlink/signaling/internal/router"
)

// Evictor tears down one connection. Satisfied by *router.Router.
type Evictor interface {
	Disconnect(connID string, cause router.Cause)
}

// Config holds sweeper configuration.
type Config struct {
	Interval time.Duration // sweep period (default: 30s)
	Timeout  time.Duration // max silence before eviction (default: 60s)
}

// DefaultConfig returns sensible defaults: a connection has to miss two whole
// sweep windows before it is evicted.
func DefaultConfig() Config {
	return Config{
		Interval: 30 * time.Second,
		Timeout:  60 * time.Second,
	}
}

// Sweeper periodically evicts connections that have gone silent.
type Sweeper struct {
	cfg     Config
	reg     *registry.Registry
	evictor Evictor
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Sweeper.
func New(cfg Config, reg *registry.Registry, evictor Evictor, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		cfg:     cfg,
		reg:     reg,
		evictor: evictor,
		logger:  logger,
	}
}

// Start begins the sweep loop.
func (s *Sweeper) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run()

	s.logger.Info("liveness sweeper started",
		"interval", s.cfg.Interval,
		"timeout", s.cfg.Timeout,
	)
	return nil
}

// Stop gracefully shuts down the sweeper.
func (s *Sweeper) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("liveness sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main sweep loop.
func (s *Sweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep evicts every connection whose heartbeat is older than the timeout.
// Eviction runs through the router, so it serializes against in-flight
// message handling.
func (s *Sweeper) sweep() {
	cutoff := time.Now().Add(-s.cfg.Timeout)
	expired := s.reg.ExpiredBefore(cutoff)
	if len(expired) == 0 {
		return
	}

	for _, id := range expired {
		s.logger.Warn("evicting silent connection", "conn_id", id)
		s.evictor.Disconnect(id, router.CauseTimeout)
	}
}
