package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"captionfix/internal/config"
	"captionfix/internal/history"
	"captionfix/internal/logging"
	"captionfix/internal/preflight"
)

// ErrAlreadyRunning is returned when another server holds the data directory lock.
var ErrAlreadyRunning = errors.New("captionfix server already running")

const historyPruneInterval = time.Hour

// Run acquires the instance lock, opens history, and serves until ctx is
// cancelled. It returns nil after a clean shutdown.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	runLogger := logging.NewComponentLogger(logger, "server")

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w (lock %s)", ErrAlreadyRunning, cfg.LockPath())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			runLogger.Warn("failed to release server lock",
				logging.Error(err),
				logging.String(logging.FieldEventType, "lock_release_failed"),
			)
		}
	}()

	if failed := preflight.Failed(preflight.RunAll(ctx, cfg)); len(failed) > 0 {
		details := make([]string, 0, len(failed))
		for _, r := range failed {
			details = append(details, r.Name+": "+r.Detail)
		}
		return fmt.Errorf("preflight failed: %s", strings.Join(details, "; "))
	}

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()
	}

	srv, err := New(cfg, store, logger)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", cfg.Server.Bind)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Server.Bind, err)
	}
	return srv.Serve(ctx, listener)
}

// Serve runs the HTTP server on listener alongside the workspace janitor and
// history pruning. All three stop when ctx is cancelled or any of them fails.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(s.cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log().Info("api server listening",
			logging.String("address", listener.Addr().String()),
			logging.String(logging.FieldEventType, "server_started"),
		)
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(s.cfg.Server.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.log().Info("api server stopped", logging.String(logging.FieldEventType, "server_stopped"))
		return nil
	})

	g.Go(func() error {
		return s.workspaces.RunJanitor(gctx, s.cfg.JanitorInterval(), s.cfg.WorkspaceMaxAge())
	})

	if s.store != nil && s.cfg.History.RetentionDays > 0 {
		g.Go(func() error {
			return s.runHistoryPruner(gctx, historyPruneInterval)
		})
	}

	return g.Wait()
}

func (s *Server) runHistoryPruner(ctx context.Context, interval time.Duration) error {
	retention := time.Duration(s.cfg.History.RetentionDays) * 24 * time.Hour
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		removed, err := s.store.Prune(ctx, retention)
		switch {
		case err != nil && ctx.Err() == nil:
			logging.WarnWithContext(s.log(), "history prune failed", "history_prune_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the history database"),
				logging.String(logging.FieldImpact, "old batches retained"),
			)
		case removed > 0:
			s.log().Info("pruned batch history",
				logging.Int64("removed", removed),
				logging.String(logging.FieldEventType, "history_pruned"),
			)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
