package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sfko/legocat/internal/catalog"
	"github.com/sfko/legocat/internal/config"
	"github.com/sfko/legocat/internal/store"
)

const shutdownTimeout = 30 * time.Second

// Run opens the configured catalog database and serves it until ctx is
// cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg *config.Config, version string, logger *slog.Logger) error {
	st, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN, store.Options{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		ConnMaxLife:  30 * time.Minute,
	})
	if err != nil {
		return fmt.Errorf("open catalog database: %w", err)
	}
	defer st.Close()

	svc := catalog.NewService(st, cfg.Server.PageSize, logger)
	h := Handler(svc, st, &ServerConfig{Version: version, EnableMetrics: true}, logger)

	srv := &http.Server{
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return context.Background() },
	}

	ln, err := net.Listen("tcp", cfg.Server.Listen)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Server.Listen, err)
	}

	logger.Info("starting legocat-server",
		"listen", ln.Addr().String(),
		"driver", st.Driver(),
		"page_size", cfg.Server.PageSize,
		"version", version,
	)
	return serve(ctx, srv, ln, logger)
}

// serve runs srv on ln until ctx is done or the server fails.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
