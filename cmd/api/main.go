package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/netutil"

	"tasks-manager-backend/internal/config"
	"tasks-manager-backend/internal/httpapi"
	"tasks-manager-backend/internal/logging"
	"tasks-manager-backend/internal/tasks"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The store connects in the background; startup never waits for it.
	st, err := openStore(rootCtx, cfg, logger)
	if err != nil {
		logger.Fatal("❌ Failed to set up store", "driver", cfg.StoreDriver, "err", err)
	}

	handler := httpapi.NewRouter(httpapi.Deps{
		Tasks:          tasks.NewService(st.repo),
		State:          st.state,
		Driver:         cfg.StoreDriver,
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		BodyLimit:      cfg.BodyLimitBytes,
	})

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		logger.Fatal("listen failed", "addr", cfg.Addr(), "err", err)
	}
	if cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, cfg.MaxConnections)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("🚀 Server running on " + cfg.BaseURL())
		logger.Info("📊 API available at " + cfg.BaseURL() + "/api/tasks")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-rootCtx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "err", err)
	}
	if err := st.close(shutdownCtx); err != nil {
		logger.Error("store close error", "err", err)
	}
	logger.Info("bye")
}
