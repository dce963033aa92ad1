package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/lib/pq"
)

const postgresProbeInterval = 10 * time.Second

// OpenPostgres opens the pool without waiting for the server. Like
// ConnectMongo, the first ping is logged once and a background probe keeps
// the State current until ctx is done.
func OpenPostgres(ctx context.Context, connString string, logger *log.Logger) (*sql.DB, *State, error) {
	dbx, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres open: %w", err)
	}

	state := NewState(false)
	go probePostgres(ctx, dbx, state, logger)

	return dbx, state, nil
}

func probePostgres(ctx context.Context, dbx *sql.DB, state *State, logger *log.Logger) {
	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return dbx.PingContext(pingCtx)
	}

	if err := ping(); err != nil {
		logger.Error("❌ PostgreSQL connection error", "err", err)
	} else {
		state.set(true)
		logger.Info("✅ Connected to PostgreSQL")
	}

	ticker := time.NewTicker(postgresProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := ping()
			if state.set(err == nil) {
				if err != nil {
					logger.Warn("postgres connection lost", "err", err)
				} else {
					logger.Info("postgres connection restored")
				}
			}
		}
	}
}
