package main

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"tasks-manager-backend/internal/config"
	"tasks-manager-backend/internal/db"
	"tasks-manager-backend/internal/store/memstore"
	"tasks-manager-backend/internal/store/mongostore"
	"tasks-manager-backend/internal/store/pgstore"
	"tasks-manager-backend/internal/tasks"
)

const bootstrapTimeout = 45 * time.Second

type store struct {
	repo  tasks.Repository
	state *db.State
	close func(context.Context) error
}

func openStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.DriverMemory:
		logger.Warn("using in-memory store; tasks are lost on restart")
		return &store{
			repo:  memstore.New(),
			state: db.NewState(true),
			close: func(context.Context) error { return nil },
		}, nil
	default:
		return openMongo(ctx, cfg, logger)
	}
}

func openMongo(ctx context.Context, cfg *config.Config, logger *log.Logger) (*store, error) {
	client, state, err := db.ConnectMongo(ctx, cfg.MongoURI, logger)
	if err != nil {
		return nil, err
	}

	coll := client.Database(cfg.MongoDatabaseName()).Collection(cfg.MongoCollection)
	repo := mongostore.New(coll)

	go func() {
		idxCtx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
		defer cancel()
		if err := repo.EnsureIndexes(idxCtx); err != nil {
			logger.Warn("mongodb index bootstrap skipped", "err", err)
		}
	}()

	return &store{repo: repo, state: state, close: client.Disconnect}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *log.Logger) (*store, error) {
	dbx, state, err := db.OpenPostgres(ctx, cfg.ConnString(), logger)
	if err != nil {
		return nil, err
	}

	repo := pgstore.New(dbx, "tasks")

	go func() {
		migCtx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
		defer cancel()
		if err := repo.Migrate(migCtx); err != nil {
			logger.Error("postgres table bootstrap failed", "err", err)
		}
	}()

	return &store{
		repo:  repo,
		state: state,
		close: func(context.Context) error { return dbx.Close() },
	}, nil
}
