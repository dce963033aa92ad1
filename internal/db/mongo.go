package db

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// pingTimeout matches the driver's default server selection timeout.
const pingTimeout = 30 * time.Second

// ConnectMongo creates the process-wide client. It only fails on a bad URI;
// reachability is checked in the background and reported through the
// logger and the returned State, and topology changes keep the State
// current afterwards. There is no retry beyond the driver's own.
func ConnectMongo(ctx context.Context, uri string, logger *log.Logger) (*mongo.Client, *State, error) {
	state := NewState(false)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerMonitor(topologyMonitor(state, logger)))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	go func() {
		pingCtx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()

		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			state.set(false)
			logger.Error("❌ MongoDB connection error", "err", err)
			return
		}
		state.set(true)
		logger.Info("✅ Connected to MongoDB")
	}()

	return client, state, nil
}

// topologyMonitor marks the deployment connected while it has a writable
// server. A single unreachable replica set member does not flip it.
func topologyMonitor(state *State, logger *log.Logger) *event.ServerMonitor {
	return &event.ServerMonitor{
		TopologyDescriptionChanged: func(e *event.TopologyDescriptionChangedEvent) {
			up := e.NewDescription.HasWritableServer()
			if !state.set(up) {
				return
			}
			if up {
				logger.Debug("mongodb topology writable", "kind", e.NewDescription.Kind.String())
			} else {
				logger.Warn("mongodb has no writable server", "kind", e.NewDescription.Kind.String())
			}
		},
	}
}
