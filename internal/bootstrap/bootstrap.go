// Package bootstrap opens the configured store, telemetry sink and engine.
// The server and the CLI share it.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/Vader773/daily-grimoire-sub000/internal/config"
	"github.com/Vader773/daily-grimoire-sub000/internal/game"
	"github.com/Vader773/daily-grimoire-sub000/internal/logger"
	"github.com/Vader773/daily-grimoire-sub000/internal/storage"
	"github.com/Vader773/daily-grimoire-sub000/internal/telemetry"
)

type Runtime struct {
	Config *config.Config
	Store  storage.Store
	Events telemetry.Repository
	Engine *game.Engine
	// Start is the session-start rollover.
	Start game.RolloverReport
}

func (r *Runtime) Close() error {
	return r.Store.Close()
}

// Open wires everything cfg describes and runs the session-start pass.
// clock may be nil for wall time.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger, clock game.Clock) (*Runtime, error) {
	if log == nil {
		log = logger.Nop()
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}

	var events telemetry.Repository = telemetry.NewMemoryRepository()
	if rs, ok := store.(*storage.RedisStore); ok {
		events = telemetry.NewRedisRepository(rs.Client(), cfg.Storage.Redis.Prefix)
	}

	eng, err := game.NewEngine(ctx, game.Options{
		Store:    store,
		Clock:    clock,
		Location: loc,
		Balance:  cfg.Balance,
		Events:   events,
		Logger:   log,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("start engine: %w", err)
	}

	report := eng.Start(ctx)
	log.Debug("session started",
		"driver", cfg.Storage.Driver,
		"today", report.Today,
		"tasks_generated", report.TasksGenerated,
		"vices_backfilled", report.VicesBackfilled,
	)
	return &Runtime{Config: cfg, Store: store, Events: events, Engine: eng, Start: report}, nil
}
