package root

import (
	"context"

	"github.com/Vader773/daily-grimoire-sub000/internal/bootstrap"
	"github.com/Vader773/daily-grimoire-sub000/internal/config"
	"github.com/Vader773/daily-grimoire-sub000/internal/logger"
)

// openSession loads config, opens the store and starts the engine. The
// returned cleanup closes the store.
func openSession(ctx context.Context, g *globalFlags) (*bootstrap.Runtime, func(), error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, nil, err
	}
	cfg = config.FromEnv(cfg)

	log := logger.Nop()
	if g.verbose {
		if log, err = logger.New(cfg.Log.Mode); err != nil {
			return nil, nil, err
		}
	}

	rt, err := bootstrap.Open(ctx, cfg, log, nil)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = rt.Close()
		log.Sync()
	}
	return rt, cleanup, nil
}
