package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Vader773/daily-grimoire-sub000/internal/bootstrap"
	"github.com/Vader773/daily-grimoire-sub000/internal/config"
	"github.com/Vader773/daily-grimoire-sub000/internal/logger"
	"github.com/Vader773/daily-grimoire-sub000/internal/serverapp"
)

func main() {
	configPath := flag.String("config", "grimoire.yml", "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	cfg = config.FromEnv(cfg)

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", "error", err)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Open(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	app, err := serverapp.NewApp(serverapp.Options{
		Config: cfg,
		Engine: rt.Engine,
		Store:  rt.Store,
		Events: rt.Events,
		Logger: log,
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", "addr", cfg.Server.Addr, "store", cfg.Storage.Driver, "today", rt.Engine.Today())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		rolloverAtMidnight(gctx, rt, log)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		app.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// rolloverAtMidnight keeps a long-running server on the current day.
func rolloverAtMidnight(ctx context.Context, rt *bootstrap.Runtime, log *logger.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	day := rt.Engine.Today()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if today := rt.Engine.Today(); today != day {
				r := rt.Engine.Rollover(ctx)
				log.Info("day changed", "from", day, "to", today, "tasks_generated", r.TasksGenerated)
				day = today
			}
		}
	}
}
