package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vader773/daily-grimoire-sub000/internal/config"
	"github.com/Vader773/daily-grimoire-sub000/internal/game"
	"github.com/Vader773/daily-grimoire-sub000/internal/telemetry"
)

func TestOpen_FileStorePersistsAcrossRuns(t *testing.T) {
	cfg := config.Defaults()
	cfg.Storage.Driver = config.StoreFile
	cfg.Storage.DataDir = t.TempDir()
	cfg.Timezone = "UTC"
	clock := game.NewFakeClock(time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	rt, err := Open(ctx, cfg, nil, clock)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-04", rt.Start.Today)
	_, isMemory := rt.Events.(*telemetry.MemoryRepository)
	assert.True(t, isMemory)

	task, err := rt.Engine.AddTask(ctx, game.NewTaskInput{Title: "Inbox zero"})
	require.NoError(t, err)
	rt.Engine.CompleteTask(ctx, task.ID)
	require.NoError(t, rt.Close())

	rt, err = Open(ctx, cfg, nil, clock)
	require.NoError(t, err)
	defer rt.Close()
	assert.Equal(t, 25, rt.Engine.Snapshot().Stats.TotalLifetimeXP)
}

func TestOpen_RejectsBadTimezone(t *testing.T) {
	cfg := config.Defaults()
	cfg.Storage.Driver = config.StoreMemory
	cfg.Timezone = "Mars/Olympus"
	_, err := Open(context.Background(), cfg, nil, nil)
	require.Error(t, err)
}
