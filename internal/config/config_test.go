package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, ":42069", cfg.Server.Addr)
	assert.Equal(t, StoreFile, cfg.Storage.Driver)
	assert.Equal(t, Default(), cfg.Balance)
}

func TestLoad_PartialYAMLKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grimoire.yml")
	body := `
server:
  addr: ":8080"
storage:
  driver: sqlite
  data_dir: /tmp/grimoire
balance:
  goal_completion_bonus: 500
  overload_rate: 0.2
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, StoreSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/grimoire/grimoire.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 500, cfg.Balance.GoalCompletionBonus)
	assert.InDelta(t, 0.2, cfg.Balance.OverloadRate, 1e-9)
	assert.Equal(t, 25, cfg.Balance.MediumTaskXP)
	assert.Equal(t, 3, cfg.Balance.OverloadThresholdDays)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GRIMOIRE_STORE", "Memory")
	t.Setenv("GRIMOIRE_ADDR", ":9999")
	t.Setenv("VICE_CLEAN_XP", "75")
	t.Setenv("OVERCLOCK_CAP", "not-a-number")

	cfg := FromEnv(Defaults())

	assert.Equal(t, StoreMemory, cfg.Storage.Driver)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 75, cfg.Balance.ViceCleanXP)
	assert.Equal(t, 100, cfg.Balance.OverclockCap)
}
