package root

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t          *testing.T
	configPath string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	cfg := "timezone: UTC\nstorage:\n  driver: file\n  data_dir: " + filepath.Join(dir, "data") + "\n"
	path := filepath.Join(dir, "grimoire.yml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return &cli{t: t, configPath: path}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"--config", c.configPath}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

// lastField pulls the id printed at the end of an "added" line.
func lastField(out string) string {
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func TestCLI_TaskFlow(t *testing.T) {
	c := newCLI(t)

	id := lastField(c.mustRun("task", "add", "Laundry", "-d", "easy"))
	require.True(t, strings.HasPrefix(id, "task_"), id)

	assert.Contains(t, c.mustRun("task", "list"), "Laundry")
	assert.Contains(t, c.mustRun("task", "done", id), "+10 XP")
	assert.Contains(t, c.mustRun("task", "done", id), "nothing changed")

	status := c.mustRun("status")
	assert.Contains(t, status, "Level")
	assert.Contains(t, status, "BRONZE")
	assert.Contains(t, status, "Laundry")

	_, err := c.run("task", "done", "task_missing")
	assert.Error(t, err)

	c.mustRun("task", "rm", id)
	assert.Contains(t, c.mustRun("task", "list"), "no tasks")
}

func TestCLI_TaskAddValidation(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("task", "add", "Laundry", "-d", "legendary")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "difficulty")

	_, err = c.run("task", "add")
	require.Error(t, err)
}

func TestCLI_GoalsAndHabits(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("goal", "add", "Pushups", "--exercise", "Pushups:reps:10:50")
	require.True(t, strings.HasPrefix(lastField(out), "goal_"), out)
	assert.Contains(t, c.mustRun("goal", "list"), "Pushups 10/50")

	_, err := c.run("goal", "add", "Broken", "--exercise", "Pushups:reps:ten:50")
	assert.Error(t, err)

	_, err = c.run("goal", "habit", lastField(out))
	assert.Error(t, err, "an unfinished goal cannot become a habit")

	hid := lastField(c.mustRun("habit", "add", "Read", "--exercise", "Read:pages:5:20"))
	require.True(t, strings.HasPrefix(hid, "habit_"), hid)
	assert.Contains(t, c.mustRun("habit", "done", hid), "XP")
	assert.Contains(t, c.mustRun("habit", "list"), "streak: 🔥 1")
}

func TestCLI_Vices(t *testing.T) {
	c := newCLI(t)

	id := lastField(c.mustRun("vice", "add", "Sugar"))
	require.True(t, strings.HasPrefix(id, "vice_"), id)

	_, err := c.run("vice", "check", id, "maybe")
	assert.Error(t, err)

	assert.Contains(t, c.mustRun("vice", "check", id, "clean"), "+50 XP")
	assert.Contains(t, c.mustRun("vice", "list"), "clean: 1")
}

func TestCLI_Debug(t *testing.T) {
	c := newCLI(t)

	assert.Contains(t, c.mustRun("debug", "league", "gold"), "GOLD")
	assert.Contains(t, c.mustRun("debug", "league"), "BRONZE")
	_, err := c.run("debug", "league", "tin")
	assert.Error(t, err)

	assert.Contains(t, c.mustRun("debug", "xp", "100"), "LEVEL UP")
	assert.Contains(t, c.mustRun("debug", "advance"), "Rollover")
	assert.Contains(t, c.mustRun("status"), "offset +1")
	assert.Contains(t, c.mustRun("rollover"), "tasks generated")
}
