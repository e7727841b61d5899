package game

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Vader773/daily-grimoire-sub000/internal/config"
	"github.com/Vader773/daily-grimoire-sub000/internal/model"
)

func TestDifficultyFor(t *testing.T) {
	cases := []struct {
		unit   model.Unit
		amount int
		want   model.Difficulty
	}{
		{model.UnitReps, 10, model.DifficultyEasy},
		{model.UnitReps, 20, model.DifficultyMedium},
		{model.UnitReps, 99, model.DifficultyHard},
		{model.UnitReps, 100, model.DifficultyEpic},
		{model.UnitMinutes, 14, model.DifficultyEasy},
		{model.UnitMinutes, 60, model.DifficultyHard},
		{model.UnitPages, 30, model.DifficultyHard},
		{model.UnitSessions, 1, model.DifficultyEasy},
		{model.UnitBooks, 3, model.DifficultyMedium},
		{model.UnitItems, 9, model.DifficultyEpic},
		{model.Unit("parsecs"), 9, model.DifficultyMedium},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DifficultyFor(c.unit, c.amount), "%s/%d", c.unit, c.amount)
	}
}

func TestGenerator_ForGoal(t *testing.T) {
	gen := NewGenerator(config.Default())
	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

	g := &model.Goal{ID: "goal_1", Title: "Pushups", Type: model.GoalProgressive}
	ex := &model.Exercise{ID: "ex_1", Name: "pushups", Unit: model.UnitReps, CurrentAmount: 25}
	task := gen.ForGoal(g, ex, "2026-03-04", now)

	assert.True(t, strings.HasPrefix(string(task.ID), "task_"))
	assert.Equal(t, model.GoalID("goal_1"), task.GoalID)
	assert.Equal(t, model.ExerciseID("ex_1"), task.ExerciseID)
	assert.Equal(t, 25, task.RequiredAmount)
	assert.Equal(t, model.DifficultyMedium, task.Difficulty)
	assert.Equal(t, 25, task.XP)
	assert.True(t, task.Daily)
	assert.Equal(t, "2026-03-04", task.Date)

	acc := &model.Goal{ID: "goal_2", Title: "Books", Type: model.GoalAccumulator, TargetTotal: 12, Unit: model.UnitBooks}
	at := gen.ForGoal(acc, nil, "2026-03-04", now)
	assert.True(t, at.Accumulator)
	assert.False(t, at.Daily)
	assert.False(t, at.Regenerable())
	assert.Equal(t, model.DifficultyMedium, at.Difficulty)

	freq := &model.Goal{ID: "goal_3", Title: "Gym", Type: model.GoalFrequency, Difficulty: model.DifficultyHard}
	ft := gen.ForGoal(freq, nil, "2026-03-04", now)
	assert.Equal(t, 50, ft.XP)
	assert.Equal(t, "Gym", ft.Title)
}

func TestGenerator_AdHocDefaultsToMedium(t *testing.T) {
	gen := NewGenerator(config.Default())
	task := gen.AdHoc(NewTaskInput{Title: "Call mom"}, "2026-03-04", time.Now())
	assert.Equal(t, model.DifficultyMedium, task.Difficulty)
	assert.True(t, task.IsAdHoc())
	assert.False(t, task.Daily)
}
