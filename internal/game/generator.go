package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Vader773/daily-grimoire-sub000/internal/config"
	"github.com/Vader773/daily-grimoire-sub000/internal/model"
)

func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// difficultyBands holds the exclusive upper bounds for easy, medium and hard
// per unit; anything at or above the last band is epic.
var difficultyBands = map[model.Unit][3]int{
	model.UnitReps:     {20, 50, 100},
	model.UnitMinutes:  {15, 45, 90},
	model.UnitPages:    {10, 30, 60},
	model.UnitSessions: {2, 4, 6},
	model.UnitBooks:    {2, 4, 6},
	model.UnitItems:    {2, 4, 6},
}

// DifficultyFor derives a task tier from the assigned amount.
func DifficultyFor(unit model.Unit, amount int) model.Difficulty {
	bands, ok := difficultyBands[unit]
	if !ok {
		return model.DifficultyMedium
	}
	switch {
	case amount < bands[0]:
		return model.DifficultyEasy
	case amount < bands[1]:
		return model.DifficultyMedium
	case amount < bands[2]:
		return model.DifficultyHard
	default:
		return model.DifficultyEpic
	}
}

// Generator materialises tasks from goals and habits. It never touches state;
// the engine decides when a task is missing.
type Generator struct {
	bal config.Balance
}

func NewGenerator(bal config.Balance) Generator {
	return Generator{bal: bal}
}

// XPFor maps a difficulty to its base reward.
func (g Generator) XPFor(d model.Difficulty) int {
	switch d {
	case model.DifficultyEasy:
		return g.bal.EasyTaskXP
	case model.DifficultyHard:
		return g.bal.HardTaskXP
	case model.DifficultyEpic:
		return g.bal.EpicTaskXP
	default:
		return g.bal.MediumTaskXP
	}
}

func orMedium(d model.Difficulty) model.Difficulty {
	if d.IsValid() {
		return d
	}
	return model.DifficultyMedium
}

func (g Generator) base(title string, d model.Difficulty, day string, now time.Time) model.Task {
	return model.Task{
		ID:         model.TaskID(newID("task")),
		Title:      title,
		Difficulty: d,
		XP:         g.XPFor(d),
		Daily:      true,
		Date:       day,
		CreatedAt:  now,
	}
}

func exerciseTitle(owner string, ex *model.Exercise) string {
	return fmt.Sprintf("%s: %d %s %s", owner, ex.CurrentAmount, ex.Unit, ex.Name)
}

// ForGoal builds the day's task for a goal, or for one of its exercises when
// ex is non-nil.
func (g Generator) ForGoal(goal *model.Goal, ex *model.Exercise, day string, now time.Time) model.Task {
	if goal.Type == model.GoalAccumulator {
		t := g.base(fmt.Sprintf("%s: contribute toward %d %s", goal.Title, goal.TargetTotal, goal.Unit),
			model.DifficultyMedium, day, now)
		t.GoalID = goal.ID
		t.Unit = goal.Unit
		t.Accumulator = true
		t.Daily = false
		return t
	}

	if ex == nil {
		t := g.base(goal.Title, orMedium(goal.Difficulty), day, now)
		t.GoalID = goal.ID
		return t
	}
	t := g.base(exerciseTitle(goal.Title, ex), DifficultyFor(ex.Unit, ex.CurrentAmount), day, now)
	t.GoalID = goal.ID
	t.ExerciseID = ex.ID
	t.Unit = ex.Unit
	t.RequiredAmount = ex.CurrentAmount
	return t
}

func (g Generator) ForHabit(h *model.Habit, ex *model.Exercise, day string, now time.Time) model.Task {
	if ex == nil {
		t := g.base(h.Title, orMedium(h.Difficulty), day, now)
		t.HabitID = h.ID
		return t
	}
	t := g.base(exerciseTitle(h.Title, ex), DifficultyFor(ex.Unit, ex.CurrentAmount), day, now)
	t.HabitID = h.ID
	t.ExerciseID = ex.ID
	t.Unit = ex.Unit
	t.RequiredAmount = ex.CurrentAmount
	return t
}

// AdHoc builds a user-authored task with no owner.
func (g Generator) AdHoc(in NewTaskInput, day string, now time.Time) model.Task {
	t := g.base(in.Title, orMedium(in.Difficulty), day, now)
	t.Daily = in.Daily
	t.TimerMinutes = in.TimerMinutes
	return t
}
