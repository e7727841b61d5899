package game

import (
	"context"
	"strings"

	"github.com/Vader773/daily-grimoire-sub000/internal/model"
	"github.com/Vader773/daily-grimoire-sub000/internal/telemetry"
)

func (e *Engine) AddHabit(ctx context.Context, in NewHabitInput) (model.Habit, error) {
	if err := ValidateHabitInput(in); err != nil {
		return model.Habit{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	period := in.Period
	if period == "" {
		period = model.PeriodDaily
	}
	exs := newExercises(in.Exercises)
	if in.Atomic {
		for i := range exs {
			exs[i].StartAmount = min(e.bal.AtomicSeedAmount, exs[i].TargetAmount)
			exs[i].CurrentAmount = exs[i].StartAmount
		}
	}
	h := model.Habit{
		ID:            model.HabitID(newID("habit")),
		Title:         strings.TrimSpace(in.Title),
		Period:        period,
		Difficulty:    orMedium(in.Difficulty),
		Atomic:        in.Atomic,
		Exercises:     exs,
		LastWeekReset: e.cal.StartOfWeek(),
		History:       []model.HistoryEntry{},
		CreatedAt:     e.cal.Now(),
	}
	if period == model.PeriodWeekly {
		h.WeeklyTarget = in.WeeklyTarget
	}
	e.state.Habits = append(e.state.Habits, h)
	e.ensureHabitTasksLocked(&e.state.Habits[len(e.state.Habits)-1])

	e.record(telemetry.EventHabitCreated, telemetry.EventMetadata{"habit_id": h.ID, "atomic": h.Atomic})
	e.commitLocked(ctx)
	return e.state.Habit(h.ID).Clone(), nil
}

func (e *Engine) DeleteHabit(ctx context.Context, id model.HabitID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	for i := range e.state.Habits {
		if e.state.Habits[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	e.state.Habits = append(e.state.Habits[:idx], e.state.Habits[idx+1:]...)
	e.state.RemoveTasks(func(t model.Task) bool { return t.HabitID == id && !t.Completed })
	e.commitLocked(ctx)
	return true
}

// CompleteHabitTask completes one habit-owned task.
func (e *Engine) CompleteHabitTask(ctx context.Context, id model.TaskID, actual *int) Reward {
	e.mu.Lock()
	t := e.state.Task(id)
	owned := t != nil && t.HabitID != ""
	e.mu.Unlock()
	if !owned {
		return Reward{}
	}
	return e.Complete(ctx, id, actual)
}

// CompleteHabit completes the habit's next open task for today, creating it
// if the rollover has not yet.
func (e *Engine) CompleteHabit(ctx context.Context, id model.HabitID) Reward {
	e.mu.Lock()
	defer e.mu.Unlock()

	h := e.state.Habit(id)
	if h == nil {
		return Reward{}
	}
	t := e.openHabitTask(id)
	if t == nil && e.ensureHabitTasksLocked(h) > 0 {
		t = e.openHabitTask(id)
	}
	if t == nil {
		return Reward{}
	}
	levelBefore := e.state.Stats.Level
	xp := e.completeHabitTaskLocked(t, nil)
	e.commitLocked(ctx)
	return e.rewardSince(levelBefore, xp)
}

func (e *Engine) openHabitTask(id model.HabitID) *model.Task {
	today := e.cal.Today()
	for i := range e.state.Tasks {
		t := &e.state.Tasks[i]
		if t.HabitID == id && t.Date == today && !t.Completed {
			return t
		}
	}
	return nil
}

func (e *Engine) completeHabitTaskLocked(t *model.Task, actual *int) int {
	h := e.state.Habit(t.HabitID)
	xp := e.completeTaskLocked(t)
	if h == nil {
		return xp
	}
	if actual != nil && *actual > 0 {
		t.ActualAmount = *actual
	}
	value := t.RequiredAmount
	if t.ActualAmount > 0 {
		value = t.ActualAmount
	}
	if ex := h.Exercise(t.ExerciseID); ex != nil {
		e.escalateLocked(h.Title, ex)
	}
	e.recordHabitCompletion(h, max(value, 1))
	return xp
}

// recordHabitCompletion applies the habit streak rule once per day and
// counts the day toward the weekly target.
func (e *Engine) recordHabitCompletion(h *model.Habit, value int) {
	today := e.cal.Today()
	if h.LastCompletedDate != today {
		h.Streak = nextStreak(h.LastCompletedDate, e.cal.Yesterday(), h.Streak)
		h.LongestStreak = max(h.LongestStreak, h.Streak)
		h.LastCompletedDate = today
		if h.Period == model.PeriodWeekly {
			h.WeeklyProgress++
		}
	}
	h.History = append(h.History, model.HistoryEntry{Date: today, Value: value})
	e.record(telemetry.EventHabitCompleted, telemetry.EventMetadata{"habit_id": h.ID, "streak": h.Streak})
}

// ensureHabitTasksLocked creates the habit's missing tasks for today. Weekly
// habits stop generating once the week's target is met.
func (e *Engine) ensureHabitTasksLocked(h *model.Habit) int {
	if h.Period == model.PeriodWeekly && h.WeeklyTarget > 0 && h.WeeklyProgress >= h.WeeklyTarget {
		return 0
	}
	today, now := e.cal.Today(), e.cal.Now()
	created := 0
	if len(h.Exercises) == 0 {
		if !e.hasTaskToday("", h.ID, "", false) {
			e.state.Tasks = append(e.state.Tasks, e.gen.ForHabit(h, nil, today, now))
			created++
		}
		return created
	}
	for i := range h.Exercises {
		ex := &h.Exercises[i]
		if !e.hasTaskToday("", h.ID, ex.ID, false) {
			e.state.Tasks = append(e.state.Tasks, e.gen.ForHabit(h, ex, today, now))
			created++
		}
	}
	return created
}
