package game

import (
	"context"
	"time"

	"github.com/Vader773/daily-grimoire-sub000/internal/model"
	"github.com/Vader773/daily-grimoire-sub000/internal/telemetry"
)

func (e *Engine) AddTask(ctx context.Context, in NewTaskInput) (model.Task, error) {
	if err := ValidateTaskInput(in); err != nil {
		return model.Task{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	t := e.gen.AdHoc(in, e.cal.Today(), e.cal.Now())
	e.state.Tasks = append(e.state.Tasks, t)
	e.record(telemetry.EventTaskCreated, telemetry.EventMetadata{"task_id": t.ID, "difficulty": t.Difficulty})
	e.commitLocked(ctx)
	return t.Clone(), nil
}

// CompleteTask completes any task, routing owned tasks through their goal or
// habit so progression applies.
func (e *Engine) CompleteTask(ctx context.Context, id model.TaskID) Reward {
	return e.Complete(ctx, id, nil)
}

// Complete routes by owner. actual, when set, is the amount actually done.
func (e *Engine) Complete(ctx context.Context, id model.TaskID, actual *int) Reward {
	e.mu.Lock()
	defer e.mu.Unlock()

	t := e.state.Task(id)
	if t == nil || t.Completed {
		return Reward{}
	}
	levelBefore := e.state.Stats.Level

	var xp int
	switch {
	case t.GoalID != "":
		g := e.state.Goal(t.GoalID)
		if g != nil && g.Type == model.GoalAccumulator {
			amount := 0
			if actual != nil {
				amount = *actual
			}
			xp = e.accumulateLocked(t, g, amount)
		} else {
			xp = e.completeGoalTaskLocked(t, actual)
		}
	case t.HabitID != "":
		xp = e.completeHabitTaskLocked(t, actual)
	default:
		xp = e.completeTaskLocked(t)
	}
	if xp == 0 && !e.state.Task(id).Completed {
		return Reward{}
	}
	e.commitLocked(ctx)
	return e.rewardSince(levelBefore, xp)
}

// completeTaskLocked marks t done and pays its base XP.
func (e *Engine) completeTaskLocked(t *model.Task) int {
	if t == nil || t.Completed {
		return 0
	}
	now := e.cal.Now()
	t.Completed = true
	t.CompletedAt = &now
	e.grantXP(t.XP)
	e.record(telemetry.EventTaskCompleted, telemetry.EventMetadata{
		"task_id":    t.ID,
		"difficulty": t.Difficulty,
		"xp":         t.XP,
	})
	return t.XP
}

func (e *Engine) DeleteTask(ctx context.Context, id model.TaskID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := e.state.RemoveTasks(func(t model.Task) bool { return t.ID == id })
	if n == 0 {
		return false
	}
	e.record(telemetry.EventTaskDeleted, telemetry.EventMetadata{"task_id": id})
	e.commitLocked(ctx)
	return true
}

// StartTaskTimer stamps the timer start on a timed, incomplete task.
func (e *Engine) StartTaskTimer(ctx context.Context, id model.TaskID) (model.Task, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t := e.state.Task(id)
	if t == nil || t.Completed || t.TimerMinutes <= 0 {
		return model.Task{}, false
	}
	now := e.cal.Now()
	t.TimerStartedAt = &now
	e.commitLocked(ctx)
	return t.Clone(), true
}

// TimerRemaining reports how long the task timer still has to run. A task
// without a started timer reports its full duration.
func (e *Engine) TimerRemaining(id model.TaskID) (time.Duration, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t := e.state.Task(id)
	if t == nil || t.TimerMinutes <= 0 {
		return 0, false
	}
	total := time.Duration(t.TimerMinutes) * time.Minute
	if t.TimerStartedAt == nil {
		return total, true
	}
	left := total - e.cal.Now().Sub(*t.TimerStartedAt)
	return max(left, 0), true
}
