package game

import (
	"context"
	"strings"

	"github.com/Vader773/daily-grimoire-sub000/internal/model"
	"github.com/Vader773/daily-grimoire-sub000/internal/telemetry"
)

func newExercises(in []ExerciseInput) []model.Exercise {
	out := make([]model.Exercise, 0, len(in))
	for _, ex := range in {
		out = append(out, model.Exercise{
			ID:            model.ExerciseID(newID("ex")),
			Name:          strings.TrimSpace(ex.Name),
			Unit:          ex.Unit,
			StartAmount:   ex.StartAmount,
			TargetAmount:  ex.TargetAmount,
			CurrentAmount: min(ex.StartAmount, ex.TargetAmount),
		})
	}
	return out
}

func (e *Engine) AddGoal(ctx context.Context, in NewGoalInput) (model.Goal, error) {
	if err := ValidateGoalInput(in); err != nil {
		return model.Goal{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	period := in.ResolvedPeriod()
	g := model.Goal{
		ID:            model.GoalID(newID("goal")),
		Title:         strings.TrimSpace(in.Title),
		Type:          in.Type,
		Period:        period,
		Difficulty:    orMedium(in.Difficulty),
		Exercises:     newExercises(in.Exercises),
		TargetTotal:   in.TargetTotal,
		Unit:          in.Unit,
		TargetCount:   in.TargetCount,
		LastWeekReset: e.cal.StartOfWeek(),
		StartDate:     e.cal.Today(),
		Deadline:      in.Deadline,
		History:       []model.HistoryEntry{},
		CreatedAt:     e.cal.Now(),
	}
	e.state.Goals = append(e.state.Goals, g)
	e.ensureGoalTasksLocked(&e.state.Goals[len(e.state.Goals)-1])

	e.record(telemetry.EventGoalCreated, telemetry.EventMetadata{"goal_id": g.ID, "type": g.Type})
	e.commitLocked(ctx)
	return e.state.Goal(g.ID).Clone(), nil
}

func (e *Engine) DeleteGoal(ctx context.Context, id model.GoalID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.removeGoalLocked(id) {
		return false
	}
	e.commitLocked(ctx)
	return true
}

// removeGoalLocked drops the goal and its open tasks. Completed tasks stay
// until rollover archives them into the task history.
func (e *Engine) removeGoalLocked(id model.GoalID) bool {
	idx := -1
	for i := range e.state.Goals {
		if e.state.Goals[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	e.state.Goals = append(e.state.Goals[:idx], e.state.Goals[idx+1:]...)
	e.state.RemoveTasks(func(t model.Task) bool { return t.GoalID == id && !t.Completed })
	return true
}

// CompleteGoalTask completes a goal-owned task. actual, when set, records
// how much was really done.
func (e *Engine) CompleteGoalTask(ctx context.Context, id model.TaskID, actual *int) Reward {
	e.mu.Lock()
	t := e.state.Task(id)
	owned := t != nil && t.GoalID != ""
	e.mu.Unlock()
	if !owned {
		return Reward{}
	}
	return e.Complete(ctx, id, actual)
}

func (e *Engine) completeGoalTaskLocked(t *model.Task, actual *int) int {
	g := e.state.Goal(t.GoalID)
	if g == nil || (g.Completed && g.Terminal()) {
		return e.completeTaskLocked(t)
	}

	xp := e.completeTaskLocked(t)
	if actual != nil && *actual > 0 {
		t.ActualAmount = *actual
	}
	contribution := t.RequiredAmount
	if t.ActualAmount > 0 {
		contribution = t.ActualAmount
	}
	// frequency intensity moves at most once per day
	firstToday := !hasPositiveEntry(g.History, e.cal.Today())
	if ex := g.Exercise(t.ExerciseID); ex != nil && (g.Type != model.GoalFrequency || firstToday) {
		e.escalateLocked(g.Title, ex)
	}
	if g.Type == model.GoalFrequency {
		contribution = 1
		if g.Period == model.PeriodWeekly {
			g.WeeklyProgress++
		}
	}
	e.recordGoalContribution(g, max(contribution, 1))
	xp += e.settleGoalLocked(g)

	// may append to Tasks; t is not used past this point
	if g.Type == model.GoalFrequency && !g.Completed {
		e.ensureGoalTasksLocked(g)
	}
	return xp
}

func (e *Engine) escalateLocked(owner string, ex *model.Exercise) {
	if inc := e.rule.Step(ex); inc > 0 {
		e.log.Debug("exercise escalated", "owner", owner, "exercise", ex.Name, "current", ex.CurrentAmount)
		e.record(telemetry.EventExerciseEscalated, telemetry.EventMetadata{
			"exercise_id": ex.ID,
			"increment":   inc,
			"current":     ex.CurrentAmount,
		})
	}
}

// recordGoalContribution appends to the goal history and advances the
// consecutive-day counter on the first positive entry of the day.
func (e *Engine) recordGoalContribution(g *model.Goal, value int) {
	today := e.cal.Today()
	if value > 0 && !hasPositiveEntry(g.History, today) {
		if lastPositiveDate(g.History) == e.cal.Yesterday() {
			g.ConsecutiveDays++
		} else {
			g.ConsecutiveDays = 1
		}
	}
	g.History = append(g.History, model.HistoryEntry{Date: today, Value: value})
	e.record(telemetry.EventGoalProgress, telemetry.EventMetadata{"goal_id": g.ID, "value": value})
}

func hasEntry(h []model.HistoryEntry, day string) bool {
	for _, e := range h {
		if e.Date == day {
			return true
		}
	}
	return false
}

func hasPositiveEntry(h []model.HistoryEntry, day string) bool {
	for _, e := range h {
		if e.Date == day && e.Value > 0 {
			return true
		}
	}
	return false
}

func lastPositiveDate(h []model.HistoryEntry) string {
	last := ""
	for _, e := range h {
		if e.Value > 0 && e.Date > last {
			last = e.Date
		}
	}
	return last
}

// periodCount is how many completions count toward a frequency goal now.
func (e *Engine) periodCount(g *model.Goal) int {
	if g.Period == model.PeriodWeekly {
		return g.WeeklyProgress
	}
	today := e.cal.Today()
	n := 0
	for _, t := range e.state.Tasks {
		if t.GoalID == g.ID && t.Completed && t.CompletedAt != nil && e.cal.DayOf(*t.CompletedAt) == today {
			n++
		}
	}
	return n
}

func (e *Engine) goalSatisfied(g *model.Goal) bool {
	switch g.Type {
	case model.GoalProgressive:
		if len(g.Exercises) == 0 {
			return false
		}
		for _, ex := range g.Exercises {
			if !ex.AtTarget() {
				return false
			}
		}
		return true
	case model.GoalAccumulator:
		return g.CurrentTotal >= g.TargetTotal
	case model.GoalFrequency:
		return e.periodCount(g) >= g.TargetCount
	}
	return false
}

func (e *Engine) completionBonus(g *model.Goal) int {
	switch g.Type {
	case model.GoalProgressive, model.GoalAccumulator:
		return e.bal.GoalCompletionBonus
	case model.GoalFrequency:
		if g.Period == model.PeriodWeekly {
			return e.bal.WeeklyFrequencyBonus
		}
	}
	return 0
}

// settleGoalLocked completes g if it is now satisfied and pays the bonus
// once. Returns the bonus paid.
func (e *Engine) settleGoalLocked(g *model.Goal) int {
	if g.Completed || !e.goalSatisfied(g) {
		return 0
	}
	now := e.cal.Now()
	g.Completed = true
	g.CompletedAt = &now
	g.StreakBrokenDate = ""
	g.PreviousStreak = 0

	bonus := 0
	if b := e.completionBonus(g); b > 0 && !g.RewardsClaimed {
		bonus = b
		e.grantXP(bonus)
		g.RewardsClaimed = true
	}
	e.log.Info("goal completed", "goal", g.Title, "bonus", bonus)
	e.record(telemetry.EventGoalCompleted, telemetry.EventMetadata{"goal_id": g.ID, "type": g.Type, "bonus": bonus})
	return bonus
}

// ClaimGoalReward pays a completion bonus that was not paid yet.
func (e *Engine) ClaimGoalReward(ctx context.Context, id model.GoalID) Reward {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.state.Goal(id)
	if g == nil || !g.Completed || g.RewardsClaimed {
		return Reward{}
	}
	bonus := e.completionBonus(g)
	if bonus <= 0 {
		return Reward{}
	}
	levelBefore := e.state.Stats.Level
	e.grantXP(bonus)
	g.RewardsClaimed = true
	e.commitLocked(ctx)
	return e.rewardSince(levelBefore, bonus)
}

// UpdateAccumulatorProgress adds amount to an accumulator goal through its
// live task.
func (e *Engine) UpdateAccumulatorProgress(ctx context.Context, id model.TaskID, amount int) Reward {
	e.mu.Lock()
	defer e.mu.Unlock()

	t := e.state.Task(id)
	if t == nil || t.Completed {
		return Reward{}
	}
	g := e.state.Goal(t.GoalID)
	if g == nil || g.Type != model.GoalAccumulator {
		return Reward{}
	}
	levelBefore := e.state.Stats.Level
	xp := e.accumulateLocked(t, g, amount)
	if xp == 0 {
		return Reward{}
	}
	e.commitLocked(ctx)
	return e.rewardSince(levelBefore, xp)
}

func (e *Engine) accumulateLocked(t *model.Task, g *model.Goal, amount int) int {
	if amount <= 0 || g.Completed {
		return 0
	}
	g.CurrentTotal += amount
	t.ActualAmount += amount
	e.recordGoalContribution(g, amount)

	if g.CurrentTotal < g.TargetTotal {
		e.grantXP(e.bal.AccumulatorContributionXP)
		return e.bal.AccumulatorContributionXP
	}
	xp := e.completeTaskLocked(t)
	return xp + e.settleGoalLocked(g)
}

// OverclockTask rewards doing more than the assignment on a completed
// progressive or frequency goal task.
func (e *Engine) OverclockTask(ctx context.Context, id model.TaskID, actual int) OverclockResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	t := e.state.Task(id)
	if t == nil || !t.Completed || t.Overclocked || t.GoalID == "" || t.RequiredAmount <= 0 {
		return OverclockResult{}
	}
	g := e.state.Goal(t.GoalID)
	if g == nil || (g.Type != model.GoalProgressive && g.Type != model.GoalFrequency) {
		return OverclockResult{}
	}
	if actual <= t.RequiredAmount {
		return OverclockResult{}
	}

	levelBefore := e.state.Stats.Level
	excess := actual - t.RequiredAmount
	bonus := min(excess*e.bal.OverclockMultiplier, e.bal.OverclockCap)
	e.grantXP(bonus)
	t.Overclocked = true
	t.ActualAmount = actual

	if g.Type == model.GoalProgressive {
		if ex := g.Exercise(t.ExerciseID); ex != nil {
			e.rule.Boost(ex, excess)
		}
		bonus += e.settleGoalLocked(g)
	}
	e.record(telemetry.EventTaskOverclocked, telemetry.EventMetadata{"task_id": t.ID, "excess": excess, "bonus": bonus})
	e.commitLocked(ctx)

	r := e.rewardSince(levelBefore, bonus)
	return OverclockResult{BonusXP: r.XP, LeveledUp: r.LeveledUp, NewLevel: r.NewLevel}
}

// MoveGoalToHabit retires a completed goal into a habit that keeps its
// exercises at their reached amounts.
func (e *Engine) MoveGoalToHabit(ctx context.Context, id model.GoalID) (model.Habit, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	gp := e.state.Goal(id)
	if gp == nil || !gp.Completed {
		return model.Habit{}, false
	}
	g := gp.Clone()

	exs := make([]model.Exercise, len(g.Exercises))
	for i, ex := range g.Exercises {
		ex.CurrentAmount = ex.TargetAmount
		ex.StartAmount = ex.TargetAmount
		ex.DaysAtCurrentTarget = 0
		exs[i] = ex
	}
	period := g.Period
	if !period.IsValid() || g.Type != model.GoalFrequency {
		period = model.PeriodDaily
	}
	h := model.Habit{
		ID:            model.HabitID(newID("habit")),
		Title:         g.Title,
		Period:        period,
		Difficulty:    g.Difficulty,
		Exercises:     exs,
		LastWeekReset: e.cal.StartOfWeek(),
		History:       []model.HistoryEntry{},
		CreatedAt:     e.cal.Now(),
	}
	if period == model.PeriodWeekly {
		h.WeeklyTarget = g.TargetCount
	}

	e.removeGoalLocked(id)
	e.state.Habits = append(e.state.Habits, h)
	e.ensureHabitTasksLocked(&e.state.Habits[len(e.state.Habits)-1])

	e.record(telemetry.EventGoalConverted, telemetry.EventMetadata{"goal_id": id, "habit_id": h.ID})
	e.commitLocked(ctx)
	return e.state.Habit(h.ID).Clone(), true
}

// ensureGoalTasksLocked creates whatever live tasks g is missing for today.
func (e *Engine) ensureGoalTasksLocked(g *model.Goal) int {
	if g.Completed {
		return 0
	}
	today, now := e.cal.Today(), e.cal.Now()
	created := 0
	add := func(t model.Task) {
		e.state.Tasks = append(e.state.Tasks, t)
		created++
	}

	switch g.Type {
	case model.GoalAccumulator:
		for _, t := range e.state.Tasks {
			if t.GoalID == g.ID && !t.Completed {
				return 0
			}
		}
		add(e.gen.ForGoal(g, nil, today, now))
	case model.GoalProgressive:
		if len(g.Exercises) == 0 {
			if !e.hasTaskToday(g.ID, "", "", false) {
				add(e.gen.ForGoal(g, nil, today, now))
			}
			break
		}
		for i := range g.Exercises {
			ex := &g.Exercises[i]
			if !e.hasTaskToday(g.ID, "", ex.ID, false) {
				add(e.gen.ForGoal(g, ex, today, now))
			}
		}
	case model.GoalFrequency:
		// daily targets may need several tasks in one day; weekly ones get one a day
		if e.periodCount(g) >= g.TargetCount || e.hasTaskToday(g.ID, "", "", g.Period == model.PeriodDaily) {
			return 0
		}
		var ex *model.Exercise
		if len(g.Exercises) > 0 {
			ex = &g.Exercises[0]
		}
		add(e.gen.ForGoal(g, ex, today, now))
	}
	return created
}

// hasTaskToday looks for a task dated today for the owner. With
// incompleteOnly, finished tasks do not count. An empty exID matches any
// exercise.
func (e *Engine) hasTaskToday(goalID model.GoalID, habitID model.HabitID, exID model.ExerciseID, incompleteOnly bool) bool {
	today := e.cal.Today()
	for _, t := range e.state.Tasks {
		if t.Date != today || t.GoalID != goalID || t.HabitID != habitID {
			continue
		}
		if exID != "" && t.ExerciseID != exID {
			continue
		}
		if incompleteOnly && t.Completed {
			continue
		}
		return true
	}
	return false
}
