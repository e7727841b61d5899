package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vader773/daily-grimoire-sub000/internal/config"
	"github.com/Vader773/daily-grimoire-sub000/internal/model"
	"github.com/Vader773/daily-grimoire-sub000/internal/storage"
	"github.com/Vader773/daily-grimoire-sub000/internal/telemetry"
)

// Wednesday; the week started Sunday 2026-03-01.
var testStart = time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

func newEngineForTest(t *testing.T) (*Engine, *FakeClock, *storage.MemoryStore) {
	t.Helper()
	clock := NewFakeClock(testStart)
	store := storage.NewMemoryStore()
	e, err := NewEngine(context.Background(), Options{
		Store:    store,
		Clock:    clock,
		Location: time.UTC,
		Balance:  config.Default(),
	})
	require.NoError(t, err)
	return e, clock, store
}

func intp(n int) *int { return &n }

func findTask(t *testing.T, e *Engine, match func(model.Task) bool) model.Task {
	t.Helper()
	for _, task := range e.Snapshot().Tasks {
		if match(task) {
			return task
		}
	}
	t.Fatalf("no matching task in %d live tasks", len(e.Snapshot().Tasks))
	return model.Task{}
}

func openGoalTask(t *testing.T, e *Engine, goal model.GoalID, ex model.ExerciseID) model.Task {
	t.Helper()
	today := e.Today()
	return findTask(t, e, func(task model.Task) bool {
		return task.GoalID == goal && task.ExerciseID == ex && !task.Completed && (task.Accumulator || task.Date == today)
	})
}

func ledgerSum(s *model.State) int {
	total := 0
	for _, xp := range s.Stats.DailyXP {
		total += xp
	}
	return total
}

func TestCompleteTask_MissingOrRepeatedIsNoop(t *testing.T) {
	ctx := context.Background()
	e, _, store := newEngineForTest(t)

	assert.Equal(t, Reward{}, e.CompleteTask(ctx, "task_missing"))
	assert.Equal(t, 0, store.Saves())

	task, err := e.AddTask(ctx, NewTaskInput{Title: "Inbox zero", Difficulty: model.DifficultyHard})
	require.NoError(t, err)

	r := e.CompleteTask(ctx, task.ID)
	assert.Equal(t, 50, r.XP)
	assert.Equal(t, 1, r.NewLevel)

	again := e.CompleteTask(ctx, task.ID)
	assert.Equal(t, Reward{}, again)
	assert.Equal(t, 50, e.Snapshot().Stats.TotalLifetimeXP)
}

func TestCompleteTask_LevelUpAndLedger(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngineForTest(t)

	var rewards []Reward
	for i := 0; i < 3; i++ {
		task, err := e.AddTask(ctx, NewTaskInput{Title: "Epic thing", Difficulty: model.DifficultyEpic})
		require.NoError(t, err)
		rewards = append(rewards, e.CompleteTask(ctx, task.ID))
	}
	assert.Equal(t, Reward{XP: 100, LeveledUp: true, NewLevel: 2}, rewards[0])
	assert.Equal(t, Reward{XP: 100, LeveledUp: false, NewLevel: 2}, rewards[2])

	s := e.Snapshot()
	assert.Equal(t, 300, s.Stats.TotalLifetimeXP)
	assert.Equal(t, 300, s.Stats.DailyXP["2026-03-04"])
	assert.Equal(t, s.Stats.TotalLifetimeXP, ledgerSum(s))
}

func TestGlobalStreak_Scenario(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngineForTest(t)
	dbg := e.Debug()

	add := func() model.TaskID {
		task, err := e.AddTask(ctx, NewTaskInput{Title: "t"})
		require.NoError(t, err)
		return task.ID
	}

	e.CompleteTask(ctx, add())
	assert.Equal(t, 1, e.Snapshot().Stats.Streak)

	e.CompleteTask(ctx, add())
	assert.Equal(t, 1, e.Snapshot().Stats.Streak)

	dbg.AdvanceDay(ctx)
	e.CompleteTask(ctx, add())
	assert.Equal(t, 2, e.Snapshot().Stats.Streak)

	dbg.AdvanceDay(ctx)
	r := dbg.AdvanceDay(ctx)
	assert.True(t, r.GlobalStreakReset)
	assert.Equal(t, 0, e.Snapshot().Stats.Streak)

	e.CompleteTask(ctx, add())
	s := e.Snapshot()
	assert.Equal(t, 1, s.Stats.Streak)
	assert.Equal(t, 2, s.Stats.LongestStreak)
}

func TestProgressiveGoal_CompletesOnlyWhenEveryExerciseAtTarget(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngineForTest(t)

	g, err := e.AddGoal(ctx, NewGoalInput{
		Title: "Calisthenics",
		Type:  model.GoalProgressive,
		Exercises: []ExerciseInput{
			{Name: "pushups", Unit: model.UnitReps, StartAmount: 8, TargetAmount: 10},
			{Name: "squats", Unit: model.UnitReps, StartAmount: 8, TargetAmount: 10},
		},
	})
	require.NoError(t, err)
	pushups, squats := g.Exercises[0].ID, g.Exercises[1].ID
	assert.Len(t, e.TasksForGoal(g.ID), 2)

	// pushups on three days, squats on the first two only
	for day := 0; day < 3; day++ {
		e.CompleteGoalTask(ctx, openGoalTask(t, e, g.ID, pushups).ID, nil)
		if day < 2 {
			e.CompleteGoalTask(ctx, openGoalTask(t, e, g.ID, squats).ID, nil)
		}
		if day < 2 {
			e.Debug().AdvanceDay(ctx)
		}
	}

	got := e.Snapshot().Goal(g.ID)
	require.NotNil(t, got)
	assert.Equal(t, 10, got.Exercise(pushups).CurrentAmount)
	assert.Equal(t, 8, got.Exercise(squats).CurrentAmount)
	assert.False(t, got.Completed)

	before := e.Snapshot().Stats.TotalLifetimeXP
	r := e.CompleteGoalTask(ctx, openGoalTask(t, e, g.ID, squats).ID, nil)
	assert.Equal(t, 10+1000, r.XP)

	got = e.Snapshot().Goal(g.ID)
	assert.True(t, got.Completed)
	assert.True(t, got.RewardsClaimed)
	assert.Equal(t, 3, got.ConsecutiveDays)
	assert.Equal(t, before+1010, e.Snapshot().Stats.TotalLifetimeXP)

	// claimed already
	assert.Equal(t, Reward{}, e.ClaimGoalReward(ctx, g.ID))

	// terminal goals stop generating
	e.Debug().AdvanceDay(ctx)
	assert.Empty(t, e.TasksForGoal(g.ID))
}

func TestAccumulatorGoal_Scenario(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngineForTest(t)

	g, err := e.AddGoal(ctx, NewGoalInput{
		Title:       "Read pages",
		Type:        model.GoalAccumulator,
		TargetTotal: 100,
		Unit:        model.UnitPages,
	})
	require.NoError(t, err)
	task := openGoalTask(t, e, g.ID, "")

	r := e.UpdateAccumulatorProgress(ctx, task.ID, 40)
	assert.Equal(t, 10, r.XP)
	assert.False(t, e.Snapshot().Task(task.ID).Completed)

	// the task survives a rollover
	e.Debug().AdvanceDay(ctx)
	require.NotNil(t, e.Snapshot().Task(task.ID))

	r = e.UpdateAccumulatorProgress(ctx, task.ID, 40)
	assert.Equal(t, 10, r.XP)
	s := e.Snapshot()
	assert.False(t, s.Task(task.ID).Completed)
	assert.False(t, s.Goal(g.ID).Completed)

	r = e.UpdateAccumulatorProgress(ctx, task.ID, 20)
	assert.Equal(t, 25+1000, r.XP)

	s = e.Snapshot()
	assert.True(t, s.Task(task.ID).Completed)
	assert.True(t, s.Goal(g.ID).Completed)
	assert.Equal(t, 100, s.Goal(g.ID).CurrentTotal)
	assert.Equal(t, 1045, s.Stats.TotalLifetimeXP)
	assert.Equal(t, s.Stats.TotalLifetimeXP, ledgerSum(s))

	assert.Equal(t, Reward{}, e.UpdateAccumulatorProgress(ctx, task.ID, 5))
}

func TestOverclock(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngineForTest(t)

	g, err := e.AddGoal(ctx, NewGoalInput{
		Title:     "Pushups",
		Type:      model.GoalProgressive,
		Exercises: []ExerciseInput{{Name: "pushups", Unit: model.UnitReps, StartAmount: 10, TargetAmount: 50}},
	})
	require.NoError(t, err)
	exID := g.Exercises[0].ID
	task := openGoalTask(t, e, g.ID, exID)

	// not completed yet
	assert.Equal(t, OverclockResult{}, e.OverclockTask(ctx, task.ID, 30))

	e.CompleteGoalTask(ctx, task.ID, nil)
	before := e.Snapshot()

	assert.Equal(t, OverclockResult{}, e.OverclockTask(ctx, task.ID, 10))
	assert.Equal(t, before, e.Snapshot())

	res := e.OverclockTask(ctx, task.ID, 30)
	assert.Equal(t, 40, res.BonusXP)

	s := e.Snapshot()
	assert.True(t, s.Task(task.ID).Overclocked)
	assert.Equal(t, 30, s.Task(task.ID).ActualAmount)
	assert.Equal(t, 20, s.Goal(g.ID).Exercise(exID).CurrentAmount)
	assert.Equal(t, before.Stats.TotalLifetimeXP+40, s.Stats.TotalLifetimeXP)

	assert.Equal(t, OverclockResult{}, e.OverclockTask(ctx, task.ID, 45), "only once per task")
}

func TestOverclock_CapAndGoalCompletion(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngineForTest(t)

	g, err := e.AddGoal(ctx, NewGoalInput{
		Title:     "Plank",
		Type:      model.GoalProgressive,
		Exercises: []ExerciseInput{{Name: "plank", Unit: model.UnitMinutes, StartAmount: 10, TargetAmount: 12}},
	})
	require.NoError(t, err)
	task := openGoalTask(t, e, g.ID, g.Exercises[0].ID)
	e.CompleteGoalTask(ctx, task.ID, nil)

	res := e.OverclockTask(ctx, task.ID, 200)
	assert.Equal(t, 100+1000, res.BonusXP)
	assert.True(t, e.Snapshot().Goal(g.ID).Completed)
}

func TestMoveGoalToHabit(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngineForTest(t)

	g, err := e.AddGoal(ctx, NewGoalInput{
		Title:     "Plank",
		Type:      model.GoalProgressive,
		Exercises: []ExerciseInput{{Name: "plank", Unit: model.UnitMinutes, StartAmount: 10, TargetAmount: 12}},
	})
	require.NoError(t, err)

	_, ok := e.MoveGoalToHabit(ctx, g.ID)
	assert.False(t, ok, "incomplete goals cannot move")

	task := openGoalTask(t, e, g.ID, g.Exercises[0].ID)
	e.CompleteGoalTask(ctx, task.ID, nil)
	e.OverclockTask(ctx, task.ID, 14)
	require.True(t, e.Snapshot().Goal(g.ID).Completed)

	h, ok := e.MoveGoalToHabit(ctx, g.ID)
	require.True(t, ok)
	assert.Equal(t, "Plank", h.Title)
	require.Len(t, h.Exercises, 1)
	assert.Equal(t, 12, h.Exercises[0].CurrentAmount)

	s := e.Snapshot()
	assert.Nil(t, s.Goal(g.ID))
	for _, task := range e.TasksForGoal(g.ID) {
		assert.True(t, task.Completed, "open goal tasks are dropped")
	}
	assert.Len(t, e.TasksForHabit(h.ID), 1)
	assert.Equal(t, 1, e.TaskHistoryLast7()[6].Count, "today's completion still counts")

	e.Debug().AdvanceDay(ctx)
	assert.Equal(t, 1, e.Snapshot().Stats.TaskHistory["2026-03-04"])
}

func TestWeeklyFrequencyGoal(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngineForTest(t)

	g, err := e.AddGoal(ctx, NewGoalInput{
		Title:       "Gym",
		Type:        model.GoalFrequency,
		Period:      model.PeriodWeekly,
		TargetCount: 2,
	})
	require.NoError(t, err)

	r := e.CompleteGoalTask(ctx, openGoalTask(t, e, g.ID, "").ID, nil)
	assert.Equal(t, 25, r.XP)
	assert.Len(t, e.TasksForGoal(g.ID), 1, "one task a day for weekly goals")

	e.Debug().AdvanceDay(ctx)
	r = e.CompleteGoalTask(ctx, openGoalTask(t, e, g.ID, "").ID, nil)
	assert.Equal(t, 25+50, r.XP)

	got := e.Snapshot().Goal(g.ID)
	assert.True(t, got.Completed)
	assert.Equal(t, 2, got.WeeklyProgress)

	// Friday, Saturday: nothing more to do this week
	e.Debug().AdvanceDay(ctx)
	e.Debug().AdvanceDay(ctx)
	assert.Empty(t, e.TasksForGoal(g.ID))

	// Sunday re-arms the goal
	rep := e.Debug().AdvanceDay(ctx)
	assert.Equal(t, "2026-03-08", rep.Today)
	assert.Equal(t, 1, rep.GoalPeriodsReset)
	got = e.Snapshot().Goal(g.ID)
	assert.False(t, got.Completed)
	assert.False(t, got.RewardsClaimed)
	assert.Equal(t, 0, got.WeeklyProgress)
	assert.Len(t, e.TasksForGoal(g.ID), 1)
}

func TestDailyFrequencyGoal_RearmsEachDay(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngineForTest(t)

	g, err := e.AddGoal(ctx, NewGoalInput{
		Title:       "Water",
		Type:        model.GoalFrequency,
		Period:      model.PeriodDaily,
		TargetCount: 2,
		Difficulty:  model.DifficultyEasy,
	})
	require.NoError(t, err)

	e.CompleteGoalTask(ctx, openGoalTask(t, e, g.ID, "").ID, nil)
	r := e.CompleteGoalTask(ctx, openGoalTask(t, e, g.ID, "").ID, nil)
	assert.Equal(t, 10, r.XP, "daily frequency pays no bonus")
	assert.True(t, e.Snapshot().Goal(g.ID).Completed)
	assert.Len(t, e.TasksForGoal(g.ID), 2)

	e.Debug().AdvanceDay(ctx)
	got := e.Snapshot().Goal(g.ID)
	assert.False(t, got.Completed)
	assert.Equal(t, 1, got.ConsecutiveDays)
	_ = openGoalTask(t, e, g.ID, "")
}

func TestGoalLapse_RecordsShameBadge(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngineForTest(t)

	g, err := e.AddGoal(ctx, NewGoalInput{
		Title:       "Meditate",
		Type:        model.GoalFrequency,
		Period:      model.PeriodDaily,
		TargetCount: 1,
	})
	require.NoError(t, err)

	e.CompleteGoalTask(ctx, openGoalTask(t, e, g.ID, "").ID, nil)
	e.Debug().AdvanceDay(ctx)
	e.CompleteGoalTask(ctx, openGoalTask(t, e, g.ID, "").ID, nil)
	require.Equal(t, 2, e.Snapshot().Goal(g.ID).ConsecutiveDays)

	e.Debug().AdvanceDay(ctx)
	rep := e.Debug().AdvanceDay(ctx)
	assert.Equal(t, 1, rep.GoalsLapsed)

	got := e.Snapshot().Goal(g.ID)
	assert.Equal(t, 0, got.ConsecutiveDays)
	assert.Equal(t, 2, got.PreviousStreak)
	assert.Equal(t, "2026-03-07", got.StreakBrokenDate)
	assert.Contains(t, got.History, model.HistoryEntry{Date: "2026-03-06", Value: 0})

	// idempotent for the same day
	again := e.Rollover(ctx)
	assert.Equal(t, 0, again.GoalsLapsed)
	assert.Len(t, e.Snapshot().Goal(g.ID).History, len(got.History))

	e.CompleteGoalTask(ctx, openGoalTask(t, e, g.ID, "").ID, nil)
	got = e.Snapshot().Goal(g.ID)
	assert.Empty(t, got.StreakBrokenDate, "completion clears the badge")
	assert.Equal(t, 1, got.ConsecutiveDays)
}

func TestHabit_LapsesAfterMissedDay(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngineForTest(t)

	h, err := e.AddHabit(ctx, NewHabitInput{Title: "Journal"})
	require.NoError(t, err)

	r := e.CompleteHabit(ctx, h.ID)
	assert.Equal(t, 25, r.XP)
	assert.Equal(t, 1, e.Snapshot().Habit(h.ID).Streak)
	assert.Equal(t, Reward{}, e.CompleteHabit(ctx, h.ID), "one task per day")

	e.Debug().AdvanceDay(ctx)
	assert.Equal(t, 1, e.Snapshot().Habit(h.ID).Streak)

	rep := e.Debug().AdvanceDay(ctx)
	assert.Equal(t, 1, rep.HabitsLapsed)
	got := e.Snapshot().Habit(h.ID)
	assert.Equal(t, 0, got.Streak)
	assert.Equal(t, 1, got.LongestStreak)
	assert.Contains(t, got.History, model.HistoryEntry{Date: "2026-03-05", Value: 0})
}

func TestAtomicHabit_SeedsAndEscalates(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngineForTest(t)

	h, err := e.AddHabit(ctx, NewHabitInput{
		Title:     "Read",
		Atomic:    true,
		Exercises: []ExerciseInput{{Name: "read", Unit: model.UnitPages, StartAmount: 20, TargetAmount: 30}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, h.Exercises[0].CurrentAmount)

	for day := 0; day < 3; day++ {
		task := findTask(t, e, func(task model.Task) bool { return task.HabitID == h.ID && !task.Completed })
		e.CompleteHabitTask(ctx, task.ID, nil)
		e.Debug().AdvanceDay(ctx)
	}
	got := e.Snapshot().Habit(h.ID)
	assert.Equal(t, 5, got.Exercises[0].CurrentAmount)
	assert.Equal(t, 3, got.Streak)

	task := findTask(t, e, func(task model.Task) bool { return task.HabitID == h.ID && !task.Completed })
	assert.Equal(t, 5, task.RequiredAmount)
}

func TestWeeklyHabit_StopsAtTarget(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngineForTest(t)

	h, err := e.AddHabit(ctx, NewHabitInput{Title: "Swim", Period: model.PeriodWeekly, WeeklyTarget: 1})
	require.NoError(t, err)

	e.CompleteHabit(ctx, h.ID)
	assert.Equal(t, 1, e.Snapshot().Habit(h.ID).WeeklyProgress)

	e.Debug().AdvanceDay(ctx)
	assert.Empty(t, e.TasksForHabit(h.ID))

	// Thursday -> Sunday
	e.Debug().AdvanceDay(ctx)
	e.Debug().AdvanceDay(ctx)
	rep := e.Debug().AdvanceDay(ctx)
	assert.Equal(t, 1, rep.HabitWeeksReset)
	assert.Equal(t, 0, e.Snapshot().Habit(h.ID).WeeklyProgress)
	assert.Len(t, e.TasksForHabit(h.ID), 1)
}

func TestVice_SecondCheckInSameDayIsNoop(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngineForTest(t)

	v, err := e.AddVice(ctx, NewViceInput{Title: "Doomscrolling"})
	require.NoError(t, err)

	r := e.CheckInVice(ctx, v.ID, model.ViceClean)
	assert.Equal(t, 50, r.XP)
	before := e.Snapshot()

	assert.Equal(t, Reward{}, e.CheckInVice(ctx, v.ID, model.ViceClean))
	assert.Equal(t, Reward{}, e.CheckInVice(ctx, v.ID, model.ViceRelapsed))

	after := e.Snapshot()
	assert.Equal(t, before.Vice(v.ID), after.Vice(v.ID))
	assert.Equal(t, before.Stats.TotalLifetimeXP, after.Stats.TotalLifetimeXP)
	assert.Equal(t, 1, after.Stats.Streak)
}

func TestVice_RelapseResetsStreakAndTouchesActivity(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngineForTest(t)

	v, _ := e.AddVice(ctx, NewViceInput{Title: "Soda"})
	e.CheckInVice(ctx, v.ID, model.ViceClean)
	e.Debug().AdvanceDay(ctx)
	e.CheckInVice(ctx, v.ID, model.ViceClean)
	e.Debug().AdvanceDay(ctx)

	r := e.CheckInVice(ctx, v.ID, model.ViceRelapsed)
	assert.Equal(t, 0, r.XP)

	s := e.Snapshot()
	got := s.Vice(v.ID)
	assert.Equal(t, 0, got.CurrentStreak)
	assert.Equal(t, 2, got.LongestStreak)
	assert.Equal(t, 3, s.Stats.Streak)
	assert.Equal(t, "2026-03-06", s.Stats.LastActiveDate)
}

func TestVice_BackfillsMissedDays(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngineForTest(t)

	never, _ := e.AddVice(ctx, NewViceInput{Title: "Never checked"})
	v, _ := e.AddVice(ctx, NewViceInput{Title: "Sugar"})
	e.CheckInVice(ctx, v.ID, model.ViceClean)

	for i := 0; i < 3; i++ {
		e.Debug().AdvanceDay(ctx)
	}
	assert.Equal(t, 1, e.BackfillVices(ctx))
	assert.Equal(t, 0, e.BackfillVices(ctx), "second pass changes nothing")

	s := e.Snapshot()
	got := s.Vice(v.ID)
	assert.Equal(t, map[string]model.ViceStatus{
		"2026-03-04": model.ViceClean,
		"2026-03-05": model.ViceRelapsed,
		"2026-03-06": model.ViceRelapsed,
	}, got.History)
	assert.Equal(t, 0, got.CurrentStreak)
	assert.Equal(t, 1, got.LongestStreak)
	assert.Equal(t, "2026-03-04", got.LastCheckIn)
	assert.Empty(t, s.Vice(never.ID).History)

	e.CheckInVice(ctx, v.ID, model.ViceClean)
	assert.Equal(t, 1, e.Snapshot().Vice(v.ID).CurrentStreak)
}

func TestRollover_ArchivesAndPrunes(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngineForTest(t)

	done, _ := e.AddTask(ctx, NewTaskInput{Title: "done"})
	daily, _ := e.AddTask(ctx, NewTaskInput{Title: "daily", Daily: true})
	keep, _ := e.AddTask(ctx, NewTaskInput{Title: "someday"})
	h, _ := e.AddHabit(ctx, NewHabitInput{Title: "Stretch"})
	e.CompleteTask(ctx, done.ID)

	rep := e.Debug().AdvanceDay(ctx)
	assert.Equal(t, "2026-03-05", rep.Today)
	assert.Equal(t, 1, rep.TasksArchived)
	assert.Equal(t, 2, rep.TasksPruned)
	assert.Equal(t, 1, rep.TasksGenerated)

	s := e.Snapshot()
	assert.Nil(t, s.Task(done.ID))
	assert.Nil(t, s.Task(daily.ID))
	assert.NotNil(t, s.Task(keep.ID))
	assert.Equal(t, 1, s.Stats.TaskHistory["2026-03-04"])
	assert.Len(t, e.TasksForHabit(h.ID), 1)

	hist := e.TaskHistoryLast7()
	assert.Equal(t, DayCount{Date: "2026-03-04", Count: 1}, hist[5])

	again := e.Rollover(ctx)
	assert.Equal(t, RolloverReport{Today: "2026-03-05"}, again)
}

func TestRollover_PrunesLedgerOutsideWindow(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngineForTest(t)

	e.Debug().InjectXP(ctx, 100)
	e.Debug().SetDateOffset(ctx, 29)
	assert.Contains(t, e.Snapshot().Stats.DailyXP, "2026-03-04", "30th day of the window is kept")

	e.Debug().SetDateOffset(ctx, 30)
	s := e.Snapshot()
	assert.Empty(t, s.Stats.DailyXP)
	assert.Equal(t, 100, s.Stats.TotalLifetimeXP)
}

func TestRollover_KeepsCurrentMonthLedger(t *testing.T) {
	ctx := context.Background()
	e, clock, _ := newEngineForTest(t)

	clock.Set(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	e.Debug().InjectXP(ctx, 100)

	clock.Set(time.Date(2026, 3, 31, 9, 0, 0, 0, time.UTC))
	e.Rollover(ctx)
	assert.Contains(t, e.Snapshot().Stats.DailyXP, "2026-03-01")
	assert.Equal(t, 100, e.MonthlyXP())

	e.Debug().AdvanceDay(ctx)
	assert.NotContains(t, e.Snapshot().Stats.DailyXP, "2026-03-01")
	assert.Equal(t, 0, e.MonthlyXP())
}

func TestLeague_OverrideClearedByEarnedXP(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngineForTest(t)
	dbg := e.Debug()

	assert.False(t, dbg.SetLeagueOverride(ctx, "unobtainium"))
	require.True(t, dbg.SetLeagueOverride(ctx, "gold"))
	assert.Equal(t, "gold", e.League().Tier.Name)

	dbg.InjectXP(ctx, 600)
	l := e.League()
	assert.Equal(t, "gold", l.Tier.Name, "debug XP keeps the override")
	assert.Equal(t, 600, l.MonthlyXP)

	task, _ := e.AddTask(ctx, NewTaskInput{Title: "real work"})
	e.CompleteTask(ctx, task.ID)
	l = e.League()
	assert.False(t, l.Overridden)
	assert.Equal(t, "silver", l.Tier.Name)
}

func TestMonthlyXP_ResetsWithTheMonth(t *testing.T) {
	ctx := context.Background()
	e, clock, _ := newEngineForTest(t)
	clock.Set(time.Date(2026, 3, 31, 9, 0, 0, 0, time.UTC))

	e.Debug().InjectXP(ctx, 700)
	assert.Equal(t, 700, e.MonthlyXP())
	assert.Equal(t, "silver", e.League().Tier.Name)

	e.Debug().AdvanceDay(ctx)
	assert.Equal(t, 0, e.MonthlyXP())
	assert.Equal(t, "bronze", e.League().Tier.Name)
	assert.Len(t, e.MonthXPByDay(), 1)
	assert.Equal(t, 700, e.WeeklyXP()[5].XP)
}

func TestDebug_ResetKeepsOffset(t *testing.T) {
	ctx := context.Background()
	e, _, store := newEngineForTest(t)

	e.Debug().AdvanceDay(ctx)
	e.Debug().SetStreak(ctx, 9)
	e.Debug().InjectXP(ctx, 400)
	assert.Equal(t, 9, e.Snapshot().Stats.Streak)
	assert.Equal(t, 3, e.Level().Level)

	e.Debug().Reset(ctx)
	s := e.Snapshot()
	assert.Equal(t, 0, s.Stats.TotalLifetimeXP)
	assert.Equal(t, 1, s.Stats.Level)
	assert.Equal(t, 1, e.Offset())
	assert.Equal(t, "2026-03-05", e.Today())

	off, err := store.LoadOffset(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, off)
}

func TestEngine_PersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	e, clock, store := newEngineForTest(t)

	task, _ := e.AddTask(ctx, NewTaskInput{Title: "persist me"})
	e.CompleteTask(ctx, task.ID)
	e.Debug().AdvanceDay(ctx)

	reloaded, err := NewEngine(ctx, Options{Store: store, Clock: clock, Location: time.UTC})
	require.NoError(t, err)
	assert.Equal(t, e.Snapshot(), reloaded.Snapshot())
	assert.Equal(t, "2026-03-05", reloaded.Today())
}

type brokenStore struct {
	storage.MemoryStore
	loadErr error
	saveErr error
}

func (b *brokenStore) Load(ctx context.Context) (*model.State, error) {
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	return b.MemoryStore.Load(ctx)
}

func (b *brokenStore) Save(ctx context.Context, s *model.State) error {
	if b.saveErr != nil {
		return b.saveErr
	}
	return b.MemoryStore.Save(ctx, s)
}

func TestEngine_CorruptStateStartsFresh(t *testing.T) {
	st := &brokenStore{loadErr: storage.ErrCorrupt}
	e, err := NewEngine(context.Background(), Options{Store: st, Clock: NewFakeClock(testStart), Location: time.UTC})
	require.NoError(t, err)
	assert.Equal(t, model.NewState(), e.Snapshot())

	_, err = NewEngine(context.Background(), Options{Store: &brokenStore{loadErr: errors.New("disk on fire")}})
	assert.Error(t, err)
}

func TestEngine_InvalidStateStartsFresh(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	bad := model.NewState()
	bad.Goals = append(bad.Goals, model.Goal{ID: "goal_1", Type: "mystery"})
	require.NoError(t, store.Save(ctx, bad))

	e, err := NewEngine(ctx, Options{Store: store, Clock: NewFakeClock(testStart), Location: time.UTC})
	require.NoError(t, err)
	assert.Empty(t, e.Snapshot().Goals)
}

func TestEngine_SaveFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	st := &brokenStore{saveErr: errors.New("read-only fs")}
	e, err := NewEngine(ctx, Options{Store: st, Clock: NewFakeClock(testStart), Location: time.UTC})
	require.NoError(t, err)

	task, err := e.AddTask(ctx, NewTaskInput{Title: "still here"})
	require.NoError(t, err)
	r := e.CompleteTask(ctx, task.ID)
	assert.Equal(t, 25, r.XP)
	assert.Equal(t, 25, e.Snapshot().Stats.TotalLifetimeXP)
}

func TestEngine_OnChangeAndTelemetry(t *testing.T) {
	ctx := context.Background()
	events := telemetry.NewMemoryRepository()
	e, err := NewEngine(ctx, Options{Clock: NewFakeClock(testStart), Location: time.UTC, Events: events})
	require.NoError(t, err)

	var seen []int
	stop := e.OnChange(func(s *model.State) { seen = append(seen, s.Stats.TotalLifetimeXP) })

	task, _ := e.AddTask(ctx, NewTaskInput{Title: "observe"})
	e.CompleteTask(ctx, task.ID)
	stop()
	e.Debug().InjectXP(ctx, 5)

	assert.Equal(t, []int{0, 25}, seen)

	completed, err := events.GetEvents(time.Time{}, []telemetry.EventType{telemetry.EventTaskCompleted})
	require.NoError(t, err)
	assert.Len(t, completed, 1)
}

func TestEngine_StartRollsOverAndBackfills(t *testing.T) {
	ctx := context.Background()
	e, clock, store := newEngineForTest(t)

	v, _ := e.AddVice(ctx, NewViceInput{Title: "Late nights"})
	e.CheckInVice(ctx, v.ID, model.ViceClean)
	h, _ := e.AddHabit(ctx, NewHabitInput{Title: "Walk"})

	clock.Advance(72 * time.Hour)
	next, err := NewEngine(ctx, Options{Store: store, Clock: clock, Location: time.UTC})
	require.NoError(t, err)
	rep := next.Start(ctx)

	assert.Equal(t, "2026-03-07", rep.Today)
	assert.Equal(t, 1, rep.VicesBackfilled)
	assert.Equal(t, 1, rep.TasksPruned)
	assert.Len(t, next.TasksForHabit(h.ID), 1)
	assert.Equal(t, 0, next.Snapshot().Vice(v.ID).CurrentStreak)
}

func TestTaskTimer(t *testing.T) {
	ctx := context.Background()
	e, clock, _ := newEngineForTest(t)

	plain, _ := e.AddTask(ctx, NewTaskInput{Title: "no timer"})
	_, ok := e.StartTaskTimer(ctx, plain.ID)
	assert.False(t, ok)

	timed, _ := e.AddTask(ctx, NewTaskInput{Title: "focus", TimerMinutes: 25})
	left, ok := e.TimerRemaining(timed.ID)
	require.True(t, ok)
	assert.Equal(t, 25*time.Minute, left)

	_, ok = e.StartTaskTimer(ctx, timed.ID)
	require.True(t, ok)
	clock.Advance(10 * time.Minute)
	left, _ = e.TimerRemaining(timed.ID)
	assert.Equal(t, 15*time.Minute, left)

	clock.Advance(time.Hour)
	left, _ = e.TimerRemaining(timed.ID)
	assert.Equal(t, time.Duration(0), left)
}

func TestDeleteEntities(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngineForTest(t)

	g, _ := e.AddGoal(ctx, NewGoalInput{Title: "Books", Type: model.GoalAccumulator, TargetTotal: 3, Unit: model.UnitBooks})
	h, _ := e.AddHabit(ctx, NewHabitInput{Title: "Walk"})
	v, _ := e.AddVice(ctx, NewViceInput{Title: "Soda"})
	task, _ := e.AddTask(ctx, NewTaskInput{Title: "x"})

	assert.True(t, e.DeleteGoal(ctx, g.ID))
	assert.True(t, e.DeleteHabit(ctx, h.ID))
	assert.True(t, e.DeleteVice(ctx, v.ID))
	assert.True(t, e.DeleteTask(ctx, task.ID))
	assert.False(t, e.DeleteTask(ctx, task.ID))

	s := e.Snapshot()
	assert.Empty(t, s.Goals)
	assert.Empty(t, s.Habits)
	assert.Empty(t, s.Vices)
	assert.Empty(t, s.Tasks)
}

func TestDeleteHabit_KeepsCompletedTasksForHistory(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngineForTest(t)

	h, err := e.AddHabit(ctx, NewHabitInput{Title: "Stretch"})
	require.NoError(t, err)
	r := e.CompleteHabit(ctx, h.ID)
	require.Positive(t, r.XP)

	require.True(t, e.DeleteHabit(ctx, h.ID))
	assert.Equal(t, 1, e.TaskHistoryLast7()[6].Count)

	e.Debug().AdvanceDay(ctx)
	s := e.Snapshot()
	assert.Equal(t, 1, s.Stats.TaskHistory["2026-03-04"])
	assert.Empty(t, s.Tasks)
}

func TestAddGoal_RejectsInvalidInput(t *testing.T) {
	e, _, store := newEngineForTest(t)
	_, err := e.AddGoal(context.Background(), NewGoalInput{Title: "", Type: model.GoalProgressive})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "title", ve.Field)

	_, err = e.AddGoal(context.Background(), NewGoalInput{Title: "Gym", Type: model.GoalFrequency, TargetCount: 10})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "targetCount", ve.Field)
	assert.Empty(t, e.Snapshot().Goals)
	assert.Equal(t, 0, store.Saves())
}
