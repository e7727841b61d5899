package game

import (
	"context"

	"github.com/Vader773/daily-grimoire-sub000/internal/model"
	"github.com/Vader773/daily-grimoire-sub000/internal/telemetry"
)

// RolloverReport counts what a rollover pass changed. A second pass on the
// same day reports zeros.
type RolloverReport struct {
	Today             string `json:"today"`
	GlobalStreakReset bool   `json:"globalStreakReset"`
	HabitsLapsed      int    `json:"habitsLapsed"`
	HabitWeeksReset   int    `json:"habitWeeksReset"`
	TasksArchived     int    `json:"tasksArchived"`
	TasksPruned       int    `json:"tasksPruned"`
	GoalPeriodsReset  int    `json:"goalPeriodsReset"`
	GoalsLapsed       int    `json:"goalsLapsed"`
	TasksGenerated    int    `json:"tasksGenerated"`
	LedgerPruned      int    `json:"ledgerPruned"`
	VicesBackfilled   int    `json:"vicesBackfilled"`
}

// Rollover brings state up to today. It is idempotent for a given day.
func (e *Engine) Rollover(ctx context.Context) RolloverReport {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := e.rolloverLocked()
	e.commitLocked(ctx)
	return r
}

func (e *Engine) rolloverLocked() RolloverReport {
	today, yesterday, sow := e.cal.Today(), e.cal.Yesterday(), e.cal.StartOfWeek()
	r := RolloverReport{Today: today}
	st := &e.state.Stats

	// global streak
	if st.Streak > 0 && st.LastActiveDate != today && st.LastActiveDate != yesterday {
		st.Streak = 0
		r.GlobalStreakReset = true
	}

	// habits
	for i := range e.state.Habits {
		h := &e.state.Habits[i]
		if h.Streak > 0 && h.LastCompletedDate != today && h.LastCompletedDate != yesterday {
			h.Streak = 0
			if !hasEntry(h.History, yesterday) {
				h.History = append(h.History, model.HistoryEntry{Date: yesterday, Value: 0})
			}
			r.HabitsLapsed++
		}
		if h.Period == model.PeriodWeekly && h.LastWeekReset != sow {
			h.WeeklyProgress = 0
			h.LastWeekReset = sow
			r.HabitWeeksReset++
		}
	}

	// archive completed tasks from earlier days
	kept := e.state.Tasks[:0]
	for _, t := range e.state.Tasks {
		if t.Completed && t.CompletedAt != nil {
			if day := e.cal.DayOf(*t.CompletedAt); day < today {
				st.TaskHistory[day]++
				r.TasksArchived++
				continue
			}
		}
		kept = append(kept, t)
	}
	e.state.Tasks = kept

	// prune stale incomplete tasks that will be regenerated
	r.TasksPruned = e.state.RemoveTasks(func(t model.Task) bool {
		return !t.Completed && t.Regenerable() && t.Date < today
	})

	// frequency goal periods
	for i := range e.state.Goals {
		g := &e.state.Goals[i]
		if g.Type != model.GoalFrequency {
			continue
		}
		switch g.Period {
		case model.PeriodWeekly:
			if g.LastWeekReset != sow {
				g.WeeklyProgress = 0
				g.LastWeekReset = sow
				g.Completed = false
				g.CompletedAt = nil
				g.RewardsClaimed = false
				r.GoalPeriodsReset++
			}
		case model.PeriodDaily:
			if g.Completed && (g.CompletedAt == nil || e.cal.DayOf(*g.CompletedAt) < today) {
				g.Completed = false
				g.CompletedAt = nil
				g.RewardsClaimed = false
				r.GoalPeriodsReset++
			}
		}
	}

	// daily goal lapses
	for i := range e.state.Goals {
		g := &e.state.Goals[i]
		if g.Period != model.PeriodDaily || g.Type == model.GoalAccumulator {
			continue
		}
		if (g.Completed && g.Terminal()) || g.StartDate >= today {
			continue
		}
		if hasEntry(g.History, yesterday) || hasEntry(g.History, today) {
			continue
		}
		if g.ConsecutiveDays > 0 {
			g.PreviousStreak = g.ConsecutiveDays
			g.StreakBrokenDate = today
			g.ConsecutiveDays = 0
			r.GoalsLapsed++
		}
		if g.StartDate <= yesterday {
			g.History = append(g.History, model.HistoryEntry{Date: yesterday, Value: 0})
		}
	}

	// regenerate
	for i := range e.state.Goals {
		r.TasksGenerated += e.ensureGoalTasksLocked(&e.state.Goals[i])
	}
	for i := range e.state.Habits {
		r.TasksGenerated += e.ensureHabitTasksLocked(&e.state.Habits[i])
	}

	r.LedgerPruned = e.pruneLedgerLocked()

	if r != (RolloverReport{Today: today}) {
		e.log.Info("rollover", "today", today, "archived", r.TasksArchived, "generated", r.TasksGenerated)
		e.record(telemetry.EventRollover, telemetry.EventMetadata{
			"today":     today,
			"archived":  r.TasksArchived,
			"pruned":    r.TasksPruned,
			"generated": r.TasksGenerated,
		})
	}
	return r
}
