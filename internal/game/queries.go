package game

import (
	"strings"

	"github.com/Vader773/daily-grimoire-sub000/internal/model"
)

type DayXP struct {
	Date string `json:"date"`
	XP   int    `json:"xp"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Overview bundles the derived values a dashboard shows.
type Overview struct {
	Today         string         `json:"today"`
	Offset        int            `json:"debugDateOffset"`
	Level         LevelProgress  `json:"level"`
	League        LeagueStanding `json:"league"`
	Streak        int            `json:"streak"`
	LongestStreak int            `json:"longestStreak"`
	WeeklyXP      []DayXP        `json:"weeklyXP"`
	MonthlyXP     int            `json:"monthlyXP"`
	TaskHistory   []DayCount     `json:"taskHistory"`
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() *model.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

func (e *Engine) Today() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cal.Today()
}

func (e *Engine) Offset() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cal.Offset()
}

func (e *Engine) Level() LevelProgress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ProgressForTotalXP(e.state.Stats.TotalLifetimeXP)
}

func (e *Engine) MonthlyXP() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.monthlyXPLocked()
}

func (e *Engine) monthlyXPLocked() int {
	prefix := e.cal.CurrentMonth() + "-"
	total := 0
	for day, xp := range e.state.Stats.DailyXP {
		if strings.HasPrefix(day, prefix) {
			total += xp
		}
	}
	return total
}

func (e *Engine) League() LeagueStanding {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Standing(e.monthlyXPLocked(), e.state.Stats.LeagueOverride)
}

func (e *Engine) xpByDayLocked(days []string) []DayXP {
	out := make([]DayXP, 0, len(days))
	for _, d := range days {
		out = append(out, DayXP{Date: d, XP: e.state.Stats.DailyXP[d]})
	}
	return out
}

// WeeklyXP is the trailing seven days of earned XP, oldest first.
func (e *Engine) WeeklyXP() []DayXP {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.xpByDayLocked(e.cal.Last7Days())
}

func (e *Engine) MonthXPByDay() []DayXP {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.xpByDayLocked(e.cal.MonthToDate())
}

// TaskHistoryLast7 counts completed tasks per day, archived and live.
func (e *Engine) TaskHistoryLast7() []DayCount {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.taskHistoryLocked(e.cal.Last7Days())
}

func (e *Engine) taskHistoryLocked(days []string) []DayCount {
	live := map[string]int{}
	for _, t := range e.state.Tasks {
		if t.Completed && t.CompletedAt != nil {
			live[e.cal.DayOf(*t.CompletedAt)]++
		}
	}
	out := make([]DayCount, 0, len(days))
	for _, d := range days {
		out = append(out, DayCount{Date: d, Count: e.state.Stats.TaskHistory[d] + live[d]})
	}
	return out
}

func (e *Engine) filterTasks(keep func(model.Task) bool) []model.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := []model.Task{}
	for _, t := range e.state.Tasks {
		if keep(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

func (e *Engine) TasksForGoal(id model.GoalID) []model.Task {
	return e.filterTasks(func(t model.Task) bool { return t.GoalID == id })
}

func (e *Engine) TasksForHabit(id model.HabitID) []model.Task {
	return e.filterTasks(func(t model.Task) bool { return t.HabitID == id })
}

func (e *Engine) Overview() Overview {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.state.Stats
	return Overview{
		Today:         e.cal.Today(),
		Offset:        e.cal.Offset(),
		Level:         ProgressForTotalXP(st.TotalLifetimeXP),
		League:        Standing(e.monthlyXPLocked(), st.LeagueOverride),
		Streak:        st.Streak,
		LongestStreak: st.LongestStreak,
		WeeklyXP:      e.xpByDayLocked(e.cal.Last7Days()),
		MonthlyXP:     e.monthlyXPLocked(),
		TaskHistory:   e.taskHistoryLocked(e.cal.Last7Days()),
	}
}
