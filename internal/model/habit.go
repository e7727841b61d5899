package model

import "time"

type HabitID string

// Habit is a recurring ritual. It never completes; it lives until deleted.
type Habit struct {
	ID         HabitID    `json:"id"`
	Title      string     `json:"title"`
	Period     Period     `json:"period"`
	Difficulty Difficulty `json:"difficulty"`
	Atomic     bool       `json:"atomic,omitempty"`
	Exercises  []Exercise `json:"exercises"`

	WeeklyTarget   int    `json:"weeklyTarget,omitempty"`
	WeeklyProgress int    `json:"weeklyProgress"`
	LastWeekReset  string `json:"lastWeekReset,omitempty"`

	Streak            int            `json:"streak"`
	LongestStreak     int            `json:"longestStreak"`
	LastCompletedDate string         `json:"lastCompletedDate,omitempty"`
	History           []HistoryEntry `json:"history"`
	CreatedAt         time.Time      `json:"createdAt"`
}

func (h *Habit) Exercise(id ExerciseID) *Exercise {
	for i := range h.Exercises {
		if h.Exercises[i].ID == id {
			return &h.Exercises[i]
		}
	}
	return nil
}

func (h Habit) Clone() Habit {
	out := h
	out.Exercises = cloneExercises(h.Exercises)
	out.History = cloneHistory(h.History)
	return out
}
