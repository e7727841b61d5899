package model

import (
	"time"
)

type TaskID string

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyEpic   Difficulty = "epic"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyEpic:
		return true
	default:
		return false
	}
}

// Task is an ephemeral unit of work. It belongs to a goal exercise, a habit
// exercise, or nobody (ad hoc). Owners never list their tasks; membership is a
// filter over the task collection.
type Task struct {
	ID         TaskID     `json:"id"`
	Title      string     `json:"title"`
	Difficulty Difficulty `json:"difficulty"`
	XP         int        `json:"xp"`
	Daily      bool       `json:"daily"`
	Date       string     `json:"date"`

	GoalID     GoalID     `json:"goalId,omitempty"`
	HabitID    HabitID    `json:"habitId,omitempty"`
	ExerciseID ExerciseID `json:"exerciseId,omitempty"`
	Unit       Unit       `json:"unit,omitempty"`

	RequiredAmount int  `json:"requiredAmount,omitempty"`
	ActualAmount   int  `json:"actualAmount,omitempty"`
	Overclocked    bool `json:"overclocked,omitempty"`
	Accumulator    bool `json:"accumulator,omitempty"`

	TimerMinutes   int        `json:"timerMinutes,omitempty"`
	TimerStartedAt *time.Time `json:"timerStartedAt,omitempty"`

	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (t Task) IsAdHoc() bool {
	return t.GoalID == "" && t.HabitID == ""
}

// Regenerable reports whether the rollover may drop and recreate the task.
func (t Task) Regenerable() bool {
	if t.Accumulator {
		return false
	}
	return t.GoalID != "" || t.HabitID != "" || t.Daily
}

func (t Task) Clone() Task {
	out := t
	if t.CompletedAt != nil {
		v := *t.CompletedAt
		out.CompletedAt = &v
	}
	if t.TimerStartedAt != nil {
		v := *t.TimerStartedAt
		out.TimerStartedAt = &v
	}
	return out
}
