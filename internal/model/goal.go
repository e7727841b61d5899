package model

import "time"

type GoalID string

type GoalType string

const (
	GoalProgressive GoalType = "progressive"
	GoalAccumulator GoalType = "accumulator"
	GoalFrequency   GoalType = "frequency"
)

func (g GoalType) IsValid() bool {
	switch g {
	case GoalProgressive, GoalAccumulator, GoalFrequency:
		return true
	default:
		return false
	}
}

type Period string

const (
	PeriodDaily  Period = "daily"
	PeriodWeekly Period = "weekly"
)

func (p Period) IsValid() bool {
	return p == PeriodDaily || p == PeriodWeekly
}

type Goal struct {
	ID         GoalID     `json:"id"`
	Title      string     `json:"title"`
	Type       GoalType   `json:"type"`
	Period     Period     `json:"period"`
	Difficulty Difficulty `json:"difficulty"`
	Exercises  []Exercise `json:"exercises"`

	// accumulator
	TargetTotal  int  `json:"targetTotal,omitempty"`
	CurrentTotal int  `json:"currentTotal,omitempty"`
	Unit         Unit `json:"unit,omitempty"`

	// frequency
	TargetCount    int    `json:"targetCount,omitempty"`
	WeeklyProgress int    `json:"weeklyProgress"`
	LastWeekReset  string `json:"lastWeekReset,omitempty"`

	StartDate string `json:"startDate"`
	Deadline  string `json:"deadline,omitempty"`

	History          []HistoryEntry `json:"history"`
	ConsecutiveDays  int            `json:"consecutiveDays"`
	StreakBrokenDate string         `json:"streakBrokenDate,omitempty"`
	PreviousStreak   int            `json:"previousStreak,omitempty"`

	Completed      bool       `json:"completed"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	RewardsClaimed bool       `json:"rewardsClaimed"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Terminal reports whether completion retires the goal for good. Frequency
// goals re-arm every period instead.
func (g Goal) Terminal() bool {
	return g.Type != GoalFrequency
}

func (g *Goal) Exercise(id ExerciseID) *Exercise {
	for i := range g.Exercises {
		if g.Exercises[i].ID == id {
			return &g.Exercises[i]
		}
	}
	return nil
}

func (g Goal) Clone() Goal {
	out := g
	out.Exercises = cloneExercises(g.Exercises)
	out.History = cloneHistory(g.History)
	if g.CompletedAt != nil {
		v := *g.CompletedAt
		out.CompletedAt = &v
	}
	return out
}
