package model

type ExerciseID string

type Unit string

const (
	UnitReps     Unit = "reps"
	UnitMinutes  Unit = "minutes"
	UnitPages    Unit = "pages"
	UnitSessions Unit = "sessions"
	UnitBooks    Unit = "books"
	UnitItems    Unit = "items"
)

func (u Unit) IsValid() bool {
	switch u {
	case UnitReps, UnitMinutes, UnitPages, UnitSessions, UnitBooks, UnitItems:
		return true
	default:
		return false
	}
}

// Exercise is a unit-quantified sub-target of a goal or habit. CurrentAmount
// is the active assignment; it only moves toward TargetAmount and never past it.
type Exercise struct {
	ID                  ExerciseID `json:"id"`
	Name                string     `json:"name"`
	Unit                Unit       `json:"unit"`
	StartAmount         int        `json:"startAmount"`
	TargetAmount        int        `json:"targetAmount"`
	CurrentAmount       int        `json:"currentAmount"`
	DaysAtCurrentTarget int        `json:"daysAtCurrentTarget"`
}

func (e Exercise) AtTarget() bool {
	return e.CurrentAmount >= e.TargetAmount
}

func cloneExercises(src []Exercise) []Exercise {
	if src == nil {
		return nil
	}
	out := make([]Exercise, len(src))
	copy(out, src)
	return out
}

// HistoryEntry is one dated contribution. Zero values mark backfilled misses.
type HistoryEntry struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
}

func cloneHistory(src []HistoryEntry) []HistoryEntry {
	if src == nil {
		return nil
	}
	out := make([]HistoryEntry, len(src))
	copy(out, src)
	return out
}
