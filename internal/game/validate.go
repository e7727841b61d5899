package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/Vader773/daily-grimoire-sub000/internal/model"
)

// ValidationError reports the first offending field of a mutation input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

type NewTaskInput struct {
	Title        string           `json:"title"`
	Difficulty   model.Difficulty `json:"difficulty"`
	Daily        bool             `json:"daily"`
	TimerMinutes int              `json:"timerMinutes"`
}

type ExerciseInput struct {
	Name         string     `json:"name"`
	Unit         model.Unit `json:"unit"`
	StartAmount  int        `json:"startAmount"`
	TargetAmount int        `json:"targetAmount"`
}

type NewGoalInput struct {
	Title       string           `json:"title"`
	Type        model.GoalType   `json:"type"`
	Period      model.Period     `json:"period"`
	Difficulty  model.Difficulty `json:"difficulty"`
	Exercises   []ExerciseInput  `json:"exercises"`
	TargetTotal int              `json:"targetTotal"`
	Unit        model.Unit       `json:"unit"`
	TargetCount int              `json:"targetCount"`
	Deadline    string           `json:"deadline"`
}

// ResolvedPeriod is the period the goal will run with: frequency goals
// default to weekly, everything else to daily.
func (in NewGoalInput) ResolvedPeriod() model.Period {
	if in.Period != "" {
		return in.Period
	}
	if in.Type == model.GoalFrequency {
		return model.PeriodWeekly
	}
	return model.PeriodDaily
}

type NewHabitInput struct {
	Title        string           `json:"title"`
	Period       model.Period     `json:"period"`
	Difficulty   model.Difficulty `json:"difficulty"`
	Atomic       bool             `json:"atomic"`
	Exercises    []ExerciseInput  `json:"exercises"`
	WeeklyTarget int              `json:"weeklyTarget"`
}

type NewViceInput struct {
	Title string `json:"title"`
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return invalid("title", "required")
	}
	return nil
}

func validateDifficulty(d model.Difficulty) error {
	if d != "" && !d.IsValid() {
		return invalid("difficulty", fmt.Sprintf("unknown difficulty %q", d))
	}
	return nil
}

func ValidateTaskInput(in NewTaskInput) error {
	if err := validateTitle(in.Title); err != nil {
		return err
	}
	if err := validateDifficulty(in.Difficulty); err != nil {
		return err
	}
	if in.TimerMinutes < 0 {
		return invalid("timerMinutes", "must not be negative")
	}
	return nil
}

// validateExercises enforces target > start unless relaxed (atomic habits
// seed their own start).
func validateExercises(exs []ExerciseInput, relaxed bool) error {
	for i, ex := range exs {
		field := fmt.Sprintf("exercises[%d]", i)
		switch {
		case strings.TrimSpace(ex.Name) == "":
			return invalid(field+".name", "required")
		case !ex.Unit.IsValid():
			return invalid(field+".unit", fmt.Sprintf("unknown unit %q", ex.Unit))
		case ex.StartAmount < 0:
			return invalid(field+".startAmount", "must not be negative")
		case ex.TargetAmount <= 0:
			return invalid(field+".targetAmount", "must be positive")
		case !relaxed && ex.TargetAmount <= ex.StartAmount:
			return invalid(field+".targetAmount", "must exceed startAmount")
		}
	}
	return nil
}

func ValidateGoalInput(in NewGoalInput) error {
	if err := validateTitle(in.Title); err != nil {
		return err
	}
	if !in.Type.IsValid() {
		return invalid("type", fmt.Sprintf("unknown goal type %q", in.Type))
	}
	if in.Period != "" && !in.Period.IsValid() {
		return invalid("period", fmt.Sprintf("unknown period %q", in.Period))
	}
	if err := validateDifficulty(in.Difficulty); err != nil {
		return err
	}
	if in.Deadline != "" {
		if _, err := time.Parse(DayLayout, in.Deadline); err != nil {
			return invalid("deadline", "must be YYYY-MM-DD")
		}
	}
	switch in.Type {
	case model.GoalProgressive:
		if len(in.Exercises) == 0 {
			return invalid("exercises", "at least one exercise required")
		}
	case model.GoalAccumulator:
		if in.TargetTotal <= 0 {
			return invalid("targetTotal", "must be positive")
		}
		if in.Unit != "" && !in.Unit.IsValid() {
			return invalid("unit", fmt.Sprintf("unknown unit %q", in.Unit))
		}
	case model.GoalFrequency:
		if in.TargetCount <= 0 {
			return invalid("targetCount", "must be positive")
		}
		if in.ResolvedPeriod() == model.PeriodWeekly && in.TargetCount > 7 {
			return invalid("targetCount", "weekly target is at most 7")
		}
	}
	return validateExercises(in.Exercises, false)
}

func ValidateHabitInput(in NewHabitInput) error {
	if err := validateTitle(in.Title); err != nil {
		return err
	}
	if in.Period != "" && !in.Period.IsValid() {
		return invalid("period", fmt.Sprintf("unknown period %q", in.Period))
	}
	if err := validateDifficulty(in.Difficulty); err != nil {
		return err
	}
	if in.Period == model.PeriodWeekly && (in.WeeklyTarget < 1 || in.WeeklyTarget > 7) {
		return invalid("weeklyTarget", "must be between 1 and 7")
	}
	return validateExercises(in.Exercises, in.Atomic)
}

func ValidateViceInput(in NewViceInput) error {
	return validateTitle(in.Title)
}
