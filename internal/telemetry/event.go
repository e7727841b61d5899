package telemetry

import "time"

type EventType string

const (
	EventTaskCreated         EventType = "task_created"
	EventTaskCompleted       EventType = "task_completed"
	EventTaskDeleted         EventType = "task_deleted"
	EventTaskOverclocked     EventType = "task_overclocked"
	EventGoalCreated         EventType = "goal_created"
	EventGoalProgress        EventType = "goal_progress"
	EventGoalCompleted       EventType = "goal_completed"
	EventGoalConverted       EventType = "goal_converted"
	EventExerciseEscalated   EventType = "exercise_escalated"
	EventHabitCreated        EventType = "habit_created"
	EventHabitCompleted      EventType = "habit_completed"
	EventViceCreated         EventType = "vice_created"
	EventViceCheckIn         EventType = "vice_check_in"
	EventViceBackfilled      EventType = "vice_backfilled"
	EventXPGranted           EventType = "xp_granted"
	EventLevelUp             EventType = "level_up"
	EventRollover            EventType = "rollover"
	EventDebugAction         EventType = "debug_action"
	EventLeagueOverrideClear EventType = "league_override_cleared"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}
