package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Period            string            `json:"period"`
	EventCounts       map[EventType]int `json:"event_counts"`
	TaskCompletions   int               `json:"task_completions"`
	GoalCompletions   int               `json:"goal_completions"`
	HabitCompletions  int               `json:"habit_completions"`
	Rollovers         int               `json:"rollovers"`
	TasksPerDay       float64           `json:"tasks_per_day"`
	XPGranted         int               `json:"xp_granted"`
	XPPerDay          float64           `json:"xp_per_day"`
	LevelUps          int               `json:"level_ups"`
	Escalations       int               `json:"escalations"`
	ViceCheckIns      map[string]int    `json:"vice_check_ins"`
	TasksByDifficulty map[string]int    `json:"tasks_by_difficulty"`
}

// CalculateStats computes balance stats from events
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:            since.Format("2006-01-02"),
		EventCounts:       make(map[EventType]int),
		ViceCheckIns:      make(map[string]int),
		TasksByDifficulty: make(map[string]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventTaskCompleted:
			stats.TaskCompletions++
			if d, ok := metadata["difficulty"].(string); ok {
				stats.TasksByDifficulty[d]++
			}
		case EventGoalCompleted:
			stats.GoalCompletions++
		case EventHabitCompleted:
			stats.HabitCompletions++
		case EventRollover:
			stats.Rollovers++
		case EventLevelUp:
			stats.LevelUps++
		case EventExerciseEscalated:
			stats.Escalations++
		case EventXPGranted:
			// JSON numbers decode as float64
			if xp, ok := metadata["xp"].(float64); ok {
				stats.XPGranted += int(xp)
			}
		case EventViceCheckIn:
			if status, ok := metadata["status"].(string); ok {
				stats.ViceCheckIns[status]++
			}
		}
	}

	if stats.Rollovers > 0 {
		stats.TasksPerDay = float64(stats.TaskCompletions) / float64(stats.Rollovers)
		stats.XPPerDay = float64(stats.XPGranted) / float64(stats.Rollovers)
	}

	return stats, nil
}
