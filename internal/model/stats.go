package model

// UserStats is the singleton aggregate. Level is always recomputed from
// TotalLifetimeXP; it is stored only so saved state stays readable.
type UserStats struct {
	TotalLifetimeXP int            `json:"totalLifetimeXP"`
	Level           int            `json:"level"`
	Streak          int            `json:"streak"`
	LongestStreak   int            `json:"longestStreak"`
	LastActiveDate  string         `json:"lastActiveDate,omitempty"`
	DailyXP         map[string]int `json:"dailyXP"`
	TaskHistory     map[string]int `json:"taskHistory"`
	LeagueOverride  string         `json:"leagueOverride,omitempty"`
}

func cloneMapInt(src map[string]int) map[string]int {
	out := make(map[string]int, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func (s UserStats) Clone() UserStats {
	out := s
	out.DailyXP = cloneMapInt(s.DailyXP)
	out.TaskHistory = cloneMapInt(s.TaskHistory)
	return out
}
