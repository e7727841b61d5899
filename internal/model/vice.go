package model

import "time"

type ViceID string

type ViceStatus string

const (
	ViceClean    ViceStatus = "clean"
	ViceRelapsed ViceStatus = "relapsed"
)

func (s ViceStatus) IsValid() bool {
	return s == ViceClean || s == ViceRelapsed
}

// Vice tracks abstinence with one check-in per calendar day.
type Vice struct {
	ID            ViceID                `json:"id"`
	Title         string                `json:"title"`
	History       map[string]ViceStatus `json:"history"`
	CurrentStreak int                   `json:"currentStreak"`
	LongestStreak int                   `json:"longestStreak"`
	LastCheckIn   string                `json:"lastCheckIn,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
}

func (v Vice) Clone() Vice {
	out := v
	out.History = make(map[string]ViceStatus, len(v.History))
	for k, s := range v.History {
		out.History[k] = s
	}
	return out
}
