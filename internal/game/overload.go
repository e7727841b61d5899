package game

import (
	"math"

	"github.com/Vader773/daily-grimoire-sub000/internal/config"
	"github.com/Vader773/daily-grimoire-sub000/internal/model"
)

// ceilEpsilon absorbs float noise such as 30*0.1 landing a hair above 3.
const ceilEpsilon = 1e-9

// OverloadRule is the progressive-overload schedule: after ThresholdDays
// successful days at one assignment the exercise steps toward its target.
type OverloadRule struct {
	ThresholdDays int
	Rate          float64
	MinStep       int
	FastTrack     float64
}

func NewOverloadRule(bal config.Balance) OverloadRule {
	return OverloadRule{
		ThresholdDays: bal.OverloadThresholdDays,
		Rate:          bal.OverloadRate,
		MinStep:       bal.OverloadMinStep,
		FastTrack:     bal.OverclockFastTrack,
	}
}

func ceilInt(f float64) int {
	return int(math.Ceil(f - ceilEpsilon))
}

// Step records one successful completion and returns the escalation applied
// (zero when none).
func (r OverloadRule) Step(ex *model.Exercise) int {
	ex.DaysAtCurrentTarget++
	if ex.DaysAtCurrentTarget < r.ThresholdDays {
		return 0
	}
	ex.DaysAtCurrentTarget = 0

	gap := ex.TargetAmount - ex.CurrentAmount
	if gap <= 0 {
		return 0
	}
	inc := max(ceilInt(float64(gap)*r.Rate), r.MinStep)
	return raise(ex, inc)
}

// Boost applies an overclock fast-track jump of ceil(excess*FastTrack),
// independent of the day counter.
func (r OverloadRule) Boost(ex *model.Exercise, excess int) int {
	if excess <= 0 || r.FastTrack <= 0 {
		return 0
	}
	return raise(ex, ceilInt(float64(excess)*r.FastTrack))
}

func raise(ex *model.Exercise, inc int) int {
	if ex.CurrentAmount >= ex.TargetAmount {
		return 0
	}
	before := ex.CurrentAmount
	ex.CurrentAmount = min(ex.CurrentAmount+inc, ex.TargetAmount)
	return ex.CurrentAmount - before
}
