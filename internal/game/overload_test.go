package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Vader773/daily-grimoire-sub000/internal/config"
	"github.com/Vader773/daily-grimoire-sub000/internal/model"
)

func TestOverloadRule_EscalatesOnThirdDay(t *testing.T) {
	rule := NewOverloadRule(config.Default())
	ex := &model.Exercise{StartAmount: 10, TargetAmount: 50, CurrentAmount: 10}

	assert.Equal(t, 0, rule.Step(ex))
	assert.Equal(t, 10, ex.CurrentAmount)
	assert.Equal(t, 0, rule.Step(ex))
	assert.Equal(t, 10, ex.CurrentAmount)

	assert.Equal(t, 4, rule.Step(ex))
	assert.Equal(t, 14, ex.CurrentAmount)
	assert.Equal(t, 0, ex.DaysAtCurrentTarget)
}

func TestOverloadRule_MinimumStepAndCap(t *testing.T) {
	rule := NewOverloadRule(config.Default())

	small := &model.Exercise{TargetAmount: 12, CurrentAmount: 8, DaysAtCurrentTarget: 2}
	assert.Equal(t, 2, rule.Step(small), "10% of 4 rounds up to 1, floor is 2")
	assert.Equal(t, 10, small.CurrentAmount)

	near := &model.Exercise{TargetAmount: 10, CurrentAmount: 9, DaysAtCurrentTarget: 2}
	assert.Equal(t, 1, rule.Step(near))
	assert.Equal(t, 10, near.CurrentAmount)

	done := &model.Exercise{TargetAmount: 10, CurrentAmount: 10, DaysAtCurrentTarget: 2}
	assert.Equal(t, 0, rule.Step(done))
	assert.Equal(t, 10, done.CurrentAmount)
	assert.Equal(t, 0, done.DaysAtCurrentTarget)
}

func TestOverloadRule_GapTimesRateIsExact(t *testing.T) {
	rule := NewOverloadRule(config.Default())
	ex := &model.Exercise{TargetAmount: 130, CurrentAmount: 100, DaysAtCurrentTarget: 2}
	assert.Equal(t, 3, rule.Step(ex))
}

func TestOverloadRule_Boost(t *testing.T) {
	rule := NewOverloadRule(config.Default())
	ex := &model.Exercise{TargetAmount: 50, CurrentAmount: 10, DaysAtCurrentTarget: 1}

	assert.Equal(t, 3, rule.Boost(ex, 5))
	assert.Equal(t, 13, ex.CurrentAmount)
	assert.Equal(t, 1, ex.DaysAtCurrentTarget, "boost leaves the day counter alone")

	assert.Equal(t, 37, rule.Boost(ex, 500))
	assert.Equal(t, 50, ex.CurrentAmount)
	assert.Equal(t, 0, rule.Boost(ex, 0))
}
