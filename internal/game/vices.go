package game

import (
	"context"
	"strings"

	"github.com/Vader773/daily-grimoire-sub000/internal/model"
	"github.com/Vader773/daily-grimoire-sub000/internal/telemetry"
)

func (e *Engine) AddVice(ctx context.Context, in NewViceInput) (model.Vice, error) {
	if err := ValidateViceInput(in); err != nil {
		return model.Vice{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	v := model.Vice{
		ID:        model.ViceID(newID("vice")),
		Title:     strings.TrimSpace(in.Title),
		History:   map[string]model.ViceStatus{},
		CreatedAt: e.cal.Now(),
	}
	e.state.Vices = append(e.state.Vices, v)
	e.record(telemetry.EventViceCreated, telemetry.EventMetadata{"vice_id": v.ID})
	e.commitLocked(ctx)
	return v.Clone(), nil
}

func (e *Engine) DeleteVice(ctx context.Context, id model.ViceID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.state.Vices {
		if e.state.Vices[i].ID == id {
			e.state.Vices = append(e.state.Vices[:i], e.state.Vices[i+1:]...)
			e.commitLocked(ctx)
			return true
		}
	}
	return false
}

// CheckInVice records today's status. A second check-in on the same day is
// ignored.
func (e *Engine) CheckInVice(ctx context.Context, id model.ViceID, status model.ViceStatus) Reward {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := e.state.Vice(id)
	if v == nil || !status.IsValid() {
		return Reward{}
	}
	backfilled := e.backfillViceLocked(v)

	today := e.cal.Today()
	if _, done := v.History[today]; done || v.LastCheckIn == today {
		if backfilled {
			e.commitLocked(ctx)
		}
		return Reward{}
	}

	levelBefore := e.state.Stats.Level
	v.History[today] = status
	v.LastCheckIn = today

	xp := 0
	switch status {
	case model.ViceClean:
		v.CurrentStreak++
		v.LongestStreak = max(v.LongestStreak, v.CurrentStreak)
		xp = e.bal.ViceCleanXP
		e.grantXP(xp)
	case model.ViceRelapsed:
		v.CurrentStreak = 0
		e.touchActivity()
	}
	e.record(telemetry.EventViceCheckIn, telemetry.EventMetadata{"vice_id": v.ID, "status": status})
	e.commitLocked(ctx)
	return e.rewardSince(levelBefore, xp)
}

// BackfillVices marks every missed day as relapsed. It returns how many
// vices changed.
func (e *Engine) BackfillVices(ctx context.Context) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := 0
	for i := range e.state.Vices {
		if e.backfillViceLocked(&e.state.Vices[i]) {
			n++
		}
	}
	if n > 0 {
		e.commitLocked(ctx)
	}
	return n
}

// backfillViceLocked fills the days strictly between the last check-in and
// today. A vice never checked in is left alone; LastCheckIn does not move.
func (e *Engine) backfillViceLocked(v *model.Vice) bool {
	if v.LastCheckIn == "" {
		return false
	}
	today := e.cal.Today()
	if DaysBetween(v.LastCheckIn, today) <= 1 {
		return false
	}
	filled := 0
	for d := AddDays(v.LastCheckIn, 1); d < today; d = AddDays(d, 1) {
		if _, ok := v.History[d]; !ok {
			v.History[d] = model.ViceRelapsed
			filled++
		}
	}
	changed := filled > 0 || v.CurrentStreak != 0
	v.CurrentStreak = 0
	if filled > 0 {
		e.record(telemetry.EventViceBackfilled, telemetry.EventMetadata{"vice_id": v.ID, "days": filled})
	}
	return changed
}
