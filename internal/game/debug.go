package game

import (
	"context"

	"github.com/Vader773/daily-grimoire-sub000/internal/model"
	"github.com/Vader773/daily-grimoire-sub000/internal/telemetry"
)

// Debugger holds the testing affordances. They bypass the normal economy
// rules and are kept off the Engine's main surface.
type Debugger struct {
	e *Engine
}

func (e *Engine) Debug() *Debugger {
	return &Debugger{e: e}
}

func (d *Debugger) setOffsetLocked(ctx context.Context, offset int) {
	e := d.e
	e.cal = e.cal.WithOffset(offset)
	if err := e.store.SaveOffset(ctx, offset); err != nil {
		e.log.Error("persist debug offset failed", "error", err)
	}
	e.record(telemetry.EventDebugAction, telemetry.EventMetadata{"action": "offset", "offset": offset})
}

// AdvanceDay shifts the calendar one day forward and runs the rollover, as
// if a real day had passed.
func (d *Debugger) AdvanceDay(ctx context.Context) RolloverReport {
	e := d.e
	e.mu.Lock()
	defer e.mu.Unlock()

	d.setOffsetLocked(ctx, e.cal.Offset()+1)
	r := e.rolloverLocked()
	e.commitLocked(ctx)
	return r
}

// SetDateOffset pins the offset and rolls over to the resulting day.
func (d *Debugger) SetDateOffset(ctx context.Context, offset int) RolloverReport {
	e := d.e
	e.mu.Lock()
	defer e.mu.Unlock()

	d.setOffsetLocked(ctx, offset)
	r := e.rolloverLocked()
	e.commitLocked(ctx)
	return r
}

// SetLeagueOverride pins the displayed league. Unknown names are rejected.
func (d *Debugger) SetLeagueOverride(ctx context.Context, name string) bool {
	if _, ok := leagueIndexByName(name); !ok {
		return false
	}
	e := d.e
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Stats.LeagueOverride = name
	e.record(telemetry.EventDebugAction, telemetry.EventMetadata{"action": "league", "league": name})
	e.commitLocked(ctx)
	return true
}

func (d *Debugger) ClearLeagueOverride(ctx context.Context) {
	e := d.e
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Stats.LeagueOverride == "" {
		return
	}
	e.state.Stats.LeagueOverride = ""
	e.commitLocked(ctx)
}

// InjectXP credits XP without advancing streaks or clearing the league
// override.
func (d *Debugger) InjectXP(ctx context.Context, amount int) Reward {
	if amount <= 0 {
		return Reward{}
	}
	e := d.e
	e.mu.Lock()
	defer e.mu.Unlock()

	levelBefore := e.state.Stats.Level
	e.credit(amount)
	e.record(telemetry.EventDebugAction, telemetry.EventMetadata{"action": "xp", "xp": amount})
	e.commitLocked(ctx)
	return e.rewardSince(levelBefore, amount)
}

// SetStreak overwrites the global streak and marks today active.
func (d *Debugger) SetStreak(ctx context.Context, n int) {
	e := d.e
	e.mu.Lock()
	defer e.mu.Unlock()

	st := &e.state.Stats
	st.Streak = max(n, 0)
	st.LongestStreak = max(st.LongestStreak, st.Streak)
	if st.Streak > 0 {
		st.LastActiveDate = e.cal.Today()
	}
	e.record(telemetry.EventDebugAction, telemetry.EventMetadata{"action": "streak", "streak": st.Streak})
	e.commitLocked(ctx)
}

// Reset wipes all progression. The date offset survives.
func (d *Debugger) Reset(ctx context.Context) {
	e := d.e
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = model.NewState()
	e.record(telemetry.EventDebugAction, telemetry.EventMetadata{"action": "reset"})
	e.commitLocked(ctx)
}
