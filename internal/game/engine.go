package game

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Vader773/daily-grimoire-sub000/internal/config"
	"github.com/Vader773/daily-grimoire-sub000/internal/logger"
	"github.com/Vader773/daily-grimoire-sub000/internal/model"
	"github.com/Vader773/daily-grimoire-sub000/internal/storage"
	"github.com/Vader773/daily-grimoire-sub000/internal/telemetry"
)

// Store is the persistence contract the engine needs.
type Store interface {
	Load(ctx context.Context) (*model.State, error)
	Save(ctx context.Context, s *model.State) error
	LoadOffset(ctx context.Context) (int, error)
	SaveOffset(ctx context.Context, offset int) error
}

type Options struct {
	Store    Store
	Clock    Clock
	Location *time.Location
	Balance  config.Balance
	Events   telemetry.Recorder
	Logger   *logger.Logger
}

// Engine owns the single progression state. Every exported method is a
// transaction: it mutates under the lock, then persists and notifies.
type Engine struct {
	mu    sync.Mutex
	state *model.State
	cal   Calendar
	bal   config.Balance
	rule  OverloadRule
	gen   Generator

	store  Store
	events telemetry.Recorder
	log    *logger.Logger

	subs   map[int]func(*model.State)
	nextID int
}

// Reward is what a completion paid out.
type Reward struct {
	XP        int  `json:"xp"`
	LeveledUp bool `json:"leveledUp"`
	NewLevel  int  `json:"newLevel"`
}

type OverclockResult struct {
	BonusXP   int  `json:"bonusXP"`
	LeveledUp bool `json:"leveledUp"`
	NewLevel  int  `json:"newLevel"`
}

// NewEngine loads the persisted snapshot and debug offset. A corrupt or
// invalid snapshot is replaced by a fresh state.
func NewEngine(ctx context.Context, opts Options) (*Engine, error) {
	if opts.Store == nil {
		opts.Store = storage.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Events == nil {
		opts.Events = telemetry.Nop{}
	}
	bal := opts.Balance
	bal.ApplyDefaults()

	e := &Engine{
		bal:    bal,
		rule:   NewOverloadRule(bal),
		gen:    NewGenerator(bal),
		store:  opts.Store,
		events: opts.Events,
		log:    opts.Logger.With("component", "engine"),
		subs:   map[int]func(*model.State){},
	}

	offset, err := opts.Store.LoadOffset(ctx)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		offset = 0
	case errors.Is(err, storage.ErrCorrupt):
		e.log.Warn("debug offset unreadable, using 0", "error", err)
		offset = 0
	default:
		return nil, err
	}
	e.cal = NewCalendar(opts.Clock, opts.Location, offset)

	st, err := opts.Store.Load(ctx)
	switch {
	case err == nil:
		if verr := st.Validate(); verr != nil {
			e.log.Warn("stored state invalid, starting fresh", "error", verr)
			st = model.NewState()
		}
	case errors.Is(err, storage.ErrNotFound):
		st = model.NewState()
	case errors.Is(err, storage.ErrCorrupt):
		e.log.Warn("stored state corrupt, starting fresh", "error", err)
		st = model.NewState()
	default:
		return nil, err
	}
	st.Normalize()
	st.Stats.Level = LevelFromTotalXP(st.Stats.TotalLifetimeXP)
	e.state = st
	return e, nil
}

// Start runs the session-start passes: rollover, then vice backfill.
func (e *Engine) Start(ctx context.Context) RolloverReport {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := e.rolloverLocked()
	for i := range e.state.Vices {
		if e.backfillViceLocked(&e.state.Vices[i]) {
			r.VicesBackfilled++
		}
	}
	e.commitLocked(ctx)
	return r
}

// OnChange registers fn to receive every committed snapshot. fn runs while
// the engine lock is held and must not call back into the engine.
func (e *Engine) OnChange(fn func(*model.State)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

func (e *Engine) Balance() config.Balance { return e.bal }

func (e *Engine) commitLocked(ctx context.Context) {
	snap := e.state.Clone()
	if err := e.store.Save(ctx, snap); err != nil {
		e.log.Error("persist state failed", "error", err)
	}
	for _, fn := range e.subs {
		fn(snap)
	}
}

func (e *Engine) record(t telemetry.EventType, md telemetry.EventMetadata) {
	if err := e.events.RecordEvent(t, md); err != nil {
		e.log.Warn("record telemetry failed", "event", t, "error", err)
	}
}

// credit moves XP into the ledger without touching streaks or the league
// override. Debug injection uses it directly.
func (e *Engine) credit(amount int) {
	if amount <= 0 {
		return
	}
	st := &e.state.Stats
	st.TotalLifetimeXP += amount
	st.DailyXP[e.cal.Today()] += amount
	st.Level = LevelFromTotalXP(st.TotalLifetimeXP)
	e.record(telemetry.EventXPGranted, telemetry.EventMetadata{"xp": amount})
}

// grantXP is the path for every earned reward.
func (e *Engine) grantXP(amount int) {
	if amount <= 0 {
		return
	}
	e.credit(amount)
	if e.state.Stats.LeagueOverride != "" {
		e.state.Stats.LeagueOverride = ""
		e.record(telemetry.EventLeagueOverrideClear, nil)
	}
	e.touchActivity()
}

// touchActivity applies the global streak rule for an action today.
func (e *Engine) touchActivity() {
	st := &e.state.Stats
	today := e.cal.Today()
	if st.LastActiveDate == today {
		return
	}
	st.Streak = nextStreak(st.LastActiveDate, e.cal.Yesterday(), st.Streak)
	st.LastActiveDate = today
	st.LongestStreak = max(st.LongestStreak, st.Streak)
}

// nextStreak continues a run when the last active day was yesterday and
// starts a new one otherwise. Callers handle the same-day case.
func nextStreak(last, yesterday string, streak int) int {
	if last == yesterday {
		return max(streak, 0) + 1
	}
	return 1
}

func (e *Engine) rewardSince(levelBefore, xp int) Reward {
	lvl := e.state.Stats.Level
	r := Reward{XP: xp, LeveledUp: lvl > levelBefore, NewLevel: lvl}
	if r.LeveledUp {
		e.log.Info("level up", "level", lvl, "totalXP", e.state.Stats.TotalLifetimeXP)
		e.record(telemetry.EventLevelUp, telemetry.EventMetadata{"level": lvl})
	}
	return r
}

// pruneLedgerLocked keeps the last DailyXPRetentionDays days (today
// included) and every day of the current month, which the league reads.
func (e *Engine) pruneLedgerLocked() int {
	if e.bal.DailyXPRetentionDays <= 0 {
		return 0
	}
	cutoff := AddDays(e.cal.Today(), 1-e.bal.DailyXPRetentionDays)
	month := e.cal.CurrentMonth()
	n := 0
	for day := range e.state.Stats.DailyXP {
		if day < cutoff && !strings.HasPrefix(day, month) {
			delete(e.state.Stats.DailyXP, day)
			n++
		}
	}
	return n
}
