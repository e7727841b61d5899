package game

import (
	"sync"
	"time"
)

// DayLayout is the date-key format used everywhere in persisted state.
const DayLayout = "2006-01-02"

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FakeClock is deterministic and test-friendly.
type FakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{t: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// Calendar resolves "today" from a wall clock plus a debug offset in days.
// Shifting the offset by one is indistinguishable from a real day passing.
type Calendar struct {
	clock  Clock
	loc    *time.Location
	offset int
}

func NewCalendar(clock Clock, loc *time.Location, offset int) Calendar {
	if clock == nil {
		clock = RealClock{}
	}
	if loc == nil {
		loc = time.Local
	}
	return Calendar{clock: clock, loc: loc, offset: offset}
}

func (c Calendar) Offset() int { return c.offset }

func (c Calendar) WithOffset(offset int) Calendar {
	c.offset = offset
	return c
}

func (c Calendar) Location() *time.Location { return c.loc }

// Now is the shifted current instant. Timestamps written into state use it so
// that date keys derived from them agree with Today.
func (c Calendar) Now() time.Time {
	return c.clock.Now().In(c.loc).AddDate(0, 0, c.offset)
}

func (c Calendar) DayOf(t time.Time) string {
	return t.In(c.loc).Format(DayLayout)
}

func (c Calendar) Today() string {
	return c.Now().Format(DayLayout)
}

func (c Calendar) Yesterday() string {
	return c.Now().AddDate(0, 0, -1).Format(DayLayout)
}

func (c Calendar) StartOfToday() time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// StartOfWeek is the Sunday on or before today.
func (c Calendar) StartOfWeek() string {
	day := c.StartOfToday()
	return day.AddDate(0, 0, -int(day.Weekday())).Format(DayLayout)
}

// Last7Days lists the trailing week ending today, oldest first.
func (c Calendar) Last7Days() []string {
	day := c.StartOfToday()
	out := make([]string, 0, 7)
	for i := 6; i >= 0; i-- {
		out = append(out, day.AddDate(0, 0, -i).Format(DayLayout))
	}
	return out
}

// MonthToDate lists every day of the current month up to and including today.
func (c Calendar) MonthToDate() []string {
	day := c.StartOfToday()
	out := make([]string, 0, day.Day())
	first := day.AddDate(0, 0, 1-day.Day())
	for d := first; !d.After(day); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(DayLayout))
	}
	return out
}

func (c Calendar) DaysInMonth() int {
	day := c.StartOfToday()
	return time.Date(day.Year(), day.Month()+1, 0, 0, 0, 0, 0, day.Location()).Day()
}

// CurrentMonth returns the "2006-01" prefix of today's key.
func (c Calendar) CurrentMonth() string {
	return c.Today()[:7]
}

// AddDays shifts a date key by n days. Invalid keys come back unchanged.
func AddDays(day string, n int) string {
	t, err := time.Parse(DayLayout, day)
	if err != nil {
		return day
	}
	return t.AddDate(0, 0, n).Format(DayLayout)
}

// DaysBetween returns b-a in whole days, or 0 if either key is invalid.
func DaysBetween(a, b string) int {
	ta, err := time.Parse(DayLayout, a)
	if err != nil {
		return 0
	}
	tb, err := time.Parse(DayLayout, b)
	if err != nil {
		return 0
	}
	return int(tb.Sub(ta).Hours() / 24)
}
