package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalendar_Basics(t *testing.T) {
	// Wednesday
	clock := NewFakeClock(time.Date(2026, 3, 4, 23, 30, 0, 0, time.UTC))
	cal := NewCalendar(clock, time.UTC, 0)

	assert.Equal(t, "2026-03-04", cal.Today())
	assert.Equal(t, "2026-03-03", cal.Yesterday())
	assert.Equal(t, "2026-03-01", cal.StartOfWeek())
	assert.Equal(t, []string{
		"2026-02-26", "2026-02-27", "2026-02-28",
		"2026-03-01", "2026-03-02", "2026-03-03", "2026-03-04",
	}, cal.Last7Days())
	assert.Equal(t, []string{"2026-03-01", "2026-03-02", "2026-03-03", "2026-03-04"}, cal.MonthToDate())
	assert.Equal(t, 31, cal.DaysInMonth())
	assert.Equal(t, "2026-03", cal.CurrentMonth())
}

func TestCalendar_OffsetMatchesRealDay(t *testing.T) {
	start := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	shifted := NewCalendar(NewFakeClock(start), time.UTC, 1)
	waited := NewCalendar(NewFakeClock(start.AddDate(0, 0, 1)), time.UTC, 0)

	assert.Equal(t, waited.Today(), shifted.Today())
	assert.Equal(t, waited.StartOfWeek(), shifted.StartOfWeek())
	assert.Equal(t, "2026-03-08", shifted.StartOfWeek(), "Sunday starts its own week")
	assert.Equal(t, waited.Last7Days(), shifted.Last7Days())
}

func TestCalendar_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	clock := NewFakeClock(time.Date(2026, 3, 5, 2, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-03-04", NewCalendar(clock, loc, 0).Today())
}

func TestFakeClock_Advance(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewFakeClock(start)
	c.Advance(36 * time.Hour)
	assert.Equal(t, start.Add(36*time.Hour), c.Now())
	c.Set(start)
	assert.Equal(t, start, c.Now())
}

func TestDayArithmetic(t *testing.T) {
	assert.Equal(t, "2026-03-01", AddDays("2026-02-28", 1))
	assert.Equal(t, "2025-12-31", AddDays("2026-01-01", -1))
	assert.Equal(t, "garbage", AddDays("garbage", 3))
	assert.Equal(t, 3, DaysBetween("2026-02-27", "2026-03-02"))
	assert.Equal(t, -1, DaysBetween("2026-03-02", "2026-03-01"))
	assert.Equal(t, 0, DaysBetween("", "2026-03-01"))
}
