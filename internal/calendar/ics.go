// Package calendar exports goal deadlines and habit rhythms as iCalendar.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/Vader773/daily-grimoire-sub000/internal/model"
)

const (
	dayLayout    = "2006-01-02"
	icsDayLayout = "20060102"
	stampLayout  = "20060102T150405Z"
)

// Build renders one all-day event per goal deadline and one recurring event
// per habit. Completed goals and goals without a deadline are skipped.
func Build(s *model.State, now time.Time) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Daily Grimoire//Calendar Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	stamp := now.UTC().Format(stampLayout)

	for _, g := range s.Goals {
		if g.Completed || strings.TrimSpace(g.Deadline) == "" {
			continue
		}
		due, err := time.Parse(dayLayout, g.Deadline)
		if err != nil {
			continue
		}
		lines = append(lines, event(
			fmt.Sprintf("goal-%s@grimoire", g.ID),
			stamp,
			"Deadline: "+orDefault(g.Title, "Goal"),
			goalDescription(g),
			due,
			"",
		)...)
	}

	for _, h := range s.Habits {
		start := h.CreatedAt
		if start.IsZero() {
			start = now
		}
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
		lines = append(lines, event(
			fmt.Sprintf("habit-%s@grimoire", h.ID),
			stamp,
			orDefault(h.Title, "Habit"),
			habitDescription(h),
			start,
			habitRRule(h),
		)...)
	}

	lines = append(lines, "END:VCALENDAR", "")
	return strings.Join(lines, "\r\n")
}

func event(uid, stamp, summary, desc string, day time.Time, rrule string) []string {
	out := []string{
		"BEGIN:VEVENT",
		"UID:" + escapeText(uid),
		"DTSTAMP:" + stamp,
		"SUMMARY:" + escapeText(summary),
		"DTSTART;VALUE=DATE:" + day.Format(icsDayLayout),
		"DTEND;VALUE=DATE:" + day.AddDate(0, 0, 1).Format(icsDayLayout),
	}
	if desc != "" {
		out = append(out, "DESCRIPTION:"+escapeText(desc))
	}
	if rrule != "" {
		out = append(out, "RRULE:"+rrule)
	}
	return append(out, "END:VEVENT")
}

func habitRRule(h model.Habit) string {
	if h.Period == model.PeriodWeekly {
		return "FREQ=WEEKLY;INTERVAL=1"
	}
	return "FREQ=DAILY;INTERVAL=1"
}

func habitDescription(h model.Habit) string {
	desc := fmt.Sprintf("Streak %d, best %d", h.Streak, h.LongestStreak)
	if h.Period == model.PeriodWeekly && h.WeeklyTarget > 0 {
		desc += fmt.Sprintf(". %d times a week", h.WeeklyTarget)
	}
	return desc
}

func goalDescription(g model.Goal) string {
	switch g.Type {
	case model.GoalAccumulator:
		return fmt.Sprintf("%d of %d %s", g.CurrentTotal, g.TargetTotal, g.Unit)
	case model.GoalFrequency:
		return fmt.Sprintf("%d of %d this period", g.WeeklyProgress, g.TargetCount)
	default:
		parts := make([]string, 0, len(g.Exercises))
		for _, ex := range g.Exercises {
			parts = append(parts, fmt.Sprintf("%s %d/%d %s", ex.Name, ex.CurrentAmount, ex.TargetAmount, ex.Unit))
		}
		return strings.Join(parts, "; ")
	}
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

func escapeText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
