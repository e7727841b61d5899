package ui

import (
	"fmt"

	"github.com/Vader773/daily-grimoire-sub000/internal/game"
	"github.com/Vader773/daily-grimoire-sub000/internal/model"
)

//go:generate templ generate

type statusRow struct {
	Date  string
	XP    int
	Tasks int
}

func offsetNote(offset int) string {
	if offset == 0 {
		return ""
	}
	return fmt.Sprintf(" (debug offset %+d)", offset)
}

// todayTasks is what the page lists under Today: tasks dated today plus the
// long-lived accumulator tasks.
func todayTasks(today string, s *model.State) []model.Task {
	var out []model.Task
	for _, t := range s.Tasks {
		if t.Date == today || t.Accumulator {
			out = append(out, t)
		}
	}
	return out
}

func taskState(t model.Task) string {
	if t.Completed {
		return "done"
	}
	return "open"
}

func taskMeta(t model.Task) string {
	return fmt.Sprintf("%s · %d XP", t.Difficulty, t.XP)
}

func goalMeta(g model.Goal) string {
	state := "active"
	if g.Completed {
		state = "completed"
	}
	return fmt.Sprintf("%s · %s · %d day run", g.Type, state, g.ConsecutiveDays)
}

func weekRows(ov game.Overview) []statusRow {
	rows := make([]statusRow, 0, len(ov.WeeklyXP))
	for i, d := range ov.WeeklyXP {
		row := statusRow{Date: d.Date, XP: d.XP}
		if i < len(ov.TaskHistory) {
			row.Tasks = ov.TaskHistory[i].Count
		}
		rows = append(rows, row)
	}
	return rows
}
