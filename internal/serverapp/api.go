package serverapp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Vader773/daily-grimoire-sub000/internal/calendar"
	"github.com/Vader773/daily-grimoire-sub000/internal/game"
	"github.com/Vader773/daily-grimoire-sub000/internal/model"
	"github.com/Vader773/daily-grimoire-sub000/internal/telemetry"
	"github.com/Vader773/daily-grimoire-sub000/internal/ui"
)

type stateView struct {
	State    *model.State  `json:"state"`
	Overview game.Overview `json:"overview"`
}

type timerView struct {
	Task             model.Task `json:"task"`
	RemainingSeconds int        `json:"remainingSeconds"`
}

func registerAPI(mux *http.ServeMux, rr *RouteRegistry, eng *game.Engine, events telemetry.Repository) {
	Handle(mux, rr, "GET /api/state", "Snapshot plus derived economy view", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, stateView{State: eng.Snapshot(), Overview: eng.Overview()})
	})

	registerTaskRoutes(mux, rr, eng)
	registerGoalRoutes(mux, rr, eng)
	registerHabitRoutes(mux, rr, eng)
	registerViceRoutes(mux, rr, eng)
	registerDebugRoutes(mux, rr, eng)

	Handle(mux, rr, "POST /api/rollover", "Run the day rollover", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, eng.Rollover(r.Context()))
	})

	Handle(mux, rr, "GET /api/calendar.ics", "Goal deadlines and habits as iCalendar", "", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="grimoire.ics"`)
		_, _ = w.Write([]byte(calendar.Build(eng.Snapshot(), time.Now())))
	})

	Handle(mux, rr, "GET /api/badge.png", "Shareable progress card", "", func(w http.ResponseWriter, r *http.Request) {
		b, err := ui.RenderBadge(eng.Overview())
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(b)
	})

	Handle(mux, rr, "GET /api/telemetry/stats", "Telemetry aggregate (?days=7)", "", func(w http.ResponseWriter, r *http.Request) {
		days := 7
		if raw := r.URL.Query().Get("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				writeErr(w, http.StatusBadRequest, "days must be a positive integer")
				return
			}
			days = n
		}
		since := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
		evs, err := events.GetEvents(since, nil)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		stats, err := telemetry.CalculateStats(evs, since)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})
}

func registerTaskRoutes(mux *http.ServeMux, rr *RouteRegistry, eng *game.Engine) {
	Handle(mux, rr, "GET /api/tasks", "List live tasks", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, eng.Snapshot().Tasks)
	})

	Handle(mux, rr, "POST /api/tasks", "Add an ad hoc task", `{"title":"pay bills","difficulty":"easy","daily":false}`, func(w http.ResponseWriter, r *http.Request) {
		var body game.NewTaskInput
		if err := decodeBody(r, &body); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		t, err := eng.AddTask(r.Context(), body)
		if err != nil {
			writeInputErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	})

	Handle(mux, rr, "POST /api/tasks/{id}/complete", "Complete a task", `{"actualAmount":25}`, func(w http.ResponseWriter, r *http.Request) {
		id := model.TaskID(r.PathValue("id"))
		var body struct {
			ActualAmount *int `json:"actualAmount"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if eng.Snapshot().Task(id) == nil {
			writeErr(w, http.StatusNotFound, "task not found")
			return
		}
		writeJSON(w, http.StatusOK, eng.Complete(r.Context(), id, body.ActualAmount))
	})

	Handle(mux, rr, "POST /api/tasks/{id}/overclock", "Report an amount above the assignment", `{"actualAmount":40}`, func(w http.ResponseWriter, r *http.Request) {
		id := model.TaskID(r.PathValue("id"))
		var body struct {
			ActualAmount int `json:"actualAmount"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if eng.Snapshot().Task(id) == nil {
			writeErr(w, http.StatusNotFound, "task not found")
			return
		}
		writeJSON(w, http.StatusOK, eng.OverclockTask(r.Context(), id, body.ActualAmount))
	})

	Handle(mux, rr, "POST /api/tasks/{id}/progress", "Contribute to an accumulator", `{"amount":10}`, func(w http.ResponseWriter, r *http.Request) {
		id := model.TaskID(r.PathValue("id"))
		var body struct {
			Amount int `json:"amount"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if body.Amount <= 0 {
			writeErr(w, http.StatusBadRequest, "amount must be positive")
			return
		}
		if eng.Snapshot().Task(id) == nil {
			writeErr(w, http.StatusNotFound, "task not found")
			return
		}
		writeJSON(w, http.StatusOK, eng.UpdateAccumulatorProgress(r.Context(), id, body.Amount))
	})

	Handle(mux, rr, "POST /api/tasks/{id}/timer", "Start a task timer", "", func(w http.ResponseWriter, r *http.Request) {
		id := model.TaskID(r.PathValue("id"))
		t, ok := eng.StartTaskTimer(r.Context(), id)
		if !ok {
			writeErr(w, http.StatusNotFound, "task not found or has no timer")
			return
		}
		remaining, _ := eng.TimerRemaining(id)
		writeJSON(w, http.StatusOK, timerView{Task: t, RemainingSeconds: int(remaining.Seconds())})
	})

	Handle(mux, rr, "DELETE /api/tasks/{id}", "Delete a task", "", func(w http.ResponseWriter, r *http.Request) {
		if !eng.DeleteTask(r.Context(), model.TaskID(r.PathValue("id"))) {
			writeErr(w, http.StatusNotFound, "task not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func registerGoalRoutes(mux *http.ServeMux, rr *RouteRegistry, eng *game.Engine) {
	Handle(mux, rr, "GET /api/goals", "List goals", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, eng.Snapshot().Goals)
	})

	Handle(mux, rr, "POST /api/goals", "Create a goal",
		`{"title":"Pushups","type":"progressive","difficulty":"medium","exercises":[{"name":"Pushups","unit":"reps","startAmount":10,"targetAmount":50}]}`,
		func(w http.ResponseWriter, r *http.Request) {
			var body game.NewGoalInput
			if err := decodeBody(r, &body); err != nil {
				writeErr(w, http.StatusBadRequest, "invalid json body")
				return
			}
			g, err := eng.AddGoal(r.Context(), body)
			if err != nil {
				writeInputErr(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, g)
		})

	Handle(mux, rr, "GET /api/goals/{id}/tasks", "Tasks belonging to a goal", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, eng.TasksForGoal(model.GoalID(r.PathValue("id"))))
	})

	Handle(mux, rr, "POST /api/goals/{id}/claim", "Claim a completed goal's bonus", "", func(w http.ResponseWriter, r *http.Request) {
		id := model.GoalID(r.PathValue("id"))
		if eng.Snapshot().Goal(id) == nil {
			writeErr(w, http.StatusNotFound, "goal not found")
			return
		}
		writeJSON(w, http.StatusOK, eng.ClaimGoalReward(r.Context(), id))
	})

	Handle(mux, rr, "POST /api/goals/{id}/habit", "Convert a completed goal into a habit", "", func(w http.ResponseWriter, r *http.Request) {
		h, ok := eng.MoveGoalToHabit(r.Context(), model.GoalID(r.PathValue("id")))
		if !ok {
			writeErr(w, http.StatusNotFound, "goal not found or not completed")
			return
		}
		writeJSON(w, http.StatusCreated, h)
	})

	Handle(mux, rr, "DELETE /api/goals/{id}", "Delete a goal and its open tasks", "", func(w http.ResponseWriter, r *http.Request) {
		if !eng.DeleteGoal(r.Context(), model.GoalID(r.PathValue("id"))) {
			writeErr(w, http.StatusNotFound, "goal not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func registerHabitRoutes(mux *http.ServeMux, rr *RouteRegistry, eng *game.Engine) {
	Handle(mux, rr, "GET /api/habits", "List habits", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, eng.Snapshot().Habits)
	})

	Handle(mux, rr, "POST /api/habits", "Create a habit", `{"title":"Read","period":"daily","exercises":[{"name":"Read","unit":"pages","startAmount":5,"targetAmount":20}]}`, func(w http.ResponseWriter, r *http.Request) {
		var body game.NewHabitInput
		if err := decodeBody(r, &body); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		h, err := eng.AddHabit(r.Context(), body)
		if err != nil {
			writeInputErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, h)
	})

	Handle(mux, rr, "POST /api/habits/{id}/complete", "Complete today's habit task", "", func(w http.ResponseWriter, r *http.Request) {
		id := model.HabitID(r.PathValue("id"))
		if eng.Snapshot().Habit(id) == nil {
			writeErr(w, http.StatusNotFound, "habit not found")
			return
		}
		writeJSON(w, http.StatusOK, eng.CompleteHabit(r.Context(), id))
	})

	Handle(mux, rr, "DELETE /api/habits/{id}", "Delete a habit and its open tasks", "", func(w http.ResponseWriter, r *http.Request) {
		if !eng.DeleteHabit(r.Context(), model.HabitID(r.PathValue("id"))) {
			writeErr(w, http.StatusNotFound, "habit not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func registerViceRoutes(mux *http.ServeMux, rr *RouteRegistry, eng *game.Engine) {
	Handle(mux, rr, "GET /api/vices", "List vices (backfills missed days)", "", func(w http.ResponseWriter, r *http.Request) {
		eng.BackfillVices(r.Context())
		writeJSON(w, http.StatusOK, eng.Snapshot().Vices)
	})

	Handle(mux, rr, "POST /api/vices", "Track a vice", `{"title":"Doomscrolling"}`, func(w http.ResponseWriter, r *http.Request) {
		var body game.NewViceInput
		if err := decodeBody(r, &body); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		v, err := eng.AddVice(r.Context(), body)
		if err != nil {
			writeInputErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, v)
	})

	Handle(mux, rr, "POST /api/vices/{id}/checkin", "Check in on a vice", `{"status":"clean"}`, func(w http.ResponseWriter, r *http.Request) {
		id := model.ViceID(r.PathValue("id"))
		var body struct {
			Status model.ViceStatus `json:"status"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if !body.Status.IsValid() {
			writeErr(w, http.StatusBadRequest, "status must be clean or relapsed")
			return
		}
		if eng.Snapshot().Vice(id) == nil {
			writeErr(w, http.StatusNotFound, "vice not found")
			return
		}
		writeJSON(w, http.StatusOK, eng.CheckInVice(r.Context(), id, body.Status))
	})

	Handle(mux, rr, "DELETE /api/vices/{id}", "Stop tracking a vice", "", func(w http.ResponseWriter, r *http.Request) {
		if !eng.DeleteVice(r.Context(), model.ViceID(r.PathValue("id"))) {
			writeErr(w, http.StatusNotFound, "vice not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func registerDebugRoutes(mux *http.ServeMux, rr *RouteRegistry, eng *game.Engine) {
	dbg := eng.Debug()

	Handle(mux, rr, "POST /api/debug/advance-day", "Shift the calendar one day forward", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dbg.AdvanceDay(r.Context()))
	})

	Handle(mux, rr, "POST /api/debug/offset", "Set the calendar day offset", `{"offset":3}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Offset int `json:"offset"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		writeJSON(w, http.StatusOK, dbg.SetDateOffset(r.Context(), body.Offset))
	})

	Handle(mux, rr, "POST /api/debug/league", "Override the league (empty clears)", `{"league":"gold"}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			League string `json:"league"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if body.League == "" {
			dbg.ClearLeagueOverride(r.Context())
		} else if !dbg.SetLeagueOverride(r.Context(), body.League) {
			writeErr(w, http.StatusBadRequest, "unknown league")
			return
		}
		writeJSON(w, http.StatusOK, eng.League())
	})

	Handle(mux, rr, "POST /api/debug/xp", "Inject XP", `{"amount":500}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Amount int `json:"amount"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if body.Amount <= 0 {
			writeErr(w, http.StatusBadRequest, "amount must be positive")
			return
		}
		writeJSON(w, http.StatusOK, dbg.InjectXP(r.Context(), body.Amount))
	})

	Handle(mux, rr, "POST /api/debug/streak", "Set the global streak", `{"streak":7}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Streak int `json:"streak"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
		if body.Streak < 0 {
			writeErr(w, http.StatusBadRequest, "streak must not be negative")
			return
		}
		dbg.SetStreak(r.Context(), body.Streak)
		writeJSON(w, http.StatusOK, eng.Overview())
	})

	Handle(mux, rr, "POST /api/debug/reset", "Reset all progress (keeps the day offset)", "", func(w http.ResponseWriter, r *http.Request) {
		dbg.Reset(r.Context())
		writeJSON(w, http.StatusOK, stateView{State: eng.Snapshot(), Overview: eng.Overview()})
	})
}
