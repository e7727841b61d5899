package model

import (
	"errors"
	"fmt"
)

// State is the whole persisted engine snapshot. The debug date offset lives
// outside of it so a state reset keeps the offset.
type State struct {
	Tasks  []Task    `json:"tasks"`
	Goals  []Goal    `json:"goals"`
	Habits []Habit   `json:"habits"`
	Vices  []Vice    `json:"vices"`
	Stats  UserStats `json:"stats"`
}

func NewState() *State {
	s := &State{}
	s.Normalize()
	return s
}

// Normalize replaces nil collections with empty ones.
func (s *State) Normalize() {
	if s.Tasks == nil {
		s.Tasks = []Task{}
	}
	if s.Goals == nil {
		s.Goals = []Goal{}
	}
	if s.Habits == nil {
		s.Habits = []Habit{}
	}
	if s.Vices == nil {
		s.Vices = []Vice{}
	}
	if s.Stats.DailyXP == nil {
		s.Stats.DailyXP = map[string]int{}
	}
	if s.Stats.TaskHistory == nil {
		s.Stats.TaskHistory = map[string]int{}
	}
	if s.Stats.Level <= 0 {
		s.Stats.Level = 1
	}
	for i := range s.Vices {
		if s.Vices[i].History == nil {
			s.Vices[i].History = map[string]ViceStatus{}
		}
	}
}

// Validate checks the fields the engine cannot work without. It is used on
// load; a failing snapshot is discarded rather than repaired.
func (s *State) Validate() error {
	var errs []error
	for i, t := range s.Tasks {
		if t.ID == "" {
			errs = append(errs, fmt.Errorf("tasks[%d]: missing id", i))
		}
	}
	for i, g := range s.Goals {
		if g.ID == "" {
			errs = append(errs, fmt.Errorf("goals[%d]: missing id", i))
		}
		if !g.Type.IsValid() {
			errs = append(errs, fmt.Errorf("goals[%d]: invalid type %q", i, g.Type))
		}
	}
	for i, h := range s.Habits {
		if h.ID == "" {
			errs = append(errs, fmt.Errorf("habits[%d]: missing id", i))
		}
	}
	for i, v := range s.Vices {
		if v.ID == "" {
			errs = append(errs, fmt.Errorf("vices[%d]: missing id", i))
		}
	}
	if s.Stats.TotalLifetimeXP < 0 {
		errs = append(errs, errors.New("stats: negative totalLifetimeXP"))
	}
	return errors.Join(errs...)
}

func (s *State) Clone() *State {
	out := &State{
		Tasks:  make([]Task, len(s.Tasks)),
		Goals:  make([]Goal, len(s.Goals)),
		Habits: make([]Habit, len(s.Habits)),
		Vices:  make([]Vice, len(s.Vices)),
		Stats:  s.Stats.Clone(),
	}
	for i, t := range s.Tasks {
		out.Tasks[i] = t.Clone()
	}
	for i, g := range s.Goals {
		out.Goals[i] = g.Clone()
	}
	for i, h := range s.Habits {
		out.Habits[i] = h.Clone()
	}
	for i, v := range s.Vices {
		out.Vices[i] = v.Clone()
	}
	return out
}

func (s *State) Task(id TaskID) *Task {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return &s.Tasks[i]
		}
	}
	return nil
}

func (s *State) Goal(id GoalID) *Goal {
	for i := range s.Goals {
		if s.Goals[i].ID == id {
			return &s.Goals[i]
		}
	}
	return nil
}

func (s *State) Habit(id HabitID) *Habit {
	for i := range s.Habits {
		if s.Habits[i].ID == id {
			return &s.Habits[i]
		}
	}
	return nil
}

func (s *State) Vice(id ViceID) *Vice {
	for i := range s.Vices {
		if s.Vices[i].ID == id {
			return &s.Vices[i]
		}
	}
	return nil
}

// RemoveTasks drops every task matching fn and returns how many went.
func (s *State) RemoveTasks(fn func(Task) bool) int {
	kept := s.Tasks[:0]
	removed := 0
	for _, t := range s.Tasks {
		if fn(t) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	s.Tasks = kept
	return removed
}
