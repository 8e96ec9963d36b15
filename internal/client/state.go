package client

import (
	"errors"
	"time"

	"github.com/BuzzLyutic/clock-tasks/internal/model"
)

// State is everything the view renders. Each mutation only touches the
// fields it owns, so a failed action never discards the loaded list.
type State struct {
	Time        time.Time
	TimeErr     bool
	TimeLoading bool

	Tasks        []model.Task
	TasksLoading bool
	TasksErr     string
}

func NewState() *State {
	return &State{TimeLoading: true, TasksLoading: true}
}

func (s *State) ApplyTime(r TimeResult) {
	s.TimeLoading = false
	if r.Err != nil {
		s.TimeErr = true
		return
	}
	s.Time = r.Time
	s.TimeErr = false
}

func (s *State) SetTasks(tasks []model.Task, err error) {
	s.TasksLoading = false
	if err != nil {
		s.Fail(err)
		return
	}
	s.Tasks = tasks
	s.TasksErr = ""
}

// Prepend adds a freshly created task at the top.
func (s *State) Prepend(t model.Task) {
	s.Tasks = append([]model.Task{t}, s.Tasks...)
}

// Replace swaps in the updated task with the same id.
func (s *State) Replace(t model.Task) {
	for i := range s.Tasks {
		if s.Tasks[i].ID == t.ID {
			s.Tasks[i] = t
		}
	}
}

func (s *State) Remove(id int64) {
	kept := s.Tasks[:0:0]
	for _, t := range s.Tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.Tasks = kept
}

func (s *State) ClearError() {
	s.TasksErr = ""
}

// Fail records the error of a single task action.
func (s *State) Fail(err error) {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		s.TasksErr = apiErr.Message
	case err != nil && err.Error() != "":
		s.TasksErr = err.Error()
	default:
		s.TasksErr = "Unexpected tasks error"
	}
}

func (s *State) Counts() (done, pending int) {
	for _, t := range s.Tasks {
		if t.IsDone {
			done++
		} else {
			pending++
		}
	}
	return
}
