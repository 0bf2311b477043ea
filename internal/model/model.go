package model

import (
	"strings"
	"time"
)

// DateLayout is the format of due dates and filter bounds.
const DateLayout = "2006-01-02"

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses lists every lane in display order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

func (s Status) Valid() bool {
	return s.Rank() >= 0
}

// Rank is the lane's display position; unknown statuses rank -1.
func (s Status) Rank() int {
	switch s {
	case StatusTodo:
		return 0
	case StatusInProgress:
		return 1
	case StatusDone:
		return 2
	default:
		return -1
	}
}

func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To do"
	case StatusInProgress:
		return "In progress"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// FilterAll disables the status or priority clause of a Filter.
const FilterAll = "all"

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	DueDate     *string   `json:"dueDate,omitempty"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Due returns the parsed due date, if any.
func (t Task) Due() (time.Time, bool) {
	if t.DueDate == nil {
		return time.Time{}, false
	}
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(*t.DueDate))
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

type TaskInput struct {
	Title       string
	Description string
	Status      Status
	Priority    Priority
	DueDate     *string
	Order       *int
}

// TaskPatch carries the fields an update overwrites; nil means unchanged.
type TaskPatch struct {
	Title        *string
	Description  *string
	Status       *Status
	Priority     *Priority
	DueDate      *string
	ClearDueDate bool
	Order        *int
}

type Filter struct {
	Status      string  `json:"status,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	IncludeDone bool    `json:"includeDone,omitempty"`
	DueBefore   *string `json:"dueBefore,omitempty"`
}
