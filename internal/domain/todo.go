package domain

import "time"

// Priority represents the urgency level of a todo.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// DefaultPriority is applied when a caller does not supply a priority.
const DefaultPriority = PriorityMedium

// ValidPriorities contains all valid priority values.
var ValidPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// IsValid checks if the priority is a valid priority value.
func (p Priority) IsValid() bool {
	for _, v := range ValidPriorities {
		if p == v {
			return true
		}
	}
	return false
}

// Rank returns the sort rank of a priority, lowest urgency first.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	default:
		return 1
	}
}

// Subtask is a child item of a todo. Order within the parent list is
// significant and preserved across updates.
type Subtask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Todo is the primary aggregate: a shared, versioned todo item owned by a
// single user, optionally delegated to other users through shares.
type Todo struct {
	ID          string
	Title       string
	Description *string
	Completed   bool
	UserID      string
	DueDate     *time.Time
	RemindAt    *time.Time
	Priority    Priority
	Category    *string
	Tags        []string
	Subtasks    []Subtask
	Archived    bool
	ArchivedAt  *time.Time
	ArchivedBy  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TodoView is the external representation of a todo, including fields derived
// from the subtask list. Shared and SharedWithUserIDs are filled in by the
// query layer from a batched share lookup, not by the mapper.
type TodoView struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       *string    `json:"description,omitempty"`
	Completed         bool       `json:"completed"`
	UserID            string     `json:"user_id"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	RemindAt          *time.Time `json:"remind_at,omitempty"`
	Priority          Priority   `json:"priority"`
	Category          *string    `json:"category,omitempty"`
	Tags              []string   `json:"tags"`
	Subtasks          []Subtask  `json:"subtasks"`
	CompletedSubtasks int        `json:"completed_subtasks"`
	TotalSubtasks     int        `json:"total_subtasks"`
	ProgressPercent   int        `json:"progress_percent"`
	Archived          bool       `json:"archived"`
	ArchivedAt        *time.Time `json:"archived_at,omitempty"`
	ArchivedBy        *string    `json:"archived_by,omitempty"`
	Shared            bool       `json:"shared"`
	SharedWithUserIDs []string   `json:"shared_with_user_ids"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// FindSubtask returns the subtask with the given id, or nil if absent.
func (t *Todo) FindSubtask(subtaskID string) *Subtask {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == subtaskID {
			return &t.Subtasks[i]
		}
	}
	return nil
}

// RemoveSubtask removes the subtask with the given id, preserving the order
// of the remaining entries. It reports whether a subtask was removed.
func (t *Todo) RemoveSubtask(subtaskID string) bool {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == subtaskID {
			t.Subtasks = append(t.Subtasks[:i], t.Subtasks[i+1:]...)
			return true
		}
	}
	return false
}
