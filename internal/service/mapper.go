package service

import (
	"math"

	"github.com/todohub/todohub/internal/domain"
)

// Mapper projects persisted todos into their external view representation,
// computing the derived subtask progress fields. Sharing fields are populated
// by the query layer after mapping, since they require a cross-todo batched
// lookup.
type Mapper struct{}

// NewMapper creates a new Mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// ToView maps a todo to its view representation.
func (m *Mapper) ToView(todo *domain.Todo) *domain.TodoView {
	tags := todo.Tags
	if tags == nil {
		tags = []string{}
	}
	subtasks := todo.Subtasks
	if subtasks == nil {
		subtasks = []domain.Subtask{}
	}

	completed := 0
	for _, subtask := range subtasks {
		if subtask.Completed {
			completed++
		}
	}

	progress := 0
	if len(subtasks) > 0 {
		progress = int(math.Round(float64(completed) * 100 / float64(len(subtasks))))
	}

	return &domain.TodoView{
		ID:                todo.ID,
		Title:             todo.Title,
		Description:       todo.Description,
		Completed:         todo.Completed,
		UserID:            todo.UserID,
		DueDate:           todo.DueDate,
		RemindAt:          todo.RemindAt,
		Priority:          todo.Priority,
		Category:          todo.Category,
		Tags:              tags,
		Subtasks:          subtasks,
		CompletedSubtasks: completed,
		TotalSubtasks:     len(subtasks),
		ProgressPercent:   progress,
		Archived:          todo.Archived,
		ArchivedAt:        todo.ArchivedAt,
		ArchivedBy:        todo.ArchivedBy,
		Shared:            false,
		SharedWithUserIDs: []string{},
		CreatedAt:         todo.CreatedAt,
		UpdatedAt:         todo.UpdatedAt,
	}
}

// ToViews maps a batch of todos.
func (m *Mapper) ToViews(todos []*domain.Todo) []*domain.TodoView {
	views := make([]*domain.TodoView, 0, len(todos))
	for _, todo := range todos {
		views = append(views, m.ToView(todo))
	}
	return views
}
