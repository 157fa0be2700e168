package service_test

import (
	"testing"
	"time"

	"github.com/todohub/todohub/internal/domain"
	"github.com/todohub/todohub/internal/service"
)

func TestMapper_ToView_Progress(t *testing.T) {
	m := service.NewMapper()

	tests := []struct {
		name      string
		subtasks  []domain.Subtask
		completed int
		total     int
		percent   int
	}{
		{"no subtasks", nil, 0, 0, 0},
		{"none done", []domain.Subtask{{ID: "a"}, {ID: "b"}}, 0, 2, 0},
		{"half done", []domain.Subtask{{ID: "a", Completed: true}, {ID: "b"}}, 1, 2, 50},
		{"one of three", []domain.Subtask{{ID: "a", Completed: true}, {ID: "b"}, {ID: "c"}}, 1, 3, 33},
		{"two of three", []domain.Subtask{{ID: "a", Completed: true}, {ID: "b", Completed: true}, {ID: "c"}}, 2, 3, 67},
		{"all done", []domain.Subtask{{ID: "a", Completed: true}}, 1, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := m.ToView(&domain.Todo{
				ID:       "todo-1",
				Title:    "t",
				Subtasks: tt.subtasks,
			})
			if view.CompletedSubtasks != tt.completed {
				t.Errorf("completed = %d, want %d", view.CompletedSubtasks, tt.completed)
			}
			if view.TotalSubtasks != tt.total {
				t.Errorf("total = %d, want %d", view.TotalSubtasks, tt.total)
			}
			if view.ProgressPercent != tt.percent {
				t.Errorf("percent = %d, want %d", view.ProgressPercent, tt.percent)
			}
		})
	}
}

func TestMapper_ToView_NonNilCollections(t *testing.T) {
	m := service.NewMapper()

	view := m.ToView(&domain.Todo{ID: "todo-1", Title: "t", CreatedAt: time.Now()})

	if view.Tags == nil {
		t.Errorf("expected empty tags slice, got nil")
	}
	if view.Subtasks == nil {
		t.Errorf("expected empty subtasks slice, got nil")
	}
	if view.SharedWithUserIDs == nil {
		t.Errorf("expected empty shared user ids slice, got nil")
	}
	if view.Shared {
		t.Errorf("expected shared false before enrichment")
	}
}
