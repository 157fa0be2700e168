package sqlite_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/todohub/todohub/internal/domain"
	"github.com/todohub/todohub/internal/store"
	"github.com/todohub/todohub/internal/store/sqlite"
	"github.com/todohub/todohub/pkg/idgen"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTodo(owner, title string) *domain.Todo {
	now := time.Now().UTC()
	return &domain.Todo{
		ID:        idgen.MustGenerate(idgen.TodoPrefix),
		Title:     title,
		UserID:    owner,
		Priority:  domain.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func strPtr(s string) *string { return &s }

func TestTodoRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewTodoRepository(db)

	due := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	todo := newTodo("alice", "Buy groceries")
	todo.Description = strPtr("milk and bread")
	todo.DueDate = &due
	todo.Category = strPtr("errands")
	todo.Tags = []string{"shopping", "weekend"}
	todo.Subtasks = []domain.Subtask{
		{ID: idgen.MustGenerate(idgen.SubtaskPrefix), Title: "milk"},
		{ID: idgen.MustGenerate(idgen.SubtaskPrefix), Title: "bread", Completed: true},
	}

	if err := repo.Create(todo); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := repo.GetByID(todo.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if got.Title != "Buy groceries" {
		t.Errorf("expected title round trip, got %q", got.Title)
	}
	if got.Description == nil || *got.Description != "milk and bread" {
		t.Errorf("expected description round trip, got %v", got.Description)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("expected due date round trip, got %v", got.DueDate)
	}
	if got.Category == nil || *got.Category != "errands" {
		t.Errorf("expected category round trip, got %v", got.Category)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "shopping" || got.Tags[1] != "weekend" {
		t.Errorf("expected tag order preserved, got %v", got.Tags)
	}
	if len(got.Subtasks) != 2 || got.Subtasks[0].Title != "milk" || got.Subtasks[1].Title != "bread" {
		t.Errorf("expected subtask order preserved, got %+v", got.Subtasks)
	}
	if !got.Subtasks[1].Completed {
		t.Errorf("expected second subtask completed")
	}
}

func TestTodoRepository_GetMissing(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewTodoRepository(db)

	_, err := repo.GetByID("todo-missing")
	if err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestTodoRepository_Update_ReplacesCollections(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewTodoRepository(db)

	todo := newTodo("alice", "Plan trip")
	todo.Tags = []string{"travel"}
	todo.Subtasks = []domain.Subtask{
		{ID: "sub-keepme00001", Title: "book flight"},
	}
	if err := repo.Create(todo); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	todo.Title = "Plan summer trip"
	todo.Tags = []string{"travel", "summer"}
	todo.Subtasks = append(todo.Subtasks, domain.Subtask{ID: "sub-newone00001", Title: "book hotel"})
	if err := repo.Update(todo); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := repo.GetByID(todo.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Title != "Plan summer trip" {
		t.Errorf("expected updated title, got %q", got.Title)
	}
	if len(got.Subtasks) != 2 || got.Subtasks[0].ID != "sub-keepme00001" {
		t.Errorf("expected existing subtask id preserved, got %+v", got.Subtasks)
	}
	if len(got.Tags) != 2 || got.Tags[1] != "summer" {
		t.Errorf("expected replaced tags, got %v", got.Tags)
	}
}

func TestTodoRepository_UpdateMissing(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewTodoRepository(db)

	todo := newTodo("alice", "ghost")
	if err := repo.Update(todo); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestTodoRepository_Delete_Cascades(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewTodoRepository(db)
	shareRepo := sqlite.NewShareRepository(db)

	todo := newTodo("alice", "Temp")
	todo.Subtasks = []domain.Subtask{{ID: "sub-cascade0001", Title: "child"}}
	todo.Tags = []string{"tmp"}
	if err := repo.Create(todo); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	share := &domain.TodoShare{
		ID:               idgen.MustGenerate(idgen.SharePrefix),
		TodoID:           todo.ID,
		SharedWithUserID: "bob",
		Permission:       domain.PermissionView,
		CreatedBy:        "alice",
		CreatedAt:        time.Now().UTC(),
	}
	if err := shareRepo.Create(share); err != nil {
		t.Fatalf("share create failed: %v", err)
	}

	if err := repo.Delete(todo.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	for _, table := range []string{"todo_subtasks", "todo_tags", "todo_shares"} {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE todo_id = ?", todo.ID).Scan(&count); err != nil {
			t.Fatalf("count %s failed: %v", table, err)
		}
		if count != 0 {
			t.Errorf("expected %s rows to cascade on delete, found %d", table, count)
		}
	}

	if err := repo.Delete(todo.ID); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows for second delete, got %v", err)
	}
}

func TestTodoRepository_DeleteByOwner(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewTodoRepository(db)

	for _, title := range []string{"one", "two"} {
		if err := repo.Create(newTodo("alice", title)); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}
	if err := repo.Create(newTodo("bob", "keep")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	deleted, err := repo.DeleteByOwner("alice")
	if err != nil {
		t.Fatalf("delete by owner failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}

	remaining, err := repo.FindByOwner("bob")
	if err != nil {
		t.Fatalf("find by owner failed: %v", err)
	}
	if len(remaining) != 1 {
		t.Errorf("expected bob's todo untouched, got %d todos", len(remaining))
	}
}

func TestTodoRepository_Search_Filters(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewTodoRepository(db)

	work := newTodo("alice", "Write report")
	work.Category = strPtr("Work")
	work.Tags = []string{"urgent"}
	work.Completed = true

	home := newTodo("alice", "Clean kitchen")
	home.Category = strPtr("home")
	home.Description = strPtr("scrub the counters")

	archived := newTodo("alice", "Old task")
	archived.Archived = true

	other := newTodo("bob", "Bob's task")

	for _, todo := range []*domain.Todo{work, home, archived, other} {
		if err := repo.Create(todo); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	pageable := domain.Pageable{Page: 0, Size: 10, Sort: domain.Sort{Field: "title"}}

	tests := []struct {
		name     string
		criteria func() domain.Criteria
		wantIDs  []string
	}{
		{
			name: "visible to owner only",
			criteria: func() domain.Criteria {
				var c domain.Criteria
				c.VisibleTo("alice", nil)
				return c
			},
			wantIDs: []string{home.ID, archived.ID, work.ID},
		},
		{
			name: "visible with shared ids",
			criteria: func() domain.Criteria {
				var c domain.Criteria
				c.VisibleTo("bob", []string{home.ID})
				return c
			},
			wantIDs: []string{other.ID, home.ID},
		},
		{
			name: "category is case-insensitive",
			criteria: func() domain.Criteria {
				var c domain.Criteria
				c.CategoryEquals("work")
				return c
			},
			wantIDs: []string{work.ID},
		},
		{
			name: "tag match",
			criteria: func() domain.Criteria {
				var c domain.Criteria
				c.HasTag("URGENT")
				return c
			},
			wantIDs: []string{work.ID},
		},
		{
			name: "completed filter",
			criteria: func() domain.Criteria {
				var c domain.Criteria
				c.VisibleTo("alice", nil)
				c.CompletedEquals(true)
				return c
			},
			wantIDs: []string{work.ID},
		},
		{
			name: "archived filter",
			criteria: func() domain.Criteria {
				var c domain.Criteria
				c.VisibleTo("alice", nil)
				c.ArchivedEquals(false)
				return c
			},
			wantIDs: []string{home.ID, work.ID},
		},
		{
			name: "search matches description",
			criteria: func() domain.Criteria {
				var c domain.Criteria
				c.Matches("COUNTERS")
				return c
			},
			wantIDs: []string{home.ID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todos, total, err := repo.Search(tt.criteria(), pageable)
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			if total != len(tt.wantIDs) {
				t.Errorf("expected total %d, got %d", len(tt.wantIDs), total)
			}
			if len(todos) != len(tt.wantIDs) {
				t.Fatalf("expected %d todos, got %d", len(tt.wantIDs), len(todos))
			}
			for i, id := range tt.wantIDs {
				if todos[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, todos[i].ID)
				}
			}
		})
	}
}

func TestTodoRepository_Search_Pagination(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewTodoRepository(db)

	for _, title := range []string{"alpha", "beta", "gamma"} {
		if err := repo.Create(newTodo("alice", title)); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	var criteria domain.Criteria
	criteria.VisibleTo("alice", nil)
	sort := domain.Sort{Field: "title"}

	first, total, err := repo.Search(criteria, domain.Pageable{Page: 0, Size: 2, Sort: sort})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(first) != 2 || first[0].Title != "alpha" || first[1].Title != "beta" {
		t.Errorf("unexpected first page: %+v", titles(first))
	}

	second, _, err := repo.Search(criteria, domain.Pageable{Page: 1, Size: 2, Sort: sort})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(second) != 1 || second[0].Title != "gamma" {
		t.Errorf("unexpected second page: %+v", titles(second))
	}
}

func TestTodoRepository_Search_PrioritySortsByRank(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewTodoRepository(db)

	priorities := []domain.Priority{domain.PriorityHigh, domain.PriorityLow, domain.PriorityMedium}
	for i, p := range priorities {
		todo := newTodo("alice", "todo "+string(rune('a'+i)))
		todo.Priority = p
		if err := repo.Create(todo); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	var criteria domain.Criteria
	criteria.VisibleTo("alice", nil)

	todos, err := repo.SearchAll(criteria, domain.Sort{Field: "priority", Desc: true})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	want := []domain.Priority{domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow}
	for i, p := range want {
		if todos[i].Priority != p {
			t.Errorf("position %d: expected %s, got %s", i, p, todos[i].Priority)
		}
	}
}

func titles(todos []*domain.Todo) []string {
	out := make([]string, len(todos))
	for i, todo := range todos {
		out[i] = todo.Title
	}
	return out
}
