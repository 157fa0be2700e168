package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/todohub/todohub/internal/domain"
	"github.com/todohub/todohub/internal/store"
	"github.com/todohub/todohub/internal/store/sqlite"
	"github.com/todohub/todohub/pkg/idgen"
)

// TodoInput contains the input for creating or fully replacing a todo.
type TodoInput struct {
	Title       string
	Description *string
	Completed   bool
	UserID      *string
	DueDate     *time.Time
	RemindAt    *time.Time
	Priority    *domain.Priority
	Category    *string
	Tags        []string
	Subtasks    []*SubtaskInput
}

// TodoPatch contains the input for a partial update. Nil fields are absent
// and leave the stored value untouched; for Tags and Subtasks a nil slice
// means absent while an empty slice clears the collection.
type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	UserID      *string
	DueDate     *time.Time
	RemindAt    *time.Time
	Priority    *domain.Priority
	Category    *string
	Tags        []string
	Subtasks    []*SubtaskInput
}

// SubtaskPatch contains the input for partially updating one subtask.
type SubtaskPatch struct {
	Title     *string
	Completed *bool
}

// ShareInput contains the input for creating or updating a share grant.
type ShareInput struct {
	SharedWithUserID string
	Permission       domain.SharePermission
}

// CommandService performs all create/update/patch/delete/share mutations.
// Every operation runs inside a single transaction that covers both the
// entity write and the activity append, so neither is ever visible without
// the other.
type CommandService struct {
	db         *sql.DB
	validation *ValidationService
	mapper     *Mapper
}

// NewCommandService creates a new CommandService.
func NewCommandService(db *sql.DB) *CommandService {
	return &CommandService{
		db:         db,
		validation: NewValidationService(),
		mapper:     NewMapper(),
	}
}

// txRepos bundles the repositories and collaborating services of one
// transaction.
type txRepos struct {
	todos    *sqlite.TodoRepository
	shares   *sqlite.ShareRepository
	authz    *AuthorizationService
	activity *ActivityService
}

func (s *CommandService) inTx(fn func(r *txRepos) error) error {
	err := store.WithTx(s.db, func(tx *sql.Tx) error {
		shares := sqlite.NewShareRepository(tx)
		return fn(&txRepos{
			todos:    sqlite.NewTodoRepository(tx),
			shares:   shares,
			authz:    NewAuthorizationService(shares),
			activity: NewActivityService(sqlite.NewActivityRepository(tx)),
		})
	})
	if err != nil {
		if _, ok := err.(*domain.DomainError); !ok {
			return internalError(err)
		}
		return err
	}
	return nil
}

func loadTodo(todos *sqlite.TodoRepository, id string) (*domain.Todo, error) {
	todo, err := todos.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NewTodoNotFoundError(id)
		}
		return nil, internalError(err)
	}
	return todo, nil
}

// applyInput normalizes every mutable field of input into todo and
// re-validates the schedule invariant. Ownership is not touched here.
func (s *CommandService) applyInput(todo *domain.Todo, input TodoInput) error {
	title, err := s.validation.NormalizeTitle(input.Title)
	if err != nil {
		return err
	}
	if err := s.validation.ValidateDescription(input.Description); err != nil {
		return err
	}
	category, err := s.validation.NormalizeCategory(input.Category)
	if err != nil {
		return err
	}
	tags, err := s.validation.NormalizeTags(input.Tags)
	if err != nil {
		return err
	}
	subtasks, err := s.validation.NormalizeSubtasks(input.Subtasks)
	if err != nil {
		return err
	}
	priority, err := s.validation.ResolvePriority(input.Priority)
	if err != nil {
		return err
	}

	todo.Title = title
	todo.Description = input.Description
	todo.Completed = input.Completed
	todo.DueDate = input.DueDate
	todo.RemindAt = input.RemindAt
	todo.Priority = priority
	todo.Category = category
	todo.Tags = tags
	todo.Subtasks = subtasks

	return s.validation.ValidateSchedule(todo.DueDate, todo.RemindAt)
}

// Create creates a todo. Any authenticated caller may create; an admin may
// assign an explicit owner, everyone else owns what they create.
func (s *CommandService) Create(input TodoInput, ctx domain.AuthContext) (*domain.TodoView, error) {
	var view *domain.TodoView
	err := s.inTx(func(r *txRepos) error {
		now := time.Now().UTC()
		todo := &domain.Todo{
			ID:        idgen.MustGenerate(idgen.TodoPrefix),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.applyInput(todo, input); err != nil {
			return err
		}

		todo.UserID = ctx.UserID
		if ctx.IsAdmin() && input.UserID != nil {
			todo.UserID = *input.UserID
		}

		if err := r.todos.Create(todo); err != nil {
			return internalError(err)
		}
		if err := r.activity.Log(todo.ID, domain.ActionCreated, &ctx, "Todo created"); err != nil {
			return err
		}

		view = s.mapper.ToView(todo)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Update fully replaces the mutable fields of a todo, including the subtask
// list. Ownership may be reassigned only by an admin supplying an explicit
// owner.
func (s *CommandService) Update(id string, input TodoInput, ctx domain.AuthContext) (*domain.TodoView, error) {
	var view *domain.TodoView
	err := s.inTx(func(r *txRepos) error {
		todo, err := loadTodo(r.todos, id)
		if err != nil {
			return err
		}
		if err := r.authz.ValidateEditAccess(todo, ctx); err != nil {
			return err
		}

		if err := s.applyInput(todo, input); err != nil {
			return err
		}
		if ctx.IsAdmin() && input.UserID != nil {
			todo.UserID = *input.UserID
		}
		todo.UpdatedAt = time.Now().UTC()

		if err := r.todos.Update(todo); err != nil {
			return internalError(err)
		}
		if err := r.activity.Log(todo.ID, domain.ActionUpdated, &ctx, "Todo updated"); err != nil {
			return err
		}

		view = s.mapper.ToView(todo)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Patch applies only the fields present in the patch. Changing the owner
// requires admin regardless of the other fields. The schedule invariant is
// re-validated against the resulting due date and reminder.
func (s *CommandService) Patch(id string, patch TodoPatch, ctx domain.AuthContext) (*domain.TodoView, error) {
	var view *domain.TodoView
	err := s.inTx(func(r *txRepos) error {
		todo, err := loadTodo(r.todos, id)
		if err != nil {
			return err
		}
		if err := r.authz.ValidateEditAccess(todo, ctx); err != nil {
			return err
		}

		if patch.Title != nil {
			title, err := s.validation.NormalizeTitle(*patch.Title)
			if err != nil {
				return err
			}
			todo.Title = title
		}
		if patch.Description != nil {
			if err := s.validation.ValidateDescription(patch.Description); err != nil {
				return err
			}
			todo.Description = patch.Description
		}
		if patch.Completed != nil {
			todo.Completed = *patch.Completed
		}
		if patch.UserID != nil {
			if err := r.authz.RequireAdmin(ctx, "Only ADMIN can change todo owner"); err != nil {
				return err
			}
			todo.UserID = *patch.UserID
		}
		if patch.DueDate != nil {
			todo.DueDate = patch.DueDate
		}
		if patch.RemindAt != nil {
			todo.RemindAt = patch.RemindAt
		}
		if patch.Priority != nil {
			if !patch.Priority.IsValid() {
				return domain.NewValidationError([]string{"Priority must be one of LOW, MEDIUM, HIGH"})
			}
			todo.Priority = *patch.Priority
		}
		if patch.Category != nil {
			category, err := s.validation.NormalizeCategory(patch.Category)
			if err != nil {
				return err
			}
			todo.Category = category
		}
		if patch.Tags != nil {
			tags, err := s.validation.NormalizeTags(patch.Tags)
			if err != nil {
				return err
			}
			todo.Tags = tags
		}
		if patch.Subtasks != nil {
			subtasks, err := s.validation.NormalizeSubtasks(patch.Subtasks)
			if err != nil {
				return err
			}
			todo.Subtasks = subtasks
		}

		if err := s.validation.ValidateSchedule(todo.DueDate, todo.RemindAt); err != nil {
			return err
		}
		todo.UpdatedAt = time.Now().UTC()

		if err := r.todos.Update(todo); err != nil {
			return internalError(err)
		}
		if err := r.activity.Log(todo.ID, domain.ActionPatched, &ctx, "Todo patched"); err != nil {
			return err
		}

		view = s.mapper.ToView(todo)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Delete permanently deletes a todo. Only the owner or an admin may delete;
// a shared EDIT grant is insufficient. Subtasks and shares cascade; activity
// records are retained.
func (s *CommandService) Delete(id string, ctx domain.AuthContext) error {
	return s.inTx(func(r *txRepos) error {
		todo, err := loadTodo(r.todos, id)
		if err != nil {
			return err
		}
		if err := r.authz.ValidateOwnership(todo, ctx); err != nil {
			return err
		}

		if err := r.todos.Delete(id); err != nil {
			return internalError(err)
		}
		return r.activity.Log(id, domain.ActionDeleted, &ctx, "Todo deleted permanently")
	})
}

// DeleteAllByUser bulk-deletes all todos owned by a user and returns the
// count deleted. Callers may only target themselves unless they are admin.
func (s *CommandService) DeleteAllByUser(userID string, ctx domain.AuthContext) (int64, error) {
	var count int64
	err := s.inTx(func(r *txRepos) error {
		if err := r.authz.ValidateUserScope(userID, ctx, "You can only delete your own todos"); err != nil {
			return err
		}

		deleted, err := r.todos.DeleteByOwner(userID)
		if err != nil {
			return internalError(err)
		}
		count = deleted
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// AddSubtask appends a subtask to the todo's ordered list.
func (s *CommandService) AddSubtask(todoID string, input SubtaskInput, ctx domain.AuthContext) (*domain.TodoView, error) {
	var view *domain.TodoView
	err := s.inTx(func(r *txRepos) error {
		todo, err := loadTodo(r.todos, todoID)
		if err != nil {
			return err
		}
		if err := r.authz.ValidateEditAccess(todo, ctx); err != nil {
			return err
		}

		title, err := s.validation.NormalizeSubtaskTitle(input.Title)
		if err != nil {
			return err
		}
		todo.Subtasks = append(todo.Subtasks, domain.Subtask{
			ID:        idgen.MustGenerate(idgen.SubtaskPrefix),
			Title:     title,
			Completed: input.Completed != nil && *input.Completed,
		})
		todo.UpdatedAt = time.Now().UTC()

		if err := r.todos.Update(todo); err != nil {
			return internalError(err)
		}
		if err := r.activity.Log(todo.ID, domain.ActionSubtaskAdded, &ctx, "Subtask added"); err != nil {
			return err
		}

		view = s.mapper.ToView(todo)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// PatchSubtask applies the present fields of the patch to one subtask.
func (s *CommandService) PatchSubtask(todoID, subtaskID string, patch SubtaskPatch, ctx domain.AuthContext) (*domain.TodoView, error) {
	var view *domain.TodoView
	err := s.inTx(func(r *txRepos) error {
		todo, err := loadTodo(r.todos, todoID)
		if err != nil {
			return err
		}
		if err := r.authz.ValidateEditAccess(todo, ctx); err != nil {
			return err
		}

		subtask := todo.FindSubtask(subtaskID)
		if subtask == nil {
			return domain.NewSubtaskNotFoundError(subtaskID)
		}

		if patch.Title != nil {
			title, err := s.validation.NormalizeSubtaskTitle(*patch.Title)
			if err != nil {
				return err
			}
			subtask.Title = title
		}
		if patch.Completed != nil {
			subtask.Completed = *patch.Completed
		}
		todo.UpdatedAt = time.Now().UTC()

		if err := r.todos.Update(todo); err != nil {
			return internalError(err)
		}
		if err := r.activity.Log(todo.ID, domain.ActionSubtaskUpdated, &ctx, "Subtask updated"); err != nil {
			return err
		}

		view = s.mapper.ToView(todo)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// DeleteSubtask removes one subtask from the todo's list.
func (s *CommandService) DeleteSubtask(todoID, subtaskID string, ctx domain.AuthContext) (*domain.TodoView, error) {
	var view *domain.TodoView
	err := s.inTx(func(r *txRepos) error {
		todo, err := loadTodo(r.todos, todoID)
		if err != nil {
			return err
		}
		if err := r.authz.ValidateEditAccess(todo, ctx); err != nil {
			return err
		}

		if !todo.RemoveSubtask(subtaskID) {
			return domain.NewSubtaskNotFoundError(subtaskID)
		}
		todo.UpdatedAt = time.Now().UTC()

		if err := r.todos.Update(todo); err != nil {
			return internalError(err)
		}
		if err := r.activity.Log(todo.ID, domain.ActionSubtaskDeleted, &ctx, "Subtask deleted"); err != nil {
			return err
		}

		view = s.mapper.ToView(todo)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Archive sets the archived triple atomically.
func (s *CommandService) Archive(id string, ctx domain.AuthContext) (*domain.TodoView, error) {
	return s.setArchived(id, ctx, true)
}

// Restore clears the archived triple atomically. Restoring an already active
// todo is a no-op and stays idempotent.
func (s *CommandService) Restore(id string, ctx domain.AuthContext) (*domain.TodoView, error) {
	return s.setArchived(id, ctx, false)
}

func (s *CommandService) setArchived(id string, ctx domain.AuthContext, archived bool) (*domain.TodoView, error) {
	var view *domain.TodoView
	err := s.inTx(func(r *txRepos) error {
		todo, err := loadTodo(r.todos, id)
		if err != nil {
			return err
		}
		if err := r.authz.ValidateEditAccess(todo, ctx); err != nil {
			return err
		}

		now := time.Now().UTC()
		action := domain.ActionRestored
		details := "Todo restored"
		if archived {
			actor := ctx.UserID
			todo.Archived = true
			todo.ArchivedAt = &now
			todo.ArchivedBy = &actor
			action = domain.ActionArchived
			details = "Todo archived"
		} else {
			todo.Archived = false
			todo.ArchivedAt = nil
			todo.ArchivedBy = nil
		}
		todo.UpdatedAt = now

		if err := r.todos.Update(todo); err != nil {
			return internalError(err)
		}
		if err := r.activity.Log(todo.ID, action, &ctx, details); err != nil {
			return err
		}

		view = s.mapper.ToView(todo)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// AddShare grants another user delegated access to a todo. Only the owner or
// an admin may manage shares. Sharing with the owner is rejected, as is a
// duplicate share for the same user; the storage-level uniqueness constraint
// is the authoritative guard against a concurrent duplicate.
func (s *CommandService) AddShare(todoID string, input ShareInput, ctx domain.AuthContext) (*domain.TodoShare, error) {
	var created *domain.TodoShare
	err := s.inTx(func(r *txRepos) error {
		todo, err := loadTodo(r.todos, todoID)
		if err != nil {
			return err
		}
		if err := r.authz.ValidateOwnership(todo, ctx); err != nil {
			return err
		}

		if input.SharedWithUserID == "" {
			return domain.NewValidationError([]string{"Shared user id is required"})
		}
		if !input.Permission.IsValid() {
			return domain.NewValidationError([]string{"Permission must be one of VIEW, EDIT"})
		}
		if todo.UserID == input.SharedWithUserID {
			return domain.NewConflictError("Owner already has full access to this todo")
		}

		exists, err := r.shares.ExistsByTodoAndUser(todoID, input.SharedWithUserID)
		if err != nil {
			return internalError(err)
		}
		if exists {
			return domain.NewConflictError("Todo is already shared with this user")
		}

		share := &domain.TodoShare{
			ID:               idgen.MustGenerate(idgen.SharePrefix),
			TodoID:           todoID,
			SharedWithUserID: input.SharedWithUserID,
			Permission:       input.Permission,
			CreatedBy:        ctx.UserID,
			CreatedAt:        time.Now().UTC(),
		}
		if err := r.shares.Create(share); err != nil {
			if sqlite.IsUniqueViolation(err) {
				return domain.NewConflictError("Todo is already shared with this user")
			}
			return internalError(err)
		}

		details := fmt.Sprintf("Shared with user %s as %s", share.SharedWithUserID, share.Permission)
		if err := r.activity.Log(todoID, domain.ActionShareAdded, &ctx, details); err != nil {
			return err
		}

		created = share
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateShare overwrites the permission of an existing share.
func (s *CommandService) UpdateShare(todoID, sharedUserID string, permission domain.SharePermission, ctx domain.AuthContext) (*domain.TodoShare, error) {
	var updated *domain.TodoShare
	err := s.inTx(func(r *txRepos) error {
		todo, err := loadTodo(r.todos, todoID)
		if err != nil {
			return err
		}
		if err := r.authz.ValidateOwnership(todo, ctx); err != nil {
			return err
		}

		if !permission.IsValid() {
			return domain.NewValidationError([]string{"Permission must be one of VIEW, EDIT"})
		}

		share, err := r.shares.GetByTodoAndUser(todoID, sharedUserID)
		if err != nil {
			if err == sql.ErrNoRows {
				return domain.NewShareNotFoundError(todoID, sharedUserID)
			}
			return internalError(err)
		}

		share.Permission = permission
		if err := r.shares.UpdatePermission(share.ID, permission); err != nil {
			return internalError(err)
		}

		details := fmt.Sprintf("Updated share for user %s to %s", sharedUserID, permission)
		if err := r.activity.Log(todoID, domain.ActionShareUpdated, &ctx, details); err != nil {
			return err
		}

		updated = share
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RemoveShare revokes a user's delegated access to a todo.
func (s *CommandService) RemoveShare(todoID, sharedUserID string, ctx domain.AuthContext) error {
	return s.inTx(func(r *txRepos) error {
		todo, err := loadTodo(r.todos, todoID)
		if err != nil {
			return err
		}
		if err := r.authz.ValidateOwnership(todo, ctx); err != nil {
			return err
		}

		share, err := r.shares.GetByTodoAndUser(todoID, sharedUserID)
		if err != nil {
			if err == sql.ErrNoRows {
				return domain.NewShareNotFoundError(todoID, sharedUserID)
			}
			return internalError(err)
		}

		if err := r.shares.Delete(share.ID); err != nil {
			return internalError(err)
		}

		details := fmt.Sprintf("Removed share for user %s", sharedUserID)
		return r.activity.Log(todoID, domain.ActionShareRemoved, &ctx, details)
	})
}
