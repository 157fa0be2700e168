package service

import (
	"database/sql"

	"github.com/todohub/todohub/internal/domain"
	"github.com/todohub/todohub/internal/store/sqlite"
)

// AuthorizationService decides whether an AuthContext may read, edit or
// own-manage a todo, given ownership and share grants. It has no side effects
// beyond reads of share grants.
type AuthorizationService struct {
	shareRepo *sqlite.ShareRepository
}

// NewAuthorizationService creates a new AuthorizationService.
func NewAuthorizationService(shareRepo *sqlite.ShareRepository) *AuthorizationService {
	return &AuthorizationService{shareRepo: shareRepo}
}

// IsOwnerOrAdmin reports whether ctx is the todo's owner or an admin.
func (s *AuthorizationService) IsOwnerOrAdmin(todo *domain.Todo, ctx domain.AuthContext) bool {
	if ctx.IsAdmin() {
		return true
	}
	return todo.UserID != "" && todo.UserID == ctx.UserID
}

// ValidateReadAccess passes for the owner, an admin, or a user holding a
// VIEW or EDIT share on the todo.
func (s *AuthorizationService) ValidateReadAccess(todo *domain.Todo, ctx domain.AuthContext) error {
	if s.IsOwnerOrAdmin(todo, ctx) {
		return nil
	}

	ok, err := s.hasPermission(todo.ID, ctx.UserID, domain.PermissionView, domain.PermissionEdit)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewForbiddenError("You do not have access to this todo")
	}
	return nil
}

// ValidateEditAccess passes for the owner, an admin, or a user holding an
// EDIT share on the todo.
func (s *AuthorizationService) ValidateEditAccess(todo *domain.Todo, ctx domain.AuthContext) error {
	if s.IsOwnerOrAdmin(todo, ctx) {
		return nil
	}

	ok, err := s.hasPermission(todo.ID, ctx.UserID, domain.PermissionEdit)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewForbiddenError("You do not have edit access to this todo")
	}
	return nil
}

// ValidateOwnership passes only for the owner or an admin. Used for
// destructive and share-management operations, where a shared EDIT grant is
// insufficient.
func (s *AuthorizationService) ValidateOwnership(todo *domain.Todo, ctx domain.AuthContext) error {
	if s.IsOwnerOrAdmin(todo, ctx) {
		return nil
	}
	return domain.NewForbiddenError("You do not have access to this todo")
}

// ValidateUserScope passes when ctx is the target user or an admin.
func (s *AuthorizationService) ValidateUserScope(targetUserID string, ctx domain.AuthContext, message string) error {
	if !ctx.IsAdmin() && targetUserID != ctx.UserID {
		return domain.NewForbiddenError(message)
	}
	return nil
}

// RequireAdmin passes only for an admin context.
func (s *AuthorizationService) RequireAdmin(ctx domain.AuthContext, message string) error {
	if !ctx.IsAdmin() {
		return domain.NewForbiddenError(message)
	}
	return nil
}

func (s *AuthorizationService) hasPermission(todoID, userID string, permissions ...domain.SharePermission) (bool, error) {
	share, err := s.shareRepo.GetByTodoAndUser(todoID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, internalError(err)
	}

	for _, p := range permissions {
		if share.Permission == p {
			return true, nil
		}
	}
	return false, nil
}
