package service

import (
	"log"
	"time"

	"github.com/todohub/todohub/internal/domain"
	"github.com/todohub/todohub/internal/store/sqlite"
)

// ActivityService appends immutable audit records for state-changing actions
// and returns history.
type ActivityService struct {
	activityRepo *sqlite.ActivityRepository
}

// NewActivityService creates a new ActivityService.
func NewActivityService(activityRepo *sqlite.ActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

// Log appends an activity record. The actor is nil when no context is
// available; all command paths supply one. Details longer than the limit are
// truncated.
func (s *ActivityService) Log(todoID string, action domain.ActivityAction, ctx *domain.AuthContext, details string) error {
	if len(details) > domain.MaxActivityDetails {
		details = details[:domain.MaxActivityDetails]
	}

	activity := &domain.TodoActivity{
		TodoID:    todoID,
		Action:    action,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}
	if ctx != nil {
		actor := ctx.UserID
		activity.ActorUserID = &actor
	}

	if err := s.activityRepo.Append(activity); err != nil {
		return internalError(err)
	}
	return nil
}

// GetHistory returns the activity records of a todo, newest first.
func (s *ActivityService) GetHistory(todoID string) ([]*domain.TodoActivity, error) {
	entries, err := s.activityRepo.ListByTodo(todoID)
	if err != nil {
		return nil, internalError(err)
	}
	return entries, nil
}

// internalError logs an unexpected storage failure and converts it to the
// opaque internal error category.
func internalError(err error) *domain.DomainError {
	log.Printf("storage error: %v", err)
	return domain.NewInternalError(err)
}
