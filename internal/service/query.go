package service

import (
	"database/sql"

	"github.com/todohub/todohub/internal/domain"
	"github.com/todohub/todohub/internal/store/sqlite"
)

// ListInput contains the filters and pagination of a todo search. Empty
// string filters and nil booleans are absent. When Archived is absent the
// listing defaults to archived=false, hiding archived todos.
type ListInput struct {
	Category  string
	Tag       string
	Search    string
	Completed *bool
	Archived  *bool
	Page      int
	Size      int
	Sort      string
}

// QueryService composes visibility and filter predicates, executes searches
// and listings, and enriches results with sharing metadata. All operations
// are read-only.
type QueryService struct {
	todoRepo   *sqlite.TodoRepository
	shareRepo  *sqlite.ShareRepository
	authz      *AuthorizationService
	activity   *ActivityService
	validation *ValidationService
	mapper     *Mapper
	pageables  *PageableFactory
}

// NewQueryService creates a new QueryService over a read-only connection.
func NewQueryService(db *sql.DB) *QueryService {
	shareRepo := sqlite.NewShareRepository(db)
	return &QueryService{
		todoRepo:   sqlite.NewTodoRepository(db),
		shareRepo:  shareRepo,
		authz:      NewAuthorizationService(shareRepo),
		activity:   NewActivityService(sqlite.NewActivityRepository(db)),
		validation: NewValidationService(),
		mapper:     NewMapper(),
		pageables:  NewPageableFactory(),
	}
}

// List returns one page of todos visible to the caller that match the
// filters, along with the total match count.
func (s *QueryService) List(ctx domain.AuthContext, input ListInput) ([]*domain.TodoView, int, error) {
	pageable, err := s.pageables.BuildPageable(input.Page, input.Size, input.Sort)
	if err != nil {
		return nil, 0, err
	}

	criteria, err := s.buildCriteria(ctx, input)
	if err != nil {
		return nil, 0, err
	}

	todos, total, err := s.todoRepo.Search(criteria, pageable)
	if err != nil {
		return nil, 0, internalError(err)
	}

	views := s.mapper.ToViews(todos)
	if err := s.enrichSharing(views); err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// ListAsList returns all todos visible to the caller that match the filters,
// ordered by the requested sort, without pagination.
func (s *QueryService) ListAsList(ctx domain.AuthContext, input ListInput) ([]*domain.TodoView, error) {
	sort, err := s.pageables.BuildSort(input.Sort)
	if err != nil {
		return nil, err
	}

	criteria, err := s.buildCriteria(ctx, input)
	if err != nil {
		return nil, err
	}

	todos, err := s.todoRepo.SearchAll(criteria, sort)
	if err != nil {
		return nil, internalError(err)
	}

	views := s.mapper.ToViews(todos)
	if err := s.enrichSharing(views); err != nil {
		return nil, err
	}
	return views, nil
}

// GetByID returns one todo, requiring read access.
func (s *QueryService) GetByID(id string, ctx domain.AuthContext) (*domain.TodoView, error) {
	todo, err := loadTodo(s.todoRepo, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.ValidateReadAccess(todo, ctx); err != nil {
		return nil, err
	}

	views := []*domain.TodoView{s.mapper.ToView(todo)}
	if err := s.enrichSharing(views); err != nil {
		return nil, err
	}
	return views[0], nil
}

// GetByUser returns all todos owned by a user (not those shared with them).
// Callers may only target themselves unless they are admin.
func (s *QueryService) GetByUser(userID string, ctx domain.AuthContext) ([]*domain.TodoView, error) {
	if err := s.authz.ValidateUserScope(userID, ctx, "You can only access your own todos"); err != nil {
		return nil, err
	}

	todos, err := s.todoRepo.FindByOwner(userID)
	if err != nil {
		return nil, internalError(err)
	}

	views := s.mapper.ToViews(todos)
	if err := s.enrichSharing(views); err != nil {
		return nil, err
	}
	return views, nil
}

// GetActivity returns the activity history of a todo, newest first. Read
// access suffices.
func (s *QueryService) GetActivity(id string, ctx domain.AuthContext) ([]*domain.TodoActivity, error) {
	todo, err := loadTodo(s.todoRepo, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.ValidateReadAccess(todo, ctx); err != nil {
		return nil, err
	}
	return s.activity.GetHistory(todo.ID)
}

// GetShares returns the share grants of a todo, newest first. Listing shares
// reveals who else has access, so it requires ownership, a stricter bar than
// viewing the todo itself.
func (s *QueryService) GetShares(id string, ctx domain.AuthContext) ([]*domain.TodoShare, error) {
	todo, err := loadTodo(s.todoRepo, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.ValidateOwnership(todo, ctx); err != nil {
		return nil, err
	}

	shares, err := s.shareRepo.ListByTodo(todo.ID)
	if err != nil {
		return nil, internalError(err)
	}
	return shares, nil
}

// buildCriteria composes the visibility predicate with the normalized
// filters. Non-admin callers see what they own plus what is shared with
// them; archived todos are hidden unless the filter asks for them.
func (s *QueryService) buildCriteria(ctx domain.AuthContext, input ListInput) (domain.Criteria, error) {
	var criteria domain.Criteria

	if !ctx.IsAdmin() {
		sharedIDs, err := s.shareRepo.TodoIDsSharedWith(ctx.UserID, domain.ValidPermissions)
		if err != nil {
			return domain.Criteria{}, internalError(err)
		}
		criteria.VisibleTo(ctx.UserID, sharedIDs)
	}

	if category := s.validation.NormalizeQueryFilter(input.Category); category != nil {
		criteria.CategoryEquals(*category)
	}
	if tag := s.validation.NormalizeQueryFilter(input.Tag); tag != nil {
		criteria.HasTag(*tag)
	}
	if input.Completed != nil {
		criteria.CompletedEquals(*input.Completed)
	}
	if input.Archived != nil {
		criteria.ArchivedEquals(*input.Archived)
	} else {
		criteria.ArchivedEquals(false)
	}
	if search := s.validation.NormalizeQueryFilter(input.Search); search != nil {
		criteria.Matches(*search)
	}

	return criteria, nil
}

// enrichSharing attaches the shared flag and shared user ids to a batch of
// views with a single batched share lookup, never one query per todo.
func (s *QueryService) enrichSharing(views []*domain.TodoView) error {
	if len(views) == 0 {
		return nil
	}

	ids := make([]string, 0, len(views))
	for _, view := range views {
		ids = append(ids, view.ID)
	}

	shares, err := s.shareRepo.ListByTodoIn(ids)
	if err != nil {
		return internalError(err)
	}

	byTodo := make(map[string][]string)
	for _, share := range shares {
		byTodo[share.TodoID] = append(byTodo[share.TodoID], share.SharedWithUserID)
	}

	for _, view := range views {
		sharedWith := byTodo[view.ID]
		if sharedWith == nil {
			sharedWith = []string{}
		}
		view.Shared = len(sharedWith) > 0
		view.SharedWithUserIDs = sharedWith
	}
	return nil
}
