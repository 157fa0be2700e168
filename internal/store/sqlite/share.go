package sqlite

import (
	"database/sql"

	"github.com/todohub/todohub/internal/domain"
)

// ShareRepository handles share grant persistence operations.
type ShareRepository struct {
	db DBTX
}

// NewShareRepository creates a new ShareRepository.
func NewShareRepository(db DBTX) *ShareRepository {
	return &ShareRepository{db: db}
}

// Create inserts a share. The UNIQUE (todo_id, shared_with_user_id)
// constraint rejects concurrent duplicates; use IsUniqueViolation to detect
// that case.
func (r *ShareRepository) Create(share *domain.TodoShare) error {
	_, err := r.db.Exec(`
		INSERT INTO todo_shares (id, todo_id, shared_with_user_id, permission, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		share.ID,
		share.TodoID,
		share.SharedWithUserID,
		string(share.Permission),
		share.CreatedBy,
		formatTime(share.CreatedAt),
	)
	return err
}

// GetByTodoAndUser retrieves the share for a (todo, user) pair.
func (r *ShareRepository) GetByTodoAndUser(todoID, userID string) (*domain.TodoShare, error) {
	row := r.db.QueryRow(`
		SELECT id, todo_id, shared_with_user_id, permission, created_by, created_at
		FROM todo_shares
		WHERE todo_id = ? AND shared_with_user_id = ?
	`, todoID, userID)
	return scanShare(row)
}

// ExistsByTodoAndUser reports whether a share exists for a (todo, user) pair.
func (r *ShareRepository) ExistsByTodoAndUser(todoID, userID string) (bool, error) {
	var one int
	err := r.db.QueryRow(`
		SELECT 1 FROM todo_shares WHERE todo_id = ? AND shared_with_user_id = ?
	`, todoID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdatePermission overwrites the permission of an existing share.
func (r *ShareRepository) UpdatePermission(id string, permission domain.SharePermission) error {
	result, err := r.db.Exec(`
		UPDATE todo_shares SET permission = ? WHERE id = ?
	`, string(permission), id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete deletes a share by ID.
func (r *ShareRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM todo_shares WHERE id = ?", id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByTodo returns all shares of a todo, newest first.
func (r *ShareRepository) ListByTodo(todoID string) ([]*domain.TodoShare, error) {
	rows, err := r.db.Query(`
		SELECT id, todo_id, shared_with_user_id, permission, created_by, created_at
		FROM todo_shares
		WHERE todo_id = ?
		ORDER BY created_at DESC, id
	`, todoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShares(rows)
}

// ListByTodoIn returns the shares of all the given todos in one query, for
// batched sharing enrichment of listing results.
func (r *ShareRepository) ListByTodoIn(todoIDs []string) ([]*domain.TodoShare, error) {
	if len(todoIDs) == 0 {
		return nil, nil
	}

	args := make([]interface{}, len(todoIDs))
	for i, id := range todoIDs {
		args[i] = id
	}

	rows, err := r.db.Query(`
		SELECT id, todo_id, shared_with_user_id, permission, created_by, created_at
		FROM todo_shares
		WHERE todo_id IN (`+placeholders(len(todoIDs))+`)
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShares(rows)
}

// TodoIDsSharedWith returns the ids of todos shared with the user at any of
// the given permission levels.
func (r *ShareRepository) TodoIDsSharedWith(userID string, permissions []domain.SharePermission) ([]string, error) {
	if len(permissions) == 0 {
		return nil, nil
	}

	args := []interface{}{userID}
	for _, p := range permissions {
		args = append(args, string(p))
	}

	rows, err := r.db.Query(`
		SELECT todo_id FROM todo_shares
		WHERE shared_with_user_id = ? AND permission IN (`+placeholders(len(permissions))+`)
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanShareFields(row rowScanner) (*domain.TodoShare, error) {
	var share domain.TodoShare
	var permission, createdAt string

	err := row.Scan(
		&share.ID,
		&share.TodoID,
		&share.SharedWithUserID,
		&permission,
		&share.CreatedBy,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	share.Permission = domain.SharePermission(permission)
	share.CreatedAt = parseTime(createdAt)
	return &share, nil
}

func scanShare(row *sql.Row) (*domain.TodoShare, error) {
	return scanShareFields(row)
}

func scanShares(rows *sql.Rows) ([]*domain.TodoShare, error) {
	var shares []*domain.TodoShare
	for rows.Next() {
		share, err := scanShareFields(rows)
		if err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	return shares, rows.Err()
}
