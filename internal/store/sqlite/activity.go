package sqlite

import (
	"database/sql"

	"github.com/todohub/todohub/internal/domain"
)

// ActivityRepository handles the append-only activity log. Records are never
// updated or deleted.
type ActivityRepository struct {
	db DBTX
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db DBTX) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append inserts an activity record.
func (r *ActivityRepository) Append(activity *domain.TodoActivity) error {
	result, err := r.db.Exec(`
		INSERT INTO todo_activity (todo_id, action, actor_user_id, details, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		activity.TodoID,
		string(activity.Action),
		activity.ActorUserID,
		activity.Details,
		formatTime(activity.CreatedAt),
	)
	if err != nil {
		return err
	}

	if id, err := result.LastInsertId(); err == nil {
		activity.ID = id
	}
	return nil
}

// ListByTodo returns all activity records of a todo, newest first.
func (r *ActivityRepository) ListByTodo(todoID string) ([]*domain.TodoActivity, error) {
	rows, err := r.db.Query(`
		SELECT id, todo_id, action, actor_user_id, details, created_at
		FROM todo_activity
		WHERE todo_id = ?
		ORDER BY created_at DESC, id DESC
	`, todoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.TodoActivity
	for rows.Next() {
		var entry domain.TodoActivity
		var action, createdAt string
		var actor sql.NullString

		err := rows.Scan(
			&entry.ID,
			&entry.TodoID,
			&action,
			&actor,
			&entry.Details,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		entry.Action = domain.ActivityAction(action)
		if actor.Valid {
			entry.ActorUserID = &actor.String
		}
		entry.CreatedAt = parseTime(createdAt)

		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
