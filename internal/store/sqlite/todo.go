package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/todohub/todohub/internal/domain"
)

// sortColumns maps sort field names to SQL order expressions. Priority sorts
// by urgency rank rather than lexically.
var sortColumns = map[string]string{
	"createdAt": "t.created_at",
	"updatedAt": "t.updated_at",
	"dueDate":   "t.due_date",
	"priority":  "CASE t.priority WHEN 'LOW' THEN 0 WHEN 'MEDIUM' THEN 1 WHEN 'HIGH' THEN 2 END",
	"title":     "LOWER(t.title)",
	"completed": "t.completed",
}

const todoColumns = `t.id, t.title, t.description, t.completed, t.user_id, t.due_date, t.remind_at,
	t.priority, t.category, t.archived, t.archived_at, t.archived_by, t.created_at, t.updated_at`

// TodoRepository handles todo persistence operations, including the subtask
// list and tag set that belong to the aggregate.
type TodoRepository struct {
	db DBTX
}

// NewTodoRepository creates a new TodoRepository.
func NewTodoRepository(db DBTX) *TodoRepository {
	return &TodoRepository{db: db}
}

// Create inserts a todo with its subtasks and tags.
func (r *TodoRepository) Create(todo *domain.Todo) error {
	_, err := r.db.Exec(`
		INSERT INTO todos (id, title, description, completed, user_id, due_date, remind_at,
			priority, category, archived, archived_at, archived_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		todo.ID,
		todo.Title,
		todo.Description,
		boolToInt(todo.Completed),
		todo.UserID,
		formatTimePtr(todo.DueDate),
		formatTimePtr(todo.RemindAt),
		string(todo.Priority),
		todo.Category,
		boolToInt(todo.Archived),
		formatTimePtr(todo.ArchivedAt),
		todo.ArchivedBy,
		formatTime(todo.CreatedAt),
		formatTime(todo.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if err := r.insertSubtasks(todo.ID, todo.Subtasks); err != nil {
		return err
	}
	return r.insertTags(todo.ID, todo.Tags)
}

// GetByID retrieves a todo by its ID, including subtasks and tags.
func (r *TodoRepository) GetByID(id string) (*domain.Todo, error) {
	row := r.db.QueryRow(`SELECT `+todoColumns+` FROM todos t WHERE t.id = ?`, id)
	todo, err := scanTodo(row)
	if err != nil {
		return nil, err
	}

	if err := r.hydrate([]*domain.Todo{todo}); err != nil {
		return nil, err
	}
	return todo, nil
}

// Update overwrites a todo row and replaces its subtask list and tag set.
// Subtask ids supplied by the caller are preserved so existing subtasks keep
// their identity across full updates.
func (r *TodoRepository) Update(todo *domain.Todo) error {
	result, err := r.db.Exec(`
		UPDATE todos
		SET title = ?, description = ?, completed = ?, user_id = ?, due_date = ?, remind_at = ?,
			priority = ?, category = ?, archived = ?, archived_at = ?, archived_by = ?, updated_at = ?
		WHERE id = ?
	`,
		todo.Title,
		todo.Description,
		boolToInt(todo.Completed),
		todo.UserID,
		formatTimePtr(todo.DueDate),
		formatTimePtr(todo.RemindAt),
		string(todo.Priority),
		todo.Category,
		boolToInt(todo.Archived),
		formatTimePtr(todo.ArchivedAt),
		todo.ArchivedBy,
		formatTime(todo.UpdatedAt),
		todo.ID,
	)
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

	if _, err := r.db.Exec("DELETE FROM todo_subtasks WHERE todo_id = ?", todo.ID); err != nil {
		return err
	}
	if _, err := r.db.Exec("DELETE FROM todo_tags WHERE todo_id = ?", todo.ID); err != nil {
		return err
	}

	if err := r.insertSubtasks(todo.ID, todo.Subtasks); err != nil {
		return err
	}
	return r.insertTags(todo.ID, todo.Tags)
}

// Delete deletes a todo by ID. Subtasks, tags and shares cascade at the
// schema level.
func (r *TodoRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM todos WHERE id = ?", id)
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

// DeleteByOwner deletes all todos owned by the given user and returns the
// number deleted.
func (r *TodoRepository) DeleteByOwner(userID string) (int64, error) {
	result, err := r.db.Exec("DELETE FROM todos WHERE user_id = ?", userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// FindByOwner retrieves all todos owned by the given user, newest first.
func (r *TodoRepository) FindByOwner(userID string) ([]*domain.Todo, error) {
	rows, err := r.db.Query(`
		SELECT `+todoColumns+` FROM todos t
		WHERE t.user_id = ?
		ORDER BY t.created_at DESC, t.id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos, err := scanTodos(rows)
	if err != nil {
		return nil, err
	}

	if err := r.hydrate(todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// Search retrieves one page of todos matching the criteria, along with the
// total match count.
func (r *TodoRepository) Search(criteria domain.Criteria, pageable domain.Pageable) ([]*domain.Todo, int, error) {
	where, args := buildWhere(criteria)

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM todos t"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + todoColumns + " FROM todos t" + where +
		orderBy(pageable.Sort) + " LIMIT ? OFFSET ?"
	fetchArgs := append(args, pageable.Size, pageable.Offset())

	rows, err := r.db.Query(query, fetchArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	todos, err := scanTodos(rows)
	if err != nil {
		return nil, 0, err
	}

	if err := r.hydrate(todos); err != nil {
		return nil, 0, err
	}
	return todos, total, nil
}

// SearchAll retrieves all todos matching the criteria in the requested order.
func (r *TodoRepository) SearchAll(criteria domain.Criteria, sort domain.Sort) ([]*domain.Todo, error) {
	where, args := buildWhere(criteria)

	rows, err := r.db.Query("SELECT "+todoColumns+" FROM todos t"+where+orderBy(sort), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos, err := scanTodos(rows)
	if err != nil {
		return nil, err
	}

	if err := r.hydrate(todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// buildWhere translates the criteria clause list into a WHERE fragment.
// Clauses are combined with AND.
func buildWhere(criteria domain.Criteria) (string, []interface{}) {
	var conds []string
	var args []interface{}

	for _, clause := range criteria.Clauses {
		switch clause.Kind {
		case domain.ClauseVisibleTo:
			if len(clause.SharedIDs) == 0 {
				conds = append(conds, "t.user_id = ?")
				args = append(args, clause.Text)
				continue
			}
			conds = append(conds, fmt.Sprintf("(t.user_id = ? OR t.id IN (%s))", placeholders(len(clause.SharedIDs))))
			args = append(args, clause.Text)
			for _, id := range clause.SharedIDs {
				args = append(args, id)
			}
		case domain.ClauseCategory:
			conds = append(conds, "LOWER(t.category) = LOWER(?)")
			args = append(args, clause.Text)
		case domain.ClauseTag:
			conds = append(conds, "EXISTS (SELECT 1 FROM todo_tags tt WHERE tt.todo_id = t.id AND LOWER(tt.tag) = LOWER(?))")
			args = append(args, clause.Text)
		case domain.ClauseCompleted:
			conds = append(conds, "t.completed = ?")
			args = append(args, boolToInt(clause.Flag))
		case domain.ClauseArchived:
			conds = append(conds, "t.archived = ?")
			args = append(args, boolToInt(clause.Flag))
		case domain.ClauseSearch:
			conds = append(conds, "(LOWER(t.title) LIKE ? OR LOWER(t.description) LIKE ?)")
			pattern := "%" + strings.ToLower(clause.Text) + "%"
			args = append(args, pattern, pattern)
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderBy(sort domain.Sort) string {
	column, ok := sortColumns[sort.Field]
	if !ok {
		column = "t.created_at"
	}
	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}
	// Secondary id sort keeps pagination stable across equal keys
	return fmt.Sprintf(" ORDER BY %s %s, t.id ASC", column, direction)
}

func (r *TodoRepository) insertSubtasks(todoID string, subtasks []domain.Subtask) error {
	for i, subtask := range subtasks {
		_, err := r.db.Exec(`
			INSERT INTO todo_subtasks (id, todo_id, title, completed, position)
			VALUES (?, ?, ?, ?, ?)
		`, subtask.ID, todoID, subtask.Title, boolToInt(subtask.Completed), i)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *TodoRepository) insertTags(todoID string, tags []string) error {
	for i, tag := range tags {
		_, err := r.db.Exec(`
			INSERT INTO todo_tags (todo_id, tag, position) VALUES (?, ?, ?)
		`, todoID, tag, i)
		if err != nil {
			return err
		}
	}
	return nil
}

// hydrate loads the subtasks and tags of the given todos with one batched
// query per collection.
func (r *TodoRepository) hydrate(todos []*domain.Todo) error {
	if len(todos) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Todo, len(todos))
	ids := make([]interface{}, 0, len(todos))
	for _, todo := range todos {
		byID[todo.ID] = todo
		ids = append(ids, todo.ID)
	}
	in := placeholders(len(ids))

	rows, err := r.db.Query(`
		SELECT id, todo_id, title, completed FROM todo_subtasks
		WHERE todo_id IN (`+in+`)
		ORDER BY todo_id, position
	`, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var subtask domain.Subtask
		var todoID string
		var completed int
		if err := rows.Scan(&subtask.ID, &todoID, &subtask.Title, &completed); err != nil {
			return err
		}
		subtask.Completed = completed != 0
		byID[todoID].Subtasks = append(byID[todoID].Subtasks, subtask)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	tagRows, err := r.db.Query(`
		SELECT todo_id, tag FROM todo_tags
		WHERE todo_id IN (`+in+`)
		ORDER BY todo_id, position
	`, ids...)
	if err != nil {
		return err
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var todoID, tag string
		if err := tagRows.Scan(&todoID, &tag); err != nil {
			return err
		}
		byID[todoID].Tags = append(byID[todoID].Tags, tag)
	}
	return tagRows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTodoFields(row rowScanner) (*domain.Todo, error) {
	var todo domain.Todo
	var description, dueDate, remindAt, category, archivedAt, archivedBy sql.NullString
	var completed, archived int
	var priority, createdAt, updatedAt string

	err := row.Scan(
		&todo.ID,
		&todo.Title,
		&description,
		&completed,
		&todo.UserID,
		&dueDate,
		&remindAt,
		&priority,
		&category,
		&archived,
		&archivedAt,
		&archivedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	todo.Completed = completed != 0
	todo.Archived = archived != 0
	todo.Priority = domain.Priority(priority)
	if description.Valid {
		todo.Description = &description.String
	}
	if category.Valid {
		todo.Category = &category.String
	}
	if archivedBy.Valid {
		todo.ArchivedBy = &archivedBy.String
	}
	todo.DueDate = parseTimePtr(dueDate)
	todo.RemindAt = parseTimePtr(remindAt)
	todo.ArchivedAt = parseTimePtr(archivedAt)
	todo.CreatedAt = parseTime(createdAt)
	todo.UpdatedAt = parseTime(updatedAt)

	return &todo, nil
}

func scanTodo(row *sql.Row) (*domain.Todo, error) {
	return scanTodoFields(row)
}

func scanTodos(rows *sql.Rows) ([]*domain.Todo, error) {
	var todos []*domain.Todo
	for rows.Next() {
		todo, err := scanTodoFields(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}
