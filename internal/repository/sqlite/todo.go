package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/SmitChaudhari26/VoxDesk/internal/apperror"
	"github.com/SmitChaudhari26/VoxDesk/internal/model"
	"github.com/SmitChaudhari26/VoxDesk/internal/repository"
)

// compile-time check that *TodoRepo implements repository.TodoRepository
var _ repository.TodoRepository = (*TodoRepo)(nil)

// TodoRepo implements repository.TodoRepository on the shared DB.
type TodoRepo struct {
	db *DB
}

// NewTodoRepo creates a TodoRepo backed by db.
func NewTodoRepo(db *DB) *TodoRepo {
	return &TodoRepo{db: db}
}

// Create inserts a todo with a server-assigned id and creation time.
func (r *TodoRepo) Create(ctx context.Context, todo *model.Todo) error {
	todo.ID = xid.New().String()
	todo.CreatedAt = time.Now()

	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO todos (id, title, completed, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		todo.ID,
		todo.Title,
		todo.Completed,
		todo.UserID,
		todo.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating todo: %w", err)
	}

	return nil
}

// ListByOwner returns the owner's todos, newest first.
func (r *TodoRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Todo, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, title, completed, user_id, created_at
		 FROM todos WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing todos: %w", err)
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		var td model.Todo
		if err := rows.Scan(&td.ID, &td.Title, &td.Completed, &td.UserID, &td.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning todo: %w", err)
		}
		todos = append(todos, td)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating todos: %w", err)
	}

	return todos, nil
}

// GetByOwner fetches a single todo by id and owner. The combined filter
// means a foreign id reads as NotFound, never as someone else's data.
func (r *TodoRepo) GetByOwner(ctx context.Context, ownerID, id string) (*model.Todo, error) {
	var td model.Todo

	err := r.db.conn.QueryRowContext(ctx,
		`SELECT id, title, completed, user_id, created_at
		 FROM todos WHERE id = ? AND user_id = ?`,
		id, ownerID,
	).Scan(&td.ID, &td.Title, &td.Completed, &td.UserID, &td.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("todo", id)
		}
		return nil, fmt.Errorf("sqlite: getting todo %s: %w", id, err)
	}

	return &td, nil
}

// Update persists title and completion, still filtered by owner.
func (r *TodoRepo) Update(ctx context.Context, todo *model.Todo) error {
	res, err := r.db.conn.ExecContext(ctx,
		`UPDATE todos SET title = ?, completed = ?
		 WHERE id = ? AND user_id = ?`,
		todo.Title,
		todo.Completed,
		todo.ID,
		todo.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating todo %s: %w", todo.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating todo %s: %w", todo.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("todo", todo.ID)
	}

	return nil
}

// Delete removes a todo by id and owner; zero rows removed is NotFound.
func (r *TodoRepo) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM todos WHERE id = ? AND user_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting todo %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting todo %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("todo", id)
	}

	return nil
}
