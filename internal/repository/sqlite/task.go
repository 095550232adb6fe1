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

// compile-time check that *TaskRepo implements repository.TaskRepository
var _ repository.TaskRepository = (*TaskRepo)(nil)

// TaskRepo implements repository.TaskRepository on the shared DB.
type TaskRepo struct {
	db *DB
}

// NewTaskRepo creates a TaskRepo backed by db.
func NewTaskRepo(db *DB) *TaskRepo {
	return &TaskRepo{db: db}
}

// Create inserts a task with a server-assigned id and creation time.
func (r *TaskRepo) Create(ctx context.Context, task *model.Task) error {
	task.ID = xid.New().String()
	task.CreatedAt = time.Now()

	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, completed, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		task.ID,
		task.Title,
		task.Description,
		task.Completed,
		task.UserID,
		task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating task: %w", err)
	}

	return nil
}

// ListByOwner returns the owner's tasks, newest first.
func (r *TaskRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, title, description, completed, user_id, created_at
		 FROM tasks WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var tk model.Task
		if err := rows.Scan(&tk.ID, &tk.Title, &tk.Description, &tk.Completed, &tk.UserID, &tk.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning task: %w", err)
		}
		tasks = append(tasks, tk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tasks: %w", err)
	}

	return tasks, nil
}

// GetByOwner fetches a single task by id and owner.
func (r *TaskRepo) GetByOwner(ctx context.Context, ownerID, id string) (*model.Task, error) {
	var tk model.Task

	err := r.db.conn.QueryRowContext(ctx,
		`SELECT id, title, description, completed, user_id, created_at
		 FROM tasks WHERE id = ? AND user_id = ?`,
		id, ownerID,
	).Scan(&tk.ID, &tk.Title, &tk.Description, &tk.Completed, &tk.UserID, &tk.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("task", id)
		}
		return nil, fmt.Errorf("sqlite: getting task %s: %w", id, err)
	}

	return &tk, nil
}

// Update persists title, description and completion, filtered by owner.
func (r *TaskRepo) Update(ctx context.Context, task *model.Task) error {
	res, err := r.db.conn.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, completed = ?
		 WHERE id = ? AND user_id = ?`,
		task.Title,
		task.Description,
		task.Completed,
		task.ID,
		task.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating task %s: %w", task.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating task %s: %w", task.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("task", task.ID)
	}

	return nil
}

// Delete removes a task by id and owner; zero rows removed is NotFound.
func (r *TaskRepo) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting task %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting task %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("task", id)
	}

	return nil
}
