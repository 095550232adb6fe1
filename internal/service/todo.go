package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SmitChaudhari26/VoxDesk/internal/apperror"
	"github.com/SmitChaudhari26/VoxDesk/internal/model"
	"github.com/SmitChaudhari26/VoxDesk/internal/repository"
)

// TodoService owns the rules for per-user todos.
type TodoService struct {
	todos  repository.TodoRepository
	logger *slog.Logger
}

func NewTodoService(todos repository.TodoRepository, logger *slog.Logger) *TodoService {
	return &TodoService{todos: todos, logger: logger}
}

// TodoPatch carries the fields of a partial update. Nil fields are left
// unchanged.
type TodoPatch struct {
	Title     *string
	Completed *bool
}

func (s *TodoService) Create(ctx context.Context, ownerID, title string) (*model.Todo, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}

	todo := &model.Todo{
		Title:  title,
		UserID: ownerID,
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("service/todo: creating todo: %w", err)
	}

	s.logger.Info("todo created",
		slog.String("todoID", todo.ID),
		slog.String("userID", ownerID),
	)
	return todo, nil
}

func (s *TodoService) List(ctx context.Context, ownerID string) ([]model.Todo, error) {
	todos, err := s.todos.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service/todo: listing todos for user %s: %w", ownerID, err)
	}
	return todos, nil
}

// Update applies a partial update to the owner's todo and returns the
// updated record.
func (s *TodoService) Update(ctx context.Context, ownerID, todoID string, patch TodoPatch) (*model.Todo, error) {
	if todoID == "" {
		return nil, apperror.ValidationFailed("id", "todo ID is required")
	}

	todo, err := s.todos.GetByOwner(ctx, ownerID, todoID)
	if err != nil {
		return nil, fmt.Errorf("service/todo: fetching todo %s: %w", todoID, err)
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, apperror.ValidationFailed("title", "title must not be blank")
		}
		todo.Title = *patch.Title
	}
	if patch.Completed != nil {
		todo.Completed = *patch.Completed
	}

	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("service/todo: updating todo %s: %w", todoID, err)
	}
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, ownerID, todoID string) error {
	if todoID == "" {
		return apperror.ValidationFailed("id", "todo ID is required")
	}
	if err := s.todos.Delete(ctx, ownerID, todoID); err != nil {
		return fmt.Errorf("service/todo: deleting todo %s: %w", todoID, err)
	}
	return nil
}
