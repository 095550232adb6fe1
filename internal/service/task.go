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

// TaskService owns the rules for per-user tasks. Tasks differ from todos
// in carrying a free-form description alongside the title.
type TaskService struct {
	tasks  repository.TaskRepository
	logger *slog.Logger
}

func NewTaskService(tasks repository.TaskRepository, logger *slog.Logger) *TaskService {
	return &TaskService{tasks: tasks, logger: logger}
}

// TaskPatch carries the fields of a partial update. Nil fields are left
// unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

func (s *TaskService) Create(ctx context.Context, ownerID, title, description string) (*model.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}

	task := &model.Task{
		Title:       title,
		Description: description,
		UserID:      ownerID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("service/task: creating task: %w", err)
	}

	s.logger.Info("task created",
		slog.String("taskID", task.ID),
		slog.String("userID", ownerID),
	)
	return task, nil
}

func (s *TaskService) List(ctx context.Context, ownerID string) ([]model.Task, error) {
	tasks, err := s.tasks.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service/task: listing tasks for user %s: %w", ownerID, err)
	}
	return tasks, nil
}

func (s *TaskService) Update(ctx context.Context, ownerID, taskID string, patch TaskPatch) (*model.Task, error) {
	if taskID == "" {
		return nil, apperror.ValidationFailed("id", "task ID is required")
	}

	task, err := s.tasks.GetByOwner(ctx, ownerID, taskID)
	if err != nil {
		return nil, fmt.Errorf("service/task: fetching task %s: %w", taskID, err)
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, apperror.ValidationFailed("title", "title must not be blank")
		}
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("service/task: updating task %s: %w", taskID, err)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, taskID string) error {
	if taskID == "" {
		return apperror.ValidationFailed("id", "task ID is required")
	}
	if err := s.tasks.Delete(ctx, ownerID, taskID); err != nil {
		return fmt.Errorf("service/task: deleting task %s: %w", taskID, err)
	}
	return nil
}
