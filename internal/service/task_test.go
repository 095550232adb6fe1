package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/SmitChaudhari26/VoxDesk/internal/apperror"
	"github.com/SmitChaudhari26/VoxDesk/internal/model"
)

type fakeTaskRepo struct {
	tasks  map[string]*model.Task
	nextID int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*model.Task), nextID: 1}
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *model.Task) error {
	task.ID = fmt.Sprintf("task-fake-%d", f.nextID)
	f.nextID++
	task.CreatedAt = time.Now()
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	out := []model.Task{}
	for _, tk := range f.tasks {
		if tk.UserID == ownerID {
			out = append(out, *tk)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) GetByOwner(ctx context.Context, ownerID, id string) (*model.Task, error) {
	tk, ok := f.tasks[id]
	if !ok || tk.UserID != ownerID {
		return nil, apperror.NotFound("task", id)
	}
	copied := *tk
	return &copied, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, task *model.Task) error {
	existing, ok := f.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return apperror.NotFound("task", task.ID)
	}
	existing.Title = task.Title
	existing.Description = task.Description
	existing.Completed = task.Completed
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, ownerID, id string) error {
	tk, ok := f.tasks[id]
	if !ok || tk.UserID != ownerID {
		return apperror.NotFound("task", id)
	}
	delete(f.tasks, id)
	return nil
}

func newTestTaskService(repo *fakeTaskRepo) *TaskService {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewTaskService(repo, logger)
}

func TestTaskCreate(t *testing.T) {
	svc := newTestTaskService(newFakeTaskRepo())

	task, err := svc.Create(context.Background(), "user-1", "file taxes", "before April")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if task.ID == "" {
		t.Error("task.ID should be set")
	}
	if task.Description != "before April" {
		t.Errorf("task.Description = %q, want %q", task.Description, "before April")
	}
}

func TestTaskCreate_BlankTitle(t *testing.T) {
	svc := newTestTaskService(newFakeTaskRepo())

	_, err := svc.Create(context.Background(), "user-1", "", "desc")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Create() error = %v, want ErrValidation", err)
	}
}

func TestTaskUpdate_DescriptionOnly(t *testing.T) {
	svc := newTestTaskService(newFakeTaskRepo())
	ctx := context.Background()

	task, err := svc.Create(ctx, "user-1", "file taxes", "")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	desc := "forms arrived"
	updated, err := svc.Update(ctx, "user-1", task.ID, TaskPatch{Description: &desc})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Description != desc {
		t.Errorf("Description = %q, want %q", updated.Description, desc)
	}
	if updated.Title != "file taxes" {
		t.Errorf("Title = %q, want unchanged", updated.Title)
	}
}

func TestTaskUpdate_ForeignOwner(t *testing.T) {
	svc := newTestTaskService(newFakeTaskRepo())
	ctx := context.Background()

	task, err := svc.Create(ctx, "user-1", "file taxes", "")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	done := true
	_, err = svc.Update(ctx, "user-2", task.ID, TaskPatch{Completed: &done})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() by non-owner error = %v, want ErrNotFound", err)
	}
}

func TestTaskDelete(t *testing.T) {
	svc := newTestTaskService(newFakeTaskRepo())
	ctx := context.Background()

	task, err := svc.Create(ctx, "user-1", "file taxes", "")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := svc.Delete(ctx, "user-1", task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(ctx, "user-2", task.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() after removal error = %v, want ErrNotFound", err)
	}
}
