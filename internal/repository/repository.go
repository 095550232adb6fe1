// Package repository defines the storage interfaces the service layer
// depends on. The sqlite subpackage implements them; tests substitute
// in-memory fakes.
package repository

import (
	"context"

	"github.com/SmitChaudhari26/VoxDesk/internal/model"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// Create inserts a new user, generating ID and timestamps. Returns an
	// error wrapping apperror.ErrConflict if the email is already taken.
	Create(ctx context.Context, user *model.User) error

	// GetByEmail looks up a user by lowercase email. Returns an error
	// wrapping apperror.ErrNotFound if no such user exists.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID looks up a user by internal id.
	GetByID(ctx context.Context, id string) (*model.User, error)

	// Update persists changed profile fields (name, avatar, google id).
	Update(ctx context.Context, user *model.User) error
}

// NoteRepository persists owner-scoped notes. Every query that names a
// record id also names the owner; there is no way to reach another user's
// note through this interface.
type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error)
	// Delete removes the note with the given id owned by ownerID. Returns
	// an error wrapping apperror.ErrNotFound when no owned row matches.
	Delete(ctx context.Context, ownerID, id string) error
}

// TodoRepository persists owner-scoped to-dos.
type TodoRepository interface {
	Create(ctx context.Context, todo *model.Todo) error
	ListByOwner(ctx context.Context, ownerID string) ([]model.Todo, error)
	GetByOwner(ctx context.Context, ownerID, id string) (*model.Todo, error)
	Update(ctx context.Context, todo *model.Todo) error
	Delete(ctx context.Context, ownerID, id string) error
}

// TaskRepository persists owner-scoped tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error)
	GetByOwner(ctx context.Context, ownerID, id string) (*model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, ownerID, id string) error
}
