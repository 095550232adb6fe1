package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/SmitChaudhari26/VoxDesk/internal/apperror"
	"github.com/SmitChaudhari26/VoxDesk/internal/model"
)

type fakeNoteRepo struct {
	notes  []model.Note
	nextID int
	// set to a non-nil error to simulate a database failure
	createErr error
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{nextID: 1}
}

func (f *fakeNoteRepo) Create(ctx context.Context, note *model.Note) error {
	if f.createErr != nil {
		return f.createErr
	}
	note.ID = fmt.Sprintf("note-fake-%d", f.nextID)
	f.nextID++
	note.CreatedAt = time.Now()
	// Prepend so the list is newest first, matching the real repository.
	f.notes = append([]model.Note{*note}, f.notes...)
	return nil
}

func (f *fakeNoteRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error) {
	out := []model.Note{}
	for _, n := range f.notes {
		if n.UserID == ownerID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNoteRepo) Delete(ctx context.Context, ownerID, id string) error {
	for i, n := range f.notes {
		if n.ID == id && n.UserID == ownerID {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("note", id)
}

func newTestNoteService(repo *fakeNoteRepo) *NoteService {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewNoteService(repo, logger)
}

func TestNoteCreate(t *testing.T) {
	svc := newTestNoteService(newFakeNoteRepo())

	note, err := svc.Create(context.Background(), "user-1", "remember the milk")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if note.ID == "" {
		t.Error("note.ID should be set")
	}
	if note.UserID != "user-1" {
		t.Errorf("note.UserID = %q, want %q", note.UserID, "user-1")
	}
}

func TestNoteCreate_BlankText(t *testing.T) {
	svc := newTestNoteService(newFakeNoteRepo())

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := svc.Create(context.Background(), "user-1", text)
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Create(%q) error = %v, want ErrValidation", text, err)
		}
	}
}

func TestNoteCreate_TooLong(t *testing.T) {
	svc := newTestNoteService(newFakeNoteRepo())

	_, err := svc.Create(context.Background(), "user-1", strings.Repeat("x", maxNoteLength+1))
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Create() error = %v, want ErrValidation", err)
	}
}

func TestNoteList_OnlyOwnNotes(t *testing.T) {
	repo := newFakeNoteRepo()
	svc := newTestNoteService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user-1", "mine"); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := svc.Create(ctx, "user-2", "theirs"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	notes, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(notes) != 1 || notes[0].Note != "mine" {
		t.Errorf("List() = %+v, want only user-1's note", notes)
	}
}

func TestNoteDelete(t *testing.T) {
	repo := newFakeNoteRepo()
	svc := newTestNoteService(repo)
	ctx := context.Background()

	note, err := svc.Create(ctx, "user-1", "delete me")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := svc.Delete(ctx, "user-1", note.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	err = svc.Delete(ctx, "user-1", note.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestNoteDelete_ForeignOwner(t *testing.T) {
	repo := newFakeNoteRepo()
	svc := newTestNoteService(repo)
	ctx := context.Background()

	note, err := svc.Create(ctx, "user-1", "keep out")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	err = svc.Delete(ctx, "user-2", note.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() by non-owner error = %v, want ErrNotFound", err)
	}
}

func TestNoteCreate_RepositoryError(t *testing.T) {
	repo := newFakeNoteRepo()
	repo.createErr = errors.New("database is on fire")
	svc := newTestNoteService(repo)

	if _, err := svc.Create(context.Background(), "user-1", "text"); err == nil {
		t.Fatal("Create() should propagate repository errors")
	}
}
