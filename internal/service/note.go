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

const maxNoteLength = 10000

// NoteService owns the rules for per-user notes.
type NoteService struct {
	notes  repository.NoteRepository
	logger *slog.Logger
}

func NewNoteService(notes repository.NoteRepository, logger *slog.Logger) *NoteService {
	return &NoteService{notes: notes, logger: logger}
}

// Create saves a note for the given owner. The text must be non-blank.
func (s *NoteService) Create(ctx context.Context, ownerID, text string) (*model.Note, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperror.ValidationFailed("note", "note text is required")
	}
	if len(text) > maxNoteLength {
		return nil, apperror.ValidationFailed("note", "note text is too long")
	}

	note := &model.Note{
		Note:   text,
		UserID: ownerID,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("service/note: creating note: %w", err)
	}

	s.logger.Info("note created",
		slog.String("noteID", note.ID),
		slog.String("userID", ownerID),
	)
	return note, nil
}

// List returns the owner's notes, newest first.
func (s *NoteService) List(ctx context.Context, ownerID string) ([]model.Note, error) {
	notes, err := s.notes.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service/note: listing notes for user %s: %w", ownerID, err)
	}
	return notes, nil
}

// Delete removes a note. Only the owner's own notes are reachable; a
// foreign or unknown ID reports not found.
func (s *NoteService) Delete(ctx context.Context, ownerID, noteID string) error {
	if noteID == "" {
		return apperror.ValidationFailed("id", "note ID is required")
	}
	if err := s.notes.Delete(ctx, ownerID, noteID); err != nil {
		return fmt.Errorf("service/note: deleting note %s: %w", noteID, err)
	}
	return nil
}
