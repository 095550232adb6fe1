package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/SmitChaudhari26/VoxDesk/internal/apperror"
	"github.com/SmitChaudhari26/VoxDesk/internal/model"
	"github.com/SmitChaudhari26/VoxDesk/internal/repository"
)

// compile-time check that *NoteRepo implements repository.NoteRepository
var _ repository.NoteRepository = (*NoteRepo)(nil)

// NoteRepo implements repository.NoteRepository on the shared DB.
type NoteRepo struct {
	db *DB
}

// NewNoteRepo creates a NoteRepo backed by db.
func NewNoteRepo(db *DB) *NoteRepo {
	return &NoteRepo{db: db}
}

// Create inserts a note with a server-assigned id and creation time.
func (r *NoteRepo) Create(ctx context.Context, note *model.Note) error {
	note.ID = xid.New().String()
	note.CreatedAt = time.Now()

	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO notes (id, note, user_id, created_at) VALUES (?, ?, ?, ?)`,
		note.ID,
		note.Note,
		note.UserID,
		note.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating note: %w", err)
	}

	return nil
}

// ListByOwner returns the owner's notes, newest first. A user with no notes
// gets an empty slice, not nil.
func (r *NoteRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, note, user_id, created_at
		 FROM notes WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing notes: %w", err)
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.Note, &n.UserID, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating notes: %w", err)
	}

	return notes, nil
}

// Delete removes a note by id and owner in a single statement. The combined
// filter is the ownership check: a foreign or missing id both delete zero
// rows and surface as NotFound.
func (r *NoteRepo) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND user_id = ?`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting note %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting note %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("note", id)
	}

	return nil
}
