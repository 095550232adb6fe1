package model

import "time"

// Note is a free-text note owned by exactly one user. Notes are immutable
// after creation; there is no edit endpoint, only create, list, delete.
//
// The text field is called "note" (not "content") to match what the
// frontend sends.
type Note struct {
	ID        string    `json:"id"`
	Note      string    `json:"note"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
