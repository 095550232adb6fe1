package model

import "time"

// Task is like a Todo with a free-text description. The desktop shows tasks
// and todos in separate widgets, so they are separate collections rather
// than one table with an optional column.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}
