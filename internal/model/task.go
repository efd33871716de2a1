package model

import "time"

// StatusNew is the status a task starts in when none is submitted.
const StatusNew = "new"

type Task struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	DueDate     time.Time `json:"due_date"`
	Status      string    `json:"status"`
	Attachment  string    `json:"attachment"`
	UserID      int       `json:"user_id"`
}

// DefaultDueDate returns the due date applied when a task is created
// without one: 24 hours from now.
func DefaultDueDate() time.Time {
	return time.Now().UTC().Add(24 * time.Hour)
}
