package models

import "time"

// Task belongs to exactly one list. Overdue is a cached, derived flag that is
// recomputed whenever the list is viewed.
type Task struct {
	ID             int64
	ListID         int64
	Content        string
	Done           bool
	DueDate        *time.Time
	DisplayDueDate string
	Overdue        bool
}
