package services

import (
	"time"

	"github.com/dmitrijs2005/todolist/internal/server/models"
)

// EvaluateOverdue recomputes the overdue flag of every task at now and
// returns the tasks whose flag changed. A task without a due date is never
// overdue.
func EvaluateOverdue(tasks []*models.Task, now time.Time) []*models.Task {
	var changed []*models.Task
	for _, t := range tasks {
		overdue := t.DueDate != nil && t.DueDate.Before(now)
		if t.Overdue != overdue {
			t.Overdue = overdue
			changed = append(changed, t)
		}
	}
	return changed
}
