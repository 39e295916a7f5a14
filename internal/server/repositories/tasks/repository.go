package tasks

import (
	"context"
	"time"

	"github.com/dmitrijs2005/todolist/internal/server/models"
)

// Repository persists tasks. Lookups of missing rows return common.ErrNotFound.
type Repository interface {
	// Create inserts a task; duplicate content within a list yields
	// common.ErrAlreadyExists.
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	Get(ctx context.Context, id int64) (*models.Task, error)
	ListByList(ctx context.Context, listID int64) ([]*models.Task, error)
	ContentExists(ctx context.Context, listID int64, content string) (bool, error)
	SetDone(ctx context.Context, id int64, done bool) error
	// SetDueDate stores due and its display form; a nil due clears both.
	SetDueDate(ctx context.Context, id int64, due *time.Time, display string) error
	SetOverdue(ctx context.Context, id int64, overdue bool) error
	Delete(ctx context.Context, id int64) error
	// DeleteByList removes every task of a list and returns how many went.
	DeleteByList(ctx context.Context, listID int64) (int64, error)
}
