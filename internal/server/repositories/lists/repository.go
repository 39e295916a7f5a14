package lists

import (
	"context"

	"github.com/dmitrijs2005/todolist/internal/server/models"
)

// Repository persists lists. Lookups of missing rows return common.ErrNotFound.
type Repository interface {
	// Create stores a new anonymous list with the given title.
	Create(ctx context.Context, title string) (*models.List, error)

	Get(ctx context.Context, id int64) (*models.List, error)

	// TitleExists reports whether any list, claimed or not, uses title.
	TitleExists(ctx context.Context, title string) (bool, error)

	// ListByOwner returns the lists owned by ownerID ordered by id.
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.List, error)

	// Claim sets owner, title and the saved flag in a single statement.
	// A title already used by the owner yields common.ErrAlreadyExists.
	Claim(ctx context.Context, id, ownerID int64, title string) error

	Delete(ctx context.Context, id int64) error
}
