package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/todolist/internal/common"
	"github.com/dmitrijs2005/todolist/internal/dbx"
	"github.com/dmitrijs2005/todolist/internal/logging"
	"github.com/dmitrijs2005/todolist/internal/server/models"
	"github.com/dmitrijs2005/todolist/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/todolist/internal/server/session"
)

const maxAnonymousSuffix = 999999999

// SessionService binds browser sessions to anonymous lists.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger

	// randSuffix draws the numeric part of an anonymous title.
	randSuffix func() (int64, error)
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *SessionService {
	return &SessionService{
		db:          db,
		repomanager: m,
		logger:      l.With("service", "sessions"),
		randSuffix: func() (int64, error) {
			return common.RandIntRange(0, maxAnonymousSuffix)
		},
	}
}

// Resolve returns the list bound to st, minting and binding a new anonymous
// list when st has none, when the bound list is gone, or when it now belongs
// to someone other than the session's user.
func (s *SessionService) Resolve(ctx context.Context, st *session.State) (int64, error) {
	if st.ListID != 0 {
		list, err := s.repomanager.Lists(s.db).Get(ctx, st.ListID)
		switch {
		case err == nil:
			if !list.IsClaimed() || list.OwnedBy(st.UserID) {
				return list.ID, nil
			}
		case errors.Is(err, common.ErrNotFound):
		default:
			return 0, fmt.Errorf("error loading session list: %w", err)
		}
	}
	return s.Renew(ctx, st)
}

// Renew unconditionally binds a freshly minted anonymous list to st.
func (s *SessionService) Renew(ctx context.Context, st *session.State) (int64, error) {
	list, err := s.CreateAnonymous(ctx)
	if err != nil {
		return 0, err
	}
	st.BindList(list.ID)
	return list.ID, nil
}

// CreateAnonymous stores a new ownerless list titled local<digits> together
// with its seed task. Title collisions are retried until a free title is
// found.
func (s *SessionService) CreateAnonymous(ctx context.Context) (*models.List, error) {
	for {
		n, err := s.randSuffix()
		if err != nil {
			return nil, fmt.Errorf("error drawing list title: %w", err)
		}
		title := fmt.Sprintf("local%d", n)

		exists, err := s.repomanager.Lists(s.db).TitleExists(ctx, title)
		if err != nil {
			return nil, fmt.Errorf("error checking list title: %w", err)
		}
		if exists {
			continue
		}

		var list *models.List
		err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			var err error
			list, err = s.repomanager.Lists(tx).Create(ctx, title)
			if err != nil {
				return err
			}
			_, err = s.repomanager.Tasks(tx).Create(ctx, &models.Task{
				ListID:  list.ID,
				Content: common.SeedTaskContent,
			})
			return err
		})
		if errors.Is(err, common.ErrAlreadyExists) {
			// lost a race for the title
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("error creating anonymous list: %w", err)
		}

		s.logger.Info(ctx, "anonymous list created", "list_id", list.ID)
		return list, nil
	}
}
