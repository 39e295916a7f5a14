package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/todolist/internal/common"
	"github.com/dmitrijs2005/todolist/internal/dbx"
	"github.com/dmitrijs2005/todolist/internal/logging"
	"github.com/dmitrijs2005/todolist/internal/server/models"
	"github.com/dmitrijs2005/todolist/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/todolist/internal/server/session"
)

// MaxTitleLength bounds list titles and task contents.
const MaxTitleLength = 250

// Caller identifies who is acting on a list: the logged-in user, if any,
// and the anonymous list bound to their browser session.
type Caller struct {
	UserID        int64
	SessionListID int64
}

// CallerFromSession derives the acting identity from st.
func CallerFromSession(st *session.State) Caller {
	return Caller{UserID: st.UserID, SessionListID: st.ListID}
}

// Authenticated reports whether the caller is logged in.
func (c Caller) Authenticated() bool {
	return c.UserID != 0
}

// ListView is a list together with its tasks, overdue flags freshly evaluated.
type ListView struct {
	List  *models.List
	Tasks []*models.Task
}

// ListService governs list ownership and task mutation.
type ListService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewListService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *ListService {
	return &ListService{
		db:          db,
		repomanager: m,
		logger:      l.With("service", "lists"),
		now:         time.Now,
	}
}

// AssertOwnership loads the list and checks that the caller may act on it.
// A claimed list is accessible to its owner only; an anonymous list only to
// the session it is bound to.
func (s *ListService) AssertOwnership(ctx context.Context, caller Caller, listID int64) (*models.List, error) {
	list, err := s.repomanager.Lists(s.db).Get(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list.IsClaimed() {
		if !caller.Authenticated() || !list.OwnedBy(caller.UserID) {
			return nil, common.ErrAuthorizationDenied
		}
		return list, nil
	}
	if caller.SessionListID != list.ID {
		return nil, common.ErrAuthorizationDenied
	}
	return list, nil
}

// View returns the list and its tasks after recomputing and persisting the
// overdue flags.
func (s *ListService) View(ctx context.Context, caller Caller, listID int64) (*ListView, error) {
	list, err := s.AssertOwnership(ctx, caller, listID)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Tasks(s.db)
	tasks, err := repo.ListByList(ctx, list.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading tasks: %w", err)
	}

	for _, t := range EvaluateOverdue(tasks, s.now()) {
		if err := repo.SetOverdue(ctx, t.ID, t.Overdue); err != nil {
			return nil, fmt.Errorf("error updating overdue flag: %w", err)
		}
	}

	return &ListView{List: list, Tasks: tasks}, nil
}

// OwnedLists returns the saved lists of userID.
func (s *ListService) OwnedLists(ctx context.Context, userID int64) ([]*models.List, error) {
	if userID == 0 {
		return nil, nil
	}
	return s.repomanager.Lists(s.db).ListByOwner(ctx, userID)
}

// AddTask appends an open task without a due date. Content already present
// in the list yields common.ErrDuplicateTaskContent and changes nothing.
func (s *ListService) AddTask(ctx context.Context, caller Caller, listID int64, content string) (*models.Task, error) {
	content = strings.TrimSpace(content)
	if content == "" || len(content) > MaxTitleLength {
		return nil, common.ErrInvalidInput
	}

	list, err := s.AssertOwnership(ctx, caller, listID)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Tasks(s.db)
	exists, err := repo.ContentExists(ctx, list.ID, content)
	if err != nil {
		return nil, fmt.Errorf("error checking task content: %w", err)
	}
	if exists {
		return nil, common.ErrDuplicateTaskContent
	}

	task, err := repo.Create(ctx, &models.Task{ListID: list.ID, Content: content})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrDuplicateTaskContent
		}
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return task, nil
}

// ownedTask loads a task and checks that the caller may act on its list.
func (s *ListService) ownedTask(ctx context.Context, caller Caller, taskID int64) (*models.Task, error) {
	task, err := s.repomanager.Tasks(s.db).Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.AssertOwnership(ctx, caller, task.ListID); err != nil {
		return nil, err
	}
	return task, nil
}

// ToggleTask flips the completion flag of a task.
func (s *ListService) ToggleTask(ctx context.Context, caller Caller, taskID int64) (*models.Task, error) {
	task, err := s.ownedTask(ctx, caller, taskID)
	if err != nil {
		return nil, err
	}

	task.Done = !task.Done
	if err := s.repomanager.Tasks(s.db).SetDone(ctx, task.ID, task.Done); err != nil {
		return nil, err
	}
	return task, nil
}

// SetDueDate sets or, with a nil due, clears the due date of a task in
// listID. The overdue flag is left to the next view.
func (s *ListService) SetDueDate(ctx context.Context, caller Caller, listID, taskID int64, due *time.Time) (*models.Task, error) {
	task, err := s.ownedTask(ctx, caller, taskID)
	if err != nil {
		return nil, err
	}
	if task.ListID != listID {
		return nil, common.ErrNotFound
	}

	display := ""
	if due != nil {
		display = due.Format(common.DueDateDisplayLayout)
	}
	if err := s.repomanager.Tasks(s.db).SetDueDate(ctx, task.ID, due, display); err != nil {
		return nil, err
	}

	task.DueDate = due
	task.DisplayDueDate = display
	return task, nil
}

// DeleteTask removes a task and returns the id of the list it belonged to.
func (s *ListService) DeleteTask(ctx context.Context, caller Caller, taskID int64) (int64, error) {
	task, err := s.ownedTask(ctx, caller, taskID)
	if err != nil {
		return 0, err
	}
	if err := s.repomanager.Tasks(s.db).Delete(ctx, task.ID); err != nil {
		return 0, err
	}
	return task.ListID, nil
}

// DeleteList removes the list and all of its tasks in one transaction.
func (s *ListService) DeleteList(ctx context.Context, caller Caller, listID int64) error {
	list, err := s.AssertOwnership(ctx, caller, listID)
	if err != nil {
		return err
	}

	var removed int64
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if removed, err = s.repomanager.Tasks(tx).DeleteByList(ctx, list.ID); err != nil {
			return err
		}
		return s.repomanager.Lists(tx).Delete(ctx, list.ID)
	})
	if err != nil {
		return fmt.Errorf("error deleting list: %w", err)
	}

	s.logger.Info(ctx, "list deleted", "list_id", list.ID, "tasks", removed)
	return nil
}

// Claim gives an anonymous list to the authenticated caller under title. The
// rightful owner may claim again to rename the list. A title the caller
// already uses for another list yields common.ErrTitleConflict and leaves
// the list untouched.
func (s *ListService) Claim(ctx context.Context, caller Caller, listID int64, title string) (*models.List, error) {
	if !caller.Authenticated() {
		return nil, common.ErrUnauthenticated
	}

	title = strings.TrimSpace(title)
	if title == "" || len(title) > MaxTitleLength {
		return nil, common.ErrInvalidInput
	}

	list, err := s.AssertOwnership(ctx, caller, listID)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Lists(s.db)
	owned, err := repo.ListByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading owned lists: %w", err)
	}
	for _, l := range owned {
		if l.Title == title && l.ID != list.ID {
			s.logger.Warn(ctx, "claim title conflict", "list_id", list.ID, "user_id", caller.UserID)
			return nil, common.ErrTitleConflict
		}
	}

	if err := repo.Claim(ctx, list.ID, caller.UserID, title); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrTitleConflict
		}
		return nil, fmt.Errorf("error claiming list: %w", err)
	}

	owner := caller.UserID
	list.OwnerID = &owner
	list.Title = title
	list.Saved = true

	s.logger.Info(ctx, "list claimed", "list_id", list.ID, "user_id", caller.UserID)
	return list, nil
}
