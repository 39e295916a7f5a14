package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	netmail "net/mail"
	"strings"

	"github.com/dmitrijs2005/todolist/internal/common"
	"github.com/dmitrijs2005/todolist/internal/cryptox"
	"github.com/dmitrijs2005/todolist/internal/logging"
	"github.com/dmitrijs2005/todolist/internal/server/models"
	"github.com/dmitrijs2005/todolist/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/todolist/internal/server/session"
)

// UserService handles registration, login and logout. Authentication state
// lives only in the session.State passed to each call.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		logger:      l.With("service", "users"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// checkEmail normalizes email and accepts only a bare address such as
// "a@example.com"; display names and angle brackets are rejected.
func checkEmail(email string) (string, error) {
	email = normalizeEmail(email)
	addr, err := netmail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", common.ErrInvalidEmail
	}
	return email, nil
}

// Register creates an account and logs st in as it. An email that already
// has an account yields common.ErrDuplicateEmail and leaves the email in st
// as the login hint.
func (s *UserService) Register(ctx context.Context, st *session.State, email, password, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if normalizeEmail(email) == "" || password == "" || name == "" {
		return nil, common.ErrInvalidInput
	}
	email, err := checkEmail(email)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	_, err = repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		st.SetLoginHint(email)
		return nil, common.ErrDuplicateEmail
	case !errors.Is(err, common.ErrNotFound):
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: hash, Name: name})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			st.SetLoginHint(email)
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	st.Login(user.ID)
	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies the credentials and logs st in.
func (s *UserService) Login(ctx context.Context, st *session.State, email, password string) (*models.User, error) {
	email, err := checkEmail(email)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnknownEmail
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	ok, err := cryptox.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		s.logger.Error(ctx, "stored password hash unreadable", "user_id", user.ID, "error", err)
		return nil, common.ErrBadCredential
	}
	if !ok {
		s.logger.Warn(ctx, "bad credential", "user_id", user.ID)
		return nil, common.ErrBadCredential
	}

	st.Login(user.ID)
	return user, nil
}

// Logout drops the authentication and the bound list from st.
func (s *UserService) Logout(st *session.State) {
	st.Logout()
}

// CurrentUser returns the user logged in on st, or nil when nobody is. A
// session pointing at a vanished account is logged out.
func (s *UserService) CurrentUser(ctx context.Context, st *session.State) (*models.User, error) {
	if !st.Authenticated() {
		return nil, nil
	}
	user, err := s.repomanager.Users(s.db).GetByID(ctx, st.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			st.Logout()
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// SetPassword replaces the password of the account registered under email.
func (s *UserService) SetPassword(ctx context.Context, email, password string) error {
	if password == "" {
		return common.ErrInvalidInput
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUnknownEmail
		}
		return fmt.Errorf("error searching user: %w", err)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return nil
}
