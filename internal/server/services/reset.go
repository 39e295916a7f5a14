package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/todolist/internal/common"
	"github.com/dmitrijs2005/todolist/internal/cryptox"
	"github.com/dmitrijs2005/todolist/internal/logging"
	"github.com/dmitrijs2005/todolist/internal/server/mail"
	"github.com/dmitrijs2005/todolist/internal/server/models"
	"github.com/dmitrijs2005/todolist/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/todolist/internal/server/session"
	"github.com/google/uuid"
)

const resetSubject = "Reset Your Password"

// ResetService runs the two-phase password reset: a code is mailed to the
// account owner and later redeemed from the same browser session.
type ResetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	mailer      mail.Sender
	digester    *cryptox.CodeDigester
	ttl         time.Duration
	logger      logging.Logger

	now      func() time.Time
	newCode  func() (string, error)
	newNonce func() string
}

func NewResetService(db *sql.DB, m repomanager.RepositoryManager, mailer mail.Sender,
	digester *cryptox.CodeDigester, ttl time.Duration, l logging.Logger) *ResetService {
	return &ResetService{
		db:          db,
		repomanager: m,
		mailer:      mailer,
		digester:    digester,
		ttl:         ttl,
		logger:      l.With("service", "reset"),
		now:         time.Now,
		newCode:     cryptox.GenerateResetCode,
		newNonce:    func() string { return uuid.NewString() },
	}
}

func resetMessage(user *models.User, code string) mail.Message {
	body := fmt.Sprintf("Hi %s,\n"+
		"We received a request to reset your password from the email %s. "+
		"Use the code below to complete the process:\n\n%s\n\n"+
		"If you did not request this, you can safely ignore this email.",
		user.Name, user.Email, code)
	return mail.Message{To: user.Email, Subject: resetSubject, Body: body}
}

// RequestCode mails a fresh 6-digit code to the account registered under
// email and records it in st, replacing any earlier request. When delivery
// fails st is left as it was.
func (s *ResetService) RequestCode(ctx context.Context, st *session.State, email string) error {
	email, err := checkEmail(email)
	if err != nil {
		return err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUnknownEmail
		}
		return fmt.Errorf("error searching user: %w", err)
	}

	code, err := s.newCode()
	if err != nil {
		return fmt.Errorf("error generating reset code: %w", err)
	}

	if err := s.mailer.Send(ctx, resetMessage(user, code)); err != nil {
		s.logger.Error(ctx, "reset code delivery failed", "user_id", user.ID, "error", err)
		return fmt.Errorf("%w: %v", common.ErrMailDelivery, err)
	}

	st.BeginReset(&session.Reset{
		Email:      user.Email,
		CodeDigest: s.digester.Digest(user.Email, code),
		Nonce:      s.newNonce(),
		IssuedAt:   s.now(),
	})
	s.logger.Info(ctx, "reset code issued", "user_id", user.ID)
	return nil
}

// RedeemCode sets a new password for the account a code was issued to in
// st and logs st in as that account. nonce must be the value handed out with
// the request form; an expired code is discarded.
func (s *ResetService) RedeemCode(ctx context.Context, st *session.State, nonce, code, password, confirm string) (*models.User, error) {
	r := st.Reset
	if r == nil {
		return nil, common.ErrResetNotRequested
	}
	if subtle.ConstantTimeCompare([]byte(nonce), []byte(r.Nonce)) != 1 {
		return nil, common.ErrOriginMismatch
	}
	if r.ExpiredAt(s.now(), s.ttl) {
		st.ClearReset()
		return nil, common.ErrCodeExpired
	}
	if !s.digester.Matches(r.Email, strings.TrimSpace(code), r.CodeDigest) {
		return nil, common.ErrCodeMismatch
	}
	if password != confirm {
		return nil, common.ErrPasswordConfirmationMismatch
	}
	if password == "" {
		return nil, common.ErrInvalidInput
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, r.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			st.ClearReset()
			return nil, common.ErrUnknownEmail
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	if err := repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, fmt.Errorf("error updating password: %w", err)
	}

	st.ClearReset()
	st.Login(user.ID)
	s.logger.Info(ctx, "password reset", "user_id", user.ID)
	return user, nil
}

// PendingNonce returns the anti-forgery nonce of the reset in flight on st.
func (s *ResetService) PendingNonce(st *session.State) string {
	if st.Reset == nil {
		return ""
	}
	return st.Reset.Nonce
}
