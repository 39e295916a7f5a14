// Package session holds the per-browser state the server keeps between
// requests: the bound anonymous list, the authenticated user, an in-flight
// password reset, pending flash messages and the login pre-fill hint.
//
// Nothing here is shared between browsers; the web layer loads a State from
// the signed session cookie at the start of a request and writes it back
// when it changed.
package session

import (
	"crypto/subtle"
	"time"

	"github.com/google/uuid"
)

// Reset is the pending correlation between an issued reset code and the
// account it was issued for.
type Reset struct {
	Email      string    `json:"email"`
	CodeDigest string    `json:"code_digest"`
	Nonce      string    `json:"nonce"`
	IssuedAt   time.Time `json:"issued_at"`
}

// ExpiredAt reports whether the code is older than ttl at now. A zero ttl
// never expires.
func (r *Reset) ExpiredAt(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(r.IssuedAt) > ttl
}

type State struct {
	ListID int64 `json:"list_id,omitempty"`
	UserID int64 `json:"user_id,omitempty"`

	Reset *Reset `json:"reset,omitempty"`

	// LoginHint pre-fills the login form after a registration attempt with an
	// email that already has an account.
	LoginHint string `json:"login_hint,omitempty"`

	Flashes []string `json:"flashes,omitempty"`

	// CSRFToken is echoed by every form this session renders.
	CSRFToken string `json:"csrf,omitempty"`

	dirty bool
}

// New returns an empty state for a browser without a session.
func New() *State {
	return &State{}
}

// Authenticated reports whether a user is logged in on this session.
func (s *State) Authenticated() bool {
	return s.UserID != 0
}

// BindList makes id the session's anonymous list.
func (s *State) BindList(id int64) {
	if s.ListID != id {
		s.ListID = id
		s.dirty = true
	}
}

// Login marks userID as authenticated and drops the login hint.
func (s *State) Login(userID int64) {
	s.UserID = userID
	s.LoginHint = ""
	s.dirty = true
}

// Logout clears the user and the bound list so the next request mints a
// fresh anonymous list. An in-flight reset is abandoned as well.
func (s *State) Logout() {
	s.UserID = 0
	s.ListID = 0
	s.Reset = nil
	s.dirty = true
}

// SetLoginHint remembers an email to pre-fill on the login form.
func (s *State) SetLoginHint(email string) {
	s.LoginHint = email
	s.dirty = true
}

// TakeLoginHint returns and clears the login hint.
func (s *State) TakeLoginHint() string {
	hint := s.LoginHint
	if hint != "" {
		s.LoginHint = ""
		s.dirty = true
	}
	return hint
}

// BeginReset records a freshly issued reset code for email.
func (s *State) BeginReset(r *Reset) {
	s.Reset = r
	s.dirty = true
}

// ClearReset drops any in-flight reset.
func (s *State) ClearReset() {
	if s.Reset != nil {
		s.Reset = nil
		s.dirty = true
	}
}

// Flash queues a message for the next rendered page.
func (s *State) Flash(msg string) {
	s.Flashes = append(s.Flashes, msg)
	s.dirty = true
}

// TakeFlashes returns and clears the queued messages.
func (s *State) TakeFlashes() []string {
	if len(s.Flashes) == 0 {
		return nil
	}
	out := s.Flashes
	s.Flashes = nil
	s.dirty = true
	return out
}

// CSRF returns the session's form token, minting one on first use.
func (s *State) CSRF() string {
	if s.CSRFToken == "" {
		s.CSRFToken = uuid.NewString()
		s.dirty = true
	}
	return s.CSRFToken
}

// CheckCSRF reports whether token matches the session's form token. A
// session that never rendered a form matches nothing.
func (s *State) CheckCSRF(token string) bool {
	if s.CSRFToken == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.CSRFToken), []byte(token)) == 1
}

// Dirty reports whether the state changed since it was loaded.
func (s *State) Dirty() bool {
	return s.dirty
}

// MarkClean resets the change tracker, typically right after loading.
func (s *State) MarkClean() {
	s.dirty = false
}
