// Package auth signs and verifies the session token that carries a
// browser's session.State between requests.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/todolist/internal/common"
	"github.com/dmitrijs2005/todolist/internal/server/session"
	"github.com/golang-jwt/jwt/v5"
)

// Claims wraps the session payload in standard JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	Session session.State `json:"sess"`
}

// SessionCodec turns session state into an HS256-signed token and back.
type SessionCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionCodec(secret []byte, ttl time.Duration) *SessionCodec {
	return &SessionCodec{secret: secret, ttl: ttl, now: time.Now}
}

// TTL is the lifetime given to encoded tokens.
func (c *SessionCodec) TTL() time.Duration {
	return c.ttl
}

// Encode signs st with an expiry of now+ttl.
func (c *SessionCodec) Encode(st *session.State) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Session: *st,
	})

	return token.SignedString(c.secret)
}

// Decode verifies tokenString and returns the state it carries. Expired
// tokens yield common.ErrTokenExpired, anything else common.ErrInvalidToken.
func (c *SessionCodec) Decode(tokenString string) (*session.State, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	st := claims.Session
	st.MarkClean()
	return &st, nil
}
