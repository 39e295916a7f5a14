package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/todolist/internal/common"
	"github.com/dmitrijs2005/todolist/internal/logging"
	"github.com/dmitrijs2005/todolist/internal/server/auth"
	"github.com/dmitrijs2005/todolist/internal/server/session"
	"github.com/google/uuid"
)

type ctxKey string

const stateKey ctxKey = "session"

func withState(ctx context.Context, st *session.State) context.Context {
	return context.WithValue(ctx, stateKey, st)
}

// stateFrom returns the request's session state. Outside the session
// middleware it returns a throwaway empty state.
func stateFrom(ctx context.Context) *session.State {
	if st, ok := ctx.Value(stateKey).(*session.State); ok {
		return st
	}
	return session.New()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// logRequests tags every request with an id and logs its outcome.
func logRequests(logger logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		r = r.WithContext(logging.ContextWithRequestID(r.Context(), id))

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type sessionMiddleware struct {
	codec  *auth.SessionCodec
	ttl    time.Duration
	logger logging.Logger
}

// wrap loads the session from its cookie and writes it back, just before
// the response header goes out, if the handler changed it.
func (m *sessionMiddleware) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := m.load(r)
		sw := &sessionWriter{ResponseWriter: w, commit: func() { m.save(w, r, st) }}
		next.ServeHTTP(sw, r.WithContext(withState(r.Context(), st)))
		sw.flush()
	})
}

func (m *sessionMiddleware) load(r *http.Request) *session.State {
	c, err := r.Cookie(common.SessionCookieName)
	if err != nil {
		return session.New()
	}
	st, err := m.codec.Decode(c.Value)
	if err != nil {
		if !errors.Is(err, common.ErrTokenExpired) {
			m.logger.Warn(r.Context(), "discarding session cookie", "error", err)
		}
		return session.New()
	}
	return st
}

func (m *sessionMiddleware) save(w http.ResponseWriter, r *http.Request, st *session.State) {
	if !st.Dirty() {
		return
	}
	token, err := m.codec.Encode(st)
	if err != nil {
		m.logger.Error(r.Context(), "session encode failed", "error", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	st.MarkClean()
}

type sessionWriter struct {
	http.ResponseWriter
	commit    func()
	committed bool
}

func (w *sessionWriter) flush() {
	if !w.committed {
		w.committed = true
		w.commit()
	}
}

func (w *sessionWriter) WriteHeader(code int) {
	w.flush()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.flush()
	return w.ResponseWriter.Write(b)
}

// csrfField is the form field carrying the session's CSRF token.
const csrfField = "csrf_token"

// requireCSRF rejects state-changing requests whose form does not echo the
// session's CSRF token. A browser without a session has no token, so a
// forged cross-site POST fails even when it needs no cookie.
func (h *handlers) requireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			st := stateFrom(r.Context())
			if !st.CheckCSRF(r.PostFormValue(csrfField)) {
				h.fail(w, r, common.ErrOriginMismatch)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
