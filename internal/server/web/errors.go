package web

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/todolist/internal/common"
)

// fail maps errors without a recovery path to a status page. Recoverable
// validation errors are handled by the handlers with a flash and redirect.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		h.renderError(w, r, http.StatusNotFound)
	case errors.Is(err, common.ErrAuthorizationDenied), errors.Is(err, common.ErrOriginMismatch):
		h.logger.Warn(r.Context(), "request rejected", "path", r.URL.Path, "error", err)
		h.renderError(w, r, http.StatusForbidden)
	case errors.Is(err, common.ErrInvalidInput):
		h.renderError(w, r, http.StatusBadRequest)
	default:
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		h.renderError(w, r, http.StatusInternalServerError)
	}
}

func (h *handlers) renderError(w http.ResponseWriter, r *http.Request, status int) {
	data := &pageData{Status: status, Message: http.StatusText(status)}
	if err := h.renderer.Render(w, status, "error", data); err != nil {
		h.logger.Error(r.Context(), "error page render failed", "error", err)
		http.Error(w, http.StatusText(status), status)
	}
}

func (h *handlers) redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}
