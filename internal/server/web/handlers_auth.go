package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/todolist/internal/common"
)

const (
	flashAlreadySignedUp = "You've already signed up with that email, log in instead!"
	flashMissingFields   = "Please fill in every field."
	flashInvalidEmail    = "Invalid email address."
	flashUnknownEmail    = "That email does not exist, please try again."
	flashBadPassword     = "Password incorrect, please try again."
	flashMailFailed      = "We could not send the reset email, please try again later."
	flashRequestCode     = "Request a reset code first."
	flashCodeExpired     = "That code has expired, please request a new one."
	flashInvalidCode     = "Invalid reset code."
	flashPasswordsDiffer = "Passwords do not match."
	flashEmptyPassword   = "Please enter a new password."
)

// withSave appends the pending claim list id to an auth route.
func withSave(path string, saveListID int64) string {
	if saveListID == 0 {
		return path
	}
	return path + "/" + strconv.FormatInt(saveListID, 10)
}

// afterLogin sends a freshly authenticated user on to the pending claim, if
// any.
func afterLogin(saveListID int64) string {
	if saveListID == 0 {
		return "/"
	}
	return "/add/" + strconv.FormatInt(saveListID, 10)
}

func (h *handlers) renderAuth(w http.ResponseWriter, r *http.Request, mode string, fill func(*pageData)) {
	ctx := r.Context()
	st := stateFrom(ctx)

	data, err := h.basePage(ctx, st)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data.Mode = mode
	if fill != nil {
		fill(data)
	}
	if err := h.renderer.Render(w, http.StatusOK, "auth", data); err != nil {
		h.logger.Error(ctx, "render failed", "error", err)
	}
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := stateFrom(ctx)
	save, _ := int64Var(r, "save")

	if r.Method != http.MethodPost {
		h.renderAuth(w, r, modeRegister, func(d *pageData) { d.SaveListID = save })
		return
	}

	_, err := h.users.Register(ctx, st, r.PostFormValue("email"), r.PostFormValue("password"), r.PostFormValue("name"))
	switch {
	case err == nil:
		h.redirect(w, r, afterLogin(save))
	case errors.Is(err, common.ErrDuplicateEmail):
		st.Flash(flashAlreadySignedUp)
		h.redirect(w, r, withSave("/login", save))
	case errors.Is(err, common.ErrInvalidEmail):
		st.Flash(flashInvalidEmail)
		h.redirect(w, r, withSave("/register", save))
	case errors.Is(err, common.ErrInvalidInput):
		st.Flash(flashMissingFields)
		h.redirect(w, r, withSave("/register", save))
	default:
		h.fail(w, r, err)
	}
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := stateFrom(ctx)
	save, _ := int64Var(r, "save")

	if r.Method != http.MethodPost {
		hint := st.TakeLoginHint()
		h.renderAuth(w, r, modeLogin, func(d *pageData) {
			d.SaveListID = save
			d.Email = hint
		})
		return
	}

	_, err := h.users.Login(ctx, st, r.PostFormValue("email"), r.PostFormValue("password"))
	switch {
	case err == nil:
		h.redirect(w, r, afterLogin(save))
	case errors.Is(err, common.ErrUnknownEmail):
		st.Flash(flashUnknownEmail)
		h.redirect(w, r, withSave("/login", save))
	case errors.Is(err, common.ErrBadCredential):
		st.Flash(flashBadPassword)
		h.redirect(w, r, withSave("/login", save))
	case errors.Is(err, common.ErrInvalidEmail):
		st.Flash(flashInvalidEmail)
		h.redirect(w, r, withSave("/login", save))
	default:
		h.fail(w, r, err)
	}
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	h.users.Logout(stateFrom(r.Context()))
	h.redirect(w, r, "/new")
}

// forgotPassword runs phase 0 (mail a code) and phase 1 (redeem it).
func (h *handlers) forgotPassword(w http.ResponseWriter, r *http.Request) {
	phase, _ := int64Var(r, "phase")
	if phase == 0 {
		h.requestResetCode(w, r)
		return
	}
	h.redeemResetCode(w, r)
}

func (h *handlers) requestResetCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := stateFrom(ctx)

	if r.Method != http.MethodPost {
		h.renderAuth(w, r, modeResetMail, nil)
		return
	}

	err := h.reset.RequestCode(ctx, st, r.PostFormValue("email"))
	switch {
	case err == nil:
		h.redirect(w, r, "/forgot_password/1")
	case errors.Is(err, common.ErrUnknownEmail):
		st.Flash(flashUnknownEmail)
		h.redirect(w, r, "/forgot_password/0")
	case errors.Is(err, common.ErrMailDelivery):
		st.Flash(flashMailFailed)
		h.redirect(w, r, "/forgot_password/0")
	case errors.Is(err, common.ErrInvalidEmail):
		st.Flash(flashInvalidEmail)
		h.redirect(w, r, "/forgot_password/0")
	default:
		h.fail(w, r, err)
	}
}

func (h *handlers) redeemResetCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := stateFrom(ctx)

	if r.Method != http.MethodPost {
		nonce := h.reset.PendingNonce(st)
		if nonce == "" {
			st.Flash(flashRequestCode)
			h.redirect(w, r, "/forgot_password/0")
			return
		}
		h.renderAuth(w, r, modeResetCode, func(d *pageData) { d.Nonce = nonce })
		return
	}

	_, err := h.reset.RedeemCode(ctx, st,
		r.PostFormValue("nonce"),
		r.PostFormValue("code"),
		r.PostFormValue("pass1"),
		r.PostFormValue("pass2"),
	)
	switch {
	case err == nil:
		h.redirect(w, r, "/")
	case errors.Is(err, common.ErrResetNotRequested):
		st.Flash(flashRequestCode)
		h.redirect(w, r, "/forgot_password/0")
	case errors.Is(err, common.ErrCodeExpired):
		st.Flash(flashCodeExpired)
		h.redirect(w, r, "/forgot_password/0")
	case errors.Is(err, common.ErrCodeMismatch):
		st.Flash(flashInvalidCode)
		h.redirect(w, r, "/forgot_password/1")
	case errors.Is(err, common.ErrPasswordConfirmationMismatch):
		st.Flash(flashPasswordsDiffer)
		h.redirect(w, r, "/forgot_password/1")
	case errors.Is(err, common.ErrInvalidInput):
		st.Flash(flashEmptyPassword)
		h.redirect(w, r, "/forgot_password/1")
	default:
		h.fail(w, r, err)
	}
}
