package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/todolist/internal/common"
	"github.com/dmitrijs2005/todolist/internal/logging"
	"github.com/dmitrijs2005/todolist/internal/server/services"
	"github.com/dmitrijs2005/todolist/internal/server/session"
	"github.com/gorilla/mux"
)

const (
	flashDuplicateTask = "Please choose a different task name."
	flashEmptyTask     = "Please enter a task."
	flashLoginToSave   = "Login in order to save this list"
	flashTitleConflict = "Pick a unique name from your current lists."
	flashEmptyTitle    = "Please enter a title for the list."
	flashBadDate       = "Please enter a valid date."
)

// dateLayout is the format of the HTML date input.
const dateLayout = "2006-01-02"

// indexHome and indexList select which list view a form returns to.
const (
	indexHome = 0
	indexList = 1
)

type handlers struct {
	sessions *services.SessionService
	lists    *services.ListService
	users    *services.UserService
	reset    *services.ResetService
	renderer Renderer
	logger   logging.Logger
}

// isNewFlag reports whether the /{new} segment asks for a fresh list.
func isNewFlag(v string) bool {
	switch strings.ToLower(v) {
	case "new", "true", "yes", "on":
		return true
	}
	return false
}

// basePage fills the parts shared by every page: the user, their saved
// lists and pending flashes.
func (h *handlers) basePage(ctx context.Context, st *session.State) (*pageData, error) {
	user, err := h.users.CurrentUser(ctx, st)
	if err != nil {
		return nil, err
	}
	data := &pageData{User: user}
	if user != nil {
		if data.Lists, err = h.lists.OwnedLists(ctx, user.ID); err != nil {
			return nil, err
		}
	}
	data.Flashes = st.TakeFlashes()
	data.CSRFToken = st.CSRF()
	return data, nil
}

func (h *handlers) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := stateFrom(ctx)

	if v, ok := mux.Vars(r)["new"]; ok {
		if !isNewFlag(v) {
			h.renderError(w, r, http.StatusNotFound)
			return
		}
		if _, err := h.sessions.Renew(ctx, st); err != nil {
			h.fail(w, r, err)
			return
		}
		h.redirect(w, r, "/")
		return
	}

	listID, err := h.sessions.Resolve(ctx, st)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if r.Method == http.MethodPost {
		h.mutateList(w, r, st, listID, "/")
		return
	}
	h.renderList(w, r, st, listID, indexHome, 0)
}

func (h *handlers) displayList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := stateFrom(ctx)

	listID, ok := int64Var(r, "id")
	if !ok {
		h.renderError(w, r, http.StatusNotFound)
		return
	}

	if r.Method == http.MethodPost {
		h.mutateList(w, r, st, listID, listURL(listID))
		return
	}
	h.renderList(w, r, st, listID, indexList, 0)
}

// mutateList handles the list form: a "content" field adds a task, a
// "toggle" field flips one.
func (h *handlers) mutateList(w http.ResponseWriter, r *http.Request, st *session.State, listID int64, back string) {
	ctx := r.Context()
	caller := services.CallerFromSession(st)

	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest)
		return
	}

	if _, ok := r.PostForm["content"]; ok {
		_, err := h.lists.AddTask(ctx, caller, listID, r.PostForm.Get("content"))
		switch {
		case errors.Is(err, common.ErrDuplicateTaskContent):
			st.Flash(flashDuplicateTask)
		case errors.Is(err, common.ErrInvalidInput):
			st.Flash(flashEmptyTask)
		case err != nil:
			h.fail(w, r, err)
			return
		}
		h.redirect(w, r, back)
		return
	}

	taskID, err := strconv.ParseInt(r.PostForm.Get("toggle"), 10, 64)
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest)
		return
	}
	if _, err := h.lists.ToggleTask(ctx, caller, taskID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.redirect(w, r, back)
}

func (h *handlers) renderList(w http.ResponseWriter, r *http.Request, st *session.State, listID int64, indexType int, dateTaskID int64) {
	ctx := r.Context()

	view, err := h.lists.View(ctx, services.CallerFromSession(st), listID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data, err := h.basePage(ctx, st)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data.View = view
	data.IndexType = indexType
	data.DateTaskID = dateTaskID
	data.Action = "/"
	if indexType == indexList {
		data.Action = listURL(listID)
	}

	if err := h.renderer.Render(w, http.StatusOK, "index", data); err != nil {
		h.logger.Error(ctx, "render failed", "error", err)
	}
}

// addDate shows the due date picker for a task (GET) or stores the picked
// date (POST). An empty date clears the due date.
func (h *handlers) addDate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := stateFrom(ctx)

	listID, ok1 := int64Var(r, "list")
	taskID, ok2 := int64Var(r, "task")
	indexType, ok3 := int64Var(r, "index")
	if !ok1 || !ok2 || !ok3 {
		h.renderError(w, r, http.StatusNotFound)
		return
	}

	back := "/"
	if indexType == indexList {
		back = listURL(listID)
	}

	if r.Method != http.MethodPost {
		h.renderList(w, r, st, listID, int(indexType), taskID)
		return
	}

	due, err := parseDueDate(r.PostFormValue("date"), time.Local)
	if err != nil {
		st.Flash(flashBadDate)
		h.redirect(w, r, back)
		return
	}

	if _, err := h.lists.SetDueDate(ctx, services.CallerFromSession(st), listID, taskID, due); err != nil {
		h.fail(w, r, err)
		return
	}
	h.redirect(w, r, back)
}

// parseDueDate reads the date input as midnight in loc, the zone the
// overdue check compares against. An empty value clears the due date.
func parseDueDate(v string, loc *time.Location) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(dateLayout, v, loc)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// claim saves an anonymous list under the logged-in user. Anonymous
// visitors are sent to log in first, carrying the list id along.
func (h *handlers) claim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := stateFrom(ctx)

	listID, ok := int64Var(r, "list")
	if !ok {
		h.renderError(w, r, http.StatusNotFound)
		return
	}
	back := "/add/" + strconv.FormatInt(listID, 10)

	if !st.Authenticated() {
		st.Flash(flashLoginToSave)
		h.redirect(w, r, "/login/"+strconv.FormatInt(listID, 10))
		return
	}

	caller := services.CallerFromSession(st)

	if r.Method == http.MethodPost {
		_, err := h.lists.Claim(ctx, caller, listID, r.PostFormValue("title"))
		switch {
		case err == nil:
			h.redirect(w, r, listURL(listID))
		case errors.Is(err, common.ErrTitleConflict):
			st.Flash(flashTitleConflict)
			h.redirect(w, r, back)
		case errors.Is(err, common.ErrInvalidInput):
			st.Flash(flashEmptyTitle)
			h.redirect(w, r, back)
		case errors.Is(err, common.ErrUnauthenticated):
			st.Flash(flashLoginToSave)
			h.redirect(w, r, "/login/"+strconv.FormatInt(listID, 10))
		default:
			h.fail(w, r, err)
		}
		return
	}

	list, err := h.lists.AssertOwnership(ctx, caller, listID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data, err := h.basePage(ctx, st)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data.List = list
	if err := h.renderer.Render(w, http.StatusOK, "add", data); err != nil {
		h.logger.Error(ctx, "render failed", "error", err)
	}
}

// backTo is where a mutation of listID returns: home for the session's own
// anonymous list, the list page otherwise.
func backTo(st *session.State, listID int64) string {
	if listID == st.ListID {
		return "/"
	}
	return listURL(listID)
}

// deleteTask removes a single task. It only answers POST so a plain link
// cannot delete anything.
func (h *handlers) deleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := stateFrom(ctx)

	id, ok := int64Var(r, "id")
	if !ok {
		h.renderError(w, r, http.StatusNotFound)
		return
	}

	listID, err := h.lists.DeleteTask(ctx, services.CallerFromSession(st), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.redirect(w, r, backTo(st, listID))
}

// deleteList shows a confirmation form (GET) and removes the list with its
// tasks once the form was answered with "Yes".
func (h *handlers) deleteList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := stateFrom(ctx)
	caller := services.CallerFromSession(st)

	id, ok := int64Var(r, "id")
	if !ok {
		h.renderError(w, r, http.StatusNotFound)
		return
	}

	if r.Method == http.MethodPost {
		if r.PostFormValue("sure") != "Yes" {
			h.redirect(w, r, backTo(st, id))
			return
		}
		if err := h.lists.DeleteList(ctx, caller, id); err != nil {
			h.fail(w, r, err)
			return
		}
		h.redirect(w, r, "/new")
		return
	}

	list, err := h.lists.AssertOwnership(ctx, caller, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data, err := h.basePage(ctx, st)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data.List = list
	if err := h.renderer.Render(w, http.StatusOK, "delete", data); err != nil {
		h.logger.Error(ctx, "render failed", "error", err)
	}
}
