package web

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// router registers the numeric routes before the catch-all /{new}.
func (h *handlers) router() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.renderError(w, r, http.StatusNotFound)
	})

	r.Use(h.requireCSRF)

	get, post, both := []string{http.MethodGet}, []string{http.MethodPost}, []string{http.MethodGet, http.MethodPost}

	r.HandleFunc("/", h.home).Methods(both...)
	r.HandleFunc("/logout", h.logout).Methods(get...)
	r.HandleFunc("/register", h.register).Methods(both...)
	r.HandleFunc("/register/{save:[0-9]+}", h.register).Methods(both...)
	r.HandleFunc("/login", h.login).Methods(both...)
	r.HandleFunc("/login/{save:[0-9]+}", h.login).Methods(both...)
	r.HandleFunc("/forgot_password/{phase:[01]}", h.forgotPassword).Methods(both...)
	r.HandleFunc("/add/{list:[0-9]+}", h.claim).Methods(both...)
	r.HandleFunc("/add_date/{list:[0-9]+}/{task:[0-9]+}/{index:[01]}", h.addDate).Methods(both...)
	r.HandleFunc("/delete/todo/{id:[0-9]+}", h.deleteTask).Methods(post...)
	r.HandleFunc("/delete/list/{id:[0-9]+}", h.deleteList).Methods(both...)
	r.HandleFunc("/{id:[0-9]+}", h.displayList).Methods(both...)
	r.HandleFunc("/{new}", h.home).Methods(both...)

	return r
}

// int64Var reads a numeric route variable; the route patterns guarantee
// digits, so only overflow can fail.
func int64Var(r *http.Request, name string) (int64, bool) {
	v, ok := mux.Vars(r)[name]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	return n, err == nil
}

func listURL(id int64) string {
	return "/" + strconv.FormatInt(id, 10)
}
