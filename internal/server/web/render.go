package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/dmitrijs2005/todolist/internal/server/models"
	"github.com/dmitrijs2005/todolist/internal/server/services"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer writes a named page with the given status.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any) error
}

var pages = []string{"index", "add", "delete", "auth", "error"}

// TemplateRenderer renders the embedded html/template pages, each inside
// the shared layout.
type TemplateRenderer struct {
	templates map[string]*template.Template
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	r := &TemplateRenderer{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New("layout.html").ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("error parsing template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Render executes into a buffer first so a template error never leaves a
// half-written page behind.
func (r *TemplateRenderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Form modes of the auth page.
const (
	modeRegister  = "register"
	modeLogin     = "login"
	modeResetMail = "reset-email"
	modeResetCode = "reset-code"
)

type pageData struct {
	User      *models.User
	Lists     []*models.List
	Flashes   []string
	CSRFToken string

	// index
	View       *services.ListView
	IndexType  int
	Action     string
	DateTaskID int64

	// add, delete
	List *models.List

	// auth
	Mode       string
	SaveListID int64
	Email      string
	Nonce      string

	// error
	Status  int
	Message string
}
