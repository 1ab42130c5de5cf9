// Package view renders the server-side HTML pages from templates embedded in the binary.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/validation"

	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names, one per template file besides the layout.
const (
	PageIndex      = "index"
	PageLogin      = "login"
	PageSignup     = "signup"
	PageSuccess    = "success"
	PageTreatments = "treatments"
	PageSearch     = "search_appointment"
)

var pageNames = []string{PageIndex, PageLogin, PageSignup, PageSuccess, PageTreatments, PageSearch}

// Page is the data every template receives. Data holds the page-specific payload.
type Page struct {
	Title   string
	User    *middleware.Identity
	Flashes []entity.Flash
	Form    map[string]string
	Errors  map[string][]string
	Next    string
	Data    interface{}
}

// FieldErrors returns the messages recorded for field.
func (p Page) FieldErrors(field string) []string {
	return p.Errors[field]
}

// NonFieldErrors returns the messages that belong to the form as a whole.
func (p Page) NonFieldErrors() []string {
	return p.Errors[validation.NonField]
}

type Renderer struct {
	log   *logrus.Logger
	pages map[string]*template.Template
}

func NewRenderer(log *logrus.Logger) (*Renderer, error) {
	funcs := template.FuncMap{
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New("base.html").Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{log: log, pages: pages}, nil
}

// Render writes the named page. The page is rendered into a buffer first so a template error
// never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) {
	tmpl, ok := r.pages[name]
	if !ok {
		r.log.Errorf("Unknown template %q", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", page); err != nil {
		r.log.Errorf("Failed to render template %s: %+v", name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
