package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/thenoetrevino/todo/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type indexView struct {
	Tasks []*models.Task
}

type updateView struct {
	Task *models.Task
}

// render executes name into a buffer first so a template failure never
// leaves a half-written page behind.
func render(w http.ResponseWriter, name string, view any) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, view); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := buf.WriteTo(w)
	return err
}
