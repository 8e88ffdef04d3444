// Package view holds the embedded HTML templates rendered by the handlers.
package view

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/snnyvrz/locallibrary/internal/model"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"statusClass": StatusClass,
}

// New parses every embedded template. Pages are addressed by their define
// name, e.g. "author_list".
func New() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return tmpl, nil
}

func Must() *template.Template {
	tmpl, err := New()
	if err != nil {
		panic(err)
	}
	return tmpl
}

// StatusClass maps an instance status to a bootstrap text class.
func StatusClass(s model.Status) string {
	switch s {
	case model.StatusAvailable:
		return "text-success"
	case model.StatusMaintenance:
		return "text-danger"
	default:
		return "text-warning"
	}
}
