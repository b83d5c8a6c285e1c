package render

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"strings"
	"time"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Funcs are the template helpers shared by every page template.
var Funcs = template.FuncMap{
	"formatTime": func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
	"lower":      strings.ToLower,
	"join":       strings.Join,
}

var pageTemplate = template.Must(template.New("render").Funcs(Funcs).ParseFS(templateFS, "templates/*.tmpl"))

// Page is the data for the single-URL analysis page.
type Page struct {
	Title       string
	Action      string
	Endpoint    string
	Input       string
	Strict      bool
	Notice      string
	View        *View
	GeneratedAt time.Time
}

// WritePage renders the full analysis page. Every value goes through
// html/template, so warning text never becomes markup.
func WritePage(w io.Writer, p Page) error {
	if p.Title == "" {
		p.Title = "PhishAID"
	}
	if p.Action == "" {
		p.Action = "/"
	}
	if p.GeneratedAt.IsZero() {
		p.GeneratedAt = time.Now()
	}
	return pageTemplate.ExecuteTemplate(w, "page", p)
}

// ResultHTML renders only the result section of v, for embedding in other
// templates.
func ResultHTML(v View) (template.HTML, error) {
	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "result", v); err != nil {
		return "", err
	}
	// #nosec G203 -- produced by html/template above
	return template.HTML(buf.String()), nil
}

// Styles returns the shared stylesheet.
func Styles() (template.CSS, error) {
	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "styles", nil); err != nil {
		return "", err
	}
	return template.CSS(buf.String()), nil // #nosec G203 -- static stylesheet
}
