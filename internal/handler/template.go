package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gramarogya/nondvahi/internal/auth"
	"github.com/gramarogya/nondvahi/internal/model"
	"github.com/gramarogya/nondvahi/web"
)

var funcs = template.FuncMap{
	"yesNo": func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	},
	"isoDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(model.DateLayout)
	},
	"join": strings.Join,
}

// Templates holds one parsed set per page: the shared layout plus the page's
// own "content" block.
type Templates struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

var pageNames = []string{
	"dashboard", "households", "members", "beneficiaries",
	"reports", "documents", "diary_edit", "admin",
}

func NewTemplates(logger *slog.Logger) (*Templates, error) {
	t := &Templates{pages: make(map[string]*template.Template), logger: logger}
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(web.Templates,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		t.pages[name] = tmpl
	}
	login, err := template.New("login.html").Funcs(funcs).ParseFS(web.Templates, "templates/login.html")
	if err != nil {
		return nil, fmt.Errorf("parse login template: %w", err)
	}
	t.pages["login"] = login
	return t, nil
}

// pageData is what every tab page renders with.
type pageData struct {
	Title   string
	Tab     string
	User    auth.AuthContext
	IsAdmin bool
	Message string
	Error   string
	Data    any
}

func newPage(r *http.Request, tab, title string) pageData {
	ac, _ := auth.FromContext(r.Context())
	return pageData{
		Title:   title,
		Tab:     tab,
		User:    ac,
		IsAdmin: auth.IsAdmin(r.Context()),
	}
}

// render buffers the page; a template error becomes a plain 500.
func (t *Templates) render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := t.pages[name]
	if !ok {
		t.logger.Error("unknown template", "name", name)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	entry := "layout"
	if name == "login" {
		entry = "login.html"
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, entry, data); err != nil {
		t.logger.Error("template error", "name", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
