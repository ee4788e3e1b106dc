package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/aretw0/encyclopedia/pkg/forms"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

var pageNames = []string{"index", "entry", "error", "search", "new", "edit"}

var templateFuncs = template.FuncMap{
	"entryURL":   EntryURL,
	"statusText": http.StatusText,
}

// EntryURL is the path of an entry page.
func EntryURL(title string) string {
	return "/wiki/" + url.PathEscape(title)
}

// views holds one template set per page, each sharing the layout.
type views map[string]*template.Template

func loadViews() (views, error) {
	v := make(views, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templatesFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		v[name] = t
	}
	return v, nil
}

// render executes the page into a buffer first so a template failure never
// leaves a half-written response.
func (v views) render(w http.ResponseWriter, status int, name string, data any) error {
	t, ok := v[name]
	if !ok {
		return fmt.Errorf("unknown view %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

// Layout is embedded by every view model. Query feeds the sidebar search box.
type Layout struct {
	Query string
}

// IndexView lists every entry.
type IndexView struct {
	Layout
	Entries []string
}

// EntryView shows one rendered entry.
type EntryView struct {
	Layout
	Title string
	HTML  template.HTML
}

// ErrorView reports a failure to the visitor.
type ErrorView struct {
	Layout
	Status  int
	Message string
}

// SearchView shows the titles matching a query, or why the query was rejected.
type SearchView struct {
	Layout
	Results  []string
	Messages []string
}

// NewView is the create form.
type NewView struct {
	Layout
	Form     forms.EntryForm
	Messages map[string]string
	Error    string
}

// EditView is the edit form.
type EditView struct {
	Layout
	Form     forms.EntryForm
	Messages map[string]string
}
