// Package web serves the encyclopedia over HTTP: request handlers, HTML views
// and the server run loop.
package web

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/aretw0/encyclopedia/internal/logging"
	"github.com/aretw0/encyclopedia/pkg/core"
	"github.com/aretw0/encyclopedia/pkg/forms"
)

// Handlers maps HTTP requests onto the core.Service.
type Handlers struct {
	svc    *core.Service
	views  views
	logger *slog.Logger
}

// HandlersOption configures Handlers.
type HandlersOption func(*Handlers)

// WithLogger sets the logger for request and error logging.
func WithLogger(logger *slog.Logger) HandlersOption {
	return func(h *Handlers) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandlers parses the embedded templates and binds them to svc.
func NewHandlers(svc *core.Service, opts ...HandlersOption) (*Handlers, error) {
	if svc == nil {
		return nil, errors.New("web: service is required")
	}
	v, err := loadViews()
	if err != nil {
		return nil, err
	}
	h := &Handlers{
		svc:    svc,
		views:  v,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Routes returns the full handler, middleware included.
func (h *Handlers) Routes() http.Handler {
	static, _ := fs.Sub(staticFS, "static")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("GET /wiki/{title}", h.entry)
	mux.HandleFunc("GET /search", h.search)
	mux.HandleFunc("GET /new", h.newForm)
	mux.HandleFunc("POST /new", h.create)
	mux.HandleFunc("GET /edit", h.edit)
	mux.HandleFunc("POST /edit", h.edit)
	mux.HandleFunc("POST /changes", h.changes)
	mux.HandleFunc("GET /random", h.random)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	mux.HandleFunc("GET /", h.notFound)

	return withRecovery(h.logger, withRequestLogging(h.logger, withSecurityHeaders(mux)))
}

func (h *Handlers) index(w http.ResponseWriter, r *http.Request) {
	titles, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "index", IndexView{Entries: titles})
}

func (h *Handlers) entry(w http.ResponseWriter, r *http.Request) {
	h.showEntry(w, r, r.PathValue("title"))
}

func (h *Handlers) showEntry(w http.ResponseWriter, r *http.Request, title string) {
	page, err := h.svc.Resolve(r.Context(), title)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderPage(w, r, page)
}

func (h *Handlers) renderPage(w http.ResponseWriter, r *http.Request, page core.Page) {
	h.render(w, r, http.StatusOK, "entry", EntryView{
		Title: page.Title,
		HTML:  template.HTML(page.HTML),
	})
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	form := forms.BindSearch(r.URL.Query())
	if err := form.Validate(); err != nil {
		h.render(w, r, http.StatusOK, "search", SearchView{Messages: forms.MessageList(err)})
		return
	}

	result, err := h.svc.Search(r.Context(), form.Query)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if result.Exact() {
		h.renderPage(w, r, *result.Page)
		return
	}
	h.render(w, r, http.StatusOK, "search", SearchView{
		Layout:  Layout{Query: form.Query},
		Results: result.Matches,
	})
}

func (h *Handlers) newForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "new", NewView{})
}

func (h *Handlers) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	form := forms.BindCreate(r.PostForm)
	if err := form.Validate(); err != nil {
		h.render(w, r, http.StatusOK, "new", NewView{Form: form.EntryForm, Messages: forms.Messages(err)})
		return
	}

	page, err := h.svc.Create(r.Context(), form.Title, form.Content)
	if errors.Is(err, core.ErrAlreadyExists) {
		h.render(w, r, http.StatusOK, "new", NewView{
			Form:  form.EntryForm,
			Error: fmt.Sprintf("Error: Entry '%s' already exists.", form.Title),
		})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderPage(w, r, page)
}

// edit loads the edit form for the "title" field, sent either as a query
// parameter or as the hidden field of an entry page.
func (h *Handlers) edit(w http.ResponseWriter, r *http.Request) {
	title := r.FormValue(forms.FieldTitle)

	entry, err := h.svc.Edit(r.Context(), title)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "edit", EditView{
		Form: forms.EntryForm{Title: entry.Title, Content: entry.Content},
	})
}

func (h *Handlers) changes(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	form := forms.BindEdit(r.PostForm)
	if err := form.Validate(); err != nil {
		h.render(w, r, http.StatusOK, "edit", EditView{Form: form.EntryForm, Messages: forms.Messages(err)})
		return
	}

	page, err := h.svc.Update(r.Context(), form.Title, form.Content)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderPage(w, r, page)
}

func (h *Handlers) random(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Random(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderPage(w, r, page)
}

func (h *Handlers) notFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "error", ErrorView{
		Status:  http.StatusNotFound,
		Message: "The requested page was not found.",
	})
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if err := h.views.render(w, status, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "render failed", "view", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
