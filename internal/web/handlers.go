package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/duely/internal/model"
	"github.com/idilsaglam/duely/internal/store/jsonstore"
	"github.com/idilsaglam/duely/internal/todo"
)

// Handler serves the web UI pages.
type Handler struct {
	store    *jsonstore.Store
	renderer *Renderer
	logger   *log.Logger

	// Serializes this process's read-mutate-write cycles. Other
	// processes writing the same file still race (last writer wins).
	mu sync.Mutex
}

// NewHandler creates a web handler over the given store.
func NewHandler(store *jsonstore.Store, renderer *Renderer, logger *log.Logger) *Handler {
	return &Handler{store: store, renderer: renderer, logger: logger}
}

// RegisterRoutes registers all web UI routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.HandleIndex)
	mux.HandleFunc("POST /add", h.HandleAdd)
	mux.HandleFunc("GET /edit/{id}", h.HandleEditPage)
	mux.HandleFunc("POST /edit/{id}", h.HandleEdit)
	mux.HandleFunc("POST /toggle/{id}", h.HandleToggle)
	mux.HandleFunc("POST /delete/{id}", h.HandleDelete)
	mux.HandleFunc("POST /clear", h.HandleClear)
}

// PageData contains common data passed to all templates. Stats come
// from an explicit Summary call in each handler.
type PageData struct {
	Title        string
	Stats        todo.Stats
	FlashMessage string
	FlashType    string // "success", "error", "info"
}

// ItemView decorates an Item with display-ready fields.
type ItemView struct {
	model.Item
	DueText   string
	IsOverdue bool
}

// IndexData contains data for the list page.
type IndexData struct {
	PageData
	Filter string
	Items  []ItemView
}

// EditData contains data for the edit page.
type EditData struct {
	PageData
	Item   ItemView
	Filter string
}

// HandleIndex handles GET / - the item list.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	filter, _ := todo.ParseFilter(r.URL.Query().Get("filter"))

	h.mu.Lock()
	items, err := todo.List(h.store, filter)
	h.mu.Unlock()
	if err != nil {
		h.serverError(w, "list items", err)
		return
	}

	today := model.Today()
	data := IndexData{
		PageData: h.pageData(r, "Tasks", todo.Tally(items, today)),
		Filter:   filter.String(),
		Items:    viewsOf(items, today),
	}
	// The filtered list is not the whole collection; stats always are.
	if filter != todo.FilterAll {
		h.mu.Lock()
		st, err := todo.Summary(h.store, today)
		h.mu.Unlock()
		if err != nil {
			h.serverError(w, "stats", err)
			return
		}
		data.Stats = st
	}

	if err := h.renderer.Render(w, "index.html", data); err != nil {
		h.serverError(w, "render index", err)
	}
}

// HandleAdd handles POST /add.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	title := r.FormValue("title")
	due := r.FormValue("due")

	h.mu.Lock()
	it, err := todo.Add(h.store, title, due)
	h.mu.Unlock()
	if err != nil {
		h.redirectWithError(w, r, err)
		return
	}
	h.logger.Info("item added", "id", it.ID)
	h.redirectFlash(w, r, "Added #"+strconv.Itoa(it.ID)+": "+it.Title, "success")
}

// HandleEditPage handles GET /edit/{id} - the edit form.
func (h *Handler) HandleEditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.redirectFlash(w, r, "Invalid item id", "error")
		return
	}

	h.mu.Lock()
	it, err := todo.Get(h.store, id)
	h.mu.Unlock()
	if err != nil {
		h.redirectWithError(w, r, err)
		return
	}

	today := model.Today()
	data := EditData{
		PageData: h.pageData(r, "Edit #"+strconv.Itoa(it.ID), todo.Stats{}),
		Item:     viewOf(it, today),
		Filter:   r.URL.Query().Get("filter"),
	}
	h.mu.Lock()
	st, err := todo.Summary(h.store, today)
	h.mu.Unlock()
	if err != nil {
		h.serverError(w, "stats", err)
		return
	}
	data.Stats = st

	if err := h.renderer.Render(w, "edit.html", data); err != nil {
		h.serverError(w, "render edit", err)
	}
}

// HandleEdit handles POST /edit/{id}.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.redirectFlash(w, r, "Invalid item id", "error")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	title := r.FormValue("title")
	due := r.FormValue("due")
	opts := todo.EditOpts{
		Title:    &title,
		ClearDue: r.FormValue("clear_due") == "on",
		Undone:   r.FormValue("undone") == "on",
	}
	if due != "" {
		opts.Due = &due
	}

	h.mu.Lock()
	it, err := todo.Edit(h.store, id, opts)
	h.mu.Unlock()
	if err != nil {
		h.redirectWithError(w, r, err)
		return
	}
	h.logger.Info("item updated", "id", it.ID)
	h.redirectFlash(w, r, "Updated #"+strconv.Itoa(it.ID), "success")
}

// HandleToggle handles POST /toggle/{id}. The act query parameter
// forces a direction (done/undone); the default flips.
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.redirectFlash(w, r, "Invalid item id", "error")
		return
	}

	h.mu.Lock()
	err := h.toggle(id, r.URL.Query().Get("act"))
	h.mu.Unlock()
	if err != nil {
		h.redirectWithError(w, r, err)
		return
	}
	http.Redirect(w, r, indexURL(r, nil), http.StatusSeeOther)
}

func (h *Handler) toggle(id int, act string) error {
	switch act {
	case "done":
		_, err := todo.Complete(h.store, id)
		return err
	case "undone":
		_, err := todo.Uncomplete(h.store, id)
		return err
	default:
		it, err := todo.Get(h.store, id)
		if err != nil {
			return err
		}
		if it.Done {
			_, err = todo.Uncomplete(h.store, id)
		} else {
			_, err = todo.Complete(h.store, id)
		}
		return err
	}
}

// HandleDelete handles POST /delete/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.redirectFlash(w, r, "Invalid item id", "error")
		return
	}

	h.mu.Lock()
	_, err := todo.Delete(h.store, id)
	h.mu.Unlock()
	if err != nil {
		h.redirectWithError(w, r, err)
		return
	}
	h.logger.Info("item deleted", "id", id)
	h.redirectFlash(w, r, "Deleted #"+strconv.Itoa(id), "info")
}

// HandleClear handles POST /clear with mode=done|all.
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	mode := todo.ClearDone
	if r.FormValue("mode") == "all" {
		mode = todo.ClearAll
	}

	h.mu.Lock()
	n, err := todo.Clear(h.store, mode)
	h.mu.Unlock()
	if err != nil {
		h.redirectWithError(w, r, err)
		return
	}
	h.redirectFlash(w, r, "Removed "+strconv.Itoa(n)+" item(s)", "info")
}

// -------------- helpers --------------

func (h *Handler) pageData(r *http.Request, title string, st todo.Stats) PageData {
	return PageData{
		Title:        title,
		Stats:        st,
		FlashMessage: r.URL.Query().Get("flash"),
		FlashType:    r.URL.Query().Get("kind"),
	}
}

// redirectFlash sends the browser back to the list with a flash message
// carried in query parameters (PRG).
func (h *Handler) redirectFlash(w http.ResponseWriter, r *http.Request, msg, kind string) {
	http.Redirect(w, r, indexURL(r, map[string]string{"flash": msg, "kind": kind}), http.StatusSeeOther)
}

// redirectWithError turns domain errors into a flash on the list page.
// Storage problems are the only thing rendered as a 500.
func (h *Handler) redirectWithError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *todo.ValidationError
	switch {
	case errors.As(err, &ve):
		h.redirectFlash(w, r, ve.Error(), "error")
	case errors.Is(err, todo.ErrNotFound):
		h.redirectFlash(w, r, err.Error(), "error")
	default:
		h.serverError(w, "storage", err)
	}
}

func (h *Handler) serverError(w http.ResponseWriter, what string, err error) {
	h.logger.Error(what, "err", err)
	h.renderer.RenderError(w, http.StatusInternalServerError, err.Error())
}

// indexURL builds the list URL, preserving the active filter and adding
// extra query parameters.
func indexURL(r *http.Request, extra map[string]string) string {
	q := url.Values{}
	if f := r.URL.Query().Get("filter"); f != "" {
		q.Set("filter", f)
	} else if f := r.FormValue("filter"); f != "" {
		q.Set("filter", f)
	}
	for k, v := range extra {
		if v != "" {
			q.Set(k, v)
		}
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func viewOf(it model.Item, today model.Date) ItemView {
	v := ItemView{Item: it}
	if it.Due != nil {
		v.DueText = it.Due.String()
	}
	v.IsOverdue = it.Overdue(today)
	return v
}

func viewsOf(items []model.Item, today model.Date) []ItemView {
	out := make([]ItemView, len(items))
	for i, it := range items {
		out[i] = viewOf(it, today)
	}
	return out
}
