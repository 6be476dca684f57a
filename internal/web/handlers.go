package web

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/hpungsan/lectern/internal/config"
	"github.com/hpungsan/lectern/internal/errors"
	"github.com/hpungsan/lectern/internal/ops"
	"github.com/hpungsan/lectern/internal/style"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
}

// HandleList handles GET /runs.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	input := ops.ListInput{
		Style:          r.URL.Query().Get("style"),
		Limit:          parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset:         parseIntParam(r, "offset", 0),
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	}

	result, err := ops.List(h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	styles := style.Styles()
	keys := make([]string, len(styles))
	for i, s := range styles {
		keys[i] = s.Key
	}

	h.renderer.renderPage(w, "list", ListPageData{
		PageData:   h.renderer.page("Runs"),
		Items:      result.Items,
		Pagination: result.Pagination,
		Style:      input.Style,
		Styles:     keys,
		Deleted:    input.IncludeDeleted,
	})
}

// HandleDetail handles GET /runs/{id}: the presenter script rendered as HTML.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Fetch(h.db, ops.FetchInput{
		ID:             r.PathValue("id"),
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
		IncludeScript:  true,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	title := result.Title
	if title == "" {
		title = "Untitled deck"
	}
	h.renderer.renderPage(w, "detail", DetailPageData{
		PageData:     h.renderer.page(title),
		Run:          result,
		RenderedHTML: renderMarkdown(result.Script),
	})
}

// HandleDelete handles DELETE /runs/{id}: soft-delete a run.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Delete(h.db, ops.DeleteInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	http.Redirect(w, r, "/runs", http.StatusSeeOther)
}

// HandlePurge handles POST /runs/purge: permanently delete soft-deleted runs.
func (h *Handlers) HandlePurge(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	if r.FormValue("confirm") != "true" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("confirm parameter must be \"true\""))
		return
	}

	var input ops.PurgeInput
	if days := r.FormValue("older_than_days"); days != "" {
		d, err := strconv.Atoi(days)
		if err != nil {
			h.renderer.renderError(w, r, errors.NewInvalidRequest("older_than_days must be an integer"))
			return
		}
		input.OlderThanDays = &d
	}

	result, err := ops.Purge(h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	http.Redirect(w, r, "/runs?include_deleted=true", http.StatusFound)
}

// HandleStyles handles GET /styles.
func (h *Handlers) HandleStyles(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, ops.Styles())
}

// HandleLevels handles GET /levels.
func (h *Handlers) HandleLevels(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, ops.Levels())
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}
