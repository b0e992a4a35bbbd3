package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/veslatte/clipdex/internal/apperr"
	"github.com/veslatte/clipdex/internal/catalog"
	"github.com/veslatte/clipdex/internal/settings"
)

// Handler holds API route handlers.
type Handler struct {
	engine *catalog.Engine
	store  *settings.Store
}

// NewHandler creates a new Handler.
func NewHandler(engine *catalog.Engine, store *settings.Store) *Handler {
	return &Handler{engine: engine, store: store}
}

// queryFromRequest parses the view parameters, falling back to the default
// view (newest first, all records) for absent or unknown values.
func queryFromRequest(r *http.Request) catalog.Query {
	q := r.URL.Query()

	query := catalog.Query{
		Sort:   catalog.SortDate,
		Dir:    catalog.Desc,
		Filter: catalog.FilterAll,
		Search: q.Get("q"),
	}

	switch catalog.SortKey(q.Get("sort")) {
	case catalog.SortTitle:
		query.Sort = catalog.SortTitle
	case catalog.SortPath:
		query.Sort = catalog.SortPath
	case catalog.SortRead:
		query.Sort = catalog.SortRead
	case catalog.SortDate:
		query.Sort = catalog.SortDate
	}

	if catalog.Direction(q.Get("dir")) == catalog.Asc {
		query.Dir = catalog.Asc
	}

	switch catalog.ReadFilter(q.Get("filter")) {
	case catalog.FilterUnread:
		query.Filter = catalog.FilterUnread
	case catalog.FilterRead:
		query.Filter = catalog.FilterRead
	}

	return query
}

// GetCatalog handles GET /api/catalog.
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Snapshot()
	records := catalog.ApplyQuery(snap.Records, queryFromRequest(r))
	writeJSON(w, http.StatusOK, CatalogResponse{
		Records: records,
		Total:   len(records),
		Status:  h.engine.Status(),
	})
}

// RefreshCatalog handles POST /api/catalog/refresh.
func (h *Handler) RefreshCatalog(w http.ResponseWriter, _ *http.Request) {
	h.engine.RequestRefresh()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refresh requested"})
}

// CatalogStatus handles GET /api/catalog/status.
func (h *Handler) CatalogStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Status())
}

// SetRead handles PUT /api/catalog/read.
func (h *Handler) SetRead(w http.ResponseWriter, r *http.Request) {
	var req SetReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}

	if err := h.engine.SetRead(r.Context(), req.Path, req.Read); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("record not found"))
			return
		}
		slog.Error("set read failed", slog.String("path", req.Path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("write-through failed"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"path": req.Path, "read": req.Read})
}

// ListExclusions handles GET /api/exclusions.
func (h *Handler) ListExclusions(w http.ResponseWriter, _ *http.Request) {
	rules := h.store.Current().IgnoredDirectories
	if rules == nil {
		rules = []string{}
	}
	writeJSON(w, http.StatusOK, ExclusionsResponse{Rules: rules})
}

// AddExclusion handles POST /api/exclusions.
func (h *Handler) AddExclusion(w http.ResponseWriter, r *http.Request) {
	var req ExclusionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.store.AddRule(req.Rule); err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			writeJSON(w, http.StatusConflict, errorBody("rule already exists"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusCreated, ExclusionsResponse{Rules: h.store.Current().IgnoredDirectories})
}

// RemoveExclusion handles DELETE /api/exclusions.
func (h *Handler) RemoveExclusion(w http.ResponseWriter, r *http.Request) {
	var req ExclusionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.store.RemoveRule(req.Rule); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("rule not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearExclusions handles DELETE /api/exclusions/all.
func (h *Handler) ClearExclusions(w http.ResponseWriter, _ *http.Request) {
	if err := h.store.ClearRules(); err != nil {
		slog.Error("clear exclusions failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSettings handles GET /api/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Current())
}

// UpdateSettings handles PUT /api/settings.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.store.UpdateEngine(req.SourceProperties, req.ReadProperty, req.IncludeFrontmatterTags); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := h.store.SetPanelExpanded(req.PanelExpanded); err != nil {
		slog.Error("persist panel state failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, h.store.Current())
}
