package handlers

import (
	"fmt"
	"net/http"

	"github.com/asakaida/kiban/internal/services"
	"go.uber.org/zap"
)

// EntryHandler serves the row routes under /api/{entity}
type EntryHandler struct {
	entryService services.EntryServiceInterface
	logger       *zap.Logger
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entryService services.EntryServiceInterface, logger *zap.Logger) *EntryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntryHandler{
		entryService: entryService,
		logger:       logger,
	}
}

// RegisterRoutes registers the row routes on the given mux.
// The structural routes under /api/entities are more specific and win.
func (h *EntryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/{entity}", h.CreateEntry)
	mux.HandleFunc("GET /api/{entity}", h.GetEntries)
	mux.HandleFunc("PUT /api/{entity}/{id}", h.UpdateEntry)
	mux.HandleFunc("DELETE /api/{entity}/{id}", h.DeleteEntry)
}

// CreateEntry handles POST /api/{entity}
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var data map[string]interface{}
	if err := decodeJSON(w, r, &data); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	id, err := h.entryService.CreateEntry(r.Context(), r.PathValue("entity"), data)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resp := newResponse(http.StatusCreated, fmt.Sprintf("Entry created with ID %d", id))
	resp.ID = &id
	if err := WriteJSON(w, http.StatusCreated, resp); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// GetEntries handles GET /api/{entity}
func (h *EntryHandler) GetEntries(w http.ResponseWriter, r *http.Request) {
	list, err := h.entryService.GetEntries(r.Context(), r.PathValue("entity"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, list); err != nil {
		h.logger.Error("Failed to encode entries", zap.Error(err))
	}
}

// UpdateEntry handles PUT /api/{entity}/{id}
func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	var data map[string]interface{}
	if err := decodeJSON(w, r, &data); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.entryService.UpdateEntry(r.Context(), r.PathValue("entity"), r.PathValue("id"), data); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, newResponse(http.StatusOK, "Entry Updated")); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// DeleteEntry handles DELETE /api/{entity}/{id}
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.entryService.DeleteEntry(r.Context(), r.PathValue("entity"), r.PathValue("id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, newResponse(http.StatusOK, "Entry Deleted")); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
