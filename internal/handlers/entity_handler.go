package handlers

import (
	"fmt"
	"net/http"

	"github.com/asakaida/kiban/internal/entities"
	"github.com/asakaida/kiban/internal/services"
	"go.uber.org/zap"
)

// EntityHandler serves the structural routes under /api/entities
type EntityHandler struct {
	schemaService services.SchemaServiceInterface
	logger        *zap.Logger
}

// NewEntityHandler creates a new EntityHandler
func NewEntityHandler(schemaService services.SchemaServiceInterface, logger *zap.Logger) *EntityHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntityHandler{
		schemaService: schemaService,
		logger:        logger,
	}
}

// RegisterRoutes registers the structural routes on the given mux.
func (h *EntityHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/entities", h.CreateEntity)
	mux.HandleFunc("GET /api/entities", h.ListEntities)
	mux.HandleFunc("GET /api/entities/{name}", h.DescribeEntity)
	mux.HandleFunc("POST /api/entities/add-attribute", h.AddAttribute)
	mux.HandleFunc("POST /api/entities/delete-attribute", h.DeleteAttribute)
	mux.HandleFunc("POST /api/entities/update-attribute", h.UpdateAttribute)
}

// CreateEntity handles POST /api/entities
func (h *EntityHandler) CreateEntity(w http.ResponseWriter, r *http.Request) {
	var req CreateEntityRequest
	if err := h.bind(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	entity := &entities.Entity{Name: req.EntityName, Attributes: req.Attributes}
	if err := h.schemaService.CreateEntity(r.Context(), entity); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.respond(w, http.StatusCreated, fmt.Sprintf("Entity %s created", req.EntityName))
}

// ListEntities handles GET /api/entities
func (h *EntityHandler) ListEntities(w http.ResponseWriter, r *http.Request) {
	names, err := h.schemaService.ListEntities(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if names == nil {
		names = []string{}
	}

	if err := WriteJSON(w, http.StatusOK, EntityListResponse{Entities: names}); err != nil {
		h.logger.Error("Failed to encode entity list", zap.Error(err))
	}
}

// DescribeEntity handles GET /api/entities/{name}
func (h *EntityHandler) DescribeEntity(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	columns, err := h.schemaService.DescribeEntity(r.Context(), name)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, EntityDescription{EntityName: name, Attributes: columns}); err != nil {
		h.logger.Error("Failed to encode entity description", zap.Error(err))
	}
}

// AddAttribute handles POST /api/entities/add-attribute
func (h *EntityHandler) AddAttribute(w http.ResponseWriter, r *http.Request) {
	var req AddAttributeRequest
	if err := h.bind(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.schemaService.AddAttribute(r.Context(), req.EntityName, req.Attribute); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.respond(w, http.StatusOK, fmt.Sprintf("Attribute %s added to entity %s", req.Attribute.Name, req.EntityName))
}

// DeleteAttribute handles POST /api/entities/delete-attribute
func (h *EntityHandler) DeleteAttribute(w http.ResponseWriter, r *http.Request) {
	var req DeleteAttributeRequest
	if err := h.bind(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.schemaService.DeleteAttribute(r.Context(), req.EntityName, req.AttributeName); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.respond(w, http.StatusOK, fmt.Sprintf("Attribute %s deleted from entity %s", req.AttributeName, req.EntityName))
}

// UpdateAttribute handles POST /api/entities/update-attribute
func (h *EntityHandler) UpdateAttribute(w http.ResponseWriter, r *http.Request) {
	var req UpdateAttributeRequest
	if err := h.bind(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.schemaService.UpdateAttribute(r.Context(), req.EntityName, req.OldAttribute, req.NewAttribute); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.respond(w, http.StatusOK, fmt.Sprintf("Attribute %s updated in entity %s", req.OldAttribute.Name, req.EntityName))
}

func (h *EntityHandler) bind(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := decodeJSON(w, r, dst); err != nil {
		return err
	}
	return validateRequest(dst)
}

func (h *EntityHandler) respond(w http.ResponseWriter, statusCode int, message string) {
	if err := WriteJSON(w, statusCode, newResponse(statusCode, message)); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
