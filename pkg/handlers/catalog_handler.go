package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jpkday/smartsave-ai-sub000/pkg/services"
)

// RenameItemRequest for PATCH /api/households/{hid}/items/{iid}
type RenameItemRequest struct {
	Name string `json:"name"`
}

// CatalogHandler serves catalog maintenance and learned aliases.
type CatalogHandler struct {
	catalogService services.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalogService services.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers the catalog handler's routes on the given mux.
func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux, tenantMiddleware TenantMiddleware) {
	base := "/api/households/{hid}"

	mux.HandleFunc("PATCH "+base+"/items/{iid}", tenantMiddleware(h.Rename))
	mux.HandleFunc("GET "+base+"/aliases", tenantMiddleware(h.Aliases))
}

// Rename handles PATCH /api/households/{hid}/items/{iid}
func (h *CatalogHandler) Rename(w http.ResponseWriter, r *http.Request) {
	householdID, ok := ParseHouseholdID(w, r, h.logger)
	if !ok {
		return
	}
	itemID, ok := ParseItemID(w, r, h.logger)
	if !ok {
		return
	}

	var req RenameItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "name is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	item, err := h.catalogService.Rename(r.Context(), householdID, itemID, req.Name)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: item}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Aliases handles GET /api/households/{hid}/aliases?store_id=...
// Without store_id only global aliases are listed.
func (h *CatalogHandler) Aliases(w http.ResponseWriter, r *http.Request) {
	householdID, ok := ParseHouseholdID(w, r, h.logger)
	if !ok {
		return
	}

	var storeID *uuid.UUID
	if raw := r.URL.Query().Get("store_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_store_id", "Invalid store ID format"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		storeID = &id
	}

	aliases, err := h.catalogService.Aliases(r.Context(), householdID, storeID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: aliases}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
