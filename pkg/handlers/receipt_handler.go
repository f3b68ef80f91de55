package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
	"github.com/jpkday/smartsave-ai-sub000/pkg/reconcile"
	"github.com/jpkday/smartsave-ai-sub000/pkg/services"
)

// TenantMiddleware wraps a handler with a household-scoped database connection.
type TenantMiddleware func(http.HandlerFunc) http.HandlerFunc

// ReconcileRequest for POST /api/households/{hid}/reconcile
type ReconcileRequest struct {
	models.Receipt
	UseHints bool `json:"use_hints"`
}

// ReconcileResponse carries one row per receipt line, in line order.
// NeedsReview counts the low-confidence rows a reviewer has to look at.
type ReconcileResponse struct {
	Rows        []models.ReconciliationRow `json:"rows"`
	NeedsReview int                        `json:"needs_review"`
}

// ReceiptHandler handles receipt reconciliation, review and finalize requests.
type ReceiptHandler struct {
	reconcileService services.ReconciliationService
	reviewService    services.ReviewService
	finalizeService  services.FinalizeService
	logger           *zap.Logger
}

// NewReceiptHandler creates a new receipt handler.
func NewReceiptHandler(
	reconcileService services.ReconciliationService,
	reviewService services.ReviewService,
	finalizeService services.FinalizeService,
	logger *zap.Logger,
) *ReceiptHandler {
	return &ReceiptHandler{
		reconcileService: reconcileService,
		reviewService:    reviewService,
		finalizeService:  finalizeService,
		logger:           logger,
	}
}

// RegisterRoutes registers the receipt handler's routes on the given mux.
func (h *ReceiptHandler) RegisterRoutes(mux *http.ServeMux, tenantMiddleware TenantMiddleware) {
	base := "/api/households/{hid}"

	mux.HandleFunc("POST "+base+"/reconcile", tenantMiddleware(h.Reconcile))
	mux.HandleFunc("POST "+base+"/review", tenantMiddleware(h.Review))
	mux.HandleFunc("POST "+base+"/finalize", tenantMiddleware(h.Finalize))
}

// Reconcile handles POST /api/households/{hid}/reconcile
func (h *ReceiptHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	householdID, ok := ParseHouseholdID(w, r, h.logger)
	if !ok {
		return
	}

	var req ReconcileRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	rows, err := h.reconcileService.Reconcile(r.Context(), householdID, &req.Receipt, req.UseHints)
	if err != nil {
		h.logger.Error("Failed to reconcile receipt",
			zap.String("household_id", householdID.String()),
			zap.Int("lines", len(req.Lines)),
			zap.Error(err))
		writeServiceError(w, err, h.logger)
		return
	}

	response := ReconcileResponse{Rows: rows, NeedsReview: reconcile.Rows(rows).NeedsReview()}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Review handles POST /api/households/{hid}/review
// Edits are applied to the posted rows and the result is returned; nothing is stored.
func (h *ReceiptHandler) Review(w http.ResponseWriter, r *http.Request) {
	householdID, ok := ParseHouseholdID(w, r, h.logger)
	if !ok {
		return
	}

	var req services.ReviewRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	result, err := h.reviewService.Review(r.Context(), householdID, &req)
	if err != nil {
		h.logger.Debug("Rejected review edits",
			zap.String("household_id", householdID.String()),
			zap.Int("edits", len(req.Edits)),
			zap.Error(err))
		writeServiceError(w, err, h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: result}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Finalize handles POST /api/households/{hid}/finalize
func (h *ReceiptHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	householdID, ok := ParseHouseholdID(w, r, h.logger)
	if !ok {
		return
	}

	var req services.FinalizeRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	result, err := h.finalizeService.Finalize(r.Context(), householdID, &req)
	if err != nil {
		h.logger.Error("Failed to finalize receipt",
			zap.String("household_id", householdID.String()),
			zap.Int("rows", len(req.Rows)),
			zap.Error(err))
		writeServiceError(w, err, h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: result}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
