package handlers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jpkday/smartsave-ai-sub000/pkg/services"
	"github.com/jpkday/smartsave-ai-sub000/pkg/units"
)

// UnitPriceResponse for GET /api/unit-price
type UnitPriceResponse struct {
	Name      string           `json:"name"`
	Price     decimal.Decimal  `json:"price"`
	Parsed    units.Info       `json:"parsed"`
	UnitPrice *units.UnitPrice `json:"unit_price,omitempty"`
	Display   string           `json:"display,omitempty"`
}

// PriceHandler serves price history and ad-hoc unit price calculations.
type PriceHandler struct {
	priceService services.PriceService
	logger       *zap.Logger
}

// NewPriceHandler creates a new price handler.
func NewPriceHandler(priceService services.PriceService, logger *zap.Logger) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
		logger:       logger,
	}
}

// RegisterRoutes registers the price handler's routes on the given mux.
func (h *PriceHandler) RegisterRoutes(mux *http.ServeMux, tenantMiddleware TenantMiddleware) {
	mux.HandleFunc("GET /api/households/{hid}/items/{iid}/prices", tenantMiddleware(h.History))
	mux.HandleFunc("GET /api/unit-price", h.UnitPrice)
}

// History handles GET /api/households/{hid}/items/{iid}/prices?limit=N
func (h *PriceHandler) History(w http.ResponseWriter, r *http.Request) {
	householdID, ok := ParseHouseholdID(w, r, h.logger)
	if !ok {
		return
	}
	itemID, ok := ParseItemID(w, r, h.logger)
	if !ok {
		return
	}
	limit, ok := parseLimit(w, r, h.logger)
	if !ok {
		return
	}

	history, err := h.priceService.History(r.Context(), householdID, itemID, limit)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: history}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UnitPrice handles GET /api/unit-price?name=...&price=...
// A name without package-size notation is not an error; unit_price is omitted.
func (h *PriceHandler) UnitPrice(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "name is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	price, err := decimal.NewFromString(r.URL.Query().Get("price"))
	if err != nil || !price.IsPositive() {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_price", "price must be a positive decimal"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := UnitPriceResponse{
		Name:   name,
		Price:  price,
		Parsed: units.Parse(name),
	}
	if up, ok := units.ComputeUnitPrice(name, price); ok {
		response.UnitPrice = &up
		response.Display = up.String()
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
