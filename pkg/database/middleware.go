package database

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type acquireFunc func(ctx context.Context, householdID uuid.UUID) (*HouseholdScope, error)

// WithHouseholdContext scopes each request to the household named by the
// {hid} path value. Handlers find the connection with GetHouseholdScope; it
// is released when the handler returns.
func WithHouseholdContext(db *DB, logger *zap.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return householdMiddleware(db.WithHousehold, logger.Named("household"))
}

func householdMiddleware(acquire acquireFunc, logger *zap.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			raw := r.PathValue("hid")
			householdID, err := uuid.Parse(raw)
			if err != nil {
				logger.Debug("Rejected household id", zap.String("hid", raw))
				writeScopeError(w, http.StatusBadRequest, "invalid_household_id", "Invalid household ID format")
				return
			}

			scope, err := acquire(r.Context(), householdID)
			if err != nil {
				logger.Error("Failed to acquire household connection",
					zap.Stringer("household_id", householdID),
					zap.Error(err))
				writeScopeError(w, http.StatusInternalServerError, "database_error", "Database connection error")
				return
			}
			defer scope.Close()

			next(w, r.WithContext(SetHouseholdScope(r.Context(), scope)))
		}
	}
}

// writeScopeError uses the same body shape as the API handlers.
func writeScopeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}{code, message})
}
