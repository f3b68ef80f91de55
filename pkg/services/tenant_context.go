package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/jpkday/smartsave-ai-sub000/pkg/database"
)

// HouseholdContextFunc acquires a household-scoped database connection.
// Returns the scoped context, a cleanup function (MUST be called), and any error.
// Used by callers outside the HTTP middleware, such as MCP tools.
type HouseholdContextFunc func(ctx context.Context, householdID uuid.UUID) (context.Context, func(), error)

// NewHouseholdContextFunc creates a HouseholdContextFunc that uses the given database.
func NewHouseholdContextFunc(db *database.DB) HouseholdContextFunc {
	return func(ctx context.Context, householdID uuid.UUID) (context.Context, func(), error) {
		scope, err := db.WithHousehold(ctx, householdID)
		if err != nil {
			return nil, nil, err
		}
		householdCtx := database.SetHouseholdScope(ctx, scope)
		return householdCtx, func() { scope.Close() }, nil
	}
}
