package database

import (
	"context"
)

type contextKey string

const (
	// HouseholdScopeKey is the context key for the household-scoped database connection.
	HouseholdScopeKey contextKey = "householdScope"
)

// GetHouseholdScope retrieves the household-scoped database connection from context.
// Returns nil and false if not present.
func GetHouseholdScope(ctx context.Context) (*HouseholdScope, bool) {
	scope, ok := ctx.Value(HouseholdScopeKey).(*HouseholdScope)
	return scope, ok
}

// SetHouseholdScope stores the household-scoped database connection in context.
func SetHouseholdScope(ctx context.Context, scope *HouseholdScope) context.Context {
	return context.WithValue(ctx, HouseholdScopeKey, scope)
}
