package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jpkday/smartsave-ai-sub000/pkg/apperrors"
	"github.com/jpkday/smartsave-ai-sub000/pkg/database"
	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
)

// AliasRepository provides data access for learned item aliases.
// Aliases are insert-only; re-learning an existing alias is a no-op.
type AliasRepository interface {
	ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]*models.Alias, error)
	// ListForStore returns global aliases plus those scoped to storeID.
	ListForStore(ctx context.Context, householdID uuid.UUID, storeID *uuid.UUID) ([]*models.Alias, error)
	// Insert stores the alias unless one with the same text exists in the same
	// store scope. inserted is false when the alias was already known.
	Insert(ctx context.Context, alias *models.Alias) (inserted bool, err error)
}

type aliasRepository struct{}

// NewAliasRepository creates a new AliasRepository.
func NewAliasRepository() AliasRepository {
	return &aliasRepository{}
}

var _ AliasRepository = (*aliasRepository)(nil)

const aliasColumns = `id, household_id, alias, item_id, store_id, created_at`

func (r *aliasRepository) ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]*models.Alias, error) {
	scope, ok := database.GetHouseholdScope(ctx)
	if !ok {
		return nil, apperrors.ErrNoTenantScope
	}

	query := `SELECT ` + aliasColumns + `
		FROM item_aliases
		WHERE household_id = $1
		ORDER BY created_at, id`

	rows, err := scope.DB().Query(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list aliases: %w", err)
	}
	return collectAliases(rows)
}

func (r *aliasRepository) ListForStore(ctx context.Context, householdID uuid.UUID, storeID *uuid.UUID) ([]*models.Alias, error) {
	scope, ok := database.GetHouseholdScope(ctx)
	if !ok {
		return nil, apperrors.ErrNoTenantScope
	}

	query := `SELECT ` + aliasColumns + `
		FROM item_aliases
		WHERE household_id = $1 AND (store_id IS NULL OR store_id = $2)
		ORDER BY created_at, id`

	rows, err := scope.DB().Query(ctx, query, householdID, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list aliases for store: %w", err)
	}
	return collectAliases(rows)
}

func (r *aliasRepository) Insert(ctx context.Context, alias *models.Alias) (bool, error) {
	scope, ok := database.GetHouseholdScope(ctx)
	if !ok {
		return false, apperrors.ErrNoTenantScope
	}

	text := strings.TrimSpace(alias.Alias)
	if text == "" {
		return false, fmt.Errorf("alias text: %w", apperrors.ErrInvalidValue)
	}
	if alias.ID == uuid.Nil {
		alias.ID = uuid.New()
	}
	alias.Alias = text
	alias.CreatedAt = time.Now()

	tag, err := scope.DB().Exec(ctx, `
		INSERT INTO item_aliases (id, household_id, alias, item_id, store_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT DO NOTHING`,
		alias.ID, alias.HouseholdID, alias.Alias, alias.ItemID, alias.StoreID, alias.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert alias: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func collectAliases(rows pgx.Rows) ([]*models.Alias, error) {
	defer rows.Close()

	aliases := make([]*models.Alias, 0)
	for rows.Next() {
		var a models.Alias
		if err := rows.Scan(&a.ID, &a.HouseholdID, &a.Alias, &a.ItemID, &a.StoreID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alias: %w", err)
		}
		aliases = append(aliases, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating aliases: %w", err)
	}
	return aliases, nil
}
