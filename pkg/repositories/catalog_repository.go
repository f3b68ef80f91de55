package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jpkday/smartsave-ai-sub000/pkg/apperrors"
	"github.com/jpkday/smartsave-ai-sub000/pkg/database"
	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
)

// CatalogRepository provides data access for a household's canonical items.
type CatalogRepository interface {
	ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]*models.CanonicalItem, error)
	GetByID(ctx context.Context, householdID, itemID uuid.UUID) (*models.CanonicalItem, error)
	GetByName(ctx context.Context, householdID uuid.UUID, name string) (*models.CanonicalItem, error)
	// CreateIfAbsent inserts the item unless one with the same name (case-insensitive)
	// exists, and returns the stored row either way. created reports which happened.
	CreateIfAbsent(ctx context.Context, item *models.CanonicalItem) (stored *models.CanonicalItem, created bool, err error)
	Rename(ctx context.Context, householdID, itemID uuid.UUID, name string) error
}

type catalogRepository struct{}

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository() CatalogRepository {
	return &catalogRepository{}
}

var _ CatalogRepository = (*catalogRepository)(nil)

const catalogColumns = `id, household_id, name, COALESCE(unit, ''), is_weighted, created_at, updated_at`

func (r *catalogRepository) ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]*models.CanonicalItem, error) {
	scope, ok := database.GetHouseholdScope(ctx)
	if !ok {
		return nil, apperrors.ErrNoTenantScope
	}

	query := `SELECT ` + catalogColumns + `
		FROM canonical_items
		WHERE household_id = $1
		ORDER BY created_at, id`

	rows, err := scope.DB().Query(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list canonical items: %w", err)
	}
	defer rows.Close()

	items := make([]*models.CanonicalItem, 0)
	for rows.Next() {
		item, err := scanCanonicalItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating canonical items: %w", err)
	}

	return items, nil
}

func (r *catalogRepository) GetByID(ctx context.Context, householdID, itemID uuid.UUID) (*models.CanonicalItem, error) {
	scope, ok := database.GetHouseholdScope(ctx)
	if !ok {
		return nil, apperrors.ErrNoTenantScope
	}

	query := `SELECT ` + catalogColumns + `
		FROM canonical_items
		WHERE household_id = $1 AND id = $2`

	item, err := scanCanonicalItem(scope.DB().QueryRow(ctx, query, householdID, itemID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	return item, err
}

func (r *catalogRepository) GetByName(ctx context.Context, householdID uuid.UUID, name string) (*models.CanonicalItem, error) {
	scope, ok := database.GetHouseholdScope(ctx)
	if !ok {
		return nil, apperrors.ErrNoTenantScope
	}

	query := `SELECT ` + catalogColumns + `
		FROM canonical_items
		WHERE household_id = $1 AND lower(name) = lower($2)`

	item, err := scanCanonicalItem(scope.DB().QueryRow(ctx, query, householdID, strings.TrimSpace(name)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	return item, err
}

func (r *catalogRepository) CreateIfAbsent(ctx context.Context, item *models.CanonicalItem) (*models.CanonicalItem, bool, error) {
	scope, ok := database.GetHouseholdScope(ctx)
	if !ok {
		return nil, false, apperrors.ErrNoTenantScope
	}

	name := strings.TrimSpace(item.Name)
	if name == "" {
		return nil, false, fmt.Errorf("canonical item name: %w", apperrors.ErrInvalidValue)
	}

	now := time.Now()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	query := `
		INSERT INTO canonical_items (id, household_id, name, unit, is_weighted, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $6)
		ON CONFLICT DO NOTHING
		RETURNING ` + catalogColumns

	stored, err := scanCanonicalItem(scope.DB().QueryRow(ctx, query,
		item.ID, item.HouseholdID, name, item.Unit, item.IsWeighted, now))
	if err == nil {
		return stored, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	// Lost to an existing row with the same name.
	existing, err := r.GetByName(ctx, item.HouseholdID, name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load existing canonical item %q: %w", name, err)
	}
	return existing, false, nil
}

func (r *catalogRepository) Rename(ctx context.Context, householdID, itemID uuid.UUID, name string) error {
	scope, ok := database.GetHouseholdScope(ctx)
	if !ok {
		return apperrors.ErrNoTenantScope
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("canonical item name: %w", apperrors.ErrInvalidValue)
	}

	tag, err := scope.DB().Exec(ctx, `
		UPDATE canonical_items SET name = $3, updated_at = now()
		WHERE household_id = $1 AND id = $2`, householdID, itemID, name)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("canonical item %q: %w", name, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to rename canonical item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanCanonicalItem(row pgx.Row) (*models.CanonicalItem, error) {
	var item models.CanonicalItem
	err := row.Scan(&item.ID, &item.HouseholdID, &item.Name, &item.Unit, &item.IsWeighted,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan canonical item: %w", err)
	}
	return &item, nil
}
