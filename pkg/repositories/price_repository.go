package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jpkday/smartsave-ai-sub000/pkg/apperrors"
	"github.com/jpkday/smartsave-ai-sub000/pkg/database"
	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
)

// PriceRepository provides data access for recorded price observations.
type PriceRepository interface {
	Insert(ctx context.Context, obs *models.PriceObservation) error
	// ListByItem returns an item's observations, newest first. limit <= 0 means no limit.
	ListByItem(ctx context.Context, householdID, itemID uuid.UUID, limit int) ([]*models.PriceObservation, error)
}

type priceRepository struct{}

// NewPriceRepository creates a new PriceRepository.
func NewPriceRepository() PriceRepository {
	return &priceRepository{}
}

var _ PriceRepository = (*priceRepository)(nil)

// Numerics travel as text so decimals round-trip without float conversion.
func (r *priceRepository) Insert(ctx context.Context, obs *models.PriceObservation) error {
	scope, ok := database.GetHouseholdScope(ctx)
	if !ok {
		return apperrors.ErrNoTenantScope
	}

	if obs.ID == uuid.Nil {
		obs.ID = uuid.New()
	}
	if obs.ObservedAt.IsZero() {
		obs.ObservedAt = time.Now()
	}

	var unitPrice, unitAxis *string
	if obs.UnitPrice != nil {
		s := obs.UnitPrice.String()
		unitPrice = &s
		axis := obs.UnitAxis
		unitAxis = &axis
	}

	err := scope.DB().QueryRow(ctx, `
		INSERT INTO price_observations (
			id, household_id, item_id, store_id, raw_name, price, quantity, unit_price, unit_axis, observed_at
		) VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8::numeric, $9, $10)
		RETURNING created_at`,
		obs.ID, obs.HouseholdID, obs.ItemID, obs.StoreID, obs.RawName,
		obs.Price.String(), obs.Quantity.String(), unitPrice, unitAxis, obs.ObservedAt,
	).Scan(&obs.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert price observation: %w", err)
	}
	return nil
}

func (r *priceRepository) ListByItem(ctx context.Context, householdID, itemID uuid.UUID, limit int) ([]*models.PriceObservation, error) {
	scope, ok := database.GetHouseholdScope(ctx)
	if !ok {
		return nil, apperrors.ErrNoTenantScope
	}

	query := `
		SELECT id, household_id, item_id, store_id, raw_name,
		       price::text, quantity::text, unit_price::text, COALESCE(unit_axis, ''),
		       observed_at, created_at
		FROM price_observations
		WHERE household_id = $1 AND item_id = $2
		ORDER BY observed_at DESC, created_at DESC`
	args := []any{householdID, itemID}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := scope.DB().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list price observations: %w", err)
	}
	defer rows.Close()

	observations := make([]*models.PriceObservation, 0)
	for rows.Next() {
		var (
			o               models.PriceObservation
			price, quantity string
			unitPrice       *string
		)
		if err := rows.Scan(&o.ID, &o.HouseholdID, &o.ItemID, &o.StoreID, &o.RawName,
			&price, &quantity, &unitPrice, &o.UnitAxis, &o.ObservedAt, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price observation: %w", err)
		}
		if o.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("invalid stored price %q: %w", price, err)
		}
		if o.Quantity, err = decimal.NewFromString(quantity); err != nil {
			return nil, fmt.Errorf("invalid stored quantity %q: %w", quantity, err)
		}
		if unitPrice != nil {
			up, err := decimal.NewFromString(*unitPrice)
			if err != nil {
				return nil, fmt.Errorf("invalid stored unit price %q: %w", *unitPrice, err)
			}
			o.UnitPrice = &up
		}
		observations = append(observations, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price observations: %w", err)
	}
	return observations, nil
}
