package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
	"github.com/jpkday/smartsave-ai-sub000/pkg/repositories"
)

// DefaultPriceHistoryLimit bounds a price history when the caller gives no limit.
const DefaultPriceHistoryLimit = 50

// PriceEntry is one observation with its unit price rendered for display.
type PriceEntry struct {
	*models.PriceObservation
	UnitPriceDisplay string `json:"unit_price_display,omitempty"`
}

// PriceHistory is an item's recorded prices, newest first.
// Cheapest is the entry with the lowest unit price, when any entry has one.
type PriceHistory struct {
	Item     *models.CanonicalItem `json:"item"`
	Entries  []PriceEntry          `json:"entries"`
	Cheapest *PriceEntry           `json:"cheapest,omitempty"`
}

// PriceService reads price history for catalog items.
type PriceService interface {
	History(ctx context.Context, householdID, itemID uuid.UUID, limit int) (*PriceHistory, error)
}

type priceService struct {
	catalogRepo repositories.CatalogRepository
	priceRepo   repositories.PriceRepository
	logger      *zap.Logger
}

// NewPriceService creates a new PriceService.
func NewPriceService(catalogRepo repositories.CatalogRepository, priceRepo repositories.PriceRepository, logger *zap.Logger) PriceService {
	return &priceService{
		catalogRepo: catalogRepo,
		priceRepo:   priceRepo,
		logger:      logger.Named("prices"),
	}
}

var _ PriceService = (*priceService)(nil)

func (s *priceService) History(ctx context.Context, householdID, itemID uuid.UUID, limit int) (*PriceHistory, error) {
	if limit <= 0 {
		limit = DefaultPriceHistoryLimit
	}

	item, err := s.catalogRepo.GetByID(ctx, householdID, itemID)
	if err != nil {
		return nil, fmt.Errorf("load item: %w", err)
	}

	observations, err := s.priceRepo.ListByItem(ctx, householdID, itemID, limit)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}

	history := &PriceHistory{Item: item, Entries: make([]PriceEntry, len(observations))}
	for i, obs := range observations {
		history.Entries[i] = PriceEntry{PriceObservation: obs, UnitPriceDisplay: obs.FormattedUnitPrice()}
		if obs.UnitPrice == nil {
			continue
		}
		// Only compare unit prices on the same axis as the first priced entry.
		if history.Cheapest == nil {
			history.Cheapest = &history.Entries[i]
			continue
		}
		if obs.UnitAxis == history.Cheapest.UnitAxis && obs.UnitPrice.LessThan(*history.Cheapest.UnitPrice) {
			history.Cheapest = &history.Entries[i]
		}
	}

	return history, nil
}
