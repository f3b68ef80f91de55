package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
	"github.com/jpkday/smartsave-ai-sub000/pkg/repositories"
)

// CatalogService maintains canonical items and exposes learned aliases.
type CatalogService interface {
	// Rename changes an item's display name. Its ID, aliases and prices are kept.
	Rename(ctx context.Context, householdID, itemID uuid.UUID, name string) (*models.CanonicalItem, error)
	// Aliases lists the aliases in effect at a store: global ones plus those
	// learned there. A nil storeID lists global aliases only.
	Aliases(ctx context.Context, householdID uuid.UUID, storeID *uuid.UUID) ([]*models.Alias, error)
}

type catalogService struct {
	catalogRepo repositories.CatalogRepository
	aliasRepo   repositories.AliasRepository
	logger      *zap.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(catalogRepo repositories.CatalogRepository, aliasRepo repositories.AliasRepository, logger *zap.Logger) CatalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
		aliasRepo:   aliasRepo,
		logger:      logger.Named("catalog"),
	}
}

var _ CatalogService = (*catalogService)(nil)

func (s *catalogService) Rename(ctx context.Context, householdID, itemID uuid.UUID, name string) (*models.CanonicalItem, error) {
	if err := s.catalogRepo.Rename(ctx, householdID, itemID, name); err != nil {
		return nil, fmt.Errorf("rename item: %w", err)
	}
	item, err := s.catalogRepo.GetByID(ctx, householdID, itemID)
	if err != nil {
		return nil, fmt.Errorf("load renamed item: %w", err)
	}

	s.logger.Info("Renamed catalog item",
		zap.String("household_id", householdID.String()),
		zap.String("item_id", itemID.String()),
		zap.String("name", item.Name))
	return item, nil
}

func (s *catalogService) Aliases(ctx context.Context, householdID uuid.UUID, storeID *uuid.UUID) ([]*models.Alias, error) {
	aliases, err := s.aliasRepo.ListForStore(ctx, householdID, storeID)
	if err != nil {
		return nil, fmt.Errorf("list aliases: %w", err)
	}
	return aliases, nil
}
