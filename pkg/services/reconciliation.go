package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
	"github.com/jpkday/smartsave-ai-sub000/pkg/reconcile"
	"github.com/jpkday/smartsave-ai-sub000/pkg/repositories"
)

// ReconciliationService turns a receipt's raw lines into review rows against
// the household's current catalog and aliases. It never writes.
type ReconciliationService interface {
	Reconcile(ctx context.Context, householdID uuid.UUID, receipt *models.Receipt, useHints bool) ([]models.ReconciliationRow, error)
}

type reconciliationService struct {
	catalogRepo repositories.CatalogRepository
	aliasRepo   repositories.AliasRepository
	hints       HintService
	pipeline    *reconcile.Pipeline
	logger      *zap.Logger
}

// NewReconciliationService creates a new ReconciliationService.
// hints may be nil to disable LLM suggestions.
func NewReconciliationService(
	catalogRepo repositories.CatalogRepository,
	aliasRepo repositories.AliasRepository,
	hints HintService,
	pipeline *reconcile.Pipeline,
	logger *zap.Logger,
) ReconciliationService {
	if pipeline == nil {
		pipeline = reconcile.NewPipeline(nil)
	}
	return &reconciliationService{
		catalogRepo: catalogRepo,
		aliasRepo:   aliasRepo,
		hints:       hints,
		pipeline:    pipeline,
		logger:      logger.Named("reconcile"),
	}
}

var _ ReconciliationService = (*reconciliationService)(nil)

func (s *reconciliationService) Reconcile(ctx context.Context, householdID uuid.UUID, receipt *models.Receipt, useHints bool) ([]models.ReconciliationRow, error) {
	if receipt == nil || len(receipt.Lines) == 0 {
		return []models.ReconciliationRow{}, nil
	}

	catalog, err := s.catalogRepo.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	// All stores' aliases feed fuzzy matching; exact lookups still prefer the receipt's store.
	aliases, err := s.aliasRepo.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("load aliases: %w", err)
	}

	lines := receipt.Lines
	if useHints && s.hints != nil {
		lines = s.hints.Suggest(ctx, lines, catalog)
	}

	rows := s.pipeline.Reconcile(lines, catalog, aliases, receipt.StoreID)

	counts := make(map[models.EvidenceKind]int)
	for _, row := range rows {
		counts[row.Evidence]++
	}
	s.logger.Info("Reconciled receipt",
		zap.String("household_id", householdID.String()),
		zap.Int("lines", len(rows)),
		zap.Int("catalog_size", len(catalog)),
		zap.Int("alias_exact", counts[models.EvidenceAliasExact]),
		zap.Int("catalog_exact", counts[models.EvidenceCatalogExact]),
		zap.Int("fuzzy", counts[models.EvidenceFuzzyAlias]+counts[models.EvidenceFuzzyCatalog]),
		zap.Int("hinted", counts[models.EvidenceExternalHint]),
		zap.Int("new", counts[models.EvidenceFallback]))

	return rows, nil
}
