package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
	"github.com/jpkday/smartsave-ai-sub000/pkg/reconcile"
	"github.com/jpkday/smartsave-ai-sub000/pkg/repositories"
)

// ReviewRequest is a reconciled row set plus the reviewer's edits, applied in order.
type ReviewRequest struct {
	Rows  []models.ReconciliationRow `json:"rows"`
	Edits []reconcile.Edit           `json:"edits"`
}

// ReviewResult is the row set after the edits.
type ReviewResult struct {
	Rows        []models.ReconciliationRow `json:"rows"`
	NeedsReview int                        `json:"needs_review"`
	Confirmed   int                        `json:"confirmed"`
}

// ReviewService applies reviewer edits to reconciled rows without re-running
// the pipeline. Nothing is written.
type ReviewService interface {
	Review(ctx context.Context, householdID uuid.UUID, req *ReviewRequest) (*ReviewResult, error)
}

type reviewService struct {
	catalogRepo repositories.CatalogRepository
	logger      *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(catalogRepo repositories.CatalogRepository, logger *zap.Logger) ReviewService {
	return &reviewService{
		catalogRepo: catalogRepo,
		logger:      logger.Named("review"),
	}
}

var _ ReviewService = (*reviewService)(nil)

func (s *reviewService) Review(ctx context.Context, householdID uuid.UUID, req *ReviewRequest) (*ReviewResult, error) {
	rows, err := applyEdits(ctx, s.catalogRepo, householdID, req.Rows, req.Edits)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Applied review edits",
		zap.String("household_id", householdID.String()),
		zap.Int("rows", len(rows)),
		zap.Int("edits", len(req.Edits)))

	return &ReviewResult{
		Rows:        rows,
		NeedsReview: rows.NeedsReview(),
		Confirmed:   len(rows.Confirmed()),
	}, nil
}

// applyEdits runs edits on a copy of rows, resolving selected items from the
// household's catalog.
func applyEdits(
	ctx context.Context,
	catalogRepo repositories.CatalogRepository,
	householdID uuid.UUID,
	rows []models.ReconciliationRow,
	edits []reconcile.Edit,
) (reconcile.Rows, error) {
	edited := reconcile.Rows(slices.Clone(rows))
	if edited == nil {
		edited = reconcile.Rows{}
	}
	lookup := func(id uuid.UUID) (*models.CanonicalItem, error) {
		return catalogRepo.GetByID(ctx, householdID, id)
	}
	if err := edited.ApplyAll(edits, lookup); err != nil {
		return nil, fmt.Errorf("review: %w", err)
	}
	return edited, nil
}
