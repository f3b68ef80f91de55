package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jpkday/smartsave-ai-sub000/pkg/apperrors"
	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
	"github.com/jpkday/smartsave-ai-sub000/pkg/reconcile"
	"github.com/jpkday/smartsave-ai-sub000/pkg/repositories"
	"github.com/jpkday/smartsave-ai-sub000/pkg/retry"
)

// FinalizeRequest carries the reviewed rows of one receipt.
// Date ("2006-01-02") and Time ("15:04") are as printed on the receipt and
// become the observation timestamp; both are optional.
// Edits, when present, are applied to Rows before anything is written.
type FinalizeRequest struct {
	StoreID *uuid.UUID                 `json:"store_id,omitempty"`
	Date    string                     `json:"date,omitempty"`
	Time    string                     `json:"time,omitempty"`
	Rows    []models.ReconciliationRow `json:"rows"`
	Edits   []reconcile.Edit           `json:"edits,omitempty"`
}

// SkippedRow reports a row left out of a finalize and why.
type SkippedRow struct {
	Index   int    `json:"index"`
	OCRName string `json:"ocr_name"`
	Reason  string `json:"reason"`
}

// FinalizeResult summarizes what a finalize wrote.
type FinalizeResult struct {
	CreatedItems   []*models.CanonicalItem    `json:"created_items"`
	LearnedAliases []*models.Alias            `json:"learned_aliases"`
	Observations   []*models.PriceObservation `json:"observations"`
	Skipped        []SkippedRow               `json:"skipped"`
}

func newFinalizeResult() *FinalizeResult {
	return &FinalizeResult{
		CreatedItems:   []*models.CanonicalItem{},
		LearnedAliases: []*models.Alias{},
		Observations:   []*models.PriceObservation{},
		Skipped:        []SkippedRow{},
	}
}

// TxFunc runs fn in a transaction; database.InTx in production.
type TxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

// FinalizeService commits reviewed rows: creates new catalog items, learns
// aliases for raw names that differ from the canonical name, and records
// price observations with normalized unit prices.
type FinalizeService interface {
	Finalize(ctx context.Context, householdID uuid.UUID, req *FinalizeRequest) (*FinalizeResult, error)
}

type finalizeService struct {
	catalogRepo repositories.CatalogRepository
	aliasRepo   repositories.AliasRepository
	priceRepo   repositories.PriceRepository
	inTx        TxFunc
	retryCfg    *retry.Config
	now         func() time.Time
	logger      *zap.Logger
}

// NewFinalizeService creates a new FinalizeService.
func NewFinalizeService(
	catalogRepo repositories.CatalogRepository,
	aliasRepo repositories.AliasRepository,
	priceRepo repositories.PriceRepository,
	inTx TxFunc,
	logger *zap.Logger,
) FinalizeService {
	return &finalizeService{
		catalogRepo: catalogRepo,
		aliasRepo:   aliasRepo,
		priceRepo:   priceRepo,
		inTx:        inTx,
		retryCfg:    retry.DefaultConfig(),
		now:         time.Now,
		logger:      logger.Named("finalize"),
	}
}

var _ FinalizeService = (*finalizeService)(nil)

func (s *finalizeService) Finalize(ctx context.Context, householdID uuid.UUID, req *FinalizeRequest) (*FinalizeResult, error) {
	if req == nil {
		return nil, fmt.Errorf("finalize request: %w", apperrors.ErrInvalidValue)
	}
	observedAt, err := s.observedAt(req)
	if err != nil {
		return nil, err
	}
	if len(req.Edits) > 0 {
		rows, err := applyEdits(ctx, s.catalogRepo, householdID, req.Rows, req.Edits)
		if err != nil {
			return nil, err
		}
		edited := *req
		edited.Rows, edited.Edits = rows, nil
		req = &edited
	}

	var result *FinalizeResult
	err = retry.DoIfRetryable(ctx, s.retryCfg, func() error {
		// A retried transaction starts over, so does the summary.
		result = newFinalizeResult()
		return s.inTx(ctx, func(txCtx context.Context) error {
			for i := range req.Rows {
				if err := s.finalizeRow(txCtx, householdID, req, i, observedAt, result); err != nil {
					return fmt.Errorf("row %d (%q): %w", i, req.Rows[i].OCRName, err)
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("finalize: %w", err)
	}

	s.logger.Info("Finalized receipt",
		zap.String("household_id", householdID.String()),
		zap.Int("rows", len(req.Rows)),
		zap.Int("created_items", len(result.CreatedItems)),
		zap.Int("learned_aliases", len(result.LearnedAliases)),
		zap.Int("observations", len(result.Observations)),
		zap.Int("skipped", len(result.Skipped)))

	return result, nil
}

func (s *finalizeService) finalizeRow(
	ctx context.Context,
	householdID uuid.UUID,
	req *FinalizeRequest,
	i int,
	observedAt time.Time,
	result *FinalizeResult,
) error {
	row := &req.Rows[i]
	if reason, ok := reconcile.CheckFinalizable(row); !ok {
		result.Skipped = append(result.Skipped, SkippedRow{Index: i, OCRName: row.OCRName, Reason: reason})
		return nil
	}

	item, err := s.resolveItem(ctx, householdID, row, result)
	if errors.Is(err, apperrors.ErrNotFound) {
		// Selected item was deleted after reconciliation.
		result.Skipped = append(result.Skipped, SkippedRow{Index: i, OCRName: row.OCRName, Reason: reconcile.SkipMissingItem})
		return nil
	}
	if err != nil {
		return err
	}

	raw := strings.TrimSpace(row.OCRName)
	if raw != "" && !strings.EqualFold(raw, item.Name) {
		alias := &models.Alias{
			HouseholdID: householdID,
			Alias:       raw,
			ItemID:      item.ID,
			StoreID:     req.StoreID,
		}
		inserted, err := s.aliasRepo.Insert(ctx, alias)
		if err != nil {
			return err
		}
		if inserted {
			result.LearnedAliases = append(result.LearnedAliases, alias)
		}
	}

	obs := &models.PriceObservation{
		HouseholdID: householdID,
		ItemID:      item.ID,
		StoreID:     req.StoreID,
		RawName:     raw,
		Price:       row.OCRPrice,
		Quantity:    row.OCRQuantity,
		ObservedAt:  observedAt,
	}
	obs.ApplyUnitPrice(item)
	if err := s.priceRepo.Insert(ctx, obs); err != nil {
		return err
	}
	result.Observations = append(result.Observations, obs)
	return nil
}

// resolveItem returns the catalog item a confirmed row refers to, creating it
// for new rows unless an item with the same name already exists.
func (s *finalizeService) resolveItem(ctx context.Context, householdID uuid.UUID, row *models.ReconciliationRow, result *FinalizeResult) (*models.CanonicalItem, error) {
	if row.Status == models.RowStatusMatched {
		return s.catalogRepo.GetByID(ctx, householdID, *row.SelectedItemID)
	}

	existing, err := s.catalogRepo.GetByName(ctx, householdID, row.NewItemName)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	item, created, err := s.catalogRepo.CreateIfAbsent(ctx, &models.CanonicalItem{
		HouseholdID: householdID,
		Name:        row.NewItemName,
	})
	if err != nil {
		return nil, err
	}
	if created {
		result.CreatedItems = append(result.CreatedItems, item)
	}
	return item, nil
}

func (s *finalizeService) observedAt(req *FinalizeRequest) (time.Time, error) {
	if req.Date == "" {
		return s.now(), nil
	}
	layout, value := "2006-01-02", req.Date
	if req.Time != "" {
		layout, value = "2006-01-02 15:04", req.Date+" "+req.Time
	}
	t, err := time.ParseInLocation(layout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("receipt date %q: %w", value, apperrors.ErrInvalidValue)
	}
	return t, nil
}
