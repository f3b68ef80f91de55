package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
	"github.com/jpkday/smartsave-ai-sub000/pkg/services"
)

func passthroughTenant(next http.HandlerFunc) http.HandlerFunc { return next }

type mockReconciliationService struct {
	rows         []models.ReconciliationRow
	err          error
	gotReceipt   *models.Receipt
	gotHints     bool
	gotHousehold uuid.UUID
}

func (m *mockReconciliationService) Reconcile(ctx context.Context, householdID uuid.UUID, receipt *models.Receipt, useHints bool) ([]models.ReconciliationRow, error) {
	m.gotHousehold = householdID
	m.gotReceipt = receipt
	m.gotHints = useHints
	return m.rows, m.err
}

type mockFinalizeService struct {
	result *services.FinalizeResult
	err    error
	gotReq *services.FinalizeRequest
}

func (m *mockFinalizeService) Finalize(ctx context.Context, householdID uuid.UUID, req *services.FinalizeRequest) (*services.FinalizeResult, error) {
	m.gotReq = req
	return m.result, m.err
}

type mockReviewService struct {
	result *services.ReviewResult
	err    error
	gotReq *services.ReviewRequest
}

func (m *mockReviewService) Review(ctx context.Context, householdID uuid.UUID, req *services.ReviewRequest) (*services.ReviewResult, error) {
	m.gotReq = req
	return m.result, m.err
}

type mockCatalogService struct {
	item       *models.CanonicalItem
	aliases    []*models.Alias
	err        error
	gotName    string
	gotItem    uuid.UUID
	gotStoreID *uuid.UUID
}

func (m *mockCatalogService) Rename(ctx context.Context, householdID, itemID uuid.UUID, name string) (*models.CanonicalItem, error) {
	m.gotItem = itemID
	m.gotName = name
	return m.item, m.err
}

func (m *mockCatalogService) Aliases(ctx context.Context, householdID uuid.UUID, storeID *uuid.UUID) ([]*models.Alias, error) {
	m.gotStoreID = storeID
	return m.aliases, m.err
}

type mockPriceService struct {
	history  *services.PriceHistory
	err      error
	gotLimit int
	gotItem  uuid.UUID
}

func (m *mockPriceService) History(ctx context.Context, householdID, itemID uuid.UUID, limit int) (*services.PriceHistory, error) {
	m.gotItem = itemID
	m.gotLimit = limit
	return m.history, m.err
}

type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) Healthy(ctx context.Context) error { return m.err }
