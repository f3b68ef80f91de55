package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jpkday/smartsave-ai-sub000/pkg/llm"
	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
)

func receiptLine(raw string) models.OCRLineItem {
	return models.OCRLineItem{RawName: raw, Price: decimal.RequireFromString("3.99"), Quantity: decimal.NewFromInt(1)}
}

func TestReconciliationService_UsesStoredCatalogAndAliases(t *testing.T) {
	store := &memoryStore{}
	household := uuid.New()
	costco := uuid.New()
	milk := store.addItem(household, "Almond Milk Unsweetened (6/32 fz)")
	store.addItem(household, "Butter")
	store.addItem(uuid.New(), "Someone Else's Item")
	store.aliases = append(store.aliases, &models.Alias{ID: uuid.New(), HouseholdID: household, Alias: "KS ALMOND MLK", ItemID: milk.ID, StoreID: &costco})

	svc := NewReconciliationService(memoryCatalogRepo{store}, memoryAliasRepo{store}, nil, nil, zap.NewNop())

	rows, err := svc.Reconcile(context.Background(), household, &models.Receipt{
		StoreID: &costco,
		Lines:   []models.OCRLineItem{receiptLine("KS ALMOND MLK"), receiptLine("butter"), receiptLine("bananas organic")},
	}, false)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, models.EvidenceAliasExact, rows[0].Evidence)
	assert.Equal(t, milk.ID, *rows[0].SelectedItemID)
	assert.Equal(t, models.EvidenceCatalogExact, rows[1].Evidence)
	assert.Equal(t, models.RowStatusNew, rows[2].Status)
	assert.Equal(t, "Bananas Organic", rows[2].NewItemName)
}

func TestReconciliationService_Hints(t *testing.T) {
	store := &memoryStore{}
	household := uuid.New()
	butter := store.addItem(household, "Butter")

	client := llm.NewMockLLMClientWithResponse(`[{"line": 0, "match": "Butter"}]`)
	hints := NewHintService(client, fastHintConfig(), zap.NewNop())
	svc := NewReconciliationService(memoryCatalogRepo{store}, memoryAliasRepo{store}, hints, nil, zap.NewNop())
	receipt := &models.Receipt{Lines: []models.OCRLineItem{receiptLine("XQZ 4411")}}

	rows, err := svc.Reconcile(context.Background(), household, receipt, true)
	require.NoError(t, err)
	assert.Equal(t, models.EvidenceExternalHint, rows[0].Evidence)
	assert.Equal(t, butter.ID, *rows[0].SelectedItemID)

	rows, err = svc.Reconcile(context.Background(), household, receipt, false)
	require.NoError(t, err)
	assert.Equal(t, models.EvidenceFallback, rows[0].Evidence, "hints only when asked")
	assert.Len(t, client.Prompts(), 1)
}

func TestReconciliationService_EmptyReceipt(t *testing.T) {
	svc := NewReconciliationService(memoryCatalogRepo{&memoryStore{}}, memoryAliasRepo{&memoryStore{}}, nil, nil, zap.NewNop())

	rows, err := svc.Reconcile(context.Background(), uuid.New(), nil, false)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
}
