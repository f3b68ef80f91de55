package reconcile

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
)

func TestCheckFinalizable(t *testing.T) {
	itemID := uuid.New()
	valid := func() models.ReconciliationRow {
		return models.ReconciliationRow{
			OCRName:          "BUTTER",
			OCRPrice:         decimal.RequireFromString("4.50"),
			OCRQuantity:      decimal.NewFromInt(1),
			Status:           models.RowStatusMatched,
			SelectedItemID:   &itemID,
			SelectedItemName: "Butter",
			IsConfirmed:      true,
		}
	}

	tests := []struct {
		name       string
		mutate     func(r *models.ReconciliationRow)
		wantOK     bool
		wantReason string
	}{
		{"valid matched row", func(r *models.ReconciliationRow) {}, true, ""},
		{"valid new row", func(r *models.ReconciliationRow) {
			r.Status = models.RowStatusNew
			r.SelectedItemID = nil
			r.NewItemName = "Irish Butter"
		}, true, ""},
		{"unconfirmed", func(r *models.ReconciliationRow) { r.IsConfirmed = false }, false, SkipUnconfirmed},
		{"unresolved", func(r *models.ReconciliationRow) { r.Status = models.RowStatusUnresolved }, false, SkipUnresolved},
		{"matched without item", func(r *models.ReconciliationRow) { r.SelectedItemID = nil }, false, SkipMissingItem},
		{"new without name", func(r *models.ReconciliationRow) {
			r.Status = models.RowStatusNew
			r.NewItemName = ""
		}, false, SkipMissingItem},
		{"zero price", func(r *models.ReconciliationRow) { r.OCRPrice = decimal.Zero }, false, SkipInvalidPrice},
		{"negative price", func(r *models.ReconciliationRow) { r.OCRPrice = decimal.RequireFromString("-0.01") }, false, SkipInvalidPrice},
		{"zero quantity", func(r *models.ReconciliationRow) { r.OCRQuantity = decimal.Zero }, false, SkipInvalidQuantity},
		{"both invalid reports price", func(r *models.ReconciliationRow) {
			r.OCRPrice = decimal.Zero
			r.OCRQuantity = decimal.Zero
		}, false, SkipInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := valid()
			tt.mutate(&row)
			reason, ok := CheckFinalizable(&row)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}
