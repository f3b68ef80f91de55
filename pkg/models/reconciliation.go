package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RowStatus values for reconciliation rows
const (
	RowStatusMatched    = "matched"    // Resolved to an existing catalog item
	RowStatusNew        = "new"        // Will create a catalog item on finalize
	RowStatusUnresolved = "unresolved" // Reviewer cleared the match; needs a decision
)

// Confidence values for reconciliation rows
const (
	ConfidenceHigh = "high" // Exact alias or catalog name match
	ConfidenceLow  = "low"  // Fuzzy, hinted, or fallback; always reviewed
)

// EvidenceKind records which strategy produced a row's decision.
type EvidenceKind string

const (
	EvidenceAliasExact   EvidenceKind = "alias_exact"
	EvidenceCatalogExact EvidenceKind = "catalog_exact"
	EvidenceFuzzyAlias   EvidenceKind = "fuzzy_alias"
	EvidenceFuzzyCatalog EvidenceKind = "fuzzy_catalog"
	EvidenceExternalHint EvidenceKind = "external_hint"
	EvidenceFallback     EvidenceKind = "fallback"
	EvidenceManual       EvidenceKind = "manual" // Set by a reviewer edit
)

// ReconciliationRow is the pipeline's decision for one line item, edited by
// a reviewer before finalize. Only confirmed rows are finalized.
type ReconciliationRow struct {
	OCRName          string          `json:"ocr_name"`
	OCRPrice         decimal.Decimal `json:"ocr_price" validate:"gt=0"`
	OCRQuantity      decimal.Decimal `json:"ocr_quantity" validate:"gt=0"`
	Status           string          `json:"status"`
	SelectedItemID   *uuid.UUID      `json:"selected_item_id,omitempty"`
	SelectedItemName string          `json:"selected_item_name,omitempty"`
	NewItemName      string          `json:"new_item_name,omitempty"`
	Confidence       string          `json:"confidence"`
	Evidence         EvidenceKind    `json:"evidence"`
	Score            float64         `json:"score,omitempty"` // Fuzzy score when Evidence is fuzzy
	IsConfirmed      bool            `json:"is_confirmed"`
}

// ResolvedName is the canonical name the row will be recorded under.
func (r *ReconciliationRow) ResolvedName() string {
	switch r.Status {
	case RowStatusMatched:
		return r.SelectedItemName
	case RowStatusNew:
		return r.NewItemName
	default:
		return ""
	}
}
