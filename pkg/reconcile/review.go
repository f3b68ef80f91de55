package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jpkday/smartsave-ai-sub000/pkg/apperrors"
	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
)

// Rows is a reviewable set of reconciliation rows. Edits are made in place
// by index; the pipeline is never re-run for an edit.
type Rows []models.ReconciliationRow

func (r Rows) at(i int) (*models.ReconciliationRow, error) {
	if i < 0 || i >= len(r) {
		return nil, fmt.Errorf("row %d of %d: %w", i, len(r), apperrors.ErrRowNotFound)
	}
	return &r[i], nil
}

// Accept confirms the row's current decision.
func (r Rows) Accept(i int) error {
	row, err := r.at(i)
	if err != nil {
		return err
	}
	if row.Status == models.RowStatusUnresolved {
		return fmt.Errorf("row %d: %w", i, apperrors.ErrRowUnresolved)
	}
	row.IsConfirmed = true
	return nil
}

// Unconfirm takes the row out of the next finalize.
func (r Rows) Unconfirm(i int) error {
	row, err := r.at(i)
	if err != nil {
		return err
	}
	row.IsConfirmed = false
	return nil
}

// SelectItem points the row at a different existing catalog item.
func (r Rows) SelectItem(i int, item *models.CanonicalItem) error {
	row, err := r.at(i)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("row %d: nil item: %w", i, apperrors.ErrInvalidValue)
	}
	id := item.ID
	row.Status = models.RowStatusMatched
	row.SelectedItemID = &id
	row.SelectedItemName = item.Name
	row.NewItemName = ""
	row.Confidence = models.ConfidenceHigh
	row.Evidence = models.EvidenceManual
	row.Score = 0
	return nil
}

// MarkNew switches the row to creating a new catalog item named name.
func (r Rows) MarkNew(i int, name string) error {
	row, err := r.at(i)
	if err != nil {
		return err
	}
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return fmt.Errorf("row %d: empty item name: %w", i, apperrors.ErrInvalidValue)
	}
	row.Status = models.RowStatusNew
	row.SelectedItemID = nil
	row.SelectedItemName = ""
	row.NewItemName = name
	row.Confidence = models.ConfidenceLow
	row.Evidence = models.EvidenceManual
	row.Score = 0
	return nil
}

// ClearSelection drops the row's match, leaving it unresolved and unconfirmed.
func (r Rows) ClearSelection(i int) error {
	row, err := r.at(i)
	if err != nil {
		return err
	}
	row.Status = models.RowStatusUnresolved
	row.SelectedItemID = nil
	row.SelectedItemName = ""
	row.NewItemName = ""
	row.Confidence = models.ConfidenceLow
	row.Evidence = models.EvidenceManual
	row.Score = 0
	row.IsConfirmed = false
	return nil
}

// SetPrice corrects the line price. Negative prices are rejected.
func (r Rows) SetPrice(i int, price decimal.Decimal) error {
	row, err := r.at(i)
	if err != nil {
		return err
	}
	if price.IsNegative() {
		return fmt.Errorf("row %d: price %s: %w", i, price, apperrors.ErrInvalidValue)
	}
	row.OCRPrice = price
	return nil
}

// SetQuantity corrects the line quantity, which must be positive.
func (r Rows) SetQuantity(i int, quantity decimal.Decimal) error {
	row, err := r.at(i)
	if err != nil {
		return err
	}
	if !quantity.IsPositive() {
		return fmt.Errorf("row %d: quantity %s: %w", i, quantity, apperrors.ErrInvalidValue)
	}
	row.OCRQuantity = quantity
	return nil
}

// Confirmed returns the confirmed rows in order.
func (r Rows) Confirmed() []models.ReconciliationRow {
	var out []models.ReconciliationRow
	for _, row := range r {
		if row.IsConfirmed {
			out = append(out, row)
		}
	}
	return out
}

// EditAction names one reviewer mutation.
type EditAction string

const (
	EditAccept      EditAction = "accept"
	EditUnconfirm   EditAction = "unconfirm"
	EditSelectItem  EditAction = "select_item"  // needs ItemID
	EditMarkNew     EditAction = "mark_new"     // needs Name
	EditClear       EditAction = "clear"
	EditSetPrice    EditAction = "set_price"    // needs Value
	EditSetQuantity EditAction = "set_quantity" // needs Value
)

// Edit is a reviewer mutation of one row as sent by a client.
type Edit struct {
	Row    int              `json:"row"`
	Action EditAction       `json:"action"`
	ItemID *uuid.UUID       `json:"item_id,omitempty"`
	Name   string           `json:"name,omitempty"`
	Value  *decimal.Decimal `json:"value,omitempty"`
}

// ItemLookup loads the catalog item a select_item edit points at.
type ItemLookup func(id uuid.UUID) (*models.CanonicalItem, error)

var errMissingArgument = errors.New("missing edit argument")

// Apply performs one edit through the matching mutation.
func (r Rows) Apply(e Edit, lookup ItemLookup) error {
	switch e.Action {
	case EditAccept:
		return r.Accept(e.Row)
	case EditUnconfirm:
		return r.Unconfirm(e.Row)
	case EditClear:
		return r.ClearSelection(e.Row)
	case EditMarkNew:
		return r.MarkNew(e.Row, e.Name)
	case EditSelectItem:
		if e.ItemID == nil {
			return fmt.Errorf("%s item_id: %w: %w", e.Action, errMissingArgument, apperrors.ErrInvalidValue)
		}
		if _, err := r.at(e.Row); err != nil {
			return err
		}
		item, err := lookup(*e.ItemID)
		if err != nil {
			return fmt.Errorf("%s %s: %w", e.Action, e.ItemID, err)
		}
		return r.SelectItem(e.Row, item)
	case EditSetPrice, EditSetQuantity:
		if e.Value == nil {
			return fmt.Errorf("%s value: %w: %w", e.Action, errMissingArgument, apperrors.ErrInvalidValue)
		}
		if e.Action == EditSetPrice {
			return r.SetPrice(e.Row, *e.Value)
		}
		return r.SetQuantity(e.Row, *e.Value)
	default:
		return fmt.Errorf("unknown edit action %q: %w", e.Action, apperrors.ErrInvalidValue)
	}
}

// ApplyAll performs edits in order and stops at the first failure.
func (r Rows) ApplyAll(edits []Edit, lookup ItemLookup) error {
	for n, e := range edits {
		if err := r.Apply(e, lookup); err != nil {
			return fmt.Errorf("edit %d: %w", n, err)
		}
	}
	return nil
}

// NeedsReview counts low-confidence rows that are not yet confirmed, plus
// unresolved rows.
func (r Rows) NeedsReview() int {
	n := 0
	for _, row := range r {
		switch {
		case row.Status == models.RowStatusUnresolved:
			n++
		case row.Confidence == models.ConfidenceLow && !row.IsConfirmed:
			n++
		}
	}
	return n
}
