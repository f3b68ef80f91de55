package reconcile

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
)

// Skip reasons reported for rows left out of a finalize.
const (
	SkipUnconfirmed     = "unconfirmed"
	SkipUnresolved      = "unresolved"
	SkipMissingItem     = "missing_item"
	SkipInvalidPrice    = "invalid_price"
	SkipInvalidQuantity = "invalid_quantity"
)

var rowValidator = newRowValidator()

func newRowValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// CheckFinalizable reports whether a row may be finalized, and if not, why.
// Rows must be confirmed, resolved to an item or a new name, and carry a
// positive price and quantity.
func CheckFinalizable(row *models.ReconciliationRow) (string, bool) {
	if !row.IsConfirmed {
		return SkipUnconfirmed, false
	}
	switch row.Status {
	case models.RowStatusMatched:
		if row.SelectedItemID == nil {
			return SkipMissingItem, false
		}
	case models.RowStatusNew:
		if row.NewItemName == "" {
			return SkipMissingItem, false
		}
	default:
		return SkipUnresolved, false
	}

	err := rowValidator.Struct(row)
	if err == nil {
		return "", true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if verrs[0].StructField() == "OCRQuantity" {
			return SkipInvalidQuantity, false
		}
	}
	return SkipInvalidPrice, false
}
