package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jpkday/smartsave-ai-sub000/pkg/units"
)

// PriceObservation is one recorded price for a canonical item.
// UnitPrice and UnitAxis are set when the item's name carries a package size.
// Stored in price_observations.
type PriceObservation struct {
	ID          uuid.UUID        `json:"id"`
	HouseholdID uuid.UUID        `json:"household_id"`
	ItemID      uuid.UUID        `json:"item_id"`
	StoreID     *uuid.UUID       `json:"store_id,omitempty"`
	RawName     string           `json:"raw_name"`
	Price       decimal.Decimal  `json:"price"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	UnitAxis    string           `json:"unit_axis,omitempty"`
	ObservedAt  time.Time        `json:"observed_at"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ApplyUnitPrice derives the normalized unit price of the line from the
// item's name, or from its default unit when the name has no size. Price is
// the line total for Quantity units. Without either, no unit price is set.
func (o *PriceObservation) ApplyUnitPrice(item *CanonicalItem) {
	up, ok := units.ComputeLinePrice(item.Name, o.Price, o.Quantity, item.DefaultUnit())
	if !ok {
		o.UnitPrice = nil
		o.UnitAxis = ""
		return
	}
	price := up.Price
	o.UnitPrice = &price
	o.UnitAxis = string(up.Axis)
}

// FormattedUnitPrice renders "$X.XX/<axis>", or "" when no unit price applies.
func (o *PriceObservation) FormattedUnitPrice() string {
	if o.UnitPrice == nil {
		return ""
	}
	return units.FormatUnitPrice(*o.UnitPrice, units.Axis(o.UnitAxis))
}
