package units

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Axis is one of the four comparison units prices are normalized onto.
type Axis string

const (
	AxisPound      Axis = "lb"
	AxisEach       Axis = "ea"
	AxisFluidOunce Axis = "fl oz"
	AxisSquareFoot Axis = "sqft"
)

// conversion describes how a parsed unit maps onto its axis.
// Quantities are multiplied by factor; divide is used for ratios that are
// exact as a division (16 oz per lb, 144 sq in per sq ft).
type conversion struct {
	axis   Axis
	factor decimal.Decimal
	divide bool
}

var conversions = map[Unit]conversion{
	UnitPound:      {axis: AxisPound, factor: decimal.NewFromInt(1)},
	UnitOunce:      {axis: AxisPound, factor: decimal.NewFromInt(16), divide: true},
	UnitFluidOunce: {axis: AxisFluidOunce, factor: decimal.NewFromInt(1)},
	UnitQuart:      {axis: AxisFluidOunce, factor: decimal.NewFromInt(32)},
	UnitGallon:     {axis: AxisFluidOunce, factor: decimal.NewFromInt(128)},
	UnitPint:       {axis: AxisFluidOunce, factor: decimal.NewFromInt(16)},
	UnitLiter:      {axis: AxisFluidOunce, factor: decimal.RequireFromString("33.814")},
	UnitMilliliter: {axis: AxisFluidOunce, factor: decimal.RequireFromString("0.033814")},
	UnitCount:      {axis: AxisEach, factor: decimal.NewFromInt(1)},
	UnitEach:       {axis: AxisEach, factor: decimal.NewFromInt(1)},
	UnitDozen:      {axis: AxisEach, factor: decimal.NewFromInt(12)},
	UnitSquareFoot: {axis: AxisSquareFoot, factor: decimal.NewFromInt(1)},
	UnitSquareInch: {axis: AxisSquareFoot, factor: decimal.NewFromInt(144), divide: true},
}

// UnitPrice is a price normalized onto an axis.
type UnitPrice struct {
	Price    decimal.Decimal `json:"unit_price"`
	Axis     Axis            `json:"axis"`
	Quantity decimal.Decimal `json:"quantity"` // quantity expressed in Axis units
	Info     Info            `json:"parsed"`
}

// String formats the unit price as "$X.XX/<axis>".
func (u UnitPrice) String() string {
	return FormatUnitPrice(u.Price, u.Axis)
}

// Convert expresses a parsed quantity in the units of its comparison axis.
// Returns false when the unit has no axis or the quantity is not positive.
func Convert(info Info) (decimal.Decimal, Axis, bool) {
	c, ok := conversions[info.Unit]
	if !ok || !info.Quantity.IsPositive() {
		return decimal.Zero, "", false
	}
	if c.divide {
		return info.Quantity.Div(c.factor), c.axis, true
	}
	return info.Quantity.Mul(c.factor), c.axis, true
}

// ComputeUnitPrice parses the package size from name and divides price by
// the converted quantity. Returns false when the name carries no usable unit.
func ComputeUnitPrice(name string, price decimal.Decimal) (UnitPrice, bool) {
	info := Parse(name)
	if !info.HasUnit() {
		return UnitPrice{}, false
	}
	qty, axis, ok := Convert(info)
	if !ok || qty.IsZero() {
		return UnitPrice{}, false
	}
	return UnitPrice{
		Price:    price.Div(qty),
		Axis:     axis,
		Quantity: qty,
		Info:     info,
	}, true
}

// ComputeLinePrice normalizes a receipt line where total was paid for
// quantity units of the item. A size in the name is per package, so total is
// first split across the packages. Without a size, quantity is read in
// defaultUnit, which is how weighed produce ("2.5" of "lb") is priced.
func ComputeLinePrice(name string, total, quantity decimal.Decimal, defaultUnit Unit) (UnitPrice, bool) {
	if !quantity.IsPositive() {
		quantity = decimal.NewFromInt(1)
	}
	if up, ok := ComputeUnitPrice(name, total.Div(quantity)); ok {
		return up, true
	}

	info := Info{Quantity: quantity, Unit: defaultUnit}
	qty, axis, ok := Convert(info)
	if !ok || qty.IsZero() {
		return UnitPrice{}, false
	}
	return UnitPrice{Price: total.Div(qty), Axis: axis, Quantity: qty, Info: info}, true
}

// ParseUnit maps a unit spelling such as "lbs" or "fl oz" onto its token.
func ParseUnit(raw string) (Unit, bool) {
	return normalizeUnit(raw)
}

// FormatUnitPrice renders a unit price for display, e.g. "$0.05/fl oz".
func FormatUnitPrice(price decimal.Decimal, axis Axis) string {
	return fmt.Sprintf("$%s/%s", price.StringFixed(2), axis)
}
