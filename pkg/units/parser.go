// Package units extracts package-size notation from item names and
// normalizes prices onto comparable per-unit axes.
package units

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Unit is a canonical unit token as returned by Parse.
type Unit string

const (
	UnitNone       Unit = "none"
	UnitPound      Unit = "lb"
	UnitOunce      Unit = "oz"
	UnitFluidOunce Unit = "fz"
	UnitCount      Unit = "ct"
	UnitDozen      Unit = "doz"
	UnitEach       Unit = "ea"
	UnitQuart      Unit = "qt"
	UnitGallon     Unit = "gal"
	UnitPint       Unit = "pt"
	UnitLiter      Unit = "L"
	UnitMilliliter Unit = "ml"
	UnitSquareFoot Unit = "sqft"
	UnitSquareInch Unit = "sqin"
)

// Info is the (quantity, unit) pair found in an item name.
// RawText holds the exact substring that matched, for display and debugging.
type Info struct {
	Quantity decimal.Decimal `json:"quantity"`
	Unit     Unit            `json:"unit"`
	RawText  string          `json:"raw_text,omitempty"`
}

// HasUnit reports whether a unit was recognized.
func (i Info) HasUnit() bool {
	return i.Unit != UnitNone && i.Unit != ""
}

// Unit spellings, longest alternatives first: Go regexp alternation is
// leftmost-first, so "lbs?" must be tried before "l".
const (
	weightVolumeUnits = `fl\.?\s*oz|floz|fz|lbs?|ozs?|qts?|gallons?|gal|ml|l`
	countUnits        = `ct|doz|pk|ea`
	areaUnits         = `sq\.?\s*ft|sq\.?\s*in`
	numberPattern     = `\d+(?:\.\d+)?`
	packSeparator     = `\s*[/x*\-]\s*`
)

var (
	multiPackWeightPattern = regexp.MustCompile(
		`(?i)\(\s*(\d+)(` + packSeparator + `)(` + numberPattern + `)\s*(` + weightVolumeUnits + `)\s*\)`)

	halfGallonPattern = regexp.MustCompile(`(?i)\(\s*(?:half|1/2)\s*gal(?:lon)?\s*\)`)

	multiPackCountPattern = regexp.MustCompile(
		`(?i)\b(\d+)` + packSeparator + `(` + numberPattern + `)\s*(` + countUnits + `)\b`)

	bracketedPattern = regexp.MustCompile(
		`(?i)[(,]\s*(` + numberPattern + `)\s*(` + areaUnits + `|` + weightVolumeUnits + `|` + countUnits + `|pt)\s*[),.]`)

	compactPattern = regexp.MustCompile(
		`(?i)(?:^|[^\w.])(` + numberPattern + `)(` + areaUnits + `|` + weightVolumeUnits + `|` + countUnits + `|pt)\b`)

	unitOnlyPattern = regexp.MustCompile(
		`(?i)\(\s*(` + areaUnits + `|` + weightVolumeUnits + `|` + countUnits + `|pt)\s*\)`)

	unitSpacing = regexp.MustCompile(`[\s.]+`)
)

// Parse extracts the package size embedded in an item name such as
// "Almond Milk (6/32 oz)", "Ground Beef 2lb" or "Eggs (18 ct)".
//
// Patterns are tried in a fixed order and the first match wins:
// multi-pack weight/volume, half gallon, multi-pack count, bracketed
// quantity, compact quantity, and a bare bracketed unit (quantity 1).
// A leading "1/N" in a pack reads as the fraction 1/N of the unit.
// Parse never fails; an unrecognized name yields UnitNone with a zero quantity.
func Parse(name string) Info {
	for _, p := range parsers {
		if info, ok := p(name); ok {
			return info
		}
	}
	return Info{Quantity: decimal.Zero, Unit: UnitNone}
}

type parseFunc func(name string) (Info, bool)

var parsers = []parseFunc{
	parseMultiPackWeight,
	parseHalfGallon,
	parseMultiPackCount,
	parseBracketed,
	parseCompact,
	parseUnitOnly,
}

func parseMultiPackWeight(name string) (Info, bool) {
	for _, m := range multiPackWeightPattern.FindAllStringSubmatch(name, -1) {
		count, err1 := decimal.NewFromString(m[1])
		size, err2 := decimal.NewFromString(m[3])
		unit, ok := normalizeUnit(m[4])
		if err1 != nil || err2 != nil || !ok {
			continue
		}
		if isFraction(m[1], m[2], size) {
			// "(1/2 lb)" is half a pound, not a pack of one.
			return Info{Quantity: decimal.NewFromInt(1).DivRound(size, 4), Unit: unit, RawText: m[0]}, true
		}
		return Info{Quantity: count.Mul(size), Unit: unit, RawText: m[0]}, true
	}
	return Info{}, false
}

// isFraction reports whether count/size reads as 1/N with N a whole number above 1.
func isFraction(count, separator string, size decimal.Decimal) bool {
	return count == "1" && strings.TrimSpace(separator) == "/" &&
		size.IsInteger() && size.GreaterThan(decimal.NewFromInt(1))
}

func parseHalfGallon(name string) (Info, bool) {
	raw := halfGallonPattern.FindString(name)
	if raw == "" {
		return Info{}, false
	}
	return Info{Quantity: decimal.RequireFromString("0.5"), Unit: UnitGallon, RawText: raw}, true
}

func parseMultiPackCount(name string) (Info, bool) {
	m := multiPackCountPattern.FindStringSubmatch(name)
	if m == nil {
		return Info{}, false
	}
	count, err1 := decimal.NewFromString(m[1])
	size, err2 := decimal.NewFromString(m[2])
	unit, ok := normalizeUnit(m[3])
	if err1 != nil || err2 != nil || !ok {
		return Info{}, false
	}
	return Info{Quantity: count.Mul(size), Unit: unit, RawText: m[0]}, true
}

func parseBracketed(name string) (Info, bool) {
	return parseQuantityUnit(bracketedPattern, name)
}

func parseCompact(name string) (Info, bool) {
	m := compactPattern.FindStringSubmatchIndex(name)
	if m == nil {
		return Info{}, false
	}
	// Group 1 starts after the optional leading delimiter.
	raw := name[m[2]:m[5]]
	qty, err := decimal.NewFromString(name[m[2]:m[3]])
	unit, ok := normalizeUnit(name[m[4]:m[5]])
	if err != nil || !ok {
		return Info{}, false
	}
	return Info{Quantity: qty, Unit: unit, RawText: raw}, true
}

func parseUnitOnly(name string) (Info, bool) {
	m := unitOnlyPattern.FindStringSubmatch(name)
	if m == nil {
		return Info{}, false
	}
	unit, ok := normalizeUnit(m[1])
	if !ok {
		return Info{}, false
	}
	return Info{Quantity: decimal.NewFromInt(1), Unit: unit, RawText: m[0]}, true
}

func parseQuantityUnit(re *regexp.Regexp, name string) (Info, bool) {
	m := re.FindStringSubmatch(name)
	if m == nil {
		return Info{}, false
	}
	qty, err := decimal.NewFromString(m[1])
	unit, ok := normalizeUnit(m[2])
	if err != nil || !ok {
		return Info{}, false
	}
	return Info{Quantity: qty, Unit: unit, RawText: m[0]}, true
}

// normalizeUnit maps a matched unit spelling onto its canonical token.
func normalizeUnit(raw string) (Unit, bool) {
	token := unitSpacing.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), "")
	switch token {
	case "lb", "lbs":
		return UnitPound, true
	case "oz", "ozs":
		return UnitOunce, true
	case "floz", "fz":
		return UnitFluidOunce, true
	case "qt", "qts":
		return UnitQuart, true
	case "gal", "gallon", "gallons":
		return UnitGallon, true
	case "l":
		return UnitLiter, true
	case "ml":
		return UnitMilliliter, true
	case "pt":
		return UnitPint, true
	case "ct", "pk":
		return UnitCount, true
	case "doz":
		return UnitDozen, true
	case "ea":
		return UnitEach, true
	case "sqft":
		return UnitSquareFoot, true
	case "sqin":
		return UnitSquareInch, true
	default:
		return UnitNone, false
	}
}
