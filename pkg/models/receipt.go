package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OCRLineItem is one raw line produced by OCR or typed in by hand.
// AIMatch is an optional, untrusted suggestion naming a catalog item.
type OCRLineItem struct {
	RawName  string          `json:"raw_name"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
	AIMatch  string          `json:"ai_match,omitempty"`
}

// Receipt groups the line items read from one receipt or flyer.
type Receipt struct {
	StoreID *uuid.UUID    `json:"store_id,omitempty"`
	Date    string        `json:"date,omitempty"` // YYYY-MM-DD as printed on the receipt
	Time    string        `json:"time,omitempty"` // HH:MM, optional
	Lines   []OCRLineItem `json:"lines"`
}
