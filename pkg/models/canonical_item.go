package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jpkday/smartsave-ai-sub000/pkg/units"
)

// CanonicalItem is the deduplicated catalog record a household's prices are
// tracked against. Stored in canonical_items; the ID is stable across renames.
type CanonicalItem struct {
	ID          uuid.UUID `json:"id"`
	HouseholdID uuid.UUID `json:"household_id"`
	Name        string    `json:"name"`
	Unit        string    `json:"unit,omitempty"` // Default unit hint, e.g. "lb" for produce sold by weight
	IsWeighted  bool      `json:"is_weighted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Rename changes the display name in place. The ID does not change.
func (i *CanonicalItem) Rename(name string) {
	i.Name = strings.TrimSpace(name)
}

// DefaultUnit is the unit a bare receipt quantity is counted in. Weighted
// items without an explicit unit are sold by the pound.
func (i *CanonicalItem) DefaultUnit() units.Unit {
	if u, ok := units.ParseUnit(i.Unit); ok {
		return u
	}
	if i.IsWeighted {
		return units.UnitPound
	}
	return units.UnitNone
}

// CatalogNames returns the item names in catalog order.
func CatalogNames(items []*CanonicalItem) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}
