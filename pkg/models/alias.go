package models

import (
	"time"

	"github.com/google/uuid"
)

// Alias is a learned alternate spelling of a canonical item as it appears on
// a receipt or flyer. A nil StoreID makes the alias global to the household.
// Stored in item_aliases; rows are only ever inserted.
type Alias struct {
	ID          uuid.UUID  `json:"id"`
	HouseholdID uuid.UUID  `json:"household_id"`
	Alias       string     `json:"alias"`
	ItemID      uuid.UUID  `json:"item_id"`
	StoreID     *uuid.UUID `json:"store_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsGlobal reports whether the alias applies at every store.
func (a *Alias) IsGlobal() bool {
	return a.StoreID == nil
}
