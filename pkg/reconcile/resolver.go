// Package reconcile turns raw receipt line items into reviewable match
// decisions against a household catalog.
//
// The package is stateless: every call works on the catalog and alias
// snapshots it is given, so concurrent reconciliations never observe each
// other until the caller re-fetches.
package reconcile

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
)

// globalScope keys aliases that apply at every store.
var globalScope = uuid.Nil

// AliasIndex is a lookup table of alias text to item, partitioned by store.
type AliasIndex struct {
	byScope map[uuid.UUID]map[string]uuid.UUID
	texts   []aliasText
}

type aliasText struct {
	text   string
	itemID uuid.UUID
}

// NewAliasIndex builds an index from aliases. Within one scope the first
// alias for a given text wins; later duplicates are ignored.
func NewAliasIndex(aliases []*models.Alias) *AliasIndex {
	idx := &AliasIndex{byScope: make(map[uuid.UUID]map[string]uuid.UUID)}
	seen := make(map[string]struct{})
	for _, a := range aliases {
		if a == nil {
			continue
		}
		key := aliasKey(a.Alias)
		if key == "" {
			continue
		}
		scope := globalScope
		if a.StoreID != nil {
			scope = *a.StoreID
		}
		table, ok := idx.byScope[scope]
		if !ok {
			table = make(map[string]uuid.UUID)
			idx.byScope[scope] = table
		}
		if _, exists := table[key]; !exists {
			table[key] = a.ItemID
		}
		// Fuzzy candidates are de-duplicated by text and item.
		textKey := key + "\x00" + a.ItemID.String()
		if _, dup := seen[textKey]; !dup {
			seen[textKey] = struct{}{}
			idx.texts = append(idx.texts, aliasText{text: a.Alias, itemID: a.ItemID})
		}
	}
	return idx
}

// Resolve looks rawName up case-insensitively, first among aliases scoped
// to storeID, then among global aliases.
func (idx *AliasIndex) Resolve(rawName string, storeID *uuid.UUID) (uuid.UUID, bool) {
	key := aliasKey(rawName)
	if key == "" {
		return uuid.Nil, false
	}
	if storeID != nil && *storeID != globalScope {
		if id, ok := idx.byScope[*storeID][key]; ok {
			return id, true
		}
	}
	id, ok := idx.byScope[globalScope][key]
	return id, ok
}

// Texts returns every alias text with its item, for fuzzy matching.
// Aliases from all stores are included.
func (idx *AliasIndex) Texts() ([]string, []uuid.UUID) {
	texts := make([]string, len(idx.texts))
	ids := make([]uuid.UUID, len(idx.texts))
	for i, t := range idx.texts {
		texts[i] = t.text
		ids[i] = t.itemID
	}
	return texts, ids
}

// Resolve is the one-shot form of AliasIndex.Resolve.
func Resolve(rawName string, storeID *uuid.UUID, aliases []*models.Alias) (uuid.UUID, bool) {
	return NewAliasIndex(aliases).Resolve(rawName, storeID)
}

func aliasKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
