package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jpkday/smartsave-ai-sub000/pkg/apperrors"
	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
)

// memoryStore backs the in-memory repositories used by service tests.
type memoryStore struct {
	mu           sync.Mutex
	items        []*models.CanonicalItem
	aliases      []*models.Alias
	observations []*models.PriceObservation

	// insertPriceErr, when set, is returned (and cleared) by the next price insert.
	insertPriceErr error
}

func (m *memoryStore) addItem(householdID uuid.UUID, name string) *models.CanonicalItem {
	item := &models.CanonicalItem{ID: uuid.New(), HouseholdID: householdID, Name: name, CreatedAt: time.Now()}
	m.items = append(m.items, item)
	return item
}

// snapshot and restore emulate transaction rollback.
func (m *memoryStore) snapshot() (int, int, int) {
	return len(m.items), len(m.aliases), len(m.observations)
}

func (m *memoryStore) restore(items, aliases, observations int) {
	m.items = m.items[:items]
	m.aliases = m.aliases[:aliases]
	m.observations = m.observations[:observations]
}

func (m *memoryStore) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	i, a, o := m.snapshot()
	if err := fn(ctx); err != nil {
		m.restore(i, a, o)
		return err
	}
	return nil
}

type memoryCatalogRepo struct{ *memoryStore }

func (r memoryCatalogRepo) ListByHousehold(_ context.Context, householdID uuid.UUID) ([]*models.CanonicalItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.CanonicalItem
	for _, item := range r.items {
		if item.HouseholdID == householdID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r memoryCatalogRepo) GetByID(_ context.Context, householdID, itemID uuid.UUID) (*models.CanonicalItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.HouseholdID == householdID && item.ID == itemID {
			return item, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r memoryCatalogRepo) GetByName(_ context.Context, householdID uuid.UUID, name string) (*models.CanonicalItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findByName(householdID, name)
}

func (r memoryCatalogRepo) findByName(householdID uuid.UUID, name string) (*models.CanonicalItem, error) {
	for _, item := range r.items {
		if item.HouseholdID == householdID && strings.EqualFold(item.Name, strings.TrimSpace(name)) {
			return item, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r memoryCatalogRepo) CreateIfAbsent(_ context.Context, item *models.CanonicalItem) (*models.CanonicalItem, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, err := r.findByName(item.HouseholdID, item.Name); err == nil {
		return existing, false, nil
	}
	stored := *item
	stored.ID = uuid.New()
	stored.Name = strings.TrimSpace(item.Name)
	r.items = append(r.items, &stored)
	return &stored, true, nil
}

func (r memoryCatalogRepo) Rename(_ context.Context, householdID, itemID uuid.UUID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.HouseholdID == householdID && item.ID == itemID {
			item.Rename(name)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type memoryAliasRepo struct{ *memoryStore }

func (r memoryAliasRepo) ListByHousehold(_ context.Context, householdID uuid.UUID) ([]*models.Alias, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Alias
	for _, a := range r.aliases {
		if a.HouseholdID == householdID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r memoryAliasRepo) ListForStore(ctx context.Context, householdID uuid.UUID, storeID *uuid.UUID) ([]*models.Alias, error) {
	all, _ := r.ListByHousehold(ctx, householdID)
	var out []*models.Alias
	for _, a := range all {
		if a.StoreID == nil || (storeID != nil && *a.StoreID == *storeID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func sameScope(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r memoryAliasRepo) Insert(_ context.Context, alias *models.Alias) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.aliases {
		if a.HouseholdID == alias.HouseholdID && sameScope(a.StoreID, alias.StoreID) && strings.EqualFold(a.Alias, alias.Alias) {
			return false, nil
		}
	}
	stored := *alias
	stored.ID = uuid.New()
	r.aliases = append(r.aliases, &stored)
	return true, nil
}

type memoryPriceRepo struct{ *memoryStore }

func (r memoryPriceRepo) Insert(_ context.Context, obs *models.PriceObservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.insertPriceErr; err != nil {
		r.insertPriceErr = nil
		return err
	}
	obs.ID = uuid.New()
	r.observations = append(r.observations, obs)
	return nil
}

func (r memoryPriceRepo) ListByItem(_ context.Context, householdID, itemID uuid.UUID, limit int) ([]*models.PriceObservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PriceObservation
	for i := len(r.observations) - 1; i >= 0; i-- {
		o := r.observations[i]
		if o.HouseholdID == householdID && o.ItemID == itemID {
			out = append(out, o)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
