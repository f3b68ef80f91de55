//go:build integration

package repositories

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpkday/smartsave-ai-sub000/pkg/apperrors"
	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
	"github.com/jpkday/smartsave-ai-sub000/pkg/testhelpers"
)

func TestCatalogRepository_CreateIfAbsent(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	household := testDB.CreateHousehold(t, "catalog create")
	ctx := testDB.HouseholdContext(t, household)
	repo := NewCatalogRepository()

	first, created, err := repo.CreateIfAbsent(ctx, &models.CanonicalItem{HouseholdID: household, Name: " Irish Butter "})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Irish Butter", first.Name)

	again, created, err := repo.CreateIfAbsent(ctx, &models.CanonicalItem{HouseholdID: household, Name: "IRISH BUTTER"})
	require.NoError(t, err)
	assert.False(t, created, "same name in another case resolves to the existing item")
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Irish Butter", again.Name)

	_, _, err = repo.CreateIfAbsent(ctx, &models.CanonicalItem{HouseholdID: household, Name: "  "})
	assert.ErrorIs(t, err, apperrors.ErrInvalidValue)
}

func TestCatalogRepository_GetAndList(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	household := testDB.CreateHousehold(t, "catalog list")
	ctx := testDB.HouseholdContext(t, household)
	repo := NewCatalogRepository()

	for _, name := range []string{"Bananas, Organic", "Eggs Large (18 ct)"} {
		_, _, err := repo.CreateIfAbsent(ctx, &models.CanonicalItem{HouseholdID: household, Name: name, IsWeighted: name == "Bananas, Organic", Unit: "lb"})
		require.NoError(t, err)
	}

	items, err := repo.ListByHousehold(ctx, household)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, []string{"Bananas, Organic", "Eggs Large (18 ct)"}, models.CatalogNames(items))
	assert.True(t, items[0].IsWeighted)
	assert.Equal(t, "lb", items[0].Unit)

	byName, err := repo.GetByName(ctx, household, "bananas, organic")
	require.NoError(t, err)
	assert.Equal(t, items[0].ID, byName.ID)

	byID, err := repo.GetByID(ctx, household, items[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Eggs Large (18 ct)", byID.Name)

	_, err = repo.GetByID(ctx, household, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = repo.GetByName(ctx, household, "Margarine")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogRepository_Rename(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	household := testDB.CreateHousehold(t, "catalog rename")
	ctx := testDB.HouseholdContext(t, household)
	repo := NewCatalogRepository()

	milk, _, err := repo.CreateIfAbsent(ctx, &models.CanonicalItem{HouseholdID: household, Name: "Almond Milk"})
	require.NoError(t, err)
	_, _, err = repo.CreateIfAbsent(ctx, &models.CanonicalItem{HouseholdID: household, Name: "Oat Milk"})
	require.NoError(t, err)

	require.NoError(t, repo.Rename(ctx, household, milk.ID, "Almond Milk Unsweetened (6/32 fz)"))
	renamed, err := repo.GetByID(ctx, household, milk.ID)
	require.NoError(t, err)
	assert.Equal(t, "Almond Milk Unsweetened (6/32 fz)", renamed.Name)

	assert.ErrorIs(t, repo.Rename(ctx, household, milk.ID, "oat milk"), apperrors.ErrConflict)
	assert.ErrorIs(t, repo.Rename(ctx, household, uuid.New(), "Nothing"), apperrors.ErrNotFound)
}

func TestCatalogRepository_NoScope(t *testing.T) {
	repo := NewCatalogRepository()
	_, err := repo.ListByHousehold(t.Context(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNoTenantScope)
}
