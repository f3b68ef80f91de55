//go:build integration

package repositories

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
	"github.com/jpkday/smartsave-ai-sub000/pkg/testhelpers"
)

func TestAliasRepository_InsertIsIdempotent(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	household := testDB.CreateHousehold(t, "alias insert")
	ctx := testDB.HouseholdContext(t, household)

	item, _, err := NewCatalogRepository().CreateIfAbsent(ctx, &models.CanonicalItem{HouseholdID: household, Name: "Almond Milk"})
	require.NoError(t, err)
	repo := NewAliasRepository()

	inserted, err := repo.Insert(ctx, &models.Alias{HouseholdID: household, Alias: "KS ALMOND MLK", ItemID: item.ID})
	require.NoError(t, err)
	assert.True(t, inserted)

	for i := 0; i < 3; i++ {
		inserted, err = repo.Insert(ctx, &models.Alias{HouseholdID: household, Alias: "ks almond mlk", ItemID: item.ID})
		require.NoError(t, err)
		assert.False(t, inserted)
	}

	aliases, err := repo.ListByHousehold(ctx, household)
	require.NoError(t, err)
	require.Len(t, aliases, 1)
	assert.Equal(t, "KS ALMOND MLK", aliases[0].Alias)
	assert.True(t, aliases[0].IsGlobal())
}

func TestAliasRepository_ListForStore(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	household := testDB.CreateHousehold(t, "alias stores")
	costco := testDB.CreateStore(t, household, "Costco")
	safeway := testDB.CreateStore(t, household, "Safeway")
	ctx := testDB.HouseholdContext(t, household)

	item, _, err := NewCatalogRepository().CreateIfAbsent(ctx, &models.CanonicalItem{HouseholdID: household, Name: "Chicken Thighs"})
	require.NoError(t, err)
	repo := NewAliasRepository()

	for _, a := range []*models.Alias{
		{HouseholdID: household, Alias: "CHKN THGH", ItemID: item.ID},
		{HouseholdID: household, Alias: "CHKN THGH", ItemID: item.ID, StoreID: &costco},
		{HouseholdID: household, Alias: "CHICKEN THIGH BNLS", ItemID: item.ID, StoreID: &safeway},
	} {
		inserted, err := repo.Insert(ctx, a)
		require.NoError(t, err)
		require.True(t, inserted, "store scopes are distinct from global")
	}

	forCostco, err := repo.ListForStore(ctx, household, &costco)
	require.NoError(t, err)
	assert.Len(t, forCostco, 2)

	global, err := repo.ListForStore(ctx, household, nil)
	require.NoError(t, err)
	require.Len(t, global, 1)
	assert.Nil(t, global[0].StoreID)

	other, err := repo.ListForStore(ctx, household, ptr(uuid.New()))
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func ptr[T any](v T) *T {
	return &v
}
