package reconcile

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpkday/smartsave-ai-sub000/pkg/models"
)

func storePtr(id uuid.UUID) *uuid.UUID {
	return &id
}

func TestResolve_StoreScopedBeatsGlobal(t *testing.T) {
	costco := uuid.New()
	safeway := uuid.New()
	globalItem := uuid.New()
	costcoItem := uuid.New()

	aliases := []*models.Alias{
		{Alias: "KS ALMOND MLK", ItemID: globalItem},
		{Alias: "ks almond mlk", ItemID: costcoItem, StoreID: storePtr(costco)},
	}

	id, ok := Resolve("KS ALMOND MLK", &costco, aliases)
	require.True(t, ok)
	assert.Equal(t, costcoItem, id, "store-scoped alias wins")

	id, ok = Resolve("KS ALMOND MLK", &safeway, aliases)
	require.True(t, ok)
	assert.Equal(t, globalItem, id, "other stores fall back to global")

	id, ok = Resolve("KS ALMOND MLK", nil, aliases)
	require.True(t, ok)
	assert.Equal(t, globalItem, id)
}

func TestResolve_OrderDoesNotAffectPriority(t *testing.T) {
	store := uuid.New()
	globalItem := uuid.New()
	storeItem := uuid.New()

	// Same aliases as above, store-scoped first this time.
	aliases := []*models.Alias{
		{Alias: "GV MILK", ItemID: storeItem, StoreID: storePtr(store)},
		{Alias: "GV MILK", ItemID: globalItem},
	}
	id, ok := Resolve("gv milk", &store, aliases)
	require.True(t, ok)
	assert.Equal(t, storeItem, id)

	reversed := []*models.Alias{aliases[1], aliases[0]}
	id, ok = Resolve("gv milk", &store, reversed)
	require.True(t, ok)
	assert.Equal(t, storeItem, id)
}

func TestResolve_CaseInsensitiveExactOnly(t *testing.T) {
	item := uuid.New()
	aliases := []*models.Alias{{Alias: "Org Bananas", ItemID: item}}

	id, ok := Resolve("  ORG   BANANAS ", nil, aliases)
	require.True(t, ok)
	assert.Equal(t, item, id)

	_, ok = Resolve("ORG BANANA", nil, aliases)
	assert.False(t, ok, "no fuzzy matching at this layer")

	_, ok = Resolve("", nil, aliases)
	assert.False(t, ok)
}

func TestResolve_StoreAliasNotVisibleElsewhere(t *testing.T) {
	store := uuid.New()
	aliases := []*models.Alias{{Alias: "CHKN THGH", ItemID: uuid.New(), StoreID: storePtr(store)}}

	_, ok := Resolve("CHKN THGH", nil, aliases)
	assert.False(t, ok)

	_, ok = Resolve("CHKN THGH", storePtr(uuid.New()), aliases)
	assert.False(t, ok)
}

func TestAliasIndex_FirstWinsWithinScope(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	idx := NewAliasIndex([]*models.Alias{
		{Alias: "EGGS LG", ItemID: first},
		{Alias: "eggs lg", ItemID: second},
		nil,
		{Alias: "   ", ItemID: second},
	})

	id, ok := idx.Resolve("EGGS LG", nil)
	require.True(t, ok)
	assert.Equal(t, first, id)

	texts, ids := idx.Texts()
	assert.Equal(t, []string{"EGGS LG", "eggs lg"}, texts)
	assert.Equal(t, []uuid.UUID{first, second}, ids)
}

func TestAliasIndex_TextsDeduplicated(t *testing.T) {
	item := uuid.New()
	idx := NewAliasIndex([]*models.Alias{
		{Alias: "PNUT BTR", ItemID: item},
		{Alias: "PNUT BTR", ItemID: item, StoreID: storePtr(uuid.New())},
	})
	texts, _ := idx.Texts()
	assert.Len(t, texts, 1)
}
