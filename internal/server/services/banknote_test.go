package services

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/logging"
	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture(t *testing.T) (*env, *CatalogService, *BanknoteService) {
	t.Helper()
	e := newEnv(t)
	e.m.definitions.defs = []models.Definition{
		{Kind: models.KindCategories, CountryID: "tr", Name: "Kaime", DisplayOrder: 1},
		{Kind: models.KindCategories, CountryID: "tr", Name: "Banknotes", DisplayOrder: 2},
		{Kind: models.KindSultans, CountryID: "tr", Name: "Abdülmecid", DisplayOrder: 1},
		{Kind: models.KindSultans, CountryID: "tr", Name: "Abdülaziz", DisplayOrder: 2},
		{Kind: models.KindSultans, CountryID: "eg", Name: "Fuad", DisplayOrder: 1},
	}
	catalog := NewCatalogService(e.db, e.m, logging.Nop())
	return e, catalog, NewBanknoteService(e.db, e.m, catalog, logging.Nop())
}

func TestCatalog_OrderMaps(t *testing.T) {
	_, catalog, _ := newCatalogFixture(t)

	sultans, err := catalog.SultanOrderMap(context.Background(), "tr")
	require.NoError(t, err)
	if diff := cmp.Diff(map[string]int{"Abdülmecid": 1, "Abdülaziz": 2}, sultans); diff != "" {
		t.Errorf("sultan order mismatch (-want +got):\n%s", diff)
	}

	categories, err := catalog.CategoryOrderMap(context.Background(), "tr")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Kaime": 1, "Banknotes": 2}, categories)
}

func TestCatalog_DefinitionValidation(t *testing.T) {
	_, catalog, _ := newCatalogFixture(t)
	ctx := context.Background()

	_, err := catalog.Definitions(ctx, "viziers", "tr")
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = catalog.CreateDefinition(ctx, &models.Definition{Kind: models.KindSultans, CountryID: "tr", Name: "  "})
	assert.ErrorIs(t, err, common.ErrorValidation)

	assert.ErrorIs(t, catalog.UpdateDefinitionOrder(ctx, "d1", -1), common.ErrorValidation)

	_, err = catalog.CreateCountry(ctx, &models.Country{Name: " "})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestBanknotes_ListDefaultsSort(t *testing.T) {
	e, _, s := newCatalogFixture(t)

	_, err := s.List(context.Background(), models.BanknoteFilter{CountryID: "tr", Search: "  kaime "})
	require.NoError(t, err)
	assert.Equal(t, models.SortExtendedPick, e.m.banknotes.lastFilter.Sort)
	assert.Equal(t, "kaime", e.m.banknotes.lastFilter.Search)

	_, err = s.List(context.Background(), models.BanknoteFilter{Sort: "weight"})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestBanknotes_Groups(t *testing.T) {
	e, _, s := newCatalogFixture(t)
	e.m.banknotes.notes = []models.Banknote{
		{ID: "1", Category: "Banknotes", SultanName: "Abdülaziz"},
		{ID: "2", Category: "Kaime", SultanName: "Abdülaziz"},
		{ID: "3", Category: "Kaime", SultanName: "Mystery"},
		{ID: "4", Category: "Kaime", SultanName: "Abdülmecid"},
		{ID: "5", Category: "", SultanName: ""},
	}

	groups, err := s.Groups(context.Background(), models.BanknoteFilter{CountryID: "tr"}, true)
	require.NoError(t, err)

	type shape struct {
		Category string
		Sultans  []string
		IDs      []string
	}
	var got []shape
	for _, g := range groups {
		sh := shape{Category: g.Category}
		for _, sg := range g.SultanGroups {
			sh.Sultans = append(sh.Sultans, sg.Sultan)
		}
		for _, it := range g.Items {
			sh.IDs = append(sh.IDs, it.ID)
		}
		got = append(got, sh)
	}

	want := []shape{
		{Category: "Kaime", Sultans: []string{"Abdülmecid", "Abdülaziz", "Mystery"}, IDs: []string{"2", "3", "4"}},
		{Category: "Banknotes", Sultans: []string{"Abdülaziz"}, IDs: []string{"1"}},
		{Category: "Uncategorized", Sultans: []string{"Unknown"}, IDs: []string{"5"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestBanknotes_CreateValidation(t *testing.T) {
	_, _, s := newCatalogFixture(t)

	_, err := s.Create(context.Background(), &models.Banknote{ExtendedPick: "1a", FaceValue: "5 Kurush"})
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = s.Update(context.Background(), &models.Banknote{CountryID: "tr"})
	assert.ErrorIs(t, err, common.ErrorValidation)
}
