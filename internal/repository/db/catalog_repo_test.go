package db

import (
	"context"
	"testing"

	"traubling/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListInternationalCitiesExcludesDomestic(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)

	cities, err := NewCatalogRepository(db).ListInternationalCities(context.Background())
	require.NoError(t, err)
	require.Len(t, cities, 3)
	for _, c := range cities {
		assert.NotEqual(t, f.Japan.ID, c.CountryID)
		require.NotNil(t, c.Country)
		assert.Equal(t, c.CountryID, c.Country.ID)
	}
}

func TestFacets(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	testutil.CreatePost(t, db, f, f.Alice, "a", testutil.WithCoords(48.8, 2.3))
	testutil.CreatePost(t, db, f, f.Alice, "b")
	testutil.CreatePost(t, db, f, f.Alice, "c", testutil.WithTrouble(f.Scam), testutil.WithCity(f.Bangkok))
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	troubles, err := repo.TroubleFacets(ctx, false)
	require.NoError(t, err)
	counts := map[uint64]int64{}
	for _, row := range troubles {
		counts[row.ID] = row.PostCount
	}
	assert.Equal(t, int64(2), counts[f.LostLuggage.ID])
	assert.Equal(t, int64(1), counts[f.Scam.ID])

	mapped, err := repo.TroubleFacets(ctx, true)
	require.NoError(t, err)
	for _, row := range mapped {
		if row.ID == f.LostLuggage.ID {
			assert.Equal(t, int64(1), row.PostCount)
		} else {
			assert.Zero(t, row.PostCount)
		}
	}

	cities, err := repo.CityFacets(ctx, false)
	require.NoError(t, err)
	for _, row := range cities {
		if row.ID == f.Paris.ID {
			assert.Equal(t, int64(2), row.PostCount)
			assert.Equal(t, "フランス", row.CountryJaName)
		}
	}

	countries, err := repo.CountryFacets(ctx, false)
	require.NoError(t, err)
	assert.Len(t, countries, 3)
}
