package seed

import (
	"context"
	"math"
	"testing"

	"traubling/internal/model"
	"traubling/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCatalogIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	s := New(db, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.Catalog(ctx))
	require.NoError(t, s.Catalog(ctx))

	var n int64
	require.NoError(t, db.Model(&model.Country{}).Count(&n).Error)
	assert.Equal(t, int64(20), n)
	require.NoError(t, db.Model(&model.City{}).Count(&n).Error)
	assert.Equal(t, int64(30), n)
	require.NoError(t, db.Model(&model.Trouble{}).Count(&n).Error)
	assert.Equal(t, int64(5), n)

	var domestic []model.Country
	require.NoError(t, db.Where("is_domestic = ?", true).Find(&domestic).Error)
	require.Len(t, domestic, 1)
	assert.Equal(t, "日本", domestic[0].JaName)

	var missing int64
	require.NoError(t, db.Model(&model.City{}).Where("latitude IS NULL OR longitude IS NULL").Count(&missing).Error)
	assert.Zero(t, missing)
}

func TestSamples(t *testing.T) {
	db := testutil.NewDB(t)
	s := New(db, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.Catalog(ctx))
	require.NoError(t, s.Samples(ctx))
	require.NoError(t, s.Samples(ctx))

	var posts []model.Post
	require.NoError(t, db.Preload("City").Find(&posts).Error)
	assert.Len(t, posts, len(samplePosts))

	for _, p := range posts {
		require.True(t, p.HasCoordinates(), p.Title)
		require.NotNil(t, p.City)
		assert.LessOrEqual(t, math.Abs(*p.Latitude-*p.City.Latitude), 0.05)
		assert.LessOrEqual(t, math.Abs(*p.Longitude-*p.City.Longitude), 0.05)
	}

	var users int64
	require.NoError(t, db.Model(&model.User{}).Count(&users).Error)
	assert.Equal(t, int64(len(sampleUsers)), users)
}

func TestSamplesRequireCatalog(t *testing.T) {
	db := testutil.NewDB(t)
	assert.Error(t, New(db, zap.NewNop()).Samples(context.Background()))
}
