package db

import (
	"context"
	"fmt"
	"testing"

	"traubling/internal/model"
	"traubling/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFollowToggle(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	hooked := 0
	hook := func(tx *gorm.DB) error { hooked++; return nil }

	following, err := repo.Toggle(ctx, f.Alice.ID, f.Bob.ID, hook)
	require.NoError(t, err)
	assert.True(t, following)

	ok, err := repo.IsFollowing(ctx, f.Alice.ID, f.Bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	following, err = repo.Toggle(ctx, f.Alice.ID, f.Bob.ID, hook)
	require.NoError(t, err)
	assert.False(t, following)

	var n int64
	require.NoError(t, db.Model(&model.Follow{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.Equal(t, 1, hooked)
}

func TestFollowListsPaginate(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	for _, u := range []model.User{f.Bob, f.Carol} {
		_, err := repo.Toggle(ctx, u.ID, f.Alice.ID, nil)
		require.NoError(t, err)
	}

	first, next, err := repo.ListFollowers(ctx, f.Alice.ID, 0, 1)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, f.Carol.ID, first[0].ID)
	assert.Equal(t, f.Carol.ID, next)

	second, next, err := repo.ListFollowers(ctx, f.Alice.ID, next, 1)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, f.Bob.ID, second[0].ID)
	assert.Zero(t, next)

	followings, _, err := repo.ListFollowings(ctx, f.Bob.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, followings, 1)
	assert.Equal(t, f.Alice.ID, followings[0].ID)

	count, err := repo.FollowersCount(ctx, f.Alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestFollowListPageSize(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	fans := make([]model.User, 0, 120)
	for i := 0; i < 120; i++ {
		fans = append(fans, model.User{Name: fmt.Sprintf("fan%d", i), Email: fmt.Sprintf("fan%d@example.com", i)})
	}
	require.NoError(t, db.CreateInBatches(&fans, 50).Error)
	edges := make([]model.Follow, 0, len(fans))
	for _, u := range fans {
		edges = append(edges, model.Follow{FollowerID: u.ID, FollowingID: f.Alice.ID})
	}
	require.NoError(t, db.CreateInBatches(&edges, 50).Error)

	list, next, err := repo.ListFollowers(ctx, f.Alice.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 20)
	assert.Equal(t, list[19].ID, next)

	// 超过上限时按 100 截断，而不是退回默认值
	list, next, err = repo.ListFollowers(ctx, f.Alice.ID, 0, 500)
	require.NoError(t, err)
	assert.Len(t, list, 100)
	assert.Equal(t, list[99].ID, next)

	list, next, err = repo.ListFollowers(ctx, f.Alice.ID, 0, 100)
	require.NoError(t, err)
	assert.Len(t, list, 100)
	assert.NotZero(t, next)
}
