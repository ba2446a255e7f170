package db

import (
	"context"
	"testing"

	"traubling/internal/model"
	"traubling/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLikeToggleKeepsCounterInStep(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	post := testutil.CreatePost(t, db, f, f.Alice, "stolen bag", testutil.WithLikes(5))
	repo := NewLikeRepository(db)
	ctx := context.Background()

	liked, count, err := repo.Toggle(ctx, f.Bob.ID, post.ID, nil)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(6), count)

	liked, count, err = repo.Toggle(ctx, f.Bob.ID, post.ID, nil)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(5), count)

	var rows int64
	require.NoError(t, db.Model(&model.Like{}).Where("post_id = ?", post.ID).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestLikeCountNeverNegative(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	post := testutil.CreatePost(t, db, f, f.Alice, "drifted counter")
	// 已有点赞记录但计数为 0，模拟漂移
	require.NoError(t, db.Create(&model.Like{PostID: post.ID, UserID: f.Bob.ID}).Error)

	repo := NewLikeRepository(db)
	liked, count, err := repo.Toggle(context.Background(), f.Bob.ID, post.ID, nil)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(0), count)
}

func TestLikeToggleHookRunsOnlyOnNewLike(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	post := testutil.CreatePost(t, db, f, f.Alice, "hooked")
	repo := NewLikeRepository(db)

	calls := 0
	hook := func(tx *gorm.DB, p *model.Post) error {
		calls++
		assert.Equal(t, f.Alice.ID, p.UserID)
		assert.Equal(t, "hooked", p.Title)
		return nil
	}
	for i := 0; i < 3; i++ {
		_, _, err := repo.Toggle(context.Background(), f.Bob.ID, post.ID, hook)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
}

func TestLikeToggleMissingPost(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)

	_, _, err := NewLikeRepository(db).Toggle(context.Background(), f.Bob.ID, 999, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLikedSet(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	p1 := testutil.CreatePost(t, db, f, f.Alice, "one")
	p2 := testutil.CreatePost(t, db, f, f.Alice, "two")
	repo := NewLikeRepository(db)
	_, _, err := repo.Toggle(context.Background(), f.Bob.ID, p2.ID, nil)
	require.NoError(t, err)

	set, err := repo.LikedSet(context.Background(), f.Bob.ID, []uint64{p1.ID, p2.ID})
	require.NoError(t, err)
	assert.False(t, set[p1.ID])
	assert.True(t, set[p2.ID])
}

func TestReconcilerRepoFindsDrift(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	post := testutil.CreatePost(t, db, f, f.Alice, "drift", testutil.WithLikes(7))
	require.NoError(t, db.Create(&model.Like{PostID: post.ID, UserID: f.Bob.ID}).Error)

	repo := NewLikeCountReconcilerRepo(db)
	list, last, err := repo.ReconcileList(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, post.ID, last)
	assert.Equal(t, int64(7), list[0].LikeCount)

	actual, err := repo.RealLikeCounts(context.Background(), []uint64{post.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), actual[post.ID])

	require.NoError(t, repo.FixLikeCount(context.Background(), post.ID, actual[post.ID]))
	count, err := NewLikeRepository(db).GetLikeCount(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
