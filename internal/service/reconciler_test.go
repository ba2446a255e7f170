package service

import (
	"context"
	"testing"

	"traubling/internal/model"
	"traubling/internal/repository/db"
	"traubling/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileOnceFixesDrift(t *testing.T) {
	e := newEnv(t)
	drifted := testutil.CreatePost(t, e.db, e.f, e.f.Alice, "drifted", testutil.WithLikes(7))
	healthy := testutil.CreatePost(t, e.db, e.f, e.f.Alice, "healthy")
	extra := testutil.CreatePost(t, e.db, e.f, e.f.Alice, "missing likes")
	ctx := context.Background()

	_, _, err := e.like.Toggle(ctx, &e.f.Bob, healthy.ID)
	require.NoError(t, err)
	require.NoError(t, e.db.Create(&model.Like{PostID: extra.ID, UserID: e.f.Carol.ID}).Error)

	// batch 1 逼出多批扫描
	r := NewLikeCountReconciler(db.NewLikeCountReconcilerRepo(e.db), 1, 0, e.log)
	fixed, err := r.ReconcileOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fixed)

	var p model.Post
	require.NoError(t, e.db.First(&p, drifted.ID).Error)
	assert.Zero(t, p.LikeCount)
	require.NoError(t, e.db.First(&p, extra.ID).Error)
	assert.Equal(t, int64(1), p.LikeCount)
	require.NoError(t, e.db.First(&p, healthy.ID).Error)
	assert.Equal(t, int64(1), p.LikeCount)

	fixed, err = r.ReconcileOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, fixed)
}
