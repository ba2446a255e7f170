package service

import (
	"context"
	"testing"

	"traubling/internal/model"
	"traubling/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeToggleNotifiesOwner(t *testing.T) {
	e := newEnv(t)
	post := testutil.CreatePost(t, e.db, e.f, e.f.Alice, "lost bag", testutil.WithLikes(5))
	ctx := context.Background()

	liked, count, err := e.like.Toggle(ctx, &e.f.Bob, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(6), count)

	var n model.Notification
	require.NoError(t, e.db.Where("user_id = ?", e.f.Alice.ID).First(&n).Error)
	assert.Equal(t, model.NotificationLike, n.Type)
	assert.Equal(t, "Bobがあなたの投稿「lost bag」にいいねしました。", n.Message)
	require.NotNil(t, n.FromUserID)
	assert.Equal(t, e.f.Bob.ID, *n.FromUserID)

	var outbox int64
	require.NoError(t, e.db.Model(&model.Outbox{}).Where("recipient_id = ?", e.f.Alice.ID).Count(&outbox).Error)
	assert.Equal(t, int64(1), outbox)

	liked, count, err = e.like.Toggle(ctx, &e.f.Bob, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(5), count)

	// 取消点赞不产生新通知
	var total int64
	require.NoError(t, e.db.Model(&model.Notification{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestLikeOwnPostAndAnonymousName(t *testing.T) {
	e := newEnv(t)
	post := testutil.CreatePost(t, e.db, e.f, e.f.Alice, "own")
	ctx := context.Background()

	_, _, err := e.like.Toggle(ctx, &e.f.Alice, post.ID)
	require.NoError(t, err)
	var total int64
	require.NoError(t, e.db.Model(&model.Notification{}).Count(&total).Error)
	assert.Zero(t, total)

	_, _, err = e.like.Toggle(ctx, &e.f.Carol, post.ID)
	require.NoError(t, err)
	var n model.Notification
	require.NoError(t, e.db.First(&n).Error)
	assert.Equal(t, "匿名ユーザーがあなたの投稿「own」にいいねしました。", n.Message)
}

func TestLikeMissingPost(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.like.Toggle(context.Background(), &e.f.Bob, 404)
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, _, err = e.like.Status(context.Background(), 0, 404)
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, _, err = e.like.Toggle(context.Background(), &e.f.Bob, 0)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestLikeStatusUsesCache(t *testing.T) {
	e := newEnv(t)
	post := testutil.CreatePost(t, e.db, e.f, e.f.Alice, "cached", testutil.WithLikes(3))
	ctx := context.Background()

	liked, count, err := e.like.Status(ctx, 0, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(3), count)

	v, err := e.mr.Get("like:cnt:post:" + itoa(post.ID))
	require.NoError(t, err)
	assert.Equal(t, "3", v)

	// toggle 之后缓存被删除，再读取得到新值
	_, _, err = e.like.Toggle(ctx, &e.f.Bob, post.ID)
	require.NoError(t, err)
	liked, count, err = e.like.Status(ctx, e.f.Bob.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(4), count)
}
