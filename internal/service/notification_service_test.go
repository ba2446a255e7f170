package service

import (
	"context"
	"testing"

	"traubling/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationFlow(t *testing.T) {
	e := newEnv(t)
	post := testutil.CreatePost(t, e.db, e.f, e.f.Alice, "noisy hostel")
	ctx := context.Background()

	_, _, err := e.like.Toggle(ctx, &e.f.Bob, post.ID)
	require.NoError(t, err)
	_, err = e.comment.Create(ctx, &e.f.Bob, post.ID, "earplugs")
	require.NoError(t, err)

	count, err := e.notice.UnreadCount(ctx, e.f.Alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	list, err := e.notice.Recent(ctx, e.f.Alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].FromUser)
	assert.Equal(t, "Bob", list[0].FromUser.Name)
	require.NotNil(t, list[0].Post)
	assert.Equal(t, "noisy hostel", list[0].Post.Title)

	// 别人的通知不能被标记
	n, err := e.notice.MarkRead(ctx, e.f.Bob.ID, list[0].ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = e.notice.MarkRead(ctx, e.f.Alice.ID, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = e.notice.MarkAllRead(ctx, e.f.Alice.ID)
	require.NoError(t, err)
	count, err = e.notice.UnreadCount(ctx, e.f.Alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = e.notice.UnreadCount(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, count)
}
