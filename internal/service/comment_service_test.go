package service

import (
	"context"
	"testing"

	"traubling/internal/model"
	"traubling/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentCreate(t *testing.T) {
	e := newEnv(t)
	post := testutil.CreatePost(t, e.db, e.f, e.f.Alice, "scam at the station")
	ctx := context.Background()

	c, err := e.comment.Create(ctx, &e.f.Bob, post.ID, "  same thing happened to me  ")
	require.NoError(t, err)
	assert.Equal(t, "same thing happened to me", c.Content)
	assert.Equal(t, e.f.Bob.ID, c.UserID)
	require.NotNil(t, c.User)
	assert.Equal(t, "Bob", c.User.Name)

	var n model.Notification
	require.NoError(t, e.db.Where("user_id = ?", e.f.Alice.ID).First(&n).Error)
	assert.Equal(t, model.NotificationComment, n.Type)

	// 作者自己评论不通知
	_, err = e.comment.Create(ctx, &e.f.Alice, post.ID, "thanks")
	require.NoError(t, err)
	var total int64
	require.NoError(t, e.db.Model(&model.Notification{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)

	list, err := e.comment.List(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "thanks", list[1].Content)
}

func TestCommentCreateRejections(t *testing.T) {
	e := newEnv(t)
	post := testutil.CreatePost(t, e.db, e.f, e.f.Alice, "p")
	ctx := context.Background()

	_, err := e.comment.Create(ctx, &e.f.Bob, post.ID, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = e.comment.Create(ctx, &e.f.Bob, 999, "hello")
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = e.comment.List(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBestAnswerRules(t *testing.T) {
	e := newEnv(t)
	post := testutil.CreatePost(t, e.db, e.f, e.f.Alice, "which bus")
	ctx := context.Background()

	bob, err := e.comment.Create(ctx, &e.f.Bob, post.ID, "line 2")
	require.NoError(t, err)
	carol, err := e.comment.Create(ctx, &e.f.Carol, post.ID, "line 3")
	require.NoError(t, err)
	own, err := e.comment.Create(ctx, &e.f.Alice, post.ID, "solved")
	require.NoError(t, err)

	_, err = e.comment.MarkBestAnswer(ctx, &e.f.Bob, bob.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = e.comment.MarkBestAnswer(ctx, &e.f.Alice, own.ID)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = e.comment.MarkBestAnswer(ctx, &e.f.Alice, 999)
	assert.ErrorIs(t, err, ErrCommentNotFound)

	marked, err := e.comment.MarkBestAnswer(ctx, &e.f.Alice, bob.ID)
	require.NoError(t, err)
	assert.True(t, marked.IsBestAnswer)

	_, err = e.comment.MarkBestAnswer(ctx, &e.f.Alice, carol.ID)
	assert.ErrorIs(t, err, ErrConflict)

	exps, err := e.comment.Expertises(ctx, e.f.Bob.ID)
	require.NoError(t, err)
	require.Len(t, exps, 1)
	assert.Equal(t, "パリ", exps[0].CityName)
	assert.Equal(t, "荷物紛失", exps[0].TroubleName)
	assert.Equal(t, 1, exps[0].BestAnswerCount)
	assert.False(t, exps[0].IsMaster)

	var n model.Notification
	require.NoError(t, e.db.Where("type = ?", model.NotificationBestAnswer).First(&n).Error)
	assert.Equal(t, e.f.Bob.ID, n.UserID)
}

func TestBestAnswerWithoutCitySkipsExpertise(t *testing.T) {
	e := newEnv(t)
	post := testutil.CreatePost(t, e.db, e.f, e.f.Alice, "country only", func(p *model.Post) { p.CityID = nil })
	ctx := context.Background()

	c, err := e.comment.Create(ctx, &e.f.Bob, post.ID, "answer")
	require.NoError(t, err)
	_, err = e.comment.MarkBestAnswer(ctx, &e.f.Alice, c.ID)
	require.NoError(t, err)

	exps, err := e.comment.Expertises(ctx, e.f.Bob.ID)
	require.NoError(t, err)
	assert.Empty(t, exps)
}
