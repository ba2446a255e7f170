package db

import (
	"context"
	"testing"

	"traubling/internal/model"
	"traubling/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentCreateAndList(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	post := testutil.CreatePost(t, db, f, f.Alice, "q")
	repo := NewCommentRepository(db)
	ctx := context.Background()

	first := &model.Comment{PostID: post.ID, UserID: f.Bob.ID, Content: "first"}
	require.NoError(t, repo.Create(ctx, first, nil))
	require.NotNil(t, first.User)
	assert.Equal(t, "Bob", first.User.Name)
	require.NoError(t, repo.Create(ctx, &model.Comment{PostID: post.ID, UserID: f.Carol.ID, Content: "second"}, nil))

	list, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Content)
	assert.Equal(t, "second", list[1].Content)
	assert.Equal(t, f.Carol.ID, list[1].User.ID)
}

func TestMarkBestAnswer(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	post := testutil.CreatePost(t, db, f, f.Alice, "where is my bag")
	repo := NewCommentRepository(db)
	ctx := context.Background()

	c1 := &model.Comment{PostID: post.ID, UserID: f.Bob.ID, Content: "try the lost and found"}
	c2 := &model.Comment{PostID: post.ID, UserID: f.Carol.ID, Content: "call the airline"}
	require.NoError(t, repo.Create(ctx, c1, nil))
	require.NoError(t, repo.Create(ctx, c2, nil))

	require.NoError(t, repo.MarkBestAnswer(ctx, &post, c1, nil))
	assert.ErrorIs(t, repo.MarkBestAnswer(ctx, &post, c2, nil), ErrAlreadyAnswered)

	stored, err := repo.FindByID(ctx, c1.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsBestAnswer)

	exps, err := repo.ListExpertises(ctx, f.Bob.ID)
	require.NoError(t, err)
	require.Len(t, exps, 1)
	assert.Equal(t, 1, exps[0].BestAnswerCount)
	assert.Equal(t, "パリ", exps[0].City.JaName)
	assert.Equal(t, "荷物紛失", exps[0].Trouble.JaName)

	// 同一城市、分类的第二个帖子累加到同一行
	other := testutil.CreatePost(t, db, f, f.Carol, "bag again")
	c3 := &model.Comment{PostID: other.ID, UserID: f.Bob.ID, Content: "same advice"}
	require.NoError(t, repo.Create(ctx, c3, nil))
	require.NoError(t, repo.MarkBestAnswer(ctx, &other, c3, nil))

	exps, err = repo.ListExpertises(ctx, f.Bob.ID)
	require.NoError(t, err)
	require.Len(t, exps, 1)
	assert.Equal(t, 2, exps[0].BestAnswerCount)
}
