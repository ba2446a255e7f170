package db

import (
	"context"
	"regexp"
	"testing"

	"traubling/internal/model"
	"traubling/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestMarkReadIsScopedToOwner(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	mine := &model.Notification{UserID: f.Alice.ID, FromUserID: &f.Bob.ID, Type: model.NotificationFollow, Message: "m1"}
	other := &model.Notification{UserID: f.Alice.ID, Type: model.NotificationLike, Message: "m2"}
	bobs := &model.Notification{UserID: f.Bob.ID, Type: model.NotificationLike, Message: "m3"}
	for _, n := range []*model.Notification{mine, other, bobs} {
		require.NoError(t, repo.CreateTx(db, n, nil))
	}

	affected, err := repo.MarkRead(ctx, f.Alice.ID, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// 别人的通知不受影响
	affected, err = repo.MarkRead(ctx, f.Alice.ID, bobs.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)

	unread, err := repo.UnreadCount(ctx, f.Alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
	unread, err = repo.UnreadCount(ctx, f.Bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	_, err = repo.MarkAllRead(ctx, f.Alice.ID)
	require.NoError(t, err)
	unread, err = repo.UnreadCount(ctx, f.Alice.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestListRecentLoadsRelations(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	post := testutil.CreatePost(t, db, f, f.Alice, "liked post")
	repo := NewNotificationRepository(db)

	for i := 0; i < 25; i++ {
		n := &model.Notification{UserID: f.Alice.ID, FromUserID: &f.Bob.ID, PostID: &post.ID, Type: model.NotificationLike, Message: "like"}
		event := &model.Outbox{EventType: string(model.NotificationLike), RecipientID: f.Alice.ID, Payload: "{}"}
		require.NoError(t, repo.CreateTx(db, n, event))
	}

	list, err := repo.ListRecent(context.Background(), f.Alice.ID, 20)
	require.NoError(t, err)
	require.Len(t, list, 20)
	assert.Greater(t, list[0].ID, list[19].ID)
	require.NotNil(t, list[0].FromUser)
	assert.Equal(t, "Bob", list[0].FromUser.Name)
	require.NotNil(t, list[0].Post)
	assert.Equal(t, "liked post", list[0].Post.Title)

	var events int64
	require.NoError(t, db.Model(&model.Outbox{}).Count(&events).Error)
	assert.Equal(t, int64(25), events)
}

func TestMarkReadSQLShape(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 mockDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "notifications" SET "is_read"=$1 WHERE id = $2 AND user_id = $3`)).
		WithArgs(true, 7, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	affected, err := NewNotificationRepository(gdb).MarkRead(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
