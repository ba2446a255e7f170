package service

import (
	"strconv"
	"testing"
	"time"

	"traubling/internal/pkg"
	"traubling/internal/repository/db"
	"traubling/internal/repository/redis"
	"traubling/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type env struct {
	db  *gorm.DB
	mr  *miniredis.Miniredis
	f   *testutil.Fixture
	log *zap.Logger

	users    *db.UserRepository
	posts    *db.PostRepository
	notifier *Notifier

	post    *PostService
	like    *LikeService
	follow  *FollowService
	comment *CommentService
	notice  *NotificationService
	profile *ProfileService
	user    *UserService
	catalog *CatalogService
	mapSvc  *MapService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gdb := testutil.NewDB(t)
	mr, rdb := testutil.NewRedis(t)
	log := zap.NewNop()

	users := db.NewUserRepository(gdb)
	posts := db.NewPostRepository(gdb)
	catalog := db.NewCatalogRepository(gdb)
	likes := db.NewLikeRepository(gdb)
	follows := db.NewFollowRepository(gdb)
	notifications := db.NewNotificationRepository(gdb)
	notifier := NewNotifier(notifications)
	tokens := pkg.NewTokenManager("access-secret-access-secret-0123", "refresh-secret-refresh-secret-01", time.Minute, time.Hour)

	return &env{
		db:       gdb,
		mr:       mr,
		f:        testutil.Seed(t, gdb),
		log:      log,
		users:    users,
		posts:    posts,
		notifier: notifier,
		post:     NewPostService(posts, catalog, likes, log),
		like:     NewLikeService(likes, redis.NewLikeCacheRepository(rdb), redis.NewDistLock(rdb), notifier, log),
		follow:   NewFollowService(follows, users, notifier),
		comment:  NewCommentService(db.NewCommentRepository(gdb), posts, notifier),
		notice:   NewNotificationService(notifications),
		profile:  NewProfileService(users, follows),
		user:     NewUserService(users, redis.NewSessionRepository(rdb, time.Hour), tokens),
		catalog:  NewCatalogService(catalog),
		mapSvc:   NewMapService(posts, catalog),
	}
}

func ptr[T any](v T) *T { return &v }

func itoa(id uint64) string { return strconv.FormatUint(id, 10) }
