package router

import (
	"context"
	"time"

	"traubling/internal/handler"
	"traubling/internal/middleware"
	"traubling/internal/pkg"
	"traubling/internal/repository/db"
	rrepo "traubling/internal/repository/redis"
	"traubling/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps 进程级单例，由 main 构造后注入
type Deps struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Tokens         *pkg.TokenManager
	SessionTTL     time.Duration
	CallbackSecret string
	RateLimitRPS   float64
	RateLimitBurst int
	Log            *zap.Logger
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Log), middleware.Metrics())

	users := db.NewUserRepository(d.DB)
	posts := db.NewPostRepository(d.DB)
	catalogRepo := db.NewCatalogRepository(d.DB)
	likes := db.NewLikeRepository(d.DB)
	follows := db.NewFollowRepository(d.DB)
	notifications := db.NewNotificationRepository(d.DB)
	notifier := service.NewNotifier(notifications)

	userSvc := service.NewUserService(users, rrepo.NewSessionRepository(d.Redis, d.SessionTTL), d.Tokens)

	authH := handler.NewAuthHandler(userSvc, d.CallbackSecret, d.Log)
	catalog := handler.NewCatalogHandler(service.NewCatalogService(catalogRepo), d.Log)
	post := handler.NewPostHandler(service.NewPostService(posts, catalogRepo, likes, d.Log), d.Log)
	like := handler.NewLikeHandler(service.NewLikeService(likes,
		rrepo.NewLikeCacheRepository(d.Redis), rrepo.NewDistLock(d.Redis), notifier, d.Log), d.Log)
	follow := handler.NewFollowHandler(service.NewFollowService(follows, users, notifier), d.Log)
	notification := handler.NewNotificationHandler(service.NewNotificationService(notifications), d.Log)
	profile := handler.NewProfileHandler(service.NewProfileService(users, follows), d.Log)
	comment := handler.NewCommentHandler(service.NewCommentService(db.NewCommentRepository(d.DB), posts, notifier), d.Log)
	mapH := handler.NewMapHandler(service.NewMapService(posts, catalogRepo), d.Log)
	health := handler.NewHealthHandler(map[string]handler.Check{
		"database": func(ctx context.Context) error { return db.Ping(ctx, d.DB) },
		"redis":    func(ctx context.Context) error { return d.Redis.Ping(ctx).Err() },
	})

	auth := middleware.RequireAuth(userSvc, d.Log)
	optional := middleware.OptionalAuth(userSvc)
	limit := middleware.NewRateLimiter(d.RateLimitRPS, d.RateLimitBurst).Middleware()

	// 运维接口
	r.GET("/health", health.Live)
	r.GET("/healthz", health.Live)
	r.GET("/readyz", health.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// 会话相关接口
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/session", limit, authH.Session)
		authGroup.POST("/refresh", limit, authH.Refresh)
		authGroup.POST("/logout", auth, authH.Logout)
	}

	api.GET("/cities", catalog.Cities)
	api.GET("/countries", catalog.Countries)
	api.GET("/troubles", catalog.Troubles)

	// 帖子相关接口
	api.GET("/search", optional, post.Search)
	api.GET("/search/filters", catalog.SearchFilters)
	api.GET("/ranking", optional, post.Ranking)
	api.POST("/post", auth, limit, post.CreatePost)
	api.GET("/post/:id", optional, post.GetPost)
	api.PUT("/post/:id", auth, limit, post.UpdatePost)
	api.GET("/posts/:id/like", optional, like.Status)
	api.POST("/posts/:id/like", auth, limit, like.Toggle)

	// 评论
	api.GET("/comment", comment.List)
	api.POST("/comment", auth, limit, comment.Create)
	api.POST("/comments/:id/best-answer", auth, limit, comment.BestAnswer)

	// 通知
	api.GET("/notifications", auth, notification.List)
	api.PUT("/notifications", auth, notification.MarkRead)
	api.POST("/notifications", optional, notification.UnreadCount)
	api.GET("/notifications/unread-count", optional, notification.UnreadCount)

	api.GET("/profile", auth, profile.Me)
	api.PUT("/profile", auth, limit, profile.Update)

	api.GET("/map", mapH.Search)
	api.POST("/map", mapH.Facets)

	// 用户相关接口
	userGroup := api.Group("/user")
	{
		userGroup.GET("/posts", auth, post.MyPosts)
		userGroup.GET("/liked-posts", auth, post.LikedPosts)
		userGroup.GET("/follow", optional, follow.Relation)
		userGroup.POST("/follow", auth, limit, follow.Follow)
		userGroup.GET("/profile", optional, profile.Lookup)
		userGroup.PUT("/profile", auth, limit, profile.Update)
		userGroup.GET("/expertises", comment.Expertises)
		userGroup.GET("/:userId", optional, profile.Public)
		userGroup.GET("/:userId/posts", post.UserPosts)
		userGroup.GET("/:userId/followers", follow.ListFollowers)
		userGroup.GET("/:userId/following", follow.ListFollowings)
	}

	return r
}
