package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"traubling/internal/model"
	"traubling/internal/repository/db"
	"traubling/internal/repository/redis"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 延迟二删的间隔
const likeCacheSecondDelete = 500 * time.Millisecond

type LikeService struct {
	repo     *db.LikeRepository
	cache    *redis.LikeCacheRepository
	lock     *redis.DistLock
	notifier *Notifier
	log      *zap.Logger
}

func NewLikeService(repo *db.LikeRepository, cache *redis.LikeCacheRepository, lock *redis.DistLock, notifier *Notifier, log *zap.Logger) *LikeService {
	return &LikeService{repo: repo, cache: cache, lock: lock, notifier: notifier, log: log}
}

// Toggle 服务端决定点赞状态，不信任客户端传来的 isLiked
func (s *LikeService) Toggle(ctx context.Context, user *model.User, postID uint64) (bool, int64, error) {
	if user == nil || user.ID == 0 || postID == 0 {
		return false, 0, ErrInvalidID
	}

	liked, count, err := s.repo.Toggle(ctx, user.ID, postID, func(tx *gorm.DB, post *model.Post) error {
		// 给自己点赞不通知
		if post.UserID == user.ID {
			return nil
		}
		return s.notifier.NotifyTx(tx, Notice{
			RecipientID: post.UserID,
			From:        user,
			Type:        model.NotificationLike,
			PostID:      &post.ID,
			Message:     LikeMessage(user, post.Title),
		})
	})
	if err != nil {
		return false, 0, notFoundAs(err, ErrPostNotFound)
	}

	// 写库成功后删计数缓存，交给读侧回填
	if err = s.cache.DeleteCount(ctx, postID, likeCacheSecondDelete); err != nil {
		s.log.Warn("like count cache delete failed", zap.Uint64("post_id", postID), zap.Error(err))
	}
	return liked, count, nil
}

// Status 当前用户是否点赞及点赞数；未登录时 liked=false
func (s *LikeService) Status(ctx context.Context, viewerID, postID uint64) (bool, int64, error) {
	if postID == 0 {
		return false, 0, ErrInvalidID
	}
	count, err := s.GetCountWithLock(ctx, postID)
	if err != nil {
		return false, 0, err
	}
	if viewerID == 0 {
		return false, count, nil
	}
	liked, err := s.repo.IsLiked(ctx, viewerID, postID)
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

// GetCountWithLock 缓存未命中时只让拿到锁的请求回源
func (s *LikeService) GetCountWithLock(ctx context.Context, postID uint64) (int64, error) {
	if v, ok, err := s.cache.GetLikeCountCached(ctx, postID); err == nil && ok {
		return v, nil
	}

	token := fmt.Sprintf("%d-%d", postID, time.Now().UnixNano())
	got, _ := s.lock.Acquire(ctx, postID, token)
	if got {
		defer func() {
			if err := s.lock.Release(ctx, postID, token); err != nil {
				s.log.Warn("like lock release failed", zap.Uint64("post_id", postID), zap.Error(err))
			}
		}()
		// 双重检查
		if v, ok, err := s.cache.GetLikeCountCached(ctx, postID); err == nil && ok {
			return v, nil
		}
		return s.loadCount(ctx, postID, true)
	}

	// 没拿到锁，短暂退避后再读一次缓存
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(50 * time.Millisecond):
	}
	if v, ok, err := s.cache.GetLikeCountCached(ctx, postID); err == nil && ok {
		return v, nil
	}
	return s.loadCount(ctx, postID, false)
}

func (s *LikeService) loadCount(ctx context.Context, postID uint64, fill bool) (int64, error) {
	v, err := s.repo.GetLikeCount(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrPostNotFound
		}
		return 0, err
	}
	if fill {
		_ = s.cache.SetLikeCount(ctx, postID, v)
	}
	return v, nil
}
