package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	LikeCntTTL       = 24 * time.Hour
	LockTTL          = 300 * time.Millisecond
	LikeCntKeyPrefix = "like:cnt:post"  // 缓存某个帖子的点赞计数
	LockKeyPrefix    = "lock:like:post" // 分布式锁
)

// LikeCacheRepository 点赞计数缓存，数据库为准，写后删除
type LikeCacheRepository struct {
	RDB        *redis.Client
	likeCntTTL time.Duration
}

type DistLock struct {
	RDB *redis.Client
}

func NewLikeCacheRepository(rdb *redis.Client) *LikeCacheRepository {
	return &LikeCacheRepository{RDB: rdb, likeCntTTL: LikeCntTTL}
}

func NewDistLock(rdb *redis.Client) *DistLock {
	return &DistLock{RDB: rdb}
}

func (r *LikeCacheRepository) likeCntKey(postID uint64) string {
	return fmt.Sprintf("%s:%d", LikeCntKeyPrefix, postID)
}

// GetLikeCountCached 从缓存读取帖子的点赞数量，第二个返回值表示是否命中
func (r *LikeCacheRepository) GetLikeCountCached(ctx context.Context, postID uint64) (int64, bool, error) {
	val, err := r.RDB.Get(ctx, r.likeCntKey(postID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

// SetLikeCount 回填帖子点赞数
func (r *LikeCacheRepository) SetLikeCount(ctx context.Context, postID uint64, cnt int64) error {
	return r.RDB.Set(ctx, r.likeCntKey(postID), cnt, r.likeCntTTL).Err()
}

// DeleteCount 删除计数缓存；delay>0 时再异步删一次，覆盖并发回填的窗口
func (r *LikeCacheRepository) DeleteCount(ctx context.Context, postID uint64, delay time.Duration) error {
	key := r.likeCntKey(postID)
	if err := r.RDB.Del(ctx, key).Err(); err != nil {
		return err
	}
	if delay > 0 {
		go func() {
			t := time.NewTimer(delay)
			defer t.Stop()
			<-t.C
			_ = r.RDB.Del(context.Background(), key).Err()
		}()
	}
	return nil
}

// Acquire 请求加分布式锁
func (l *DistLock) Acquire(ctx context.Context, postID uint64, token string) (bool, error) {
	key := fmt.Sprintf("%s:%d", LockKeyPrefix, postID)
	return l.RDB.SetNX(ctx, key, token, LockTTL).Result()
}

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`)

// Release 用 lua 保证只释放自己持有的锁
func (l *DistLock) Release(ctx context.Context, postID uint64, token string) error {
	key := fmt.Sprintf("%s:%d", LockKeyPrefix, postID)
	return releaseScript.Run(ctx, l.RDB, []string{key}, token).Err()
}
