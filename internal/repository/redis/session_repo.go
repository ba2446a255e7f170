package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionMismatch  = errors.New("session user mismatch")
	ErrRedisUnavailable = errors.New("redis unavailable")
)

const SessionPrefix = "login:session"

// SessionRepository 会话 id -> 用户 id，登出即删除
type SessionRepository struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{RDB: rdb, TTL: ttl}
}

func (r *SessionRepository) key(sessionID string) string {
	return fmt.Sprintf("%s:%s", SessionPrefix, sessionID)
}

func (r *SessionRepository) Add(ctx context.Context, sessionID string, userID uint64) error {
	if err := r.RDB.Set(ctx, r.key(sessionID), userID, r.TTL).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

// Check 会话存在且属于该用户，校验通过后顺延过期时间
func (r *SessionRepository) Check(ctx context.Context, sessionID string, userID uint64) error {
	val, err := r.RDB.Get(ctx, r.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrSessionNotFound
	}
	if err != nil {
		return ErrRedisUnavailable
	}
	if val != strconv.FormatUint(userID, 10) {
		return ErrSessionMismatch
	}
	if err = r.RDB.Expire(ctx, r.key(sessionID), r.TTL).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.RDB.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}
