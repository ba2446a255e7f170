package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeCountCache(t *testing.T) {
	_, client := setupRedis(t)
	repo := NewLikeCacheRepository(client)
	ctx := context.Background()

	_, ok, err := repo.GetLikeCountCached(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SetLikeCount(ctx, 1, 12))
	v, ok, err := repo.GetLikeCountCached(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(12), v)

	require.NoError(t, repo.DeleteCount(ctx, 1, 0))
	_, ok, err = repo.GetLikeCountCached(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelayedSecondDelete(t *testing.T) {
	_, client := setupRedis(t)
	repo := NewLikeCacheRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.DeleteCount(ctx, 5, 20*time.Millisecond))
	// 删除后被并发回填
	require.NoError(t, repo.SetLikeCount(ctx, 5, 99))

	assert.Eventually(t, func() bool {
		_, ok, err := repo.GetLikeCountCached(ctx, 5)
		return err == nil && !ok
	}, time.Second, 10*time.Millisecond)
}

func TestDistLock(t *testing.T) {
	mr, client := setupRedis(t)
	lock := NewDistLock(client)
	ctx := context.Background()

	got, err := lock.Acquire(ctx, 7, "a")
	require.NoError(t, err)
	assert.True(t, got)

	got, err = lock.Acquire(ctx, 7, "b")
	require.NoError(t, err)
	assert.False(t, got)

	// 非持有者释放无效
	require.NoError(t, lock.Release(ctx, 7, "b"))
	assert.True(t, mr.Exists(LockKeyPrefix+":7"))

	require.NoError(t, lock.Release(ctx, 7, "a"))
	assert.False(t, mr.Exists(LockKeyPrefix+":7"))
}
