package db

import (
	"context"

	"traubling/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository struct {
	DB *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{DB: db}
}

// Toggle 有关系则删除（取关），否则创建（关注）；onFollow 只在新建关系时执行
func (r *FollowRepository) Toggle(ctx context.Context, followerID, followingID uint64, onFollow func(tx *gorm.DB) error) (bool, error) {
	var following bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&model.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			following = false
			return nil
		}

		following = true
		res = tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.Follow{FollowerID: followerID, FollowingID: followingID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 && onFollow != nil {
			return onFollow(tx)
		}
		return nil
	})
	return following, err
}

// IsFollowing 判断是否关注
func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *FollowRepository) FollowersCount(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Follow{}).Where("following_id = ?", userID).Count(&n).Error
	return n, err
}

// ListFollowings 获取关注的人，按用户 id 倒序游标分页
func (r *FollowRepository) ListFollowings(ctx context.Context, userID uint64, cursor uint64, limit int) ([]model.User, uint64, error) {
	return r.listUsers(ctx, "follows.following_id", "follows.follower_id", userID, cursor, limit)
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListFollowers 获取粉丝列表
func (r *FollowRepository) ListFollowers(ctx context.Context, userID uint64, cursor uint64, limit int) ([]model.User, uint64, error) {
	return r.listUsers(ctx, "follows.follower_id", "follows.following_id", userID, cursor, limit)
}

func (r *FollowRepository) listUsers(ctx context.Context, joinCol, whereCol string, userID, cursor uint64, limit int) ([]model.User, uint64, error) {
	switch {
	case limit <= 0:
		limit = defaultPageSize
	case limit > maxPageSize:
		limit = maxPageSize
	}
	q := r.DB.WithContext(ctx).Model(&model.User{}).
		Joins("JOIN follows ON users.id = "+joinCol).
		Where(whereCol+" = ?", userID)
	if cursor > 0 {
		q = q.Where("users.id < ?", cursor)
	}
	var rows []model.User
	// limit+1 判断是否还有下一页
	if err := q.Order("users.id DESC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var next uint64
	if len(rows) > limit {
		next = rows[limit-1].ID
		rows = rows[:limit]
	}
	return rows, next, nil
}
