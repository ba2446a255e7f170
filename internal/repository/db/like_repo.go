package db

import (
	"context"

	"traubling/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository struct {
	DB *gorm.DB
}

type LikeCountReconcilerRepo struct {
	DB *gorm.DB
}

// LikePair 对账批次中的帖子计数
type LikePair struct {
	ID        uint64
	LikeCount int64
}

// TxHook 在同一事务内执行的附加写入（通知、outbox）
type TxHook func(tx *gorm.DB, post *model.Post) error

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{DB: db}
}

func NewLikeCountReconcilerRepo(db *gorm.DB) *LikeCountReconcilerRepo {
	return &LikeCountReconcilerRepo{DB: db}
}

// Toggle 以 likes 表为准切换点赞：删到了就 -1，否则插入并 +1，计数在同一事务内读回
func (r *LikeRepository) Toggle(ctx context.Context, userID, postID uint64, onLiked TxHook) (bool, int64, error) {
	var (
		liked bool
		count int64
	)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.Select("id", "user_id", "title").First(&post, postID).Error; err != nil {
			return err
		}

		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			// 计数防负数
			if err := tx.Model(&model.Post{}).
				Where("id = ?", postID).
				UpdateColumn("like_count", gorm.Expr("CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END")).
				Error; err != nil {
				return err
			}
		} else {
			liked = true
			// 并发下同一用户重复插入时不报错，也不重复计数
			res = tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&model.Like{PostID: postID, UserID: userID})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				if err := tx.Model(&model.Post{}).
					Where("id = ?", postID).
					UpdateColumn("like_count", gorm.Expr("like_count + 1")).
					Error; err != nil {
					return err
				}
				if onLiked != nil {
					if err := onLiked(tx, &post); err != nil {
						return err
					}
				}
			}
		}

		var counts []int64
		if err := tx.Model(&model.Post{}).Where("id = ?", postID).Pluck("like_count", &counts).Error; err != nil {
			return err
		}
		if len(counts) > 0 {
			count = counts[0]
		}
		return nil
	})
	return liked, count, err
}

func (r *LikeRepository) IsLiked(ctx context.Context, userID, postID uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

// LikedSet 批量查询用户对一组帖子的点赞状态
func (r *LikeRepository) LikedSet(ctx context.Context, userID uint64, postIDs []uint64) (map[uint64]bool, error) {
	out := make(map[uint64]bool, len(postIDs))
	if userID == 0 || len(postIDs) == 0 {
		return out, nil
	}
	var ids []uint64
	if err := r.DB.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *LikeRepository) GetLikeCount(ctx context.Context, postID uint64) (int64, error) {
	var p model.Post
	err := r.DB.WithContext(ctx).Select("id", "like_count").First(&p, postID).Error
	if err != nil {
		return 0, err
	}
	return p.LikeCount, nil
}

// ReconcileList 按 id 游标批量读取帖子计数
func (r *LikeCountReconcilerRepo) ReconcileList(ctx context.Context, batchSize int, lastID uint64) ([]LikePair, uint64, error) {
	var list []LikePair
	if err := r.DB.WithContext(ctx).Model(&model.Post{}).
		Select("id", "like_count").
		Where("id > ?", lastID).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, lastID, err
	}
	if len(list) == 0 {
		return nil, lastID, nil
	}
	return list, list[len(list)-1].ID, nil
}

// RealLikeCounts likes 表中的真实点赞数
func (r *LikeCountReconcilerRepo) RealLikeCounts(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	out := make(map[uint64]int64, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		PostID uint64
		Total  int64
	}
	if err := r.DB.WithContext(ctx).Model(&model.Like{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.PostID] = row.Total
	}
	return out, nil
}

// FixLikeCount 修正帖子点赞数
func (r *LikeCountReconcilerRepo) FixLikeCount(ctx context.Context, postID uint64, actual int64) error {
	return r.DB.WithContext(ctx).Model(&model.Post{}).Where("id = ?", postID).
		UpdateColumn("like_count", actual).Error
}
