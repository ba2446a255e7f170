package db

import (
	"context"
	"errors"

	"traubling/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAlreadyAnswered = errors.New("best answer already chosen")
)

type CommentRepository struct {
	DB *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{DB: db}
}

// Create 评论与通知在同一事务内写入
func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment, after func(tx *gorm.DB) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if err := tx.Preload("User").First(comment, comment.ID).Error; err != nil {
			return err
		}
		if after != nil {
			return after(tx)
		}
		return nil
	})
}

func (r *CommentRepository) FindByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var c model.Comment
	err := r.DB.WithContext(ctx).First(&c, id).Error
	return &c, err
}

// ListByPost 按时间正序
func (r *CommentRepository) ListByPost(ctx context.Context, postID uint64) ([]model.Comment, error) {
	var list []model.Comment
	err := r.DB.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").Order("id ASC").
		Find(&list).Error
	return list, err
}

// MarkBestAnswer 标记最佳回答；帖子已有最佳回答时返回 ErrAlreadyAnswered。
// 帖子有城市时同时累加回答者在 (城市, 分类) 上的专长计数
func (r *CommentRepository) MarkBestAnswer(ctx context.Context, post *model.Post, comment *model.Comment, after func(tx *gorm.DB) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Post{}).
			Where("id = ? AND best_answer_id IS NULL", post.ID).
			Update("best_answer_id", comment.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyAnswered
		}
		if err := tx.Model(&model.Comment{}).Where("id = ?", comment.ID).
			Update("is_best_answer", true).Error; err != nil {
			return err
		}
		if post.CityID != nil {
			exp := model.UserExpertise{
				UserID:          comment.UserID,
				CityID:          *post.CityID,
				TroubleID:       post.TroubleID,
				BestAnswerCount: 1,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "city_id"}, {Name: "trouble_id"}},
				DoUpdates: clause.Assignments(map[string]any{"best_answer_count": gorm.Expr("user_expertises.best_answer_count + 1")}),
			}).Create(&exp).Error; err != nil {
				return err
			}
		}
		if after != nil {
			return after(tx)
		}
		return nil
	})
}

// ListExpertises 按最佳回答数倒序
func (r *CommentRepository) ListExpertises(ctx context.Context, userID uint64) ([]model.UserExpertise, error) {
	var list []model.UserExpertise
	err := r.DB.WithContext(ctx).
		Preload("City").Preload("Trouble").
		Where("user_id = ?", userID).
		Order("best_answer_count DESC").Order("id ASC").
		Find(&list).Error
	return list, err
}
