package db

import (
	"context"

	"traubling/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

// CreateTx 在调用方事务内写入通知及对应 outbox 事件
func (r *NotificationRepository) CreateTx(tx *gorm.DB, n *model.Notification, event *model.Outbox) error {
	if err := tx.Create(n).Error; err != nil {
		return err
	}
	if event == nil {
		return nil
	}
	return tx.Create(event).Error
}

// ListRecent 最新的 limit 条，带发送者和帖子摘要
func (r *NotificationRepository) ListRecent(ctx context.Context, userID uint64, limit int) ([]model.Notification, error) {
	var list []model.Notification
	err := r.DB.WithContext(ctx).
		Preload("FromUser").
		Preload("Post", func(db *gorm.DB) *gorm.DB { return db.Select("id", "title") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// MarkRead 只会更新属于 userID 的那一条
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, notificationID uint64) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}
