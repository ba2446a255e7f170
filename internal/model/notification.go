package model

import "time"

type NotificationType string

const (
	NotificationLike       NotificationType = "LIKE"
	NotificationComment    NotificationType = "COMMENT"
	NotificationFollow     NotificationType = "FOLLOW"
	NotificationBestAnswer NotificationType = "BEST_ANSWER"
)

type Notification struct {
	ID         uint64           `gorm:"primaryKey" json:"id"`
	UserID     uint64           `gorm:"not null;index:idx_user_read" json:"userId"`
	FromUserID *uint64          `json:"fromUserId"`
	Type       NotificationType `gorm:"size:16;not null" json:"type"`
	PostID     *uint64          `json:"postId"`
	Message    string           `gorm:"size:500;not null" json:"message"`
	IsRead     bool             `gorm:"not null;default:false;index:idx_user_read" json:"isRead"`
	CreatedAt  time.Time        `gorm:"index" json:"createdAt"`

	FromUser *User `gorm:"foreignKey:FromUserID" json:"fromUser,omitempty"`
	Post     *Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
}
