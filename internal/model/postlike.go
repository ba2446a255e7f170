package model

import "time"

// Like (post_id, user_id) 联合主键，保证每人每帖只有一条
type Like struct {
	PostID    uint64 `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint64 `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time
}

func (Like) TableName() string {
	return "likes"
}
