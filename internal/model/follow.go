package model

import "time"

// Follow 有向边，存在即关注；取关时硬删除
type Follow struct {
	FollowerID  uint64 `gorm:"primaryKey;autoIncrement:false"`
	FollowingID uint64 `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt   time.Time
}

func (Follow) TableName() string {
	return "follows"
}

const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2
)

// Outbox 通知事件表，与业务写入同一事务，由 relayer 异步投递
type Outbox struct {
	ID          uint64 `gorm:"primaryKey"`
	EventType   string `gorm:"size:16;not null"`
	RecipientID uint64 `gorm:"not null;index"`
	Payload     string `gorm:"type:text;not null"`
	Status      int8   `gorm:"not null;default:0;index"`
	Retry       int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Outbox) TableName() string { return "outbox" }
