package model

import "time"

type Comment struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	PostID       uint64    `gorm:"not null;index" json:"postId"`
	UserID       uint64    `gorm:"not null;index" json:"userId"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	IsBestAnswer bool      `gorm:"not null;default:false" json:"isBestAnswer"`
	CreatedAt    time.Time `json:"createdAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
