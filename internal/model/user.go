package model

import "time"

// User 登录身份由外部 OAuth 提供，email 是实际的登录键
type User struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Image     string    `gorm:"size:512" json:"image"`
	Bio       string    `gorm:"size:200" json:"bio"`
	Location  string    `gorm:"size:100" json:"location"`
	Website   string    `gorm:"size:200" json:"website"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}
