package model

// MasterThreshold 最佳回答数达到该值即为达人
const MasterThreshold = 10

type UserExpertise struct {
	ID              uint64 `gorm:"primaryKey"`
	UserID          uint64 `gorm:"not null;uniqueIndex:uk_user_city_trouble"`
	CityID          uint64 `gorm:"not null;uniqueIndex:uk_user_city_trouble"`
	TroubleID       uint64 `gorm:"not null;uniqueIndex:uk_user_city_trouble"`
	BestAnswerCount int    `gorm:"not null;default:0"`

	City    *City    `gorm:"foreignKey:CityID"`
	Trouble *Trouble `gorm:"foreignKey:TroubleID"`
}

func (UserExpertise) TableName() string {
	return "user_expertises"
}

func (e *UserExpertise) IsMaster() bool {
	return e.BestAnswerCount >= MasterThreshold
}

// All 迁移用的全部模型
func All() []any {
	return []any{
		&User{}, &Country{}, &City{}, &Trouble{}, &Post{}, &Comment{},
		&Like{}, &Follow{}, &Notification{}, &UserExpertise{}, &Outbox{},
	}
}
