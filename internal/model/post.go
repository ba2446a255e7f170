package model

import "time"

const (
	MinTravelMonth = 1
	MaxTravelMonth = 12
	MinTravelYear  = 2005
	MaxTravelYear  = 2025
)

type Post struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	UserID       uint64    `gorm:"not null;index:idx_user_time" json:"userId"`
	CountryID    uint64    `gorm:"not null;index" json:"countryId"`
	CityID       *uint64   `gorm:"index" json:"cityId"`
	TroubleID    uint64    `gorm:"not null;index" json:"troubleId"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Content      string    `gorm:"type:text" json:"content"`
	TravelMonth  int       `gorm:"not null" json:"travelMonth"`
	TravelYear   int       `gorm:"not null" json:"travelYear"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	LikeCount    int64     `gorm:"not null;default:0;index" json:"likeCount"`
	BestAnswerID *uint64   `json:"bestAnswerId"`
	CreatedAt    time.Time `gorm:"index;index:idx_user_time" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Country  *Country  `gorm:"foreignKey:CountryID" json:"country,omitempty"`
	City     *City     `gorm:"foreignKey:CityID" json:"city,omitempty"`
	Trouble  *Trouble  `gorm:"foreignKey:TroubleID" json:"trouble,omitempty"`
	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

// HasCoordinates 经纬度必须同时存在
func (p *Post) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}
