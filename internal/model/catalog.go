package model

// Country IsDomestic 标记国内（日本），其余为海外
type Country struct {
	ID         uint64 `gorm:"primaryKey" json:"id"`
	EnName     string `gorm:"size:100;not null" json:"enName"`
	JaName     string `gorm:"size:100;not null" json:"jaName"`
	IsDomestic bool   `gorm:"not null;default:false;index" json:"isDomestic"`
}

type City struct {
	ID        uint64   `gorm:"primaryKey" json:"id"`
	EnName    string   `gorm:"size:100;not null" json:"enName"`
	JaName    string   `gorm:"size:100;not null" json:"jaName"`
	CountryID uint64   `gorm:"not null;index" json:"countryId"`
	PhotoURL  string   `gorm:"size:512" json:"photoUrl"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Country   *Country `gorm:"foreignKey:CountryID" json:"country,omitempty"`
}

// Trouble 旅行问题分类
type Trouble struct {
	ID     uint64 `gorm:"primaryKey" json:"id"`
	EnName string `gorm:"size:100;not null" json:"enName"`
	JaName string `gorm:"size:100;not null;index" json:"jaName"`
}
