package model

// swagger:model Language
type Language struct {
	BaseModel
	Code       string `gorm:"size:10;unique;not null" json:"code"`
	Name       string `gorm:"size:100;not null" json:"name"`
	NativeName string `gorm:"size:100" json:"nativeName"`
	Flag       string `gorm:"size:10" json:"flag"`
	IsActive   bool   `gorm:"default:true" json:"isActive"`
}

func (Language) TableName() string {
	return "languages"
}
