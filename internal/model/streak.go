package model

import "time"

// Streak 连续学习天数，按自然日比较更新
// swagger:model Streak
type Streak struct {
	BaseModel
	UserID     uint      `gorm:"not null;uniqueIndex" json:"userId"`
	Current    int       `gorm:"default:0" json:"current"`
	Longest    int       `gorm:"default:0" json:"longest"`
	LastActive time.Time `json:"lastActive"`
}

func (Streak) TableName() string {
	return "streaks"
}
