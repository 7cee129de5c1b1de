package model

import "time"

// ReviewQueueEntry 每个(用户,练习)一条间隔重复调度记录
// Interval/EaseFactor/Repetitions 只由SM-2调度结果整体更新
// swagger:model ReviewQueueEntry
type ReviewQueueEntry struct {
	BaseModel
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_exercise" json:"userId"`
	ExerciseID  uint      `gorm:"not null;uniqueIndex:idx_user_exercise" json:"exerciseId"`
	Interval    int       `gorm:"default:1" json:"interval"`
	EaseFactor  float64   `gorm:"default:2.5" json:"easeFactor"`
	Repetitions int       `gorm:"default:0" json:"repetitions"`
	NextReview  time.Time `gorm:"index" json:"nextReview"`
	IsActive    bool      `gorm:"default:true;index" json:"isActive"`
}

func (ReviewQueueEntry) TableName() string {
	return "review_queue_entries"
}

// ReviewQueueStats 复习队列统计
// swagger:model ReviewQueueStats
type ReviewQueueStats struct {
	Total    int64 `json:"total"`
	Due      int64 `json:"due"`
	Learning int64 `json:"learning"`
	Review   int64 `json:"review"`
}
