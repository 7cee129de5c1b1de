package model

import "time"

// ProgressSnapshot 一次课时完成事件。(UserID,LessonID)唯一，课时不可重复完成
// swagger:model ProgressSnapshot
type ProgressSnapshot struct {
	BaseModel
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_lesson" json:"userId"`
	CourseID    uint      `gorm:"not null;index" json:"courseId"`
	LessonID    uint      `gorm:"not null;uniqueIndex:idx_user_lesson" json:"lessonId"`
	CompletedAt time.Time `json:"completedAt"`
	TimeSpent   int       `gorm:"default:0" json:"timeSpent"`
	Score       int       `gorm:"default:0" json:"score"`
	XpEarned    int       `gorm:"default:0" json:"xpEarned"`
	StreakBonus bool      `gorm:"default:false" json:"streakBonus"`
}

func (ProgressSnapshot) TableName() string {
	return "progress_snapshots"
}
