package model

import "time"

// CourseEnrollment 每个(用户,课程)一条。Progress为已发布课时完成百分比，
// 恰好到100时置CompletedAt，否则清空
// swagger:model CourseEnrollment
type CourseEnrollment struct {
	BaseModel
	UserID         uint       `gorm:"not null;uniqueIndex:idx_user_course" json:"userId"`
	CourseID       uint       `gorm:"not null;uniqueIndex:idx_user_course" json:"courseId"`
	Course         *Course    `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Progress       float64    `gorm:"default:0" json:"progress"`
	LastAccessedAt time.Time  `json:"lastAccessedAt"`
	CompletedAt    *time.Time `json:"completedAt"`
}

func (CourseEnrollment) TableName() string {
	return "course_enrollments"
}
