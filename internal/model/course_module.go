package model

// CourseModule 课程下的章节，按SortOrder线性解锁
// swagger:model CourseModule
type CourseModule struct {
	BaseModel
	CourseID    uint     `gorm:"not null;index" json:"courseId"`
	Title       string   `gorm:"size:200;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	SortOrder   int      `gorm:"default:0;index" json:"sortOrder"`
	IsPublished bool     `gorm:"default:false" json:"isPublished"`
	Lessons     []Lesson `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}
