package model

// swagger:model Lesson
type Lesson struct {
	BaseModel
	ModuleID    uint            `gorm:"not null;index" json:"moduleId"`
	Module      *CourseModule   `gorm:"foreignKey:ModuleID" json:"module,omitempty"`
	Title       string          `gorm:"size:200;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	SortOrder   int             `gorm:"default:0;index" json:"sortOrder"`
	IsPublished bool            `gorm:"default:false" json:"isPublished"`
	Sections    []LessonSection `gorm:"foreignKey:LessonID" json:"sections,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

type SectionType string

const (
	SectionText  SectionType = "text"
	SectionAudio SectionType = "audio"
	SectionVideo SectionType = "video"
)

// swagger:model LessonSection
type LessonSection struct {
	BaseModel
	LessonID  uint        `gorm:"not null;index" json:"lessonId"`
	Type      SectionType `gorm:"type:enum('text','audio','video');default:'text'" json:"type"`
	Title     string      `gorm:"size:200" json:"title"`
	Content   string      `gorm:"type:text" json:"content"`
	MediaURL  string      `gorm:"size:255" json:"mediaUrl"`
	SortOrder int         `gorm:"default:0" json:"sortOrder"`
}

func (LessonSection) TableName() string {
	return "lesson_sections"
}
