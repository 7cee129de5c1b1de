package model

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

// swagger:model Course
type Course struct {
	BaseModel
	LanguageID  uint        `gorm:"not null;index" json:"languageId"`
	Language    *Language   `gorm:"foreignKey:LanguageID" json:"language,omitempty"`
	Title       string      `gorm:"size:200;not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	Level       CourseLevel `gorm:"type:enum('beginner','intermediate','advanced');default:'beginner'" json:"level"`
	ImageURL    string      `gorm:"size:255" json:"imageUrl"`
	IsPublished bool        `gorm:"default:false;index" json:"isPublished"`
	SortOrder   int         `gorm:"default:0" json:"sortOrder"`
}

func (Course) TableName() string {
	return "courses"
}
