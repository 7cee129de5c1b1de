package model

type ExerciseType string

const (
	ExerciseMultipleChoice ExerciseType = "multiple_choice"
	ExerciseTranslation    ExerciseType = "translation"
	ExerciseFillBlank      ExerciseType = "fill_blank"
	ExerciseListening      ExerciseType = "listening"
)

type ExerciseDifficulty string

const (
	DifficultyEasy   ExerciseDifficulty = "easy"
	DifficultyMedium ExerciseDifficulty = "medium"
	DifficultyHard   ExerciseDifficulty = "hard"
)

// Exercise 练习题。CorrectAnswer/Alternatives 仅服务端比对，不随题面下发
// swagger:model Exercise
type Exercise struct {
	BaseModel
	LessonID      uint               `gorm:"not null;index" json:"lessonId"`
	Type          ExerciseType       `gorm:"type:enum('multiple_choice','translation','fill_blank','listening');not null" json:"type"`
	Question      string             `gorm:"type:text;not null" json:"question"`
	Hint          string             `gorm:"size:255" json:"hint,omitempty"`
	Options       StringSlice        `gorm:"type:json" json:"options,omitempty"`
	CorrectAnswer string             `gorm:"size:255;not null" json:"-"`
	Alternatives  StringSlice        `gorm:"type:json" json:"-"`
	Explanation   string             `gorm:"type:text" json:"-"`
	Difficulty    ExerciseDifficulty `gorm:"type:enum('easy','medium','hard');default:'easy'" json:"difficulty"`
	Points        int                `gorm:"default:10" json:"points"`
	AudioURL      string             `gorm:"size:255" json:"audioUrl,omitempty"`
	AudioDuration float64            `gorm:"default:0" json:"audioDuration,omitempty"`
	SortOrder     int                `gorm:"default:0;index" json:"sortOrder"`
	IsPublished   bool               `gorm:"default:true" json:"isPublished"`
}

func (Exercise) TableName() string {
	return "exercises"
}
