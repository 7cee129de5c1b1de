package model

// ExerciseAttempt 一次判题事件的不可变记录，允许同题多次作答
// swagger:model ExerciseAttempt
type ExerciseAttempt struct {
	BaseModel
	UserID     uint   `gorm:"not null;index" json:"userId"`
	ExerciseID uint   `gorm:"not null;index" json:"exerciseId"`
	Answer     string `gorm:"type:text" json:"answer"`
	IsCorrect  bool   `json:"isCorrect"`
	Score      int    `gorm:"default:0" json:"score"`
	TimeSpent  int    `gorm:"default:0" json:"timeSpent"`
}

func (ExerciseAttempt) TableName() string {
	return "exercise_attempts"
}
