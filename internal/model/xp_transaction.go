package model

type XpReason string

const (
	XpLessonCompleted   XpReason = "lesson_completed"
	XpExerciseCompleted XpReason = "exercise_completed"
	XpStreakBonus       XpReason = "streak_bonus"
)

// XpTransaction 经验值流水。总XP永远是流水求和，不落冗余计数器
// swagger:model XpTransaction
type XpTransaction struct {
	BaseModel
	UserID     uint     `gorm:"not null;index" json:"userId"`
	Amount     int      `gorm:"not null" json:"amount"`
	Reason     XpReason `gorm:"type:enum('lesson_completed','exercise_completed','streak_bonus');not null" json:"reason"`
	SourceID   uint     `gorm:"default:0" json:"sourceId,omitempty"`
	SourceType string   `gorm:"size:20" json:"sourceType,omitempty"`
}

func (XpTransaction) TableName() string {
	return "xp_transactions"
}
