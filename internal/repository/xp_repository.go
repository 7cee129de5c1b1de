package repository

import (
	"lingua_learn_backend/internal/model"

	"gorm.io/gorm"
)

type XpRepository struct {
	DB *gorm.DB
}

func NewXpRepository(db *gorm.DB) *XpRepository {
	return &XpRepository{DB: db}
}

func (r *XpRepository) Create(txn *model.XpTransaction) error {
	return r.DB.Create(txn).Error
}

// TotalByUser 用户总XP，只做流水求和
func (r *XpRepository) TotalByUser(userID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&model.XpTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// UserXpTotal 排行榜聚合行
type UserXpTotal struct {
	UserID uint  `json:"userId"`
	Total  int64 `json:"total"`
}

func (r *XpRepository) TopByXp(limit int) ([]UserXpTotal, error) {
	var rows []UserXpTotal
	err := r.DB.Model(&model.XpTransaction{}).
		Select("user_id, SUM(amount) AS total").
		Group("user_id").
		Order("total DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
