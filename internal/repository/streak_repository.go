package repository

import (
	"lingua_learn_backend/internal/model"

	"gorm.io/gorm"
)

type StreakRepository struct {
	DB *gorm.DB
}

func NewStreakRepository(db *gorm.DB) *StreakRepository {
	return &StreakRepository{DB: db}
}

func (r *StreakRepository) FindByUser(userID uint) (*model.Streak, error) {
	var streak model.Streak
	err := r.DB.Where("user_id = ?", userID).First(&streak).Error
	if err != nil {
		return nil, err
	}
	return &streak, nil
}

func (r *StreakRepository) Create(streak *model.Streak) error {
	return r.DB.Create(streak).Error
}

func (r *StreakRepository) Update(streak *model.Streak) error {
	return r.DB.Save(streak).Error
}
