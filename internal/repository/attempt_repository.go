package repository

import (
	"lingua_learn_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.ExerciseAttempt) error {
	return r.DB.Create(attempt).Error
}

// Stats 作答总数与正确数，courseID为0时统计全部课程
func (r *AttemptRepository) Stats(userID uint, courseID uint) (total int64, correct int64, err error) {
	query := r.DB.Model(&model.ExerciseAttempt{}).Where("exercise_attempts.user_id = ?", userID)
	if courseID != 0 {
		query = query.
			Joins("JOIN exercises ON exercises.id = exercise_attempts.exercise_id").
			Joins("JOIN lessons ON lessons.id = exercises.lesson_id").
			Joins("JOIN course_modules ON course_modules.id = lessons.module_id").
			Where("course_modules.course_id = ?", courseID)
	}

	if err = query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = query.Session(&gorm.Session{}).Where("exercise_attempts.is_correct = ?", true).Count(&correct).Error; err != nil {
		return 0, 0, err
	}
	return total, correct, nil
}
