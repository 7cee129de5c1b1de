package repository

import (
	"lingua_learn_backend/internal/model"

	"gorm.io/gorm"
)

type ExerciseRepository struct {
	DB *gorm.DB
}

func NewExerciseRepository(db *gorm.DB) *ExerciseRepository {
	return &ExerciseRepository{DB: db}
}

func (r *ExerciseRepository) Create(exercise *model.Exercise) error {
	return r.DB.Create(exercise).Error
}

func (r *ExerciseRepository) FindByID(id uint) (*model.Exercise, error) {
	var exercise model.Exercise
	err := r.DB.First(&exercise, id).Error
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (r *ExerciseRepository) FindByLesson(lessonID uint) ([]model.Exercise, error) {
	var exercises []model.Exercise
	err := r.DB.Where("lesson_id = ?", lessonID).
		Order("sort_order ASC").
		Find(&exercises).Error
	return exercises, err
}

func (r *ExerciseRepository) IDsByLesson(lessonID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Exercise{}).
		Where("lesson_id = ?", lessonID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *ExerciseRepository) FindByIDs(ids []uint) ([]model.Exercise, error) {
	var exercises []model.Exercise
	if len(ids) == 0 {
		return exercises, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&exercises).Error
	return exercises, err
}

func (r *ExerciseRepository) Update(exercise *model.Exercise) error {
	return r.DB.Save(exercise).Error
}

func (r *ExerciseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Exercise{}, id).Error
}
