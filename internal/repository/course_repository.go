package repository

import (
	"lingua_learn_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Language").First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindAll(languageID uint) ([]model.Course, error) {
	var courses []model.Course
	query := r.DB.Preload("Language").Order("sort_order ASC")
	if languageID != 0 {
		query = query.Where("language_id = ?", languageID)
	}
	err := query.Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindPublished(languageID uint) ([]model.Course, error) {
	var courses []model.Course
	query := r.DB.Preload("Language").Where("is_published = ?", true).Order("sort_order ASC")
	if languageID != 0 {
		query = query.Where("language_id = ?", languageID)
	}
	err := query.Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}
