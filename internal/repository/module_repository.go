package repository

import (
	"lingua_learn_backend/internal/model"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func (r *ModuleRepository) Create(module *model.CourseModule) error {
	return r.DB.Create(module).Error
}

func (r *ModuleRepository) FindByID(id uint) (*model.CourseModule, error) {
	var module model.CourseModule
	err := r.DB.First(&module, id).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *ModuleRepository) FindByCourse(courseID uint) ([]model.CourseModule, error) {
	var modules []model.CourseModule
	err := r.DB.Where("course_id = ?", courseID).
		Order("sort_order ASC").
		Find(&modules).Error
	return modules, err
}

// FindPublishedByCourse 技能树遍历用：已发布章节升序，内嵌已发布课时升序
func (r *ModuleRepository) FindPublishedByCourse(courseID uint) ([]model.CourseModule, error) {
	var modules []model.CourseModule
	err := r.DB.Where("course_id = ? AND is_published = ?", courseID, true).
		Order("sort_order ASC").
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_published = ?", true).Order("sort_order ASC")
		}).
		Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) Update(module *model.CourseModule) error {
	return r.DB.Save(module).Error
}

func (r *ModuleRepository) Delete(id uint) error {
	return r.DB.Delete(&model.CourseModule{}, id).Error
}
