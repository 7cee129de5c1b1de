package repository

import (
	"lingua_learn_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

// FindByID 带所属章节，用于课时→章节→课程回溯
func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Preload("Module").First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) FindWithSections(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Preload("Module").
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) FindByModule(moduleID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("module_id = ?", moduleID).
		Order("sort_order ASC").
		Find(&lessons).Error
	return lessons, err
}

// CountPublishedByCourse 课程内已发布课时总数（进度分母）
func (r *LessonRepository) CountPublishedByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).
		Joins("JOIN course_modules ON course_modules.id = lessons.module_id").
		Where("course_modules.course_id = ? AND lessons.is_published = ? AND course_modules.deleted_at IS NULL",
			courseID, true).
		Count(&count).Error
	return count, err
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Lesson{}, id).Error
}

func (r *LessonRepository) CreateSection(section *model.LessonSection) error {
	return r.DB.Create(section).Error
}

func (r *LessonRepository) FindSectionByID(id uint) (*model.LessonSection, error) {
	var section model.LessonSection
	err := r.DB.First(&section, id).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *LessonRepository) UpdateSection(section *model.LessonSection) error {
	return r.DB.Save(section).Error
}

func (r *LessonRepository) DeleteSection(id uint) error {
	return r.DB.Delete(&model.LessonSection{}, id).Error
}
