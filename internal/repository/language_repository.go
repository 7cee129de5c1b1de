package repository

import (
	"lingua_learn_backend/internal/model"

	"gorm.io/gorm"
)

type LanguageRepository struct {
	DB *gorm.DB
}

func NewLanguageRepository(db *gorm.DB) *LanguageRepository {
	return &LanguageRepository{DB: db}
}

func (r *LanguageRepository) Create(language *model.Language) error {
	return r.DB.Create(language).Error
}

func (r *LanguageRepository) FindByID(id uint) (*model.Language, error) {
	var language model.Language
	err := r.DB.First(&language, id).Error
	if err != nil {
		return nil, err
	}
	return &language, nil
}

func (r *LanguageRepository) FindAll() ([]model.Language, error) {
	var languages []model.Language
	err := r.DB.Order("code ASC").Find(&languages).Error
	return languages, err
}

func (r *LanguageRepository) FindActive() ([]model.Language, error) {
	var languages []model.Language
	err := r.DB.Where("is_active = ?", true).Order("code ASC").Find(&languages).Error
	return languages, err
}

func (r *LanguageRepository) Update(language *model.Language) error {
	return r.DB.Save(language).Error
}

func (r *LanguageRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Language{}, id).Error
}
