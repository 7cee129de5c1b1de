package repository

import (
	"lingua_learn_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ReviewQueueRepository struct {
	DB *gorm.DB
}

func NewReviewQueueRepository(db *gorm.DB) *ReviewQueueRepository {
	return &ReviewQueueRepository{DB: db}
}

func (r *ReviewQueueRepository) Create(entry *model.ReviewQueueEntry) error {
	return r.DB.Create(entry).Error
}

func (r *ReviewQueueRepository) Update(entry *model.ReviewQueueEntry) error {
	return r.DB.Save(entry).Error
}

func (r *ReviewQueueRepository) FindByUserAndExercise(userID, exerciseID uint) (*model.ReviewQueueEntry, error) {
	var entry model.ReviewQueueEntry
	err := r.DB.Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindDue 到期条目按NextReview升序
func (r *ReviewQueueRepository) FindDue(userID uint, now time.Time, limit int) ([]model.ReviewQueueEntry, error) {
	var entries []model.ReviewQueueEntry
	query := r.DB.Where("user_id = ? AND is_active = ? AND next_review <= ?", userID, true, now).
		Order("next_review ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&entries).Error
	return entries, err
}

func (r *ReviewQueueRepository) FindDueByExercises(userID uint, exerciseIDs []uint, now time.Time) ([]model.ReviewQueueEntry, error) {
	var entries []model.ReviewQueueEntry
	if len(exerciseIDs) == 0 {
		return entries, nil
	}
	err := r.DB.Where("user_id = ? AND is_active = ? AND next_review <= ? AND exercise_id IN ?",
		userID, true, now, exerciseIDs).
		Order("next_review ASC").
		Find(&entries).Error
	return entries, err
}

func (r *ReviewQueueRepository) Stats(userID uint, now time.Time) (*model.ReviewQueueStats, error) {
	stats := &model.ReviewQueueStats{}
	active := r.DB.Model(&model.ReviewQueueEntry{}).
		Where("user_id = ? AND is_active = ?", userID, true)

	if err := active.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := active.Session(&gorm.Session{}).
		Where("next_review <= ?", now).Count(&stats.Due).Error; err != nil {
		return nil, err
	}
	if err := active.Session(&gorm.Session{}).
		Where("repetitions = ?", 0).Count(&stats.Learning).Error; err != nil {
		return nil, err
	}
	if err := active.Session(&gorm.Session{}).
		Where("repetitions > ?", 0).Count(&stats.Review).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// Deactivate 软退役，不删除记录
func (r *ReviewQueueRepository) Deactivate(userID, exerciseID uint) error {
	return r.DB.Model(&model.ReviewQueueEntry{}).
		Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
		Update("is_active", false).Error
}
