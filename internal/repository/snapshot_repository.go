package repository

import (
	"lingua_learn_backend/internal/model"

	"gorm.io/gorm"
)

type SnapshotRepository struct {
	DB *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{DB: db}
}

func (r *SnapshotRepository) FindByUserAndLesson(userID, lessonID uint) (*model.ProgressSnapshot, error) {
	var snapshot model.ProgressSnapshot
	err := r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&snapshot).Error
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// CreateWithXp 完成快照与XP流水在同一事务写入，全有或全无
func (r *SnapshotRepository) CreateWithXp(snapshot *model.ProgressSnapshot, xp *model.XpTransaction) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(snapshot).Error; err != nil {
			return err
		}
		return tx.Create(xp).Error
	})
}

// CompletedLessonIDs 用户在课程内已完成的课时ID（去重）
func (r *SnapshotRepository) CompletedLessonIDs(userID, courseID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.ProgressSnapshot{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Distinct().
		Pluck("lesson_id", &ids).Error
	return ids, err
}

func (r *SnapshotRepository) CountByUser(userID uint, courseID uint) (int64, error) {
	var count int64
	query := r.DB.Model(&model.ProgressSnapshot{}).Where("user_id = ?", userID)
	if courseID != 0 {
		query = query.Where("course_id = ?", courseID)
	}
	err := query.Distinct("lesson_id").Count(&count).Error
	return count, err
}

func (r *SnapshotRepository) SumTimeSpent(userID uint, courseID uint) (int64, error) {
	var total int64
	query := r.DB.Model(&model.ProgressSnapshot{}).Where("user_id = ?", userID)
	if courseID != 0 {
		query = query.Where("course_id = ?", courseID)
	}
	err := query.Select("COALESCE(SUM(time_spent), 0)").Scan(&total).Error
	return total, err
}
