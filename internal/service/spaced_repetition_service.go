package service

import (
	"errors"
	"lingua_learn_backend/internal/model"
	"lingua_learn_backend/internal/srs"
	"time"

	"gorm.io/gorm"
)

// DefaultDueLimit 到期练习查询的默认条数
const DefaultDueLimit = 10

// ReviewQueueStore 复习队列持久化接口
type ReviewQueueStore interface {
	Create(entry *model.ReviewQueueEntry) error
	Update(entry *model.ReviewQueueEntry) error
	FindByUserAndExercise(userID, exerciseID uint) (*model.ReviewQueueEntry, error)
	FindDue(userID uint, now time.Time, limit int) ([]model.ReviewQueueEntry, error)
	FindDueByExercises(userID uint, exerciseIDs []uint, now time.Time) ([]model.ReviewQueueEntry, error)
	Stats(userID uint, now time.Time) (*model.ReviewQueueStats, error)
	Deactivate(userID, exerciseID uint) error
}

// ExerciseIDSource 课时下练习ID的查询接口
type ExerciseIDSource interface {
	IDsByLesson(lessonID uint) ([]uint, error)
}

// SpacedRepetitionService 管理每个(用户,练习)的间隔重复调度记录
type SpacedRepetitionService struct {
	Queue     ReviewQueueStore
	Exercises ExerciseIDSource
}

func NewSpacedRepetitionService(queue ReviewQueueStore, exercises ExerciseIDSource) *SpacedRepetitionService {
	return &SpacedRepetitionService{
		Queue:     queue,
		Exercises: exercises,
	}
}

// Enqueue 幂等入队：已存在时原样返回，不重置调度参数
func (s *SpacedRepetitionService) Enqueue(userID, exerciseID uint) (*model.ReviewQueueEntry, error) {
	existing, err := s.Queue.FindByUserAndExercise(userID, exerciseID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	entry := &model.ReviewQueueEntry{
		UserID:      userID,
		ExerciseID:  exerciseID,
		Interval:    srs.InitialInterval,
		EaseFactor:  srs.InitialEaseFactor,
		Repetitions: 0,
		NextReview:  time.Now().AddDate(0, 0, 1),
		IsActive:    true,
	}

	if err := s.Queue.Create(entry); err != nil {
		// 并发入队时唯一索引兜底，读回已有记录
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.Queue.FindByUserAndExercise(userID, exerciseID)
		}
		return nil, err
	}
	return entry, nil
}

// RecordAttemptOutcome 按本次作答质量推进调度。条目不存在则先创建，
// 并立即对新条目应用一次调度，不会停留在初始状态
func (s *SpacedRepetitionService) RecordAttemptOutcome(userID, exerciseID uint, quality int) (*model.ReviewQueueEntry, error) {
	entry, err := s.Queue.FindByUserAndExercise(userID, exerciseID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		entry, err = s.Enqueue(userID, exerciseID)
		if err != nil {
			return nil, err
		}
	}

	result := srs.ComputeNextReview(entry.Interval, entry.Repetitions, entry.EaseFactor, quality)
	entry.Interval = result.Interval
	entry.EaseFactor = result.EaseFactor
	entry.Repetitions = result.Repetitions
	entry.NextReview = result.NextReview

	if err := s.Queue.Update(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DueExercises 到期待复习条目，NextReview升序，limit<=0时取默认值
func (s *SpacedRepetitionService) DueExercises(userID uint, limit int) ([]model.ReviewQueueEntry, error) {
	if limit <= 0 {
		limit = DefaultDueLimit
	}
	return s.Queue.FindDue(userID, time.Now(), limit)
}

// DueExercisesForLesson 限定在指定课时练习范围内的到期条目，不限条数
func (s *SpacedRepetitionService) DueExercisesForLesson(userID, lessonID uint) ([]model.ReviewQueueEntry, error) {
	exerciseIDs, err := s.Exercises.IDsByLesson(lessonID)
	if err != nil {
		return nil, err
	}
	return s.Queue.FindDueByExercises(userID, exerciseIDs, time.Now())
}

func (s *SpacedRepetitionService) QueueStats(userID uint) (*model.ReviewQueueStats, error) {
	return s.Queue.Stats(userID, time.Now())
}

// Deactivate 软退役指定练习的队列条目
func (s *SpacedRepetitionService) Deactivate(userID, exerciseID uint) error {
	return s.Queue.Deactivate(userID, exerciseID)
}

// EnqueueAll 批量入队课时练习，已在队列中的不受影响
func (s *SpacedRepetitionService) EnqueueAll(userID uint, exerciseIDs []uint) error {
	for _, exerciseID := range exerciseIDs {
		if _, err := s.Enqueue(userID, exerciseID); err != nil {
			return err
		}
	}
	return nil
}
