package service

import (
	"errors"
	"lingua_learn_backend/internal/model"
	"lingua_learn_backend/internal/util"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 判题质量映射：答对4分（犹豫后正确），答错2分（错误但记得）
const (
	qualityCorrect   = 4
	qualityIncorrect = 2
)

type ExerciseStore interface {
	FindByID(id uint) (*model.Exercise, error)
}

type AttemptStore interface {
	Create(attempt *model.ExerciseAttempt) error
}

type XpStore interface {
	Create(txn *model.XpTransaction) error
}

type ReviewOutcomeRecorder interface {
	RecordAttemptOutcome(userID, exerciseID uint, quality int) (*model.ReviewQueueEntry, error)
}

// ExerciseService 练习判题流程：判题、落作答记录、发XP、推进复习队列
type ExerciseService struct {
	Exercises ExerciseStore
	Attempts  AttemptStore
	Xp        XpStore
	Queue     ReviewOutcomeRecorder
	Log       *zap.Logger
}

func NewExerciseService(exercises ExerciseStore, attempts AttemptStore, xp XpStore, queue ReviewOutcomeRecorder, log *zap.Logger) *ExerciseService {
	return &ExerciseService{
		Exercises: exercises,
		Attempts:  attempts,
		Xp:        xp,
		Queue:     queue,
		Log:       log,
	}
}

type AttemptResult struct {
	AttemptID     uint   `json:"attemptId"`
	ExerciseID    uint   `json:"exerciseId"`
	IsCorrect     bool   `json:"isCorrect"`
	Score         int    `json:"score"`
	XpEarned      int    `json:"xpEarned"`
	CorrectAnswer string `json:"correctAnswer,omitempty"`
	Explanation   string `json:"explanation,omitempty"`
}

// SubmitAttempt 提交一次作答。判题、落记录、发XP、推进复习队列都是必经路径，
// 任何一步失败都向调用方返回错误（作答记录不去重，重试安全）
func (s *ExerciseService) SubmitAttempt(userID, exerciseID uint, answer string, timeSpent int) (*AttemptResult, error) {
	if strings.TrimSpace(answer) == "" {
		return nil, util.ErrEmptyAnswer
	}
	if timeSpent < 0 {
		return nil, util.ErrInvalidTimeSpent
	}

	exercise, err := s.Exercises.FindByID(exerciseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExerciseNotFound
		}
		return nil, err
	}

	isCorrect := gradeAnswer(exercise, answer)

	score := 0
	if isCorrect {
		score = exercise.Points
	}

	attempt := &model.ExerciseAttempt{
		UserID:     userID,
		ExerciseID: exerciseID,
		Answer:     answer,
		IsCorrect:  isCorrect,
		Score:      score,
		TimeSpent:  timeSpent,
	}
	if err := s.Attempts.Create(attempt); err != nil {
		return nil, err
	}

	result := &AttemptResult{
		AttemptID:  attempt.ID,
		ExerciseID: exerciseID,
		IsCorrect:  isCorrect,
		Score:      score,
	}

	if isCorrect {
		xpTxn := &model.XpTransaction{
			UserID:     userID,
			Amount:     exercise.Points,
			Reason:     model.XpExerciseCompleted,
			SourceID:   exerciseID,
			SourceType: "exercise",
		}
		if err := s.Xp.Create(xpTxn); err != nil {
			s.Log.Error("failed to award exercise xp",
				zap.Uint("userId", userID), zap.Uint("exerciseId", exerciseID), zap.Error(err))
			return nil, err
		}
		result.XpEarned = exercise.Points
	} else {
		// 答错才回传标准答案和解析
		result.CorrectAnswer = exercise.CorrectAnswer
		result.Explanation = exercise.Explanation
	}

	quality := qualityIncorrect
	if isCorrect {
		quality = qualityCorrect
	}
	if _, err := s.Queue.RecordAttemptOutcome(userID, exerciseID, quality); err != nil {
		s.Log.Error("failed to advance review schedule",
			zap.Uint("userId", userID), zap.Uint("exerciseId", exerciseID), zap.Error(err))
		return nil, err
	}

	return result, nil
}

// gradeAnswer 大小写不敏感、去首尾空白后与标准答案或备选答案精确比对
func gradeAnswer(exercise *model.Exercise, answer string) bool {
	normalized := strings.ToLower(strings.TrimSpace(answer))
	if normalized == strings.ToLower(strings.TrimSpace(exercise.CorrectAnswer)) {
		return true
	}
	for _, alt := range exercise.Alternatives {
		if normalized == strings.ToLower(strings.TrimSpace(alt)) {
			return true
		}
	}
	return false
}
