package service

import (
	"errors"
	"lingua_learn_backend/internal/model"
	"lingua_learn_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeExerciseStore struct {
	exercises map[uint]*model.Exercise
}

func (f *fakeExerciseStore) FindByID(id uint) (*model.Exercise, error) {
	exercise, ok := f.exercises[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return exercise, nil
}

type fakeAttemptStore struct {
	attempts []*model.ExerciseAttempt
}

func (f *fakeAttemptStore) Create(attempt *model.ExerciseAttempt) error {
	attempt.ID = uint(len(f.attempts) + 1)
	f.attempts = append(f.attempts, attempt)
	return nil
}

type fakeXpStore struct {
	txns     []*model.XpTransaction
	failWith error
}

func (f *fakeXpStore) Create(txn *model.XpTransaction) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.txns = append(f.txns, txn)
	return nil
}

type fakeOutcomeRecorder struct {
	qualities []int
	failWith  error
}

func (f *fakeOutcomeRecorder) RecordAttemptOutcome(userID, exerciseID uint, quality int) (*model.ReviewQueueEntry, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.qualities = append(f.qualities, quality)
	return &model.ReviewQueueEntry{UserID: userID, ExerciseID: exerciseID}, nil
}

type exerciseFixture struct {
	svc       *ExerciseService
	exercises *fakeExerciseStore
	attempts  *fakeAttemptStore
	xp        *fakeXpStore
	queue     *fakeOutcomeRecorder
}

func newExerciseFixture() *exerciseFixture {
	f := &exerciseFixture{
		exercises: &fakeExerciseStore{exercises: map[uint]*model.Exercise{}},
		attempts:  &fakeAttemptStore{},
		xp:        &fakeXpStore{},
		queue:     &fakeOutcomeRecorder{},
	}
	f.svc = NewExerciseService(f.exercises, f.attempts, f.xp, f.queue, zap.NewNop())
	return f
}

func translationExercise() *model.Exercise {
	return &model.Exercise{
		BaseModel:     model.BaseModel{ID: 1},
		LessonID:      11,
		Type:          model.ExerciseTranslation,
		Question:      "Translate: Good morning",
		CorrectAnswer: "Buenos días",
		Alternatives:  model.StringSlice{"buenos dias"},
		Explanation:   "Standard morning greeting.",
		Points:        10,
	}
}

func TestSubmitAttemptEmptyAnswer(t *testing.T) {
	f := newExerciseFixture()
	f.exercises.exercises[1] = translationExercise()

	_, err := f.svc.SubmitAttempt(1, 1, "   ", 10)
	assert.ErrorIs(t, err, util.ErrEmptyAnswer)
	assert.Empty(t, f.attempts.attempts)
}

func TestSubmitAttemptExerciseNotFound(t *testing.T) {
	f := newExerciseFixture()
	_, err := f.svc.SubmitAttempt(1, 99, "hola", 10)
	assert.ErrorIs(t, err, util.ErrExerciseNotFound)
}

func TestSubmitAttemptGradingNormalization(t *testing.T) {
	f := newExerciseFixture()
	f.exercises.exercises[1] = translationExercise()

	cases := []struct {
		answer  string
		correct bool
	}{
		{"Buenos días", true},
		{"  buenos días  ", true},
		{"BUENOS DÍAS", true},
		{"buenos dias", true}, // 备选答案
		{"Buenas noches", false},
		{"buenosdias", false},
	}

	for _, tc := range cases {
		result, err := f.svc.SubmitAttempt(1, 1, tc.answer, 5)
		require.NoError(t, err, tc.answer)
		assert.Equal(t, tc.correct, result.IsCorrect, tc.answer)
	}
}

func TestSubmitAttemptCorrectAwardsXp(t *testing.T) {
	f := newExerciseFixture()
	f.exercises.exercises[1] = translationExercise()

	result, err := f.svc.SubmitAttempt(1, 1, "Buenos días", 8)
	require.NoError(t, err)

	assert.True(t, result.IsCorrect)
	assert.Equal(t, 10, result.Score)
	assert.Equal(t, 10, result.XpEarned)
	// 答对不回传答案
	assert.Empty(t, result.CorrectAnswer)
	assert.Empty(t, result.Explanation)

	require.Len(t, f.xp.txns, 1)
	assert.Equal(t, 10, f.xp.txns[0].Amount)
	assert.Equal(t, model.XpExerciseCompleted, f.xp.txns[0].Reason)
	assert.Equal(t, "exercise", f.xp.txns[0].SourceType)

	require.Len(t, f.attempts.attempts, 1)
	assert.True(t, f.attempts.attempts[0].IsCorrect)
	assert.Equal(t, 8, f.attempts.attempts[0].TimeSpent)

	require.Len(t, f.queue.qualities, 1)
	assert.Equal(t, qualityCorrect, f.queue.qualities[0])
}

func TestSubmitAttemptIncorrectLeaksAnswer(t *testing.T) {
	f := newExerciseFixture()
	f.exercises.exercises[1] = translationExercise()

	result, err := f.svc.SubmitAttempt(1, 1, "Buenas noches", 8)
	require.NoError(t, err)

	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 0, result.XpEarned)
	// 答错回传标准答案和解析
	assert.Equal(t, "Buenos días", result.CorrectAnswer)
	assert.Equal(t, "Standard morning greeting.", result.Explanation)

	assert.Empty(t, f.xp.txns)

	require.Len(t, f.queue.qualities, 1)
	assert.Equal(t, qualityIncorrect, f.queue.qualities[0])
}

func TestSubmitAttemptXpFailureSurfaces(t *testing.T) {
	f := newExerciseFixture()
	f.exercises.exercises[1] = translationExercise()
	f.xp.failWith = errors.New("xp insert failed")

	result, err := f.svc.SubmitAttempt(1, 1, "Buenos días", 5)
	require.Error(t, err)
	assert.Nil(t, result)

	// 作答记录已落库，重试不会丢数据
	assert.Len(t, f.attempts.attempts, 1)
	assert.Empty(t, f.queue.qualities)
}

func TestSubmitAttemptQueueFailureSurfaces(t *testing.T) {
	f := newExerciseFixture()
	f.exercises.exercises[1] = translationExercise()
	f.queue.failWith = errors.New("queue update failed")

	result, err := f.svc.SubmitAttempt(1, 1, "Buenos días", 5)
	require.Error(t, err)
	assert.Nil(t, result)

	// XP和作答记录已写入，队列推进失败对调用方可见
	assert.Len(t, f.attempts.attempts, 1)
	assert.Len(t, f.xp.txns, 1)
}

func TestSubmitAttemptRepeatedAttemptsAllowed(t *testing.T) {
	f := newExerciseFixture()
	f.exercises.exercises[1] = translationExercise()

	_, err := f.svc.SubmitAttempt(1, 1, "wrong", 5)
	require.NoError(t, err)
	_, err = f.svc.SubmitAttempt(1, 1, "Buenos días", 5)
	require.NoError(t, err)

	// 同题多次作答都留痕
	assert.Len(t, f.attempts.attempts, 2)
	assert.Equal(t, []int{qualityIncorrect, qualityCorrect}, f.queue.qualities)
}
