package service

import (
	"fmt"
	"lingua_learn_backend/internal/model"
	"lingua_learn_backend/internal/srs"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeQueueStore struct {
	entries  map[string]*model.ReviewQueueEntry
	nextID   uint
	failDup  bool // 下一次Create返回唯一索引冲突
	creates  int
	updates  int
}

func newFakeQueueStore() *fakeQueueStore {
	return &fakeQueueStore{entries: map[string]*model.ReviewQueueEntry{}}
}

func queueKey(userID, exerciseID uint) string {
	return fmt.Sprintf("%d-%d", userID, exerciseID)
}

func (f *fakeQueueStore) Create(entry *model.ReviewQueueEntry) error {
	f.creates++
	key := queueKey(entry.UserID, entry.ExerciseID)
	if _, exists := f.entries[key]; exists || f.failDup {
		f.failDup = false
		return gorm.ErrDuplicatedKey
	}
	f.nextID++
	entry.ID = f.nextID
	copied := *entry
	f.entries[key] = &copied
	return nil
}

func (f *fakeQueueStore) Update(entry *model.ReviewQueueEntry) error {
	f.updates++
	copied := *entry
	f.entries[queueKey(entry.UserID, entry.ExerciseID)] = &copied
	return nil
}

func (f *fakeQueueStore) FindByUserAndExercise(userID, exerciseID uint) (*model.ReviewQueueEntry, error) {
	entry, ok := f.entries[queueKey(userID, exerciseID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeQueueStore) FindDue(userID uint, now time.Time, limit int) ([]model.ReviewQueueEntry, error) {
	var due []model.ReviewQueueEntry
	for _, entry := range f.entries {
		if entry.UserID == userID && entry.IsActive && !entry.NextReview.After(now) {
			due = append(due, *entry)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].NextReview.Before(due[j].NextReview) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (f *fakeQueueStore) FindDueByExercises(userID uint, exerciseIDs []uint, now time.Time) ([]model.ReviewQueueEntry, error) {
	allowed := map[uint]bool{}
	for _, id := range exerciseIDs {
		allowed[id] = true
	}
	all, _ := f.FindDue(userID, now, 0)
	var due []model.ReviewQueueEntry
	for _, entry := range all {
		if allowed[entry.ExerciseID] {
			due = append(due, entry)
		}
	}
	return due, nil
}

func (f *fakeQueueStore) Stats(userID uint, now time.Time) (*model.ReviewQueueStats, error) {
	stats := &model.ReviewQueueStats{}
	for _, entry := range f.entries {
		if entry.UserID != userID || !entry.IsActive {
			continue
		}
		stats.Total++
		if !entry.NextReview.After(now) {
			stats.Due++
		}
		if entry.Repetitions == 0 {
			stats.Learning++
		} else {
			stats.Review++
		}
	}
	return stats, nil
}

func (f *fakeQueueStore) Deactivate(userID, exerciseID uint) error {
	if entry, ok := f.entries[queueKey(userID, exerciseID)]; ok {
		entry.IsActive = false
	}
	return nil
}

type fakeExerciseIDs struct {
	byLesson map[uint][]uint
}

func (f *fakeExerciseIDs) IDsByLesson(lessonID uint) ([]uint, error) {
	return f.byLesson[lessonID], nil
}

func newSRSService(store *fakeQueueStore) *SpacedRepetitionService {
	return NewSpacedRepetitionService(store, &fakeExerciseIDs{byLesson: map[uint][]uint{}})
}

func TestEnqueueCreatesEntryWithInitialSchedule(t *testing.T) {
	store := newFakeQueueStore()
	svc := newSRSService(store)

	entry, err := svc.Enqueue(1, 10)
	require.NoError(t, err)

	assert.Equal(t, srs.InitialInterval, entry.Interval)
	assert.Equal(t, srs.InitialEaseFactor, entry.EaseFactor)
	assert.Equal(t, 0, entry.Repetitions)
	assert.True(t, entry.IsActive)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 1), entry.NextReview, time.Minute)
}

func TestEnqueueIsIdempotent(t *testing.T) {
	store := newFakeQueueStore()
	svc := newSRSService(store)

	first, err := svc.Enqueue(1, 10)
	require.NoError(t, err)

	// 推进调度后再次入队不应重置参数
	_, err = svc.RecordAttemptOutcome(1, 10, 5)
	require.NoError(t, err)

	again, err := svc.Enqueue(1, 10)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 1, again.Repetitions)
	assert.Equal(t, 1, store.creates)
}

func TestEnqueueConcurrentDuplicateFallsBackToExisting(t *testing.T) {
	store := newFakeQueueStore()
	svc := newSRSService(store)

	_, err := svc.Enqueue(1, 10)
	require.NoError(t, err)

	// 模拟并发：FindByUserAndExercise未命中后Create冲突
	delete(store.entries, queueKey(1, 10))
	store.failDup = true
	seeded := &model.ReviewQueueEntry{UserID: 1, ExerciseID: 10, Interval: 6, EaseFactor: 2.6, Repetitions: 2, IsActive: true}
	store.entries[queueKey(1, 10)] = seeded

	entry, err := svc.Enqueue(1, 10)
	require.NoError(t, err)
	assert.Equal(t, 6, entry.Interval)
	assert.Equal(t, 2, entry.Repetitions)
}

func TestRecordAttemptOutcomeAdvancesSchedule(t *testing.T) {
	store := newFakeQueueStore()
	svc := newSRSService(store)

	_, err := svc.Enqueue(1, 10)
	require.NoError(t, err)

	entry, err := svc.RecordAttemptOutcome(1, 10, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Repetitions)
	assert.Equal(t, 1, entry.Interval)

	entry, err = svc.RecordAttemptOutcome(1, 10, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, entry.Repetitions)
	assert.Equal(t, 6, entry.Interval)

	entry, err = svc.RecordAttemptOutcome(1, 10, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, entry.Repetitions)
	assert.Equal(t, 15, entry.Interval)
}

func TestRecordAttemptOutcomeFailureResets(t *testing.T) {
	store := newFakeQueueStore()
	svc := newSRSService(store)

	_, err := svc.Enqueue(1, 10)
	require.NoError(t, err)
	_, err = svc.RecordAttemptOutcome(1, 10, 5)
	require.NoError(t, err)
	_, err = svc.RecordAttemptOutcome(1, 10, 5)
	require.NoError(t, err)

	entry, err := svc.RecordAttemptOutcome(1, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, entry.Repetitions)
	assert.Equal(t, 1, entry.Interval)
}

func TestRecordAttemptOutcomeCreatesMissingEntry(t *testing.T) {
	store := newFakeQueueStore()
	svc := newSRSService(store)

	// 未入队的练习直接作答：先创建再推进一次
	entry, err := svc.RecordAttemptOutcome(1, 99, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Repetitions)
	assert.Equal(t, 1, entry.Interval)
}

func TestDueExercisesOrderAndLimit(t *testing.T) {
	store := newFakeQueueStore()
	svc := newSRSService(store)
	now := time.Now()

	for i := uint(1); i <= 15; i++ {
		store.entries[queueKey(1, i)] = &model.ReviewQueueEntry{
			UserID:     1,
			ExerciseID: i,
			NextReview: now.Add(-time.Duration(i) * time.Hour),
			IsActive:   true,
		}
	}
	// 未到期与已退役的不应出现
	store.entries[queueKey(1, 100)] = &model.ReviewQueueEntry{UserID: 1, ExerciseID: 100, NextReview: now.Add(time.Hour), IsActive: true}
	store.entries[queueKey(1, 101)] = &model.ReviewQueueEntry{UserID: 1, ExerciseID: 101, NextReview: now.Add(-time.Hour), IsActive: false}

	due, err := svc.DueExercises(1, 0)
	require.NoError(t, err)
	require.Len(t, due, DefaultDueLimit)

	// 到期最久的排最前
	assert.Equal(t, uint(15), due[0].ExerciseID)
	for i := 1; i < len(due); i++ {
		assert.False(t, due[i].NextReview.Before(due[i-1].NextReview))
	}

	all, err := svc.DueExercises(1, 20)
	require.NoError(t, err)
	assert.Len(t, all, 15)
}

func TestDueExercisesForLessonScopes(t *testing.T) {
	store := newFakeQueueStore()
	exercises := &fakeExerciseIDs{byLesson: map[uint][]uint{5: {1, 2}}}
	svc := NewSpacedRepetitionService(store, exercises)
	now := time.Now()

	for _, id := range []uint{1, 2, 3} {
		store.entries[queueKey(1, id)] = &model.ReviewQueueEntry{
			UserID:     1,
			ExerciseID: id,
			NextReview: now.Add(-time.Hour),
			IsActive:   true,
		}
	}

	due, err := svc.DueExercisesForLesson(1, 5)
	require.NoError(t, err)
	require.Len(t, due, 2)
	for _, entry := range due {
		assert.Contains(t, []uint{1, 2}, entry.ExerciseID)
	}
}

func TestQueueStats(t *testing.T) {
	store := newFakeQueueStore()
	svc := newSRSService(store)
	now := time.Now()

	store.entries[queueKey(1, 1)] = &model.ReviewQueueEntry{UserID: 1, ExerciseID: 1, NextReview: now.Add(-time.Hour), Repetitions: 0, IsActive: true}
	store.entries[queueKey(1, 2)] = &model.ReviewQueueEntry{UserID: 1, ExerciseID: 2, NextReview: now.Add(time.Hour), Repetitions: 3, IsActive: true}
	store.entries[queueKey(1, 3)] = &model.ReviewQueueEntry{UserID: 1, ExerciseID: 3, NextReview: now.Add(-time.Hour), Repetitions: 1, IsActive: false}

	stats, err := svc.QueueStats(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Due)
	assert.Equal(t, int64(1), stats.Learning)
	assert.Equal(t, int64(1), stats.Review)
}

func TestDeactivateRemovesFromDue(t *testing.T) {
	store := newFakeQueueStore()
	svc := newSRSService(store)

	store.entries[queueKey(1, 1)] = &model.ReviewQueueEntry{UserID: 1, ExerciseID: 1, NextReview: time.Now().Add(-time.Hour), IsActive: true}

	require.NoError(t, svc.Deactivate(1, 1))

	due, err := svc.DueExercises(1, 0)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestEnqueueAll(t *testing.T) {
	store := newFakeQueueStore()
	svc := newSRSService(store)

	require.NoError(t, svc.EnqueueAll(1, []uint{1, 2, 3}))
	require.NoError(t, svc.EnqueueAll(1, []uint{2, 3, 4}))

	assert.Len(t, store.entries, 4)
}
