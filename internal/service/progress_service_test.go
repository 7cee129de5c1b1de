package service

import (
	"lingua_learn_backend/internal/model"
	"lingua_learn_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeLessons struct {
	lessons      map[uint]*model.Lesson
	publishedCnt int64
}

func (f *fakeLessons) FindByID(id uint) (*model.Lesson, error) {
	lesson, ok := f.lessons[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return lesson, nil
}

func (f *fakeLessons) CountPublishedByCourse(courseID uint) (int64, error) {
	return f.publishedCnt, nil
}

type fakeModules struct {
	modules []model.CourseModule
}

func (f *fakeModules) FindPublishedByCourse(courseID uint) ([]model.CourseModule, error) {
	return f.modules, nil
}

type fakeCourses struct {
	courses map[uint]*model.Course
}

func (f *fakeCourses) FindByID(id uint) (*model.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return course, nil
}

type fakeEnrollments struct {
	byUserCourse map[[2]uint]*model.CourseEnrollment
}

func (f *fakeEnrollments) Create(e *model.CourseEnrollment) error {
	key := [2]uint{e.UserID, e.CourseID}
	if _, exists := f.byUserCourse[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	f.byUserCourse[key] = e
	return nil
}

func (f *fakeEnrollments) FindByUserAndCourse(userID, courseID uint) (*model.CourseEnrollment, error) {
	e, ok := f.byUserCourse[[2]uint{userID, courseID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (f *fakeEnrollments) FindByUser(userID uint) ([]model.CourseEnrollment, error) {
	var out []model.CourseEnrollment
	for _, e := range f.byUserCourse {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEnrollments) Update(e *model.CourseEnrollment) error {
	f.byUserCourse[[2]uint{e.UserID, e.CourseID}] = e
	return nil
}

type fakeSnapshots struct {
	byUserLesson map[[2]uint]*model.ProgressSnapshot
	xpTxns       []*model.XpTransaction
	timeSpentSum int64
}

func (f *fakeSnapshots) FindByUserAndLesson(userID, lessonID uint) (*model.ProgressSnapshot, error) {
	s, ok := f.byUserLesson[[2]uint{userID, lessonID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (f *fakeSnapshots) CreateWithXp(snapshot *model.ProgressSnapshot, xp *model.XpTransaction) error {
	key := [2]uint{snapshot.UserID, snapshot.LessonID}
	if _, exists := f.byUserLesson[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	f.byUserLesson[key] = snapshot
	f.xpTxns = append(f.xpTxns, xp)
	return nil
}

func (f *fakeSnapshots) CompletedLessonIDs(userID, courseID uint) ([]uint, error) {
	var ids []uint
	for _, s := range f.byUserLesson {
		if s.UserID == userID && (courseID == 0 || s.CourseID == courseID) {
			ids = append(ids, s.LessonID)
		}
	}
	return ids, nil
}

func (f *fakeSnapshots) CountByUser(userID, courseID uint) (int64, error) {
	ids, _ := f.CompletedLessonIDs(userID, courseID)
	return int64(len(ids)), nil
}

func (f *fakeSnapshots) SumTimeSpent(userID, courseID uint) (int64, error) {
	return f.timeSpentSum, nil
}

type fakeStreaks struct {
	byUser map[uint]*model.Streak
}

func (f *fakeStreaks) FindByUser(userID uint) (*model.Streak, error) {
	s, ok := f.byUser[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (f *fakeStreaks) Create(s *model.Streak) error {
	f.byUser[s.UserID] = s
	return nil
}

func (f *fakeStreaks) Update(s *model.Streak) error {
	f.byUser[s.UserID] = s
	return nil
}

type fakeXpTotals struct {
	total int64
}

func (f *fakeXpTotals) TotalByUser(userID uint) (int64, error) {
	return f.total, nil
}

type fakeLessonExercises struct {
	byLesson map[uint][]model.Exercise
}

func (f *fakeLessonExercises) FindByLesson(lessonID uint) ([]model.Exercise, error) {
	return f.byLesson[lessonID], nil
}

type fakeEnqueuer struct {
	calls map[uint][]uint
}

func (f *fakeEnqueuer) EnqueueAll(userID uint, exerciseIDs []uint) error {
	if f.calls == nil {
		f.calls = map[uint][]uint{}
	}
	f.calls[userID] = append(f.calls[userID], exerciseIDs...)
	return nil
}

type fakeAttemptStats struct {
	total   int64
	correct int64
}

func (f *fakeAttemptStats) Stats(userID uint, courseID uint) (int64, int64, error) {
	return f.total, f.correct, nil
}

type progressFixture struct {
	svc         *ProgressService
	lessons     *fakeLessons
	modules     *fakeModules
	courses     *fakeCourses
	enrollments *fakeEnrollments
	snapshots   *fakeSnapshots
	streaks     *fakeStreaks
	xp          *fakeXpTotals
	exercises   *fakeLessonExercises
	queue       *fakeEnqueuer
	attempts    *fakeAttemptStats
}

func newProgressFixture() *progressFixture {
	f := &progressFixture{
		lessons:     &fakeLessons{lessons: map[uint]*model.Lesson{}},
		modules:     &fakeModules{},
		courses:     &fakeCourses{courses: map[uint]*model.Course{}},
		enrollments: &fakeEnrollments{byUserCourse: map[[2]uint]*model.CourseEnrollment{}},
		snapshots:   &fakeSnapshots{byUserLesson: map[[2]uint]*model.ProgressSnapshot{}},
		streaks:     &fakeStreaks{byUser: map[uint]*model.Streak{}},
		xp:          &fakeXpTotals{},
		exercises:   &fakeLessonExercises{byLesson: map[uint][]model.Exercise{}},
		queue:       &fakeEnqueuer{},
		attempts:    &fakeAttemptStats{},
	}
	f.svc = NewProgressService(
		f.lessons, f.modules, f.courses, f.enrollments, f.snapshots,
		f.streaks, f.xp, f.exercises, f.queue, f.attempts, zap.NewNop(),
	)
	return f
}

func lessonInModule(id uint) *model.Lesson {
	return &model.Lesson{
		BaseModel: model.BaseModel{ID: id},
		ModuleID:  1,
		Module:    &model.CourseModule{BaseModel: model.BaseModel{ID: 1}, CourseID: 1},
		Title:     "Lesson",
	}
}

func (f *progressFixture) enroll(userID, courseID uint) {
	f.enrollments.byUserCourse[[2]uint{userID, courseID}] = &model.CourseEnrollment{
		UserID:   userID,
		CourseID: courseID,
	}
}

func TestEnrollInCourseNotFound(t *testing.T) {
	f := newProgressFixture()
	_, err := f.svc.EnrollInCourse(1, 99)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestEnrollInCourseUnpublished(t *testing.T) {
	f := newProgressFixture()
	f.courses.courses[1] = &model.Course{BaseModel: model.BaseModel{ID: 1}, IsPublished: false}

	_, err := f.svc.EnrollInCourse(1, 1)
	assert.ErrorIs(t, err, util.ErrCourseNotPublished)
}

func TestEnrollInCourseIdempotent(t *testing.T) {
	f := newProgressFixture()
	f.courses.courses[1] = &model.Course{BaseModel: model.BaseModel{ID: 1}, IsPublished: true}

	first, err := f.svc.EnrollInCourse(1, 1)
	require.NoError(t, err)
	first.Progress = 42

	again, err := f.svc.EnrollInCourse(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 42.0, again.Progress)
	assert.Len(t, f.enrollments.byUserCourse, 1)
}

func skillTreeModules() []model.CourseModule {
	return []model.CourseModule{
		{
			BaseModel: model.BaseModel{ID: 1},
			CourseID:  1,
			Title:     "Greetings",
			SortOrder: 1,
			Lessons: []model.Lesson{
				{BaseModel: model.BaseModel{ID: 11}, ModuleID: 1, Title: "Hello", SortOrder: 1},
				{BaseModel: model.BaseModel{ID: 12}, ModuleID: 1, Title: "Goodbye", SortOrder: 2},
			},
		},
		{
			BaseModel: model.BaseModel{ID: 2},
			CourseID:  1,
			Title:     "Numbers",
			SortOrder: 2,
			Lessons: []model.Lesson{
				{BaseModel: model.BaseModel{ID: 21}, ModuleID: 2, Title: "One to ten", SortOrder: 1},
				{BaseModel: model.BaseModel{ID: 22}, ModuleID: 2, Title: "Teens", SortOrder: 2},
			},
		},
	}
}

func TestSkillTreeRequiresEnrollment(t *testing.T) {
	f := newProgressFixture()
	_, err := f.svc.SkillTree(1, 1)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestSkillTreeLinearUnlockChain(t *testing.T) {
	f := newProgressFixture()
	f.enroll(1, 1)
	f.modules.modules = skillTreeModules()
	f.snapshots.byUserLesson[[2]uint{1, 11}] = &model.ProgressSnapshot{UserID: 1, CourseID: 1, LessonID: 11}

	tree, err := f.svc.SkillTree(1, 1)
	require.NoError(t, err)
	require.Len(t, tree, 2)

	first := tree[0]
	assert.False(t, first.IsLocked)
	assert.False(t, first.IsCompleted)
	assert.Equal(t, 50.0, first.Progress)
	require.Len(t, first.Children, 2)

	assert.False(t, first.Children[0].IsLocked)
	assert.True(t, first.Children[0].IsCompleted)
	assert.Equal(t, 100.0, first.Children[0].Progress)

	// 前一课时已完成，第二课时解锁但未完成
	assert.False(t, first.Children[1].IsLocked)
	assert.False(t, first.Children[1].IsCompleted)

	// 第一章节未全部完成，第二章节及其首课时锁定
	second := tree[1]
	assert.True(t, second.IsLocked)
	assert.Equal(t, 0.0, second.Progress)
	assert.True(t, second.Children[0].IsLocked)
	assert.True(t, second.Children[1].IsLocked)
}

func TestSkillTreeSecondModuleUnlocksWhenFirstComplete(t *testing.T) {
	f := newProgressFixture()
	f.enroll(1, 1)
	f.modules.modules = skillTreeModules()
	f.snapshots.byUserLesson[[2]uint{1, 11}] = &model.ProgressSnapshot{UserID: 1, CourseID: 1, LessonID: 11}
	f.snapshots.byUserLesson[[2]uint{1, 12}] = &model.ProgressSnapshot{UserID: 1, CourseID: 1, LessonID: 12}

	tree, err := f.svc.SkillTree(1, 1)
	require.NoError(t, err)

	assert.True(t, tree[0].IsCompleted)
	assert.Equal(t, 100.0, tree[0].Progress)

	second := tree[1]
	assert.False(t, second.IsLocked)
	assert.False(t, second.Children[0].IsLocked)
	// 第二章节第二课时仍要求前一课时完成
	assert.True(t, second.Children[1].IsLocked)
}

func TestSkillTreeEmptyModuleHasZeroProgress(t *testing.T) {
	f := newProgressFixture()
	f.enroll(1, 1)
	f.modules.modules = []model.CourseModule{
		{BaseModel: model.BaseModel{ID: 1}, CourseID: 1, Title: "Empty"},
	}

	tree, err := f.svc.SkillTree(1, 1)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, 0.0, tree[0].Progress)
	assert.False(t, tree[0].IsCompleted)
}

func TestCompleteLessonValidation(t *testing.T) {
	f := newProgressFixture()

	_, err := f.svc.CompleteLesson(1, 11, 60, -1)
	assert.ErrorIs(t, err, util.ErrInvalidScore)

	_, err = f.svc.CompleteLesson(1, 11, 60, 101)
	assert.ErrorIs(t, err, util.ErrInvalidScore)

	_, err = f.svc.CompleteLesson(1, 11, -5, 80)
	assert.ErrorIs(t, err, util.ErrInvalidTimeSpent)
}

func TestCompleteLessonNotEnrolled(t *testing.T) {
	f := newProgressFixture()
	f.lessons.lessons[11] = lessonInModule(11)

	_, err := f.svc.CompleteLesson(1, 11, 60, 80)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestCompleteLessonAlreadyCompleted(t *testing.T) {
	f := newProgressFixture()
	f.lessons.lessons[11] = lessonInModule(11)
	f.enroll(1, 1)
	f.snapshots.byUserLesson[[2]uint{1, 11}] = &model.ProgressSnapshot{UserID: 1, CourseID: 1, LessonID: 11}

	_, err := f.svc.CompleteLesson(1, 11, 60, 80)
	assert.ErrorIs(t, err, util.ErrLessonAlreadyCompleted)
}

func TestCompleteLessonAwardsXpAndEnqueues(t *testing.T) {
	f := newProgressFixture()
	f.lessons.lessons[11] = lessonInModule(11)
	f.lessons.publishedCnt = 4
	f.enroll(1, 1)
	f.exercises.byLesson[11] = []model.Exercise{
		{BaseModel: model.BaseModel{ID: 1}, Points: 10},
		{BaseModel: model.BaseModel{ID: 2}, Points: 10},
		{BaseModel: model.BaseModel{ID: 3}, Points: 10},
	}

	completion, err := f.svc.CompleteLesson(1, 11, 120, 80)
	require.NoError(t, err)

	// round(80/100 × 30) = 24
	assert.Equal(t, 24, completion.XpEarned)
	assert.False(t, completion.StreakBonus)

	require.Len(t, f.snapshots.xpTxns, 1)
	assert.Equal(t, 24, f.snapshots.xpTxns[0].Amount)
	assert.Equal(t, model.XpLessonCompleted, f.snapshots.xpTxns[0].Reason)
	assert.Equal(t, uint(11), f.snapshots.xpTxns[0].SourceID)

	assert.Equal(t, []uint{1, 2, 3}, f.queue.calls[1])

	// 4个已发布课时完成1个
	enrollment := f.enrollments.byUserCourse[[2]uint{1, 1}]
	assert.Equal(t, 25.0, enrollment.Progress)
	assert.Nil(t, enrollment.CompletedAt)

	// 首次完成创建连续天数记录
	streak := f.streaks.byUser[1]
	require.NotNil(t, streak)
	assert.Equal(t, 1, streak.Current)
	assert.Equal(t, 1, streak.Longest)
}

func TestCompleteLessonXpFloor(t *testing.T) {
	f := newProgressFixture()
	f.lessons.lessons[11] = lessonInModule(11)
	f.lessons.publishedCnt = 1
	f.enroll(1, 1)

	// 无练习时按默认20分计，低分也保底10XP
	completion, err := f.svc.CompleteLesson(1, 11, 30, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, completion.XpEarned)
}

func TestCompleteLessonStreakBonus(t *testing.T) {
	f := newProgressFixture()
	f.lessons.lessons[11] = lessonInModule(11)
	f.lessons.publishedCnt = 1
	f.enroll(1, 1)
	f.exercises.byLesson[11] = []model.Exercise{{BaseModel: model.BaseModel{ID: 1}, Points: 20}}
	f.streaks.byUser[1] = &model.Streak{UserID: 1, Current: 7, Longest: 7, LastActive: time.Now().AddDate(0, 0, -1)}

	completion, err := f.svc.CompleteLesson(1, 11, 60, 100)
	require.NoError(t, err)

	// base 20 × 1.5 = 30
	assert.Equal(t, 30, completion.XpEarned)
	assert.True(t, completion.StreakBonus)

	// 昨日活跃，今日完成后连续天数+1
	assert.Equal(t, 8, f.streaks.byUser[1].Current)
	assert.Equal(t, 8, f.streaks.byUser[1].Longest)
}

func TestCompleteLessonFullCourseSetsCompletedAt(t *testing.T) {
	f := newProgressFixture()
	f.lessons.lessons[11] = lessonInModule(11)
	f.lessons.publishedCnt = 1
	f.enroll(1, 1)

	_, err := f.svc.CompleteLesson(1, 11, 60, 90)
	require.NoError(t, err)

	enrollment := f.enrollments.byUserCourse[[2]uint{1, 1}]
	assert.Equal(t, 100.0, enrollment.Progress)
	require.NotNil(t, enrollment.CompletedAt)
}

func TestUpdateCourseProgressNoPublishedLessons(t *testing.T) {
	f := newProgressFixture()
	f.lessons.publishedCnt = 0
	f.enroll(1, 1)

	err := f.svc.updateCourseProgress(1, 1)
	require.NoError(t, err)

	// 课程暂无已发布课时也刷新访问时间
	enrollment := f.enrollments.byUserCourse[[2]uint{1, 1}]
	assert.False(t, enrollment.LastAccessedAt.IsZero())
	assert.Equal(t, 0.0, enrollment.Progress)
	assert.Nil(t, enrollment.CompletedAt)
}

func TestUpdateStreakDayRules(t *testing.T) {
	f := newProgressFixture()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// 同日只刷新活跃时间
	streak := &model.Streak{UserID: 1, Current: 3, Longest: 5, LastActive: now.Add(-2 * time.Hour)}
	require.NoError(t, f.svc.updateStreak(1, streak, now))
	assert.Equal(t, 3, f.streaks.byUser[1].Current)

	// 跨一天递增
	streak = &model.Streak{UserID: 1, Current: 3, Longest: 5, LastActive: now.AddDate(0, 0, -1)}
	require.NoError(t, f.svc.updateStreak(1, streak, now))
	assert.Equal(t, 4, f.streaks.byUser[1].Current)
	assert.Equal(t, 5, f.streaks.byUser[1].Longest)

	// 断档重置为1
	streak = &model.Streak{UserID: 1, Current: 9, Longest: 9, LastActive: now.AddDate(0, 0, -3)}
	require.NoError(t, f.svc.updateStreak(1, streak, now))
	assert.Equal(t, 1, f.streaks.byUser[1].Current)
	assert.Equal(t, 9, f.streaks.byUser[1].Longest)

	// 深夜23:59到次日00:01也算跨天
	late := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	early := time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC)
	streak = &model.Streak{UserID: 1, Current: 2, Longest: 5, LastActive: late}
	require.NoError(t, f.svc.updateStreak(1, streak, early))
	assert.Equal(t, 3, f.streaks.byUser[1].Current)
}

func TestOverviewAggregates(t *testing.T) {
	f := newProgressFixture()
	f.streaks.byUser[1] = &model.Streak{UserID: 1, Current: 5}
	f.xp.total = 420
	f.attempts.total = 3
	f.attempts.correct = 2
	f.snapshots.timeSpentSum = 3600
	f.snapshots.byUserLesson[[2]uint{1, 11}] = &model.ProgressSnapshot{UserID: 1, CourseID: 1, LessonID: 11}
	f.enrollments.byUserCourse[[2]uint{1, 1}] = &model.CourseEnrollment{UserID: 1, CourseID: 1, Progress: 33.333}

	overview, err := f.svc.Overview(1, 1)
	require.NoError(t, err)

	assert.Equal(t, 5, overview.Streak)
	assert.Equal(t, int64(420), overview.TotalXp)
	assert.Equal(t, int64(1), overview.LessonsCompleted)
	assert.Equal(t, int64(3), overview.ExercisesCompleted)
	assert.Equal(t, int64(3600), overview.TimeSpent)
	// 2/3 → 66.7，保留一位小数
	assert.Equal(t, 66.7, overview.Accuracy)
	assert.Equal(t, 33.3, overview.CompletionPercentage)
}

func TestOverviewNoActivity(t *testing.T) {
	f := newProgressFixture()

	overview, err := f.svc.Overview(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, overview.Streak)
	assert.Equal(t, 0.0, overview.Accuracy)
	assert.Equal(t, int64(0), overview.TotalXp)
}
