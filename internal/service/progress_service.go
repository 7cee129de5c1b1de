package service

import (
	"errors"
	"lingua_learn_backend/internal/model"
	"lingua_learn_backend/internal/util"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 连续7天及以上触发1.5倍XP加成
const (
	streakBonusThreshold  = 7
	streakBonusMultiplier = 1.5
	minLessonXp           = 10
	defaultLessonPoints   = 20
)

type LessonSource interface {
	FindByID(id uint) (*model.Lesson, error)
	CountPublishedByCourse(courseID uint) (int64, error)
}

type ModuleSource interface {
	FindPublishedByCourse(courseID uint) ([]model.CourseModule, error)
}

type CourseSource interface {
	FindByID(id uint) (*model.Course, error)
}

type EnrollmentStore interface {
	Create(enrollment *model.CourseEnrollment) error
	FindByUserAndCourse(userID, courseID uint) (*model.CourseEnrollment, error)
	FindByUser(userID uint) ([]model.CourseEnrollment, error)
	Update(enrollment *model.CourseEnrollment) error
}

type SnapshotStore interface {
	FindByUserAndLesson(userID, lessonID uint) (*model.ProgressSnapshot, error)
	CreateWithXp(snapshot *model.ProgressSnapshot, xp *model.XpTransaction) error
	CompletedLessonIDs(userID, courseID uint) ([]uint, error)
	CountByUser(userID, courseID uint) (int64, error)
	SumTimeSpent(userID, courseID uint) (int64, error)
}

type StreakStore interface {
	FindByUser(userID uint) (*model.Streak, error)
	Create(streak *model.Streak) error
	Update(streak *model.Streak) error
}

type XpSource interface {
	TotalByUser(userID uint) (int64, error)
}

type LessonExerciseSource interface {
	FindByLesson(lessonID uint) ([]model.Exercise, error)
}

type ReviewEnqueuer interface {
	EnqueueAll(userID uint, exerciseIDs []uint) error
}

type AttemptStatsSource interface {
	Stats(userID uint, courseID uint) (total int64, correct int64, err error)
}

// ProgressService 技能树投影、课时完成流程、课程进度与连续天数维护
type ProgressService struct {
	Lessons     LessonSource
	Modules     ModuleSource
	Courses     CourseSource
	Enrollments EnrollmentStore
	Snapshots   SnapshotStore
	Streaks     StreakStore
	Xp          XpSource
	Exercises   LessonExerciseSource
	Queue       ReviewEnqueuer
	Attempts    AttemptStatsSource
	Log         *zap.Logger
}

func NewProgressService(
	lessons LessonSource,
	modules ModuleSource,
	courses CourseSource,
	enrollments EnrollmentStore,
	snapshots SnapshotStore,
	streaks StreakStore,
	xp XpSource,
	exercises LessonExerciseSource,
	queue ReviewEnqueuer,
	attempts AttemptStatsSource,
	log *zap.Logger,
) *ProgressService {
	return &ProgressService{
		Lessons:     lessons,
		Modules:     modules,
		Courses:     courses,
		Enrollments: enrollments,
		Snapshots:   snapshots,
		Streaks:     streaks,
		Xp:          xp,
		Exercises:   exercises,
		Queue:       queue,
		Attempts:    attempts,
		Log:         log,
	}
}

type SkillTreeNode struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Type        string          `json:"type"` // module, lesson
	IsLocked    bool            `json:"isLocked"`
	IsCompleted bool            `json:"isCompleted"`
	Progress    float64         `json:"progress"`
	SortOrder   int             `json:"sortOrder"`
	Children    []SkillTreeNode `json:"children,omitempty"`
}

type LessonCompletion struct {
	LessonID    uint      `json:"lessonId"`
	XpEarned    int       `json:"xpEarned"`
	StreakBonus bool      `json:"streakBonus"`
	CompletedAt time.Time `json:"completedAt"`
}

type ProgressOverview struct {
	UserID               uint    `json:"userId"`
	CourseID             uint    `json:"courseId,omitempty"`
	Streak               int     `json:"streak"`
	Accuracy             float64 `json:"accuracy"`
	CompletionPercentage float64 `json:"completionPercentage"`
	TotalXp              int64   `json:"totalXp"`
	LessonsCompleted     int64   `json:"lessonsCompleted"`
	ExercisesCompleted   int64   `json:"exercisesCompleted"`
	TimeSpent            int64   `json:"timeSpent"`
}

// EnrollInCourse 幂等报名：重复报名返回已有记录
func (s *ProgressService) EnrollInCourse(userID, courseID uint) (*model.CourseEnrollment, error) {
	course, err := s.Courses.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !course.IsPublished {
		return nil, util.ErrCourseNotPublished
	}

	existing, err := s.Enrollments.FindByUserAndCourse(userID, courseID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.CourseEnrollment{
		UserID:         userID,
		CourseID:       courseID,
		Progress:       0,
		LastAccessedAt: time.Now(),
	}
	if err := s.Enrollments.Create(enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.Enrollments.FindByUserAndCourse(userID, courseID)
		}
		return nil, err
	}
	return enrollment, nil
}

func (s *ProgressService) ListEnrollments(userID uint) ([]model.CourseEnrollment, error) {
	return s.Enrollments.FindByUser(userID)
}

// SkillTree 课程技能树投影，每次实时计算不做缓存。
// 解锁链严格线性：首章节常开，后续章节要求前一章节全部完成；
// 章节内首课时要求前一章节完成，其余课时要求同章节前一课时完成
func (s *ProgressService) SkillTree(userID, courseID uint) ([]SkillTreeNode, error) {
	_, err := s.Enrollments.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}

	modules, err := s.Modules.FindPublishedByCourse(courseID)
	if err != nil {
		return nil, err
	}

	completedIDs, err := s.Snapshots.CompletedLessonIDs(userID, courseID)
	if err != nil {
		return nil, err
	}
	completed := make(map[uint]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}

	tree := make([]SkillTreeNode, 0, len(modules))
	previousModuleCompleted := true

	for _, m := range modules {
		completedCount := 0
		for _, lesson := range m.Lessons {
			if completed[lesson.ID] {
				completedCount++
			}
		}

		moduleProgress := 0.0
		if len(m.Lessons) > 0 {
			moduleProgress = float64(completedCount) / float64(len(m.Lessons)) * 100
		}
		moduleCompleted := moduleProgress == 100

		children := make([]SkillTreeNode, 0, len(m.Lessons))
		previousLessonCompleted := previousModuleCompleted
		for _, lesson := range m.Lessons {
			isCompleted := completed[lesson.ID]
			lessonProgress := 0.0
			if isCompleted {
				lessonProgress = 100
			}
			children = append(children, SkillTreeNode{
				ID:          lesson.ID,
				Title:       lesson.Title,
				Type:        "lesson",
				IsLocked:    !previousLessonCompleted,
				IsCompleted: isCompleted,
				Progress:    lessonProgress,
				SortOrder:   lesson.SortOrder,
			})
			previousLessonCompleted = isCompleted
		}

		tree = append(tree, SkillTreeNode{
			ID:          m.ID,
			Title:       m.Title,
			Type:        "module",
			IsLocked:    !previousModuleCompleted,
			IsCompleted: moduleCompleted,
			Progress:    moduleProgress,
			SortOrder:   m.SortOrder,
			Children:    children,
		})
		previousModuleCompleted = moduleCompleted
	}

	return tree, nil
}

// CompleteLesson 课时完成流程。快照与XP流水同事务落库；
// 之后的入队、课程进度、连续天数更新失败不回滚完成事件，只记录日志，
// 各步骤幂等，后续请求可自愈
func (s *ProgressService) CompleteLesson(userID, lessonID uint, timeSpent, score int) (*LessonCompletion, error) {
	if score < 0 || score > 100 {
		return nil, util.ErrInvalidScore
	}
	if timeSpent < 0 {
		return nil, util.ErrInvalidTimeSpent
	}

	lesson, err := s.Lessons.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	if lesson.Module == nil {
		return nil, util.ErrModuleNotFound
	}
	courseID := lesson.Module.CourseID

	if _, err := s.Enrollments.FindByUserAndCourse(userID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}

	if _, err := s.Snapshots.FindByUserAndLesson(userID, lessonID); err == nil {
		return nil, util.ErrLessonAlreadyCompleted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	exercises, err := s.Exercises.FindByLesson(lessonID)
	if err != nil {
		return nil, err
	}

	streak, err := s.Streaks.FindByUser(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		streak = nil
	}

	xpEarned, streakBonus := computeLessonXp(exercises, score, streak)
	completedAt := time.Now()

	snapshot := &model.ProgressSnapshot{
		UserID:      userID,
		CourseID:    courseID,
		LessonID:    lessonID,
		CompletedAt: completedAt,
		TimeSpent:   timeSpent,
		Score:       score,
		XpEarned:    xpEarned,
		StreakBonus: streakBonus,
	}
	xpTxn := &model.XpTransaction{
		UserID:     userID,
		Amount:     xpEarned,
		Reason:     model.XpLessonCompleted,
		SourceID:   lessonID,
		SourceType: "lesson",
	}

	if err := s.Snapshots.CreateWithXp(snapshot, xpTxn); err != nil {
		// 并发重复完成时唯一索引判负
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrLessonAlreadyCompleted
		}
		return nil, err
	}

	exerciseIDs := make([]uint, 0, len(exercises))
	for _, ex := range exercises {
		exerciseIDs = append(exerciseIDs, ex.ID)
	}
	if err := s.Queue.EnqueueAll(userID, exerciseIDs); err != nil {
		s.Log.Error("failed to enqueue lesson exercises",
			zap.Uint("userId", userID), zap.Uint("lessonId", lessonID), zap.Error(err))
	}

	if err := s.updateCourseProgress(userID, courseID); err != nil {
		s.Log.Error("failed to update course progress",
			zap.Uint("userId", userID), zap.Uint("courseId", courseID), zap.Error(err))
	}

	if err := s.updateStreak(userID, streak, completedAt); err != nil {
		s.Log.Error("failed to update streak",
			zap.Uint("userId", userID), zap.Error(err))
	}

	return &LessonCompletion{
		LessonID:    lessonID,
		XpEarned:    xpEarned,
		StreakBonus: streakBonus,
		CompletedAt: completedAt,
	}, nil
}

// computeLessonXp 纯函数：按课时练习总分值和得分计算XP，连续7天触发加成
func computeLessonXp(exercises []model.Exercise, score int, streak *model.Streak) (xpEarned int, streakBonus bool) {
	totalPoints := 0
	for _, ex := range exercises {
		totalPoints += ex.Points
	}
	if totalPoints == 0 {
		totalPoints = defaultLessonPoints
	}

	baseXp := int(math.Round(float64(score) / 100 * float64(totalPoints)))
	if baseXp < minLessonXp {
		baseXp = minLessonXp
	}

	if streak != nil && streak.Current >= streakBonusThreshold {
		return int(math.Round(float64(baseXp) * streakBonusMultiplier)), true
	}
	return baseXp, false
}

func (s *ProgressService) updateCourseProgress(userID, courseID uint) error {
	totalLessons, err := s.Lessons.CountPublishedByCourse(courseID)
	if err != nil {
		return err
	}

	completedIDs, err := s.Snapshots.CompletedLessonIDs(userID, courseID)
	if err != nil {
		return err
	}

	enrollment, err := s.Enrollments.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return err
	}

	now := time.Now()
	enrollment.LastAccessedAt = now
	// 无已发布课时的课程进度记0，但访问时间照常刷新
	enrollment.Progress = 0
	if totalLessons > 0 {
		enrollment.Progress = float64(len(completedIDs)) / float64(totalLessons) * 100
	}
	if enrollment.Progress == 100 {
		enrollment.CompletedAt = &now
	} else {
		enrollment.CompletedAt = nil
	}

	return s.Enrollments.Update(enrollment)
}

// updateStreak 按自然日差更新连续天数：+1天递增，同日仅刷新LastActive，
// 间隔超过一天（或时钟回拨）重置为1
func (s *ProgressService) updateStreak(userID uint, streak *model.Streak, now time.Time) error {
	if streak == nil {
		return s.Streaks.Create(&model.Streak{
			UserID:     userID,
			Current:    1,
			Longest:    1,
			LastActive: now,
		})
	}

	daysDiff := daysBetween(streak.LastActive, now)

	switch {
	case daysDiff == 1:
		streak.Current++
		if streak.Current > streak.Longest {
			streak.Longest = streak.Current
		}
		streak.LastActive = now
	case daysDiff == 0:
		streak.LastActive = now
	default:
		streak.Current = 1
		streak.LastActive = now
	}

	return s.Streaks.Update(streak)
}

// daysBetween 截断到零点后的天数差
func daysBetween(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location())
	return int(toDay.Sub(fromDay).Hours() / 24)
}

// Overview 学习概览，courseID为0时跨全部课程统计
func (s *ProgressService) Overview(userID, courseID uint) (*ProgressOverview, error) {
	overview := &ProgressOverview{
		UserID:   userID,
		CourseID: courseID,
	}

	streak, err := s.Streaks.FindByUser(userID)
	if err == nil {
		overview.Streak = streak.Current
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	totalXp, err := s.Xp.TotalByUser(userID)
	if err != nil {
		return nil, err
	}
	overview.TotalXp = totalXp

	lessonsCompleted, err := s.Snapshots.CountByUser(userID, courseID)
	if err != nil {
		return nil, err
	}
	overview.LessonsCompleted = lessonsCompleted

	timeSpent, err := s.Snapshots.SumTimeSpent(userID, courseID)
	if err != nil {
		return nil, err
	}
	overview.TimeSpent = timeSpent

	totalAttempts, correctAttempts, err := s.Attempts.Stats(userID, courseID)
	if err != nil {
		return nil, err
	}
	overview.ExercisesCompleted = totalAttempts
	if totalAttempts > 0 {
		accuracy := float64(correctAttempts) / float64(totalAttempts) * 100
		overview.Accuracy = math.Round(accuracy*10) / 10
	}

	if courseID != 0 {
		enrollment, err := s.Enrollments.FindByUserAndCourse(userID, courseID)
		if err == nil {
			overview.CompletionPercentage = math.Round(enrollment.Progress*10) / 10
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return overview, nil
}
