package service

import (
	"errors"
	"lingua_learn_backend/internal/model"
	"lingua_learn_backend/internal/repository"
	"lingua_learn_backend/internal/util"

	"gorm.io/gorm"
)

// ContentService 课程内容管理：语言、课程、章节、课时、练习的维护与浏览
type ContentService struct {
	LanguageRepo *repository.LanguageRepository
	CourseRepo   *repository.CourseRepository
	ModuleRepo   *repository.ModuleRepository
	LessonRepo   *repository.LessonRepository
	ExerciseRepo *repository.ExerciseRepository
}

func NewContentService(
	languageRepo *repository.LanguageRepository,
	courseRepo *repository.CourseRepository,
	moduleRepo *repository.ModuleRepository,
	lessonRepo *repository.LessonRepository,
	exerciseRepo *repository.ExerciseRepository,
) *ContentService {
	return &ContentService{
		LanguageRepo: languageRepo,
		CourseRepo:   courseRepo,
		ModuleRepo:   moduleRepo,
		LessonRepo:   lessonRepo,
		ExerciseRepo: exerciseRepo,
	}
}

// ---- 语言 ----

func (s *ContentService) ActiveLanguages() ([]model.Language, error) {
	return s.LanguageRepo.FindActive()
}

func (s *ContentService) AllLanguages() ([]model.Language, error) {
	return s.LanguageRepo.FindAll()
}

func (s *ContentService) CreateLanguage(language *model.Language) error {
	return s.LanguageRepo.Create(language)
}

func (s *ContentService) UpdateLanguage(id uint, update *model.Language) (*model.Language, error) {
	language, err := s.LanguageRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLanguageNotFound
		}
		return nil, err
	}

	if update.Code != "" {
		language.Code = update.Code
	}
	if update.Name != "" {
		language.Name = update.Name
	}
	if update.NativeName != "" {
		language.NativeName = update.NativeName
	}
	if update.Flag != "" {
		language.Flag = update.Flag
	}
	language.IsActive = update.IsActive

	if err := s.LanguageRepo.Update(language); err != nil {
		return nil, err
	}
	return language, nil
}

// ---- 课程 ----

// PublishedCourses 学员可见的课程目录，languageID为0时不过滤语言
func (s *ContentService) PublishedCourses(languageID uint) ([]model.Course, error) {
	return s.CourseRepo.FindPublished(languageID)
}

func (s *ContentService) AllCourses(languageID uint) ([]model.Course, error) {
	return s.CourseRepo.FindAll(languageID)
}

func (s *ContentService) GetCourse(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// GetPublishedCourse 学员侧课程详情，未发布视同不存在
func (s *ContentService) GetPublishedCourse(id uint) (*model.Course, error) {
	course, err := s.GetCourse(id)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished {
		return nil, util.ErrCourseNotFound
	}
	return course, nil
}

func (s *ContentService) CreateCourse(course *model.Course) error {
	if _, err := s.LanguageRepo.FindByID(course.LanguageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLanguageNotFound
		}
		return err
	}
	return s.CourseRepo.Create(course)
}

func (s *ContentService) UpdateCourse(id uint, update *model.Course) (*model.Course, error) {
	course, err := s.GetCourse(id)
	if err != nil {
		return nil, err
	}

	if update.Title != "" {
		course.Title = update.Title
	}
	if update.Description != "" {
		course.Description = update.Description
	}
	if update.Level != "" {
		course.Level = update.Level
	}
	if update.ImageURL != "" {
		course.ImageURL = update.ImageURL
	}
	if update.SortOrder != 0 {
		course.SortOrder = update.SortOrder
	}
	course.IsPublished = update.IsPublished

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *ContentService) DeleteCourse(id uint) error {
	if _, err := s.GetCourse(id); err != nil {
		return err
	}
	return s.CourseRepo.Delete(id)
}

// ---- 章节 ----

func (s *ContentService) CourseModules(courseID uint) ([]model.CourseModule, error) {
	if _, err := s.GetCourse(courseID); err != nil {
		return nil, err
	}
	return s.ModuleRepo.FindByCourse(courseID)
}

func (s *ContentService) CreateModule(module *model.CourseModule) error {
	if _, err := s.GetCourse(module.CourseID); err != nil {
		return err
	}
	return s.ModuleRepo.Create(module)
}

func (s *ContentService) UpdateModule(id uint, update *model.CourseModule) (*model.CourseModule, error) {
	module, err := s.ModuleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}

	if update.Title != "" {
		module.Title = update.Title
	}
	if update.Description != "" {
		module.Description = update.Description
	}
	if update.SortOrder != 0 {
		module.SortOrder = update.SortOrder
	}
	module.IsPublished = update.IsPublished

	if err := s.ModuleRepo.Update(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *ContentService) DeleteModule(id uint) error {
	if _, err := s.ModuleRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrModuleNotFound
		}
		return err
	}
	return s.ModuleRepo.Delete(id)
}

// ---- 课时 ----

// LessonContent 学员侧课时详情：内容分节加排好序的练习题面。
// 答案与解析通过模型的json:"-"保证不出服务端
type LessonContent struct {
	Lesson    *model.Lesson    `json:"lesson"`
	Exercises []model.Exercise `json:"exercises"`
}

func (s *ContentService) GetLessonContent(lessonID uint) (*LessonContent, error) {
	lesson, err := s.LessonRepo.FindWithSections(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	if !lesson.IsPublished {
		return nil, util.ErrLessonNotFound
	}

	exercises, err := s.ExerciseRepo.FindByLesson(lessonID)
	if err != nil {
		return nil, err
	}

	return &LessonContent{Lesson: lesson, Exercises: exercises}, nil
}

func (s *ContentService) GetLesson(id uint) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindWithSections(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

func (s *ContentService) ModuleLessons(moduleID uint) ([]model.Lesson, error) {
	if _, err := s.ModuleRepo.FindByID(moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	return s.LessonRepo.FindByModule(moduleID)
}

func (s *ContentService) CreateLesson(lesson *model.Lesson) error {
	if _, err := s.ModuleRepo.FindByID(lesson.ModuleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrModuleNotFound
		}
		return err
	}
	return s.LessonRepo.Create(lesson)
}

func (s *ContentService) UpdateLesson(id uint, update *model.Lesson) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	if update.Title != "" {
		lesson.Title = update.Title
	}
	if update.Description != "" {
		lesson.Description = update.Description
	}
	if update.SortOrder != 0 {
		lesson.SortOrder = update.SortOrder
	}
	lesson.IsPublished = update.IsPublished

	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *ContentService) DeleteLesson(id uint) error {
	if _, err := s.LessonRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLessonNotFound
		}
		return err
	}
	return s.LessonRepo.Delete(id)
}

func (s *ContentService) CreateSection(section *model.LessonSection) error {
	if _, err := s.LessonRepo.FindByID(section.LessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLessonNotFound
		}
		return err
	}
	return s.LessonRepo.CreateSection(section)
}

func (s *ContentService) DeleteSection(id uint) error {
	return s.LessonRepo.DeleteSection(id)
}

// ---- 练习 ----

func (s *ContentService) LessonExercises(lessonID uint) ([]model.Exercise, error) {
	if _, err := s.LessonRepo.FindByID(lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return s.ExerciseRepo.FindByLesson(lessonID)
}

func (s *ContentService) CreateExercise(exercise *model.Exercise) error {
	if _, err := s.LessonRepo.FindByID(exercise.LessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLessonNotFound
		}
		return err
	}
	return s.ExerciseRepo.Create(exercise)
}

func (s *ContentService) UpdateExercise(id uint, update *model.Exercise) (*model.Exercise, error) {
	exercise, err := s.ExerciseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExerciseNotFound
		}
		return nil, err
	}

	if update.Type != "" {
		exercise.Type = update.Type
	}
	if update.Question != "" {
		exercise.Question = update.Question
	}
	if update.Hint != "" {
		exercise.Hint = update.Hint
	}
	if update.Options != nil {
		exercise.Options = update.Options
	}
	if update.CorrectAnswer != "" {
		exercise.CorrectAnswer = update.CorrectAnswer
	}
	if update.Alternatives != nil {
		exercise.Alternatives = update.Alternatives
	}
	if update.Explanation != "" {
		exercise.Explanation = update.Explanation
	}
	if update.Difficulty != "" {
		exercise.Difficulty = update.Difficulty
	}
	if update.Points != 0 {
		exercise.Points = update.Points
	}
	if update.AudioURL != "" {
		exercise.AudioURL = update.AudioURL
		exercise.AudioDuration = update.AudioDuration
	}
	if update.SortOrder != 0 {
		exercise.SortOrder = update.SortOrder
	}
	exercise.IsPublished = update.IsPublished

	if err := s.ExerciseRepo.Update(exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

func (s *ContentService) DeleteExercise(id uint) error {
	if _, err := s.ExerciseRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrExerciseNotFound
		}
		return err
	}
	return s.ExerciseRepo.Delete(id)
}
