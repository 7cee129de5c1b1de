package util

import "errors"

var (
	ErrEmailRegistered        = errors.New("该邮箱已被注册")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUserNotFound           = errors.New("用户不存在")
	ErrLanguageNotFound       = errors.New("language not found")
	ErrCourseNotFound         = errors.New("course not found")
	ErrCourseNotPublished     = errors.New("course is not published")
	ErrModuleNotFound         = errors.New("module not found")
	ErrLessonNotFound         = errors.New("lesson not found")
	ErrExerciseNotFound       = errors.New("exercise not found")
	ErrNotEnrolled            = errors.New("not enrolled in this course")
	ErrLessonAlreadyCompleted = errors.New("lesson already completed")
	ErrInvalidScore           = errors.New("score must be between 0 and 100")
	ErrInvalidTimeSpent       = errors.New("timeSpent must be non-negative")
	ErrEmptyAnswer            = errors.New("answer is required")
)
