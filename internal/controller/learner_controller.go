package controller

import (
	"errors"
	"lingua_learn_backend/internal/service"
	"lingua_learn_backend/internal/util"
	"lingua_learn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

// LearnerController 学员侧课程浏览与学习流程接口
type LearnerController struct {
	ContentService  *service.ContentService
	ProgressService *service.ProgressService
	ExerciseService *service.ExerciseService
}

func NewLearnerController(
	contentService *service.ContentService,
	progressService *service.ProgressService,
	exerciseService *service.ExerciseService,
) *LearnerController {
	return &LearnerController{
		ContentService:  contentService,
		ProgressService: progressService,
		ExerciseService: exerciseService,
	}
}

// ListLanguages godoc
// @Summary 可学语言列表
// @Tags 课程浏览
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Language}
// @Router /api/languages [get]
func (c *LearnerController) ListLanguages(ctx *gin.Context) {
	languages, err := c.ContentService.ActiveLanguages()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, languages)
}

// ListCourses godoc
// @Summary 已发布课程目录
// @Tags 课程浏览
// @Produce  json
// @Param   languageId query int false "按语言过滤"
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/courses [get]
func (c *LearnerController) ListCourses(ctx *gin.Context) {
	languageID := util.MustParseUint(ctx.DefaultQuery("languageId", "0"))
	courses, err := c.ContentService.PublishedCourses(languageID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// GetCourse godoc
// @Summary 课程详情
// @Tags 课程浏览
// @Produce  json
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id} [get]
func (c *LearnerController) GetCourse(ctx *gin.Context) {
	course, err := c.ContentService.GetPublishedCourse(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, course)
}

// Enroll godoc
// @Summary 报名课程
// @Description 重复报名幂等返回已有报名记录
// @Tags 学习
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.CourseEnrollment}
// @Failure 404 {object} util.Response "课程不存在"
// @Failure 409 {object} util.Response "课程未发布"
// @Router /api/courses/{id}/enroll [post]
func (c *LearnerController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	enrollment, err := c.ProgressService.EnrollInCourse(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrCourseNotPublished):
			util.Error(ctx, 409, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, enrollment)
}

// ListEnrollments godoc
// @Summary 我的报名课程
// @Tags 学习
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.CourseEnrollment}
// @Router /api/enrollments [get]
func (c *LearnerController) ListEnrollments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	enrollments, err := c.ProgressService.ListEnrollments(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// SkillTree godoc
// @Summary 课程技能树
// @Description 课程的章节/课时树，带解锁与完成状态
// @Tags 学习
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]service.SkillTreeNode}
// @Failure 403 {object} util.Response "未报名该课程"
// @Router /api/courses/{id}/skill-tree [get]
func (c *LearnerController) SkillTree(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	tree, err := c.ProgressService.SkillTree(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrNotEnrolled) {
			util.Error(ctx, 403, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, tree)
}

// GetLessonContent godoc
// @Summary 课时学习内容
// @Description 内容分节与练习题面，不含答案
// @Tags 学习
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response{data=service.LessonContent}
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/lessons/{id} [get]
func (c *LearnerController) GetLessonContent(ctx *gin.Context) {
	content, err := c.ContentService.GetLessonContent(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, content)
}

// CompleteLessonRequest 课时完成请求体
// swagger:model CompleteLessonRequest
type CompleteLessonRequest struct {
	Score     int `json:"score" binding:"min=0,max=100"`
	TimeSpent int `json:"timeSpent" binding:"min=0"`
}

// CompleteLesson godoc
// @Summary 完成课时
// @Description 记录课时完成、发放XP并把课时练习加入复习队列
// @Tags 学习
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Param   body body CompleteLessonRequest true "完成信息"
// @Success 200 {object} util.Response{data=service.LessonCompletion}
// @Failure 403 {object} util.Response "未报名该课程"
// @Failure 404 {object} util.Response "课时不存在"
// @Failure 409 {object} util.Response "课时已完成"
// @Router /api/lessons/{id}/complete [post]
func (c *LearnerController) CompleteLesson(ctx *gin.Context) {
	var req CompleteLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	completion, err := c.ProgressService.CompleteLesson(claims.UserID, util.MustParseUint(ctx.Param("id")), req.TimeSpent, req.Score)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidScore), errors.Is(err, util.ErrInvalidTimeSpent):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrLessonNotFound), errors.Is(err, util.ErrModuleNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrNotEnrolled):
			util.Error(ctx, 403, err.Error())
		case errors.Is(err, util.ErrLessonAlreadyCompleted):
			util.Error(ctx, 409, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	monitoring.LessonsCompleted.Inc()
	util.Success(ctx, completion)
}

// AttemptRequest 练习作答请求体
// swagger:model AttemptRequest
type AttemptRequest struct {
	Answer    string `json:"answer" binding:"required"`
	TimeSpent int    `json:"timeSpent" binding:"min=0"`
}

// SubmitAttempt godoc
// @Summary 提交练习作答
// @Description 判题并推进该练习的复习调度，答错时返回标准答案
// @Tags 学习
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "练习ID"
// @Param   body body AttemptRequest true "作答"
// @Success 200 {object} util.Response{data=service.AttemptResult}
// @Failure 404 {object} util.Response "练习不存在"
// @Router /api/exercises/{id}/attempt [post]
func (c *LearnerController) SubmitAttempt(ctx *gin.Context) {
	var req AttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	result, err := c.ExerciseService.SubmitAttempt(claims.UserID, util.MustParseUint(ctx.Param("id")), req.Answer, req.TimeSpent)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmptyAnswer), errors.Is(err, util.ErrInvalidTimeSpent):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrExerciseNotFound):
			util.NotFound(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	if result.IsCorrect {
		monitoring.ExerciseAttempts.WithLabelValues("correct").Inc()
	} else {
		monitoring.ExerciseAttempts.WithLabelValues("incorrect").Inc()
	}
	util.Success(ctx, result)
}
