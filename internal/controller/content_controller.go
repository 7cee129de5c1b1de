package controller

import (
	"errors"
	"fmt"
	"lingua_learn_backend/internal/model"
	"lingua_learn_backend/internal/service"
	"lingua_learn_backend/internal/util"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContentController 管理端内容维护接口
type ContentController struct {
	ContentService *service.ContentService
	StorageService *service.StorageService
}

func NewContentController(contentService *service.ContentService, storageService *service.StorageService) *ContentController {
	return &ContentController{
		ContentService: contentService,
		StorageService: storageService,
	}
}

func (c *ContentController) handleContentError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrLanguageNotFound),
		errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrModuleNotFound),
		errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrExerciseNotFound):
		util.NotFound(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// ---- 语言 ----

// ListLanguages godoc
// @Summary 语言列表（含未启用）
// @Tags 内容管理
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Language}
// @Router /api/admin/languages [get]
func (c *ContentController) ListLanguages(ctx *gin.Context) {
	languages, err := c.ContentService.AllLanguages()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, languages)
}

// CreateLanguage godoc
// @Summary 新增语言
// @Tags 内容管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body model.Language true "语言"
// @Success 201 {object} util.Response{data=model.Language}
// @Router /api/admin/languages [post]
func (c *ContentController) CreateLanguage(ctx *gin.Context) {
	var language model.Language
	if err := ctx.ShouldBindJSON(&language); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if language.Code == "" || language.Name == "" {
		util.BadRequest(ctx, "code和name不能为空")
		return
	}

	if err := c.ContentService.CreateLanguage(&language); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, language)
}

// UpdateLanguage godoc
// @Summary 更新语言
// @Tags 内容管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "语言ID"
// @Param   body body model.Language true "语言"
// @Success 200 {object} util.Response{data=model.Language}
// @Router /api/admin/languages/{id} [put]
func (c *ContentController) UpdateLanguage(ctx *gin.Context) {
	var update model.Language
	if err := ctx.ShouldBindJSON(&update); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	language, err := c.ContentService.UpdateLanguage(util.MustParseUint(ctx.Param("id")), &update)
	if err != nil {
		c.handleContentError(ctx, err)
		return
	}
	util.Success(ctx, language)
}

// ---- 课程 ----

// ListCourses godoc
// @Summary 课程列表（含未发布）
// @Tags 内容管理
// @Produce  json
// @Security BearerAuth
// @Param   languageId query int false "按语言过滤"
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/admin/courses [get]
func (c *ContentController) ListCourses(ctx *gin.Context) {
	languageID := util.MustParseUint(ctx.DefaultQuery("languageId", "0"))
	courses, err := c.ContentService.AllCourses(languageID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// CreateCourse godoc
// @Summary 新增课程
// @Tags 内容管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body model.Course true "课程"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response "语言不存在"
// @Router /api/admin/courses [post]
func (c *ContentController) CreateCourse(ctx *gin.Context) {
	var course model.Course
	if err := ctx.ShouldBindJSON(&course); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if course.Title == "" || course.LanguageID == 0 {
		util.BadRequest(ctx, "title和languageId不能为空")
		return
	}

	if err := c.ContentService.CreateCourse(&course); err != nil {
		c.handleContentError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary 更新课程
// @Tags 内容管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   body body model.Course true "课程"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/admin/courses/{id} [put]
func (c *ContentController) UpdateCourse(ctx *gin.Context) {
	var update model.Course
	if err := ctx.ShouldBindJSON(&update); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.ContentService.UpdateCourse(util.MustParseUint(ctx.Param("id")), &update)
	if err != nil {
		c.handleContentError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary 删除课程
// @Tags 内容管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/admin/courses/{id} [delete]
func (c *ContentController) DeleteCourse(ctx *gin.Context) {
	if err := c.ContentService.DeleteCourse(util.MustParseUint(ctx.Param("id"))); err != nil {
		c.handleContentError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ---- 章节 ----

// ListModules godoc
// @Summary 课程章节列表
// @Tags 内容管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.CourseModule}
// @Router /api/admin/courses/{id}/modules [get]
func (c *ContentController) ListModules(ctx *gin.Context) {
	modules, err := c.ContentService.CourseModules(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		c.handleContentError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// CreateModule godoc
// @Summary 新增章节
// @Tags 内容管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body model.CourseModule true "章节"
// @Success 201 {object} util.Response{data=model.CourseModule}
// @Router /api/admin/modules [post]
func (c *ContentController) CreateModule(ctx *gin.Context) {
	var module model.CourseModule
	if err := ctx.ShouldBindJSON(&module); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if module.Title == "" || module.CourseID == 0 {
		util.BadRequest(ctx, "title和courseId不能为空")
		return
	}

	if err := c.ContentService.CreateModule(&module); err != nil {
		c.handleContentError(ctx, err)
		return
	}
	util.Created(ctx, module)
}

// UpdateModule godoc
// @Summary 更新章节
// @Tags 内容管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "章节ID"
// @Param   body body model.CourseModule true "章节"
// @Success 200 {object} util.Response{data=model.CourseModule}
// @Router /api/admin/modules/{id} [put]
func (c *ContentController) UpdateModule(ctx *gin.Context) {
	var update model.CourseModule
	if err := ctx.ShouldBindJSON(&update); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.ContentService.UpdateModule(util.MustParseUint(ctx.Param("id")), &update)
	if err != nil {
		c.handleContentError(ctx, err)
		return
	}
	util.Success(ctx, module)
}

// DeleteModule godoc
// @Summary 删除章节
// @Tags 内容管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "章节ID"
// @Success 200 {object} util.Response
// @Router /api/admin/modules/{id} [delete]
func (c *ContentController) DeleteModule(ctx *gin.Context) {
	if err := c.ContentService.DeleteModule(util.MustParseUint(ctx.Param("id"))); err != nil {
		c.handleContentError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ---- 课时 ----

// ListLessons godoc
// @Summary 章节课时列表
// @Tags 内容管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "章节ID"
// @Success 200 {object} util.Response{data=[]model.Lesson}
// @Router /api/admin/modules/{id}/lessons [get]
func (c *ContentController) ListLessons(ctx *gin.Context) {
	lessons, err := c.ContentService.ModuleLessons(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		c.handleContentError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// CreateLesson godoc
// @Summary 新增课时
// @Tags 内容管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body model.Lesson true "课时"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Router /api/admin/lessons [post]
func (c *ContentController) CreateLesson(ctx *gin.Context) {
	var lesson model.Lesson
	if err := ctx.ShouldBindJSON(&lesson); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if lesson.Title == "" || lesson.ModuleID == 0 {
		util.BadRequest(ctx, "title和moduleId不能为空")
		return
	}

	if err := c.ContentService.CreateLesson(&lesson); err != nil {
		c.handleContentError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// GetLesson godoc
// @Summary 课时详情（含内容分节）
// @Tags 内容管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/admin/lessons/{id} [get]
func (c *ContentController) GetLesson(ctx *gin.Context) {
	lesson, err := c.ContentService.GetLesson(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		c.handleContentError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// UpdateLesson godoc
// @Summary 更新课时
// @Tags 内容管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Param   body body model.Lesson true "课时"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/admin/lessons/{id} [put]
func (c *ContentController) UpdateLesson(ctx *gin.Context) {
	var update model.Lesson
	if err := ctx.ShouldBindJSON(&update); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.ContentService.UpdateLesson(util.MustParseUint(ctx.Param("id")), &update)
	if err != nil {
		c.handleContentError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// DeleteLesson godoc
// @Summary 删除课时
// @Tags 内容管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response
// @Router /api/admin/lessons/{id} [delete]
func (c *ContentController) DeleteLesson(ctx *gin.Context) {
	if err := c.ContentService.DeleteLesson(util.MustParseUint(ctx.Param("id"))); err != nil {
		c.handleContentError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CreateSection godoc
// @Summary 新增课时内容分节
// @Tags 内容管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body model.LessonSection true "分节"
// @Success 201 {object} util.Response{data=model.LessonSection}
// @Router /api/admin/sections [post]
func (c *ContentController) CreateSection(ctx *gin.Context) {
	var section model.LessonSection
	if err := ctx.ShouldBindJSON(&section); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if section.LessonID == 0 {
		util.BadRequest(ctx, "lessonId不能为空")
		return
	}

	if err := c.ContentService.CreateSection(&section); err != nil {
		c.handleContentError(ctx, err)
		return
	}
	util.Created(ctx, section)
}

// DeleteSection godoc
// @Summary 删除课时内容分节
// @Tags 内容管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "分节ID"
// @Success 200 {object} util.Response
// @Router /api/admin/sections/{id} [delete]
func (c *ContentController) DeleteSection(ctx *gin.Context) {
	if err := c.ContentService.DeleteSection(util.MustParseUint(ctx.Param("id"))); err != nil {
		c.handleContentError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ---- 练习 ----

// ExerciseView 管理端练习视图，带答案字段
// swagger:model ExerciseView
type ExerciseView struct {
	model.Exercise
	CorrectAnswer string   `json:"correctAnswer"`
	Alternatives  []string `json:"alternatives,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

func toExerciseView(e model.Exercise) ExerciseView {
	return ExerciseView{
		Exercise:      e,
		CorrectAnswer: e.CorrectAnswer,
		Alternatives:  e.Alternatives,
		Explanation:   e.Explanation,
	}
}

// ListExercises godoc
// @Summary 课时练习列表（含答案）
// @Tags 内容管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response{data=[]ExerciseView}
// @Router /api/admin/lessons/{id}/exercises [get]
func (c *ContentController) ListExercises(ctx *gin.Context) {
	exercises, err := c.ContentService.LessonExercises(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		c.handleContentError(ctx, err)
		return
	}

	views := make([]ExerciseView, 0, len(exercises))
	for _, e := range exercises {
		views = append(views, toExerciseView(e))
	}
	util.Success(ctx, views)
}

// ExerciseRequest 练习创建与更新请求体
// swagger:model ExerciseRequest
type ExerciseRequest struct {
	LessonID      uint     `json:"lessonId"`
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Hint          string   `json:"hint"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Alternatives  []string `json:"alternatives"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
	Points        int      `json:"points"`
	AudioURL      string   `json:"audioUrl"`
	AudioDuration float64  `json:"audioDuration"`
	SortOrder     int      `json:"sortOrder"`
	IsPublished   bool     `json:"isPublished"`
}

func (r *ExerciseRequest) toModel() *model.Exercise {
	return &model.Exercise{
		LessonID:      r.LessonID,
		Type:          model.ExerciseType(r.Type),
		Question:      r.Question,
		Hint:          r.Hint,
		Options:       r.Options,
		CorrectAnswer: r.CorrectAnswer,
		Alternatives:  r.Alternatives,
		Explanation:   r.Explanation,
		Difficulty:    model.ExerciseDifficulty(r.Difficulty),
		Points:        r.Points,
		AudioURL:      r.AudioURL,
		AudioDuration: r.AudioDuration,
		SortOrder:     r.SortOrder,
		IsPublished:   r.IsPublished,
	}
}

// CreateExercise godoc
// @Summary 新增练习
// @Tags 内容管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ExerciseRequest true "练习"
// @Success 201 {object} util.Response{data=ExerciseView}
// @Router /api/admin/exercises [post]
func (c *ContentController) CreateExercise(ctx *gin.Context) {
	var req ExerciseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.LessonID == 0 || req.Question == "" || req.CorrectAnswer == "" {
		util.BadRequest(ctx, "lessonId、question、correctAnswer不能为空")
		return
	}

	exercise := req.toModel()
	if err := c.ContentService.CreateExercise(exercise); err != nil {
		c.handleContentError(ctx, err)
		return
	}
	util.Created(ctx, toExerciseView(*exercise))
}

// UpdateExercise godoc
// @Summary 更新练习
// @Tags 内容管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "练习ID"
// @Param   body body ExerciseRequest true "练习"
// @Success 200 {object} util.Response{data=ExerciseView}
// @Router /api/admin/exercises/{id} [put]
func (c *ContentController) UpdateExercise(ctx *gin.Context) {
	var req ExerciseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exercise, err := c.ContentService.UpdateExercise(util.MustParseUint(ctx.Param("id")), req.toModel())
	if err != nil {
		c.handleContentError(ctx, err)
		return
	}
	util.Success(ctx, toExerciseView(*exercise))
}

// DeleteExercise godoc
// @Summary 删除练习
// @Tags 内容管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "练习ID"
// @Success 200 {object} util.Response
// @Router /api/admin/exercises/{id} [delete]
func (c *ContentController) DeleteExercise(ctx *gin.Context) {
	if err := c.ContentService.DeleteExercise(util.MustParseUint(ctx.Param("id"))); err != nil {
		c.handleContentError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadAudio godoc
// @Summary 上传听力练习音频
// @Description 上传音频文件并探测时长，返回存储URL供练习引用
// @Tags 内容管理
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "音频文件"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "文件格式不支持"
// @Router /api/admin/audio [post]
func (c *ContentController) UploadAudio(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少上传文件")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !isAllowedExtension(ext, util.AllowedAudioExtensions) {
		util.BadRequest(ctx, "不支持的音频格式: "+ext)
		return
	}

	// 先落临时文件用于ffmpeg探测时长
	tmpPath := filepath.Join(os.TempDir(), uuid.New().String()+ext)
	if err := ctx.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmpPath)

	audioInfo, err := util.GetAudioInfo(tmpPath)
	if err != nil {
		util.BadRequest(ctx, "音频文件无法解析")
		return
	}

	src, err := os.Open(tmpPath)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || !strings.HasPrefix(contentType, util.MimeAudio) {
		contentType = util.MimeOctetStream
	}

	filename := fmt.Sprintf("audio/%s%s", uuid.New().String(), ext)
	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, src, fileHeader.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"url":      url,
		"duration": audioInfo.Duration,
		"format":   audioInfo.Format,
		"size":     audioInfo.Size,
	})
}
