package controller

import (
	"lingua_learn_backend/internal/model"
	"lingua_learn_backend/internal/repository"
	"lingua_learn_backend/internal/service"
	"lingua_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// SpacedRepetitionController 复习队列接口
type SpacedRepetitionController struct {
	SpacedRepetitionService *service.SpacedRepetitionService
	ExerciseRepo            *repository.ExerciseRepository
}

func NewSpacedRepetitionController(srsService *service.SpacedRepetitionService, exerciseRepo *repository.ExerciseRepository) *SpacedRepetitionController {
	return &SpacedRepetitionController{
		SpacedRepetitionService: srsService,
		ExerciseRepo:            exerciseRepo,
	}
}

// DueReview 复习队列条目连同练习题面
// swagger:model DueReview
type DueReview struct {
	Entry    model.ReviewQueueEntry `json:"entry"`
	Exercise *model.Exercise        `json:"exercise,omitempty"`
}

func (c *SpacedRepetitionController) withExercises(entries []model.ReviewQueueEntry) ([]DueReview, error) {
	ids := make([]uint, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ExerciseID)
	}

	exercises, err := c.ExerciseRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Exercise, len(exercises))
	for _, ex := range exercises {
		byID[ex.ID] = ex
	}

	reviews := make([]DueReview, 0, len(entries))
	for _, entry := range entries {
		review := DueReview{Entry: entry}
		if ex, ok := byID[entry.ExerciseID]; ok {
			review.Exercise = &ex
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

// NextReviews godoc
// @Summary 到期复习练习
// @Description 按到期时间升序返回待复习的练习，默认10条
// @Tags 复习
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "最多返回条数"
// @Param   lessonId query int false "限定课时范围"
// @Success 200 {object} util.Response{data=[]DueReview}
// @Router /api/reviews/next [get]
func (c *SpacedRepetitionController) NextReviews(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var entries []model.ReviewQueueEntry
	var err error
	if lessonID := util.MustParseUint(ctx.DefaultQuery("lessonId", "0")); lessonID != 0 {
		entries, err = c.SpacedRepetitionService.DueExercisesForLesson(claims.UserID, lessonID)
	} else {
		limit := util.ParseIntDefault(ctx.DefaultQuery("limit", "0"), 0)
		entries, err = c.SpacedRepetitionService.DueExercises(claims.UserID, limit)
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	reviews, err := c.withExercises(entries)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, reviews)
}

// QueueStats godoc
// @Summary 复习队列统计
// @Tags 复习
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.ReviewQueueStats}
// @Router /api/reviews/stats [get]
func (c *SpacedRepetitionController) QueueStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	stats, err := c.SpacedRepetitionService.QueueStats(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// Deactivate godoc
// @Summary 移出复习队列
// @Description 软移除，不删除历史调度参数
// @Tags 复习
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "练习ID"
// @Success 200 {object} util.Response
// @Router /api/reviews/{id} [delete]
func (c *SpacedRepetitionController) Deactivate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.SpacedRepetitionService.Deactivate(claims.UserID, util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
