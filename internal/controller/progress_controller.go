package controller

import (
	"lingua_learn_backend/internal/service"
	"lingua_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ProgressController 学习概览与排行榜接口
type ProgressController struct {
	ProgressService    *service.ProgressService
	LeaderboardService *service.LeaderboardService
}

func NewProgressController(progressService *service.ProgressService, leaderboardService *service.LeaderboardService) *ProgressController {
	return &ProgressController{
		ProgressService:    progressService,
		LeaderboardService: leaderboardService,
	}
}

// Overview godoc
// @Summary 学习概览
// @Description 连续天数、正确率、XP总量等学习统计，可按课程过滤
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   courseId query int false "限定课程"
// @Success 200 {object} util.Response{data=service.ProgressOverview}
// @Router /api/progress [get]
func (c *ProgressController) Overview(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := util.MustParseUint(ctx.DefaultQuery("courseId", "0"))

	overview, err := c.ProgressService.Overview(claims.UserID, courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// Leaderboard godoc
// @Summary XP排行榜
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "榜单条数，默认10"
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry}
// @Router /api/leaderboard [get]
func (c *ProgressController) Leaderboard(ctx *gin.Context) {
	limit := util.ParseIntDefault(ctx.DefaultQuery("limit", "10"), 10)
	entries, err := c.LeaderboardService.Top(ctx.Request.Context(), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
