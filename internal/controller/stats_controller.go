package controller

import (
	"family_habit_backend/internal/service"
	"family_habit_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	StatsService *service.StatsService
}

func NewStatsController(statsService *service.StatsService) *StatsController {
	return &StatsController{StatsService: statsService}
}

// Overview godoc
// @Summary 统计概览
// @Description 习惯统计、7天趋势、分类汇总、连续打卡与Top5习惯
// @Tags 统计
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.OverviewStats}
// @Router /api/stats/overview [get]
func (c *StatsController) Overview(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	stats, err := c.StatsService.Overview(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
