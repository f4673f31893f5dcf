package controller

import (
	"family_habit_backend/internal/service"
	"family_habit_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PointsController struct {
	PointsService *service.PointsService
}

func NewPointsController(pointsService *service.PointsService) *PointsController {
	return &PointsController{PointsService: pointsService}
}

// Summary godoc
// @Summary 积分余额与最近流水
// @Description 余额由流水实时推导，附最近10条流水
// @Tags 积分
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.PointsSummary}
// @Router /api/points [get]
func (c *PointsController) Summary(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	summary, err := c.PointsService.Summary(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}
