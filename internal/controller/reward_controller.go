package controller

import (
	"errors"
	"family_habit_backend/internal/service"
	"family_habit_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type RewardController struct {
	RewardService *service.RewardService
}

func NewRewardController(rewardService *service.RewardService) *RewardController {
	return &RewardController{RewardService: rewardService}
}

// List godoc
// @Summary 奖励目录
// @Description 首次访问自动播种默认奖励
// @Tags 奖励
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Reward}
// @Router /api/rewards [get]
func (c *RewardController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	rewards, err := c.RewardService.List(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rewards)
}

// Earned godoc
// @Summary 已获得的徽章
// @Tags 奖励
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Reward}
// @Router /api/rewards/earned [get]
func (c *RewardController) Earned(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	rewards, err := c.RewardService.ListEarned(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rewards)
}

// Create godoc
// @Summary 添加自定义心愿
// @Description 积分门槛50起
// @Tags 奖励
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.RewardInput true "心愿内容"
// @Success 201 {object} util.Response{data=model.Reward}
// @Failure 400 {object} util.Response "积分低于门槛"
// @Router /api/rewards [post]
func (c *RewardController) Create(ctx *gin.Context) {
	var req service.RewardInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	reward, err := c.RewardService.CreateCustom(claims.UserID, &req)
	if err != nil {
		if errors.Is(err, util.ErrRewardPointsTooLow) || errors.Is(err, util.ErrNameRequired) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, reward)
}

// Redeem godoc
// @Summary 兑换奖励
// @Description 扣积分兑换；徽章只能兑换一次
// @Tags 奖励
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "奖励ID"
// @Success 200 {object} util.Response{data=model.Reward}
// @Failure 400 {object} util.Response "积分不足或徽章已获得"
// @Failure 404 {object} util.Response "奖励不存在"
// @Router /api/rewards/{id}/redeem [post]
func (c *RewardController) Redeem(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	reward, err := c.RewardService.Redeem(claims.UserID, id)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrRewardNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrBadgeAlreadyEarned), errors.Is(err, util.ErrInsufficientPoints):
			util.Error(ctx, http.StatusBadRequest, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, reward)
}
