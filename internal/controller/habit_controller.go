package controller

import (
	"errors"
	"family_habit_backend/internal/service"
	"family_habit_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type HabitController struct {
	HabitService *service.HabitService
}

func NewHabitController(habitService *service.HabitService) *HabitController {
	return &HabitController{HabitService: habitService}
}

func parseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的ID")
		return 0, false
	}
	return uint(id), true
}

// List godoc
// @Summary 习惯列表
// @Description 返回当前用户的全部习惯，任务按顺序预载
// @Tags 习惯
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Habit}
// @Router /api/habits [get]
func (c *HabitController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	habits, err := c.HabitService.List(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, habits)
}

// Get godoc
// @Summary 习惯详情
// @Tags 习惯
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "习惯ID"
// @Success 200 {object} util.Response{data=model.Habit}
// @Failure 404 {object} util.Response "习惯不存在"
// @Router /api/habits/{id} [get]
func (c *HabitController) Get(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	habit, err := c.HabitService.Get(id, claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrHabitNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, habit)
}

// Create godoc
// @Summary 创建习惯
// @Description 任务顺序按提交顺序编号
// @Tags 习惯
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.HabitInput true "习惯内容"
// @Success 201 {object} util.Response{data=model.Habit}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/habits [post]
func (c *HabitController) Create(ctx *gin.Context) {
	var req service.HabitInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	habit, err := c.HabitService.Create(claims.UserID, &req)
	if err != nil {
		if errors.Is(err, util.ErrNameRequired) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, habit)
}

// Update godoc
// @Summary 更新习惯
// @Description 提交 tasks 字段时整体替换任务列表
// @Tags 习惯
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "习惯ID"
// @Param   body body service.HabitInput true "习惯内容"
// @Success 200 {object} util.Response{data=model.Habit}
// @Failure 404 {object} util.Response "习惯不存在"
// @Router /api/habits/{id} [put]
func (c *HabitController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req service.HabitInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	habit, err := c.HabitService.Update(id, claims.UserID, &req)
	if err != nil {
		if errors.Is(err, util.ErrHabitNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, habit)
}

// Toggle godoc
// @Summary 启停习惯
// @Description 停用后不再生成每日任务，历史统计保留
// @Tags 习惯
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "习惯ID"
// @Success 200 {object} util.Response{data=model.Habit}
// @Failure 404 {object} util.Response "习惯不存在"
// @Router /api/habits/{id}/toggle [patch]
func (c *HabitController) Toggle(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	habit, err := c.HabitService.Toggle(id, claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrHabitNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, habit)
}

// Delete godoc
// @Summary 删除习惯
// @Description 连同任务一起删除，打卡历史保留
// @Tags 习惯
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "习惯ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "习惯不存在"
// @Router /api/habits/{id} [delete]
func (c *HabitController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	if err := c.HabitService.Delete(id, claims.UserID); err != nil {
		if errors.Is(err, util.ErrHabitNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}
