package controller

import (
	"errors"
	"family_habit_backend/internal/service"
	"family_habit_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type TaskController struct {
	TaskService *service.TaskService
}

func NewTaskController(taskService *service.TaskService) *TaskController {
	return &TaskController{TaskService: taskService}
}

// CompleteTaskRequest 打卡请求
type CompleteTaskRequest struct {
	TaskID  uint `json:"taskId" binding:"required"`
	HabitID uint `json:"habitId" binding:"required"`
}

// Today godoc
// @Summary 今日任务清单
// @Description 启用中习惯的全部任务，带完成标记
// @Tags 任务
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.TodayTask}
// @Router /api/tasks/today [get]
func (c *TaskController) Today(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	tasks, err := c.TaskService.TodayTasks(claims.UserID, service.Today())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"date": service.Today(), "tasks": tasks})
}

// Complete godoc
// @Summary 任务打卡
// @Description 同一任务每天只能完成一次，完成得100积分
// @Tags 任务
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CompleteTaskRequest true "任务信息"
// @Success 201 {object} util.Response{data=model.TaskCompletion}
// @Failure 400 {object} util.Response "今日已完成此任务"
// @Router /api/tasks/complete [post]
func (c *TaskController) Complete(ctx *gin.Context) {
	var req CompleteTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	completion, err := c.TaskService.Complete(claims.UserID, req.TaskID, req.HabitID, service.Today())
	if err != nil {
		if errors.Is(err, util.ErrTaskAlreadyCompleted) {
			util.Error(ctx, http.StatusBadRequest, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, completion)
}

// UncompleteTaskRequest 撤销打卡请求。habitId 随请求一起提交但撤销只按
// taskId 定位记录。
type UncompleteTaskRequest struct {
	TaskID  uint `json:"taskId" binding:"required"`
	HabitID uint `json:"habitId"`
}

// Uncomplete godoc
// @Summary 撤销今日打卡
// @Description 删除打卡记录并扣回积分
// @Tags 任务
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body UncompleteTaskRequest true "任务信息"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "今日未完成此任务"
// @Router /api/tasks/uncomplete [post]
func (c *TaskController) Uncomplete(ctx *gin.Context) {
	var req UncompleteTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if err := c.TaskService.Uncomplete(claims.UserID, req.TaskID, service.Today()); err != nil {
		if errors.Is(err, util.ErrTaskNotCompleted) {
			util.Error(ctx, http.StatusBadRequest, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"uncompleted": true})
}
