package controller

import (
	"family_habit_backend/internal/service"
	"family_habit_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// Daily godoc
// @Summary 当日成长报告
// @Description 总体完成率、各习惯完成情况、建议与成就
// @Tags 报告
// @Produce  json
// @Security BearerAuth
// @Param   date query string false "日期 YYYY-MM-DD，默认今天"
// @Success 200 {object} util.Response{data=service.DailyReport}
// @Router /api/report/daily [get]
func (c *ReportController) Daily(ctx *gin.Context) {
	date := ctx.Query("date")
	if date == "" {
		date = service.Today()
	} else if _, err := time.Parse(util.DateFormat, date); err != nil {
		util.BadRequest(ctx, "日期格式应为 YYYY-MM-DD")
		return
	}

	claims := util.GetUserFromContext(ctx)
	report, err := c.ReportService.Daily(claims.UserID, date)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
