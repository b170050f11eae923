package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/silani/discipline/internal/app/models/dto"
	"github.com/silani/discipline/internal/middleware"
	"github.com/silani/discipline/internal/pkg/helpers"
)

// ActivityLogController serves the audit trail
type ActivityLogController struct {
	activityLogService ActivityLogService
}

// NewActivityLogController creates a new ActivityLogController
func NewActivityLogController(activityLogService ActivityLogService) *ActivityLogController {
	return &ActivityLogController{activityLogService: activityLogService}
}

// ListActivityLogs returns one page of audit entries, newest first
// @Summary List activity logs
// @Tags activity-logs
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches description or activity"
// @Param activity query string false "Activity kind" Enums(create, update, delete, fonnte)
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ActivityLogListResponse}
// @Router /activity-logs [get]
func (c *ActivityLogController) ListActivityLogs(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	result, err := c.activityLogService.List(ctx, ctx.Query("search"), ctx.Query("activity"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ActivityLogListResponse{
		Logs:       result.Items,
		Pagination: helpers.NewPaginationInfo(result.TotalItems, result.Page, result.Size),
	}))
}
