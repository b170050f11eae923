package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/silani/discipline/internal/app/models"
	"github.com/silani/discipline/internal/app/models/dto"
	"github.com/silani/discipline/internal/app/services"
	"github.com/silani/discipline/internal/middleware"
	"github.com/silani/discipline/internal/pkg/apperrors"
	"github.com/silani/discipline/internal/pkg/helpers"
	"github.com/silani/discipline/internal/pkg/logger"
	"github.com/silani/discipline/internal/pkg/report"
)

// ViolationController handles violation endpoints
type ViolationController struct {
	violationService ViolationService
	now              func() time.Time
}

// NewViolationController creates a new ViolationController
func NewViolationController(violationService ViolationService) *ViolationController {
	return &ViolationController{violationService: violationService, now: time.Now}
}

// violationInput maps a request onto the workflow input
func violationInput(req dto.ViolationRequest) services.ViolationInput {
	return services.ViolationInput{
		StudentID:   req.StudentID,
		OfficerID:   req.OfficerID,
		RuleID:      req.RuleID,
		Status:      models.ViolationStatus(req.Status),
		Description: req.Description,
		OccurredAt:  req.OccurredAt,
	}
}

func statusQuery(ctx *gin.Context) *models.ViolationStatus {
	raw := helpers.OptionalStringQuery(ctx, "status")
	if raw == nil {
		return nil
	}
	status := models.ViolationStatus(*raw)
	return &status
}

// CreateViolation records a violation, recalculates the student's points and
// notifies the guardian
// @Summary Record a violation
// @Tags violations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ViolationRequest true "Violation information"
// @Success 201 {object} dto.APIResponse{data=dto.CreateViolationResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Student or rule not found"
// @Router /violations [post]
func (c *ViolationController) CreateViolation(ctx *gin.Context) {
	var req dto.ViolationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	input := violationInput(req)
	actorID := middleware.ActorID(ctx)
	// New records default the reporting officer to the authenticated user
	if input.OfficerID == 0 && actorID != nil {
		input.OfficerID = *actorID
	}

	result, err := c.violationService.Create(ctx, actorID, input)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.CreateViolationResponse{
		Violation: result.Violation,
		Notification: dto.NotificationResponse{
			Target:  result.Notification.Target,
			Sent:    result.Notification.Sent,
			Skipped: result.Notification.Skipped,
			Reason:  result.Notification.Reason,
			At:      result.Notification.At,
		},
	}
	if result.Aggregate.Found {
		resp.TotalPoints = result.Aggregate.Total
		resp.Status = result.Aggregate.Status
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// GetViolation returns one violation record
// @Summary Get a violation
// @Tags violations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Violation ID"
// @Success 200 {object} dto.APIResponse{data=models.Violation}
// @Failure 404 {object} dto.APIResponse
// @Router /violations/{id} [get]
func (c *ViolationController) GetViolation(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	violation, err := c.violationService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(violation))
}

// ListViolations lists violations, optionally of one student or status
// @Summary List violations
// @Tags violations
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Student ID"
// @Param status query string false "Processing status" Enums(ditunda, diproses, selesai)
// @Success 200 {object} dto.APIResponse{data=[]models.ViolationDetail}
// @Router /violations [get]
func (c *ViolationController) ListViolations(ctx *gin.Context) {
	studentID, err := helpers.OptionalInt64Query(ctx, "studentId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items, err := c.violationService.List(ctx, studentID, statusQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(items))
}

// SearchViolations matches violations by student name or NISN
// @Summary Search violations
// @Tags violations
// @Produce json
// @Security BearerAuth
// @Param term query string true "Student name or NISN"
// @Success 200 {object} dto.APIResponse{data=[]models.ViolationDetail}
// @Failure 400 {object} dto.APIResponse
// @Router /violations/search [get]
func (c *ViolationController) SearchViolations(ctx *gin.Context) {
	term := strings.TrimSpace(ctx.Query("term"))
	if term == "" {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("term is required"))
		return
	}

	items, err := c.violationService.Search(ctx, term)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(items))
}

// ViolationReport lists violations of a year and month
// @Summary Monthly violation report
// @Tags violations
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year"
// @Param month query int false "Month (1-12)"
// @Param status query string false "Processing status" Enums(ditunda, diproses, selesai)
// @Success 200 {object} dto.APIResponse{data=[]models.ViolationDetail}
// @Failure 400 {object} dto.APIResponse
// @Router /violations/report [get]
func (c *ViolationController) ViolationReport(ctx *gin.Context) {
	year, err := helpers.OptionalIntQuery(ctx, "year")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	month, err := helpers.OptionalIntQuery(ctx, "month")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items, err := c.violationService.Report(ctx, year, month, statusQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(items))
}

// ExportViolationReport downloads the monthly report as a spreadsheet
// @Summary Export the violation report
// @Tags violations
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param year query int true "Year"
// @Param month query int false "Month (1-12)"
// @Param status query string false "Processing status" Enums(ditunda, diproses, selesai)
// @Success 200 {file} file
// @Failure 400 {object} dto.APIResponse
// @Router /violations/report/export [get]
func (c *ViolationController) ExportViolationReport(ctx *gin.Context) {
	year, err := helpers.OptionalIntQuery(ctx, "year")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if year == nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("year is required"))
		return
	}
	month, err := helpers.OptionalIntQuery(ctx, "month")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items, err := c.violationService.Report(ctx, year, month, statusQuery(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	title := fmt.Sprintf("LAPORAN PELANGGARAN SISWA %d", *year)
	fileName := fmt.Sprintf("laporan_pelanggaran_%d.xlsx", *year)
	if month != nil {
		title = fmt.Sprintf("LAPORAN PELANGGARAN SISWA %02d/%d", *month, *year)
		fileName = fmt.Sprintf("laporan_pelanggaran_%d_%02d.xlsx", *year, *month)
	}

	ctx.Header("Content-Type", report.ContentTypeXLSX)
	ctx.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := report.WriteViolationReport(ctx.Writer, title, items); err != nil {
		// Headers are already sent
		logger.Error().Err(err).Int("year", *year).Msg("Failed to write violation report")
	}
}

// ViolationSummary returns dashboard counts
// @Summary Violation summary
// @Tags violations
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year for the monthly breakdown, defaults to the current year"
// @Success 200 {object} dto.APIResponse{data=models.ViolationSummary}
// @Router /violations/summary [get]
func (c *ViolationController) ViolationSummary(ctx *gin.Context) {
	year, err := helpers.OptionalIntQuery(ctx, "year")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if year == nil {
		current := c.now().Year()
		year = &current
	}

	summary, err := c.violationService.Summary(ctx, *year)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(summary))
}

// UpdateViolation updates a violation record and recalculates affected students
// @Summary Update a violation
// @Tags violations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Violation ID"
// @Param request body dto.ViolationRequest true "Violation information"
// @Success 200 {object} dto.APIResponse{data=models.Violation}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /violations/{id} [put]
func (c *ViolationController) UpdateViolation(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.ViolationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	violation, err := c.violationService.Update(ctx, middleware.ActorID(ctx), id, violationInput(req))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(violation))
}

// DeleteViolation removes a violation record and recalculates the student
// @Summary Delete a violation
// @Tags violations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Violation ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.APIResponse
// @Router /violations/{id} [delete]
func (c *ViolationController) DeleteViolation(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.violationService.Delete(ctx, middleware.ActorID(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Violation deleted successfully"}))
}
