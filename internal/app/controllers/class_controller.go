package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/silani/discipline/internal/app/models/dto"
	"github.com/silani/discipline/internal/app/services"
	"github.com/silani/discipline/internal/middleware"
	"github.com/silani/discipline/internal/pkg/helpers"
)

// ClassController handles class endpoints
type ClassController struct {
	classService ClassService
}

// NewClassController creates a new ClassController
func NewClassController(classService ClassService) *ClassController {
	return &ClassController{classService: classService}
}

func classInput(req dto.ClassRequest) services.ClassInput {
	return services.ClassInput{
		Name:            req.Name,
		HomeroomUserID:  req.HomeroomUserID,
		StudentCapacity: req.StudentCapacity,
	}
}

// CreateClass creates a class
// @Summary Create a class
// @Tags classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ClassRequest true "Class information"
// @Success 201 {object} dto.APIResponse{data=models.Class}
// @Failure 400 {object} dto.APIResponse
// @Router /classes [post]
func (c *ClassController) CreateClass(ctx *gin.Context) {
	var req dto.ClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	class, err := c.classService.Create(ctx, middleware.ActorID(ctx), classInput(req))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(class))
}

// GetClass returns one class
// @Summary Get a class
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Success 200 {object} dto.APIResponse{data=models.Class}
// @Failure 404 {object} dto.APIResponse
// @Router /classes/{id} [get]
func (c *ClassController) GetClass(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	class, err := c.classService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(class))
}

// ListClasses lists all classes
// @Summary List classes
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Class}
// @Router /classes [get]
func (c *ClassController) ListClasses(ctx *gin.Context) {
	classes, err := c.classService.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(classes))
}

// UpdateClass updates a class
// @Summary Update a class
// @Tags classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Param request body dto.ClassRequest true "Class information"
// @Success 200 {object} dto.APIResponse{data=models.Class}
// @Failure 404 {object} dto.APIResponse
// @Router /classes/{id} [put]
func (c *ClassController) UpdateClass(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.ClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	class, err := c.classService.Update(ctx, middleware.ActorID(ctx), id, classInput(req))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(class))
}

// DeleteClass deletes a class. Its students become unassigned.
// @Summary Delete a class
// @Tags classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.APIResponse
// @Router /classes/{id} [delete]
func (c *ClassController) DeleteClass(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.classService.Delete(ctx, middleware.ActorID(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Class deleted successfully"}))
}
