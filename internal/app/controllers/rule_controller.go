package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/silani/discipline/internal/app/models"
	"github.com/silani/discipline/internal/app/models/dto"
	"github.com/silani/discipline/internal/app/services"
	"github.com/silani/discipline/internal/middleware"
	"github.com/silani/discipline/internal/pkg/helpers"
)

// RuleController handles rule catalog endpoints
type RuleController struct {
	ruleService RuleService
}

// NewRuleController creates a new RuleController
func NewRuleController(ruleService RuleService) *RuleController {
	return &RuleController{ruleService: ruleService}
}

func ruleInput(req dto.RuleRequest) services.RuleInput {
	return services.RuleInput{
		Description: req.Description,
		Category:    models.RuleCategory(req.Category),
		Points:      req.Points,
	}
}

// CreateRule adds a rule to the catalog
// @Summary Create a rule
// @Tags rules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RuleRequest true "Rule information"
// @Success 201 {object} dto.APIResponse{data=models.Rule}
// @Failure 400 {object} dto.APIResponse
// @Router /rules [post]
func (c *RuleController) CreateRule(ctx *gin.Context) {
	var req dto.RuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	rule, err := c.ruleService.Create(ctx, middleware.ActorID(ctx), ruleInput(req))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(rule))
}

// GetRule returns one rule
// @Summary Get a rule
// @Tags rules
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rule ID"
// @Success 200 {object} dto.APIResponse{data=models.Rule}
// @Failure 404 {object} dto.APIResponse
// @Router /rules/{id} [get]
func (c *RuleController) GetRule(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	rule, err := c.ruleService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rule))
}

// ListRules lists the rule catalog
// @Summary List rules
// @Tags rules
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Rule}
// @Router /rules [get]
func (c *RuleController) ListRules(ctx *gin.Context) {
	rules, err := c.ruleService.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rules))
}

// UpdateRule updates a rule. Existing totals are not recomputed.
// @Summary Update a rule
// @Tags rules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rule ID"
// @Param request body dto.RuleRequest true "Rule information"
// @Success 200 {object} dto.APIResponse{data=models.Rule}
// @Failure 404 {object} dto.APIResponse
// @Router /rules/{id} [put]
func (c *RuleController) UpdateRule(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.RuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	rule, err := c.ruleService.Update(ctx, middleware.ActorID(ctx), id, ruleInput(req))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rule))
}

// DeleteRule removes a rule that no violation references
// @Summary Delete a rule
// @Tags rules
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rule ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.APIResponse
// @Failure 409 {object} dto.APIResponse "Rule is in use"
// @Router /rules/{id} [delete]
func (c *RuleController) DeleteRule(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.ruleService.Delete(ctx, middleware.ActorID(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Rule deleted successfully"}))
}
