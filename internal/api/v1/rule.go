package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quotekit/quotekit/internal/domain/discountrule"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/logger"
	"github.com/quotekit/quotekit/internal/service"
	"github.com/quotekit/quotekit/internal/types"
)

type RuleHandler struct {
	ruleService service.RuleEvaluationService
	logger      *logger.Logger
}

func NewRuleHandler(ruleService service.RuleEvaluationService, logger *logger.Logger) *RuleHandler {
	return &RuleHandler{
		ruleService: ruleService,
		logger:      logger,
	}
}

// @Summary Create an automatic discount rule
// @Tags DiscountRules
// @Accept json
// @Produce json
// @Param rule body discountrule.AutoDiscountRule true "Discount rule"
// @Success 201 {object} discountrule.AutoDiscountRule
// @Failure 400 {object} ierr.ErrorResponse
// @Router /rules [post]
func (h *RuleHandler) CreateRule(c *gin.Context) {
	var rule discountrule.AutoDiscountRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.ruleService.CreateRule(c.Request.Context(), &rule)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// @Summary Get a discount rule by ID
// @Tags DiscountRules
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} discountrule.AutoDiscountRule
// @Failure 404 {object} ierr.ErrorResponse
// @Router /rules/{id} [get]
func (h *RuleHandler) GetRule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("rule ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.ruleService.GetRule(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary List discount rules
// @Tags DiscountRules
// @Produce json
// @Success 200 {array} discountrule.AutoDiscountRule
// @Router /rules [get]
func (h *RuleHandler) ListRules(c *gin.Context) {
	ctx := c.Request.Context()

	response, err := h.ruleService.ListRules(ctx, types.GetTenantID(ctx))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Update a discount rule
// @Tags DiscountRules
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param rule body discountrule.AutoDiscountRule true "Discount rule"
// @Success 200 {object} discountrule.AutoDiscountRule
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /rules/{id} [put]
func (h *RuleHandler) UpdateRule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("rule ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	var rule discountrule.AutoDiscountRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	rule.ID = id

	response, err := h.ruleService.UpdateRule(c.Request.Context(), &rule)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Delete a discount rule
// @Tags DiscountRules
// @Produce json
// @Param id path string true "Rule ID"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /rules/{id} [delete]
func (h *RuleHandler) DeleteRule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("rule ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.ruleService.DeleteRule(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
