package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quotekit/quotekit/internal/api/dto"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/logger"
	"github.com/quotekit/quotekit/internal/service"
	"github.com/quotekit/quotekit/internal/types"
)

type DiscountHandler struct {
	orchestrator service.DiscountOrchestrator
	codeService  service.PromoCodeService
	logger       *logger.Logger
}

func NewDiscountHandler(orchestrator service.DiscountOrchestrator, codeService service.PromoCodeService, logger *logger.Logger) *DiscountHandler {
	return &DiscountHandler{
		orchestrator: orchestrator,
		codeService:  codeService,
		logger:       logger,
	}
}

// @Summary Calculate discounts for a proposal
// @Description Runs the full discount calculation over the supplied proposal context
// @Tags Discounts
// @Accept json
// @Produce json
// @Param context body dto.DiscountContext true "Discount context"
// @Success 200 {object} dto.DiscountCalculationResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /discounts/calculate [post]
func (h *DiscountHandler) Calculate(c *gin.Context) {
	var dctx dto.DiscountContext
	if err := c.ShouldBindJSON(&dctx); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	ctx := c.Request.Context()
	if dctx.TenantID == "" {
		dctx.TenantID = types.GetTenantID(ctx)
	}
	if dctx.UserRole == "" {
		dctx.UserRole = types.GetUserRole(ctx)
	}

	response, err := h.orchestrator.Calculate(ctx, &dctx)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Validate a discount code
// @Description Validates and prices a single entered code against an order amount
// @Tags Discounts
// @Accept json
// @Produce json
// @Param request body dto.ValidateCodeRequest true "Code validation request"
// @Success 200 {object} dto.CodeValidationResult
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /discounts/codes/validate [post]
func (h *DiscountHandler) ValidateCode(c *gin.Context) {
	var req dto.ValidateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	ctx := c.Request.Context()
	if req.TenantID == "" {
		req.TenantID = types.GetTenantID(ctx)
	}

	result, err := h.codeService.Validate(ctx, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
