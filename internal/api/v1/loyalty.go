package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quotekit/quotekit/internal/api/dto"
	"github.com/quotekit/quotekit/internal/domain/loyalty"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/logger"
	"github.com/quotekit/quotekit/internal/service"
	"github.com/quotekit/quotekit/internal/types"
)

type LoyaltyHandler struct {
	loyaltyService service.LoyaltyService
	logger         *logger.Logger
}

func NewLoyaltyHandler(loyaltyService service.LoyaltyService, logger *logger.Logger) *LoyaltyHandler {
	return &LoyaltyHandler{
		loyaltyService: loyaltyService,
		logger:         logger,
	}
}

// @Summary Configure the loyalty program
// @Description Creates or replaces the organization's loyalty program
// @Tags Loyalty
// @Accept json
// @Produce json
// @Param program body loyalty.Program true "Loyalty program"
// @Success 200 {object} loyalty.Program
// @Failure 400 {object} ierr.ErrorResponse
// @Router /loyalty/program [put]
func (h *LoyaltyHandler) ConfigureProgram(c *gin.Context) {
	var program loyalty.Program
	if err := c.ShouldBindJSON(&program); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.loyaltyService.ConfigureProgram(c.Request.Context(), &program)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Get the loyalty program
// @Tags Loyalty
// @Produce json
// @Success 200 {object} loyalty.Program
// @Failure 404 {object} ierr.ErrorResponse
// @Router /loyalty/program [get]
func (h *LoyaltyHandler) GetProgram(c *gin.Context) {
	ctx := c.Request.Context()

	response, err := h.loyaltyService.GetProgram(ctx, types.GetTenantID(ctx))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Enroll a customer
// @Tags Loyalty
// @Accept json
// @Produce json
// @Param request body dto.EnrollRequest true "Enrollment request"
// @Success 201 {object} dto.LoyaltyAccountResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /loyalty/enroll [post]
func (h *LoyaltyHandler) Enroll(c *gin.Context) {
	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	ctx := c.Request.Context()
	response, err := h.loyaltyService.Enroll(ctx, types.GetTenantID(ctx), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// @Summary Credit points for a completed order
// @Tags Loyalty
// @Accept json
// @Produce json
// @Param request body dto.EarnPointsRequest true "Earn request"
// @Success 200 {object} dto.LoyaltyAccountResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /loyalty/earn [post]
func (h *LoyaltyHandler) EarnPoints(c *gin.Context) {
	var req dto.EarnPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	ctx := c.Request.Context()
	response, err := h.loyaltyService.EarnPoints(ctx, types.GetTenantID(ctx), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Redeem points against a proposal
// @Tags Loyalty
// @Accept json
// @Produce json
// @Param request body dto.RedeemPointsRequest true "Redeem request"
// @Success 200 {object} dto.RedeemPointsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /loyalty/redeem [post]
func (h *LoyaltyHandler) RedeemPoints(c *gin.Context) {
	var req dto.RedeemPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	ctx := c.Request.Context()
	response, err := h.loyaltyService.RedeemPoints(ctx, types.GetTenantID(ctx), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Get a customer's loyalty account
// @Tags Loyalty
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Success 200 {object} dto.LoyaltyAccountResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /loyalty/accounts/{customer_id} [get]
func (h *LoyaltyHandler) GetAccount(c *gin.Context) {
	customerID := c.Param("customer_id")
	if customerID == "" {
		c.Error(ierr.NewError("customer ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	ctx := c.Request.Context()
	response, err := h.loyaltyService.GetAccount(ctx, types.GetTenantID(ctx), customerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary List a customer's point transactions
// @Tags Loyalty
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Param limit query int false "Maximum transactions to return"
// @Success 200 {array} loyalty.Transaction
// @Router /loyalty/accounts/{customer_id}/transactions [get]
func (h *LoyaltyHandler) ListTransactions(c *gin.Context) {
	customerID := c.Param("customer_id")
	if customerID == "" {
		c.Error(ierr.NewError("customer ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.Error(ierr.NewError("invalid limit").
				WithHint("limit must be a positive integer").
				Mark(ierr.ErrValidation))
			return
		}
		limit = parsed
	}

	ctx := c.Request.Context()
	account, err := h.loyaltyService.GetAccount(ctx, types.GetTenantID(ctx), customerID)
	if err != nil {
		c.Error(err)
		return
	}

	response, err := h.loyaltyService.ListTransactions(ctx, account.ID, limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}
