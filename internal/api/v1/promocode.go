package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quotekit/quotekit/internal/domain/discountcode"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/logger"
	"github.com/quotekit/quotekit/internal/service"
	"github.com/quotekit/quotekit/internal/types"
)

type PromoCodeHandler struct {
	codeService service.PromoCodeService
	logger      *logger.Logger
}

func NewPromoCodeHandler(codeService service.PromoCodeService, logger *logger.Logger) *PromoCodeHandler {
	return &PromoCodeHandler{
		codeService: codeService,
		logger:      logger,
	}
}

// @Summary Create a discount code
// @Description Creates a new promotional discount code
// @Tags DiscountCodes
// @Accept json
// @Produce json
// @Param code body discountcode.DiscountCode true "Discount code"
// @Success 201 {object} discountcode.DiscountCode
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /codes [post]
func (h *PromoCodeHandler) CreateCode(c *gin.Context) {
	var code discountcode.DiscountCode
	if err := c.ShouldBindJSON(&code); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.codeService.CreateCode(c.Request.Context(), &code)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// @Summary Get a discount code by ID
// @Tags DiscountCodes
// @Produce json
// @Param id path string true "Code ID"
// @Success 200 {object} discountcode.DiscountCode
// @Failure 404 {object} ierr.ErrorResponse
// @Router /codes/{id} [get]
func (h *PromoCodeHandler) GetCode(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("code ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.codeService.GetCode(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary List discount codes
// @Tags DiscountCodes
// @Produce json
// @Success 200 {array} discountcode.DiscountCode
// @Router /codes [get]
func (h *PromoCodeHandler) ListCodes(c *gin.Context) {
	ctx := c.Request.Context()

	response, err := h.codeService.ListCodes(ctx, types.GetTenantID(ctx))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Update a discount code
// @Tags DiscountCodes
// @Accept json
// @Produce json
// @Param id path string true "Code ID"
// @Param code body discountcode.DiscountCode true "Discount code"
// @Success 200 {object} discountcode.DiscountCode
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /codes/{id} [put]
func (h *PromoCodeHandler) UpdateCode(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("code ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	var code discountcode.DiscountCode
	if err := c.ShouldBindJSON(&code); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	code.ID = id

	response, err := h.codeService.UpdateCode(c.Request.Context(), &code)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Delete a discount code
// @Tags DiscountCodes
// @Produce json
// @Param id path string true "Code ID"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /codes/{id} [delete]
func (h *PromoCodeHandler) DeleteCode(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("code ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.codeService.DeleteCode(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Record a code redemption
// @Description Records that a code was actually used on an accepted proposal
// @Tags DiscountCodes
// @Accept json
// @Produce json
// @Param id path string true "Code ID"
// @Param redemption body discountcode.Redemption true "Redemption"
// @Success 201 {object} discountcode.Redemption
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /codes/{id}/redemptions [post]
func (h *PromoCodeHandler) RecordRedemption(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("code ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	var redemption discountcode.Redemption
	if err := c.ShouldBindJSON(&redemption); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	redemption.CodeID = id

	if err := h.codeService.RecordUsage(c.Request.Context(), &redemption); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, redemption)
}
