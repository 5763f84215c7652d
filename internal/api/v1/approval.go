package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quotekit/quotekit/internal/api/dto"
	"github.com/quotekit/quotekit/internal/domain/approval"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/logger"
	"github.com/quotekit/quotekit/internal/service"
	"github.com/quotekit/quotekit/internal/types"
)

type ApprovalHandler struct {
	approvalService service.ApprovalService
	logger          *logger.Logger
}

func NewApprovalHandler(approvalService service.ApprovalService, logger *logger.Logger) *ApprovalHandler {
	return &ApprovalHandler{
		approvalService: approvalService,
		logger:          logger,
	}
}

// @Summary Configure approval settings
// @Description Creates or replaces the organization's discount approval thresholds
// @Tags Approvals
// @Accept json
// @Produce json
// @Param settings body approval.Settings true "Approval settings"
// @Success 200 {object} approval.Settings
// @Failure 400 {object} ierr.ErrorResponse
// @Router /approvals/settings [put]
func (h *ApprovalHandler) ConfigureSettings(c *gin.Context) {
	var settings approval.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	ctx := c.Request.Context()
	if settings.TenantID == "" {
		settings.TenantID = types.GetTenantID(ctx)
	}

	response, err := h.approvalService.ConfigureSettings(ctx, &settings)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Get approval settings
// @Tags Approvals
// @Produce json
// @Success 200 {object} approval.Settings
// @Router /approvals/settings [get]
func (h *ApprovalHandler) GetSettings(c *gin.Context) {
	ctx := c.Request.Context()

	response, err := h.approvalService.GetSettings(ctx, types.GetTenantID(ctx))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Create an approval request
// @Description Submits an out-of-limit discount for review
// @Tags Approvals
// @Accept json
// @Produce json
// @Param request body dto.CreateApprovalRequest true "Approval request"
// @Success 201 {object} dto.ApprovalRequestResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /approvals [post]
func (h *ApprovalHandler) CreateRequest(c *gin.Context) {
	var req dto.CreateApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	ctx := c.Request.Context()
	response, err := h.approvalService.CreateRequest(ctx, types.GetTenantID(ctx), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// @Summary List pending approval requests
// @Tags Approvals
// @Produce json
// @Success 200 {array} dto.ApprovalRequestResponse
// @Router /approvals/pending [get]
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	ctx := c.Request.Context()

	response, err := h.approvalService.ListPending(ctx, types.GetTenantID(ctx))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Get an approval request by ID
// @Tags Approvals
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.ApprovalRequestResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /approvals/{id} [get]
func (h *ApprovalHandler) GetRequest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("request ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.approvalService.GetRequest(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Review an approval request
// @Description Approves, rejects or counters a pending request
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param review body dto.ReviewApprovalRequest true "Review"
// @Success 200 {object} dto.ApprovalRequestResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /approvals/{id}/review [post]
func (h *ApprovalHandler) ReviewRequest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("request ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.ReviewApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.approvalService.ReviewRequest(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Cancel an approval request
// @Tags Approvals
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.ApprovalRequestResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /approvals/{id}/cancel [post]
func (h *ApprovalHandler) CancelRequest(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("request ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.approvalService.CancelRequest(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Sweep pending requests past their timeout windows
// @Description Escalates and expires pending requests; intended to be called by a scheduler
// @Tags Approvals
// @Produce json
// @Success 200 {object} map[string]int
// @Router /approvals/timeouts/process [post]
func (h *ApprovalHandler) ProcessTimeouts(c *gin.Context) {
	ctx := c.Request.Context()

	expired, escalated, err := h.approvalService.ProcessTimeouts(ctx, types.GetTenantID(ctx))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"expired":   expired,
		"escalated": escalated,
	})
}
