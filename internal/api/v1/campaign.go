package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quotekit/quotekit/internal/domain/campaign"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/logger"
	"github.com/quotekit/quotekit/internal/service"
	"github.com/quotekit/quotekit/internal/types"
)

type CampaignHandler struct {
	campaignService service.CampaignService
	logger          *logger.Logger
}

func NewCampaignHandler(campaignService service.CampaignService, logger *logger.Logger) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
		logger:          logger,
	}
}

// @Summary Create a seasonal campaign
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param campaign body campaign.SeasonalCampaign true "Campaign"
// @Success 201 {object} campaign.SeasonalCampaign
// @Failure 400 {object} ierr.ErrorResponse
// @Router /campaigns [post]
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var sc campaign.SeasonalCampaign
	if err := c.ShouldBindJSON(&sc); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.campaignService.CreateCampaign(c.Request.Context(), &sc)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// @Summary Get a campaign by ID
// @Tags Campaigns
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} campaign.SeasonalCampaign
// @Failure 404 {object} ierr.ErrorResponse
// @Router /campaigns/{id} [get]
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("campaign ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.campaignService.GetCampaign(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary List campaigns
// @Tags Campaigns
// @Produce json
// @Success 200 {array} campaign.SeasonalCampaign
// @Router /campaigns [get]
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	ctx := c.Request.Context()

	response, err := h.campaignService.ListCampaigns(ctx, types.GetTenantID(ctx))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary List currently running campaigns
// @Description Returns active in-window campaigns with expiry countdowns for display
// @Tags Campaigns
// @Produce json
// @Success 200 {array} service.ActiveCampaign
// @Router /campaigns/active [get]
func (h *CampaignHandler) GetActive(c *gin.Context) {
	ctx := c.Request.Context()

	response, err := h.campaignService.GetActive(ctx, types.GetTenantID(ctx))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Update a campaign
// @Tags Campaigns
// @Accept json
// @Produce json
// @Param id path string true "Campaign ID"
// @Param campaign body campaign.SeasonalCampaign true "Campaign"
// @Success 200 {object} campaign.SeasonalCampaign
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /campaigns/{id} [put]
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("campaign ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	var sc campaign.SeasonalCampaign
	if err := c.ShouldBindJSON(&sc); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	sc.ID = id

	response, err := h.campaignService.UpdateCampaign(c.Request.Context(), &sc)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Delete a campaign
// @Tags Campaigns
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /campaigns/{id} [delete]
func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("campaign ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.campaignService.DeleteCampaign(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
