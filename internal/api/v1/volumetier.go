package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quotekit/quotekit/internal/domain/volumetier"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/logger"
	"github.com/quotekit/quotekit/internal/service"
	"github.com/quotekit/quotekit/internal/types"
)

type VolumeTierHandler struct {
	tierService service.VolumeTierService
	logger      *logger.Logger
}

func NewVolumeTierHandler(tierService service.VolumeTierService, logger *logger.Logger) *VolumeTierHandler {
	return &VolumeTierHandler{
		tierService: tierService,
		logger:      logger,
	}
}

// @Summary Create a volume tier set
// @Tags VolumeTiers
// @Accept json
// @Produce json
// @Param set body volumetier.TierSet true "Tier set"
// @Success 201 {object} volumetier.TierSet
// @Failure 400 {object} ierr.ErrorResponse
// @Router /tiers [post]
func (h *VolumeTierHandler) CreateTierSet(c *gin.Context) {
	var set volumetier.TierSet
	if err := c.ShouldBindJSON(&set); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.tierService.CreateTierSet(c.Request.Context(), &set)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// @Summary Get a tier set by ID
// @Tags VolumeTiers
// @Produce json
// @Param id path string true "Tier set ID"
// @Success 200 {object} volumetier.TierSet
// @Failure 404 {object} ierr.ErrorResponse
// @Router /tiers/{id} [get]
func (h *VolumeTierHandler) GetTierSet(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("tier set ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.tierService.GetTierSet(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary List tier sets
// @Tags VolumeTiers
// @Produce json
// @Success 200 {array} volumetier.TierSet
// @Router /tiers [get]
func (h *VolumeTierHandler) ListTierSets(c *gin.Context) {
	ctx := c.Request.Context()

	response, err := h.tierService.ListTierSets(ctx, types.GetTenantID(ctx))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Update a tier set
// @Tags VolumeTiers
// @Accept json
// @Produce json
// @Param id path string true "Tier set ID"
// @Param set body volumetier.TierSet true "Tier set"
// @Success 200 {object} volumetier.TierSet
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /tiers/{id} [put]
func (h *VolumeTierHandler) UpdateTierSet(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("tier set ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	var set volumetier.TierSet
	if err := c.ShouldBindJSON(&set); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	set.ID = id

	response, err := h.tierService.UpdateTierSet(c.Request.Context(), &set)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Delete a tier set
// @Tags VolumeTiers
// @Produce json
// @Param id path string true "Tier set ID"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /tiers/{id} [delete]
func (h *VolumeTierHandler) DeleteTierSet(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("tier set ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.tierService.DeleteTierSet(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
