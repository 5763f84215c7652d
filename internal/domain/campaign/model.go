package campaign

import (
	"time"

	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/types"
	"github.com/shopspring/decimal"
)

// SeasonalCampaign is a time-boxed marketing discount
type SeasonalCampaign struct {
	ID             string             `db:"id" json:"id"`
	Name           string             `db:"name" json:"name"`
	Description    string             `db:"description" json:"description"`
	DiscountType   types.DiscountType `db:"discount_type" json:"discount_type"`
	DiscountValue  decimal.Decimal    `db:"discount_value" json:"discount_value"`
	MinOrderAmount *decimal.Decimal   `db:"min_order_amount" json:"min_order_amount,omitempty"`
	// PromoCode optionally ties the campaign to an enterable code
	PromoCode *string   `db:"promo_code" json:"promo_code,omitempty"`
	StartsAt  time.Time `db:"starts_at" json:"starts_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	Stackable bool      `db:"stackable" json:"stackable"`
	types.BaseModel
}

// IsRunning reports whether the campaign is active and now falls within its
// window
func (c *SeasonalCampaign) IsRunning(now time.Time) bool {
	return c.IsActive && !now.Before(c.StartsAt) && !now.After(c.ExpiresAt)
}

func (c *SeasonalCampaign) Validate() error {
	if c.Name == "" {
		return ierr.NewError("campaign name is required").
			WithHint("Please provide a campaign name").
			Mark(ierr.ErrValidation)
	}

	if !c.DiscountType.Validate() {
		return ierr.NewError("invalid discount type").
			WithHint("Discount type must be percent or fixed").
			Mark(ierr.ErrValidation)
	}

	if c.DiscountValue.IsNegative() || c.DiscountValue.IsZero() {
		return ierr.NewError("discount value must be positive").
			WithHint("Discount value must be greater than zero").
			Mark(ierr.ErrValidation)
	}

	if c.DiscountType == types.DiscountTypePercent && c.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return ierr.NewError("percent discount cannot exceed 100").
			WithHint("Percent discounts must be between 0 and 100").
			WithReportableDetails(map[string]any{
				"discount_value": c.DiscountValue,
			}).
			Mark(ierr.ErrValidation)
	}

	if !c.ExpiresAt.After(c.StartsAt) {
		return ierr.NewError("campaign window is empty").
			WithHint("The campaign must expire after it starts").
			WithReportableDetails(map[string]any{
				"starts_at":  c.StartsAt,
				"expires_at": c.ExpiresAt,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// Countdown is the remaining time of a running campaign broken into display
// units
type Countdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// CountdownUntil computes the countdown from now to the campaign's expiry
func (c *SeasonalCampaign) CountdownUntil(now time.Time) Countdown {
	remaining := c.ExpiresAt.Sub(now)
	if remaining < 0 {
		remaining = 0
	}

	days := int(remaining / (24 * time.Hour))
	remaining -= time.Duration(days) * 24 * time.Hour
	hours := int(remaining / time.Hour)
	remaining -= time.Duration(hours) * time.Hour
	minutes := int(remaining / time.Minute)

	return Countdown{Days: days, Hours: hours, Minutes: minutes}
}
