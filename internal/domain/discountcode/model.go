package discountcode

import (
	"strings"
	"time"

	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/types"
	"github.com/shopspring/decimal"
)

// DiscountCode represents an enterable promo code. Codes are unique per
// tenant, case-insensitive. TimesUsed and TotalDiscountGiven only ever grow
// and are updated through the repository's atomic increment, never by
// mutating a loaded model.
type DiscountCode struct {
	ID                 string             `db:"id" json:"id"`
	Code               string             `db:"code" json:"code"`
	Description        string             `db:"description" json:"description"`
	Type               types.DiscountType `db:"type" json:"type"`
	Value              decimal.Decimal    `db:"value" json:"value"`
	MaxDiscountAmount  *decimal.Decimal   `db:"max_discount_amount" json:"max_discount_amount,omitempty"`
	MinOrderAmount     *decimal.Decimal   `db:"min_order_amount" json:"min_order_amount,omitempty"`
	StartsAt           *time.Time         `db:"starts_at" json:"starts_at,omitempty"`
	ExpiresAt          *time.Time         `db:"expires_at" json:"expires_at,omitempty"`
	MaxUsesTotal       *int               `db:"max_uses_total" json:"max_uses_total,omitempty"`
	MaxUsesPerCustomer *int               `db:"max_uses_per_customer" json:"max_uses_per_customer,omitempty"`
	TimesUsed          int                `db:"times_used" json:"times_used"`
	TotalDiscountGiven decimal.Decimal    `db:"total_discount_given" json:"total_discount_given"`
	IsActive           bool               `db:"is_active" json:"is_active"`
	Metadata           types.Metadata     `db:"metadata" json:"metadata,omitempty"`
	types.BaseModel
}

// NormalizeCode canonicalizes an entered code for case-insensitive lookup
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsStarted reports whether the code's validity window has begun
func (c *DiscountCode) IsStarted(now time.Time) bool {
	return c.StartsAt == nil || !now.Before(*c.StartsAt)
}

// IsExpired reports whether the code's validity window has ended
func (c *DiscountCode) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// IsExhausted reports whether the total-use cap has been reached
func (c *DiscountCode) IsExhausted() bool {
	return c.MaxUsesTotal != nil && c.TimesUsed >= *c.MaxUsesTotal
}

func (c *DiscountCode) Validate() error {
	if c.Code == "" {
		return ierr.NewError("code is required").
			WithHint("Please provide a discount code").
			Mark(ierr.ErrValidation)
	}

	if !c.Type.Validate() {
		return ierr.NewError("invalid discount type").
			WithHint("Discount type must be percent or fixed").
			WithReportableDetails(map[string]any{
				"type": c.Type,
			}).
			Mark(ierr.ErrValidation)
	}

	if c.Value.IsNegative() || c.Value.IsZero() {
		return ierr.NewError("discount value must be positive").
			WithHint("Discount value must be greater than zero").
			WithReportableDetails(map[string]any{
				"value": c.Value,
			}).
			Mark(ierr.ErrValidation)
	}

	if c.Type == types.DiscountTypePercent && c.Value.GreaterThan(decimal.NewFromInt(100)) {
		return ierr.NewError("percent discount cannot exceed 100").
			WithHint("Percent discounts must be between 0 and 100").
			WithReportableDetails(map[string]any{
				"value": c.Value,
			}).
			Mark(ierr.ErrValidation)
	}

	if c.StartsAt != nil && c.ExpiresAt != nil && c.ExpiresAt.Before(*c.StartsAt) {
		return ierr.NewError("expiry precedes start").
			WithHint("The code's expiry must be after its start date").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// Redemption is an append-only record of one committed application of a code.
// Per-customer usage caps are counted from these rows, not from a counter on
// the code.
type Redemption struct {
	ID             string          `db:"id" json:"id"`
	CodeID         string          `db:"code_id" json:"code_id"`
	CustomerID     string          `db:"customer_id" json:"customer_id"`
	CustomerEmail  string          `db:"customer_email" json:"customer_email,omitempty"`
	ProposalID     string          `db:"proposal_id" json:"proposal_id,omitempty"`
	OrderAmount    decimal.Decimal `db:"order_amount" json:"order_amount"`
	DiscountAmount decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	RedeemedAt     time.Time       `db:"redeemed_at" json:"redeemed_at"`
	types.BaseModel
}
