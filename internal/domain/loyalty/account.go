package loyalty

import (
	"time"

	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/types"
	"github.com/shopspring/decimal"
)

// Account is a customer's loyalty membership. CurrentPoints is always equal
// to the last transaction's BalanceAfter; the tier is always derivable from
// LifetimeEarned against the program's tier table.
type Account struct {
	ID                  string          `db:"id" json:"id"`
	CustomerID          string          `db:"customer_id" json:"customer_id"`
	ReferralCode        string          `db:"referral_code" json:"referral_code"`
	ReferredBy          string          `db:"referred_by" json:"referred_by,omitempty"`
	CurrentPoints       int             `db:"current_points" json:"current_points"`
	LifetimeEarned      int             `db:"lifetime_earned" json:"lifetime_earned"`
	TotalOrders         int             `db:"total_orders" json:"total_orders"`
	TotalSpent          decimal.Decimal `db:"total_spent" json:"total_spent"`
	FirstOrderAt        *time.Time      `db:"first_order_at" json:"first_order_at,omitempty"`
	LastOrderAt         *time.Time      `db:"last_order_at" json:"last_order_at,omitempty"`
	CurrentTier         string          `db:"current_tier" json:"current_tier"`
	TierDiscountPercent decimal.Decimal `db:"tier_discount_percent" json:"tier_discount_percent"`
	types.BaseModel
}

func (a *Account) Validate() error {
	if a.CustomerID == "" {
		return ierr.NewError("customer_id is required").
			WithHint("A loyalty account must belong to a customer").
			Mark(ierr.ErrValidation)
	}

	if a.CurrentPoints < 0 {
		return ierr.NewError("points balance cannot be negative").
			WithHint("A loyalty balance can never go below zero").
			WithReportableDetails(map[string]any{
				"customer_id":    a.CustomerID,
				"current_points": a.CurrentPoints,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}
