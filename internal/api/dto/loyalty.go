package dto

import (
	"time"

	"github.com/quotekit/quotekit/internal/domain/loyalty"
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/shopspring/decimal"
)

// EnrollRequest enrolls a customer into the loyalty program
type EnrollRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	// ReferredBy is the referral code of the referring customer, if any
	ReferredBy string `json:"referred_by,omitempty"`
}

func (r *EnrollRequest) Validate() error {
	if r.CustomerID == "" {
		return ierr.NewError("customer_id is required").
			WithHint("Please provide the customer to enroll").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// EarnPointsRequest credits points for a completed order
type EarnPointsRequest struct {
	CustomerID  string          `json:"customer_id" validate:"required"`
	OrderAmount decimal.Decimal `json:"order_amount" validate:"required"`
	BonusPoints int             `json:"bonus_points,omitempty"`
	ProposalID  string          `json:"proposal_id,omitempty"`
}

func (r *EarnPointsRequest) Validate() error {
	if r.CustomerID == "" {
		return ierr.NewError("customer_id is required").
			WithHint("Please provide the customer earning points").
			Mark(ierr.ErrValidation)
	}
	if r.OrderAmount.IsNegative() {
		return ierr.NewError("order amount cannot be negative").
			WithHint("Points are earned on a zero or positive order amount").
			Mark(ierr.ErrValidation)
	}
	if r.BonusPoints < 0 {
		return ierr.NewError("bonus points cannot be negative").
			WithHint("Bonus points must be zero or positive").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// RedeemPointsRequest converts points into a direct discount amount
type RedeemPointsRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	Points     int    `json:"points" validate:"required,gt=0"`
	ProposalID string `json:"proposal_id,omitempty"`
}

func (r *RedeemPointsRequest) Validate() error {
	if r.CustomerID == "" {
		return ierr.NewError("customer_id is required").
			WithHint("Please provide the customer redeeming points").
			Mark(ierr.ErrValidation)
	}
	if r.Points <= 0 {
		return ierr.NewError("points must be positive").
			WithHint("Redeem at least one point").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// RedeemPointsResponse reports the monetary value released by a redemption
type RedeemPointsResponse struct {
	PointsRedeemed int             `json:"points_redeemed"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	BalanceAfter   int             `json:"balance_after"`
}

// LoyaltyAccountResponse is the wire representation of an account
type LoyaltyAccountResponse struct {
	ID                  string          `json:"id"`
	CustomerID          string          `json:"customer_id"`
	ReferralCode        string          `json:"referral_code"`
	CurrentPoints       int             `json:"current_points"`
	LifetimeEarned      int             `json:"lifetime_earned"`
	TotalOrders         int             `json:"total_orders"`
	TotalSpent          decimal.Decimal `json:"total_spent"`
	CurrentTier         string          `json:"current_tier"`
	TierDiscountPercent decimal.Decimal `json:"tier_discount_percent"`
	FirstOrderAt        *time.Time      `json:"first_order_at,omitempty"`
	LastOrderAt         *time.Time      `json:"last_order_at,omitempty"`
}

// NewLoyaltyAccountResponse converts a domain account to its wire form
func NewLoyaltyAccountResponse(a *loyalty.Account) *LoyaltyAccountResponse {
	if a == nil {
		return nil
	}
	return &LoyaltyAccountResponse{
		ID:                  a.ID,
		CustomerID:          a.CustomerID,
		ReferralCode:        a.ReferralCode,
		CurrentPoints:       a.CurrentPoints,
		LifetimeEarned:      a.LifetimeEarned,
		TotalOrders:         a.TotalOrders,
		TotalSpent:          a.TotalSpent,
		CurrentTier:         a.CurrentTier,
		TierDiscountPercent: a.TierDiscountPercent,
		FirstOrderAt:        a.FirstOrderAt,
		LastOrderAt:         a.LastOrderAt,
	}
}
