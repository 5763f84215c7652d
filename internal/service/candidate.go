package service

import (
	"github.com/quotekit/quotekit/internal/types"
	"github.com/shopspring/decimal"
)

// Application priorities for candidates whose source has no configured
// priority of its own. Auto rules carry their own; these slot the remaining
// sources into the descending-priority application order of the stackable
// branch.
const (
	priorityCampaign    = 80
	priorityVolumeTier  = 60
	priorityLoyaltyTier = 40
	priorityPromoCode   = 20
)

// CandidateDiscount is a discount identified as eligible for one calculation
// but not yet committed to the applied sequence.
type CandidateDiscount struct {
	Source            types.DiscountSource
	SourceID          string
	Name              string
	DiscountType      types.DiscountType
	DiscountValue     decimal.Decimal
	MaxDiscountAmount *decimal.Decimal
	Stackable         bool
	// StackWithCodes only applies to auto rules: when false and a promo code
	// was entered, the rule competes instead of stacking
	StackWithCodes bool
	Priority       int
	// EstimatedSavings is always computed against the original subtotal so
	// candidates compare on equal footing
	EstimatedSavings decimal.Decimal
	CanApply         bool
	Reason           string
}

// estimate fills EstimatedSavings against the given subtotal
func (c *CandidateDiscount) estimate(subtotal decimal.Decimal) {
	c.EstimatedSavings = types.DiscountAmount(c.DiscountType, c.DiscountValue, subtotal, c.MaxDiscountAmount)
}
