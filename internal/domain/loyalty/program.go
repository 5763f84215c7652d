package loyalty

import (
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/types"
	"github.com/shopspring/decimal"
)

// Program is the tenant-wide loyalty configuration: how points are earned,
// redeemed, and which tiers they unlock.
type Program struct {
	ID              string          `db:"id" json:"id"`
	Name            string          `db:"name" json:"name"`
	PointsPerDollar decimal.Decimal `db:"points_per_dollar" json:"points_per_dollar"`
	SignupBonus     int             `db:"signup_bonus" json:"signup_bonus"`
	ReferralBonus   int             `db:"referral_bonus" json:"referral_bonus"`
	// RedemptionValue is the monetary value of one point when redeemed
	RedemptionValue decimal.Decimal `db:"redemption_value" json:"redemption_value"`
	MinRedeemPoints int             `db:"min_redeem_points" json:"min_redeem_points"`
	Tiers           []Tier          `db:"tiers" json:"tiers"`
	IsActive        bool            `db:"is_active" json:"is_active"`
	types.BaseModel
}

// Tier maps a lifetime-points threshold to a discount percent. Tiers are
// stored ascending by MinPoints with the first tier starting at zero so every
// point total resolves to exactly one tier.
type Tier struct {
	Name            string          `json:"name"`
	MinPoints       int             `json:"min_points"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

func (p *Program) Validate() error {
	if p.PointsPerDollar.IsNegative() {
		return ierr.NewError("points per dollar cannot be negative").
			WithHint("Earn rate must be zero or positive").
			Mark(ierr.ErrValidation)
	}

	if p.RedemptionValue.IsNegative() {
		return ierr.NewError("redemption value cannot be negative").
			WithHint("Redemption value must be zero or positive").
			Mark(ierr.ErrValidation)
	}

	if len(p.Tiers) == 0 {
		return ierr.NewError("program requires at least one tier").
			WithHint("Configure at least one loyalty tier").
			Mark(ierr.ErrValidation)
	}

	if p.Tiers[0].MinPoints != 0 {
		return ierr.NewError("first tier must start at zero points").
			WithHint("The lowest tier must cover customers with no points").
			WithReportableDetails(map[string]any{
				"min_points": p.Tiers[0].MinPoints,
			}).
			Mark(ierr.ErrValidation)
	}

	for i := 1; i < len(p.Tiers); i++ {
		if p.Tiers[i].MinPoints <= p.Tiers[i-1].MinPoints {
			return ierr.NewError("tier thresholds must be strictly increasing").
				WithHint("Each tier's minimum points must exceed the previous tier's").
				WithReportableDetails(map[string]any{
					"tier":       p.Tiers[i].Name,
					"min_points": p.Tiers[i].MinPoints,
				}).
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}

// TierFor resolves the highest tier whose MinPoints does not exceed
// lifetimeEarned. Assumes a validated program.
func (p *Program) TierFor(lifetimeEarned int) Tier {
	current := p.Tiers[0]
	for _, tier := range p.Tiers {
		if tier.MinPoints <= lifetimeEarned {
			current = tier
		}
	}
	return current
}
