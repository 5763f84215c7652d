package types

import (
	"github.com/shopspring/decimal"
)

// DiscountType represents how a discount value is expressed (percent of the
// subtotal or a fixed amount)
type DiscountType string

const (
	// DiscountTypePercent represents a percentage-based discount
	DiscountTypePercent DiscountType = "percent"
	// DiscountTypeFixed represents a fixed amount discount
	DiscountTypeFixed DiscountType = "fixed"
)

func (t DiscountType) Validate() bool {
	return t == DiscountTypePercent || t == DiscountTypeFixed
}

// DiscountSource identifies which subsystem produced a candidate discount.
// The declaration order below is also the candidate discovery order used by
// the orchestrator, which breaks savings ties deterministically.
type DiscountSource string

const (
	DiscountSourceCampaign    DiscountSource = "seasonal_campaign"
	DiscountSourceAutoRule    DiscountSource = "auto_rule"
	DiscountSourceVolumeTier  DiscountSource = "volume_tier"
	DiscountSourceLoyaltyTier DiscountSource = "loyalty_tier"
	DiscountSourcePromoCode   DiscountSource = "promo_code"
	DiscountSourceManual      DiscountSource = "manual"
)

// MeasurementType scopes a volume tier set to what it measures
type MeasurementType string

const (
	// MeasurementTypeAmount measures the monetary subtotal
	MeasurementTypeAmount MeasurementType = "amount"
	// MeasurementTypeArea measures total service area (e.g. square feet)
	MeasurementTypeArea MeasurementType = "area"
	// MeasurementTypeQuantity measures total unit count
	MeasurementTypeQuantity MeasurementType = "quantity"
)

func (t MeasurementType) Validate() bool {
	switch t {
	case MeasurementTypeAmount, MeasurementTypeArea, MeasurementTypeQuantity:
		return true
	}
	return false
}

var hundred = decimal.NewFromInt(100)

// RoundToCents rounds a monetary amount to two decimal places using
// round-half-away-from-zero. All applied discount amounts pass through this
// before being subtracted from the running subtotal (round-then-subtract).
func RoundToCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// DiscountAmount computes the monetary effect of a discount against a
// subtotal. Percent discounts are clamped to maxAmount when present; no
// discount ever exceeds the subtotal it applies to, so the remaining amount
// cannot go negative. The result is rounded to cents and is never negative.
func DiscountAmount(discountType DiscountType, value decimal.Decimal, subtotal decimal.Decimal, maxAmount *decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal

	switch discountType {
	case DiscountTypePercent:
		amount = subtotal.Mul(value).Div(hundred)
		if maxAmount != nil && amount.GreaterThan(*maxAmount) {
			amount = *maxAmount
		}
	case DiscountTypeFixed:
		amount = value
	default:
		return decimal.Zero
	}

	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}

	amount = RoundToCents(amount)
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// Metadata is a type for key-value metadata attached to entities
type Metadata map[string]string
