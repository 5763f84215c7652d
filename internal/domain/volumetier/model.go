package volumetier

import (
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/types"
	"github.com/shopspring/decimal"
)

// TierSet is a bracketed volume discount configuration for one measurement
// type, optionally scoped to a single service type.
type TierSet struct {
	ID              string                `db:"id" json:"id"`
	Name            string                `db:"name" json:"name"`
	MeasurementType types.MeasurementType `db:"measurement_type" json:"measurement_type"`
	ServiceType     *string               `db:"service_type" json:"service_type,omitempty"`
	Tiers           []TierLevel           `db:"tiers" json:"tiers"`
	// Stackable is false in practice: volume tiers compete with the best
	// alternative rather than stacking
	Stackable bool `db:"stackable" json:"stackable"`
	types.BaseModel
}

// TierLevel is one bracket: [Min, Max] inclusive, Max nil on the last,
// unbounded bracket.
type TierLevel struct {
	Min             decimal.Decimal  `json:"min"`
	Max             *decimal.Decimal `json:"max,omitempty"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
}

// Contains reports whether value falls inside the bracket's inclusive bounds
func (t TierLevel) Contains(value decimal.Decimal) bool {
	if value.LessThan(t.Min) {
		return false
	}
	return t.Max == nil || value.LessThanOrEqual(*t.Max)
}

// Validate enforces the partition property: brackets cover the value space
// from the first bracket's Min upward with no overlap and no gap, each
// bracket's Max equal to the next bracket's Min (the in-order scan assigns a
// shared boundary to the lower bracket), and only the final bracket
// unbounded.
func (s *TierSet) Validate() error {
	if !s.MeasurementType.Validate() {
		return ierr.NewError("invalid measurement type").
			WithHint("Measurement type must be amount, area or quantity").
			WithReportableDetails(map[string]any{
				"measurement_type": s.MeasurementType,
			}).
			Mark(ierr.ErrValidation)
	}

	if len(s.Tiers) == 0 {
		return ierr.NewError("tier set requires at least one bracket").
			WithHint("Configure at least one volume bracket").
			Mark(ierr.ErrValidation)
	}

	for i, tier := range s.Tiers {
		if tier.DiscountPercent.IsNegative() {
			return ierr.NewError("bracket discount cannot be negative").
				WithHint("Bracket discounts must be zero or positive").
				Mark(ierr.ErrValidation)
		}

		last := i == len(s.Tiers)-1
		if last {
			if tier.Max != nil {
				return ierr.NewError("last bracket must be unbounded").
					WithHint("The final bracket's max must be open-ended").
					Mark(ierr.ErrValidation)
			}
			continue
		}

		if tier.Max == nil {
			return ierr.NewError("only the last bracket may be unbounded").
				WithHint("Every bracket except the last needs a max").
				WithReportableDetails(map[string]any{
					"bracket": i,
				}).
				Mark(ierr.ErrValidation)
		}

		if tier.Max.LessThanOrEqual(tier.Min) {
			return ierr.NewError("bracket max must exceed its min").
				WithHint("Each bracket must span a positive range").
				WithReportableDetails(map[string]any{
					"bracket": i,
					"min":     tier.Min,
					"max":     tier.Max,
				}).
				Mark(ierr.ErrValidation)
		}

		if !s.Tiers[i+1].Min.Equal(*tier.Max) {
			return ierr.NewError("brackets must be contiguous").
				WithHint("Each bracket's max must equal the next bracket's min").
				WithReportableDetails(map[string]any{
					"bracket":  i,
					"max":      tier.Max,
					"next_min": s.Tiers[i+1].Min,
				}).
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}

// Resolve scans brackets in order and returns the first one containing value,
// so a shared boundary always resolves to the lower bracket and every value
// at or above the first Min matches exactly one bracket.
func (s *TierSet) Resolve(value decimal.Decimal) (TierLevel, int, bool) {
	for i, tier := range s.Tiers {
		if tier.Contains(value) {
			return tier, i, true
		}
	}
	return TierLevel{}, -1, false
}
