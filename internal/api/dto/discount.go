package dto

import (
	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/types"
	"github.com/quotekit/quotekit/internal/validator"
	"github.com/shopspring/decimal"
)

// ServiceLine is one itemized service on the proposal being priced
type ServiceLine struct {
	Type     string          `json:"type" validate:"required"`
	Name     string          `json:"name" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit,omitempty"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// ManualDiscountInput is a discount typed in by the acting user; percent and
// fixed are mutually exclusive
type ManualDiscountInput struct {
	Type   types.DiscountType `json:"type" validate:"required,oneof=percent fixed"`
	Value  decimal.Decimal    `json:"value" validate:"required"`
	Reason string             `json:"reason,omitempty"`
}

// DiscountContext is the input contract for one discount calculation. It is
// ephemeral: built per request from the proposal and customer, never stored.
type DiscountContext struct {
	TenantID   string `json:"tenant_id" validate:"required"`
	ProposalID string `json:"proposal_id,omitempty"`

	Subtotal    decimal.Decimal `json:"subtotal" validate:"required"`
	Services    []ServiceLine   `json:"services,omitempty"`
	PricingTier string          `json:"pricing_tier,omitempty"`

	CustomerID      string          `json:"customer_id,omitempty"`
	CustomerEmail   string          `json:"customer_email,omitempty"`
	IsNewCustomer   bool            `json:"is_new_customer"`
	PriorOrderCount int             `json:"prior_order_count"`
	LifetimeValue   decimal.Decimal `json:"lifetime_value"`

	PromoCode      string               `json:"promo_code,omitempty"`
	ManualDiscount *ManualDiscountInput `json:"manual_discount,omitempty"`

	UserID   string `json:"user_id,omitempty"`
	UserRole string `json:"user_role,omitempty"`
}

func (c *DiscountContext) Validate() error {
	if c.TenantID == "" {
		return ierr.NewError("tenant_id is required").
			WithHint("The calculation must be scoped to an organization").
			Mark(ierr.ErrValidation)
	}

	if c.Subtotal.IsNegative() {
		return ierr.NewError("subtotal cannot be negative").
			WithHint("The proposal subtotal must be zero or positive").
			WithReportableDetails(map[string]any{
				"subtotal": c.Subtotal,
			}).
			Mark(ierr.ErrValidation)
	}

	if c.ManualDiscount != nil {
		if !c.ManualDiscount.Type.Validate() {
			return ierr.NewError("invalid manual discount type").
				WithHint("Manual discount type must be percent or fixed").
				Mark(ierr.ErrValidation)
		}
		if c.ManualDiscount.Value.IsNegative() {
			return ierr.NewError("manual discount cannot be negative").
				WithHint("Manual discount value must be zero or positive").
				Mark(ierr.ErrValidation)
		}
		if c.ManualDiscount.Type == types.DiscountTypePercent && c.ManualDiscount.Value.GreaterThan(decimal.NewFromInt(100)) {
			return ierr.NewError("manual percent discount cannot exceed 100").
				WithHint("Percent discounts must be between 0 and 100").
				WithReportableDetails(map[string]any{
					"value": c.ManualDiscount.Value,
				}).
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}

// ServiceAreaTotal sums the quantity of services measured in the given unit
func (c *DiscountContext) ServiceAreaTotal(unit string) decimal.Decimal {
	total := decimal.Zero
	for _, svc := range c.Services {
		if svc.Unit == unit {
			total = total.Add(svc.Quantity)
		}
	}
	return total
}

// HasServiceType reports whether any service line carries the given type
func (c *DiscountContext) HasServiceType(serviceType string) bool {
	for _, svc := range c.Services {
		if svc.Type == serviceType {
			return true
		}
	}
	return false
}

// AvailableDiscount is one candidate the calculation considered, whether or
// not it ended up applied
type AvailableDiscount struct {
	Source   types.DiscountSource `json:"source"`
	SourceID string               `json:"source_id,omitempty"`
	Name     string               `json:"name"`
	Type     types.DiscountType   `json:"type"`
	Value    decimal.Decimal      `json:"value"`
	// EstimatedSavings is computed against the original subtotal
	EstimatedSavings decimal.Decimal `json:"estimated_savings"`
	Stackable        bool            `json:"stackable"`
	CanApply         bool            `json:"can_apply"`
	Reason           string          `json:"reason,omitempty"`
}

// AppliedDiscount is one discount committed to the final sequence, tagged
// with the subtotal it was computed against and its position in the order of
// application
type AppliedDiscount struct {
	Source            types.DiscountSource `json:"source"`
	SourceID          string               `json:"source_id,omitempty"`
	Name              string               `json:"name"`
	Type              types.DiscountType   `json:"type"`
	Value             decimal.Decimal      `json:"value"`
	Amount            decimal.Decimal      `json:"amount"`
	AppliedToSubtotal decimal.Decimal      `json:"applied_to_subtotal"`
	Position          int                  `json:"position"`
	RequiresApproval  bool                 `json:"requires_approval"`
}

// UpsellSuggestion nudges toward an available-but-unapplied discount; it
// never affects totals
type UpsellSuggestion struct {
	Type             string          `json:"type"`
	Message          string          `json:"message"`
	PotentialSavings decimal.Decimal `json:"potential_savings,omitempty"`
}

const (
	UpsellTypeNextVolumeTier    = "next_volume_tier"
	UpsellTypeServiceCombo      = "service_combo"
	UpsellTypeLoyaltyEnrollment = "loyalty_enrollment"
)

// DiscountCalculationResponse is the output contract of the orchestrator
type DiscountCalculationResponse struct {
	AvailableDiscounts []AvailableDiscount `json:"available_discounts"`
	AppliedDiscounts   []AppliedDiscount   `json:"applied_discounts"`
	OriginalSubtotal   decimal.Decimal     `json:"original_subtotal"`
	TotalDiscount      decimal.Decimal     `json:"total_discount"`
	FinalSubtotal      decimal.Decimal     `json:"final_subtotal"`
	RequiresApproval   bool                `json:"requires_approval"`
	ApprovalReason     string              `json:"approval_reason,omitempty"`
	UpsellSuggestions  []UpsellSuggestion  `json:"upsell_suggestions"`
}

// CodeValidationResult prices a single entered code. Valid=false carries a
// human-readable reason; it is a result value, not an error.
type CodeValidationResult struct {
	Valid             bool               `json:"valid"`
	Reason            string             `json:"reason,omitempty"`
	CodeID            string             `json:"code_id,omitempty"`
	Code              string             `json:"code,omitempty"`
	DiscountType      types.DiscountType `json:"discount_type,omitempty"`
	DiscountValue     decimal.Decimal    `json:"discount_value,omitempty"`
	MaxDiscountAmount *decimal.Decimal   `json:"max_discount_amount,omitempty"`
	DiscountAmount    decimal.Decimal    `json:"discount_amount,omitempty"`
}

// ValidateCodeRequest is the request to validate and price an entered code
type ValidateCodeRequest struct {
	TenantID      string          `json:"tenant_id" validate:"required"`
	Code          string          `json:"code" validate:"required"`
	CustomerID    string          `json:"customer_id,omitempty"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	OrderAmount   decimal.Decimal `json:"order_amount" validate:"required"`
}

func (r *ValidateCodeRequest) Validate() error {
	return validator.ValidateRequest(r)
}
