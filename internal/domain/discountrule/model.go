package discountrule

import (
	"time"

	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/types"
	"github.com/shopspring/decimal"
)

// AutoDiscountRule is an always-on, condition-driven discount. The condition
// payload is a tagged variant: exactly one case is set, matching RuleType.
type AutoDiscountRule struct {
	ID                string             `db:"id" json:"id"`
	Name              string             `db:"name" json:"name"`
	Description       string             `db:"description" json:"description"`
	RuleType          types.RuleType     `db:"rule_type" json:"rule_type"`
	Condition         Condition          `db:"condition" json:"condition"`
	DiscountType      types.DiscountType `db:"discount_type" json:"discount_type"`
	DiscountValue     decimal.Decimal    `db:"discount_value" json:"discount_value"`
	MaxDiscountAmount *decimal.Decimal   `db:"max_discount_amount" json:"max_discount_amount,omitempty"`
	// Priority orders evaluation and application; higher first
	Priority       int        `db:"priority" json:"priority"`
	Stackable      bool       `db:"stackable" json:"stackable"`
	StackWithCodes bool       `db:"stack_with_codes" json:"stack_with_codes"`
	StartsAt       *time.Time `db:"starts_at" json:"starts_at,omitempty"`
	ExpiresAt      *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	types.BaseModel
}

// Condition carries the per-tag payload. Exactly one field is non-nil and it
// must correspond to the rule's RuleType; Validate enforces the pairing so a
// rule can never carry a payload its tag does not understand.
type Condition struct {
	OrderMinimum    *OrderMinimumCondition    `json:"order_minimum,omitempty"`
	FirstOrder      *FirstOrderCondition      `json:"first_order,omitempty"`
	RepeatCustomer  *RepeatCustomerCondition  `json:"repeat_customer,omitempty"`
	ServiceCombo    *ServiceComboCondition    `json:"service_combo,omitempty"`
	ServiceQuantity *ServiceQuantityCondition `json:"service_quantity,omitempty"`
	Seasonal        *SeasonalCondition        `json:"seasonal,omitempty"`
	DayOfWeek       *DayOfWeekCondition       `json:"day_of_week,omitempty"`
}

// OrderMinimumCondition matches when the proposal subtotal meets a minimum
type OrderMinimumCondition struct {
	MinAmount decimal.Decimal `json:"min_amount"`
}

// FirstOrderCondition matches brand-new customers
type FirstOrderCondition struct{}

// RepeatCustomerCondition matches returning customers with at least
// MinPriorOrders completed orders (default 1)
type RepeatCustomerCondition struct {
	MinPriorOrders int `json:"min_prior_orders"`
}

// ServiceComboCondition matches when required service types appear among the
// proposal's services. MatchAny=false requires all of them.
type ServiceComboCondition struct {
	ServiceTypes []string `json:"service_types"`
	MatchAny     bool     `json:"match_any"`
}

// ServiceQuantityCondition matches when a named service's quantity meets a
// threshold
type ServiceQuantityCondition struct {
	ServiceName string          `json:"service_name"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
}

// SeasonalCondition matches when the current calendar month falls within
// [StartMonth, EndMonth] inclusive. A window with StartMonth > EndMonth
// (spanning the year boundary) never matches; wraparound semantics are
// unresolved product behavior and are deliberately not invented here.
type SeasonalCondition struct {
	StartMonth time.Month `json:"start_month"`
	EndMonth   time.Month `json:"end_month"`
}

// DayOfWeekCondition matches when the current weekday is in Days
type DayOfWeekCondition struct {
	Days []time.Weekday `json:"days"`
}

// IsWithinWindow reports whether the rule's validity window contains now
func (r *AutoDiscountRule) IsWithinWindow(now time.Time) bool {
	if r.StartsAt != nil && now.Before(*r.StartsAt) {
		return false
	}
	if r.ExpiresAt != nil && now.After(*r.ExpiresAt) {
		return false
	}
	return true
}

func (r *AutoDiscountRule) Validate() error {
	if r.Name == "" {
		return ierr.NewError("rule name is required").
			WithHint("Please provide a rule name").
			Mark(ierr.ErrValidation)
	}

	if !r.DiscountType.Validate() {
		return ierr.NewError("invalid discount type").
			WithHint("Discount type must be percent or fixed").
			Mark(ierr.ErrValidation)
	}

	if r.DiscountValue.IsNegative() || r.DiscountValue.IsZero() {
		return ierr.NewError("discount value must be positive").
			WithHint("Discount value must be greater than zero").
			Mark(ierr.ErrValidation)
	}

	if r.DiscountType == types.DiscountTypePercent && r.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return ierr.NewError("percent discount cannot exceed 100").
			WithHint("Percent discounts must be between 0 and 100").
			WithReportableDetails(map[string]any{
				"discount_value": r.DiscountValue,
			}).
			Mark(ierr.ErrValidation)
	}

	if !r.RuleType.Validate() {
		return ierr.NewError("unknown rule type").
			WithHint("Rule type is not supported").
			WithReportableDetails(map[string]any{
				"rule_type": r.RuleType,
			}).
			Mark(ierr.ErrValidation)
	}

	return r.validateCondition()
}

// validateCondition checks that the condition payload set matches RuleType
func (r *AutoDiscountRule) validateCondition() error {
	var ok bool
	switch r.RuleType {
	case types.RuleTypeOrderMinimum:
		ok = r.Condition.OrderMinimum != nil
	case types.RuleTypeFirstOrder:
		ok = r.Condition.FirstOrder != nil
	case types.RuleTypeRepeatCustomer:
		ok = r.Condition.RepeatCustomer != nil
	case types.RuleTypeServiceCombo:
		ok = r.Condition.ServiceCombo != nil && len(r.Condition.ServiceCombo.ServiceTypes) > 0
	case types.RuleTypeServiceQuantity:
		ok = r.Condition.ServiceQuantity != nil && r.Condition.ServiceQuantity.ServiceName != ""
	case types.RuleTypeSeasonal:
		ok = r.Condition.Seasonal != nil &&
			r.Condition.Seasonal.StartMonth >= time.January && r.Condition.Seasonal.StartMonth <= time.December &&
			r.Condition.Seasonal.EndMonth >= time.January && r.Condition.Seasonal.EndMonth <= time.December
	case types.RuleTypeDayOfWeek:
		ok = r.Condition.DayOfWeek != nil && len(r.Condition.DayOfWeek.Days) > 0
	}

	if !ok {
		return ierr.NewError("condition payload does not match rule type").
			WithHint("The rule's condition must carry the payload for its rule type").
			WithReportableDetails(map[string]any{
				"rule_type": r.RuleType,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
