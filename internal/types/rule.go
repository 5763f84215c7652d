package types

// RuleType tags the condition payload carried by an automatic discount rule.
// The evaluator matches exhaustively over these tags; a tag it does not
// recognize is skipped and surfaced as an anomaly, never silently matched.
type RuleType string

const (
	RuleTypeOrderMinimum    RuleType = "order_minimum"
	RuleTypeFirstOrder      RuleType = "first_order"
	RuleTypeRepeatCustomer  RuleType = "repeat_customer"
	RuleTypeServiceCombo    RuleType = "service_combo"
	RuleTypeServiceQuantity RuleType = "service_quantity"
	RuleTypeSeasonal        RuleType = "seasonal"
	RuleTypeDayOfWeek       RuleType = "day_of_week"
)

func (t RuleType) Validate() bool {
	switch t {
	case RuleTypeOrderMinimum, RuleTypeFirstOrder, RuleTypeRepeatCustomer,
		RuleTypeServiceCombo, RuleTypeServiceQuantity, RuleTypeSeasonal,
		RuleTypeDayOfWeek:
		return true
	}
	return false
}
