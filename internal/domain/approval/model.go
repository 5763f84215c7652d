package approval

import (
	"time"

	ierr "github.com/quotekit/quotekit/internal/errors"
	"github.com/quotekit/quotekit/internal/types"
	"github.com/shopspring/decimal"
)

// Settings holds the tenant's discount approval thresholds. All limits are
// inclusive: a discount exactly at a limit does not require approval. A
// tenant with no settings row never requires approval.
type Settings struct {
	ID string `db:"id" json:"id"`
	// Global thresholds applied to every user regardless of role
	MaxPercentWithoutApproval *decimal.Decimal `db:"max_percent_without_approval" json:"max_percent_without_approval,omitempty"`
	MaxAmountWithoutApproval  *decimal.Decimal `db:"max_amount_without_approval" json:"max_amount_without_approval,omitempty"`
	// OrderTotalThreshold forces approval on any manual discount once the
	// order total reaches it
	OrderTotalThreshold *decimal.Decimal `db:"order_total_threshold" json:"order_total_threshold,omitempty"`
	// RoleLimits maps a resolved role string to its own limits, checked
	// before the global thresholds
	RoleLimits           map[string]RoleLimit `db:"role_limits" json:"role_limits,omitempty"`
	EscalationAfterHours int                  `db:"escalation_after_hours" json:"escalation_after_hours"`
	AutoRejectAfterHours int                  `db:"auto_reject_after_hours" json:"auto_reject_after_hours"`
	// EscalationApprover receives requests still pending past the escalation
	// window
	EscalationApprover string `db:"escalation_approver" json:"escalation_approver,omitempty"`
	types.BaseModel
}

// RoleLimit is the per-role discount spending limit
type RoleLimit struct {
	MaxPercent *decimal.Decimal `json:"max_percent,omitempty"`
	MaxAmount  *decimal.Decimal `json:"max_amount,omitempty"`
}

// Decision is the outcome of an approval check. It is always produced; a
// missing configuration yields Required=false.
type Decision struct {
	Required bool   `json:"required"`
	Reason   string `json:"reason,omitempty"`
}

// Request is a pending human sign-off on a discount. See types.ApprovalStatus
// for the state machine.
type Request struct {
	ID       string `db:"id" json:"id"`
	ShortRef string `db:"short_ref" json:"short_ref"`

	ProposalID      string          `db:"proposal_id" json:"proposal_id"`
	RequestedBy     string          `db:"requested_by" json:"requested_by"`
	ApproverID      string          `db:"approver_id" json:"approver_id"`
	DiscountPercent decimal.Decimal `db:"discount_percent" json:"discount_percent"`
	DiscountAmount  decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	OrderTotal      decimal.Decimal `db:"order_total" json:"order_total"`
	Reason          string          `db:"reason" json:"reason"`

	ApprovalStatus types.ApprovalStatus `db:"approval_status" json:"approval_status"`
	Escalated      bool                 `db:"escalated" json:"escalated"`
	EscalatedAt    *time.Time           `db:"escalated_at" json:"escalated_at,omitempty"`

	ReviewedBy string     `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ReviewNote string     `db:"review_note" json:"review_note,omitempty"`

	// Counter-offer terms recorded when the reviewer counters rather than
	// approving as requested
	CounterPercent *decimal.Decimal `db:"counter_percent" json:"counter_percent,omitempty"`
	CounterAmount  *decimal.Decimal `db:"counter_amount" json:"counter_amount,omitempty"`

	types.BaseModel
}

func (r *Request) Validate() error {
	if r.ProposalID == "" {
		return ierr.NewError("proposal_id is required").
			WithHint("An approval request must reference a proposal").
			Mark(ierr.ErrValidation)
	}

	if r.RequestedBy == "" {
		return ierr.NewError("requested_by is required").
			WithHint("An approval request must record who asked for it").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// CanTransition reports whether the request may leave its current state.
// Terminal states are never re-enterable.
func (r *Request) CanTransition() bool {
	return r.ApprovalStatus == types.ApprovalStatusPending
}
